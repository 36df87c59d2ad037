package services

import (
	"context"
	"errors"

	"bazaar/internal/apperr"
	"bazaar/internal/models"
	"bazaar/internal/repositories"
)

// AdminService handles business logic for the admin moderation surface:
// account listing and removal, seller approval, and catalog cleanup.
type AdminService struct {
	userRepo    repositories.UserRepository
	productRepo repositories.ProductRepository
}

// NewAdminService creates a new AdminService.
func NewAdminService(userRepo repositories.UserRepository, productRepo repositories.ProductRepository) *AdminService {
	return &AdminService{
		userRepo:    userRepo,
		productRepo: productRepo,
	}
}

// AccountListView is a paginated account listing without credentials.
type AccountListView struct {
	Page       int64         `json:"page"`
	Limit      int64         `json:"limit"`
	Total      int64         `json:"total"`
	TotalPages int64         `json:"totalPages"`
	Accounts   []AccountView `json:"accounts"`
}

// ListAccounts returns accounts, optionally narrowed to one role, with a
// name/email search term.
func (s *AdminService) ListAccounts(ctx context.Context, role string, page, limit int64, search string) (*AccountListView, error) {
	if role != "" && !models.ValidRole(role) {
		return nil, apperr.Newf(apperr.Validation, "invalid role: %s", role)
	}

	users, total, err := s.userRepo.List(ctx, repositories.UserFilter{
		Role:   role,
		Search: search,
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		return nil, apperr.Wrap(err, apperr.Internal, "failed to list accounts")
	}

	accounts := make([]AccountView, 0, len(users))
	for i := range users {
		accounts = append(accounts, *accountView(&users[i]))
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return &AccountListView{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: (total + limit - 1) / limit,
		Accounts:   accounts,
	}, nil
}

// GetAccount returns one account's safe projection.
func (s *AdminService) GetAccount(ctx context.Context, userID string) (*AccountView, error) {
	user, err := s.loadUser(ctx, userID, "")
	if err != nil {
		return nil, err
	}
	return accountView(user), nil
}

// UpdateAccountInput is a partial account update applied by an admin.
// Credentials and role are out of scope: passwords move only through the
// auth flows and the role is fixed at registration.
type UpdateAccountInput struct {
	Name    *string `json:"name" validate:"omitempty,min=2,max=100"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

// UpdateAccount applies the non-nil fields of input to an account.
func (s *AdminService) UpdateAccount(ctx context.Context, userID string, input UpdateAccountInput) (*AccountView, error) {
	user, err := s.loadUser(ctx, userID, "")
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}
	if input.Address != nil {
		user.Address = *input.Address
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, apperr.Wrap(err, apperr.Internal, "failed to update account")
	}
	return accountView(user), nil
}

// DeleteAccount removes a customer or seller account. Admin accounts cannot
// be removed through this surface.
func (s *AdminService) DeleteAccount(ctx context.Context, userID string) error {
	user, err := s.loadUser(ctx, userID, "")
	if err != nil {
		return err
	}
	if user.Role == models.RoleAdmin {
		return apperr.New(apperr.Conflict, "admin accounts cannot be removed")
	}
	if err := s.userRepo.Delete(ctx, user.ID); err != nil {
		return apperr.Wrap(err, apperr.Internal, "failed to delete account")
	}
	return nil
}

// UpdateSellerStatus approves or rejects a seller account. A rejection may
// carry a reason; approval clears any previous one.
func (s *AdminService) UpdateSellerStatus(ctx context.Context, sellerID, status, reason string) (*AccountView, error) {
	if !models.ValidSellerStatus(status) {
		return nil, apperr.Newf(apperr.Validation, "invalid seller status: %s", status)
	}

	seller, err := s.loadUser(ctx, sellerID, models.RoleSeller)
	if err != nil {
		return nil, err
	}

	seller.Status = status
	if status == models.SellerStatusRejected {
		seller.RejectionReason = reason
	} else {
		seller.RejectionReason = ""
	}
	if err := s.userRepo.Save(ctx, seller); err != nil {
		return nil, apperr.Wrap(err, apperr.Internal, "failed to update seller status")
	}
	return accountView(seller), nil
}

// DeleteSeller removes a seller account.
func (s *AdminService) DeleteSeller(ctx context.Context, sellerID string) error {
	seller, err := s.loadUser(ctx, sellerID, models.RoleSeller)
	if err != nil {
		return err
	}
	if err := s.userRepo.Delete(ctx, seller.ID); err != nil {
		return apperr.Wrap(err, apperr.Internal, "failed to delete seller")
	}
	return nil
}

// RemoveProduct deletes any product from the catalog, regardless of owner.
func (s *AdminService) RemoveProduct(ctx context.Context, productID string) error {
	prodID, err := parseID(productID, "product")
	if err != nil {
		return err
	}
	if err := s.productRepo.Delete(ctx, prodID); err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			return apperr.New(apperr.NotFound, "product not found")
		}
		return apperr.Wrap(err, apperr.Internal, "failed to delete product")
	}
	return nil
}

// loadUser fetches an account, optionally requiring a role. A role mismatch
// reads as not-found so the surface does not leak account existence.
func (s *AdminService) loadUser(ctx context.Context, userID, role string) (*models.User, error) {
	entity := "user"
	if role != "" {
		entity = role
	}
	id, err := parseID(userID, entity)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperr.Newf(apperr.NotFound, "%s not found", entity)
		}
		return nil, apperr.Wrap(err, apperr.Internal, "failed to load account")
	}
	if role != "" && user.Role != role {
		return nil, apperr.Newf(apperr.NotFound, "%s not found", entity)
	}
	return user, nil
}
