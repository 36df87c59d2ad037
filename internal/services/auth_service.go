package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"bazaar/internal/apperr"
	"bazaar/internal/models"
	"bazaar/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles business logic for authentication and authorization.
// All roles share one account collection; the role is fixed at registration
// and carried in the token claims.
type AuthService struct {
	userRepo   repositories.UserRepository
	jwtSecret  []byte
	tokenDurat time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: 8 * time.Hour,
	}
}

// RegisterInput is the account registration request.
type RegisterInput struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

// AccountView is the safe projection of an account, without credentials.
type AccountView struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone,omitempty"`
	Address   string     `json:"address,omitempty"`
	Role      string     `json:"role"`
	Status    string     `json:"status,omitempty"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
}

// Register creates a new account with the given role and a bcrypt-hashed
// password. Duplicate emails are rejected.
func (s *AuthService) Register(ctx context.Context, input RegisterInput, role string) (*AccountView, error) {
	if !models.ValidRole(role) {
		return nil, apperr.Newf(apperr.Validation, "invalid role: %s", role)
	}

	if existing, err := s.userRepo.GetByEmail(ctx, input.Email); err == nil && existing != nil {
		return nil, apperr.New(apperr.Conflict, "email already registered")
	} else if err != nil && !errors.Is(err, repositories.ErrUserNotFound) {
		return nil, apperr.Wrap(err, apperr.Internal, "failed to check existing account")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.Internal, "failed to hash password")
	}

	user := &models.User{
		Name:     input.Name,
		Email:    input.Email,
		Password: string(hashedPassword),
		Phone:    input.Phone,
		Address:  input.Address,
		Role:     role,
	}
	if role == models.RoleSeller {
		user.Status = models.SellerStatusPending
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, apperr.Wrap(err, apperr.Internal, "failed to register account")
	}

	return accountView(user), nil
}

// Login authenticates an account and returns a signed JWT alongside the
// account's safe projection.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *AccountView, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		// Do not reveal whether the email exists.
		return "", nil, apperr.New(apperr.Unauthorized, "invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, apperr.New(apperr.Unauthorized, "invalid credentials")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":   user.ID.Hex(),
		"role": user.Role,
		"exp":  time.Now().Add(s.tokenDurat).Unix(),
		"iat":  time.Now().Unix(),
	})
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", nil, apperr.Wrap(err, apperr.Internal, "failed to generate token")
	}

	now := time.Now()
	user.LastLogin = &now
	if err := s.userRepo.Save(ctx, user); err != nil {
		log.Printf("Warning: failed to stamp last login for %s: %v", user.ID.Hex(), err)
	}

	return tokenString, accountView(user), nil
}

// ValidateToken parses and validates a JWT token, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, apperr.Wrap(err, apperr.Unauthorized, "invalid token")
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, apperr.New(apperr.Unauthorized, "invalid token")
}

// GetProfile returns the account's safe projection.
func (s *AuthService) GetProfile(ctx context.Context, userID string) (*AccountView, error) {
	id, err := parseID(userID, "user")
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperr.New(apperr.NotFound, "account not found")
		}
		return nil, apperr.Wrap(err, apperr.Internal, "failed to load account")
	}
	return accountView(user), nil
}

func accountView(user *models.User) *AccountView {
	return &AccountView{
		ID:        user.ID.Hex(),
		Name:      user.Name,
		Email:     user.Email,
		Phone:     user.Phone,
		Address:   user.Address,
		Role:      user.Role,
		Status:    user.Status,
		LastLogin: user.LastLogin,
	}
}
