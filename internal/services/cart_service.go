package services

import (
	"context"
	"errors"
	"time"

	"bazaar/internal/apperr"
	"bazaar/internal/models"
	"bazaar/internal/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartService handles the customer's single mutable cart. Stock is not
// reserved at cart time; availability is only decided at order placement.
type CartService struct {
	cartRepo    repositories.CartRepository
	productRepo repositories.ProductRepository
}

// NewCartService creates a new CartService.
func NewCartService(cartRepo repositories.CartRepository, productRepo repositories.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// CartItemView is one cart line enriched with live product data.
type CartItemView struct {
	ItemID    string   `json:"itemId"`
	ProductID string   `json:"productId"`
	Name      string   `json:"name"`
	Price     float64  `json:"price"`
	Quantity  int      `json:"quantity"`
	Images    []string `json:"images"`
}

// CartView is the populated cart returned to the customer.
type CartView struct {
	CartID      string         `json:"cartId,omitempty"`
	CustomerID  string         `json:"customerId"`
	Items       []CartItemView `json:"items"`
	TotalItems  int            `json:"totalItems"`
	TotalAmount float64        `json:"totalAmount"`
	UpdatedAt   *time.Time     `json:"updatedAt,omitempty"`
}

// AddItem puts quantity of a product into the customer's cart, merging into
// an existing line when the product is already present.
func (s *CartService) AddItem(ctx context.Context, customerID, productID string, quantity int) (*CartView, error) {
	custID, err := parseID(customerID, "customer")
	if err != nil {
		return nil, err
	}
	prodID, err := parseID(productID, "product")
	if err != nil {
		return nil, err
	}
	if quantity <= 0 {
		return nil, apperr.New(apperr.Validation, "quantity must be greater than zero")
	}

	if _, err := s.productRepo.GetByID(ctx, prodID); err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			return nil, apperr.New(apperr.NotFound, "product not found")
		}
		return nil, apperr.Wrap(err, apperr.Internal, "failed to load product")
	}

	cart, err := s.cartRepo.GetByCustomer(ctx, custID)
	if err != nil {
		if !errors.Is(err, repositories.ErrCartNotFound) {
			return nil, apperr.Wrap(err, apperr.Internal, "failed to load cart")
		}
		cart = &models.Cart{CustomerID: custID, Items: []models.CartItem{}}
	}

	if line := cart.FindItemByProduct(prodID); line != nil {
		line.Quantity += quantity
	} else {
		cart.Items = append(cart.Items, models.CartItem{
			ID:        primitive.NewObjectID(),
			ProductID: prodID,
			Quantity:  quantity,
			AddedAt:   time.Now(),
		})
	}

	if err := s.cartRepo.Save(ctx, cart); err != nil {
		return nil, apperr.Wrap(err, apperr.Internal, "failed to save cart")
	}

	return s.populate(ctx, cart), nil
}

// UpdateItemQuantity replaces the quantity of an existing cart line.
func (s *CartService) UpdateItemQuantity(ctx context.Context, customerID, itemID string, quantity int) (*CartView, error) {
	custID, err := parseID(customerID, "customer")
	if err != nil {
		return nil, err
	}
	lineID, err := parseID(itemID, "item")
	if err != nil {
		return nil, err
	}
	if quantity <= 0 {
		return nil, apperr.New(apperr.Validation, "quantity must be greater than zero")
	}

	cart, err := s.loadCart(ctx, custID)
	if err != nil {
		return nil, err
	}

	line := cart.FindItem(lineID)
	if line == nil {
		return nil, apperr.New(apperr.NotFound, "item not found")
	}
	line.Quantity = quantity

	if err := s.cartRepo.Save(ctx, cart); err != nil {
		return nil, apperr.Wrap(err, apperr.Internal, "failed to save cart")
	}

	return s.populate(ctx, cart), nil
}

// RemoveItem deletes a line from the cart.
func (s *CartService) RemoveItem(ctx context.Context, customerID, itemID string) (*CartView, error) {
	custID, err := parseID(customerID, "customer")
	if err != nil {
		return nil, err
	}
	lineID, err := parseID(itemID, "item")
	if err != nil {
		return nil, err
	}

	cart, err := s.loadCart(ctx, custID)
	if err != nil {
		return nil, err
	}

	if cart.FindItem(lineID) == nil {
		return nil, apperr.New(apperr.NotFound, "item not found")
	}
	items := cart.Items[:0]
	for _, line := range cart.Items {
		if line.ID != lineID {
			items = append(items, line)
		}
	}
	cart.Items = items

	if err := s.cartRepo.Save(ctx, cart); err != nil {
		return nil, apperr.Wrap(err, apperr.Internal, "failed to save cart")
	}

	return s.populate(ctx, cart), nil
}

// GetCart returns the customer's populated cart. A customer without a cart
// gets the empty-cart shape, not an error.
func (s *CartService) GetCart(ctx context.Context, customerID string) (*CartView, error) {
	custID, err := parseID(customerID, "customer")
	if err != nil {
		return nil, err
	}

	cart, err := s.cartRepo.GetByCustomer(ctx, custID)
	if err != nil {
		if errors.Is(err, repositories.ErrCartNotFound) {
			return &CartView{
				CustomerID: custID.Hex(),
				Items:      []CartItemView{},
			}, nil
		}
		return nil, apperr.Wrap(err, apperr.Internal, "failed to load cart")
	}

	return s.populate(ctx, cart), nil
}

func (s *CartService) loadCart(ctx context.Context, customerID primitive.ObjectID) (*models.Cart, error) {
	cart, err := s.cartRepo.GetByCustomer(ctx, customerID)
	if err != nil {
		if errors.Is(err, repositories.ErrCartNotFound) {
			return nil, apperr.New(apperr.NotFound, "cart not found")
		}
		return nil, apperr.Wrap(err, apperr.Internal, "failed to load cart")
	}
	return cart, nil
}

// populate enriches cart lines with live product name, price and images.
// A product pulled from the catalog mid-session leaves its line with zero
// price, matching the cart's role as a non-authoritative staging area.
func (s *CartService) populate(ctx context.Context, cart *models.Cart) *CartView {
	view := &CartView{
		CartID:     cart.ID.Hex(),
		CustomerID: cart.CustomerID.Hex(),
		Items:      make([]CartItemView, 0, len(cart.Items)),
	}
	if !cart.UpdatedAt.IsZero() {
		updatedAt := cart.UpdatedAt
		view.UpdatedAt = &updatedAt
	}

	for _, line := range cart.Items {
		item := CartItemView{
			ItemID:    line.ID.Hex(),
			ProductID: line.ProductID.Hex(),
			Quantity:  line.Quantity,
			Images:    []string{},
		}
		if product, err := s.productRepo.GetByID(ctx, line.ProductID); err == nil {
			item.Name = product.Name
			item.Price = product.Price
			item.Images = product.Images
		}
		view.Items = append(view.Items, item)
		view.TotalItems += line.Quantity
		view.TotalAmount += item.Price * float64(line.Quantity)
	}
	return view
}
