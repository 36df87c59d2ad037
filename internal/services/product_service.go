package services

import (
	"context"
	"errors"

	"bazaar/internal/apperr"
	"bazaar/internal/models"
	"bazaar/internal/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProductService handles business logic related to the product catalog.
type ProductService struct {
	productRepo  repositories.ProductRepository
	categoryRepo repositories.CategoryRepository
}

// NewProductService creates a new ProductService.
func NewProductService(productRepo repositories.ProductRepository, categoryRepo repositories.CategoryRepository) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

// ProductInput is the seller's create/update request.
type ProductInput struct {
	Name        string   `json:"name" validate:"required,min=3,max=100"`
	Description string   `json:"description" validate:"omitempty,max=500"`
	Price       float64  `json:"price" validate:"required,gt=0"`
	Stock       int      `json:"stock" validate:"gte=0"`
	CategoryID  string   `json:"categoryId" validate:"required"`
	Images      []string `json:"images"`
}

// ProductListView is a paginated product listing.
type ProductListView struct {
	Page     int64            `json:"page"`
	Limit    int64            `json:"limit"`
	Total    int64            `json:"total"`
	Products []models.Product `json:"products"`
}

// ListOptions narrows catalog listings.
type ListOptions struct {
	Page       int64
	Limit      int64
	Search     string
	CategoryID string
}

// CreateProduct adds a new product owned by the seller. The category must
// exist.
func (s *ProductService) CreateProduct(ctx context.Context, sellerID string, input ProductInput) (*models.Product, error) {
	sellID, err := parseID(sellerID, "seller")
	if err != nil {
		return nil, err
	}
	catID, err := s.resolveCategory(ctx, input.CategoryID)
	if err != nil {
		return nil, err
	}

	images := input.Images
	if images == nil {
		images = []string{}
	}
	product := &models.Product{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Stock:       input.Stock,
		Images:      images,
		CategoryID:  catID,
		SellerID:    sellID,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, apperr.Wrap(err, apperr.Internal, "failed to create product")
	}
	return product, nil
}

// GetProduct retrieves a single product.
func (s *ProductService) GetProduct(ctx context.Context, productID string) (*models.Product, error) {
	prodID, err := parseID(productID, "product")
	if err != nil {
		return nil, err
	}
	product, err := s.productRepo.GetByID(ctx, prodID)
	if err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			return nil, apperr.New(apperr.NotFound, "product not found")
		}
		return nil, apperr.Wrap(err, apperr.Internal, "failed to load product")
	}
	return product, nil
}

// ListProducts returns the public catalog listing.
func (s *ProductService) ListProducts(ctx context.Context, opts ListOptions) (*ProductListView, error) {
	filter := repositories.ProductFilter{
		Search: opts.Search,
		Page:   opts.Page,
		Limit:  opts.Limit,
	}
	if opts.CategoryID != "" {
		catID, err := parseID(opts.CategoryID, "category")
		if err != nil {
			return nil, err
		}
		filter.CategoryID = &catID
	}
	return s.list(ctx, filter)
}

// ListSellerProducts returns the seller's own products.
func (s *ProductService) ListSellerProducts(ctx context.Context, sellerID string, opts ListOptions) (*ProductListView, error) {
	sellID, err := parseID(sellerID, "seller")
	if err != nil {
		return nil, err
	}
	filter := repositories.ProductFilter{
		SellerID: &sellID,
		Search:   opts.Search,
		Page:     opts.Page,
		Limit:    opts.Limit,
	}
	return s.list(ctx, filter)
}

func (s *ProductService) list(ctx context.Context, filter repositories.ProductFilter) (*ProductListView, error) {
	products, total, err := s.productRepo.List(ctx, filter)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.Internal, "failed to list products")
	}
	if products == nil {
		products = []models.Product{}
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 10
	}
	return &ProductListView{
		Page:     page,
		Limit:    limit,
		Total:    total,
		Products: products,
	}, nil
}

// UpdateProductInput carries optional field updates; nil fields are left
// unchanged.
type UpdateProductInput struct {
	Name        *string  `json:"name" validate:"omitempty,min=3,max=100"`
	Description *string  `json:"description" validate:"omitempty,max=500"`
	Price       *float64 `json:"price" validate:"omitempty,gt=0"`
	Stock       *int     `json:"stock" validate:"omitempty,gte=0"`
	CategoryID  *string  `json:"categoryId"`
	Images      []string `json:"images"`
}

// UpdateProduct modifies a product owned by the seller.
func (s *ProductService) UpdateProduct(ctx context.Context, sellerID, productID string, input UpdateProductInput) (*models.Product, error) {
	product, err := s.sellerProduct(ctx, sellerID, productID)
	if err != nil {
		return nil, err
	}

	if input.CategoryID != nil {
		catID, err := s.resolveCategory(ctx, *input.CategoryID)
		if err != nil {
			return nil, err
		}
		product.CategoryID = catID
	}
	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Price != nil {
		if *input.Price <= 0 {
			return nil, apperr.New(apperr.Validation, "price must be greater than zero")
		}
		product.Price = *input.Price
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			return nil, apperr.New(apperr.Validation, "stock cannot be negative")
		}
		product.Stock = *input.Stock
	}
	if input.Images != nil {
		product.Images = input.Images
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, apperr.Wrap(err, apperr.Internal, "failed to update product")
	}
	return product, nil
}

// DeleteProduct removes a product owned by the seller.
func (s *ProductService) DeleteProduct(ctx context.Context, sellerID, productID string) error {
	product, err := s.sellerProduct(ctx, sellerID, productID)
	if err != nil {
		return err
	}
	if err := s.productRepo.Delete(ctx, product.ID); err != nil {
		return apperr.Wrap(err, apperr.Internal, "failed to delete product")
	}
	return nil
}

// StockView is the result of a stock update.
type StockView struct {
	ProductID string `json:"id"`
	Stock     int    `json:"stock"`
}

// UpdateStock sets the absolute stock level of a product owned by the seller.
func (s *ProductService) UpdateStock(ctx context.Context, sellerID, productID string, stock int) (*StockView, error) {
	if stock < 0 {
		return nil, apperr.New(apperr.Validation, "stock cannot be negative")
	}
	product, err := s.sellerProduct(ctx, sellerID, productID)
	if err != nil {
		return nil, err
	}
	product.Stock = stock
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, apperr.Wrap(err, apperr.Internal, "failed to update stock")
	}
	return &StockView{ProductID: product.ID.Hex(), Stock: product.Stock}, nil
}

// sellerProduct loads a product and enforces seller ownership; someone
// else's product is indistinguishable from a missing one.
func (s *ProductService) sellerProduct(ctx context.Context, sellerID, productID string) (*models.Product, error) {
	sellID, err := parseID(sellerID, "seller")
	if err != nil {
		return nil, err
	}
	prodID, err := parseID(productID, "product")
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.GetByID(ctx, prodID)
	if err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			return nil, apperr.New(apperr.NotFound, "product not found")
		}
		return nil, apperr.Wrap(err, apperr.Internal, "failed to load product")
	}
	if product.SellerID != sellID {
		return nil, apperr.New(apperr.NotFound, "product not found")
	}
	return product, nil
}

func (s *ProductService) resolveCategory(ctx context.Context, categoryID string) (primitive.ObjectID, error) {
	catID, err := parseID(categoryID, "category")
	if err != nil {
		return primitive.NilObjectID, err
	}
	if _, err := s.categoryRepo.GetByID(ctx, catID); err != nil {
		if errors.Is(err, repositories.ErrCategoryNotFound) {
			return primitive.NilObjectID, apperr.New(apperr.NotFound, "category not found")
		}
		return primitive.NilObjectID, apperr.Wrap(err, apperr.Internal, "failed to load category")
	}
	return catID, nil
}
