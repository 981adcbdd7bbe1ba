package product

import (
	"context"
	"errors"
	"fmt"
	"mixMatchBundles/domain"
	"mixMatchBundles/pkg/logger"
	"strings"
)

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 100
)

// ProductRepository contract interface
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	FindByID(ctx context.Context, id uint64) (domain.Product, error)
	FindAll(ctx context.Context) ([]domain.Product, error)
	Search(ctx context.Context, query string, limit int) ([]domain.Product, error)
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id uint64) error
}

type productService struct {
	productRepo ProductRepository
}

func NewProductService(productRepo ProductRepository) *productService {
	return &productService{
		productRepo: productRepo,
	}
}

func (s *productService) GetAllProducts(ctx context.Context) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when get all product")
		return nil, fmt.Errorf("context error: %w", err)
	}

	products, err := s.productRepo.FindAll(ctx)
	if err != nil {
		logger.Error("Failed to find all product", err)
		return nil, err
	}

	return products, nil
}

func (s *productService) GetProductByID(ctx context.Context, id uint64) (*domain.Product, error) {
	if id == 0 {
		return nil, domain.ErrProductNotFound
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return &product, nil
}

// SearchProducts returns sellable products whose name or SKU matches query.
func (s *productService) SearchProducts(ctx context.Context, query string, limit int) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.NewValidationError("q", "search term is required")
	}

	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	products, err := s.productRepo.Search(ctx, query, limit)
	if err != nil {
		logger.Error("failed to search products", "query", query, "error", err)
		return nil, err
	}

	sellable := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if p.IsSellable() {
			sellable = append(sellable, p)
		}
	}

	return sellable, nil
}

// ResolveSellable returns the concrete item a shopper buys: the variation when
// variationID is set, otherwise the base product. The variation must belong
// to productID.
func (s *productService) ResolveSellable(ctx context.Context, productID, variationID uint64) (domain.Product, error) {
	if productID == 0 {
		return domain.Product{}, domain.ErrProductNotFound
	}

	id := productID
	if variationID != 0 {
		id = variationID
	}

	item, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}

	if variationID != 0 && item.ParentID != productID {
		return domain.Product{}, domain.ErrProductNotFound
	}

	if !item.IsSellable() {
		return domain.Product{}, domain.ErrProductNotForSale
	}

	return item, nil
}

func (s *productService) CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when create product")
		return nil, fmt.Errorf("context error: %w", err)
	}

	if err := validateProduct(product); err != nil {
		logger.Warn("Invalid product data", "error", err)
		return nil, err
	}

	if product.ParentID != 0 {
		if _, err := s.productRepo.FindByID(ctx, product.ParentID); err != nil {
			return nil, domain.NewValidationError("parent_id", "parent product does not exist")
		}
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		logger.Error("failed to create new product", err)
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	logger.Info("product created successfully", "product_id", product.ID)

	return product, nil
}

func (s *productService) UpdateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when updating product")
		return nil, fmt.Errorf("context error: %w", err)
	}

	if product.ID == 0 {
		return nil, domain.NewValidationError("id", "product ID is required")
	}

	if err := validateProduct(product); err != nil {
		logger.Warn("Invalid product data", "error", err)
		return nil, err
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		if !errors.Is(err, domain.ErrProductNotFound) {
			logger.Error("failed to update product", err)
		}
		return nil, err
	}

	updatedProduct, err := s.productRepo.FindByID(ctx, product.ID)
	if err != nil {
		logger.Error("failed to fetch updated product", err)
		return nil, fmt.Errorf("failed to fetch updated product: %w", err)
	}

	logger.Info("product updated success", "product_id", product.ID)

	return &updatedProduct, nil
}

func (s *productService) DeleteProduct(ctx context.Context, id uint64) error {
	if id == 0 {
		return domain.ErrProductNotFound
	}

	if err := ctx.Err(); err != nil {
		logger.Error("context error when deleting product")
		return fmt.Errorf("context error: %w", err)
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		if !errors.Is(err, domain.ErrProductNotFound) {
			logger.Error("failed to delete product", err)
		}
		return err
	}

	logger.Info("product deleted success", "product_id", id)

	return nil
}

func validateProduct(product *domain.Product) error {
	product.Name = strings.TrimSpace(product.Name)
	if product.Name == "" {
		return domain.NewValidationError("name", "product name is required")
	}

	if product.Price.IsNegative() {
		return domain.NewValidationError("price", "price cannot be negative")
	}

	if product.StockQuantity < 0 {
		return domain.NewValidationError("stock_quantity", "stock quantity cannot be negative")
	}

	switch product.Status {
	case "":
		product.Status = domain.ProductStatusPublish
	case domain.ProductStatusPublish, domain.ProductStatusDraft:
	default:
		return domain.NewValidationError("status", "status must be publish or draft")
	}

	return nil
}
