package bundle

import (
	"context"
	"errors"
	"fmt"
	"mixMatchBundles/domain"
	"mixMatchBundles/pkg/logger"
	"strings"

	"gorm.io/datatypes"
)

// BundleRepository contract interface
type BundleRepository interface {
	Create(ctx context.Context, bundle *domain.Bundle) error
	FindByID(ctx context.Context, id uint64) (domain.Bundle, error)
	FindAll(ctx context.Context, enabledOnly bool) ([]domain.Bundle, error)
	Update(ctx context.Context, bundle *domain.Bundle) error
	Delete(ctx context.Context, id uint64) error
}

type bundleService struct {
	bundleRepo BundleRepository
}

func NewBundleService(bundleRepo BundleRepository) *bundleService {
	return &bundleService{
		bundleRepo: bundleRepo,
	}
}

func (s *bundleService) ListBundles(ctx context.Context, enabledOnly bool) ([]domain.Bundle, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when listing bundles")
		return nil, fmt.Errorf("context error: %w", err)
	}

	bundles, err := s.bundleRepo.FindAll(ctx, enabledOnly)
	if err != nil {
		logger.Error("failed to list bundles", err)
		return nil, err
	}

	return bundles, nil
}

func (s *bundleService) GetBundle(ctx context.Context, id uint64) (*domain.Bundle, error) {
	if id == 0 {
		return nil, domain.ErrBundleNotFound
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	bundle, err := s.bundleRepo.FindByID(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrBundleNotFound) {
			logger.Error("failed to find bundle by id", "bundle_id", id, "error", err)
		}
		return nil, err
	}

	return &bundle, nil
}

func (s *bundleService) CreateBundle(ctx context.Context, bundle *domain.Bundle) (*domain.Bundle, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	if err := normalizeBundle(bundle); err != nil {
		logger.Warn("invalid bundle data", "error", err)
		return nil, err
	}

	bundle.ID = 0
	if err := s.bundleRepo.Create(ctx, bundle); err != nil {
		logger.Error("failed to create bundle", err)
		return nil, err
	}

	logger.Info("bundle created", "bundle_id", bundle.ID, "products", len(bundle.ProductIDs), "tiers", len(bundle.DiscountTiers))

	return bundle, nil
}

func (s *bundleService) UpdateBundle(ctx context.Context, bundle *domain.Bundle) (*domain.Bundle, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	if bundle.ID == 0 {
		return nil, domain.NewValidationError("id", "bundle id is required")
	}

	if err := normalizeBundle(bundle); err != nil {
		logger.Warn("invalid bundle data", "bundle_id", bundle.ID, "error", err)
		return nil, err
	}

	existing, err := s.bundleRepo.FindByID(ctx, bundle.ID)
	if err != nil {
		return nil, err
	}
	bundle.CreatedAt = existing.CreatedAt

	if err := s.bundleRepo.Update(ctx, bundle); err != nil {
		logger.Error("failed to update bundle", "bundle_id", bundle.ID, "error", err)
		return nil, err
	}

	updated, err := s.bundleRepo.FindByID(ctx, bundle.ID)
	if err != nil {
		logger.Error("failed to fetch updated bundle", err)
		return nil, fmt.Errorf("failed to fetch updated bundle: %w", err)
	}

	logger.Info("bundle updated", "bundle_id", bundle.ID)

	return &updated, nil
}

// DeleteBundle removes the bundle row only. Coupons and orders keep their
// bundle_id and readers treat it as a deleted bundle.
func (s *bundleService) DeleteBundle(ctx context.Context, id uint64) error {
	if id == 0 {
		return domain.ErrBundleNotFound
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := s.bundleRepo.Delete(ctx, id); err != nil {
		if !errors.Is(err, domain.ErrBundleNotFound) {
			logger.Error("failed to delete bundle", "bundle_id", id, "error", err)
		}
		return err
	}

	logger.Info("bundle deleted", "bundle_id", id)

	return nil
}

// normalizeBundle validates a bundle and puts it in stored form: trimmed
// text, de-duplicated product ids in first-seen order, tiers ascending.
func normalizeBundle(b *domain.Bundle) error {
	b.Name = strings.TrimSpace(b.Name)
	if b.Name == "" {
		return domain.NewValidationError("name", "bundle name is required")
	}

	seen := make(map[uint64]struct{}, len(b.ProductIDs))
	products := make([]uint64, 0, len(b.ProductIDs))
	for _, id := range b.ProductIDs {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		products = append(products, id)
	}
	if len(products) == 0 {
		return domain.NewValidationError("product_ids", "please select at least one product")
	}
	b.ProductIDs = datatypes.JSONSlice[uint64](products)

	if len(b.DiscountTiers) == 0 {
		return domain.NewValidationError("discount_tiers", "please add at least one discount tier")
	}
	quantities := make(map[int]struct{}, len(b.DiscountTiers))
	for _, tier := range b.DiscountTiers {
		if tier.Quantity < 1 {
			return domain.NewValidationError("discount_tiers", "tier quantity must be at least 1")
		}
		if tier.Discount < 0 || tier.Discount > 100 {
			return domain.NewValidationError("discount_tiers", "tier discount must be between 0 and 100")
		}
		if _, ok := quantities[tier.Quantity]; ok {
			return domain.NewValidationError("discount_tiers", fmt.Sprintf("duplicate tier for quantity %d", tier.Quantity))
		}
		quantities[tier.Quantity] = struct{}{}
	}
	b.DiscountTiers = datatypes.JSONSlice[domain.DiscountTier](domain.NormalizeTiers(b.DiscountTiers))

	if b.MaxQuantity < 0 {
		return domain.NewValidationError("max_quantity", "max quantity cannot be negative")
	}

	switch b.CartBehavior {
	case "":
		b.CartBehavior = domain.CartBehaviorSidecart
	case domain.CartBehaviorSidecart, domain.CartBehaviorRedirect:
	default:
		return domain.NewValidationError("cart_behavior", "cart behavior must be sidecart or redirect")
	}

	b.Description = strings.TrimSpace(b.Description)
	if strings.TrimSpace(b.ButtonText) == "" {
		b.ButtonText = "Add to cart"
	}

	return nil
}
