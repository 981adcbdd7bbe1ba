package pricing

import (
	"context"
	"errors"
	"fmt"
	"mixMatchBundles/business/bundle"
	"mixMatchBundles/domain"
	"mixMatchBundles/pkg/logger"
	"mixMatchBundles/pkg/metrics"

	"github.com/shopspring/decimal"
)

type BundleRepository interface {
	FindByID(ctx context.Context, id uint64) (domain.Bundle, error)
}

// Catalog resolves a selection to the concrete sellable item.
type Catalog interface {
	ResolveSellable(ctx context.Context, productID, variationID uint64) (domain.Product, error)
}

type PricingService struct {
	bundleRepo BundleRepository
	catalog    Catalog
	precision  int32
}

func NewPricingService(bundleRepo BundleRepository, catalog Catalog, precision int32) *PricingService {
	return &PricingService{
		bundleRepo: bundleRepo,
		catalog:    catalog,
		precision:  precision,
	}
}

// Preview prices a candidate selection of an enabled bundle.
//
// Every selection must name a product of the bundle. Selections that resolve
// to nothing sellable are left out of Products and Subtotal but still count
// towards ItemCount: the tier is chosen from the number of selections the
// shopper made, not the number that could be priced.
func (s *PricingService) Preview(ctx context.Context, bundleID uint64, selections []domain.Selection) (domain.PreviewResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.PreviewResult{}, fmt.Errorf("context error: %w", err)
	}

	b, err := s.bundleRepo.FindByID(ctx, bundleID)
	if err != nil {
		return domain.PreviewResult{}, err
	}
	if !b.Enabled {
		return domain.PreviewResult{}, domain.ErrBundleNotFound
	}

	if err := checkSelectionMode(b, selections); err != nil {
		return domain.PreviewResult{}, err
	}

	for _, sel := range selections {
		if !b.HasProduct(sel.ProductID) {
			return domain.PreviewResult{}, domain.NewValidationError("selections", fmt.Sprintf("product %d is not part of this bundle", sel.ProductID))
		}
	}

	products := make([]domain.PreviewProduct, 0, len(selections))
	subtotal := decimal.Zero

	for _, sel := range selections {
		item, err := s.catalog.ResolveSellable(ctx, sel.ProductID, sel.VariationID)
		if err != nil {
			if errors.Is(err, domain.ErrProductNotFound) || errors.Is(err, domain.ErrProductNotForSale) {
				logger.Debug("unsellable selection skipped", "bundle_id", bundleID, "product_id", sel.ProductID, "variation_id", sel.VariationID)
				continue
			}
			return domain.PreviewResult{}, err
		}

		products = append(products, domain.PreviewProduct{
			ID:    item.ID,
			Name:  item.Name,
			Price: item.Price,
		})
		subtotal = subtotal.Add(item.Price)
	}

	subtotal = subtotal.Round(s.precision)
	itemCount := len(selections)
	tier := bundle.ResolveTier(b.DiscountTiers, itemCount)
	discount := bundle.DiscountAmount(subtotal, tier, s.precision)

	metrics.PreviewRequests.WithLabelValues(decimal.NewFromFloat(tier.Discount).String()).Inc()

	return domain.PreviewResult{
		BundleID:           b.ID,
		Products:           products,
		Subtotal:           subtotal,
		DiscountPercentage: tier.Discount,
		DiscountAmount:     discount,
		TotalPrice:         subtotal.Sub(discount),
		ItemCount:          itemCount,
		Tier:               tier,
	}, nil
}

// checkSelectionMode enforces single-select bundles: each item at most once,
// and no more than MaxQuantity items when a cap is set.
func checkSelectionMode(b domain.Bundle, selections []domain.Selection) error {
	if b.UseQuantity {
		return nil
	}

	if b.MaxQuantity > 0 && len(selections) > b.MaxQuantity {
		return domain.NewValidationError("selections", fmt.Sprintf("you can select at most %d items", b.MaxQuantity))
	}

	seen := make(map[domain.Selection]struct{}, len(selections))
	for _, sel := range selections {
		if _, ok := seen[sel]; ok {
			return domain.NewValidationError("selections", "each item can only be selected once")
		}
		seen[sel] = struct{}{}
	}

	return nil
}
