package coupon

import (
	"context"
	"errors"
	"fmt"
	"mixMatchBundles/domain"
	"mixMatchBundles/pkg/logger"
	"mixMatchBundles/pkg/metrics"
	"sort"
	"time"
)

type CouponRepository interface {
	FindByPrefix(ctx context.Context, prefix string) ([]domain.Coupon, error)
	Delete(ctx context.Context, id uint64) error
}

type BundleRepository interface {
	FindByID(ctx context.Context, id uint64) (domain.Bundle, error)
}

// ResultCache holds the latest sweep result. Get returns nil, nil on a miss.
type ResultCache interface {
	GetSweepResult(ctx context.Context) (*domain.SweepResult, error)
	SaveSweepResult(ctx context.Context, result domain.SweepResult, ttl time.Duration) error
}

type JanitorOptions struct {
	Prefix   string
	MaxAge   time.Duration
	CacheTTL time.Duration
}

type JanitorService struct {
	couponRepo CouponRepository
	bundleRepo BundleRepository
	cache      ResultCache
	opts       JanitorOptions
	now        func() time.Time
}

func NewJanitorService(couponRepo CouponRepository, bundleRepo BundleRepository, cache ResultCache, opts JanitorOptions) *JanitorService {
	if opts.MaxAge <= 0 {
		opts.MaxAge = 24 * time.Hour
	}

	return &JanitorService{
		couponRepo: couponRepo,
		bundleRepo: bundleRepo,
		cache:      cache,
		opts:       opts,
		now:        time.Now,
	}
}

// Sweep deletes synthetic coupons older than MaxAge that were never used.
// A result computed within CacheTTL is returned instead of sweeping again.
func (s *JanitorService) Sweep(ctx context.Context) (domain.SweepResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.SweepResult{}, fmt.Errorf("context error: %w", err)
	}

	cached, err := s.cache.GetSweepResult(ctx)
	if err != nil {
		logger.Warn("failed to read cached sweep result", "error", err)
	}
	if cached != nil {
		cached.Cached = true
		return *cached, nil
	}

	coupons, err := s.couponRepo.FindByPrefix(ctx, s.opts.Prefix)
	if err != nil {
		return domain.SweepResult{}, err
	}

	now := s.now().UTC()
	result := domain.SweepResult{RanAt: now}

	for _, c := range coupons {
		if now.Sub(c.CreatedAt) < s.opts.MaxAge {
			result.SkippedCount++
			metrics.JanitorCoupons.WithLabelValues("skipped").Inc()
			continue
		}

		if c.IsUsed() {
			result.KeptCount++
			metrics.JanitorCoupons.WithLabelValues("kept").Inc()
			continue
		}

		if err := s.couponRepo.Delete(ctx, c.ID); err != nil {
			logger.Error("failed to delete expired bundle coupon", "coupon", c.Code, "error", err)
			metrics.JanitorCoupons.WithLabelValues("failed").Inc()
			continue
		}
		result.DeletedCount++
		metrics.JanitorCoupons.WithLabelValues("deleted").Inc()
	}

	if s.opts.CacheTTL > 0 {
		if err := s.cache.SaveSweepResult(ctx, result, s.opts.CacheTTL); err != nil {
			logger.Warn("failed to cache sweep result", "error", err)
		}
	}

	logger.Info("coupon sweep finished",
		"deleted", result.DeletedCount,
		"kept", result.KeptCount,
		"skipped", result.SkippedCount,
	)

	return result, nil
}

// Run sweeps once immediately and then every interval until ctx is done.
func (s *JanitorService) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := s.Sweep(ctx); err != nil && ctx.Err() == nil {
			logger.Error("coupon sweep failed", "error", err)
		}

		select {
		case <-ctx.Done():
			logger.Info("coupon janitor stopped")
			return
		case <-ticker.C:
		}
	}
}

// Summary groups synthetic coupons by bundle, ordered by bundle id.
func (s *JanitorService) Summary(ctx context.Context) ([]domain.CouponSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	coupons, err := s.couponRepo.FindByPrefix(ctx, s.opts.Prefix)
	if err != nil {
		return nil, err
	}

	byBundle := make(map[uint64]*domain.CouponSummary)
	for _, c := range coupons {
		row, ok := byBundle[c.BundleID]
		if !ok {
			row = &domain.CouponSummary{BundleID: c.BundleID}
			byBundle[c.BundleID] = row
		}

		row.Created++
		if c.IsUsed() {
			row.Used++
			row.UsedAmount = row.UsedAmount.Add(c.Amount)
		} else {
			row.Outstanding++
		}
	}

	out := make([]domain.CouponSummary, 0, len(byBundle))
	for id, row := range byBundle {
		b, err := s.bundleRepo.FindByID(ctx, id)
		switch {
		case err == nil:
			row.BundleName = b.Name
		case errors.Is(err, domain.ErrBundleNotFound):
			row.BundleDeleted = true
		default:
			return nil, err
		}
		out = append(out, *row)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].BundleID < out[j].BundleID
	})

	return out, nil
}
