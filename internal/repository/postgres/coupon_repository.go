package postgres

import (
	"context"
	"errors"
	"fmt"
	"mixMatchBundles/domain"
	"time"

	"gorm.io/gorm"
)

type CouponRepository struct {
	DB *gorm.DB
}

func NewCouponRepository(db *gorm.DB) *CouponRepository {
	return &CouponRepository{
		DB: db,
	}
}

func (r *CouponRepository) Create(ctx context.Context, coupon *domain.Coupon) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	err := withSchemaRepair(r.DB, func() error {
		return r.DB.WithContext(ctx).Create(coupon).Error
	})
	if err != nil {
		return fmt.Errorf("failed to create coupon: %w", err)
	}

	return nil
}

func (r *CouponRepository) FindByCode(ctx context.Context, code string) (domain.Coupon, error) {
	if err := ctx.Err(); err != nil {
		return domain.Coupon{}, fmt.Errorf("context error: %w", err)
	}

	var coupon domain.Coupon

	err := r.DB.WithContext(ctx).Where("code = ?", code).First(&coupon).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Coupon{}, domain.ErrCouponNotFound
		}
		return domain.Coupon{}, fmt.Errorf("failed to find coupon: %w", err)
	}

	return coupon, nil
}

// FindByPrefix lists coupons whose code starts with prefix, oldest first.
func (r *CouponRepository) FindByPrefix(ctx context.Context, prefix string) ([]domain.Coupon, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var coupons []domain.Coupon
	err := r.DB.WithContext(ctx).
		Where("code LIKE ?", escapeLike(prefix)+"%").
		Order("created_at").
		Find(&coupons).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find coupons: %w", err)
	}

	return coupons, nil
}

func (r *CouponRepository) MarkSuperseded(ctx context.Context, code string, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).
		Model(&domain.Coupon{}).
		Where("code = ? AND superseded_at IS NULL", code).
		Update("superseded_at", at)
	if result.Error != nil {
		return fmt.Errorf("failed to supersede coupon: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrCouponNotFound
	}

	return nil
}

// redeemCoupon bumps usage_count in place so concurrent orders don't
// overwrite each other. A coupon that is gone, superseded or at its usage
// limit is not redeemed.
func redeemCoupon(tx *gorm.DB, code string) error {
	result := tx.Model(&domain.Coupon{}).
		Where("code = ? AND superseded_at IS NULL AND (usage_limit <= 0 OR usage_count < usage_limit)", code).
		UpdateColumn("usage_count", gorm.Expr("usage_count + ?", 1))
	if result.Error != nil {
		return fmt.Errorf("failed to record coupon usage: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("coupon %s: %w", code, domain.ErrCouponUnavailable)
	}

	return nil
}

func (r *CouponRepository) Delete(ctx context.Context, id uint64) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).Delete(&domain.Coupon{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete coupon: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrCouponNotFound
	}

	return nil
}
