package postgres

import (
	"context"
	"errors"
	"fmt"
	"mixMatchBundles/domain"

	"gorm.io/gorm"
)

type BundleRepository struct {
	DB *gorm.DB
}

func NewBundleRepository(db *gorm.DB) *BundleRepository {
	return &BundleRepository{
		DB: db,
	}
}

func (r *BundleRepository) Create(ctx context.Context, bundle *domain.Bundle) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	err := withSchemaRepair(r.DB, func() error {
		return r.DB.WithContext(ctx).Create(bundle).Error
	})
	if err != nil {
		return fmt.Errorf("failed to create bundle: %w", err)
	}

	return nil
}

func (r *BundleRepository) FindByID(ctx context.Context, id uint64) (domain.Bundle, error) {
	if err := ctx.Err(); err != nil {
		return domain.Bundle{}, fmt.Errorf("context error: %w", err)
	}

	var bundle domain.Bundle

	err := withSchemaRepair(r.DB, func() error {
		return r.DB.WithContext(ctx).First(&bundle, id).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Bundle{}, domain.ErrBundleNotFound
		}
		return domain.Bundle{}, fmt.Errorf("failed to find bundle: %w", err)
	}

	return bundle, nil
}

func (r *BundleRepository) FindAll(ctx context.Context, enabledOnly bool) ([]domain.Bundle, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var bundles []domain.Bundle

	err := withSchemaRepair(r.DB, func() error {
		q := r.DB.WithContext(ctx).Order("id")
		if enabledOnly {
			q = q.Where("enabled = ?", true)
		}
		return q.Find(&bundles).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to find bundles: %w", err)
	}

	return bundles, nil
}

func (r *BundleRepository) Update(ctx context.Context, bundle *domain.Bundle) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	var result *gorm.DB
	err := withSchemaRepair(r.DB, func() error {
		result = r.DB.WithContext(ctx).
			Model(&domain.Bundle{}).
			Where("id = ?", bundle.ID).
			Select("*").
			Omit("id", "created_at").
			Updates(bundle)
		return result.Error
	})
	if err != nil {
		return fmt.Errorf("failed to update bundle: %w", err)
	}
	if result.RowsAffected == 0 {
		return domain.ErrBundleNotFound
	}

	return nil
}

func (r *BundleRepository) Delete(ctx context.Context, id uint64) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).Delete(&domain.Bundle{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete bundle: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrBundleNotFound
	}

	return nil
}
