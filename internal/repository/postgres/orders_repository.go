package postgres

import (
	"context"
	"errors"
	"fmt"
	"mixMatchBundles/domain"

	"gorm.io/gorm"
)

type OrdersRepository struct {
	DB *gorm.DB
}

func NewOrdersRepository(db *gorm.DB) *OrdersRepository {
	return &OrdersRepository{
		DB: db,
	}
}

// CreateOrder stores the order and redeems its coupons in one transaction:
// either both happen or neither does.
func (r *OrdersRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	err := withSchemaRepair(r.DB, func() error {
		return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			for _, code := range order.CouponCodes {
				if err := redeemCoupon(tx, code); err != nil {
					return err
				}
			}

			return tx.Create(order).Error
		})
	})
	if err != nil {
		if errors.Is(err, domain.ErrCouponUnavailable) {
			return err
		}
		return fmt.Errorf("failed to create order: %w", err)
	}

	return nil
}

func (r *OrdersRepository) GetAllOrders(ctx context.Context) ([]domain.Order, error) {
	var orders []domain.Order
	err := r.DB.WithContext(ctx).Order("created_at DESC").Find(&orders).Error
	if err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *OrdersRepository) GetOrder(ctx context.Context, id uint64) (domain.Order, error) {
	var order domain.Order
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, err
	}

	return order, nil
}
