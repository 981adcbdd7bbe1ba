//go:build !integration

package product

import (
	"context"
	"mixMatchBundles/domain"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProductRepo struct {
	rows   map[uint64]domain.Product
	nextID uint64
}

func newFakeProductRepo(products ...domain.Product) *fakeProductRepo {
	r := &fakeProductRepo{rows: make(map[uint64]domain.Product)}
	for _, p := range products {
		r.rows[p.ID] = p
		if p.ID > r.nextID {
			r.nextID = p.ID
		}
	}
	return r
}

func (r *fakeProductRepo) Create(ctx context.Context, p *domain.Product) error {
	r.nextID++
	p.ID = r.nextID
	r.rows[p.ID] = *p
	return nil
}

func (r *fakeProductRepo) FindByID(ctx context.Context, id uint64) (domain.Product, error) {
	p, ok := r.rows[id]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return p, nil
}

func (r *fakeProductRepo) FindAll(ctx context.Context) ([]domain.Product, error) {
	var out []domain.Product
	for _, p := range r.rows {
		out = append(out, p)
	}
	return out, nil
}

func (r *fakeProductRepo) Search(ctx context.Context, query string, limit int) ([]domain.Product, error) {
	var out []domain.Product
	for id := uint64(1); id <= r.nextID; id++ {
		p, ok := r.rows[id]
		if ok && strings.Contains(strings.ToLower(p.Name), strings.ToLower(query)) {
			out = append(out, p)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *fakeProductRepo) Update(ctx context.Context, p *domain.Product) error {
	if _, ok := r.rows[p.ID]; !ok {
		return domain.ErrProductNotFound
	}
	r.rows[p.ID] = *p
	return nil
}

func (r *fakeProductRepo) Delete(ctx context.Context, id uint64) error {
	if _, ok := r.rows[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(r.rows, id)
	return nil
}

func sellable(id uint64, name string, price int64) domain.Product {
	return domain.Product{
		ID:          id,
		Name:        name,
		Price:       decimal.NewFromInt(price),
		Purchasable: true,
		Status:      domain.ProductStatusPublish,
	}
}

func TestResolveSellable(t *testing.T) {
	shirt := sellable(1, "Shirt", 20)
	red := sellable(2, "Shirt - red", 22)
	red.ParentID = 1
	mug := sellable(3, "Mug", 8)
	mug.ManageStock = true
	mug.StockQuantity = 0
	draft := sellable(4, "Draft", 5)
	draft.Status = domain.ProductStatusDraft

	svc := NewProductService(newFakeProductRepo(shirt, red, mug, draft))
	ctx := context.Background()

	got, err := svc.ResolveSellable(ctx, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, "Shirt", got.Name)

	got, err = svc.ResolveSellable(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, "Shirt - red", got.Name)

	_, err = svc.ResolveSellable(ctx, 3, 2)
	assert.ErrorIs(t, err, domain.ErrProductNotFound, "variation of another product")

	_, err = svc.ResolveSellable(ctx, 3, 0)
	assert.ErrorIs(t, err, domain.ErrProductNotForSale, "out of stock")

	_, err = svc.ResolveSellable(ctx, 4, 0)
	assert.ErrorIs(t, err, domain.ErrProductNotForSale, "draft")

	_, err = svc.ResolveSellable(ctx, 99, 0)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestSearchProducts_OnlySellable(t *testing.T) {
	hidden := sellable(2, "Green tea (hidden)", 4)
	hidden.Purchasable = false
	svc := NewProductService(newFakeProductRepo(
		sellable(1, "Green tea", 3),
		hidden,
		sellable(3, "Black tea", 3),
	))

	got, err := svc.SearchProducts(context.Background(), "green", 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, uint64(1), got[0].ID)
}

func TestSearchProducts_RequiresQuery(t *testing.T) {
	svc := NewProductService(newFakeProductRepo())
	_, err := svc.SearchProducts(context.Background(), "   ", 10)
	assert.True(t, domain.IsValidationError(err))
}

func TestCreateProduct_Validation(t *testing.T) {
	svc := NewProductService(newFakeProductRepo())
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, &domain.Product{Name: ""})
	assert.True(t, domain.IsValidationError(err))

	_, err = svc.CreateProduct(ctx, &domain.Product{Name: "x", Price: decimal.NewFromInt(-1)})
	assert.True(t, domain.IsValidationError(err))

	_, err = svc.CreateProduct(ctx, &domain.Product{Name: "x", ParentID: 77})
	assert.True(t, domain.IsValidationError(err))

	created, err := svc.CreateProduct(ctx, &domain.Product{Name: " Tea ", Price: decimal.NewFromInt(3), Purchasable: true})
	require.NoError(t, err)
	assert.Equal(t, "Tea", created.Name)
	assert.Equal(t, domain.ProductStatusPublish, created.Status)
}
