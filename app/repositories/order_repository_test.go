package repositories_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/shopdesk/app/models"
	"github.com/shashiranjanraj/shopdesk/app/repositories"
	"github.com/shashiranjanraj/shopdesk/internal/testdb"
)

func newOrder(payment string, items ...models.OrderItem) *models.Order {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal())
	}
	return &models.Order{
		TotalPrice:    total,
		PaymentStatus: payment,
		OrderStatus:   models.StatusPending,
		CustomerName:  "Somchai",
		Items:         items,
	}
}

func item(name string, qty int, price, cost int64) models.OrderItem {
	return models.OrderItem{
		ProductName:     name,
		Quantity:        qty,
		PriceAtPurchase: decimal.NewFromInt(price),
		CostAtPurchase:  decimal.NewFromInt(cost),
	}
}

func TestOrderRepositoryCreateAndFind(t *testing.T) {
	repo := repositories.NewOrderRepository(testdb.Open(t))
	ctx := context.Background()

	o := newOrder(models.StatusPending, item("Rice", 2, 50, 30), item("Soap", 1, 12, 6))
	require.NoError(t, repo.Create(ctx, o))
	require.NotZero(t, o.ID)

	got, err := repo.Find(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "Somchai", got.CustomerName)
	assert.True(t, decimal.NewFromInt(112).Equal(got.TotalPrice))
	assert.False(t, got.OrderDate.IsZero())
	require.Len(t, got.Items, 2)
	assert.Equal(t, "Rice", got.Items[0].ProductName)
	assert.Equal(t, 3, got.ItemCount())

	_, err = repo.Find(ctx, 999)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestOrderRepositoryAllNewestFirst(t *testing.T) {
	db := testdb.Open(t)
	repo := repositories.NewOrderRepository(db)
	ctx := context.Background()

	older := newOrder(models.StatusPending, item("a", 1, 1, 1))
	require.NoError(t, repo.Create(ctx, older))
	require.NoError(t, db.Model(older).UpdateColumn("order_date", time.Now().Add(-time.Hour)).Error)

	newer := newOrder(models.StatusPending, item("b", 1, 1, 1))
	require.NoError(t, repo.Create(ctx, newer))

	all, err := repo.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, newer.ID, all[0].ID)
	assert.Equal(t, older.ID, all[1].ID)
	assert.Len(t, all[0].Items, 1)
}

func TestOrderRepositoryStatusUpdatesAreIndependent(t *testing.T) {
	repo := repositories.NewOrderRepository(testdb.Open(t))
	ctx := context.Background()

	o := newOrder(models.StatusPending, item("a", 1, 1, 1))
	require.NoError(t, repo.Create(ctx, o))

	require.NoError(t, repo.UpdatePaymentStatus(ctx, o.ID, models.PaymentPaid))
	got, err := repo.Find(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, got.PaymentStatus)
	assert.Equal(t, models.StatusPending, got.OrderStatus)

	require.NoError(t, repo.UpdateOrderStatus(ctx, o.ID, "Shipped"))
	got, err = repo.Find(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, got.PaymentStatus)
	assert.Equal(t, "Shipped", got.OrderStatus)

	assert.ErrorIs(t, repo.UpdateOrderStatus(ctx, 999, "Shipped"), repositories.ErrNotFound)
	assert.ErrorIs(t, repo.UpdatePaymentStatus(ctx, 999, "Paid"), repositories.ErrNotFound)
}

func TestOrderRepositoryDeleteRemovesItems(t *testing.T) {
	db := testdb.Open(t)
	repo := repositories.NewOrderRepository(db)
	ctx := context.Background()

	o := newOrder(models.StatusPending, item("a", 1, 1, 1), item("b", 2, 1, 1))
	require.NoError(t, repo.Create(ctx, o))

	require.NoError(t, repo.Delete(ctx, o.ID))

	var items int64
	require.NoError(t, db.Model(&models.OrderItem{}).Where("order_id = ?", o.ID).Count(&items).Error)
	assert.Zero(t, items)

	_, err := repo.Find(ctx, o.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, o.ID), repositories.ErrNotFound)
}

func TestOrderRepositorySummaryCountsPaidOnly(t *testing.T) {
	repo := repositories.NewOrderRepository(testdb.Open(t))
	ctx := context.Background()

	empty, err := repo.Summary(ctx)
	require.NoError(t, err)
	assert.True(t, empty.TotalSales.IsZero())
	assert.True(t, empty.TotalCost.IsZero())

	require.NoError(t, repo.Create(ctx, newOrder(models.PaymentPaid, item("a", 2, 50, 30))))
	require.NoError(t, repo.Create(ctx, newOrder(models.PaymentPaid, item("b", 1, 20, 5), item("c", 3, 10, 4))))
	require.NoError(t, repo.Create(ctx, newOrder(models.StatusPending, item("d", 9, 100, 90))))

	s, err := repo.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, "150", s.TotalSales.String())
	assert.Equal(t, "77", s.TotalCost.String())
	assert.Equal(t, "73", s.GrossProfit().String())
}
