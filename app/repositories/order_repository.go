package repositories

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/shopdesk/app/models"
)

// SalesSummary aggregates paid orders for the dashboard.
type SalesSummary struct {
	TotalSales decimal.Decimal
	TotalCost  decimal.Decimal
}

// GrossProfit is sales minus cost.
func (s SalesSummary) GrossProfit() decimal.Decimal {
	return s.TotalSales.Sub(s.TotalCost)
}

// OrderRepository handles database operations for Order and its items.
type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// WithTx returns a copy bound to tx.
func (r *OrderRepository) WithTx(tx *gorm.DB) *OrderRepository {
	return &OrderRepository{db: tx}
}

// Create inserts the order together with its items.
func (r *OrderRepository) Create(ctx context.Context, o *models.Order) error {
	return translate(r.db.WithContext(ctx).Create(o).Error)
}

// All returns every order, newest first, with items loaded.
func (r *OrderRepository) All(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Order("order_date DESC").
		Order("id DESC").
		Find(&orders).Error
	return orders, err
}

// Find returns one order with its items in insertion order.
func (r *OrderRepository) Find(ctx context.Context, id uint) (*models.Order, error) {
	var o models.Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&o, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &o, nil
}

func (r *OrderRepository) UpdateOrderStatus(ctx context.Context, id uint, status string) error {
	return r.updateColumn(ctx, id, "order_status", status)
}

func (r *OrderRepository) UpdatePaymentStatus(ctx context.Context, id uint, status string) error {
	return r.updateColumn(ctx, id, "payment_status", status)
}

func (r *OrderRepository) updateColumn(ctx context.Context, id uint, column, value string) error {
	if _, err := r.find(ctx, id); err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		UpdateColumn(column, value).Error
}

// Delete removes the order and all of its items. Stock is not restored.
func (r *OrderRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Order{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// Summary sums revenue and cost over orders whose payment status is Paid.
func (r *OrderRepository) Summary(ctx context.Context) (SalesSummary, error) {
	var s SalesSummary
	db := r.db.WithContext(ctx)

	err := db.Model(&models.Order{}).
		Select("COALESCE(SUM(total_price), 0)").
		Where("payment_status = ?", models.PaymentPaid).
		Row().Scan(&s.TotalSales)
	if err != nil {
		return s, err
	}

	err = db.Table("order_items").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.payment_status = ?", models.PaymentPaid).
		Select("COALESCE(SUM(order_items.cost_at_purchase * order_items.quantity), 0)").
		Row().Scan(&s.TotalCost)
	if err != nil {
		return s, err
	}

	s.TotalSales = s.TotalSales.Round(2)
	s.TotalCost = s.TotalCost.Round(2)
	return s, nil
}

func (r *OrderRepository) find(ctx context.Context, id uint) (*models.Order, error) {
	var o models.Order
	if err := r.db.WithContext(ctx).First(&o, id).Error; err != nil {
		return nil, translate(err)
	}
	return &o, nil
}
