package services

import (
	"context"
	"fmt"
	"io"
	"strings"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/shopdesk/app/models"
	"github.com/shashiranjanraj/shopdesk/app/repositories"
	"github.com/shashiranjanraj/shopdesk/pkg/logger"
	"github.com/shashiranjanraj/shopdesk/pkg/spreadsheet"
)

// OrderColumns is the header of the orders export.
var OrderColumns = []string{"Order ID", "Date", "Customer", "Total Price", "Payment Status", "Order Status"}

const orderDateLayout = "2006-01-02 15:04:05"

// OrderService covers everything that happens to an order after checkout.
type OrderService struct {
	db *gorm.DB
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db}
}

func (s *OrderService) repo() *repositories.OrderRepository {
	return repositories.NewOrderRepository(s.db)
}

// List returns all orders, newest first.
func (s *OrderService) List(ctx context.Context) ([]models.Order, error) {
	return s.repo().All(ctx)
}

func (s *OrderService) Get(ctx context.Context, id uint) (*models.Order, error) {
	return s.repo().Find(ctx, id)
}

// UpdateOrderStatus sets the fulfillment status. A blank status leaves the
// order untouched but still reports a missing order.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, id uint, status string) error {
	status = strings.TrimSpace(status)
	if status == "" {
		_, err := s.repo().Find(ctx, id)
		return err
	}
	if err := s.repo().UpdateOrderStatus(ctx, id, status); err != nil {
		return err
	}
	logger.WithCtx(ctx).Info("order status changed", "order_id", id, "order_status", status)
	return nil
}

// UpdatePaymentStatus sets the payment status; blank is a no-op.
func (s *OrderService) UpdatePaymentStatus(ctx context.Context, id uint, status string) error {
	status = strings.TrimSpace(status)
	if status == "" {
		_, err := s.repo().Find(ctx, id)
		return err
	}
	if err := s.repo().UpdatePaymentStatus(ctx, id, status); err != nil {
		return err
	}
	logger.WithCtx(ctx).Info("payment status changed", "order_id", id, "payment_status", status)
	return nil
}

// Delete removes the order and its items. Stock is not put back.
func (s *OrderService) Delete(ctx context.Context, id uint) error {
	if err := s.repo().Delete(ctx, id); err != nil {
		return err
	}
	logger.WithCtx(ctx).Info("order deleted", "order_id", id)
	return nil
}

// Summary returns sales, cost and gross profit over paid orders.
func (s *OrderService) Summary(ctx context.Context) (repositories.SalesSummary, error) {
	sum, err := s.repo().Summary(ctx)
	if err != nil {
		return sum, fmt.Errorf("sales summary: %w", err)
	}
	return sum, nil
}

// Export writes one row per order with OrderColumns as header.
func (s *OrderService) Export(ctx context.Context, w io.Writer, format spreadsheet.Format) error {
	orders, err := s.repo().All(ctx)
	if err != nil {
		return fmt.Errorf("export orders: %w", err)
	}

	rows := make([][]interface{}, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, []interface{}{
			o.ID,
			o.OrderDate.Format(orderDateLayout),
			o.CustomerName,
			o.TotalPrice.InexactFloat64(),
			o.PaymentStatus,
			o.OrderStatus,
		})
	}

	if err := spreadsheet.Write(w, format, "Orders", OrderColumns, rows); err != nil {
		return fmt.Errorf("export orders: %w", err)
	}
	return nil
}
