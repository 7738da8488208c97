package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/shopdesk/app/models"
	"github.com/shashiranjanraj/shopdesk/app/repositories"
	"github.com/shashiranjanraj/shopdesk/pkg/cache"
	"github.com/shashiranjanraj/shopdesk/pkg/logger"
	"github.com/shashiranjanraj/shopdesk/pkg/metrics"
)

// CartLine is one entry of the POS cart.
type CartLine struct {
	ProductID uint `json:"productId"`
	Quantity  int  `json:"quantity"`
}

// Customer carries the free-text delivery details typed at the POS.
type Customer struct {
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	Branch        string `json:"branch"`
	Transport     string `json:"transport"`
	PaymentMethod string `json:"paymentMethod"`
}

type CheckoutRequest struct {
	Cart     []CartLine `json:"cart"`
	Customer Customer   `json:"customer"`
}

// Validate runs the checks that need no database access.
func (r *CheckoutRequest) Validate() error {
	if len(r.Cart) == 0 {
		return ErrEmptyCart
	}
	if strings.TrimSpace(r.Customer.Name) == "" {
		return ErrMissingCustomerName
	}
	for _, line := range r.Cart {
		if line.Quantity <= 0 {
			return ErrInvalidQuantity
		}
	}
	return nil
}

// CheckoutService turns a cart into a persisted order.
type CheckoutService struct {
	db       *gorm.DB
	cache    cache.Store
	products *repositories.ProductRepository
	orders   *repositories.OrderRepository
}

func NewCheckoutService(db *gorm.DB, store cache.Store) *CheckoutService {
	return &CheckoutService{
		db:       db,
		cache:    store,
		products: repositories.NewProductRepository(db),
		orders:   repositories.NewOrderRepository(db),
	}
}

// Checkout validates the cart against current stock, decrements stock and
// stores the order with its items. Either all of it happens or none of it.
func (s *CheckoutService) Checkout(ctx context.Context, req CheckoutRequest) (orderID uint, err error) {
	start := time.Now()
	defer func() { metrics.ObserveCheckout(checkoutResult(err), start) }()

	if err := req.Validate(); err != nil {
		return 0, err
	}

	// quantities per product across the whole cart, in first-seen order
	wanted := make(map[uint]int, len(req.Cart))
	var ids []uint
	for _, line := range req.Cart {
		if _, seen := wanted[line.ProductID]; !seen {
			ids = append(ids, line.ProductID)
		}
		wanted[line.ProductID] = addQuantity(wanted[line.ProductID], line.Quantity)
	}

	order := &models.Order{
		PaymentStatus:     models.StatusPending,
		OrderStatus:       models.StatusPending,
		CustomerName:      strings.TrimSpace(req.Customer.Name),
		CustomerPhone:     strings.TrimSpace(req.Customer.Phone),
		CustomerAddress:   strings.TrimSpace(req.Customer.Address),
		DestinationBranch: strings.TrimSpace(req.Customer.Branch),
		TransportCompany:  strings.TrimSpace(req.Customer.Transport),
		PaymentMethod:     strings.TrimSpace(req.Customer.PaymentMethod),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		products := s.products.WithTx(tx)

		found := make(map[uint]*models.Product, len(ids))
		for _, id := range ids {
			p, err := products.Find(ctx, id)
			if errors.Is(err, repositories.ErrNotFound) {
				return &CheckoutError{Err: ErrProductNotFound, ProductID: id}
			}
			if err != nil {
				return err
			}
			if p.Stock < wanted[id] {
				return &CheckoutError{
					Err:         ErrInsufficientStock,
					ProductID:   p.ID,
					ProductName: p.Name,
					Requested:   wanted[id],
					Available:   p.Stock,
				}
			}
			found[id] = p
		}

		total := decimal.Zero
		for _, line := range req.Cart {
			p := found[line.ProductID]
			pid := p.ID
			item := models.OrderItem{
				ProductID:       &pid,
				ProductName:     p.Name,
				Quantity:        line.Quantity,
				PriceAtPurchase: p.Price,
				CostAtPurchase:  p.Cost,
			}
			total = total.Add(item.Subtotal())
			order.Items = append(order.Items, item)
		}
		order.TotalPrice = total

		for _, id := range ids {
			ok, err := products.DecrementStock(ctx, id, wanted[id])
			if err != nil {
				return err
			}
			if !ok {
				// stock moved between the read and the guarded update
				return &CheckoutError{
					Err:         ErrInsufficientStock,
					ProductID:   id,
					ProductName: found[id].Name,
					Requested:   wanted[id],
					Available:   found[id].Stock,
				}
			}
		}

		return s.orders.WithTx(tx).Create(ctx, order)
	})
	if err != nil {
		var ce *CheckoutError
		if errors.As(err, &ce) {
			return 0, err
		}
		return 0, fmt.Errorf("checkout: %w", err)
	}

	forgetProducts(ctx, s.cache)
	logger.WithCtx(ctx).Info("checkout completed",
		"order_id", order.ID,
		"items", len(order.Items),
		"total", order.TotalPrice.StringFixed(2),
	)
	return order.ID, nil
}

// addQuantity saturates at math.MaxInt, which no stock count reaches.
func addQuantity(total, n int) int {
	if n > math.MaxInt-total {
		return math.MaxInt
	}
	return total + n
}

func checkoutResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, ErrProductNotFound):
		return "product_not_found"
	case errors.Is(err, ErrEmptyCart), errors.Is(err, ErrMissingCustomerName), errors.Is(err, ErrInvalidQuantity):
		return "invalid"
	default:
		return "error"
	}
}
