package services_test

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/shopdesk/app/models"
	"github.com/shashiranjanraj/shopdesk/app/repositories"
	"github.com/shashiranjanraj/shopdesk/app/services"
	"github.com/shashiranjanraj/shopdesk/internal/testdb"
	"github.com/shashiranjanraj/shopdesk/pkg/cache"
)

type CheckoutSuite struct {
	suite.Suite
	db    *gorm.DB
	cache *cache.Memory
	svc   *services.CheckoutService
	ctx   context.Context
}

func TestCheckoutService(t *testing.T) {
	suite.Run(t, new(CheckoutSuite))
}

func (s *CheckoutSuite) SetupTest() {
	s.db = testdb.Open(s.T())
	s.cache = cache.NewMemory()
	s.svc = services.NewCheckoutService(s.db, s.cache)
	s.ctx = context.Background()
}

func (s *CheckoutSuite) request(lines ...services.CartLine) services.CheckoutRequest {
	return services.CheckoutRequest{
		Cart: lines,
		Customer: services.Customer{
			Name:          "  Noy  ",
			Phone:         "020 555 1234",
			Branch:        "Vientiane",
			Transport:     "HAL",
			PaymentMethod: "Transfer",
		},
	}
}

func (s *CheckoutSuite) TestSuccessfulCheckout() {
	p := seedProduct(s.T(), s.db, "A-1", "Rice", 50, 30, 10)

	id, err := s.svc.Checkout(s.ctx, s.request(services.CartLine{ProductID: p.ID, Quantity: 2}))
	s.Require().NoError(err)
	s.NotZero(id)

	s.Equal(8, stockOf(s.T(), s.db, p.ID))

	o, err := repositories.NewOrderRepository(s.db).Find(s.ctx, id)
	s.Require().NoError(err)
	s.Equal("100", o.TotalPrice.String())
	s.Equal("Noy", o.CustomerName)
	s.Equal("Vientiane", o.DestinationBranch)
	s.Equal(models.StatusPending, o.PaymentStatus)
	s.Equal(models.StatusPending, o.OrderStatus)
	s.Require().Len(o.Items, 1)
	s.Equal("Rice", o.Items[0].ProductName)
	s.Equal(2, o.Items[0].Quantity)
	s.True(decimal.NewFromInt(50).Equal(o.Items[0].PriceAtPurchase))
	s.True(decimal.NewFromInt(30).Equal(o.Items[0].CostAtPurchase))
	s.Require().NotNil(o.Items[0].ProductID)
	s.Equal(p.ID, *o.Items[0].ProductID)
}

func (s *CheckoutSuite) TestMultipleProducts() {
	a := seedProduct(s.T(), s.db, "A", "Rice", 50, 30, 10)
	b := seedProduct(s.T(), s.db, "B", "Soap", 12, 6, 4)

	id, err := s.svc.Checkout(s.ctx, s.request(
		services.CartLine{ProductID: a.ID, Quantity: 1},
		services.CartLine{ProductID: b.ID, Quantity: 4},
	))
	s.Require().NoError(err)

	o, err := repositories.NewOrderRepository(s.db).Find(s.ctx, id)
	s.Require().NoError(err)
	s.Equal("98", o.TotalPrice.String())
	s.Len(o.Items, 2)
	s.Equal(9, stockOf(s.T(), s.db, a.ID))
	s.Equal(0, stockOf(s.T(), s.db, b.ID))
}

func (s *CheckoutSuite) TestValidationFailuresTouchNothing() {
	p := seedProduct(s.T(), s.db, "A", "Rice", 50, 30, 10)

	_, err := s.svc.Checkout(s.ctx, s.request())
	s.ErrorIs(err, services.ErrEmptyCart)

	req := s.request(services.CartLine{ProductID: p.ID, Quantity: 1})
	req.Customer.Name = "   "
	_, err = s.svc.Checkout(s.ctx, req)
	s.ErrorIs(err, services.ErrMissingCustomerName)

	_, err = s.svc.Checkout(s.ctx, s.request(services.CartLine{ProductID: p.ID, Quantity: 0}))
	s.ErrorIs(err, services.ErrInvalidQuantity)

	_, err = s.svc.Checkout(s.ctx, s.request(services.CartLine{ProductID: p.ID, Quantity: -3}))
	s.ErrorIs(err, services.ErrInvalidQuantity)

	orders, items := countOrders(s.T(), s.db)
	s.Zero(orders)
	s.Zero(items)
	s.Equal(10, stockOf(s.T(), s.db, p.ID))
}

func (s *CheckoutSuite) TestInsufficientStockRollsBack() {
	a := seedProduct(s.T(), s.db, "A", "Rice", 50, 30, 10)
	b := seedProduct(s.T(), s.db, "B", "Soap", 12, 6, 1)

	_, err := s.svc.Checkout(s.ctx, s.request(
		services.CartLine{ProductID: a.ID, Quantity: 3},
		services.CartLine{ProductID: b.ID, Quantity: 2},
	))
	s.Require().ErrorIs(err, services.ErrInsufficientStock)

	var ce *services.CheckoutError
	s.Require().True(errors.As(err, &ce))
	s.Equal("Soap", ce.ProductName)
	s.Equal(2, ce.Requested)
	s.Equal(1, ce.Available)

	s.Equal(10, stockOf(s.T(), s.db, a.ID))
	s.Equal(1, stockOf(s.T(), s.db, b.ID))
	orders, items := countOrders(s.T(), s.db)
	s.Zero(orders)
	s.Zero(items)
}

func (s *CheckoutSuite) TestDuplicateLinesUseCombinedQuantity() {
	p := seedProduct(s.T(), s.db, "A", "Rice", 50, 30, 3)

	_, err := s.svc.Checkout(s.ctx, s.request(
		services.CartLine{ProductID: p.ID, Quantity: 2},
		services.CartLine{ProductID: p.ID, Quantity: 2},
	))
	s.ErrorIs(err, services.ErrInsufficientStock)
	s.Equal(3, stockOf(s.T(), s.db, p.ID))

	id, err := s.svc.Checkout(s.ctx, s.request(
		services.CartLine{ProductID: p.ID, Quantity: 1},
		services.CartLine{ProductID: p.ID, Quantity: 2},
	))
	s.Require().NoError(err)
	s.Equal(0, stockOf(s.T(), s.db, p.ID))

	o, err := repositories.NewOrderRepository(s.db).Find(s.ctx, id)
	s.Require().NoError(err)
	s.Len(o.Items, 2)
	s.Equal("150", o.TotalPrice.String())
}

func (s *CheckoutSuite) TestHugeDuplicateLinesDoNotWrapAround() {
	p := seedProduct(s.T(), s.db, "A", "Rice", 50, 30, 10)

	_, err := s.svc.Checkout(s.ctx, s.request(
		services.CartLine{ProductID: p.ID, Quantity: math.MaxInt},
		services.CartLine{ProductID: p.ID, Quantity: math.MaxInt},
	))
	s.Require().ErrorIs(err, services.ErrInsufficientStock)

	var ce *services.CheckoutError
	s.Require().True(errors.As(err, &ce))
	s.Equal(math.MaxInt, ce.Requested)
	s.Equal(10, ce.Available)

	s.Equal(10, stockOf(s.T(), s.db, p.ID))
	orders, items := countOrders(s.T(), s.db)
	s.Zero(orders)
	s.Zero(items)
}

func (s *CheckoutSuite) TestUnknownProduct() {
	_, err := s.svc.Checkout(s.ctx, s.request(services.CartLine{ProductID: 404, Quantity: 1}))
	s.Require().ErrorIs(err, services.ErrProductNotFound)

	var ce *services.CheckoutError
	s.Require().True(errors.As(err, &ce))
	s.Equal(uint(404), ce.ProductID)
}

func (s *CheckoutSuite) TestCheckoutInvalidatesProductListing() {
	p := seedProduct(s.T(), s.db, "A", "Rice", 50, 30, 10)
	listing := services.NewProductService(s.db, s.cache, nil, 0)

	before, err := listing.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(before, 1)
	s.Equal(10, before[0].Stock)

	_, err = s.svc.Checkout(s.ctx, s.request(services.CartLine{ProductID: p.ID, Quantity: 1}))
	s.Require().NoError(err)

	after, err := listing.List(s.ctx)
	s.Require().NoError(err)
	s.Equal(9, after[0].Stock)

	// a listing read before the checkout committed and stored late
	s.Require().NoError(s.cache.Set(s.ctx, "products:all:0", before, 0))

	after, err = listing.List(s.ctx)
	s.Require().NoError(err)
	s.Equal(9, after[0].Stock)
}

func (s *CheckoutSuite) TestConcurrentCheckoutsNeverOversell() {
	p := seedProduct(s.T(), s.db, "A", "Rice", 50, 30, 10)

	const buyers = 25
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok, fail int
	)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.svc.Checkout(s.ctx, s.request(services.CartLine{ProductID: p.ID, Quantity: 1}))
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
			} else if errors.Is(err, services.ErrInsufficientStock) {
				fail++
			}
		}()
	}
	wg.Wait()

	s.Equal(10, ok)
	s.Equal(buyers-10, fail)
	s.Equal(0, stockOf(s.T(), s.db, p.ID))

	orders, _ := countOrders(s.T(), s.db)
	s.Equal(int64(10), orders)
}
