package repositories_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/shopdesk/app/models"
	"github.com/shashiranjanraj/shopdesk/app/repositories"
	"github.com/shashiranjanraj/shopdesk/internal/testdb"
)

type ProductRepositorySuite struct {
	suite.Suite
	db   *gorm.DB
	repo *repositories.ProductRepository
	ctx  context.Context
}

func TestProductRepository(t *testing.T) {
	suite.Run(t, new(ProductRepositorySuite))
}

func (s *ProductRepositorySuite) SetupTest() {
	s.db = testdb.Open(s.T())
	s.repo = repositories.NewProductRepository(s.db)
	s.ctx = context.Background()
}

func (s *ProductRepositorySuite) product(code, name string, price, stock int64) *models.Product {
	return &models.Product{
		Code:  models.CodePtr(code),
		Name:  name,
		Price: decimal.NewFromInt(price),
		Cost:  decimal.NewFromInt(price / 2),
		Stock: int(stock),
	}
}

func (s *ProductRepositorySuite) TestCreateAndFind() {
	p := s.product("A-1", "Rice 5kg", 50, 10)
	s.Require().NoError(s.repo.Create(s.ctx, p))
	s.NotZero(p.ID)

	got, err := s.repo.Find(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal("Rice 5kg", got.Name)
	s.Equal("A-1", got.CodeValue())
	s.True(decimal.NewFromInt(50).Equal(got.Price))
	s.Equal(10, got.Stock)
	s.Equal(models.DefaultImage, got.ImageFile)
}

func (s *ProductRepositorySuite) TestCreateDuplicateCode() {
	s.Require().NoError(s.repo.Create(s.ctx, s.product("A-1", "Rice", 50, 1)))

	err := s.repo.Create(s.ctx, s.product(" A-1 ", "Other rice", 40, 1))
	s.ErrorIs(err, repositories.ErrConstraintViolation)
}

func (s *ProductRepositorySuite) TestBlankCodesDoNotCollide() {
	s.Require().NoError(s.repo.Create(s.ctx, s.product("", "Loose item 1", 5, 1)))
	s.Require().NoError(s.repo.Create(s.ctx, s.product("   ", "Loose item 2", 5, 1)))

	all, err := s.repo.All(s.ctx)
	s.Require().NoError(err)
	s.Len(all, 2)
	s.Nil(all[0].Code)
	s.Nil(all[1].Code)
}

func (s *ProductRepositorySuite) TestAllReturnsCatalogOrder() {
	for _, name := range []string{"first", "second", "third"} {
		s.Require().NoError(s.repo.Create(s.ctx, s.product("", name, 1, 1)))
	}

	all, err := s.repo.All(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 3)
	s.Equal("first", all[0].Name)
	s.Equal("third", all[2].Name)
	s.Less(all[0].ID, all[1].ID)
}

func (s *ProductRepositorySuite) TestFindMissing() {
	_, err := s.repo.Find(s.ctx, 999)
	s.ErrorIs(err, repositories.ErrNotFound)

	_, err = s.repo.FindByCode(s.ctx, "nope")
	s.ErrorIs(err, repositories.ErrNotFound)

	_, err = s.repo.FindByCode(s.ctx, "  ")
	s.ErrorIs(err, repositories.ErrNotFound)
}

func (s *ProductRepositorySuite) TestUpdate() {
	p := s.product("A-1", "Rice", 50, 10)
	s.Require().NoError(s.repo.Create(s.ctx, p))

	p.Name = "Rice 10kg"
	p.Stock = 0
	p.Code = nil
	s.Require().NoError(s.repo.Update(s.ctx, p))

	got, err := s.repo.Find(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal("Rice 10kg", got.Name)
	s.Equal(0, got.Stock)
	s.Nil(got.Code)
}

func (s *ProductRepositorySuite) TestUpdateErrors() {
	a := s.product("A", "a", 1, 1)
	b := s.product("B", "b", 1, 1)
	s.Require().NoError(s.repo.Create(s.ctx, a))
	s.Require().NoError(s.repo.Create(s.ctx, b))

	b.Code = models.CodePtr("A")
	s.ErrorIs(s.repo.Update(s.ctx, b), repositories.ErrConstraintViolation)

	ghost := s.product("Z", "ghost", 1, 1)
	ghost.ID = 999
	s.ErrorIs(s.repo.Update(s.ctx, ghost), repositories.ErrNotFound)

	// keeping its own code is fine
	a.Name = "renamed"
	s.NoError(s.repo.Update(s.ctx, a))
}

func (s *ProductRepositorySuite) TestDeleteKeepsOrderItemSnapshots() {
	p := s.product("A", "Soap", 12, 5)
	s.Require().NoError(s.repo.Create(s.ctx, p))

	orders := repositories.NewOrderRepository(s.db)
	o := &models.Order{
		TotalPrice:    decimal.NewFromInt(24),
		PaymentStatus: models.StatusPending,
		OrderStatus:   models.StatusPending,
		Items: []models.OrderItem{{
			ProductID:       &p.ID,
			ProductName:     "Soap",
			Quantity:        2,
			PriceAtPurchase: decimal.NewFromInt(12),
			CostAtPurchase:  decimal.NewFromInt(6),
		}},
	}
	s.Require().NoError(orders.Create(s.ctx, o))

	s.Require().NoError(s.repo.Delete(s.ctx, p.ID))
	_, err := s.repo.Find(s.ctx, p.ID)
	s.ErrorIs(err, repositories.ErrNotFound)

	got, err := orders.Find(s.ctx, o.ID)
	s.Require().NoError(err)
	s.Require().Len(got.Items, 1)
	s.Nil(got.Items[0].ProductID)
	s.Equal("Soap", got.Items[0].ProductName)
	s.True(decimal.NewFromInt(12).Equal(got.Items[0].PriceAtPurchase))

	s.ErrorIs(s.repo.Delete(s.ctx, p.ID), repositories.ErrNotFound)
}

func (s *ProductRepositorySuite) TestDecrementStockGuard() {
	p := s.product("A", "Soap", 12, 3)
	s.Require().NoError(s.repo.Create(s.ctx, p))

	ok, err := s.repo.DecrementStock(s.ctx, p.ID, 2)
	s.Require().NoError(err)
	s.True(ok)

	ok, err = s.repo.DecrementStock(s.ctx, p.ID, 2)
	s.Require().NoError(err)
	s.False(ok)

	got, err := s.repo.Find(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal(1, got.Stock)
}

func (s *ProductRepositorySuite) TestWithTxRollsBack() {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(s.ctx, s.product("T", "temp", 1, 1)); err != nil {
			return err
		}
		return repositories.ErrConstraintViolation
	})
	s.Require().Error(err)

	_, err = s.repo.FindByCode(s.ctx, "T")
	s.ErrorIs(err, repositories.ErrNotFound)
}
