package services_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/shopdesk/app/models"
	"github.com/shashiranjanraj/shopdesk/app/repositories"
)

func seedProduct(t *testing.T, db *gorm.DB, code, name string, price, cost int64, stock int) *models.Product {
	t.Helper()
	p := &models.Product{
		Code:  models.CodePtr(code),
		Name:  name,
		Price: decimal.NewFromInt(price),
		Cost:  decimal.NewFromInt(cost),
		Stock: stock,
	}
	require.NoError(t, repositories.NewProductRepository(db).Create(context.Background(), p))
	return p
}

func stockOf(t *testing.T, db *gorm.DB, id uint) int {
	t.Helper()
	p, err := repositories.NewProductRepository(db).Find(context.Background(), id)
	require.NoError(t, err)
	return p.Stock
}

func countOrders(t *testing.T, db *gorm.DB) (orders, items int64) {
	t.Helper()
	require.NoError(t, db.Model(&models.Order{}).Count(&orders).Error)
	require.NoError(t, db.Model(&models.OrderItem{}).Count(&items).Error)
	return orders, items
}
