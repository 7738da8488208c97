package seeders

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shashiranjanraj/shopdesk/app/models"
)

func init() {
	Register("products", seedProducts)
}

var demoProducts = []struct {
	code, name  string
	price, cost string
	stock       int
}{
	{"TS-001", "Cotton T-Shirt", "85000", "42000", 40},
	{"TS-002", "Linen Shirt", "160000", "90000", 15},
	{"JN-001", "Slim Jeans", "210000", "120000", 20},
	{"CP-001", "Baseball Cap", "45000", "18000", 60},
	{"BG-001", "Canvas Tote Bag", "70000", "30000", 25},
}

// seedProducts inserts the demo catalog, leaving existing codes untouched.
func seedProducts(ctx context.Context, db *gorm.DB) error {
	rows := make([]models.Product, 0, len(demoProducts))
	for _, d := range demoProducts {
		rows = append(rows, models.Product{
			Code:  models.CodePtr(d.code),
			Name:  d.name,
			Price: decimal.RequireFromString(d.price),
			Cost:  decimal.RequireFromString(d.cost),
			Stock: d.stock,
		})
	}
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "code"}}, DoNothing: true}).
		Create(&rows).Error
}
