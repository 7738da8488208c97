package models

import (
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DefaultImage is the image reference of a product without an upload.
const DefaultImage = "default.jpg"

// MaxStock is the largest stock count a product may hold; it fits the
// integer column of every supported driver.
const MaxStock = math.MaxInt32

type Product struct {
	ID        uint            `gorm:"primaryKey"                                 json:"id"`
	Code      *string         `gorm:"size:100;uniqueIndex"                       json:"code"`
	Name      string          `gorm:"size:255;not null;index"                    json:"name"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"      json:"price"`
	Cost      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"      json:"cost"`
	Stock     int             `gorm:"not null;default:0"                         json:"stock"`
	ImageFile string          `gorm:"size:255;not null;default:'default.jpg'"    json:"image_file"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// BeforeSave stores a blank code as NULL so the unique index only covers
// products that actually have one.
func (p *Product) BeforeSave(*gorm.DB) error {
	if p.Code != nil {
		if c := strings.TrimSpace(*p.Code); c == "" {
			p.Code = nil
		} else {
			p.Code = &c
		}
	}
	if p.ImageFile == "" {
		p.ImageFile = DefaultImage
	}
	return nil
}

// CodeValue returns the code or "".
func (p *Product) CodeValue() string {
	if p.Code == nil {
		return ""
	}
	return *p.Code
}

// CodePtr converts a trimmed code into the nullable column value.
func CodePtr(code string) *string {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil
	}
	return &code
}
