package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusPending = "Pending"
	PaymentPaid   = "Paid"
)

// Status values offered by the admin UI. The columns accept any string.
var (
	PaymentStatuses = []string{StatusPending, PaymentPaid, "Cancelled"}
	OrderStatuses   = []string{StatusPending, "Processing", "Shipped", "Delivered", "Cancelled"}
)

type Order struct {
	ID                uint            `gorm:"primaryKey"                               json:"id"`
	OrderDate         time.Time       `gorm:"autoCreateTime;not null;index"            json:"order_date"`
	TotalPrice        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"    json:"total_price"`
	PaymentStatus     string          `gorm:"size:50;not null;default:'Pending'"       json:"payment_status"`
	OrderStatus       string          `gorm:"size:50;not null;default:'Pending'"       json:"order_status"`
	CustomerName      string          `gorm:"size:255"                                 json:"customer_name"`
	CustomerPhone     string          `gorm:"size:50"                                  json:"customer_phone"`
	CustomerAddress   string          `gorm:"type:text"                                json:"customer_address"`
	DestinationBranch string          `gorm:"size:255"                                 json:"destination_branch"`
	TransportCompany  string          `gorm:"size:255"                                 json:"transport_company"`
	PaymentMethod     string          `gorm:"size:100"                                 json:"payment_method"`
	Items             []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
}

// OrderItem snapshots the product as it was at checkout. ProductID is kept
// for traceability only and becomes NULL when the product is deleted.
type OrderItem struct {
	ID              uint            `gorm:"primaryKey"                            json:"id"`
	OrderID         uint            `gorm:"not null;index"                        json:"order_id"`
	ProductID       *uint           `gorm:"index"                                 json:"product_id"`
	Product         *Product        `gorm:"constraint:OnDelete:SET NULL"          json:"-"`
	ProductName     string          `gorm:"size:255;not null"                     json:"product_name"`
	Quantity        int             `gorm:"not null"                              json:"quantity"`
	PriceAtPurchase decimal.Decimal `gorm:"type:decimal(12,2);not null"           json:"price_at_purchase"`
	CostAtPurchase  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"cost_at_purchase"`
}

// Subtotal is price × quantity.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.PriceAtPurchase.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// CostTotal is cost × quantity.
func (i OrderItem) CostTotal() decimal.Decimal {
	return i.CostAtPurchase.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// IsPaid reports whether the order counts towards sales.
func (o *Order) IsPaid() bool {
	return o.PaymentStatus == PaymentPaid
}

// ItemCount is the total number of units in the order.
func (o *Order) ItemCount() int {
	n := 0
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}

// Choices offered on the POS screen. The stored columns are free text.
var (
	PaymentMethods     = []string{"Transfer", "Cash", "COD"}
	TransportCompanies = []string{"HAL Logistics", "Anousith Express", "Mixay Express"}
)
