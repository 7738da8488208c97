package services

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyCart           = errors.New("cart is empty")
	ErrMissingCustomerName = errors.New("customer name is required")
	ErrInvalidQuantity     = errors.New("quantity must be greater than zero")
	ErrProductNotFound     = errors.New("product not found")
	ErrInsufficientStock   = errors.New("insufficient stock")

	// ErrImportFailed is returned by CatalogService.Import when at least one
	// row was rejected. Nothing is committed in that case.
	ErrImportFailed = errors.New("catalog import failed")
)

// CheckoutError describes which cart line made a checkout fail. Err is
// ErrProductNotFound or ErrInsufficientStock.
type CheckoutError struct {
	Err         error
	ProductID   uint
	ProductName string
	Requested   int
	Available   int
}

func (e *CheckoutError) Error() string {
	if errors.Is(e.Err, ErrInsufficientStock) {
		return fmt.Sprintf("insufficient stock for %s: requested %d, available %d",
			e.ProductName, e.Requested, e.Available)
	}
	return fmt.Sprintf("product %d: %v", e.ProductID, e.Err)
}

func (e *CheckoutError) Unwrap() error { return e.Err }

// ImportRowError is a rejected cell in an uploaded catalog. Row is the
// 1-based spreadsheet row, so the header is row 1.
type ImportRowError struct {
	Row    int
	Column string
	Value  string
	Err    error
}

func (e *ImportRowError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("row %d, column %s: %v", e.Row, e.Column, e.Err)
	}
	return fmt.Sprintf("row %d, column %s (%q): %v", e.Row, e.Column, e.Value, e.Err)
}

func (e *ImportRowError) Unwrap() error { return e.Err }
