package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/shashiranjanraj/shopdesk/app/models"
	"github.com/shashiranjanraj/shopdesk/app/services"
	"github.com/shashiranjanraj/shopdesk/pkg/ctx"
)

// productJSON is the POS view of a product. Price is a plain JSON number.
type productJSON struct {
	ID        uint    `json:"id"`
	Code      *string `json:"code"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Stock     int     `json:"stock"`
	ImageFile string  `json:"image_file"`
}

type apiReply struct {
	Success bool   `json:"success"`
	OrderID uint   `json:"order_id,omitempty"`
	Message string `json:"message,omitempty"`
}

// APIController serves the two JSON endpoints used by the POS screen.
type APIController struct {
	products *services.ProductService
	checkout *services.CheckoutService
}

func NewAPIController(products *services.ProductService, checkout *services.CheckoutService) *APIController {
	return &APIController{products: products, checkout: checkout}
}

// Products handles GET /api/products.
func (a *APIController) Products(c *ctx.Context) {
	list, err := a.products.List(c.Context())
	if err != nil {
		c.Log().Error("list products", "error", err)
		c.JSON(http.StatusInternalServerError, apiReply{Message: "Internal Server Error"})
		return
	}

	out := make([]productJSON, 0, len(list))
	for _, p := range list {
		out = append(out, toProductJSON(p))
	}
	c.JSON(http.StatusOK, out)
}

// Checkout handles POST /api/checkout.
func (a *APIController) Checkout(c *ctx.Context) {
	var req services.CheckoutRequest
	if _, err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apiReply{Message: "Invalid request body"})
		return
	}

	id, err := a.checkout.Checkout(c.Context(), req)
	if err != nil {
		msg, ok := checkoutMessage(err)
		if !ok {
			c.Log().Error("checkout failed", "error", err)
			c.JSON(http.StatusInternalServerError, apiReply{Message: "Internal Server Error"})
			return
		}
		c.JSON(http.StatusBadRequest, apiReply{Message: msg})
		return
	}

	c.JSON(http.StatusOK, apiReply{Success: true, OrderID: id})
}

func toProductJSON(p models.Product) productJSON {
	return productJSON{
		ID:        p.ID,
		Code:      p.Code,
		Name:      p.Name,
		Price:     p.Price.InexactFloat64(),
		Stock:     p.Stock,
		ImageFile: p.ImageFile,
	}
}

// checkoutMessage turns a rejected checkout into the text shown at the till.
// ok is false for failures the cashier cannot fix.
func checkoutMessage(err error) (string, bool) {
	var ce *services.CheckoutError
	switch {
	case errors.Is(err, services.ErrEmptyCart):
		return "Cart is empty", true
	case errors.Is(err, services.ErrMissingCustomerName):
		return "Customer name is required", true
	case errors.Is(err, services.ErrInvalidQuantity):
		return "Quantity must be at least 1", true
	case errors.As(err, &ce) && errors.Is(err, services.ErrInsufficientStock):
		return fmt.Sprintf("Not enough stock for %s (requested %d, available %d)",
			ce.ProductName, ce.Requested, ce.Available), true
	case errors.As(err, &ce) && errors.Is(err, services.ErrProductNotFound):
		return fmt.Sprintf("Product %d not found", ce.ProductID), true
	}
	return "", false
}
