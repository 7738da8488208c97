package controllers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/unrolled/render"

	"github.com/shashiranjanraj/shopdesk/app/models"
	"github.com/shashiranjanraj/shopdesk/app/repositories"
	"github.com/shashiranjanraj/shopdesk/app/services"
	"github.com/shashiranjanraj/shopdesk/pkg/ctx"
	"github.com/shashiranjanraj/shopdesk/pkg/spreadsheet"
	"github.com/shashiranjanraj/shopdesk/pkg/view"
)

type ordersPage struct {
	view.Page
	Orders          []models.Order
	PaymentStatuses []string
	OrderStatuses   []string
}

type orderPage struct {
	view.Page
	Order *models.Order
}

type OrderController struct {
	view   *render.Render
	orders *services.OrderService
}

func NewOrderController(v *render.Render, orders *services.OrderService) *OrderController {
	return &OrderController{view: v, orders: orders}
}

// Index handles GET /orders.
func (oc *OrderController) Index(c *ctx.Context) {
	orders, err := oc.orders.List(c.Context())
	if err != nil {
		c.InternalError(err)
		return
	}
	page := ordersPage{
		Page:            view.Page{Title: "Orders"},
		Orders:          orders,
		PaymentStatuses: models.PaymentStatuses,
		OrderStatuses:   models.OrderStatuses,
	}
	if kind, msg, ok := c.Flash(); ok {
		page.Flash = &view.Flash{Kind: kind, Message: msg}
	}
	c.HTML(oc.view, http.StatusOK, "orders", page)
}

// Show handles GET /order/{id}.
func (oc *OrderController) Show(c *ctx.Context) {
	if o, ok := oc.find(c); ok {
		c.HTML(oc.view, http.StatusOK, "order_detail", orderPage{Page: view.Page{Title: "Order"}, Order: o})
	}
}

// Print handles GET /order/{id}/print. The receipt has no site chrome.
func (oc *OrderController) Print(c *ctx.Context) {
	if o, ok := oc.find(c); ok {
		c.HTML(oc.view, http.StatusOK, "print_receipt", orderPage{Order: o}, view.Bare)
	}
}

// UpdateStatus handles POST /order/{id}/update_status.
func (oc *OrderController) UpdateStatus(c *ctx.Context) {
	oc.update(c, oc.orders.UpdateOrderStatus, "order_status")
}

// UpdatePayment handles POST /order/{id}/update_payment.
func (oc *OrderController) UpdatePayment(c *ctx.Context) {
	oc.update(c, oc.orders.UpdatePaymentStatus, "payment_status")
}

// Delete handles POST /order/{id}/delete.
func (oc *OrderController) Delete(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		c.NotFound()
		return
	}
	if err := oc.orders.Delete(c.Context(), id); err != nil {
		oc.fail(c, err)
		return
	}
	c.Redirect("/orders")
}

// Download handles GET /download_orders.
func (oc *OrderController) Download(c *ctx.Context) {
	format := spreadsheet.XLSX
	if c.Query("format") == string(spreadsheet.CSV) {
		format = spreadsheet.CSV
	}
	c.Attachment("orders_download."+string(format), format.ContentType(), func(w io.Writer) error {
		return oc.orders.Export(c.Context(), w, format)
	})
}

type statusUpdater func(context.Context, uint, string) error

func (oc *OrderController) update(c *ctx.Context, apply statusUpdater, field string) {
	id, ok := c.ParamUint("id")
	if !ok {
		c.NotFound()
		return
	}
	if err := apply(c.Context(), id, c.FormValue(field)); err != nil {
		oc.fail(c, err)
		return
	}
	c.Redirect("/orders")
}

func (oc *OrderController) find(c *ctx.Context) (*models.Order, bool) {
	id, ok := c.ParamUint("id")
	if !ok {
		c.NotFound()
		return nil, false
	}
	o, err := oc.orders.Get(c.Context(), id)
	if err != nil {
		oc.fail(c, err)
		return nil, false
	}
	return o, true
}

func (oc *OrderController) fail(c *ctx.Context, err error) {
	if errors.Is(err, repositories.ErrNotFound) {
		c.NotFound()
		return
	}
	c.InternalError(err)
}
