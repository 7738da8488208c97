package routes

import (
	"github.com/shashiranjanraj/shopdesk/pkg/ctx"
	"github.com/shashiranjanraj/shopdesk/pkg/router"
)

// RegisterWeb mounts the admin pages and form actions.
func RegisterWeb(r *router.Router, c Controllers) {
	r.Get("/", "dashboard", ctx.Wrap(c.Dashboard.Index))
	r.Get("/pos", "pos", ctx.Wrap(c.Dashboard.POS))
	r.Post("/upload_products", "products.upload", ctx.Wrap(c.Dashboard.Upload))
	r.Get("/download_products", "products.download", ctx.Wrap(c.Dashboard.Download))

	r.Get("/add_product", "products.create", ctx.Wrap(c.Products.Create))
	r.Post("/add_product", "products.store", ctx.Wrap(c.Products.Store))
	r.Get("/edit_product/{id}", "products.edit", ctx.Wrap(c.Products.Edit))
	r.Post("/edit_product/{id}", "products.update", ctx.Wrap(c.Products.Update))
	r.Post("/delete_product/{id}", "products.delete", ctx.Wrap(c.Products.Delete))
	r.Get("/static/product_images/{file}", "products.image", ctx.Wrap(c.Products.Image))

	r.Get("/orders", "orders.index", ctx.Wrap(c.Orders.Index))
	r.Get("/download_orders", "orders.download", ctx.Wrap(c.Orders.Download))
	r.Get("/order/{id}", "orders.show", ctx.Wrap(c.Orders.Show))
	r.Get("/order/{id}/print", "orders.print", ctx.Wrap(c.Orders.Print))
	r.Post("/order/{id}/update_status", "orders.update_status", ctx.Wrap(c.Orders.UpdateStatus))
	r.Post("/order/{id}/update_payment", "orders.update_payment", ctx.Wrap(c.Orders.UpdatePayment))
	r.Post("/order/{id}/delete", "orders.delete", ctx.Wrap(c.Orders.Delete))
}
