package routes

import (
	"time"

	"github.com/shashiranjanraj/shopdesk/pkg/ctx"
	"github.com/shashiranjanraj/shopdesk/pkg/middleware"
	"github.com/shashiranjanraj/shopdesk/pkg/router"
)

// RegisterAPI mounts the JSON endpoints used by the POS screen.
func RegisterAPI(r *router.Router, c Controllers) {
	api := r.Group("/api", middleware.RateLimit(300, time.Minute))
	api.Get("/products", "api.products", ctx.Wrap(c.API.Products))
	api.Post("/checkout", "api.checkout", ctx.Wrap(c.API.Checkout))
}
