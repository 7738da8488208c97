// Package kernel assembles the HTTP handler: services, controllers, global
// middleware and the route table.
package kernel

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/shopdesk/app/controllers"
	"github.com/shashiranjanraj/shopdesk/app/routes"
	"github.com/shashiranjanraj/shopdesk/app/services"
	"github.com/shashiranjanraj/shopdesk/config"
	"github.com/shashiranjanraj/shopdesk/pkg/cache"
	"github.com/shashiranjanraj/shopdesk/pkg/database"
	"github.com/shashiranjanraj/shopdesk/pkg/logger"
	"github.com/shashiranjanraj/shopdesk/pkg/metrics"
	"github.com/shashiranjanraj/shopdesk/pkg/middleware"
	"github.com/shashiranjanraj/shopdesk/pkg/reqid"
	"github.com/shashiranjanraj/shopdesk/pkg/router"
	"github.com/shashiranjanraj/shopdesk/pkg/storage"
	"github.com/shashiranjanraj/shopdesk/pkg/view"
	"github.com/shashiranjanraj/shopdesk/resources"
)

// Deps are the long-lived handles every request shares.
type Deps struct {
	DB    *gorm.DB
	Cache cache.Store
	Disk  storage.Disk
}

// Connect opens the database, the cache and the storage disk described by
// config. An unreachable Redis is not fatal: the product cache is disabled.
func Connect(ctx context.Context) (*Deps, error) {
	db, err := database.Connect()
	if err != nil {
		return nil, err
	}

	var store cache.Store = cache.Nop{}
	if rdb, err := cache.Connect(ctx); err != nil {
		logger.Warn("redis unavailable, product cache disabled", "error", err)
	} else {
		store = rdb
	}

	disk, err := storage.Connect(ctx)
	if err != nil {
		_ = database.Close(db)
		return nil, err
	}

	return &Deps{DB: db, Cache: store, Disk: disk}, nil
}

// Close releases the database pool and the Redis client.
func (d *Deps) Close() error {
	if c, ok := d.Cache.(interface{ Close() error }); ok {
		_ = c.Close()
	}
	return database.Close(d.DB)
}

// HTTPKernel owns the router built from Deps.
type HTTPKernel struct {
	router *router.Router
}

// NewHTTPKernel wires services and controllers onto a fresh router.
func NewHTTPKernel(d *Deps) (*HTTPKernel, error) {
	assets, err := fs.Sub(resources.Static, "static")
	if err != nil {
		return nil, fmt.Errorf("kernel: static assets: %w", err)
	}

	store := d.Cache
	if store == nil {
		store = cache.Nop{}
	}

	v := view.New(view.Options{
		Templates: resources.Templates,
		Currency:  config.CurrencySymbol(),
	})

	products := services.NewProductService(d.DB, store, d.Disk, config.ProductCacheTTL())
	orders := services.NewOrderService(d.DB)
	catalog := services.NewCatalogService(d.DB, store)
	checkout := services.NewCheckoutService(d.DB, store)

	c := routes.Controllers{
		API:       controllers.NewAPIController(products, checkout),
		Dashboard: controllers.NewDashboardController(v, products, orders, catalog),
		Products:  controllers.NewProductController(v, products, resources.Placeholder),
		Orders:    controllers.NewOrderController(v, orders),
	}

	r := router.New()

	// outermost first: metrics see total latency, recovery wraps everything
	// that logs, and the request id exists before the logger runs.
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)

	r.Handle("/metrics", "metrics", metrics.Handler())
	r.Handle("/assets/*", "assets", http.StripPrefix("/assets/", http.FileServer(http.FS(assets))))

	routes.RegisterWeb(r, c)
	routes.RegisterAPI(r, c)

	return &HTTPKernel{router: r}, nil
}

func (k *HTTPKernel) Handler() http.Handler { return k.router.Handler() }

// Router exposes the route table for `shopdesk route:list`.
func (k *HTTPKernel) Router() *router.Router { return k.router }
