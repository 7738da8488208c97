package routes

import "github.com/shashiranjanraj/shopdesk/app/controllers"

// Controllers bundles the handlers the route files mount.
type Controllers struct {
	API       *controllers.APIController
	Dashboard *controllers.DashboardController
	Products  *controllers.ProductController
	Orders    *controllers.OrderController
}
