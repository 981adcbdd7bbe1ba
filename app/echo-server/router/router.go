package router

import (
	"mixMatchBundles/internal/rest"

	"github.com/labstack/echo/v4"
)

func SetupBundleRoutes(api *echo.Group, handler *rest.BundleHandler, authRequired echo.MiddlewareFunc, adminOnly echo.MiddlewareFunc) {
	bundles := api.Group("/bundles")
	bundles.GET("", handler.ListBundles)
	bundles.GET("/:id", handler.GetBundle)

	admin := api.Group("/admin/bundles", authRequired, adminOnly)
	admin.GET("", handler.ListAllBundles)
	admin.POST("", handler.CreateBundle)
	admin.PUT("/:id", handler.UpdateBundle)
	admin.DELETE("/:id", handler.DeleteBundle)
}

func SetupProductRoutes(api *echo.Group, handler *rest.ProductHandler, authRequired echo.MiddlewareFunc, adminOnly echo.MiddlewareFunc) {
	api.GET("/products/search", handler.SearchProducts)

	products := api.Group("/admin/products", authRequired, adminOnly)
	products.GET("", handler.GetAllProducts)
	products.GET("/:id", handler.GetProductByID)
	products.POST("", handler.CreateProduct)
	products.PUT("/:id", handler.UpdateProduct)
	products.DELETE("/:id", handler.DeleteProduct)
}

// SetupCartRoutes registers the shopper routes. Every one of them runs
// inside a session.
func SetupCartRoutes(api *echo.Group, handler *rest.CartHandler, ordersHandler *rest.OrdersHandler, session echo.MiddlewareFunc) {
	shop := api.Group("", session)

	shop.POST("/bundles/:id/preview", handler.Preview)
	shop.POST("/bundles/:id/cart", handler.AddBundleToCart)
	shop.DELETE("/bundles/selection", handler.CancelSelection)

	shop.POST("/cart/items", handler.AddToCart)
	shop.GET("/cart", handler.GetCart)
	shop.GET("/cart/mini", handler.GetMiniCart)

	shop.GET("/checkout", handler.StartCheckout)
	shop.POST("/checkout", ordersHandler.PlaceOrder)
}

func SetupOrdersRoutes(api *echo.Group, handler *rest.OrdersHandler, authRequired echo.MiddlewareFunc, adminOnly echo.MiddlewareFunc) {
	orders := api.Group("/admin/orders", authRequired, adminOnly)
	orders.GET("", handler.GetAllOrders)
	orders.GET("/:id", handler.GetOrderByID)
}

func SetupCouponRoutes(api *echo.Group, handler *rest.CouponHandler, authRequired echo.MiddlewareFunc, adminOnly echo.MiddlewareFunc) {
	coupons := api.Group("/admin/coupons", authRequired, adminOnly)
	coupons.POST("/sweep", handler.Sweep)
	coupons.GET("/summary", handler.Summary)
}

func SetupAdminRoutes(api *echo.Group, handler *rest.AdminHandler, authRequired echo.MiddlewareFunc) {
	api.POST("/admin/login", handler.Login)
	api.POST("/admin/logout", handler.Logout, authRequired)
}
