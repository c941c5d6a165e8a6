package httpapi

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func (s *Server) Router() *gin.Engine {
	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     s.cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Cache-Control", "stripe-signature"},
		AllowCredentials: true,
	}))
	if s.metrics != nil {
		r.Use(s.metrics.Middleware())
	}

	r.GET("/metrics", MetricsHandler())

	api := r.Group("/api")

	api.POST("/auth/register", s.register)
	api.POST("/auth/login", s.login)

	api.GET("/shop/products", s.listProducts)
	api.GET("/shop/products/stock/check", s.checkStock)
	api.GET("/shop/products/:id", s.getProduct)

	// Webhook is unauthenticated on purpose: the signature is the auth.
	api.POST("/payment/webhook", s.handleWebhook)

	auth := api.Group("", s.AuthMiddleware)
	{
		auth.GET("/user/profile", s.getProfile)
		auth.PUT("/user/profile", s.updateProfile)

		auth.GET("/shop/cart/:userId", s.getCart)
		auth.POST("/shop/cart/add", s.addToCart)
		auth.PUT("/shop/cart/:userId", s.updateCartItem)
		auth.DELETE("/shop/cart/:userId/:productId", s.removeCartItem)
		auth.POST("/shop/cart/clear/:userId", s.clearCart)

		auth.POST("/shop/address", s.addAddress)
		auth.GET("/shop/address", s.listAddresses)
		auth.PUT("/shop/address/:addressId", s.updateAddress)
		auth.DELETE("/shop/address/:addressId", s.deleteAddress)

		auth.POST("/shop/orders/create", s.createOrder)
		auth.GET("/shop/orders/user/:userId", s.getUserOrders)
		auth.GET("/shop/orders/:orderId", s.getOrder)

		auth.POST("/payment/create-payment-intent", s.createPaymentIntent)
	}

	admin := api.Group("/admin", s.AuthMiddleware, s.AdminMiddleware)
	{
		admin.POST("/products", s.createProduct)
		admin.PUT("/products/:id/stock", s.restockProduct)
		admin.PUT("/orders/:orderId/status", s.updateOrderStatus)
	}

	return r
}
