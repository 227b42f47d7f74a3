package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/SFU-teamproject/Smartbuy/internal/auth"
	"github.com/SFU-teamproject/Smartbuy/internal/carts"
	"github.com/SFU-teamproject/Smartbuy/internal/config"
	"github.com/SFU-teamproject/Smartbuy/internal/domain/user"
	"github.com/SFU-teamproject/Smartbuy/internal/mail"
	"github.com/SFU-teamproject/Smartbuy/internal/orders"
	"github.com/SFU-teamproject/Smartbuy/internal/reviews"
	"github.com/SFU-teamproject/Smartbuy/internal/settings"
	"github.com/SFU-teamproject/Smartbuy/internal/smartphones"
	"github.com/SFU-teamproject/Smartbuy/internal/storage"
	"github.com/SFU-teamproject/Smartbuy/internal/users"
)

// NewRouter wires the full /api/v1 surface. Shared by cmd/api and by
// tests that drive the stack through httptest.
func NewRouter(cfg config.Config, store storage.Store, jwtMgr *auth.JWTManager, mailer mail.Mailer) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// bearer tokens and cookies ride together, so credentialed CORS
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	smartphoneHandler := smartphones.NewHandler(store)
	userHandler := users.NewHandler(store, jwtMgr, mailer)
	cartHandler := carts.NewHandler(store)
	reviewHandler := reviews.NewHandler(store)
	orderHandler := orders.NewHandler(store)
	settingsHandler := settings.NewHandler()

	v1 := r.Group("/api/v1")

	v1.GET("/smartphones", smartphoneHandler.List)
	v1.GET("/smartphones/:smartphone_id", smartphoneHandler.Get)
	v1.GET("/smartphones/:smartphone_id/reviews", reviewHandler.List)
	v1.GET("/smartphones/:smartphone_id/reviews/:review_id", reviewHandler.Get)

	v1.POST("/signup", userHandler.Signup)
	v1.POST("/login", userHandler.Login)
	v1.POST("/language", settingsHandler.SetLanguage)

	protected := v1.Group("/")
	protected.Use(auth.AuthMiddleware(jwtMgr))
	{
		protected.GET("/users", auth.RequireRole(user.RoleAdmin), userHandler.List)
		protected.GET("/users/:user_id", userHandler.Get)

		protected.GET("/carts", cartHandler.List)
		protected.GET("/carts/:cart_id", cartHandler.Get)
		protected.GET("/carts/:cart_id/items", cartHandler.GetItems)
		protected.POST("/carts/:cart_id/items", cartHandler.AddItem)
		protected.PATCH("/carts/:cart_id/items/:item_id", cartHandler.SetQuantity)
		protected.DELETE("/carts/:cart_id/items/:item_id", cartHandler.RemoveItem)

		protected.POST("/smartphones/:smartphone_id/reviews", reviewHandler.Create)
		protected.PATCH("/smartphones/:smartphone_id/reviews/:review_id", reviewHandler.Update)
		protected.DELETE("/smartphones/:smartphone_id/reviews/:review_id", reviewHandler.Delete)

		protected.POST("/orders", orderHandler.Create)
		protected.GET("/orders", orderHandler.List)
		protected.GET("/orders/:order_id", orderHandler.Get)
		protected.POST("/orders/:order_id/cancel", orderHandler.Cancel)
		protected.PATCH("/orders/:order_id", auth.RequireRole(user.RoleAdmin), orderHandler.SetStatus)
	}

	return r
}
