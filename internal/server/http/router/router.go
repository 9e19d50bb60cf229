package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/campuseats/canteen/internal/server/http/handlers"
	"github.com/campuseats/canteen/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.CanteenFacade, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	authHandler := handlers.NewAuthHandler(facade)
	menuHandler := handlers.NewMenuHandler(facade)
	orderHandler := handlers.NewOrderHandler(facade)
	slotHandler := handlers.NewSlotHandler(facade)
	staffHandler := handlers.NewStaffHandler(facade)

	api := engine.Group("/api")
	api.GET("/menu", menuHandler.List)

	user := api.Group("/user")
	user.POST("/register", authHandler.Register)
	user.POST("/login", authHandler.Login)

	userAuth := user.Group("")
	userAuth.Use(middleware.AuthRequired(facade))
	userAuth.GET("/profile", authHandler.Profile)
	userAuth.POST("/orders", orderHandler.Checkout)
	userAuth.GET("/orders", orderHandler.List)
	userAuth.GET("/orders/:id", orderHandler.Get)
	userAuth.POST("/orders/:id/cancel", orderHandler.Cancel)
	userAuth.GET("/orders/:id/refund", orderHandler.RefundPreview)
	userAuth.POST("/cart/cash-eligibility", orderHandler.CashEligibility)
	userAuth.GET("/notifications", orderHandler.Notifications)

	slots := api.Group("/slots")
	slots.Use(middleware.AuthRequired(facade))
	slots.GET("", slotHandler.List)
	slots.GET("/availability", slotHandler.Availability)

	staff := api.Group("/staff")
	staff.Use(middleware.AuthRequired(facade), middleware.RequireStaff())
	staff.GET("/orders", staffHandler.Orders)
	staff.PATCH("/orders/:id/status", staffHandler.UpdateStatus)
	staff.POST("/orders/:id/cancel", staffHandler.Cancel)
	staff.GET("/pickup", staffHandler.LookupPickup)
	staff.POST("/pickup/redeem", staffHandler.RedeemPickup)
	staff.POST("/slots", staffHandler.CreateSlot)
	staff.PATCH("/slots/:id", staffHandler.UpdateSlotCapacity)
	staff.DELETE("/slots/:id", staffHandler.DeleteSlot)
	staff.POST("/menu", staffHandler.CreateMenuItem)

	return engine
}
