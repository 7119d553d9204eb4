// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"

	"bazaar/internal/delivery/http/middleware"
	"bazaar/internal/delivery/http/router/handler"
	"bazaar/internal/domain/entity"
)

type RouterParams struct {
	fx.In

	AuthHandler    *handler.AuthHandler
	AccountHandler *handler.AccountHandler
	CatalogHandler *handler.CatalogHandler
	SalesHandler   *handler.SalesHandler
	ReviewHandler  *handler.ReviewHandler

	AuthMiddleware  *middleware.AuthMiddleware
	AuditMiddleware *middleware.AuditMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	params RouterParams
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{params: params}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	auth := r.params.AuthMiddleware

	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Auth routes
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/login", r.params.AuthHandler.Login)
	}

	// Account routes: registration and self-service wallet operations
	accountGroup := e.Group("/accounts")
	{
		accountGroup.POST("/register", r.params.AccountHandler.Register)
		accountGroup.GET("", r.params.AccountHandler.List)
		accountGroup.GET("/:username", r.params.AccountHandler.Get)
		accountGroup.PUT("/:username", r.params.AccountHandler.Update)
		accountGroup.DELETE("/:username", r.params.AccountHandler.Delete)
		accountGroup.POST("/:username/credit", r.params.AccountHandler.Credit)
		accountGroup.POST("/:username/debit", r.params.AccountHandler.Debit)
	}

	// Catalog reads are public; mutations require the admin role
	catalogGroup := e.Group("/catalog")
	{
		catalogGroup.GET("", r.params.CatalogHandler.List)
		catalogGroup.GET("/:id", r.params.CatalogHandler.Get)
		catalogGroup.GET("/name/:name", r.params.CatalogHandler.GetByName)
	}
	catalogAdminGroup := e.Group("/catalog")
	catalogAdminGroup.Use(auth.Authenticate)
	catalogAdminGroup.Use(auth.RequireRole(entity.RoleAdmin))
	{
		catalogAdminGroup.POST("", r.params.CatalogHandler.Add)
		catalogAdminGroup.PUT("/:id", r.params.CatalogHandler.Update)
		catalogAdminGroup.POST("/:id/restock", r.params.CatalogHandler.Restock)
		catalogAdminGroup.POST("/:id/consume", r.params.CatalogHandler.Consume)
	}

	// Storefront
	salesGroup := e.Group("/sales")
	{
		salesGroup.GET("/display", r.params.SalesHandler.Display)
		salesGroup.POST("/purchase", r.params.SalesHandler.Purchase)
	}

	// Reviews: reads are public, writes run through the guard chain
	reviewGroup := e.Group("/reviews")
	{
		reviewGroup.GET("/product/:id", r.params.ReviewHandler.ListByProduct)
		reviewGroup.GET("/account/:username", r.params.ReviewHandler.ListByAccount)
		reviewGroup.GET("/:id/details", r.params.ReviewHandler.Details)

		reviewGroup.POST("", r.params.ReviewHandler.Submit, auth.Authenticate)
		reviewGroup.PUT("/:id", r.params.ReviewHandler.Update, auth.Authenticate, auth.RequireReviewOwner)
		reviewGroup.DELETE("/:id", r.params.ReviewHandler.Delete, auth.Authenticate, auth.RequireReviewOwner)
		reviewGroup.POST("/:id/moderate", r.params.ReviewHandler.Moderate, auth.Authenticate, auth.RequireRole(entity.RoleAdmin))
	}
}
