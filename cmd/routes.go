package main

import (
	"rentguy/internal/config"
	_ "rentguy/internal/docs"
	"rentguy/internal/handlers"
	"rentguy/internal/middleware"
	"rentguy/internal/models"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	echoSwagger "github.com/swaggo/echo-swagger"
)

func newServer(cfg *config.Config, log logrus.FieldLogger, a *app) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handlers.NewRequestValidator()

	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(log))
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(middleware.VersionHeader(version))

	e.GET("/swagger/*", echoSwagger.WrapHandler)
	registerRoutes(e.Group("/api/v1"), cfg, log, a)
	return e
}

func registerRoutes(api *echo.Group, cfg *config.Config, log logrus.FieldLogger, a *app) {
	// Public
	api.POST("/auth/signup", a.authH.Signup)
	api.POST("/auth/login", a.authH.Login)
	api.POST("/auth/refresh", a.authH.Refresh)
	api.POST("/auth/google", a.authH.GoogleLogin)
	api.GET("/health", a.health.HealthCheck)
	api.GET("/whatsapp/webhook", a.whatsapp.VerifyWebhook)
	api.POST("/whatsapp/webhook", a.whatsapp.ReceiveWebhook)

	auth := api.Group("", middleware.JWTMiddleware(cfg.JWTSecret, a.auth, log))
	auth.POST("/auth/logout", a.authH.Logout)

	auth.GET("/users/me", a.users.GetMe)
	auth.PUT("/users/me", a.users.UpdateMe)
	admin := auth.Group("/users", middleware.RequireRole(models.RoleAdmin))
	admin.GET("", a.users.ListUsers)
	admin.POST("", a.users.CreateUser)
	admin.GET("/:id", a.users.GetUser)

	auth.GET("/properties", a.properties.ListProperties)
	auth.POST("/properties", a.properties.CreateProperty)
	auth.GET("/properties/:id", a.properties.GetProperty)
	auth.PUT("/properties/:id", a.properties.UpdateProperty)
	auth.DELETE("/properties/:id", a.properties.DeleteProperty)
	auth.GET("/properties/:id/stats", a.properties.GetPropertyStats)

	auth.GET("/units", a.units.ListUnits)
	auth.POST("/units", a.units.CreateUnit)
	auth.GET("/units/:id", a.units.GetUnit)
	auth.PUT("/units/:id", a.units.UpdateUnit)
	auth.DELETE("/units/:id", a.units.DeleteUnit)

	auth.GET("/tenants", a.tenants.ListTenants)
	auth.POST("/tenants", a.tenants.CreateTenant)
	auth.POST("/tenants/screening/request", a.tenants.RequestScreening)
	auth.GET("/tenants/screening/:tenant_id", a.tenants.GetScreening)
	auth.POST("/tenants/screening/:tenant_id/complete", a.tenants.CompleteScreening)
	auth.GET("/tenants/:id", a.tenants.GetTenant)
	auth.PUT("/tenants/:id", a.tenants.UpdateTenant)
	auth.DELETE("/tenants/:id", a.tenants.DeleteTenant)

	auth.GET("/leases", a.leases.ListLeases)
	auth.POST("/leases", a.leases.CreateLease)
	auth.GET("/leases/:id", a.leases.GetLease)
	auth.PUT("/leases/:id/sign", a.leases.SignLease)
	auth.PUT("/leases/:id/terminate", a.leases.TerminateLease)

	auth.GET("/invoices", a.invoices.ListInvoices)
	auth.POST("/invoices", a.invoices.CreateInvoice)
	auth.GET("/invoices/:id", a.invoices.GetInvoice)
	auth.PUT("/invoices/:id/pay", a.invoices.MarkPaid)
	auth.PUT("/invoices/:id/cancel", a.invoices.CancelInvoice)
	auth.POST("/invoices/:id/document", a.invoices.GenerateDocument)

	auth.GET("/maintenance/requests", a.maintenance.ListRequests)
	auth.POST("/maintenance/requests", a.maintenance.CreateRequest)
	auth.GET("/maintenance/requests/:id", a.maintenance.GetRequest)
	auth.PUT("/maintenance/requests/:id/assign", a.maintenance.AssignRequest)
	auth.PUT("/maintenance/requests/:id/resolve", a.maintenance.ResolveRequest)
	auth.PUT("/maintenance/requests/:id/close", a.maintenance.CloseRequest)

	auth.GET("/whatsapp/messages", a.whatsapp.ListMessages)
	auth.POST("/whatsapp/messages", a.whatsapp.SendMessage)
}
