package routes

import (
	"database/sql"

	"github.com/gin-gonic/gin"

	"github.com/fintrack/fintrack-api/handlers"
	"github.com/fintrack/fintrack-api/middleware"
	"github.com/fintrack/fintrack-api/services"
)

// SetupAccountRoutes sets up the public registration/login surface plus the
// authenticated account endpoints.
func SetupAccountRoutes(rg *gin.RouterGroup, db *sql.DB) {
	accountHandler := &handlers.AccountHandler{DB: db}

	account := rg.Group("/Account")
	account.GET("/Register", accountHandler.RegisterForm)
	account.POST("/Register", accountHandler.Register)
	account.GET("/Login", accountHandler.LoginForm)
	account.POST("/Login", accountHandler.Login)

	protected := account.Group("/")
	protected.Use(middleware.AuthMiddleware())
	protected.POST("/Logout", middleware.RequireCSRF(), accountHandler.Logout)
	protected.GET("/Profile", accountHandler.Profile)
	protected.POST("/2FA/Setup", middleware.RequireCSRF(), accountHandler.SetupTOTP)
	protected.POST("/2FA/Verify", middleware.RequireCSRF(), accountHandler.VerifyTOTP)
	protected.POST("/2FA/Disable", middleware.RequireCSRF(), accountHandler.DisableTOTP)
}

// SetupLedgerRoutes sets up protected transaction CRUD routes.
func SetupLedgerRoutes(rg *gin.RouterGroup, db *sql.DB, ws *handlers.WSHandler) {
	ledgerService := services.NewLedgerService(db)
	h := handlers.NewLedgerHandler(ledgerService, ws)

	transaction := rg.Group("/Transaction")
	transaction.GET("/Index", h.Index)
	transaction.GET("/AddOrEdit", h.AddOrEditForm)
	transaction.POST("/AddOrEdit", middleware.RequireCSRF(), h.AddOrEdit)
	transaction.POST("/Delete/:id", middleware.RequireCSRF(), h.Delete)
}

// SetupReportRoutes sets up protected report and dashboard routes.
func SetupReportRoutes(rg *gin.RouterGroup, db *sql.DB) {
	ledgerService := services.NewLedgerService(db)
	h := handlers.NewReportsHandler(ledgerService)

	rg.GET("/Reports/Index", h.Index)
	rg.GET("/Reports/TrendChart", h.TrendChart)
	rg.GET("/Dashboard/Index", h.Dashboard)
}
