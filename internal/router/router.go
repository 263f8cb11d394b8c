package router

import (
	"github.com/robertoraimondo/budget/internal/config"
	"github.com/robertoraimondo/budget/internal/handler"
	"github.com/robertoraimondo/budget/internal/middleware"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter configures the Gin engine and mounts every API route.
func SetupRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	api := r.Group("/api")

	jwtSecret := cfg.JWT.Secret

	// register/login need no auth
	authHandler := handler.NewAuthHandler(db, jwtSecret, cfg.JWT.ExpireHours, cfg.Security.BcryptCost)
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	protected := api.Group("")
	protected.Use(
		middleware.AuthMiddleware(jwtSecret, db),
		middleware.AuditMiddleware(db),
	)

	protected.GET("/me", handler.GetMe)
	protected.POST("/auth/logout", authHandler.Logout)

	accountHandler := handler.NewAccountHandler(db, cfg.Security.EncryptionKey)
	protected.GET("/accounts", accountHandler.List)
	protected.POST("/accounts", accountHandler.Create)
	protected.GET("/accounts/:id", accountHandler.Detail)
	protected.PUT("/accounts/:id", accountHandler.Update)
	protected.DELETE("/accounts/:id", accountHandler.Delete)

	txHandler := handler.NewTransactionHandler(db, cfg.App.PageSize)
	protected.GET("/transactions", txHandler.List)
	protected.POST("/transactions", txHandler.Create)
	protected.PUT("/transactions/:id", txHandler.Update)
	protected.DELETE("/transactions/:id", txHandler.Delete)

	categoryHandler := handler.NewCategoryHandler(db)
	protected.GET("/categories", categoryHandler.List)
	protected.POST("/categories", categoryHandler.Create)
	protected.DELETE("/categories/:id", categoryHandler.Delete)

	investmentHandler := handler.NewInvestmentHandler(db)
	protected.GET("/investments", investmentHandler.List)
	protected.POST("/investments", investmentHandler.Create)
	protected.PUT("/investments/:id/price", investmentHandler.UpdatePrice)
	protected.DELETE("/investments/:id", investmentHandler.Delete)

	budgetHandler := handler.NewBudgetHandler(db)
	protected.GET("/budget/status", budgetHandler.Status)
	protected.POST("/budget", budgetHandler.Upsert)

	reportHandler := handler.NewReportHandler(db)
	protected.GET("/monthly-spending", reportHandler.MonthlySpending)
	protected.GET("/net-worth", reportHandler.NetWorth)
	protected.GET("/reports/summary", reportHandler.Summary)
	protected.GET("/export/csv", reportHandler.ExportCSV)
	protected.GET("/export/xlsx", reportHandler.ExportXLSX)

	bankHandler := handler.NewBankHandler()
	protected.GET("/lookup-bank/:routing", bankHandler.Lookup)
	protected.GET("/validate-routing/:routing", bankHandler.Validate)
	protected.GET("/bank-suggestions/:partial", bankHandler.Suggestions)

	auditHandler := handler.NewAuditHandler(db, cfg.App.PageSize)
	protected.GET("/logs", auditHandler.List)

	adminHandler := handler.NewAdminHandler(db)
	protected.POST("/admin/full-reset", adminHandler.FullReset)

	return r
}
