package router

import (
	"log/slog"
	"net/http"

	"budget-planner/internal/config"
	"budget-planner/internal/handler"
	"budget-planner/internal/middleware"
	"budget-planner/internal/service"
	"budget-planner/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter wires services, handlers and middleware on a new gin engine.
func SetupRouter(cfg *config.Config, db *gorm.DB, log *slog.Logger) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(middleware.RequestLogger(log), middleware.Recovery(log))

	r.GET("/healthz", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			util.Error(c, http.StatusServiceUnavailable, util.CodeServerErr, "database unavailable")
			return
		}
		util.Success(c, util.Response{"status": "ok"})
	})

	users := service.NewUserService(db, cfg.Security.BcryptCost)
	sessions := service.NewSessionService(db, cfg.TokenTTL())
	categories := service.NewCategoryService(db)
	transactions := service.NewTransactionService(db, cfg.App.PageSize)
	goals := service.NewGoalService(db)
	reports := service.NewReportService(db)

	// ====== API ======
	api := r.Group("/api")

	// no auth required
	authHandler := handler.NewAuthHandler(users, sessions, cfg.JWT.Secret, cfg.JWT.Issuer, log)
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(cfg.JWT.Secret, users, sessions, log))

	protected.POST("/auth/logout", authHandler.Logout)
	protected.GET("/me", handler.GetMe)

	profileHandler := handler.NewProfileHandler(users, sessions, log)
	protected.POST("/profile/password", profileHandler.ChangePassword)

	categoryHandler := handler.NewCategoryHandler(categories, log)
	protected.GET("/categories", categoryHandler.List)
	protected.POST("/categories", categoryHandler.Create)
	protected.GET("/categories/:id", categoryHandler.Get)
	protected.PUT("/categories/:id", categoryHandler.Rename)
	protected.DELETE("/categories/:id", categoryHandler.Delete)

	transactionHandler := handler.NewTransactionHandler(transactions, cfg.App.PageSize, log)
	protected.GET("/transactions", transactionHandler.List)
	protected.POST("/transactions", transactionHandler.Create)
	protected.GET("/transactions/:id", transactionHandler.Get)
	protected.PUT("/transactions/:id", transactionHandler.Update)
	protected.DELETE("/transactions/:id", transactionHandler.Delete)

	goalHandler := handler.NewGoalHandler(goals, log)
	protected.GET("/goals", goalHandler.List)
	protected.POST("/goals", goalHandler.Create)
	protected.GET("/goals/:id", goalHandler.Get)
	protected.PUT("/goals/:id", goalHandler.Update)
	protected.DELETE("/goals/:id", goalHandler.Delete)
	protected.POST("/goals/:id/contribute", goalHandler.Contribute)

	reportHandler := handler.NewReportHandler(reports, cfg.App.TrendPeriods, log)
	protected.GET("/reports/monthly", reportHandler.Monthly)
	protected.GET("/reports/trend", reportHandler.Trend)

	exportHandler := handler.NewExportHandler(transactions, log)
	protected.GET("/export/csv", exportHandler.ExportCSV)
	protected.GET("/export/xlsx", exportHandler.ExportXLSX)

	return r
}
