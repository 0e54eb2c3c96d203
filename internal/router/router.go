// Package router wires services, handlers and middleware into the gin engine.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"spendtable/internal/config"
	_ "spendtable/internal/docs" // registers the swagger document
	"spendtable/internal/handlers"
	"spendtable/internal/metrics"
	"spendtable/internal/middleware"
	"spendtable/internal/services"
)

// Dependencies are the long-lived collaborators of the HTTP layer.
type Dependencies struct {
	Config *config.Config
	DB     *gorm.DB
	// Health is pinged by /api/health.
	Health handlers.Pinger
	Tokens *middleware.TokenManager
	// Limiter throttles every request per client IP; nil disables it.
	Limiter *middleware.RateLimiter
}

// New builds the engine with every route of the API.
func New(deps Dependencies) *gin.Engine {
	cfg := deps.Config
	db := deps.DB

	// Services
	userService := services.NewUserService(db)
	projectService := services.NewProjectService(db)
	categoryService := services.NewCategoryService(db)
	expenseService := services.NewExpenseService(db)
	overviewService := services.NewOverviewService(db)
	auditService := services.NewAuditService(db)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService, deps.Tokens, auditService)
	projectHandler := handlers.NewProjectHandler(projectService, auditService)
	categoryHandler := handlers.NewCategoryHandler(categoryService, auditService)
	expenseHandler := handlers.NewExpenseHandler(expenseService, auditService, cfg.OverviewDefaultMonths)
	overviewHandler := handlers.NewOverviewHandler(overviewService, cfg.OverviewDefaultMonths, cfg.CurrencySymbol)
	healthHandler := handlers.NewHealthHandler(deps.Health)

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.Metrics())
	router.Use(middleware.ErrorHandler())
	if deps.Limiter != nil {
		router.Use(deps.Limiter.Middleware())
	}

	// CORS
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", middleware.APIKeyMiddleware(cfg.MetricsAPIKey), gin.WrapH(metrics.Handler()))
	router.GET("/api/health", healthHandler.Health)

	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(deps.Tokens))

	protected.GET("/profile", authHandler.GetProfile)

	projects := protected.Group("/projects")
	projects.POST("", projectHandler.CreateProject)
	projects.GET("", projectHandler.GetUserProjects)
	projects.GET("/:projectID", projectHandler.GetProjectByID)
	projects.PUT("/:projectID", projectHandler.UpdateProject)
	projects.DELETE("/:projectID", projectHandler.DeleteProject)

	projects.GET("/:projectID/overview", overviewHandler.GetOverview)

	categories := projects.Group("/:projectID/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.GetProjectCategories)
	categories.GET("/:categoryID", categoryHandler.GetCategoryByID)
	categories.PUT("/:categoryID", categoryHandler.UpdateCategory)
	categories.DELETE("/:categoryID", categoryHandler.DeleteCategory)

	expenses := projects.Group("/:projectID/expenses")
	expenses.POST("", expenseHandler.CreateExpense)
	expenses.GET("", expenseHandler.GetProjectExpenses)
	expenses.GET("/:expenseID", expenseHandler.GetExpenseByID)
	expenses.PUT("/:expenseID", expenseHandler.UpdateExpense)
	expenses.DELETE("/:expenseID", expenseHandler.DeleteExpense)

	return router
}
