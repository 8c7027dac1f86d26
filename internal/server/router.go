// Package server assembles the HTTP router.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "expensetracker/internal/docs" // Import swagger docs
	"expensetracker/internal/handlers"
	"expensetracker/internal/middleware"
	"expensetracker/internal/services"
)

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	AuthService        services.AuthServicer
	CategoryService    services.CategoryServicer
	AccountService     services.AccountServicer
	TransactionService services.TransactionServicer
	Verifier           middleware.CallerIDExtractor
	AllowedOrigins     []string
}

// NewRouter builds the gin engine with middleware, docs, health and the v1 API.
func NewRouter(deps Deps) *gin.Engine {
	authHandler := handlers.NewAuthHandler(deps.AuthService)
	categoryHandler := handlers.NewCategoryHandler(deps.CategoryService)
	accountHandler := handlers.NewAccountHandler(deps.AccountService)
	transactionHandler := handlers.NewTransactionHandler(deps.TransactionService)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.CORS(deps.AllowedOrigins))
	router.Use(middleware.ErrorHandler())

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/google-login", authHandler.GoogleLogin)

	// Protected routes
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(deps.Verifier))

	protected.GET("/profile", authHandler.GetProfile)

	categories := protected.Group("/categories")
	categories.GET("", categoryHandler.ListCategories)
	categories.POST("", categoryHandler.CreateCategory)

	accounts := protected.Group("/accounts")
	accounts.GET("", accountHandler.ListAccounts)
	accounts.POST("", accountHandler.CreateAccount)

	transactions := protected.Group("/transactions")
	transactions.GET("", transactionHandler.ListTransactions)
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	return router
}
