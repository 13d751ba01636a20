// Package server assembles the HTTP surface of the ledger API.
package server

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "ledger/internal/docs" // Import swagger docs
	"ledger/internal/handlers"
	"ledger/internal/middleware"
	"ledger/internal/services"
	"ledger/internal/validator"
)

// Options configures the router.
type Options struct {
	CORSOrigin string
	// Swagger mounts /swagger/*any when set.
	Swagger bool
}

// NewRouter builds the gin engine with every route of the API. The type
// filter routes are fixed per variant of the service's vocabulary.
func NewRouter(transactionService services.TransactionServicer, opts Options) *gin.Engine {
	validator.Register()

	transactionHandler := handlers.NewTransactionHandler(transactionService)
	healthHandler := handlers.NewHealthHandler(transactionService)

	router := gin.New()
	// Route on the escaped path so an encoded "/" stays inside a category.
	router.UseRawPath = true
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS(opts.CORSOrigin))

	if opts.Swagger {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	router.GET("/", healthHandler.Root)
	router.GET("/health", healthHandler.Health)

	transactions := router.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.ListTransactions)
	transactions.GET("/:id", transactionHandler.GetTransaction)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)
	transactions.GET("/category/:category", transactionHandler.ListByCategory)

	for _, variant := range transactionService.Vocabulary().Variants() {
		transactions.GET("/type/"+variant, transactionHandler.ListByType(variant))
	}

	router.GET("/balance", transactionHandler.GetBalance)
	router.NoRoute(handlers.NotFound)

	return router
}
