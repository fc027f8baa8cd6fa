package main

import (
	"fmt"
	"net/http"
	"os"

	"cryptodash/internal/assets"
	"cryptodash/internal/config"
	"cryptodash/internal/database"
	"cryptodash/internal/handlers"
	"cryptodash/internal/logger"
	"cryptodash/internal/market"
	"cryptodash/internal/middleware"
	"cryptodash/internal/provider"
	"cryptodash/internal/services"
	"cryptodash/internal/validator"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "cryptodash/internal/docs" // Import swagger docs
)

// @title           Cryptodash API
// @version         1.0
// @description     Dashboard backend for crypto, B3 stock and FII prices with wallet tracking, income records and price prediction.

// @host      localhost:8080
// @BasePath  /api/v1

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Custom binding validators
	validator.Register()

	// Market data plumbing: one HTTP client shared by both providers.
	db := dbManager.DB()
	httpClient := &http.Client{Timeout: appConfig.RequestTimeout}
	classifier := assets.NewClassifier(appConfig.Catalog)
	coinGecko := provider.NewCoinGeckoProvider(httpClient, appConfig.CoinGeckoURL)
	yahoo := provider.NewYahooProvider(httpClient, appConfig.YahooChartURL)
	gateway := market.NewGateway(
		classifier,
		coinGecko,
		yahoo,
		market.NewCacheStore(db),
		market.NewHistoryStore(db),
		appConfig.CacheExpiry,
	)

	// Initialize services
	walletService := services.NewWalletService(db, gateway)
	incomeService := services.NewIncomeService(db)
	predictionService := services.NewPredictionService(gateway)

	// Initialize handlers
	priceHandler := handlers.NewPriceHandler(gateway)
	walletHandler := handlers.NewWalletHandler(walletService)
	incomeHandler := handlers.NewIncomeHandler(incomeService)
	predictionHandler := handlers.NewPredictionHandler(predictionService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Market data routes
	v1.GET("/price", priceHandler.GetPrice)
	v1.GET("/price/multiple", priceHandler.GetMultiplePrices)
	v1.GET("/history", priceHandler.GetHistory)
	v1.GET("/history/chart", priceHandler.GetHistoryChart)

	// Wallet routes
	wallet := v1.Group("/wallet")
	wallet.POST("/transactions", walletHandler.CreateTransaction)
	wallet.GET("/transactions", walletHandler.ListTransactions)
	wallet.DELETE("/transactions/:id", walletHandler.DeleteTransaction)
	wallet.GET("/holdings", walletHandler.GetHoldings)
	wallet.GET("/summary", walletHandler.GetSummary)

	// Prediction route
	v1.GET("/prediction", predictionHandler.GetPrediction)

	// Income routes
	incomes := v1.Group("/incomes")
	incomes.POST("", incomeHandler.CreateIncome)
	incomes.GET("", incomeHandler.ListIncomes)
	incomes.PUT("/:id", incomeHandler.UpdateIncome)
	incomes.DELETE("/:id", incomeHandler.DeleteIncome)

	log.Infow("Starting server", "port", appConfig.Port)
	if err := router.Run(":" + appConfig.Port); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
