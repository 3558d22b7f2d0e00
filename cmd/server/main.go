package main

import (
	"context" // context package is needed for Redis operations
	"log"     // log package is needed for logging

	"rewards_wallet/internal/api"        // Custom package for API handlers
	"rewards_wallet/internal/config"     // Custom package for configuration
	"rewards_wallet/internal/ledger"     // Ledger consistency engine
	"rewards_wallet/internal/middleware" // Custom package for middleware

	// For loading .env files
	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
	"gorm.io/driver/mysql"         // MySQL driver for GORM
	"gorm.io/gorm"                 // GORM ORM library
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Setup Data Source Name (DSN) and connect to the database
	dsn := cfg.DBUser + ":" + cfg.DBPassword + "@tcp(" + cfg.DBHost + ":" + cfg.DBPort + ")/" + cfg.DBName + "?parseTime=true"
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})

	// Test Redis connection
	_, err = redisClient.Ping(context.Background()).Result()
	if err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	// All balance mutations go through this engine
	eng := ledger.New(db, cfg.LedgerTimeout)

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup Gin
	r := gin.Default() // Gin router instance

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	// Auth routes
	r.POST("/user/signup", api.SignupHandler(db))               // Signup endpoint, creates user + wallet
	r.POST("/user/login", api.LoginHandler(db, cfg.JWTSecret))  // Login endpoint

	// Profile routes (protected by JWT)
	userGroup := r.Group("/user")
	userGroup.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	userGroup.GET("", api.GetUserHandler(db))                  // Profile endpoint
	userGroup.PUT("", api.UpdateUserHandler(db))               // Profile update endpoint
	userGroup.DELETE("", api.DeleteUserHandler(db))            // Account deletion endpoint
	userGroup.GET("/analytics", api.UserAnalyticsHandler(db))  // Earning/redemption analytics endpoint

	// Wallet routes (protected by JWT)
	walletGroup := r.Group("/wallet")
	walletGroup.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	walletGroup.GET("", api.GetWalletHandler(db, redisClient)) // Wallet endpoint

	// Earning routes (protected by JWT)
	earningGroup := r.Group("/earnings")
	earningGroup.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	earningGroup.POST("/add", api.AddEarningHandler(eng, redisClient))   // Record ad-watch earning endpoint
	earningGroup.GET("/list", api.ListEarningsHandler(db, redisClient))  // Earnings list endpoint

	// Transaction routes (protected by JWT)
	txGroup := r.Group("/transactions")
	txGroup.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	txGroup.POST("/request", api.RequestRedeemHandler(eng, redisClient))   // Redemption request endpoint
	txGroup.GET("/list", api.ListTransactionsHandler(db, redisClient))     // Transaction history endpoint

	// Admin routes (protected, admin only)
	adminTxGroup := r.Group("/transactions")
	adminTxGroup.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret), middleware.AdminOnlyMiddleware(db))
	adminTxGroup.PUT("/settle", api.SettleTransactionHandler(eng, redisClient)) // Settlement endpoint
	adminTxGroup.GET("/pending", api.PendingTransactionsHandler(db))            // Pending transactions endpoint

	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret), middleware.AdminOnlyMiddleware(db))
	adminGroup.GET("/users", api.ListUsersHandler(db, redisClient)) // List users endpoint

	log.Println("Server running on " + cfg.AppPort) // Log server start
	r.Run(":" + cfg.AppPort)                        // Start the server on port cfg.AppPort
}
