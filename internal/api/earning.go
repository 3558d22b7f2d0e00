package api

import (
	"context"  // Context for Redis operations
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"time"     // Time durations

	"rewards_wallet/internal/domain" // Importing domain models
	"rewards_wallet/internal/ledger" // Ledger consistency engine
	"rewards_wallet/internal/utils"  // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// AddEarningRequest represents an ad-watch credit request
type AddEarningRequest struct {
	AdID         string `json:"adId"`       // Advertisement ID
	AdDuration   int    `json:"adDuration"` // Seconds watched, defaults to 0
	PointsEarned int64  `json:"pointsEarned"` // Points to credit
}

// AddEarningHandler records an earning and credits the wallet through the
// ledger engine. The insert and the credit land together or not at all.
func AddEarningHandler(eng *ledger.Engine, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get userID from context
		userID, exists := c.Get("userID")
		if !exists {
			// If not, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req AddEarningRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// Malformed body; field presence is validated by the ledger
			c.JSON(http.StatusBadRequest, gin.H{"error": ledger.ErrMissingEarningFields.Error()})
			return
		}
		// Record the earning atomically
		earning, newBalance, err := eng.RecordEarning(c.Request.Context(), userID.(uint), req.AdID, req.AdDuration, req.PointsEarned)
		if err != nil {
			respondLedgerError(c, err) // Map ledger error to HTTP status
			return
		}
		// Invalidate cached wallet and list views
		invalidateLedgerCache(context.Background(), rdb, userID.(uint))
		// Return the created earning reference and the new balance
		c.JSON(http.StatusOK, gin.H{
			"message":     "Earning record added successfully",
			"earning_id":  earning.ID,
			"wallet_id":   earning.WalletID,
			"new_balance": newBalance,
		})
	}
}

// ListEarningsHandler returns the user's earnings newest-first
func ListEarningsHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get userID from context
		userID, exists := c.Get("userID")
		if !exists {
			// If not, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		ctx := context.Background()                                     // Context for Redis operations
		cacheKey := "earnings:user:" + strconv.Itoa(int(userID.(uint))) // Cache key for the list
		var cached []domain.Earning                                     // Cached earnings
		found, err := utils.GetCache(ctx, rdb, cacheKey, &cached)       // Try to get from cache
		// If found in cache, return it
		if err == nil && found {
			c.JSON(http.StatusOK, gin.H{
				"message":  "User earnings fetched successfully",
				"earnings": cached,
				"cached":   true,
			})
			return
		}
		var earnings []domain.Earning // Slice to hold earnings
		// Fetch earnings newest-first
		if err := db.Where("user_id = ?", userID).
			Order("created_at desc").
			Find(&earnings).Error; err != nil {
			// If fetching fails, return error
			c.JSON(http.StatusInternalServerError, gin.H{"error": internalErrorMessage})
			return
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, earnings, 60*time.Second) // Cache for 60 seconds
		c.JSON(http.StatusOK, gin.H{
			"message":  "User earnings fetched successfully",
			"earnings": earnings,
			"cached":   false,
		})
	}
}
