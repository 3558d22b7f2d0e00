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

// RedeemRequest represents a redemption request
type RedeemRequest struct {
	PointsRedeemed int64   `json:"pointsRedeemed"` // Points to redeem
	AmountRedeemed float64 `json:"amountRedeemed"` // Corresponding cash amount
	Phone          string  `json:"phone"`          // Payout phone
	UpiID          string  `json:"upiId"`          // Payout UPI ID
}

// RequestRedeemHandler reserves points and opens a PENDING transaction for
// admin review. The points leave the balance immediately so they cannot be
// double-spent while the decision is outstanding.
func RequestRedeemHandler(eng *ledger.Engine, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get userID from context
		userID, exists := c.Get("userID")
		if !exists {
			// If not, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req RedeemRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// Malformed body; field presence is validated by the ledger
			c.JSON(http.StatusBadRequest, gin.H{"error": ledger.ErrDataRequired.Error()})
			return
		}
		// Reserve the points and create the PENDING transaction atomically
		t, err := eng.RequestRedemption(c.Request.Context(), userID.(uint), req.PointsRedeemed, req.AmountRedeemed, req.Phone, req.UpiID)
		if err != nil {
			respondLedgerError(c, err) // Map ledger error to HTTP status
			return
		}
		// Invalidate cached wallet and list views
		invalidateLedgerCache(context.Background(), rdb, userID.(uint))
		// Return the created transaction reference
		c.JSON(http.StatusOK, gin.H{
			"message":        "Redeem request submitted successfully",
			"transaction_id": t.ID,
		})
	}
}

// SettleRequest represents an admin settlement decision
type SettleRequest struct {
	TransactionID uint   `json:"transactionId"` // Transaction to settle
	Action        string `json:"action"`        // APPROVE or CANCEL
}

// SettleTransactionHandler applies an admin decision to a PENDING
// transaction. APPROVE pays out the cash; CANCEL restores the points.
func SettleTransactionHandler(eng *ledger.Engine, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SettleRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil || req.TransactionID == 0 {
			// Malformed body or missing transaction ID
			c.JSON(http.StatusBadRequest, gin.H{"error": "transactionId and action are required"})
			return
		}
		// Transition the transaction atomically
		t, err := eng.SettleRedemption(c.Request.Context(), req.TransactionID, req.Action)
		if err != nil {
			respondLedgerError(c, err) // Map ledger error to HTTP status
			return
		}
		// Invalidate the requesting user's cached views
		invalidateLedgerCache(context.Background(), rdb, t.UserID)
		// Return the settled transaction
		c.JSON(http.StatusOK, gin.H{
			"message":     "Transaction updated successfully",
			"transaction": t,
		})
	}
}

// ListTransactionsHandler returns the user's redemptions newest-first, paginated
func ListTransactionsHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get userID from context
		userID, exists := c.Get("userID")
		if !exists {
			// If not, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		page := 1      // Default page
		pageSize := 20 // Default page size
		// If page exists in query
		if p := c.Query("page"); p != "" {
			// Convert page to integer
			if v, err := strconv.Atoi(p); err == nil && v > 0 {
				page = v // Set page if valid
			}
		}
		// If page_size exists in query
		if ps := c.Query("page_size"); ps != "" {
			// Convert page_size to integer
			if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
				pageSize = v // Set page size if valid
			}
		}
		offset := (page - 1) * pageSize // Calculate offset
		// Redis cache key
		cacheKey := "txhistory:user:" + strconv.Itoa(int(userID.(uint))) + ":page:" + strconv.Itoa(page) + ":size:" + strconv.Itoa(pageSize)
		ctx := context.Background() // Context for Redis operations
		var cached struct {
			Transactions []domain.Transaction `json:"transactions"` // List of transactions
			Page         int                  `json:"page"`         // Current page
			PageSize     int                  `json:"page_size"`    // Page size
			Total        int64                `json:"total"`        // Total transactions
			TotalPages   int                  `json:"total_pages"`  // Total pages
		}
		// Try to get from cache
		found, err := utils.GetCache(ctx, rdb, cacheKey, &cached)
		// If found in cache, return it
		if err == nil && found {
			c.JSON(http.StatusOK, gin.H{
				"transactions": cached.Transactions, // Cached transactions
				"page":         cached.Page,         // Current page
				"page_size":    cached.PageSize,     // Page size
				"total":        cached.Total,        // Total transactions
				"total_pages":  cached.TotalPages,   // Total pages
				"cached":       true,
			})
			return
		}
		var total int64 // Total count of transactions
		// Count total transactions for pagination
		if err := db.Model(&domain.Transaction{}).
			Where("user_id = ?", userID).
			Count(&total).Error; err != nil {
			// If counting fails, return error
			c.JSON(http.StatusInternalServerError, gin.H{"error": internalErrorMessage})
			return
		}
		var transactions []domain.Transaction // Slice to hold transactions
		// Fetch paginated transactions
		if err := db.Where("user_id = ?", userID).
			Order("created_at desc").
			Offset(offset).
			Limit(pageSize).
			Find(&transactions).Error; err != nil {
			// If fetching fails, return error
			c.JSON(http.StatusInternalServerError, gin.H{"error": internalErrorMessage})
			return
		}
		// Calculate total pages
		totalPages := (int(total) + pageSize - 1) / pageSize
		resp := gin.H{
			"transactions": transactions, // List of transactions
			"page":         page,         // Current page
			"page_size":    pageSize,     // Page size
			"total":        total,        // Total transactions
			"total_pages":  totalPages,   // Total pages
			"cached":       false,        // Not from cache
		}
		// Cache the result for 60 seconds
		_ = utils.SetCache(ctx, rdb, cacheKey, resp, 60*time.Second)
		c.JSON(http.StatusOK, resp) // Return transaction history
	}
}

// PendingTransactionsHandler returns all PENDING transactions oldest-first
// so admins review requests in arrival order
func PendingTransactionsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var transactions []domain.Transaction // Slice to hold transactions
		// Fetch all pending transactions
		if err := db.Where("status = ?", domain.StatusPending).
			Order("created_at asc").
			Find(&transactions).Error; err != nil {
			// If fetching fails, return error
			c.JSON(http.StatusInternalServerError, gin.H{"error": internalErrorMessage})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message":      "Pending transactions fetched successfully",
			"transactions": transactions,
		})
	}
}
