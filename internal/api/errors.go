package api

import (
	"context"  // Context for Redis operations
	"errors"   // Sentinel error matching
	"net/http" // HTTP status codes
	"strconv"  // String conversion

	"rewards_wallet/internal/ledger" // Ledger error taxonomy
	"rewards_wallet/internal/utils"  // Cache helpers

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
)

// internalErrorMessage is the only message surfaced for unexpected failures;
// store errors and timeouts are never exposed to the caller.
const internalErrorMessage = "Something went wrong. Please try again later."

// respondLedgerError translates a ledger error into an HTTP response.
// This is the only place ledger errors meet status codes.
func respondLedgerError(c *gin.Context, err error) {
	switch {
	// Validation: rejected before any mutation
	case errors.Is(err, ledger.ErrMissingEarningFields),
		errors.Is(err, ledger.ErrDataRequired),
		errors.Is(err, ledger.ErrInvalidAction):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	// Conflict: valid request refused by current state
	case errors.Is(err, ledger.ErrInsufficientFunds),
		errors.Is(err, ledger.ErrAlreadyProcessed):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	// Not found
	case errors.Is(err, ledger.ErrWalletNotFound),
		errors.Is(err, ledger.ErrTransactionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	// Everything else (rolled back store failures, timeouts)
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": internalErrorMessage})
	}
}

// invalidateLedgerCache drops the cached wallet, earnings and transaction
// views for a user after a committed balance mutation.
// Simple version: delete the first 5 cached pages.
func invalidateLedgerCache(ctx context.Context, rdb *redis.Client, userID uint) {
	id := strconv.Itoa(int(userID))
	_ = utils.DeleteCache(ctx, rdb, "wallet:user:"+id)   // Wallet view
	_ = utils.DeleteCache(ctx, rdb, "earnings:user:"+id) // Earnings list
	// Paginated transaction history pages
	for i := 1; i <= 5; i++ {
		_ = utils.DeleteCache(ctx, rdb, "txhistory:user:"+id+":page:"+strconv.Itoa(i)+":size:20")
	}
}
