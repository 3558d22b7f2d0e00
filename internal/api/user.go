package api

import (
	"net/http" // HTTP status codes
	"time"     // Analytics time windows

	"rewards_wallet/internal/domain" // Importing domain models

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// GetUserHandler returns the authenticated user's profile
func GetUserHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var user domain.User // Fetch user with wallet
		if err := db.Preload("Wallet").First(&user, userID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": user}) // Return profile
	}
}

// UpdateUserRequest carries the updatable profile fields; absent fields keep
// their current value. Profile images are not handled here.
type UpdateUserRequest struct {
	Name   *string `json:"name"`   // Display name
	Gender *string `json:"gender"` // Gender
	Phone  *string `json:"phone"`  // Phone number
	DOB    *string `json:"dob"`    // Date of birth
}

// UpdateUserHandler applies a partial profile update
func UpdateUserHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req UpdateUserRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		var user domain.User // Fetch the current profile
		if err := db.First(&user, userID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		// Apply only the provided fields
		updates := map[string]any{}
		if req.Name != nil {
			updates["name"] = *req.Name
		}
		if req.Gender != nil {
			updates["gender"] = *req.Gender
		}
		if req.Phone != nil {
			updates["phone"] = *req.Phone
		}
		if req.DOB != nil {
			updates["dob"] = *req.DOB
		}
		if len(updates) > 0 {
			if err := db.Model(&user).Updates(updates).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": internalErrorMessage})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully", "user": user})
	}
}

// DeleteUserHandler removes the account and its wallet. Earning and
// transaction rows are immutable audit history and are kept.
func DeleteUserHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var user domain.User // Confirm the account exists
		if err := db.First(&user, userID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		// Delete user and wallet atomically
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("user_id = ?", user.ID).Delete(&domain.Wallet{}).Error; err != nil {
				return err // Rollback on failure
			}
			return tx.Delete(&user).Error
		})
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id": user.ID,     // User ID
				"error":   err.Error(), // Error message
			}).Error("Account deletion failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": internalErrorMessage})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Account deleted successfully", "success": true})
	}
}

// analyticsWindow sums earnings and redemptions since a cutoff
type analyticsWindow struct {
	PointsEarned   int64   `json:"points_earned"`   // Points credited in the window
	PointsRedeemed int64   `json:"points_redeemed"` // Points reserved or paid in the window
	AmountRedeemed float64 `json:"amount_redeemed"` // Cash requested in the window
}

// UserAnalyticsHandler returns earning and redemption totals for today,
// this week and this month. CANCELLED transactions do not count: their
// points were restored.
func UserAnalyticsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		now := time.Now()
		// Window cutoffs as millisecond timestamps, matching created_at
		startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		startOfWeek := startOfDay.AddDate(0, 0, -int((now.Weekday()+6)%7)) // Monday start
		startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		windows := map[string]int64{
			"today": startOfDay.UnixMilli(),
			"week":  startOfWeek.UnixMilli(),
			"month": startOfMonth.UnixMilli(),
		}
		earnings := map[string]analyticsWindow{}
		for name, since := range windows {
			var w analyticsWindow
			// Sum points earned in the window
			if err := db.Model(&domain.Earning{}).
				Select("COALESCE(SUM(points_earned), 0)").
				Where("user_id = ? AND created_at >= ?", userID, since).
				Scan(&w.PointsEarned).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": internalErrorMessage})
				return
			}
			// Sum non-cancelled redemptions in the window
			if err := db.Model(&domain.Transaction{}).
				Select("COALESCE(SUM(points_redeemed), 0)").
				Where("user_id = ? AND created_at >= ? AND status <> ?", userID, since, domain.StatusCancelled).
				Scan(&w.PointsRedeemed).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": internalErrorMessage})
				return
			}
			if err := db.Model(&domain.Transaction{}).
				Select("COALESCE(SUM(amount_redeemed), 0)").
				Where("user_id = ? AND created_at >= ? AND status <> ?", userID, since, domain.StatusCancelled).
				Scan(&w.AmountRedeemed).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": internalErrorMessage})
				return
			}
			earnings[name] = w
		}
		c.JSON(http.StatusOK, gin.H{
			"message":   "Analytics fetched successfully",
			"analytics": earnings,
		})
	}
}
