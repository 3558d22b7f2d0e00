package api

import (
	"net/http"                       // HTTP status codes
	"regexp"                         // Regular expressions
	"strings"                        // String manipulation
	"rewards_wallet/internal/domain" // Importing domain models
	"rewards_wallet/internal/utils"  // Utility functions

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"golang.org/x/crypto/bcrypt" // Password hashing
	"gorm.io/gorm"               // GORM ORM library
)

// SignupRequest represents a signup request
type SignupRequest struct {
	Name     string `json:"name"`                        // Display name (optional at signup)
	Email    string `json:"email" binding:"required"`    // Email must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
	Phone    string `json:"phone"`                       // Phone number (optional)
	DOB      string `json:"dob"`                         // Date of birth (optional)
	Gender   string `json:"gender"`                      // Gender (optional)
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`    // Email must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
}

// emailPattern is a permissive address shape check
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// isValidEmail checks the email has a plausible address shape
func isValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// isValidPassword checks if the password length is between 8 and 15 characters
func isValidPassword(password string) bool {
	return len(password) >= 8 && len(password) <= 15
}

// SignupHandler registers a user and creates their wallet in one transaction.
// A user always owns exactly one wallet from the moment the account exists.
func SignupHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SignupRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password required"})
			return
		}
		// Validate email and password
		if !isValidEmail(req.Email) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email address"})
			return
		}
		// Validate password length
		if !isValidPassword(req.Password) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be 8-15 characters"})
			return
		}
		// Hash the password
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			// If hashing fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": internalErrorMessage})
			return
		}
		user := domain.User{
			Name:     req.Name,                    // Display name
			Email:    strings.ToLower(req.Email),  // Lowercase email to ensure uniqueness
			Password: string(hash),                // Hashed password
			Phone:    req.Phone,                   // Phone number
			DOB:      req.DOB,                     // Date of birth
			Gender:   req.Gender,                  // Gender
		}
		// Create user and wallet atomically; a user without a wallet must
		// never be observable
		err = db.Transaction(func(tx *gorm.DB) error {
			// Create the user row first; the wallet is inserted explicitly below
			if err := tx.Omit("Wallet").Create(&user).Error; err != nil {
				return err // Rollback on failure
			}
			user.Wallet = domain.Wallet{UserID: user.ID} // Zero balances
			return tx.Create(&user.Wallet).Error
		})
		if err != nil {
			// Duplicate email is the common failure here
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email already registered"})
			return
		}
		// Log successful signup
		logrus.WithFields(logrus.Fields{
			"user_id":   user.ID,        // User ID
			"wallet_id": user.Wallet.ID, // Wallet ID
		}).Info("Account created")
		// Return the created user and wallet
		c.JSON(http.StatusCreated, gin.H{
			"message": "Account created successfully",
			"user":    user,
			"wallet":  user.Wallet,
		})
	}
}

// LoginHandler authenticates a user and returns a JWT token
func LoginHandler(db *gorm.DB, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password required"})
			return
		}
		var user domain.User // Fetch user with wallet from database
		if err := db.Preload("Wallet").Where("email = ?", strings.ToLower(req.Email)).First(&user).Error; err != nil {
			// If user not found, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password."})
			return
		}
		// Compare provided password with stored hash
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password."})
			return
		}
		// Generate JWT token
		token, err := utils.GenerateJWT(user.ID, jwtSecret)
		if err != nil {
			// If token generation fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": internalErrorMessage})
			return
		}
		// Return the token and user details
		c.JSON(http.StatusOK, gin.H{
			"message": "Login success",
			"token":   token,
			"user":    user,
		})
	}
}
