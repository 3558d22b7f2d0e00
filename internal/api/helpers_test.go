package api

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"rewards_wallet/internal/domain"
	"rewards_wallet/internal/ledger"
	"rewards_wallet/internal/middleware"
	"rewards_wallet/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "test-secret"

// setupTestDB creates an in-memory SQLite database with the full schema
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to open test database")
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.Wallet{}, &domain.Earning{}, &domain.Transaction{}))
	return db
}

// newTestRouter wires the real routes against the test database.
// No Redis client: the cache helpers treat a nil client as a miss.
func newTestRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	eng := ledger.New(db, 0)
	r := gin.New()

	r.POST("/user/signup", SignupHandler(db))
	r.POST("/user/login", LoginHandler(db, testSecret))

	userGroup := r.Group("/user")
	userGroup.Use(middleware.JWTAuthMiddleware(testSecret))
	userGroup.GET("", GetUserHandler(db))
	userGroup.PUT("", UpdateUserHandler(db))
	userGroup.DELETE("", DeleteUserHandler(db))
	userGroup.GET("/analytics", UserAnalyticsHandler(db))

	walletGroup := r.Group("/wallet")
	walletGroup.Use(middleware.JWTAuthMiddleware(testSecret))
	walletGroup.GET("", GetWalletHandler(db, nil))

	earningGroup := r.Group("/earnings")
	earningGroup.Use(middleware.JWTAuthMiddleware(testSecret))
	earningGroup.POST("/add", AddEarningHandler(eng, nil))
	earningGroup.GET("/list", ListEarningsHandler(db, nil))

	txGroup := r.Group("/transactions")
	txGroup.Use(middleware.JWTAuthMiddleware(testSecret))
	txGroup.POST("/request", RequestRedeemHandler(eng, nil))
	txGroup.GET("/list", ListTransactionsHandler(db, nil))

	adminTxGroup := r.Group("/transactions")
	adminTxGroup.Use(middleware.JWTAuthMiddleware(testSecret), middleware.AdminOnlyMiddleware(db))
	adminTxGroup.PUT("/settle", SettleTransactionHandler(eng, nil))
	adminTxGroup.GET("/pending", PendingTransactionsHandler(db))

	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.JWTAuthMiddleware(testSecret), middleware.AdminOnlyMiddleware(db))
	adminGroup.GET("/users", ListUsersHandler(db, nil))

	return r
}

// createTestUser inserts a user with a wallet holding the given balance
func createTestUser(t *testing.T, db *gorm.DB, email, role string, points int64) domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password1"), bcrypt.MinCost)
	require.NoError(t, err)
	user := domain.User{Email: email, Password: string(hash), Role: role}
	require.NoError(t, db.Omit("Wallet").Create(&user).Error)
	user.Wallet = domain.Wallet{UserID: user.ID, TotalPoints: points}
	require.NoError(t, db.Create(&user.Wallet).Error)
	return user
}

// authToken issues a JWT for the given user
func authToken(t *testing.T, userID uint) string {
	t.Helper()
	token, err := utils.GenerateJWT(userID, testSecret)
	require.NoError(t, err)
	return token
}

// doJSON performs a JSON request against the router and returns the recorder
func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

// decodeBody unmarshals a recorder body into a generic map
func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	return out
}
