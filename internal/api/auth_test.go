package api

import (
	"net/http"
	"testing"

	"rewards_wallet/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignup_CreatesUserAndWalletTogether(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(db)

	rr := doJSON(t, r, http.MethodPost, "/user/signup", "", map[string]any{
		"name":     "Asha",
		"email":    "asha@example.com",
		"password": "password1",
	})

	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	// The user exists and owns exactly one wallet with zero balances
	var user domain.User
	require.NoError(t, db.Preload("Wallet").Where("email = ?", "asha@example.com").First(&user).Error)
	assert.NotZero(t, user.Wallet.ID)
	assert.Equal(t, user.ID, user.Wallet.UserID)
	assert.Zero(t, user.Wallet.TotalPoints)
	assert.Zero(t, user.Wallet.TotalAmountRedeemed)
}

func TestSignup_RejectsDuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(db)
	createTestUser(t, db, "asha@example.com", "user", 0)

	rr := doJSON(t, r, http.MethodPost, "/user/signup", "", map[string]any{
		"email":    "asha@example.com",
		"password": "password1",
	})

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSignup_RejectsBadInput(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(db)

	cases := []struct {
		name string
		body map[string]any
	}{
		{"missing password", map[string]any{"email": "a@b.com"}},
		{"missing email", map[string]any{"password": "password1"}},
		{"malformed email", map[string]any{"email": "not-an-email", "password": "password1"}},
		{"short password", map[string]any{"email": "a@b.com", "password": "short"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := doJSON(t, r, http.MethodPost, "/user/signup", "", tc.body)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
		})
	}
}

func TestLogin_ReturnsUsableToken(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(db)
	createTestUser(t, db, "asha@example.com", "user", 25)

	rr := doJSON(t, r, http.MethodPost, "/user/login", "", map[string]any{
		"email":    "asha@example.com",
		"password": "password1",
	})

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	body := decodeBody(t, rr)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)

	// The issued token authenticates wallet access
	walletRR := doJSON(t, r, http.MethodGet, "/wallet", token, nil)
	require.Equal(t, http.StatusOK, walletRR.Code)
	walletBody := decodeBody(t, walletRR)
	wallet, _ := walletBody["wallet"].(map[string]any)
	assert.EqualValues(t, 25, wallet["total_points"])
}

func TestLogin_RejectsWrongPassword(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(db)
	createTestUser(t, db, "asha@example.com", "user", 0)

	rr := doJSON(t, r, http.MethodPost, "/user/login", "", map[string]any{
		"email":    "asha@example.com",
		"password": "wrong-password",
	})

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestWallet_RequiresAuth(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(db)

	rr := doJSON(t, r, http.MethodGet, "/wallet", "", nil)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
