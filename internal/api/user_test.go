package api

import (
	"net/http"
	"testing"
	"time"

	"rewards_wallet/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateUser_PartialUpdateKeepsOtherFields(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(db)
	user := createTestUser(t, db, "asha@example.com", "user", 0)
	require.NoError(t, db.Model(&user).Updates(map[string]any{"name": "Asha", "phone": "1111111111"}).Error)
	token := authToken(t, user.ID)

	rr := doJSON(t, r, http.MethodPut, "/user", token, map[string]any{
		"phone": "2222222222",
	})

	require.Equal(t, http.StatusOK, rr.Code)
	var got domain.User
	require.NoError(t, db.First(&got, user.ID).Error)
	assert.Equal(t, "2222222222", got.Phone)
	assert.Equal(t, "Asha", got.Name, "absent fields keep their value")
}

func TestDeleteUser_RemovesWalletKeepsAudit(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(db)
	user := createTestUser(t, db, "asha@example.com", "user", 50)
	require.NoError(t, db.Create(&domain.Earning{UserID: user.ID, WalletID: user.Wallet.ID, AdID: "ad-1", PointsEarned: 50}).Error)

	rr := doJSON(t, r, http.MethodDelete, "/user", authToken(t, user.ID), nil)

	require.Equal(t, http.StatusOK, rr.Code)
	var users, wallets, earnings int64
	db.Model(&domain.User{}).Count(&users)
	db.Model(&domain.Wallet{}).Count(&wallets)
	db.Model(&domain.Earning{}).Count(&earnings)
	assert.Zero(t, users)
	assert.Zero(t, wallets)
	assert.Equal(t, int64(1), earnings, "earning history is immutable audit data")
}

func TestUserAnalytics_WindowsAndCancelledExcluded(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(db)
	user := createTestUser(t, db, "asha@example.com", "user", 0)
	now := time.Now()

	// One earning today, one from far in the past
	require.NoError(t, db.Create(&domain.Earning{
		UserID: user.ID, WalletID: user.Wallet.ID, AdID: "ad-today", PointsEarned: 30,
		CreatedAt: now.UnixMilli(),
	}).Error)
	require.NoError(t, db.Create(&domain.Earning{
		UserID: user.ID, WalletID: user.Wallet.ID, AdID: "ad-old", PointsEarned: 99,
		CreatedAt: now.AddDate(0, -2, 0).UnixMilli(),
	}).Error)
	// A live redemption today and a cancelled one that must not count
	require.NoError(t, db.Create(&domain.Transaction{
		UserID: user.ID, WalletID: user.Wallet.ID, PointsRedeemed: 10, AmountRedeemed: 1,
		Status: domain.StatusCompleted, CreatedAt: now.UnixMilli(),
	}).Error)
	require.NoError(t, db.Create(&domain.Transaction{
		UserID: user.ID, WalletID: user.Wallet.ID, PointsRedeemed: 500, AmountRedeemed: 50,
		Status: domain.StatusCancelled, CreatedAt: now.UnixMilli(),
	}).Error)

	rr := doJSON(t, r, http.MethodGet, "/user/analytics", authToken(t, user.ID), nil)

	require.Equal(t, http.StatusOK, rr.Code)
	body := decodeBody(t, rr)
	analytics, _ := body["analytics"].(map[string]any)
	today, _ := analytics["today"].(map[string]any)
	month, _ := analytics["month"].(map[string]any)
	assert.EqualValues(t, 30, today["points_earned"])
	assert.EqualValues(t, 10, today["points_redeemed"], "cancelled redemptions are excluded")
	assert.EqualValues(t, 30, month["points_earned"], "old earnings fall outside the month window")
}
