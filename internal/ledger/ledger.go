// Package ledger is the consistency engine behind every wallet balance
// mutation. Each operation runs as a single database transaction that reads
// the wallet, validates, writes the wallet and its audit row (Earning or
// Transaction) together, and rolls back as a whole on any failure. No other
// package writes to a wallet's balances.
package ledger

import (
	"context"
	"errors"
	"time"

	"rewards_wallet/internal/domain" // Domain models

	"github.com/sirupsen/logrus" // Structured logging
	"gorm.io/gorm"               // GORM ORM library
	"gorm.io/gorm/clause"        // Row locking clauses
)

// DefaultTimeout bounds a single atomic unit when no timeout is configured.
const DefaultTimeout = 5 * time.Second

// Engine executes atomic wallet mutations against an injected store handle.
type Engine struct {
	db      *gorm.DB      // Injected store handle, no process-wide singleton
	timeout time.Duration // Deadline for each atomic unit
}

// New creates a ledger engine. A non-positive timeout falls back to DefaultTimeout.
func New(db *gorm.DB, timeout time.Duration) *Engine {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Engine{db: db, timeout: timeout}
}

// lockForUpdate adds a row lock on dialects that support it. SQLite has no
// FOR UPDATE syntax and serializes writers itself; correctness does not
// depend on the lock because every balance write below is a guarded update.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// withWallet is the single mutation primitive: begin a transaction bounded by
// the engine timeout, lock the user's wallet row, run fn, commit. Any error
// from fn rolls the whole unit back, so a balance change and its audit row are
// never observable apart. Concurrent mutations on the same wallet serialize on
// the row lock.
func (e *Engine) withWallet(ctx context.Context, userID uint, fn func(tx *gorm.DB, w *domain.Wallet) error) error {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel() // Release the deadline on every exit path
	return e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var w domain.Wallet
		// Lock the wallet row for the duration of the unit
		if err := lockForUpdate(tx).Where("user_id = ?", userID).First(&w).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// A wallet is created at signup; absence means prior corruption
				return ErrWalletNotFound
			}
			return err
		}
		return fn(tx, &w)
	})
}

// RecordEarning appends an Earning row and credits the wallet in one atomic
// unit. Returns the created earning and the balance after the credit.
func (e *Engine) RecordEarning(ctx context.Context, userID uint, adID string, adDuration int, pointsEarned int64) (*domain.Earning, int64, error) {
	// Reject before touching the store
	if adID == "" || pointsEarned <= 0 {
		return nil, 0, ErrMissingEarningFields
	}
	var earning domain.Earning
	var newBalance int64
	err := e.withWallet(ctx, userID, func(tx *gorm.DB, w *domain.Wallet) error {
		earning = domain.Earning{
			UserID:       userID,       // Owner
			WalletID:     w.ID,         // Credited wallet
			AdID:         adID,         // Advertisement watched
			AdDuration:   adDuration,   // Seconds watched
			PointsEarned: pointsEarned, // Points credited
		}
		// Insert the immutable audit row
		if err := tx.Create(&earning).Error; err != nil {
			return err
		}
		// Credit the wallet in the same unit
		if err := tx.Model(&domain.Wallet{}).Where("id = ?", w.ID).
			Update("total_points", gorm.Expr("total_points + ?", pointsEarned)).Error; err != nil {
			return err
		}
		newBalance = w.TotalPoints + pointsEarned
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	logrus.WithFields(logrus.Fields{
		"user_id":       userID,
		"wallet_id":     earning.WalletID,
		"ad_id":         adID,
		"points_earned": pointsEarned,
		"new_balance":   newBalance,
	}).Info("Earning recorded")
	return &earning, newBalance, nil
}

// RequestRedemption debits the wallet immediately and inserts a PENDING
// transaction. The debit is the reservation: once it lands, no concurrent
// request can spend the same points while the admin decision is outstanding.
// totalAmountRedeemed is untouched until approval.
func (e *Engine) RequestRedemption(ctx context.Context, userID uint, pointsRedeemed int64, amountRedeemed float64, phone, upiID string) (*domain.Transaction, error) {
	// All four fields are required and amounts must be positive
	if pointsRedeemed <= 0 || amountRedeemed <= 0 || phone == "" || upiID == "" {
		return nil, ErrDataRequired
	}
	var t domain.Transaction
	err := e.withWallet(ctx, userID, func(tx *gorm.DB, w *domain.Wallet) error {
		if pointsRedeemed > w.TotalPoints {
			return ErrInsufficientFunds
		}
		// Guarded debit: the balance check and the subtraction are one
		// statement, so the balance can never go negative even when two
		// requests race on the same wallet.
		res := tx.Model(&domain.Wallet{}).
			Where("id = ? AND total_points >= ?", w.ID, pointsRedeemed).
			Update("total_points", gorm.Expr("total_points - ?", pointsRedeemed))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInsufficientFunds
		}
		t = domain.Transaction{
			UserID:         userID,               // Requesting user
			WalletID:       w.ID,                 // Debited wallet
			PointsRedeemed: pointsRedeemed,       // Reserved points
			AmountRedeemed: amountRedeemed,       // Cash value, paid on approval
			Phone:          phone,                // Payout phone
			UpiID:          upiID,                // Payout UPI ID
			Status:         domain.StatusPending, // Awaiting admin decision
		}
		return tx.Create(&t).Error
	})
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"user_id":         userID,
		"transaction_id":  t.ID,
		"points_redeemed": pointsRedeemed,
		"amount_redeemed": amountRedeemed,
	}).Info("Redemption requested")
	return &t, nil
}

// Settlement actions.
const (
	ActionApprove = "APPROVE"
	ActionCancel  = "CANCEL"
)

// SettleRedemption moves a PENDING transaction to a terminal state.
// APPROVE credits totalAmountRedeemed (points stay spent); CANCEL restores the
// reserved points. The guarded status transition runs before any balance
// write, so two concurrent settlements cannot both apply: the loser's
// transition matches zero rows and its unit rolls back untouched.
func (e *Engine) SettleRedemption(ctx context.Context, transactionID uint, action string) (*domain.Transaction, error) {
	if action != ActionApprove && action != ActionCancel {
		return nil, ErrInvalidAction
	}
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel() // Release the deadline on every exit path
	var t domain.Transaction
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Lock the transaction row so concurrent settlements serialize here
		if err := lockForUpdate(tx).First(&t, transactionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTransactionNotFound
			}
			return err
		}
		if t.Status != domain.StatusPending {
			return ErrAlreadyProcessed
		}
		newStatus := domain.StatusCancelled
		if action == ActionApprove {
			newStatus = domain.StatusCompleted
		}
		// Guarded transition first: only a still-PENDING row may flip
		res := tx.Model(&domain.Transaction{}).
			Where("id = ? AND status = ?", t.ID, domain.StatusPending).
			Update("status", newStatus)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyProcessed
		}
		// Then the paired balance write, in the same unit
		var wres *gorm.DB
		if action == ActionApprove {
			// Points were spent at request time; approval pays out the cash
			wres = tx.Model(&domain.Wallet{}).Where("id = ?", t.WalletID).
				Update("total_amount_redeemed", gorm.Expr("total_amount_redeemed + ?", t.AmountRedeemed))
		} else {
			// Cancellation reverses the reservation made at request time
			wres = tx.Model(&domain.Wallet{}).Where("id = ?", t.WalletID).
				Update("total_points", gorm.Expr("total_points + ?", t.PointsRedeemed))
		}
		if wres.Error != nil {
			return wres.Error
		}
		if wres.RowsAffected == 0 {
			// The wallet vanished; roll the transition back too
			return ErrWalletNotFound
		}
		t.Status = newStatus
		return nil
	})
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"transaction_id":  t.ID,
		"user_id":         t.UserID,
		"action":          action,
		"status":          t.Status,
		"points_redeemed": t.PointsRedeemed,
		"amount_redeemed": t.AmountRedeemed,
	}).Info("Redemption settled")
	return &t, nil
}
