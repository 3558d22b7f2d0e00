package ledger

import "errors"

// Sentinel errors returned by ledger operations. Handlers translate these to
// HTTP statuses at the boundary; the ledger itself never sees a status code.
var (
	// Validation errors: rejected before any write happens.
	ErrMissingEarningFields = errors.New("adId and a positive pointsEarned are required")
	ErrDataRequired         = errors.New("pointsRedeemed, amountRedeemed, phone and upiId are required")
	ErrInvalidAction        = errors.New("invalid action, use APPROVE or CANCEL")

	// Not-found errors.
	ErrWalletNotFound      = errors.New("wallet not found for this user")
	ErrTransactionNotFound = errors.New("transaction not found")

	// Conflict errors: valid request, state refuses it.
	ErrInsufficientFunds = errors.New("insufficient points in wallet")
	ErrAlreadyProcessed  = errors.New("transaction already processed")
)
