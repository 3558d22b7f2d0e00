package domain

// Transaction status values. PENDING is the only non-terminal state;
// COMPLETED and CANCELLED never transition again.
const (
	StatusPending   = "PENDING"   // Requested, points reserved, awaiting admin decision
	StatusCompleted = "COMPLETED" // Approved and paid out
	StatusCancelled = "CANCELLED" // Rejected, points restored
)

// Transaction Model: a redemption request and its lifecycle.
// Only the Status field ever mutates after insert.
type Transaction struct {
	ID             uint    `gorm:"primaryKey" json:"transaction_id"`             // Primary key
	UserID         uint    `gorm:"index;not null" json:"user_id"`                // Foreign key to User
	WalletID       uint    `gorm:"index;not null" json:"wallet_id"`              // Foreign key to the debited Wallet
	PointsRedeemed int64   `gorm:"not null" json:"points_redeemed"`              // Points debited at request time
	AmountRedeemed float64 `gorm:"not null" json:"amount_redeemed"`              // Cash value, credited on approval
	Phone          string  `json:"phone"`                                        // Payout contact phone
	UpiID          string  `json:"upi_id"`                                       // Payout UPI ID
	Status         string  `gorm:"not null;default:PENDING;index" json:"status"` // PENDING, COMPLETED or CANCELLED
	CreatedAt      int64   `gorm:"autoCreateTime:milli" json:"created_at"`       // Timestamp of creation in milliseconds
}
