package domain

// Wallet Model
type Wallet struct {
	ID                  uint    `gorm:"primaryKey" json:"wallet_id"`                     // Primary key
	UserID              uint    `gorm:"uniqueIndex" json:"user_id"`                      // Foreign key to User, one wallet per user
	TotalPoints         int64   `gorm:"not null;default:0" json:"total_points"`          // Current points balance, never negative
	TotalAmountRedeemed float64 `gorm:"not null;default:0" json:"total_amount_redeemed"` // Cash paid out across approved redemptions
}
