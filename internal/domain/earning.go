package domain

// Earning Model: an immutable credit event from watching an ad.
// Rows are append-only; they are never updated or deleted.
type Earning struct {
	ID           uint   `gorm:"primaryKey" json:"earning_id"`      // Primary key
	UserID       uint   `gorm:"index;not null" json:"user_id"`     // Foreign key to User
	WalletID     uint   `gorm:"index;not null" json:"wallet_id"`   // Foreign key to the credited Wallet
	AdID         string `gorm:"not null" json:"ad_id"`             // ID of the advertisement watched
	AdDuration   int    `gorm:"default:0" json:"ad_duration"`      // Seconds of ad watched
	PointsEarned int64  `gorm:"not null" json:"points_earned"`     // Points credited by this event
	CreatedAt    int64  `gorm:"autoCreateTime:milli" json:"created_at"` // Timestamp of creation in milliseconds
}
