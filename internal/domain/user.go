package domain

// User Model
type User struct {
	ID        uint   `gorm:"primaryKey" json:"id"`                                        // Primary key
	Name      string `json:"name"`                                                        // Display name
	Email     string `gorm:"unique;not null" json:"email"`                                // Unique email address
	Password  string `gorm:"not null" json:"-"`                                           // Hashed password, never serialized
	Phone     string `json:"phone"`                                                       // Contact phone number
	DOB       string `json:"dob"`                                                         // Date of birth (YYYY-MM-DD)
	Gender    string `json:"gender"`                                                      // Gender
	Role      string `gorm:"default:user" json:"role"`                                    // Role: user or admin
	Wallet    Wallet `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"wallet"` // One-to-one relationship with Wallet
	CreatedAt int64  `gorm:"autoCreateTime:milli" json:"created_at"`                      // Timestamp of creation in milliseconds
}
