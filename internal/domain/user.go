package domain

import "time"

// User is a registered account. The password column only ever holds a
// bcrypt hash; hashing happens in the user service before every write,
// never in a model hook.
type User struct {
	ID                string     `gorm:"column:id;primaryKey"`
	Email             string     `gorm:"column:email;uniqueIndex"`
	FirstName         string     `gorm:"column:first_name"`
	LastName          string     `gorm:"column:last_name"`
	PasswordHash      string     `gorm:"column:password"`
	Verified          bool       `gorm:"column:verified"`
	VerificationToken *string    `gorm:"column:verification_token"`
	TokenExpiry       *time.Time `gorm:"column:token_expiry"`
	AccountCreated    time.Time  `gorm:"column:account_created"`
	AccountUpdated    time.Time  `gorm:"column:account_updated"`
}

func (User) TableName() string { return "users" }
