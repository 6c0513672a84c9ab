package models

import "time"

// Transaction is a single income or expense record.
// Amounts are stored in cents to avoid float drift. Category is a soft
// reference to Category.Name: deleting the category later must not break the
// transaction, the reader falls back to a default icon instead.
// Transactions are immutable once written; there is no update or delete API.
type Transaction struct {
	ID              uint      `gorm:"primaryKey"`
	UserID          uint      `gorm:"index;not null"`
	Type            string    `gorm:"size:16;index;not null"` // income / expense
	Category        string    `gorm:"size:64;not null"`
	AmountCents     int64     `gorm:"not null"`
	TransactionDate time.Time `gorm:"index;not null"` // calendar date, midnight UTC
	Description     string    `gorm:"size:255"`
	PaymentTo       string    `gorm:"size:64"`
	PaymentSource   string    `gorm:"size:32;index"`
	SourceDetails   *string   `gorm:"size:64"`
	CreatedAt       time.Time

	User User `gorm:"constraint:OnDelete:CASCADE"`
}
