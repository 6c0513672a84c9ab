package models

import "time"

// Category represents income/expense category.
// A user may not have two categories with the same name and type; the
// composite unique index turns a re-add into a constraint violation that the
// handlers map to a distinct "already exists" response.
type Category struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"uniqueIndex:idx_categories_user_name_type;not null"`
	Name      string    `gorm:"size:64;uniqueIndex:idx_categories_user_name_type;not null"`
	Type      string    `gorm:"size:16;uniqueIndex:idx_categories_user_name_type;index;not null"` // income / expense
	Icon      string    `gorm:"size:16"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
