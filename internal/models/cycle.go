package models

import "time"

// SalaryCycle is one pay period: a date range that scopes every dashboard
// view. Cycles are listed newest-first and the most recent one is treated as
// "current". Invariant: CycleStart <= CycleEnd; cycles of one user do not
// overlap.
type SalaryCycle struct {
	ID         uint      `gorm:"primaryKey"`
	UserID     uint      `gorm:"index;not null"`
	CycleStart time.Time `gorm:"index;not null"`
	CycleEnd   time.Time `gorm:"not null"`
	CreatedAt  time.Time

	User User `gorm:"constraint:OnDelete:CASCADE"`
}

// CycleAggregate caches the income/expense totals of one cycle, keyed by
// (user, cycle start). It is recomputed inside the same transaction as every
// write that touches the cycle and is strictly read-only everywhere else;
// readers never merge into it, a stale or missing row is simply recomputed.
type CycleAggregate struct {
	ID           uint      `gorm:"primaryKey"`
	UserID       uint      `gorm:"uniqueIndex:idx_cycle_aggregates_user_start;not null"`
	CycleStart   time.Time `gorm:"uniqueIndex:idx_cycle_aggregates_user_start;not null"`
	IncomeCents  int64     `gorm:"not null"`
	ExpenseCents int64     `gorm:"not null"`
	UpdatedAt    time.Time
}
