package storage

import (
	"fmt"
	"time"

	"fintrack/internal/models"

	"gorm.io/gorm"
)

// Cycle-scoped queries shared by the write path and the dashboard. There is
// exactly one implementation of the totals computation: the same recompute
// runs inside every transaction insert and on a cache miss, so the
// cycle_aggregates table can never disagree with the transactions it
// summarizes.

// DailyExpense is one day's expense total inside a cycle. Sparse: only days
// with at least one expense appear.
type DailyExpense struct {
	Day        time.Time `json:"day"`
	TotalCents int64     `json:"total_cents"`
}

// BreakdownRow is one slice of the donut: a payment source or a category
// with its expense total.
type BreakdownRow struct {
	Label      string `json:"label"`
	TotalCents int64  `json:"total_cents"`
}

// RecomputeCycleAggregate recalculates the income/expense totals for the
// cycle starting at cycleStart and replaces (never merges) the cached row.
func RecomputeCycleAggregate(db *gorm.DB, userID uint, cycleStart, cycleEnd time.Time) (models.CycleAggregate, error) {
	type sums struct {
		IncomeCents  int64
		ExpenseCents int64
	}
	var s sums
	err := db.Model(&models.Transaction{}).
		Select(`COALESCE(SUM(CASE WHEN type = 'income' THEN amount_cents ELSE 0 END), 0) AS income_cents,
			COALESCE(SUM(CASE WHEN type = 'expense' THEN amount_cents ELSE 0 END), 0) AS expense_cents`).
		Where("user_id = ? AND transaction_date >= ? AND transaction_date <= ?", userID, cycleStart, cycleEnd).
		Scan(&s).Error
	if err != nil {
		return models.CycleAggregate{}, fmt.Errorf("sum cycle transactions: %w", err)
	}

	agg := models.CycleAggregate{
		UserID:       userID,
		CycleStart:   cycleStart,
		IncomeCents:  s.IncomeCents,
		ExpenseCents: s.ExpenseCents,
	}

	var existing models.CycleAggregate
	err = db.Where("user_id = ? AND cycle_start = ?", userID, cycleStart).First(&existing).Error
	switch {
	case err == nil:
		existing.IncomeCents = s.IncomeCents
		existing.ExpenseCents = s.ExpenseCents
		if err := db.Save(&existing).Error; err != nil {
			return models.CycleAggregate{}, fmt.Errorf("update cycle aggregate: %w", err)
		}
		return existing, nil
	case IsNotFound(err):
		if err := db.Create(&agg).Error; err != nil {
			return models.CycleAggregate{}, fmt.Errorf("create cycle aggregate: %w", err)
		}
		return agg, nil
	default:
		return models.CycleAggregate{}, fmt.Errorf("load cycle aggregate: %w", err)
	}
}

// CycleTotals returns the cached aggregate for a cycle, recomputing it when
// no row exists yet.
func CycleTotals(db *gorm.DB, userID uint, cycleStart, cycleEnd time.Time) (models.CycleAggregate, error) {
	var agg models.CycleAggregate
	err := db.Where("user_id = ? AND cycle_start = ?", userID, cycleStart).First(&agg).Error
	if err == nil {
		return agg, nil
	}
	if IsNotFound(err) {
		return RecomputeCycleAggregate(db, userID, cycleStart, cycleEnd)
	}
	return models.CycleAggregate{}, fmt.Errorf("load cycle totals: %w", err)
}

// DailyExpenseSeries returns per-day expense totals inside a cycle, oldest
// first.
func DailyExpenseSeries(db *gorm.DB, userID uint, cycleStart, cycleEnd time.Time) ([]DailyExpense, error) {
	var rows []DailyExpense
	err := db.Model(&models.Transaction{}).
		Select("transaction_date AS day, SUM(amount_cents) AS total_cents").
		Where("user_id = ? AND type = 'expense' AND transaction_date >= ? AND transaction_date <= ?",
			userID, cycleStart, cycleEnd).
		Group("transaction_date").
		Order("transaction_date ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("daily expense series: %w", err)
	}
	return rows, nil
}

// BreakdownBySource returns expense totals grouped by payment source,
// largest first.
func BreakdownBySource(db *gorm.DB, userID uint, cycleStart, cycleEnd time.Time) ([]BreakdownRow, error) {
	var rows []BreakdownRow
	err := db.Model(&models.Transaction{}).
		Select("payment_source AS label, SUM(amount_cents) AS total_cents").
		Where("user_id = ? AND type = 'expense' AND transaction_date >= ? AND transaction_date <= ?",
			userID, cycleStart, cycleEnd).
		Group("payment_source").
		Order("total_cents DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("breakdown by source: %w", err)
	}
	return rows, nil
}

// BreakdownByCategory returns expense totals grouped by category, optionally
// restricted to one payment source (the donut drill-down).
func BreakdownByCategory(db *gorm.DB, userID uint, cycleStart, cycleEnd time.Time, source string) ([]BreakdownRow, error) {
	q := db.Model(&models.Transaction{}).
		Select("category AS label, SUM(amount_cents) AS total_cents").
		Where("user_id = ? AND type = 'expense' AND transaction_date >= ? AND transaction_date <= ?",
			userID, cycleStart, cycleEnd)
	if source != "" {
		q = q.Where("payment_source = ?", source)
	}
	var rows []BreakdownRow
	err := q.Group("category").Order("total_cents DESC").Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("breakdown by category: %w", err)
	}
	return rows, nil
}

// TransactionsInCycle returns all of a user's transactions inside a cycle,
// newest first. The range filter runs in the database, never client-side.
func TransactionsInCycle(db *gorm.DB, userID uint, cycleStart, cycleEnd time.Time) ([]models.Transaction, error) {
	var txs []models.Transaction
	err := db.Where("user_id = ? AND transaction_date >= ? AND transaction_date <= ?",
		userID, cycleStart, cycleEnd).
		Order("transaction_date DESC, id DESC").
		Find(&txs).Error
	if err != nil {
		return nil, fmt.Errorf("transactions in cycle: %w", err)
	}
	return txs, nil
}

// CycleContaining finds the salary cycle whose range covers the given date,
// or a not-found error.
func CycleContaining(db *gorm.DB, userID uint, date time.Time) (models.SalaryCycle, error) {
	var cycle models.SalaryCycle
	err := db.Where("user_id = ? AND cycle_start <= ? AND cycle_end >= ?", userID, date, date).
		First(&cycle).Error
	if err != nil {
		return models.SalaryCycle{}, fmt.Errorf("cycle containing %s: %w", date.Format("2006-01-02"), err)
	}
	return cycle, nil
}
