// Package insight computes derived statistics over data the dashboard has
// already fetched. Everything here is pure: no I/O, no clock, no store.
package insight

import "time"

// DailyExpense is one day of expense activity inside a cycle. The series is
// sparse: days without spending simply have no point.
type DailyExpense struct {
	Day          time.Time
	ExpenseCents int64
}

// SpendPace is the average daily spend over the days that saw activity.
type SpendPace struct {
	AvgDailyCents int64  `json:"avg_daily_cents"`
	DaysObserved  int    `json:"days_observed"`
	Explanation   string `json:"explanation"`
}

const paceExplanation = "Average spend per day with recorded expenses in this cycle."

// ComputeSpendPace returns the spend pace for a daily expense series, or nil
// when the series is empty. Nil means "insufficient data" and is distinct
// from a computed zero.
func ComputeSpendPace(series []DailyExpense) *SpendPace {
	if len(series) == 0 {
		return nil
	}
	var sum int64
	for _, p := range series {
		sum += p.ExpenseCents
	}
	return &SpendPace{
		AvgDailyCents: sum / int64(len(series)),
		DaysObserved:  len(series),
		Explanation:   paceExplanation,
	}
}

// DriftPoint will flag days whose spend deviates strongly from the cycle's
// pace. Drift detection is not implemented yet.
type DriftPoint struct {
	Day          time.Time `json:"day"`
	ExpenseCents int64     `json:"expense_cents"`
}

// DetectDrift is a declared extension point: it always returns nil, meaning
// "not yet computed" rather than "no drift found".
func DetectDrift(series []DailyExpense) []DriftPoint {
	return nil
}
