package insight

import (
	"testing"
	"time"
)

func day(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func TestComputeSpendPaceEmpty(t *testing.T) {
	if got := ComputeSpendPace(nil); got != nil {
		t.Errorf("ComputeSpendPace(nil) = %+v, want nil (insufficient data)", got)
	}
	if got := ComputeSpendPace([]DailyExpense{}); got != nil {
		t.Errorf("ComputeSpendPace(empty) = %+v, want nil (insufficient data)", got)
	}
}

func TestComputeSpendPaceAverage(t *testing.T) {
	series := []DailyExpense{
		{Day: day("2024-03-01"), ExpenseCents: 10000},
		{Day: day("2024-03-02"), ExpenseCents: 30000},
	}
	pace := ComputeSpendPace(series)
	if pace == nil {
		t.Fatal("ComputeSpendPace returned nil for a non-empty series")
	}
	if pace.AvgDailyCents != 20000 {
		t.Errorf("AvgDailyCents = %d, want 20000", pace.AvgDailyCents)
	}
	if pace.DaysObserved != 2 {
		t.Errorf("DaysObserved = %d, want 2", pace.DaysObserved)
	}
	if pace.Explanation == "" {
		t.Error("Explanation must not be empty")
	}
}

func TestComputeSpendPaceAprilScenario(t *testing.T) {
	// cycle 2024-04-01 .. 2024-04-30 with two spending days
	series := []DailyExpense{
		{Day: day("2024-04-01"), ExpenseCents: 50000},
		{Day: day("2024-04-15"), ExpenseCents: 120000},
	}
	pace := ComputeSpendPace(series)
	if pace == nil {
		t.Fatal("ComputeSpendPace returned nil")
	}
	if pace.AvgDailyCents != 85000 {
		t.Errorf("AvgDailyCents = %d, want 85000 (850.00)", pace.AvgDailyCents)
	}
	if pace.DaysObserved != 2 {
		t.Errorf("DaysObserved = %d, want 2", pace.DaysObserved)
	}
}

func TestDetectDriftNotComputed(t *testing.T) {
	series := []DailyExpense{{Day: day("2024-04-01"), ExpenseCents: 50000}}
	if got := DetectDrift(series); got != nil {
		t.Errorf("DetectDrift = %+v, want nil (not yet computed)", got)
	}
}
