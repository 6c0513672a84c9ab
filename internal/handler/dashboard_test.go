package handler

import (
	"net/http"
	"testing"

	"fintrack/internal/models"
	"fintrack/internal/payment"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func newDashboardRouter(t *testing.T) (*gin.Engine, *models.User, *gorm.DB) {
	t.Helper()

	db := newTestDB(t)
	user := newTestUser(t, db, "dave")
	h := NewDashboardHandler(db)

	r := gin.New()
	r.Use(asUser(user))
	r.GET("/api/dashboard", h.Get)
	return r, user, db
}

func sectionData(t *testing.T, data map[string]interface{}, name string) map[string]interface{} {
	t.Helper()

	sec, ok := data[name].(map[string]interface{})
	if !ok {
		t.Fatalf("missing %s section: %v", name, data)
	}
	if errMsg, ok := sec["error"].(string); ok && errMsg != "" {
		t.Fatalf("%s section failed: %s", name, errMsg)
	}
	inner, ok := sec["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("%s section has no data: %v", name, sec)
	}
	return inner
}

func TestDashboardTotalsSeriesAndBreakdown(t *testing.T) {
	r, user, db := newDashboardRouter(t)

	seedTransaction(t, db, user.ID, "income", "Salary", 500000, "2024-04-01", payment.SourceSalaryDeposit)
	seedTransaction(t, db, user.ID, "expense", "Food", 200000, "2024-04-05", payment.SourceUPI)
	seedTransaction(t, db, user.ID, "expense", "Travel", 100000, "2024-04-05", payment.SourceUPI)
	seedTransaction(t, db, user.ID, "expense", "Food", 50000, "2024-04-06", payment.SourceCash)

	w := doJSON(t, r, http.MethodGet, "/api/dashboard?cycle_start=2024-04-01&cycle_end=2024-04-30", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("dashboard: got status %d, body %s", w.Code, w.Body.String())
	}
	data := dataOf(t, w)

	totals := sectionData(t, data, "totals")
	if got := totals["income_cents"].(float64); got != 500000 {
		t.Errorf("income_cents = %v, want 500000", got)
	}
	if got := totals["expense_cents"].(float64); got != 350000 {
		t.Errorf("expense_cents = %v, want 350000", got)
	}
	if got := totals["net_cents"].(float64); got != 150000 {
		t.Errorf("net_cents = %v, want 150000", got)
	}
	if got := totals["net_sign"].(string); got != "positive" {
		t.Errorf("net_sign = %q, want positive", got)
	}

	// daily series is sparse: two expense days only
	dailySec, _ := data["daily"].(map[string]interface{})
	days, _ := dailySec["data"].([]interface{})
	if len(days) != 2 {
		t.Fatalf("daily points = %d, want 2", len(days))
	}
	first, _ := days[0].(map[string]interface{})
	if got := first["total_cents"].(float64); got != 300000 {
		t.Errorf("first day total = %v, want 300000", got)
	}

	// source-level breakdown, largest slice first
	breakdown := sectionData(t, data, "breakdown")
	if got := breakdown["level"].(string); got != "source" {
		t.Errorf("breakdown level = %q, want source", got)
	}
	rows, _ := breakdown["rows"].([]interface{})
	if len(rows) != 2 {
		t.Fatalf("breakdown rows = %d, want 2", len(rows))
	}
	top, _ := rows[0].(map[string]interface{})
	if got := top["label"].(string); got != payment.SourceUPI {
		t.Errorf("top slice = %q, want %q", got, payment.SourceUPI)
	}
	if got := top["total_cents"].(float64); got != 300000 {
		t.Errorf("top slice total = %v, want 300000", got)
	}

	// spend pace averages over observed days only: 350000 / 2
	insightSec := sectionData(t, data, "insight")
	pace, _ := insightSec["spend_pace"].(map[string]interface{})
	if pace == nil {
		t.Fatal("spend_pace missing")
	}
	if got := pace["avg_daily_cents"].(float64); got != 175000 {
		t.Errorf("avg_daily_cents = %v, want 175000", got)
	}
}

func TestDashboardSourceDrillDown(t *testing.T) {
	r, user, db := newDashboardRouter(t)

	seedTransaction(t, db, user.ID, "expense", "Food", 200000, "2024-04-05", payment.SourceUPI)
	seedTransaction(t, db, user.ID, "expense", "Travel", 100000, "2024-04-06", payment.SourceUPI)
	seedTransaction(t, db, user.ID, "expense", "Food", 50000, "2024-04-06", payment.SourceCash)

	w := doJSON(t, r, http.MethodGet,
		"/api/dashboard?cycle_start=2024-04-01&cycle_end=2024-04-30&source=upi", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("dashboard: got status %d", w.Code)
	}
	data := dataOf(t, w)

	breakdown := sectionData(t, data, "breakdown")
	if got := breakdown["level"].(string); got != "category" {
		t.Errorf("breakdown level = %q, want category", got)
	}
	rows, _ := breakdown["rows"].([]interface{})
	if len(rows) != 2 {
		t.Fatalf("breakdown rows = %d, want 2 (cash excluded)", len(rows))
	}
	var total float64
	for _, raw := range rows {
		row, _ := raw.(map[string]interface{})
		total += row["total_cents"].(float64)
	}
	if total != 300000 {
		t.Errorf("drill-down total = %v, want 300000 (upi only)", total)
	}
}

func TestDashboardEmptyCycle(t *testing.T) {
	r, _, _ := newDashboardRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/dashboard?cycle_start=2024-04-01&cycle_end=2024-04-30", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("dashboard: got status %d, body %s", w.Code, w.Body.String())
	}
	data := dataOf(t, w)

	totals := sectionData(t, data, "totals")
	if got := totals["net_sign"].(string); got != "neutral" {
		t.Errorf("net_sign = %q, want neutral", got)
	}
	if got := totals["expense_cents"].(float64); got != 0 {
		t.Errorf("expense_cents = %v, want 0", got)
	}

	// no observed days means no pace, not a zero pace
	insightSec := sectionData(t, data, "insight")
	if pace := insightSec["spend_pace"]; pace != nil {
		t.Errorf("spend_pace = %v, want null", pace)
	}

	ledger := sectionData(t, data, "ledger")
	if got := ledger["count"].(float64); got != 0 {
		t.Errorf("ledger count = %v, want 0", got)
	}
}

func TestDashboardSectionFailureIsIsolated(t *testing.T) {
	r, user, db := newDashboardRouter(t)

	seedTransaction(t, db, user.ID, "expense", "Food", 20000, "2024-04-05", payment.SourceUPI)

	// break only the totals query; every other section reads transactions
	if err := db.Migrator().DropTable(&models.CycleAggregate{}); err != nil {
		t.Fatalf("drop aggregates table: %v", err)
	}

	w := doJSON(t, r, http.MethodGet, "/api/dashboard?cycle_start=2024-04-01&cycle_end=2024-04-30", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("dashboard: got status %d, want %d despite a failed section", w.Code, http.StatusOK)
	}
	data := dataOf(t, w)

	totalsSec, _ := data["totals"].(map[string]interface{})
	if msg, _ := totalsSec["error"].(string); msg == "" {
		t.Errorf("totals section = %v, want an error entry", totalsSec)
	}

	// the broken section must not take the healthy ones with it
	breakdown := sectionData(t, data, "breakdown")
	rows, _ := breakdown["rows"].([]interface{})
	if len(rows) != 1 {
		t.Errorf("breakdown rows = %d, want 1", len(rows))
	}
	ledger := sectionData(t, data, "ledger")
	if got := ledger["count"].(float64); got != 1 {
		t.Errorf("ledger count = %v, want 1", got)
	}
	insightSec := sectionData(t, data, "insight")
	pace, _ := insightSec["spend_pace"].(map[string]interface{})
	if pace == nil {
		t.Error("insight section missing spend_pace")
	}
}

func TestDashboardRejectsBadRange(t *testing.T) {
	r, _, _ := newDashboardRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/dashboard?cycle_start=2024-04-30&cycle_end=2024-04-01", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("reversed range: got status %d, want %d", w.Code, http.StatusBadRequest)
	}
}
