package handler

import (
	"net/http"

	"fintrack/internal/insight"
	"fintrack/internal/middleware"
	"fintrack/internal/money"
	"fintrack/internal/storage"
	"fintrack/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// DashboardHandler assembles every cycle-scoped view in one place. A single
// request serves the stat cards, the line chart, the donut and the ledger, so
// a cycle change can never leave one widget on the old cycle while another
// already shows the new one.
type DashboardHandler struct {
	DB *gorm.DB
}

func NewDashboardHandler(db *gorm.DB) *DashboardHandler {
	return &DashboardHandler{DB: db}
}

type totalsSection struct {
	IncomeCents  int64  `json:"income_cents"`
	ExpenseCents int64  `json:"expense_cents"`
	NetCents     int64  `json:"net_cents"`
	Income       string `json:"income"`
	Expense      string `json:"expense"`
	Net          string `json:"net"`
	NetSign      string `json:"net_sign"` // positive / negative / neutral
}

// section wraps one widget's payload so a failed fetch degrades that widget
// alone instead of the whole dashboard.
type section struct {
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

func okSection(data interface{}) section { return section{Data: data} }
func errSection(msg string) section      { return section{Error: msg} }

// Get returns totals, daily series, breakdown, ledger and insight for one
// cycle. ?source= switches the breakdown to the category drill-down for that
// payment source.
func (h *DashboardHandler) Get(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Not signed in")
		return
	}

	cycleStart, cycleEnd, ok := bindCycleRange(c)
	if !ok {
		return
	}

	resp := util.Response{
		"cycle_start": cycleStart.Format("2006-01-02"),
		"cycle_end":   cycleEnd.Format("2006-01-02"),
	}

	// totals
	if agg, err := storage.CycleTotals(h.DB, user.ID, cycleStart, cycleEnd); err != nil {
		resp["totals"] = errSection("Failed to load totals")
	} else {
		net := agg.IncomeCents - agg.ExpenseCents
		sign := "neutral"
		if net > 0 {
			sign = "positive"
		} else if net < 0 {
			sign = "negative"
		}
		resp["totals"] = okSection(totalsSection{
			IncomeCents:  agg.IncomeCents,
			ExpenseCents: agg.ExpenseCents,
			NetCents:     net,
			Income:       money.FormatCents(agg.IncomeCents),
			Expense:      money.FormatCents(agg.ExpenseCents),
			Net:          money.FormatCents(net),
			NetSign:      sign,
		})
	}

	// daily expense series + spend pace derived from it
	series, err := storage.DailyExpenseSeries(h.DB, user.ID, cycleStart, cycleEnd)
	if err != nil {
		resp["daily"] = errSection("Failed to load daily expenses")
		resp["insight"] = errSection("Failed to load daily expenses")
	} else {
		resp["daily"] = okSection(series)

		paceInput := make([]insight.DailyExpense, len(series))
		for i, p := range series {
			paceInput[i] = insight.DailyExpense{Day: p.Day, ExpenseCents: p.TotalCents}
		}
		if pace := insight.ComputeSpendPace(paceInput); pace != nil {
			resp["insight"] = okSection(gin.H{
				"spend_pace": pace,
				"avg_daily":  money.FormatCents(pace.AvgDailyCents),
				"drift":      insight.DetectDrift(paceInput),
			})
		} else {
			resp["insight"] = okSection(gin.H{
				"spend_pace": nil,
				"message":    "Insufficient data",
			})
		}
	}

	// breakdown: payment sources by default, categories of one source when
	// drilling down
	source := c.Query("source")
	var breakdown []storage.BreakdownRow
	if source == "" {
		breakdown, err = storage.BreakdownBySource(h.DB, user.ID, cycleStart, cycleEnd)
	} else {
		breakdown, err = storage.BreakdownByCategory(h.DB, user.ID, cycleStart, cycleEnd, source)
	}
	if err != nil {
		resp["breakdown"] = errSection("Failed to load breakdown")
	} else {
		level := "source"
		if source != "" {
			level = "category"
		}
		resp["breakdown"] = okSection(gin.H{
			"level":  level,
			"source": source,
			"rows":   breakdown,
		})
	}

	// ledger
	if txs, err := storage.TransactionsInCycle(h.DB, user.ID, cycleStart, cycleEnd); err != nil {
		resp["ledger"] = errSection("Failed to load transactions")
	} else {
		idx := iconIndex(h.DB, user.ID)
		items := make([]transactionResp, 0, len(txs))
		for i := range txs {
			items = append(items, toTransactionResp(&txs[i], resolveIcon(idx, txs[i].Category)))
		}
		resp["ledger"] = okSection(gin.H{
			"items": items,
			"count": len(items),
		})
	}

	util.Success(c, resp)
}
