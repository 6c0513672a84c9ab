package handler

import (
	"net/http"
	"strings"
	"time"

	"fintrack/internal/middleware"
	"fintrack/internal/models"
	"fintrack/internal/money"
	"fintrack/internal/payment"
	"fintrack/internal/storage"
	"fintrack/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// TransactionHandler owns the transaction ledger.
type TransactionHandler struct {
	DB                *gorm.DB
	SalaryAccountName string
}

func NewTransactionHandler(db *gorm.DB, salaryAccountName string) *TransactionHandler {
	if salaryAccountName == "" {
		salaryAccountName = "Salary Account"
	}
	return &TransactionHandler{DB: db, SalaryAccountName: salaryAccountName}
}

type createTransactionReq struct {
	Type            string  `json:"type" binding:"required"`
	Category        string  `json:"category" binding:"required,max=64"`
	Amount          string  `json:"amount" binding:"required"`
	TransactionDate string  `json:"transaction_date" binding:"required"`
	Description     string  `json:"description" binding:"max=255"`
	PaymentTo       string  `json:"payment_to" binding:"max=64"`
	PaymentSource   string  `json:"payment_source"`
	SourceDetails   *string `json:"source_details"`
}

type transactionResp struct {
	ID              uint    `json:"id"`
	Type            string  `json:"type"`
	Category        string  `json:"category"`
	Icon            string  `json:"icon"`
	AmountCents     int64   `json:"amount_cents"`
	Amount          string  `json:"amount"`
	TransactionDate string  `json:"transaction_date"`
	Description     string  `json:"description"`
	PaymentTo       string  `json:"payment_to"`
	PaymentSource   string  `json:"payment_source"`
	SourceDetails   *string `json:"source_details"`
}

func toTransactionResp(t *models.Transaction, icon string) transactionResp {
	return transactionResp{
		ID:              t.ID,
		Type:            t.Type,
		Category:        t.Category,
		Icon:            icon,
		AmountCents:     t.AmountCents,
		Amount:          money.FormatCents(t.AmountCents),
		TransactionDate: t.TransactionDate.Format("2006-01-02"),
		Description:     t.Description,
		PaymentTo:       t.PaymentTo,
		PaymentSource:   t.PaymentSource,
		SourceDetails:   t.SourceDetails,
	}
}

// Create records a transaction. Every validation runs before the first
// database write; the insert and the cycle aggregate recompute commit
// together or not at all.
func (h *TransactionHandler) Create(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Not signed in")
		return
	}

	var req createTransactionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Invalid parameters")
		return
	}

	if err := util.ValidateTransactionType(req.Type); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Please choose a transaction type")
		return
	}

	req.Category = strings.TrimSpace(req.Category)
	if err := util.ValidateCategory(req.Category); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Please choose a category")
		return
	}

	amountCents, err := money.ParseCents(req.Amount)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Please enter a valid amount")
		return
	}

	txDate, err := util.ValidateDate(req.TransactionDate)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Transaction date must be YYYY-MM-DD")
		return
	}
	if txDate.Format("2006-01-02") > time.Now().Format("2006-01-02") {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Transaction date cannot be in the future")
		return
	}

	paymentTo := strings.TrimSpace(req.PaymentTo)
	paymentSource := strings.TrimSpace(req.PaymentSource)
	sourceDetails := req.SourceDetails

	// income + salary category pins the payment fields to the salary deposit
	if sel, forced := payment.ApplySalaryOverride(req.Type, req.Category, h.SalaryAccountName); forced {
		paymentTo = sel.PaymentTo
		paymentSource = sel.PaymentSource
		sourceDetails = sel.SourceDetails
	} else {
		if err := payment.ValidateSelection(paymentSource, sourceDetails); err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Please choose a valid payment source")
			return
		}
	}

	tx := models.Transaction{
		UserID:          user.ID,
		Type:            req.Type,
		Category:        req.Category,
		AmountCents:     amountCents,
		TransactionDate: txDate,
		Description:     strings.TrimSpace(req.Description),
		PaymentTo:       paymentTo,
		PaymentSource:   paymentSource,
		SourceDetails:   sourceDetails,
	}

	err = h.DB.Transaction(func(dbtx *gorm.DB) error {
		if err := dbtx.Create(&tx).Error; err != nil {
			return err
		}
		// keep the cached totals of the containing cycle in sync
		cycle, err := storage.CycleContaining(dbtx, user.ID, txDate)
		if err != nil {
			if storage.IsNotFound(err) {
				return nil // date outside every known cycle, nothing to refresh
			}
			return err
		}
		_, err = storage.RecomputeCycleAggregate(dbtx, user.ID, cycle.CycleStart, cycle.CycleEnd)
		return err
	})
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to save transaction")
		return
	}

	icon := resolveIcon(iconIndex(h.DB, user.ID), tx.Category)
	util.Success(c, util.Response{
		"transaction": toTransactionResp(&tx, icon),
	})
}

// ListPaymentSources exposes the static source catalog so clients can build
// the cascading source/details selection.
func (h *TransactionHandler) ListPaymentSources(c *gin.Context) {
	sources := make([]gin.H, 0)
	for _, source := range payment.Sources() {
		details, _ := payment.DetailsFor(source)
		sources = append(sources, gin.H{
			"source":  source,
			"details": details,
		})
	}
	util.Success(c, util.Response{
		"sources": sources,
	})
}

// List returns the transactions of one cycle, newest first. The range filter
// runs server-side so a user's full history never crosses the wire. An empty
// cycle is a valid, explicit result, not an error.
func (h *TransactionHandler) List(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Not signed in")
		return
	}

	cycleStart, cycleEnd, ok := bindCycleRange(c)
	if !ok {
		return
	}

	txs, err := storage.TransactionsInCycle(h.DB, user.ID, cycleStart, cycleEnd)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to load transactions")
		return
	}

	idx := iconIndex(h.DB, user.ID)
	items := make([]transactionResp, 0, len(txs))
	for i := range txs {
		items = append(items, toTransactionResp(&txs[i], resolveIcon(idx, txs[i].Category)))
	}

	util.Success(c, util.Response{
		"items": items,
		"count": len(items),
	})
}

// bindCycleRange reads and checks the cycle_start/cycle_end query pair shared
// by the ledger, dashboard and export endpoints. On failure it writes the
// error response and returns ok=false.
func bindCycleRange(c *gin.Context) (time.Time, time.Time, bool) {
	cycleStart, err := util.ValidateDate(c.Query("cycle_start"))
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "cycle_start must be YYYY-MM-DD")
		return time.Time{}, time.Time{}, false
	}
	cycleEnd, err := util.ValidateDate(c.Query("cycle_end"))
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "cycle_end must be YYYY-MM-DD")
		return time.Time{}, time.Time{}, false
	}
	if cycleEnd.Before(cycleStart) {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "cycle_end must not be before cycle_start")
		return time.Time{}, time.Time{}, false
	}
	return cycleStart, cycleEnd, true
}
