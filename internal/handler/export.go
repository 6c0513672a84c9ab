package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"

	"fintrack/internal/middleware"
	"fintrack/internal/models"
	"fintrack/internal/money"
	"fintrack/internal/storage"
	"fintrack/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ExportHandler streams one cycle's transactions as CSV or XLSX.
type ExportHandler struct {
	DB *gorm.DB
}

func NewExportHandler(db *gorm.DB) *ExportHandler {
	return &ExportHandler{DB: db}
}

var exportHeaders = []string{"Type", "Category", "Amount", "Paid To", "Payment Source", "Source Details", "Description", "Date"}

func exportRow(t *models.Transaction) []string {
	details := ""
	if t.SourceDetails != nil {
		details = *t.SourceDetails
	}
	return []string{
		t.Type,
		t.Category,
		money.FormatCents(t.AmountCents),
		t.PaymentTo,
		t.PaymentSource,
		details,
		t.Description,
		t.TransactionDate.Format("2006-01-02"),
	}
}

// ExportCSV writes the cycle's transactions as CSV with a UTF-8 BOM so
// spreadsheet apps detect the encoding.
func (h *ExportHandler) ExportCSV(c *gin.Context) {
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

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"transactions_%s_%s.csv\"",
		cycleStart.Format("20060102"), cycleEnd.Format("20060102")))

	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write(exportHeaders)
	for i := range txs {
		writer.Write(exportRow(&txs[i]))
	}
}

// ExportXLSX writes the cycle's transactions as an Excel workbook.
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
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

	f := excelize.NewFile()
	sheetName := "Transactions"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to create sheet")
		return
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for i, head := range exportHeaders {
		f.SetCellValue(sheetName, fmt.Sprintf("%c1", 'A'+i), head)
	}

	for idx := range txs {
		row := idx + 2
		for i, val := range exportRow(&txs[idx]) {
			f.SetCellValue(sheetName, fmt.Sprintf("%c%d", 'A'+i, row), val)
		}
	}

	f.SetColWidth(sheetName, "A", "A", 10)
	f.SetColWidth(sheetName, "B", "B", 16)
	f.SetColWidth(sheetName, "C", "C", 12)
	f.SetColWidth(sheetName, "D", "E", 16)
	f.SetColWidth(sheetName, "F", "F", 18)
	f.SetColWidth(sheetName, "G", "G", 30)
	f.SetColWidth(sheetName, "H", "H", 12)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"transactions_%s_%s.xlsx\"",
		cycleStart.Format("20060102"), cycleEnd.Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to export")
	}
}
