package handler

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"budget-planner/internal/logging"
	"budget-planner/internal/models"
	"budget-planner/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

var exportHeaders = []string{"Date", "Type", "Category", "Amount", "Description"}

// ExportHandler downloads the user's transactions as CSV or XLSX.
type ExportHandler struct {
	Transactions *service.TransactionService
	Log          *slog.Logger
}

func NewExportHandler(transactions *service.TransactionService, log *slog.Logger) *ExportHandler {
	return &ExportHandler{Transactions: transactions, Log: log}
}

func exportRow(t *models.Transaction) []string {
	desc := ""
	if t.Description != nil {
		desc = *t.Description
	}
	return []string{
		t.Date.Format("2006-01-02"),
		t.Type.String(),
		t.Category.Name,
		strconv.FormatFloat(t.Amount(), 'f', 2, 64),
		desc,
	}
}

func (h *ExportHandler) load(c *gin.Context) ([]models.Transaction, bool) {
	user := currentUser(c)
	if user == nil {
		return nil, false
	}
	list, err := h.Transactions.ListAll(c.Request.Context(), user.ID)
	if err != nil {
		respondServiceError(c, h.Log, err)
		return nil, false
	}
	return list, true
}

func exportFilename(ext string) string {
	return fmt.Sprintf("attachment; filename=\"transactions_%s.%s\"", time.Now().Format("20060102"), ext)
}

func (h *ExportHandler) ExportCSV(c *gin.Context) {
	list, ok := h.load(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", exportFilename("csv"))
	c.Status(http.StatusOK)

	// UTF-8 BOM so Excel detects the encoding
	_, _ = c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	w := csv.NewWriter(c.Writer)
	_ = w.Write(exportHeaders)
	for i := range list {
		_ = w.Write(exportRow(&list[i]))
	}
	w.Flush()
	if err := w.Error(); err != nil {
		h.Log.Error("write csv export", logging.Err(err))
	}
}

func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	list, ok := h.load(c)
	if !ok {
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Transactions"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		respondServiceError(c, h.Log, err)
		return
	}

	for i, name := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, name)
	}
	for idx := range list {
		t := &list[idx]
		row := idx + 2
		desc := ""
		if t.Description != nil {
			desc = *t.Description
		}
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), t.Date.Format("2006-01-02"))
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), t.Type.String())
		_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", row), t.Category.Name)
		_ = f.SetCellValue(sheet, fmt.Sprintf("D%d", row), t.Amount())
		_ = f.SetCellValue(sheet, fmt.Sprintf("E%d", row), desc)
	}

	_ = f.SetColWidth(sheet, "A", "A", 12)
	_ = f.SetColWidth(sheet, "B", "B", 10)
	_ = f.SetColWidth(sheet, "C", "C", 18)
	_ = f.SetColWidth(sheet, "D", "D", 12)
	_ = f.SetColWidth(sheet, "E", "E", 30)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", exportFilename("xlsx"))
	c.Status(http.StatusOK)
	if err := f.Write(c.Writer); err != nil {
		h.Log.Error("write xlsx export", logging.Err(err))
	}
}
