package infra

// pdf.go — period report generation using go-pdf/fpdf.
// Renders an A4 summary of a period snapshot: channel aggregates, profit
// figures and the per-partner distribution table.

import (
	"fmt"
	"os"
	"path/filepath"

	"timecafe/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// GeneratePeriodReportPDF writes the distribution report for a snapshot and
// returns the absolute path of the generated file.
func GeneratePeriodReportPDF(snap *model.PeriodSnapshot, businessName, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("period_%s_%s.pdf",
		snap.PeriodStart.Format("20060102"), snap.PeriodEnd.Format("20060102"))
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, businessName, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 6, fmt.Sprintf("Period report  %s - %s",
		snap.PeriodStart.Format("02/01/2006"), snap.PeriodEnd.Format("02/01/2006")),
		"", 1, "C", false, 0, "")
	pdf.Ln(4)

	// ── Channel aggregates ───────────────────────────────────────────────────
	line := func(label string, v decimal.Decimal) {
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(contentW*0.6, 6, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW*0.4, 6, v.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(contentW, 7, "Channels", "B", 1, "L", false, 0, "")
	line("Cash revenue", snap.CashRevenue)
	line("Bank revenue", snap.BankRevenue)
	line("Cash expenses", snap.CashExpenses)
	line("Bank expenses", snap.BankExpenses)
	line("Cash purchases", snap.CashPurchases)
	line("Bank purchases", snap.BankPurchases)
	line("Transfers cash to bank", snap.TransfersCashToBank)
	line("Net cash in place", snap.NetCashInPlace)
	line("Net bank in place", snap.NetBankInPlace)
	pdf.Ln(3)

	// ── Profit figures ───────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(contentW, 7, "Profit", "B", 1, "L", false, 0, "")
	line("Discounts granted", snap.DiscountTotal)
	line("Direct cost", snap.DirectCost)
	line("Overhead (pro-rated)", snap.Overhead)
	line("Gross profit", snap.GrossProfit)
	line("Dev cut", snap.DevCut)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW*0.6, 7, "Net profit distributed", "", 0, "L", false, 0, "")
	pdf.CellFormat(contentW*0.4, 7, snap.NetProfitPaid.StringFixed(2), "", 1, "R", false, 0, "")
	pdf.Ln(4)

	// ── Partner table ────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(contentW, 7, "Distribution", "B", 1, "L", false, 0, "")

	col := contentW / 5
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col, 6, "Partner", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col, 6, "%", "B", 0, "R", false, 0, "")
	pdf.CellFormat(col, 6, "Cash", "B", 0, "R", false, 0, "")
	pdf.CellFormat(col, 6, "Bank", "B", 0, "R", false, 0, "")
	pdf.CellFormat(col, 6, "Total", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, row := range snap.Rows {
		pdf.CellFormat(col, 6, row.Partner, "", 0, "L", false, 0, "")
		pdf.CellFormat(col, 6, row.Percent.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(col, 6, row.CashPayout.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(col, 6, row.BankPayout.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(col, 6, row.FinalPayoutTotal.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(contentW, 5,
		fmt.Sprintf("Generated by %s on %s", snap.CreatedByName, snap.CreatedAt.Format("02/01/2006 15:04")),
		"", 1, "L", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}
