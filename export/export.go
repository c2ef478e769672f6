/*
Package export renders stored schedules as downloadable files.

FORMATS:
  csv:  period,payment,interest,principal,balance (encoding/csv)
  xlsx: "summary" and "schedule" sheets (excelize)
  pdf:  loan header plus the full table (gofpdf)

CSV amounts are plain two-decimal numbers, XLSX cells hold the raw floats,
PDF cells use grouped two-decimal strings.
*/
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"github.com/warp/amortization-engine/amortization"
)

// Format is an export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

// ParseFormat accepts "csv", "xlsx" or "pdf", case-insensitive.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatXLSX, FormatPDF:
		return f, nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

// ContentType is the MIME type served for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatPDF:
		return "application/pdf"
	}
	return "application/octet-stream"
}

// Render builds the file for rec in the given format.
func Render(f Format, rec amortization.ScheduleRecord) ([]byte, error) {
	switch f {
	case FormatCSV:
		var buf bytes.Buffer
		if err := WriteCSV(&buf, rec.Rows); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatXLSX:
		return BuildXLSX(rec)
	case FormatPDF:
		return BuildPDF(rec)
	}
	return nil, fmt.Errorf("unsupported export format %q", f)
}

var (
	header = []string{"period", "payment", "interest", "principal", "balance"}
	titles = []string{"Period", "Payment", "Interest", "Principal", "Balance"}
)

// WriteCSV writes rows with a header line.
func WriteCSV(w io.Writer, rows []amortization.Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			strconv.Itoa(r.Period),
			strconv.FormatFloat(r.Payment, 'f', 2, 64),
			strconv.FormatFloat(r.Interest, 'f', 2, 64),
			strconv.FormatFloat(r.Principal, 'f', 2, 64),
			strconv.FormatFloat(r.Balance, 'f', 2, 64),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// BuildXLSX renders a workbook for a schedule.
func BuildXLSX(rec amortization.ScheduleRecord) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	summarySheet := "summary"
	scheduleSheet := "schedule"
	f.SetSheetName("Sheet1", summarySheet)
	if _, err := f.NewSheet(scheduleSheet); err != nil {
		return nil, err
	}

	sum := rec.Summary()
	totalInterest, _ := sum.TotalInterest.Float64()
	totalPayment, _ := sum.TotalPayment.Float64()

	_ = f.SetCellValue(summarySheet, "A1", "Amortization Schedule")
	summary := [][2]any{
		{"ID", rec.ID},
		{"Label", rec.Label},
		{"Principal", rec.Config.Principal},
		{"Annual Rate", rec.Config.AnnualRate},
		{"Periods", rec.Config.Periods},
		{"Frequency", rec.Config.Frequency.String()},
		{"Interest Mode", rec.Config.InterestMode.String()},
		{"Payment", rec.Payment},
		{"Payoff Period", sum.PayoffPeriod},
		{"Total Interest", totalInterest},
		{"Total Payment", totalPayment},
		{"Created", rec.CreatedAt.Format(time.RFC3339)},
	}
	for i, kv := range summary {
		row := i + 3
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("A%d", row), kv[0])
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("B%d", row), kv[1])
	}

	for i, h := range header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(scheduleSheet, cell, h)
	}
	for i, r := range rec.Rows {
		row := i + 2
		_ = f.SetCellValue(scheduleSheet, fmt.Sprintf("A%d", row), r.Period)
		_ = f.SetCellValue(scheduleSheet, fmt.Sprintf("B%d", row), r.Payment)
		_ = f.SetCellValue(scheduleSheet, fmt.Sprintf("C%d", row), r.Interest)
		_ = f.SetCellValue(scheduleSheet, fmt.Sprintf("D%d", row), r.Principal)
		_ = f.SetCellValue(scheduleSheet, fmt.Sprintf("E%d", row), r.Balance)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildPDF renders a schedule as a one-table PDF.
func BuildPDF(rec amortization.ScheduleRecord) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	title := "Amortization Schedule"
	if rec.Label != "" {
		title += ": " + rec.Label
	}
	pdf.Cell(0, 8, title)
	pdf.Ln(10)

	sum := rec.Summary()
	totalInterest, _ := sum.TotalInterest.Float64()

	pdf.SetFont("Arial", "", 10)
	lines := []string{
		fmt.Sprintf("Principal: %s", amortization.FormatMoney(rec.Config.Principal)),
		fmt.Sprintf("Annual rate: %.4f%%", rec.Config.AnnualRate*100),
		fmt.Sprintf("Periods: %d (%s)", rec.Config.Periods, rec.Config.Frequency),
		fmt.Sprintf("Interest mode: %s", rec.Config.InterestMode),
		fmt.Sprintf("Payment: %s", amortization.FormatMoney(rec.Payment)),
		fmt.Sprintf("Total interest: %s", amortization.FormatMoney(totalInterest)),
		fmt.Sprintf("Payoff period: %d", sum.PayoffPeriod),
	}
	for _, line := range lines {
		pdf.Cell(0, 6, line)
		pdf.Ln(5)
	}
	pdf.Ln(4)

	widths := []float64{20, 40, 40, 40, 40}
	pdf.SetFont("Arial", "B", 10)
	for i, h := range titles {
		pdf.CellFormat(widths[i], 6, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	for _, r := range rec.Rows {
		pdf.CellFormat(widths[0], 6, strconv.Itoa(r.Period), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[1], 6, amortization.FormatMoney(r.Payment), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[2], 6, amortization.FormatMoney(r.Interest), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], 6, amortization.FormatMoney(r.Principal), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[4], 6, amortization.FormatMoney(r.Balance), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
