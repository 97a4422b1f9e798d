// Package output provides utilities for formatting and displaying flag reports.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/iwvelando/finance-flags/internal/flags"
	"github.com/iwvelando/finance-flags/pkg/constants"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Row is one flag with the metric behind it.
type Row struct {
	Key      string
	Flag     flags.Flag
	Metric   flags.Metric
	IsAmount bool // amounts print with two decimals, ratios with four
}

// Rows lists the report's flags in output order.
func Rows(report flags.Report) []Row {
	return []Row{
		{Key: flags.TotalRevenue5CrKey, Flag: report.Flags.TotalRevenue5Cr, Metric: report.Metrics.TotalRevenue, IsAmount: true},
		{Key: flags.BorrowingToRevenueKey, Flag: report.Flags.BorrowingToRevenue, Metric: report.Metrics.BorrowingRatio},
		{Key: flags.ISCRKey, Flag: report.Flags.ISCR, Metric: report.Metrics.ISCR},
	}
}

// Write renders report in the named format.
func Write(w io.Writer, format string, report flags.Report) error {
	switch format {
	case constants.OutputFormatPretty:
		return PrettyFormat(w, report)
	case constants.OutputFormatCSV:
		return CsvFormat(w, report)
	case constants.OutputFormatJSON:
		return JSONFormat(w, report)
	}
	return fmt.Errorf("unsupported output format %q", format)
}

// PrettyFormat outputs a human-readable rather than machine-readable table.
func PrettyFormat(w io.Writer, report flags.Report) error {
	p := message.NewPrinter(language.English)

	nature := string(report.Nature)
	if nature == "" {
		nature = "untagged"
	}
	if _, err := fmt.Fprintf(w, "--- Flags for reporting period %d (%s) ---\n", report.ReportingPeriod, nature); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%-25s | %-6s | Metric\n", "Flag", "Result"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%-25s | %-6s | ______\n", "____", "______"); err != nil {
		return err
	}

	for _, row := range Rows(report) {
		var metric string
		if row.IsAmount {
			metric = p.Sprintf("%.2f", row.Metric.Float64())
		} else {
			metric = p.Sprintf("%.4f", row.Metric.Float64())
		}
		if row.Metric.IsMissing() {
			metric += " (missing)"
		}
		if _, err := fmt.Fprintf(w, "%-25s | %-6s | %s\n", row.Key, row.Flag, metric); err != nil {
			return err
		}
	}
	return nil
}

// CsvFormat outputs in comma-separated value format.
func CsvFormat(w io.Writer, report flags.Report) error {
	writer := csv.NewWriter(w)
	records := [][]string{{"flag", "code", "result", "metric", "missing", "reporting period"}}
	for _, row := range Rows(report) {
		records = append(records, []string{
			row.Key,
			strconv.Itoa(int(row.Flag)),
			row.Flag.String(),
			row.Metric.Decimal().String(),
			strconv.FormatBool(row.Metric.IsMissing()),
			strconv.Itoa(report.ReportingPeriod),
		})
	}
	return writer.WriteAll(records)
}

// JSONFormat outputs the report as indented JSON.
func JSONFormat(w io.Writer, report flags.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
