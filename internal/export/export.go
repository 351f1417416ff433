// Package export writes ledger reports to csv, json, yaml and pdf files.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"gopkg.in/yaml.v3"

	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/models"
)

// Formats lists the supported export formats.
var Formats = []string{"csv", "json", "yaml", "pdf"}

// Report is the exported view of a ledger.
type Report struct {
	GeneratedAt time.Time    `json:"generatedAt" yaml:"generatedAt"`
	Balances    []BalanceRow `json:"balances" yaml:"balances"`
	Expenses    []ExpenseRow `json:"expenses" yaml:"expenses"`
}

type BalanceRow struct {
	Participant string `json:"participant" yaml:"participant"`
	Balance     string `json:"balance" yaml:"balance"`
}

type ExpenseRow struct {
	Description string     `json:"description" yaml:"description"`
	Amount      string     `json:"amount" yaml:"amount"`
	SplitType   string     `json:"splitType" yaml:"splitType"`
	Shares      []ShareRow `json:"shares,omitempty" yaml:"shares,omitempty"`
}

type ShareRow struct {
	Participant string `json:"participant" yaml:"participant"`
	Amount      string `json:"amount" yaml:"amount"`
}

// NewReport builds a report from the ledger's balances and summary.
func NewReport(l *ledger.Ledger, now time.Time) *Report {
	r := &Report{
		GeneratedAt: now,
		Balances:    []BalanceRow{},
		Expenses:    []ExpenseRow{},
	}
	for _, b := range l.Balances() {
		r.Balances = append(r.Balances, BalanceRow{Participant: b.Name, Balance: b.Amount.StringFixed(2)})
	}
	for s := range l.Summary() {
		r.Expenses = append(r.Expenses, expenseRow(s))
	}
	return r
}

func expenseRow(s models.ExpenseSummary) ExpenseRow {
	row := ExpenseRow{
		Description: s.Description,
		Amount:      s.Amount.StringFixed(2),
		SplitType:   s.SplitType.String(),
	}
	for _, sh := range s.Breakdown {
		row.Shares = append(row.Shares, ShareRow{Participant: sh.Participant, Amount: sh.Amount.StringFixed(2)})
	}
	return row
}

// Write exports r in format to <base>_<timestamp>.<format> under dir and
// returns the absolute path of the written file.
func Write(r *Report, format, base, dir string) (string, error) {
	switch strings.ToLower(format) {
	case "csv":
		return ToCSV(r, base, dir)
	case "json":
		return ToJSON(r, base, dir)
	case "yaml", "yml":
		return ToYAML(r, base, dir)
	case "pdf":
		return ToPDF(r, base, dir)
	default:
		return "", fmt.Errorf("unsupported export format %q (want one of %s)", format, strings.Join(Formats, ", "))
	}
}

// ToCSV writes one row per balance followed by one row per expense share.
func ToCSV(r *Report, base, dir string) (string, error) {
	outputFilename, err := generateFilename(base, dir, "csv", r.GeneratedAt)
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	records := [][]string{{"Section", "Description", "Split", "Participant", "Amount"}}
	for _, b := range r.Balances {
		records = append(records, []string{"balance", "", "", b.Participant, b.Balance})
	}
	for _, e := range r.Expenses {
		records = append(records, []string{"expense", e.Description, e.SplitType, "", e.Amount})
		for _, sh := range e.Shares {
			records = append(records, []string{"share", e.Description, e.SplitType, sh.Participant, sh.Amount})
		}
	}
	if err := writer.WriteAll(records); err != nil {
		return "", fmt.Errorf("error writing CSV file: %w", err)
	}

	return filepath.Abs(outputFilename)
}

func ToJSON(r *Report, base, dir string) (string, error) {
	outputFilename, err := generateFilename(base, dir, "json", r.GeneratedAt)
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating JSON file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(r); err != nil {
		return "", fmt.Errorf("error encoding JSON data: %w", err)
	}

	return filepath.Abs(outputFilename)
}

func ToYAML(r *Report, base, dir string) (string, error) {
	outputFilename, err := generateFilename(base, dir, "yaml", r.GeneratedAt)
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating YAML file: %w", err)
	}
	defer file.Close()

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(2)
	if err := encoder.Encode(r); err != nil {
		return "", fmt.Errorf("error encoding YAML data: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return "", fmt.Errorf("error encoding YAML data: %w", err)
	}

	return filepath.Abs(outputFilename)
}

// ToPDF renders balances and the expense summary on A4 pages.
func ToPDF(r *Report, base, dir string) (string, error) {
	outputFilename, err := generateFilename(base, dir, "pdf", r.GeneratedAt)
	if err != nil {
		return "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	headerColor := [3]int{40, 40, 40}
	headerTextColor := [3]int{255, 255, 255}
	bodyTextColor := [3]int{50, 50, 50}
	lineColor := [3]int{200, 200, 200}

	section := func(title string) {
		pdf.SetFont("Arial", "B", 12)
		pdf.SetTextColor(0, 0, 0)
		pdf.Cell(0, 8, tr(title))
		pdf.Ln(7)
		pdf.SetDrawColor(lineColor[0], lineColor[1], lineColor[2])
		pdf.Line(pdf.GetX(), pdf.GetY(), pdf.GetX()+190, pdf.GetY())
		pdf.Ln(4)
		pdf.SetFont("Arial", "", 10)
		pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
	}

	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 10, tr(fmt.Sprintf("Generated by splitledger | %s", r.GeneratedAt.Format("2006-01-02"))), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "R", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFillColor(headerColor[0], headerColor[1], headerColor[2])
	pdf.SetTextColor(headerTextColor[0], headerTextColor[1], headerTextColor[2])
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 12, "  Ledger Report", "", 1, "L", true, 0, "")
	pdf.Ln(8)

	section("Current Balances")
	if len(r.Balances) == 0 {
		pdf.CellFormat(0, 6, "No participants.", "", 1, "L", false, 0, "")
	}
	for _, b := range r.Balances {
		pdf.CellFormat(120, 6, tr(b.Participant), "B", 0, "L", false, 0, "")
		pdf.CellFormat(70, 6, b.Balance, "B", 1, "R", false, 0, "")
	}
	pdf.Ln(8)

	section("Expense Summary")
	if len(r.Expenses) == 0 {
		pdf.CellFormat(0, 6, "No expenses recorded.", "", 1, "L", false, 0, "")
	}
	for _, e := range r.Expenses {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(120, 6, tr(e.Description), "", 0, "L", false, 0, "")
		pdf.CellFormat(70, 6, fmt.Sprintf("%s (%s)", e.Amount, e.SplitType), "", 1, "R", false, 0, "")
		pdf.SetFont("Arial", "", 9)
		for _, sh := range e.Shares {
			pdf.CellFormat(120, 5, tr("    "+sh.Participant), "", 0, "L", false, 0, "")
			pdf.CellFormat(70, 5, sh.Amount, "", 1, "R", false, 0, "")
		}
	}

	if err := pdf.OutputFileAndClose(outputFilename); err != nil {
		return "", fmt.Errorf("error writing PDF file: %w", err)
	}

	return filepath.Abs(outputFilename)
}

// generateFilename builds a timestamped file name and ensures dir exists.
func generateFilename(base, dir, ext string, at time.Time) (string, error) {
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("could not get current working directory: %w", err)
		}
		dir = cwd
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("error creating output directory '%s': %w", dir, err)
	}
	if base == "" {
		base = "ledger"
	}
	filename := fmt.Sprintf("%s_%s.%s", base, at.Format("20060102_150405"), ext)
	return filepath.Join(dir, filename), nil
}
