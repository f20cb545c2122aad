package report

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"

	"moneytracker/internal/core"
)

const maxRows = 500

var txColumns = []struct {
	title string
	width float64
	align string
}{
	{"DATE", 24, "C"},
	{"TYPE", 20, "C"},
	{"CATEGORY", 36, "L"},
	{"DESCRIPTION", 72, "L"},
	{"AMOUNT", 30, "R"},
}

// BuildStatementPDF renders the statement as an A4 PDF.
func BuildStatementPDF(st Statement) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(14, 14, 14)
	pdf.SetCreationDate(st.GeneratedAt)
	pdf.SetTitle(st.Title, false)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetTextColor(20, 20, 20)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, tr(st.Title))
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(80, 80, 80)
	pdf.Cell(0, 6, tr("Filter: "+describeFilter(st.Filter, st.Categories)))
	pdf.Ln(10)

	// Summary
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetFillColor(248, 248, 248)
	pdf.SetTextColor(20, 20, 20)
	pdf.SetFont("Helvetica", "B", 11)
	sumW := 182.0 / 3
	pdf.CellFormat(sumW, 10, "Income", "1", 0, "C", true, 0, "")
	pdf.CellFormat(sumW, 10, "Expenses", "1", 0, "C", true, 0, "")
	pdf.CellFormat(sumW, 10, "Balance", "1", 1, "C", true, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(sumW, 10, st.Stats.TotalIncome.Format(), "1", 0, "C", false, 0, "")
	pdf.CellFormat(sumW, 10, st.Stats.TotalExpenses.Format(), "1", 0, "C", false, 0, "")
	pdf.CellFormat(sumW, 10, st.Stats.Balance.Format(), "1", 1, "C", false, 0, "")
	pdf.Ln(6)

	if len(st.Breakdown) > 0 {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, "Expenses by category")
		pdf.Ln(9)
		pdf.SetFont("Helvetica", "", 10)
		for _, b := range st.Breakdown {
			pdf.CellFormat(120, 7, tr(b.Name), "B", 0, "L", false, 0, "")
			pdf.CellFormat(62, 7, b.Amount.Format(), "B", 1, "R", false, 0, "")
		}
		pdf.Ln(6)
	}

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Transactions (%d)", len(st.Transactions)))
	pdf.Ln(9)
	writeTableHeader(pdf)

	pdf.SetFont("Helvetica", "", 9)
	for i, tx := range st.Transactions {
		if i >= maxRows {
			pdf.SetFont("Helvetica", "I", 9)
			pdf.CellFormat(0, 8, "... truncated (too many rows)", "1", 1, "C", false, 0, "")
			break
		}
		if pdf.GetY() > 270 {
			pdf.AddPage()
			writeTableHeader(pdf)
			pdf.SetFont("Helvetica", "", 9)
		}

		amount := tx.Amount.Format()
		if tx.Type == core.Expense {
			amount = "-" + amount
		}
		cells := []string{
			tx.Date.String(),
			strings.ToUpper(string(tx.Type)),
			trimTo(categoryName(st.Categories, tx.Category), 20),
			trimTo(tx.Description, 44),
			amount,
		}
		for j, c := range txColumns {
			ln := 0
			if j == len(txColumns)-1 {
				ln = 1
			}
			pdf.CellFormat(c.width, 7, tr(cells[j]), "1", ln, c.align, false, 0, "")
		}
	}

	pdf.SetY(-18)
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(120, 120, 120)
	pdf.CellFormat(0, 10, "Generated "+st.GeneratedAt.Format(time.RFC3339), "", 0, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func writeTableHeader(pdf *gofpdf.Fpdf) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(245, 245, 245)
	pdf.SetTextColor(20, 20, 20)
	for j, c := range txColumns {
		ln := 0
		if j == len(txColumns)-1 {
			ln = 1
		}
		pdf.CellFormat(c.width, 8, c.title, "1", ln, "C", true, 0, "")
	}
}

func describeFilter(f core.FilterState, categories []core.Category) string {
	parts := []string{"type " + string(f.Type), "range " + string(f.DateRange)}
	if f.Category != "" && f.Category != core.CategoryAll {
		parts = append(parts, "category "+categoryName(categories, f.Category))
	}
	if f.SearchTerm != "" {
		parts = append(parts, fmt.Sprintf("search %q", f.SearchTerm))
	}
	return strings.Join(parts, ", ")
}

func categoryName(categories []core.Category, id string) string {
	if c, ok := core.FindCategory(categories, id); ok {
		return c.Name
	}
	return id
}

func trimTo(s string, max int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
