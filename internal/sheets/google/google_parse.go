package google

import (
	"fmt"
	"strconv"
	"strings"

	ports "moneytracker/internal/sheets"
)

// encodeRows turns rows into the values matrix sent to the Sheets API,
// header first.
func encodeRows(rows []ports.Row) [][]any {
	values := make([][]any, 0, len(rows)+1)
	header := make([]any, len(ports.Header))
	for i, h := range ports.Header {
		header[i] = h
	}
	values = append(values, header)
	for _, r := range rows {
		values = append(values, []any{r.Date, r.Type, r.Category, r.Description, r.Vendor, r.Amount, r.ID})
	}
	return values
}

// dataRange returns the A1 range covering n rows of the mirror columns.
func dataRange(sheet string, n int) string {
	if n < 1 {
		n = 1
	}
	return fmt.Sprintf("%s!A1:G%d", sheet, n)
}

// decodeRows parses a values matrix as written by encodeRows. The first row
// must be the header; blank rows are skipped.
func decodeRows(values [][]any) ([]ports.Row, error) {
	if len(values) == 0 {
		return []ports.Row{}, nil
	}
	headers := toStrings(values[0])
	if indexOf(headers, "ID") == -1 || indexOf(headers, "Amount") == -1 {
		return nil, fmt.Errorf("unexpected mirror header: got headers=%v", headers)
	}
	col := func(name string) int { return indexOf(headers, name) }

	out := make([]ports.Row, 0, len(values)-1)
	for i := 1; i < len(values); i++ {
		row := toStrings(values[i])
		id := safeGet(row, col("ID"))
		if id == "" {
			continue
		}
		amount, err := parseAmount(safeGet(row, col("Amount")))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		out = append(out, ports.Row{
			Date:        safeGet(row, col("Date")),
			Type:        safeGet(row, col("Type")),
			Category:    safeGet(row, col("Category")),
			Description: safeGet(row, col("Description")),
			Vendor:      safeGet(row, col("Vendor")),
			Amount:      amount,
			ID:          id,
		})
	}
	return out, nil
}

// parseAmount accepts the plain integers written by encodeRows and the
// float rendering the API returns for numeric cells.
func parseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	return int64(f + 0.5), nil
}

func toStrings(in []any) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

func indexOf(list []string, target string) int {
	for i, v := range list {
		if strings.EqualFold(v, target) {
			return i
		}
	}
	return -1
}

func safeGet(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
