package wages

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

type column int

const (
	colName column = iota
	colP10
	colP25
	colMedian
	colP75
	colP90
	colPrior
	colEmployment
	colIgnored
)

// classifyHeader maps a header cell to a column. Percentile headers are
// matched on their ordinal ("10th", "25th"...) so both "Hourly 10th
// percentile wage" and "10th %ile" work.
func classifyHeader(text string) column {
	h := strings.ToLower(strings.Join(strings.Fields(text), " "))
	switch {
	case strings.Contains(h, "prior") || strings.Contains(h, "previous") || strings.Contains(h, "last year"):
		return colPrior
	case strings.Contains(h, "10th"):
		return colP10
	case strings.Contains(h, "25th"):
		return colP25
	case strings.Contains(h, "median") || strings.Contains(h, "50th"):
		return colMedian
	case strings.Contains(h, "75th"):
		return colP75
	case strings.Contains(h, "90th"):
		return colP90
	case strings.Contains(h, "employment") || strings.Contains(h, "jobs"):
		return colEmployment
	case strings.Contains(h, "occupation") || strings.Contains(h, "title") || strings.Contains(h, "name"):
		return colName
	default:
		return colIgnored
	}
}

// ParseHTMLTable reads the first table whose header names a median column and
// returns one Row per body row. Rows with suppressed or non-numeric wage
// cells (e.g. "#" or "(5)") are skipped.
func ParseHTMLTable(r io.Reader) ([]Row, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var rows []Row
	var found bool
	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		cols := headerColumns(table)
		if !hasColumn(cols, colMedian) {
			return true
		}
		found = true
		rows = parseBody(table, cols)
		return false
	})

	if !found {
		return nil, fmt.Errorf("no wage table with a median column found")
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("wage table has no usable rows")
	}
	return rows, nil
}

func headerColumns(table *goquery.Selection) []column {
	header := table.Find("thead tr").First()
	if header.Length() == 0 {
		header = table.Find("tr").First()
	}

	var cols []column
	header.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
		cols = append(cols, classifyHeader(cell.Text()))
	})
	// A table without an explicit name header uses its first column.
	if len(cols) > 0 && !hasColumn(cols, colName) && cols[0] == colIgnored {
		cols[0] = colName
	}
	return cols
}

func hasColumn(cols []column, want column) bool {
	for _, c := range cols {
		if c == want {
			return true
		}
	}
	return false
}

func parseBody(table *goquery.Selection, cols []column) []Row {
	// Without a thead the header is the first row of the implied tbody.
	bodyRows := table.Find("tr").Slice(1, goquery.ToEnd)
	if table.Find("thead").Length() > 0 {
		bodyRows = table.Find("tbody tr")
	}

	var rows []Row
	bodyRows.Each(func(_ int, tr *goquery.Selection) {
		row, ok := parseRow(tr, cols)
		if ok {
			rows = append(rows, row)
		}
	})
	return rows
}

func parseRow(tr *goquery.Selection, cols []column) (Row, bool) {
	var row Row
	ok := true
	tr.Find("th, td").Each(func(i int, cell *goquery.Selection) {
		if i >= len(cols) || !ok {
			return
		}
		text := strings.TrimSpace(cell.Text())
		switch cols[i] {
		case colName:
			row.Name = strings.Join(strings.Fields(text), " ")
		case colEmployment:
			if n, err := parseNumber(text); err == nil {
				row.Employment = int(n)
			}
		case colPrior:
			if n, err := parseNumber(text); err == nil {
				row.PriorMedian = n
			}
		case colP10, colP25, colMedian, colP75, colP90:
			n, err := parseNumber(text)
			if err != nil || n <= 0 {
				ok = false
				return
			}
			row.setPercentile(cols[i], n)
		}
	})

	if !ok || row.Name == "" {
		return Row{}, false
	}
	row.Slug = Slugify(row.Name)

	// Missing percentiles collapse onto their neighbours so ordering holds.
	if row.Median <= 0 {
		return Row{}, false
	}
	if row.P25 == 0 {
		row.P25 = row.Median
	}
	if row.P10 == 0 {
		row.P10 = row.P25
	}
	if row.P75 == 0 {
		row.P75 = row.Median
	}
	if row.P90 == 0 {
		row.P90 = row.P75
	}
	if validate.Struct(row) != nil {
		return Row{}, false
	}
	return row, true
}

func (r *Row) setPercentile(c column, v float64) {
	switch c {
	case colP10:
		r.P10 = v
	case colP25:
		r.P25 = v
	case colMedian:
		r.Median = v
	case colP75:
		r.P75 = v
	case colP90:
		r.P90 = v
	}
}

// parseNumber accepts "$1,234.50", "45,000" and "12.3".
func parseNumber(s string) (float64, error) {
	s = strings.NewReplacer("$", "", ",", "", " ", "").Replace(s)
	if s == "" {
		return 0, fmt.Errorf("empty number")
	}
	return strconv.ParseFloat(s, 64)
}
