package wages

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/career-hub/internal/schemas"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

//go:embed sample_report.yaml
var sampleYAML []byte

// maxConcurrentLoads bounds LoadFiles.
const maxConcurrentLoads = 4

// Sample returns the embedded sample report.
func Sample() (*Report, error) {
	return LoadYAML(bytes.NewReader(sampleYAML))
}

// LoadYAML reads a report, checks it against the wage_report schema, then
// validates row ordering.
func LoadYAML(r io.Reader) (*Report, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read wage report: %w", err)
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse wage report YAML: %w", err)
	}
	if err := schemas.ValidateDocument(schemas.WageReport, doc); err != nil {
		return nil, err
	}

	var report Report
	if err := yaml.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to decode wage report: %w", err)
	}
	if err := report.Validate(); err != nil {
		return nil, err
	}
	return &report, nil
}

// LoadFile loads a YAML report, or an HTML table of occupations when the
// file extension is .html/.htm.
func LoadFile(path string) (*Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open wage report %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		rows, err := ParseHTMLTable(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return FromRows(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)), rows)
	default:
		report, err := LoadYAML(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return report, nil
	}
}

// LoadFiles loads several reports concurrently, preserving input order.
func LoadFiles(ctx context.Context, paths []string) ([]*Report, error) {
	reports := make([]*Report, len(paths))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLoads)
	for i, path := range paths {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			report, err := LoadFile(path)
			if err != nil {
				return err
			}
			reports[i] = report
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

// FromRows wraps an occupation table scraped without report metadata. The
// national median is taken as the employment-weighted median of the rows.
func FromRows(title string, rows []Row) (*Report, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("no wage rows in %s", title)
	}

	var weighted, weight, plain float64
	for _, row := range rows {
		plain += row.Median
		if row.Employment > 0 {
			weighted += row.Median * float64(row.Employment)
			weight += float64(row.Employment)
		}
	}
	national := plain / float64(len(rows))
	if weight > 0 {
		national = weighted / weight
	}

	unit := "annual"
	if national < 500 {
		unit = "hourly"
	}

	report := &Report{
		Title:          title,
		Unit:           unit,
		NationalMedian: national,
		Occupations:    rows,
	}
	if err := report.Validate(); err != nil {
		return nil, err
	}
	return report, nil
}

// Merge combines reports into the first one. Header fields come from the
// first report; rows from later reports are appended unless their slug is
// already present in that table.
func Merge(reports ...*Report) (*Report, error) {
	if len(reports) == 0 {
		return nil, fmt.Errorf("no wage reports to merge")
	}

	first := reports[0]
	merged := *first
	merged.Occupations = append([]Row(nil), first.Occupations...)
	merged.Industries = append([]Row(nil), first.Industries...)
	merged.Regions = append([]Row(nil), first.Regions...)

	for _, r := range reports[1:] {
		if r.Unit != first.Unit {
			return nil, fmt.Errorf("cannot merge %q (%s) into %q (%s)", r.Title, r.Unit, first.Title, first.Unit)
		}
		merged.Occupations = appendNew(merged.Occupations, r.Occupations)
		merged.Industries = appendNew(merged.Industries, r.Industries)
		merged.Regions = appendNew(merged.Regions, r.Regions)
	}

	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

func appendNew(dst, src []Row) []Row {
	seen := make(map[string]bool, len(dst))
	for _, row := range dst {
		seen[row.Slug] = true
	}
	for _, row := range src {
		if !seen[row.Slug] {
			dst = append(dst, row)
			seen[row.Slug] = true
		}
	}
	return dst
}
