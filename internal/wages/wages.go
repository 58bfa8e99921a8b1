// Package wages holds wage-report percentile tables and their loaders.
package wages

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// Kind names which table of a report a row belongs to.
type Kind string

// Table kinds in a wage report.
const (
	KindOccupation Kind = "occupation"
	KindIndustry   Kind = "industry"
	KindRegion     Kind = "region"
)

// ParseKind accepts the singular or plural table name.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "occupation", "occupations", "":
		return KindOccupation, nil
	case "industry", "industries":
		return KindIndustry, nil
	case "region", "regions":
		return KindRegion, nil
	default:
		return "", fmt.Errorf("unknown wage table kind %q", s)
	}
}

// Percentiles is one wage distribution.
type Percentiles struct {
	P10    float64 `yaml:"p10" json:"p10" validate:"gt=0"`
	P25    float64 `yaml:"p25" json:"p25" validate:"gtefield=P10"`
	Median float64 `yaml:"median" json:"median" validate:"gtefield=P25"`
	P75    float64 `yaml:"p75" json:"p75" validate:"gtefield=Median"`
	P90    float64 `yaml:"p90" json:"p90" validate:"gtefield=P75"`
}

// Row is one occupation, industry or region.
type Row struct {
	Slug        string  `yaml:"slug" json:"slug" validate:"required"`
	Name        string  `yaml:"name" json:"name" validate:"required"`
	Percentiles `yaml:",inline"`
	PriorMedian float64 `yaml:"prior_median,omitempty" json:"prior_median,omitempty" validate:"gte=0"`
	Employment  int     `yaml:"employment,omitempty" json:"employment,omitempty" validate:"gte=0"`
}

// HasPrior reports whether year-over-year comparison is possible.
func (r Row) HasPrior() bool {
	return r.PriorMedian > 0
}

// Report is a complete wage report.
type Report struct {
	Title          string  `yaml:"title" json:"title" validate:"required"`
	Year           int     `yaml:"year" json:"year,omitempty" validate:"omitempty,gte=2000"`
	Unit           string  `yaml:"unit" json:"unit" validate:"oneof=hourly annual"`
	NationalMedian float64 `yaml:"national_median" json:"national_median" validate:"gt=0"`
	InflationRate  float64 `yaml:"inflation_rate,omitempty" json:"inflation_rate,omitempty"`
	Occupations    []Row   `yaml:"occupations" json:"occupations" validate:"required,min=1,dive"`
	Industries     []Row   `yaml:"industries,omitempty" json:"industries,omitempty" validate:"dive"`
	Regions        []Row   `yaml:"regions,omitempty" json:"regions,omitempty" validate:"dive"`
}

// NotFoundError is returned when a slug is not in the requested table.
type NotFoundError struct {
	Kind Kind
	Slug string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.Slug)
}

var validate = validator.New()

// Validate checks every row: positive, non-decreasing percentiles and unique slugs per table.
func (r *Report) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("invalid wage report %q: %w", r.Title, err)
	}
	for _, kind := range []Kind{KindOccupation, KindIndustry, KindRegion} {
		seen := make(map[string]bool)
		for _, row := range r.Table(kind) {
			if seen[row.Slug] {
				return fmt.Errorf("invalid wage report %q: duplicate %s slug %s", r.Title, kind, row.Slug)
			}
			seen[row.Slug] = true
		}
	}
	return nil
}

// Table returns the rows of one kind.
func (r *Report) Table(kind Kind) []Row {
	switch kind {
	case KindIndustry:
		return r.Industries
	case KindRegion:
		return r.Regions
	default:
		return r.Occupations
	}
}

// Find looks up a row by slug.
func (r *Report) Find(kind Kind, slug string) (*Row, error) {
	rows := r.Table(kind)
	for i := range rows {
		if rows[i].Slug == slug {
			return &rows[i], nil
		}
	}
	return nil, &NotFoundError{Kind: kind, Slug: slug}
}

// Top returns the row with the highest median in a table, or nil if empty.
func (r *Report) Top(kind Kind) *Row {
	rows := r.Table(kind)
	var best *Row
	for i := range rows {
		if best == nil || rows[i].Median > best.Median {
			best = &rows[i]
		}
	}
	return best
}

// Slugify lowercases a name and joins its alphanumeric runs with dashes.
func Slugify(name string) string {
	var sb strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && sb.Len() > 0 {
				sb.WriteByte('-')
			}
			dash = false
			sb.WriteRune(r)
			continue
		}
		dash = true
	}
	return sb.String()
}
