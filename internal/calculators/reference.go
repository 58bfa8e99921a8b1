// Package calculators implements the Career Hub estimators: unemployment
// benefits, certification payback, FPL-based coverage eligibility, paychecks
// and hourly/salary conversion.
package calculators

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed reference.yaml
var referenceYAML []byte

// StateBenefit holds the unemployment and income tax figures for one state.
type StateBenefit struct {
	Code             string  `yaml:"code" json:"code"`
	Name             string  `yaml:"name" json:"name"`
	MaxWeeklyBenefit float64 `yaml:"max_weekly_benefit" json:"max_weekly_benefit"`
	MinWeeklyBenefit float64 `yaml:"min_weekly_benefit" json:"min_weekly_benefit"`
	MaxWeeks         int     `yaml:"max_weeks" json:"max_weeks"`
	IncomeTaxRate    float64 `yaml:"income_tax_rate" json:"income_tax_rate"`
}

// FPLGuideline is the poverty guideline for a household of one plus the
// increment for each additional person.
type FPLGuideline struct {
	Base      float64 `yaml:"base" json:"base"`
	PerPerson float64 `yaml:"per_person" json:"per_person"`
}

// Bracket is one marginal tax bracket. UpTo of zero means unbounded.
type Bracket struct {
	UpTo float64 `yaml:"up_to"`
	Rate float64 `yaml:"rate"`
}

// Reference bundles every table the calculators read.
type Reference struct {
	TaxYear                int                        `yaml:"tax_year"`
	FPL                    map[string]FPLGuideline    `yaml:"fpl"`
	SocialSecurityWageBase float64                    `yaml:"social_security_wage_base"`
	SocialSecurityRate     float64                    `yaml:"social_security_rate"`
	MedicareRate           float64                    `yaml:"medicare_rate"`
	StandardDeduction      map[FilingStatus]float64   `yaml:"standard_deduction"`
	FederalBrackets        map[FilingStatus][]Bracket `yaml:"federal_brackets"`
	States                 []StateBenefit             `yaml:"states"`

	byCode map[string]StateBenefit
}

// LoadReference parses the embedded reference tables.
func LoadReference() (*Reference, error) {
	return ParseReference(referenceYAML)
}

// ParseReference parses reference tables from YAML.
func ParseReference(data []byte) (*Reference, error) {
	var ref Reference
	if err := yaml.Unmarshal(data, &ref); err != nil {
		return nil, fmt.Errorf("failed to parse reference tables: %w", err)
	}
	if len(ref.States) == 0 {
		return nil, fmt.Errorf("reference tables contain no states")
	}

	ref.byCode = make(map[string]StateBenefit, len(ref.States))
	for _, st := range ref.States {
		code := strings.ToUpper(st.Code)
		if _, dup := ref.byCode[code]; dup {
			return nil, fmt.Errorf("duplicate state code %s in reference tables", code)
		}
		ref.byCode[code] = st
	}
	sort.Slice(ref.States, func(i, j int) bool { return ref.States[i].Code < ref.States[j].Code })

	return &ref, nil
}

// State returns the figures for a two-letter state code.
func (r *Reference) State(code string) (StateBenefit, error) {
	st, ok := r.byCode[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return StateBenefit{}, &InputError{Field: "state", Message: fmt.Sprintf("unsupported state %q", code)}
	}
	return st, nil
}

// Guideline returns the FPL guideline for a region; empty means contiguous.
func (r *Reference) Guideline(region string) (FPLGuideline, error) {
	if region == "" {
		region = "contiguous"
	}
	g, ok := r.FPL[strings.ToLower(region)]
	if !ok {
		return FPLGuideline{}, &InputError{Field: "region", Message: fmt.Sprintf("unknown FPL region %q", region)}
	}
	return g, nil
}
