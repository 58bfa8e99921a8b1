package calculators

// Eligibility thresholds, as a percentage of the federal poverty level.
const (
	MedicaidMaxPercent   = 138.0
	ACASubsidyMinPercent = 100.0
	ACASubsidyMaxPercent = 400.0
)

// FPLInput is a household's annual income and size.
type FPLInput struct {
	AnnualIncome  float64 `json:"annual_income" validate:"gte=0"`
	HouseholdSize int     `json:"household_size" validate:"gte=1,lte=20"`
	Region        string  `json:"region,omitempty" validate:"omitempty,oneof=contiguous alaska hawaii"`
}

// FPLResult places the household against the poverty guideline.
type FPLResult struct {
	PovertyLine      float64 `json:"poverty_line"`
	PercentOfFPL     float64 `json:"percent_of_fpl"`
	MedicaidEligible bool    `json:"medicaid_eligible"`
	ACAEligible      bool    `json:"aca_eligible"`
}

// PovertyLine returns the guideline for a household of the given size.
func (g FPLGuideline) PovertyLine(householdSize int) float64 {
	if householdSize < 1 {
		householdSize = 1
	}
	return g.Base + g.PerPerson*float64(householdSize-1)
}

// EvaluateFPL computes income as a percentage of FPL and the resulting
// Medicaid (≤138%) and ACA subsidy (100–400%) eligibility.
func EvaluateFPL(in FPLInput, g FPLGuideline) (*FPLResult, error) {
	if err := checkInput(in); err != nil {
		return nil, err
	}

	line := g.PovertyLine(in.HouseholdSize)
	if line <= 0 {
		return nil, &InputError{Field: "region", Message: "poverty guideline is not configured"}
	}

	pct := in.AnnualIncome / line * 100
	return &FPLResult{
		PovertyLine:      line,
		PercentOfFPL:     round1(pct),
		MedicaidEligible: pct <= MedicaidMaxPercent,
		ACAEligible:      pct >= ACASubsidyMinPercent && pct <= ACASubsidyMaxPercent,
	}, nil
}
