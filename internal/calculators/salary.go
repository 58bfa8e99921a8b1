package calculators

// DefaultHoursPerWeek applies when a conversion omits hours.
const DefaultHoursPerWeek = 40

// Conversion is an hourly rate expressed over every common period.
type Conversion struct {
	Hourly       float64 `json:"hourly"`
	HoursPerWeek float64 `json:"hours_per_week"`
	Weekly       float64 `json:"weekly"`
	Biweekly     float64 `json:"biweekly"`
	Monthly      float64 `json:"monthly"`
	Annual       float64 `json:"annual"`
}

// SalaryInput converts in either direction; exactly one of HourlyRate or
// AnnualSalary must be set.
type SalaryInput struct {
	HourlyRate   float64 `json:"hourly_rate,omitempty" validate:"gte=0"`
	AnnualSalary float64 `json:"annual_salary,omitempty" validate:"gte=0"`
	HoursPerWeek float64 `json:"hours_per_week,omitempty" validate:"gte=0,lte=100"`
}

// Convert dispatches to ConvertHourly or ConvertSalary.
func Convert(in SalaryInput) (*Conversion, error) {
	if err := checkInput(in); err != nil {
		return nil, err
	}
	switch {
	case in.HourlyRate > 0 && in.AnnualSalary > 0:
		return nil, &InputError{Message: "hourly_rate and annual_salary are mutually exclusive"}
	case in.HourlyRate > 0:
		return ConvertHourly(in.HourlyRate, in.HoursPerWeek), nil
	case in.AnnualSalary > 0:
		return ConvertSalary(in.AnnualSalary, in.HoursPerWeek), nil
	default:
		return nil, &InputError{Message: "one of hourly_rate or annual_salary is required"}
	}
}

// ConvertHourly computes annual = rate × hours × 52.
func ConvertHourly(rate, hoursPerWeek float64) *Conversion {
	if hoursPerWeek <= 0 {
		hoursPerWeek = DefaultHoursPerWeek
	}
	weekly := rate * hoursPerWeek
	annual := weekly * WeeksPerYear
	return &Conversion{
		Hourly:       round2(rate),
		HoursPerWeek: hoursPerWeek,
		Weekly:       round2(weekly),
		Biweekly:     round2(weekly * 2),
		Monthly:      round2(annual / 12),
		Annual:       round2(annual),
	}
}

// ConvertSalary is the inverse of ConvertHourly.
func ConvertSalary(annual, hoursPerWeek float64) *Conversion {
	if hoursPerWeek <= 0 {
		hoursPerWeek = DefaultHoursPerWeek
	}
	return ConvertHourly(annual/WeeksPerYear/hoursPerWeek, hoursPerWeek)
}
