package calculators

// FilingStatus selects the federal brackets and standard deduction.
type FilingStatus string

// Filing statuses supported by the paycheck estimator.
const (
	FilingSingle          FilingStatus = "single"
	FilingMarried         FilingStatus = "married"
	FilingHeadOfHousehold FilingStatus = "head_of_household"
)

// PayFrequency is how often the worker is paid.
type PayFrequency string

// Pay frequencies and the number of periods each has per year.
const (
	PayWeekly      PayFrequency = "weekly"
	PayBiweekly    PayFrequency = "biweekly"
	PaySemimonthly PayFrequency = "semimonthly"
	PayMonthly     PayFrequency = "monthly"
)

// Periods returns the number of pay periods in a year.
func (f PayFrequency) Periods() int {
	switch f {
	case PayWeekly:
		return 52
	case PaySemimonthly:
		return 24
	case PayMonthly:
		return 12
	default:
		return 26
	}
}

// OvertimeThreshold is the weekly hour count above which time-and-a-half applies.
const OvertimeThreshold = 40

// OvertimeMultiplier is the federal overtime premium.
const OvertimeMultiplier = 1.5

// PaycheckInput describes one worker. Either HourlyRate (with HoursPerWeek)
// or AnnualSalary must be set; overtime only applies to hourly pay.
type PaycheckInput struct {
	HourlyRate   float64      `json:"hourly_rate,omitempty" validate:"gte=0"`
	HoursPerWeek float64      `json:"hours_per_week,omitempty" validate:"gte=0,lte=100"`
	AnnualSalary float64      `json:"annual_salary,omitempty" validate:"gte=0"`
	State        string       `json:"state" validate:"required,len=2"`
	FilingStatus FilingStatus `json:"filing_status,omitempty" validate:"omitempty,oneof=single married head_of_household"`
	PayFrequency PayFrequency `json:"pay_frequency,omitempty" validate:"omitempty,oneof=weekly biweekly semimonthly monthly"`
}

// PaycheckResult is a per-period breakdown plus annual totals.
type PaycheckResult struct {
	PayFrequency   PayFrequency `json:"pay_frequency"`
	GrossPay       float64      `json:"gross_pay"`
	FederalTax     float64      `json:"federal_tax"`
	SocialSecurity float64      `json:"social_security"`
	Medicare       float64      `json:"medicare"`
	StateTax       float64      `json:"state_tax"`
	NetPay         float64      `json:"net_pay"`
	AnnualGross    float64      `json:"annual_gross"`
	AnnualNet      float64      `json:"annual_net"`
	OvertimeHours  float64      `json:"overtime_hours"`
	EffectiveRate  float64      `json:"effective_tax_rate"`
}

// WeeklyGross returns straight-time plus time-and-a-half above 40 hours.
func WeeklyGross(rate, hours float64) (gross, overtimeHours float64) {
	regular := min(hours, OvertimeThreshold)
	overtimeHours = max(hours-OvertimeThreshold, 0)
	return rate*regular + rate*OvertimeMultiplier*overtimeHours, overtimeHours
}

// EstimatePaycheck applies federal brackets after the standard deduction,
// FICA, and a flat state rate to annualized gross pay.
func EstimatePaycheck(in PaycheckInput, ref *Reference) (*PaycheckResult, error) {
	if err := checkInput(in); err != nil {
		return nil, err
	}
	st, err := ref.State(in.State)
	if err != nil {
		return nil, err
	}

	status := in.FilingStatus
	if status == "" {
		status = FilingSingle
	}
	freq := in.PayFrequency
	if freq == "" {
		freq = PayBiweekly
	}

	var annualGross, overtime float64
	switch {
	case in.HourlyRate > 0 && in.AnnualSalary > 0:
		return nil, &InputError{Message: "hourly_rate and annual_salary are mutually exclusive"}
	case in.HourlyRate > 0:
		hours := in.HoursPerWeek
		if hours == 0 {
			hours = DefaultHoursPerWeek
		}
		var weekly float64
		weekly, overtime = WeeklyGross(in.HourlyRate, hours)
		annualGross = weekly * WeeksPerYear
	case in.AnnualSalary > 0:
		annualGross = in.AnnualSalary
	default:
		return nil, &InputError{Message: "one of hourly_rate or annual_salary is required"}
	}

	taxable := max(annualGross-ref.StandardDeduction[status], 0)
	federal := FederalIncomeTax(taxable, ref.FederalBrackets[status])
	ss := min(annualGross, ref.SocialSecurityWageBase) * ref.SocialSecurityRate
	medicare := annualGross * ref.MedicareRate
	state := annualGross * st.IncomeTaxRate

	totalTax := federal + ss + medicare + state
	periods := float64(freq.Periods())

	res := &PaycheckResult{
		PayFrequency:   freq,
		GrossPay:       round2(annualGross / periods),
		FederalTax:     round2(federal / periods),
		SocialSecurity: round2(ss / periods),
		Medicare:       round2(medicare / periods),
		StateTax:       round2(state / periods),
		NetPay:         round2((annualGross - totalTax) / periods),
		AnnualGross:    round2(annualGross),
		AnnualNet:      round2(annualGross - totalTax),
		OvertimeHours:  overtime,
	}
	if annualGross > 0 {
		res.EffectiveRate = round1(totalTax / annualGross * 100)
	}
	return res, nil
}

// FederalIncomeTax applies marginal brackets to taxable income.
func FederalIncomeTax(taxable float64, brackets []Bracket) float64 {
	var tax, lower float64
	for _, b := range brackets {
		if b.UpTo == 0 || taxable <= b.UpTo {
			tax += (taxable - lower) * b.Rate
			return tax
		}
		tax += (b.UpTo - lower) * b.Rate
		lower = b.UpTo
	}
	return tax
}
