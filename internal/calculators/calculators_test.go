package calculators

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadRef(t *testing.T) *Reference {
	t.Helper()
	ref, err := LoadReference()
	require.NoError(t, err)
	return ref
}

func TestLoadReference(t *testing.T) {
	ref := loadRef(t)

	assert.Equal(t, 2024, ref.TaxYear)
	assert.NotEmpty(t, ref.States)
	for i := 1; i < len(ref.States); i++ {
		assert.Less(t, ref.States[i-1].Code, ref.States[i].Code, "states should be sorted by code")
	}

	tx, err := ref.State("tx")
	require.NoError(t, err)
	assert.Equal(t, 563.0, tx.MaxWeeklyBenefit)

	_, err = ref.State("ZZ")
	var inputErr *InputError
	require.True(t, errors.As(err, &inputErr))
	assert.Equal(t, "state", inputErr.Field)
}

func TestParseReference_DuplicateState(t *testing.T) {
	data := []byte("states:\n  - {code: TX}\n  - {code: tx}\n")
	_, err := ParseReference(data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate state code TX")
}

func TestEstimateUnemployment(t *testing.T) {
	ref := loadRef(t)
	tx, err := ref.State("TX")
	require.NoError(t, err)

	tests := []struct {
		name       string
		wage       float64
		wantWeekly float64
		wantCapped bool
		wantRaised bool
	}{
		{name: "half of wage under cap", wage: 800, wantWeekly: 400},
		{name: "capped at state maximum", wage: 1400, wantWeekly: 563, wantCapped: true},
		{name: "raised to state minimum", wage: 100, wantWeekly: 70, wantRaised: true},
		{name: "no wages means no benefit", wage: 0, wantWeekly: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := EstimateUnemployment(UnemploymentInput{WeeklyWage: tt.wage, State: "TX"}, tx)
			require.NoError(t, err)
			assert.Equal(t, tt.wantWeekly, res.WeeklyBenefit)
			assert.Equal(t, tt.wantCapped, res.CappedAtMax)
			assert.Equal(t, tt.wantRaised, res.RaisedToMin)
			assert.Equal(t, round2(tt.wantWeekly*26), res.TotalBenefit)
		})
	}
}

func TestEstimateUnemployment_CustomRate(t *testing.T) {
	st := StateBenefit{Code: "XX", MaxWeeklyBenefit: 1000, MaxWeeks: 10}
	res, err := EstimateUnemployment(UnemploymentInput{WeeklyWage: 1000, State: "XX", ReplacementRate: 0.6}, st)
	require.NoError(t, err)
	assert.Equal(t, 600.0, res.WeeklyBenefit)
	assert.Equal(t, 6000.0, res.TotalBenefit)
}

func TestEstimateUnemployment_InvalidInput(t *testing.T) {
	_, err := EstimateUnemployment(UnemploymentInput{WeeklyWage: -5, State: "TX"}, StateBenefit{})
	var inputErr *InputError
	require.True(t, errors.As(err, &inputErr))
	assert.Equal(t, "weekly_wage", inputErr.Field)

	_, err = EstimateUnemployment(UnemploymentInput{WeeklyWage: 500}, StateBenefit{})
	require.True(t, errors.As(err, &inputErr))
	assert.Equal(t, "state", inputErr.Field)
	assert.Equal(t, "invalid input state: is required", inputErr.Error())
}

func TestEstimateCertificationROI(t *testing.T) {
	res, err := EstimateCertificationROI(CertificationInput{Cost: 150, WeeklyIncrease: 90})
	require.NoError(t, err)

	assert.InDelta(t, 1.67, res.PaybackWeeks, 0.001)
	assert.Equal(t, 4680.0, res.AnnualIncrease)
	assert.Equal(t, 4530.0, res.FirstYearNet)
	assert.Equal(t, 3020.0, res.ROIPercent)
}

func TestEstimateCertificationROI_ZeroIncrease(t *testing.T) {
	_, err := EstimateCertificationROI(CertificationInput{Cost: 150})
	var inputErr *InputError
	require.True(t, errors.As(err, &inputErr))
	assert.Equal(t, "weekly_increase", inputErr.Field)
}

func TestEstimateCertificationROI_FreeCertification(t *testing.T) {
	res, err := EstimateCertificationROI(CertificationInput{Cost: 0, WeeklyIncrease: 10})
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.PaybackWeeks)
	assert.Equal(t, 0.0, res.ROIPercent)
}

func TestEvaluateFPL(t *testing.T) {
	ref := loadRef(t)
	g, err := ref.Guideline("")
	require.NoError(t, err)

	tests := []struct {
		name         string
		income       float64
		household    int
		wantLine     float64
		wantPercent  float64
		wantMedicaid bool
		wantACA      bool
	}{
		{name: "single adult at 199 percent", income: 30000, household: 1, wantLine: 15060, wantPercent: 199.2, wantACA: true},
		{name: "family of three under 138 percent", income: 20000, household: 3, wantLine: 25820, wantPercent: 77.5, wantMedicaid: true},
		{name: "between 100 and 138 percent", income: 18000, household: 1, wantLine: 15060, wantPercent: 119.5, wantMedicaid: true, wantACA: true},
		{name: "above 400 percent", income: 70000, household: 1, wantLine: 15060, wantPercent: 464.8},
		{name: "exactly 100 percent", income: 15060, household: 1, wantLine: 15060, wantPercent: 100, wantMedicaid: true, wantACA: true},
		{name: "just under 100 percent", income: 15059, household: 1, wantLine: 15060, wantPercent: 100, wantMedicaid: true},
		{name: "exactly 138 percent", income: 20782.8, household: 1, wantLine: 15060, wantPercent: 138, wantMedicaid: true, wantACA: true},
		{name: "just over 138 percent", income: 20782.9, household: 1, wantLine: 15060, wantPercent: 138, wantACA: true},
		{name: "exactly 400 percent", income: 60240, household: 1, wantLine: 15060, wantPercent: 400, wantACA: true},
		{name: "just over 400 percent", income: 60241, household: 1, wantLine: 15060, wantPercent: 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := EvaluateFPL(FPLInput{AnnualIncome: tt.income, HouseholdSize: tt.household}, g)
			require.NoError(t, err)
			assert.Equal(t, tt.wantLine, res.PovertyLine)
			assert.Equal(t, tt.wantPercent, res.PercentOfFPL)
			assert.Equal(t, tt.wantMedicaid, res.MedicaidEligible)
			assert.Equal(t, tt.wantACA, res.ACAEligible)
		})
	}
}

func TestEvaluateFPL_InvalidHousehold(t *testing.T) {
	_, err := EvaluateFPL(FPLInput{AnnualIncome: 1000, HouseholdSize: 0}, FPLGuideline{Base: 1})
	var inputErr *InputError
	require.True(t, errors.As(err, &inputErr))
	assert.Equal(t, "household_size", inputErr.Field)
}

func TestGuideline_UnknownRegion(t *testing.T) {
	ref := loadRef(t)
	_, err := ref.Guideline("guam")
	require.Error(t, err)

	ak, err := ref.Guideline("Alaska")
	require.NoError(t, err)
	assert.Equal(t, 18810.0, ak.PovertyLine(1))
}

func TestWeeklyGross(t *testing.T) {
	gross, ot := WeeklyGross(20, 45)
	assert.Equal(t, 950.0, gross)
	assert.Equal(t, 5.0, ot)

	gross, ot = WeeklyGross(20, 30)
	assert.Equal(t, 600.0, gross)
	assert.Equal(t, 0.0, ot)
}

func TestFederalIncomeTax(t *testing.T) {
	ref := loadRef(t)
	single := ref.FederalBrackets[FilingSingle]

	assert.Equal(t, 0.0, FederalIncomeTax(0, single))
	assert.InDelta(t, 1160.0, FederalIncomeTax(11600, single), 0.001)
	assert.InDelta(t, 4256.0, FederalIncomeTax(37400, single), 0.001)
	// Top bracket is unbounded.
	assert.InDelta(t, 183647.25+0.37*390650, FederalIncomeTax(1000000, single), 0.01)
}

func TestEstimatePaycheck_Salary(t *testing.T) {
	ref := loadRef(t)

	res, err := EstimatePaycheck(PaycheckInput{AnnualSalary: 52000, State: "TX"}, ref)
	require.NoError(t, err)

	assert.Equal(t, PayBiweekly, res.PayFrequency)
	assert.Equal(t, 2000.0, res.GrossPay)
	assert.Equal(t, 163.69, res.FederalTax)
	assert.Equal(t, 124.0, res.SocialSecurity)
	assert.Equal(t, 29.0, res.Medicare)
	assert.Equal(t, 0.0, res.StateTax)
	assert.Equal(t, 1683.31, res.NetPay)
	assert.Equal(t, 43766.0, res.AnnualNet)
	assert.Equal(t, 15.8, res.EffectiveRate)
}

func TestEstimatePaycheck_HourlyOvertime(t *testing.T) {
	ref := loadRef(t)

	res, err := EstimatePaycheck(PaycheckInput{
		HourlyRate:   20,
		HoursPerWeek: 45,
		State:        "TX",
		PayFrequency: PayWeekly,
	}, ref)
	require.NoError(t, err)

	assert.Equal(t, 950.0, res.GrossPay)
	assert.Equal(t, 49400.0, res.AnnualGross)
	assert.Equal(t, 5.0, res.OvertimeHours)
}

func TestEstimatePaycheck_Errors(t *testing.T) {
	ref := loadRef(t)

	tests := []struct {
		name string
		in   PaycheckInput
	}{
		{name: "no pay", in: PaycheckInput{State: "TX"}},
		{name: "both pay kinds", in: PaycheckInput{State: "TX", HourlyRate: 10, AnnualSalary: 1000}},
		{name: "unknown state", in: PaycheckInput{State: "ZZ", AnnualSalary: 1000}},
		{name: "bad filing status", in: PaycheckInput{State: "TX", AnnualSalary: 1000, FilingStatus: "widowed"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := EstimatePaycheck(tt.in, ref)
			var inputErr *InputError
			assert.True(t, errors.As(err, &inputErr), "expected InputError, got %v", err)
		})
	}
}

func TestConvert(t *testing.T) {
	c, err := Convert(SalaryInput{HourlyRate: 25})
	require.NoError(t, err)
	assert.Equal(t, 1000.0, c.Weekly)
	assert.Equal(t, 2000.0, c.Biweekly)
	assert.Equal(t, 4333.33, c.Monthly)
	assert.Equal(t, 52000.0, c.Annual)

	c, err = Convert(SalaryInput{AnnualSalary: 52000})
	require.NoError(t, err)
	assert.Equal(t, 25.0, c.Hourly)

	_, err = Convert(SalaryInput{})
	require.Error(t, err)

	_, err = Convert(SalaryInput{HourlyRate: 1, AnnualSalary: 1})
	require.Error(t, err)
}

func TestToSnake(t *testing.T) {
	assert.Equal(t, "weekly_wage", toSnake("WeeklyWage"))
	assert.Equal(t, "state", toSnake("State"))
}
