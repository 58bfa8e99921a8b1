package calculators

import "math"

// DefaultReplacementRate is the share of weekly wages most states replace.
const DefaultReplacementRate = 0.5

// UnemploymentInput describes a claimant's prior earnings.
type UnemploymentInput struct {
	WeeklyWage      float64 `json:"weekly_wage" validate:"gte=0"`
	State           string  `json:"state" validate:"required,len=2"`
	ReplacementRate float64 `json:"replacement_rate,omitempty" validate:"gte=0,lte=1"`
}

// UnemploymentResult is the estimated benefit.
type UnemploymentResult struct {
	State         string  `json:"state"`
	WeeklyBenefit float64 `json:"weekly_benefit"`
	StateMaximum  float64 `json:"state_maximum"`
	CappedAtMax   bool    `json:"capped_at_max"`
	RaisedToMin   bool    `json:"raised_to_min"`
	MaxWeeks      int     `json:"max_weeks"`
	TotalBenefit  float64 `json:"total_benefit"`
}

// EstimateUnemployment computes min(wage × rate, state maximum), lifted to the
// state minimum when the claimant had any wages at all.
func EstimateUnemployment(in UnemploymentInput, st StateBenefit) (*UnemploymentResult, error) {
	if err := checkInput(in); err != nil {
		return nil, err
	}

	rate := in.ReplacementRate
	if rate == 0 {
		rate = DefaultReplacementRate
	}

	weekly := in.WeeklyWage * rate
	res := &UnemploymentResult{
		State:        st.Code,
		StateMaximum: st.MaxWeeklyBenefit,
		MaxWeeks:     st.MaxWeeks,
	}

	if st.MaxWeeklyBenefit > 0 && weekly > st.MaxWeeklyBenefit {
		weekly = st.MaxWeeklyBenefit
		res.CappedAtMax = true
	}
	if in.WeeklyWage > 0 && weekly < st.MinWeeklyBenefit {
		weekly = st.MinWeeklyBenefit
		res.RaisedToMin = true
	}

	res.WeeklyBenefit = round2(weekly)
	res.TotalBenefit = round2(weekly * float64(st.MaxWeeks))
	return res, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
