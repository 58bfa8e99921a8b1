package calculators

// WeeksPerYear is used for every weekly-to-annual conversion.
const WeeksPerYear = 52

// CertificationInput is the cost of a certification and the raise it brings.
type CertificationInput struct {
	Cost           float64 `json:"cost" validate:"gte=0"`
	WeeklyIncrease float64 `json:"weekly_increase" validate:"gte=0"`
}

// CertificationResult reports how quickly the certification pays for itself.
type CertificationResult struct {
	PaybackWeeks   float64 `json:"payback_weeks"`
	AnnualIncrease float64 `json:"annual_increase"`
	FirstYearNet   float64 `json:"first_year_net"`
	ROIPercent     float64 `json:"roi_percent"`
}

// EstimateCertificationROI computes payback = cost / weekly increase.
func EstimateCertificationROI(in CertificationInput) (*CertificationResult, error) {
	if err := checkInput(in); err != nil {
		return nil, err
	}
	if in.WeeklyIncrease == 0 {
		return nil, &InputError{Field: "weekly_increase", Message: "must be greater than 0 to pay back"}
	}

	annual := in.WeeklyIncrease * WeeksPerYear
	net := annual - in.Cost

	res := &CertificationResult{
		PaybackWeeks:   round2(in.Cost / in.WeeklyIncrease),
		AnnualIncrease: round2(annual),
		FirstYearNet:   round2(net),
	}
	// A free certification has no meaningful percentage return.
	if in.Cost > 0 {
		res.ROIPercent = round1(net / in.Cost * 100)
	}
	return res, nil
}
