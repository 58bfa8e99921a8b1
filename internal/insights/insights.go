// Package insights turns wage-report percentile tables into short sentences
// such as "Line Cook wages grew 5.8% year-over-year".
package insights

import (
	"context"
	"fmt"
	"math"

	"github.com/jonathan/career-hub/internal/wages"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Kind identifies which rule produced an insight.
type Kind string

// Insight kinds, in the order they are emitted for a row.
const (
	KindGrowth      Kind = "growth"
	KindRealGrowth  Kind = "real_growth"
	KindPremium     Kind = "premium"
	KindSpread      Kind = "spread"
	KindTopIndustry Kind = "top_industry"
	KindTopRegion   Kind = "top_region"
)

// Tone tells the page template how to style an insight.
type Tone string

// Tones.
const (
	TonePositive Tone = "positive"
	ToneNeutral  Tone = "neutral"
	ToneNegative Tone = "negative"
)

// Insight is one generated sentence. Value is the figure the sentence is
// built around: percent for growth and premium, percentage points for real
// growth, a ratio for spread, and a wage for top-payer insights.
type Insight struct {
	Subject string  `json:"subject"`
	Kind    Kind    `json:"kind"`
	Tone    Tone    `json:"tone"`
	Value   float64 `json:"value"`
	Text    string  `json:"text"`
}

// Thresholds control when a rule fires. Growth and premium are fractions.
type Thresholds struct {
	GrowthUp   float64
	GrowthDown float64
	Spread     float64
	Premium    float64
}

// DefaultThresholds: grew at ≥3%, declined at ≤−1%, wide spread at p90/p10 ≥ 2,
// premium at ±5% of the national median.
func DefaultThresholds() Thresholds {
	return Thresholds{
		GrowthUp:   0.03,
		GrowthDown: -0.01,
		Spread:     2.0,
		Premium:    0.05,
	}
}

// Engine generates insights. It is safe for concurrent use.
type Engine struct {
	th  Thresholds
	tag language.Tag
}

// New creates an Engine; zero-valued thresholds fall back to the defaults.
func New(th Thresholds) *Engine {
	def := DefaultThresholds()
	if th.GrowthUp == 0 {
		th.GrowthUp = def.GrowthUp
	}
	if th.GrowthDown == 0 {
		th.GrowthDown = def.GrowthDown
	}
	if th.Spread == 0 {
		th.Spread = def.Spread
	}
	if th.Premium == 0 {
		th.Premium = def.Premium
	}
	return &Engine{th: th, tag: language.English}
}

// ForRow applies the growth, real-growth, premium and spread rules to one row.
func (e *Engine) ForRow(report *wages.Report, row wages.Row) []Insight {
	var out []Insight
	unit := unitSuffix(report.Unit)

	if row.HasPrior() {
		yoy := (row.Median - row.PriorMedian) / row.PriorMedian
		pct := round1(yoy * 100)
		switch {
		case pct >= percent(e.th.GrowthUp):
			out = append(out, Insight{
				Subject: row.Slug, Kind: KindGrowth, Tone: TonePositive, Value: pct,
				Text: fmt.Sprintf("%s wages grew %.1f%% year-over-year, from %s to %s%s.",
					row.Name, pct, e.money(report, row.PriorMedian), e.money(report, row.Median), unit),
			})
		case pct <= percent(e.th.GrowthDown):
			out = append(out, Insight{
				Subject: row.Slug, Kind: KindGrowth, Tone: ToneNegative, Value: pct,
				Text: fmt.Sprintf("%s wages declined %.1f%% year-over-year, to %s%s.",
					row.Name, math.Abs(pct), e.money(report, row.Median), unit),
			})
		default:
			out = append(out, Insight{
				Subject: row.Slug, Kind: KindGrowth, Tone: ToneNeutral, Value: pct,
				Text: fmt.Sprintf("%s wages held steady year-over-year at %s%s.",
					row.Name, e.money(report, row.Median), unit),
			})
		}

		if report.InflationRate != 0 {
			points := round1((yoy - report.InflationRate) * 100)
			if points > 0 {
				out = append(out, Insight{
					Subject: row.Slug, Kind: KindRealGrowth, Tone: TonePositive, Value: points,
					Text: fmt.Sprintf("%s pay outpaced inflation by %.1f percentage points.", row.Name, points),
				})
			} else if points < 0 {
				out = append(out, Insight{
					Subject: row.Slug, Kind: KindRealGrowth, Tone: ToneNegative, Value: points,
					Text: fmt.Sprintf("%s pay trailed inflation by %.1f percentage points.", row.Name, math.Abs(points)),
				})
			}
		}
	}

	if report.NationalMedian > 0 {
		diff := row.Median/report.NationalMedian - 1
		if pct := round1(diff * 100); math.Abs(pct) >= percent(e.th.Premium) {
			tone, dir := TonePositive, "above"
			if diff < 0 {
				tone, dir = ToneNegative, "below"
			}
			out = append(out, Insight{
				Subject: row.Slug, Kind: KindPremium, Tone: tone, Value: pct,
				Text: fmt.Sprintf("%s pays %.1f%% %s the national median of %s%s.",
					row.Name, math.Abs(pct), dir, e.money(report, report.NationalMedian), unit),
			})
		}
	}

	if row.P10 > 0 {
		ratio := row.P90 / row.P10
		if round1(ratio) >= round1(e.th.Spread) {
			out = append(out, Insight{
				Subject: row.Slug, Kind: KindSpread, Tone: ToneNeutral, Value: round1(ratio),
				Text: fmt.Sprintf("%s pay varies widely: the top 10%% earn %.1f× the bottom 10%% (%s vs %s%s).",
					row.Name, round1(ratio), e.money(report, row.P90), e.money(report, row.P10), unit),
			})
		}
	}

	return out
}

// ForOccupation looks up an occupation and returns its insights.
func (e *Engine) ForOccupation(report *wages.Report, slug string) ([]Insight, error) {
	row, err := report.Find(wages.KindOccupation, slug)
	if err != nil {
		return nil, err
	}
	return e.ForRow(report, *row), nil
}

// Highlights returns one sentence each for the highest-paying industry and region.
func (e *Engine) Highlights(report *wages.Report) []Insight {
	var out []Insight
	unit := unitSuffix(report.Unit)

	if top := report.Top(wages.KindIndustry); top != nil {
		out = append(out, Insight{
			Subject: top.Slug, Kind: KindTopIndustry, Tone: TonePositive, Value: top.Median,
			Text: fmt.Sprintf("%s is the highest-paying industry, with a median of %s%s.",
				top.Name, e.money(report, top.Median), unit),
		})
	}
	if top := report.Top(wages.KindRegion); top != nil {
		out = append(out, Insight{
			Subject: top.Slug, Kind: KindTopRegion, Tone: TonePositive, Value: top.Median,
			Text: fmt.Sprintf("%s is the highest-paying region, with a median of %s%s.",
				top.Name, e.money(report, top.Median), unit),
		})
	}
	return out
}

// OccupationInsights groups the insights of one occupation.
type OccupationInsights struct {
	Slug     string    `json:"slug"`
	Name     string    `json:"name"`
	Insights []Insight `json:"insights"`
}

// GenerateAll computes insights for every occupation concurrently and
// returns them in report order.
func (e *Engine) GenerateAll(ctx context.Context, report *wages.Report) ([]OccupationInsights, error) {
	out := make([]OccupationInsights, len(report.Occupations))

	g, gCtx := errgroup.WithContext(ctx)
	for i, row := range report.Occupations {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			out[i] = OccupationInsights{
				Slug:     row.Slug,
				Name:     row.Name,
				Insights: e.ForRow(report, row),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to generate insights: %w", err)
	}
	return out, nil
}

// money formats with thousands separators. A Printer is built per call
// since message.Printer is not safe for concurrent use.
func (e *Engine) money(report *wages.Report, v float64) string {
	p := message.NewPrinter(e.tag)
	if report.Unit == "annual" {
		return p.Sprintf("$%.0f", v)
	}
	return p.Sprintf("$%.2f", v)
}

func unitSuffix(unit string) string {
	if unit == "annual" {
		return " a year"
	}
	return " an hour"
}

// percent converts a fractional threshold to the one-decimal percentage the
// rules compare against, so 0.03 matches a displayed 3.0%.
func percent(fraction float64) float64 {
	return round1(fraction * 100)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
