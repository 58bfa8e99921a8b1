// Package output renders calculator results and wage insights as text boxes
// for the CLI.
package output

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/career-hub/internal/calculators"
	"github.com/jonathan/career-hub/internal/insights"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 64
	// innerWidth is the text width inside a box
	innerWidth = boxWidth - 4
)

// Printer handles formatted output for CLI commands
type Printer struct {
	out io.Writer
	num *message.Printer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out, num: message.NewPrinter(language.AmericanEnglish)}
}

// printBox prints a formatted box with a title and content. Long lines wrap.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(strings.TrimRight(content, "\n"), "\n") {
		for _, wrapped := range wrap(line, innerWidth) {
			fmt.Fprintf(p.out, "│ %s │\n", pad(wrapped))
		}
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

func (p *Printer) money(v float64) string {
	return p.num.Sprintf("$%.2f", v)
}

// PrintUnemployment outputs a weekly benefit estimate.
func (p *Printer) PrintUnemployment(r *calculators.UnemploymentResult) {
	if r == nil {
		return
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("State:           %s\n", r.State))
	sb.WriteString(fmt.Sprintf("Weekly benefit:  %s\n", p.money(r.WeeklyBenefit)))
	sb.WriteString(fmt.Sprintf("State maximum:   %s\n", p.money(r.StateMaximum)))
	sb.WriteString(fmt.Sprintf("Max weeks:       %d\n", r.MaxWeeks))
	sb.WriteString(fmt.Sprintf("Total benefit:   %s\n", p.money(r.TotalBenefit)))
	switch {
	case r.CappedAtMax:
		sb.WriteString("\nCapped at the state weekly maximum.\n")
	case r.RaisedToMin:
		sb.WriteString("\nRaised to the state weekly minimum.\n")
	}
	p.printBox("UNEMPLOYMENT BENEFIT ESTIMATE", sb.String())
}

// PrintCertificationROI outputs the payback for a certification.
func (p *Printer) PrintCertificationROI(r *calculators.CertificationResult) {
	if r == nil {
		return
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Payback:          %.2f weeks\n", r.PaybackWeeks))
	sb.WriteString(fmt.Sprintf("Annual increase:  %s\n", p.money(r.AnnualIncrease)))
	sb.WriteString(fmt.Sprintf("First-year net:   %s\n", p.money(r.FirstYearNet)))
	if r.ROIPercent != 0 {
		sb.WriteString(p.num.Sprintf("First-year ROI:   %.0f%%\n", r.ROIPercent))
	}
	p.printBox("CERTIFICATION ROI", sb.String())
}

// PrintFPL outputs poverty-line placement and eligibility.
func (p *Printer) PrintFPL(r *calculators.FPLResult) {
	if r == nil {
		return
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Poverty line:     %s\n", p.money(r.PovertyLine)))
	sb.WriteString(fmt.Sprintf("Percent of FPL:   %.1f%%\n", r.PercentOfFPL))
	sb.WriteString(fmt.Sprintf("Medicaid:         %s\n", yesNo(r.MedicaidEligible)))
	sb.WriteString(fmt.Sprintf("ACA subsidy:      %s\n", yesNo(r.ACAEligible)))
	p.printBox("FEDERAL POVERTY LEVEL", sb.String())
}

// PrintPaycheck outputs a per-period paycheck breakdown.
func (p *Printer) PrintPaycheck(r *calculators.PaycheckResult) {
	if r == nil {
		return
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Pay frequency:    %s\n", r.PayFrequency))
	sb.WriteString(fmt.Sprintf("Gross pay:        %s\n", p.money(r.GrossPay)))
	sb.WriteString(fmt.Sprintf("  Federal tax:    -%s\n", p.money(r.FederalTax)))
	sb.WriteString(fmt.Sprintf("  Social Sec.:    -%s\n", p.money(r.SocialSecurity)))
	sb.WriteString(fmt.Sprintf("  Medicare:       -%s\n", p.money(r.Medicare)))
	sb.WriteString(fmt.Sprintf("  State tax:      -%s\n", p.money(r.StateTax)))
	sb.WriteString(fmt.Sprintf("Net pay:          %s\n", p.money(r.NetPay)))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Annual gross:     %s\n", p.money(r.AnnualGross)))
	sb.WriteString(fmt.Sprintf("Annual net:       %s\n", p.money(r.AnnualNet)))
	sb.WriteString(fmt.Sprintf("Effective rate:   %.1f%%\n", r.EffectiveRate))
	if r.OvertimeHours > 0 {
		sb.WriteString(fmt.Sprintf("Overtime hours:   %.1f / week\n", r.OvertimeHours))
	}
	p.printBox("PAYCHECK ESTIMATE", sb.String())
}

// PrintConversion outputs pay across every period.
func (p *Printer) PrintConversion(c *calculators.Conversion) {
	if c == nil {
		return
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Hourly:     %s (%.0f h/week)\n", p.money(c.Hourly), c.HoursPerWeek))
	sb.WriteString(fmt.Sprintf("Weekly:     %s\n", p.money(c.Weekly)))
	sb.WriteString(fmt.Sprintf("Biweekly:   %s\n", p.money(c.Biweekly)))
	sb.WriteString(fmt.Sprintf("Monthly:    %s\n", p.money(c.Monthly)))
	sb.WriteString(fmt.Sprintf("Annual:     %s\n", p.money(c.Annual)))
	p.printBox("SALARY CONVERSION", sb.String())
}

// PrintInsights outputs the insight sentences for one subject.
func (p *Printer) PrintInsights(title string, items []insights.Insight) {
	var sb strings.Builder
	if len(items) == 0 {
		sb.WriteString("No insights: nothing crossed a threshold.\n")
	}
	for _, it := range items {
		sb.WriteString(fmt.Sprintf("%s %s\n", toneMarker(it.Tone), it.Text))
	}
	p.printBox(strings.ToUpper(title), sb.String())
}

// PrintNarrative outputs an LLM-written summary paragraph.
func (p *Printer) PrintNarrative(title, text string) {
	p.printBox(strings.ToUpper(title), text)
}

// PrintProblems lists validation problems, or a single OK line.
func (p *Printer) PrintProblems(title string, checked int, problems []string) {
	var sb strings.Builder
	if len(problems) == 0 {
		sb.WriteString(fmt.Sprintf("✓ %d data sources valid\n", checked))
	} else {
		sb.WriteString(fmt.Sprintf("✗ %d problem(s) in %d data sources\n\n", len(problems), checked))
		for _, prob := range problems {
			sb.WriteString("• " + prob + "\n")
		}
	}
	p.printBox(title, sb.String())
}

func toneMarker(t insights.Tone) string {
	switch t {
	case insights.TonePositive:
		return "▲"
	case insights.ToneNegative:
		return "▼"
	default:
		return "•"
	}
}

func yesNo(b bool) string {
	if b {
		return "eligible"
	}
	return "not eligible"
}

func pad(s string) string {
	n := utf8.RuneCountInString(s)
	if n >= innerWidth {
		return s
	}
	return s + strings.Repeat(" ", innerWidth-n)
}

// wrap breaks s on spaces into lines of at most width runes; a single word
// longer than width is truncated.
func wrap(s string, width int) []string {
	if utf8.RuneCountInString(s) <= width {
		return []string{s}
	}

	indent := s[:len(s)-len(strings.TrimLeft(s, " "))]
	var lines []string
	line := ""
	for _, word := range strings.Fields(s) {
		switch {
		case line == "":
			line = word
		case utf8.RuneCountInString(line)+1+utf8.RuneCountInString(word) <= width:
			line += " " + word
		default:
			lines = append(lines, line)
			line = indent + "  " + word
		}
		if utf8.RuneCountInString(line) > width {
			r := []rune(line)
			line = string(r[:width-3]) + "..."
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	if len(lines) > 0 {
		lines[0] = indent + lines[0]
	}
	return lines
}
