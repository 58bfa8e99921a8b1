package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jonathan/career-hub/internal/calculators"
	"github.com/jonathan/career-hub/internal/output"
	"github.com/spf13/cobra"
)

var calcJSON bool

var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Run one of the pay calculators",
}

var (
	unemploymentWage  float64
	unemploymentState string
	unemploymentRate  float64
)

var calcUnemploymentCmd = &cobra.Command{
	Use:   "unemployment",
	Short: "Estimate the weekly unemployment benefit",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ref, err := calculators.LoadReference()
		if err != nil {
			return err
		}
		st, err := ref.State(unemploymentState)
		if err != nil {
			return err
		}
		res, err := calculators.EstimateUnemployment(calculators.UnemploymentInput{
			WeeklyWage:      unemploymentWage,
			State:           unemploymentState,
			ReplacementRate: unemploymentRate,
		}, st)
		if err != nil {
			return err
		}
		return printResult(cmd.OutOrStdout(), res, func(p *output.Printer) { p.PrintUnemployment(res) })
	},
}

var (
	roiCost   float64
	roiWeekly float64
)

var calcROICmd = &cobra.Command{
	Use:   "roi",
	Short: "Estimate how quickly a certification pays for itself",
	RunE: func(cmd *cobra.Command, _ []string) error {
		res, err := calculators.EstimateCertificationROI(calculators.CertificationInput{
			Cost:           roiCost,
			WeeklyIncrease: roiWeekly,
		})
		if err != nil {
			return err
		}
		return printResult(cmd.OutOrStdout(), res, func(p *output.Printer) { p.PrintCertificationROI(res) })
	},
}

var (
	fplIncome    float64
	fplHousehold int
	fplRegion    string
)

var calcFPLCmd = &cobra.Command{
	Use:   "fpl",
	Short: "Compare household income with the federal poverty level",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ref, err := calculators.LoadReference()
		if err != nil {
			return err
		}
		g, err := ref.Guideline(fplRegion)
		if err != nil {
			return err
		}
		res, err := calculators.EvaluateFPL(calculators.FPLInput{
			AnnualIncome:  fplIncome,
			HouseholdSize: fplHousehold,
			Region:        fplRegion,
		}, g)
		if err != nil {
			return err
		}
		return printResult(cmd.OutOrStdout(), res, func(p *output.Printer) { p.PrintFPL(res) })
	},
}

var (
	paycheckRate      float64
	paycheckHours     float64
	paycheckSalary    float64
	paycheckState     string
	paycheckFiling    string
	paycheckFrequency string
)

var calcPaycheckCmd = &cobra.Command{
	Use:   "paycheck",
	Short: "Estimate take-home pay per pay period",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ref, err := calculators.LoadReference()
		if err != nil {
			return err
		}
		res, err := calculators.EstimatePaycheck(calculators.PaycheckInput{
			HourlyRate:   paycheckRate,
			HoursPerWeek: paycheckHours,
			AnnualSalary: paycheckSalary,
			State:        paycheckState,
			FilingStatus: calculators.FilingStatus(paycheckFiling),
			PayFrequency: calculators.PayFrequency(paycheckFrequency),
		}, ref)
		if err != nil {
			return err
		}
		return printResult(cmd.OutOrStdout(), res, func(p *output.Printer) { p.PrintPaycheck(res) })
	},
}

var (
	salaryHourly float64
	salaryAnnual float64
	salaryHours  float64
)

var calcSalaryCmd = &cobra.Command{
	Use:   "salary",
	Short: "Convert between hourly pay and annual salary",
	RunE: func(cmd *cobra.Command, _ []string) error {
		res, err := calculators.Convert(calculators.SalaryInput{
			HourlyRate:   salaryHourly,
			AnnualSalary: salaryAnnual,
			HoursPerWeek: salaryHours,
		})
		if err != nil {
			return err
		}
		return printResult(cmd.OutOrStdout(), res, func(p *output.Printer) { p.PrintConversion(res) })
	},
}

func init() {
	calcCmd.PersistentFlags().BoolVar(&calcJSON, "json", false, "Print the result as JSON")

	calcUnemploymentCmd.Flags().Float64Var(&unemploymentWage, "weekly-wage", 0, "Average weekly wage before the job ended (required)")
	calcUnemploymentCmd.Flags().StringVar(&unemploymentState, "state", "", "Two-letter state code (required)")
	calcUnemploymentCmd.Flags().Float64Var(&unemploymentRate, "rate", 0, "Wage replacement rate (default 0.5)")
	mustMarkRequired(calcUnemploymentCmd, "weekly-wage", "state")

	calcROICmd.Flags().Float64Var(&roiCost, "cost", 0, "Certification cost (required)")
	calcROICmd.Flags().Float64Var(&roiWeekly, "weekly-increase", 0, "Weekly pay increase once certified (required)")
	mustMarkRequired(calcROICmd, "cost", "weekly-increase")

	calcFPLCmd.Flags().Float64Var(&fplIncome, "income", 0, "Annual household income (required)")
	calcFPLCmd.Flags().IntVar(&fplHousehold, "household", 1, "Household size")
	calcFPLCmd.Flags().StringVar(&fplRegion, "region", "", "contiguous, alaska or hawaii (default contiguous)")
	mustMarkRequired(calcFPLCmd, "income")

	calcPaycheckCmd.Flags().Float64Var(&paycheckRate, "rate", 0, "Hourly rate")
	calcPaycheckCmd.Flags().Float64Var(&paycheckHours, "hours", 40, "Hours per week")
	calcPaycheckCmd.Flags().Float64Var(&paycheckSalary, "salary", 0, "Annual salary, instead of --rate")
	calcPaycheckCmd.Flags().StringVar(&paycheckState, "state", "", "Two-letter state code (required)")
	calcPaycheckCmd.Flags().StringVar(&paycheckFiling, "filing", "single", "single, married or head_of_household")
	calcPaycheckCmd.Flags().StringVar(&paycheckFrequency, "frequency", "biweekly", "weekly, biweekly, semimonthly or monthly")
	mustMarkRequired(calcPaycheckCmd, "state")

	calcSalaryCmd.Flags().Float64Var(&salaryHourly, "hourly", 0, "Hourly rate to convert")
	calcSalaryCmd.Flags().Float64Var(&salaryAnnual, "annual", 0, "Annual salary to convert")
	calcSalaryCmd.Flags().Float64Var(&salaryHours, "hours", 40, "Hours per week")

	calcCmd.AddCommand(calcUnemploymentCmd, calcROICmd, calcFPLCmd, calcPaycheckCmd, calcSalaryCmd)
	rootCmd.AddCommand(calcCmd)
}

func mustMarkRequired(cmd *cobra.Command, names ...string) {
	for _, name := range names {
		if err := cmd.MarkFlagRequired(name); err != nil {
			panic(fmt.Sprintf("failed to mark %s flag as required: %v", name, err))
		}
	}
}

// printResult writes v as indented JSON when --json is set, otherwise as a box.
func printResult(w io.Writer, v any, box func(*output.Printer)) error {
	if calcJSON {
		jsonBytes, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal result to JSON: %w", err)
		}
		_, err = fmt.Fprintln(w, string(jsonBytes))
		return err
	}
	box(output.NewPrinter(w))
	return nil
}
