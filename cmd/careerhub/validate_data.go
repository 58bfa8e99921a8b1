package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/career-hub/internal/calculators"
	"github.com/jonathan/career-hub/internal/output"
	"github.com/jonathan/career-hub/internal/quiz"
	"github.com/jonathan/career-hub/internal/wages"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var validateDataCmd = &cobra.Command{
	Use:   "validate-data [files...]",
	Short: "Validate decks, wage reports and reference tables",
	Long: `Validates the embedded decks, sample wage report and calculator reference
tables, plus any deck or wage report files given as arguments. YAML files with
a top-level "cards" key are checked as decks; everything else as wage reports.
Exits non-zero when any problem is found.`,
	RunE: runValidateData,
}

func init() {
	rootCmd.AddCommand(validateDataCmd)
}

func runValidateData(cmd *cobra.Command, args []string) error {
	var (
		problems []string
		checked  int
	)
	report := func(source string, err error) {
		checked++
		if err != nil {
			problems = append(problems, fmt.Sprintf("%s: %v", source, err))
		}
	}

	_, err := quiz.LoadLibrary()
	report("embedded decks", err)
	_, err = wages.Sample()
	report("embedded wage report", err)
	_, err = calculators.LoadReference()
	report("embedded reference tables", err)

	for _, path := range args {
		report(path, validateFile(path))
	}

	output.NewPrinter(cmd.OutOrStdout()).PrintProblems("DATA VALIDATION", checked, problems)

	if len(problems) > 0 {
		// Return error to indicate problems were found (exit code 1)
		return fmt.Errorf("validation found %d problem(s)", len(problems))
	}
	return nil
}

// validateFile checks one deck or wage report file. Errors do not repeat the
// path; the caller prefixes it.
func validateFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		rows, err := wages.ParseHTMLTable(bytes.NewReader(data))
		if err != nil {
			return err
		}
		_, err = wages.FromRows(filepath.Base(path), rows)
		return err
	}

	var probe map[string]any
	if err := yaml.Unmarshal(data, &probe); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	if _, isDeck := probe["cards"]; isDeck {
		_, err := quiz.ParseDeck(data)
		return err
	}
	_, err = wages.LoadYAML(bytes.NewReader(data))
	return err
}
