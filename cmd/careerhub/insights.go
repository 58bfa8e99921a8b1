package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/career-hub/internal/insights"
	"github.com/jonathan/career-hub/internal/llm"
	"github.com/jonathan/career-hub/internal/output"
	"github.com/jonathan/career-hub/internal/wages"
	"github.com/spf13/cobra"
)

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Generate wage-report insights",
	Long: `Generate insight sentences from a wage report. Uses the embedded sample
report unless --file (YAML, or HTML by extension) or --html is given.
With --narrate and GEMINI_API_KEY set, also writes a short LLM summary.`,
	RunE: runInsights,
}

var (
	insightsFile       string
	insightsHTML       string
	insightsOccupation string
	insightsJSON       bool
	insightsNarrate    bool
)

func init() {
	insightsCmd.Flags().StringVarP(&insightsFile, "file", "f", "", "Path to a wage report (YAML, or HTML table)")
	insightsCmd.Flags().StringVar(&insightsHTML, "html", "", "Path to an HTML page with an occupation wage table")
	insightsCmd.Flags().StringVarP(&insightsOccupation, "occupation", "o", "", "Only this occupation slug")
	insightsCmd.Flags().BoolVar(&insightsJSON, "json", false, "Print insights as JSON")
	insightsCmd.Flags().BoolVar(&insightsNarrate, "narrate", false, "Add an LLM-written summary (requires GEMINI_API_KEY)")
	insightsCmd.MarkFlagsMutuallyExclusive("file", "html")

	rootCmd.AddCommand(insightsCmd)
}

func runInsights(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	report, err := readReport(insightsFile, insightsHTML)
	if err != nil {
		return err
	}

	engine := insights.New(insights.DefaultThresholds())
	out := cmd.OutOrStdout()

	var (
		sections []insights.OccupationInsights
		subject  = report.Title
	)
	if insightsOccupation != "" {
		row, err := report.Find(wages.KindOccupation, insightsOccupation)
		if err != nil {
			return err
		}
		sections = []insights.OccupationInsights{{Slug: row.Slug, Name: row.Name, Insights: engine.ForRow(report, *row)}}
		subject = row.Name
	} else {
		sections, err = engine.GenerateAll(ctx, report)
		if err != nil {
			return err
		}
	}

	var highlights []insights.Insight
	if insightsOccupation == "" {
		highlights = engine.Highlights(report)
	}

	var narrative string
	if insightsNarrate {
		narrative, err = narrate(ctx, report, subject, sections, highlights)
		if err != nil {
			return err
		}
	}

	if insightsJSON {
		return writeInsightsJSON(out, report, sections, highlights, narrative)
	}

	p := output.NewPrinter(out)
	for _, sec := range sections {
		p.PrintInsights(sec.Name, sec.Insights)
	}
	if len(highlights) > 0 {
		p.PrintInsights("Report highlights", highlights)
	}
	if narrative != "" {
		p.PrintNarrative("Summary", narrative)
	}
	return nil
}

// readReport loads the report named by the flags, or the embedded sample.
func readReport(file, html string) (*wages.Report, error) {
	switch {
	case file != "":
		return wages.LoadFile(file)
	case html != "":
		f, err := os.Open(html)
		if err != nil {
			return nil, fmt.Errorf("failed to open wage table %s: %w", html, err)
		}
		defer func() { _ = f.Close() }()

		rows, err := wages.ParseHTMLTable(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", html, err)
		}
		return wages.FromRows(strings.TrimSuffix(filepath.Base(html), filepath.Ext(html)), rows)
	default:
		return wages.Sample()
	}
}

func narrate(ctx context.Context, report *wages.Report, subject string, sections []insights.OccupationInsights, highlights []insights.Insight) (string, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return "", fmt.Errorf("GEMINI_API_KEY environment variable is required for --narrate")
	}

	client, err := llm.NewGeminiClient(ctx, llm.DefaultConfig(), apiKey)
	if err != nil {
		return "", err
	}
	defer func() { _ = client.Close() }()

	narrator := insights.NewNarrator(client)
	if len(sections) == 1 && len(highlights) == 0 {
		return narrator.NarrateOccupation(ctx, subject, sections[0].Insights)
	}
	return narrator.NarrateReport(ctx, report, highlights)
}

func writeInsightsJSON(w io.Writer, report *wages.Report, sections []insights.OccupationInsights, highlights []insights.Insight, narrative string) error {
	payload := struct {
		Title       string                        `json:"title"`
		Occupations []insights.OccupationInsights `json:"occupations"`
		Highlights  []insights.Insight            `json:"highlights,omitempty"`
		Narrative   string                        `json:"narrative,omitempty"`
	}{
		Title:       report.Title,
		Occupations: sections,
		Highlights:  highlights,
		Narrative:   narrative,
	}

	jsonBytes, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal insights to JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(jsonBytes))
	return err
}
