package insights

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/career-hub/internal/llm"
	"github.com/jonathan/career-hub/internal/prompts"
	"github.com/jonathan/career-hub/internal/wages"
)

// Narrator rewrites rule-generated insights into a short paragraph with an LLM.
type Narrator struct {
	client llm.Client
	tier   llm.ModelTier
}

// NewNarrator creates a Narrator on top of an LLM client.
func NewNarrator(client llm.Client) *Narrator {
	return &Narrator{client: client, tier: llm.TierLite}
}

// NarrateOccupation summarizes the insights for one subject.
func (n *Narrator) NarrateOccupation(ctx context.Context, subject string, items []Insight) (string, error) {
	if len(items) == 0 {
		return "", fmt.Errorf("no insights to narrate for %s", subject)
	}
	prompt, err := prompts.Render(prompts.WagesFile, "narrate-insights", map[string]string{
		"Subject": subject,
		"Facts":   factList(items),
	})
	if err != nil {
		return "", err
	}
	return n.generate(ctx, prompt)
}

// NarrateReport summarizes the report-level highlights.
func (n *Narrator) NarrateReport(ctx context.Context, report *wages.Report, highlights []Insight) (string, error) {
	if len(highlights) == 0 {
		return "", fmt.Errorf("no highlights to narrate for %s", report.Title)
	}
	prompt, err := prompts.Render(prompts.WagesFile, "narrate-report", map[string]string{
		"Title": report.Title,
		"Facts": factList(highlights),
	})
	if err != nil {
		return "", err
	}
	return n.generate(ctx, prompt)
}

func (n *Narrator) generate(ctx context.Context, prompt string) (string, error) {
	text, err := n.client.GenerateContent(ctx, prompt, n.tier)
	if err != nil {
		return "", fmt.Errorf("failed to narrate insights: %w", err)
	}
	text = llm.CleanText(text)
	if text == "" {
		return "", fmt.Errorf("failed to narrate insights: empty response")
	}
	return text, nil
}

func factList(items []Insight) string {
	var sb strings.Builder
	for _, it := range items {
		sb.WriteString("- ")
		sb.WriteString(it.Text)
		sb.WriteByte('\n')
	}
	return strings.TrimRight(sb.String(), "\n")
}
