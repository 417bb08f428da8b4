// Package insight produces the free-text audience analysis shown on the
// data-overview page. It talks to Gemini directly through the legacy
// generative-ai-go SDK, with a provider-manager fallback when no Gemini key
// is configured.
package insight

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"marketing_ai/pkg/core/agent"
	"marketing_ai/pkg/core/calc"
	"marketing_ai/pkg/core/dataset"
	"marketing_ai/pkg/core/prompt"
	"marketing_ai/pkg/core/utils"
	"marketing_ai/pkg/models"
)

const defaultModel = "gemini-2.0-flash"

const fallbackSystemPrompt = "You are a marketing analyst. Summarize what stands out in the audience numbers as short, actionable Markdown paragraphs. No preamble."

// Agent generates audience insights. Exactly one of client (direct Gemini)
// or mgr (configured provider) is used.
type Agent struct {
	client    *genai.Client
	modelName string
	mgr       *agent.Manager
}

// NewAgent prefers a direct Gemini client and falls back to the provider
// manager when GEMINI_API_KEY is not set.
func NewAgent(ctx context.Context, mgr *agent.Manager) (*Agent, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		if mgr == nil {
			return nil, fmt.Errorf("GEMINI_API_KEY not set and no provider manager available")
		}
		return &Agent{mgr: mgr}, nil
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %v", err)
	}
	return &Agent{client: client, modelName: defaultModel}, nil
}

// Close releases the underlying client, if any.
func (a *Agent) Close() {
	if a.client != nil {
		a.client.Close()
	}
}

// Summarize renders the aggregate picture of the record set as a prompt and
// returns the model's Markdown analysis, cleaned of code fences.
func (a *Agent) Summarize(ctx context.Context, records []models.Record, snap calc.MetricsSnapshot, segments map[string][]models.Record) (string, error) {
	userPrompt := buildOverviewPrompt(records, snap, segments)

	raw, err := a.generate(ctx, userPrompt)
	if err != nil {
		return "", err
	}

	cleaned := utils.CleanMarkdown(raw)
	if !utils.ValidateMarkdown(cleaned) {
		// Goldmark accepts nearly anything; a nil document means the reply
		// was unusable.
		return "", fmt.Errorf("insight reply did not parse as markdown")
	}
	return cleaned, nil
}

func (a *Agent) generate(ctx context.Context, userPrompt string) (string, error) {
	systemPrompt := fallbackSystemPrompt
	if sp, err := prompt.GetInsightPrompt("overview"); err == nil && sp != "" {
		systemPrompt = sp
	}

	if a.client == nil {
		return a.mgr.ExecutePrompt(ctx, "insight", userPrompt, systemPrompt, nil)
	}

	model := a.client.GenerativeModel(a.modelName)
	model.SetTemperature(0.7)

	fullPrompt := fmt.Sprintf("%s\n\nTask: %s", systemPrompt, userPrompt)
	resp, err := model.GenerateContent(ctx, genai.Text(fullPrompt))
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("empty insight response")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	return sb.String(), nil
}

// buildOverviewPrompt flattens metrics, segment sizes and the top value
// counts into a compact text block. Only aggregates go to the model here;
// record-level prompting belongs to the campaign builder with its own cap.
func buildOverviewPrompt(records []models.Record, snap calc.MetricsSnapshot, segments map[string][]models.Record) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Audience metrics:\n")
	fmt.Fprintf(&sb, "- total customers: %d\n", snap.Total)
	fmt.Fprintf(&sb, "- high engagement rate: %.2f\n", snap.HighEngagementRate)
	fmt.Fprintf(&sb, "- average engagement: %.1f\n", snap.AvgEngagement)
	fmt.Fprintf(&sb, "- revenue potential: %.0f\n", snap.RevenuePotential)
	if len(snap.MissingFields) > 0 {
		fmt.Fprintf(&sb, "- unavailable columns: %s\n", strings.Join(snap.MissingFields, ", "))
	}

	if len(segments) > 0 {
		sb.WriteString("\nSegment sizes:\n")
		names := make([]string, 0, len(segments))
		for name := range segments {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(&sb, "- %s: %d\n", name, len(segments[name]))
		}
	}

	for _, column := range []string{"product_interest", "region"} {
		counts := dataset.ValueCounts(records, column)
		if len(counts) == 0 {
			continue
		}
		if len(counts) > 5 {
			counts = counts[:5]
		}
		fmt.Fprintf(&sb, "\nTop %s values:\n", column)
		for _, vc := range counts {
			fmt.Fprintf(&sb, "- %s: %d\n", vc.Value, vc.Count)
		}
	}

	return sb.String()
}
