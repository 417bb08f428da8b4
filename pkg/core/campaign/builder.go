package campaign

import (
	"fmt"
	"sort"
	"strings"

	"marketing_ai/pkg/core/prompt"
)

// DefaultMaxRecords caps how many records a prompt may embed. Unbounded
// embedding of tabular data is a correctness bug (cost and latency blow up
// with input size), so truncation is a hard invariant of the builder.
const DefaultMaxRecords = 5

// Builder renders bounded prompts for a content type, target and style.
type Builder struct {
	MaxRecords int
}

func NewBuilder() *Builder {
	return &Builder{MaxRecords: DefaultMaxRecords}
}

// fallbackSystemPrompts is used when the prompt library has not been loaded
// from resources/.
var fallbackSystemPrompts = map[ContentType]string{
	ContentEmail:         "You are a marketing copywriter. Write personalized marketing emails that sound natural, match the requested tone and speak directly to the customer's interests.",
	ContentAdCopy:        "You are an advertising copywriter. Write concise, high-converting ad copy tailored to the audience described.",
	ContentSocialPost:    "You are a social media manager. Write engaging posts for the requested platform, tuned to the audience described.",
	ContentSMS:           "You are a marketing copywriter. Write short SMS messages. Keep each message tight; ideally under 160 characters.",
	ContentCampaignIdeas: "You are a creative strategist. Propose catchy campaign concepts and taglines grounded in the audience data.",
	ContentInsights:      "You are a marketing analyst. Summarize what stands out in the audience data as short, actionable Markdown paragraphs.",
}

// systemPromptFor prefers the loaded prompt library and falls back to the
// built-in text.
func systemPromptFor(c ContentType) string {
	if sp, err := prompt.GetCampaignPrompt(string(c)); err == nil && sp != "" {
		return sp
	}
	return fallbackSystemPrompts[c]
}

// Build renders one GenerationRequest. It validates the configuration
// first, so a caller bug surfaces before any provider call. The rendered
// prompt embeds at most MaxRecords records (first N by input order) and
// states the truncation when it applies.
func (b *Builder) Build(contentType ContentType, target Target, style StyleConfig) (GenerationRequest, error) {
	if err := ValidateStyle(contentType, style); err != nil {
		return GenerationRequest{}, err
	}

	limit := b.MaxRecords
	if limit <= 0 {
		limit = DefaultMaxRecords
	}

	var sb strings.Builder

	tone := strings.ToLower(style.Tone)
	if tone == "" {
		tone = "neutral"
	}
	channel := strings.ToLower(style.Channel)
	if channel == "" {
		channel = string(contentType)
	}

	if contentType == ContentInsights {
		fmt.Fprintf(&sb, "Analyze the customer data below and produce %d %s insight paragraphs for the %s team.\n", style.VariantCount, tone, channel)
	} else {
		fmt.Fprintf(&sb, "Generate %d %s %s message variants for the customers below.\n", style.VariantCount, tone, channel)
	}

	// Style configuration, verbatim, so content shape is steerable without
	// touching builder code.
	sb.WriteString("\nStyle instructions:\n")
	fmt.Fprintf(&sb, "- tone: %s\n", style.Tone)
	fmt.Fprintf(&sb, "- channel: %s\n", style.Channel)
	fmt.Fprintf(&sb, "- variant_count: %d\n", style.VariantCount)
	for _, flag := range sortedFlags(style.Flags) {
		fmt.Fprintf(&sb, "- %s: %v\n", flag, style.Flags[flag])
	}

	// Record blocks, first N by input order.
	embedded := target.Records
	if len(embedded) > limit {
		embedded = embedded[:limit]
	}
	if len(target.Records) > len(embedded) {
		fmt.Fprintf(&sb, "\nCustomer data (showing first %d of %d records):\n", len(embedded), len(target.Records))
	} else {
		fmt.Fprintf(&sb, "\nCustomer data (%d records):\n", len(embedded))
	}
	fields := RecordFields(contentType)
	for _, rec := range embedded {
		pairs := []string{}
		for _, f := range fields {
			if v, ok := rec.Text(f); ok {
				pairs = append(pairs, fmt.Sprintf("%s: %s", f, v))
			}
		}
		if len(pairs) == 0 {
			sb.WriteString("- (no profile fields available)\n")
			continue
		}
		fmt.Fprintf(&sb, "- %s\n", strings.Join(pairs, " | "))
	}

	// Structural contract clause for anything the caller will parse.
	if contentType.Structured() {
		itemFields := ItemFields(contentType)
		quoted := make([]string, len(itemFields))
		for i, f := range itemFields {
			quoted[i] = fmt.Sprintf("%q", f)
		}
		fmt.Fprintf(&sb, "\nReturn a JSON object with a top-level field \"items\": an array with one object per variant, each object having the string fields %s. Return only the JSON object, no commentary.\n", strings.Join(quoted, ", "))
	} else {
		sb.WriteString("\nWrite the answer as plain Markdown. Do not return JSON.\n")
	}

	return GenerationRequest{
		ContentType:  contentType,
		TargetID:     target.ID,
		Style:        style,
		SystemPrompt: systemPromptFor(contentType),
		Prompt:       sb.String(),
	}, nil
}

func sortedFlags(flags map[string]bool) []string {
	out := make([]string, 0, len(flags))
	for k := range flags {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
