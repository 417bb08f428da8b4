// Package campaign turns customer record subsets into generated marketing
// content: it renders bounded prompts, drives the text-generation provider
// per target, parses the free-form replies into structured items and
// collects everything into an order-stable report with per-target failure
// capture.
package campaign

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"marketing_ai/pkg/models"
)

// ContentType selects what kind of content a generation request produces.
type ContentType string

const (
	ContentEmail         ContentType = "email"
	ContentAdCopy        ContentType = "ad_copy"
	ContentSocialPost    ContentType = "social_post"
	ContentSMS           ContentType = "sms"
	ContentCampaignIdeas ContentType = "campaign_ideas"
	ContentInsights      ContentType = "insights"
)

// Structured reports whether replies for this content type carry the JSON
// items contract. Insights are free text and skip the contract clause.
func (c ContentType) Structured() bool {
	return c != ContentInsights
}

// ItemFields returns the named text fields one structured item carries for
// the content type.
func ItemFields(c ContentType) []string {
	switch c {
	case ContentEmail:
		return []string{"subject", "body"}
	case ContentAdCopy:
		return []string{"headline", "body"}
	case ContentSocialPost:
		return []string{"body", "hashtags"}
	case ContentSMS:
		return []string{"body"}
	case ContentCampaignIdeas:
		return []string{"tagline", "concept"}
	default:
		return nil
	}
}

// RecordFields returns the customer columns worth embedding in a prompt for
// the content type. Absent fields are simply omitted from a record's block.
func RecordFields(c ContentType) []string {
	switch c {
	case ContentEmail:
		return []string{"name", "product_interest", "region", "engagement_score", "tier", "purchase_count", "language"}
	case ContentSMS:
		return []string{"name", "product_interest", "language"}
	case ContentAdCopy, ContentSocialPost, ContentCampaignIdeas, ContentInsights:
		return []string{"name", "product_interest", "region", "engagement_score", "segment"}
	default:
		return nil
	}
}

var knownContentTypes = map[ContentType]bool{
	ContentEmail:         true,
	ContentAdCopy:        true,
	ContentSocialPost:    true,
	ContentSMS:           true,
	ContentCampaignIdeas: true,
	ContentInsights:      true,
}

// StyleConfig steers the shape of the generated content without touching
// builder code. It is embedded verbatim in the prompt.
type StyleConfig struct {
	Tone         string          `json:"tone" yaml:"tone"`
	Channel      string          `json:"channel" yaml:"channel"`
	VariantCount int             `json:"variant_count" yaml:"variant_count"`
	Flags        map[string]bool `json:"flags,omitempty" yaml:"flags"`
}

// ValidateStyle rejects caller bugs before any generation call is issued.
func ValidateStyle(c ContentType, style StyleConfig) error {
	if !knownContentTypes[c] {
		return fmt.Errorf("unknown content type %q", c)
	}
	if style.VariantCount < 1 || style.VariantCount > 10 {
		return fmt.Errorf("variant count must be between 1 and 10, got %d", style.VariantCount)
	}
	return nil
}

// Target is one unit of generation: a single record for personalized
// content, or a whole subset sharing one prompt.
type Target struct {
	ID      string
	Records []models.Record
}

// TargetsPerRecord builds one target per record, IDs taken from the given
// identifier fields with a positional fallback.
func TargetsPerRecord(records []models.Record, idFields []string) []Target {
	targets := make([]Target, 0, len(records))
	for i, rec := range records {
		id := rec.Identifier(idFields, fmt.Sprintf("record-%d", i+1))
		targets = append(targets, Target{ID: id, Records: []models.Record{rec}})
	}
	return targets
}

// SharedTarget wraps a whole subset as one target.
func SharedTarget(id string, records []models.Record) []Target {
	return []Target{{ID: id, Records: records}}
}

// GenerationRequest is one rendered request for the provider.
type GenerationRequest struct {
	ContentType  ContentType `json:"content_type"`
	TargetID     string      `json:"target_id"`
	Style        StyleConfig `json:"style"`
	SystemPrompt string      `json:"system_prompt"`
	Prompt       string      `json:"prompt"`
}

// ContentItem is one decoded content unit (e.g. one email variant).
type ContentItem map[string]string

// FailureKind classifies a recorded per-target failure.
type FailureKind string

const (
	FailureGeneration FailureKind = "generation_failure"
	FailureParse      FailureKind = "parse_failure"
)

// GenerationResult is either a list of structured items or a recorded
// failure carrying the unmodified raw reply for inspection.
type GenerationResult struct {
	Items    []ContentItem `json:"items,omitempty"`
	Failure  FailureKind   `json:"failure,omitempty"`
	RawText  string        `json:"raw_text,omitempty"`
	Err      string        `json:"error,omitempty"`
	Warnings []string      `json:"warnings,omitempty"`
}

// OK reports whether the target succeeded. An empty item list is still a
// success, distinct from a parse failure.
func (r GenerationResult) OK() bool {
	return r.Failure == ""
}

// ReportEntry pairs one target with its outcome.
type ReportEntry struct {
	TargetID string           `json:"target_id"`
	Result   GenerationResult `json:"result"`
}

// Report is the outcome of one assembler invocation. Entries keep the
// caller's target order and the report is never mutated after being
// returned.
type Report struct {
	ID          uuid.UUID     `json:"id"`
	ContentType ContentType   `json:"content_type"`
	CreatedAt   time.Time     `json:"created_at"`
	Entries     []ReportEntry `json:"entries"`
}

// Succeeded counts entries without a recorded failure.
func (r *Report) Succeeded() int {
	n := 0
	for _, e := range r.Entries {
		if e.Result.OK() {
			n++
		}
	}
	return n
}
