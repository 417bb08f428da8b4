package campaign

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// GenerationClient is the provider surface the assembler needs. llm.Provider
// satisfies it; tests inject fakes. The client is an explicit dependency,
// never ambient state, so the rest of the package stays pure.
type GenerationClient interface {
	GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error)
}

// Assembler drives per-target generation and collects the outcomes into a
// Report. Its one engineering property is partial-failure semantics: a
// failure on any target is recorded and the batch continues, so successes
// already obtained are never discarded.
type Assembler struct {
	builder *Builder
}

func NewAssembler(builder *Builder) *Assembler {
	if builder == nil {
		builder = NewBuilder()
	}
	return &Assembler{builder: builder}
}

// Generate runs the batch sequentially in the caller's target order.
// Configuration problems (unknown content type, bad style) fail fast before
// any provider call; everything after that is captured per target.
func (a *Assembler) Generate(ctx context.Context, targets []Target, contentType ContentType, style StyleConfig, client GenerationClient) (*Report, error) {
	if err := ValidateStyle(contentType, style); err != nil {
		return nil, fmt.Errorf("invalid generation config: %w", err)
	}
	if client == nil {
		return nil, fmt.Errorf("invalid generation config: nil client")
	}

	report := &Report{
		ID:          uuid.New(),
		ContentType: contentType,
		CreatedAt:   time.Now().UTC(),
		Entries:     make([]ReportEntry, 0, len(targets)),
	}

	for _, target := range targets {
		report.Entries = append(report.Entries, ReportEntry{
			TargetID: target.ID,
			Result:   a.generateOne(ctx, target, contentType, style, client),
		})
	}

	return report, nil
}

func (a *Assembler) generateOne(ctx context.Context, target Target, contentType ContentType, style StyleConfig, client GenerationClient) GenerationResult {
	req, err := a.builder.Build(contentType, target, style)
	if err != nil {
		// Build only fails on configuration errors, which Generate already
		// screened, but a per-target record keeps the batch alive anyway.
		return GenerationResult{Failure: FailureGeneration, Err: err.Error()}
	}

	options := map[string]interface{}{}
	if contentType.Structured() {
		options["response_format"] = map[string]interface{}{"type": "json_object"}
	}

	reply, err := client.GenerateResponse(ctx, req.Prompt, req.SystemPrompt, options)
	if err != nil {
		fmt.Printf("[CAMPAIGN] Warning: generation failed for target %s: %v. Continuing.\n", target.ID, err)
		return GenerationResult{Failure: FailureGeneration, Err: err.Error()}
	}

	if !contentType.Structured() {
		// Free-text content: the reply itself is the single item.
		return GenerationResult{Items: []ContentItem{{"body": reply}}}
	}

	result := ParseReply(reply, "items")
	if !result.OK() {
		fmt.Printf("[CAMPAIGN] Warning: unparseable reply for target %s: %s. Continuing.\n", target.ID, result.Err)
		return result
	}

	result.Warnings = AdvisoryWarnings(contentType, result.Items)
	return result
}
