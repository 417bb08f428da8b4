package llm

import (
	"context"
)

// Provider is the interface for all text-generation providers. The campaign
// engine treats a provider as an opaque remote call with unbounded latency
// and a non-zero failure rate; retries and rate limiting belong to layers
// above, never here.
type Provider interface {
	GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error)
	// AdaptInstructions transforms raw instructions into model-specific formats
	AdaptInstructions(rawInstructions string) string
}

type KimiProvider struct{}

func (p *KimiProvider) GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error) {
	return "Not implemented: Kimi Response", nil
}

func (p *KimiProvider) AdaptInstructions(raw string) string {
	return "Kimi Style: " + raw // Kimi handles long audience-context prompts well
}

type DoubaoProvider struct{}

func (p *DoubaoProvider) GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error) {
	return "Not implemented: Doubao Response", nil
}

func (p *DoubaoProvider) AdaptInstructions(raw string) string {
	return "Doubao Style: " + raw // Doubao (ByteDance) is strong on creative and localized copy
}
