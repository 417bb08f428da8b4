// Package prompt is the system-prompt library for the generation agents.
// Prompts live in JSON files under resources/ and are loaded at startup, so
// copy tuning never needs a rebuild; callers keep hardcoded fallbacks for
// when the files are absent.
package prompt

// PromptTemplate is one loaded system prompt. The ID doubles as the lookup
// key: "<category>.<name>", e.g. "campaign.email" or "insight.overview".
type PromptTemplate struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Category     string `json:"category"` // campaign, insight
	Description  string `json:"description"`
	SystemPrompt string `json:"system_prompt"`
	Version      string `json:"version"`
}
