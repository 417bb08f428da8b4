package prompt

// Convenience functions for common prompt operations

// GetCampaignPrompt returns the system prompt for a campaign content type
// (e.g. "email", "ad_copy", "campaign_ideas").
func GetCampaignPrompt(contentType string) (string, error) {
	id := "campaign." + contentType
	return Get().GetSystemPrompt(id)
}

// GetInsightPrompt returns the system prompt for a data-insight task
func GetInsightPrompt(name string) (string, error) {
	id := "insight." + name
	return Get().GetSystemPrompt(id)
}
