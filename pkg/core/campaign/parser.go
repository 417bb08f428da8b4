package campaign

import (
	"encoding/json"
	"fmt"
	"strings"

	"marketing_ai/pkg/core/utils"
)

// SMSMaxLength is the advisory length bound for one SMS body. Over-length
// items are still returned; the bound only produces a warning.
const SMSMaxLength = 160

// ParseReply extracts the structured items payload from a free-form model
// reply. Models wrap the JSON in prose and markdown fences, so the parser
// takes the substring from the first '{' to the last '}' and decodes that,
// with repair fallbacks for almost-JSON. Every failure path returns a
// tagged result carrying the original raw text unmodified; nothing is ever
// fabricated and nothing escapes as an error.
func ParseReply(raw string, expectedKey string) GenerationResult {
	failure := func(detail string) GenerationResult {
		return GenerationResult{
			Failure: FailureParse,
			RawText: raw,
			Err:     detail,
		}
	}

	cleaned := strings.ReplaceAll(raw, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end <= start {
		return failure("no JSON object found in reply")
	}
	candidate := cleaned[start : end+1]

	var payload map[string]json.RawMessage
	if _, err := utils.SmartParse(candidate, &payload); err != nil {
		return failure(fmt.Sprintf("reply is not decodable JSON: %v", err))
	}

	rawItems, ok := payload[expectedKey]
	if !ok {
		return failure(fmt.Sprintf("decoded object lacks expected key %q", expectedKey))
	}

	var entries []map[string]interface{}
	if err := json.Unmarshal(rawItems, &entries); err != nil {
		return failure(fmt.Sprintf("expected key %q does not hold an array of objects: %v", expectedKey, err))
	}

	// An empty list under the expected key is a valid empty result,
	// distinct from a parse failure.
	items := []ContentItem{}
	for _, entry := range entries {
		item := ContentItem{}
		for field, value := range entry {
			item[field] = flattenValue(value)
		}
		items = append(items, item)
	}

	return GenerationResult{Items: items}
}

// flattenValue renders one item field as text. Models occasionally return
// arrays (hashtags) or numbers where a string was asked for.
func flattenValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case []interface{}:
		parts := make([]string, 0, len(val))
		for _, p := range val {
			parts = append(parts, flattenValue(p))
		}
		return strings.Join(parts, " ")
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", val)
	}
}

// AdvisoryWarnings checks channel-specific post-conditions the parser does
// not enforce structurally. Today that is the SMS length bound.
func AdvisoryWarnings(contentType ContentType, items []ContentItem) []string {
	if contentType != ContentSMS {
		return nil
	}
	var warnings []string
	for i, item := range items {
		if body, ok := item["body"]; ok && len(body) > SMSMaxLength {
			warnings = append(warnings, fmt.Sprintf("item %d: sms body is %d characters, over the %d-character bound", i+1, len(body), SMSMaxLength))
		}
	}
	return warnings
}
