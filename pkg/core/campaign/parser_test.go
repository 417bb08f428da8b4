package campaign

import (
	"strings"
	"testing"
)

func TestParseReplyJSONInProse(t *testing.T) {
	raw := `Sure! {"items":[{"body":"hi"}]} Hope that helps.`

	result := ParseReply(raw, "items")

	if !result.OK() {
		t.Fatalf("Expected success, got failure: %s", result.Err)
	}
	if len(result.Items) != 1 {
		t.Fatalf("Expected 1 item, got %d", len(result.Items))
	}
	if result.Items[0]["body"] != "hi" {
		t.Errorf("Expected body 'hi', got %q", result.Items[0]["body"])
	}
}

func TestParseReplyNoJSON(t *testing.T) {
	raw := "no json here"

	result := ParseReply(raw, "items")

	if result.OK() {
		t.Fatal("Expected parse failure")
	}
	if result.Failure != FailureParse {
		t.Errorf("Expected FailureParse, got %q", result.Failure)
	}
	if result.RawText != raw {
		t.Errorf("Raw text must be preserved unchanged, got %q", result.RawText)
	}
}

func TestParseReplyEmptyList(t *testing.T) {
	result := ParseReply(`{"items":[]}`, "items")

	if !result.OK() {
		t.Fatalf("Empty list is a valid result, got failure: %s", result.Err)
	}
	if result.Items == nil || len(result.Items) != 0 {
		t.Errorf("Expected empty item list, got %v", result.Items)
	}
}

func TestParseReplyMissingKey(t *testing.T) {
	// Valid JSON without the expected key is a parse failure, not an empty
	// result.
	raw := `{"messages":[{"body":"hi"}]}`

	result := ParseReply(raw, "items")

	if result.OK() {
		t.Fatal("Expected parse failure for missing key")
	}
	if result.RawText != raw {
		t.Errorf("Raw text must be preserved, got %q", result.RawText)
	}
	if !strings.Contains(result.Err, "items") {
		t.Errorf("Error should name the missing key, got %q", result.Err)
	}
}

func TestParseReplyMarkdownFence(t *testing.T) {
	raw := "```json\n{\"items\":[{\"subject\":\"Hello\",\"body\":\"Hi Ana\"}]}\n```"

	result := ParseReply(raw, "items")

	if !result.OK() {
		t.Fatalf("Expected success, got failure: %s", result.Err)
	}
	if result.Items[0]["subject"] != "Hello" {
		t.Errorf("Expected subject 'Hello', got %q", result.Items[0]["subject"])
	}
}

func TestParseReplyAlmostJSON(t *testing.T) {
	// Trailing comma: stdlib decode fails, the repair fallback should cope.
	raw := `{"items":[{"body":"hi",}]}`

	result := ParseReply(raw, "items")

	if !result.OK() {
		t.Fatalf("Expected repaired parse to succeed, got failure: %s", result.Err)
	}
	if result.Items[0]["body"] != "hi" {
		t.Errorf("Expected body 'hi', got %q", result.Items[0]["body"])
	}
}

func TestParseReplyArrayField(t *testing.T) {
	raw := `{"items":[{"body":"sale!","hashtags":["#sale","#deal"]}]}`

	result := ParseReply(raw, "items")

	if !result.OK() {
		t.Fatalf("Expected success, got failure: %s", result.Err)
	}
	if got := result.Items[0]["hashtags"]; got != "#sale #deal" {
		t.Errorf("Expected flattened hashtags, got %q", got)
	}
}

func TestAdvisoryWarningsSMS(t *testing.T) {
	long := strings.Repeat("x", SMSMaxLength+1)
	items := []ContentItem{{"body": "short"}, {"body": long}}

	warnings := AdvisoryWarnings(ContentSMS, items)

	if len(warnings) != 1 {
		t.Fatalf("Expected 1 warning, got %d: %v", len(warnings), warnings)
	}
	// The advisory never drops the item.
	if len(items) != 2 {
		t.Error("Advisory check must not mutate the item list")
	}

	if w := AdvisoryWarnings(ContentEmail, items); w != nil {
		t.Errorf("Non-SMS content must produce no warnings, got %v", w)
	}
}
