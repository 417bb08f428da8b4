package campaign

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"marketing_ai/pkg/models"
)

// --- Mocks ---

type MockClient struct {
	GenerateFunc func(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error)
	calls        int
}

func (m *MockClient) GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error) {
	m.calls++
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt, systemPrompt, options)
	}
	return `{"items":[{"subject":"Hi","body":"Hello"}]}`, nil
}

func threeTargets() []Target {
	return []Target{
		{ID: "ana", Records: []models.Record{{"name": "Ana"}}},
		{ID: "ben", Records: []models.Record{{"name": "Ben"}}},
		{ID: "cleo", Records: []models.Record{{"name": "Cleo"}}},
	}
}

// --- Tests ---

func TestGeneratePartialFailure(t *testing.T) {
	// Target 2's provider call fails; targets 1 and 3 must be unaffected.
	client := &MockClient{
		GenerateFunc: func(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error) {
			if strings.Contains(prompt, "Ben") {
				return "", fmt.Errorf("upstream timeout")
			}
			return `{"items":[{"subject":"Hi","body":"Hello"}]}`, nil
		},
	}

	assembler := NewAssembler(nil)
	report, err := assembler.Generate(context.Background(), threeTargets(), ContentEmail, testStyle(), client)
	if err != nil {
		t.Fatalf("Generate returned batch-level error: %v", err)
	}

	if len(report.Entries) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(report.Entries))
	}
	if !report.Entries[0].Result.OK() || !report.Entries[2].Result.OK() {
		t.Error("Targets 1 and 3 must hold successful results")
	}
	second := report.Entries[1].Result
	if second.OK() || second.Failure != FailureGeneration {
		t.Errorf("Target 2 must hold a recorded generation failure, got %+v", second)
	}
	if report.Succeeded() != 2 {
		t.Errorf("Expected 2 successes, got %d", report.Succeeded())
	}
}

func TestGeneratePreservesTargetOrder(t *testing.T) {
	client := &MockClient{}
	assembler := NewAssembler(nil)

	report, err := assembler.Generate(context.Background(), threeTargets(), ContentEmail, testStyle(), client)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	want := []string{"ana", "ben", "cleo"}
	for i, entry := range report.Entries {
		if entry.TargetID != want[i] {
			t.Errorf("Entry %d: expected target %q, got %q", i, want[i], entry.TargetID)
		}
	}
}

func TestGenerateRecordsParseFailure(t *testing.T) {
	client := &MockClient{
		GenerateFunc: func(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error) {
			return "sorry, I can't produce JSON today", nil
		},
	}

	assembler := NewAssembler(nil)
	report, err := assembler.Generate(context.Background(), threeTargets(), ContentEmail, testStyle(), client)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	for i, entry := range report.Entries {
		if entry.Result.Failure != FailureParse {
			t.Errorf("Entry %d: expected parse failure, got %+v", i, entry.Result)
		}
		if entry.Result.RawText != "sorry, I can't produce JSON today" {
			t.Errorf("Entry %d: raw text not preserved", i)
		}
	}
}

func TestGenerateConfigErrorFailsFast(t *testing.T) {
	client := &MockClient{}
	assembler := NewAssembler(nil)

	bad := testStyle()
	bad.VariantCount = 0
	if _, err := assembler.Generate(context.Background(), threeTargets(), ContentEmail, bad, client); err == nil {
		t.Fatal("Expected configuration error")
	}
	if client.calls != 0 {
		t.Errorf("Configuration errors must surface before any provider call, got %d calls", client.calls)
	}
}

func TestGenerateFreeTextInsights(t *testing.T) {
	client := &MockClient{
		GenerateFunc: func(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error) {
			if _, ok := options["response_format"]; ok {
				t.Error("Free-text content must not request JSON mode")
			}
			return "Engagement is strongest in EMEA.", nil
		},
	}

	assembler := NewAssembler(nil)
	targets := SharedTarget("all", []models.Record{{"name": "Ana"}})
	report, err := assembler.Generate(context.Background(), targets, ContentInsights, testStyle(), client)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	result := report.Entries[0].Result
	if !result.OK() || result.Items[0]["body"] != "Engagement is strongest in EMEA." {
		t.Errorf("Expected free-text reply as single item, got %+v", result)
	}
}

func TestGenerateSMSWarnings(t *testing.T) {
	longBody := ""
	for i := 0; i < 20; i++ {
		longBody += "BIG SUMMER SALE! "
	}
	client := &MockClient{
		GenerateFunc: func(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error) {
			return fmt.Sprintf(`{"items":[{"body":"%s"}]}`, longBody), nil
		},
	}

	assembler := NewAssembler(nil)
	style := testStyle()
	style.Channel = "SMS"
	report, err := assembler.Generate(context.Background(), threeTargets()[:1], ContentSMS, style, client)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	result := report.Entries[0].Result
	if !result.OK() {
		t.Fatalf("Over-length SMS must still be accepted, got %+v", result)
	}
	if len(result.Warnings) != 1 {
		t.Errorf("Expected one advisory warning, got %v", result.Warnings)
	}
}
