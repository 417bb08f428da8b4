package agent

import (
	"context"
	"testing"
)

type captureProvider struct {
	name    string
	calls   int
	prompt  string
	system  string
	options map[string]interface{}
}

func (p *captureProvider) GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error) {
	p.calls++
	p.prompt = prompt
	p.system = systemPrompt
	p.options = options
	return p.name + " reply", nil
}

func (p *captureProvider) AdaptInstructions(raw string) string {
	return p.name + ": " + raw
}

func newTestManager(agents map[string]AgentConfig) (*Manager, *captureProvider) {
	mgr := NewManager(Config{ActiveProvider: "mock", Agents: agents})
	mock := &captureProvider{name: "mock"}
	mgr.providers["mock"] = mock
	return mgr, mock
}

func TestClientAppliesConfiguredModel(t *testing.T) {
	mgr, mock := newTestManager(map[string]AgentConfig{
		"campaign": {Provider: "mock", Model: "gpt-4o-mini"},
	})

	client := mgr.Client("campaign")
	options := map[string]interface{}{
		"response_format": map[string]interface{}{"type": "json_object"},
	}
	reply, err := client.GenerateResponse(context.Background(), "write an email", "be helpful", options)
	if err != nil {
		t.Fatalf("GenerateResponse failed: %v", err)
	}
	if reply != "mock reply" {
		t.Errorf("Expected provider reply, got %q", reply)
	}

	if got := mock.options["model"]; got != "gpt-4o-mini" {
		t.Errorf("Configured model not injected, options[model] = %v", got)
	}
	if _, ok := mock.options["response_format"]; !ok {
		t.Error("Caller options lost during routing")
	}
	if mock.system != "mock: be helpful" {
		t.Errorf("AdaptInstructions not applied, system = %q", mock.system)
	}
}

func TestClientKeepsExplicitModel(t *testing.T) {
	mgr, mock := newTestManager(map[string]AgentConfig{
		"campaign": {Provider: "mock", Model: "gpt-4o-mini"},
	})

	options := map[string]interface{}{"model": "gpt-4o"}
	if _, err := mgr.Client("campaign").GenerateResponse(context.Background(), "p", "s", options); err != nil {
		t.Fatalf("GenerateResponse failed: %v", err)
	}
	if got := mock.options["model"]; got != "gpt-4o" {
		t.Errorf("Explicit model should win over the configured one, got %v", got)
	}
}

func TestClientWithProviderPin(t *testing.T) {
	mgr, mock := newTestManager(map[string]AgentConfig{
		"campaign": {Provider: "mock", Model: "gpt-4o-mini"},
	})
	pinned := &captureProvider{name: "pinned"}
	mgr.providers["pinned"] = pinned

	client, err := mgr.ClientWithProvider("campaign", "pinned")
	if err != nil {
		t.Fatalf("ClientWithProvider failed: %v", err)
	}
	if _, err := client.GenerateResponse(context.Background(), "p", "s", nil); err != nil {
		t.Fatalf("GenerateResponse failed: %v", err)
	}

	if pinned.calls != 1 || mock.calls != 0 {
		t.Errorf("Expected only the pinned provider to be called (pinned=%d, mock=%d)", pinned.calls, mock.calls)
	}
	if _, ok := pinned.options["model"]; ok {
		t.Error("Pinned provider should use its own default model")
	}
	if pinned.system != "pinned: s" {
		t.Errorf("AdaptInstructions not applied on pinned path, system = %q", pinned.system)
	}

	if _, err := mgr.ClientWithProvider("campaign", "nope"); err == nil {
		t.Error("Expected error for unknown provider name")
	}
}
