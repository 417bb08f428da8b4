package agent

import (
	"context"
	"fmt"

	"marketing_ai/pkg/core/llm"
)

type Config struct {
	ActiveProvider string                 `yaml:"active_provider"`
	Agents         map[string]AgentConfig `yaml:"agents"`
}

type AgentConfig struct {
	Provider    string `yaml:"provider"` // Optional override
	Model       string `yaml:"model"`    // Optional model override
	Description string `yaml:"description"`
}

// Manager routes generation requests to a configured provider. One manager
// is shared across the process; it holds no per-request state.
type Manager struct {
	config    Config
	providers map[string]llm.Provider
}

func NewManager(config Config) *Manager {
	return &Manager{
		config: config,
		providers: map[string]llm.Provider{
			"openai":   &llm.OpenAIProvider{},
			"gemini":   &llm.GeminiProvider{},
			"deepseek": &llm.DeepSeekProvider{},
			"qwen":     &llm.QwenProvider{},
			"kimi":     &llm.KimiProvider{},
			"doubao":   &llm.DoubaoProvider{},
		},
	}
}

// GetProvider resolves the provider for an agent type: per-agent override
// first, then the global active provider, then openai.
func (m *Manager) GetProvider(agentType string) llm.Provider {
	if agentConfig, ok := m.config.Agents[agentType]; ok && agentConfig.Provider != "" {
		if p, ok := m.providers[agentConfig.Provider]; ok {
			return p
		}
	}

	if p, ok := m.providers[m.config.ActiveProvider]; ok {
		return p
	}

	return m.providers["openai"]
}

// GetProviderByName retrieves a provider instance by its specific name (e.g. "deepseek", "gemini")
func (m *Manager) GetProviderByName(name string) llm.Provider {
	if p, ok := m.providers[name]; ok {
		return p
	}
	return nil
}

// AgentClient presents one agent type as a plain generation client. Calls go
// through ExecutePrompt so per-agent provider and model routing stay in
// force; handing a raw provider to callers would bypass both.
type AgentClient struct {
	mgr       *Manager
	agentType string
	override  llm.Provider
}

// Client returns a generation client bound to the given agent type.
func (m *Manager) Client(agentType string) *AgentClient {
	return &AgentClient{mgr: m, agentType: agentType}
}

// ClientWithProvider pins the client to a named provider for one request.
// A pinned provider uses its own default model; the per-agent model override
// belongs to the configured provider, not the pinned one.
func (m *Manager) ClientWithProvider(agentType string, providerName string) (*AgentClient, error) {
	p := m.GetProviderByName(providerName)
	if p == nil {
		return nil, fmt.Errorf("provider %s not found", providerName)
	}
	return &AgentClient{mgr: m, agentType: agentType, override: p}, nil
}

func (c *AgentClient) GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error) {
	if c.override != nil {
		return c.override.GenerateResponse(ctx, prompt, c.override.AdaptInstructions(systemPrompt), options)
	}
	return c.mgr.ExecutePrompt(ctx, c.agentType, prompt, systemPrompt, options)
}

// ExecutePrompt handles instruction adaptation before sending to the model
func (m *Manager) ExecutePrompt(ctx context.Context, agentType string, rawPrompt string, rawSystemPrompt string, options map[string]interface{}) (string, error) {
	provider := m.GetProvider(agentType)

	if options == nil {
		options = map[string]interface{}{}
	}
	if agentConfig, ok := m.config.Agents[agentType]; ok && agentConfig.Model != "" {
		if _, set := options["model"]; !set {
			options["model"] = agentConfig.Model
		}
	}

	adaptedSystemPrompt := provider.AdaptInstructions(rawSystemPrompt)

	return provider.GenerateResponse(ctx, rawPrompt, adaptedSystemPrompt, options)
}

func (m *Manager) SetGlobalProvider(newProvider string) error {
	if _, ok := m.providers[newProvider]; !ok {
		return fmt.Errorf("provider %s not found", newProvider)
	}
	m.config.ActiveProvider = newProvider
	fmt.Printf("[AGENT] Global provider set to: %s\n", newProvider)
	return nil
}

func (m *Manager) GetActiveProvider() string {
	return m.config.ActiveProvider
}

// ProviderNames lists the registered provider keys for the config API.
func (m *Manager) ProviderNames() []string {
	return []string{"openai", "gemini", "deepseek", "qwen", "kimi", "doubao"}
}
