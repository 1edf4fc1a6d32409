package llm

// ProviderInfo contains metadata about an OpenAI-compatible provider
type ProviderInfo struct {
	Name        string
	DisplayName string
	BaseURL     string
	// ContextModel answers the context-validation step, CommitModel the
	// structured commit call.
	ContextModel string
	CommitModel  string
	Models       []string
}

// Registry contains metadata for all available providers
var Registry = []ProviderInfo{
	{
		Name:         ProviderOpenAI,
		DisplayName:  "OpenAI (GPT models)",
		BaseURL:      OpenAIBaseURL,
		ContextModel: DefaultOpenAIContextModel,
		CommitModel:  DefaultOpenAICommitModel,
		Models:       []string{"gpt-4o-mini", "gpt-4o", "gpt-4-turbo", "gpt-3.5-turbo"},
	},
	{
		Name:         ProviderGroq,
		DisplayName:  "Groq (Ultra-fast inference)",
		BaseURL:      GroqBaseURL,
		ContextModel: DefaultGroqContextModel,
		CommitModel:  DefaultGroqCommitModel,
		Models:       []string{"llama-3.1-8b-instant", "llama-3.3-70b-versatile", "llama-4-scout-17b-16e-instruct"},
	},
	{
		Name:         ProviderZai,
		DisplayName:  "z.ai (GLM models)",
		BaseURL:      ZaiBaseURL,
		ContextModel: DefaultZaiContextModel,
		CommitModel:  DefaultZaiCommitModel,
		Models:       []string{"glm-4.7-Flash", "glm-4.7-FlashX", "glm-4.7"},
	},
}

// GetProviderInfo returns the provider info for a given provider name
func GetProviderInfo(name string) (ProviderInfo, bool) {
	for _, info := range Registry {
		if info.Name == name {
			return info, true
		}
	}
	return ProviderInfo{}, false
}

// GetProviderNames returns a list of all registered provider names
func GetProviderNames() []string {
	names := make([]string, len(Registry))
	for i, info := range Registry {
		names[i] = info.Name
	}
	return names
}
