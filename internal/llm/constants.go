package llm

const (
	// CommitTemperature keeps the structured call close to deterministic.
	CommitTemperature = 0.1
)

const (
	ProviderZai    = "zai"
	ProviderOpenAI = "openai"
	ProviderGroq   = "groq"
)

const (
	DefaultOpenAIContextModel = "gpt-4o-mini"
	DefaultOpenAICommitModel  = "gpt-4o"
	DefaultGroqContextModel   = "llama-3.1-8b-instant"
	DefaultGroqCommitModel    = "llama-3.3-70b-versatile"
	DefaultZaiContextModel    = "glm-4.7-Flash"
	DefaultZaiCommitModel     = "glm-4.7"
)

const (
	OpenAIBaseURL = "https://api.openai.com/v1"
	GroqBaseURL   = "https://api.groq.com/openai/v1"
	ZaiBaseURL    = "https://api.z.ai/api/paas/v4"
)
