package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"commitaid/internal/commit"
	"commitaid/internal/debug"
	"commitaid/internal/prompt"

	"github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
)

// CommitFunctionName is the only function the commit call may invoke.
const CommitFunctionName = "commit"

var (
	// ErrContextValidation means the first call produced no usable text.
	ErrContextValidation = errors.New("context validation failed")
	// ErrNoFunctionCall means the second call did not invoke "commit".
	ErrNoFunctionCall = errors.New("no commit function call in completion")
)

// Exchange is the ordered conversation sent to the completion API.
type Exchange []openai.ChatCompletionMessage

// NewExchange builds the prefix shared by both calls: the system prompt, the
// diff, the expected "ready" acknowledgment and the context questions.
func NewExchange(cfg prompt.CommitConfig, diff string) Exchange {
	return Exchange{
		{Role: openai.ChatMessageRoleSystem, Content: prompt.SystemMessage(cfg)},
		{Role: openai.ChatMessageRoleUser, Content: diff},
		{Role: openai.ChatMessageRoleSystem, Content: prompt.Ready},
		{Role: openai.ChatMessageRoleUser, Content: prompt.ContextVerification(cfg)},
	}
}

// With returns a copy of e with one more message appended.
func (e Exchange) With(role, content string) Exchange {
	out := make(Exchange, len(e), len(e)+1)
	copy(out, e)
	return append(out, openai.ChatCompletionMessage{Role: role, Content: content})
}

// CommitFunction describes the "commit" function. body is required only
// when forceBody is set.
func CommitFunction(forceBody bool) openai.FunctionDefinition {
	required := []string{"type", "subject"}
	if forceBody {
		required = append(required, "body")
	}
	return openai.FunctionDefinition{
		Name:        CommitFunctionName,
		Description: "create a commit",
		Parameters: &jsonschema.Definition{
			Type: jsonschema.Object,
			Properties: map[string]jsonschema.Definition{
				"type":    {Type: jsonschema.String, Description: "type of commit"},
				"scope":   {Type: jsonschema.String, Description: "scope of commit"},
				"subject": {Type: jsonschema.String, Description: "subject of commit"},
				"body":    {Type: jsonschema.String, Description: "body of commit"},
			},
			Required: required,
		},
	}
}

// Options override the registry defaults of a provider. Empty fields keep
// the default.
type Options struct {
	BaseURL      string
	ContextModel string
	CommitModel  string
	HTTPClient   *http.Client
}

// Client runs the two completion calls against one provider.
type Client struct {
	Provider     string
	BaseURL      string
	ContextModel string
	CommitModel  string
	api          *openai.Client
}

// New creates a client for the named provider. The API key is only ever
// taken from this argument.
func New(provider, apiKey string, opts Options) (*Client, error) {
	info, ok := GetProviderInfo(provider)
	if !ok {
		return nil, fmt.Errorf("unsupported provider: %s (available: %s)", provider, strings.Join(GetProviderNames(), ", "))
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("%s API key is not configured", provider)
	}

	c := &Client{
		Provider:     provider,
		BaseURL:      firstNonEmpty(opts.BaseURL, info.BaseURL),
		ContextModel: firstNonEmpty(opts.ContextModel, info.ContextModel),
		CommitModel:  firstNonEmpty(opts.CommitModel, info.CommitModel),
	}

	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = c.BaseURL
	if opts.HTTPClient != nil {
		cfg.HTTPClient = opts.HTTPClient
	}
	c.api = openai.NewClientWithConfig(cfg)
	return c, nil
}

// ValidateContext asks the context model to review the diff and returns its
// answer verbatim.
func (c *Client) ValidateContext(ctx context.Context, ex Exchange) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:    c.ContextModel,
		Messages: ex,
	}
	resp, err := c.send(ctx, req)
	if err != nil {
		return "", fmt.Errorf("context validation request: %w", err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", ErrContextValidation
	}
	return resp.Choices[0].Message.Content, nil
}

// GenerateCommit continues ex with the context answer and the commit prompt,
// forces the "commit" function and decodes its arguments.
func (c *Client) GenerateCommit(ctx context.Context, ex Exchange, contextText string, cfg prompt.CommitConfig) (commit.Args, error) {
	fn := CommitFunction(cfg.ForceBody)
	req := openai.ChatCompletionRequest{
		Model:       c.CommitModel,
		Temperature: CommitTemperature,
		Messages: ex.
			With(openai.ChatMessageRoleSystem, contextText).
			With(openai.ChatMessageRoleUser, prompt.CommitPrompt(cfg)),
		Tools: []openai.Tool{{Type: openai.ToolTypeFunction, Function: &fn}},
		ToolChoice: openai.ToolChoice{
			Type:     openai.ToolTypeFunction,
			Function: openai.ToolFunction{Name: CommitFunctionName},
		},
	}
	resp, err := c.send(ctx, req)
	if err != nil {
		return commit.Args{}, fmt.Errorf("commit request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return commit.Args{}, ErrNoFunctionCall
	}

	msg := resp.Choices[0].Message
	if raw, err := json.Marshal(msg); err == nil {
		debug.Printf("completion: %s\n", raw)
	}

	arguments, ok := FunctionArguments(msg)
	if !ok {
		return commit.Args{}, ErrNoFunctionCall
	}
	return commit.ParseArgs(arguments)
}

// FunctionArguments returns the raw arguments of the "commit" call in msg,
// looking at tool calls first and the legacy function_call field second.
func FunctionArguments(msg openai.ChatCompletionMessage) (string, bool) {
	for _, call := range msg.ToolCalls {
		if call.Function.Name == CommitFunctionName {
			return call.Function.Arguments, true
		}
	}
	if msg.FunctionCall != nil && msg.FunctionCall.Name == CommitFunctionName {
		return msg.FunctionCall.Arguments, true
	}
	return "", false
}

func (c *Client) send(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	debug.Printf("[DEBUG] Request URL: %s\n", c.BaseURL)
	debug.Printf("[DEBUG] Request Model: %s\n", req.Model)
	debug.Printf("[DEBUG] Request Messages: %d\n", len(req.Messages))

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return openai.ChatCompletionResponse{}, err
	}
	debug.Printf("[DEBUG] Response Choices: %d\n", len(resp.Choices))
	return resp, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
