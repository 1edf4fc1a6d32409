package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"

	"commitaid/internal/commit"
	"commitaid/internal/prompt"

	"github.com/sashabaranov/go-openai"
)

// fakeAPI answers chat completions: requests without tools get contextText,
// requests with tools get a "commit" tool call carrying arguments.
type fakeAPI struct {
	t           *testing.T
	contextText string
	arguments   string
	noToolCall  bool
	requests    []map[string]any
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		f.t.Errorf("read request: %v", err)
	}
	if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
		f.t.Errorf("Authorization header = %q", got)
	}
	var req map[string]any
	if err := json.Unmarshal(body, &req); err != nil {
		f.t.Errorf("decode request: %v", err)
	}
	f.requests = append(f.requests, req)

	msg := map[string]any{"role": "assistant", "content": f.contextText}
	if _, ok := req["tools"]; ok {
		msg = map[string]any{"role": "assistant", "content": ""}
		if !f.noToolCall {
			msg["tool_calls"] = []map[string]any{{
				"id":   "call_1",
				"type": "function",
				"function": map[string]any{
					"name":      CommitFunctionName,
					"arguments": f.arguments,
				},
			}}
		}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"choices": []map[string]any{{"index": 0, "message": msg, "finish_reason": "stop"}},
	})
}

func newTestClient(t *testing.T, api http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)
	c, err := New(ProviderOpenAI, "test-key", Options{BaseURL: srv.URL, HTTPClient: srv.Client()})
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestNew(t *testing.T) {
	if _, err := New("nope", "key", Options{}); err == nil {
		t.Error("expected error for unknown provider")
	}
	if _, err := New(ProviderOpenAI, "  ", Options{}); err == nil {
		t.Error("expected error for blank API key")
	}

	c, err := New(ProviderGroq, "key", Options{CommitModel: "custom"})
	if err != nil {
		t.Fatal(err)
	}
	if c.BaseURL != GroqBaseURL || c.ContextModel != DefaultGroqContextModel || c.CommitModel != "custom" {
		t.Errorf("unexpected client %+v", c)
	}
}

func TestNewExchange(t *testing.T) {
	cfg := prompt.CommitConfig{Type: prompt.Fix}
	ex := NewExchange(cfg, "diff --git a/x b/x")

	wantRoles := []string{"system", "user", "system", "user"}
	wantContent := []string{prompt.SystemMessage(cfg), "diff --git a/x b/x", "ready", prompt.ContextVerification(cfg)}
	if len(ex) != len(wantRoles) {
		t.Fatalf("got %d messages", len(ex))
	}
	for i := range ex {
		if ex[i].Role != wantRoles[i] || ex[i].Content != wantContent[i] {
			t.Errorf("message %d = %s %q", i, ex[i].Role, ex[i].Content)
		}
	}
}

func TestExchangeWithDoesNotAlias(t *testing.T) {
	base := make(Exchange, 1, 8)
	base[0] = openai.ChatCompletionMessage{Role: "system", Content: "root"}

	a := base.With("user", "a")
	b := base.With("user", "b")
	if len(base) != 1 {
		t.Fatalf("receiver grew to %d", len(base))
	}
	if a[1].Content != "a" || b[1].Content != "b" {
		t.Fatalf("extensions share storage: %q %q", a[1].Content, b[1].Content)
	}
}

func TestCommitFunctionRequired(t *testing.T) {
	tests := []struct {
		forceBody bool
		want      []string
	}{
		{false, []string{"subject", "type"}},
		{true, []string{"body", "subject", "type"}},
	}
	for _, tt := range tests {
		fn := CommitFunction(tt.forceBody)
		if fn.Name != "commit" {
			t.Errorf("name = %q", fn.Name)
		}
		raw, err := json.Marshal(fn.Parameters)
		if err != nil {
			t.Fatal(err)
		}
		var schema struct {
			Properties map[string]struct{ Type string } `json:"properties"`
			Required   []string                        `json:"required"`
		}
		if err := json.Unmarshal(raw, &schema); err != nil {
			t.Fatal(err)
		}
		for _, field := range []string{"type", "scope", "subject", "body"} {
			if schema.Properties[field].Type != "string" {
				t.Errorf("property %q has type %q", field, schema.Properties[field].Type)
			}
		}
		sort.Strings(schema.Required)
		if strings.Join(schema.Required, ",") != strings.Join(tt.want, ",") {
			t.Errorf("forceBody=%v required = %v, want %v", tt.forceBody, schema.Required, tt.want)
		}
	}
}

func TestTwoStepExchange(t *testing.T) {
	api := &fakeAPI{
		t:           t,
		contextText: "single function signature changed, no body needed",
		arguments:   `{"type":"fix","scope":"parser","subject":"handle empty input","body":""}`,
	}
	c := newTestClient(t, api)
	cfg := prompt.CommitConfig{Type: prompt.Fix}
	ex := NewExchange(cfg, "diff --git a/p.go b/p.go\n@@ -1 +1 @@\n")

	contextText, err := c.ValidateContext(context.Background(), ex)
	if err != nil {
		t.Fatal(err)
	}
	if contextText != api.contextText {
		t.Fatalf("context text = %q", contextText)
	}

	args, err := c.GenerateCommit(context.Background(), ex, contextText, cfg)
	if err != nil {
		t.Fatal(err)
	}
	want := commit.Args{Type: "fix", Scope: "parser", Subject: "handle empty input"}
	if args != want {
		t.Fatalf("args = %+v, want %+v", args, want)
	}
	if got := commit.Format(args); got != "\nfix(parser): handle empty input\n\n\n" {
		t.Fatalf("formatted = %q", got)
	}

	if len(api.requests) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(api.requests))
	}
	first, second := api.requests[0], api.requests[1]
	if first["model"] != DefaultOpenAIContextModel || second["model"] != DefaultOpenAICommitModel {
		t.Errorf("models = %v, %v", first["model"], second["model"])
	}
	if _, ok := first["temperature"]; ok {
		t.Error("context call should use the default temperature")
	}
	if temp, _ := second["temperature"].(float64); temp < 0.09 || temp > 0.11 {
		t.Errorf("commit temperature = %v", second["temperature"])
	}

	msgs := second["messages"].([]any)
	if len(msgs) != 6 {
		t.Fatalf("commit call has %d messages", len(msgs))
	}
	fifth := msgs[4].(map[string]any)
	if fifth["role"] != "system" || fifth["content"] != api.contextText {
		t.Errorf("context answer not replayed as system turn: %v", fifth)
	}
	sixth := msgs[5].(map[string]any)
	if sixth["role"] != "user" || sixth["content"] != prompt.CommitPrompt(cfg) {
		t.Errorf("commit prompt missing: %v", sixth)
	}
}

func requiredFields(t *testing.T, req map[string]any) []string {
	t.Helper()
	tools := req["tools"].([]any)
	if len(tools) != 1 {
		t.Fatalf("expected one tool, got %d", len(tools))
	}
	fn := tools[0].(map[string]any)["function"].(map[string]any)
	if fn["name"] != "commit" {
		t.Fatalf("tool name = %v", fn["name"])
	}
	var out []string
	for _, r := range fn["parameters"].(map[string]any)["required"].([]any) {
		out = append(out, r.(string))
	}
	sort.Strings(out)
	return out
}

func TestCommitRequestRequiredFields(t *testing.T) {
	for _, forceBody := range []bool{false, true} {
		api := &fakeAPI{t: t, arguments: `{"type":"feat","subject":"s","body":"b"}`}
		c := newTestClient(t, api)
		cfg := prompt.CommitConfig{Type: prompt.Feat, ForceBody: forceBody}

		if _, err := c.GenerateCommit(context.Background(), NewExchange(cfg, "diff"), "ctx", cfg); err != nil {
			t.Fatal(err)
		}
		got := strings.Join(requiredFields(t, api.requests[0]), ",")
		want := "subject,type"
		if forceBody {
			want = "body,subject,type"
		}
		if got != want {
			t.Errorf("forceBody=%v required = %s, want %s", forceBody, got, want)
		}
	}
}

func TestValidateContextEmpty(t *testing.T) {
	c := newTestClient(t, &fakeAPI{t: t, contextText: "   "})
	_, err := c.ValidateContext(context.Background(), NewExchange(prompt.CommitConfig{Type: prompt.Fix}, "diff"))
	if !errors.Is(err, ErrContextValidation) {
		t.Fatalf("expected ErrContextValidation, got %v", err)
	}
}

func TestGenerateCommitFailures(t *testing.T) {
	cfg := prompt.CommitConfig{Type: prompt.Fix}

	t.Run("malformed arguments", func(t *testing.T) {
		c := newTestClient(t, &fakeAPI{t: t, arguments: `{"type":"fix",`})
		_, err := c.GenerateCommit(context.Background(), NewExchange(cfg, "diff"), "ctx", cfg)
		if !errors.Is(err, commit.ErrMalformedArgs) {
			t.Fatalf("expected ErrMalformedArgs, got %v", err)
		}
		if errors.Is(err, ErrNoFunctionCall) {
			t.Fatal("malformed arguments reported as missing call")
		}
	})

	t.Run("missing function call", func(t *testing.T) {
		c := newTestClient(t, &fakeAPI{t: t, noToolCall: true})
		_, err := c.GenerateCommit(context.Background(), NewExchange(cfg, "diff"), "ctx", cfg)
		if !errors.Is(err, ErrNoFunctionCall) {
			t.Fatalf("expected ErrNoFunctionCall, got %v", err)
		}
		if errors.Is(err, commit.ErrMalformedArgs) {
			t.Fatal("missing call reported as malformed arguments")
		}
	})

	t.Run("service error", func(t *testing.T) {
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"error":{"message":"bad key","type":"invalid_request_error"}}`)
		}))
		_, err := c.GenerateCommit(context.Background(), NewExchange(cfg, "diff"), "ctx", cfg)
		if err == nil || !strings.Contains(err.Error(), "commit request") {
			t.Fatalf("expected wrapped request error, got %v", err)
		}
	})
}

func TestFunctionArgumentsLegacyField(t *testing.T) {
	msg := openai.ChatCompletionMessage{
		Role:         "assistant",
		FunctionCall: &openai.FunctionCall{Name: "commit", Arguments: `{"type":"docs"}`},
	}
	raw, ok := FunctionArguments(msg)
	if !ok || raw != `{"type":"docs"}` {
		t.Fatalf("got %q, %v", raw, ok)
	}

	other := openai.ChatCompletionMessage{
		ToolCalls: []openai.ToolCall{{Type: openai.ToolTypeFunction, Function: openai.FunctionCall{Name: "other"}}},
	}
	if _, ok := FunctionArguments(other); ok {
		t.Fatal("calls to other functions must be ignored")
	}
}
