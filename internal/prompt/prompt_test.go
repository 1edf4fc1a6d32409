package prompt

import (
	"strings"
	"testing"
)

func allConfigs() []CommitConfig {
	var cfgs []CommitConfig
	for _, t := range Types() {
		cfgs = append(cfgs, CommitConfig{Type: t}, CommitConfig{Type: t, ForceBody: true})
	}
	return cfgs
}

func TestBuildersArePure(t *testing.T) {
	builders := map[string]func(CommitConfig) string{
		"system":  SystemMessage,
		"context": ContextVerification,
		"commit":  CommitPrompt,
	}
	for name, build := range builders {
		for _, cfg := range allConfigs() {
			if a, b := build(cfg), build(cfg); a != b {
				t.Errorf("%s(%+v) is not deterministic", name, cfg)
			}
		}
	}
}

func TestTypeAppearsVerbatim(t *testing.T) {
	for _, cfg := range allConfigs() {
		if !strings.Contains(SystemMessage(cfg), "the commit is of type: "+string(cfg.Type)+"\n") {
			t.Errorf("system message missing type %q", cfg.Type)
		}
		if !strings.Contains(CommitPrompt(cfg), "type: "+string(cfg.Type)+"\n") {
			t.Errorf("commit prompt missing type %q", cfg.Type)
		}
	}
}

func TestCommitPromptBody(t *testing.T) {
	forced := CommitPrompt(CommitConfig{Type: Fix, ForceBody: true})
	if !strings.Contains(forced, "body: required., 72-character wrapped. use '-' for bullet points") {
		t.Errorf("forced body prompt:\n%s", forced)
	}
	optional := CommitPrompt(CommitConfig{Type: Fix})
	if !strings.Contains(optional, "body: optional. Add body if you answered that body is needed in previous prompt., 72-character wrapped.") {
		t.Errorf("optional body prompt:\n%s", optional)
	}
	for _, want := range []string{
		"<type>(<scope>): <subject>\n<BLANK LINE>\n<body>\n",
		"scope: can be empty",
		"subject: start with verb (such as 'change'), 50-character line",
		`Call the "commit" function with the "type", "scope", "subject" and "body" parameters.`,
	} {
		if !strings.Contains(optional, want) {
			t.Errorf("commit prompt missing %q", want)
		}
	}
}

func TestSystemMessageProtocol(t *testing.T) {
	msg := SystemMessage(CommitConfig{Type: Docs})
	for _, want := range []string{`you will reply "ready"`, `calling the function "commit"`} {
		if !strings.Contains(msg, want) {
			t.Errorf("system message missing %q", want)
		}
	}
}

func TestContextVerificationQuestions(t *testing.T) {
	msg := ContextVerification(CommitConfig{Type: Feat})
	for _, want := range []string{
		"code, configuration, or documentation",
		"What is the signature of the function or class?",
		"What is the purpose of this change?",
		"What is the scope of this change?",
		"What is the impact of this change?",
		"What is the motivation for this change?",
		"Is this a single change, or multiple changes?",
		"Or is message body needed?",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("context verification missing %q", want)
		}
	}
}

func TestParseType(t *testing.T) {
	for _, known := range Types() {
		got, ok := ParseType(string(known))
		if !ok || got != known {
			t.Errorf("ParseType(%q) = %q, %v", known, got, ok)
		}
	}
	got, ok := ParseType("perf")
	if ok {
		t.Error("perf should not be a known type")
	}
	if got != "perf" {
		t.Errorf("unknown types pass through verbatim, got %q", got)
	}
}
