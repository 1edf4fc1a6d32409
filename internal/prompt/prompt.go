package prompt

import "fmt"

// CommitType is the conventional-commit type requested on the command line.
type CommitType string

const (
	Feat     CommitType = "feat"
	Fix      CommitType = "fix"
	Docs     CommitType = "docs"
	Style    CommitType = "style"
	Refactor CommitType = "refactor"
	Test     CommitType = "test"
	Chore    CommitType = "chore"
)

var types = []CommitType{Feat, Fix, Docs, Style, Refactor, Test, Chore}

// Types returns the known commit types in display order.
func Types() []CommitType {
	out := make([]CommitType, len(types))
	copy(out, types)
	return out
}

// ParseType converts s into a CommitType. The returned type is always s
// verbatim; ok reports whether it is one of the known types.
func ParseType(s string) (CommitType, bool) {
	for _, t := range types {
		if string(t) == s {
			return t, true
		}
	}
	return CommitType(s), false
}

// CommitConfig parameterizes every prompt of a run.
type CommitConfig struct {
	Type      CommitType
	ForceBody bool
}

// Ready is the acknowledgment the assistant is expected to give after the diff.
const Ready = "ready"

// SystemMessage sets up the assistant and announces the two-step protocol.
func SystemMessage(cfg CommitConfig) string {
	return fmt.Sprintf(`
You are commit-assistant. You create commit messages from diffs.
You will be provided with a diff, and you will need to create a commit message.
the commit is of type: %s
The diff will be provided in the first prompt. you will reply "ready".
On the second user prompt, you will be asked to check the context of the diff.
Then, you will be asked to create a commit, by calling the function "commit".
`, cfg.Type)
}

// ContextVerification asks the assistant to explain every change before
// it writes anything.
func ContextVerification(cfg CommitConfig) string {
	return contextVerification
}

const contextVerification = `
The first step would be to the context of each change.
Review the diff. Ensure that for each change in code, the related function or class definition is included.
Ignore style changes and whitespace changes.
Ignore semantically unimportant changes.
For each change, try to answer the following questions:
- Is the change in code, configuration, or documentation?
- If it's in the code, Is the change in a function or class?
- What is the signature of the function or class?
- What is the purpose of this change?
- What is the scope of this change?
- What is the impact of this change?
- What is the motivation for this change?
Then answer the following questions, about the whole diff:
- Is this a single change, or multiple changes?
- Can it be summarized in a single line message, Or is message body needed?
`

const (
	bodyRequired = "required."
	bodyOptional = "optional. Add body if you answered that body is needed in previous prompt."
)

// CommitPrompt describes the message template and asks for a "commit" call.
func CommitPrompt(cfg CommitConfig) string {
	body := bodyOptional
	if cfg.ForceBody {
		body = bodyRequired
	}
	return fmt.Sprintf(`
The second step would be to create a commit message.
Commit message template:
<type>(<scope>): <subject>
<BLANK LINE>
<body>

Where:
type: %s
scope: can be empty (eg. if the change is a global or difficult to assign to a single component)
subject: start with verb (such as 'change'), 50-character line
body: %s, 72-character wrapped. use '-' for bullet points
Call the "commit" function with the "type", "scope", "subject" and "body" parameters.
`, cfg.Type, body)
}
