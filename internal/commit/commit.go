package commit

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrMalformedArgs is returned when the "commit" function arguments are not
// a JSON object.
var ErrMalformedArgs = errors.New("malformed commit arguments")

// Args are the arguments of the "commit" function call.
type Args struct {
	Type    string `json:"type"`
	Scope   string `json:"scope"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// ParseArgs decodes the raw JSON arguments. Field contents are not checked.
func ParseArgs(raw string) (Args, error) {
	if strings.TrimSpace(raw) == "" {
		return Args{}, fmt.Errorf("%w: empty arguments", ErrMalformedArgs)
	}
	var a Args
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		return Args{}, fmt.Errorf("%w: %w", ErrMalformedArgs, err)
	}
	return a, nil
}

// Format renders a as a conventional commit block. Length guidance given to
// the model is not enforced here.
func Format(a Args) string {
	return fmt.Sprintf("\n%s(%s): %s\n\n%s\n", a.Type, a.Scope, a.Subject, a.Body)
}

func Write(w io.Writer, a Args) error {
	_, err := io.WriteString(w, Format(a))
	return err
}

// Missing lists the required fields of a that are blank.
func Missing(a Args, forceBody bool) []string {
	var missing []string
	if strings.TrimSpace(a.Type) == "" {
		missing = append(missing, "type")
	}
	if strings.TrimSpace(a.Subject) == "" {
		missing = append(missing, "subject")
	}
	if forceBody && strings.TrimSpace(a.Body) == "" {
		missing = append(missing, "body")
	}
	return missing
}
