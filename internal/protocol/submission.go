package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"tissue/internal/form"
	"tissue/internal/input"
	"tissue/internal/numeric"
)

var (
	// ErrArity reports a submission whose value count differs from the
	// number of registered inputs.
	ErrArity = errors.New("submission arity mismatch")
	// ErrMalformed reports a submitted value that is not a number.
	ErrMalformed = errors.New("malformed submission value")
)

// ValueError describes the first submitted value that failed to parse.
type ValueError struct {
	Index int
	Value string
	Err   error
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("value %d (%q): %v", e.Index, e.Value, e.Err)
}

func (e *ValueError) Unwrap() []error { return []error{ErrMalformed, e.Err} }

// Split breaks a submission into its value substrings. The empty
// submission has no values.
func Split(msg string) []string {
	if msg == "" {
		return nil
	}
	return strings.Split(msg, input.Separator)
}

// ParseSubmission parses msg into exactly arity values of type F, keeping
// index order. It stops at the first value that does not parse.
func ParseSubmission[F numeric.Float](msg string, arity int) ([]F, error) {
	parts := Split(msg)
	if len(parts) != arity {
		return nil, fmt.Errorf("%w: got %d values, want %d", ErrArity, len(parts), arity)
	}

	values := make([]F, len(parts))
	for i, s := range parts {
		v, err := numeric.Parse[F](s)
		if err != nil {
			return nil, &ValueError{Index: i, Value: s, Err: err}
		}
		values[i] = v
	}
	return values, nil
}

// OutputScript returns an expression that sets the output element's value
// to text.
func OutputScript(text string) string {
	return fmt.Sprintf("document.getElementById(%s).value = %s", quote(form.OutputID), quote(text))
}

// Reported wraps expr so its outcome is passed to window.tissue.result,
// either as the evaluated value or as the thrown error.
func Reported(expr string) string {
	return "(function () { try { var r = (" + expr + "); window.tissue.result(String(r)); } " +
		"catch (e) { window.tissue.result(\"error: \" + e); } })();"
}

func quote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
