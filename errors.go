package nature

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	// Field validation failures
	CodeInvalidType    = "invalid_type"
	CodeRequired       = "required"
	CodeInvalidValue   = "invalid_value"
	CodeValueTestPanic = "value_test_panic"
	CodeCustom         = "custom" // added by a value test through Helper.AddValidationMessage
	// Structural (schema bookkeeping) errors
	CodeMissingName       = "missing_name"
	CodeAliasConflict     = "alias_conflict"
	CodeUnknownField      = "unknown_field"
	CodeInvalidDefinition = "invalid_definition"
)

// Issue represents a single failure entry. Path is the owning field name, or
// empty for schema-level problems.
type Issue struct {
	Path    string
	Code    string // One of the codes listed above.
	Message string
	Cause   error // Error returned by a Check, or the error a value test panicked with.
	// Params carries structured parameters (e.g., {"expected":"number"}).
	Params map[string]any
}

// Issues is a collection of failures that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		if it.Path != "" {
			fmt.Fprintf(b, "%s at %s: %s", it.Code, it.Path, it.Message)
		} else {
			fmt.Fprintf(b, "%s: %s", it.Code, it.Message)
		}
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Messages returns the message text of every issue in order.
func (iss Issues) Messages() []string {
	out := make([]string, 0, len(iss))
	for _, it := range iss {
		out = append(out, it.Message)
	}
	return out
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// StructuralError is a schema bookkeeping failure: a missing field name, a
// duplicate alias, an assignment to an undefined name.
type StructuralError struct {
	Code    string
	Name    string // the offending field name or alias, when there is one
	Message string
}

func (e *StructuralError) Error() string {
	return "nature: " + e.Message
}

// Issue converts the error into the shared Issue model.
func (e *StructuralError) Issue() Issue {
	return Issue{Path: e.Name, Code: e.Code, Message: e.Message}
}

func structural(code, name, format string, args ...any) *StructuralError {
	return &StructuralError{Code: code, Name: name, Message: fmt.Sprintf(format, args...)}
}

// ValidationFailure is returned by mutating operations when the OnInvalid
// policy is InvalidRaise and a field ends up invalid.
type ValidationFailure struct {
	Field  string
	Issues Issues
}

func (e *ValidationFailure) Error() string {
	return fmt.Sprintf("nature: invalid value for %q: %s", e.Field, strings.Join(e.Issues.Messages(), "; "))
}

// IsStructural reports whether err carries a StructuralError.
func IsStructural(err error) bool {
	var se *StructuralError
	return errors.As(err, &se)
}

// IsValidationFailure reports whether err carries a ValidationFailure.
func IsValidationFailure(err error) bool {
	var vf *ValidationFailure
	return errors.As(err, &vf)
}

// AsIssues flattens err into Issues. It understands Issues, StructuralError,
// ValidationFailure, wrapped errors and errors.Join chains.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var out Issues
	collectIssues(err, &out)
	if len(out) == 0 {
		return nil, false
	}
	return out, true
}

func collectIssues(err error, out *Issues) {
	switch e := err.(type) {
	case Issues:
		*out = AppendIssues(*out, e...)
	case *StructuralError:
		*out = AppendIssues(*out, e.Issue())
	case *ValidationFailure:
		*out = AppendIssues(*out, e.Issues...)
	case interface{ Unwrap() []error }:
		for _, inner := range e.Unwrap() {
			collectIssues(inner, out)
		}
	default:
		if inner := errors.Unwrap(err); inner != nil {
			collectIssues(inner, out)
		}
	}
}
