package nature

import (
	"fmt"
	"regexp"
	"slices"

	"github.com/reoring/nature/internal/kind"
)

// ValueTest is one validator in a Field's conjunctive list of value tests.
// Test reports whether value passes; extra messages can be recorded through h.
type ValueTest interface {
	Test(value any, h *Helper) bool
}

// Helper is handed to value tests while a Field validates.
type Helper struct {
	field    *Field
	messages []string
	causes   []error // parallel to messages; nil when the message has no cause
}

// AddValidationMessage records an extra message on the field being validated.
func (h *Helper) AddValidationMessage(msg string) {
	h.AddValidationError(msg, nil)
}

// AddValidationError records msg with the error behind it. The error is kept
// as the Cause of the resulting Issue.
func (h *Helper) AddValidationError(msg string, cause error) {
	h.messages = append(h.messages, msg)
	h.causes = append(h.causes, cause)
}

// Messages returns the messages recorded so far.
func (h *Helper) Messages() []string { return h.messages }

// Fork returns an empty Helper for the same field. Composite tests use it to
// run a branch and keep or drop its messages.
func (h *Helper) Fork() *Helper { return &Helper{field: h.field} }

// Field returns the field being validated.
func (h *Helper) Field() *Field { return h.field }

// Schema returns the Schema owning the field, or nil for a standalone field.
func (h *Helper) Schema() *Schema {
	if h.field == nil {
		return nil
	}
	return h.field.owner
}

type patternTest struct{ re *regexp.Regexp }

// Pattern tests the string form of the value against re. Falsy values are
// tested as the empty string.
func Pattern(re *regexp.Regexp) ValueTest { return patternTest{re: re} }

// MustPattern compiles expr and returns a Pattern test. It panics on a bad
// expression, like regexp.MustCompile.
func MustPattern(expr string) ValueTest { return patternTest{re: regexp.MustCompile(expr)} }

func (p patternTest) Test(value any, _ *Helper) bool {
	if !kind.Truthy(value) {
		value = ""
	}
	return p.re.MatchString(kind.Format(value))
}

func (p patternTest) String() string          { return "/" + p.re.String() + "/" }
func (p patternTest) Regexp() *regexp.Regexp { return p.re }

type equalsTest struct{ want any }

// Equals compares the value with want using strict equality. Numeric kinds
// compare by value, so Equals(5) matches a coerced float64(5).
func Equals(want any) ValueTest { return equalsTest{want: want} }

func (e equalsTest) Test(value any, _ *Helper) bool { return kind.Equal(value, e.want) }
func (e equalsTest) Want() any                        { return e.want }

type oneOfTest struct{ allowed []any }

// OneOf requires the value to equal one of allowed, compared like Equals.
func OneOf(allowed ...any) ValueTest { return oneOfTest{allowed: slices.Clone(allowed)} }

func (o oneOfTest) Test(value any, h *Helper) bool {
	for _, a := range o.allowed {
		if kind.Equal(value, a) {
			return true
		}
	}
	h.AddValidationMessage(fmt.Sprintf("must be one of %v", o.allowed))
	return false
}

func (o oneOfTest) Allowed() []any { return slices.Clone(o.allowed) }

// Func adapts a predicate into a ValueTest. A panic inside the predicate is
// recovered and reported as a failed test.
type Func func(value any, h *Helper) bool

func (f Func) Test(value any, h *Helper) bool { return f(value, h) }

// Check adapts an error-returning validator: a non-nil error fails the test
// and its text becomes a validation message.
type Check func(value any) error

func (c Check) Test(value any, h *Helper) bool {
	if err := c(value); err != nil {
		h.AddValidationError(err.Error(), err)
		return false
	}
	return true
}
