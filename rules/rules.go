package rules

import (
	"fmt"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/reoring/nature"
	"github.com/reoring/nature/internal/kind"
)

// Op defines simple comparison operators for If(...).Then(...)
type Op int

const (
	Eq Op = iota
	Ne
	Lt
	Le
	Gt
	Ge
)

func (o Op) String() string {
	switch o {
	case Eq:
		return "=="
	case Ne:
		return "!="
	case Lt:
		return "<"
	case Le:
		return "<="
	case Gt:
		return ">"
	case Ge:
		return ">="
	default:
		return fmt.Sprintf("Op(%d)", int(o))
	}
}

// Conditional composes conditional execution of value tests. Conditions read
// sibling fields of the Schema that owns the field under test.
type Conditional struct {
	field string
	op    Op
	want  any
	all   []Conditional // composite AND
	any   []Conditional // composite OR
}

// If builds a conditional that compares a sibling field (name or alias) against
// want. A standalone field or an absent sibling never satisfies it.
func If(field string, op Op, want any) Conditional {
	return Conditional{field: field, op: op, want: want}
}

// IfAll builds a conditional that requires all conditions to hold.
func IfAll(conds ...Conditional) Conditional { return Conditional{all: conds} }

// IfAny builds a conditional that requires any condition to hold.
func IfAny(conds ...Conditional) Conditional { return Conditional{any: conds} }

// And combines the receiver with additional conditions using logical AND.
func (c Conditional) And(others ...Conditional) Conditional {
	return IfAll(append([]Conditional{c}, others...)...)
}

// Or combines the receiver with additional conditions using logical OR.
func (c Conditional) Or(others ...Conditional) Conditional {
	return IfAny(append([]Conditional{c}, others...)...)
}

// Then returns a value test that runs tests only while the condition holds.
// Otherwise the value passes.
func (c Conditional) Then(tests ...nature.ValueTest) nature.ValueTest {
	inner := All(tests...)
	return nature.Func(func(v any, h *nature.Helper) bool {
		if !evalConditional(h.Schema(), c) {
			return true
		}
		return inner.Test(v, h)
	})
}

func evalConditional(s *nature.Schema, c Conditional) bool {
	if len(c.all) > 0 {
		for _, it := range c.all {
			if !evalConditional(s, it) {
				return false
			}
		}
		return true
	}
	if len(c.any) > 0 {
		for _, it := range c.any {
			if evalConditional(s, it) {
				return true
			}
		}
		return false
	}
	if s == nil {
		return false
	}
	cur := s.Get(c.field)
	if cur == nil {
		return false
	}
	return compare(cur, c.op, c.want)
}

// ---------- Value tests ----------

// NonEmpty fails on empty strings and empty collections or maps.
func NonEmpty() nature.ValueTest {
	return nature.Func(func(v any, h *nature.Helper) bool {
		if n, ok := length(v); ok && n == 0 {
			h.AddValidationMessage("must not be empty")
			return false
		}
		return true
	})
}

// MinLen requires at least n characters (strings) or items (collections, maps).
func MinLen(n int) nature.ValueTest {
	return nature.Func(func(v any, h *nature.Helper) bool {
		l, ok := length(v)
		if !ok || l >= n {
			return true
		}
		h.AddValidationMessage(fmt.Sprintf("must have length of at least %d", n))
		return false
	})
}

// MaxLen requires at most n characters (strings) or items (collections, maps).
func MaxLen(n int) nature.ValueTest {
	return nature.Func(func(v any, h *nature.Helper) bool {
		l, ok := length(v)
		if !ok || l <= n {
			return true
		}
		h.AddValidationMessage(fmt.Sprintf("must have length of at most %d", n))
		return false
	})
}

// AtLeastOne requires a collection with at least one element. Non-collections
// pass.
func AtLeastOne() nature.ValueTest {
	return nature.Func(func(v any, h *nature.Helper) bool {
		if kind.IsCollection(v) && reflect.ValueOf(v).Len() == 0 {
			h.AddValidationMessage("at least 1 item is required")
			return false
		}
		return true
	})
}

// Between requires a numeric value within [lo, hi].
func Between(lo, hi float64) nature.ValueTest {
	return nature.Func(func(v any, h *nature.Helper) bool {
		f, ok := kind.ParseNumber(v)
		if ok && f >= lo && f <= hi {
			return true
		}
		h.AddValidationMessage(fmt.Sprintf("must be between %s and %s", kind.Format(lo), kind.Format(hi)))
		return false
	})
}

// Compare tests the value itself with op against want.
func Compare(op Op, want any) nature.ValueTest {
	return nature.Func(func(v any, h *nature.Helper) bool {
		if compare(v, op, want) {
			return true
		}
		h.AddValidationMessage(fmt.Sprintf("must be %s %s", op, kind.Format(want)))
		return false
	})
}

// Each applies tests to every element of a collection. Non-collections are
// tested as a single element.
func Each(tests ...nature.ValueTest) nature.ValueTest {
	inner := All(tests...)
	return nature.Func(func(v any, h *nature.Helper) bool {
		if !kind.IsCollection(v) {
			return inner.Test(v, h)
		}
		rv := reflect.ValueOf(v)
		ok := true
		for i := 0; i < rv.Len(); i++ {
			sub := h.Fork()
			if !inner.Test(rv.Index(i).Interface(), sub) {
				ok = false
				for _, msg := range sub.Messages() {
					h.AddValidationMessage(fmt.Sprintf("[%d] %s", i, msg))
				}
			}
		}
		return ok
	})
}

// UniqueBy ensures elements in a collection have unique key values. keyPath is
// a slash separated path inside each element ("sku", "/meta/id"); empty means
// the element itself.
// Note: keys are compared by their printed form, so mixed-type keys such as 1
// and "1" count as duplicates.
func UniqueBy(keyPath string) nature.ValueTest {
	kp := strings.TrimPrefix(keyPath, "/")
	return nature.Func(func(v any, h *nature.Helper) bool {
		if !kind.IsCollection(v) {
			return true
		}
		rv := reflect.ValueOf(v)
		seen := map[string]int{}
		ok := true
		for i := 0; i < rv.Len(); i++ {
			kv, found := valueAtPath(rv.Index(i).Interface(), kp)
			if !found {
				continue
			}
			key := fmt.Sprint(kv)
			if j, dup := seen[key]; dup {
				ok = false
				h.AddValidationMessage(fmt.Sprintf("duplicate value %q at %d (first at %d)", key, i, j))
			} else {
				seen[key] = i
			}
		}
		return ok
	})
}

// Requires fails when the value is set but any of the named sibling fields is
// absent.
func Requires(names ...string) nature.ValueTest {
	return nature.Func(func(_ any, h *nature.Helper) bool {
		s := h.Schema()
		if s == nil {
			return true
		}
		ok := true
		for _, name := range names {
			if !s.HasValue(name) {
				ok = false
				h.AddValidationMessage(fmt.Sprintf("requires %s", name))
			}
		}
		return ok
	})
}

// ConflictsWith fails when the value is set together with any of the named
// sibling fields.
func ConflictsWith(names ...string) nature.ValueTest {
	return nature.Func(func(_ any, h *nature.Helper) bool {
		s := h.Schema()
		if s == nil {
			return true
		}
		ok := true
		for _, name := range names {
			if s.HasValue(name) {
				ok = false
				h.AddValidationMessage(fmt.Sprintf("conflicts with %s", name))
			}
		}
		return ok
	})
}

// ---------- Combinators ----------

// All runs every test and passes only when all of them pass. Messages from all
// failing tests are kept.
func All(tests ...nature.ValueTest) nature.ValueTest {
	return nature.Func(func(v any, h *nature.Helper) bool {
		ok := true
		for _, t := range tests {
			if t == nil {
				continue
			}
			if !t.Test(v, h) {
				ok = false
			}
		}
		return ok
	})
}

// Any passes if any test passes. When all fail, the messages of the branch with
// the fewest messages are kept.
func Any(tests ...nature.ValueTest) nature.ValueTest {
	return nature.Func(func(v any, h *nature.Helper) bool {
		var best []string
		bestSet := false
		for _, t := range tests {
			if t == nil {
				continue
			}
			sub := h.Fork()
			if t.Test(v, sub) {
				return true
			}
			if !bestSet || len(sub.Messages()) < len(best) {
				best = sub.Messages()
				bestSet = true
			}
		}
		for _, msg := range best {
			h.AddValidationMessage(msg)
		}
		return !bestSet
	})
}

// Not inverts a test. Messages of the inner test are discarded.
func Not(t nature.ValueTest, msg string) nature.ValueTest {
	return nature.Func(func(v any, h *nature.Helper) bool {
		if !t.Test(v, h.Fork()) {
			return true
		}
		if msg != "" {
			h.AddValidationMessage(msg)
		}
		return false
	})
}

// ------- helpers -------

func length(v any) (int, bool) {
	if s, ok := v.(string); ok {
		return utf8.RuneCountInString(s), true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len(), true
	default:
		return 0, false
	}
}

// valueAtPath navigates v (struct/map/collection) by a slash separated path.
// Struct fields match their json tag name, then their Go name.
func valueAtPath(v any, rel string) (any, bool) {
	if rel == "" {
		return v, true
	}
	cur := reflect.ValueOf(v)
	for _, seg := range strings.Split(rel, "/") {
		if cur.Kind() == reflect.Interface {
			cur = cur.Elem()
		}
		if !cur.IsValid() {
			return nil, false
		}
		if cur.Kind() == reflect.Pointer {
			if cur.IsNil() {
				return nil, false
			}
			cur = cur.Elem()
		}
		switch cur.Kind() {
		case reflect.Struct:
			i, found := structFieldIndex(cur.Type(), seg)
			if !found {
				return nil, false
			}
			cur = cur.Field(i)
		case reflect.Map:
			if cur.Type().Key().Kind() != reflect.String {
				return nil, false
			}
			mv := cur.MapIndex(reflect.ValueOf(seg).Convert(cur.Type().Key()))
			if !mv.IsValid() {
				return nil, false
			}
			cur = mv
		case reflect.Slice, reflect.Array:
			idx, ok := tryParseInt(seg)
			if !ok || idx < 0 || idx >= cur.Len() {
				return nil, false
			}
			cur = cur.Index(idx)
		default:
			return nil, false
		}
	}
	if cur.Kind() == reflect.Pointer && !cur.IsNil() {
		cur = cur.Elem()
	}
	return cur.Interface(), true
}

func structFieldIndex(rt reflect.Type, seg string) (int, bool) {
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
		if name == "" {
			name = sf.Name
		}
		if name == seg {
			return i, true
		}
	}
	return 0, false
}

func compare(cur any, op Op, want any) bool {
	switch op {
	case Eq:
		return kind.Equal(cur, want)
	case Ne:
		return !kind.Equal(cur, want)
	case Lt, Le, Gt, Ge:
		return compareOrdered(cur, op, want)
	default:
		return false
	}
}

// compareOrdered supports numbers (including numeric strings compared against a
// number) and string/string pairs.
func compareOrdered(cur any, op Op, want any) bool {
	if kind.IsNumeric(want) || kind.IsNumeric(cur) {
		a, ok1 := kind.ParseNumber(cur)
		b, ok2 := kind.ParseNumber(want)
		if !ok1 || !ok2 {
			return false
		}
		return ordered(a, op, b)
	}
	a, ok1 := cur.(string)
	b, ok2 := want.(string)
	if ok1 && ok2 {
		return ordered(a, op, b)
	}
	return false
}

func ordered[T float64 | string](a T, op Op, b T) bool {
	switch op {
	case Lt:
		return a < b
	case Le:
		return a <= b
	case Gt:
		return a > b
	case Ge:
		return a >= b
	}
	return false
}

func tryParseInt(s string) (int, bool) {
	n := 0
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	return n, true
}
