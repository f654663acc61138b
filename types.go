package nature

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/reoring/nature/internal/kind"
)

// TypeKind enumerates the declared type of a Field.
type TypeKind int

const (
	TypeAny        TypeKind = iota // No declared type; every value passes the type check.
	TypeString                     // Primitive tag: string kinds.
	TypeNumber                     // Primitive tag: numeric kinds; strings are coerced.
	TypeBoolean                    // Primitive tag: bool.
	TypeFunction                   // Primitive tag: func values.
	TypeObject                     // Primitive tag: maps, structs, pointers and collections.
	TypeInstance                   // A concrete Go type the value must be assignable to.
	TypeCollection                 // Slices and arrays; scalars are split on ",".
	TypePattern                    // *regexp.Regexp; strings are compiled.
)

var typeKindNames = [...]string{
	TypeAny:        "any",
	TypeString:     "string",
	TypeNumber:     "number",
	TypeBoolean:    "boolean",
	TypeFunction:   "function",
	TypeObject:     "object",
	TypeInstance:   "instance",
	TypeCollection: "collection",
	TypePattern:    "pattern",
}

func (k TypeKind) String() string {
	if k < 0 || int(k) >= len(typeKindNames) {
		return fmt.Sprintf("TypeKind(%d)", int(k))
	}
	return typeKindNames[k]
}

// Type is the declared type of a Field. Instance is only meaningful for
// TypeInstance.
type Type struct {
	Kind     TypeKind
	Instance reflect.Type
}

// Declared types. Use InstanceOf for constructor-style references.
var (
	AnyType        = Type{Kind: TypeAny}
	StringType     = Type{Kind: TypeString}
	NumberType     = Type{Kind: TypeNumber}
	BooleanType    = Type{Kind: TypeBoolean}
	FunctionType   = Type{Kind: TypeFunction}
	ObjectType     = Type{Kind: TypeObject}
	CollectionType = Type{Kind: TypeCollection}
	PatternType    = Type{Kind: TypePattern}
)

// InstanceOf returns a Type whose values must be assignable to T. For
// interface types this means implementing T.
func InstanceOf[T any]() Type {
	return InstanceOfType(reflect.TypeOf((*T)(nil)).Elem())
}

// InstanceOfType is the non-generic form of InstanceOf.
func InstanceOfType(t reflect.Type) Type {
	return Type{Kind: TypeInstance, Instance: t}
}

func (t Type) String() string {
	if t.Kind == TypeInstance && t.Instance != nil {
		return t.Instance.String()
	}
	return t.Kind.String()
}

// ParseType maps a declarative type name to a Type. Accepted names are
// string, number, boolean|bool, function|func, object, collection|array,
// pattern|regexp and any (or empty).
func ParseType(name string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "any":
		return AnyType, nil
	case "string":
		return StringType, nil
	case "number":
		return NumberType, nil
	case "boolean", "bool":
		return BooleanType, nil
	case "function", "func":
		return FunctionType, nil
	case "object":
		return ObjectType, nil
	case "collection", "array":
		return CollectionType, nil
	case "pattern", "regexp":
		return PatternType, nil
	default:
		return AnyType, fmt.Errorf("unknown type %q", name)
	}
}

// Check reports whether v satisfies the declared type. A nil (absent) value
// always passes.
func (t Type) Check(v any) bool {
	if v == nil {
		return true
	}
	switch t.Kind {
	case TypeString:
		return reflect.ValueOf(v).Kind() == reflect.String
	case TypeNumber:
		return kind.IsNumeric(v)
	case TypeBoolean:
		return reflect.ValueOf(v).Kind() == reflect.Bool
	case TypeFunction:
		return reflect.ValueOf(v).Kind() == reflect.Func
	case TypeObject:
		return kind.IsObject(v) || kind.IsCollection(v)
	case TypeInstance:
		if t.Instance == nil {
			return true
		}
		return reflect.TypeOf(v).AssignableTo(t.Instance)
	case TypeCollection:
		return kind.IsCollection(v)
	case TypePattern:
		re, ok := v.(*regexp.Regexp)
		return ok && re != nil
	default:
		return true
	}
}

// Coerce returns v converted the way Field.SetValue converts it for this type:
// numeric strings to float64, scalars to collections, strings to patterns.
// Values that cannot be converted are returned unchanged.
func (t Type) Coerce(v any) any { return t.coerce(v) }

func (t Type) coerce(v any) any {
	switch t.Kind {
	case TypeNumber:
		if f, ok := kind.ParseNumber(v); ok {
			return f
		}
	case TypeCollection:
		if kind.Truthy(v) && !kind.IsCollection(v) {
			if kind.IsObject(v) {
				return []any{v}
			}
			return kind.SplitList(v)
		}
	case TypePattern:
		if s, ok := v.(string); ok {
			if re, err := regexp.Compile(s); err == nil {
				return re
			}
		}
	}
	return v
}

// OnInvalid selects what happens when a Field becomes invalid.
type OnInvalid int

const (
	InvalidRecord OnInvalid = iota // Record the failure in messages; never return it.
	InvalidRaise                   // Return a *ValidationFailure from the mutating call.
)
