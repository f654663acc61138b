package source

import (
	"bytes"
	"context"
	"fmt"
	"io"

	json "github.com/goccy/go-json"
)

type jsonSource struct {
	r       io.Reader
	lenient bool
}

// JSONOption configures a JSON source.
type JSONOption func(*jsonSource)

// AllowDuplicateKeys accepts repeated object keys; the last one wins.
func AllowDuplicateKeys() JSONOption {
	return func(j *jsonSource) { j.lenient = true }
}

// JSON reads a single JSON object from r. Numbers are decoded as float64.
// Repeated object keys are rejected with CodeDuplicateKey issues unless
// AllowDuplicateKeys is given.
func JSON(r io.Reader, opts ...JSONOption) Source {
	j := jsonSource{r: r}
	for _, opt := range opts {
		opt(&j)
	}
	return j
}

// JSONBytes is JSON over an in-memory document.
func JSONBytes(b []byte, opts ...JSONOption) Source { return JSON(bytes.NewReader(b), opts...) }

func (jsonSource) Name() string { return "json" }

func (j jsonSource) Values(context.Context) (map[string]any, error) {
	data, err := io.ReadAll(j.r)
	if err != nil {
		return nil, err
	}
	if !j.lenient {
		iss, err := duplicateKeys(data)
		if err != nil {
			return nil, err
		}
		if len(iss) > 0 {
			return nil, iss
		}
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	obj, ok := doc.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("top-level value must be an object, got %T", doc)
	}
	return normalizeNumbers(obj).(map[string]any), nil
}

func normalizeNumbers(v any) any {
	switch t := v.(type) {
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case map[string]any:
		for k, e := range t {
			t[k] = normalizeNumbers(e)
		}
		return t
	case []any:
		for i, e := range t {
			t[i] = normalizeNumbers(e)
		}
		return t
	default:
		return v
	}
}
