package source

import (
	"bytes"
	"errors"
	"io"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/reoring/nature"
)

// CodeDuplicateKey marks an object key that appears more than once.
const CodeDuplicateKey = "duplicate_key"

type containerKind int

const (
	kindObject containerKind = iota
	kindArray
)

type dupFrame struct {
	kind         containerKind
	keys         map[string]struct{}
	expectingKey bool
	seg          string // segment of this container in its parent
	next         int    // next array index
}

// duplicateKeys scans a JSON document and reports every repeated object key
// with its JSON Pointer. A syntax error is returned as is.
func duplicateKeys(data []byte) (nature.Issues, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var issues nature.Issues
	var stack []*dupFrame
	var pending string // segment for the value about to start

	// valueDone records that a complete value was read in the top container.
	valueDone := func() {
		if len(stack) == 0 {
			return
		}
		top := stack[len(stack)-1]
		if top.kind == kindObject {
			top.expectingKey = true
		} else {
			top.next++
		}
	}
	segFor := func() string {
		if len(stack) == 0 {
			return ""
		}
		top := stack[len(stack)-1]
		if top.kind == kindArray {
			return strconv.Itoa(top.next)
		}
		return pending
	}

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return issues, err
		}
		switch v := tok.(type) {
		case json.Delim:
			switch v {
			case '{':
				stack = append(stack, &dupFrame{kind: kindObject, keys: map[string]struct{}{}, expectingKey: true, seg: segFor()})
			case '[':
				stack = append(stack, &dupFrame{kind: kindArray, seg: segFor()})
			case '}', ']':
				if len(stack) > 0 {
					stack = stack[:len(stack)-1]
				}
				valueDone()
			}
		case string:
			if n := len(stack); n > 0 && stack[n-1].kind == kindObject && stack[n-1].expectingKey {
				top := stack[n-1]
				if _, dup := top.keys[v]; dup {
					issues = nature.AppendIssues(issues, nature.Issue{
						Path:    pointer(stack, v),
						Code:    CodeDuplicateKey,
						Message: "key '" + v + "' duplicated",
					})
				}
				top.keys[v] = struct{}{}
				top.expectingKey = false
				pending = v
				continue
			}
			valueDone()
		default:
			valueDone()
		}
	}
	return issues, nil
}

func pointer(stack []*dupFrame, key string) string {
	var b strings.Builder
	for _, f := range stack[1:] {
		b.WriteString("/" + escapePointer(f.seg))
	}
	b.WriteString("/" + escapePointer(key))
	return b.String()
}

func escapePointer(s string) string {
	return strings.NewReplacer("~", "~0", "/", "~1").Replace(s)
}
