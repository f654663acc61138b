package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const defsYAML = `
- name: verbose
  type: boolean
- name: colour
  alias: c
  type: string
  pattern: ["^[a-z]+$"]
- name: files
  type: collection
  defaultOption: true
- name: depth
  type: number
  default: 1
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestParse_JSON(t *testing.T) {
	defs := writeFile(t, "defs.yaml", defsYAML)
	out, _, err := run(t, "parse", "--defs", defs, "--", "--verbose", "-c", "red", "file1.txt", "file2.txt")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, map[string]any{
		"verbose": true,
		"colour":  "red",
		"files":   []any{"file1.txt", "file2.txt"},
		"depth":   1.0,
	}, got)
}

func TestParse_ArgsWithValuesAndEnv(t *testing.T) {
	defs := writeFile(t, "defs.yaml", defsYAML)
	vals := writeFile(t, "values.json", `{"depth": 4, "colour": "blue"}`)
	t.Setenv("NATURE_TEST_COLOUR", "green")

	out, _, err := run(t, "parse", "-d", defs, "-f", vals, "--env-prefix", "NATURE_TEST_", "-o", "args", "--quote")
	require.NoError(t, err)
	assert.Equal(t, "--colour \"green\" --depth \"4\"\n", out)
}

func TestValidate(t *testing.T) {
	defs := writeFile(t, "defs.yaml", defsYAML)

	out, _, err := run(t, "validate", "--defs", defs, "--", "-c", "red")
	require.NoError(t, err)
	assert.Equal(t, "valid\n", out)

	_, errOut, err := run(t, "validate", "--defs", defs, "--", "-c", "RED", "--nope")
	require.ErrorIs(t, err, errInvalid)
	assert.Contains(t, errOut, `unknown flag "--nope"`)
	assert.Contains(t, errOut, "colour:\tInvalid value: RED")
}

func TestValidate_Raise(t *testing.T) {
	defs := writeFile(t, "defs.yaml", defsYAML)
	_, _, err := run(t, "validate", "--raise", "--defs", defs, "--", "--depth", "deep")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid value for "depth"`)
}

func TestValidate_RaiseWithRequiredField(t *testing.T) {
	defs := writeFile(t, "defs.yaml", "- name: host\n  type: string\n  required: true\n")

	out, _, err := run(t, "validate", "--raise", "--defs", defs, "--", "--host", "example.org")
	require.NoError(t, err)
	assert.Equal(t, "valid\n", out)

	_, errOut, err := run(t, "validate", "--raise", "--defs", defs)
	require.ErrorIs(t, err, errInvalid)
	assert.Contains(t, errOut, "host:\tMissing required value")
}

func TestSchema(t *testing.T) {
	defs := writeFile(t, "defs.yaml", defsYAML)
	out, _, err := run(t, "schema", "--defs", defs)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	props := doc["properties"].(map[string]any)
	assert.Len(t, props, 4)
	assert.Equal(t, "^[a-z]+$", props["colour"].(map[string]any)["pattern"])
}

func TestErrors(t *testing.T) {
	_, _, err := run(t, "schema")
	assert.ErrorContains(t, err, "--defs is required")

	_, _, err = run(t, "schema", "--defs", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "read definitions")

	bad := writeFile(t, "bad.yaml", "- name: a\n  type: quaternion\n")
	_, _, err = run(t, "schema", "--defs", bad)
	assert.ErrorContains(t, err, "unknown type")

	defs := writeFile(t, "defs.yaml", defsYAML)
	_, _, err = run(t, "parse", "--defs", defs, "--log-level", "loud")
	assert.ErrorContains(t, err, "invalid --log-level")

	_, _, err = run(t, "parse", "--defs", defs, "-o", "xml")
	assert.ErrorContains(t, err, "unknown --format")
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "nature version dev\n", out)
}
