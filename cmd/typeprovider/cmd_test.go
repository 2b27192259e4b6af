package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const userSchema = `
type: object
properties:
  name: {type: string, minLength: 1}
  age: {type: integer}
  email: {type: string, format: email}
required: [name, age]
`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func workdir(t *testing.T, files map[string]string) {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
}

func TestCheck_ValidAndInvalid(t *testing.T) {
	workdir(t, map[string]string{
		"user.yaml": userSchema,
		"ok.json":   `{"name":"ann","age":3}`,
		"bad.json":  `{"name":"","email":"nope"}`,
	})

	out, err := run(t, "check", "--schema", "user.yaml", "ok.json", "bad.json")
	require.ErrorIs(t, err, errInvalid)
	assert.Contains(t, out, "ok   ok.json")
	assert.Contains(t, out, "FAIL bad.json")
	assert.Contains(t, out, "body/age ")
	assert.Contains(t, out, "body/email ")
}

func TestCheck_QuerystringCoercionAndJSONOutput(t *testing.T) {
	workdir(t, map[string]string{
		"query.json": `{"type":"object","properties":{"page":{"type":"integer"},"tags":{"type":"array","items":{"type":"string"}}}}`,
		"q.yaml":     "page: \"2\"\ntags: go\n",
	})

	out, err := run(t, "check", "-o", "json", "--part", "query", "--schema", "query.json", "q.yaml")
	require.NoError(t, err)
	var results []checkResult
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	assert.True(t, results[0].Valid)
	assert.Equal(t, map[string]any{"page": float64(2), "tags": []any{"go"}}, results[0].Value)
}

func TestCheck_DuplicateKeys(t *testing.T) {
	workdir(t, map[string]string{
		"user.yaml": userSchema,
		"dup.json":  `{"name":"a","name":"b","age":1}`,
	})

	_, err := run(t, "check", "--schema", "user.yaml", "dup.json")
	require.NoError(t, err, "last occurrence wins by default")

	out, err := run(t, "check", "--reject-duplicate-keys", "--schema", "user.yaml", "dup.json")
	require.ErrorIs(t, err, errInvalid)
	assert.Contains(t, out, "body/name ")
}

func TestLint(t *testing.T) {
	workdir(t, map[string]string{
		"good.yaml": userSchema,
		"ext.json":  `{"type":"string","x-note":"fine"}`,
		"kind.json": `{"type":"object","kind":"Object"}`,
	})

	out, err := run(t, "lint", "good.yaml", "ext.json", "kind.json")
	require.ErrorIs(t, err, errLint)
	assert.Contains(t, out, "ok   good.yaml")
	assert.Contains(t, out, "ok   ext.json")
	assert.Contains(t, out, "FAIL kind.json")

	_, err = run(t, "lint", "--strict=false", "kind.json")
	require.NoError(t, err)
}

func TestLint_ConfigFileDisablesStrict(t *testing.T) {
	workdir(t, map[string]string{
		".typeprovider.yaml": "strict: false\n",
		"kind.json":          `{"type":"object","kind":"Object"}`,
	})
	_, err := run(t, "lint", "kind.json")
	require.NoError(t, err)
}

func TestFormats(t *testing.T) {
	workdir(t, map[string]string{
		".typeprovider.yaml": "formats:\n  patterns:\n    sku: \"[A-Z]{3}\"\n",
	})
	out, err := run(t, "formats", "-o", "json")
	require.NoError(t, err)
	var names []string
	require.NoError(t, json.Unmarshal([]byte(out), &names))
	assert.Contains(t, names, "email")
	assert.Contains(t, names, "sku")
}

func TestRoot_BadOutput(t *testing.T) {
	workdir(t, nil)
	_, err := run(t, "formats", "-o", "xml")
	assert.ErrorContains(t, err, "output must be")
}
