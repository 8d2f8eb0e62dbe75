package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execValidate(t *testing.T, format string, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewValidateCommand(&RootOptions{Format: format})
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestValidateValidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.lisp")
	require.NoError(t, os.WriteFile(path, []byte("((+ (? x) 0) (: x))\n((* (? x) 1) (: x))\n"), 0o644))

	out, err := execValidate(t, "text", path)
	require.NoError(t, err)
	assert.Contains(t, out, "ok (2 rules)")
}

func TestValidateInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.lisp")
	require.NoError(t, os.WriteFile(path, []byte("((+ 1 2) (: x)) (a b c)\n"), 0o644))

	out, err := execValidate(t, "text", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "INVALID")
}

func TestValidateMissingFile(t *testing.T) {
	out, err := execValidate(t, "text", filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "NOT_FOUND")
}

func TestValidateMixedFiles(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.yaml")
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(good, []byte("rules:\n  - pattern: \"(? x)\"\n    skeleton: \"(: x)\"\n"), 0o644))
	require.NoError(t, os.WriteFile(bad, []byte("rules:\n  - pattern: \"(? x)\"\n"), 0o644))

	out, err := execValidate(t, "json", good, bad)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp Response
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status, "validation outcome is data, not a command error")

	data := resp.Data.(map[string]any)
	assert.Equal(t, false, data["valid"])
	files := data["files"].([]any)
	require.Len(t, files, 2)
	assert.Empty(t, files[0].(map[string]any)["error"])
	assert.NotEmpty(t, files[1].(map[string]any)["error"])
}
