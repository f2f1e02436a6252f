package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"model-studio/internal/studio"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeSelection(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "selection.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestCompile_PrintsPrompt(t *testing.T) {
	path := writeSelection(t, "pose: close up\nlocation: [garden, blur]\n")

	out, err := execute(t, "", "compile", "-f", path)
	require.NoError(t, err)
	assert.Contains(t, out, "[POSE_LOCK]")
	assert.Contains(t, out, "Location: garden, blur")
}

func TestCompile_JSON(t *testing.T) {
	path := writeSelection(t, "pose: twirl\n")

	out, err := execute(t, "", "compile", "-f", path, "--strict", "--json")
	require.NoError(t, err)

	var got compileOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.NotEmpty(t, got.PromptUsed)
	assert.Equal(t, "STRICT", string(got.Debug.Strictness))
	assert.Equal(t, "POSE_BASED", string(got.Debug.GenerationMode))
	assert.Equal(t, []string{"pose"}, got.Debug.ChangedFields)
	assert.Equal(t, "STRICT_MODE", got.Debug.Sections[0])
	assert.Contains(t, got.Debug.Sections, "HARD_RULES")
}

func TestCompile_Stdin(t *testing.T) {
	out, err := execute(t, "pose: mirror selfie\n", "compile", "-f", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "[MIRROR_ADJUSTMENT_LOCK]")
}

func TestCompile_ModelReferenceNeedsSecondary(t *testing.T) {
	path := writeSelection(t, "generationMode: MODEL_REFERENCE_BASED\n")

	_, err := execute(t, "", "compile", "-f", path)
	require.ErrorIs(t, err, studio.ErrMissingSecondaryImage)

	out, err := execute(t, "", "compile", "-f", path, "--secondary")
	require.NoError(t, err)
	assert.Contains(t, out, "[MODEL_REFERENCE_LOCK]")
}

func TestCompile_ModeFlagOverridesFile(t *testing.T) {
	path := writeSelection(t, "generationMode: POSE_BASED\n")

	_, err := execute(t, "", "compile", "-f", path, "--mode", "model_reference_based")
	require.ErrorIs(t, err, studio.ErrMissingSecondaryImage)
}

func TestCompile_Errors(t *testing.T) {
	_, err := execute(t, "", "compile")
	require.Error(t, err)

	_, err = execute(t, "", "compile", "-f", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	path := writeSelection(t, "pose: {nested: map}\n")
	_, err = execute(t, "", "compile", "-f", path)
	require.Error(t, err)
}

func TestSchema(t *testing.T) {
	out, err := execute(t, "", "schema")
	require.NoError(t, err)

	var schema map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &schema))
	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "generationMode")
	assert.Contains(t, props, "poseNote")
	pose, ok := props["pose"].(map[string]any)
	require.True(t, ok)
	assert.Len(t, pose["oneOf"], 2)

	out, err = execute(t, "", "schema", "response")
	require.NoError(t, err)
	assert.Contains(t, out, "promptUsed")

	_, err = execute(t, "", "schema", "bogus")
	require.Error(t, err)
}
