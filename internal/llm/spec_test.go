package llm

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPromptSpecMissingFile(t *testing.T) {
	spec, err := LoadPromptSpec(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, &PromptSpec{}, spec)
}

func TestLoadPromptSpecApply(t *testing.T) {
	path := filepath.Join(t.TempDir(), "assistant.yaml")
	require.NoError(t, os.WriteFile(path, []byte("model: custom-model\nstyle:\n  temperature: 0.7\n  max_tokens: 200\n"), 0o600))

	spec, err := LoadPromptSpec(path)
	require.NoError(t, err)

	opts := spec.Apply(Options{Model: "base", Temperature: 0.3, MaxTokens: 450})
	assert.Equal(t, "custom-model", opts.Model)
	assert.Equal(t, float32(0.7), opts.Temperature)
	assert.Equal(t, 200, opts.MaxTokens)
}

func TestPromptSpecApplyKeepsDefaultsWhenEmpty(t *testing.T) {
	spec := &PromptSpec{}
	opts := spec.Apply(Options{Model: "base", Temperature: 0.3, MaxTokens: 450})
	assert.Equal(t, "base", opts.Model)
	assert.Equal(t, float32(0.3), opts.Temperature)
	assert.Equal(t, 450, opts.MaxTokens)
}
