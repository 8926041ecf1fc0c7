package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate_AllDefaults_Pass(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.Validate()
	assert.NoError(t, err)
}

func TestValidate_Workspace(t *testing.T) {
	t.Run("Zero File Size Fails", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Workspace.MaxFileSize = 0
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "max_file_size")
	})

	t.Run("Zero Sample Size Fails", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Workspace.BinarySampleSize = 0
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "binary_sample_size")
	})

	t.Run("Empty Ignore File Fails", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Workspace.IgnoreFile = ""
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "ignore_file")
	})
}

func TestValidate_Ollama(t *testing.T) {
	t.Run("Empty Host Fails", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Ollama.Host = ""
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "host")
	})

	t.Run("Host Without Scheme Fails", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Ollama.Host = "127.0.0.1:11434"
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "host")
	})

	t.Run("Temperature Above Two Fails", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Ollama.Temperature = 2.1
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "temperature")
	})

	t.Run("Zero Temperature Passes", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Ollama.Temperature = 0
		err := cfg.Validate()
		assert.NoError(t, err)
	})

	t.Run("Negative NumCtx Fails", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Ollama.NumCtx = -1
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "num_ctx")
	})

	t.Run("Zero Stream Idle Timeout Fails", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Ollama.StreamIdleTimeoutSeconds = 0
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "stream_idle_timeout_seconds")
	})
}

func TestValidate_UI(t *testing.T) {
	t.Run("Empty Glamour Style Fails", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.UI.GlamourStyle = ""
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "glamour_style")
	})
}

func TestValidate_MultipleErrors_AllReported(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Workspace.MaxFileSize = 0
	cfg.Ollama.Model = ""
	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "max_file_size")
	assert.Contains(t, err.Error(), "model")
}
