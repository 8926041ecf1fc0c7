package config

import (
	"fmt"
	"net/url"
)

// Validate checks config values for correctness.
// Returns an error if any values are invalid.
func (c *Config) Validate() error {
	var errs []string

	// Workspace validation
	if c.Workspace.MaxFileSize < 1 {
		errs = append(errs, "workspace.max_file_size must be >= 1")
	}
	if c.Workspace.BinarySampleSize < 1 {
		errs = append(errs, "workspace.binary_sample_size must be >= 1")
	}
	if c.Workspace.IgnoreFile == "" {
		errs = append(errs, "workspace.ignore_file must not be empty")
	}

	// Ollama validation
	if c.Ollama.Host == "" {
		errs = append(errs, "ollama.host must not be empty")
	} else if u, err := url.Parse(c.Ollama.Host); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, "ollama.host must be a valid URL with scheme and host")
	}
	if c.Ollama.Model == "" {
		errs = append(errs, "ollama.model must not be empty")
	}
	if c.Ollama.Temperature < 0 || c.Ollama.Temperature > 2 {
		errs = append(errs, "ollama.temperature must be between 0 and 2")
	}
	if c.Ollama.NumCtx < 0 {
		errs = append(errs, "ollama.num_ctx must be >= 0")
	}
	if c.Ollama.MaxTokens < 0 {
		errs = append(errs, "ollama.max_tokens must be >= 0")
	}
	if c.Ollama.RequestTimeoutSeconds < 1 {
		errs = append(errs, "ollama.request_timeout_seconds must be >= 1")
	}
	if c.Ollama.StreamIdleTimeoutSeconds < 1 {
		errs = append(errs, "ollama.stream_idle_timeout_seconds must be >= 1")
	}

	// UI validation
	if c.UI.GlamourStyle == "" {
		errs = append(errs, "ui.glamour_style must not be empty")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %v", errs)
	}

	return nil
}
