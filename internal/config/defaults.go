package config

// Config holds all application configuration values.
// Defaults are set in DefaultConfig() and can be overridden via dotfile.
// Missing keys are left at their default values.
type Config struct {
	Workspace WorkspaceConfig `json:"workspace" mapstructure:"workspace"`
	Ollama    OllamaConfig    `json:"ollama" mapstructure:"ollama"`
	UI        UIConfig        `json:"ui" mapstructure:"ui"`
}

type WorkspaceConfig struct {
	// MaxFileSize caps text reads, in bytes.
	MaxFileSize int64 `json:"max_file_size" mapstructure:"max_file_size"` // Default: 10 * 1024 * 1024 (10MB)

	// BinarySampleSize is how many leading bytes are scanned for
	// null bytes when deciding whether a file is binary.
	BinarySampleSize int `json:"binary_sample_size" mapstructure:"binary_sample_size"` // Default: 8192

	// IgnoreFile is the ignore-pattern file read from the workspace root.
	IgnoreFile string `json:"ignore_file" mapstructure:"ignore_file"` // Default: ".gitignore"
}

type OllamaConfig struct {
	Host  string `json:"host" mapstructure:"host"`   // Default: http://127.0.0.1:11434
	Model string `json:"model" mapstructure:"model"` // Default: deepseek-v2.5

	Temperature float64 `json:"temperature" mapstructure:"temperature"` // Default: 0.7
	NumCtx      int     `json:"num_ctx" mapstructure:"num_ctx"`         // Default: 8192
	MaxTokens   int     `json:"max_tokens" mapstructure:"max_tokens"`   // Default: 0 (model decides)

	// RequestTimeoutSeconds bounds a whole buffered request.
	RequestTimeoutSeconds int `json:"request_timeout_seconds" mapstructure:"request_timeout_seconds"` // Default: 300

	// StreamIdleTimeoutSeconds bounds the gap between streamed chunks.
	StreamIdleTimeoutSeconds int `json:"stream_idle_timeout_seconds" mapstructure:"stream_idle_timeout_seconds"` // Default: 60
}

type UIConfig struct {
	// ColorPrimary etc. are lipgloss ANSI color codes.
	ColorPrimary string `json:"color_primary" mapstructure:"color_primary"` // Default: "63"
	ColorError   string `json:"color_error" mapstructure:"color_error"`     // Default: "196"
	ColorMuted   string `json:"color_muted" mapstructure:"color_muted"`     // Default: "241"

	// GlamourStyle selects the markdown rendering theme.
	GlamourStyle string `json:"glamour_style" mapstructure:"glamour_style"` // Default: "auto"
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Workspace: WorkspaceConfig{
			MaxFileSize:      10 * 1024 * 1024,
			BinarySampleSize: 8192,
			IgnoreFile:       ".gitignore",
		},
		Ollama: OllamaConfig{
			Host:                     "http://127.0.0.1:11434",
			Model:                    "deepseek-v2.5",
			Temperature:              0.7,
			NumCtx:                   8192,
			MaxTokens:                0,
			RequestTimeoutSeconds:    300,
			StreamIdleTimeoutSeconds: 60,
		},
		UI: UIConfig{
			ColorPrimary: "63",
			ColorError:   "196",
			ColorMuted:   "241",
			GlamourStyle: "auto",
		},
	}
}
