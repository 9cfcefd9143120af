package config

import "time"

// Config represents the complete application configuration
type Config struct {
	Environment  string           `mapstructure:"environment"`
	Server       ServerConfig     `mapstructure:"server"`
	Database     DatabaseConfig   `mapstructure:"database"`
	Generation   GenerationConfig `mapstructure:"generation"`
	Personas     PersonasConfig   `mapstructure:"personas"`
	Speech       SpeechConfig     `mapstructure:"speech"`
	OpenAI       OpenAIConfig     `mapstructure:"openai"`
	ElevenLabs   ElevenLabsConfig `mapstructure:"elevenlabs"`
	Storage      StorageConfig    `mapstructure:"storage"`
	RateLimiting RateLimitConfig  `mapstructure:"rate_limiting"`
	Security     SecurityConfig   `mapstructure:"security"`
	Logging      LoggingConfig    `mapstructure:"logging"`
	Monitoring   MonitoringConfig `mapstructure:"monitoring"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxHeaderBytes  int           `mapstructure:"max_header_bytes"`
	MaxRequestBytes int64         `mapstructure:"max_request_bytes"`
}

// DatabaseConfig contains database settings
type DatabaseConfig struct {
	Path      string `mapstructure:"path"`
	EnableWAL bool   `mapstructure:"enable_wal"`
	Verbose   bool   `mapstructure:"verbose"`
}

// GenerationConfig controls the episode pipeline
type GenerationConfig struct {
	Profile        string `mapstructure:"profile"`
	MinScriptChars int    `mapstructure:"min_script_chars"`
	MaxTokens      int    `mapstructure:"max_tokens"`

	// Zero disables the per-call deadline and retries respectively.
	StageTimeout         time.Duration `mapstructure:"stage_timeout"`
	RetryAttempts        int           `mapstructure:"retry_attempts"`
	RetryInitialInterval time.Duration `mapstructure:"retry_initial_interval"`

	// Episodes still generating after StaleAfter are failed by the server's
	// sweep, checked every SweepInterval. Zero StaleAfter disables the sweep.
	StaleAfter    time.Duration `mapstructure:"stale_after"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

// PersonasConfig holds the two speakers of every episode
type PersonasConfig struct {
	Primary   PersonaConfig `mapstructure:"primary"`
	Secondary PersonaConfig `mapstructure:"secondary"`
}

// PersonaConfig binds a speaker name to a provider voice
type PersonaConfig struct {
	Name    string `mapstructure:"name"`
	VoiceID string `mapstructure:"voice_id"`
}

// SpeechConfig selects the speech synthesis backend
type SpeechConfig struct {
	Provider    string `mapstructure:"provider"`
	ModelID     string `mapstructure:"model_id"`
	ContentType string `mapstructure:"content_type"`
}

// OpenAIConfig contains OpenAI API settings
type OpenAIConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// ElevenLabsConfig contains ElevenLabs API settings
type ElevenLabsConfig struct {
	APIKey       string        `mapstructure:"api_key"`
	BaseURL      string        `mapstructure:"base_url"`
	OutputFormat string        `mapstructure:"output_format"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// StorageConfig contains blob storage settings
type StorageConfig struct {
	Backend  string `mapstructure:"backend"`
	AudioDir string `mapstructure:"audio_dir"`
}

// RateLimitConfig contains rate limiting settings, in requests per minute
type RateLimitConfig struct {
	Enabled   bool           `mapstructure:"enabled"`
	Endpoints map[string]int `mapstructure:"endpoints"`
}

// SecurityConfig contains security settings
type SecurityConfig struct {
	EnableCORS  bool     `mapstructure:"enable_cors"`
	CORSOrigins []string `mapstructure:"cors_origins"`
	CORSMethods []string `mapstructure:"cors_methods"`
	CORSHeaders []string `mapstructure:"cors_headers"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// MonitoringConfig contains monitoring settings
type MonitoringConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	MetricsPath string `mapstructure:"metrics_path"`
	ServiceName string `mapstructure:"service_name"`
}
