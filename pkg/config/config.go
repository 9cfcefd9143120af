package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultConfigFile is read when no explicit file has been set
const DefaultConfigFile = "./config/settings.yaml"

var configFile = DefaultConfigFile

// SetConfigFile overrides the settings file read by Init
func SetConfigFile(path string) {
	if path == "" {
		path = DefaultConfigFile
	}
	configFile = path
}

// Init initializes the configuration system.
// Values resolve in order: env (PODGEN_ prefix, .env included), settings file, defaults.
func Init() error {
	// .env only fills variables that are not already set
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("error loading .env file: %w", err)
	}

	setDefaults()

	viper.SetEnvPrefix("PODGEN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	path := filepath.Clean(configFile)
	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	if err := validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// GetConfig returns the current configuration as a struct
// Init() must be called before using this
func GetConfig() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &config, nil
}

// validate validates the configuration using Viper values
func validate() error {
	port := viper.GetInt("server.port")
	if port <= 0 || port > 65535 {
		return fmt.Errorf("invalid server port: %d", port)
	}

	if viper.GetString("database.path") == "" {
		log.Printf("[WARN] No database path configured, using in-memory database")
	}

	return validateAPIKeys()
}

// validateAPIKeys warns about missing provider keys, and fails in production
func validateAPIKeys() error {
	env := viper.GetString("environment")
	isProduction := env == "production" || env == "prod"

	placeholders := []string{
		"YOUR_KEY_HERE",
		"YOUR_API_KEY",
		"changeme",
		"CHANGEME",
		"",
	}

	keys := map[string]string{
		"openai.api_key": "OpenAI API key",
	}
	if viper.GetString("speech.provider") == SpeechProviderElevenLabs {
		keys["elevenlabs.api_key"] = "ElevenLabs API key"
	}

	for key, label := range keys {
		value := viper.GetString(key)
		for _, placeholder := range placeholders {
			if value == placeholder {
				if isProduction {
					return fmt.Errorf("invalid %s: cannot use placeholder values in production", label)
				}
				log.Printf("[WARN] %s is not configured", label)
				break
			}
		}
	}

	return nil
}

// Speech provider names
const (
	SpeechProviderElevenLabs = "elevenlabs"
	SpeechProviderOpenAI     = "openai"
)

// Storage backend names
const (
	StorageBackendFilesystem = "filesystem"
	StorageBackendMemory     = "memory"
)

// Validate validates a Config struct
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	primary, secondary := c.Personas.Primary, c.Personas.Secondary
	if primary.Name == "" || secondary.Name == "" {
		return fmt.Errorf("both persona names are required")
	}
	if primary.Name == secondary.Name {
		return fmt.Errorf("persona names must differ, both are %q", primary.Name)
	}
	if primary.VoiceID == "" || secondary.VoiceID == "" {
		return fmt.Errorf("both persona voice ids are required")
	}

	switch c.Speech.Provider {
	case SpeechProviderElevenLabs, SpeechProviderOpenAI:
	default:
		return fmt.Errorf("unknown speech provider: %q", c.Speech.Provider)
	}

	switch c.Storage.Backend {
	case StorageBackendFilesystem:
		if c.Storage.AudioDir == "" {
			return fmt.Errorf("storage.audio_dir is required for the filesystem backend")
		}
	case StorageBackendMemory:
	default:
		return fmt.Errorf("unknown storage backend: %q", c.Storage.Backend)
	}

	if c.Generation.MaxTokens <= 0 {
		c.Generation.MaxTokens = 4096
	}
	if c.Generation.StageTimeout < 0 {
		return fmt.Errorf("generation.stage_timeout must not be negative")
	}
	if c.Generation.RetryAttempts < 0 {
		return fmt.Errorf("generation.retry_attempts must not be negative")
	}
	if c.Generation.StaleAfter < 0 {
		return fmt.Errorf("generation.stale_after must not be negative")
	}
	if c.Generation.StaleAfter > 0 && c.Generation.SweepInterval <= 0 {
		return fmt.Errorf("generation.sweep_interval must be positive when stale_after is set")
	}

	return nil
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetDefault("environment", "development")

	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	// Generation requests block until the episode is terminal
	viper.SetDefault("server.write_timeout", 10*time.Minute)
	viper.SetDefault("server.shutdown_timeout", 10*time.Second)
	viper.SetDefault("server.max_header_bytes", 1048576)
	viper.SetDefault("server.max_request_bytes", 5242880)

	// Database defaults
	viper.SetDefault("database.path", "./data/podgen.db")
	viper.SetDefault("database.enable_wal", true)
	viper.SetDefault("database.verbose", false)

	// Generation defaults
	viper.SetDefault("generation.profile", "conversation")
	viper.SetDefault("generation.min_script_chars", 1000)
	viper.SetDefault("generation.max_tokens", 4096)
	viper.SetDefault("generation.stage_timeout", time.Duration(0))
	viper.SetDefault("generation.retry_attempts", 0)
	viper.SetDefault("generation.retry_initial_interval", 500*time.Millisecond)
	viper.SetDefault("generation.stale_after", time.Hour)
	viper.SetDefault("generation.sweep_interval", 5*time.Minute)

	// Persona defaults
	viper.SetDefault("personas.primary.name", "Alex")
	viper.SetDefault("personas.primary.voice_id", "pNInz6obpgDQGcFMzJgu")
	viper.SetDefault("personas.secondary.name", "Sam")
	viper.SetDefault("personas.secondary.voice_id", "EXAVITQu4vr4xnSDxMaL")

	// Speech defaults
	viper.SetDefault("speech.provider", SpeechProviderElevenLabs)
	viper.SetDefault("speech.model_id", "eleven_multilingual_v2")
	viper.SetDefault("speech.content_type", "audio/mpeg")

	// Provider defaults. Keys are registered so env overrides unmarshal.
	viper.SetDefault("openai.api_key", "")
	viper.SetDefault("elevenlabs.api_key", "")
	viper.SetDefault("openai.base_url", "https://api.openai.com/v1")
	viper.SetDefault("openai.model", "gpt-4o-mini")
	viper.SetDefault("openai.timeout", 2*time.Minute)
	viper.SetDefault("elevenlabs.base_url", "https://api.elevenlabs.io")
	viper.SetDefault("elevenlabs.output_format", "mp3_44100_128")
	viper.SetDefault("elevenlabs.timeout", 2*time.Minute)

	// Storage defaults
	viper.SetDefault("storage.backend", StorageBackendFilesystem)
	viper.SetDefault("storage.audio_dir", "./data/audio")

	// Rate limiting defaults
	viper.SetDefault("rate_limiting.enabled", true)
	viper.SetDefault("rate_limiting.endpoints", map[string]int{
		"generate": 6,
		"default":  120,
	})

	// Security defaults
	viper.SetDefault("security.enable_cors", true)
	viper.SetDefault("security.cors_origins", []string{"*"})
	viper.SetDefault("security.cors_methods", []string{"GET", "POST", "OPTIONS"})
	viper.SetDefault("security.cors_headers", []string{"Content-Type", "Authorization"})

	// Logging defaults
	viper.SetDefault("logging.level", "info")

	// Monitoring defaults
	viper.SetDefault("monitoring.enabled", true)
	viper.SetDefault("monitoring.metrics_path", "/metrics")
	viper.SetDefault("monitoring.service_name", "podgen")
}
