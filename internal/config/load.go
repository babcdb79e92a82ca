package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. EXAM_SERVER_PORT.
const EnvPrefix = "EXAM"

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	return LoadFrom(".")
}

// LoadFrom behaves like Load but looks for config.yaml in the given directories.
func LoadFrom(paths ...string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks struct tags and the cross-field rules tags cannot express.
func Validate(cfg *Config) error {
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	g := cfg.Generation
	if g.MaxAttempts == 0 && (g.RetryDeadlineSeconds == 0 || g.RetryBaseDelayMS == 0) {
		return errors.New("config validation failed: generation.max_attempts of 0 (unlimited) " +
			"requires generation.retry_deadline_seconds and generation.retry_base_delay_ms")
	}
	return nil
}

// setDefaults registers every key so AutomaticEnv can override it during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.max_upload_mb", 32)

	v.SetDefault("llm.gemini_api_key", "")
	v.SetDefault("llm.model_name", "gemini-2.0-flash")
	v.SetDefault("llm.embedding_model", "text-embedding-004")
	v.SetDefault("llm.embedding_dimensions", 768)
	v.SetDefault("llm.temperature", 0.7)

	v.SetDefault("generation.max_attempts", 5)
	v.SetDefault("generation.retry_base_delay_ms", 2000)
	v.SetDefault("generation.retry_max_delay_ms", 30000)
	v.SetDefault("generation.retry_deadline_seconds", 600)
	v.SetDefault("generation.timeout_base_seconds", 90)
	v.SetDefault("generation.timeout_per_question_seconds", 20)
	v.SetDefault("generation.max_concurrent_sessions", 4)
	v.SetDefault("generation.max_answer_length", 50)
	v.SetDefault("generation.malformed_reply_policy", "skip")
	v.SetDefault("generation.partial_on_cancel", true)

	v.SetDefault("retrieval.mongo_uri", "")
	v.SetDefault("retrieval.collection", "content")
	v.SetDefault("retrieval.vector_index", "rag_vector_search")
	v.SetDefault("retrieval.embedding_path", "embedding")
	v.SetDefault("retrieval.num_candidates", 150)

	v.SetDefault("extract.min_chunk_length", 55)
}
