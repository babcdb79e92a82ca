package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server     ServerConfig     `mapstructure:"server" validate:"required"`
	LLM        LLMConfig        `mapstructure:"llm" validate:"required"`
	Generation GenerationConfig `mapstructure:"generation" validate:"required"`
	Retrieval  RetrievalConfig  `mapstructure:"retrieval" validate:"required"`
	Extract    ExtractConfig    `mapstructure:"extract" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port        int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel    string `mapstructure:"log_level" validate:"required,oneof=debug info warn error fatal"`
	MaxUploadMB int    `mapstructure:"max_upload_mb" validate:"required,gt=0,lte=512"`
}

// LLMConfig contains all LLM integration related settings.
type LLMConfig struct {
	GeminiAPIKey        string  `mapstructure:"gemini_api_key" validate:"required"`
	ModelName           string  `mapstructure:"model_name" validate:"required"`
	EmbeddingModel      string  `mapstructure:"embedding_model" validate:"required"`
	EmbeddingDimensions int     `mapstructure:"embedding_dimensions" validate:"gte=0"`
	Temperature         float32 `mapstructure:"temperature" validate:"gte=0,lte=2"`
}

// GenerationConfig bounds the question generation pipeline.
type GenerationConfig struct {
	MaxAttempts               int    `mapstructure:"max_attempts" validate:"gte=0,lte=100"`
	RetryBaseDelayMS          int    `mapstructure:"retry_base_delay_ms" validate:"gte=0"`
	RetryMaxDelayMS           int    `mapstructure:"retry_max_delay_ms" validate:"gte=0"`
	RetryDeadlineSeconds      int    `mapstructure:"retry_deadline_seconds" validate:"gte=0"`
	TimeoutBaseSeconds        int    `mapstructure:"timeout_base_seconds" validate:"gt=0"`
	TimeoutPerQuestionSeconds int    `mapstructure:"timeout_per_question_seconds" validate:"gte=0"`
	MaxConcurrentSessions     int    `mapstructure:"max_concurrent_sessions" validate:"gt=0,lte=64"`
	MaxAnswerLength           int    `mapstructure:"max_answer_length" validate:"gt=0"`
	MalformedReplyPolicy      string `mapstructure:"malformed_reply_policy" validate:"required,oneof=skip abort"`
	PartialOnCancel           bool   `mapstructure:"partial_on_cancel"`
}

// RetryBaseDelay returns the configured base backoff delay.
func (c GenerationConfig) RetryBaseDelay() time.Duration {
	return time.Duration(c.RetryBaseDelayMS) * time.Millisecond
}

// RetryMaxDelay returns the configured backoff cap.
func (c GenerationConfig) RetryMaxDelay() time.Duration {
	return time.Duration(c.RetryMaxDelayMS) * time.Millisecond
}

// RetryDeadline returns the wall-clock bound for one generation call.
func (c GenerationConfig) RetryDeadline() time.Duration {
	return time.Duration(c.RetryDeadlineSeconds) * time.Second
}

// TimeoutBase returns the fixed part of the per-call timeout.
func (c GenerationConfig) TimeoutBase() time.Duration {
	return time.Duration(c.TimeoutBaseSeconds) * time.Second
}

// TimeoutPerQuestion returns the per-question part of the per-call timeout.
func (c GenerationConfig) TimeoutPerQuestion() time.Duration {
	return time.Duration(c.TimeoutPerQuestionSeconds) * time.Second
}

// RetrievalConfig contains the vector store settings.
type RetrievalConfig struct {
	MongoURI      string `mapstructure:"mongo_uri" validate:"required,startswith=mongodb"`
	Collection    string `mapstructure:"collection" validate:"required"`
	VectorIndex   string `mapstructure:"vector_index" validate:"required"`
	EmbeddingPath string `mapstructure:"embedding_path" validate:"required"`
	NumCandidates int    `mapstructure:"num_candidates" validate:"gt=0"`
}

// ExtractConfig contains document extraction settings.
type ExtractConfig struct {
	MinChunkLength int `mapstructure:"min_chunk_length" validate:"gte=0"`
}
