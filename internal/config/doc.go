// Package config loads the service settings from an optional config.yaml and
// EXAM_-prefixed environment variables, applies defaults and validates the
// result. Each section (server, llm, generation, retrieval, extract) maps to
// the component that consumes it.
package config
