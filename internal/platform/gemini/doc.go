// Package gemini adapts Google's Gemini API to the generation and retrieval
// boundaries of the application.
//
// This package is an infrastructure adapter in the hexagonal architecture,
// connecting the question pipeline to Google's external Gemini AI service
// without exposing the details of the external service to the core.
//
// Key components:
//
// 1. SessionOpener:
//   - Implements generation.SessionOpener on top of genai chat sessions
//   - Each opened session is a fresh chat with no history
//
// 2. Embedder:
//   - Turns chunk text into query vectors for the vector retriever
//
// 3. Error Handling:
//   - Maps safety blocks to generation.ErrContentBlocked (never retried)
//   - Maps rejected credentials to generation.ErrInvalidConfig
//   - Marks every other API or transport failure as transient
//
// Retrying is not done here; generation.RetryingClient owns the retry loop.
package gemini
