// Package generation drives the external LLM service (Gemini) that writes
// question sets. It defines the Session and SessionOpener boundary the
// platform adapters implement, and the RetryingClient that turns a flaky
// remote call into a bounded, session-renewing operation with a timeout
// budget that scales with the number of questions requested.
package generation
