// Package orchestrator drives one generation pass: it splits the pass quota
// over the content units, prompts for each unit with a non-zero share and
// collects the raw replies in unit order.
package orchestrator
