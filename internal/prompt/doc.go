// Package prompt composes generation instructions for one content unit.
//
// A prompt is assembled in a fixed order: a scenario sentence naming the
// question kind, a rules sentence with the format constraints, a context
// clause embedding the grounding content with either complimentary
// information or a style sample, and a strict output-format directive
// describing the JSON shape the reply must follow.
package prompt
