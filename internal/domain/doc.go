// Package domain contains the core entities of question-set generation:
// generation requests, content units, raw replies, question records and
// result sets, together with the error taxonomy shared by every layer.
// It has no dependencies on infrastructure or delivery mechanisms.
package domain
