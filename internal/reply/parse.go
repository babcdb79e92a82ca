package reply

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/intelliexam/exam-api/internal/domain"
	"github.com/kaptinlin/jsonrepair"
	"github.com/kaptinlin/jsonschema"
)

//go:embed output.schema.json
var outputSchemaJSON []byte

var outputSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	schema, err := compiler.Compile(outputSchemaJSON)
	if err != nil {
		return nil, fmt.Errorf("compile output schema: %w", err)
	}
	return schema, nil
})

// Element is one question as the generation service returns it.
type Element struct {
	Question    string          `json:"Question"`
	Choices     *domain.Choices `json:"Choices,omitempty"`
	Answer      Text            `json:"Answer"`
	Explanation Text            `json:"Explanation"`
}

// HasChoices reports whether the element carries a Choices object. An object
// with four empty options still marks a multiple-choice question.
func (e Element) HasChoices() bool {
	return e.Choices != nil
}

// Text is a reply field that should be a string but may come back as a
// number, a boolean or a list. Lists are joined with ", ".
type Text string

// UnmarshalJSON implements json.Unmarshaler.
func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*t = ""
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
	case data[0] == '[':
		var items []Text
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		parts := make([]string, len(items))
		for i, item := range items {
			parts[i] = string(item)
		}
		*t = Text(strings.Join(parts, ", "))
	default:
		// numbers and booleans keep their literal form
		*t = Text(data)
	}
	return nil
}

// Parsed is the decoded body of one reply.
type Parsed struct {
	Output []Element `json:"Output"`
}

// Parse decodes a raw reply. It tries, in order: the reply as is, the reply
// with newlines removed and \" unescaped, and finally a repaired version of
// the normalized text. The first candidate that is valid JSON is checked
// against the output schema. Any failure wraps domain.ErrMalformedReply.
func Parse(raw domain.RawReply) (Parsed, error) {
	text := stripFences(strings.TrimSpace(string(raw)))
	if text == "" {
		return Parsed{}, fmt.Errorf("%w: empty reply", domain.ErrMalformedReply)
	}

	data, err := decodable(text)
	if err != nil {
		return Parsed{}, err
	}

	data = wrapBareArray(data)

	schema, err := outputSchema()
	if err != nil {
		return Parsed{}, err
	}
	if result := schema.ValidateJSON(data); !result.IsValid() {
		return Parsed{}, fmt.Errorf("%w: schema validation failed: %v", domain.ErrMalformedReply, result.Errors)
	}

	var parsed Parsed
	if err := json.Unmarshal(data, &parsed); err != nil {
		return Parsed{}, fmt.Errorf("%w: %w", domain.ErrMalformedReply, err)
	}
	for i, el := range parsed.Output {
		if strings.TrimSpace(el.Question) == "" {
			return Parsed{}, fmt.Errorf("%w: element %d: %w", domain.ErrMalformedReply, i, domain.ErrEmptyQuestion)
		}
	}
	return parsed, nil
}

func decodable(text string) ([]byte, error) {
	if json.Valid([]byte(text)) {
		return []byte(text), nil
	}

	normalized := strings.ReplaceAll(text, "\r", "")
	normalized = strings.ReplaceAll(normalized, "\n", "")
	normalized = strings.ReplaceAll(normalized, `\"`, `"`)
	if json.Valid([]byte(normalized)) {
		return []byte(normalized), nil
	}

	repaired, err := jsonrepair.JSONRepair(normalized)
	if err != nil {
		return nil, fmt.Errorf("%w: repair failed: %w", domain.ErrMalformedReply, err)
	}
	if !json.Valid([]byte(repaired)) {
		return nil, fmt.Errorf("%w: reply is not JSON", domain.ErrMalformedReply)
	}
	return []byte(repaired), nil
}

// stripFences removes a surrounding markdown code fence such as ```json.
func stripFences(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	if nl := strings.IndexByte(text, '\n'); nl >= 0 && !strings.ContainsAny(text[:nl], "{[") {
		text = text[nl+1:]
	}
	text = strings.TrimSpace(text)
	return strings.TrimSpace(strings.TrimSuffix(text, "```"))
}

// wrapBareArray accepts a reply that is just the Output array.
func wrapBareArray(data []byte) []byte {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return data
	}
	out := make([]byte, 0, len(trimmed)+len(`{"Output":}`))
	out = append(out, `{"Output":`...)
	out = append(out, trimmed...)
	return append(out, '}')
}
