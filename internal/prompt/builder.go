package prompt

import (
	"fmt"
	"strings"

	"github.com/divan/num2words"
	"github.com/intelliexam/exam-api/internal/domain"
)

const (
	openEndedScenario = "Generate open ended questions for each content data with answers.\n"
	openEndedRules    = "Each answer should be less than %d words. " +
		"There should be a short explanation given for the answer.\n"
	openEndedFormat = "You must strictly respond in JSON with the format like this " +
		"{Output:[{Question: [Question], Answer: [Answer], Explanation: [Explanation]}," +
		"{Question: [Question], Answer: [Answer], Explanation: [Explanation]}, ...]}"

	multipleChoiceScenario = "Generate multiple choice questions for each content data with answers.\n"
	multipleChoiceRules    = "Each Multiple Choice Question must have four choices. " +
		"There should be a short explanation given for the answer.\n"
	multipleChoiceFormat = "You must strictly respond in JSON with the format like this " +
		"{Output:[{Question:[Question], Choices:{a:[Answer1], b:[Answer2], c:[Answer3] d:[Answer4]}, " +
		"Answer:[Answer] , Explanation:[Explanation]}," +
		"{Question:[Question], Choices:{a:[Answer1], b:[Answer2], c:[Answer3] d:[Answer4]}, " +
		"Answer:[Answer] , Explanation:[Explanation]} ...]}"

	complimentaryInfoClause = "Generate exactly %s questions. The questions must strictly be regarding " +
		"the CONTENT and use the INFORMATION for context only.\n\n" +
		"CONTENT: [\n%s\n]\nINFORMATION: [\n%s\n]\n\n"
	styleFormatClause = "Generate exactly %s questions. The questions must be regarding the CONTENT " +
		"and the structure of the question must follow the FORMAT of questions that can be " +
		"identified within.\n\n" +
		"CONTENT: [\n%s\n]\nFORMAT: [\n%s\n]\n\n"
)

// Builder renders prompts. It holds no state and is safe for concurrent use.
type Builder struct{}

// NewBuilder creates a prompt builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Build composes the instruction asking for count questions about unit.
//
// The count is spelled out in words rather than digits. A count of zero or
// less is rejected with domain.ErrInvalidArgument; callers skip zero-quota
// units instead of prompting for them.
func (b *Builder) Build(req domain.GenerationRequest, unit domain.ContentUnit, count int) (string, error) {
	if count <= 0 {
		return "", fmt.Errorf("%w: question count must be positive (%d)", domain.ErrInvalidArgument, count)
	}
	if err := req.Validate(); err != nil {
		return "", err
	}

	var sb strings.Builder
	switch req.Kind {
	case domain.KindMultipleChoice:
		sb.WriteString(multipleChoiceScenario)
		sb.WriteString(multipleChoiceRules)
	default:
		sb.WriteString(openEndedScenario)
		fmt.Fprintf(&sb, openEndedRules, req.MaxAnswerLength)
	}

	words := CountInWords(count)
	switch req.Contextualization.Mode {
	case domain.ModeStyleFormat:
		fmt.Fprintf(&sb, styleFormatClause, words, unit.Content, unit.Context)
	default:
		fmt.Fprintf(&sb, complimentaryInfoClause, words, unit.Content, unit.Context)
	}

	if req.Kind == domain.KindMultipleChoice {
		sb.WriteString(multipleChoiceFormat)
	} else {
		sb.WriteString(openEndedFormat)
	}
	return sb.String(), nil
}

// CountInWords spells a question count in English words, e.g. 3 -> "three".
func CountInWords(n int) string {
	return num2words.Convert(n)
}
