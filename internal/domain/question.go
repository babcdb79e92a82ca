package domain

import "strings"

// ContentUnit pairs a grounding passage with the document-derived text that
// is used either as complimentary information or as a style sample.
// Units live for one orchestration run and are consumed once.
type ContentUnit struct {
	Content string
	Context string
}

// RawReply is the unprocessed text returned by the generation service for a
// single prompt. It is expected, but not guaranteed, to be JSON shaped.
type RawReply string

// Choices holds the four options of a multiple-choice question.
type Choices struct {
	A string `json:"a"`
	B string `json:"b"`
	C string `json:"c"`
	D string `json:"d"`
}

// QuestionRecord is the canonical output unit. Choice fields are nil for
// open-ended questions.
type QuestionRecord struct {
	Question    string  `json:"question"`
	ChoiceA     *string `json:"choice_a"`
	ChoiceB     *string `json:"choice_b"`
	ChoiceC     *string `json:"choice_c"`
	ChoiceD     *string `json:"choice_d"`
	Answer      string  `json:"answer"`
	Explanation string  `json:"explanation"`
}

// NewOpenEndedRecord creates an open-ended record with all choices empty.
func NewOpenEndedRecord(question, answer, explanation string) (QuestionRecord, error) {
	if strings.TrimSpace(question) == "" {
		return QuestionRecord{}, ErrEmptyQuestion
	}
	return QuestionRecord{
		Question:    question,
		Answer:      answer,
		Explanation: explanation,
	}, nil
}

// NewMultipleChoiceRecord creates a multiple-choice record.
func NewMultipleChoiceRecord(question string, choices Choices, answer, explanation string) (QuestionRecord, error) {
	if strings.TrimSpace(question) == "" {
		return QuestionRecord{}, ErrEmptyQuestion
	}
	a, b, c, d := choices.A, choices.B, choices.C, choices.D
	return QuestionRecord{
		Question:    question,
		ChoiceA:     &a,
		ChoiceB:     &b,
		ChoiceC:     &c,
		ChoiceD:     &d,
		Answer:      answer,
		Explanation: explanation,
	}, nil
}

// Kind reports whether the record is a multiple-choice or open-ended question.
func (r QuestionRecord) Kind() QuestionKind {
	if r.ChoiceA != nil || r.ChoiceB != nil || r.ChoiceC != nil || r.ChoiceD != nil {
		return KindMultipleChoice
	}
	return KindOpenEnded
}

// ResultSet is the ordered sequence of records returned to the caller.
// The count of each kind never exceeds the quota requested for that kind.
type ResultSet struct {
	Records []QuestionRecord `json:"records"`
}

// Counts returns the number of open-ended and multiple-choice records.
func (s ResultSet) Counts() (openEnded, multipleChoice int) {
	for _, r := range s.Records {
		if r.Kind() == KindMultipleChoice {
			multipleChoice++
		} else {
			openEnded++
		}
	}
	return openEnded, multipleChoice
}

// Len returns the number of records.
func (s ResultSet) Len() int {
	return len(s.Records)
}
