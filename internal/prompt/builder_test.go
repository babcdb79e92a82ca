package prompt

import (
	"strings"
	"testing"

	"github.com/intelliexam/exam-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openEndedRequest(mode domain.ContextMode) domain.GenerationRequest {
	return domain.GenerationRequest{
		Kind:              domain.KindOpenEnded,
		Quota:             5,
		MaxAnswerLength:   40,
		Contextualization: domain.Contextualization{Mode: mode},
	}
}

func TestBuild_OpenEndedComplimentaryInfo(t *testing.T) {
	t.Parallel()

	unit := domain.ContentUnit{Content: "Binary heaps are complete trees.", Context: "Lecture 4 notes"}
	got, err := NewBuilder().Build(openEndedRequest(domain.ModeComplimentaryInfo), unit, 2)
	require.NoError(t, err)

	want := "Generate open ended questions for each content data with answers.\n" +
		"Each answer should be less than 40 words. There should be a short explanation given for the answer.\n" +
		"Generate exactly two questions. The questions must strictly be regarding the CONTENT " +
		"and use the INFORMATION for context only.\n\n" +
		"CONTENT: [\nBinary heaps are complete trees.\n]\nINFORMATION: [\nLecture 4 notes\n]\n\n" +
		openEndedFormat
	assert.Equal(t, want, got)
}

func TestBuild_MultipleChoiceStyleFormat(t *testing.T) {
	t.Parallel()

	req := domain.GenerationRequest{
		Kind:              domain.KindMultipleChoice,
		Quota:             3,
		Contextualization: domain.Contextualization{Mode: domain.ModeStyleFormat},
	}
	unit := domain.ContentUnit{Content: "TCP uses a three-way handshake.", Context: "Q1. Which of the following..."}
	got, err := NewBuilder().Build(req, unit, 3)
	require.NoError(t, err)

	// Sections appear in a fixed order.
	scenario := strings.Index(got, multipleChoiceScenario)
	rules := strings.Index(got, "four choices")
	clause := strings.Index(got, "Generate exactly three questions.")
	format := strings.Index(got, "FORMAT: [\nQ1. Which of the following...\n]")
	directive := strings.Index(got, "You must strictly respond in JSON")

	assert.Equal(t, 0, scenario)
	assert.Greater(t, rules, scenario)
	assert.Greater(t, clause, rules)
	assert.Greater(t, format, clause)
	assert.Greater(t, directive, format)
	assert.True(t, strings.HasSuffix(got, multipleChoiceFormat))
	assert.NotContains(t, got, "INFORMATION")
	assert.NotContains(t, got, "words.", "answer length only applies to open-ended questions")
}

func TestBuild_CountIsSpelledOut(t *testing.T) {
	t.Parallel()

	got, err := NewBuilder().Build(openEndedRequest(domain.ModeComplimentaryInfo), domain.ContentUnit{}, 12)
	require.NoError(t, err)
	assert.Contains(t, got, "Generate exactly twelve questions.")
	assert.NotContains(t, got, "exactly 12")
}

func TestBuild_RejectsInvalidInput(t *testing.T) {
	t.Parallel()

	b := NewBuilder()
	req := openEndedRequest(domain.ModeComplimentaryInfo)

	for _, count := range []int{0, -1} {
		_, err := b.Build(req, domain.ContentUnit{}, count)
		assert.ErrorIs(t, err, domain.ErrInvalidArgument, "count %d", count)
	}

	req.Contextualization.Mode = ""
	_, err := b.Build(req, domain.ContentUnit{}, 1)
	assert.ErrorIs(t, err, domain.ErrInvalidContextMode)
}

func TestBuild_IsPure(t *testing.T) {
	t.Parallel()

	b := NewBuilder()
	req := openEndedRequest(domain.ModeStyleFormat)
	unit := domain.ContentUnit{Content: "c", Context: "f"}

	first, err := b.Build(req, unit, 4)
	require.NoError(t, err)
	second, err := b.Build(req, unit, 4)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
