package service_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/intelliexam/exam-api/internal/domain"
	"github.com/intelliexam/exam-api/internal/mocks"
	"github.com/intelliexam/exam-api/internal/orchestrator"
	"github.com/intelliexam/exam-api/internal/platform/logger"
	"github.com/intelliexam/exam-api/internal/prompt"
	"github.com/intelliexam/exam-api/internal/reply"
	"github.com/intelliexam/exam-api/internal/selection"
	"github.com/intelliexam/exam-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// fakeReply answers a prompt with as many questions as it asks for.
func fakeReply(_ context.Context, p string, _ time.Duration) (string, error) {
	n := 0
	for i := 1; i <= 10; i++ {
		if strings.Contains(p, "Generate exactly "+prompt.CountInWords(i)+" questions") {
			n = i
			break
		}
	}
	mcq := strings.Contains(p, "multiple choice")
	items := make([]string, n)
	for i := range items {
		if mcq {
			items[i] = fmt.Sprintf(`{"Question":"mcq %d","Choices":{"a":"1","b":"2","c":"3","d":"4"},`+
				`"Answer":"a","Explanation":"E"}`, i)
		} else {
			items[i] = fmt.Sprintf(`{"Question":"oe %d","Answer":"A","Explanation":"E"}`, i)
		}
	}
	return `{"Output":[` + strings.Join(items, ",") + `]}`, nil
}

type fixture struct {
	extractor *MockExtractor
	selector  *MockContentSelector
	client    *mocks.MockGenerationClient
	service   service.QuestionService
}

func newFixture(t *testing.T, opts orchestrator.Options, policy reply.Policy) *fixture {
	t.Helper()
	log, _ := logger.GetTestLogger(t)

	f := &fixture{
		extractor: &MockExtractor{},
		selector:  &MockContentSelector{},
		client:    &mocks.MockGenerationClient{CallFn: fakeReply},
	}

	orch, err := orchestrator.New(f.client, prompt.NewBuilder(), opts, log)
	require.NoError(t, err)
	agg, err := reply.NewAggregator(policy, log)
	require.NoError(t, err)

	f.service, err = service.NewQuestionService(f.extractor, f.selector, orch, agg, 0, log)
	require.NoError(t, err)
	return f
}

func document(name string) service.Document {
	data := []byte(name)
	return service.Document{Name: name, Reader: bytes.NewReader(data), Size: int64(len(data))}
}

func TestGenerateEndToEnd(t *testing.T) {
	t.Parallel()

	f := newFixture(t, orchestrator.DefaultOptions(), reply.PolicySkip)
	chunks := []string{"c1", "c2", "c3"}
	f.extractor.On("Extract", mock.Anything, mock.Anything, mock.Anything).Return(chunks, nil)
	f.selector.On("Select", mock.Anything, mock.Anything, mock.Anything, domain.InputModeContext).
		Return(unitsFor(chunks), nil)

	result, err := f.service.Generate(context.Background(), service.QuestionSetRequest{
		Documents:           []service.Document{document("notes.pdf")},
		OpenEndedCount:      5,
		MultipleChoiceCount: 0,
		Corpus:              "CS101",
		InputMode:           domain.InputModeContext,
		Seed:                7,
	})
	require.NoError(t, err)
	assert.False(t, result.Partial)
	assert.Equal(t, 3, f.client.CallCount(), "quota 5 over 3 units is [2,2,1]")

	oe, mcq := result.Set.Counts()
	assert.Equal(t, 5, oe)
	assert.Equal(t, 0, mcq)
}

func TestGenerateCapsOverfullReplies(t *testing.T) {
	t.Parallel()

	f := newFixture(t, orchestrator.DefaultOptions(), reply.PolicySkip)
	chunks := []string{"c1", "c2", "c3"}
	f.extractor.On("Extract", mock.Anything, mock.Anything, mock.Anything).Return(chunks, nil)
	f.selector.On("Select", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(unitsFor(chunks), nil)

	// Every unit answers with two questions, whatever it was asked for.
	f.client.CallFn = func(_ context.Context, p string, _ time.Duration) (string, error) {
		for _, c := range chunks {
			if strings.Contains(p, "CONTENT: [\n"+c+"\n]") {
				return fmt.Sprintf(`{"Output":[{"Question":"%s-q0","Answer":"A","Explanation":"E"},`+
					`{"Question":"%s-q1","Answer":"A","Explanation":"E"}]}`, c, c), nil
			}
		}
		return "", fmt.Errorf("unexpected prompt: %s", p)
	}

	result, err := f.service.Generate(context.Background(), service.QuestionSetRequest{
		Documents:      []service.Document{document("notes.pdf")},
		OpenEndedCount: 5,
		Corpus:         "CS101",
		InputMode:      domain.InputModeContext,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, f.client.CallCount())
	assert.Empty(t, result.Skipped)

	questions := make([]string, 0, result.Set.Len())
	for _, rec := range result.Set.Records {
		questions = append(questions, rec.Question)
	}
	assert.Equal(t, []string{"c1-q0", "c1-q1", "c2-q0", "c2-q1", "c3-q0"}, questions,
		"the sixth element, the last of the third reply, is dropped")
}

func TestGenerateBothPasses(t *testing.T) {
	t.Parallel()

	f := newFixture(t, orchestrator.DefaultOptions(), reply.PolicySkip)
	chunks := []string{"c1", "c2", "c3", "c4"}
	f.extractor.On("Extract", mock.Anything, mock.Anything, mock.Anything).Return(chunks, nil)
	f.selector.On("Select", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(unitsFor(chunks), nil)

	result, err := f.service.Generate(context.Background(), service.QuestionSetRequest{
		Documents:           []service.Document{document("a.pdf")},
		OpenEndedCount:      2,
		MultipleChoiceCount: 5,
		Corpus:              "CS101",
		InputMode:           domain.InputModeContext,
	})
	require.NoError(t, err)

	oe, mcq := result.Set.Counts()
	assert.Equal(t, 2, oe)
	assert.Equal(t, 5, mcq)
	for i, rec := range result.Set.Records {
		if i < 2 {
			assert.Equal(t, domain.KindOpenEnded, rec.Kind(), "open-ended records come first")
		} else {
			assert.Equal(t, domain.KindMultipleChoice, rec.Kind())
		}
	}

	// The reversed second pass gives the extra question to the last unit.
	var mcqPrompts, doubled []string
	for _, p := range f.client.RecordedPrompts() {
		if strings.Contains(p, "multiple choice") {
			mcqPrompts = append(mcqPrompts, p)
			if strings.Contains(p, "exactly two questions") {
				doubled = append(doubled, p)
			}
		}
	}
	assert.Len(t, mcqPrompts, 4)
	require.Len(t, doubled, 1)
	assert.Contains(t, doubled[0], "CONTENT: [\nc4\n]")
}

func TestGeneratePoolsDocumentsInOrder(t *testing.T) {
	t.Parallel()

	f := newFixture(t, orchestrator.DefaultOptions(), reply.PolicySkip)
	first, second := document("first.pdf"), document("second.pdf")
	f.extractor.On("Extract", mock.Anything, first.Reader, first.Size).Return([]string{"a", "b"}, nil)
	f.extractor.On("Extract", mock.Anything, second.Reader, second.Size).Return([]string{"c"}, nil)

	seed := int64(11)
	want := selection.NewDiversifier(seed).Shuffle([]string{"a", "b", "c"})
	f.selector.On("Select", mock.Anything, want, mock.Anything, mock.Anything).Return(unitsFor(want), nil)

	_, err := f.service.Generate(context.Background(), service.QuestionSetRequest{
		Documents:      []service.Document{first, second},
		OpenEndedCount: 3,
		Corpus:         "CS101",
		InputMode:      domain.InputModeFormat,
		Seed:           seed,
	})
	require.NoError(t, err)
	f.extractor.AssertNumberOfCalls(t, "Extract", 2)
	f.selector.AssertExpectations(t)
}

func TestGenerateSampledSource(t *testing.T) {
	t.Parallel()

	f := newFixture(t, orchestrator.DefaultOptions(), reply.PolicySkip)
	f.extractor.On("Extract", mock.Anything, mock.Anything, mock.Anything).Return([]string{"past paper"}, nil)
	f.selector.On("SelectSampled", mock.Anything, mock.Anything, mock.Anything, domain.InputModeFormat).
		Return(unitsFor([]string{"past paper"}), nil)

	_, err := f.service.Generate(context.Background(), service.QuestionSetRequest{
		Documents:      []service.Document{document("paper.pdf")},
		OpenEndedCount: 1,
		Corpus:         "CS101",
		InputMode:      domain.InputModeFormat,
		Source:         selection.SourceSample,
	})
	require.NoError(t, err)
	f.selector.AssertNotCalled(t, "Select", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGenerateValidation(t *testing.T) {
	t.Parallel()

	f := newFixture(t, orchestrator.DefaultOptions(), reply.PolicySkip)
	valid := service.QuestionSetRequest{
		Documents:      []service.Document{document("a.pdf")},
		OpenEndedCount: 1,
		Corpus:         "CS101",
		InputMode:      domain.InputModeContext,
	}

	tests := []struct {
		name   string
		modify func(r *service.QuestionSetRequest)
	}{
		{"no documents", func(r *service.QuestionSetRequest) { r.Documents = nil }},
		{"negative count", func(r *service.QuestionSetRequest) { r.MultipleChoiceCount = -1 }},
		{"bad input mode", func(r *service.QuestionSetRequest) { r.InputMode = "summary" }},
		{"missing corpus", func(r *service.QuestionSetRequest) { r.Corpus = "" }},
		{"negative answer length", func(r *service.QuestionSetRequest) { r.MaxAnswerLength = -5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.modify(&req)
			_, err := f.service.Generate(context.Background(), req)
			assert.ErrorIs(t, err, domain.ErrInvalidArgument)
		})
	}
	f.extractor.AssertNotCalled(t, "Extract", mock.Anything, mock.Anything, mock.Anything)
}

func TestGenerateNoContent(t *testing.T) {
	t.Parallel()

	f := newFixture(t, orchestrator.DefaultOptions(), reply.PolicySkip)
	f.extractor.On("Extract", mock.Anything, mock.Anything, mock.Anything).Return([]string{}, nil)

	_, err := f.service.Generate(context.Background(), service.QuestionSetRequest{
		Documents:      []service.Document{document("blank.pdf")},
		OpenEndedCount: 1,
		Corpus:         "CS101",
		InputMode:      domain.InputModeContext,
	})
	assert.ErrorIs(t, err, service.ErrNoContent)
}

func TestGenerateStageErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("atlas down")

	t.Run("selection failure", func(t *testing.T) {
		f := newFixture(t, orchestrator.DefaultOptions(), reply.PolicySkip)
		f.extractor.On("Extract", mock.Anything, mock.Anything, mock.Anything).Return([]string{"a"}, nil)
		f.selector.On("Select", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, boom)

		_, err := f.service.Generate(context.Background(), service.QuestionSetRequest{
			Documents: []service.Document{document("a.pdf")}, OpenEndedCount: 1, Corpus: "CS101",
			InputMode: domain.InputModeContext,
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, boom)

		var svcErr *service.QuestionServiceError
		require.ErrorAs(t, err, &svcErr)
		assert.Equal(t, "select", svcErr.Operation)
		assert.Equal(t, 0, f.client.CallCount())
	})

	t.Run("generation unavailable", func(t *testing.T) {
		f := newFixture(t, orchestrator.DefaultOptions(), reply.PolicySkip)
		f.client.CallFn = func(context.Context, string, time.Duration) (string, error) {
			return "", domain.ErrGenerationUnavailable
		}
		f.extractor.On("Extract", mock.Anything, mock.Anything, mock.Anything).Return([]string{"a"}, nil)
		f.selector.On("Select", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(unitsFor([]string{"a"}), nil)

		_, err := f.service.Generate(context.Background(), service.QuestionSetRequest{
			Documents: []service.Document{document("a.pdf")}, OpenEndedCount: 1, Corpus: "CS101",
			InputMode: domain.InputModeContext,
		})
		assert.ErrorIs(t, err, domain.ErrGenerationUnavailable)
	})

	t.Run("malformed reply under abort policy", func(t *testing.T) {
		f := newFixture(t, orchestrator.DefaultOptions(), reply.PolicyAbort)
		f.client.CallFn = func(context.Context, string, time.Duration) (string, error) {
			return "no json here", nil
		}
		f.extractor.On("Extract", mock.Anything, mock.Anything, mock.Anything).Return([]string{"a"}, nil)
		f.selector.On("Select", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(unitsFor([]string{"a"}), nil)

		_, err := f.service.Generate(context.Background(), service.QuestionSetRequest{
			Documents: []service.Document{document("a.pdf")}, OpenEndedCount: 1, Corpus: "CS101",
			InputMode: domain.InputModeContext,
		})
		assert.ErrorIs(t, err, domain.ErrMalformedReply)
	})
}

func TestGeneratePartialOnCancel(t *testing.T) {
	t.Parallel()

	opts := orchestrator.DefaultOptions()
	opts.MaxConcurrent = 1
	f := newFixture(t, opts, reply.PolicySkip)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := 0
	f.client.CallFn = func(callCtx context.Context, p string, timeout time.Duration) (string, error) {
		calls++
		if calls == 1 {
			return fakeReply(callCtx, p, timeout)
		}
		cancel()
		return "", fmt.Errorf("%w: %w", domain.ErrGenerationUnavailable, context.Canceled)
	}

	chunks := []string{"c1", "c2"}
	f.extractor.On("Extract", mock.Anything, mock.Anything, mock.Anything).Return(chunks, nil)
	f.selector.On("Select", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(unitsFor(chunks), nil)

	result, err := f.service.Generate(ctx, service.QuestionSetRequest{
		Documents:           []service.Document{document("a.pdf")},
		OpenEndedCount:      2,
		MultipleChoiceCount: 2,
		Corpus:              "CS101",
		InputMode:           domain.InputModeContext,
	})
	require.Error(t, err)

	var partial *orchestrator.PartialError
	require.ErrorAs(t, err, &partial)
	assert.True(t, result.Partial)
	assert.Equal(t, 1, result.Set.Len(), "the completed open-ended unit is kept")
	assert.Equal(t, 2, f.client.CallCount(), "the multiple-choice pass never starts")
}

func TestNewQuestionServiceValidation(t *testing.T) {
	t.Parallel()

	log, _ := logger.GetTestLogger(t)
	orch, err := orchestrator.New(&mocks.MockGenerationClient{}, prompt.NewBuilder(), orchestrator.DefaultOptions(), log)
	require.NoError(t, err)
	agg, err := reply.NewAggregator(reply.PolicySkip, log)
	require.NoError(t, err)

	_, err = service.NewQuestionService(nil, &MockContentSelector{}, orch, agg, 0, log)
	assert.Error(t, err)
	_, err = service.NewQuestionService(&MockExtractor{}, nil, orch, agg, 0, log)
	assert.Error(t, err)
	_, err = service.NewQuestionService(&MockExtractor{}, &MockContentSelector{}, nil, agg, 0, log)
	assert.Error(t, err)
	_, err = service.NewQuestionService(&MockExtractor{}, &MockContentSelector{}, orch, nil, 0, log)
	assert.Error(t, err)

	svc, err := service.NewQuestionService(&MockExtractor{}, &MockContentSelector{}, orch, agg, 0, nil)
	require.NoError(t, err)
	assert.NotNil(t, svc)
}
