package api

import (
	"bytes"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/intelliexam/exam-api/internal/api/shared"
	"github.com/intelliexam/exam-api/internal/domain"
	"github.com/intelliexam/exam-api/internal/export"
	"github.com/intelliexam/exam-api/internal/platform/logger"
	"github.com/intelliexam/exam-api/internal/retrieval"
	"github.com/intelliexam/exam-api/internal/selection"
	"github.com/intelliexam/exam-api/internal/service"
)

// Form parameter names of POST /api/questions
const (
	paramFiles               = "files"
	paramOpenEndedCount      = "open-ended-count"
	paramMultipleChoiceCount = "mcq-count"
	paramModuleCode          = "module-code"
	paramInputType           = "input-type"
	paramMaxAnswerLength     = "max-answer-length"
	paramSeed                = "seed"
	paramFormat              = "format"
	paramContentSource       = "content-source"
)

// Response headers of POST /api/questions
const (
	HeaderResultDigest   = "X-Result-Digest"
	HeaderGenerationSeed = "X-Generation-Seed"
	HeaderSkippedReplies = "X-Skipped-Replies"
)

const (
	formatXLSX = "xlsx"
	formatJSON = "json"

	multipartMemory = 8 << 20
	xlsxFilename    = "questions.xlsx"
)

// QuestionHandler handles question-set HTTP requests
type QuestionHandler struct {
	questionService service.QuestionService
	exporter        export.Exporter
	maxUploadBytes  int64
}

// NewQuestionHandler creates a new QuestionHandler
func NewQuestionHandler(
	questionService service.QuestionService,
	exporter export.Exporter,
	maxUploadBytes int64,
) *QuestionHandler {
	return &QuestionHandler{
		questionService: questionService,
		exporter:        exporter,
		maxUploadBytes:  maxUploadBytes,
	}
}

// GenerateQuestions handles POST /api/questions requests.
//
// The body is a multipart form with one or more PDF files under "files".
// The result is a spreadsheet attachment, or JSON when format=json. Errors
// are always JSON; a partially generated set is never returned.
func (h *QuestionHandler) GenerateQuestions(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	if h.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid multipart form", err)
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			log.Warn("failed to remove multipart temp files", "error", err)
		}
	}()

	params, err := parseGenerateParams(r)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request: "+err.Error(), err)
		return
	}
	if err := shared.ValidateRequest(params); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}
	if params.OpenEndedCount+params.MultipleChoiceCount == 0 {
		shared.RespondWithError(w, r, http.StatusBadRequest, "At least one question must be requested")
		return
	}

	corpus, err := retrieval.ParseCorpusID(params.ModuleCode)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, GetSafeErrorMessage(err), err)
		return
	}

	headers := r.MultipartForm.File[paramFiles]
	if len(headers) == 0 {
		shared.RespondWithError(w, r, http.StatusBadRequest, "At least one file is required")
		return
	}
	docs, closeAll, err := openDocuments(headers)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Failed to read uploaded file", err)
		return
	}
	defer closeAll()

	req := service.QuestionSetRequest{
		Documents:           docs,
		OpenEndedCount:      params.OpenEndedCount,
		MultipleChoiceCount: params.MultipleChoiceCount,
		Corpus:              corpus,
		InputMode:           domain.InputMode(params.InputType),
		Source:              selection.Source(params.ContentSource),
		MaxAnswerLength:     params.MaxAnswerLength,
		Seed:                params.Seed,
	}

	result, err := h.questionService.Generate(r.Context(), req)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	digest, err := export.Digest(result.Set)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, GetSafeErrorMessage(err), err)
		return
	}

	w.Header().Set(HeaderResultDigest, digest)
	w.Header().Set(HeaderGenerationSeed, strconv.FormatInt(params.Seed, 10))
	w.Header().Set(HeaderSkippedReplies, strconv.Itoa(len(result.Skipped)))

	if params.Format == formatJSON {
		shared.RespondWithJSON(w, r, http.StatusOK, toQuestionSetResponse(result, digest, params.Seed))
		return
	}

	var buf bytes.Buffer
	if err := h.exporter.Export(&buf, result.Set); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to build spreadsheet", err)
		return
	}
	shared.RespondWithFile(w, r, export.XLSXContentType, xlsxFilename, buf.Bytes())
}

// parseGenerateParams reads the form parameters. A missing seed is drawn
// from the clock and echoed back so the run can be reproduced.
func parseGenerateParams(r *http.Request) (GenerateQuestionsParams, error) {
	params := GenerateQuestionsParams{
		ModuleCode:    strings.TrimSpace(r.FormValue(paramModuleCode)),
		InputType:     strings.ToLower(strings.TrimSpace(r.FormValue(paramInputType))),
		Format:        strings.ToLower(strings.TrimSpace(r.FormValue(paramFormat))),
		ContentSource: strings.ToLower(strings.TrimSpace(r.FormValue(paramContentSource))),
	}
	if params.Format == "" {
		params.Format = formatXLSX
	}

	var err error
	if params.OpenEndedCount, err = intParam(r, paramOpenEndedCount); err != nil {
		return params, err
	}
	if params.MultipleChoiceCount, err = intParam(r, paramMultipleChoiceCount); err != nil {
		return params, err
	}
	if params.MaxAnswerLength, err = intParam(r, paramMaxAnswerLength); err != nil {
		return params, err
	}

	if raw := strings.TrimSpace(r.FormValue(paramSeed)); raw != "" {
		if params.Seed, err = strconv.ParseInt(raw, 10, 64); err != nil {
			return params, fmt.Errorf("%s must be an integer", paramSeed)
		}
	} else {
		params.Seed = time.Now().UnixNano()
	}
	return params, nil
}

// intParam parses an optional integer parameter; missing means zero.
func intParam(r *http.Request, name string) (int, error) {
	raw := strings.TrimSpace(r.FormValue(name))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	return n, nil
}

// openDocuments opens every uploaded file. The returned func closes them.
func openDocuments(headers []*multipart.FileHeader) ([]service.Document, func(), error) {
	docs := make([]service.Document, 0, len(headers))
	files := make([]multipart.File, 0, len(headers))
	closeAll := func() {
		for _, f := range files {
			_ = f.Close()
		}
	}

	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("open %q: %w", fh.Filename, err)
		}
		files = append(files, f)
		docs = append(docs, service.Document{Name: fh.Filename, Reader: f, Size: fh.Size})
	}
	return docs, closeAll, nil
}

func toQuestionSetResponse(result service.QuestionSetResult, digest string, seed int64) QuestionSetResponse {
	records := result.Set.Records
	if records == nil {
		records = []domain.QuestionRecord{}
	}
	skipped := make([]SkippedReply, len(result.Skipped))
	for i, s := range result.Skipped {
		skipped[i] = SkippedReply{Index: s.Index, Error: "malformed reply"}
	}
	return QuestionSetResponse{
		Records: records,
		Digest:  digest,
		Seed:    seed,
		Skipped: skipped,
	}
}
