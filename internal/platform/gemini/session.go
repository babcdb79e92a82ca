package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/intelliexam/exam-api/internal/config"
	"github.com/intelliexam/exam-api/internal/generation"
	"google.golang.org/genai"
)

// chatCreator is the subset of *genai.Chats used to start sessions.
type chatCreator interface {
	Create(ctx context.Context, model string, config *genai.GenerateContentConfig,
		history []*genai.Content) (*genai.Chat, error)
}

// messageSender is the subset of *genai.Chat used to exchange messages.
type messageSender interface {
	SendMessage(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// SessionOpener implements generation.SessionOpener with Gemini chat sessions.
type SessionOpener struct {
	chats  chatCreator
	model  string
	config *genai.GenerateContentConfig
	logger *slog.Logger
}

var _ generation.SessionOpener = (*SessionOpener)(nil)

// NewSessionOpener creates an opener that starts chats on client with the
// model and temperature from cfg.
func NewSessionOpener(client *genai.Client, cfg config.LLMConfig, logger *slog.Logger) (*SessionOpener, error) {
	if client == nil {
		return nil, fmt.Errorf("%w: gemini client cannot be nil", generation.ErrInvalidConfig)
	}
	return newSessionOpener(client.Chats, cfg, logger)
}

func newSessionOpener(chats chatCreator, cfg config.LLMConfig, logger *slog.Logger) (*SessionOpener, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}
	temperature := cfg.Temperature
	return &SessionOpener{
		chats: chats,
		model: cfg.ModelName,
		config: &genai.GenerateContentConfig{
			Temperature:      &temperature,
			ResponseMIMEType: "application/json",
		},
		logger: logger.With("component", "gemini_session_opener", "model", cfg.ModelName),
	}, nil
}

// Open starts a chat with empty history.
func (o *SessionOpener) Open(ctx context.Context) (generation.Session, error) {
	chat, err := o.chats.Create(ctx, o.model, o.config, nil)
	if err != nil {
		return nil, classifyAPIError(err)
	}
	o.logger.DebugContext(ctx, "Opened Gemini chat session")
	return &session{chat: chat, logger: o.logger}, nil
}

type session struct {
	chat   messageSender
	logger *slog.Logger
}

// Send issues prompt as one chat turn and returns the reply text.
func (s *session) Send(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", ErrEmptyPrompt
	}

	resp, err := s.chat.SendMessage(ctx, genai.Part{Text: prompt})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("%w: %w", generation.ErrTransientFailure, ctxErr)
		}
		return "", classifyAPIError(err)
	}
	return replyText(resp)
}

// replyText extracts the text of the first candidate, classifying empty and
// blocked responses.
func replyText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("%w: nil response", generation.ErrInvalidResponse)
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("%w: prompt blocked (%s)", generation.ErrContentBlocked, resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse)
	}
	if resp.Candidates[0].FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("%w: content blocked by safety filters", generation.ErrContentBlocked)
	}
	if resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("%w: empty content in response", generation.ErrInvalidResponse)
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && !part.Thought {
			sb.WriteString(part.Text)
		}
	}
	return sb.String(), nil
}
