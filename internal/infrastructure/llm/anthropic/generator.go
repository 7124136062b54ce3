// Package anthropic adapts the Anthropic Messages API to ports.TextGenerator.
package anthropic

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"lifestory/internal/bootstrap/config"
	"lifestory/internal/bootstrap/logging"
	"lifestory/internal/errs"
	"lifestory/internal/ports"
)

var (
	ErrNotConfigured = errs.New(errs.KindGeneration, "text generation is not configured")
	ErrEmptyReply    = errs.New(errs.KindGeneration, "text generation returned no text")
)

// Generator sends one user message per request and returns the concatenated
// text blocks of the reply.
type Generator struct {
	messages *anthropicsdk.MessageService
	model    string
	timeout  time.Duration
}

var _ ports.TextGenerator = (*Generator)(nil)

func NewGenerator(cfg config.LLMConfig, opts ...option.RequestOption) *Generator {
	g := &Generator{
		model:   cfg.Model,
		timeout: cfg.Timeout,
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return g
	}

	// Failed calls are re-triggered by the caller, never retried here.
	clientOpts := []option.RequestOption{option.WithMaxRetries(0), option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(cfg.BaseURL))
	}
	clientOpts = append(clientOpts, opts...)
	client := anthropicsdk.NewClient(clientOpts...)
	g.messages = &client.Messages
	return g
}

func (g *Generator) Generate(ctx context.Context, req ports.GenerationRequest) (string, error) {
	if ctx == nil {
		return "", errors.New("context is required")
	}
	if g == nil || g.messages == nil {
		return "", ErrNotConfigured
	}
	if req.MaxTokens <= 0 {
		return "", errs.New(errs.KindValidation, "max tokens must be positive")
	}

	callCtx := ctx
	if g.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	logCtx := logging.WithAttrs(
		logging.WithComponent(ctx, "llm.anthropic"),
		slog.String("purpose", req.Purpose),
		slog.String("model", g.model),
	)
	started := time.Now()

	msg, err := g.messages.New(callCtx, anthropicsdk.MessageNewParams{
		Model:     anthropicsdk.Model(g.model),
		MaxTokens: req.MaxTokens,
		Messages: []anthropicsdk.MessageParam{
			anthropicsdk.NewUserMessage(anthropicsdk.NewTextBlock(req.Prompt)),
		},
	})
	if err != nil {
		err = classify(callCtx, err)
		logging.Error(logCtx, "text generation failed",
			slog.Duration("elapsed", time.Since(started)),
			slog.Any("err", errs.Loggable(err)),
		)
		return "", err
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	text := b.String()
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyReply
	}

	logging.Info(logCtx, "text generated",
		slog.Duration("elapsed", time.Since(started)),
		slog.Int("chars", len([]rune(text))),
		slog.String("stop_reason", string(msg.StopReason)),
	)
	return text, nil
}

// classify maps a failed call to timeout when our deadline fired and to
// generation otherwise.
func classify(callCtx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded) {
		return errs.WithKind(errs.Wrap(err, "text generation timed out"), errs.KindTimeout)
	}
	return errs.WithKind(errs.Wrap(err, "call text generation"), errs.KindGeneration)
}
