// Package openai adapts the OpenAI audio transcription endpoint to
// ports.Transcriber.
package openai

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"lifestory/internal/bootstrap/config"
	"lifestory/internal/bootstrap/logging"
	"lifestory/internal/errs"
	"lifestory/internal/ports"
)

var ErrNotConfigured = errs.New(errs.KindGeneration, "audio transcription is not configured")

type Transcriber struct {
	client   *openaisdk.Client
	model    string
	language string
	timeout  time.Duration
}

var _ ports.Transcriber = (*Transcriber)(nil)

func NewTranscriber(cfg config.TranscriptionConfig, opts ...option.RequestOption) *Transcriber {
	t := &Transcriber{
		model:    cfg.Model,
		language: cfg.Language,
		timeout:  cfg.Timeout,
	}
	if t.model == "" {
		t.model = string(openaisdk.AudioModelWhisper1)
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return t
	}

	// Failed calls are re-triggered by the caller, never retried here.
	clientOpts := []option.RequestOption{option.WithMaxRetries(0), option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(cfg.BaseURL))
	}
	clientOpts = append(clientOpts, opts...)
	client := openaisdk.NewClient(clientOpts...)
	t.client = &client
	return t
}

func (t *Transcriber) Transcribe(ctx context.Context, audio ports.AudioInput) (string, error) {
	if ctx == nil {
		return "", errors.New("context is required")
	}
	if t == nil || t.client == nil {
		return "", ErrNotConfigured
	}
	if audio.Data == nil {
		return "", errs.New(errs.KindValidation, "audio data is required")
	}

	callCtx := ctx
	if t.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	filename := audio.Filename
	if filename == "" {
		filename = "interview.webm"
	}
	contentType := audio.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	params := openaisdk.AudioTranscriptionNewParams{
		File:  openaisdk.File(audio.Data, filename, contentType),
		Model: openaisdk.AudioModel(t.model),
	}
	if t.language != "" {
		params.Language = openaisdk.String(t.language)
	}

	logCtx := logging.WithAttrs(
		logging.WithComponent(ctx, "transcription.openai"),
		slog.String("model", t.model),
		slog.String("filename", filename),
	)
	started := time.Now()

	out, err := t.client.Audio.Transcriptions.New(callCtx, params)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			err = errs.WithKind(errs.Wrap(err, "audio transcription timed out"), errs.KindTimeout)
		} else {
			err = errs.WithKind(errs.Wrap(err, "call audio transcription"), errs.KindGeneration)
		}
		logging.Error(logCtx, "audio transcription failed", slog.Any("err", errs.Loggable(err)))
		return "", err
	}

	text := strings.TrimSpace(out.Text)
	if text == "" {
		return "", errs.New(errs.KindGeneration, "audio transcription returned no text")
	}
	logging.Info(logCtx, "audio transcribed",
		slog.Duration("elapsed", time.Since(started)),
		slog.Int("chars", len([]rune(text))),
	)
	return text, nil
}
