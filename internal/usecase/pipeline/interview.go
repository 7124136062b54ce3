package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"lifestory/internal/bootstrap/logging"
	"lifestory/internal/domain/manuscript"
	"lifestory/internal/errs"
	"lifestory/internal/ports"
)

type SubmitTranscriptInput struct {
	CustomerID    string
	SessionNumber int
	// Text wins over Audio when both are given.
	Text         string
	Audio        *ports.AudioInput
	AudioFileURL *string
}

// SubmitTranscript stores the transcript of one interview session,
// transcribing audio first when no text is supplied. Resubmitting a session
// overwrites it.
func (s *Service) SubmitTranscript(ctx context.Context, input SubmitTranscriptInput) (ports.Interview, error) {
	if err := s.checkCall(ctx); err != nil {
		return ports.Interview{}, err
	}

	if _, ok := s.catalog.Session(input.SessionNumber); !ok {
		return ports.Interview{}, fmt.Errorf("%w: %d", manuscript.ErrInvalidSession, input.SessionNumber)
	}
	text := strings.TrimSpace(input.Text)
	if text == "" && (input.Audio == nil || input.Audio.Data == nil) {
		return ports.Interview{}, errs.New(errs.KindValidation, "transcript text or audio is required")
	}

	customerID := strings.TrimSpace(input.CustomerID)
	if _, err := s.repo.GetCustomer(ctx, customerID); err != nil {
		return ports.Interview{}, err
	}

	logCtx := logging.WithAttrs(
		logging.WithComponent(ctx, "usecase.pipeline"),
		slog.String("customer_id", customerID),
		slog.Int("session", input.SessionNumber),
	)

	source := "manual"
	if text == "" {
		if s.transcriber == nil {
			return ports.Interview{}, errs.New(errs.KindPrecondition, "audio transcription is not available")
		}
		transcribed, err := s.transcriber.Transcribe(ctx, *input.Audio)
		if err != nil {
			return ports.Interview{}, err
		}
		text = strings.TrimSpace(transcribed)
		source = "audio"
	}

	var interview ports.Interview
	if err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		stored, err := s.repo.UpsertInterview(txCtx, ports.InterviewUpsert{
			CustomerID:    customerID,
			SessionNumber: input.SessionNumber,
			Transcription: text,
			AudioFileURL:  trimOptional(input.AudioFileURL),
			CompletedAt:   s.now(),
		})
		if err != nil {
			return err
		}
		interview = stored
		return nil
	}); err != nil {
		logging.Error(logCtx, "store transcript failed", slog.Any("err", errs.Loggable(err)))
		return ports.Interview{}, err
	}

	logging.Info(logCtx, "transcript stored",
		slog.String("source", source),
		slog.Int("chars", len([]rune(text))),
	)
	return interview, nil
}
