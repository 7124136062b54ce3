package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"lifestory/internal/bootstrap/logging"
	"lifestory/internal/domain/manuscript"
	"lifestory/internal/domain/prompt"
	"lifestory/internal/errs"
	"lifestory/internal/ports"
)

type GenerateChapterInput struct {
	CustomerID    string
	ChapterNumber int
	// Transcripts are used in order; when empty the customer's completed
	// interviews are used in session order.
	Transcripts []string
}

// GenerateChapter writes a chapter draft. An existing manuscript for the
// chapter is overwritten and returns to draft, dropping its risk check.
func (s *Service) GenerateChapter(ctx context.Context, input GenerateChapterInput) (ports.Manuscript, error) {
	if err := s.checkCall(ctx); err != nil {
		return ports.Manuscript{}, err
	}
	if s.generator == nil {
		return ports.Manuscript{}, errors.New("text generator is required")
	}

	if _, ok := s.catalog.Chapter(input.ChapterNumber); !ok {
		return ports.Manuscript{}, fmt.Errorf("%w: %d", manuscript.ErrInvalidChapter, input.ChapterNumber)
	}

	customerID := strings.TrimSpace(input.CustomerID)
	customer, err := s.repo.GetCustomer(ctx, customerID)
	if err != nil {
		return ports.Manuscript{}, err
	}

	transcripts, err := s.collectTranscripts(ctx, customer.ID, input.Transcripts)
	if err != nil {
		return ports.Manuscript{}, err
	}
	instruction, err := prompt.BuildWriting(s.catalog, input.ChapterNumber, transcripts)
	if err != nil {
		return ports.Manuscript{}, err
	}

	logCtx := logging.WithAttrs(
		logging.WithComponent(ctx, "usecase.pipeline"),
		slog.String("customer_id", customer.ID),
		slog.Int("chapter", input.ChapterNumber),
	)

	release, err := s.locks.acquire(ctx, chapterKey(customer.ID, input.ChapterNumber))
	if err != nil {
		return ports.Manuscript{}, err
	}
	defer release()

	content, err := s.generator.Generate(ctx, ports.GenerationRequest{
		Purpose:   "chapter_writing",
		Prompt:    instruction,
		MaxTokens: s.opts.WritingMaxTokens,
	})
	if err != nil {
		logging.Error(logCtx, "chapter generation failed", slog.Any("err", errs.Loggable(err)))
		return ports.Manuscript{}, errs.WithKind(err, errs.KindGeneration)
	}
	if strings.TrimSpace(content) == "" {
		return ports.Manuscript{}, errs.New(errs.KindGeneration, "generated chapter is empty")
	}

	var saved ports.Manuscript
	if err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		prior, found, err := s.repo.FindManuscript(txCtx, customer.ID, input.ChapterNumber)
		if err != nil {
			return err
		}
		if found && prior.Status.HasRiskCheck() {
			logging.Warn(logCtx, "regenerating chapter discards its risk check",
				slog.String("manuscript_id", prior.ID),
				slog.String("previous_status", string(prior.Status)),
				slog.Int64("previous_version", prior.Version),
			)
		}

		saved, err = s.repo.SaveDraft(txCtx, customer.ID, input.ChapterNumber, content)
		if err != nil {
			return err
		}
		return s.advanceCustomer(txCtx, customer.ID, manuscript.EventChapterGenerated)
	}); err != nil {
		logging.Error(logCtx, "store chapter draft failed", slog.Any("err", errs.Loggable(err)))
		return ports.Manuscript{}, err
	}

	logging.Info(logCtx, "chapter drafted",
		slog.String("manuscript_id", saved.ID),
		slog.Int64("version", saved.Version),
	)
	return saved, nil
}

func (s *Service) collectTranscripts(ctx context.Context, customerID string, explicit []string) ([]string, error) {
	var out []string
	for _, text := range explicit {
		if trimmed := strings.TrimSpace(text); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(explicit) > 0 {
		if len(out) != len(explicit) {
			return nil, fmt.Errorf("%w: transcripts must not be blank", manuscript.ErrNoTranscripts)
		}
		return out, nil
	}

	interviews, err := s.repo.ListInterviews(ctx, customerID)
	if err != nil {
		return nil, err
	}
	for _, interview := range interviews {
		if interview.Status != manuscript.InterviewCompleted || interview.Transcription == nil {
			continue
		}
		if trimmed := strings.TrimSpace(*interview.Transcription); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return nil, manuscript.ErrNoTranscripts
	}
	return out, nil
}

// advanceCustomer applies event to the stored customer status.
func (s *Service) advanceCustomer(ctx context.Context, customerID string, event manuscript.CustomerEvent) error {
	customer, err := s.repo.GetCustomer(ctx, customerID)
	if err != nil {
		return err
	}
	next, err := manuscript.NextCustomerStatus(customer.Status, event)
	if err != nil {
		return err
	}
	if next == customer.Status {
		return nil
	}
	return s.repo.UpdateCustomerStatus(ctx, customerID, next)
}
