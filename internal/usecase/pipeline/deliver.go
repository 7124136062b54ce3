package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"lifestory/internal/bootstrap/logging"
	"lifestory/internal/domain/layout"
	"lifestory/internal/domain/manuscript"
	"lifestory/internal/errs"
	"lifestory/internal/ports"
)

const fileSuffix = "jibunshi"

type DeliverInput struct {
	CustomerID string
	// Title defaults to "<name>の自分史".
	Title string
}

type DeliverResult struct {
	Deliverable ports.Deliverable
	PDF         []byte
	// Filename is the suggested download name, not escaped.
	Filename string
	Pages    int
}

// Deliver compiles every checked or approved chapter into a book, records a
// deliverable and marks the customer delivered. Nothing is stored when no
// chapter qualifies.
func (s *Service) Deliver(ctx context.Context, input DeliverInput) (DeliverResult, error) {
	if err := s.checkCall(ctx); err != nil {
		return DeliverResult{}, err
	}
	if s.renderer == nil {
		return DeliverResult{}, errors.New("document renderer is required")
	}

	customer, err := s.repo.GetCustomer(ctx, strings.TrimSpace(input.CustomerID))
	if err != nil {
		return DeliverResult{}, err
	}

	manuscripts, err := s.repo.ListManuscripts(ctx, customer.ID, manuscript.StatusChecked, manuscript.StatusApproved)
	if err != nil {
		return DeliverResult{}, err
	}
	chapters := make([]layout.Chapter, 0, len(manuscripts))
	for _, m := range manuscripts {
		if !m.Status.Deliverable() {
			continue
		}
		chapters = append(chapters, layout.Chapter{Number: m.ChapterNumber, Content: m.DeliveryContent()})
	}
	if len(chapters) == 0 {
		return DeliverResult{}, manuscript.ErrNothingToDeliver
	}

	logCtx := logging.WithAttrs(
		logging.WithComponent(ctx, "usecase.pipeline"),
		slog.String("customer_id", customer.ID),
	)

	now := s.now()
	doc, err := layout.Build(layout.Input{
		AuthorName: customer.Name,
		Title:      input.Title,
		Chapters:   chapters,
		Date:       now,
		Catalog:    s.catalog,
	})
	if err != nil {
		return DeliverResult{}, err
	}

	pdf, err := s.renderer.Render(ctx, doc)
	if err != nil {
		logging.Error(logCtx, "render book failed", slog.Any("err", errs.Loggable(err)))
		return DeliverResult{}, errs.Wrap(err, "render book")
	}

	var pdfURL *string
	if dir := strings.TrimSpace(s.opts.OutputDir); dir != "" {
		path, err := writeCopy(dir, customer.ID, now.Format("20060102T150405Z"), pdf)
		if err != nil {
			logging.Error(logCtx, "store book copy failed", slog.Any("err", errs.Loggable(err)))
			return DeliverResult{}, err
		}
		pdfURL = &path
	}

	var deliverable ports.Deliverable
	if err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		created, err := s.repo.CreateDeliverable(txCtx, ports.Deliverable{
			CustomerID:     customer.ID,
			PDFURL:         pdfURL,
			DeliveredAt:    now,
			DisclaimerText: layout.DisclaimerText,
		})
		if err != nil {
			return err
		}
		deliverable = created
		return s.advanceCustomer(txCtx, customer.ID, manuscript.EventDelivered)
	}); err != nil {
		logging.Error(logCtx, "record delivery failed", slog.Any("err", errs.Loggable(err)))
		if pdfURL != nil {
			// A copy is kept only while a deliverable refers to it.
			if rmErr := os.Remove(*pdfURL); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
				logging.Warn(logCtx, "remove orphaned book copy failed",
					slog.String("path", *pdfURL),
					slog.Any("err", errs.Loggable(rmErr)),
				)
			}
		}
		return DeliverResult{}, err
	}

	logging.Info(logCtx, "book delivered",
		slog.String("deliverable_id", deliverable.ID),
		slog.Int("chapters", len(chapters)),
		slog.Int("pages", len(doc.Pages)),
	)
	return DeliverResult{
		Deliverable: deliverable,
		PDF:         pdf,
		Filename:    fmt.Sprintf("%s_%s.pdf", customer.Name, fileSuffix),
		Pages:       len(doc.Pages),
	}, nil
}

func writeCopy(dir, customerID, stamp string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errs.Wrap(err, "create pdf output directory")
	}
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.pdf", customerID, stamp))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", errs.Wrap(err, "write pdf copy")
	}
	return path, nil
}
