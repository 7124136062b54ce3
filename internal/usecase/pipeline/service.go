// Package pipeline runs the manuscript workflow: application, interviews,
// chapter generation, risk checks and book delivery.
package pipeline

import (
	"context"
	"errors"
	"time"

	"lifestory/internal/domain/catalog"
	"lifestory/internal/errs"
	"lifestory/internal/ports"
)

type Options struct {
	WritingMaxTokens   int64
	RiskCheckMaxTokens int64
	// RiskCheckCacheTTL bounds how long a risk-check result is reused for
	// identical text. Zero keeps results indefinitely.
	RiskCheckCacheTTL time.Duration
	// OutputDir keeps a copy of each delivered PDF when non-empty.
	OutputDir string
	Catalog   *catalog.Catalog
}

type Service struct {
	repo        ports.PipelineRepository
	uow         ports.UnitOfWork
	generator   ports.TextGenerator
	transcriber ports.Transcriber
	renderer    ports.DocumentRenderer
	cache       ports.Cache
	catalog     *catalog.Catalog
	opts        Options
	locks       *keyedLocker
	now         func() time.Time
}

func NewService(
	repo ports.PipelineRepository,
	uow ports.UnitOfWork,
	generator ports.TextGenerator,
	transcriber ports.Transcriber,
	renderer ports.DocumentRenderer,
	cache ports.Cache,
	opts Options,
) *Service {
	cat := opts.Catalog
	if cat == nil {
		cat = catalog.Default()
	}
	if opts.WritingMaxTokens <= 0 {
		opts.WritingMaxTokens = 4096
	}
	if opts.RiskCheckMaxTokens <= 0 {
		opts.RiskCheckMaxTokens = 8192
	}
	return &Service{
		repo:        repo,
		uow:         uow,
		generator:   generator,
		transcriber: transcriber,
		renderer:    renderer,
		cache:       cache,
		catalog:     cat,
		opts:        opts,
		locks:       newKeyedLocker(),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Catalog returns the session themes and chapter templates in use.
func (s *Service) Catalog() *catalog.Catalog {
	return s.catalog
}

func (s *Service) checkCall(ctx context.Context) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return errs.Wrap(err, "check context")
	}
	if s.repo == nil {
		return errors.New("pipeline repository is required")
	}
	if s.uow == nil {
		return errors.New("pipeline unit of work is required")
	}
	return nil
}
