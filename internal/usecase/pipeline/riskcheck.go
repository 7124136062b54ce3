package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"lifestory/internal/bootstrap/logging"
	"lifestory/internal/domain/manuscript"
	"lifestory/internal/domain/riskcheck"
	"lifestory/internal/errs"
	"lifestory/internal/ports"
)

// RiskCheck screens the stored draft of a manuscript and stores the corrected
// text with its change log. The result is discarded with ErrStaleManuscript
// if the chapter was regenerated meanwhile.
func (s *Service) RiskCheck(ctx context.Context, manuscriptID string) (ports.Manuscript, error) {
	if err := s.checkCall(ctx); err != nil {
		return ports.Manuscript{}, err
	}
	if s.generator == nil {
		return ports.Manuscript{}, errors.New("text generator is required")
	}

	manuscriptID = strings.TrimSpace(manuscriptID)
	current, err := s.repo.GetManuscript(ctx, manuscriptID)
	if err != nil {
		return ports.Manuscript{}, err
	}

	release, err := s.locks.acquire(ctx, chapterKey(current.CustomerID, current.ChapterNumber))
	if err != nil {
		return ports.Manuscript{}, err
	}
	defer release()

	// re-read under the lock
	current, err = s.repo.GetManuscript(ctx, manuscriptID)
	if err != nil {
		return ports.Manuscript{}, err
	}
	raw := ""
	if current.RawContent != nil {
		raw = *current.RawContent
	}
	if err := manuscript.CheckRiskCheckable(current.Status, strings.TrimSpace(raw)); err != nil {
		return ports.Manuscript{}, err
	}

	instruction, err := riskcheck.Build(raw)
	if err != nil {
		return ports.Manuscript{}, err
	}

	logCtx := logging.WithAttrs(
		logging.WithComponent(ctx, "usecase.pipeline"),
		slog.String("customer_id", current.CustomerID),
		slog.Int("chapter", current.ChapterNumber),
		slog.String("manuscript_id", current.ID),
	)

	key := riskCheckCacheKey(raw)
	result, hit := s.cachedRiskCheck(logCtx, key)
	if !hit {
		reply, err := s.generator.Generate(ctx, ports.GenerationRequest{
			Purpose:   "risk_check",
			Prompt:    instruction,
			MaxTokens: s.opts.RiskCheckMaxTokens,
		})
		if err != nil {
			logging.Error(logCtx, "risk check generation failed", slog.Any("err", errs.Loggable(err)))
			return ports.Manuscript{}, errs.WithKind(err, errs.KindGeneration)
		}

		result, err = riskcheck.Parse(reply)
		if err != nil {
			logging.Error(logCtx, "risk check reply rejected", slog.Any("err", errs.Loggable(err)))
			return ports.Manuscript{}, err
		}
		s.storeRiskCheck(logCtx, key, result)
	}

	checked, err := s.repo.SaveRiskCheck(ctx, current.ID, current.Version, result)
	if err != nil {
		logging.Error(logCtx, "store risk check failed", slog.Any("err", errs.Loggable(err)))
		return ports.Manuscript{}, err
	}

	logging.Info(logCtx, "risk check stored",
		slog.Int("changes", len(result.Log)),
		slog.Bool("cached", hit),
	)
	return checked, nil
}

// ApproveManuscript is the manual checked -> approved step.
func (s *Service) ApproveManuscript(ctx context.Context, manuscriptID string) (ports.Manuscript, error) {
	if err := s.checkCall(ctx); err != nil {
		return ports.Manuscript{}, err
	}

	manuscriptID = strings.TrimSpace(manuscriptID)
	current, err := s.repo.GetManuscript(ctx, manuscriptID)
	if err != nil {
		return ports.Manuscript{}, err
	}

	release, err := s.locks.acquire(ctx, chapterKey(current.CustomerID, current.ChapterNumber))
	if err != nil {
		return ports.Manuscript{}, err
	}
	defer release()

	current, err = s.repo.GetManuscript(ctx, manuscriptID)
	if err != nil {
		return ports.Manuscript{}, err
	}
	if err := manuscript.CheckApprovable(current.Status); err != nil {
		return ports.Manuscript{}, err
	}

	approved, err := s.repo.TransitionStatus(ctx, current.ID, manuscript.StatusChecked, manuscript.StatusApproved)
	if err != nil {
		return ports.Manuscript{}, err
	}

	logging.Info(
		logging.WithComponent(ctx, "usecase.pipeline"),
		"manuscript approved",
		slog.String("manuscript_id", approved.ID),
		slog.Int("chapter", approved.ChapterNumber),
	)
	return approved, nil
}

func riskCheckCacheKey(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return "riskcheck:" + hex.EncodeToString(sum[:])
}

// cachedRiskCheck returns a stored result for identical text. Cache failures
// only cost a generator call.
func (s *Service) cachedRiskCheck(ctx context.Context, key string) (manuscript.RiskCheckResult, bool) {
	if s.cache == nil {
		return manuscript.RiskCheckResult{}, false
	}
	value, found, err := s.cache.Get(ctx, key)
	if err != nil {
		logging.Warn(ctx, "risk check cache read failed", slog.Any("err", errs.Loggable(err)))
		return manuscript.RiskCheckResult{}, false
	}
	if !found {
		return manuscript.RiskCheckResult{}, false
	}
	result, err := riskcheck.Parse(value)
	if err != nil {
		logging.Warn(ctx, "discarding unreadable risk check cache entry", slog.Any("err", errs.Loggable(err)))
		_ = s.cache.Delete(ctx, key)
		return manuscript.RiskCheckResult{}, false
	}
	return result, true
}

func (s *Service) storeRiskCheck(ctx context.Context, key string, result manuscript.RiskCheckResult) {
	if s.cache == nil {
		return
	}
	if result.Log == nil {
		result.Log = []manuscript.RiskCheckLogEntry{}
	}
	raw, err := json.Marshal(result)
	if err != nil {
		logging.Warn(ctx, "encode risk check for cache failed", slog.Any("err", errs.Loggable(err)))
		return
	}
	if err := s.cache.Set(ctx, key, string(raw), s.opts.RiskCheckCacheTTL); err != nil {
		logging.Warn(ctx, "risk check cache write failed", slog.Any("err", errs.Loggable(err)))
	}
}
