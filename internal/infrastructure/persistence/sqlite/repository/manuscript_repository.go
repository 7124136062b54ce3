package repository

import (
	"context"
	"encoding/json"
	"errors"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"lifestory/internal/domain/manuscript"
	"lifestory/internal/errs"
	"lifestory/internal/infrastructure/persistence/sqlite/model"
	"lifestory/internal/ports"
)

func (r *Repository) GetManuscript(ctx context.Context, manuscriptID string) (ports.Manuscript, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.Manuscript{}, err
	}

	var row model.Manuscript
	if err := db.Where("id = ?", manuscriptID).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Manuscript{}, manuscript.ErrManuscriptMissing
		}
		return ports.Manuscript{}, storeErr(err, "query manuscript")
	}
	return mapManuscript(row)
}

func (r *Repository) FindManuscript(ctx context.Context, customerID string, chapterNumber int) (ports.Manuscript, bool, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.Manuscript{}, false, err
	}

	var rows []model.Manuscript
	if err := db.Where("customer_id = ? AND chapter_number = ?", customerID, chapterNumber).
		Limit(1).Find(&rows).Error; err != nil {
		return ports.Manuscript{}, false, storeErr(err, "query manuscript by chapter")
	}
	if len(rows) == 0 {
		return ports.Manuscript{}, false, nil
	}
	out, err := mapManuscript(rows[0])
	if err != nil {
		return ports.Manuscript{}, false, err
	}
	return out, true, nil
}

func (r *Repository) ListManuscripts(ctx context.Context, customerID string, statuses ...manuscript.Status) ([]ports.Manuscript, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	query := db.Where("customer_id = ?", customerID)
	if len(statuses) > 0 {
		values := make([]string, 0, len(statuses))
		for _, status := range statuses {
			values = append(values, string(status))
		}
		query = query.Where("status IN ?", values)
	}

	var rows []model.Manuscript
	if err := query.Order("chapter_number asc").Find(&rows).Error; err != nil {
		return nil, storeErr(err, "query manuscripts")
	}

	items := make([]ports.Manuscript, 0, len(rows))
	for _, row := range rows {
		item, err := mapManuscript(row)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (r *Repository) SaveDraft(ctx context.Context, customerID string, chapterNumber int, rawContent string) (ports.Manuscript, error) {
	var out ports.Manuscript
	err := r.inTx(ctx, func(db *gorm.DB) error {
		now := r.now()

		var rows []model.Manuscript
		if err := db.Where("customer_id = ? AND chapter_number = ?", customerID, chapterNumber).
			Limit(1).Find(&rows).Error; err != nil {
			return storeErr(err, "query manuscript by chapter")
		}

		var id string
		if len(rows) == 0 {
			raw := rawContent
			row := model.Manuscript{
				ID:            newID(),
				CustomerID:    customerID,
				ChapterNumber: chapterNumber,
				RawContent:    &raw,
				RiskCheckLog:  model.NullJSON,
				Status:        string(manuscript.StatusDraft),
				Version:       1,
				CreatedAt:     now,
				UpdatedAt:     now,
			}
			if err := db.Create(&row).Error; err != nil {
				return storeErr(err, "insert manuscript")
			}
			id = row.ID
		} else {
			id = rows[0].ID
			if err := db.Model(&model.Manuscript{}).
				Where("id = ?", id).
				Updates(map[string]any{
					"raw_content":          rawContent,
					"risk_checked_content": nil,
					"risk_check_log":       model.NullJSON,
					"status":               string(manuscript.StatusDraft),
					"version":              gorm.Expr("version + 1"),
					"updated_at":           now,
				}).Error; err != nil {
				return storeErr(err, "overwrite manuscript draft")
			}
		}

		var stored model.Manuscript
		if err := db.Where("id = ?", id).Take(&stored).Error; err != nil {
			return storeErr(err, "reload manuscript")
		}
		mapped, err := mapManuscript(stored)
		if err != nil {
			return err
		}
		out = mapped
		return nil
	})
	return out, err
}

func (r *Repository) SaveRiskCheck(ctx context.Context, manuscriptID string, expectedVersion int64, result manuscript.RiskCheckResult) (ports.Manuscript, error) {
	logJSON, err := encodeRiskLog(result.Log)
	if err != nil {
		return ports.Manuscript{}, err
	}

	var out ports.Manuscript
	err = r.inTx(ctx, func(db *gorm.DB) error {
		res := db.Model(&model.Manuscript{}).
			Where("id = ? AND version = ?", manuscriptID, expectedVersion).
			Updates(map[string]any{
				"risk_checked_content": result.CorrectedContent,
				"risk_check_log":       logJSON,
				"status":               string(manuscript.StatusChecked),
				"updated_at":           r.now(),
			})
		if res.Error != nil {
			return storeErr(res.Error, "store risk check")
		}
		if res.RowsAffected == 0 {
			return missingOrStale(db, manuscriptID)
		}

		var stored model.Manuscript
		if err := db.Where("id = ?", manuscriptID).Take(&stored).Error; err != nil {
			return storeErr(err, "reload manuscript")
		}
		mapped, err := mapManuscript(stored)
		if err != nil {
			return err
		}
		out = mapped
		return nil
	})
	return out, err
}

func (r *Repository) TransitionStatus(ctx context.Context, manuscriptID string, from manuscript.Status, to manuscript.Status) (ports.Manuscript, error) {
	var out ports.Manuscript
	err := r.inTx(ctx, func(db *gorm.DB) error {
		res := db.Model(&model.Manuscript{}).
			Where("id = ? AND status = ?", manuscriptID, string(from)).
			Updates(map[string]any{
				"status":     string(to),
				"updated_at": r.now(),
			})
		if res.Error != nil {
			return storeErr(res.Error, "update manuscript status")
		}
		if res.RowsAffected == 0 {
			return missingOrStale(db, manuscriptID)
		}

		var stored model.Manuscript
		if err := db.Where("id = ?", manuscriptID).Take(&stored).Error; err != nil {
			return storeErr(err, "reload manuscript")
		}
		mapped, err := mapManuscript(stored)
		if err != nil {
			return err
		}
		out = mapped
		return nil
	})
	return out, err
}

// missingOrStale distinguishes a vanished row from a lost compare-and-set.
func missingOrStale(db *gorm.DB, manuscriptID string) error {
	var count int64
	if err := db.Model(&model.Manuscript{}).Where("id = ?", manuscriptID).Count(&count).Error; err != nil {
		return storeErr(err, "count manuscript")
	}
	if count == 0 {
		return manuscript.ErrManuscriptMissing
	}
	return manuscript.ErrStaleManuscript
}

func encodeRiskLog(entries []manuscript.RiskCheckLogEntry) (datatypes.JSON, error) {
	if entries == nil {
		entries = []manuscript.RiskCheckLogEntry{}
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return nil, errs.Wrap(err, "encode risk check log")
	}
	return datatypes.JSON(raw), nil
}

func mapManuscript(row model.Manuscript) (ports.Manuscript, error) {
	out := ports.Manuscript{
		ID:                 row.ID,
		CustomerID:         row.CustomerID,
		ChapterNumber:      row.ChapterNumber,
		RawContent:         row.RawContent,
		RiskCheckedContent: row.RiskCheckedContent,
		Status:             manuscript.Status(row.Status),
		Version:            row.Version,
		CreatedAt:          row.CreatedAt,
		UpdatedAt:          row.UpdatedAt,
	}

	if len(row.RiskCheckLog) > 0 && string(row.RiskCheckLog) != "null" {
		var entries []manuscript.RiskCheckLogEntry
		if err := json.Unmarshal(row.RiskCheckLog, &entries); err != nil {
			return ports.Manuscript{}, storeErr(err, "decode risk check log")
		}
		if entries == nil {
			entries = []manuscript.RiskCheckLogEntry{}
		}
		out.RiskCheckLog = entries
	}
	return out, nil
}
