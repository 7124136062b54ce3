package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"lifestory/internal/domain/manuscript"
	"lifestory/internal/infrastructure/persistence/sqlite/model"
	"lifestory/internal/ports"
)

// UpsertInterview stores the transcription for (customer, session). A second
// submission overwrites the transcription and completion time.
func (r *Repository) UpsertInterview(ctx context.Context, input ports.InterviewUpsert) (ports.Interview, error) {
	var out ports.Interview
	err := r.inTx(ctx, func(db *gorm.DB) error {
		completedAt := input.CompletedAt
		transcription := input.Transcription
		row := model.Interview{
			ID:            newID(),
			CustomerID:    input.CustomerID,
			SessionNumber: input.SessionNumber,
			CompletedAt:   &completedAt,
			AudioFileURL:  input.AudioFileURL,
			Transcription: &transcription,
			Status:        string(manuscript.InterviewCompleted),
		}

		updates := map[string]any{
			"transcription": transcription,
			"completed_at":  completedAt,
			"status":        row.Status,
		}
		if input.AudioFileURL != nil {
			updates["audio_file_url"] = *input.AudioFileURL
		}

		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "customer_id"}, {Name: "session_number"}},
			DoUpdates: clause.Assignments(updates),
		}).Create(&row).Error; err != nil {
			return storeErr(err, "upsert interview")
		}

		var stored model.Interview
		if err := db.Where("customer_id = ? AND session_number = ?", input.CustomerID, input.SessionNumber).
			Take(&stored).Error; err != nil {
			return storeErr(err, "reload interview")
		}
		out = mapInterview(stored)
		return nil
	})
	return out, err
}

func (r *Repository) ListInterviews(ctx context.Context, customerID string) ([]ports.Interview, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var rows []model.Interview
	if err := db.Where("customer_id = ?", customerID).Order("session_number asc").Find(&rows).Error; err != nil {
		return nil, storeErr(err, "query interviews")
	}

	items := make([]ports.Interview, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapInterview(row))
	}
	return items, nil
}

func mapInterview(row model.Interview) ports.Interview {
	return ports.Interview{
		ID:              row.ID,
		CustomerID:      row.CustomerID,
		SessionNumber:   row.SessionNumber,
		ScheduledAt:     row.ScheduledAt,
		CompletedAt:     row.CompletedAt,
		AudioFileURL:    row.AudioFileURL,
		Transcription:   row.Transcription,
		ConsentAudioURL: row.ConsentAudioURL,
		Status:          manuscript.InterviewStatus(row.Status),
	}
}
