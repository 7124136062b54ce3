package repository

import (
	"context"

	"lifestory/internal/infrastructure/persistence/sqlite/model"
	"lifestory/internal/ports"
)

func (r *Repository) CreateFeedback(ctx context.Context, feedback ports.Feedback) (ports.Feedback, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.Feedback{}, err
	}

	row := model.Feedback{
		ID:                  newID(),
		CustomerID:          feedback.CustomerID,
		OverallSatisfaction: feedback.OverallSatisfaction,
		Accuracy:            feedback.Accuracy,
		Readability:         feedback.Readability,
		InterviewExperience: feedback.InterviewExperience,
		NPS:                 feedback.NPS,
		Improvements:        feedback.Improvements,
		FairPrice:           feedback.FairPrice,
		DesiredFeatures:     feedback.DesiredFeatures,
		CreatedAt:           r.now(),
	}
	if err := db.Create(&row).Error; err != nil {
		return ports.Feedback{}, storeErr(err, "insert feedback")
	}
	return mapFeedback(row), nil
}

func (r *Repository) ListFeedbacks(ctx context.Context, customerID string) ([]ports.Feedback, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var rows []model.Feedback
	if err := db.Where("customer_id = ?", customerID).Order("created_at asc").Find(&rows).Error; err != nil {
		return nil, storeErr(err, "query feedbacks")
	}

	items := make([]ports.Feedback, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapFeedback(row))
	}
	return items, nil
}

func mapFeedback(row model.Feedback) ports.Feedback {
	return ports.Feedback{
		ID:                  row.ID,
		CustomerID:          row.CustomerID,
		OverallSatisfaction: row.OverallSatisfaction,
		Accuracy:            row.Accuracy,
		Readability:         row.Readability,
		InterviewExperience: row.InterviewExperience,
		NPS:                 row.NPS,
		Improvements:        row.Improvements,
		FairPrice:           row.FairPrice,
		DesiredFeatures:     row.DesiredFeatures,
		CreatedAt:           row.CreatedAt,
	}
}
