package repository

import (
	"context"

	"lifestory/internal/infrastructure/persistence/sqlite/model"
	"lifestory/internal/ports"
)

func (r *Repository) CreateDeliverable(ctx context.Context, deliverable ports.Deliverable) (ports.Deliverable, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.Deliverable{}, err
	}

	row := model.Deliverable{
		ID:             newID(),
		CustomerID:     deliverable.CustomerID,
		PDFURL:         deliverable.PDFURL,
		DeliveredAt:    deliverable.DeliveredAt,
		DisclaimerText: deliverable.DisclaimerText,
	}
	if row.DeliveredAt.IsZero() {
		row.DeliveredAt = r.now()
	}
	if err := db.Create(&row).Error; err != nil {
		return ports.Deliverable{}, storeErr(err, "insert deliverable")
	}
	return mapDeliverable(row), nil
}

func (r *Repository) ListDeliverables(ctx context.Context, customerID string) ([]ports.Deliverable, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var rows []model.Deliverable
	if err := db.Where("customer_id = ?", customerID).
		Order("delivered_at desc").Order("id asc").
		Find(&rows).Error; err != nil {
		return nil, storeErr(err, "query deliverables")
	}

	items := make([]ports.Deliverable, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapDeliverable(row))
	}
	return items, nil
}

func mapDeliverable(row model.Deliverable) ports.Deliverable {
	return ports.Deliverable{
		ID:             row.ID,
		CustomerID:     row.CustomerID,
		PDFURL:         row.PDFURL,
		DeliveredAt:    row.DeliveredAt,
		DisclaimerText: row.DisclaimerText,
	}
}
