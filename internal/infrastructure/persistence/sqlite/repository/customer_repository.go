package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"lifestory/internal/domain/manuscript"
	"lifestory/internal/infrastructure/persistence/sqlite/model"
	"lifestory/internal/ports"
)

func (r *Repository) CreateCustomer(ctx context.Context, customer ports.Customer) (ports.Customer, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.Customer{}, err
	}

	now := r.now()
	row := model.Customer{
		ID:                newID(),
		Name:              customer.Name,
		Age:               customer.Age,
		Email:             customer.Email,
		Phone:             customer.Phone,
		ParentSituation:   customer.ParentSituation,
		ApplicationReason: customer.ApplicationReason,
		Status:            string(customer.Status),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if row.Status == "" {
		row.Status = string(manuscript.CustomerApplied)
	}
	if err := db.Create(&row).Error; err != nil {
		return ports.Customer{}, storeErr(err, "insert customer")
	}
	return mapCustomer(row), nil
}

func (r *Repository) GetCustomer(ctx context.Context, customerID string) (ports.Customer, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.Customer{}, err
	}

	var row model.Customer
	if err := db.Where("id = ?", customerID).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Customer{}, manuscript.ErrCustomerNotFound
		}
		return ports.Customer{}, storeErr(err, "query customer")
	}
	return mapCustomer(row), nil
}

func (r *Repository) ListCustomers(ctx context.Context) ([]ports.Customer, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var rows []model.Customer
	if err := db.Order("created_at desc").Order("id asc").Find(&rows).Error; err != nil {
		return nil, storeErr(err, "query customers")
	}

	items := make([]ports.Customer, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapCustomer(row))
	}
	return items, nil
}

func (r *Repository) UpdateCustomerStatus(ctx context.Context, customerID string, status manuscript.CustomerStatus) error {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	result := db.Model(&model.Customer{}).
		Where("id = ?", customerID).
		Updates(map[string]any{
			"status":     string(status),
			"updated_at": r.now(),
		})
	if result.Error != nil {
		return storeErr(result.Error, "update customer status")
	}
	if result.RowsAffected == 0 {
		return manuscript.ErrCustomerNotFound
	}
	return nil
}

func mapCustomer(row model.Customer) ports.Customer {
	return ports.Customer{
		ID:                row.ID,
		Name:              row.Name,
		Age:               row.Age,
		Email:             row.Email,
		Phone:             row.Phone,
		ParentSituation:   row.ParentSituation,
		ApplicationReason: row.ApplicationReason,
		Status:            manuscript.CustomerStatus(row.Status),
		CreatedAt:         row.CreatedAt,
		UpdatedAt:         row.UpdatedAt,
	}
}
