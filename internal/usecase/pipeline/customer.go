package pipeline

import (
	"context"
	"log/slog"
	"strings"

	"lifestory/internal/bootstrap/logging"
	"lifestory/internal/domain/manuscript"
	"lifestory/internal/errs"
	"lifestory/internal/ports"
)

type ApplyCustomerInput struct {
	Name              string
	Age               *int
	Email             string
	Phone             string
	ParentSituation   *string
	ApplicationReason *string
}

// CustomerDetail is a customer with everything the pipeline produced for it.
type CustomerDetail struct {
	ports.Customer
	Interviews   []ports.Interview
	Manuscripts  []ports.Manuscript
	Deliverables []ports.Deliverable
	Feedbacks    []ports.Feedback
}

// ApplyCustomer records a new application in status applied.
func (s *Service) ApplyCustomer(ctx context.Context, input ApplyCustomerInput) (ports.Customer, error) {
	if err := s.checkCall(ctx); err != nil {
		return ports.Customer{}, err
	}

	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.Email)
	phone := strings.TrimSpace(input.Phone)
	switch {
	case name == "":
		return ports.Customer{}, errs.New(errs.KindValidation, "name is required")
	case email == "":
		return ports.Customer{}, errs.New(errs.KindValidation, "email is required")
	case phone == "":
		return ports.Customer{}, errs.New(errs.KindValidation, "phone is required")
	}
	if input.Age != nil && (*input.Age < 0 || *input.Age > 150) {
		return ports.Customer{}, errs.New(errs.KindValidation, "age is out of range")
	}

	customer, err := s.repo.CreateCustomer(ctx, ports.Customer{
		Name:              name,
		Age:               input.Age,
		Email:             email,
		Phone:             phone,
		ParentSituation:   trimOptional(input.ParentSituation),
		ApplicationReason: trimOptional(input.ApplicationReason),
		Status:            manuscript.CustomerApplied,
	})
	if err != nil {
		return ports.Customer{}, err
	}

	logging.Info(
		logging.WithComponent(ctx, "usecase.pipeline"),
		"customer applied",
		slog.String("customer_id", customer.ID),
	)
	return customer, nil
}

// ListCustomers returns every customer, newest first, with related records.
func (s *Service) ListCustomers(ctx context.Context) ([]CustomerDetail, error) {
	if err := s.checkCall(ctx); err != nil {
		return nil, err
	}

	customers, err := s.repo.ListCustomers(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]CustomerDetail, 0, len(customers))
	for _, customer := range customers {
		detail, err := s.loadDetail(ctx, customer)
		if err != nil {
			return nil, err
		}
		out = append(out, detail)
	}
	return out, nil
}

func (s *Service) GetCustomer(ctx context.Context, customerID string) (CustomerDetail, error) {
	if err := s.checkCall(ctx); err != nil {
		return CustomerDetail{}, err
	}

	customer, err := s.repo.GetCustomer(ctx, strings.TrimSpace(customerID))
	if err != nil {
		return CustomerDetail{}, err
	}
	return s.loadDetail(ctx, customer)
}

func (s *Service) loadDetail(ctx context.Context, customer ports.Customer) (CustomerDetail, error) {
	detail := CustomerDetail{Customer: customer}

	var err error
	if detail.Interviews, err = s.repo.ListInterviews(ctx, customer.ID); err != nil {
		return CustomerDetail{}, err
	}
	if detail.Manuscripts, err = s.repo.ListManuscripts(ctx, customer.ID); err != nil {
		return CustomerDetail{}, err
	}
	if detail.Deliverables, err = s.repo.ListDeliverables(ctx, customer.ID); err != nil {
		return CustomerDetail{}, err
	}
	if detail.Feedbacks, err = s.repo.ListFeedbacks(ctx, customer.ID); err != nil {
		return CustomerDetail{}, err
	}
	return detail, nil
}

func trimOptional(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
