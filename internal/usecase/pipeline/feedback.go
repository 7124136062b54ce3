package pipeline

import (
	"context"
	"fmt"
	"strings"

	"lifestory/internal/errs"
	"lifestory/internal/ports"
)

type SubmitFeedbackInput struct {
	CustomerID          string
	OverallSatisfaction *int
	Accuracy            *int
	Readability         *int
	InterviewExperience *int
	NPS                 *int
	Improvements        *string
	FairPrice           *string
	DesiredFeatures     *string
}

func (s *Service) SubmitFeedback(ctx context.Context, input SubmitFeedbackInput) (ports.Feedback, error) {
	if err := s.checkCall(ctx); err != nil {
		return ports.Feedback{}, err
	}

	ratings := []struct {
		name  string
		value *int
	}{
		{"overallSatisfaction", input.OverallSatisfaction},
		{"accuracy", input.Accuracy},
		{"readability", input.Readability},
		{"interviewExperience", input.InterviewExperience},
	}
	for _, r := range ratings {
		if r.value != nil && (*r.value < 1 || *r.value > 5) {
			return ports.Feedback{}, errs.New(errs.KindValidation, fmt.Sprintf("%s must be between 1 and 5", r.name))
		}
	}
	if input.NPS != nil && (*input.NPS < 0 || *input.NPS > 10) {
		return ports.Feedback{}, errs.New(errs.KindValidation, "nps must be between 0 and 10")
	}

	customer, err := s.repo.GetCustomer(ctx, strings.TrimSpace(input.CustomerID))
	if err != nil {
		return ports.Feedback{}, err
	}

	return s.repo.CreateFeedback(ctx, ports.Feedback{
		CustomerID:          customer.ID,
		OverallSatisfaction: input.OverallSatisfaction,
		Accuracy:            input.Accuracy,
		Readability:         input.Readability,
		InterviewExperience: input.InterviewExperience,
		NPS:                 input.NPS,
		Improvements:        trimOptional(input.Improvements),
		FairPrice:           trimOptional(input.FairPrice),
		DesiredFeatures:     trimOptional(input.DesiredFeatures),
	})
}
