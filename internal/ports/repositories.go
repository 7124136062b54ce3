package ports

import (
	"context"
	"time"

	"lifestory/internal/domain/manuscript"
)

type Customer struct {
	ID                string
	Name              string
	Age               *int
	Email             string
	Phone             string
	ParentSituation   *string
	ApplicationReason *string
	Status            manuscript.CustomerStatus
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type Interview struct {
	ID              string
	CustomerID      string
	SessionNumber   int
	ScheduledAt     *time.Time
	CompletedAt     *time.Time
	AudioFileURL    *string
	Transcription   *string
	ConsentAudioURL *string
	Status          manuscript.InterviewStatus
}

type InterviewUpsert struct {
	CustomerID    string
	SessionNumber int
	Transcription string
	AudioFileURL  *string
	CompletedAt   time.Time
}

// Manuscript is one generated chapter. RiskCheckedContent and RiskCheckLog
// are set exactly when Status.HasRiskCheck(). Version increases on every
// regeneration.
type Manuscript struct {
	ID                 string
	CustomerID         string
	ChapterNumber      int
	RawContent         *string
	RiskCheckedContent *string
	RiskCheckLog       []manuscript.RiskCheckLogEntry
	Status             manuscript.Status
	Version            int64
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// DeliveryContent is the text that goes into the book: the risk-checked
// version when present, the raw draft otherwise.
func (m Manuscript) DeliveryContent() string {
	if m.RiskCheckedContent != nil && *m.RiskCheckedContent != "" {
		return *m.RiskCheckedContent
	}
	if m.RawContent != nil {
		return *m.RawContent
	}
	return ""
}

type Deliverable struct {
	ID             string
	CustomerID     string
	PDFURL         *string
	DeliveredAt    time.Time
	DisclaimerText string
}

type Feedback struct {
	ID                  string
	CustomerID          string
	OverallSatisfaction *int
	Accuracy            *int
	Readability         *int
	InterviewExperience *int
	NPS                 *int
	Improvements        *string
	FairPrice           *string
	DesiredFeatures     *string
	CreatedAt           time.Time
}

type CustomerRepository interface {
	CreateCustomer(ctx context.Context, customer Customer) (Customer, error)
	GetCustomer(ctx context.Context, customerID string) (Customer, error)
	ListCustomers(ctx context.Context) ([]Customer, error)
	UpdateCustomerStatus(ctx context.Context, customerID string, status manuscript.CustomerStatus) error
}

type InterviewRepository interface {
	UpsertInterview(ctx context.Context, input InterviewUpsert) (Interview, error)
	ListInterviews(ctx context.Context, customerID string) ([]Interview, error)
}

type ManuscriptRepository interface {
	GetManuscript(ctx context.Context, manuscriptID string) (Manuscript, error)
	FindManuscript(ctx context.Context, customerID string, chapterNumber int) (Manuscript, bool, error)
	ListManuscripts(ctx context.Context, customerID string, statuses ...manuscript.Status) ([]Manuscript, error)
	// SaveDraft creates or overwrites the chapter as a draft, clearing any
	// risk-check result and bumping the version.
	SaveDraft(ctx context.Context, customerID string, chapterNumber int, rawContent string) (Manuscript, error)
	// SaveRiskCheck stores a result only if the manuscript is still at
	// expectedVersion; otherwise it fails with manuscript.ErrStaleManuscript.
	SaveRiskCheck(ctx context.Context, manuscriptID string, expectedVersion int64, result manuscript.RiskCheckResult) (Manuscript, error)
	// TransitionStatus moves from -> to, failing with ErrStaleManuscript if the
	// stored status is no longer from.
	TransitionStatus(ctx context.Context, manuscriptID string, from manuscript.Status, to manuscript.Status) (Manuscript, error)
}

type DeliverableRepository interface {
	CreateDeliverable(ctx context.Context, deliverable Deliverable) (Deliverable, error)
	ListDeliverables(ctx context.Context, customerID string) ([]Deliverable, error)
}

type FeedbackRepository interface {
	CreateFeedback(ctx context.Context, feedback Feedback) (Feedback, error)
	ListFeedbacks(ctx context.Context, customerID string) ([]Feedback, error)
}

// PipelineRepository is the persistence store used by the manuscript pipeline.
type PipelineRepository interface {
	CustomerRepository
	InterviewRepository
	ManuscriptRepository
	DeliverableRepository
	FeedbackRepository
}
