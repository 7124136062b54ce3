package httpapi

import (
	"time"

	"lifestory/internal/domain/manuscript"
	"lifestory/internal/ports"
	"lifestory/internal/usecase/pipeline"
)

type customerResponse struct {
	ID                string                `json:"id"`
	Name              string                `json:"name"`
	Age               *int                  `json:"age"`
	Email             string                `json:"email"`
	Phone             string                `json:"phone"`
	ParentSituation   *string               `json:"parentSituation"`
	ApplicationReason *string               `json:"applicationReason"`
	Status            string                `json:"status"`
	CreatedAt         time.Time             `json:"createdAt"`
	UpdatedAt         time.Time             `json:"updatedAt"`
	Interviews        []interviewResponse   `json:"interviews,omitempty"`
	Manuscripts       []manuscriptResponse  `json:"manuscripts,omitempty"`
	Deliverables      []deliverableResponse `json:"deliverables,omitempty"`
	Feedbacks         []feedbackResponse    `json:"feedbacks,omitempty"`
}

type interviewResponse struct {
	ID              string     `json:"id"`
	CustomerID      string     `json:"customerId"`
	SessionNumber   int        `json:"sessionNumber"`
	ScheduledAt     *time.Time `json:"scheduledAt"`
	CompletedAt     *time.Time `json:"completedAt"`
	AudioFileURL    *string    `json:"audioFileUrl"`
	Transcription   *string    `json:"transcription"`
	ConsentAudioURL *string    `json:"consentAudioUrl"`
	Status          string     `json:"status"`
}

type manuscriptResponse struct {
	ID                 string                         `json:"id"`
	CustomerID         string                         `json:"customerId"`
	ChapterNumber      int                            `json:"chapterNumber"`
	RawContent         *string                        `json:"rawContent"`
	RiskCheckedContent *string                        `json:"riskCheckedContent"`
	RiskCheckLog       []manuscript.RiskCheckLogEntry `json:"riskCheckLog"`
	Status             string                         `json:"status"`
	Version            int64                          `json:"version"`
	CreatedAt          time.Time                      `json:"createdAt"`
	UpdatedAt          time.Time                      `json:"updatedAt"`
}

type deliverableResponse struct {
	ID             string    `json:"id"`
	CustomerID     string    `json:"customerId"`
	PDFURL         *string   `json:"pdfUrl"`
	DeliveredAt    time.Time `json:"deliveredAt"`
	DisclaimerText string    `json:"disclaimerText"`
}

type feedbackResponse struct {
	ID                  string    `json:"id"`
	CustomerID          string    `json:"customerId"`
	OverallSatisfaction *int      `json:"overallSatisfaction"`
	Accuracy            *int      `json:"accuracy"`
	Readability         *int      `json:"readability"`
	InterviewExperience *int      `json:"interviewExperience"`
	NPS                 *int      `json:"nps"`
	Improvements        *string   `json:"improvements"`
	FairPrice           *string   `json:"fairPrice"`
	DesiredFeatures     *string   `json:"desiredFeatures"`
	CreatedAt           time.Time `json:"createdAt"`
}

type applyCustomerRequest struct {
	Name              string  `json:"name"`
	Age               *int    `json:"age"`
	Email             string  `json:"email"`
	Phone             string  `json:"phone"`
	ParentSituation   *string `json:"parentSituation"`
	ApplicationReason *string `json:"applicationReason"`
}

type transcriptRequest struct {
	SessionNumber int     `json:"sessionNumber"`
	Text          string  `json:"text"`
	AudioFileURL  *string `json:"audioFileUrl"`
}

type generateRequest struct {
	Transcripts []string `json:"transcripts"`
}

type deliverRequest struct {
	Title string `json:"title"`
}

type feedbackRequest struct {
	OverallSatisfaction *int    `json:"overallSatisfaction"`
	Accuracy            *int    `json:"accuracy"`
	Readability         *int    `json:"readability"`
	InterviewExperience *int    `json:"interviewExperience"`
	NPS                 *int    `json:"nps"`
	Improvements        *string `json:"improvements"`
	FairPrice           *string `json:"fairPrice"`
	DesiredFeatures     *string `json:"desiredFeatures"`
}

func toCustomer(c ports.Customer) customerResponse {
	return customerResponse{
		ID:                c.ID,
		Name:              c.Name,
		Age:               c.Age,
		Email:             c.Email,
		Phone:             c.Phone,
		ParentSituation:   c.ParentSituation,
		ApplicationReason: c.ApplicationReason,
		Status:            string(c.Status),
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
}

func toCustomerDetail(d pipeline.CustomerDetail) customerResponse {
	out := toCustomer(d.Customer)
	out.Interviews = make([]interviewResponse, 0, len(d.Interviews))
	for _, i := range d.Interviews {
		out.Interviews = append(out.Interviews, toInterview(i))
	}
	out.Manuscripts = make([]manuscriptResponse, 0, len(d.Manuscripts))
	for _, m := range d.Manuscripts {
		out.Manuscripts = append(out.Manuscripts, toManuscript(m))
	}
	out.Deliverables = make([]deliverableResponse, 0, len(d.Deliverables))
	for _, v := range d.Deliverables {
		out.Deliverables = append(out.Deliverables, toDeliverable(v))
	}
	out.Feedbacks = make([]feedbackResponse, 0, len(d.Feedbacks))
	for _, f := range d.Feedbacks {
		out.Feedbacks = append(out.Feedbacks, toFeedback(f))
	}
	return out
}

func toInterview(i ports.Interview) interviewResponse {
	return interviewResponse{
		ID:              i.ID,
		CustomerID:      i.CustomerID,
		SessionNumber:   i.SessionNumber,
		ScheduledAt:     i.ScheduledAt,
		CompletedAt:     i.CompletedAt,
		AudioFileURL:    i.AudioFileURL,
		Transcription:   i.Transcription,
		ConsentAudioURL: i.ConsentAudioURL,
		Status:          string(i.Status),
	}
}

func toManuscript(m ports.Manuscript) manuscriptResponse {
	return manuscriptResponse{
		ID:                 m.ID,
		CustomerID:         m.CustomerID,
		ChapterNumber:      m.ChapterNumber,
		RawContent:         m.RawContent,
		RiskCheckedContent: m.RiskCheckedContent,
		RiskCheckLog:       m.RiskCheckLog,
		Status:             string(m.Status),
		Version:            m.Version,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

func toDeliverable(d ports.Deliverable) deliverableResponse {
	return deliverableResponse{
		ID:             d.ID,
		CustomerID:     d.CustomerID,
		PDFURL:         d.PDFURL,
		DeliveredAt:    d.DeliveredAt,
		DisclaimerText: d.DisclaimerText,
	}
}

func toFeedback(f ports.Feedback) feedbackResponse {
	return feedbackResponse{
		ID:                  f.ID,
		CustomerID:          f.CustomerID,
		OverallSatisfaction: f.OverallSatisfaction,
		Accuracy:            f.Accuracy,
		Readability:         f.Readability,
		InterviewExperience: f.InterviewExperience,
		NPS:                 f.NPS,
		Improvements:        f.Improvements,
		FairPrice:           f.FairPrice,
		DesiredFeatures:     f.DesiredFeatures,
		CreatedAt:           f.CreatedAt,
	}
}
