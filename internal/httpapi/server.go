// Package httpapi exposes the manuscript pipeline over JSON/HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"lifestory/internal/bootstrap/logging"
	"lifestory/internal/domain/catalog"
	"lifestory/internal/errs"
	"lifestory/internal/ports"
	"lifestory/internal/usecase/pipeline"
)

const (
	maxJSONBody  = 1 << 20
	maxAudioBody = 100 << 20
)

// Pipeline is the set of use cases served over HTTP.
type Pipeline interface {
	Catalog() *catalog.Catalog
	ApplyCustomer(ctx context.Context, input pipeline.ApplyCustomerInput) (ports.Customer, error)
	ListCustomers(ctx context.Context) ([]pipeline.CustomerDetail, error)
	GetCustomer(ctx context.Context, customerID string) (pipeline.CustomerDetail, error)
	SubmitTranscript(ctx context.Context, input pipeline.SubmitTranscriptInput) (ports.Interview, error)
	GenerateChapter(ctx context.Context, input pipeline.GenerateChapterInput) (ports.Manuscript, error)
	RiskCheck(ctx context.Context, manuscriptID string) (ports.Manuscript, error)
	ApproveManuscript(ctx context.Context, manuscriptID string) (ports.Manuscript, error)
	Deliver(ctx context.Context, input pipeline.DeliverInput) (pipeline.DeliverResult, error)
	SubmitFeedback(ctx context.Context, input pipeline.SubmitFeedbackInput) (ports.Feedback, error)
}

var _ Pipeline = (*pipeline.Service)(nil)

type Server struct {
	svc Pipeline
}

func New(svc Pipeline) *Server {
	return &Server{svc: svc}
}

// Routes returns the router with request-id and access logging installed.
func (s *Server) Routes(base context.Context) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(withLogging(base))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeData(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/catalog", s.getCatalog)

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", s.listCustomers)
			r.Post("/", s.applyCustomer)

			r.Route("/{customerID}", func(r chi.Router) {
				r.Get("/", s.getCustomer)
				r.Post("/interviews", s.submitTranscript)
				r.Post("/chapters/{chapter}/generate", s.generateChapter)
				r.Post("/pdf", s.deliver)
				r.Post("/feedback", s.submitFeedback)
			})
		})

		r.Route("/manuscripts/{manuscriptID}", func(r chi.Router) {
			r.Post("/risk-check", s.riskCheck)
			r.Post("/approve", s.approve)
		})
	})
	return r
}

// withLogging carries the base logger and the chi request id into every
// request context and logs completion.
func withLogging(base context.Context) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := logging.WithLogger(r.Context(), logging.Logger(base))
			ctx = logging.WithAttrs(ctx, logging.Attrs(base)...)
			ctx = logging.WithComponent(ctx, "httpapi")
			ctx = logging.WithRequestID(ctx, middleware.GetReqID(r.Context()))

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			started := time.Now()
			next.ServeHTTP(ww, r.WithContext(ctx))

			logging.Info(ctx, "http request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.Status()),
				slog.Int("bytes", ww.BytesWritten()),
				slog.Duration("elapsed", time.Since(started)),
			)
		})
	}
}

func (s *Server) getCatalog(w http.ResponseWriter, _ *http.Request) {
	writeData(w, http.StatusOK, s.svc.Catalog())
}

func (s *Server) listCustomers(w http.ResponseWriter, r *http.Request) {
	items, err := s.svc.ListCustomers(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]customerResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toCustomerDetail(item))
	}
	writeData(w, http.StatusOK, out)
}

func (s *Server) applyCustomer(w http.ResponseWriter, r *http.Request) {
	var req applyCustomerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	customer, err := s.svc.ApplyCustomer(r.Context(), pipeline.ApplyCustomerInput{
		Name:              req.Name,
		Age:               req.Age,
		Email:             req.Email,
		Phone:             req.Phone,
		ParentSituation:   req.ParentSituation,
		ApplicationReason: req.ApplicationReason,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, toCustomer(customer))
}

func (s *Server) getCustomer(w http.ResponseWriter, r *http.Request) {
	detail, err := s.svc.GetCustomer(r.Context(), chi.URLParam(r, "customerID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, toCustomerDetail(detail))
}

// submitTranscript accepts JSON {sessionNumber, text} or a multipart form
// with sessionNumber, optional text and an "audio" file.
func (s *Server) submitTranscript(w http.ResponseWriter, r *http.Request) {
	input := pipeline.SubmitTranscriptInput{CustomerID: chi.URLParam(r, "customerID")}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		r.Body = http.MaxBytesReader(w, r.Body, maxAudioBody)
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			writeError(w, r, errs.WithKind(errs.Wrap(err, "parse multipart form"), errs.KindValidation))
			return
		}
		session, err := strconv.Atoi(strings.TrimSpace(r.FormValue("sessionNumber")))
		if err != nil {
			writeError(w, r, errs.New(errs.KindValidation, "sessionNumber must be an integer"))
			return
		}
		input.SessionNumber = session
		input.Text = r.FormValue("text")

		file, header, err := r.FormFile("audio")
		switch {
		case err == nil:
			defer file.Close()
			input.Audio = &ports.AudioInput{
				Filename:    header.Filename,
				ContentType: header.Header.Get("Content-Type"),
				Data:        file,
			}
		case errors.Is(err, http.ErrMissingFile):
		default:
			writeError(w, r, errs.WithKind(errs.Wrap(err, "read audio file"), errs.KindValidation))
			return
		}
	} else {
		var req transcriptRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		input.SessionNumber = req.SessionNumber
		input.Text = req.Text
		input.AudioFileURL = req.AudioFileURL
	}

	interview, err := s.svc.SubmitTranscript(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, toInterview(interview))
}

func (s *Server) generateChapter(w http.ResponseWriter, r *http.Request) {
	chapter, err := strconv.Atoi(chi.URLParam(r, "chapter"))
	if err != nil {
		writeError(w, r, errs.New(errs.KindValidation, "chapter must be an integer"))
		return
	}
	var req generateRequest
	if err := decodeOptionalJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	m, err := s.svc.GenerateChapter(r.Context(), pipeline.GenerateChapterInput{
		CustomerID:    chi.URLParam(r, "customerID"),
		ChapterNumber: chapter,
		Transcripts:   req.Transcripts,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, toManuscript(m))
}

func (s *Server) riskCheck(w http.ResponseWriter, r *http.Request) {
	m, err := s.svc.RiskCheck(r.Context(), chi.URLParam(r, "manuscriptID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, toManuscript(m))
}

func (s *Server) approve(w http.ResponseWriter, r *http.Request) {
	m, err := s.svc.ApproveManuscript(r.Context(), chi.URLParam(r, "manuscriptID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, toManuscript(m))
}

func (s *Server) deliver(w http.ResponseWriter, r *http.Request) {
	var req deliverRequest
	if err := decodeOptionalJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	result, err := s.svc.Deliver(r.Context(), pipeline.DeliverInput{
		CustomerID: chi.URLParam(r, "customerID"),
		Title:      req.Title,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, url.PathEscape(result.Filename)))
	w.Header().Set("Content-Length", strconv.Itoa(len(result.PDF)))
	w.Header().Set("X-Deliverable-Id", result.Deliverable.ID)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.PDF)
}

func (s *Server) submitFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	fb, err := s.svc.SubmitFeedback(r.Context(), pipeline.SubmitFeedbackInput{
		CustomerID:          chi.URLParam(r, "customerID"),
		OverallSatisfaction: req.OverallSatisfaction,
		Accuracy:            req.Accuracy,
		Readability:         req.Readability,
		InterviewExperience: req.InterviewExperience,
		NPS:                 req.NPS,
		Improvements:        req.Improvements,
		FairPrice:           req.FairPrice,
		DesiredFeatures:     req.DesiredFeatures,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, toFeedback(fb))
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errs.WithKind(errs.Wrap(err, "invalid request body"), errs.KindValidation)
	}
	return nil
}

// decodeOptionalJSON treats an empty body as the zero request.
func decodeOptionalJSON(r *http.Request, dst any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	err := decodeJSON(r, dst)
	if err != nil && errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
