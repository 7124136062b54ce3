package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"lifestory/internal/domain/manuscript"
	"lifestory/internal/errs"
	"lifestory/internal/infrastructure/persistence/sqlite/model"
	"lifestory/internal/ports"
)

func setupRepository(t *testing.T) *Repository {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "pipeline.sqlite")
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	if err := db.AutoMigrate(model.All()...); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}

	repo := New(db)
	base := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	tick := 0
	repo.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	return repo
}

func createCustomer(t *testing.T, repo *Repository, name string) ports.Customer {
	t.Helper()
	customer, err := repo.CreateCustomer(context.Background(), ports.Customer{
		Name:  name,
		Email: name + "@example.com",
		Phone: "090-0000-0000",
	})
	if err != nil {
		t.Fatalf("CreateCustomer() error = %v", err)
	}
	return customer
}

func TestCustomerLifecycle(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()

	first := createCustomer(t, repo, "first")
	second := createCustomer(t, repo, "second")
	if first.Status != manuscript.CustomerApplied {
		t.Fatalf("default status = %q", first.Status)
	}

	items, err := repo.ListCustomers(ctx)
	if err != nil {
		t.Fatalf("ListCustomers() error = %v", err)
	}
	if len(items) != 2 || items[0].ID != second.ID || items[1].ID != first.ID {
		t.Fatalf("ListCustomers() order = %+v, want newest first", items)
	}

	if err := repo.UpdateCustomerStatus(ctx, first.ID, manuscript.CustomerWriting); err != nil {
		t.Fatalf("UpdateCustomerStatus() error = %v", err)
	}
	got, err := repo.GetCustomer(ctx, first.ID)
	if err != nil {
		t.Fatalf("GetCustomer() error = %v", err)
	}
	if got.Status != manuscript.CustomerWriting {
		t.Fatalf("status = %q", got.Status)
	}

	if _, err := repo.GetCustomer(ctx, "missing"); !errors.Is(err, manuscript.ErrCustomerNotFound) {
		t.Fatalf("GetCustomer(missing) error = %v", err)
	}
	if err := repo.UpdateCustomerStatus(ctx, "missing", manuscript.CustomerWriting); !errors.Is(err, manuscript.ErrCustomerNotFound) {
		t.Fatalf("UpdateCustomerStatus(missing) error = %v", err)
	}
}

func TestUpsertInterviewOverwrites(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()
	customer := createCustomer(t, repo, "interviewee")

	at := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	if _, err := repo.UpsertInterview(ctx, ports.InterviewUpsert{
		CustomerID: customer.ID, SessionNumber: 2, Transcription: "二回目", CompletedAt: at,
	}); err != nil {
		t.Fatalf("UpsertInterview() error = %v", err)
	}
	if _, err := repo.UpsertInterview(ctx, ports.InterviewUpsert{
		CustomerID: customer.ID, SessionNumber: 1, Transcription: "初回", CompletedAt: at,
	}); err != nil {
		t.Fatalf("UpsertInterview() error = %v", err)
	}
	updated, err := repo.UpsertInterview(ctx, ports.InterviewUpsert{
		CustomerID: customer.ID, SessionNumber: 1, Transcription: "初回（修正）", CompletedAt: at.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("UpsertInterview() error = %v", err)
	}
	if updated.Transcription == nil || *updated.Transcription != "初回（修正）" {
		t.Fatalf("transcription = %v", updated.Transcription)
	}
	if updated.Status != manuscript.InterviewCompleted {
		t.Fatalf("status = %q", updated.Status)
	}

	items, err := repo.ListInterviews(ctx, customer.ID)
	if err != nil {
		t.Fatalf("ListInterviews() error = %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("ListInterviews() len = %d", len(items))
	}
	if items[0].SessionNumber != 1 || items[1].SessionNumber != 2 {
		t.Fatalf("ListInterviews() order = %d,%d", items[0].SessionNumber, items[1].SessionNumber)
	}
}

func TestSaveDraftResetsRiskCheck(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()
	customer := createCustomer(t, repo, "writer")

	draft, err := repo.SaveDraft(ctx, customer.ID, 1, "生の原稿")
	if err != nil {
		t.Fatalf("SaveDraft() error = %v", err)
	}
	if draft.Status != manuscript.StatusDraft || draft.Version != 1 {
		t.Fatalf("draft = %+v", draft)
	}
	if draft.RiskCheckLog != nil || draft.RiskCheckedContent != nil {
		t.Fatalf("new draft carries risk check: %+v", draft)
	}

	checked, err := repo.SaveRiskCheck(ctx, draft.ID, draft.Version, manuscript.RiskCheckResult{
		CorrectedContent: "修正済み",
		Log: []manuscript.RiskCheckLogEntry{{
			Category: manuscript.CategoryThirdParty,
			Original: "田中太郎",
			Modified: "ある友人",
			Reason:   "実名",
		}},
	})
	if err != nil {
		t.Fatalf("SaveRiskCheck() error = %v", err)
	}
	if checked.Status != manuscript.StatusChecked {
		t.Fatalf("status = %q", checked.Status)
	}
	if checked.RiskCheckedContent == nil || *checked.RiskCheckedContent != "修正済み" {
		t.Fatalf("risk checked content = %v", checked.RiskCheckedContent)
	}
	if len(checked.RiskCheckLog) != 1 || checked.RiskCheckLog[0].Original != "田中太郎" {
		t.Fatalf("risk check log = %+v", checked.RiskCheckLog)
	}

	regenerated, err := repo.SaveDraft(ctx, customer.ID, 1, "新しい原稿")
	if err != nil {
		t.Fatalf("SaveDraft() regenerate error = %v", err)
	}
	if regenerated.ID != draft.ID {
		t.Fatalf("regenerate created a new row: %s != %s", regenerated.ID, draft.ID)
	}
	if regenerated.Status != manuscript.StatusDraft || regenerated.Version != 2 {
		t.Fatalf("regenerated = %+v", regenerated)
	}
	if regenerated.RiskCheckedContent != nil || regenerated.RiskCheckLog != nil {
		t.Fatalf("regenerated keeps stale risk check: %+v", regenerated)
	}
	if regenerated.DeliveryContent() != "新しい原稿" {
		t.Fatalf("DeliveryContent() = %q", regenerated.DeliveryContent())
	}

	// a result computed against version 1 must not land on version 2
	_, err = repo.SaveRiskCheck(ctx, draft.ID, draft.Version, manuscript.RiskCheckResult{
		CorrectedContent: "古い結果",
		Log:              []manuscript.RiskCheckLogEntry{},
	})
	if !errors.Is(err, manuscript.ErrStaleManuscript) {
		t.Fatalf("SaveRiskCheck(stale) error = %v", err)
	}
	if !errs.Is(err, errs.KindConflict) {
		t.Fatalf("stale error kind = %q", errs.KindOf(err))
	}

	if _, err := repo.SaveRiskCheck(ctx, "missing", 1, manuscript.RiskCheckResult{}); !errors.Is(err, manuscript.ErrManuscriptMissing) {
		t.Fatalf("SaveRiskCheck(missing) error = %v", err)
	}
}

func TestEmptyRiskLogRoundTrip(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()
	customer := createCustomer(t, repo, "clean")

	draft, err := repo.SaveDraft(ctx, customer.ID, 3, "問題のない原稿")
	if err != nil {
		t.Fatalf("SaveDraft() error = %v", err)
	}
	checked, err := repo.SaveRiskCheck(ctx, draft.ID, draft.Version, manuscript.RiskCheckResult{
		CorrectedContent: "問題のない原稿",
	})
	if err != nil {
		t.Fatalf("SaveRiskCheck() error = %v", err)
	}
	if checked.RiskCheckLog == nil || len(checked.RiskCheckLog) != 0 {
		t.Fatalf("risk check log = %#v, want empty non-nil", checked.RiskCheckLog)
	}
}

func TestTransitionStatusAndListFilter(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()
	customer := createCustomer(t, repo, "approver")

	ch2, err := repo.SaveDraft(ctx, customer.ID, 2, "二章")
	if err != nil {
		t.Fatalf("SaveDraft() error = %v", err)
	}
	ch1, err := repo.SaveDraft(ctx, customer.ID, 1, "一章")
	if err != nil {
		t.Fatalf("SaveDraft() error = %v", err)
	}
	if _, err := repo.SaveDraft(ctx, customer.ID, 3, "三章"); err != nil {
		t.Fatalf("SaveDraft() error = %v", err)
	}

	for _, m := range []ports.Manuscript{ch1, ch2} {
		if _, err := repo.SaveRiskCheck(ctx, m.ID, m.Version, manuscript.RiskCheckResult{CorrectedContent: "ok"}); err != nil {
			t.Fatalf("SaveRiskCheck() error = %v", err)
		}
	}

	approved, err := repo.TransitionStatus(ctx, ch2.ID, manuscript.StatusChecked, manuscript.StatusApproved)
	if err != nil {
		t.Fatalf("TransitionStatus() error = %v", err)
	}
	if approved.Status != manuscript.StatusApproved {
		t.Fatalf("status = %q", approved.Status)
	}
	if _, err := repo.TransitionStatus(ctx, ch2.ID, manuscript.StatusChecked, manuscript.StatusApproved); !errors.Is(err, manuscript.ErrStaleManuscript) {
		t.Fatalf("TransitionStatus(repeat) error = %v", err)
	}

	deliverable, err := repo.ListManuscripts(ctx, customer.ID, manuscript.StatusChecked, manuscript.StatusApproved)
	if err != nil {
		t.Fatalf("ListManuscripts() error = %v", err)
	}
	if len(deliverable) != 2 || deliverable[0].ChapterNumber != 1 || deliverable[1].ChapterNumber != 2 {
		t.Fatalf("ListManuscripts(filter) = %+v", deliverable)
	}

	all, err := repo.ListManuscripts(ctx, customer.ID)
	if err != nil {
		t.Fatalf("ListManuscripts() error = %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("ListManuscripts() len = %d", len(all))
	}
}

func TestDeliverablesAndFeedbacks(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()
	customer := createCustomer(t, repo, "reader")

	url := "file:///books/reader.pdf"
	older, err := repo.CreateDeliverable(ctx, ports.Deliverable{
		CustomerID:     customer.ID,
		DeliveredAt:    time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		DisclaimerText: "disclaimer",
	})
	if err != nil {
		t.Fatalf("CreateDeliverable() error = %v", err)
	}
	newer, err := repo.CreateDeliverable(ctx, ports.Deliverable{
		CustomerID:     customer.ID,
		PDFURL:         &url,
		DeliveredAt:    time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		DisclaimerText: "disclaimer",
	})
	if err != nil {
		t.Fatalf("CreateDeliverable() error = %v", err)
	}

	items, err := repo.ListDeliverables(ctx, customer.ID)
	if err != nil {
		t.Fatalf("ListDeliverables() error = %v", err)
	}
	if len(items) != 2 || items[0].ID != newer.ID || items[1].ID != older.ID {
		t.Fatalf("ListDeliverables() = %+v", items)
	}
	if items[0].PDFURL == nil || *items[0].PDFURL != url {
		t.Fatalf("pdf url = %v", items[0].PDFURL)
	}

	nps := 9
	if _, err := repo.CreateFeedback(ctx, ports.Feedback{CustomerID: customer.ID, NPS: &nps}); err != nil {
		t.Fatalf("CreateFeedback() error = %v", err)
	}
	feedbacks, err := repo.ListFeedbacks(ctx, customer.ID)
	if err != nil {
		t.Fatalf("ListFeedbacks() error = %v", err)
	}
	if len(feedbacks) != 1 || feedbacks[0].NPS == nil || *feedbacks[0].NPS != 9 {
		t.Fatalf("ListFeedbacks() = %+v", feedbacks)
	}
}
