package pipeline

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"testing"
	"time"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"lifestory/internal/domain/layout"
	cacheinfra "lifestory/internal/infrastructure/cache"
	"lifestory/internal/infrastructure/persistence/sqlite/model"
	sqliterepo "lifestory/internal/infrastructure/persistence/sqlite/repository"
	sqliteuow "lifestory/internal/infrastructure/persistence/sqlite/uow"
	"lifestory/internal/ports"
)

const cleanRiskReply = "確認しました。\n```json\n{\"correctedContent\":\"修正後の原稿\",\"log\":[{\"category\":\"third_party\",\"original\":\"田中さん\",\"modified\":\"友人\",\"reason\":\"第三者の実名\"}]}\n```\n以上です。"

type fakeGenerator struct {
	mu       sync.Mutex
	requests []ports.GenerationRequest
	writing  []string
	risk     string
	err      error
	// riskHook runs before a risk_check reply is returned.
	riskHook func()
}

func (g *fakeGenerator) Generate(_ context.Context, req ports.GenerationRequest) (string, error) {
	g.mu.Lock()
	g.requests = append(g.requests, req)
	n := len(g.requests)
	hook := g.riskHook
	g.mu.Unlock()

	if g.err != nil {
		return "", g.err
	}
	if req.Purpose == "risk_check" {
		if hook != nil {
			hook()
		}
		return g.risk, nil
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.writing) > 0 {
		next := g.writing[0]
		g.writing = g.writing[1:]
		return next, nil
	}
	return fmt.Sprintf("生成された原稿 %d", n), nil
}

func (g *fakeGenerator) calls(purpose string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for _, req := range g.requests {
		if req.Purpose == purpose {
			n++
		}
	}
	return n
}

func (g *fakeGenerator) lastPrompt(purpose string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i := len(g.requests) - 1; i >= 0; i-- {
		if g.requests[i].Purpose == purpose {
			return g.requests[i].Prompt
		}
	}
	return ""
}

type fakeTranscriber struct {
	text  string
	calls int
	audio string
}

func (t *fakeTranscriber) Transcribe(_ context.Context, audio ports.AudioInput) (string, error) {
	t.calls++
	raw, err := io.ReadAll(audio.Data)
	if err != nil {
		return "", err
	}
	t.audio = string(raw)
	return t.text, nil
}

type recordingRenderer struct {
	docs []layout.Document
}

func (r *recordingRenderer) Render(_ context.Context, doc layout.Document) ([]byte, error) {
	r.docs = append(r.docs, doc)
	return []byte("%PDF-1.3 fake"), nil
}

type testEnv struct {
	svc         *Service
	repo        *sqliterepo.Repository
	generator   *fakeGenerator
	transcriber *fakeTranscriber
	renderer    *recordingRenderer
}

func setupService(t *testing.T, opts Options) *testEnv {
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
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	if err := db.AutoMigrate(model.All()...); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}

	env := &testEnv{
		repo:        sqliterepo.New(db),
		generator:   &fakeGenerator{risk: cleanRiskReply},
		transcriber: &fakeTranscriber{text: "音声から起こした文章"},
		renderer:    &recordingRenderer{},
	}
	env.svc = NewService(env.repo, sqliteuow.NewUnitOfWork(db), env.generator, env.transcriber, env.renderer, cacheinfra.NewSQLiteCache(db), opts)
	env.svc.now = func() time.Time { return time.Date(2026, 5, 3, 10, 0, 0, 0, time.UTC) }
	return env
}

func (e *testEnv) applyCustomer(t *testing.T, name string) ports.Customer {
	t.Helper()
	customer, err := e.svc.ApplyCustomer(context.Background(), ApplyCustomerInput{
		Name:  name,
		Email: "family@example.com",
		Phone: "03-0000-0000",
	})
	if err != nil {
		t.Fatalf("ApplyCustomer() error = %v", err)
	}
	return customer
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }
