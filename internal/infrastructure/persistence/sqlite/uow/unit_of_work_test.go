package uow

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"lifestory/internal/domain/manuscript"
	"lifestory/internal/infrastructure/persistence/sqlite/model"
	"lifestory/internal/infrastructure/persistence/sqlite/repository"
	"lifestory/internal/ports"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "uow.sqlite")
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
	return db
}

func TestWithTxRollsBackOnError(t *testing.T) {
	db := setupDB(t)
	repo := repository.New(db)
	uow := NewUnitOfWork(db)
	ctx := context.Background()

	customer, err := repo.CreateCustomer(ctx, ports.Customer{Name: "山田花子", Email: "h@example.com", Phone: "090"})
	if err != nil {
		t.Fatalf("CreateCustomer() error = %v", err)
	}

	boom := errors.New("boom")
	err = uow.WithTx(ctx, func(txCtx context.Context) error {
		if _, err := repo.SaveDraft(txCtx, customer.ID, 1, "本文"); err != nil {
			return err
		}
		if err := repo.UpdateCustomerStatus(txCtx, customer.ID, manuscript.CustomerWriting); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("WithTx() error = %v, want boom", err)
	}

	if _, found, err := repo.FindManuscript(ctx, customer.ID, 1); err != nil || found {
		t.Fatalf("FindManuscript() found=%v err=%v, want rolled back", found, err)
	}
	got, err := repo.GetCustomer(ctx, customer.ID)
	if err != nil {
		t.Fatalf("GetCustomer() error = %v", err)
	}
	if got.Status != manuscript.CustomerApplied {
		t.Fatalf("status = %q, want applied", got.Status)
	}
}

func TestWithTxCommits(t *testing.T) {
	db := setupDB(t)
	repo := repository.New(db)
	uow := NewUnitOfWork(db)
	ctx := context.Background()

	customer, err := repo.CreateCustomer(ctx, ports.Customer{Name: "佐藤", Email: "s@example.com", Phone: "080"})
	if err != nil {
		t.Fatalf("CreateCustomer() error = %v", err)
	}

	err = uow.WithTx(ctx, func(txCtx context.Context) error {
		if _, err := repo.SaveDraft(txCtx, customer.ID, 2, "第二章"); err != nil {
			return err
		}
		// nested calls join the outer transaction
		return uow.WithTx(txCtx, func(inner context.Context) error {
			return repo.UpdateCustomerStatus(inner, customer.ID, manuscript.CustomerWriting)
		})
	})
	if err != nil {
		t.Fatalf("WithTx() error = %v", err)
	}

	if _, found, err := repo.FindManuscript(ctx, customer.ID, 2); err != nil || !found {
		t.Fatalf("FindManuscript() found=%v err=%v", found, err)
	}
	got, err := repo.GetCustomer(ctx, customer.ID)
	if err != nil {
		t.Fatalf("GetCustomer() error = %v", err)
	}
	if got.Status != manuscript.CustomerWriting {
		t.Fatalf("status = %q, want writing", got.Status)
	}
}
