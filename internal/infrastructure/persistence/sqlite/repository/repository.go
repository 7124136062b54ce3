package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"lifestory/internal/errs"
	"lifestory/internal/ports"
)

// Repository implements ports.PipelineRepository on gorm. Calls made with a
// context from ports.UnitOfWork join that transaction.
type Repository struct {
	db  *gorm.DB
	now func() time.Time
}

var _ ports.PipelineRepository = (*Repository)(nil)

func New(db *gorm.DB) *Repository {
	return &Repository{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (r *Repository) dbFromContext(ctx context.Context) (*gorm.DB, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}

	tx := ports.TxFromContext(ctx)
	if tx == nil {
		return r.db.WithContext(ctx), nil
	}

	gormTx, ok := tx.(*gorm.DB)
	if !ok || gormTx == nil {
		return nil, fmt.Errorf("invalid tx in context: %T", tx)
	}
	return gormTx.WithContext(ctx), nil
}

// inTx runs fn inside the caller's transaction, or a new one if none.
func (r *Repository) inTx(ctx context.Context, fn func(db *gorm.DB) error) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if ports.TxFromContext(ctx) != nil {
		db, err := r.dbFromContext(ctx)
		if err != nil {
			return err
		}
		return fn(db)
	}
	return r.db.WithContext(ctx).Transaction(fn)
}

func newID() string {
	return uuid.NewString()
}

// storeErr tags database failures as persistence errors.
func storeErr(err error, msg string) error {
	return errs.WithKind(errs.Wrap(err, msg), errs.KindPersistence)
}
