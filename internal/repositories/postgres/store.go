package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/clintmariano/careerlog/internal/models"
	"github.com/clintmariano/careerlog/internal/utils"
	"gorm.io/gorm"
)

// Repos groups the repositories that share one connection or transaction.
type Repos struct {
	Applications ApplicationRepository
	Activities   ActivityRepository
	Attachments  AttachmentRepository
}

// TxRunner runs fn inside a single database transaction. fn sees repositories
// bound to that transaction; returning an error rolls everything back.
type TxRunner interface {
	InTx(ctx context.Context, fn func(r Repos) error) error
}

type Store struct {
	Repos
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{Repos: newRepos(db), db: db}
}

func newRepos(db *gorm.DB) Repos {
	return Repos{
		Applications: NewApplicationRepo(db),
		Activities:   NewActivityRepo(db),
		Attachments:  NewAttachmentRepo(db),
	}
}

func (s *Store) InTx(ctx context.Context, fn func(r Repos) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(newRepos(tx))
	})
}

// Migrate creates or updates the three tables and their indexes.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Application{}, &models.Activity{}, &models.Attachment{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.ErrNotFound
	}
	return err
}

func duplicate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return utils.ErrDuplicate
	}
	return err
}

// weekStart renders the Monday of col's week as YYYY-MM-DD.
func weekStart(db *gorm.DB, col string) string {
	if db.Dialector.Name() == "sqlite" {
		return fmt.Sprintf("date(substr(%s, 1, 10), 'weekday 0', '-6 days')", col)
	}
	return fmt.Sprintf("to_char(date_trunc('week', %s), 'YYYY-MM-DD')", col)
}
