package services

import (
	"context"
	"time"

	"github.com/clintmariano/careerlog/internal/models"
	pgrepo "github.com/clintmariano/careerlog/internal/repositories/postgres"
	"github.com/clintmariano/careerlog/internal/utils"
	"github.com/sirupsen/logrus"
)

const maxPageSize = 100

type ApplicationPage struct {
	Content       []models.Application `json:"content"`
	Page          int                  `json:"page"`
	Size          int                  `json:"size"`
	TotalElements int64                `json:"total_elements"`
	TotalPages    int                  `json:"total_pages"`
}

type ApplicationService interface {
	List(ctx context.Context, userID string, q pgrepo.ListQuery) (*ApplicationPage, error)
	ListByStatus(ctx context.Context, userID string, status models.ApplicationStatus) ([]models.Application, error)
	Get(ctx context.Context, userID string, id int64) (*models.Application, error)
	Create(ctx context.Context, userID string, f models.ApplicationFields, date *time.Time) (*models.Application, error)
	Update(ctx context.Context, userID string, id int64, f models.ApplicationFields) (*models.Application, error)
	Delete(ctx context.Context, userID string, id int64) error

	TotalCount(ctx context.Context, userID string) (int64, error)
	StatusBreakdown(ctx context.Context, userID string) (map[string]int64, error)
	WeeklyCounts(ctx context.Context, userID string, since time.Time) ([]pgrepo.WeekCount, error)
}

type applicationService struct {
	apps pgrepo.ApplicationRepository
	tx   pgrepo.TxRunner
	opts options
}

func NewApplicationService(apps pgrepo.ApplicationRepository, tx pgrepo.TxRunner, opts ...Option) ApplicationService {
	return &applicationService{apps: apps, tx: tx, opts: buildOptions(opts)}
}

func (s *applicationService) List(ctx context.Context, userID string, q pgrepo.ListQuery) (*ApplicationPage, error) {
	const op = "ApplicationService.List"

	if err := requireUser(op, userID); err != nil {
		return nil, err
	}
	if q.Page < 0 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "page must be >= 0", nil)
	}
	if q.Size <= 0 || q.Size > maxPageSize {
		return nil, utils.E(utils.CodeInvalidArgument, op, "size must be between 1 and 100", nil)
	}
	if q.SortBy == "" {
		q.SortBy = "application_date"
	}
	if _, ok := pgrepo.SortableColumns[q.SortBy]; !ok {
		return nil, utils.E(utils.CodeInvalidArgument, op, "cannot sort by "+q.SortBy, nil)
	}

	rows, total, err := s.apps.List(ctx, userID, q)
	if err != nil {
		return nil, wrap(op, "application", "failed to list applications", err)
	}
	if rows == nil {
		rows = []models.Application{}
	}

	return &ApplicationPage{
		Content:       rows,
		Page:          q.Page,
		Size:          q.Size,
		TotalElements: total,
		TotalPages:    int((total + int64(q.Size) - 1) / int64(q.Size)),
	}, nil
}

func (s *applicationService) ListByStatus(ctx context.Context, userID string, status models.ApplicationStatus) ([]models.Application, error) {
	const op = "ApplicationService.ListByStatus"

	if err := requireUser(op, userID); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, utils.E(utils.CodeInvalidArgument, op, "unknown status "+string(status), nil)
	}
	rows, err := s.apps.ListByStatus(ctx, userID, status)
	if err != nil {
		return nil, wrap(op, "application", "failed to list applications", err)
	}
	return rows, nil
}

func (s *applicationService) Get(ctx context.Context, userID string, id int64) (*models.Application, error) {
	const op = "ApplicationService.Get"

	if err := requireUser(op, userID); err != nil {
		return nil, err
	}
	app, err := s.apps.GetOwned(ctx, userID, id)
	if err != nil {
		return nil, wrap(op, "application", "failed to get application", err)
	}
	return app, nil
}

// Create stores a new application owned by userID. The owner never comes from
// the request body.
func (s *applicationService) Create(ctx context.Context, userID string, f models.ApplicationFields, date *time.Time) (*models.Application, error) {
	const op = "ApplicationService.Create"

	if err := requireUser(op, userID); err != nil {
		return nil, err
	}
	app, err := models.NewApplication(userID, f, date, s.opts.now().UTC())
	if err != nil {
		return nil, wrap(op, "application", "invalid application", err)
	}

	err = s.tx.InTx(ctx, func(r pgrepo.Repos) error {
		dup, err := r.Applications.ExistsCompanyTitle(ctx, userID, app.CompanyName, app.JobTitle, 0)
		if err != nil {
			return err
		}
		if dup {
			return utils.E(utils.CodeConflict, op, "duplicate application already exists", nil)
		}
		return r.Applications.Insert(ctx, &app)
	})
	if err != nil {
		return nil, wrap(op, "application", "failed to create application", err)
	}

	s.opts.log.WithFields(logrus.Fields{
		"user_id":        userID,
		"application_id": app.ID,
		"company_name":   app.CompanyName,
	}).Info("application created")
	return &app, nil
}

func (s *applicationService) Update(ctx context.Context, userID string, id int64, f models.ApplicationFields) (*models.Application, error) {
	const op = "ApplicationService.Update"

	if err := requireUser(op, userID); err != nil {
		return nil, err
	}

	var out models.Application
	err := s.tx.InTx(ctx, func(r pgrepo.Repos) error {
		current, err := r.Applications.LockOwned(ctx, userID, id)
		if err != nil {
			return err
		}
		next, err := current.Patch(f)
		if err != nil {
			return err
		}
		if next.CompanyName != current.CompanyName || next.JobTitle != current.JobTitle {
			dup, err := r.Applications.ExistsCompanyTitle(ctx, userID, next.CompanyName, next.JobTitle, id)
			if err != nil {
				return err
			}
			if dup {
				return utils.E(utils.CodeConflict, op, "duplicate application already exists", nil)
			}
		}
		if err := r.Applications.Update(ctx, &next); err != nil {
			return err
		}
		out = next
		return nil
	})
	if err != nil {
		return nil, wrap(op, "application", "failed to update application", err)
	}

	s.opts.log.WithFields(logrus.Fields{"user_id": userID, "application_id": id}).Info("application updated")
	return &out, nil
}

// Delete removes the application with all of its activities and attachments.
func (s *applicationService) Delete(ctx context.Context, userID string, id int64) error {
	const op = "ApplicationService.Delete"

	if err := requireUser(op, userID); err != nil {
		return err
	}
	err := s.tx.InTx(ctx, func(r pgrepo.Repos) error {
		if _, err := r.Applications.LockOwned(ctx, userID, id); err != nil {
			return err
		}
		return r.Applications.Delete(ctx, id)
	})
	if err != nil {
		return wrap(op, "application", "failed to delete application", err)
	}

	s.opts.log.WithFields(logrus.Fields{"user_id": userID, "application_id": id}).Info("application deleted")
	return nil
}

// TotalCount counts applications dated on/after TotalCountSince.
func (s *applicationService) TotalCount(ctx context.Context, userID string) (int64, error) {
	const op = "ApplicationService.TotalCount"

	if err := requireUser(op, userID); err != nil {
		return 0, err
	}
	n, err := s.apps.CountSince(ctx, userID, TotalCountSince)
	if err != nil {
		return 0, wrap(op, "application", "failed to count applications", err)
	}
	return n, nil
}

// StatusBreakdown is keyed by status label.
func (s *applicationService) StatusBreakdown(ctx context.Context, userID string) (map[string]int64, error) {
	const op = "ApplicationService.StatusBreakdown"

	if err := requireUser(op, userID); err != nil {
		return nil, err
	}
	rows, err := s.apps.StatusBreakdown(ctx, userID)
	if err != nil {
		return nil, wrap(op, "application", "failed to compute status breakdown", err)
	}

	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Status.Label()] += row.Count
	}
	return out, nil
}

func (s *applicationService) WeeklyCounts(ctx context.Context, userID string, since time.Time) ([]pgrepo.WeekCount, error) {
	const op = "ApplicationService.WeeklyCounts"

	if err := requireUser(op, userID); err != nil {
		return nil, err
	}
	rows, err := s.apps.WeeklyCounts(ctx, userID, since)
	if err != nil {
		return nil, wrap(op, "application", "failed to compute weekly counts", err)
	}
	if rows == nil {
		rows = []pgrepo.WeekCount{}
	}
	return rows, nil
}
