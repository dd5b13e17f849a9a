package services

import (
	"context"
	"time"

	"github.com/clintmariano/careerlog/internal/models"
	pgrepo "github.com/clintmariano/careerlog/internal/repositories/postgres"
	"github.com/clintmariano/careerlog/internal/utils"
	"github.com/sirupsen/logrus"
)

type ActivityService interface {
	ListByApplication(ctx context.Context, userID string, applicationID int64, typ models.ActivityType) ([]models.Activity, error)
	Recent(ctx context.Context, userID string, limit int) ([]models.ActivityWithApplication, error)
	Since(ctx context.Context, userID string, since time.Time, limit int) ([]models.ActivityWithApplication, error)
	Get(ctx context.Context, userID string, id int64) (*models.Activity, error)
	Create(ctx context.Context, userID string, applicationID int64, f models.ActivityFields) (*models.Activity, error)
	Update(ctx context.Context, userID string, id int64, f models.ActivityFields) (*models.Activity, error)
	Delete(ctx context.Context, userID string, id int64) error

	TypeBreakdown(ctx context.Context, userID string) (map[string]int64, error)
	CountByType(ctx context.Context, userID string, typ models.ActivityType) (int64, error)
}

type activityService struct {
	apps       pgrepo.ApplicationRepository
	activities pgrepo.ActivityRepository
	tx         pgrepo.TxRunner
	opts       options
}

func NewActivityService(apps pgrepo.ApplicationRepository, activities pgrepo.ActivityRepository, tx pgrepo.TxRunner, opts ...Option) ActivityService {
	return &activityService{apps: apps, activities: activities, tx: tx, opts: buildOptions(opts)}
}

// ListByApplication returns activities of an owned application, newest first.
// An empty typ lists every type.
func (s *activityService) ListByApplication(ctx context.Context, userID string, applicationID int64, typ models.ActivityType) ([]models.Activity, error) {
	const op = "ActivityService.ListByApplication"

	if err := requireUser(op, userID); err != nil {
		return nil, err
	}
	if typ != "" && !typ.Valid() {
		return nil, utils.E(utils.CodeInvalidArgument, op, "unknown activity type "+string(typ), nil)
	}
	if _, err := s.apps.GetOwned(ctx, userID, applicationID); err != nil {
		return nil, wrap(op, "application", "failed to get application", err)
	}

	rows, err := s.activities.ListByApplication(ctx, userID, applicationID, typ)
	if err != nil {
		return nil, wrap(op, "activity", "failed to list activities", err)
	}
	if rows == nil {
		rows = []models.Activity{}
	}
	return rows, nil
}

// Recent returns the user's newest activities across all applications.
func (s *activityService) Recent(ctx context.Context, userID string, limit int) ([]models.ActivityWithApplication, error) {
	const op = "ActivityService.Recent"

	if err := requireUser(op, userID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "limit must be > 0", nil)
	}
	return s.list(ctx, op, userID, nil, limit)
}

func (s *activityService) Since(ctx context.Context, userID string, since time.Time, limit int) ([]models.ActivityWithApplication, error) {
	const op = "ActivityService.Since"

	if err := requireUser(op, userID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "limit must be > 0", nil)
	}
	return s.list(ctx, op, userID, &since, limit)
}

func (s *activityService) list(ctx context.Context, op, userID string, since *time.Time, limit int) ([]models.ActivityWithApplication, error) {
	rows, err := s.activities.ListByUser(ctx, userID, since, limit)
	if err != nil {
		return nil, wrap(op, "activity", "failed to list activities", err)
	}
	if rows == nil {
		rows = []models.ActivityWithApplication{}
	}
	return rows, nil
}

func (s *activityService) Get(ctx context.Context, userID string, id int64) (*models.Activity, error) {
	const op = "ActivityService.Get"

	if err := requireUser(op, userID); err != nil {
		return nil, err
	}
	a, err := s.activities.GetOwned(ctx, userID, id)
	if err != nil {
		return nil, wrap(op, "activity", "failed to get activity", err)
	}
	return a, nil
}

// Create attaches a new activity to an application the user owns. A
// missing timestamp defaults to now.
func (s *activityService) Create(ctx context.Context, userID string, applicationID int64, f models.ActivityFields) (*models.Activity, error) {
	const op = "ActivityService.Create"

	if err := requireUser(op, userID); err != nil {
		return nil, err
	}
	act, err := models.NewActivity(applicationID, f, s.opts.now())
	if err != nil {
		return nil, wrap(op, "activity", "invalid activity", err)
	}

	err = s.tx.InTx(ctx, func(r pgrepo.Repos) error {
		if _, err := r.Applications.LockOwned(ctx, userID, applicationID); err != nil {
			return wrap(op, "application", "failed to get application", err)
		}
		return r.Activities.Insert(ctx, &act)
	})
	if err != nil {
		return nil, wrap(op, "activity", "failed to create activity", err)
	}

	s.opts.log.WithFields(logrus.Fields{
		"user_id":        userID,
		"application_id": applicationID,
		"activity_id":    act.ID,
		"type":           act.Type,
	}).Info("activity created")
	return &act, nil
}

func (s *activityService) Update(ctx context.Context, userID string, id int64, f models.ActivityFields) (*models.Activity, error) {
	const op = "ActivityService.Update"

	if err := requireUser(op, userID); err != nil {
		return nil, err
	}

	var out models.Activity
	err := s.tx.InTx(ctx, func(r pgrepo.Repos) error {
		current, err := r.Activities.LockOwned(ctx, userID, id)
		if err != nil {
			return err
		}
		next, err := current.Patch(f)
		if err != nil {
			return err
		}
		if err := r.Activities.Update(ctx, &next); err != nil {
			return err
		}
		out = next
		return nil
	})
	if err != nil {
		return nil, wrap(op, "activity", "failed to update activity", err)
	}

	s.opts.log.WithFields(logrus.Fields{"user_id": userID, "activity_id": id}).Info("activity updated")
	return &out, nil
}

func (s *activityService) Delete(ctx context.Context, userID string, id int64) error {
	const op = "ActivityService.Delete"

	if err := requireUser(op, userID); err != nil {
		return err
	}
	err := s.tx.InTx(ctx, func(r pgrepo.Repos) error {
		if _, err := r.Activities.LockOwned(ctx, userID, id); err != nil {
			return err
		}
		return r.Activities.Delete(ctx, id)
	})
	if err != nil {
		return wrap(op, "activity", "failed to delete activity", err)
	}

	s.opts.log.WithFields(logrus.Fields{"user_id": userID, "activity_id": id}).Info("activity deleted")
	return nil
}

// TypeBreakdown is keyed by activity type label.
func (s *activityService) TypeBreakdown(ctx context.Context, userID string) (map[string]int64, error) {
	const op = "ActivityService.TypeBreakdown"

	if err := requireUser(op, userID); err != nil {
		return nil, err
	}
	rows, err := s.activities.TypeBreakdown(ctx, userID)
	if err != nil {
		return nil, wrap(op, "activity", "failed to compute type breakdown", err)
	}

	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Type.Label()] += row.Count
	}
	return out, nil
}

func (s *activityService) CountByType(ctx context.Context, userID string, typ models.ActivityType) (int64, error) {
	const op = "ActivityService.CountByType"

	if err := requireUser(op, userID); err != nil {
		return 0, err
	}
	if !typ.Valid() {
		return 0, utils.E(utils.CodeInvalidArgument, op, "unknown activity type "+string(typ), nil)
	}
	n, err := s.activities.CountByType(ctx, userID, typ)
	if err != nil {
		return 0, wrap(op, "activity", "failed to count activities", err)
	}
	return n, nil
}
