package postgres

import (
	"context"
	"time"

	"github.com/clintmariano/careerlog/internal/models"
	"github.com/clintmariano/careerlog/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const joinActivityOwner = "JOIN applications ON applications.id = activities.application_id"

type ActivityTypeCount struct {
	Type  models.ActivityType `gorm:"column:type"`
	Count int64               `gorm:"column:count"`
}

type ActivityRepository interface {
	Insert(ctx context.Context, a *models.Activity) error
	GetOwned(ctx context.Context, userID string, id int64) (*models.Activity, error)
	LockOwned(ctx context.Context, userID string, id int64) (*models.Activity, error)
	Update(ctx context.Context, a *models.Activity) error
	Delete(ctx context.Context, id int64) error

	ListByApplication(ctx context.Context, userID string, applicationID int64, typ models.ActivityType) ([]models.Activity, error)
	ListByUser(ctx context.Context, userID string, since *time.Time, limit int) ([]models.ActivityWithApplication, error)

	TypeBreakdown(ctx context.Context, userID string) ([]ActivityTypeCount, error)
	CountByType(ctx context.Context, userID string, typ models.ActivityType) (int64, error)
}

type activityRepo struct {
	db *gorm.DB
}

func NewActivityRepo(db *gorm.DB) ActivityRepository {
	return &activityRepo{db: db}
}

func (r *activityRepo) Insert(ctx context.Context, a *models.Activity) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(a).Error
}

// GetOwned resolves ownership through the parent application.
func (r *activityRepo) GetOwned(ctx context.Context, userID string, id int64) (*models.Activity, error) {
	return r.owned(r.db.WithContext(ctx), userID, id)
}

func (r *activityRepo) LockOwned(ctx context.Context, userID string, id int64) (*models.Activity, error) {
	return r.owned(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), userID, id)
}

func (r *activityRepo) owned(db *gorm.DB, userID string, id int64) (*models.Activity, error) {
	var a models.Activity
	err := db.
		Select("activities.*").
		Joins(joinActivityOwner).
		Where("activities.id = ? AND applications.user_id = ?", id, userID).
		Take(&a).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}

func (r *activityRepo) Update(ctx context.Context, a *models.Activity) error {
	return r.db.WithContext(ctx).
		Model(a).
		Select("type", "date_time", "notes", "location", "participants", "duration_minutes").
		Updates(a).Error
}

func (r *activityRepo) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&models.Activity{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}

// ListByApplication lists newest first. An empty typ matches every type.
func (r *activityRepo) ListByApplication(ctx context.Context, userID string, applicationID int64, typ models.ActivityType) ([]models.Activity, error) {
	q := r.db.WithContext(ctx).
		Select("activities.*").
		Joins(joinActivityOwner).
		Where("activities.application_id = ? AND applications.user_id = ?", applicationID, userID)
	if typ != "" {
		q = q.Where("activities.type = ?", typ)
	}

	var rows []models.Activity
	err := q.Order("activities.date_time DESC, activities.id DESC").Find(&rows).Error
	return rows, err
}

// ListByUser lists the user's activities newest first together with the
// parent's company name and job title. since may be nil; limit <= 0 means
// no limit.
func (r *activityRepo) ListByUser(ctx context.Context, userID string, since *time.Time, limit int) ([]models.ActivityWithApplication, error) {
	q := r.db.WithContext(ctx).
		Model(&models.Activity{}).
		Select("activities.*, applications.company_name, applications.job_title").
		Joins(joinActivityOwner).
		Where("applications.user_id = ?", userID)
	if since != nil {
		q = q.Where("activities.date_time >= ?", since.UTC())
	}
	q = q.Order("activities.date_time DESC, activities.id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var rows []models.ActivityWithApplication
	err := q.Scan(&rows).Error
	return rows, err
}

func (r *activityRepo) TypeBreakdown(ctx context.Context, userID string) ([]ActivityTypeCount, error) {
	var rows []ActivityTypeCount
	err := r.db.WithContext(ctx).
		Model(&models.Activity{}).
		Select("activities.type AS type, COUNT(*) AS count").
		Joins(joinActivityOwner).
		Where("applications.user_id = ?", userID).
		Group("activities.type").
		Order("activities.type").
		Scan(&rows).Error
	return rows, err
}

func (r *activityRepo) CountByType(ctx context.Context, userID string, typ models.ActivityType) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Activity{}).
		Joins(joinActivityOwner).
		Where("applications.user_id = ? AND activities.type = ?", userID, typ).
		Count(&count).Error
	return count, err
}
