package postgres

import (
	"context"
	"strings"
	"time"

	"github.com/clintmariano/careerlog/internal/models"
	"github.com/clintmariano/careerlog/internal/utils"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SortableColumns maps accepted sort keys to application columns.
var SortableColumns = map[string]string{
	"id":               "id",
	"company_name":     "company_name",
	"job_title":        "job_title",
	"location":         "location",
	"tech_stack":       "tech_stack",
	"application_date": "application_date",
	"status":           "status",
	"salary_range":     "salary_range",
	"source":           "source",
}

type ListQuery struct {
	Search string
	Page   int // zero based
	Size   int
	SortBy string // key of SortableColumns
	Desc   bool
}

type StatusCount struct {
	Status models.ApplicationStatus `gorm:"column:status"`
	Count  int64                    `gorm:"column:count"`
}

type WeekCount struct {
	WeekStart string `gorm:"column:week_start" json:"week_start"`
	Count     int64  `gorm:"column:count" json:"count"`
}

type ApplicationRepository interface {
	Insert(ctx context.Context, a *models.Application) error
	GetOwned(ctx context.Context, userID string, id int64) (*models.Application, error)
	LockOwned(ctx context.Context, userID string, id int64) (*models.Application, error)
	Update(ctx context.Context, a *models.Application) error
	Delete(ctx context.Context, id int64) error

	List(ctx context.Context, userID string, q ListQuery) ([]models.Application, int64, error)
	ListByStatus(ctx context.Context, userID string, status models.ApplicationStatus) ([]models.Application, error)
	ExistsCompanyTitle(ctx context.Context, userID, companyName, jobTitle string, excludeID int64) (bool, error)

	CountSince(ctx context.Context, userID string, since time.Time) (int64, error)
	StatusBreakdown(ctx context.Context, userID string) ([]StatusCount, error)
	WeeklyCounts(ctx context.Context, userID string, since time.Time) ([]WeekCount, error)
}

type applicationRepo struct {
	db *gorm.DB
}

func NewApplicationRepo(db *gorm.DB) ApplicationRepository {
	return &applicationRepo{db: db}
}

func (r *applicationRepo) Insert(ctx context.Context, a *models.Application) error {
	return duplicate(r.db.WithContext(ctx).Create(a).Error)
}

func (r *applicationRepo) GetOwned(ctx context.Context, userID string, id int64) (*models.Application, error) {
	return r.owned(r.db.WithContext(ctx), userID, id)
}

// LockOwned is GetOwned plus a row lock held until the transaction ends.
func (r *applicationRepo) LockOwned(ctx context.Context, userID string, id int64) (*models.Application, error) {
	return r.owned(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), userID, id)
}

func (r *applicationRepo) owned(db *gorm.DB, userID string, id int64) (*models.Application, error) {
	var a models.Application
	err := db.
		Where("id = ? AND user_id = ?", id, userID).
		Take(&a).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}

// Update writes only the mutable columns.
func (r *applicationRepo) Update(ctx context.Context, a *models.Application) error {
	err := r.db.WithContext(ctx).
		Model(a).
		Select("company_name", "job_title", "location", "tech_stack", "status", "salary_range", "source", "description").
		Updates(a).Error
	return duplicate(err)
}

// Delete removes the application and every activity and attachment under it.
func (r *applicationRepo) Delete(ctx context.Context, id int64) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("application_id = ?", id).Delete(&models.Activity{}).Error; err != nil {
		return err
	}
	if err := db.Where("application_id = ?", id).Delete(&models.Attachment{}).Error; err != nil {
		return err
	}
	res := db.Delete(&models.Application{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *applicationRepo) List(ctx context.Context, userID string, q ListQuery) ([]models.Application, int64, error) {
	if q.Size <= 0 {
		q.Size = 10
	}
	if q.Page < 0 {
		q.Page = 0
	}

	base := r.db.WithContext(ctx).
		Model(&models.Application{}).
		Where("user_id = ?", userID)

	if term := strings.TrimSpace(q.Search); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		base = base.Where("(LOWER(company_name) LIKE ? OR LOWER(job_title) LIKE ? OR LOWER(location) LIKE ?)", like, like, like)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	col, ok := SortableColumns[q.SortBy]
	if !ok {
		col = "application_date"
	}
	dir := " ASC"
	if q.Desc {
		dir = " DESC"
	}

	var rows []models.Application
	err := base.Session(&gorm.Session{}).
		Order(pq.QuoteIdentifier(col) + dir).
		Order("id" + dir).
		Offset(q.Page * q.Size).
		Limit(q.Size).
		Find(&rows).Error
	return rows, total, err
}

func (r *applicationRepo) ListByStatus(ctx context.Context, userID string, status models.ApplicationStatus) ([]models.Application, error) {
	var rows []models.Application
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, status).
		Order("application_date DESC, id DESC").
		Find(&rows).Error
	return rows, err
}

// ExistsCompanyTitle reports whether userID already has an application with
// the exact company name and job title. excludeID (0 for none) is ignored.
func (r *applicationRepo) ExistsCompanyTitle(ctx context.Context, userID, companyName, jobTitle string, excludeID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Application{}).
		Where("user_id = ? AND company_name = ? AND job_title = ? AND id <> ?", userID, companyName, jobTitle, excludeID).
		Count(&count).Error
	return count > 0, err
}

func (r *applicationRepo) CountSince(ctx context.Context, userID string, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Application{}).
		Where("user_id = ? AND application_date >= ?", userID, models.DateOf(since)).
		Count(&count).Error
	return count, err
}

func (r *applicationRepo) StatusBreakdown(ctx context.Context, userID string) ([]StatusCount, error) {
	var rows []StatusCount
	err := r.db.WithContext(ctx).
		Model(&models.Application{}).
		Select("status, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Group("status").
		Order("status").
		Scan(&rows).Error
	return rows, err
}

// WeeklyCounts buckets applications dated on/after since by the Monday of
// their week, oldest week first.
func (r *applicationRepo) WeeklyCounts(ctx context.Context, userID string, since time.Time) ([]WeekCount, error) {
	var rows []WeekCount
	err := r.db.WithContext(ctx).
		Model(&models.Application{}).
		Select(weekStart(r.db, "application_date")+" AS week_start, COUNT(*) AS count").
		Where("user_id = ? AND application_date >= ?", userID, models.DateOf(since)).
		Group("week_start").
		Order("week_start").
		Scan(&rows).Error
	return rows, err
}
