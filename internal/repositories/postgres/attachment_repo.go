package postgres

import (
	"context"

	"github.com/clintmariano/careerlog/internal/models"
	"github.com/clintmariano/careerlog/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const joinAttachmentOwner = "JOIN applications ON applications.id = attachments.application_id"

type AttachmentTypeCount struct {
	Type  models.AttachmentType `gorm:"column:type"`
	Count int64                 `gorm:"column:count"`
}

type AttachmentRepository interface {
	Insert(ctx context.Context, a *models.Attachment) error
	GetOwned(ctx context.Context, userID string, id int64) (*models.Attachment, error)
	LockOwned(ctx context.Context, userID string, id int64) (*models.Attachment, error)
	Delete(ctx context.Context, id int64) error

	ListByApplication(ctx context.Context, userID string, applicationID int64, typ models.AttachmentType) ([]models.Attachment, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]models.Attachment, error)

	TypeBreakdown(ctx context.Context, userID string) ([]AttachmentTypeCount, error)
	CountByApplication(ctx context.Context, userID string, applicationID int64) (int64, error)
	ExistsFileName(ctx context.Context, userID string, applicationID int64, fileName string) (bool, error)
}

type attachmentRepo struct {
	db *gorm.DB
}

func NewAttachmentRepo(db *gorm.DB) AttachmentRepository {
	return &attachmentRepo{db: db}
}

func (r *attachmentRepo) Insert(ctx context.Context, a *models.Attachment) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(a).Error
}

func (r *attachmentRepo) GetOwned(ctx context.Context, userID string, id int64) (*models.Attachment, error) {
	return r.owned(r.db.WithContext(ctx), userID, id)
}

func (r *attachmentRepo) LockOwned(ctx context.Context, userID string, id int64) (*models.Attachment, error) {
	return r.owned(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), userID, id)
}

func (r *attachmentRepo) owned(db *gorm.DB, userID string, id int64) (*models.Attachment, error) {
	var a models.Attachment
	err := db.
		Select("attachments.*").
		Joins(joinAttachmentOwner).
		Where("attachments.id = ? AND applications.user_id = ?", id, userID).
		Take(&a).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}

func (r *attachmentRepo) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&models.Attachment{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *attachmentRepo) ListByApplication(ctx context.Context, userID string, applicationID int64, typ models.AttachmentType) ([]models.Attachment, error) {
	q := r.db.WithContext(ctx).
		Select("attachments.*").
		Joins(joinAttachmentOwner).
		Where("attachments.application_id = ? AND applications.user_id = ?", applicationID, userID)
	if typ != "" {
		q = q.Where("attachments.type = ?", typ)
	}

	var rows []models.Attachment
	err := q.Order("attachments.uploaded_at DESC, attachments.id DESC").Find(&rows).Error
	return rows, err
}

func (r *attachmentRepo) ListByUser(ctx context.Context, userID string, limit int) ([]models.Attachment, error) {
	q := r.db.WithContext(ctx).
		Select("attachments.*").
		Joins(joinAttachmentOwner).
		Where("applications.user_id = ?", userID).
		Order("attachments.uploaded_at DESC, attachments.id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var rows []models.Attachment
	err := q.Find(&rows).Error
	return rows, err
}

// TypeBreakdown groups in the database like every other breakdown.
func (r *attachmentRepo) TypeBreakdown(ctx context.Context, userID string) ([]AttachmentTypeCount, error) {
	var rows []AttachmentTypeCount
	err := r.db.WithContext(ctx).
		Model(&models.Attachment{}).
		Select("attachments.type AS type, COUNT(*) AS count").
		Joins(joinAttachmentOwner).
		Where("applications.user_id = ?", userID).
		Group("attachments.type").
		Order("attachments.type").
		Scan(&rows).Error
	return rows, err
}

func (r *attachmentRepo) CountByApplication(ctx context.Context, userID string, applicationID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Attachment{}).
		Joins(joinAttachmentOwner).
		Where("attachments.application_id = ? AND applications.user_id = ?", applicationID, userID).
		Count(&count).Error
	return count, err
}

func (r *attachmentRepo) ExistsFileName(ctx context.Context, userID string, applicationID int64, fileName string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Attachment{}).
		Joins(joinAttachmentOwner).
		Where("attachments.application_id = ? AND applications.user_id = ? AND attachments.file_name = ?", applicationID, userID, fileName).
		Count(&count).Error
	return count > 0, err
}
