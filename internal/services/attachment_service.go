package services

import (
	"context"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/clintmariano/careerlog/internal/models"
	pgrepo "github.com/clintmariano/careerlog/internal/repositories/postgres"
	"github.com/clintmariano/careerlog/internal/storage"
	"github.com/clintmariano/careerlog/internal/utils"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// UploadRequest carries a file that still has to go to the blob store.
type UploadRequest struct {
	ApplicationID int64
	Type          models.AttachmentType
	Description   string
	FileName      string
	ContentType   string
	Size          int64
	Body          io.Reader
}

type AttachmentService interface {
	ListByApplication(ctx context.Context, userID string, applicationID int64, typ models.AttachmentType) ([]models.Attachment, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]models.Attachment, error)
	Get(ctx context.Context, userID string, id int64) (*models.Attachment, error)
	Create(ctx context.Context, userID string, applicationID int64, f models.AttachmentFields) (*models.Attachment, error)
	Upload(ctx context.Context, userID string, req UploadRequest) (*models.Attachment, error)
	Delete(ctx context.Context, userID string, id int64) error

	TypeBreakdown(ctx context.Context, userID string) (map[string]int64, error)
	CountByApplication(ctx context.Context, userID string, applicationID int64) (int64, error)
	FileNameExists(ctx context.Context, userID string, applicationID int64, fileName string) (bool, error)
}

type attachmentService struct {
	apps        pgrepo.ApplicationRepository
	attachments pgrepo.AttachmentRepository
	tx          pgrepo.TxRunner
	uploader    storage.Uploader
	opts        options
}

// NewAttachmentService builds the service; uploader may be nil, in which case
// Upload reports the blob store as unavailable.
func NewAttachmentService(apps pgrepo.ApplicationRepository, attachments pgrepo.AttachmentRepository, tx pgrepo.TxRunner, uploader storage.Uploader, opts ...Option) AttachmentService {
	return &attachmentService{apps: apps, attachments: attachments, tx: tx, uploader: uploader, opts: buildOptions(opts)}
}

func (s *attachmentService) ListByApplication(ctx context.Context, userID string, applicationID int64, typ models.AttachmentType) ([]models.Attachment, error) {
	const op = "AttachmentService.ListByApplication"

	if err := requireUser(op, userID); err != nil {
		return nil, err
	}
	if typ != "" && !typ.Valid() {
		return nil, utils.E(utils.CodeInvalidArgument, op, "unknown attachment type "+string(typ), nil)
	}
	if _, err := s.apps.GetOwned(ctx, userID, applicationID); err != nil {
		return nil, wrap(op, "application", "failed to get application", err)
	}

	rows, err := s.attachments.ListByApplication(ctx, userID, applicationID, typ)
	if err != nil {
		return nil, wrap(op, "attachment", "failed to list attachments", err)
	}
	if rows == nil {
		rows = []models.Attachment{}
	}
	return rows, nil
}

func (s *attachmentService) ListByUser(ctx context.Context, userID string, limit int) ([]models.Attachment, error) {
	const op = "AttachmentService.ListByUser"

	if err := requireUser(op, userID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "limit must be > 0", nil)
	}
	rows, err := s.attachments.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, wrap(op, "attachment", "failed to list attachments", err)
	}
	if rows == nil {
		rows = []models.Attachment{}
	}
	return rows, nil
}

func (s *attachmentService) Get(ctx context.Context, userID string, id int64) (*models.Attachment, error) {
	const op = "AttachmentService.Get"

	if err := requireUser(op, userID); err != nil {
		return nil, err
	}
	a, err := s.attachments.GetOwned(ctx, userID, id)
	if err != nil {
		return nil, wrap(op, "attachment", "failed to get attachment", err)
	}
	return a, nil
}

// Create records a file reference whose bytes already live in the blob store.
// A second file with the same name is allowed; FileNameExists lets callers
// warn about it.
func (s *attachmentService) Create(ctx context.Context, userID string, applicationID int64, f models.AttachmentFields) (*models.Attachment, error) {
	const op = "AttachmentService.Create"

	if err := requireUser(op, userID); err != nil {
		return nil, err
	}
	att, err := models.NewAttachment(applicationID, f, s.opts.now())
	if err != nil {
		return nil, wrap(op, "attachment", "invalid attachment", err)
	}

	err = s.tx.InTx(ctx, func(r pgrepo.Repos) error {
		if _, err := r.Applications.LockOwned(ctx, userID, applicationID); err != nil {
			return wrap(op, "application", "failed to get application", err)
		}
		return r.Attachments.Insert(ctx, &att)
	})
	if err != nil {
		return nil, wrap(op, "attachment", "failed to create attachment", err)
	}

	s.opts.log.WithFields(logrus.Fields{
		"user_id":        userID,
		"application_id": applicationID,
		"attachment_id":  att.ID,
		"type":           att.Type,
	}).Info("attachment created")
	return &att, nil
}

// Upload streams the body to the blob store and records the returned locator.
func (s *attachmentService) Upload(ctx context.Context, userID string, req UploadRequest) (*models.Attachment, error) {
	const op = "AttachmentService.Upload"

	if err := requireUser(op, userID); err != nil {
		return nil, err
	}
	if s.uploader == nil {
		return nil, utils.E(utils.CodeUnavailable, op, "blob store is not configured", nil)
	}
	if req.Body == nil {
		return nil, utils.E(utils.CodeInvalidArgument, op, "file is required", nil)
	}

	fields := models.AttachmentFields{
		Type:             req.Type,
		FileName:         filepath.Base(req.FileName),
		OriginalFileName: req.FileName,
		ContentType:      req.ContentType,
		FileSizeBytes:    req.Size,
		BlobURL:          "pending",
		Description:      req.Description,
	}
	// validate before any bytes leave the process
	if _, err := models.NewAttachment(req.ApplicationID, fields, s.opts.now()); err != nil {
		return nil, wrap(op, "attachment", "invalid attachment", err)
	}
	if _, err := s.apps.GetOwned(ctx, userID, req.ApplicationID); err != nil {
		return nil, wrap(op, "application", "failed to get application", err)
	}

	objectName := objectKey(userID, req.ApplicationID, req.FileName)
	locator, err := s.uploader.Upload(ctx, objectName, req.ContentType, req.Body)
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "failed to upload file", err)
	}

	fields.BlobURL = locator
	att, err := s.Create(ctx, userID, req.ApplicationID, fields)
	if err != nil {
		if rm, ok := s.uploader.(storage.Remover); ok {
			if rmErr := rm.Remove(ctx, objectName); rmErr != nil {
				s.opts.log.WithError(rmErr).WithField("object", objectName).Warn("failed to remove orphaned blob")
			}
		}
		return nil, err
	}
	return att, nil
}

func objectKey(userID string, applicationID int64, fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	return "attachments/" + userID + "/" + strconv.FormatInt(applicationID, 10) + "/" + uuid.NewString() + ext
}

func (s *attachmentService) Delete(ctx context.Context, userID string, id int64) error {
	const op = "AttachmentService.Delete"

	if err := requireUser(op, userID); err != nil {
		return err
	}
	err := s.tx.InTx(ctx, func(r pgrepo.Repos) error {
		if _, err := r.Attachments.LockOwned(ctx, userID, id); err != nil {
			return err
		}
		return r.Attachments.Delete(ctx, id)
	})
	if err != nil {
		return wrap(op, "attachment", "failed to delete attachment", err)
	}

	s.opts.log.WithFields(logrus.Fields{"user_id": userID, "attachment_id": id}).Info("attachment deleted")
	return nil
}

// TypeBreakdown is keyed by attachment type label.
func (s *attachmentService) TypeBreakdown(ctx context.Context, userID string) (map[string]int64, error) {
	const op = "AttachmentService.TypeBreakdown"

	if err := requireUser(op, userID); err != nil {
		return nil, err
	}
	rows, err := s.attachments.TypeBreakdown(ctx, userID)
	if err != nil {
		return nil, wrap(op, "attachment", "failed to compute type breakdown", err)
	}

	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Type.Label()] += row.Count
	}
	return out, nil
}

func (s *attachmentService) CountByApplication(ctx context.Context, userID string, applicationID int64) (int64, error) {
	const op = "AttachmentService.CountByApplication"

	if err := requireUser(op, userID); err != nil {
		return 0, err
	}
	if _, err := s.apps.GetOwned(ctx, userID, applicationID); err != nil {
		return 0, wrap(op, "application", "failed to get application", err)
	}
	n, err := s.attachments.CountByApplication(ctx, userID, applicationID)
	if err != nil {
		return 0, wrap(op, "attachment", "failed to count attachments", err)
	}
	return n, nil
}

func (s *attachmentService) FileNameExists(ctx context.Context, userID string, applicationID int64, fileName string) (bool, error) {
	const op = "AttachmentService.FileNameExists"

	if err := requireUser(op, userID); err != nil {
		return false, err
	}
	if strings.TrimSpace(fileName) == "" {
		return false, utils.E(utils.CodeInvalidArgument, op, "file_name is required", nil)
	}
	if _, err := s.apps.GetOwned(ctx, userID, applicationID); err != nil {
		return false, wrap(op, "application", "failed to get application", err)
	}
	ok, err := s.attachments.ExistsFileName(ctx, userID, applicationID, strings.TrimSpace(fileName))
	if err != nil {
		return false, wrap(op, "attachment", "failed to check file name", err)
	}
	return ok, nil
}
