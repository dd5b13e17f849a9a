package models

import (
	"strings"
	"time"
)

type Attachment struct {
	ID            int64 `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ApplicationID int64 `gorm:"column:application_id;not null;index" json:"application_id"`

	Type             AttachmentType `gorm:"column:type;size:32;not null" json:"type"`
	FileName         string         `gorm:"column:file_name;size:255;not null" json:"file_name"`
	OriginalFileName string         `gorm:"column:original_file_name;size:500" json:"original_file_name"`
	ContentType      string         `gorm:"column:content_type;size:100" json:"content_type"`
	FileSizeBytes    int64          `gorm:"column:file_size_bytes" json:"file_size_bytes"`
	BlobURL          string         `gorm:"column:blob_url;size:1000;not null" json:"blob_url"`

	UploadedAt  time.Time `gorm:"column:uploaded_at;not null;index" json:"uploaded_at"`
	Description string    `gorm:"column:description;size:255" json:"description"`

	Application *Application `gorm:"foreignKey:ApplicationID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Attachment) TableName() string { return "attachments" }

type AttachmentFields struct {
	Type             AttachmentType `json:"type" validate:"required,attachment_type"`
	FileName         string         `json:"file_name" validate:"notblank,max=255"`
	OriginalFileName string         `json:"original_file_name" validate:"max=500"`
	ContentType      string         `json:"content_type" validate:"max=100"`
	FileSizeBytes    int64          `json:"file_size_bytes" validate:"gte=0"`
	BlobURL          string         `json:"blob_url" validate:"notblank,max=1000"`
	UploadedAt       *time.Time     `json:"uploaded_at"`
	Description      string         `json:"description" validate:"max=255"`
}

// NewAttachment builds an unsaved Attachment under applicationID. Missing
// upload time becomes now and a missing original name copies FileName.
// Attachments have no patch: once stored they can only be deleted.
func NewAttachment(applicationID int64, f AttachmentFields, now time.Time) (Attachment, error) {
	if applicationID <= 0 {
		return Attachment{}, invalid("application_id is required")
	}
	f.Type = AttachmentType(strings.ToUpper(strings.TrimSpace(string(f.Type))))
	f.FileName = strings.TrimSpace(f.FileName)
	if err := check(f); err != nil {
		return Attachment{}, err
	}

	uploaded := now
	if f.UploadedAt != nil && !f.UploadedAt.IsZero() {
		uploaded = *f.UploadedAt
	}
	original := f.OriginalFileName
	if original == "" {
		original = f.FileName
	}

	return Attachment{
		ApplicationID:    applicationID,
		Type:             f.Type,
		FileName:         f.FileName,
		OriginalFileName: original,
		ContentType:      f.ContentType,
		FileSizeBytes:    f.FileSizeBytes,
		BlobURL:          f.BlobURL,
		UploadedAt:       uploaded.UTC(),
		Description:      f.Description,
	}, nil
}
