package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/clintmariano/careerlog/internal/models"
	"github.com/clintmariano/careerlog/internal/services"
	"github.com/clintmariano/careerlog/internal/utils"
	"github.com/gin-gonic/gin"
)

type AttachmentHandler struct {
	svc            services.AttachmentService
	maxUploadBytes int64
}

func NewAttachmentHandler(svc services.AttachmentService, maxUploadBytes int64) *AttachmentHandler {
	return &AttachmentHandler{svc: svc, maxUploadBytes: maxUploadBytes}
}

type CreateAttachmentRequest struct {
	ApplicationID int64 `json:"application_id"`
	models.AttachmentFields
}

func (h *AttachmentHandler) ListByUser(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	limit, ok := queryInt(c, "AttachmentHandler.ListByUser", "limit", 50)
	if !ok {
		return
	}

	rows, err := h.svc.ListByUser(c.Request.Context(), userID, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAttachmentResponses(rows))
}

func (h *AttachmentHandler) ListByApplication(c *gin.Context) {
	h.listByApplication(c, "")
}

func (h *AttachmentHandler) ListByApplicationAndType(c *gin.Context) {
	h.listByApplication(c, models.AttachmentType(strings.ToUpper(c.Param("type"))))
}

func (h *AttachmentHandler) listByApplication(c *gin.Context, typ models.AttachmentType) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	appID, ok := pathID(c, "AttachmentHandler.ListByApplication", "application_id")
	if !ok {
		return
	}

	rows, err := h.svc.ListByApplication(c.Request.Context(), userID, appID, typ)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAttachmentResponses(rows))
}

func (h *AttachmentHandler) Count(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	appID, ok := pathID(c, "AttachmentHandler.Count", "application_id")
	if !ok {
		return
	}

	n, err := h.svc.CountByApplication(c.Request.Context(), userID, appID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": n})
}

func (h *AttachmentHandler) Exists(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	appID, ok := pathID(c, "AttachmentHandler.Exists", "application_id")
	if !ok {
		return
	}

	exists, err := h.svc.FileNameExists(c.Request.Context(), userID, appID, c.Query("file_name"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"exists": exists})
}

func (h *AttachmentHandler) Get(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "AttachmentHandler.Get", "id")
	if !ok {
		return
	}

	att, err := h.svc.Get(c.Request.Context(), userID, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, AttachmentResponse{Attachment: *att, TypeLabel: att.Type.Label()})
}

// Create records an attachment whose bytes are already in the blob store.
func (h *AttachmentHandler) Create(c *gin.Context) {
	const op = "AttachmentHandler.Create"

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req CreateAttachmentRequest
	if !bindJSON(c, op, &req) {
		return
	}
	if req.ApplicationID <= 0 {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "application_id is required", nil))
		return
	}

	att, err := h.svc.Create(c.Request.Context(), userID, req.ApplicationID, req.AttachmentFields)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, AttachmentResponse{Attachment: *att, TypeLabel: att.Type.Label()})
}

// Upload takes multipart form fields file, application_id, type and
// description.
func (h *AttachmentHandler) Upload(c *gin.Context) {
	const op = "AttachmentHandler.Upload"

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(c, utils.E(utils.CodeInvalidArgument, op, "file exceeds the upload limit", err))
			return
		}
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "file is required", err))
		return
	}

	appID, err := strconv.ParseInt(c.PostForm("application_id"), 10, 64)
	if err != nil || appID <= 0 {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "application_id must be a positive integer", err))
		return
	}

	f, err := fh.Open()
	if err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "failed to read file", err))
		return
	}
	defer f.Close()

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	att, err := h.svc.Upload(c.Request.Context(), userID, services.UploadRequest{
		ApplicationID: appID,
		Type:          models.AttachmentType(c.PostForm("type")),
		Description:   c.PostForm("description"),
		FileName:      fh.Filename,
		ContentType:   contentType,
		Size:          fh.Size,
		Body:          f,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, AttachmentResponse{Attachment: *att, TypeLabel: att.Type.Label()})
}

func (h *AttachmentHandler) Delete(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "AttachmentHandler.Delete", "id")
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), userID, id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AttachmentHandler) TypeBreakdown(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	out, err := h.svc.TypeBreakdown(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
