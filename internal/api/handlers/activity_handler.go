package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/clintmariano/careerlog/internal/models"
	"github.com/clintmariano/careerlog/internal/services"
	"github.com/clintmariano/careerlog/internal/utils"
	"github.com/gin-gonic/gin"
)

type ActivityHandler struct {
	svc services.ActivityService
	now func() time.Time
}

func NewActivityHandler(svc services.ActivityService) *ActivityHandler {
	return &ActivityHandler{svc: svc, now: time.Now}
}

type CreateActivityRequest struct {
	ApplicationID int64 `json:"application_id"`
	models.ActivityFields
}

func (h *ActivityHandler) ListByUser(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	limit, ok := queryInt(c, "ActivityHandler.ListByUser", "limit", 20)
	if !ok {
		return
	}

	rows, err := h.svc.Recent(c.Request.Context(), userID, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toActivityWithApplicationResponses(rows))
}

func (h *ActivityHandler) ListByApplication(c *gin.Context) {
	h.listByApplication(c, "")
}

func (h *ActivityHandler) ListByApplicationAndType(c *gin.Context) {
	h.listByApplication(c, models.ActivityType(strings.ToUpper(c.Param("type"))))
}

func (h *ActivityHandler) listByApplication(c *gin.Context, typ models.ActivityType) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	appID, ok := pathID(c, "ActivityHandler.ListByApplication", "application_id")
	if !ok {
		return
	}

	rows, err := h.svc.ListByApplication(c.Request.Context(), userID, appID, typ)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toActivityResponses(rows))
}

func (h *ActivityHandler) Get(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "ActivityHandler.Get", "id")
	if !ok {
		return
	}

	act, err := h.svc.Get(c.Request.Context(), userID, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ActivityResponse{Activity: *act, TypeLabel: act.Type.Label()})
}

func (h *ActivityHandler) Create(c *gin.Context) {
	const op = "ActivityHandler.Create"

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req CreateActivityRequest
	if !bindJSON(c, op, &req) {
		return
	}
	if req.ApplicationID <= 0 {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "application_id is required", nil))
		return
	}

	act, err := h.svc.Create(c.Request.Context(), userID, req.ApplicationID, req.ActivityFields)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ActivityResponse{Activity: *act, TypeLabel: act.Type.Label()})
}

func (h *ActivityHandler) Update(c *gin.Context) {
	const op = "ActivityHandler.Update"

	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, op, "id")
	if !ok {
		return
	}

	var req models.ActivityFields
	if !bindJSON(c, op, &req) {
		return
	}

	act, err := h.svc.Update(c.Request.Context(), userID, id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ActivityResponse{Activity: *act, TypeLabel: act.Type.Label()})
}

func (h *ActivityHandler) Delete(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "ActivityHandler.Delete", "id")
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), userID, id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Recent lists activities of the last ?days=N days, newest first.
func (h *ActivityHandler) Recent(c *gin.Context) {
	const op = "ActivityHandler.Recent"

	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	days, ok := queryInt(c, op, "days", 30)
	if !ok {
		return
	}
	limit, ok := queryInt(c, op, "limit", 50)
	if !ok {
		return
	}
	if days <= 0 {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "days must be > 0", nil))
		return
	}

	since := h.now().UTC().AddDate(0, 0, -days)
	rows, err := h.svc.Since(c.Request.Context(), userID, since, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toActivityWithApplicationResponses(rows))
}

func (h *ActivityHandler) TypeBreakdown(c *gin.Context) {
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

func (h *ActivityHandler) CountByType(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	typ := models.ActivityType(strings.ToUpper(c.Param("type")))
	n, err := h.svc.CountByType(c.Request.Context(), userID, typ)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": n})
}
