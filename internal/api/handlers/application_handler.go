package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/clintmariano/careerlog/internal/models"
	pgrepo "github.com/clintmariano/careerlog/internal/repositories/postgres"
	"github.com/clintmariano/careerlog/internal/services"
	"github.com/clintmariano/careerlog/internal/utils"
	"github.com/gin-gonic/gin"
)

type ApplicationHandler struct {
	svc services.ApplicationService
	now func() time.Time
}

func NewApplicationHandler(svc services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{svc: svc, now: time.Now}
}

type ApplicationRequest struct {
	models.ApplicationFields
	ApplicationDate string `json:"application_date"` // YYYY-MM-DD, optional
}

type ApplicationPageResponse struct {
	Content       []ApplicationResponse `json:"content"`
	Page          int                   `json:"page"`
	Size          int                   `json:"size"`
	TotalElements int64                 `json:"total_elements"`
	TotalPages    int                   `json:"total_pages"`
}

func (h *ApplicationHandler) List(c *gin.Context) {
	const op = "ApplicationHandler.List"

	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	page, ok := queryInt(c, op, "page", 0)
	if !ok {
		return
	}
	size, ok := queryInt(c, op, "size", 10)
	if !ok {
		return
	}

	q := pgrepo.ListQuery{
		Search: strings.TrimSpace(c.Query("search")),
		Page:   page,
		Size:   size,
		SortBy: c.DefaultQuery("sort_by", "application_date"),
	}
	switch strings.ToLower(c.DefaultQuery("sort_dir", "desc")) {
	case "desc":
		q.Desc = true
	case "asc":
	default:
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "sort_dir must be asc or desc", nil))
		return
	}

	res, err := h.svc.List(c.Request.Context(), userID, q)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, ApplicationPageResponse{
		Content:       toApplicationResponses(res.Content),
		Page:          res.Page,
		Size:          res.Size,
		TotalElements: res.TotalElements,
		TotalPages:    res.TotalPages,
	})
}

func (h *ApplicationHandler) ListByStatus(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	status := models.ApplicationStatus(strings.ToUpper(c.Param("status")))
	rows, err := h.svc.ListByStatus(c.Request.Context(), userID, status)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toApplicationResponses(rows))
}

func (h *ApplicationHandler) Get(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "ApplicationHandler.Get", "id")
	if !ok {
		return
	}

	app, err := h.svc.Get(c.Request.Context(), userID, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toApplicationResponse(*app))
}

func (h *ApplicationHandler) Create(c *gin.Context) {
	const op = "ApplicationHandler.Create"

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req ApplicationRequest
	if !bindJSON(c, op, &req) {
		return
	}

	var date *time.Time
	if raw := strings.TrimSpace(req.ApplicationDate); raw != "" {
		d, err := time.Parse(dateLayout, raw)
		if err != nil {
			writeError(c, utils.E(utils.CodeInvalidArgument, op, "application_date must be YYYY-MM-DD", err))
			return
		}
		date = &d
	}

	app, err := h.svc.Create(c.Request.Context(), userID, req.ApplicationFields, date)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toApplicationResponse(*app))
}

// Update ignores application_date; only the mutable subset is applied.
func (h *ApplicationHandler) Update(c *gin.Context) {
	const op = "ApplicationHandler.Update"

	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, op, "id")
	if !ok {
		return
	}

	var req ApplicationRequest
	if !bindJSON(c, op, &req) {
		return
	}

	app, err := h.svc.Update(c.Request.Context(), userID, id, req.ApplicationFields)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toApplicationResponse(*app))
}

func (h *ApplicationHandler) Delete(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "ApplicationHandler.Delete", "id")
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), userID, id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ApplicationHandler) StatusBreakdown(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	out, err := h.svc.StatusBreakdown(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// WeeklyCount covers the last ?weeks=N weeks, or three months when unset.
func (h *ApplicationHandler) WeeklyCount(c *gin.Context) {
	const op = "ApplicationHandler.WeeklyCount"

	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	weeks, ok := queryInt(c, op, "weeks", 0)
	if !ok {
		return
	}
	if weeks < 0 {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "weeks must be > 0", nil))
		return
	}

	today := time.Time(models.DateOf(h.now()))
	since := today.AddDate(0, -3, 0)
	if weeks > 0 {
		since = today.AddDate(0, 0, -7*weeks)
	}

	out, err := h.svc.WeeklyCounts(c.Request.Context(), userID, since)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *ApplicationHandler) TotalCount(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	n, err := h.svc.TotalCount(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"total_applications": n})
}
