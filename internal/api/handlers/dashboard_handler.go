package handlers

import (
	"net/http"

	"github.com/clintmariano/careerlog/internal/services"
	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	svc services.DashboardService
}

func NewDashboardHandler(svc services.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

func (h *DashboardHandler) Overview(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	ov, err := h.svc.Overview(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ov)
}

func (h *DashboardHandler) ApplicationsPerWeek(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	weeks, ok := queryInt(c, "DashboardHandler.ApplicationsPerWeek", "weeks", 12)
	if !ok {
		return
	}

	out, err := h.svc.ApplicationsPerWeek(c.Request.Context(), userID, weeks)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *DashboardHandler) RecentActivities(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	limit, ok := queryInt(c, "DashboardHandler.RecentActivities", "limit", 10)
	if !ok {
		return
	}

	out, err := h.svc.RecentActivities(c.Request.Context(), userID, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *DashboardHandler) StatusSummary(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	out, err := h.svc.StatusSummary(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *DashboardHandler) ActivityTrends(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	out, err := h.svc.ActivityTrends(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
