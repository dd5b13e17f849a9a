package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/clintmariano/careerlog/internal/models"
	"github.com/clintmariano/careerlog/internal/utils"
	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

type APIError struct {
	Code    utils.Code `json:"code"`
	Message string     `json:"message"`
}

func writeError(c *gin.Context, err error) {
	status := utils.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}

	var ae *utils.AppError
	if errors.As(err, &ae) {
		c.JSON(status, APIError{
			Code:    ae.Code,
			Message: ae.Message,
		})
		return
	}

	c.JSON(status, APIError{
		Code:    utils.CodeInternal,
		Message: http.StatusText(status),
	})
}

func requireUserID(c *gin.Context) (string, bool) {
	if v, ok := c.Get("user_id"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s, true
		}
	}

	writeError(c, utils.E(utils.CodeUnauthorized, "Auth", "unauthorized", nil))
	return "", false
}

func pathID(c *gin.Context, op, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, name+" must be a positive integer", err))
		return 0, false
	}
	return id, true
}

func queryInt(c *gin.Context, op, name string, def int) (int, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, name+" must be an integer", err))
		return 0, false
	}
	return n, true
}

func bindJSON(c *gin.Context, op string, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "invalid request body", err))
		return false
	}
	return true
}

type ApplicationResponse struct {
	ID              int64  `json:"id"`
	UserID          string `json:"user_id"`
	CompanyName     string `json:"company_name"`
	JobTitle        string `json:"job_title"`
	Location        string `json:"location"`
	TechStack       string `json:"tech_stack"`
	ApplicationDate string `json:"application_date"`
	Status          string `json:"status"`
	StatusLabel     string `json:"status_label"`
	SalaryRange     string `json:"salary_range"`
	Source          string `json:"source"`
	Description     string `json:"description"`
}

func toApplicationResponse(a models.Application) ApplicationResponse {
	return ApplicationResponse{
		ID:              a.ID,
		UserID:          a.UserID,
		CompanyName:     a.CompanyName,
		JobTitle:        a.JobTitle,
		Location:        a.Location,
		TechStack:       a.TechStack,
		ApplicationDate: a.Day().Format(dateLayout),
		Status:          string(a.Status),
		StatusLabel:     a.Status.Label(),
		SalaryRange:     a.SalaryRange,
		Source:          a.Source,
		Description:     a.Description,
	}
}

func toApplicationResponses(rows []models.Application) []ApplicationResponse {
	out := make([]ApplicationResponse, 0, len(rows))
	for _, a := range rows {
		out = append(out, toApplicationResponse(a))
	}
	return out
}

type ActivityResponse struct {
	models.Activity
	TypeLabel string `json:"type_label"`
}

func toActivityResponses(rows []models.Activity) []ActivityResponse {
	out := make([]ActivityResponse, 0, len(rows))
	for _, a := range rows {
		out = append(out, ActivityResponse{Activity: a, TypeLabel: a.Type.Label()})
	}
	return out
}

type ActivityWithApplicationResponse struct {
	models.ActivityWithApplication
	TypeLabel string `json:"type_label"`
}

func toActivityWithApplicationResponses(rows []models.ActivityWithApplication) []ActivityWithApplicationResponse {
	out := make([]ActivityWithApplicationResponse, 0, len(rows))
	for _, a := range rows {
		out = append(out, ActivityWithApplicationResponse{ActivityWithApplication: a, TypeLabel: a.Type.Label()})
	}
	return out
}

type AttachmentResponse struct {
	models.Attachment
	TypeLabel string `json:"type_label"`
}

func toAttachmentResponses(rows []models.Attachment) []AttachmentResponse {
	out := make([]AttachmentResponse, 0, len(rows))
	for _, a := range rows {
		out = append(out, AttachmentResponse{Attachment: a, TypeLabel: a.Type.Label()})
	}
	return out
}
