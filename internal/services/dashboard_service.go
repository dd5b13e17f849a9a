package services

import (
	"context"
	"math"
	"time"

	"github.com/clintmariano/careerlog/internal/models"
	pgrepo "github.com/clintmariano/careerlog/internal/repositories/postgres"
	"github.com/clintmariano/careerlog/internal/utils"
)

const (
	overviewWeeks      = 12
	overviewActivities = 10
)

type RecentActivity struct {
	ID            int64     `json:"id"`
	Type          string    `json:"type"`
	DateTime      time.Time `json:"date_time"`
	CompanyName   string    `json:"company_name"`
	JobTitle      string    `json:"job_title"`
	Notes         string    `json:"notes,omitempty"`
	ApplicationID int64     `json:"application_id,omitempty"`
}

type Overview struct {
	TotalApplications          int64              `json:"total_applications"`
	ApplicationStatusBreakdown map[string]int64   `json:"application_status_breakdown"`
	WeeklyApplications         []pgrepo.WeekCount `json:"weekly_applications"`
	RecentActivities           []RecentActivity   `json:"recent_activities"`
	ActivityTypeBreakdown      map[string]int64   `json:"activity_type_breakdown"`
}

type StatusSummary struct {
	TotalApplications int64              `json:"total_applications"`
	StatusBreakdown   map[string]int64   `json:"status_breakdown"`
	StatusPercentages map[string]float64 `json:"status_percentages"`
}

type ActivityTrends struct {
	ActivityTypeBreakdown   map[string]int64 `json:"activity_type_breakdown"`
	AttachmentTypeBreakdown map[string]int64 `json:"attachment_type_breakdown"`
}

type DashboardService interface {
	Overview(ctx context.Context, userID string) (*Overview, error)
	ApplicationsPerWeek(ctx context.Context, userID string, weeks int) ([]pgrepo.WeekCount, error)
	RecentActivities(ctx context.Context, userID string, limit int) ([]RecentActivity, error)
	StatusSummary(ctx context.Context, userID string) (*StatusSummary, error)
	ActivityTrends(ctx context.Context, userID string) (*ActivityTrends, error)
}

type dashboardService struct {
	apps        ApplicationService
	activities  ActivityService
	attachments AttachmentService
	opts        options
}

// NewDashboardService composes the per-entity services; it owns no storage.
func NewDashboardService(apps ApplicationService, activities ActivityService, attachments AttachmentService, opts ...Option) DashboardService {
	return &dashboardService{apps: apps, activities: activities, attachments: attachments, opts: buildOptions(opts)}
}

// Overview runs its queries one after another. Each one sees committed data,
// but the figures are not a single snapshot.
func (s *dashboardService) Overview(ctx context.Context, userID string) (*Overview, error) {
	total, err := s.apps.TotalCount(ctx, userID)
	if err != nil {
		return nil, err
	}
	breakdown, err := s.apps.StatusBreakdown(ctx, userID)
	if err != nil {
		return nil, err
	}
	weekly, err := s.ApplicationsPerWeek(ctx, userID, overviewWeeks)
	if err != nil {
		return nil, err
	}
	recent, err := s.activities.Recent(ctx, userID, overviewActivities)
	if err != nil {
		return nil, err
	}
	types, err := s.activities.TypeBreakdown(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := &Overview{
		TotalApplications:          total,
		ApplicationStatusBreakdown: breakdown,
		WeeklyApplications:         weekly,
		RecentActivities:           make([]RecentActivity, 0, len(recent)),
		ActivityTypeBreakdown:      types,
	}
	for _, a := range recent {
		out.RecentActivities = append(out.RecentActivities, RecentActivity{
			ID:          a.ID,
			Type:        a.Type.Label(),
			DateTime:    a.DateTime,
			CompanyName: a.CompanyName,
			JobTitle:    a.JobTitle,
		})
	}
	return out, nil
}

// ApplicationsPerWeek counts applications dated within the last n weeks.
func (s *dashboardService) ApplicationsPerWeek(ctx context.Context, userID string, weeks int) ([]pgrepo.WeekCount, error) {
	const op = "DashboardService.ApplicationsPerWeek"

	if weeks <= 0 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "weeks must be > 0", nil)
	}
	since := time.Time(models.DateOf(s.opts.now())).AddDate(0, 0, -7*weeks)
	return s.apps.WeeklyCounts(ctx, userID, since)
}

func (s *dashboardService) RecentActivities(ctx context.Context, userID string, limit int) ([]RecentActivity, error) {
	recent, err := s.activities.Recent(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]RecentActivity, 0, len(recent))
	for _, a := range recent {
		out = append(out, RecentActivity{
			ID:            a.ID,
			Type:          a.Type.Label(),
			DateTime:      a.DateTime,
			CompanyName:   a.CompanyName,
			JobTitle:      a.JobTitle,
			Notes:         a.Notes,
			ApplicationID: a.ApplicationID,
		})
	}
	return out, nil
}

// StatusSummary totals the breakdown itself, so it ignores the date cutoff
// used by TotalCount.
func (s *dashboardService) StatusSummary(ctx context.Context, userID string) (*StatusSummary, error) {
	breakdown, err := s.apps.StatusBreakdown(ctx, userID)
	if err != nil {
		return nil, err
	}

	var total int64
	for _, n := range breakdown {
		total += n
	}
	pct := make(map[string]float64, len(breakdown))
	for label, n := range breakdown {
		if total == 0 {
			pct[label] = 0
			continue
		}
		pct[label] = math.Round(float64(n)*1000/float64(total)) / 10
	}

	return &StatusSummary{TotalApplications: total, StatusBreakdown: breakdown, StatusPercentages: pct}, nil
}

func (s *dashboardService) ActivityTrends(ctx context.Context, userID string) (*ActivityTrends, error) {
	activities, err := s.activities.TypeBreakdown(ctx, userID)
	if err != nil {
		return nil, err
	}
	attachments, err := s.attachments.TypeBreakdown(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &ActivityTrends{ActivityTypeBreakdown: activities, AttachmentTypeBreakdown: attachments}, nil
}
