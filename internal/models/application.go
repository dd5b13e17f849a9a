package models

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

type Application struct {
	ID     int64  `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID string `gorm:"column:user_id;type:text;not null;uniqueIndex:idx_applications_owner_company_title,priority:1" json:"user_id"`

	CompanyName string `gorm:"column:company_name;size:200;not null;uniqueIndex:idx_applications_owner_company_title,priority:2" json:"company_name"`
	JobTitle    string `gorm:"column:job_title;size:200;not null;uniqueIndex:idx_applications_owner_company_title,priority:3" json:"job_title"`
	Location    string `gorm:"column:location;size:200" json:"location"`
	TechStack   string `gorm:"column:tech_stack;size:500" json:"tech_stack"`

	ApplicationDate datatypes.Date    `gorm:"column:application_date;not null;index" json:"application_date"`
	Status          ApplicationStatus `gorm:"column:status;size:32;not null" json:"status"`

	SalaryRange string `gorm:"column:salary_range;size:100" json:"salary_range"`
	Source      string `gorm:"column:source;size:200" json:"source"`
	Description string `gorm:"column:description;size:1000" json:"description"`
}

func (Application) TableName() string { return "applications" }

// ApplicationFields is the client-controlled part of an Application. It is
// the whole of what an update may change.
type ApplicationFields struct {
	CompanyName string            `json:"company_name" validate:"notblank,max=200"`
	JobTitle    string            `json:"job_title" validate:"notblank,max=200"`
	Location    string            `json:"location" validate:"max=200"`
	TechStack   string            `json:"tech_stack" validate:"max=500"`
	Status      ApplicationStatus `json:"status" validate:"omitempty,application_status"`
	SalaryRange string            `json:"salary_range" validate:"max=100"`
	Source      string            `json:"source" validate:"max=200"`
	Description string            `json:"description" validate:"max=1000"`
}

func (f ApplicationFields) normalized() ApplicationFields {
	f.CompanyName = strings.TrimSpace(f.CompanyName)
	f.JobTitle = strings.TrimSpace(f.JobTitle)
	f.Status = ApplicationStatus(strings.ToUpper(strings.TrimSpace(string(f.Status))))
	return f
}

// NewApplication builds an unsaved Application owned by userID. A nil date
// means today (as seen from now); an empty status means StatusApplied.
func NewApplication(userID string, f ApplicationFields, date *time.Time, now time.Time) (Application, error) {
	if strings.TrimSpace(userID) == "" {
		return Application{}, invalid("user_id is required")
	}
	f = f.normalized()
	if err := check(f); err != nil {
		return Application{}, err
	}

	day := now
	if date != nil && !date.IsZero() {
		day = *date
	}
	if f.Status == "" {
		f.Status = StatusApplied
	}

	return Application{
		UserID:          userID,
		CompanyName:     f.CompanyName,
		JobTitle:        f.JobTitle,
		Location:        f.Location,
		TechStack:       f.TechStack,
		ApplicationDate: DateOf(day),
		Status:          f.Status,
		SalaryRange:     f.SalaryRange,
		Source:          f.Source,
		Description:     f.Description,
	}, nil
}

// Patch returns a copy with the mutable fields replaced. ID, owner and
// application date are carried over untouched. An empty status keeps the
// current one.
func (a Application) Patch(f ApplicationFields) (Application, error) {
	f = f.normalized()
	if err := check(f); err != nil {
		return Application{}, err
	}

	out := a
	out.CompanyName = f.CompanyName
	out.JobTitle = f.JobTitle
	out.Location = f.Location
	out.TechStack = f.TechStack
	if f.Status != "" {
		out.Status = f.Status
	}
	out.SalaryRange = f.SalaryRange
	out.Source = f.Source
	out.Description = f.Description
	return out, nil
}

// DateOf truncates t to its calendar day at UTC midnight.
func DateOf(t time.Time) datatypes.Date {
	y, m, d := t.Date()
	return datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

// Day returns the application date as a time.Time at UTC midnight.
func (a Application) Day() time.Time {
	return time.Time(a.ApplicationDate)
}
