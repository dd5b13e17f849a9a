package models

import (
	"strings"
	"time"
)

type Activity struct {
	ID            int64 `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ApplicationID int64 `gorm:"column:application_id;not null;index" json:"application_id"`

	Type     ActivityType `gorm:"column:type;size:32;not null;index" json:"type"`
	DateTime time.Time    `gorm:"column:date_time;not null;index" json:"date_time"`

	Notes           string `gorm:"column:notes;size:1000" json:"notes"`
	Location        string `gorm:"column:location;size:500" json:"location"`
	Participants    string `gorm:"column:participants;size:1000" json:"participants"`
	DurationMinutes *int   `gorm:"column:duration_minutes" json:"duration_minutes,omitempty"`

	// only declared so migrations create the cascading foreign key
	Application *Application `gorm:"foreignKey:ApplicationID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Activity) TableName() string { return "activities" }

type ActivityFields struct {
	Type            ActivityType `json:"type" validate:"required,activity_type"`
	DateTime        *time.Time   `json:"date_time"`
	Notes           string       `json:"notes" validate:"max=1000"`
	Location        string       `json:"location" validate:"max=500"`
	Participants    string       `json:"participants" validate:"max=1000"`
	DurationMinutes *int         `json:"duration_minutes" validate:"omitempty,gte=0"`
}

func (f ActivityFields) normalized() ActivityFields {
	f.Type = ActivityType(strings.ToUpper(strings.TrimSpace(string(f.Type))))
	return f
}

// NewActivity builds an unsaved Activity under applicationID. A missing
// timestamp becomes now.
func NewActivity(applicationID int64, f ActivityFields, now time.Time) (Activity, error) {
	if applicationID <= 0 {
		return Activity{}, invalid("application_id is required")
	}
	f = f.normalized()
	if err := check(f); err != nil {
		return Activity{}, err
	}

	at := now
	if f.DateTime != nil && !f.DateTime.IsZero() {
		at = *f.DateTime
	}

	return Activity{
		ApplicationID:   applicationID,
		Type:            f.Type,
		DateTime:        at.UTC(),
		Notes:           f.Notes,
		Location:        f.Location,
		Participants:    f.Participants,
		DurationMinutes: f.DurationMinutes,
	}, nil
}

// Patch returns a copy with type, timestamp, notes, location, participants
// and duration replaced. The parent reference never changes. A missing
// timestamp keeps the current one.
func (a Activity) Patch(f ActivityFields) (Activity, error) {
	f = f.normalized()
	if err := check(f); err != nil {
		return Activity{}, err
	}

	out := a
	out.Application = nil
	out.Type = f.Type
	if f.DateTime != nil && !f.DateTime.IsZero() {
		out.DateTime = f.DateTime.UTC()
	}
	out.Notes = f.Notes
	out.Location = f.Location
	out.Participants = f.Participants
	out.DurationMinutes = f.DurationMinutes
	return out, nil
}

// ActivityWithApplication is an activity joined with its parent's headline
// fields.
type ActivityWithApplication struct {
	Activity
	CompanyName string `gorm:"column:company_name" json:"company_name"`
	JobTitle    string `gorm:"column:job_title" json:"job_title"`
}
