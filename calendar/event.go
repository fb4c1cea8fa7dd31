package calendar

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"hrmplatform.com/hrm/utils"
)

const (
	SourceUser    = "USER"
	SourceHoliday = "HOLIDAY"
)

type Event struct {
	ID          string         `gorm:"primaryKey;size:36" json:"id"`
	OwnerEmail  string         `gorm:"size:255;index" json:"ownerEmail,omitempty"`
	Title       string         `gorm:"size:255;not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	StartsAt    time.Time      `gorm:"not null;index" json:"startsAt"`
	EndsAt      time.Time      `gorm:"not null" json:"endsAt"`
	AllDay      bool           `gorm:"not null;default:false" json:"allDay"`
	Location    string         `gorm:"size:255" json:"location"`
	Attendees   datatypes.JSON `json:"attendees"`
	Source      string         `gorm:"size:16;not null;default:USER" json:"source"`
	Region      string         `gorm:"size:16" json:"region,omitempty"`
	// HolidayKey is "REGION|yyyy-MM-dd" for holidays and NULL for user events.
	HolidayKey *string   `gorm:"size:64;uniqueIndex" json:"-"`
	CreatedAt  time.Time `gorm:"<-:create" json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (Event) TableName() string {
	return "calendar_events"
}

// EventUpdate carries the fields a PUT may change. Nil fields are left alone.
type EventUpdate struct {
	Title       *string
	Description *string
	StartsAt    *time.Time
	EndsAt      *time.Time
	AllDay      *bool
	Location    *string
	Attendees   *[]string
}

// AttendeeList decodes the attendees column.
func (e *Event) AttendeeList() []string {
	var out []string
	if len(e.Attendees) == 0 {
		return []string{}
	}
	if err := json.Unmarshal(e.Attendees, &out); err != nil || out == nil {
		return []string{}
	}
	return out
}

// SetAttendees stores the trimmed, lower-cased, de-duplicated list.
func (e *Event) SetAttendees(attendees []string) error {
	cleaned := make([]string, 0, len(attendees))
	for _, a := range attendees {
		if a = strings.TrimSpace(a); a != "" {
			cleaned = append(cleaned, strings.ToLower(a))
		}
	}
	b, err := json.Marshal(utils.Unique(cleaned))
	if err != nil {
		return err
	}
	e.Attendees = datatypes.JSON(b)
	return nil
}

func (e *Event) validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return ErrMissingTitle
	}
	if e.EndsAt.Before(e.StartsAt) {
		return ErrInvalidRange
	}
	return nil
}

// CreateEvent stores a user event owned by e.OwnerEmail.
func CreateEvent(db *gorm.DB, e *Event) error {
	if e.OwnerEmail == "" {
		return ErrMissingOwner
	}
	if err := e.validate(); err != nil {
		return err
	}
	e.ID = uuid.NewString()
	e.Source = SourceUser
	e.HolidayKey = nil
	if len(e.Attendees) == 0 {
		if err := e.SetAttendees(nil); err != nil {
			return err
		}
	}
	if err := db.Create(e).Error; err != nil {
		return fmt.Errorf("create calendar event: %w", err)
	}
	return nil
}

// FindEvent returns an event visible to owner: one of owner's own events or a holiday.
func FindEvent(db *gorm.DB, id, owner string) (*Event, error) {
	var e Event
	err := db.Where("id = ? AND (owner_email = ? OR source = ?)", id, owner, SourceHoliday).Take(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find calendar event %s: %w", id, err)
	}
	return &e, nil
}

// ListEvents returns owner's events and holidays overlapping [from, to), ordered by start.
// A zero from or to leaves that side open.
func ListEvents(db *gorm.DB, owner string, from, to time.Time) ([]Event, error) {
	query := db.Where("(owner_email = ? OR source = ?)", owner, SourceHoliday)
	if !from.IsZero() {
		query = query.Where("ends_at >= ?", from)
	}
	if !to.IsZero() {
		query = query.Where("starts_at < ?", to)
	}

	var events []Event
	if err := query.Order("starts_at ASC").Order("id ASC").Find(&events).Error; err != nil {
		return nil, fmt.Errorf("list calendar events: %w", err)
	}
	return events, nil
}

// UpdateEvent applies upd to one of owner's own events. Holidays are read-only.
func UpdateEvent(db *gorm.DB, id, owner string, upd EventUpdate) (*Event, error) {
	e, err := findOwned(db, id, owner)
	if err != nil {
		return nil, err
	}

	if upd.Title != nil {
		e.Title = *upd.Title
	}
	if upd.Description != nil {
		e.Description = *upd.Description
	}
	if upd.StartsAt != nil {
		e.StartsAt = *upd.StartsAt
	}
	if upd.EndsAt != nil {
		e.EndsAt = *upd.EndsAt
	}
	if upd.AllDay != nil {
		e.AllDay = *upd.AllDay
	}
	if upd.Location != nil {
		e.Location = *upd.Location
	}
	if upd.Attendees != nil {
		if err := e.SetAttendees(*upd.Attendees); err != nil {
			return nil, err
		}
	}
	if err := e.validate(); err != nil {
		return nil, err
	}

	if err := db.Save(e).Error; err != nil {
		return nil, fmt.Errorf("update calendar event %s: %w", id, err)
	}
	return e, nil
}

func DeleteEvent(db *gorm.DB, id, owner string) error {
	result := db.Where("id = ? AND owner_email = ? AND source = ?", id, owner, SourceUser).Delete(&Event{})
	if result.Error != nil {
		return fmt.Errorf("delete calendar event %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrEventNotFound
	}
	return nil
}

func findOwned(db *gorm.DB, id, owner string) (*Event, error) {
	var e Event
	err := db.Where("id = ? AND owner_email = ? AND source = ?", id, owner, SourceUser).Take(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find calendar event %s: %w", id, err)
	}
	return &e, nil
}
