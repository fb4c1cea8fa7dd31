package calendar

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"hrmplatform.com/hrm/utils"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&Event{}))
	return db
}

func at(day, hour int) time.Time {
	return time.Date(2024, 3, day, hour, 0, 0, 0, time.UTC)
}

func createEvent(t *testing.T, db *gorm.DB, owner, title string, start, end time.Time) *Event {
	t.Helper()
	e := &Event{OwnerEmail: owner, Title: title, StartsAt: start, EndsAt: end}
	require.NoError(t, CreateEvent(db, e))
	return e
}

func TestCreateEvent(t *testing.T) {
	db := newTestDB(t)

	e := &Event{OwnerEmail: "a@example.com", Title: "Standup", StartsAt: at(4, 9), EndsAt: at(4, 10), Source: SourceHoliday}
	require.NoError(t, e.SetAttendees([]string{" B@Example.com", "", "c@example.com", "b@example.com"}))
	require.NoError(t, CreateEvent(db, e))

	assert.NotEmpty(t, e.ID)
	assert.Equal(t, SourceUser, e.Source)

	found, err := FindEvent(db, e.ID, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Standup", found.Title)
	assert.Equal(t, []string{"b@example.com", "c@example.com"}, found.AttendeeList())
}

func TestCreateEvent_Validation(t *testing.T) {
	db := newTestDB(t)

	err := CreateEvent(db, &Event{OwnerEmail: "a@example.com", Title: " ", StartsAt: at(4, 9), EndsAt: at(4, 10)})
	assert.ErrorIs(t, err, ErrMissingTitle)

	err = CreateEvent(db, &Event{OwnerEmail: "a@example.com", Title: "x", StartsAt: at(4, 10), EndsAt: at(4, 9)})
	assert.ErrorIs(t, err, ErrInvalidRange)

	err = CreateEvent(db, &Event{Title: "x", StartsAt: at(4, 9), EndsAt: at(4, 10)})
	assert.ErrorIs(t, err, ErrMissingOwner)
}

func TestEvents_OwnerIsolation(t *testing.T) {
	db := newTestDB(t)
	e := createEvent(t, db, "a@example.com", "Private", at(4, 9), at(4, 10))

	_, err := FindEvent(db, e.ID, "b@example.com")
	assert.ErrorIs(t, err, ErrEventNotFound)

	_, err = UpdateEvent(db, e.ID, "b@example.com", EventUpdate{Title: utils.Ptr("Hijacked")})
	assert.ErrorIs(t, err, ErrEventNotFound)

	assert.ErrorIs(t, DeleteEvent(db, e.ID, "b@example.com"), ErrEventNotFound)

	events, err := ListEvents(db, "b@example.com", time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Empty(t, events)

	found, err := FindEvent(db, e.ID, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Private", found.Title)
}

func TestUpdateEvent(t *testing.T) {
	db := newTestDB(t)
	e := createEvent(t, db, "a@example.com", "Review", at(4, 9), at(4, 10))

	attendees := []string{"X@example.com"}
	updated, err := UpdateEvent(db, e.ID, "a@example.com", EventUpdate{
		Title:     utils.Ptr("Design review"),
		EndsAt:    utils.Ptr(at(4, 11)),
		Attendees: &attendees,
	})
	require.NoError(t, err)
	assert.Equal(t, "Design review", updated.Title)

	found, err := FindEvent(db, e.ID, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Design review", found.Title)
	assert.True(t, found.EndsAt.Equal(at(4, 11)))
	assert.Equal(t, []string{"x@example.com"}, found.AttendeeList())

	_, err = UpdateEvent(db, e.ID, "a@example.com", EventUpdate{EndsAt: utils.Ptr(at(3, 9))})
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestDeleteEvent(t *testing.T) {
	db := newTestDB(t)
	e := createEvent(t, db, "a@example.com", "Lunch", at(4, 12), at(4, 13))

	require.NoError(t, DeleteEvent(db, e.ID, "a@example.com"))
	_, err := FindEvent(db, e.ID, "a@example.com")
	assert.ErrorIs(t, err, ErrEventNotFound)
	assert.ErrorIs(t, DeleteEvent(db, e.ID, "a@example.com"), ErrEventNotFound)
}

func TestListEvents_WindowAndHolidays(t *testing.T) {
	db := newTestDB(t)
	createEvent(t, db, "a@example.com", "Before", at(1, 9), at(1, 10))
	createEvent(t, db, "a@example.com", "Spanning", at(3, 22), at(4, 2))
	createEvent(t, db, "a@example.com", "Inside", at(4, 9), at(4, 10))
	createEvent(t, db, "a@example.com", "After", at(6, 9), at(6, 10))

	_, err := SyncHolidays(db, []Holiday{{Region: "AU", Date: at(5, 0), Description: "Labour Day"}}, false)
	require.NoError(t, err)

	events, err := ListEvents(db, "a@example.com", at(4, 0), at(6, 0))
	require.NoError(t, err)
	titles := utils.Map(events, func(e Event) string { return e.Title })
	assert.Equal(t, []string{"Spanning", "Inside", "Labour Day"}, titles)

	holiday := events[2]
	assert.Equal(t, SourceHoliday, holiday.Source)

	// holidays are visible but read-only
	_, err = FindEvent(db, holiday.ID, "a@example.com")
	assert.NoError(t, err)
	_, err = UpdateEvent(db, holiday.ID, "a@example.com", EventUpdate{Title: utils.Ptr("x")})
	assert.ErrorIs(t, err, ErrEventNotFound)
	assert.ErrorIs(t, DeleteEvent(db, holiday.ID, "a@example.com"), ErrEventNotFound)

	all, err := ListEvents(db, "a@example.com", time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Len(t, all, 5)
}
