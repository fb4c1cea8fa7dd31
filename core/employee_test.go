package core

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestManager(t *testing.T) *DatabaseManager {
	t.Helper()
	dm, err := New(DriverSQLite, ":memory:", 4, LogLevelSilent)
	require.NoError(t, err)
	t.Cleanup(func() { dm.Close() })
	require.NoError(t, dm.Migrate(context.Background()))
	return dm
}

func TestCreateEmployee(t *testing.T) {
	dm := newTestManager(t)
	ctx := context.Background()
	dob := time.Date(1990, 4, 12, 0, 0, 0, 0, time.UTC)

	err := dm.Exec(ctx, func(db *gorm.DB) error {
		return CreateEmployee(db, &Employee{
			FullName:      "Asha Rao",
			WorkEmail:     "  Asha@Example.com ",
			Company:       "Acme",
			DateOfBirth:   &dob,
			Country:       "IN",
			AboutYourself: "hello",
			Password:      "hash",
		})
	})
	require.NoError(t, err)

	var found *Employee
	err = dm.Exec(ctx, func(db *gorm.DB) error {
		var err error
		found, err = FindEmployeeByEmail(db, "ASHA@example.com")
		return err
	})
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "asha@example.com", found.WorkEmail)
	assert.Equal(t, "Asha Rao", found.FullName)
	assert.NotZero(t, found.EmployeeID)
	assert.False(t, found.CreatedAt.IsZero())
}

func TestCreateEmployee_Duplicate(t *testing.T) {
	dm := newTestManager(t)
	ctx := context.Background()

	emp := func() *Employee {
		return &Employee{FullName: "A", WorkEmail: "a@example.com", Company: "Acme", Country: "AU", AboutYourself: "-", Password: "x"}
	}

	require.NoError(t, dm.Exec(ctx, func(db *gorm.DB) error { return CreateEmployee(db, emp()) }))

	err := dm.Exec(ctx, func(db *gorm.DB) error {
		e := emp()
		e.WorkEmail = "A@EXAMPLE.COM"
		return CreateEmployee(db, e)
	})
	assert.ErrorIs(t, err, ErrEmployeeExists)
}

func TestFindEmployeeByEmail_NotFound(t *testing.T) {
	dm := newTestManager(t)

	err := dm.Exec(context.Background(), func(db *gorm.DB) error {
		emp, err := FindEmployeeByEmail(db, "nobody@example.com")
		assert.Nil(t, emp)
		return err
	})
	assert.NoError(t, err)
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"silent", LogLevelSilent},
		{"ERROR", LogLevelError},
		{" info ", LogLevelInfo},
		{"warn", LogLevelWarn},
		{"verbose", LogLevelWarn},
		{"", LogLevelWarn},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLogLevel(tt.in), tt.in)
	}
}

func TestNew_UnsupportedDriver(t *testing.T) {
	_, err := New("oracle", "x", 1, LogLevelSilent)
	assert.ErrorContains(t, err, "unsupported database driver")
}
