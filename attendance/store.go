package attendance

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
)

// Record is an immutable attendance audit row, one per successful login.
type Record struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	EmployeeEmail  string    `gorm:"size:255;not null;index:idx_attendance_email_logged,priority:1" json:"employeeEmail"`
	LogDate        string    `gorm:"size:10;not null" json:"logDate"`
	LogTime        string    `gorm:"size:8;not null" json:"logTime"`
	LoggedAt       time.Time `gorm:"not null;index:idx_attendance_email_logged,priority:2" json:"loggedAt"`
	ArrivalStatus  string    `gorm:"size:16;not null" json:"arrivalStatus"`
	MinutesLate    int       `gorm:"not null;default:0" json:"minutesLate"`
	Leave          bool      `gorm:"not null" json:"leave"`
	EffectiveHours string    `gorm:"size:8;not null" json:"effectiveHours"`
	GrossHours     string    `gorm:"size:8;not null" json:"grossHours"`
	LogStatusCode  string    `gorm:"size:4;not null;index" json:"logStatusCode"`
	CreatedAt      time.Time `gorm:"<-:create" json:"createdAt"`
}

func (Record) TableName() string {
	return "attendance_logs"
}

func (r *Record) BeforeUpdate(tx *gorm.DB) error {
	return ErrRecordImmutable
}

func (r *Record) BeforeDelete(tx *gorm.DB) error {
	return ErrRecordImmutable
}

// AppendRecord inserts rec. It never reads or updates existing rows.
func AppendRecord(db *gorm.DB, rec *Record) error {
	if rec.EmployeeEmail == "" {
		return ErrMissingEmail
	}
	// sqlite keeps times as offset text, so only UTC values order correctly
	rec.LoggedAt = rec.LoggedAt.UTC()
	if err := db.Create(rec).Error; err != nil {
		return fmt.Errorf("append attendance record for %s: %w", rec.EmployeeEmail, err)
	}
	return nil
}

// FindRecordsByEmail returns every record of email, most recent first.
func FindRecordsByEmail(db *gorm.DB, email string) ([]Record, error) {
	var records []Record
	err := db.Where("employee_email = ?", email).
		Order("logged_at DESC").
		Order("id DESC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("find attendance records for %s: %w", email, err)
	}
	return records, nil
}

// FindPendingRecords returns the late-arrival records of email that still await
// acknowledgment, most recent first.
func FindPendingRecords(db *gorm.DB, email string) ([]Record, error) {
	var records []Record
	err := db.Where("employee_email = ? AND log_status_code = ?", email, CodeLate).
		Order("logged_at DESC").
		Order("id DESC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("find pending attendance records for %s: %w", email, err)
	}
	return records, nil
}
