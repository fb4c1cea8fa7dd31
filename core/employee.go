package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

type Employee struct {
	EmployeeID    uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	FullName      string     `gorm:"size:255;not null" json:"fullname"`
	WorkEmail     string     `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Company       string     `gorm:"size:255;not null" json:"company"`
	DateOfBirth   *time.Time `gorm:"type:date" json:"dateofbirth"`
	Country       string     `gorm:"size:255;not null" json:"country"`
	AboutYourself string     `gorm:"type:text;not null" json:"aboutyourself"`
	Password      string     `gorm:"size:255;not null" json:"-"`
	CreatedAt     time.Time  `gorm:"<-:create" json:"createdAt"`
}

func (Employee) TableName() string {
	return "employees"
}

// NormalizeEmail is the canonical form work emails are stored and looked up in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func CreateEmployee(db *gorm.DB, emp *Employee) error {
	emp.WorkEmail = NormalizeEmail(emp.WorkEmail)

	existing, err := FindEmployeeByEmail(db, emp.WorkEmail)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrEmployeeExists
	}

	if err := db.Create(emp).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrEmployeeExists
		}
		return fmt.Errorf("create employee %s: %w", emp.WorkEmail, err)
	}
	return nil
}

func FindEmployeeByEmail(db *gorm.DB, email string) (*Employee, error) {
	var emp Employee
	result := db.Where("work_email = ?", NormalizeEmail(email)).Take(&emp)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil // not found
	}
	if result.Error != nil {
		return nil, fmt.Errorf("find employee %s: %w", email, result.Error)
	}
	return &emp, nil
}
