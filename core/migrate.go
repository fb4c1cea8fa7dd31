package core

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"hrmplatform.com/hrm/attendance"
	"hrmplatform.com/hrm/calendar"
)

// Migrate creates or extends the tables of every persisted model.
func (dm *DatabaseManager) Migrate(ctx context.Context) error {
	return dm.Exec(ctx, func(db *gorm.DB) error {
		if err := db.AutoMigrate(&Employee{}, &attendance.Record{}, &calendar.Event{}); err != nil {
			return fmt.Errorf("failed to migrate schema: %w", err)
		}
		return nil
	})
}
