package calendar

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"hrmplatform.com/hrm/utils"
)

type Holiday struct {
	Region      string
	Date        time.Time
	Description string
}

func (h Holiday) key() string {
	return h.Region + "|" + h.Date.Format("2006-01-02")
}

type SyncStats struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}

// FileSource lists and reads holiday master files.
type FileSource interface {
	ListFiles(ctx context.Context, bucket string) ([]string, error)
	ReadFile(ctx context.Context, bucket, key string, w io.Writer) error
}

func parseSheetDate(dateStr string) (time.Time, error) {
	// Try parsing as ISO date first
	if t, err := time.Parse("2006-01-02", dateStr); err == nil {
		return t, nil
	}
	formats := []string{"01-02-06", "1/2/06", "02/01/2006", "2/1/2006", "2006/01/02", "02-Jan-2006", "2006-01-02T15:04:05Z"}
	for _, f := range formats {
		if t, err := time.Parse(f, dateStr); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unknown date format: %s", dateStr)
}

// ParseHolidayRows reads the master layout: row 0 holds region codes from column 1 on,
// every later row holds a date in column 0 and a description per region.
// Rows with an unreadable date are skipped.
func ParseHolidayRows(rows [][]string) []Holiday {
	if len(rows) < 1 {
		return nil
	}

	headers := rows[0]
	var result []Holiday
	for r := 1; r < len(rows); r++ {
		row := rows[r]
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}

		date, err := parseSheetDate(strings.TrimSpace(row[0]))
		if err != nil {
			log.Printf("[WARN] could not parse date '%s' on row %d: %v", row[0], r+1, err)
			continue
		}

		for i := 1; i < len(row) && i < len(headers); i++ {
			region := strings.ToUpper(strings.TrimSpace(headers[i]))
			desc := strings.TrimSpace(row[i])
			if region == "" || desc == "" {
				continue
			}
			result = append(result, Holiday{Region: region, Date: date, Description: desc})
		}
	}
	return result
}

// ParseHolidaySheet reads every sheet of an excel workbook.
func ParseHolidaySheet(r io.Reader) ([]Holiday, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	var result []Holiday
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
		}
		result = append(result, ParseHolidayRows(rows)...)
	}
	return result, nil
}

func ParseHolidayCSV(r io.Reader) ([]Holiday, error) {
	rows, err := utils.ParseCSV(r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return ParseHolidayRows(rows), nil
}

func isHolidayFile(key string) bool {
	base := path.Base(key)
	if strings.HasPrefix(base, "_") {
		return false
	}
	switch strings.ToLower(path.Ext(base)) {
	case ".xlsx", ".csv":
		return true
	}
	return false
}

// LoadHolidays reads every master file in bucket. Unreadable files are logged and skipped.
func LoadHolidays(ctx context.Context, src FileSource, bucket string) ([]Holiday, error) {
	keys, err := src.ListFiles(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	var result []Holiday
	for _, key := range utils.Filter(keys, isHolidayFile) {
		log.Printf("[INFO] Processing file: %s", key)
		var buf bytes.Buffer
		if err := src.ReadFile(ctx, bucket, key, &buf); err != nil {
			log.Printf("[ERROR] failed to read file %s: %v", key, err)
			continue
		}

		var holidays []Holiday
		if strings.EqualFold(path.Ext(key), ".csv") {
			holidays, err = ParseHolidayCSV(&buf)
		} else {
			holidays, err = ParseHolidaySheet(&buf)
		}
		if err != nil {
			log.Printf("[ERROR] failed to parse file %s: %v", key, err)
			continue
		}
		result = append(result, holidays...)
	}
	return result, nil
}

// SyncFromSource loads every master file in bucket and syncs the result into db.
func SyncFromSource(ctx context.Context, src FileSource, bucket string, db *gorm.DB, dryRun bool) (SyncStats, error) {
	holidays, err := LoadHolidays(ctx, src, bucket)
	if err != nil {
		return SyncStats{}, fmt.Errorf("failed to get public holidays: %w", err)
	}
	log.Printf("[INFO] Successfully read %d holidays from %s", len(holidays), bucket)
	return SyncHolidays(db.WithContext(ctx), holidays, dryRun)
}

// SyncHolidays creates missing holiday events and updates changed descriptions.
// With dryRun nothing is written.
func SyncHolidays(db *gorm.DB, holidays []Holiday, dryRun bool) (SyncStats, error) {
	var stats SyncStats
	if len(holidays) == 0 {
		return stats, nil
	}

	var existing []Event
	if err := db.Where("source = ?", SourceHoliday).Find(&existing).Error; err != nil {
		return stats, fmt.Errorf("failed to fetch existing holidays: %w", err)
	}
	byKey := make(map[string]*Event, len(existing))
	for i := range existing {
		if existing[i].HolidayKey != nil {
			byKey[*existing[i].HolidayKey] = &existing[i]
		}
	}

	var toCreate, toUpdate []Event
	seen := make(map[string]struct{}, len(holidays))
	for _, h := range holidays {
		key := h.key()
		if _, dup := seen[key]; dup {
			stats.Skipped++
			continue
		}
		seen[key] = struct{}{}

		if e, ok := byKey[key]; ok {
			if e.Title == h.Description {
				stats.Skipped++
				continue
			}
			upd := *e
			upd.Title = h.Description
			toUpdate = append(toUpdate, upd)
			continue
		}

		day := time.Date(h.Date.Year(), h.Date.Month(), h.Date.Day(), 0, 0, 0, 0, time.UTC)
		e := Event{
			ID:         uuid.NewString(),
			Title:      h.Description,
			StartsAt:   day,
			EndsAt:     day.Add(24*time.Hour - time.Second),
			AllDay:     true,
			Source:     SourceHoliday,
			Region:     h.Region,
			HolidayKey: utils.Ptr(key),
		}
		if err := e.SetAttendees(nil); err != nil {
			return stats, err
		}
		toCreate = append(toCreate, e)
	}

	stats.Created = len(toCreate)
	stats.Updated = len(toUpdate)
	log.Printf("[INFO] Dry run (%v): %d holidays to create, %d to update", dryRun, stats.Created, stats.Updated)
	if dryRun {
		return stats, nil
	}

	return stats, db.Transaction(func(tx *gorm.DB) error {
		if len(toCreate) > 0 {
			if err := tx.CreateInBatches(toCreate, 100).Error; err != nil {
				return fmt.Errorf("failed batch create: %w", err)
			}
		}
		for _, e := range toUpdate {
			if err := tx.Model(&Event{}).Where("id = ?", e.ID).Update("title", e.Title).Error; err != nil {
				return fmt.Errorf("failed to update holiday %s: %w", e.ID, err)
			}
		}
		return nil
	})
}
