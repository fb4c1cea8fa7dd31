package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"gorm.io/gorm"

	"hrmplatform.com/hrm/calendar"
	"hrmplatform.com/hrm/core"
	"hrmplatform.com/hrm/infrastructure/devops"
	"hrmplatform.com/hrm/infrastructure/filesystem"
)

type SyncEvent struct {
	Bucket string `json:"bucket"`
	DryRun bool   `json:"dryRun"`
}

func loadConfig(ctx context.Context) (*devops.Config, error) {
	if param := os.Getenv("HRM_CONFIG_PARAM"); param != "" {
		fmt.Printf("[INFO] Loading configuration from SSM parameter '%s'\n", param)
		return devops.LoadFromSSM(ctx, param)
	}
	return devops.Load(os.Getenv("HRM_CONFIG"))
}

func SyncCalendar(ctx context.Context, cfg *devops.Config, bucket string, dryRun bool) (calendar.SyncStats, error) {
	var stats calendar.SyncStats

	src, err := filesystem.NewS3(ctx)
	if err != nil {
		return stats, err
	}

	dm, err := core.New(cfg.Database.Driver, cfg.Database.DSN, 2, core.LogLevelError)
	if err != nil {
		return stats, fmt.Errorf("failed to create database manager: %w", err)
	}
	defer dm.Close()

	if err := dm.Migrate(ctx); err != nil {
		return stats, err
	}

	err = dm.Exec(ctx, func(db *gorm.DB) error {
		stats, err = calendar.SyncFromSource(ctx, src, bucket, db, dryRun)
		return err
	})
	if err != nil {
		return stats, err
	}

	fmt.Printf("[INFO] Finished syncing holidays: %+v\n", stats)
	return stats, nil
}

func HandleRequest(ctx context.Context, event SyncEvent) (calendar.SyncStats, error) {
	eventJson, _ := json.Marshal(event)
	fmt.Printf("[INFO] Event: %s\n", string(eventJson))

	cfg, err := loadConfig(ctx)
	if err != nil {
		return calendar.SyncStats{}, err
	}

	bucket := event.Bucket
	if bucket == "" {
		bucket = cfg.Holidays.Bucket
	}
	if bucket == "" {
		return calendar.SyncStats{}, fmt.Errorf("holiday bucket is required")
	}

	return SyncCalendar(ctx, cfg, bucket, event.DryRun)
}

func main() {
	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		lambda.Start(HandleRequest)
		return
	}

	bucket := flag.String("bucket", "", "bucket holding the holiday master files (defaults to holidays.bucket)")
	apply := flag.Bool("apply", false, "write changes; without it the sync is a dry run")
	flag.Parse()

	results, err := HandleRequest(context.Background(), SyncEvent{Bucket: *bucket, DryRun: !*apply})
	if err != nil {
		fmt.Printf("[ERROR] %v\n", err)
		os.Exit(1)
	}
	resJson, _ := json.MarshalIndent(results, "", "  ")
	fmt.Printf("[SUCCESS] Results:\n%s\n", string(resJson))
}
