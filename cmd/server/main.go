package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gorm.io/gorm"

	"hrmplatform.com/hrm/calendar"
	"hrmplatform.com/hrm/core"
	"hrmplatform.com/hrm/infrastructure/communication"
	"hrmplatform.com/hrm/infrastructure/devops"
	"hrmplatform.com/hrm/infrastructure/filesystem"
	"hrmplatform.com/hrm/infrastructure/mail"
	"hrmplatform.com/hrm/infrastructure/schedule"
	"hrmplatform.com/hrm/utils"
	"hrmplatform.com/hrm/web"
	"hrmplatform.com/hrm/web/common"
	"hrmplatform.com/hrm/web/live"
)

func scheduleHolidaySync(ctx context.Context, cfg *devops.Config, dm *core.DatabaseManager, alerter communication.Alerter, s *schedule.Scheduler) error {
	src, err := filesystem.NewS3(ctx)
	if err != nil {
		return err
	}
	return s.Add("holiday-sync", cfg.Holidays.SyncSchedule, func(ctx context.Context) error {
		err := dm.Exec(ctx, func(db *gorm.DB) error {
			_, err := calendar.SyncFromSource(ctx, src, cfg.Holidays.Bucket, db, false)
			return err
		})
		if err != nil {
			if alertErr := alerter.Error("holiday sync failed: " + err.Error()); alertErr != nil {
				log.Printf("[WARN] %v", alertErr)
			}
		}
		return err
	})
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := devops.Load(os.Getenv("HRM_CONFIG"))
	if err != nil {
		log.Fatal(err)
	}

	loc, err := utils.LoadLocation(cfg.Server.Timezone)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("[INFO] using driver %s, time zone %s", cfg.Database.Driver, loc)

	dm, err := core.New(cfg.Database.Driver, cfg.Database.DSN, cfg.Database.MaxConns, core.ParseLogLevel(cfg.Database.LogLevel))
	if err != nil {
		log.Fatal(err)
	}
	defer dm.Close()

	if err := dm.Migrate(ctx); err != nil {
		log.Fatal(err)
	}

	var mailer mail.Mailer = mail.LogMailer{}
	if cfg.Mail.Enabled {
		ses, err := mail.NewSESMailer(ctx, cfg.Mail.Region)
		if err != nil {
			log.Fatal(err)
		}
		mailer = ses
	}

	alerter := communication.NewAlerter(cfg.Slack.Token, communication.SlackOption{
		InfoChannelID:  cfg.Slack.InfoChannelID,
		ErrorChannelID: cfg.Slack.ErrorChannelID,
	})

	scheduler := schedule.New(loc, 5*time.Minute)
	if cfg.Holidays.SyncSchedule != "" {
		if err := scheduleHolidaySync(ctx, cfg, dm, alerter, scheduler); err != nil {
			log.Fatal(err)
		}
	}
	scheduler.Start()

	feed := live.NewHub()
	handler := &common.Handler{
		Dm:       dm,
		Mailer:   mailer,
		Alerter:  alerter,
		Feed:     feed,
		MailFrom: cfg.Mail.From,
		Secret:   cfg.Auth.SigningKey(),
		TokenTTL: cfg.Auth.TokenTTL,
		Clock:    utils.ClockIn(loc),
	}
	router := web.NewRouter(handler, feed)

	srv := &http.Server{
		Addr:              cfg.Server.ListenAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("[INFO] server running on %s", cfg.Server.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Printf("[INFO] shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	feed.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[ERROR] shutdown: %v", err)
	}
	scheduler.Stop(shutdownCtx)
	handler.FlushAlerts()
	if err := alerter.Info("hrm server stopped"); err != nil {
		log.Printf("[WARN] %v", err)
	}
}
