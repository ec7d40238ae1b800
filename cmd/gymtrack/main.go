package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"

	_ "modernc.org/sqlite"

	cronTick "gymtrack/internal/adapters/cron"
	web "gymtrack/internal/adapters/http"
	"gymtrack/internal/adapters/notify"
	"gymtrack/internal/adapters/storage"
	"gymtrack/internal/adapters/storage/localstore"
	"gymtrack/internal/adapters/storage/record"
	"gymtrack/internal/application/orchestrators"
	"gymtrack/internal/application/reminder"
	"gymtrack/internal/config"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg := config.Load()

	dsn := cfg.DBPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}
	if err := storage.InitDB(db); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	store := record.New(localstore.NewSQLiteStore(db))

	// Notification sink: email when a Resend key is configured, otherwise
	// log-only. The gate enforces the one-time permission decision.
	var sink notify.Sink
	if cfg.ResendKey != "" && cfg.EmailTo != "" {
		sink = notify.NewEmailSink(cfg.ResendKey, cfg.EmailFrom, cfg.EmailTo)
		log.Println("Notification sink configured (Resend)")
	} else {
		sink = notify.NewLogSink()
		log.Println("Notification sink configured (log — set GYMTRACK_RESEND_KEY and GYMTRACK_EMAIL_TO for email delivery)")
	}
	gate := notify.NewGate(sink, func(context.Context) bool { return cfg.Notifications })

	sched := reminder.New()
	defer sched.Cancel()

	alertsDeps := orchestrators.PlanAlertsDeps{Plans: store, Notifier: gate}
	reminderDeps := orchestrators.ArmReminderDeps{Records: store, Scheduler: sched, Notifier: gate}

	if err := orchestrators.ExecuteStartup(context.Background(), orchestrators.StartupDeps{
		Loader:       store,
		Permission:   gate,
		AlertsDeps:   alertsDeps,
		ReminderDeps: reminderDeps,
	}); err != nil {
		log.Fatalf("startup failed: %v", err)
	}

	// Midnight rollover re-arms the reminder and rechecks plan milestones.
	tick := cronTick.New(alertsDeps, reminderDeps)
	if err := tick.Start(); err != nil {
		log.Fatalf("failed to start daily tick: %v", err)
	}
	defer tick.Stop()

	mux := web.NewMux(cfg.StaticDir, &web.Deps{
		Records:      store,
		ReminderDeps: reminderDeps,
		AlertsDeps:   alertsDeps,
	})

	log.Printf("GymTrack %s starting on %s (env=%s)", version, cfg.Addr, cfg.Env)
	if err := http.ListenAndServe(cfg.Addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
