package main

import (
	"context"
	"flag"
	"os/signal"
	"syscall"
	"time"

	"github.com/flexclub/memberpulse/internal/config"
	"github.com/flexclub/memberpulse/internal/db"
	"github.com/flexclub/memberpulse/internal/engagement"
	"github.com/flexclub/memberpulse/internal/engagement/signals"
	"github.com/flexclub/memberpulse/internal/engagement/snapshots"
	"github.com/flexclub/memberpulse/internal/logging"
	"github.com/flexclub/memberpulse/internal/members"
	"github.com/flexclub/memberpulse/internal/telemetry/metrics"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

// Recalculates the engagement snapshot of every member of one tenant.
// Meant to be run from cron or by hand after data imports.
func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	tenantID := flag.Int("tenant", 0, "id of the tenant whose members get recomputed")
	asOfParam := flag.String("as-of", "", "RFC3339 instant treated as now, defaults to the current time")
	flag.Parse()

	if *tenantID <= 0 {
		log.Fatalf("tenant id missing, use -tenant")
	}

	asOf := time.Now()
	if *asOfParam != "" {
		parsed, err := time.Parse(time.RFC3339, *asOfParam)
		if err != nil {
			log.Fatalf("invalid -as-of value [%s]: %s", *asOfParam, err)
		}
		asOf = parsed
	}

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %s", err)
	}

	logging.Setup(logging.LoggerSetupParams{
		LogFileName: cfg.LogsPath,
		LogToStdout: true,
		LogLevel:    cfg.LogLevel,
		Environment: cfg.Environment,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost: cfg.PostgresHost,
		DBPort: cfg.PostgresPort,
		DBName: cfg.PostgresDBName,
	})
	if err != nil {
		log.Fatalf("new db pool: %s", err)
	}
	defer dbPool.Close()

	attendanceRepo := signals.NewAttendanceRepo(dbPool)
	paymentsRepo := signals.NewPaymentsRepo(dbPool)
	workoutsRepo := signals.NewWorkoutsRepo(dbPool)
	achievementsRepo := signals.NewAchievementsRepo(dbPool)

	service := engagement.NewService(
		engagement.NewScorer(attendanceRepo, paymentsRepo, workoutsRepo, achievementsRepo),
		members.NewRepo(dbPool),
		attendanceRepo,
		paymentsRepo,
		workoutsRepo,
		snapshots.NewRepo(dbPool),
		metrics.NewManager("memberpulse", "recompute", prometheus.NewRegistry()),
	)

	log.Infof("recomputing engagement snapshots for tenant %d, as of %s ...", *tenantID, asOf)

	processed, err := service.RecomputeAll(ctx, *tenantID, asOf)
	if err != nil && processed == 0 {
		log.Fatalf("recompute failed: %s", err)
	}
	if err != nil {
		for _, memberErr := range multierr.Errors(err) {
			log.Errorf("  %s", memberErr)
		}
		log.Warnf("recompute done with %d failures, %d members processed", len(multierr.Errors(err)), processed)
		return
	}

	log.Infof("recompute done, %d members processed", processed)
}
