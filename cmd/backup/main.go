// Package main runs a one-off delivery log backup and reports the outcome
// to the running service over its unix socket.
package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"time"

	"github.com/liftlog-app/backend/internal/backup"
	"github.com/liftlog-app/backend/internal/config"
	"github.com/liftlog-app/backend/internal/db"
	"github.com/liftlog-app/backend/internal/logging"
	"github.com/liftlog-app/backend/internal/notifications/history"

	log "github.com/sirupsen/logrus"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development | ddev | dockerdev]")
	configPath := flag.String("config", "./config.toml", "path to TOML config file")
	logLevel := flag.String("log-level", "debug", "log level")
	skipReport := flag.Bool("skip-report", false, "do not report the outcome to the main service unix socket")
	flag.Parse()

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %s", err)
	}

	logging.Setup(logging.LoggerSetupParams{
		LogToStdout: true,
		LogLevel:    *logLevel,
		Environment: cfg.Environment,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         cfg.PostgresHost,
		DBPort:         cfg.PostgresPort,
		DBName:         cfg.PostgresDBName,
		TracingEnabled: false,
	})
	if err != nil {
		log.Fatalf("db pool: %s", err)
	}
	defer dbPool.Close()

	var sink backup.Sink
	switch cfg.BackupSink {
	case "drive":
		credsJson, err := os.ReadFile(cfg.BackupDriveCredsPath)
		if err != nil {
			log.Fatalf("read drive credentials: %s", err)
		}
		sink, err = backup.NewDriveSink(ctx, credsJson, os.Getenv("LIFTLOG_BACKUP_DRIVE_SHARE_EMAIL"))
		if err != nil {
			log.Fatalf("new drive sink: %s", err)
		}
	case "s3":
		sink, err = backup.NewS3Sink(ctx, backup.S3Config{
			Region: cfg.BackupS3Region,
			Bucket: cfg.BackupS3Bucket,
			Prefix: "delivery-log",
		})
		if err != nil {
			log.Fatalf("new s3 sink: %s", err)
		}
	default:
		log.Fatalf("unknown backup sink: %s", cfg.BackupSink)
	}

	deliveryLog := history.NewService(history.NewRepo(dbPool))
	backupService := backup.NewService(deliveryLog, sink)

	res, err := backupService.Run(ctx, time.Now())
	if err != nil {
		log.Fatalf("delivery log backup: %s", err)
	}

	log.Infof("backup done: %d events, %d files uploaded, took %s", res.Events, res.Uploaded, res.Duration)

	if *skipReport {
		return
	}

	socketPath := filepath.Join(cfg.BackupUnixSocketAddrDir, cfg.BackupUnixSocketFileName)
	if err := backup.SendReport(socketPath, res); err != nil {
		log.Errorf("send backup report to main service: %s", err)
	}
}
