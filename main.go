// Command priority-matrix serves the Eisenhower matrix task board: the
// embedded UI, the JSON API, and the optional local-model assistant.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/sangkukbae/priority-matrix/internal/chat"
	"github.com/sangkukbae/priority-matrix/internal/config"
	"github.com/sangkukbae/priority-matrix/internal/logging"
	"github.com/sangkukbae/priority-matrix/internal/metrics"
	"github.com/sangkukbae/priority-matrix/internal/ops"
	"github.com/sangkukbae/priority-matrix/internal/serverapp"
	"github.com/sangkukbae/priority-matrix/internal/store"
)

const configFile = "priority_matrix.yml"

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load(configFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	logDir := cfg.Logging.Dir
	if logDir == "" {
		logDir = filepath.Join(cfg.Server.DataDir, "logs")
	}
	logging.Init(logDir, cfg.Logging.Level)
	log := logging.Logger

	rec := metrics.NewPromRecorder()

	var persister store.Persister
	switch cfg.Storage.Backend {
	case "sqlite":
		persister, err = store.NewSQLitePersister(cfg.Server.DataDir)
	case "file":
		persister, err = store.NewFilePersister(cfg.Server.DataDir)
	default:
		err = fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
	if err != nil {
		log.WithError(err).Fatal("open storage")
	}

	st, err := store.Open(store.Options{
		Persister: persister,
		Logger:    log,
		Recorder:  rec,
	})
	if err != nil {
		log.WithError(err).Fatal("open store")
	}
	defer st.Close()

	var chatClient *chat.Client
	if cfg.Chat.Enabled {
		chatClient = chat.NewClient(chat.ClientOptions{
			BaseURL: cfg.Chat.BaseURL,
			Model:   cfg.Chat.Model,
			Timeout: time.Duration(cfg.Chat.TimeoutSeconds) * time.Second,
			Logger:  log,
		})
	}

	handler, err := serverapp.NewHandler(serverapp.Options{
		Config:         cfg,
		Store:          st,
		Chat:           chatClient,
		Recorder:       rec,
		MetricsHandler: rec.Handler(),
		UseDiskStatic:  serverapp.UseDiskStaticByEnv(),
		Logger:         log,
	})
	if err != nil {
		log.WithError(err).Fatal("build handler")
	}

	scheduler := startBackupScheduler(cfg, log)
	if scheduler != nil {
		defer func() { _ = scheduler.Shutdown() }()
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("addr", cfg.Server.Addr).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server stopped")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Warn("shutdown incomplete")
	}
}

// startBackupScheduler runs periodic tar.gz backups of the data
// directory. Returns nil when backups are disabled or the scheduler
// cannot start.
func startBackupScheduler(cfg *config.Config, log *logrus.Logger) gocron.Scheduler {
	if !cfg.Backup.Enabled {
		return nil
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		log.WithError(err).Warn("backup scheduler unavailable")
		return nil
	}

	interval := time.Duration(cfg.Backup.IntervalHours) * time.Hour
	_, err = scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			archive := filepath.Join(cfg.Backup.Dir, ops.ArchiveName(time.Now()))
			if err := ops.BackupDataDir(cfg.Server.DataDir, archive); err != nil {
				log.WithError(err).Warn("scheduled backup failed")
				return
			}
			log.WithField("archive", archive).Info("scheduled backup written")
		}),
	)
	if err != nil {
		log.WithError(err).Warn("backup job not scheduled")
		return nil
	}

	scheduler.Start()
	log.WithField("interval", interval.String()).Info("backup scheduler started")
	return scheduler
}
