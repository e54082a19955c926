package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"contract-portal/contract-portal-backend/internal/config"
	"contract-portal/contract-portal-backend/internal/contracts"
	"contract-portal/contract-portal-backend/internal/generator/googledocs"
	"contract-portal/contract-portal-backend/pkg/storage"
)

// Maintenance worker. On each tick it fails stale pending generations,
// deletes Drive files left behind by failed compensation and expires stored
// artifacts past the retention window.
func main() {
	cfg, err := config.LoadConfig("config.json")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, _ := zap.NewProduction()
	if cfg.Logging.Level == "debug" {
		logger, _ = zap.NewDevelopment()
	}
	defer logger.Sync()

	ctx := context.Background()

	db, err := sqlx.Connect("postgres", cfg.Database.GetDatabaseURL())
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	repo := contracts.NewRepository(db)

	var driveClient googledocs.DriveClient
	if cfg.GoogleDocs.ServiceAccountKeyPath != "" {
		key, err := os.ReadFile(cfg.GoogleDocs.ServiceAccountKeyPath)
		if err != nil {
			logger.Fatal("Failed to read Google service account key", zap.Error(err))
		}
		driveClient, err = googledocs.NewDriveClient(ctx, key)
		if err != nil {
			logger.Fatal("Failed to initialize Drive client", zap.Error(err))
		}
	}

	var artifacts *contracts.ArtifactStore
	if cfg.Storage.Bucket != "" {
		s3Client, err := storage.NewS3Client(ctx, storage.Config{
			Region:          cfg.Storage.Region,
			Endpoint:        cfg.Storage.Endpoint,
			AccessKeyID:     cfg.Storage.AccessKeyID,
			SecretAccessKey: cfg.Storage.SecretAccessKey,
			UsePathStyle:    cfg.Storage.UsePathStyle,
		})
		if err != nil {
			logger.Fatal("Failed to initialize S3 client", zap.Error(err))
		}
		artifacts = contracts.NewArtifactStore(s3Client, cfg.Storage.Bucket, cfg.Storage.URLTTL)
	}

	scheduler := cron.New()
	_, err = scheduler.AddFunc(cfg.Worker.Schedule, func() {
		runMaintenance(ctx, repo, driveClient, artifacts, cfg.Worker, logger)
	})
	if err != nil {
		logger.Fatal("Invalid worker schedule", zap.Error(err))
	}

	scheduler.Start()
	logger.Info("Maintenance worker started", zap.String("schedule", cfg.Worker.Schedule))

	// Run once at startup so a restart does not wait a full interval.
	runMaintenance(ctx, repo, driveClient, artifacts, cfg.Worker, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Stopping maintenance worker...")
	<-scheduler.Stop().Done()
}

func runMaintenance(ctx context.Context, repo contracts.Repository, drive googledocs.DriveClient, artifacts *contracts.ArtifactStore, cfg config.WorkerConfig, logger *zap.Logger) {
	cutoff := time.Now().Add(-cfg.StaleThreshold)
	failed, err := repo.MarkStaleGenerationsFailed(ctx, cutoff)
	if err != nil {
		logger.Error("Failed to expire stale generations", zap.Error(err))
	} else if failed > 0 {
		logger.Info("Expired stale generations", zap.Int64("count", failed))
	}

	if artifacts != nil && cfg.ArtifactRetention > 0 {
		deleted, err := artifacts.DeleteArtifactsOlderThan(ctx, time.Now().Add(-cfg.ArtifactRetention))
		if err != nil {
			logger.Error("Failed to expire stored artifacts", zap.Error(err))
		} else if deleted > 0 {
			logger.Info("Expired stored artifacts", zap.Int("count", deleted))
		}
	}

	if drive == nil {
		return
	}

	orphans, err := repo.ListOrphans(ctx)
	if err != nil {
		logger.Error("Failed to list orphaned files", zap.Error(err))
		return
	}
	for _, orphan := range orphans {
		if err := drive.Delete(ctx, orphan.FileID); err != nil {
			logger.Warn("Failed to delete orphaned Drive file",
				zap.String("file_id", orphan.FileID),
				zap.Error(err))
			continue
		}
		if err := repo.DeleteOrphan(ctx, orphan.ID); err != nil {
			logger.Error("Failed to clear orphan record",
				zap.String("file_id", orphan.FileID),
				zap.Error(err))
			continue
		}
		logger.Info("Deleted orphaned Drive file", zap.String("file_id", orphan.FileID))
	}
}
