package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/joyalure/joyalure-backend/internal/campaigns"
	"github.com/joyalure/joyalure-backend/internal/cron"
	"github.com/joyalure/joyalure-backend/internal/inventory"
	"github.com/joyalure/joyalure-backend/internal/media"
	"github.com/joyalure/joyalure-backend/internal/newsletter"
	"github.com/joyalure/joyalure-backend/internal/templates"
	"github.com/joyalure/joyalure-backend/pkg/config"
	"github.com/joyalure/joyalure-backend/pkg/db"
	"github.com/joyalure/joyalure-backend/pkg/email"
	"github.com/joyalure/joyalure-backend/pkg/logger"
	"github.com/joyalure/joyalure-backend/pkg/metrics"
	"github.com/joyalure/joyalure-backend/pkg/migrate"
	"github.com/joyalure/joyalure-backend/pkg/redis"
	"github.com/joyalure/joyalure-backend/pkg/storage/gcs"
)

const lockKeyFormat = "joyalure:worker:lock:%s"

func main() {
	logg := logger.New(logger.Options{ServiceName: "worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	requireResource(logg, "config", err)

	cfg.Service.Kind = "worker"

	logg = logger.New(logger.Options{
		ServiceName: "worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	requireResource(logg, "database", err)
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	requireResource(logg, "redis", err)
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	storageClient, err := gcs.NewClient(context.Background(), cfg.Storage, cfg.GCP, logg)
	requireResource(logg, "object storage", err)
	defer func() {
		if err := storageClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing object storage", err)
		}
	}()

	emailClient, err := email.New(cfg.Email)
	requireResource(logg, "email", err)

	campaignsService, err := campaigns.NewService(campaigns.ServiceParams{
		Repo:        campaigns.NewRepository(dbClient.DB()),
		Subscribers: newsletter.NewRepository(dbClient.DB()),
		Templates:   templates.NewRepository(dbClient.DB()),
		Sender:      emailClient,
	})
	requireResource(logg, "campaigns service", err)

	mediaService, err := media.NewService(media.ServiceParams{
		Repo: media.NewRepository(dbClient.DB()),
		Objects: media.ObjectStores{
			media.SurfaceProductImages: storageClient.BucketHandle(cfg.Storage.ProductImagesBucket),
			media.SurfaceCategories:    storageClient.BucketHandle(cfg.Storage.CategoriesBucket),
			media.SurfaceBlogImages:    storageClient.BucketHandle(cfg.Storage.BlogImagesBucket),
			media.SurfaceAvatars:       storageClient.BucketHandle(cfg.Storage.AvatarsBucket),
		},
		MaxUploadBytes: int64(cfg.Storage.MaxUploadMB) << 20,
	})
	requireResource(logg, "media service", err)

	inventoryService, err := inventory.NewService(inventory.ServiceParams{
		Repo: inventory.NewRepository(dbClient.DB()),
	})
	requireResource(logg, "inventory service", err)

	dispatchJob, err := cron.NewCampaignDispatchJob(cron.CampaignDispatchJobParams{
		Logger:    logg,
		Campaigns: campaignsService,
	})
	requireResource(logg, "campaign dispatch job", err)

	cleanupJob, err := cron.NewPendingUploadCleanupJob(cron.PendingUploadCleanupJobParams{
		Logger:        logg,
		Media:         mediaService,
		RetentionDays: cfg.Worker.PendingUploadRetention,
	})
	requireResource(logg, "pending upload cleanup job", err)

	lowStockJob, err := cron.NewLowStockJob(cron.LowStockJobParams{
		Logger:    logg,
		Inventory: inventoryService,
	})
	requireResource(logg, "low stock job", err)

	jobMetrics := metrics.NewJobMetrics(prometheus.DefaultRegisterer)
	lock, err := cron.NewRedisLock(redisClient, lockKey(cfg.App.Env), 0)
	requireResource(logg, "worker lock", err)

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: cron.NewRegistry(dispatchJob, cleanupJob, lowStockJob),
		Lock:     lock,
		Metrics:  jobMetrics,
		Interval: cfg.Worker.Interval,
	})
	requireResource(logg, "worker service", err)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
	})
	logg.Info(ctx, "starting worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "worker shutting down gracefully")
}

func lockKey(env string) string {
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf(lockKeyFormat, env)
}

func requireResource(logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), "failed to bootstrap "+resource, err)
	os.Exit(1)
}
