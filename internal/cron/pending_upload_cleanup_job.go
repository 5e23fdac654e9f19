package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/joyalure/joyalure-backend/pkg/logger"
)

const pendingUploadRetentionDays = 7

// uploadCleaner removes pending uploads that were never attached.
type uploadCleaner interface {
	CleanupStalePending(ctx context.Context, cutoff time.Time) (int, error)
}

// PendingUploadCleanupJobParams configure the upload cleanup job.
type PendingUploadCleanupJobParams struct {
	Logger        *logger.Logger
	Media         uploadCleaner
	RetentionDays int
}

type pendingUploadCleanupJob struct {
	logg          *logger.Logger
	media         uploadCleaner
	retentionDays int
	now           func() time.Time
}

// NewPendingUploadCleanupJob builds the job that reaps unattached uploads.
func NewPendingUploadCleanupJob(params PendingUploadCleanupJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Media == nil {
		return nil, fmt.Errorf("media service required")
	}
	retention := params.RetentionDays
	if retention <= 0 {
		retention = pendingUploadRetentionDays
	}
	return &pendingUploadCleanupJob{
		logg:          params.Logger,
		media:         params.Media,
		retentionDays: retention,
		now:           time.Now,
	}, nil
}

func (j *pendingUploadCleanupJob) Name() string { return "pending_upload_cleanup" }

func (j *pendingUploadCleanupJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-time.Duration(j.retentionDays) * 24 * time.Hour)
	removed, err := j.media.CleanupStalePending(ctx, cutoff)
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":         cutoff,
		"retention_days": j.retentionDays,
		"removed":        removed,
	})
	if err != nil {
		return fmt.Errorf("pending upload cleanup: %w", err)
	}
	j.logg.Info(logCtx, "pending upload cleanup complete")
	return nil
}
