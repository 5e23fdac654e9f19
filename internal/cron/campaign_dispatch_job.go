package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/joyalure/joyalure-backend/pkg/logger"
)

// campaignDispatcher sends every scheduled campaign whose time has passed.
type campaignDispatcher interface {
	SendDue(ctx context.Context, now time.Time) (int, error)
}

// CampaignDispatchJobParams configure the campaign dispatch job.
type CampaignDispatchJobParams struct {
	Logger    *logger.Logger
	Campaigns campaignDispatcher
}

type campaignDispatchJob struct {
	logg      *logger.Logger
	campaigns campaignDispatcher
	now       func() time.Time
}

// NewCampaignDispatchJob builds the job that delivers due scheduled campaigns.
func NewCampaignDispatchJob(params CampaignDispatchJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Campaigns == nil {
		return nil, fmt.Errorf("campaign service required")
	}
	return &campaignDispatchJob{
		logg:      params.Logger,
		campaigns: params.Campaigns,
		now:       time.Now,
	}, nil
}

func (j *campaignDispatchJob) Name() string { return "campaign_dispatch" }

func (j *campaignDispatchJob) Run(ctx context.Context) error {
	sent, err := j.campaigns.SendDue(ctx, j.now().UTC())
	logCtx := j.logg.WithField(ctx, "campaigns_sent", sent)
	if err != nil {
		// Partial sends still count; the failed campaign stays scheduled
		// and is retried next cycle.
		return fmt.Errorf("campaign dispatch: %w", err)
	}
	j.logg.Info(logCtx, "campaign dispatch complete")
	return nil
}
