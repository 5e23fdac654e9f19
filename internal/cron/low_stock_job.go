package cron

import (
	"context"
	"fmt"

	"github.com/joyalure/joyalure-backend/internal/inventory"
	"github.com/joyalure/joyalure-backend/pkg/logger"
)

// lowStockReader reports products at or under their restock threshold.
type lowStockReader interface {
	LowStock(ctx context.Context) ([]inventory.LowStockRow, error)
}

// LowStockJobParams configure the low stock report job.
type LowStockJobParams struct {
	Logger    *logger.Logger
	Inventory lowStockReader
}

type lowStockJob struct {
	logg      *logger.Logger
	inventory lowStockReader
}

// NewLowStockJob builds the job that surfaces low stock products in the
// worker logs for the ops dashboard to pick up.
func NewLowStockJob(params LowStockJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Inventory == nil {
		return nil, fmt.Errorf("inventory service required")
	}
	return &lowStockJob{logg: params.Logger, inventory: params.Inventory}, nil
}

func (j *lowStockJob) Name() string { return "low_stock_report" }

func (j *lowStockJob) Run(ctx context.Context) error {
	rows, err := j.inventory.LowStock(ctx)
	if err != nil {
		return fmt.Errorf("low stock report: %w", err)
	}
	for _, row := range rows {
		rowCtx := j.logg.WithFields(ctx, map[string]any{
			"product_id":   row.ProductID,
			"product_name": row.ProductName,
			"quantity":     row.Quantity,
			"threshold":    row.LowStockThreshold,
		})
		j.logg.Warn(rowCtx, "product stock at or under threshold")
	}
	logCtx := j.logg.WithField(ctx, "low_stock_products", len(rows))
	j.logg.Info(logCtx, "low stock report complete")
	return nil
}
