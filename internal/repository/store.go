package repository

import (
	"context"

	"github.com/stitchline/stitchline/internal/domain/models"
)

// CounterUpdate sets one counter field to an absolute value.
type CounterUpdate struct {
	Field string
	Value int
}

// ProductionUpdate is one atomic mutation of a production record: any number
// of counter writes plus an optional stage change, committed together.
type ProductionUpdate struct {
	Counters []CounterUpdate
	// Stage replaces current_stage when non-empty.
	Stage models.WorkflowStage
}

// Store is the narrow persistence contract consumed by the services. A "no
// rows" outcome on the single-row lookup is a nil record, not an error.
type Store interface {
	ListWorkers(ctx context.Context) ([]models.Worker, error)
	GetWorker(ctx context.Context, id string) (*models.Worker, error)
	CreateWorker(ctx context.Context, worker models.Worker) (models.Worker, error)

	GetProductionForDate(ctx context.Context, date string) ([]models.ProductionRecord, error)
	GetProductionForRange(ctx context.Context, startDate, endDate string) ([]models.ProductionRecord, error)
	GetWorkerProduction(ctx context.Context, workerID, date string) (*models.ProductionRecord, error)
	CreateProductionRecord(ctx context.Context, record models.ProductionRecord) (models.ProductionRecord, error)
	ApplyProductionUpdate(ctx context.Context, recordID string, update ProductionUpdate) (models.ProductionRecord, error)

	AppendLogs(ctx context.Context, entries []models.ProductionLog) error
	ListLogs(ctx context.Context, productionID string) ([]models.ProductionLog, error)

	SaveDailySummary(ctx context.Context, summary models.DailySummary) error
}
