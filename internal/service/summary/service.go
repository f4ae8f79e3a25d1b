package summary

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/stitchline/stitchline/internal/domain/models"
	"github.com/stitchline/stitchline/internal/repository"
	"github.com/stitchline/stitchline/internal/service/dashboard"
)

// Sink receives finished summaries for delivery outside the system.
type Sink interface {
	AppendSummary(ctx context.Context, summary models.DailySummary) error
}

// Service rolls one day's production records into a persisted summary
// snapshot, optionally exporting it through a sink.
type Service struct {
	store  repository.Store
	sink   Sink
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires a new summary service. A nil sink disables the export.
func NewService(store repository.Store, sink Sink, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, sink: sink, logger: logger, now: time.Now}
}

// SnapshotDay aggregates the given day, saves the rollup and pushes it to the
// sink. The export is best effort; a sink failure does not fail the snapshot.
func (s *Service) SnapshotDay(ctx context.Context, date string) (models.DailySummary, error) {
	if _, err := time.Parse(models.DateLayout, date); err != nil {
		return models.DailySummary{}, fmt.Errorf("%w: date must be YYYY-MM-DD", models.ErrValidation)
	}

	records, err := s.store.GetProductionForDate(ctx, date)
	if err != nil {
		return models.DailySummary{}, err
	}

	totals := dashboard.SumTotals(records)
	rates := dashboard.ComputeRates(totals)

	workerIDs := map[string]struct{}{}
	for _, record := range records {
		workerIDs[record.WorkerID] = struct{}{}
	}

	snapshot := models.DailySummary{
		Date:             date,
		GoodsIssued:      totals.GoodsIssued,
		GoodsProduced:    totals.GoodsProduced,
		AlterationCount:  totals.AlterationCount,
		QCPassed:         totals.QCPassed,
		PackingCompleted: totals.PackingCompleted,
		ConversionRate:   rates.Conversion,
		AlterationRate:   rates.Alteration,
		ActiveWorkers:    len(workerIDs),
		CreatedAt:        s.now().UTC(),
	}

	if err := s.store.SaveDailySummary(ctx, snapshot); err != nil {
		return models.DailySummary{}, err
	}

	if s.sink != nil {
		if err := s.sink.AppendSummary(ctx, snapshot); err != nil {
			s.logger.Error("failed to export daily summary", zap.String("date", date), zap.Error(err))
		}
	}

	s.logger.Info("daily summary saved",
		zap.String("date", date),
		zap.Int("produced", snapshot.GoodsProduced),
		zap.Int("workers", snapshot.ActiveWorkers))

	return snapshot, nil
}
