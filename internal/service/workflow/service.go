package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/stitchline/stitchline/internal/cache"
	"github.com/stitchline/stitchline/internal/domain/models"
	"github.com/stitchline/stitchline/internal/repository"
)

// allowedNext gates which actions may follow each stage when strict
// transitions are enabled. Issue restarts a cycle from any resting stage.
var allowedNext = map[models.WorkflowStage][]models.ActionKind{
	models.StageIdle:       {models.ActionIssue},
	models.StageIssued:     {models.ActionIssue, models.ActionProduce},
	models.StageProduction: {models.ActionIssue, models.ActionProduce, models.ActionAlteration, models.ActionQC, models.ActionPack},
	models.StageAlteration: {models.ActionProduce, models.ActionAlteration, models.ActionQC, models.ActionPack},
	models.StageQC:         {models.ActionAlteration, models.ActionQC, models.ActionPack},
	models.StagePacking:    {models.ActionQC, models.ActionPack},
	models.StageCompleted:  {models.ActionIssue},
}

// Service applies workflow actions to production records. Given an action it
// computes the next counter values, commits them as one store update and
// appends the audit trail.
type Service struct {
	store  repository.Store
	cache  *cache.OverviewCache
	logger *zap.Logger
	strict bool
	now    func() time.Time
}

// NewService constructs the workflow engine.
func NewService(store repository.Store, overviewCache *cache.OverviewCache, strict bool, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:  store,
		cache:  overviewCache,
		logger: logger,
		strict: strict,
		now:    time.Now,
	}
}

// ApplyAction validates the request, lazily creates the worker's record for
// the day, and commits the action's counter updates atomically. The record's
// stage is overwritten with the action's tag; in strict mode out-of-order
// actions are rejected instead.
func (s *Service) ApplyAction(ctx context.Context, workerID, date string, action models.Action) (models.ProductionRecord, error) {
	if action == nil {
		return models.ProductionRecord{}, fmt.Errorf("%w: action is required", models.ErrValidation)
	}
	if action.Qty() < 1 {
		return models.ProductionRecord{}, fmt.Errorf("%w: quantity must be at least 1", models.ErrValidation)
	}
	if _, err := time.Parse(models.DateLayout, date); err != nil {
		return models.ProductionRecord{}, fmt.Errorf("%w: date must be YYYY-MM-DD", models.ErrValidation)
	}

	worker, err := s.store.GetWorker(ctx, workerID)
	if err != nil {
		return models.ProductionRecord{}, err
	}
	if worker == nil {
		return models.ProductionRecord{}, fmt.Errorf("%w: worker %s", models.ErrNotFound, workerID)
	}

	record, err := s.store.GetWorkerProduction(ctx, workerID, date)
	if err != nil {
		return models.ProductionRecord{}, err
	}

	if s.strict {
		stage := models.StageIdle
		if record != nil {
			stage = record.CurrentStage
		}
		if err := checkTransition(stage, action.Kind()); err != nil {
			return models.ProductionRecord{}, err
		}
	}

	if record == nil {
		fresh, err := s.initializeRecord(ctx, workerID, date)
		if err != nil {
			return models.ProductionRecord{}, err
		}
		record = &fresh
	}

	update := computeUpdate(*record, action)

	s.logger.Debug("applying action",
		zap.String("worker_id", workerID),
		zap.String("date", date),
		zap.String("action", string(action.Kind())),
		zap.Int("quantity", action.Qty()))

	updated, err := s.store.ApplyProductionUpdate(ctx, record.ID, update)
	if err != nil {
		return models.ProductionRecord{}, err
	}

	s.appendAudit(ctx, updated.ID, action, update)
	s.invalidateOverviews(ctx)

	return updated, nil
}

// Logs returns the audit trail for a production record.
func (s *Service) Logs(ctx context.Context, productionID string) ([]models.ProductionLog, error) {
	return s.store.ListLogs(ctx, productionID)
}

func (s *Service) initializeRecord(ctx context.Context, workerID, date string) (models.ProductionRecord, error) {
	now := s.now().UTC()
	fresh := models.ProductionRecord{
		ID:           uuid.NewString(),
		WorkerID:     workerID,
		Date:         date,
		CurrentStage: models.StageIdle,
		UpdatedAt:    now,
	}
	return s.store.CreateProductionRecord(ctx, fresh)
}

// computeUpdate maps an action to its counter writes and stage tag. Both
// writes of the issue/produce pair land in one update so goods_in_hand stays
// consistent with goods_issued - goods_produced.
func computeUpdate(record models.ProductionRecord, action models.Action) repository.ProductionUpdate {
	switch a := action.(type) {
	case models.Issue:
		return repository.ProductionUpdate{
			Counters: []repository.CounterUpdate{
				{Field: models.FieldGoodsIssued, Value: record.GoodsIssued + a.Quantity},
				{Field: models.FieldGoodsInHand, Value: record.GoodsInHand + a.Quantity},
			},
			Stage: models.StageIssued,
		}
	case models.Produce:
		inHand := record.GoodsInHand - a.Quantity
		if inHand < 0 {
			inHand = 0
		}
		return repository.ProductionUpdate{
			Counters: []repository.CounterUpdate{
				{Field: models.FieldGoodsProduced, Value: record.GoodsProduced + a.Quantity},
				{Field: models.FieldGoodsInHand, Value: inHand},
			},
			Stage: models.StageProduction,
		}
	case models.Alteration:
		return repository.ProductionUpdate{
			Counters: []repository.CounterUpdate{
				{Field: models.FieldAlterationCount, Value: record.AlterationCount + a.Quantity},
			},
			Stage: models.StageAlteration,
		}
	case models.QC:
		return repository.ProductionUpdate{
			Counters: []repository.CounterUpdate{
				{Field: models.FieldQCPassed, Value: record.QCPassed + a.Quantity},
			},
			Stage: models.StageQC,
		}
	case models.Pack:
		return repository.ProductionUpdate{
			Counters: []repository.CounterUpdate{
				{Field: models.FieldPackingCompleted, Value: record.PackingCompleted + a.Quantity},
			},
			Stage: models.StagePacking,
		}
	default:
		// The Action interface is sealed; this branch is unreachable.
		return repository.ProductionUpdate{}
	}
}

func checkTransition(from models.WorkflowStage, next models.ActionKind) error {
	for _, kind := range allowedNext[from] {
		if kind == next {
			return nil
		}
	}
	return fmt.Errorf("%w: action %s not allowed from stage %s", models.ErrValidation, next, from)
}

// appendAudit writes one log entry per counter mutation. The audit trail is
// best effort: a failed append does not undo the committed action.
func (s *Service) appendAudit(ctx context.Context, productionID string, action models.Action, update repository.ProductionUpdate) {
	now := s.now().UTC()
	entries := make([]models.ProductionLog, 0, len(update.Counters))
	for _, counter := range update.Counters {
		entries = append(entries, models.ProductionLog{
			ID:           uuid.NewString(),
			ProductionID: productionID,
			Stage:        update.Stage,
			Action:       fmt.Sprintf("%s: %s -> %d", action.Kind(), counter.Field, counter.Value),
			Quantity:     action.Qty(),
			Timestamp:    now,
		})
	}

	if err := s.store.AppendLogs(ctx, entries); err != nil {
		s.logger.Error("failed to append audit log", zap.String("production_id", productionID), zap.Error(err))
	}
}

func (s *Service) invalidateOverviews(ctx context.Context) {
	s.cache.Invalidate(ctx,
		cache.OverviewKey("today"),
		cache.OverviewKey("week"),
		cache.OverviewKey("month"))
}
