package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/stitchline/stitchline/internal/domain/models"
	"github.com/stitchline/stitchline/internal/repository"
)

// MemoryStore is an in-memory repository.Store used for local development and
// tests. All access is behind a single mutex.
type MemoryStore struct {
	mu        sync.Mutex
	workers   map[string]models.Worker
	records   map[string]models.ProductionRecord
	logs      []models.ProductionLog
	summaries map[string]models.DailySummary
}

var _ repository.Store = (*MemoryStore)(nil)

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		workers:   map[string]models.Worker{},
		records:   map[string]models.ProductionRecord{},
		summaries: map[string]models.DailySummary{},
	}
}

// ListWorkers returns every worker sorted by name ascending.
func (s *MemoryStore) ListWorkers(ctx context.Context) ([]models.Worker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	workers := make([]models.Worker, 0, len(s.workers))
	for _, worker := range s.workers {
		workers = append(workers, worker)
	}
	sort.SliceStable(workers, func(i, j int) bool { return workers[i].Name < workers[j].Name })
	return workers, nil
}

// GetWorker fetches a single worker; a missing id yields a nil worker.
func (s *MemoryStore) GetWorker(ctx context.Context, id string) (*models.Worker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	worker, ok := s.workers[id]
	if !ok {
		return nil, nil
	}
	return &worker, nil
}

// CreateWorker stores a new worker.
func (s *MemoryStore) CreateWorker(ctx context.Context, worker models.Worker) (models.Worker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.workers[worker.ID] = worker
	return worker, nil
}

func (s *MemoryStore) embedWorker(record models.ProductionRecord) models.ProductionRecord {
	if worker, ok := s.workers[record.WorkerID]; ok {
		record.Worker = &worker
	}
	return record
}

// GetProductionForDate returns one day's records with workers embedded.
func (s *MemoryStore) GetProductionForDate(ctx context.Context, date string) ([]models.ProductionRecord, error) {
	return s.GetProductionForRange(ctx, date, date)
}

// GetProductionForRange returns records within the inclusive date range with
// workers embedded, ordered by date then worker id for determinism.
func (s *MemoryStore) GetProductionForRange(ctx context.Context, startDate, endDate string) ([]models.ProductionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := []models.ProductionRecord{}
	for _, record := range s.records {
		if record.Date < startDate || record.Date > endDate {
			continue
		}
		records = append(records, s.embedWorker(record))
	}
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Date != records[j].Date {
			return records[i].Date < records[j].Date
		}
		return records[i].WorkerID < records[j].WorkerID
	})
	return records, nil
}

// GetWorkerProduction fetches one worker's record for one day, nil when absent.
func (s *MemoryStore) GetWorkerProduction(ctx context.Context, workerID, date string) (*models.ProductionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, record := range s.records {
		if record.WorkerID == workerID && record.Date == date {
			found := record
			return &found, nil
		}
	}
	return nil, nil
}

// CreateProductionRecord stores a fresh record, rejecting duplicates for the
// same worker and day.
func (s *MemoryStore) CreateProductionRecord(ctx context.Context, record models.ProductionRecord) (models.ProductionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.records {
		if existing.WorkerID == record.WorkerID && existing.Date == record.Date {
			return models.ProductionRecord{}, fmt.Errorf("%w: production record for worker %s on %s already exists",
				models.ErrValidation, record.WorkerID, record.Date)
		}
	}
	s.records[record.ID] = record
	return record, nil
}

// ApplyProductionUpdate commits counter writes and an optional stage change
// to a stored record in one step.
func (s *MemoryStore) ApplyProductionUpdate(ctx context.Context, recordID string, update repository.ProductionUpdate) (models.ProductionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[recordID]
	if !ok {
		return models.ProductionRecord{}, fmt.Errorf("%w: production record %s", models.ErrNotFound, recordID)
	}

	for _, counter := range update.Counters {
		switch counter.Field {
		case models.FieldGoodsIssued:
			record.GoodsIssued = counter.Value
		case models.FieldGoodsProduced:
			record.GoodsProduced = counter.Value
		case models.FieldGoodsInHand:
			record.GoodsInHand = counter.Value
		case models.FieldAlterationCount:
			record.AlterationCount = counter.Value
		case models.FieldQCPassed:
			record.QCPassed = counter.Value
		case models.FieldQCFailed:
			record.QCFailed = counter.Value
		case models.FieldPackingCompleted:
			record.PackingCompleted = counter.Value
		default:
			return models.ProductionRecord{}, fmt.Errorf("unknown counter field %q", counter.Field)
		}
	}
	if update.Stage != "" {
		record.CurrentStage = update.Stage
	}
	record.UpdatedAt = time.Now().UTC()

	s.records[recordID] = record
	return record, nil
}

// AppendLogs appends audit entries.
func (s *MemoryStore) AppendLogs(ctx context.Context, entries []models.ProductionLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logs = append(s.logs, entries...)
	return nil
}

// ListLogs returns the audit trail for a record in append order.
func (s *MemoryStore) ListLogs(ctx context.Context, productionID string) ([]models.ProductionLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := []models.ProductionLog{}
	for _, entry := range s.logs {
		if entry.ProductionID == productionID {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

// SaveDailySummary stores the rollup for a day, overwriting a prior run.
func (s *MemoryStore) SaveDailySummary(ctx context.Context, summary models.DailySummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.summaries[summary.Date] = summary
	return nil
}

// GetDailySummary returns the stored rollup for a day, nil when absent.
func (s *MemoryStore) GetDailySummary(ctx context.Context, date string) (*models.DailySummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	summary, ok := s.summaries[date]
	if !ok {
		return nil, nil
	}
	return &summary, nil
}
