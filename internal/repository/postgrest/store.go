package postgrest

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/stitchline/stitchline/internal/config"
	"github.com/stitchline/stitchline/internal/domain/models"
	"github.com/stitchline/stitchline/internal/repository"
)

const productionSelect = "*,worker:workers(id,name,role,created_at)"

// PostgRESTStore implements the repository.Store interface against a hosted
// PostgREST-style data API. Single-row mutations ask the API to return the
// representation so callers observe the committed state.
type PostgRESTStore struct {
	httpClient *resty.Client
}

var _ repository.Store = (*PostgRESTStore)(nil)

// NewPostgRESTStore builds a store client using the provided configuration values.
func NewPostgRESTStore(cfg config.PostgRESTConfig) *PostgRESTStore {
	base := strings.TrimSuffix(cfg.URL, "/")

	restyClient := resty.New()
	restyClient.
		SetBaseURL(base+"/rest/v1").
		SetHeader("apikey", cfg.APIKey).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.APIKey)).
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)

	return &PostgRESTStore{httpClient: restyClient}
}

func apiError(resp *resty.Response, operation string) error {
	return fmt.Errorf("%s: data api returned status %d: %s", operation, resp.StatusCode(), resp.String())
}

// ListWorkers returns every worker sorted by name ascending.
func (s *PostgRESTStore) ListWorkers(ctx context.Context) ([]models.Worker, error) {
	workers := []models.Worker{}
	resp, err := s.httpClient.R().
		SetContext(ctx).
		SetQueryParam("select", "*").
		SetQueryParam("order", "name.asc").
		SetResult(&workers).
		Get("/workers")
	if err != nil {
		return nil, fmt.Errorf("list workers: %w", err)
	}
	if resp.IsError() {
		return nil, apiError(resp, "list workers")
	}
	return workers, nil
}

// GetWorker fetches a single worker; a missing id yields a nil worker.
func (s *PostgRESTStore) GetWorker(ctx context.Context, id string) (*models.Worker, error) {
	workers := []models.Worker{}
	resp, err := s.httpClient.R().
		SetContext(ctx).
		SetQueryParam("id", "eq."+id).
		SetResult(&workers).
		Get("/workers")
	if err != nil {
		return nil, fmt.Errorf("get worker %s: %w", id, err)
	}
	if resp.IsError() {
		return nil, apiError(resp, "get worker")
	}
	if len(workers) == 0 {
		return nil, nil
	}
	return &workers[0], nil
}

// CreateWorker inserts a new worker row.
func (s *PostgRESTStore) CreateWorker(ctx context.Context, worker models.Worker) (models.Worker, error) {
	created := []models.Worker{}
	resp, err := s.httpClient.R().
		SetContext(ctx).
		SetHeader("Prefer", "return=representation").
		SetBody([]models.Worker{worker}).
		SetResult(&created).
		Post("/workers")
	if err != nil {
		return models.Worker{}, fmt.Errorf("create worker: %w", err)
	}
	if resp.IsError() {
		return models.Worker{}, apiError(resp, "create worker")
	}
	if len(created) == 0 {
		return worker, nil
	}
	return created[0], nil
}

// GetProductionForDate returns one day's records with workers embedded.
func (s *PostgRESTStore) GetProductionForDate(ctx context.Context, date string) ([]models.ProductionRecord, error) {
	records := []models.ProductionRecord{}
	resp, err := s.httpClient.R().
		SetContext(ctx).
		SetQueryParam("select", productionSelect).
		SetQueryParam("date", "eq."+date).
		SetResult(&records).
		Get("/daily_production")
	if err != nil {
		return nil, fmt.Errorf("get production for %s: %w", date, err)
	}
	if resp.IsError() {
		return nil, apiError(resp, "get production for date")
	}
	return records, nil
}

// GetProductionForRange returns records for an inclusive date range with
// workers embedded.
func (s *PostgRESTStore) GetProductionForRange(ctx context.Context, startDate, endDate string) ([]models.ProductionRecord, error) {
	records := []models.ProductionRecord{}
	resp, err := s.httpClient.R().
		SetContext(ctx).
		SetQueryParamsFromValues(url.Values{
			"select": {productionSelect},
			"date":   {"gte." + startDate, "lte." + endDate},
		}).
		SetResult(&records).
		Get("/daily_production")
	if err != nil {
		return nil, fmt.Errorf("get production range %s-%s: %w", startDate, endDate, err)
	}
	if resp.IsError() {
		return nil, apiError(resp, "get production range")
	}
	return records, nil
}

// GetWorkerProduction fetches one worker's record for one day. An empty
// result set is a nil record, not an error.
func (s *PostgRESTStore) GetWorkerProduction(ctx context.Context, workerID, date string) (*models.ProductionRecord, error) {
	records := []models.ProductionRecord{}
	resp, err := s.httpClient.R().
		SetContext(ctx).
		SetQueryParam("worker_id", "eq."+workerID).
		SetQueryParam("date", "eq."+date).
		SetResult(&records).
		Get("/daily_production")
	if err != nil {
		return nil, fmt.Errorf("get production for worker %s on %s: %w", workerID, date, err)
	}
	if resp.IsError() {
		return nil, apiError(resp, "get worker production")
	}
	if len(records) == 0 {
		return nil, nil
	}
	return &records[0], nil
}

// CreateProductionRecord inserts a fresh record; the table's unique
// (worker_id, date) constraint rejects duplicates.
func (s *PostgRESTStore) CreateProductionRecord(ctx context.Context, record models.ProductionRecord) (models.ProductionRecord, error) {
	created := []models.ProductionRecord{}
	resp, err := s.httpClient.R().
		SetContext(ctx).
		SetHeader("Prefer", "return=representation").
		SetBody([]models.ProductionRecord{record}).
		SetResult(&created).
		Post("/daily_production")
	if err != nil {
		return models.ProductionRecord{}, fmt.Errorf("create production record: %w", err)
	}
	if resp.StatusCode() == 409 {
		return models.ProductionRecord{}, fmt.Errorf("%w: production record for worker %s on %s already exists",
			models.ErrValidation, record.WorkerID, record.Date)
	}
	if resp.IsError() {
		return models.ProductionRecord{}, apiError(resp, "create production record")
	}
	if len(created) == 0 {
		return record, nil
	}
	return created[0], nil
}

// ApplyProductionUpdate commits the counter writes and optional stage change
// as a single PATCH against the record row.
func (s *PostgRESTStore) ApplyProductionUpdate(ctx context.Context, recordID string, update repository.ProductionUpdate) (models.ProductionRecord, error) {
	payload := map[string]interface{}{
		"updated_at": time.Now().UTC().Format(time.RFC3339),
	}
	for _, counter := range update.Counters {
		payload[counter.Field] = counter.Value
	}
	if update.Stage != "" {
		payload["current_stage"] = update.Stage
	}

	updated := []models.ProductionRecord{}
	resp, err := s.httpClient.R().
		SetContext(ctx).
		SetHeader("Prefer", "return=representation").
		SetQueryParam("id", "eq."+recordID).
		SetBody(payload).
		SetResult(&updated).
		Patch("/daily_production")
	if err != nil {
		return models.ProductionRecord{}, fmt.Errorf("update production record %s: %w", recordID, err)
	}
	if resp.IsError() {
		return models.ProductionRecord{}, apiError(resp, "update production record")
	}
	if len(updated) == 0 {
		return models.ProductionRecord{}, fmt.Errorf("%w: production record %s", models.ErrNotFound, recordID)
	}
	return updated[0], nil
}

// AppendLogs inserts audit entries for a production record.
func (s *PostgRESTStore) AppendLogs(ctx context.Context, entries []models.ProductionLog) error {
	if len(entries) == 0 {
		return nil
	}

	resp, err := s.httpClient.R().
		SetContext(ctx).
		SetBody(entries).
		Post("/production_logs")
	if err != nil {
		return fmt.Errorf("append production logs: %w", err)
	}
	if resp.IsError() {
		return apiError(resp, "append production logs")
	}
	return nil
}

// ListLogs returns the audit trail for a record in timestamp order.
func (s *PostgRESTStore) ListLogs(ctx context.Context, productionID string) ([]models.ProductionLog, error) {
	entries := []models.ProductionLog{}
	resp, err := s.httpClient.R().
		SetContext(ctx).
		SetQueryParam("production_id", "eq."+productionID).
		SetQueryParam("order", "timestamp.asc").
		SetResult(&entries).
		Get("/production_logs")
	if err != nil {
		return nil, fmt.Errorf("list production logs for %s: %w", productionID, err)
	}
	if resp.IsError() {
		return nil, apiError(resp, "list production logs")
	}
	return entries, nil
}

// SaveDailySummary upserts the rollup row for a day.
func (s *PostgRESTStore) SaveDailySummary(ctx context.Context, summary models.DailySummary) error {
	resp, err := s.httpClient.R().
		SetContext(ctx).
		SetHeader("Prefer", "resolution=merge-duplicates").
		SetBody([]models.DailySummary{summary}).
		Post("/daily_summaries")
	if err != nil {
		return fmt.Errorf("save daily summary: %w", err)
	}
	if resp.IsError() {
		return apiError(resp, "save daily summary")
	}
	return nil
}
