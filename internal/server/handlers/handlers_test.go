package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/stitchline/stitchline/internal/domain/models"
	"github.com/stitchline/stitchline/internal/repository/memory"
	"github.com/stitchline/stitchline/internal/server/handlers"
	"github.com/stitchline/stitchline/internal/server/router"
	dashboardsvc "github.com/stitchline/stitchline/internal/service/dashboard"
	workerssvc "github.com/stitchline/stitchline/internal/service/workers"
	workflowsvc "github.com/stitchline/stitchline/internal/service/workflow"
)

func newTestServer(t *testing.T) (*gin.Engine, *memory.MemoryStore) {
	t.Helper()

	store := memory.NewMemoryStore()
	workflowService := workflowsvc.NewService(store, nil, false, nil)
	workersService := workerssvc.NewService(store, nil)
	dashboardService := dashboardsvc.NewService(store, nil, nil)

	engine := router.New(
		handlers.NewWorkersHandler(workersService, nil),
		handlers.NewProductionHandler(workflowService, dashboardService, nil),
		handlers.NewDashboardHandler(dashboardService, nil),
		nil,
	)
	return engine, store
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, req)
	return recorder
}

func TestCreateWorkerEndpoint(t *testing.T) {
	engine, _ := newTestServer(t)

	resp := doJSON(t, engine, http.MethodPost, "/api/workers", gin.H{"name": "Amina"})
	require.Equal(t, http.StatusCreated, resp.Code)

	var worker models.Worker
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &worker))
	require.Equal(t, "Amina", worker.Name)
	require.Equal(t, models.DefaultWorkerRole, worker.Role)

	resp = doJSON(t, engine, http.MethodPost, "/api/workers", gin.H{"name": "A"})
	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestApplyActionEndpoint(t *testing.T) {
	engine, store := newTestServer(t)

	worker, err := store.CreateWorker(context.Background(), models.Worker{
		ID: "w1", Name: "Amina", Role: models.DefaultWorkerRole, CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)

	payload := gin.H{"worker_id": worker.ID, "date": "2024-05-15", "action": "issue", "quantity": 50}
	resp := doJSON(t, engine, http.MethodPost, "/api/production/actions", payload)
	require.Equal(t, http.StatusOK, resp.Code)

	var record models.ProductionRecord
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &record))
	require.Equal(t, 50, record.GoodsIssued)
	require.Equal(t, 50, record.GoodsInHand)
	require.Equal(t, models.StageIssued, record.CurrentStage)

	// Audit trail is readable back through the API.
	resp = doJSON(t, engine, http.MethodGet, fmt.Sprintf("/api/production/%s/logs", record.ID), nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var entries []models.ProductionLog
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &entries))
	require.Len(t, entries, 2)
}

func TestApplyActionEndpointErrors(t *testing.T) {
	engine, store := newTestServer(t)

	_, err := store.CreateWorker(context.Background(), models.Worker{ID: "w1", Name: "Amina"})
	require.NoError(t, err)

	// Unknown worker.
	resp := doJSON(t, engine, http.MethodPost, "/api/production/actions",
		gin.H{"worker_id": "nope", "date": "2024-05-15", "action": "issue", "quantity": 5})
	require.Equal(t, http.StatusNotFound, resp.Code)

	// Unknown action kind.
	resp = doJSON(t, engine, http.MethodPost, "/api/production/actions",
		gin.H{"worker_id": "w1", "date": "2024-05-15", "action": "ship", "quantity": 5})
	require.Equal(t, http.StatusBadRequest, resp.Code)

	// Quantity below one.
	resp = doJSON(t, engine, http.MethodPost, "/api/production/actions",
		gin.H{"worker_id": "w1", "date": "2024-05-15", "action": "issue", "quantity": 0})
	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestGetDayEndpoint(t *testing.T) {
	engine, store := newTestServer(t)

	_, err := store.CreateWorker(context.Background(), models.Worker{ID: "w1", Name: "Amina"})
	require.NoError(t, err)
	_, err = store.CreateProductionRecord(context.Background(), models.ProductionRecord{
		ID: "p1", WorkerID: "w1", Date: "2024-05-15", GoodsIssued: 10, GoodsInHand: 10,
	})
	require.NoError(t, err)

	resp := doJSON(t, engine, http.MethodGet, "/api/production?date=2024-05-15", nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var records []models.ProductionRecord
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &records))
	require.Len(t, records, 1)
	require.NotNil(t, records[0].Worker)
	require.Equal(t, "Amina", records[0].Worker.Name)

	resp = doJSON(t, engine, http.MethodGet, "/api/production?date=bogus", nil)
	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestOverviewEndpoint(t *testing.T) {
	engine, _ := newTestServer(t)

	resp := doJSON(t, engine, http.MethodGet, "/api/dashboard/overview", nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var overview models.DashboardOverview
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &overview))
	require.Equal(t, "today", overview.Range)

	resp = doJSON(t, engine, http.MethodGet, "/api/dashboard/overview?range=quarter", nil)
	require.Equal(t, http.StatusBadRequest, resp.Code)
}
