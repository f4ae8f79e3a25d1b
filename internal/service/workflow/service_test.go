package workflow

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/stitchline/stitchline/internal/domain/models"
	"github.com/stitchline/stitchline/internal/repository/memory"
)

const testDate = "2024-05-15"

func newTestService(t *testing.T, strict bool) (*Service, *memory.MemoryStore, string) {
	t.Helper()

	store := memory.NewMemoryStore()
	worker, err := store.CreateWorker(context.Background(), models.Worker{
		ID:        "w1",
		Name:      "Amina",
		Role:      models.DefaultWorkerRole,
		CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)

	svc := NewService(store, nil, strict, nil)
	svc.now = func() time.Time { return time.Date(2024, 5, 15, 10, 0, 0, 0, time.UTC) }
	return svc, store, worker.ID
}

func TestApplyActionIssueCreatesRecord(t *testing.T) {
	svc, store, workerID := newTestService(t, false)
	ctx := context.Background()

	record, err := svc.ApplyAction(ctx, workerID, testDate, models.Issue{Quantity: 50})
	require.NoError(t, err)

	require.Equal(t, 50, record.GoodsIssued)
	require.Equal(t, 50, record.GoodsInHand)
	require.Equal(t, models.StageIssued, record.CurrentStage)

	stored, err := store.GetWorkerProduction(ctx, workerID, testDate)
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.Equal(t, record.ID, stored.ID)
}

func TestApplyActionRejectsQuantityBelowOne(t *testing.T) {
	svc, store, workerID := newTestService(t, false)
	ctx := context.Background()

	for _, qty := range []int{0, -3} {
		_, err := svc.ApplyAction(ctx, workerID, testDate, models.Issue{Quantity: qty})
		require.ErrorIs(t, err, models.ErrValidation)
	}

	// Validation happens before any store call, so no record materializes.
	stored, err := store.GetWorkerProduction(ctx, workerID, testDate)
	require.NoError(t, err)
	require.Nil(t, stored)
}

func TestApplyActionUnknownWorker(t *testing.T) {
	svc, _, _ := newTestService(t, false)

	_, err := svc.ApplyAction(context.Background(), "nope", testDate, models.Issue{Quantity: 1})
	require.ErrorIs(t, err, models.ErrNotFound)
}

func TestApplyActionRejectsBadDate(t *testing.T) {
	svc, _, workerID := newTestService(t, false)

	_, err := svc.ApplyAction(context.Background(), workerID, "15/05/2024", models.Issue{Quantity: 1})
	require.ErrorIs(t, err, models.ErrValidation)
}

func TestIssueThenProduce(t *testing.T) {
	svc, _, workerID := newTestService(t, false)
	ctx := context.Background()

	_, err := svc.ApplyAction(ctx, workerID, testDate, models.Issue{Quantity: 50})
	require.NoError(t, err)

	record, err := svc.ApplyAction(ctx, workerID, testDate, models.Produce{Quantity: 20})
	require.NoError(t, err)

	require.Equal(t, 50, record.GoodsIssued)
	require.Equal(t, 20, record.GoodsProduced)
	require.Equal(t, 30, record.GoodsInHand)
	require.Equal(t, models.StageProduction, record.CurrentStage)
}

func TestProduceClampsGoodsInHand(t *testing.T) {
	svc, _, workerID := newTestService(t, false)
	ctx := context.Background()

	_, err := svc.ApplyAction(ctx, workerID, testDate, models.Issue{Quantity: 10})
	require.NoError(t, err)

	record, err := svc.ApplyAction(ctx, workerID, testDate, models.Produce{Quantity: 25})
	require.NoError(t, err)

	require.Equal(t, 25, record.GoodsProduced)
	require.Equal(t, 0, record.GoodsInHand)
}

func TestStageOverwrittenWithoutStrictMode(t *testing.T) {
	svc, _, workerID := newTestService(t, false)
	ctx := context.Background()

	// Packing before any production is permitted in the default mode; the
	// stage is just the tag of the last action.
	record, err := svc.ApplyAction(ctx, workerID, testDate, models.Pack{Quantity: 5})
	require.NoError(t, err)
	require.Equal(t, models.StagePacking, record.CurrentStage)
	require.Equal(t, 5, record.PackingCompleted)

	record, err = svc.ApplyAction(ctx, workerID, testDate, models.Alteration{Quantity: 2})
	require.NoError(t, err)
	require.Equal(t, models.StageAlteration, record.CurrentStage)
}

func TestStrictModeGatesTransitions(t *testing.T) {
	svc, _, workerID := newTestService(t, true)
	ctx := context.Background()

	_, err := svc.ApplyAction(ctx, workerID, testDate, models.Pack{Quantity: 5})
	require.ErrorIs(t, err, models.ErrValidation)

	record, err := svc.ApplyAction(ctx, workerID, testDate, models.Issue{Quantity: 40})
	require.NoError(t, err)
	require.Equal(t, models.StageIssued, record.CurrentStage)

	_, err = svc.ApplyAction(ctx, workerID, testDate, models.QC{Quantity: 1})
	require.ErrorIs(t, err, models.ErrValidation)

	record, err = svc.ApplyAction(ctx, workerID, testDate, models.Produce{Quantity: 15})
	require.NoError(t, err)
	require.Equal(t, models.StageProduction, record.CurrentStage)
}

func TestAuditTrailAppendsPerCounterMutation(t *testing.T) {
	svc, _, workerID := newTestService(t, false)
	ctx := context.Background()

	record, err := svc.ApplyAction(ctx, workerID, testDate, models.Issue{Quantity: 50})
	require.NoError(t, err)

	// issue touches two counters, alteration one
	_, err = svc.ApplyAction(ctx, workerID, testDate, models.Alteration{Quantity: 3})
	require.NoError(t, err)

	entries, err := svc.Logs(ctx, record.ID)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	require.Equal(t, models.StageIssued, entries[0].Stage)
	require.Equal(t, 50, entries[0].Quantity)
	require.Equal(t, models.StageAlteration, entries[2].Stage)
	require.Equal(t, 3, entries[2].Quantity)
	for _, entry := range entries {
		require.Equal(t, record.ID, entry.ProductionID)
		require.NotEmpty(t, entry.ID)
	}
}
