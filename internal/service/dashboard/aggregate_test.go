package dashboard

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stitchline/stitchline/internal/domain/models"
)

func rec(workerID, name, date string, issued, produced, inHand, alteration int) models.ProductionRecord {
	record := models.ProductionRecord{
		WorkerID:        workerID,
		Date:            date,
		GoodsIssued:     issued,
		GoodsProduced:   produced,
		GoodsInHand:     inHand,
		AlterationCount: alteration,
	}
	if name != "" {
		record.Worker = &models.Worker{ID: workerID, Name: name}
	}
	return record
}

func TestSumTotalsAdditive(t *testing.T) {
	a := []models.ProductionRecord{
		rec("w1", "A", "2024-05-13", 100, 80, 20, 4),
		rec("w2", "B", "2024-05-13", 60, 50, 10, 1),
	}
	b := []models.ProductionRecord{
		rec("w3", "C", "2024-05-14", 30, 25, 5, 0),
	}

	totalA := SumTotals(a)
	totalB := SumTotals(b)
	combined := SumTotals(append(append([]models.ProductionRecord{}, a...), b...))

	require.Equal(t, totalA.GoodsIssued+totalB.GoodsIssued, combined.GoodsIssued)
	require.Equal(t, totalA.GoodsProduced+totalB.GoodsProduced, combined.GoodsProduced)
	require.Equal(t, totalA.AlterationCount+totalB.AlterationCount, combined.AlterationCount)
}

func TestSumTotalsEmptyInput(t *testing.T) {
	require.Equal(t, models.Totals{}, SumTotals(nil))
}

func TestComputeRates(t *testing.T) {
	rates := ComputeRates(models.Totals{GoodsIssued: 100, GoodsProduced: 95, AlterationCount: 5})
	require.InDelta(t, 95.0, rates.Conversion, 0.001)
	require.InDelta(t, 5.3, rates.Alteration, 0.001)
}

func TestComputeRatesZeroDenominators(t *testing.T) {
	rates := ComputeRates(models.Totals{})
	require.Equal(t, 0.0, rates.Conversion)
	require.Equal(t, 0.0, rates.Alteration)

	rates = ComputeRates(models.Totals{GoodsIssued: 10})
	require.Equal(t, 0.0, rates.Conversion)
}

func TestRankWorkersStableOnTies(t *testing.T) {
	records := []models.ProductionRecord{
		rec("w1", "A", "2024-05-13", 0, 10, 0, 2),
		rec("w2", "B", "2024-05-13", 0, 10, 0, 0),
	}

	ranks := RankWorkers(records)
	require.Len(t, ranks, 2)
	require.Equal(t, "A", ranks[0].Name)
	require.Equal(t, "B", ranks[1].Name)
	require.Equal(t, 2, ranks[0].Defects)
}

func TestRankWorkersSumsAcrossDaysAndLimitsToFive(t *testing.T) {
	records := []models.ProductionRecord{}
	names := []string{"A", "B", "C", "D", "E", "F"}
	for i, name := range names {
		records = append(records,
			rec("w"+name, name, "2024-05-13", 0, 10*(i+1), 0, i),
			rec("w"+name, name, "2024-05-14", 0, 5, 0, 0),
		)
	}

	ranks := RankWorkers(records)
	require.Len(t, ranks, 5)
	require.Equal(t, "F", ranks[0].Name)
	require.Equal(t, 65, ranks[0].Produced)
	require.Equal(t, 5, ranks[0].Defects)
	// The smallest producer falls off the list.
	for _, rank := range ranks {
		require.NotEqual(t, "A", rank.Name)
	}
}

func TestRankWorkersMissingJoinLabeledUnknown(t *testing.T) {
	ranks := RankWorkers([]models.ProductionRecord{rec("w9", "", "2024-05-13", 0, 3, 0, 0)})
	require.Len(t, ranks, 1)
	require.Equal(t, "Unknown", ranks[0].Name)
}

func TestTrendSeriesSortsAscending(t *testing.T) {
	records := []models.ProductionRecord{
		rec("w1", "A", "2024-05-14", 20, 15, 0, 0),
		rec("w2", "B", "2024-05-13", 30, 25, 0, 0),
		rec("w1", "A", "2024-05-13", 10, 5, 0, 0),
	}

	trend := TrendSeries(records)
	require.Len(t, trend, 2)
	require.Equal(t, "2024-05-13", trend[0].Date)
	require.Equal(t, 30, trend[0].Produced)
	require.Equal(t, 40, trend[0].Issued)
	require.Equal(t, "2024-05-14", trend[1].Date)
}

func TestDistributionFiltersZeroCategories(t *testing.T) {
	records := []models.ProductionRecord{
		rec("w1", "A", "2024-05-13", 40, 25, 15, 0),
	}

	slices := Distribution(records)
	require.Len(t, slices, 2)
	require.Equal(t, "In Hand", slices[0].Name)
	require.Equal(t, 15, slices[0].Value)
	require.Equal(t, "Produced", slices[1].Name)
	require.Equal(t, 25, slices[1].Value)
}

func TestDistributionEmpty(t *testing.T) {
	require.Empty(t, Distribution(nil))
}

func TestTopContributorsLimitsToSeven(t *testing.T) {
	records := []models.ProductionRecord{}
	for i, name := range []string{"A", "B", "C", "D", "E", "F", "G", "H"} {
		records = append(records, rec("w"+name, name, "2024-05-13", 0, 10*(i+1), 0, 0))
	}
	records = append(records, rec("w0", "", "2024-05-13", 0, 1000, 0, 0))

	contributors := TopContributors(records)
	require.Len(t, contributors, 7)
	require.Equal(t, "Unknown", contributors[0].Name)
	require.Equal(t, 1000, contributors[0].Produced)
	require.Equal(t, "H", contributors[1].Name)
}
