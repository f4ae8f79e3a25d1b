package dashboard

import (
	"math"
	"sort"

	"github.com/stitchline/stitchline/internal/domain/models"
)

// unknownWorkerLabel stands in when a record's worker join is missing.
const unknownWorkerLabel = "Unknown"

const (
	rankingLimit      = 5
	contributorsLimit = 7
)

// SumTotals adds the monotonic counters across the records.
func SumTotals(records []models.ProductionRecord) models.Totals {
	var totals models.Totals
	for _, record := range records {
		totals.GoodsIssued += record.GoodsIssued
		totals.GoodsProduced += record.GoodsProduced
		totals.AlterationCount += record.AlterationCount
		totals.QCPassed += record.QCPassed
		totals.PackingCompleted += record.PackingCompleted
	}
	return totals
}

// ComputeRates derives the percentage metrics from totals, rounded to one
// decimal. A zero denominator yields 0.0.
func ComputeRates(totals models.Totals) models.Rates {
	var rates models.Rates
	if totals.GoodsIssued > 0 {
		rates.Conversion = roundOneDecimal(float64(totals.GoodsProduced) / float64(totals.GoodsIssued) * 100)
	}
	if totals.GoodsProduced > 0 {
		rates.Alteration = roundOneDecimal(float64(totals.AlterationCount) / float64(totals.GoodsProduced) * 100)
	}
	return rates
}

// RankWorkers groups records by worker id, sums production and defects per
// worker, and returns the top performers by produced count. Ties keep input
// order.
func RankWorkers(records []models.ProductionRecord) []models.WorkerRank {
	byID := map[string]int{}
	ranks := []models.WorkerRank{}

	for _, record := range records {
		idx, ok := byID[record.WorkerID]
		if !ok {
			name := unknownWorkerLabel
			if record.Worker != nil {
				name = record.Worker.Name
			}
			idx = len(ranks)
			byID[record.WorkerID] = idx
			ranks = append(ranks, models.WorkerRank{WorkerID: record.WorkerID, Name: name})
		}
		ranks[idx].Produced += record.GoodsProduced
		ranks[idx].Defects += record.AlterationCount
	}

	sort.SliceStable(ranks, func(i, j int) bool { return ranks[i].Produced > ranks[j].Produced })
	if len(ranks) > rankingLimit {
		ranks = ranks[:rankingLimit]
	}
	return ranks
}

// TrendSeries groups records by date and sums produced and issued per day,
// sorted ascending. The lexicographic sort on YYYY-MM-DD is date-correct.
func TrendSeries(records []models.ProductionRecord) []models.TrendPoint {
	byDate := map[string]int{}
	points := []models.TrendPoint{}

	for _, record := range records {
		idx, ok := byDate[record.Date]
		if !ok {
			idx = len(points)
			byDate[record.Date] = idx
			points = append(points, models.TrendPoint{Date: record.Date})
		}
		points[idx].Produced += record.GoodsProduced
		points[idx].Issued += record.GoodsIssued
	}

	sort.SliceStable(points, func(i, j int) bool { return points[i].Date < points[j].Date })
	return points
}

// Distribution sums goods currently in hand, produced and flagged for
// alteration, dropping empty categories.
func Distribution(records []models.ProductionRecord) []models.DistributionSlice {
	var inHand, produced, alteration int
	for _, record := range records {
		inHand += record.GoodsInHand
		produced += record.GoodsProduced
		alteration += record.AlterationCount
	}

	slices := []models.DistributionSlice{
		{Name: "In Hand", Value: inHand},
		{Name: "Produced", Value: produced},
		{Name: "Alteration", Value: alteration},
	}

	filtered := []models.DistributionSlice{}
	for _, slice := range slices {
		if slice.Value > 0 {
			filtered = append(filtered, slice)
		}
	}
	return filtered
}

// TopContributors groups records by worker name and returns the largest
// producers, for single-day views.
func TopContributors(records []models.ProductionRecord) []models.Contributor {
	byName := map[string]int{}
	contributors := []models.Contributor{}

	for _, record := range records {
		name := unknownWorkerLabel
		if record.Worker != nil {
			name = record.Worker.Name
		}
		idx, ok := byName[name]
		if !ok {
			idx = len(contributors)
			byName[name] = idx
			contributors = append(contributors, models.Contributor{Name: name})
		}
		contributors[idx].Produced += record.GoodsProduced
	}

	sort.SliceStable(contributors, func(i, j int) bool { return contributors[i].Produced > contributors[j].Produced })
	if len(contributors) > contributorsLimit {
		contributors = contributors[:contributorsLimit]
	}
	return contributors
}

func roundOneDecimal(v float64) float64 {
	return math.Round(v*10) / 10
}
