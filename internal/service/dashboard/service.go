package dashboard

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/stitchline/stitchline/internal/cache"
	"github.com/stitchline/stitchline/internal/domain/models"
	"github.com/stitchline/stitchline/internal/repository"
)

// RangeType selects the dashboard reporting window.
type RangeType string

const (
	RangeToday RangeType = "today"
	RangeWeek  RangeType = "week"
	RangeMonth RangeType = "month"
)

// ParseRange validates a wire-level range name.
func ParseRange(value string) (RangeType, error) {
	switch RangeType(value) {
	case RangeToday, RangeWeek, RangeMonth:
		return RangeType(value), nil
	case "":
		return RangeToday, nil
	default:
		return "", fmt.Errorf("%w: unknown range %q", models.ErrValidation, value)
	}
}

// Service assembles dashboard views from the record store.
type Service struct {
	store  repository.Store
	cache  *cache.OverviewCache
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires a new dashboard service instance.
func NewService(store repository.Store, overviewCache *cache.OverviewCache, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, cache: overviewCache, logger: logger, now: time.Now}
}

// ProductionForDate returns one day's records with workers embedded, for the
// floor view.
func (s *Service) ProductionForDate(ctx context.Context, date string) ([]models.ProductionRecord, error) {
	if _, err := time.Parse(models.DateLayout, date); err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", models.ErrValidation)
	}
	return s.store.GetProductionForDate(ctx, date)
}

// Overview aggregates the selected range into the dashboard payload. The
// trend series is only present for multi-day ranges.
func (s *Service) Overview(ctx context.Context, rng RangeType) (models.DashboardOverview, error) {
	key := cache.OverviewKey(string(rng))
	var cached models.DashboardOverview
	if s.cache.Get(ctx, key, &cached) {
		return cached, nil
	}

	startDate, endDate := s.resolveRange(rng)

	var records []models.ProductionRecord
	var err error
	if startDate == endDate {
		records, err = s.store.GetProductionForDate(ctx, startDate)
	} else {
		records, err = s.store.GetProductionForRange(ctx, startDate, endDate)
	}
	if err != nil {
		return models.DashboardOverview{}, err
	}

	totals := SumTotals(records)
	overview := models.DashboardOverview{
		Range:        string(rng),
		StartDate:    startDate,
		EndDate:      endDate,
		Totals:       totals,
		Rates:        ComputeRates(totals),
		Ranking:      RankWorkers(records),
		Distribution: Distribution(records),
		Contributors: TopContributors(records),
	}
	if rng != RangeToday {
		overview.Trend = TrendSeries(records)
	}

	s.cache.Set(ctx, key, overview)
	return overview, nil
}

// resolveRange maps a range to an inclusive local-date window. Weeks start on
// Monday; months are calendar months.
func (s *Service) resolveRange(rng RangeType) (string, string) {
	now := s.now()
	switch rng {
	case RangeWeek:
		start := mondayStart(now)
		end := start.AddDate(0, 0, 6)
		return start.Format(models.DateLayout), end.Format(models.DateLayout)
	case RangeMonth:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		end := start.AddDate(0, 1, -1)
		return start.Format(models.DateLayout), end.Format(models.DateLayout)
	default:
		today := now.Format(models.DateLayout)
		return today, today
	}
}

func mondayStart(t time.Time) time.Time {
	weekday := int(t.Weekday())
	daysSinceMonday := (weekday + 6) % 7
	start := t.AddDate(0, 0, -daysSinceMonday)
	return time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, t.Location())
}
