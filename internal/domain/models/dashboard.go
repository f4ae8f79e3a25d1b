package models

// Totals sums the monotonic counters across a record collection.
type Totals struct {
	GoodsIssued      int `json:"goods_issued"`
	GoodsProduced    int `json:"goods_produced"`
	AlterationCount  int `json:"alteration_count"`
	QCPassed         int `json:"qc_passed"`
	PackingCompleted int `json:"packing_completed"`
}

// Rates carries the derived percentage metrics, rounded to one decimal.
type Rates struct {
	// Conversion is produced / issued * 100; 0.0 when nothing was issued.
	Conversion float64 `json:"conversion"`
	// Alteration is alterations / produced * 100; 0.0 when nothing was produced.
	Alteration float64 `json:"alteration"`
}

// WorkerRank is one row of the per-worker production ranking.
type WorkerRank struct {
	WorkerID string `json:"worker_id"`
	Name     string `json:"name"`
	Produced int    `json:"produced"`
	Defects  int    `json:"defects"`
}

// TrendPoint is one day of the production trend series.
type TrendPoint struct {
	Date     string `json:"date"`
	Produced int    `json:"produced"`
	Issued   int    `json:"issued"`
}

// DistributionSlice is one category of the goods distribution snapshot.
type DistributionSlice struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// Contributor is one row of the single-day top-contributor list.
type Contributor struct {
	Name     string `json:"name"`
	Produced int    `json:"produced"`
}

// DashboardOverview is the aggregate payload consumed by the dashboard UI.
type DashboardOverview struct {
	Range     string `json:"range"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`

	Totals Totals `json:"totals"`
	Rates  Rates  `json:"rates"`

	Ranking      []WorkerRank        `json:"ranking"`
	Trend        []TrendPoint        `json:"trend,omitempty"`
	Distribution []DistributionSlice `json:"distribution"`
	Contributors []Contributor       `json:"contributors"`
}
