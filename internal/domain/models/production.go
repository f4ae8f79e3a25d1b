package models

import "time"

// DateLayout is the calendar-day format used everywhere a date crosses a
// boundary: API parameters, store filters and trend buckets.
const DateLayout = "2006-01-02"

// WorkflowStage tags the most recent action applied to a production record.
// It is advisory metadata, not a gate: unless strict transitions are enabled
// any action may follow any stage.
type WorkflowStage string

const (
	StageIdle       WorkflowStage = "idle"
	StageIssued     WorkflowStage = "issued"
	StageProduction WorkflowStage = "production"
	StageAlteration WorkflowStage = "alteration"
	StageQC         WorkflowStage = "qc"
	StagePacking    WorkflowStage = "packing"
	StageCompleted  WorkflowStage = "completed"
)

// Counter field names shared by the store implementations. The stores persist
// these verbatim as column/document keys.
const (
	FieldGoodsIssued      = "goods_issued"
	FieldGoodsProduced    = "goods_produced"
	FieldGoodsInHand      = "goods_in_hand"
	FieldAlterationCount  = "alteration_count"
	FieldQCPassed         = "qc_passed"
	FieldQCFailed         = "qc_failed"
	FieldPackingCompleted = "packing_completed"
)

// ProductionRecord holds one worker's counters for one calendar day. At most
// one record exists per (worker_id, date); it is created lazily on the first
// action of the day and mutated in place afterwards.
type ProductionRecord struct {
	ID       string `bson:"_id" json:"id"`
	WorkerID string `bson:"worker_id" json:"worker_id"`
	Date     string `bson:"date" json:"date"`

	GoodsIssued   int `bson:"goods_issued" json:"goods_issued"`
	GoodsProduced int `bson:"goods_produced" json:"goods_produced"`
	GoodsInHand   int `bson:"goods_in_hand" json:"goods_in_hand"`

	AlterationCount  int `bson:"alteration_count" json:"alteration_count"`
	QCPassed         int `bson:"qc_passed" json:"qc_passed"`
	QCFailed         int `bson:"qc_failed" json:"qc_failed"`
	PackingCompleted int `bson:"packing_completed" json:"packing_completed"`

	CurrentStage WorkflowStage `bson:"current_stage" json:"current_stage"`
	UpdatedAt    time.Time     `bson:"updated_at" json:"updated_at"`

	// Worker is populated on reads that join the workers collection.
	Worker *Worker `bson:"worker,omitempty" json:"worker,omitempty"`
}

// ProductionLog is one append-only audit entry. Every counter mutation
// produces exactly one entry keyed by the production record it touched.
type ProductionLog struct {
	ID           string        `bson:"_id" json:"id"`
	ProductionID string        `bson:"production_id" json:"production_id"`
	Stage        WorkflowStage `bson:"stage" json:"stage"`
	Action       string        `bson:"action" json:"action"`
	Quantity     int           `bson:"quantity" json:"quantity"`
	Timestamp    time.Time     `bson:"timestamp" json:"timestamp"`
}

// DailySummary is the persisted nightly rollup of one day's production.
type DailySummary struct {
	Date             string    `bson:"date" json:"date"`
	GoodsIssued      int       `bson:"goods_issued" json:"goods_issued"`
	GoodsProduced    int       `bson:"goods_produced" json:"goods_produced"`
	AlterationCount  int       `bson:"alteration_count" json:"alteration_count"`
	QCPassed         int       `bson:"qc_passed" json:"qc_passed"`
	PackingCompleted int       `bson:"packing_completed" json:"packing_completed"`
	ConversionRate   float64   `bson:"conversion_rate" json:"conversion_rate"`
	AlterationRate   float64   `bson:"alteration_rate" json:"alteration_rate"`
	ActiveWorkers    int       `bson:"active_workers" json:"active_workers"`
	CreatedAt        time.Time `bson:"created_at" json:"created_at"`
}
