package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/stitchline/stitchline/internal/domain/models"
	"github.com/stitchline/stitchline/internal/repository"
)

const (
	workersColl    = "workers"
	productionColl = "daily_production"
	logsColl       = "production_logs"
	summariesColl  = "daily_summaries"
)

// MongoDBStore implements the repository.Store interface for MongoDB.
type MongoDBStore struct {
	client *mongo.Client
	dbName string
}

var _ repository.Store = (*MongoDBStore)(nil)

// NewMongoDBStore connects to MongoDB and prepares the collections.
func NewMongoDBStore(ctx context.Context, uri string, dbName string) (*MongoDBStore, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	store := &MongoDBStore{client: client, dbName: dbName}
	if err := store.ensureIndexes(ctx); err != nil {
		return nil, err
	}

	return store, nil
}

func (s *MongoDBStore) coll(name string) *mongo.Collection {
	return s.client.Database(s.dbName).Collection(name)
}

// ensureIndexes enforces the one-record-per-worker-per-day constraint and
// keeps the audit trail readable in timestamp order.
func (s *MongoDBStore) ensureIndexes(ctx context.Context) error {
	_, err := s.coll(productionColl).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "worker_id", Value: 1}, {Key: "date", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create production index: %w", err)
	}

	_, err = s.coll(logsColl).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "production_id", Value: 1}, {Key: "timestamp", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create log index: %w", err)
	}

	return nil
}

// ListWorkers returns every worker sorted by name ascending.
func (s *MongoDBStore) ListWorkers(ctx context.Context) ([]models.Worker, error) {
	cursor, err := s.coll(workersColl).Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list workers: %w", err)
	}

	workers := []models.Worker{}
	if err := cursor.All(ctx, &workers); err != nil {
		return nil, fmt.Errorf("failed to decode workers: %w", err)
	}
	return workers, nil
}

// GetWorker fetches a single worker; a missing id yields a nil worker.
func (s *MongoDBStore) GetWorker(ctx context.Context, id string) (*models.Worker, error) {
	var worker models.Worker
	err := s.coll(workersColl).FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&worker)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get worker %s: %w", id, err)
	}
	return &worker, nil
}

// CreateWorker inserts a new worker document.
func (s *MongoDBStore) CreateWorker(ctx context.Context, worker models.Worker) (models.Worker, error) {
	if _, err := s.coll(workersColl).InsertOne(ctx, worker); err != nil {
		return models.Worker{}, fmt.Errorf("failed to insert worker: %w", err)
	}
	return worker, nil
}

func workerJoinStages() mongo.Pipeline {
	return mongo.Pipeline{
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: workersColl},
			{Key: "localField", Value: "worker_id"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "worker"},
		}}},
		bson.D{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$worker"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
	}
}

func (s *MongoDBStore) findProduction(ctx context.Context, match bson.D) ([]models.ProductionRecord, error) {
	pipeline := mongo.Pipeline{bson.D{{Key: "$match", Value: match}}}
	pipeline = append(pipeline, workerJoinStages()...)

	cursor, err := s.coll(productionColl).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to query production: %w", err)
	}

	records := []models.ProductionRecord{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode production records: %w", err)
	}
	return records, nil
}

// GetProductionForDate returns one day's records with workers embedded.
func (s *MongoDBStore) GetProductionForDate(ctx context.Context, date string) ([]models.ProductionRecord, error) {
	return s.findProduction(ctx, bson.D{{Key: "date", Value: date}})
}

// GetProductionForRange returns records for an inclusive date range with
// workers embedded.
func (s *MongoDBStore) GetProductionForRange(ctx context.Context, startDate, endDate string) ([]models.ProductionRecord, error) {
	return s.findProduction(ctx, bson.D{{Key: "date", Value: bson.D{
		{Key: "$gte", Value: startDate},
		{Key: "$lte", Value: endDate},
	}}})
}

// GetWorkerProduction fetches one worker's record for one day. A missing
// record is a nil result, not an error.
func (s *MongoDBStore) GetWorkerProduction(ctx context.Context, workerID, date string) (*models.ProductionRecord, error) {
	var record models.ProductionRecord
	filter := bson.D{{Key: "worker_id", Value: workerID}, {Key: "date", Value: date}}
	err := s.coll(productionColl).FindOne(ctx, filter).Decode(&record)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get production for worker %s on %s: %w", workerID, date, err)
	}
	return &record, nil
}

// CreateProductionRecord inserts a fresh record; the unique index rejects a
// second record for the same worker and day.
func (s *MongoDBStore) CreateProductionRecord(ctx context.Context, record models.ProductionRecord) (models.ProductionRecord, error) {
	if _, err := s.coll(productionColl).InsertOne(ctx, record); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.ProductionRecord{}, fmt.Errorf("%w: production record for worker %s on %s already exists",
				models.ErrValidation, record.WorkerID, record.Date)
		}
		return models.ProductionRecord{}, fmt.Errorf("failed to insert production record: %w", err)
	}
	return record, nil
}

// ApplyProductionUpdate commits the counter writes and optional stage change
// as a single document update.
func (s *MongoDBStore) ApplyProductionUpdate(ctx context.Context, recordID string, update repository.ProductionUpdate) (models.ProductionRecord, error) {
	set := bson.D{{Key: "updated_at", Value: time.Now().UTC()}}
	for _, counter := range update.Counters {
		set = append(set, bson.E{Key: counter.Field, Value: counter.Value})
	}
	if update.Stage != "" {
		set = append(set, bson.E{Key: "current_stage", Value: update.Stage})
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var record models.ProductionRecord
	err := s.coll(productionColl).
		FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: recordID}}, bson.D{{Key: "$set", Value: set}}, opts).
		Decode(&record)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.ProductionRecord{}, fmt.Errorf("%w: production record %s", models.ErrNotFound, recordID)
	}
	if err != nil {
		return models.ProductionRecord{}, fmt.Errorf("failed to update production record %s: %w", recordID, err)
	}
	return record, nil
}

// AppendLogs inserts audit entries for a production record.
func (s *MongoDBStore) AppendLogs(ctx context.Context, entries []models.ProductionLog) error {
	if len(entries) == 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(entries))
	for _, entry := range entries {
		docs = append(docs, entry)
	}

	if _, err := s.coll(logsColl).InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert production logs: %w", err)
	}
	return nil
}

// ListLogs returns the audit trail for a record in timestamp order.
func (s *MongoDBStore) ListLogs(ctx context.Context, productionID string) ([]models.ProductionLog, error) {
	filter := bson.D{{Key: "production_id", Value: productionID}}
	cursor, err := s.coll(logsColl).Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list production logs: %w", err)
	}

	entries := []models.ProductionLog{}
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode production logs: %w", err)
	}
	return entries, nil
}

// SaveDailySummary upserts the rollup document for a day, so a re-run of the
// nightly job overwrites rather than duplicates.
func (s *MongoDBStore) SaveDailySummary(ctx context.Context, summary models.DailySummary) error {
	filter := bson.D{{Key: "date", Value: summary.Date}}
	opts := options.Replace().SetUpsert(true)
	if _, err := s.coll(summariesColl).ReplaceOne(ctx, filter, summary, opts); err != nil {
		return fmt.Errorf("failed to save daily summary: %w", err)
	}
	return nil
}

// Close closes the MongoDB connection.
func (s *MongoDBStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
