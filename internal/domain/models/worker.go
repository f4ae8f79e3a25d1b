package models

import "time"

// DefaultWorkerRole is assigned when a worker is created without an explicit role.
const DefaultWorkerRole = "worker"

// Worker represents a factory floor worker. Workers are immutable once created.
type Worker struct {
	ID        string    `bson:"_id" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Role      string    `bson:"role" json:"role"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
