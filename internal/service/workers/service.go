package workers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/stitchline/stitchline/internal/domain/models"
	"github.com/stitchline/stitchline/internal/repository"
)

// Service manages the worker directory. Workers are append-only: there is no
// edit or delete.
type Service struct {
	store  repository.Store
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires a new worker directory service.
func NewService(store repository.Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger, now: time.Now}
}

// List returns every worker sorted by name ascending.
func (s *Service) List(ctx context.Context) ([]models.Worker, error) {
	return s.store.ListWorkers(ctx)
}

// Create registers a new worker. Names shorter than two characters are
// rejected before any store call; an empty role defaults to "worker".
func (s *Service) Create(ctx context.Context, name, role string) (models.Worker, error) {
	name = strings.TrimSpace(name)
	if len([]rune(name)) < 2 {
		return models.Worker{}, fmt.Errorf("%w: name must be at least 2 characters", models.ErrValidation)
	}
	if role == "" {
		role = models.DefaultWorkerRole
	}

	worker := models.Worker{
		ID:        uuid.NewString(),
		Name:      name,
		Role:      role,
		CreatedAt: s.now().UTC(),
	}

	created, err := s.store.CreateWorker(ctx, worker)
	if err != nil {
		return models.Worker{}, err
	}

	s.logger.Info("worker created", zap.String("worker_id", created.ID), zap.String("name", created.Name))
	return created, nil
}
