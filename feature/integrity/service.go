package integrity

import (
	"context"
	"errors"

	"inventory-manager/core/reconcile"
	"inventory-manager/core/storage"
	"inventory-manager/core/variant"
	"inventory-manager/feature/integrity/checks"
	"inventory-manager/feature/inventory/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrDriftUnavailable is returned when no live or snapshot source is wired.
var ErrDriftUnavailable = errors.New("drift check requires a database and a snapshot")

// Service handles integrity checks.
type Service struct {
	db        *gorm.DB
	client    storage.Client
	bucket    string
	object    string
	backend   checks.Backend
	batchSize int
	logger    *zap.Logger

	live     variant.InventoryRecordSource
	snapshot variant.InventoryRecordSource
}

// NewService creates a new integrity service. client may be nil when no
// snapshot storage is configured.
func NewService(db *gorm.DB, client storage.Client, bucket, object string, backend checks.Backend, batchSize int, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		db:        db,
		client:    client,
		bucket:    bucket,
		object:    object,
		backend:   backend,
		batchSize: batchSize,
		logger:    logger,
	}
}

// CheckTables compares the inventory tables with their models.
func (s *Service) CheckTables() (*checks.TablesReport, error) {
	return checks.CheckTables(s.db, models.All())
}

// CheckSnapshot reports on the snapshot bucket and object.
func (s *Service) CheckSnapshot(ctx context.Context) (*checks.SnapshotReport, error) {
	return checks.CheckSnapshot(ctx, s.client, s.bucket, s.object)
}

// FixBucket creates the snapshot bucket.
func (s *Service) FixBucket(ctx context.Context) error {
	return checks.FixBucket(ctx, s.client, s.bucket, s.logger)
}

// CheckBranch reports data issues that degrade resolution at a branch.
func (s *Service) CheckBranch(ctx context.Context, branchID int64) (*checks.DataReport, error) {
	return checks.CheckBranchData(ctx, s.backend, branchID, s.batchSize)
}

// WithDrift enables the snapshot drift check between live and snapshot.
func (s *Service) WithDrift(live, snapshot variant.InventoryRecordSource) *Service {
	s.live = live
	s.snapshot = snapshot
	return s
}

// CheckDrift compares the live records with the snapshot export.
func (s *Service) CheckDrift(ctx context.Context) (*reconcile.Report, error) {
	if s.live == nil || s.snapshot == nil {
		return nil, ErrDriftUnavailable
	}
	return checks.CheckSnapshotDrift(ctx, s.live, s.snapshot)
}
