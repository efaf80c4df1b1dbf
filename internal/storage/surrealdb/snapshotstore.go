package surrealdb

import (
	"context"
	"fmt"
	"time"

	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/bobmcallan/pulse/internal/common"
	"github.com/bobmcallan/pulse/internal/interfaces"
	"github.com/bobmcallan/pulse/internal/models"
)

// accountCacheID is the fixed record id of the single cached account row.
const accountCacheID = "current"

// SnapshotStore implements interfaces.SnapshotStore using SurrealDB. It holds
// the last good account snapshot and one equity-history series per range.
type SnapshotStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

// NewSnapshotStore creates a new SnapshotStore.
func NewSnapshotStore(db *surrealdb.DB, logger *common.Logger) *SnapshotStore {
	return &SnapshotStore{db: db, logger: logger}
}

type accountRecord struct {
	Snapshot  models.AccountSnapshot `json:"snapshot"`
	UpdatedAt time.Time              `json:"updated_at"`
}

func (s *SnapshotStore) SaveAccount(ctx context.Context, snapshot *models.AccountSnapshot) error {
	sql := `UPSERT $rid SET snapshot = $snapshot, updated_at = $updated_at`
	vars := map[string]any{
		"rid":        surrealmodels.NewRecordID("account_cache", accountCacheID),
		"snapshot":   snapshot,
		"updated_at": time.Now().UTC(),
	}

	if _, err := surrealdb.Query[any](ctx, s.db, sql, vars); err != nil {
		return fmt.Errorf("failed to save account snapshot: %w", err)
	}
	return nil
}

func (s *SnapshotStore) GetAccount(ctx context.Context) (*models.AccountSnapshot, error) {
	sql := `SELECT snapshot, updated_at FROM $rid`
	vars := map[string]any{
		"rid": surrealmodels.NewRecordID("account_cache", accountCacheID),
	}

	results, err := surrealdb.Query[[]accountRecord](ctx, s.db, sql, vars)
	if err != nil {
		if isNotFoundError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get account snapshot: %w", err)
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, nil
	}
	snapshot := (*results)[0].Result[0].Snapshot
	return &snapshot, nil
}

type historyRecord struct {
	Range     string               `json:"range"`
	Points    []models.EquityPoint `json:"points"`
	UpdatedAt time.Time            `json:"updated_at"`
}

func (s *SnapshotStore) SaveHistory(ctx context.Context, r models.Range, points []models.EquityPoint) error {
	sql := `UPSERT $rid SET range = $range, points = $points, updated_at = $updated_at`
	vars := map[string]any{
		"rid":        surrealmodels.NewRecordID("history_cache", string(r)),
		"range":      string(r),
		"points":     points,
		"updated_at": time.Now().UTC(),
	}

	if _, err := surrealdb.Query[any](ctx, s.db, sql, vars); err != nil {
		return fmt.Errorf("failed to save history for %s: %w", r, err)
	}
	return nil
}

func (s *SnapshotStore) GetHistory(ctx context.Context, r models.Range) ([]models.EquityPoint, error) {
	sql := `SELECT range, points, updated_at FROM $rid`
	vars := map[string]any{
		"rid": surrealmodels.NewRecordID("history_cache", string(r)),
	}

	results, err := surrealdb.Query[[]historyRecord](ctx, s.db, sql, vars)
	if err != nil {
		if isNotFoundError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get history for %s: %w", r, err)
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, nil
	}
	return (*results)[0].Result[0].Points, nil
}

// Ensure SnapshotStore implements interfaces.SnapshotStore
var _ interfaces.SnapshotStore = (*SnapshotStore)(nil)
