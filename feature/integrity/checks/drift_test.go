package checks_test

import (
	"context"
	"testing"

	"inventory-manager/core/reconcile"
	"inventory-manager/core/variant"
	"inventory-manager/feature/integrity/checks"
	"inventory-manager/feature/inventory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticRecords []variant.InventoryRecord

func (s staticRecords) ListRecords(context.Context, int64, *int64) ([]variant.InventoryRecord, error) {
	return s, nil
}

func TestCheckSnapshotDrift(t *testing.T) {
	repo := inventory.NewRepository(seedDB(t))
	live, err := repo.ListRecords(context.Background(), 0, nil)
	require.NoError(t, err)

	// The snapshot was taken before row 505 was added, still holds a deleted
	// row 999 and has an outdated stock for 501.
	var snapshot staticRecords
	for _, r := range live {
		switch r.ID {
		case 505:
			continue
		case 501:
			r.StockQuantity = 10
		}
		snapshot = append(snapshot, r)
	}
	snapshot = append(snapshot, variant.InventoryRecord{ID: 999, ProductID: soda, BranchID: branch})

	report, err := checks.CheckSnapshotDrift(context.Background(), repo, snapshot)

	require.NoError(t, err)
	assert.Equal(t, 8, report.Summary.Total)
	assert.Equal(t, 5, report.Summary.Matched)
	require.Len(t, report.Drifted, 3)

	assert.Equal(t, "501", report.Drifted[0].Key)
	assert.Equal(t, []string{"stock_quantity: snapshot=10 live=4"}, report.Drifted[0].Mismatch)
	assert.Equal(t, reconcile.StatusMissingSnapshot, report.Drifted[1].Status())
	assert.Equal(t, "999", report.Drifted[2].Key)
	assert.Equal(t, reconcile.StatusStale, report.Drifted[2].Status())
}

func TestCheckSnapshotDrift_NeedsBothSources(t *testing.T) {
	_, err := checks.CheckSnapshotDrift(context.Background(), nil, staticRecords{})
	assert.Error(t, err)
}
