package inventory_test

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"inventory-manager/core/cache"
	"inventory-manager/core/metrics"
	"inventory-manager/core/variant"
	"inventory-manager/feature/inventory"
	"inventory-manager/feature/inventory/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// flakyBackend wraps a backend and fails selected sources.
type flakyBackend struct {
	inventory.Backend
	categoryErr     error
	assignmentsErr  error
	recordsErr      error
	failProduct     int64
	assignmentCalls atomic.Int32
}

func (f *flakyBackend) CategoryOf(ctx context.Context, productID int64) (int64, error) {
	if f.categoryErr != nil {
		return 0, f.categoryErr
	}
	return f.Backend.CategoryOf(ctx, productID)
}

func (f *flakyBackend) ListAssignments(ctx context.Context, productID int64) ([]variant.ProductAttributeAssignment, error) {
	f.assignmentCalls.Add(1)
	if f.assignmentsErr != nil && (f.failProduct == 0 || f.failProduct == productID) {
		return nil, f.assignmentsErr
	}
	return f.Backend.ListAssignments(ctx, productID)
}

func (f *flakyBackend) ListRecords(ctx context.Context, branchID int64, productID *int64) ([]variant.InventoryRecord, error) {
	if f.recordsErr != nil {
		return nil, f.recordsErr
	}
	return f.Backend.ListRecords(ctx, branchID, productID)
}

var engine = variant.Config{Backend: variant.BackendDatabase, EnrichmentBatchSize: 2, FetchTimeoutSeconds: 5}

func newService(t *testing.T, backend inventory.Backend) (*inventory.Service, *metrics.Metrics) {
	t.Helper()
	m := metrics.New("test", prometheus.NewRegistry())
	svc := inventory.NewService(backend, cache.NewMemoryStore(), time.Minute, engine, m, zap.NewNop())
	return svc, m
}

func TestService_ReconcileSchema(t *testing.T) {
	svc, m := newService(t, inventory.NewRepository(seedDB(t)))
	ctx := context.Background()

	schema, err := svc.ReconcileSchema(ctx, 0, soda)
	require.NoError(t, err)

	assert.Equal(t, beverages, schema.CategoryID)
	require.Len(t, schema.Dimensions, 2)
	assert.Equal(t, "Size", schema.Dimensions[0].Type.Name)
	assert.Equal(t, variant.SourceAssignments, schema.Dimensions[0].Source)
	require.Len(t, schema.Dimensions[0].Values, 1)
	assert.Equal(t, sizeM, schema.Dimensions[0].Values[0].ID)

	flavor := schema.Dimensions[1]
	assert.Equal(t, variant.SourceRecords, flavor.Source)
	require.Len(t, flavor.Values, 2)
	assert.Equal(t, flavorLemon, flavor.Values[0].ID)
	assert.Equal(t, flavorOriginal, flavor.Values[1].ID)
	assert.Empty(t, schema.Degraded)

	cached, err := svc.ReconcileSchema(ctx, beverages, soda)
	require.NoError(t, err)
	assert.Equal(t, schema.Version, cached.Version)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("schema", "hit")))

	empty, err := svc.ReconcileSchema(ctx, 0, bundle)
	require.NoError(t, err)
	assert.True(t, empty.IsEmpty())

	_, err = svc.ReconcileSchema(ctx, 0, 999)
	assert.ErrorIs(t, err, inventory.ErrProductNotFound)
}

func TestService_ReconcileSchemaDegradedIsNotCached(t *testing.T) {
	backend := &flakyBackend{Backend: inventory.NewRepository(seedDB(t)), assignmentsErr: errors.New("timeout")}
	svc, m := newService(t, backend)

	for i := 0; i < 2; i++ {
		schema, err := svc.ReconcileSchema(context.Background(), 0, soda)
		require.NoError(t, err)
		assert.Equal(t, []string{variant.SourceProductAssignments}, schema.Degraded)
		require.Len(t, schema.Dimensions, 2)
		assert.Equal(t, variant.SourceCatalog, schema.Dimensions[0].Source)
	}

	assert.Equal(t, int32(2), backend.assignmentCalls.Load())
	assert.Equal(t, 2.0, testutil.ToFloat64(m.SourceFailures.WithLabelValues(variant.SourceProductAssignments)))
}

func TestService_Resolve(t *testing.T) {
	svc, m := newService(t, inventory.NewRepository(seedDB(t)))
	ctx := context.Background()

	tests := []struct {
		name      string
		productID int64
		branchID  int64
		selection variant.Selection
		wantID    int64
		reason    variant.Reason
	}{
		{
			name:      "lemon at branch A",
			productID: soda,
			branchID:  branchA,
			selection: variant.Selection{sizeType: sizeM, flavorType: flavorLemon},
			wantID:    502,
			reason:    variant.ReasonExactMatch,
		},
		{
			name:      "original at branch B",
			productID: soda,
			branchID:  branchB,
			selection: variant.Selection{sizeType: sizeM, flavorType: flavorOriginal},
			wantID:    503,
			reason:    variant.ReasonExactMatch,
		},
		{
			name:      "size never assigned",
			productID: soda,
			branchID:  branchA,
			selection: variant.Selection{sizeType: sizeS, flavorType: flavorLemon},
			reason:    variant.ReasonSelectionMismatch,
		},
		{
			name:      "lemon not stocked at branch B",
			productID: soda,
			branchID:  branchB,
			selection: variant.Selection{sizeType: sizeM, flavorType: flavorLemon},
			reason:    variant.ReasonNoMatch,
		},
		{
			name:      "attribute-less product",
			productID: bundle,
			branchID:  branchA,
			wantID:    601,
			reason:    variant.ReasonSingleVariant,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := svc.Resolve(ctx, tt.productID, tt.branchID, tt.selection)
			require.NoError(t, err)
			assert.Equal(t, tt.reason, res.Reason)
			assert.False(t, res.LowConfidence)
			if tt.wantID == 0 {
				assert.Equal(t, variant.StatusNotFound, res.Status)
				return
			}
			require.True(t, res.Found())
			assert.Equal(t, tt.wantID, res.Record.ID)
		})
	}

	assert.Equal(t, 3.0, testutil.ToFloat64(m.Resolutions.WithLabelValues("confident")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Resolutions.WithLabelValues("not_found")))

}

func TestService_ResolveReadsFreshStock(t *testing.T) {
	db := seedDB(t)
	svc, m := newService(t, inventory.NewRepository(db))
	ctx := context.Background()
	selection := variant.Selection{sizeType: sizeM, flavorType: flavorLemon}

	first, err := svc.Resolve(ctx, soda, branchA, selection)
	require.NoError(t, err)
	require.True(t, first.Found())
	assert.Equal(t, 3, first.Record.StockQuantity)

	require.NoError(t, db.Model(&models.BranchProduct{}).Where("id = ?", 502).Update("stock_quantity", 9).Error)

	second, err := svc.Resolve(ctx, soda, branchA, selection)
	require.NoError(t, err)
	require.True(t, second.Found())
	assert.Equal(t, 9, second.Record.StockQuantity)

	opts, err := svc.Options(ctx, soda, branchA, []variant.Choice{
		{TypeID: sizeType, ValueID: sizeM},
		{TypeID: flavorType, ValueID: flavorLemon},
	})
	require.NoError(t, err)
	require.NotNil(t, opts.Resolution)
	assert.Equal(t, second.Record.StockQuantity, opts.Resolution.Record.StockQuantity)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("schema", "hit")))
}

func TestService_ReconcileSchemaWithoutCategoryLookup(t *testing.T) {
	backend := &flakyBackend{Backend: inventory.NewRepository(seedDB(t)), categoryErr: errors.New("catalog timeout")}
	svc, m := newService(t, backend)
	ctx := context.Background()

	schema, err := svc.ReconcileSchema(ctx, 0, soda)
	require.NoError(t, err)
	assert.Equal(t, []string{variant.SourceProducts}, schema.Degraded)
	require.Len(t, schema.Dimensions, 2)
	assert.Equal(t, sizeType, schema.Dimensions[0].Type.ID)
	assert.Equal(t, flavorType, schema.Dimensions[1].Type.ID)
	assert.True(t, schema.Dimensions[1].Synthesized)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SourceFailures.WithLabelValues(variant.SourceProducts)))

	res, err := svc.Resolve(ctx, soda, branchA, variant.Selection{sizeType: sizeM, flavorType: flavorLemon})
	require.NoError(t, err)
	require.True(t, res.Found())
	assert.Equal(t, int64(502), res.Record.ID)

	backend.categoryErr = fmt.Errorf("lookup: %w", inventory.ErrProductNotFound)
	_, err = svc.ReconcileSchema(ctx, 0, soda)
	assert.ErrorIs(t, err, inventory.ErrProductNotFound)
}

func TestService_ResolveDegradesWithoutAssignments(t *testing.T) {
	backend := &flakyBackend{Backend: inventory.NewRepository(seedDB(t)), assignmentsErr: errors.New("timeout")}
	svc, _ := newService(t, backend)

	res, err := svc.Resolve(context.Background(), soda, branchA, variant.Selection{sizeType: sizeM, flavorType: flavorLemon})

	require.NoError(t, err)
	require.True(t, res.Found())
	assert.Equal(t, int64(502), res.Record.ID)
	assert.True(t, res.LowConfidence)
	assert.Equal(t, variant.ReasonDiscriminatingOnly, res.Reason)
}

func TestService_ResolveFailsWithoutRecords(t *testing.T) {
	boom := errors.New("inventory service down")
	backend := &flakyBackend{Backend: inventory.NewRepository(seedDB(t)), recordsErr: boom}
	svc, _ := newService(t, backend)

	_, err := svc.Resolve(context.Background(), soda, branchA, variant.Selection{sizeType: sizeM, flavorType: flavorLemon})
	assert.ErrorIs(t, err, boom)
}

func TestService_Options(t *testing.T) {
	svc, m := newService(t, inventory.NewRepository(seedDB(t)))
	ctx := context.Background()

	opts, err := svc.Options(ctx, soda, branchA, nil)
	require.NoError(t, err)
	assert.Equal(t, variant.PhaseDimensionsPending, opts.Phase)
	require.Len(t, opts.Dimensions, 2)
	assert.True(t, opts.Dimensions[0].Selectable)
	require.Len(t, opts.Dimensions[0].Available, 1)
	assert.Equal(t, sizeM, opts.Dimensions[0].Available[0].ID)
	assert.False(t, opts.Dimensions[1].Selectable)
	assert.Empty(t, opts.Dimensions[1].Available)
	assert.Nil(t, opts.Resolution)

	opts, err = svc.Options(ctx, soda, branchA, []variant.Choice{{TypeID: sizeType, ValueID: sizeM}})
	require.NoError(t, err)
	assert.Equal(t, sizeM, opts.Dimensions[0].Selected)
	require.Len(t, opts.Dimensions[1].Available, 2)
	assert.Equal(t, flavorLemon, opts.Dimensions[1].Available[0].ID)

	// Choice order does not matter; replay follows dimension order.
	opts, err = svc.Options(ctx, soda, branchA, []variant.Choice{
		{TypeID: flavorType, ValueID: flavorOriginal},
		{TypeID: sizeType, ValueID: sizeM},
	})
	require.NoError(t, err)
	assert.Equal(t, variant.PhaseAllDimensionsSelected, opts.Phase)
	require.NotNil(t, opts.Resolution)
	assert.Equal(t, int64(501), opts.Resolution.Record.ID)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Resolutions.WithLabelValues("confident")))

	_, err = svc.Options(ctx, soda, branchA, []variant.Choice{{TypeID: 77, ValueID: 1}})
	assert.ErrorIs(t, err, variant.ErrUnknownDimension)

	_, err = svc.Options(ctx, soda, branchA, []variant.Choice{{TypeID: flavorType, ValueID: flavorLemon}})
	assert.ErrorIs(t, err, variant.ErrDimensionLocked)
}

func TestService_AggregateSummary(t *testing.T) {
	svc, _ := newService(t, inventory.NewRepository(seedDB(t)))

	result, err := svc.Aggregate(context.Background(), branchA, nil, variant.ModeSummary)
	require.NoError(t, err)

	assert.Equal(t, variant.ModeSummary, result.Mode)
	require.Len(t, result.Rows, 2)

	sodaRow := result.Rows[0]
	assert.Equal(t, soda, sodaRow.ProductID)
	assert.Equal(t, 7, sodaRow.StockQuantity)
	assert.Equal(t, 1, sodaRow.ReservedQuantity)
	assert.Equal(t, 6, sodaRow.AvailableQuantity)
	assert.Equal(t, int64(501), sodaRow.RepresentativeID)
	assert.Equal(t, 2, sodaRow.Variants)

	bundleRow := result.Rows[1]
	assert.Equal(t, bundle, bundleRow.ProductID)
	assert.Equal(t, 5, bundleRow.StockQuantity)
	assert.Equal(t, variant.DefaultLabel, bundleRow.Label)
	assert.Empty(t, result.Unenriched)
}

func TestService_AggregateDetail(t *testing.T) {
	svc, _ := newService(t, inventory.NewRepository(seedDB(t)))

	result, err := svc.Aggregate(context.Background(), branchA, ptr(soda), variant.ModeDetail)
	require.NoError(t, err)

	require.Len(t, result.Rows, 2)
	assert.Equal(t, "Size: M / Flavor: Original", result.Rows[0].Label)
	assert.Equal(t, 4, result.Rows[0].StockQuantity)
	assert.Equal(t, "Size: M / Flavor: Lemon", result.Rows[1].Label)
	assert.Equal(t, 2, result.Rows[1].AvailableQuantity)
}

func TestService_AggregateToleratesEnrichmentFailures(t *testing.T) {
	backend := &flakyBackend{
		Backend:        inventory.NewRepository(seedDB(t)),
		assignmentsErr: errors.New("timeout"),
		failProduct:    soda,
	}
	svc, _ := newService(t, backend)

	result, err := svc.Aggregate(context.Background(), branchA, nil, variant.ModeSummary)
	require.NoError(t, err)

	assert.Equal(t, []int64{soda}, result.Unenriched)
	require.Len(t, result.Rows, 2)
	assert.Equal(t, "Flavor: Original", result.Rows[0].Label, "labeled from the record's own pair")
}

func TestService_AggregateErrors(t *testing.T) {
	boom := errors.New("down")
	backend := &flakyBackend{Backend: inventory.NewRepository(seedDB(t)), recordsErr: boom}
	svc, _ := newService(t, backend)

	_, err := svc.Aggregate(context.Background(), branchA, nil, variant.Mode("pivot"))
	assert.ErrorIs(t, err, variant.ErrUnknownMode)

	_, err = svc.Aggregate(context.Background(), branchA, nil, variant.ModeSummary)
	assert.ErrorIs(t, err, boom)
}
