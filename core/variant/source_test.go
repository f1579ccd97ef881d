package variant

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type categoryFunc func(ctx context.Context, categoryID int64) ([]CategoryAttributeLink, error)

func (f categoryFunc) ListAttributeTypesForCategory(ctx context.Context, categoryID int64) ([]CategoryAttributeLink, error) {
	return f(ctx, categoryID)
}

type assignmentFunc func(ctx context.Context, productID int64) ([]ProductAttributeAssignment, error)

func (f assignmentFunc) ListAssignments(ctx context.Context, productID int64) ([]ProductAttributeAssignment, error) {
	return f(ctx, productID)
}

type recordFunc func(ctx context.Context, branchID int64, productID *int64) ([]InventoryRecord, error)

func (f recordFunc) ListRecords(ctx context.Context, branchID int64, productID *int64) ([]InventoryRecord, error) {
	return f(ctx, branchID, productID)
}

func beverageSources() Sources {
	return Sources{
		Categories: categoryFunc(func(_ context.Context, _ int64) ([]CategoryAttributeLink, error) {
			return beverageLinks(), nil
		}),
		Assignments: assignmentFunc(func(_ context.Context, productID int64) ([]ProductAttributeAssignment, error) {
			return []ProductAttributeAssignment{assign(productID, sizeID, sizeM)}, nil
		}),
		Records: recordFunc(func(_ context.Context, branchID int64, productID *int64) ([]InventoryRecord, error) {
			return []InventoryRecord{flavorRecord(501, *productID, branchID, flavorOriginal, 4)}, nil
		}),
	}
}

func TestSources_Fetch(t *testing.T) {
	fetched := beverageSources().Fetch(context.Background(), 1, productP, branchB)

	assert.Empty(t, fetched.Errors)
	assert.Empty(t, fetched.Degraded())
	assert.Len(t, fetched.Links, 2)
	assert.Len(t, fetched.Assignments, 1)
	require.Len(t, fetched.Records, 1)
	assert.Equal(t, branchB, fetched.Records[0].BranchID)

	schema := Reconcile(fetched.Input(1, productP))
	assert.Len(t, schema.Dimensions, 2)
	assert.Empty(t, schema.Degraded)
}

func TestSources_FetchDegradesOnFailure(t *testing.T) {
	boom := errors.New("assignment service down")
	sources := beverageSources()
	sources.Assignments = assignmentFunc(func(context.Context, int64) ([]ProductAttributeAssignment, error) {
		return nil, boom
	})
	sources.Records = nil

	fetched := sources.Fetch(context.Background(), 1, productP, branchB)

	assert.ErrorIs(t, fetched.Errors[SourceProductAssignments], boom)
	assert.ErrorIs(t, fetched.Errors[SourceInventoryRecords], ErrSourceUnavailable)
	assert.Equal(t, []string{SourceInventoryRecords, SourceProductAssignments}, fetched.Degraded())
	assert.Len(t, fetched.Links, 2, "category links still load")

	schema := Reconcile(fetched.Input(1, productP))
	require.Len(t, schema.Dimensions, 2)
	assert.Equal(t, SourceCatalog, schema.Dimensions[0].Source)
	assert.Equal(t, []string{SourceInventoryRecords, SourceProductAssignments}, schema.Degraded)
}

func TestSources_FetchRunsConcurrently(t *testing.T) {
	var wg sync.WaitGroup
	wg.Add(3)
	barrier := func() {
		wg.Done()
		wg.Wait()
	}
	sources := Sources{
		Categories: categoryFunc(func(context.Context, int64) ([]CategoryAttributeLink, error) {
			barrier()
			return nil, nil
		}),
		Assignments: assignmentFunc(func(context.Context, int64) ([]ProductAttributeAssignment, error) {
			barrier()
			return nil, nil
		}),
		Records: recordFunc(func(context.Context, int64, *int64) ([]InventoryRecord, error) {
			barrier()
			return nil, nil
		}),
	}

	done := make(chan Fetched, 1)
	go func() { done <- sources.Fetch(context.Background(), 1, productP, 0) }()

	select {
	case fetched := <-done:
		assert.Empty(t, fetched.Errors)
	case <-time.After(2 * time.Second):
		t.Fatal("fetches did not run concurrently")
	}
}

func TestEnricher_BatchesAndCollectsFailures(t *testing.T) {
	var inFlight, peak atomic.Int32
	boom := errors.New("timeout")
	source := assignmentFunc(func(_ context.Context, productID int64) ([]ProductAttributeAssignment, error) {
		n := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		if productID == 4 {
			return nil, boom
		}
		return []ProductAttributeAssignment{assign(productID, sizeID, sizeM)}, nil
	})

	result, err := NewEnricher(source, 3).Enrich(context.Background(), []int64{7, 1, 2, 3, 4, 5, 6, 1})

	require.NoError(t, err)
	assert.LessOrEqual(t, peak.Load(), int32(3))
	assert.Equal(t, map[int64]error{4: boom}, result.Failed)
	require.Len(t, result.Assignments, 6)
	for i, want := range []int64{1, 2, 3, 5, 6, 7} {
		assert.Equal(t, want, result.Assignments[i].ProductID)
	}
}

func TestEnricher_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	source := assignmentFunc(func(context.Context, int64) ([]ProductAttributeAssignment, error) {
		return nil, nil
	})

	_, err := NewEnricher(source, 0).Enrich(ctx, []int64{1, 2})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestProductIDs(t *testing.T) {
	records := []InventoryRecord{{ProductID: 3}, {ProductID: 1}, {ProductID: 3}}
	assert.Equal(t, []int64{1, 3}, ProductIDs(records))
	assert.Empty(t, ProductIDs(nil))
}
