package variant

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
)

// DefaultBatchSize bounds the concurrent assignment fetches of an Enricher.
const DefaultBatchSize = 10

// Enricher fetches attribute assignments for many products, a bounded batch
// at a time, so that labeling a large inventory list does not flood the
// upstream service.
type Enricher struct {
	source    ProductAttributeSource
	batchSize int
}

// NewEnricher creates an Enricher. A non-positive batchSize uses DefaultBatchSize.
func NewEnricher(source ProductAttributeSource, batchSize int) *Enricher {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Enricher{source: source, batchSize: batchSize}
}

// Enrichment is the result of a batch enrichment.
type Enrichment struct {
	// Assignments for every product that could be fetched, grouped by
	// product in ascending product order.
	Assignments []ProductAttributeAssignment

	// Failed maps products whose fetch failed to the error. Their records
	// stay labeled from their own embedded pair only.
	Failed map[int64]error
}

// Enrich fetches assignments for the distinct product IDs. Individual
// failures are collected in Failed; only context cancellation aborts.
func (e *Enricher) Enrich(ctx context.Context, productIDs []int64) (*Enrichment, error) {
	ids := distinctSorted(productIDs)
	fetched := make(map[int64][]ProductAttributeAssignment, len(ids))
	result := &Enrichment{Failed: make(map[int64]error)}
	var mu sync.Mutex

	for start := 0; start < len(ids); start += e.batchSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		end := start + e.batchSize
		if end > len(ids) {
			end = len(ids)
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(e.batchSize)
		for _, id := range ids[start:end] {
			g.Go(func() error {
				assignments, err := e.source.ListAssignments(gctx, id)
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					result.Failed[id] = err
					return nil
				}
				fetched[id] = assignments
				return nil
			})
		}
		_ = g.Wait()
	}

	for _, id := range ids {
		result.Assignments = append(result.Assignments, fetched[id]...)
	}
	return result, nil
}

// ProductIDs returns the distinct product IDs of records, ascending.
func ProductIDs(records []InventoryRecord) []int64 {
	ids := make([]int64, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.ProductID)
	}
	return distinctSorted(ids)
}

func distinctSorted(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
