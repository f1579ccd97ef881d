package checks

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"inventory-manager/core/variant"

	"golang.org/x/sync/errgroup"
)

// Issue kinds reported by CheckBranchData.
const (
	IssueUntaggedRecord         = "untagged_record"
	IssueMisTaggedRecord        = "mis_tagged_record"
	IssueMissingFirstAssignment = "missing_first_assignment"
	IssueLowConfidence          = "low_confidence"
	IssueUnknownProduct         = "unknown_product"
)

// Backend is the data the branch check reads.
type Backend interface {
	variant.CategoryAttributeSource
	variant.ProductAttributeSource
	variant.InventoryRecordSource
	CategoryOf(ctx context.Context, productID int64) (int64, error)
}

// Issue is one data problem that degrades variant resolution.
type Issue struct {
	Kind      string `json:"kind"`
	ProductID int64  `json:"product_id"`
	RecordID  int64  `json:"record_id,omitempty"`
	Detail    string `json:"detail"`
}

// DataReport is the result of a branch data check.
type DataReport struct {
	BranchID int64              `json:"branch_id"`
	Products int                `json:"products"`
	Records  int                `json:"records"`
	Status   string             `json:"status"` // "ok", "warning"
	Issues   []Issue            `json:"issues"`
	Degraded map[int64][]string `json:"degraded,omitempty"`
}

// CheckBranchData inspects every product stocked at a branch for rows that
// make resolution fall back to low confidence. Products are checked at most
// batchSize at a time.
func CheckBranchData(ctx context.Context, backend Backend, branchID int64, batchSize int) (*DataReport, error) {
	records, err := backend.ListRecords(ctx, branchID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list records of branch %d: %w", branchID, err)
	}
	if batchSize <= 0 {
		batchSize = variant.DefaultBatchSize
	}

	productIDs := variant.ProductIDs(records)
	report := &DataReport{
		BranchID: branchID,
		Products: len(productIDs),
		Records:  len(records),
		Status:   "ok",
		Issues:   []Issue{},
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batchSize)
	for _, id := range productIDs {
		g.Go(func() error {
			issues, degraded, err := checkProduct(gctx, backend, id, branchID)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			report.Issues = append(report.Issues, issues...)
			if len(degraded) > 0 {
				if report.Degraded == nil {
					report.Degraded = make(map[int64][]string)
				}
				report.Degraded[id] = degraded
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(report.Issues, func(i, j int) bool {
		a, b := report.Issues[i], report.Issues[j]
		if a.ProductID != b.ProductID {
			return a.ProductID < b.ProductID
		}
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		return a.RecordID < b.RecordID
	})
	if len(report.Issues) > 0 || len(report.Degraded) > 0 {
		report.Status = "warning"
	}
	return report, nil
}

func checkProduct(ctx context.Context, backend Backend, productID, branchID int64) ([]Issue, []string, error) {
	categoryID, err := backend.CategoryOf(ctx, productID)
	if err != nil {
		if ctx.Err() != nil {
			return nil, nil, ctx.Err()
		}
		return []Issue{{Kind: IssueUnknownProduct, ProductID: productID, Detail: err.Error()}}, nil, nil
	}

	sources := variant.Sources{Categories: backend, Assignments: backend, Records: backend}
	fetched := sources.Fetch(ctx, categoryID, productID, branchID)
	if ctx.Err() != nil {
		return nil, nil, ctx.Err()
	}

	schema := variant.Reconcile(fetched.Input(categoryID, productID))
	schemaIdx := variant.NewSchemaIndex(schema)
	idx := variant.NewIndex(schemaIdx, fetched.Assignments, fetched.Records)

	var issues []Issue
	disc, hasDisc := schemaIdx.Discriminating()

	if schemaIdx.Len() == variant.MaxDimensions && len(idx.Assigned(productID, 0)) == 0 {
		issues = append(issues, Issue{
			Kind:      IssueMissingFirstAssignment,
			ProductID: productID,
			Detail:    fmt.Sprintf("no %s assigned; records resolve by %s alone", schemaIdx.Dimension(0).Type.Name, schemaIdx.Dimension(disc).Type.Name),
		})
	}

	for _, r := range fetched.Records {
		if !hasDisc {
			break
		}
		if !r.Tagged() {
			if len(fetched.Records) > 1 {
				issues = append(issues, Issue{
					Kind:      IssueUntaggedRecord,
					ProductID: productID,
					RecordID:  r.ID,
					Detail:    "record carries no attribute pair",
				})
			}
			continue
		}
		pos, ok := schemaIdx.PositionOf(r.Attribute.TypeID, r.Attribute.TypeName)
		if !ok || pos != disc {
			issues = append(issues, Issue{
				Kind:      IssueMisTaggedRecord,
				ProductID: productID,
				RecordID:  r.ID,
				Detail:    fmt.Sprintf("tagged with %s, expected %s", tagName(r.Attribute), schemaIdx.Dimension(disc).Type.Name),
			})
		}
	}

	seen := make(map[int64]struct{})
	for _, combo := range idx.Combinations(productID) {
		sel := make(variant.Selection, len(combo))
		for i, v := range combo {
			sel[schemaIdx.Dimension(i).Type.ID] = v
		}
		res := variant.Resolve(idx, variant.Request{ProductID: productID, BranchID: branchID, Selection: sel})
		if !res.Found() || !res.LowConfidence {
			continue
		}
		if _, dup := seen[res.Record.ID]; dup {
			continue
		}
		seen[res.Record.ID] = struct{}{}
		issues = append(issues, Issue{
			Kind:      IssueLowConfidence,
			ProductID: productID,
			RecordID:  res.Record.ID,
			Detail:    string(res.Reason),
		})
	}

	return issues, schema.Degraded, nil
}

func tagName(t *variant.AttributeTag) string {
	if t.TypeName != "" {
		return t.TypeName
	}
	return fmt.Sprintf("type %d", t.TypeID)
}
