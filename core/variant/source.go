package variant

import (
	"context"
	"sort"
	"sync"
)

// Upstream source names, as reported in Schema.Degraded.
const (
	SourceCategoryAttributes = "category_attributes"
	SourceProductAssignments = "product_assignments"
	SourceInventoryRecords   = "inventory_records"

	// SourceProducts is the product catalog lookup resolving a product's category.
	SourceProducts = "products"
)

// CategoryAttributeSource lists the attribute types linked to a category, ordered.
type CategoryAttributeSource interface {
	ListAttributeTypesForCategory(ctx context.Context, categoryID int64) ([]CategoryAttributeLink, error)
}

// ProductAttributeSource lists a product's attribute assignments.
type ProductAttributeSource interface {
	ListAssignments(ctx context.Context, productID int64) ([]ProductAttributeAssignment, error)
}

// InventoryRecordSource lists inventory records of a branch, optionally for
// one product. A zero branchID lists every branch.
type InventoryRecordSource interface {
	ListRecords(ctx context.Context, branchID int64, productID *int64) ([]InventoryRecord, error)
}

// Sources bundles the three upstream datasets.
type Sources struct {
	Categories  CategoryAttributeSource
	Assignments ProductAttributeSource
	Records     InventoryRecordSource
}

// Fetched holds whatever the upstream fetches returned.
type Fetched struct {
	Links       []CategoryAttributeLink
	Assignments []ProductAttributeAssignment
	Records     []InventoryRecord

	// Errors maps a source name to its failure.
	Errors map[string]error
}

// Degraded lists the failed sources, sorted.
func (f Fetched) Degraded() []string {
	out := make([]string, 0, len(f.Errors))
	for name := range f.Errors {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Input converts the fetch result into reconciliation input.
func (f Fetched) Input(categoryID, productID int64) Input {
	return Input{
		CategoryID:  categoryID,
		ProductID:   productID,
		Links:       f.Links,
		Assignments: f.Assignments,
		Records:     f.Records,
		Degraded:    f.Degraded(),
	}
}

// Fetch loads the three datasets for one product concurrently and joins
// them. A failing or missing source is recorded in Errors and leaves its
// dataset empty; the other fetches are unaffected. branchID scopes the
// inventory records; zero fetches every branch.
func (s Sources) Fetch(ctx context.Context, categoryID, productID, branchID int64) Fetched {
	var (
		out Fetched
		mu  sync.Mutex
		wg  sync.WaitGroup
	)
	out.Errors = make(map[string]error)
	fail := func(name string, err error) {
		mu.Lock()
		out.Errors[name] = err
		mu.Unlock()
	}

	wg.Add(3)

	go func() {
		defer wg.Done()
		if s.Categories == nil {
			fail(SourceCategoryAttributes, ErrSourceUnavailable)
			return
		}
		links, err := s.Categories.ListAttributeTypesForCategory(ctx, categoryID)
		if err != nil {
			fail(SourceCategoryAttributes, err)
			return
		}
		out.Links = links
	}()

	go func() {
		defer wg.Done()
		if s.Assignments == nil {
			fail(SourceProductAssignments, ErrSourceUnavailable)
			return
		}
		assignments, err := s.Assignments.ListAssignments(ctx, productID)
		if err != nil {
			fail(SourceProductAssignments, err)
			return
		}
		out.Assignments = assignments
	}()

	go func() {
		defer wg.Done()
		if s.Records == nil {
			fail(SourceInventoryRecords, ErrSourceUnavailable)
			return
		}
		pid := productID
		records, err := s.Records.ListRecords(ctx, branchID, &pid)
		if err != nil {
			fail(SourceInventoryRecords, err)
			return
		}
		out.Records = records
	}()

	wg.Wait()
	return out
}
