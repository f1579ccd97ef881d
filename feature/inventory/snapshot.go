package inventory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"inventory-manager/core/storage"
	"inventory-manager/core/utils"
	"inventory-manager/core/variant"
)

// SnapshotProduct is the product row of a snapshot.
type SnapshotProduct struct {
	ID         int64 `json:"id"`
	CategoryID int64 `json:"category_id"`
}

// Snapshot is the JSON export of the three inventory datasets.
type Snapshot struct {
	GeneratedAt time.Time                            `json:"generated_at"`
	Products    []SnapshotProduct                    `json:"products"`
	Links       []variant.CategoryAttributeLink      `json:"links"`
	Assignments []variant.ProductAttributeAssignment `json:"assignments"`
	Records     []variant.InventoryRecord            `json:"records"`
}

// rawSnapshot tolerates hand-edited and legacy exports: identifiers may be
// strings and record tags may be flat attribute_* columns.
type rawSnapshot struct {
	GeneratedAt time.Time                       `json:"generated_at"`
	Products    []map[string]any                `json:"products"`
	Links       []variant.CategoryAttributeLink `json:"links"`
	Assignments []map[string]any                `json:"assignments"`
	Records     []map[string]any                `json:"records"`
}

func (raw rawSnapshot) decode() *Snapshot {
	s := &Snapshot{GeneratedAt: raw.GeneratedAt, Links: raw.Links}
	for _, p := range raw.Products {
		s.Products = append(s.Products, SnapshotProduct{
			ID:         utils.ToInt64(p["id"]),
			CategoryID: utils.ToInt64(p["category_id"]),
		})
	}
	for _, a := range raw.Assignments {
		s.Assignments = append(s.Assignments, variant.ProductAttributeAssignment{
			ProductID:          utils.ToInt64(a["product_id"]),
			AttributeTypeID:    utils.ToInt64(a["attribute_type_id"]),
			AttributeTypeName:  utils.ToString(a["attribute_type_name"]),
			AttributeValueID:   utils.ToInt64(a["attribute_value_id"]),
			AttributeValueName: utils.ToString(a["attribute_value_name"]),
		})
	}
	for _, r := range raw.Records {
		s.Records = append(s.Records, decodeRecord(r))
	}
	return s
}

func decodeRecord(r map[string]any) variant.InventoryRecord {
	rec := variant.InventoryRecord{
		ID:               utils.ToInt64(r["id"]),
		ProductID:        utils.ToInt64(r["product_id"]),
		BranchID:         utils.ToInt64(r["branch_id"]),
		StockQuantity:    utils.ToInt(r["stock_quantity"]),
		ReservedQuantity: utils.ToInt(r["reserved_quantity"]),
		SafetyStock:      utils.ToInt(r["safety_stock"]),
		Price:            utils.ToFloat64(r["price"]),
	}

	tag := variant.AttributeTag{}
	if nested, ok := r["attribute"].(map[string]any); ok {
		tag.TypeID = utils.ToInt64(nested["type_id"])
		tag.TypeName = utils.ToString(nested["type_name"])
		tag.ValueID = utils.ToInt64(nested["value_id"])
		tag.ValueName = utils.ToString(nested["value_name"])
	} else {
		tag.TypeID = utils.ToInt64(r["attribute_type_id"])
		tag.TypeName = utils.ToString(r["attribute_type_name"])
		tag.ValueID = utils.ToInt64(r["attribute_value_id"])
		tag.ValueName = utils.ToString(r["attribute_value_name"])
	}
	if tag != (variant.AttributeTag{}) {
		rec.Attribute = &tag
	}
	return rec
}

// SnapshotStore serves the datasets from a JSON snapshot in object storage.
// The snapshot is loaded on first use and replaced by Refresh.
type SnapshotStore struct {
	client storage.Client
	bucket string
	object string

	mu       sync.RWMutex
	snapshot *Snapshot
}

// NewSnapshotStore creates a store reading bucket/object.
func NewSnapshotStore(client storage.Client, bucket, object string) *SnapshotStore {
	return &SnapshotStore{client: client, bucket: bucket, object: object}
}

// Refresh reloads the snapshot from object storage.
func (s *SnapshotStore) Refresh(ctx context.Context) (*Snapshot, error) {
	var raw rawSnapshot
	if err := storage.ReadJSON(ctx, s.client, s.bucket, s.object, &raw); err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	snap := raw.decode()

	s.mu.Lock()
	s.snapshot = snap
	s.mu.Unlock()
	return snap, nil
}

func (s *SnapshotStore) current(ctx context.Context) (*Snapshot, error) {
	s.mu.RLock()
	snap := s.snapshot
	s.mu.RUnlock()
	if snap != nil {
		return snap, nil
	}
	return s.Refresh(ctx)
}

// CategoryOf returns the category of a product.
func (s *SnapshotStore) CategoryOf(ctx context.Context, productID int64) (int64, error) {
	snap, err := s.current(ctx)
	if err != nil {
		return 0, err
	}
	for _, p := range snap.Products {
		if p.ID == productID {
			return p.CategoryID, nil
		}
	}
	return 0, fmt.Errorf("%w: %d", ErrProductNotFound, productID)
}

// ListAttributeTypesForCategory returns the category's links ordered by display order.
func (s *SnapshotStore) ListAttributeTypesForCategory(ctx context.Context, categoryID int64) ([]variant.CategoryAttributeLink, error) {
	snap, err := s.current(ctx)
	if err != nil {
		return nil, err
	}
	out := []variant.CategoryAttributeLink{}
	for _, l := range snap.Links {
		if l.CategoryID == categoryID {
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DisplayOrder < out[j].DisplayOrder })
	return out, nil
}

// ListAssignments returns the assignments of a product.
func (s *SnapshotStore) ListAssignments(ctx context.Context, productID int64) ([]variant.ProductAttributeAssignment, error) {
	snap, err := s.current(ctx)
	if err != nil {
		return nil, err
	}
	out := []variant.ProductAttributeAssignment{}
	for _, a := range snap.Assignments {
		if a.ProductID == productID {
			out = append(out, a)
		}
	}
	return out, nil
}

// ListRecords returns the records of a branch, optionally for one product.
// A zero branchID lists every branch.
func (s *SnapshotStore) ListRecords(ctx context.Context, branchID int64, productID *int64) ([]variant.InventoryRecord, error) {
	snap, err := s.current(ctx)
	if err != nil {
		return nil, err
	}
	out := []variant.InventoryRecord{}
	for _, r := range snap.Records {
		if branchID != 0 && r.BranchID != branchID {
			continue
		}
		if productID != nil && r.ProductID != *productID {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// BuildSnapshot reads every dataset from the repository.
func BuildSnapshot(ctx context.Context, repo *Repository, now time.Time) (*Snapshot, error) {
	products, err := repo.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	assignments, err := repo.ListAllAssignments(ctx)
	if err != nil {
		return nil, err
	}
	records, err := repo.ListRecords(ctx, 0, nil)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		GeneratedAt: now.UTC(),
		Products:    make([]SnapshotProduct, 0, len(products)),
		Links:       []variant.CategoryAttributeLink{},
		Assignments: assignments,
		Records:     records,
	}
	seen := make(map[int64]struct{})
	for _, p := range products {
		snap.Products = append(snap.Products, SnapshotProduct{ID: p.ID, CategoryID: p.CategoryID})
		if _, ok := seen[p.CategoryID]; ok {
			continue
		}
		seen[p.CategoryID] = struct{}{}
		links, err := repo.ListAttributeTypesForCategory(ctx, p.CategoryID)
		if err != nil {
			return nil, err
		}
		snap.Links = append(snap.Links, links...)
	}
	return snap, nil
}

// ExportSnapshot builds a snapshot from the repository and uploads it.
func ExportSnapshot(ctx context.Context, repo *Repository, client storage.Client, bucket, object string) (*Snapshot, error) {
	snap, err := BuildSnapshot(ctx, repo, time.Now())
	if err != nil {
		return nil, err
	}
	if _, err := storage.WriteJSON(ctx, client, bucket, object, snap); err != nil {
		return nil, err
	}
	return snap, nil
}
