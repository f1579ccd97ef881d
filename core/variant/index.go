package variant

import "sort"

// Combination is one known attribute-value combination, one value ID per
// schema dimension in schema order.
type Combination []int64

// Index joins assignments and inventory records against a schema. It is
// built once per batch so that resolution, option listing and aggregation
// never rescan the raw collections. An Index is read-only after
// construction and safe for concurrent use.
type Index struct {
	schema   *SchemaIndex
	assigned map[productTypeKey][]int64
	groups   map[groupKey][]InventoryRecord
	products map[int64][]InventoryRecord
}

// NewIndex builds the join index for one batch of raw rows.
func NewIndex(schema *SchemaIndex, assignments []ProductAttributeAssignment, records []InventoryRecord) *Index {
	if schema == nil {
		schema = NewSchemaIndex(nil)
	}
	idx := &Index{
		schema:   schema,
		assigned: make(map[productTypeKey][]int64),
		groups:   make(map[groupKey][]InventoryRecord),
		products: make(map[int64][]InventoryRecord),
	}

	for _, a := range assignments {
		k, pos, ok := schema.resolve(a.AttributeTypeID, a.AttributeTypeName)
		if !ok {
			continue
		}
		id := schema.ValueIDOf(pos, a.AttributeValueID, a.AttributeValueName)
		if id == 0 {
			continue
		}
		key := productTypeKey{ProductID: a.ProductID, Type: k}
		if !containsID(idx.assigned[key], id) {
			idx.assigned[key] = append(idx.assigned[key], id)
		}
	}

	sorted := append([]InventoryRecord(nil), records...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })
	for _, r := range sorted {
		g := groupKey{ProductID: r.ProductID, BranchID: r.BranchID}
		idx.groups[g] = append(idx.groups[g], r)
		idx.products[r.ProductID] = append(idx.products[r.ProductID], r)
	}
	return idx
}

// Schema returns the schema the index was built against.
func (x *Index) Schema() *SchemaIndex {
	return x.schema
}

// Records returns the records of one (product, branch) group, ascending by ID.
func (x *Index) Records(productID, branchID int64) []InventoryRecord {
	return x.groups[groupKey{ProductID: productID, BranchID: branchID}]
}

// Assigned returns the value IDs assigned to the product on dimension pos.
func (x *Index) Assigned(productID int64, pos int) []int64 {
	if pos < 0 || pos >= x.schema.Len() {
		return nil
	}
	return x.assigned[productTypeKey{ProductID: productID, Type: x.schema.keyAt(pos)}]
}

// taggedValue returns the schema position and canonical value ID of the
// record's embedded attribute pair.
func (x *Index) taggedValue(r InventoryRecord) (int, int64, bool) {
	if !r.Tagged() {
		return 0, 0, false
	}
	_, pos, ok := x.schema.resolve(r.Attribute.TypeID, r.Attribute.TypeName)
	if !ok {
		return 0, 0, false
	}
	id := x.schema.ValueIDOf(pos, r.Attribute.ValueID, r.Attribute.ValueName)
	if id == 0 {
		return 0, 0, false
	}
	return pos, id, true
}

// discriminatingValue returns the record's value on the discriminating dimension.
func (x *Index) discriminatingValue(r InventoryRecord) (int64, bool) {
	disc, ok := x.schema.Discriminating()
	if !ok {
		return 0, false
	}
	pos, id, ok := x.taggedValue(r)
	if !ok || pos != disc {
		return 0, false
	}
	return id, true
}

// Combinations returns the known value combinations for a product across all
// branches: the product's assignments crossed with each other, and its
// first-dimension assignments crossed with the discriminating values found
// on its records. Only fully determined combinations are returned.
func (x *Index) Combinations(productID int64) []Combination {
	n := x.schema.Len()
	if n == 0 {
		return nil
	}

	var out []Combination
	seen := make(map[[MaxDimensions]int64]struct{})
	add := func(c Combination) {
		var k [MaxDimensions]int64
		copy(k[:], c)
		if _, dup := seen[k]; dup {
			return
		}
		seen[k] = struct{}{}
		out = append(out, c)
	}

	if n == 1 {
		for _, v := range x.Assigned(productID, 0) {
			add(Combination{v})
		}
		for _, r := range x.products[productID] {
			if v, ok := x.discriminatingValue(r); ok {
				add(Combination{v})
			}
		}
		return out
	}

	firsts := x.Assigned(productID, 0)
	for _, v0 := range firsts {
		for _, v1 := range x.Assigned(productID, 1) {
			add(Combination{v0, v1})
		}
		for _, r := range x.products[productID] {
			if v1, ok := x.discriminatingValue(r); ok {
				add(Combination{v0, v1})
			}
		}
	}
	return out
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
