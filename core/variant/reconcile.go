package variant

import (
	"sort"
)

// Input bundles the raw datasets reconciled into one product's schema.
type Input struct {
	CategoryID int64
	ProductID  int64

	// Links are the category's attribute type links, in any order.
	Links []CategoryAttributeLink

	// Assignments for the product. Rows for other products are ignored.
	Assignments []ProductAttributeAssignment

	// Records for the product, branch-scoped or global. Rows for other
	// products are ignored.
	Records []InventoryRecord

	// Degraded names sources that failed upstream; copied to the schema.
	Degraded []string
}

// Reconcile merges category links, product assignments and record tags into
// the product's canonical schema. It never fails: missing data yields a
// reduced or empty schema.
func Reconcile(in Input) *Schema {
	records := productRecords(in.Records, in.ProductID)
	assignments := productAssignments(in.Assignments, in.ProductID)

	types := newTypeTable()
	var dims []Dimension
	if links := orderedLinks(in.Links, types); len(links) > 0 {
		dims = dimensionsFromLinks(links, types, assignments, records)
	} else {
		dims = synthesizeDimensions(types, assignments, records)
	}

	schema := &Schema{
		CategoryID: in.CategoryID,
		ProductID:  in.ProductID,
		Dimensions: dims,
		Degraded:   append([]string(nil), in.Degraded...),
	}
	if schema.Dimensions == nil {
		schema.Dimensions = []Dimension{}
	}
	assignSyntheticIDs(schema.Dimensions)
	schema.Version = fingerprint(schema.Dimensions)
	return schema
}

func productRecords(records []InventoryRecord, productID int64) []InventoryRecord {
	out := make([]InventoryRecord, 0, len(records))
	for _, r := range records {
		if r.ProductID == productID {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func productAssignments(assignments []ProductAttributeAssignment, productID int64) []ProductAttributeAssignment {
	out := make([]ProductAttributeAssignment, 0, len(assignments))
	for _, a := range assignments {
		if a.ProductID == productID {
			out = append(out, a)
		}
	}
	return out
}

// orderedLinks sorts links by per-category order, drops duplicate types and
// untyped links, interns the survivors and truncates to MaxDimensions.
func orderedLinks(links []CategoryAttributeLink, types *typeTable) []CategoryAttributeLink {
	sorted := append([]CategoryAttributeLink(nil), links...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].DisplayOrder != sorted[j].DisplayOrder {
			return sorted[i].DisplayOrder < sorted[j].DisplayOrder
		}
		if sorted[i].Type.DisplayOrder != sorted[j].Type.DisplayOrder {
			return sorted[i].Type.DisplayOrder < sorted[j].Type.DisplayOrder
		}
		return sorted[i].Type.ID < sorted[j].Type.ID
	})

	seen := make(map[TypeKey]struct{}, len(sorted))
	out := make([]CategoryAttributeLink, 0, MaxDimensions)
	for _, l := range sorted {
		k, ok := types.intern(l.Type.ID, l.Type.Name)
		if !ok {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, l)
		if len(out) == MaxDimensions {
			break
		}
	}
	return out
}

func dimensionsFromLinks(links []CategoryAttributeLink, types *typeTable, assignments []ProductAttributeAssignment, records []InventoryRecord) []Dimension {
	dims := make([]Dimension, 0, len(links))
	for _, l := range links {
		k, _ := types.lookup(l.Type.ID, l.Type.Name)
		catalog := catalogTable(l.Type)

		values, source := observedValues(k, types, catalog, assignments, records)
		if len(values) == 0 {
			values, source = activeCatalog(l.Type), SourceCatalog
		}

		dims = append(dims, Dimension{
			Type:         types.ref(k),
			Required:     l.Required,
			DisplayOrder: l.DisplayOrder,
			Values:       values,
			Source:       source,
		})
	}
	return dims
}

// observedValues applies the value-source precedence for one type:
// record tags first, then assignments. Catalog names fill in missing IDs.
func observedValues(k TypeKey, types *typeTable, catalog *valueTable, assignments []ProductAttributeAssignment, records []InventoryRecord) ([]AttributeValue, ValueSource) {
	fromRecords := newValueTable()
	for _, r := range records {
		if !r.Tagged() {
			continue
		}
		if tk, ok := types.lookup(r.Attribute.TypeID, r.Attribute.TypeName); !ok || tk != k {
			continue
		}
		fromRecords.add(canonicalValue(catalog, r.Attribute.ValueID, r.Attribute.ValueName))
	}
	if fromRecords.size() > 0 {
		return withTypeID(sortByCatalog(fromRecords.values, catalog), types.ref(k).ID), SourceRecords
	}

	fromAssignments := newValueTable()
	for _, a := range assignments {
		if tk, ok := types.lookup(a.AttributeTypeID, a.AttributeTypeName); !ok || tk != k {
			continue
		}
		fromAssignments.add(canonicalValue(catalog, a.AttributeValueID, a.AttributeValueName))
	}
	if fromAssignments.size() > 0 {
		return withTypeID(sortByCatalog(fromAssignments.values, catalog), types.ref(k).ID), SourceAssignments
	}
	return nil, ""
}

func catalogTable(t AttributeType) *valueTable {
	vt := newValueTable()
	for _, v := range t.Values {
		vt.add(v)
	}
	return vt
}

// canonicalValue completes a possibly partial value from the type catalog.
func canonicalValue(catalog *valueTable, id int64, name string) AttributeValue {
	if catalog != nil {
		if idx, ok := catalog.find(id, name); ok {
			return catalog.values[idx]
		}
	}
	return AttributeValue{ID: id, DisplayName: name, Active: true}
}

// sortByCatalog orders values by their catalog position; values unknown to
// the catalog keep first-seen order after the known ones.
func sortByCatalog(values []AttributeValue, catalog *valueTable) []AttributeValue {
	out := append([]AttributeValue(nil), values...)
	if catalog == nil || catalog.size() == 0 {
		return out
	}
	rank := func(v AttributeValue) int {
		if idx, ok := catalog.find(v.ID, v.DisplayName); ok {
			return idx
		}
		return catalog.size()
	}
	sort.SliceStable(out, func(i, j int) bool { return rank(out[i]) < rank(out[j]) })
	return out
}

func withTypeID(values []AttributeValue, typeID int64) []AttributeValue {
	if typeID <= 0 {
		return values
	}
	for i := range values {
		if values[i].AttributeTypeID == 0 {
			values[i].AttributeTypeID = typeID
		}
	}
	return values
}

func activeCatalog(t AttributeType) []AttributeValue {
	out := make([]AttributeValue, 0, len(t.Values))
	for _, v := range t.Values {
		if v.Active {
			out = append(out, v)
		}
	}
	return withTypeID(out, t.ID)
}

// assignSyntheticIDs gives name-only types and values a negative ID derived
// from their position, so selections can address them. Positive IDs are
// never rewritten.
func assignSyntheticIDs(dims []Dimension) {
	for i := range dims {
		d := &dims[i]
		if d.Type.ID == 0 {
			d.Type.ID = syntheticID(i)
		}
		for j := range d.Values {
			v := &d.Values[j]
			if v.ID == 0 {
				v.ID = syntheticID(j)
			}
			if v.AttributeTypeID == 0 {
				v.AttributeTypeID = d.Type.ID
			}
		}
	}
}

// synthesizeDimensions builds a schema from assignment and record tags when
// the category defines no links. Types seen on records are the
// discriminating dimension and are ordered last.
func synthesizeDimensions(types *typeTable, assignments []ProductAttributeAssignment, records []InventoryRecord) []Dimension {
	var assigned, tagged []TypeKey
	seen := make(map[TypeKey]bool)

	for _, r := range records {
		if !r.Tagged() {
			continue
		}
		k, ok := types.intern(r.Attribute.TypeID, r.Attribute.TypeName)
		if !ok {
			continue
		}
		if !seen[k] {
			seen[k] = true
			tagged = append(tagged, k)
		}
	}
	for _, a := range assignments {
		k, ok := types.intern(a.AttributeTypeID, a.AttributeTypeName)
		if !ok || seen[k] {
			continue
		}
		seen[k] = true
		assigned = append(assigned, k)
	}

	if len(tagged) > MaxDimensions {
		tagged = tagged[:MaxDimensions]
	}
	if room := MaxDimensions - len(tagged); len(assigned) > room {
		assigned = assigned[:room]
	}
	order := append(assigned, tagged...)

	dims := make([]Dimension, 0, len(order))
	for i, k := range order {
		values, source := observedValues(k, types, nil, assignments, records)
		if len(values) == 0 {
			continue
		}
		dims = append(dims, Dimension{
			Type:         types.ref(k),
			DisplayOrder: i,
			Values:       values,
			Source:       source,
			Synthesized:  true,
		})
	}
	return dims
}
