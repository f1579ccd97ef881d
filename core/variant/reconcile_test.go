package variant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcile_BeverageCategory(t *testing.T) {
	schema, _ := beverage(
		[]ProductAttributeAssignment{assign(productP, sizeID, sizeM), assign(productP, flavorID, flavorOriginal)},
		[]InventoryRecord{flavorRecord(501, productP, branchB, flavorOriginal, 4)},
	)

	require.Len(t, schema.Dimensions, 2)

	size := schema.Dimensions[0]
	assert.Equal(t, sizeID, size.Type.ID)
	assert.Equal(t, "Size", size.Type.Name)
	assert.True(t, size.Required)
	assert.Equal(t, SourceAssignments, size.Source)
	assert.Equal(t, []int64{sizeM}, valueIDs(size.Values))
	assert.Equal(t, "M", size.Values[0].DisplayName)

	flavor := schema.Dimensions[1]
	assert.Equal(t, flavorID, flavor.Type.ID)
	assert.Equal(t, SourceRecords, flavor.Source)
	assert.Equal(t, []int64{flavorOriginal}, valueIDs(flavor.Values))
	assert.NotEmpty(t, schema.Version)
}

func TestReconcile_ValuePrecedence(t *testing.T) {
	tests := []struct {
		name        string
		assignments []ProductAttributeAssignment
		records     []InventoryRecord
		wantSource  ValueSource
		wantValues  []int64
	}{
		{
			name:        "records win over assignments",
			assignments: []ProductAttributeAssignment{assign(productP, flavorID, flavorLemon)},
			records: []InventoryRecord{
				flavorRecord(2, productP, branchB, flavorOriginal, 1),
				flavorRecord(1, productP, branchB, flavorLemon, 1),
			},
			wantSource: SourceRecords,
			wantValues: []int64{flavorLemon, flavorOriginal},
		},
		{
			name:        "assignments when no record is tagged",
			assignments: []ProductAttributeAssignment{assign(productP, flavorID, flavorOriginal)},
			records:     []InventoryRecord{{ID: 1, ProductID: productP, BranchID: branchB}},
			wantSource:  SourceAssignments,
			wantValues:  []int64{flavorOriginal},
		},
		{
			name:       "catalog when nothing is known",
			wantSource: SourceCatalog,
			wantValues: []int64{flavorLemon, flavorOriginal},
		},
		{
			name:        "rows of other products are ignored",
			assignments: []ProductAttributeAssignment{assign(999, flavorID, flavorLemon)},
			records:     []InventoryRecord{flavorRecord(1, 999, branchB, flavorLemon, 1)},
			wantSource:  SourceCatalog,
			wantValues:  []int64{flavorLemon, flavorOriginal},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schema := Reconcile(Input{
				ProductID:   productP,
				Links:       []CategoryAttributeLink{{Type: flavorType(), DisplayOrder: 0}},
				Assignments: tt.assignments,
				Records:     tt.records,
			})
			require.Len(t, schema.Dimensions, 1)
			assert.Equal(t, tt.wantSource, schema.Dimensions[0].Source)
			assert.Equal(t, tt.wantValues, valueIDs(schema.Dimensions[0].Values))
		})
	}
}

func TestReconcile_CatalogSkipsInactiveValues(t *testing.T) {
	typ := sizeType()
	typ.Values[2].Active = false

	schema := Reconcile(Input{
		ProductID: productP,
		Links:     []CategoryAttributeLink{{Type: typ}},
	})

	require.Len(t, schema.Dimensions, 1)
	assert.Equal(t, []int64{sizeS, sizeM}, valueIDs(schema.Dimensions[0].Values))
}

func TestReconcile_OrdersAndTruncatesLinks(t *testing.T) {
	color := AttributeType{ID: colorID, Name: "Color", Values: []AttributeValue{{ID: 31, DisplayName: "Red", Active: true}}}
	links := []CategoryAttributeLink{
		{Type: color, DisplayOrder: 5},
		{Type: flavorType(), DisplayOrder: 2},
		{Type: sizeType(), DisplayOrder: 1},
		{Type: sizeType(), DisplayOrder: 3},
	}

	schema := Reconcile(Input{ProductID: productP, Links: links})

	require.Len(t, schema.Dimensions, MaxDimensions)
	assert.Equal(t, sizeID, schema.Dimensions[0].Type.ID)
	assert.Equal(t, flavorID, schema.Dimensions[1].Type.ID)
	assert.Equal(t, 1, schema.Dimensions[0].DisplayOrder)
	assert.Equal(t, 2, schema.Dimensions[1].DisplayOrder)
}

func TestReconcile_SynthesizesFromRecordTags(t *testing.T) {
	records := []InventoryRecord{
		flavorRecord(1, productP, branchB, flavorLemon, 3),
		flavorRecord(2, productP, branchB, flavorOriginal, 5),
	}

	schema := Reconcile(Input{ProductID: productP, Records: records})

	require.Len(t, schema.Dimensions, 1)
	dim := schema.Dimensions[0]
	assert.True(t, dim.Synthesized)
	assert.Equal(t, flavorID, dim.Type.ID)
	assert.Equal(t, SourceRecords, dim.Source)
	assert.Equal(t, []int64{flavorLemon, flavorOriginal}, valueIDs(dim.Values))
}

func TestReconcile_SynthesizesLegacyNameOnlyTags(t *testing.T) {
	records := []InventoryRecord{
		{ID: 1, ProductID: productP, Attribute: &AttributeTag{TypeName: "Flavor", ValueName: "Lemon"}},
		{ID: 2, ProductID: productP, Attribute: &AttributeTag{TypeID: flavorID, TypeName: " flavor ", ValueID: flavorOriginal, ValueName: "Original"}},
	}
	assignments := []ProductAttributeAssignment{
		{ProductID: productP, AttributeTypeName: "Size", AttributeValueName: "M"},
	}

	schema := Reconcile(Input{ProductID: productP, Records: records, Assignments: assignments})

	require.Len(t, schema.Dimensions, 2)
	assert.Equal(t, "Size", schema.Dimensions[0].Type.Name)
	assert.Equal(t, SourceAssignments, schema.Dimensions[0].Source)

	flavor := schema.Dimensions[1]
	assert.Equal(t, flavorID, flavor.Type.ID, "name-only tag must merge with the identified type")
	require.Len(t, flavor.Values, 2)
	assert.Equal(t, "Lemon", flavor.Values[0].DisplayName)
	assert.Equal(t, flavorOriginal, flavor.Values[1].ID)
}

func TestReconcile_EmptyWhenNoAttributeData(t *testing.T) {
	schema := Reconcile(Input{
		ProductID: productP,
		Records:   []InventoryRecord{{ID: 1, ProductID: productP, BranchID: branchB, StockQuantity: 3}},
		Degraded:  []string{SourceCategoryAttributes},
	})

	assert.True(t, schema.IsEmpty())
	assert.NotNil(t, schema.Dimensions)
	assert.Equal(t, []string{SourceCategoryAttributes}, schema.Degraded)
}

func TestReconcile_VersionTracksValues(t *testing.T) {
	a, _ := beverage(nil, []InventoryRecord{flavorRecord(1, productP, branchB, flavorLemon, 1)})
	b, _ := beverage(nil, []InventoryRecord{flavorRecord(1, productP, branchB, flavorLemon, 9)})
	c, _ := beverage(nil, []InventoryRecord{flavorRecord(1, productP, branchB, flavorOriginal, 1)})

	assert.Equal(t, a.Version, b.Version, "stock changes do not change the schema")
	assert.NotEqual(t, a.Version, c.Version)
}

func TestSchemaIndex_Positions(t *testing.T) {
	schema, _ := beverage([]ProductAttributeAssignment{assign(productP, sizeID, sizeM)}, nil)
	idx := NewSchemaIndex(schema)

	assert.Equal(t, 2, idx.Len())

	pos, ok := idx.Position(flavorID)
	assert.True(t, ok)
	assert.Equal(t, 1, pos)

	pos, ok = idx.PositionOf(0, "SIZE")
	assert.True(t, ok)
	assert.Equal(t, 0, pos)

	_, ok = idx.Position(colorID)
	assert.False(t, ok)

	disc, ok := idx.Discriminating()
	assert.True(t, ok)
	assert.Equal(t, 1, disc)

	assert.Equal(t, flavorLemon, idx.ValueIDOf(1, 0, "lemon"))
	assert.Equal(t, "Original", idx.ValueName(1, flavorOriginal))

	_, ok = NewSchemaIndex(nil).Discriminating()
	assert.False(t, ok)
}
