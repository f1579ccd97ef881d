package variant

const (
	sizeID   int64 = 1
	flavorID int64 = 2
	colorID  int64 = 3

	sizeS int64 = 11
	sizeM int64 = 12
	sizeL int64 = 13

	flavorLemon    int64 = 21
	flavorOriginal int64 = 22

	productP int64 = 100
	branchB  int64 = 7
)

func sizeType() AttributeType {
	return AttributeType{
		ID:   sizeID,
		Name: "Size",
		Values: []AttributeValue{
			{ID: sizeS, AttributeTypeID: sizeID, DisplayName: "S", Active: true},
			{ID: sizeM, AttributeTypeID: sizeID, DisplayName: "M", Active: true},
			{ID: sizeL, AttributeTypeID: sizeID, DisplayName: "L", Active: true},
		},
	}
}

func flavorType() AttributeType {
	return AttributeType{
		ID:           flavorID,
		Name:         "Flavor",
		DisplayOrder: 1,
		Values: []AttributeValue{
			{ID: flavorLemon, AttributeTypeID: flavorID, DisplayName: "Lemon", Active: true},
			{ID: flavorOriginal, AttributeTypeID: flavorID, DisplayName: "Original", Active: true},
		},
	}
}

// beverageLinks is the "Beverage" category: Size (order 0) and Flavor (order 1).
func beverageLinks() []CategoryAttributeLink {
	return []CategoryAttributeLink{
		{CategoryID: 1, Type: flavorType(), DisplayOrder: 1},
		{CategoryID: 1, Type: sizeType(), DisplayOrder: 0, Required: true},
	}
}

func assign(productID, typeID, valueID int64) ProductAttributeAssignment {
	return ProductAttributeAssignment{ProductID: productID, AttributeTypeID: typeID, AttributeValueID: valueID}
}

func flavorRecord(id, productID, branchID, valueID int64, stock int) InventoryRecord {
	return InventoryRecord{
		ID:            id,
		ProductID:     productID,
		BranchID:      branchID,
		Attribute:     &AttributeTag{TypeID: flavorID, ValueID: valueID},
		StockQuantity: stock,
		Price:         2.5,
	}
}

// beverage builds the reconciled schema and join index for one product.
func beverage(assignments []ProductAttributeAssignment, records []InventoryRecord) (*Schema, *Index) {
	schema := Reconcile(Input{
		CategoryID:  1,
		ProductID:   productP,
		Links:       beverageLinks(),
		Assignments: assignments,
		Records:     records,
	})
	return schema, NewIndex(NewSchemaIndex(schema), assignments, records)
}

func valueIDs(values []AttributeValue) []int64 {
	out := make([]int64, 0, len(values))
	for _, v := range values {
		out = append(out, v.ID)
	}
	return out
}
