package variant

// AttributeType is a dimension of product variation (e.g. "Size").
type AttributeType struct {
	// ID is the attribute type identifier. Legacy rows may carry zero.
	ID int64 `json:"id"`

	// Name is the display name of the type.
	Name string `json:"name"`

	// DisplayOrder is the global ordering of the type.
	DisplayOrder int `json:"display_order"`

	// Values is the full value catalog defined on the type.
	Values []AttributeValue `json:"values,omitempty"`
}

// AttributeValue is a concrete value within a type (e.g. "M").
type AttributeValue struct {
	ID              int64  `json:"id"`
	AttributeTypeID int64  `json:"attribute_type_id"`
	DisplayName     string `json:"display_name"`
	Active          bool   `json:"active"`
}

// CategoryAttributeLink binds an attribute type to a category.
type CategoryAttributeLink struct {
	CategoryID int64 `json:"category_id"`

	// Type is the linked attribute type, including its value catalog.
	Type AttributeType `json:"type"`

	Required bool `json:"required"`

	// DisplayOrder is the per-category ordering. The link with the highest
	// order is the discriminating dimension.
	DisplayOrder int `json:"display_order"`
}

// ProductAttributeAssignment binds a value of one type to a product.
// Name fields are carried for legacy rows missing identifiers.
type ProductAttributeAssignment struct {
	ProductID          int64  `json:"product_id"`
	AttributeTypeID    int64  `json:"attribute_type_id"`
	AttributeTypeName  string `json:"attribute_type_name,omitempty"`
	AttributeValueID   int64  `json:"attribute_value_id"`
	AttributeValueName string `json:"attribute_value_name,omitempty"`
}

// AttributeTag is the single attribute pair embedded on an inventory record.
type AttributeTag struct {
	TypeID    int64  `json:"type_id"`
	TypeName  string `json:"type_name,omitempty"`
	ValueID   int64  `json:"value_id"`
	ValueName string `json:"value_name,omitempty"`
}

// InventoryRecord is a branch-scoped stock row ("BranchProduct").
type InventoryRecord struct {
	ID        int64 `json:"id"`
	ProductID int64 `json:"product_id"`
	BranchID  int64 `json:"branch_id"`

	// Attribute is the discriminating attribute pair, nil when untagged.
	Attribute *AttributeTag `json:"attribute,omitempty"`

	StockQuantity    int     `json:"stock_quantity"`
	ReservedQuantity int     `json:"reserved_quantity"`
	SafetyStock      int     `json:"safety_stock"`
	Price            float64 `json:"price"`
}

// Tagged reports whether the record carries a usable attribute pair.
func (r InventoryRecord) Tagged() bool {
	if r.Attribute == nil {
		return false
	}
	a := r.Attribute
	return (a.TypeID > 0 || a.TypeName != "") && (a.ValueID > 0 || a.ValueName != "")
}

// Choice is one (type, value) pair of a selection. Negative IDs address
// name-only types and values of a reconciled schema.
type Choice struct {
	TypeID  int64 `json:"type_id" validate:"required"`
	ValueID int64 `json:"value_id" validate:"required"`
}

// Selection maps attribute type IDs to chosen value IDs, as listed on the
// product's schema dimensions.
type Selection map[int64]int64

// SelectionFrom builds a Selection from a list of choices. Later entries win.
func SelectionFrom(choices []Choice) Selection {
	sel := make(Selection, len(choices))
	for _, c := range choices {
		sel[c.TypeID] = c.ValueID
	}
	return sel
}
