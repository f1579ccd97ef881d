package models

// Product is a sellable item; its category selects the attribute types.
type Product struct {
	ID         int64  `gorm:"column:id;primaryKey"`
	CategoryID int64  `gorm:"column:category_id;index"`
	Name       string `gorm:"column:name;type:varchar(255)"`
}

// TableName overrides the table name.
func (Product) TableName() string {
	return "products"
}

// AttributeType is a dimension of variation, e.g. "Size".
type AttributeType struct {
	ID           int64  `gorm:"column:id;primaryKey"`
	Name         string `gorm:"column:name;type:varchar(100)"`
	DisplayOrder int    `gorm:"column:display_order"`
}

// TableName overrides the table name.
func (AttributeType) TableName() string {
	return "attribute_types"
}

// AttributeValue is one value of an attribute type, e.g. "M".
type AttributeValue struct {
	ID              int64  `gorm:"column:id;primaryKey"`
	AttributeTypeID int64  `gorm:"column:attribute_type_id;index"`
	DisplayName     string `gorm:"column:display_name;type:varchar(100)"`
	SortOrder       int    `gorm:"column:sort_order"`
	Active          bool   `gorm:"column:active"`
}

// TableName overrides the table name.
func (AttributeValue) TableName() string {
	return "attribute_values"
}

// CategoryAttribute links an attribute type to a category.
type CategoryAttribute struct {
	ID              int64 `gorm:"column:id;primaryKey"`
	CategoryID      int64 `gorm:"column:category_id;index"`
	AttributeTypeID int64 `gorm:"column:attribute_type_id"`
	Required        bool  `gorm:"column:required"`
	DisplayOrder    int   `gorm:"column:display_order"`
}

// TableName overrides the table name.
func (CategoryAttribute) TableName() string {
	return "category_attributes"
}

// ProductAttribute assigns a value to a product. Legacy rows carry names
// instead of identifiers.
type ProductAttribute struct {
	ID                 int64   `gorm:"column:id;primaryKey"`
	ProductID          int64   `gorm:"column:product_id;index"`
	AttributeTypeID    *int64  `gorm:"column:attribute_type_id"`
	AttributeTypeName  *string `gorm:"column:attribute_type_name;type:varchar(100)"`
	AttributeValueID   *int64  `gorm:"column:attribute_value_id"`
	AttributeValueName *string `gorm:"column:attribute_value_name;type:varchar(100)"`
}

// TableName overrides the table name.
func (ProductAttribute) TableName() string {
	return "product_attributes"
}

// BranchProduct is the stock of one variant of a product at one branch.
// It embeds at most one attribute pair.
type BranchProduct struct {
	ID                 int64   `gorm:"column:id;primaryKey"`
	BranchID           int64   `gorm:"column:branch_id;index"`
	ProductID          int64   `gorm:"column:product_id;index"`
	AttributeTypeID    *int64  `gorm:"column:attribute_type_id"`
	AttributeTypeName  *string `gorm:"column:attribute_type_name;type:varchar(100)"`
	AttributeValueID   *int64  `gorm:"column:attribute_value_id"`
	AttributeValueName *string `gorm:"column:attribute_value_name;type:varchar(100)"`
	StockQuantity      int     `gorm:"column:stock_quantity"`
	ReservedQuantity   int     `gorm:"column:reserved_quantity"`
	SafetyStock        int     `gorm:"column:safety_stock"`
	Price              float64 `gorm:"column:price;type:decimal(12,2)"`
}

// TableName overrides the table name.
func (BranchProduct) TableName() string {
	return "branch_products"
}

// All returns every model read by the inventory feature.
func All() []any {
	return []any{
		&Product{},
		&AttributeType{},
		&AttributeValue{},
		&CategoryAttribute{},
		&ProductAttribute{},
		&BranchProduct{},
	}
}
