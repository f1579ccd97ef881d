package inventory

import (
	"context"
	"errors"
	"fmt"

	"inventory-manager/core/variant"
	"inventory-manager/feature/inventory/models"

	"gorm.io/gorm"
)

// ErrProductNotFound is returned when a product does not exist.
var ErrProductNotFound = errors.New("product not found")

// Repository reads the three inventory datasets from the relational database.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new Repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CategoryOf returns the category of a product.
func (r *Repository) CategoryOf(ctx context.Context, productID int64) (int64, error) {
	var product models.Product
	err := r.db.WithContext(ctx).Select("id", "category_id").First(&product, productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, fmt.Errorf("%w: %d", ErrProductNotFound, productID)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to load product %d: %w", productID, err)
	}
	return product.CategoryID, nil
}

// ListAttributeTypesForCategory returns the category's attribute links ordered
// by display order, each with the full value catalog of its type.
func (r *Repository) ListAttributeTypesForCategory(ctx context.Context, categoryID int64) ([]variant.CategoryAttributeLink, error) {
	db := r.db.WithContext(ctx)

	var links []models.CategoryAttribute
	if err := db.Where("category_id = ?", categoryID).Order("display_order, id").Find(&links).Error; err != nil {
		return nil, fmt.Errorf("failed to list category attributes: %w", err)
	}
	if len(links) == 0 {
		return []variant.CategoryAttributeLink{}, nil
	}

	typeIDs := make([]int64, 0, len(links))
	for _, l := range links {
		typeIDs = append(typeIDs, l.AttributeTypeID)
	}

	var types []models.AttributeType
	if err := db.Where("id IN ?", typeIDs).Find(&types).Error; err != nil {
		return nil, fmt.Errorf("failed to list attribute types: %w", err)
	}
	var values []models.AttributeValue
	if err := db.Where("attribute_type_id IN ?", typeIDs).Order("sort_order, id").Find(&values).Error; err != nil {
		return nil, fmt.Errorf("failed to list attribute values: %w", err)
	}

	catalog := make(map[int64]*variant.AttributeType, len(types))
	for _, t := range types {
		catalog[t.ID] = &variant.AttributeType{ID: t.ID, Name: t.Name, DisplayOrder: t.DisplayOrder}
	}
	for _, v := range values {
		if t, ok := catalog[v.AttributeTypeID]; ok {
			t.Values = append(t.Values, variant.AttributeValue{
				ID:              v.ID,
				AttributeTypeID: v.AttributeTypeID,
				DisplayName:     v.DisplayName,
				Active:          v.Active,
			})
		}
	}

	out := make([]variant.CategoryAttributeLink, 0, len(links))
	for _, l := range links {
		t, ok := catalog[l.AttributeTypeID]
		if !ok {
			// Dangling link; the type was deleted.
			continue
		}
		out = append(out, variant.CategoryAttributeLink{
			CategoryID:   l.CategoryID,
			Type:         *t,
			Required:     l.Required,
			DisplayOrder: l.DisplayOrder,
		})
	}
	return out, nil
}

// pairRow is the scan target of the attribute pair joins. Names fall back to
// the legacy columns when the referenced row is missing.
type pairRow struct {
	ID        int64
	ProductID int64
	TypeID    *int64
	TypeName  *string
	ValueID   *int64
	ValueName *string
}

type recordRow struct {
	pairRow
	BranchID         int64
	StockQuantity    int
	ReservedQuantity int
	SafetyStock      int
	Price            float64
}

const pairColumns = "x.id, x.product_id, x.attribute_type_id AS type_id, " +
	"COALESCE(t.name, x.attribute_type_name) AS type_name, " +
	"x.attribute_value_id AS value_id, " +
	"COALESCE(v.display_name, x.attribute_value_name) AS value_name"

func withPairJoins(db *gorm.DB, table string) *gorm.DB {
	return db.Table(table + " AS x").
		Joins("LEFT JOIN attribute_types t ON t.id = x.attribute_type_id").
		Joins("LEFT JOIN attribute_values v ON v.id = x.attribute_value_id")
}

// ListAssignments returns the attribute assignments of a product.
func (r *Repository) ListAssignments(ctx context.Context, productID int64) ([]variant.ProductAttributeAssignment, error) {
	var rows []pairRow
	err := withPairJoins(r.db.WithContext(ctx), "product_attributes").
		Select(pairColumns).
		Where("x.product_id = ?", productID).
		Order("x.id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments of product %d: %w", productID, err)
	}

	return toAssignments(rows), nil
}

// ListAllAssignments returns every assignment, ordered by product.
func (r *Repository) ListAllAssignments(ctx context.Context) ([]variant.ProductAttributeAssignment, error) {
	var rows []pairRow
	err := withPairJoins(r.db.WithContext(ctx), "product_attributes").
		Select(pairColumns).
		Order("x.product_id, x.id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}

	return toAssignments(rows), nil
}

// ListRecords returns the inventory records of a branch, optionally for one
// product. A zero branchID lists every branch.
func (r *Repository) ListRecords(ctx context.Context, branchID int64, productID *int64) ([]variant.InventoryRecord, error) {
	q := withPairJoins(r.db.WithContext(ctx), "branch_products").
		Select(pairColumns + ", x.branch_id, x.stock_quantity, x.reserved_quantity, x.safety_stock, x.price")
	if branchID != 0 {
		q = q.Where("x.branch_id = ?", branchID)
	}
	if productID != nil {
		q = q.Where("x.product_id = ?", *productID)
	}

	var rows []recordRow
	if err := q.Order("x.id").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list inventory records of branch %d: %w", branchID, err)
	}

	out := make([]variant.InventoryRecord, 0, len(rows))
	for _, row := range rows {
		rec := variant.InventoryRecord{
			ID:               row.ID,
			ProductID:        row.ProductID,
			BranchID:         row.BranchID,
			StockQuantity:    row.StockQuantity,
			ReservedQuantity: row.ReservedQuantity,
			SafetyStock:      row.SafetyStock,
			Price:            row.Price,
		}
		if row.TypeID != nil || row.TypeName != nil || row.ValueID != nil || row.ValueName != nil {
			rec.Attribute = &variant.AttributeTag{
				TypeID:    deref(row.TypeID),
				TypeName:  derefString(row.TypeName),
				ValueID:   deref(row.ValueID),
				ValueName: derefString(row.ValueName),
			}
		}
		out = append(out, rec)
	}
	return out, nil
}

// ListProducts returns every product, ordered by id.
func (r *Repository) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).Order("id").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func toAssignments(rows []pairRow) []variant.ProductAttributeAssignment {
	out := make([]variant.ProductAttributeAssignment, 0, len(rows))
	for _, row := range rows {
		out = append(out, variant.ProductAttributeAssignment{
			ProductID:          row.ProductID,
			AttributeTypeID:    deref(row.TypeID),
			AttributeTypeName:  derefString(row.TypeName),
			AttributeValueID:   deref(row.ValueID),
			AttributeValueName: derefString(row.ValueName),
		})
	}
	return out
}

func deref(p *int64) int64 {
	if p == nil {
		return 0
	}
	return *p
}

func derefString(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
