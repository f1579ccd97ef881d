package checks_test

import (
	"testing"

	"inventory-manager/core/database"
	"inventory-manager/feature/inventory/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	beverages int64 = 1
	bundles   int64 = 2

	sizeType   int64 = 1
	flavorType int64 = 2

	sizeM          int64 = 12
	sizeL          int64 = 13
	flavorLemon    int64 = 21
	flavorOriginal int64 = 22

	soda   int64 = 100
	bundle int64 = 200
	juice  int64 = 300

	branch int64 = 7
)

func ptr[T any](v T) *T {
	return &v
}

// seedDB stocks one branch with a soda carrying a duplicate and an untagged
// row, a juice with no size assigned and one row tagged on the wrong
// dimension, and an attribute-less bundle.
func seedDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))

	rows := []any{
		&[]models.Product{
			{ID: soda, CategoryID: beverages, Name: "Soda"},
			{ID: bundle, CategoryID: bundles, Name: "Party Bundle"},
			{ID: juice, CategoryID: beverages, Name: "Juice"},
		},
		&[]models.AttributeType{
			{ID: sizeType, Name: "Size", DisplayOrder: 1},
			{ID: flavorType, Name: "Flavor", DisplayOrder: 2},
		},
		&[]models.AttributeValue{
			{ID: sizeM, AttributeTypeID: sizeType, DisplayName: "M", SortOrder: 2, Active: true},
			{ID: sizeL, AttributeTypeID: sizeType, DisplayName: "L", SortOrder: 3, Active: true},
			{ID: flavorLemon, AttributeTypeID: flavorType, DisplayName: "Lemon", SortOrder: 1, Active: true},
			{ID: flavorOriginal, AttributeTypeID: flavorType, DisplayName: "Original", SortOrder: 2, Active: true},
		},
		&[]models.CategoryAttribute{
			{ID: 1, CategoryID: beverages, AttributeTypeID: sizeType, DisplayOrder: 1, Required: true},
			{ID: 2, CategoryID: beverages, AttributeTypeID: flavorType, DisplayOrder: 2},
		},
		&[]models.ProductAttribute{
			{ID: 1, ProductID: soda, AttributeTypeID: ptr(sizeType), AttributeValueID: ptr(sizeM)},
		},
		&[]models.BranchProduct{
			{ID: 501, BranchID: branch, ProductID: soda, AttributeTypeID: ptr(flavorType), AttributeValueID: ptr(flavorOriginal), StockQuantity: 4},
			{ID: 502, BranchID: branch, ProductID: soda, AttributeTypeID: ptr(flavorType), AttributeValueID: ptr(flavorLemon), StockQuantity: 3},
			{ID: 504, BranchID: branch, ProductID: soda, AttributeTypeID: ptr(flavorType), AttributeValueID: ptr(flavorOriginal), StockQuantity: 1},
			{ID: 505, BranchID: branch, ProductID: soda, StockQuantity: 2},
			{ID: 601, BranchID: branch, ProductID: bundle, StockQuantity: 5},
			{ID: 701, BranchID: branch, ProductID: juice, AttributeTypeID: ptr(flavorType), AttributeValueID: ptr(flavorLemon), StockQuantity: 6},
			{ID: 702, BranchID: branch, ProductID: juice, AttributeTypeID: ptr(sizeType), AttributeValueID: ptr(sizeL), StockQuantity: 1},
		},
	}
	for _, r := range rows {
		require.NoError(t, db.Create(r).Error)
	}
	return db
}
