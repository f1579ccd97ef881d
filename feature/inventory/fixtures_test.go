package inventory_test

import (
	"testing"

	"inventory-manager/core/database"
	"inventory-manager/feature/inventory/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

const (
	beverages int64 = 1
	bundles   int64 = 2

	sizeType   int64 = 1
	flavorType int64 = 2

	sizeS          int64 = 11
	sizeM          int64 = 12
	sizeL          int64 = 13
	flavorLemon    int64 = 21
	flavorOriginal int64 = 22

	soda   int64 = 100
	bundle int64 = 200

	branchA int64 = 7
	branchB int64 = 8
)

func ptr[T any](v T) *T {
	return &v
}

// seedDB creates an in-memory database holding one two-dimension beverage
// product (Size assigned, Flavor on the stock rows) and one attribute-less
// bundle product.
func seedDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))

	rows := []any{
		&[]models.Product{
			{ID: soda, CategoryID: beverages, Name: "Soda"},
			{ID: bundle, CategoryID: bundles, Name: "Party Bundle"},
		},
		&[]models.AttributeType{
			{ID: sizeType, Name: "Size", DisplayOrder: 1},
			{ID: flavorType, Name: "Flavor", DisplayOrder: 2},
		},
		&[]models.AttributeValue{
			{ID: sizeL, AttributeTypeID: sizeType, DisplayName: "L", SortOrder: 3, Active: true},
			{ID: sizeS, AttributeTypeID: sizeType, DisplayName: "S", SortOrder: 1, Active: true},
			{ID: sizeM, AttributeTypeID: sizeType, DisplayName: "M", SortOrder: 2, Active: true},
			{ID: flavorLemon, AttributeTypeID: flavorType, DisplayName: "Lemon", SortOrder: 1, Active: true},
			{ID: flavorOriginal, AttributeTypeID: flavorType, DisplayName: "Original", SortOrder: 2, Active: true},
		},
		&[]models.CategoryAttribute{
			{ID: 1, CategoryID: beverages, AttributeTypeID: flavorType, DisplayOrder: 2},
			{ID: 2, CategoryID: beverages, AttributeTypeID: sizeType, DisplayOrder: 1, Required: true},
		},
		&[]models.ProductAttribute{
			{ID: 1, ProductID: soda, AttributeTypeID: ptr(sizeType), AttributeValueID: ptr(sizeM)},
		},
		&[]models.BranchProduct{
			{ID: 501, BranchID: branchA, ProductID: soda, AttributeTypeID: ptr(flavorType), AttributeValueID: ptr(flavorOriginal), StockQuantity: 4, Price: 12.5},
			{ID: 502, BranchID: branchA, ProductID: soda, AttributeTypeID: ptr(flavorType), AttributeValueID: ptr(flavorLemon), StockQuantity: 3, ReservedQuantity: 1, Price: 12.5},
			{ID: 503, BranchID: branchB, ProductID: soda, AttributeTypeID: ptr(flavorType), AttributeValueID: ptr(flavorOriginal), StockQuantity: 2, Price: 13},
			{ID: 601, BranchID: branchA, ProductID: bundle, StockQuantity: 5, Price: 30},
		},
	}
	for _, r := range rows {
		require.NoError(t, db.Create(r).Error)
	}
	return db
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}
