package database

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type stockRow struct {
	ID       int64  `gorm:"primaryKey;column:id;type:bigint"`
	Name     string `gorm:"column:name;type:varchar(100)"`
	Quantity int    `gorm:"column:quantity;type:int"`
	Ignored  string `gorm:"-"`
}

func (stockRow) TableName() string { return "stock_rows" }

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
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

func TestGetTableColumns(t *testing.T) {
	db, err := Connect(Config{Driver: DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)

	err = db.Exec("CREATE TABLE test_items (id INTEGER PRIMARY KEY, name TEXT, description TEXT)").Error
	require.NoError(t, err)

	columns, err := GetTableColumns(db, "test_items")
	assert.NoError(t, err)
	assert.Len(t, columns, 3)

	colMap := make(map[string]string)
	for _, col := range columns {
		colMap[col.Field] = col.Type
	}

	assert.Equal(t, "integer", colMap["id"])
	assert.Equal(t, "text", colMap["name"])
	assert.Equal(t, "text", colMap["description"])

	// PRAGMA table_info returns an empty result for a missing table
	cols, err := GetTableColumns(db, "non_existent")
	assert.NoError(t, err)
	assert.Empty(t, cols)
}

func TestCompareModel_SQLite(t *testing.T) {
	db, err := Connect(Config{Driver: DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)

	t.Run("Matches Migrated Table", func(t *testing.T) {
		require.NoError(t, db.AutoMigrate(&stockRow{}))

		report, err := CompareModel(db, stockRow{})
		require.NoError(t, err)
		assert.Equal(t, "ok", report.Status)
		assert.Empty(t, report.MissingColumns)
		assert.Empty(t, report.TypeMismatches)
	})

	t.Run("Missing Column", func(t *testing.T) {
		require.NoError(t, db.Migrator().DropColumn(&stockRow{}, "quantity"))

		report, err := CompareModel(db, stockRow{})
		require.NoError(t, err)
		assert.Equal(t, "error", report.Status)
		assert.Equal(t, []string{"quantity"}, report.MissingColumns)
	})

	t.Run("Missing Table", func(t *testing.T) {
		require.NoError(t, db.Migrator().DropTable(&stockRow{}))

		_, err := CompareModel(db, stockRow{})
		assert.EqualError(t, err, "table stock_rows does not exist")
	})
}

func TestCompareModel_MySQLTypeMismatch(t *testing.T) {
	db, mock := setupMockDB(t)

	rows := sqlmock.NewRows([]string{"Field", "Type", "Null", "Key", "Default", "Extra"}).
		AddRow("id", "bigint(20)", "NO", "PRI", nil, "auto_increment").
		AddRow("name", "int(11)", "YES", "", nil, "").
		AddRow("quantity", "int(11)", "NO", "", "0", "")
	mock.ExpectQuery("SHOW COLUMNS FROM `stock_rows`").WillReturnRows(rows)

	report, err := CompareModel(db, stockRow{})

	require.NoError(t, err)
	assert.Equal(t, "error", report.Status)
	assert.Empty(t, report.MissingColumns)
	assert.Equal(t, []string{"name: expected varchar(100), got int(11)"}, report.TypeMismatches)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestParseGormTags(t *testing.T) {
	assert.Equal(t, "id", parseGormColumn("column:id;primaryKey"))
	assert.Equal(t, "item_name", parseGormColumn("primaryKey;column:item_name;type:varchar(100)"))
	assert.Equal(t, "int(11)", parseGormType("column:id;type:int(11)"))
	assert.Equal(t, "", parseGormType("column:id"))
	assert.Equal(t, "bigint", baseType("bigint(20)"))
	assert.Equal(t, "decimal(12,2)", baseType("decimal(12,2)"))
}
