// Package database handles database connections and schema inspection.
//
// It wraps GORM and opens either a MySQL connection or a SQLite database
// depending on the configured driver. SQLite serves tests and the snapshot
// export of small deployments.
//
// # Schema Inspection
//
// GetTableColumns reads the live columns of a table (SHOW COLUMNS on MySQL,
// PRAGMA table_info on SQLite). CompareModel checks a gorm model's column and
// type tags against them; the integrity feature runs it over the inventory
// models.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    return err
//	}
//
//	report, err := database.CompareModel(db, models.BranchProduct{})
package database
