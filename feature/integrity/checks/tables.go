package checks

import (
	"fmt"

	"inventory-manager/core/database"

	"gorm.io/gorm"
)

// TablesReport is the result of comparing the gorm models with the live schema.
type TablesReport struct {
	Driver  string                          `json:"driver"`
	Matched bool                            `json:"matched"`
	Tables  map[string]database.TableReport `json:"tables"`
	Errors  []string                        `json:"errors"`
}

// CheckTables verifies that every model's table exists with the columns and
// types its gorm tags declare.
func CheckTables(db *gorm.DB, models []any) (*TablesReport, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	report := &TablesReport{
		Driver:  db.Dialector.Name(),
		Matched: true,
		Tables:  make(map[string]database.TableReport, len(models)),
		Errors:  []string{},
	}

	for _, m := range models {
		tabler, ok := m.(database.Tabler)
		if !ok {
			return nil, fmt.Errorf("model %T has no table name", m)
		}

		table, err := database.CompareModel(db, tabler)
		if err != nil {
			report.Matched = false
			report.Errors = append(report.Errors, err.Error())
			table.Status = "error"
		}
		if table.Status != "ok" {
			report.Matched = false
		}
		report.Tables[tabler.TableName()] = table
	}

	return report, nil
}
