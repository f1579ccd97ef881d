// Package utils provides common utility functions for the inventory-manager application.
// Its conversion helpers decode loosely typed values, such as the identifiers and
// quantities found in legacy inventory exports, and ValidateStruct checks request
// and configuration structs against their `validate` tags.
package utils
