// Package integrity provides health checks for the inventory data.
//
// # Checks Provided
//
//   - Tables: Validates that the inventory tables match the gorm models (columns, types).
//   - Snapshot: Checks that the snapshot bucket and object exist in object storage.
//   - Branch: Finds records and assignments that make variant resolution fall back
//     to low confidence (untagged or mis-tagged records, missing first-dimension assignments).
//   - Drift: Compares the live inventory records with the snapshot export.
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs the tables and snapshot checks.
//   - GET /integrity/tables : Runs the tables check.
//   - GET /integrity/snapshot : Runs the snapshot check (supports ?fix=true).
//   - GET /integrity/branches/:branch : Runs the branch data check.
//   - GET /integrity/drift : Runs the snapshot drift check.
package integrity
