// Package inventory implements the inventory feature: attribute schemas,
// variant resolution and stock aggregation over branch inventory.
//
// # Backends
//
// The three datasets (category attribute links, product attribute
// assignments, branch inventory records) are read from a Backend:
//   - Repository reads MySQL or SQLite through gorm. Attribute names are
//     joined from the catalog tables and fall back to the legacy name
//     columns when a row has no identifier.
//   - SnapshotStore reads a JSON export from object storage. Identifiers
//     may be strings and record tags may be flat columns.
//
// ExportSnapshot writes a snapshot from the Repository.
//
// # Caching
//
// Schemas are cached per (category, product). Schemas built from a degraded
// fetch are never cached. Resolutions are computed from freshly read
// records on every call, so /resolve and /options agree on quantities.
//
// # Routes
//
//	GET  /inventory/schema?product_id=&category_id=
//	POST /inventory/resolve
//	POST /inventory/options
//	GET  /inventory/branches/:branch/summary?product_id=
//	GET  /inventory/branches/:branch/products/:product/detail
//	POST /inventory/snapshot/refresh   (snapshot backend only)
package inventory
