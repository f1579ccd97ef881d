// Package variant resolves product variants and aggregates inventory from
// three independently sourced datasets: category attribute links, product
// attribute assignments, and branch inventory records that embed at most one
// attribute pair each.
//
// # Components
//
//  1. Reconcile merges the three datasets into a Schema: at most two
//     dimensions, ascending by per-category display order. Values come from
//     inventory record tags first, then assignments, then the type catalog.
//     Categories without links get a schema synthesized from tags.
//
//  2. SchemaIndex exposes the schema's dimensions and maps the partial
//     (id, name) type references found on legacy rows to dimension positions.
//
//  3. SelectionState is a small state machine over one value per dimension.
//     Selecting a dimension clears every later one.
//
//  4. Resolve maps a complete selection to the single inventory record of
//     that variant. A record stores only the discriminating (last) dimension,
//     so the first dimension is confirmed through the product's assignments.
//     Fallback and tie-break results carry LowConfidence.
//
//  5. Aggregate sums records into summary rows (one per product and branch)
//     or detail rows (one per distinct attribute combination).
//
// # Concurrency
//
// Everything except Sources.Fetch and Enricher.Enrich is a pure computation
// over in-memory slices. Schema, SchemaIndex and Index are read-only once
// built and may be shared across goroutines and cached by Schema.Version.
//
// # Usage
//
//	fetched := sources.Fetch(ctx, categoryID, productID, 0)
//	schema := variant.Reconcile(fetched.Input(categoryID, productID))
//
//	idx := variant.NewIndex(variant.NewSchemaIndex(schema), fetched.Assignments, fetched.Records)
//	res := variant.Resolve(idx, variant.Request{ProductID: productID, BranchID: branchID, Selection: sel})
//	if res.Found() && res.LowConfidence {
//	    // surface the uncertainty to the caller
//	}
package variant
