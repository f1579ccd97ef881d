package checks

import (
	"context"
	"fmt"
	"strconv"

	"inventory-manager/core/reconcile"
	"inventory-manager/core/variant"
)

// CheckSnapshotDrift compares every inventory record of the live source with
// the snapshot. Records are keyed by id.
func CheckSnapshotDrift(ctx context.Context, live, snapshot variant.InventoryRecordSource) (*reconcile.Report, error) {
	if live == nil || snapshot == nil {
		return nil, fmt.Errorf("drift check needs both a live and a snapshot source")
	}
	return reconcile.Reconcile(ctx, recordIndex(live), recordIndex(snapshot), compareRecords)
}

func recordIndex(src variant.InventoryRecordSource) reconcile.Loader[variant.InventoryRecord] {
	return func(ctx context.Context) (map[string]variant.InventoryRecord, error) {
		records, err := src.ListRecords(ctx, 0, nil)
		if err != nil {
			return nil, err
		}
		idx := make(map[string]variant.InventoryRecord, len(records))
		for _, r := range records {
			idx[strconv.FormatInt(r.ID, 10)] = r
		}
		return idx, nil
	}
}

func compareRecords(snapshot, live variant.InventoryRecord) []string {
	return reconcile.Fields(
		reconcile.Field("product_id", snapshot.ProductID, live.ProductID),
		reconcile.Field("branch_id", snapshot.BranchID, live.BranchID),
		reconcile.Field("attribute", tagText(snapshot.Attribute), tagText(live.Attribute)),
		reconcile.Field("stock_quantity", snapshot.StockQuantity, live.StockQuantity),
		reconcile.Field("reserved_quantity", snapshot.ReservedQuantity, live.ReservedQuantity),
		reconcile.Field("safety_stock", snapshot.SafetyStock, live.SafetyStock),
		reconcile.Field("price", snapshot.Price, live.Price),
	)
}

func tagText(t *variant.AttributeTag) string {
	if t == nil {
		return "none"
	}
	if t.TypeID > 0 && t.ValueID > 0 {
		return fmt.Sprintf("%d=%d", t.TypeID, t.ValueID)
	}
	return fmt.Sprintf("%s=%s", t.TypeName, t.ValueName)
}
