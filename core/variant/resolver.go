package variant

// Status is the outcome of a resolution.
type Status string

const (
	StatusFound    Status = "found"
	StatusNotFound Status = "not_found"
)

// Reason explains how a resolution was reached.
type Reason string

const (
	ReasonSingleVariant       Reason = "single_variant"
	ReasonExactMatch          Reason = "exact_match"
	ReasonDiscriminatingOnly  Reason = "discriminating_only"
	ReasonAssignmentOnly      Reason = "assignment_only"
	ReasonTieBreak            Reason = "tie_break"
	ReasonNoRecords           Reason = "no_records"
	ReasonIncompleteSelection Reason = "incomplete_selection"
	ReasonSelectionMismatch   Reason = "selection_mismatch"
	ReasonNoMatch             Reason = "no_match"
)

// Request identifies the variant to resolve.
type Request struct {
	ProductID int64
	BranchID  int64
	Selection Selection
}

// Resolution is the result of resolving a request to an inventory record.
// LowConfidence is set whenever the record was chosen by a fallback or a
// tie-break rather than by an unambiguous match.
type Resolution struct {
	Status        Status           `json:"status"`
	Record        *InventoryRecord `json:"record,omitempty"`
	LowConfidence bool             `json:"low_confidence"`
	Reason        Reason           `json:"reason"`

	// Candidates is the number of records for the (product, branch) group.
	Candidates int `json:"candidates"`
}

// Found reports whether a record was resolved.
func (r Resolution) Found() bool {
	return r.Status == StatusFound
}

// Outcome classifies the resolution for metrics and reports.
func (r Resolution) Outcome() string {
	switch {
	case !r.Found():
		return "not_found"
	case r.LowConfidence:
		return "low_confidence"
	default:
		return "confident"
	}
}

func notFound(reason Reason, candidates int) Resolution {
	return Resolution{Status: StatusNotFound, Reason: reason, Candidates: candidates}
}

// pick returns the lowest-id record of matches; ties are always low confidence.
func pick(matches []InventoryRecord, reason Reason, low bool, candidates int) Resolution {
	rec := matches[0]
	if len(matches) > 1 {
		low = true
		if reason == ReasonExactMatch || reason == ReasonSingleVariant {
			reason = ReasonTieBreak
		}
	}
	return Resolution{
		Status:        StatusFound,
		Record:        &rec,
		LowConfidence: low,
		Reason:        reason,
		Candidates:    candidates,
	}
}

// Resolve finds the inventory record representing the selected variant.
// It is pure and deterministic: identical inputs always yield identical
// results.
func Resolve(idx *Index, req Request) Resolution {
	candidates := idx.Records(req.ProductID, req.BranchID)
	if len(candidates) == 0 {
		return notFound(ReasonNoRecords, 0)
	}

	schema := idx.Schema()
	n := schema.Len()
	if n == 0 {
		return pick(candidates, ReasonSingleVariant, false, len(candidates))
	}

	chosen := make([]int64, n)
	for i := 0; i < n; i++ {
		id := schema.Dimension(i).Type.ID
		v, ok := req.Selection[id]
		if id == 0 || !ok || v == 0 {
			return notFound(ReasonIncompleteSelection, len(candidates))
		}
		chosen[i] = v
	}

	if n == 1 {
		return resolveOne(idx, req.ProductID, candidates, chosen[0])
	}
	return resolveTwo(idx, req.ProductID, candidates, chosen[0], chosen[1])
}

func resolveOne(idx *Index, productID int64, candidates []InventoryRecord, value int64) Resolution {
	var tagged []InventoryRecord
	for _, r := range candidates {
		if v, ok := idx.discriminatingValue(r); ok && v == value {
			tagged = append(tagged, r)
		}
	}
	if len(tagged) > 0 {
		return pick(tagged, ReasonExactMatch, false, len(candidates))
	}
	return resolveUntagged(idx, productID, candidates, 0, value)
}

func resolveTwo(idx *Index, productID int64, candidates []InventoryRecord, first, disc int64) Resolution {
	assignedFirst := idx.Assigned(productID, 0)
	if len(assignedFirst) > 0 && !containsID(assignedFirst, first) {
		return notFound(ReasonSelectionMismatch, len(candidates))
	}

	var tagged []InventoryRecord
	for _, r := range candidates {
		if v, ok := idx.discriminatingValue(r); ok && v == disc {
			tagged = append(tagged, r)
		}
	}
	if len(tagged) > 0 {
		if len(assignedFirst) > 0 {
			return pick(tagged, ReasonExactMatch, false, len(candidates))
		}
		// First-dimension value cannot be confirmed for this product.
		return pick(tagged, ReasonDiscriminatingOnly, true, len(candidates))
	}
	return resolveUntagged(idx, productID, candidates, 1, disc)
}

// resolveUntagged handles records missing their discriminating tag: the
// product's assignments must not contradict the selected value on that
// dimension, and the lowest-id untagged record is returned with low
// confidence.
func resolveUntagged(idx *Index, productID int64, candidates []InventoryRecord, pos int, value int64) Resolution {
	if assigned := idx.Assigned(productID, pos); len(assigned) > 0 && !containsID(assigned, value) {
		return notFound(ReasonNoMatch, len(candidates))
	}
	var untagged []InventoryRecord
	for _, r := range candidates {
		if _, ok := idx.discriminatingValue(r); !ok {
			untagged = append(untagged, r)
		}
	}
	if len(untagged) == 0 {
		return notFound(ReasonNoMatch, len(candidates))
	}
	return pick(untagged, ReasonAssignmentOnly, true, len(candidates))
}
