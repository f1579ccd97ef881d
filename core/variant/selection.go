package variant

// Phase is the state of a SelectionState.
type Phase string

const (
	PhaseNoProductSelected     Phase = "no_product_selected"
	PhaseDimensionsPending     Phase = "dimensions_pending"
	PhaseAllDimensionsSelected Phase = "all_dimensions_selected"
)

// SelectionState tracks a progressive choice of one value per dimension.
// Choosing a value on a dimension invalidates every later dimension, since
// their availability depends on earlier choices. A SelectionState belongs
// to one caller and is not safe for concurrent use.
type SelectionState struct {
	productID int64
	schema    *SchemaIndex
	combos    []Combination
	chosen    []int64
}

// NewSelectionState returns a state with no product selected.
func NewSelectionState() *SelectionState {
	return &SelectionState{}
}

// PickProduct (re)starts the state for a product. Known value combinations
// are taken from idx; a nil idx means no co-occurrence data.
func (s *SelectionState) PickProduct(productID int64, schema *SchemaIndex, idx *Index) {
	if schema == nil {
		schema = NewSchemaIndex(nil)
	}
	s.productID = productID
	s.schema = schema
	s.chosen = make([]int64, schema.Len())
	s.combos = nil
	if idx != nil {
		s.combos = idx.Combinations(productID)
	}
}

// ProductID returns the selected product, zero when none.
func (s *SelectionState) ProductID() int64 {
	return s.productID
}

// Phase reports the current state.
func (s *SelectionState) Phase() Phase {
	if s.schema == nil {
		return PhaseNoProductSelected
	}
	if s.Selected() == s.schema.Len() {
		return PhaseAllDimensionsSelected
	}
	return PhaseDimensionsPending
}

// Selected returns k, the number of leading dimensions holding a value.
func (s *SelectionState) Selected() int {
	k := 0
	for _, v := range s.chosen {
		if v == 0 {
			break
		}
		k++
	}
	return k
}

// Complete reports whether every dimension holds a value.
func (s *SelectionState) Complete() bool {
	return s.Phase() == PhaseAllDimensionsSelected
}

func (s *SelectionState) position(typeID int64) (int, error) {
	if s.schema == nil {
		return 0, ErrNoProductSelected
	}
	pos, ok := s.schema.Position(typeID)
	if !ok {
		return 0, ErrUnknownDimension
	}
	return pos, nil
}

// Selectable reports whether every dimension before typeID holds a value.
func (s *SelectionState) Selectable(typeID int64) bool {
	pos, err := s.position(typeID)
	if err != nil {
		return false
	}
	return s.Selected() >= pos
}

// Select sets the value for typeID and clears every later dimension.
// Value membership is not checked here; resolution reports unknown
// combinations as not found.
func (s *SelectionState) Select(typeID, valueID int64) error {
	pos, err := s.position(typeID)
	if err != nil {
		return err
	}
	if s.Selected() < pos {
		return ErrDimensionLocked
	}
	if valueID == 0 {
		return ErrInvalidValue
	}
	s.chosen[pos] = valueID
	for i := pos + 1; i < len(s.chosen); i++ {
		s.chosen[i] = 0
	}
	return nil
}

// Clear removes the value for typeID and every later dimension.
func (s *SelectionState) Clear(typeID int64) error {
	pos, err := s.position(typeID)
	if err != nil {
		return err
	}
	for i := pos; i < len(s.chosen); i++ {
		s.chosen[i] = 0
	}
	return nil
}

// AvailableValuesFor lists the values offered for typeID. The first
// dimension offers its full reconciled list; later dimensions offer the
// values co-occurring with the earlier choices in a known combination,
// or the full list when no combination data exists.
func (s *SelectionState) AvailableValuesFor(typeID int64) ([]AttributeValue, error) {
	pos, err := s.position(typeID)
	if err != nil {
		return nil, err
	}
	all := s.schema.Dimension(pos).Values
	if pos == 0 || len(s.combos) == 0 {
		return all, nil
	}

	allowed := make(map[int64]struct{})
	for _, c := range s.combos {
		if len(c) <= pos {
			continue
		}
		match := true
		for i := 0; i < pos; i++ {
			if c[i] != s.chosen[i] {
				match = false
				break
			}
		}
		if match {
			allowed[c[pos]] = struct{}{}
		}
	}

	out := make([]AttributeValue, 0, len(allowed))
	for _, v := range all {
		if _, ok := allowed[v.ID]; ok {
			out = append(out, v)
		}
	}
	return out, nil
}

// Selection returns a copy of the current choices keyed by type ID.
func (s *SelectionState) Selection() Selection {
	sel := make(Selection, len(s.chosen))
	if s.schema == nil {
		return sel
	}
	for i, v := range s.chosen {
		if v != 0 {
			sel[s.schema.Dimension(i).Type.ID] = v
		}
	}
	return sel
}

// Request builds the resolution request for the current choices.
func (s *SelectionState) Request(branchID int64) Request {
	return Request{ProductID: s.productID, BranchID: branchID, Selection: s.Selection()}
}
