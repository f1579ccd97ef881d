package variant

import (
	"sort"
	"strconv"
	"strings"
)

// Mode selects how Aggregate groups records.
type Mode string

const (
	// ModeSummary yields one row per (product, branch) for list views.
	ModeSummary Mode = "summary"
	// ModeDetail yields one row per distinct attribute combination.
	ModeDetail Mode = "detail"
)

// DefaultLabel is the label of records with no attribute data.
const DefaultLabel = "Default"

// ParseMode converts a string to a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeSummary, "":
		return ModeSummary, nil
	case ModeDetail:
		return ModeDetail, nil
	default:
		return "", ErrUnknownMode
	}
}

// LabelPart is one (type, value) component of a combination label.
type LabelPart struct {
	TypeID    int64  `json:"type_id"`
	TypeName  string `json:"type_name"`
	ValueID   int64  `json:"value_id"`
	ValueName string `json:"value_name"`
}

// Row is one aggregated inventory row.
type Row struct {
	ProductID int64 `json:"product_id"`
	BranchID  int64 `json:"branch_id"`

	Label      string      `json:"label"`
	Attributes []LabelPart `json:"attributes"`

	StockQuantity     int `json:"stock_quantity"`
	ReservedQuantity  int `json:"reserved_quantity"`
	SafetyStock       int `json:"safety_stock"`
	AvailableQuantity int `json:"available_quantity"`

	// Price is taken from the representative record, not averaged.
	Price float64 `json:"price"`

	// RepresentativeID is the lowest-id record of the row; price and, in
	// summary mode, the label come from it.
	RepresentativeID int64   `json:"representative_id"`
	RecordIDs        []int64 `json:"record_ids"`

	// Variants counts the distinct combinations merged into a summary row.
	Variants int `json:"variants"`
}

// AggregateInput carries the rows to aggregate.
type AggregateInput struct {
	Records     []InventoryRecord
	Assignments []ProductAttributeAssignment

	// Schemas are optional per-product schemas used to order label parts
	// and to fill in missing names.
	Schemas []*Schema
}

type detailKey struct {
	ProductID int64
	BranchID  int64
	Combo     string
}

type labeled struct {
	record InventoryRecord
	parts  []LabelPart
	combo  string
}

// Aggregate groups records into summary or detail rows.
func Aggregate(in AggregateInput, mode Mode) ([]Row, error) {
	if mode != ModeSummary && mode != ModeDetail {
		return nil, ErrUnknownMode
	}

	l := newLabeler(in)
	records := append([]InventoryRecord(nil), in.Records...)
	sort.SliceStable(records, func(i, j int) bool { return records[i].ID < records[j].ID })

	items := make([]labeled, 0, len(records))
	for _, r := range records {
		parts, combo := l.label(r)
		items = append(items, labeled{record: r, parts: parts, combo: combo})
	}

	var rows []Row
	if mode == ModeSummary {
		rows = summarize(items)
	} else {
		rows = detail(items)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].ProductID != rows[j].ProductID {
			return rows[i].ProductID < rows[j].ProductID
		}
		if rows[i].BranchID != rows[j].BranchID {
			return rows[i].BranchID < rows[j].BranchID
		}
		return rows[i].RepresentativeID < rows[j].RepresentativeID
	})
	return rows, nil
}

func summarize(items []labeled) []Row {
	index := make(map[groupKey]int)
	combos := make(map[groupKey]map[string]struct{})
	var rows []Row
	for _, it := range items {
		g := groupKey{ProductID: it.record.ProductID, BranchID: it.record.BranchID}
		i, ok := index[g]
		if !ok {
			i = len(rows)
			index[g] = i
			combos[g] = make(map[string]struct{})
			rows = append(rows, newRow(it))
		} else {
			accumulate(&rows[i], it.record)
		}
		combos[g][it.combo] = struct{}{}
	}
	for g, i := range index {
		rows[i].Variants = len(combos[g])
		finish(&rows[i])
	}
	return rows
}

func detail(items []labeled) []Row {
	index := make(map[detailKey]int)
	var rows []Row
	for _, it := range items {
		k := detailKey{ProductID: it.record.ProductID, BranchID: it.record.BranchID, Combo: it.combo}
		i, ok := index[k]
		if !ok {
			index[k] = len(rows)
			rows = append(rows, newRow(it))
			continue
		}
		accumulate(&rows[i], it.record)
	}
	for i := range rows {
		rows[i].Variants = 1
		finish(&rows[i])
	}
	return rows
}

// newRow starts a row from its representative (lowest-id) record.
func newRow(it labeled) Row {
	r := it.record
	return Row{
		ProductID:        r.ProductID,
		BranchID:         r.BranchID,
		Label:            labelText(it.parts),
		Attributes:       it.parts,
		StockQuantity:    r.StockQuantity,
		ReservedQuantity: r.ReservedQuantity,
		SafetyStock:      r.SafetyStock,
		Price:            r.Price,
		RepresentativeID: r.ID,
		RecordIDs:        []int64{r.ID},
	}
}

func accumulate(row *Row, r InventoryRecord) {
	row.StockQuantity += r.StockQuantity
	row.ReservedQuantity += r.ReservedQuantity
	row.SafetyStock += r.SafetyStock
	row.RecordIDs = append(row.RecordIDs, r.ID)
}

func finish(row *Row) {
	row.AvailableQuantity = row.StockQuantity - row.ReservedQuantity
	if row.AvailableQuantity < 0 {
		row.AvailableQuantity = 0
	}
}

func labelText(parts []LabelPart) string {
	if len(parts) == 0 {
		return DefaultLabel
	}
	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		typeName := p.TypeName
		if typeName == "" {
			typeName = "#" + strconv.FormatInt(p.TypeID, 10)
		}
		valueName := p.ValueName
		if valueName == "" {
			valueName = "#" + strconv.FormatInt(p.ValueID, 10)
		}
		segments = append(segments, typeName+": "+valueName)
	}
	return strings.Join(segments, " / ")
}

// labeler builds combination labels for records. Types are interned in one
// arena per aggregation so that ID-only and name-only rows of the same type
// share a key.
type labeler struct {
	types       *typeTable
	assignments map[int64][]ProductAttributeAssignment
	schemas     map[int64]*SchemaIndex
}

func newLabeler(in AggregateInput) *labeler {
	l := &labeler{
		types:       newTypeTable(),
		assignments: make(map[int64][]ProductAttributeAssignment),
		schemas:     make(map[int64]*SchemaIndex),
	}
	for _, s := range in.Schemas {
		if s == nil {
			continue
		}
		l.schemas[s.ProductID] = NewSchemaIndex(s)
		for _, d := range s.Dimensions {
			l.types.intern(d.Type.ID, d.Type.Name)
		}
	}
	for _, a := range in.Assignments {
		l.assignments[a.ProductID] = append(l.assignments[a.ProductID], a)
	}
	return l
}

type keyedPart struct {
	key  TypeKey
	part LabelPart
}

// label builds the parts of a record's combination: the record's own
// embedded pair wins over the product's assignment for the same type.
func (l *labeler) label(r InventoryRecord) ([]LabelPart, string) {
	var parts []keyedPart
	find := func(k TypeKey) int {
		for i, p := range parts {
			if p.key == k {
				return i
			}
		}
		return -1
	}

	for _, a := range l.assignments[r.ProductID] {
		if a.AttributeValueID <= 0 && foldName(a.AttributeValueName) == "" {
			continue
		}
		k, ok := l.types.intern(a.AttributeTypeID, a.AttributeTypeName)
		if !ok || find(k) >= 0 {
			continue
		}
		parts = append(parts, keyedPart{key: k, part: LabelPart{
			TypeID:    a.AttributeTypeID,
			TypeName:  a.AttributeTypeName,
			ValueID:   a.AttributeValueID,
			ValueName: a.AttributeValueName,
		}})
	}

	if r.Tagged() {
		if k, ok := l.types.intern(r.Attribute.TypeID, r.Attribute.TypeName); ok {
			p := keyedPart{key: k, part: LabelPart{
				TypeID:    r.Attribute.TypeID,
				TypeName:  r.Attribute.TypeName,
				ValueID:   r.Attribute.ValueID,
				ValueName: r.Attribute.ValueName,
			}}
			if i := find(k); i >= 0 {
				parts[i] = p
			} else {
				parts = append(parts, p)
			}
		}
	}

	if schema, ok := l.schemas[r.ProductID]; ok {
		parts = l.orderBySchema(parts, schema)
	}

	out := make([]LabelPart, 0, len(parts))
	var combo strings.Builder
	for _, p := range parts {
		ref := l.types.ref(p.key)
		if p.part.TypeID == 0 {
			p.part.TypeID = ref.ID
		}
		if p.part.TypeName == "" {
			p.part.TypeName = ref.Name
		}
		out = append(out, p.part)

		vk := valueKeyOf(p.part.ValueID, p.part.ValueName)
		combo.WriteString(strconv.Itoa(int(p.key)))
		combo.WriteByte('=')
		if vk.ID > 0 {
			combo.WriteString(strconv.FormatInt(vk.ID, 10))
		} else {
			combo.WriteString("n:" + vk.Name)
		}
		combo.WriteByte('|')
	}
	return out, combo.String()
}

// orderBySchema sorts parts by schema position and fills in value IDs and
// names the raw rows lacked. Types outside the schema keep their order
// after the schema dimensions.
func (l *labeler) orderBySchema(parts []keyedPart, schema *SchemaIndex) []keyedPart {
	rank := func(p keyedPart) int {
		if pos, ok := schema.PositionOf(p.part.TypeID, p.part.TypeName); ok {
			return pos
		}
		ref := l.types.ref(p.key)
		if pos, ok := schema.PositionOf(ref.ID, ref.Name); ok {
			return pos
		}
		return MaxDimensions
	}
	sort.SliceStable(parts, func(i, j int) bool { return rank(parts[i]) < rank(parts[j]) })

	for i := range parts {
		pos := rank(parts[i])
		if pos >= schema.Len() {
			continue
		}
		p := &parts[i].part
		p.ValueID = schema.ValueIDOf(pos, p.ValueID, p.ValueName)
		if p.ValueName == "" {
			p.ValueName = schema.ValueName(pos, p.ValueID)
		}
		if p.TypeID == 0 {
			p.TypeID = schema.Dimension(pos).Type.ID
		}
		if p.TypeName == "" {
			p.TypeName = schema.Dimension(pos).Type.Name
		}
	}
	return parts
}
