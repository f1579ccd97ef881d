package variant

import (
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// MaxDimensions is the largest number of dimensions a schema carries.
const MaxDimensions = 2

// ValueSource records where a dimension's values came from.
type ValueSource string

const (
	// SourceRecords means values were observed on inventory records.
	SourceRecords ValueSource = "records"
	// SourceAssignments means values came from product attribute assignments.
	SourceAssignments ValueSource = "assignments"
	// SourceCatalog means values are the full catalog of the attribute type.
	SourceCatalog ValueSource = "catalog"
)

// Dimension is one reconciled attribute dimension with its available values.
type Dimension struct {
	Type         AttributeTypeRef `json:"type"`
	Required     bool             `json:"required"`
	DisplayOrder int              `json:"display_order"`
	Values       []AttributeValue `json:"values"`
	Source       ValueSource      `json:"source"`

	// Synthesized is set when no category link defined this dimension.
	Synthesized bool `json:"synthesized,omitempty"`
}

// HasValue reports whether the value ID is among the dimension's values.
func (d Dimension) HasValue(valueID int64) bool {
	for _, v := range d.Values {
		if v.ID == valueID {
			return true
		}
	}
	return false
}

// Schema is the canonical per-product attribute schema.
type Schema struct {
	CategoryID int64 `json:"category_id"`
	ProductID  int64 `json:"product_id"`

	// Dimensions are ordered ascending by display order; at most MaxDimensions.
	Dimensions []Dimension `json:"dimensions"`

	// Version fingerprints the dimensions and their values.
	Version string `json:"version"`

	// Degraded names the upstream sources that failed while fetching.
	Degraded []string `json:"degraded,omitempty"`
}

// IsEmpty reports whether the product has a single, attribute-less variant.
func (s *Schema) IsEmpty() bool {
	return s == nil || len(s.Dimensions) == 0
}

func fingerprint(dims []Dimension) string {
	var b strings.Builder
	for _, d := range dims {
		b.WriteString(strconv.FormatInt(d.Type.ID, 10))
		b.WriteByte('|')
		b.WriteString(foldName(d.Type.Name))
		b.WriteByte('|')
		b.WriteString(strconv.Itoa(d.DisplayOrder))
		b.WriteByte('|')
		for _, v := range d.Values {
			b.WriteString(strconv.FormatInt(v.ID, 10))
			b.WriteByte(':')
			b.WriteString(foldName(v.DisplayName))
			b.WriteByte(',')
		}
		b.WriteByte(';')
	}
	return strconv.FormatUint(xxhash.Sum64String(b.String()), 16)
}

// SchemaIndex exposes a reconciled schema as an ordered list of dimensions
// and resolves type identifiers found on raw rows to dimension positions.
// It is immutable after construction and safe for concurrent use.
type SchemaIndex struct {
	schema    *Schema
	types     *typeTable
	positions map[TypeKey]int
	keys      []TypeKey
	synthetic map[int64]int
}

// syntheticID is the key of the i-th name-only entry. Database identifiers
// are positive, so the two never collide.
func syntheticID(i int) int64 {
	return -int64(i) - 1
}

// NewSchemaIndex builds the index for a schema. A nil schema is treated as empty.
func NewSchemaIndex(schema *Schema) *SchemaIndex {
	if schema == nil {
		schema = &Schema{}
	}
	idx := &SchemaIndex{
		schema:    schema,
		types:     newTypeTable(),
		positions: make(map[TypeKey]int, len(schema.Dimensions)),
		keys:      make([]TypeKey, len(schema.Dimensions)),
		synthetic: make(map[int64]int),
	}
	for i, d := range schema.Dimensions {
		id := d.Type.ID
		if id < 0 {
			idx.synthetic[id] = i
			id = 0
		}
		k, ok := idx.types.intern(id, d.Type.Name)
		if !ok {
			// Unaddressable dimension; reserve a key no row can resolve to.
			k = TypeKey(-1 - i)
		}
		idx.positions[k] = i
		idx.keys[i] = k
	}
	return idx
}

// Schema returns the indexed schema.
func (x *SchemaIndex) Schema() *Schema {
	return x.schema
}

// Len returns the number of dimensions.
func (x *SchemaIndex) Len() int {
	return len(x.schema.Dimensions)
}

// Dimensions returns the ordered dimensions.
func (x *SchemaIndex) Dimensions() []Dimension {
	return x.schema.Dimensions
}

// Dimension returns the dimension at position i.
func (x *SchemaIndex) Dimension(i int) Dimension {
	return x.schema.Dimensions[i]
}

// Position returns the position of the dimension with the given type ID.
// Name-only dimensions are addressed by their negative synthetic ID.
func (x *SchemaIndex) Position(typeID int64) (int, bool) {
	return x.PositionOf(typeID, "")
}

// PositionOf resolves a possibly partial (id, name) pair to a dimension position.
func (x *SchemaIndex) PositionOf(typeID int64, typeName string) (int, bool) {
	_, pos, ok := x.resolve(typeID, typeName)
	return pos, ok
}

func (x *SchemaIndex) resolve(typeID int64, typeName string) (TypeKey, int, bool) {
	if typeID < 0 {
		pos, ok := x.synthetic[typeID]
		if !ok {
			return 0, 0, false
		}
		return x.keys[pos], pos, true
	}
	k, ok := x.types.lookup(typeID, typeName)
	if !ok {
		return 0, 0, false
	}
	pos, ok := x.positions[k]
	return k, pos, ok
}

func (x *SchemaIndex) keyAt(pos int) TypeKey {
	return x.keys[pos]
}

// Discriminating returns the position of the dimension stored on inventory
// records (the last one), or false for an empty schema.
func (x *SchemaIndex) Discriminating() (int, bool) {
	if x.Len() == 0 {
		return 0, false
	}
	return x.Len() - 1, true
}

// ValueIDOf maps a possibly name-only value to its ID within dimension pos.
// Name-only values map to their synthetic ID. Values unknown to the schema
// keep their own ID (zero when absent).
func (x *SchemaIndex) ValueIDOf(pos int, valueID int64, valueName string) int64 {
	if valueID != 0 {
		return valueID
	}
	n := foldName(valueName)
	if n == "" || pos < 0 || pos >= x.Len() {
		return 0
	}
	for _, v := range x.schema.Dimensions[pos].Values {
		if foldName(v.DisplayName) == n {
			return v.ID
		}
	}
	return 0
}

// ValueName returns the display name of valueID within dimension pos.
func (x *SchemaIndex) ValueName(pos int, valueID int64) string {
	if pos < 0 || pos >= x.Len() {
		return ""
	}
	for _, v := range x.schema.Dimensions[pos].Values {
		if v.ID == valueID {
			return v.DisplayName
		}
	}
	return ""
}
