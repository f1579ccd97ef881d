package variant

import "strings"

// AttributeTypeRef is the normalized reference to an attribute type.
// Legacy rows may identify a type by ID, by name, or both; a ref carries
// whatever was learned about the type across all rows of a batch.
type AttributeTypeRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Matches reports whether the given identifier pair denotes this type.
// IDs are compared when both sides have one; names otherwise.
func (r AttributeTypeRef) Matches(id int64, name string) bool {
	if r.ID > 0 && id > 0 {
		return r.ID == id
	}
	n := foldName(name)
	return n != "" && n == foldName(r.Name)
}

// TypeKey is the canonical key of an interned attribute type.
// It is the arena index handed out by typeTable, so lookups never
// compare raw identifiers twice.
type TypeKey int

// ValueKey identifies a value within a type: its ID when known, else its folded name.
type ValueKey struct {
	ID   int64
	Name string
}

func valueKeyOf(id int64, name string) ValueKey {
	if id > 0 {
		return ValueKey{ID: id}
	}
	return ValueKey{Name: foldName(name)}
}

// productTypeKey is the composite key (product, attribute type).
type productTypeKey struct {
	ProductID int64
	Type      TypeKey
}

// groupKey is the composite key (product, branch).
type groupKey struct {
	ProductID int64
	BranchID  int64
}

func foldName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// typeTable is an arena of attribute type refs indexed by ID and by folded name.
type typeTable struct {
	refs   []AttributeTypeRef
	byID   map[int64]TypeKey
	byName map[string]TypeKey
}

func newTypeTable() *typeTable {
	return &typeTable{
		byID:   make(map[int64]TypeKey),
		byName: make(map[string]TypeKey),
	}
}

// intern returns the key for the type, registering it when unseen.
// A name-only entry is upgraded in place once its ID becomes known.
// ok is false when neither an ID nor a name is present.
func (t *typeTable) intern(id int64, name string) (TypeKey, bool) {
	n := foldName(name)
	if id <= 0 && n == "" {
		return 0, false
	}

	if id > 0 {
		if k, found := t.byID[id]; found {
			if n != "" {
				if _, named := t.byName[n]; !named {
					t.byName[n] = k
				}
				if t.refs[k].Name == "" {
					t.refs[k].Name = strings.TrimSpace(name)
				}
			}
			return k, true
		}
	}

	if n != "" {
		if k, found := t.byName[n]; found {
			if id > 0 {
				if t.refs[k].ID == 0 {
					t.refs[k].ID = id
					t.byID[id] = k
					return k, true
				}
				// Same name, different ID: a distinct type.
			} else {
				return k, true
			}
		}
	}

	k := TypeKey(len(t.refs))
	t.refs = append(t.refs, AttributeTypeRef{ID: id, Name: strings.TrimSpace(name)})
	if id > 0 {
		t.byID[id] = k
	}
	if n != "" {
		if _, taken := t.byName[n]; !taken {
			t.byName[n] = k
		}
	}
	return k, true
}

// lookup finds a previously interned type without registering it.
func (t *typeTable) lookup(id int64, name string) (TypeKey, bool) {
	if id > 0 {
		if k, ok := t.byID[id]; ok {
			return k, true
		}
	}
	if n := foldName(name); n != "" {
		if k, ok := t.byName[n]; ok {
			// A name hit on a type with a different known ID is not a match.
			if id > 0 && t.refs[k].ID > 0 && t.refs[k].ID != id {
				return 0, false
			}
			return k, true
		}
	}
	return 0, false
}

func (t *typeTable) ref(k TypeKey) AttributeTypeRef {
	return t.refs[k]
}

// valueTable collects the distinct values of one type in first-seen order.
type valueTable struct {
	values []AttributeValue
	byID   map[int64]int
	byName map[string]int
}

func newValueTable() *valueTable {
	return &valueTable{
		byID:   make(map[int64]int),
		byName: make(map[string]int),
	}
}

// add registers a value, merging ID and name information with an existing
// entry. It returns false for an empty value.
func (v *valueTable) add(val AttributeValue) bool {
	n := foldName(val.DisplayName)
	if val.ID <= 0 && n == "" {
		return false
	}
	if idx, ok := v.find(val.ID, val.DisplayName); ok {
		cur := &v.values[idx]
		if cur.ID == 0 && val.ID > 0 {
			cur.ID = val.ID
			v.byID[val.ID] = idx
		}
		if cur.DisplayName == "" && val.DisplayName != "" {
			cur.DisplayName = val.DisplayName
			v.byName[n] = idx
		}
		return true
	}
	idx := len(v.values)
	v.values = append(v.values, val)
	if val.ID > 0 {
		v.byID[val.ID] = idx
	}
	if n != "" {
		if _, taken := v.byName[n]; !taken {
			v.byName[n] = idx
		}
	}
	return true
}

func (v *valueTable) find(id int64, name string) (int, bool) {
	if id > 0 {
		if idx, ok := v.byID[id]; ok {
			return idx, true
		}
	}
	if n := foldName(name); n != "" {
		if idx, ok := v.byName[n]; ok {
			if id > 0 && v.values[idx].ID > 0 && v.values[idx].ID != id {
				return 0, false
			}
			return idx, true
		}
	}
	return 0, false
}

func (v *valueTable) size() int {
	return len(v.values)
}
