package ir

// Kind tags the variant held by a Value.
type Kind int

const (
	KindScalar Kind = iota
	KindList
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return "scalar"
	}
}

// Value is rule metadata: a scalar, a list or an ordered map.
// Scalars hold nil, bool, string, int64 or float64.
type Value struct {
	kind   Kind
	scalar any
	list   []Value
	m      *Map
}

func Scalar(v any) Value {
	switch n := v.(type) {
	case int:
		v = int64(n)
	case int32:
		v = int64(n)
	case uint:
		v = int64(n)
	case float32:
		v = float64(n)
	}
	return Value{kind: KindScalar, scalar: v}
}

func List(items ...Value) Value {
	return Value{kind: KindList, list: items}
}

func MapOf(m *Map) Value {
	if m == nil {
		m = NewMap()
	}
	return Value{kind: KindMap, m: m}
}

// EmptyMap is the metadata of rules that carry no configuration.
func EmptyMap() Value { return MapOf(NewMap()) }

func (v Value) Kind() Kind              { return v.kind }
func (v Value) Interface() any          { return v.scalar }
func (v Value) Items() []Value          { return append([]Value(nil), v.list...) }
func (v Value) IsMap() bool             { return v.kind == KindMap }
func (v Value) IsList() bool            { return v.kind == KindList }
func (v Value) AsMap() (*Map, bool)     { return v.m, v.kind == KindMap }
func (v Value) AsList() ([]Value, bool) { return v.list, v.kind == KindList }

// Equal reports deep equality.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindList:
		if len(v.list) != len(o.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(o.list[i]) {
				return false
			}
		}
		return true
	case KindMap:
		return v.m.Equal(o.m)
	default:
		return v.scalar == o.scalar
	}
}

// Map is a string-keyed mapping that remembers insertion order.
type Map struct {
	keys []string
	vals map[string]Value
}

func NewMap() *Map {
	return &Map{vals: map[string]Value{}}
}

// Set adds or replaces key. A replaced key keeps its original position.
func (m *Map) Set(key string, v Value) {
	if _, ok := m.vals[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.vals[key] = v
}

func (m *Map) Get(key string) (Value, bool) {
	if m == nil {
		return Value{}, false
	}
	v, ok := m.vals[key]
	return v, ok
}

func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.keys...)
}

func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

func (m *Map) Clone() *Map {
	out := NewMap()
	for _, k := range m.Keys() {
		out.Set(k, m.vals[k])
	}
	return out
}

// Equal compares keys, order included, and values.
func (m *Map) Equal(o *Map) bool {
	if m.Len() != o.Len() {
		return false
	}
	for i, k := range m.Keys() {
		if o.keys[i] != k || !m.vals[k].Equal(o.vals[k]) {
			return false
		}
	}
	return true
}

// Merge folds src into dst and returns a new map; neither input is modified.
//
// Keys present on one side are copied. Two maps merge recursively, two lists
// concatenate (dst items first). Every other collision is won by src. The list
// rule means repeated sets can yield duplicate list entries.
func Merge(dst, src *Map) *Map {
	out := NewMap()
	for _, k := range dst.Keys() {
		out.Set(k, dst.vals[k])
	}
	for _, k := range src.Keys() {
		sv := src.vals[k]
		if dv, ok := out.vals[k]; ok {
			out.Set(k, mergeValue(dv, sv))
			continue
		}
		out.Set(k, sv)
	}
	return out
}

func mergeValue(a, b Value) Value {
	switch {
	case a.kind == KindMap && b.kind == KindMap:
		return MapOf(Merge(a.m, b.m))
	case a.kind == KindList && b.kind == KindList:
		items := make([]Value, 0, len(a.list)+len(b.list))
		items = append(items, a.list...)
		items = append(items, b.list...)
		return List(items...)
	default:
		return b
	}
}
