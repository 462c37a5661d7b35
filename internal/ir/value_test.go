package ir

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func mustJSON(t *testing.T, s string) Value {
	t.Helper()
	var v Value
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}

func mapOf(t *testing.T, s string) *Map {
	t.Helper()
	m, ok := mustJSON(t, s).AsMap()
	require.True(t, ok, s)
	return m
}

func TestJSONKeepsKeyOrder(t *testing.T) {
	in := `{"z":1,"a":{"y":[1,2.5,"x",null,true],"b":{}},"m":"s"}`
	v := mustJSON(t, in)
	out, err := json.Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, in, string(out))
}

func TestJSONNumbers(t *testing.T) {
	v := mustJSON(t, `[120, 1.5, 12345678901234]`)
	items := v.Items()
	require.Len(t, items, 3)
	assert.Equal(t, int64(120), items[0].Interface())
	assert.Equal(t, 1.5, items[1].Interface())
	assert.Equal(t, int64(12345678901234), items[2].Interface())
}

func TestScalarNormalizesInts(t *testing.T) {
	assert.True(t, Scalar(3).Equal(Scalar(int64(3))))
	assert.False(t, Scalar(3).Equal(Scalar("3")))
}

func TestMapSetKeepsPosition(t *testing.T) {
	m := NewMap()
	m.Set("a", Scalar(1))
	m.Set("b", Scalar(2))
	m.Set("a", Scalar(3))
	assert.Equal(t, []string{"a", "b"}, m.Keys())
	v, ok := m.Get("a")
	require.True(t, ok)
	assert.Equal(t, int64(3), v.Interface())
}

func TestMapEqualIsOrderSensitive(t *testing.T) {
	assert.True(t, mapOf(t, `{"a":1,"b":2}`).Equal(mapOf(t, `{"a":1,"b":2}`)))
	assert.False(t, mapOf(t, `{"a":1,"b":2}`).Equal(mapOf(t, `{"b":2,"a":1}`)))
}

func TestMerge(t *testing.T) {
	tests := []struct {
		name     string
		dst, src string
		want     string
	}{
		{"disjoint keys", `{"a":1}`, `{"b":2}`, `{"a":1,"b":2}`},
		{"scalar collision src wins", `{"a":1}`, `{"a":2}`, `{"a":2}`},
		{"maps merge recursively", `{"a":{"x":1,"y":1}}`, `{"a":{"y":2,"z":3}}`, `{"a":{"x":1,"y":2,"z":3}}`},
		{"lists concatenate", `{"a":[1,2]}`, `{"a":[2,3]}`, `{"a":[1,2,2,3]}`},
		{"map replaced by scalar", `{"a":{"x":1}}`, `{"a":true}`, `{"a":true}`},
		{"scalar replaced by list", `{"a":false}`, `{"a":[1]}`, `{"a":[1]}`},
		{"empty dst", `{}`, `{"a":{}}`, `{"a":{}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(MapOf(Merge(mapOf(t, tt.dst), mapOf(t, tt.src))))
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestMergeDoesNotModifyInputs(t *testing.T) {
	dst := mapOf(t, `{"a":{"x":1},"l":[1]}`)
	src := mapOf(t, `{"a":{"y":2},"l":[2]}`)
	_ = Merge(dst, src)

	out, err := json.Marshal(MapOf(dst))
	require.NoError(t, err)
	assert.Equal(t, `{"a":{"x":1},"l":[1]}`, string(out))
}

func TestFromYAML(t *testing.T) {
	var n yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte(`
array_syntax:
  syntax: short
binary_operator_spaces: true
ordered_imports:
  sort_algorithm: alpha
  imports_order: [class, function, const]
weird: .inf
`), &n))
	v, err := FromYAML(&n)
	require.NoError(t, err)

	out, err := json.Marshal(v)
	require.NoError(t, err)
	assert.Equal(t,
		`{"array_syntax":{"syntax":"short"},"binary_operator_spaces":true,"ordered_imports":{"sort_algorithm":"alpha","imports_order":["class","function","const"]},"weird":".inf"}`,
		string(out))
}
