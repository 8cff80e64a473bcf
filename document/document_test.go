package document_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/invconv/document"
)

func TestObjectOrder(t *testing.T) {
	t.Parallel()

	obj := document.NewObject()
	obj.Set("zeta", document.String("z"))
	obj.Set("alpha", document.Int(1))
	obj.Set("mid", document.Bool(true))
	obj.Set("zeta", document.String("again"))

	assert.Equal(t, []string{"zeta", "alpha", "mid"}, obj.Keys())

	out, err := document.Encode(obj, "")
	require.NoError(t, err)
	assert.JSONEq(t, `{"zeta":"again","alpha":1,"mid":true}`, string(out))
	assert.Equal(t, `{"zeta":"again","alpha":1,"mid":true}`, string(out))

	assert.True(t, obj.Delete("alpha"))
	assert.False(t, obj.Delete("alpha"))
	assert.Equal(t, []string{"zeta", "mid"}, obj.Keys())

	obj.Set("mid", nil)
	assert.False(t, obj.Has("mid"))
}

func TestNilObjectReads(t *testing.T) {
	t.Parallel()

	var obj *document.Object

	assert.Equal(t, 0, obj.Len())
	assert.False(t, obj.Has("x"))

	_, ok := obj.Get("x")
	assert.False(t, ok)

	_, ok = obj.Object("x")
	assert.False(t, ok)

	_, ok = obj.Lookup("a", "b")
	assert.False(t, ok)
}

func TestRename(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		in    map[string]any
		want  map[string]any
		moved bool
	}{
		"moves when destination absent": {
			in:    map[string]any{"macaddr": "aa"},
			want:  map[string]any{"mac": "aa"},
			moved: true,
		},
		"never clobbers destination": {
			in:   map[string]any{"macaddr": "aa", "mac": "bb"},
			want: map[string]any{"mac": "bb"},
		},
		"missing source is a no-op": {
			in:   map[string]any{"mac": "bb"},
			want: map[string]any{"mac": "bb"},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			obj, ok := document.From(tc.in).(*document.Object)
			require.True(t, ok)

			assert.Equal(t, tc.moved, obj.Rename("macaddr", "mac"))
			assert.Equal(t, tc.want, document.Native(obj))
		})
	}
}

func TestAsList(t *testing.T) {
	t.Parallel()

	single := document.From(map[string]any{"name": "cpu0"})
	list := document.AsList(single)

	require.Len(t, list, 1)
	assert.Equal(t, single, list[0])
	assert.Equal(t, list, document.AsList(list))
	assert.Nil(t, document.AsList(nil))
}

func TestLowercaseKeys(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		in   map[string]any
		want map[string]any
	}{
		"already lowercase": {
			in:   map[string]any{"a": 1, "b": 2},
			want: map[string]any{"a": int64(1), "b": int64(2)},
		},
		"top level": {
			in:   map[string]any{"A": 1, "b": 2},
			want: map[string]any{"a": int64(1), "b": int64(2)},
		},
		"nested": {
			in: map[string]any{
				"A": map[string]any{"D": 4},
				"B": 3,
				"C": []any{map[string]any{"EfG": 5}},
			},
			want: map[string]any{
				"a": map[string]any{"d": int64(4)},
				"b": int64(3),
				"c": []any{map[string]any{"efg": int64(5)}},
			},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got := document.LowercaseKeys(document.From(tc.in))
			assert.Equal(t, tc.want, document.Native(got))
		})
	}
}

func TestEncodeNoHTMLEscape(t *testing.T) {
	t.Parallel()

	obj := document.NewObject()
	obj.Set("description", document.String("<b>R&D</b>"))
	obj.Set("list", document.List{document.Float(1.5), document.Int(2)})

	out, err := document.Encode(obj, "    ")
	require.NoError(t, err)
	assert.Contains(t, string(out), `"<b>R&D</b>"`)
	assert.Contains(t, string(out), "\n    \"list\": [")

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, []any{1.5, float64(2)}, decoded["list"])
}

func TestCloneIsDeep(t *testing.T) {
	t.Parallel()

	orig, ok := document.From(map[string]any{
		"content": map[string]any{"cpus": []any{map[string]any{"name": "a"}}},
	}).(*document.Object)
	require.True(t, ok)

	cp := orig.Clone()
	cpus, ok := cp.Lookup("content", "cpus")
	require.True(t, ok)

	cpu, ok := cpus.(document.List)[0].(*document.Object)
	require.True(t, ok)
	cpu.Set("name", document.String("b"))

	name, ok := orig.Lookup("content", "cpus")
	require.True(t, ok)

	origCPU, ok := name.(document.List)[0].(*document.Object)
	require.True(t, ok)

	got, _ := origCPU.Text("name")
	assert.Equal(t, "a", got)
}
