package lang

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDictionary_Set(t *testing.T) {
	d := NewDictionary("D")
	d.Set("B", NewInteger(big.NewInt(1)))
	d.Set("A", NewString("a"))
	d.Set("B", NewString("b"))

	assert.Equal(t, 2, d.Len())
	assert.Equal(t, []string{"B", "A"}, d.Keys())

	v, ok := d.Get("B")
	require.True(t, ok)
	assert.Equal(t, "b", v.Text())

	_, ok = d.Get("C")
	assert.False(t, ok)

	var zero Dictionary
	zero.Set("K", NewString("v"))
	assert.Equal(t, []string{"K"}, zero.Keys())
}

func TestDocument_Define(t *testing.T) {
	doc := NewDocument()
	doc.Define(NewDictionary("B"))
	doc.Define(NewDictionary("A"))

	replacement := NewDictionary("B")
	replacement.Set("K", NewString("v"))
	doc.Define(replacement)

	assert.Equal(t, []string{"B", "A"}, doc.Names())

	got, ok := doc.Dictionary("B")
	require.True(t, ok)
	assert.Same(t, replacement, got)

	var visited []string
	for d := range doc.All() {
		visited = append(visited, d.Name)

		break
	}

	assert.Equal(t, []string{"B"}, visited)
}

func TestValue_Native(t *testing.T) {
	huge, _ := new(big.Int).SetString("123456789012345678901234567890", 10)

	assert.Equal(t, 7, NewInteger(big.NewInt(7)).ToNative())
	assert.Equal(t, 0, (&Value{Type: TypeInteger}).ToNative())
	assert.Equal(t, huge, NewInteger(huge).ToNative())
	assert.NotSame(t, huge, NewInteger(huge).ToNative())
	assert.Equal(t, "s", NewString("s").ToNative())
	assert.Equal(t, map[string]any{}, NewNested(nil).ToNative())
	assert.Equal(t, "", NewNested(NewDocument()).Text())
}

func TestType_String(t *testing.T) {
	assert.Equal(t, "Integer", TypeInteger.String())
	assert.Equal(t, "String", TypeString.String())
	assert.Equal(t, "Dictionary", TypeDictionary.String())
	assert.Equal(t, "Unknown", Type(99).String())
}

func TestLookup(t *testing.T) {
	doc := mustParse(t, server+nested).Document

	tests := []struct {
		path string
		typ  Type
		text string
	}{
		{"SERVER.PORT", TypeInteger, "8080"},
		{"SERVER.HOST", TypeString, "localhost"},
		{"OUTER.N.INNER.X", TypeInteger, "1"},
		{"OUTER.N", TypeDictionary, ""},
		{"OUTER.N.SIBLING", TypeDictionary, ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			v, err := doc.Lookup(tt.path)
			require.NoError(t, err)

			assert.Equal(t, tt.typ, v.Type)
			assert.Equal(t, tt.text, v.Text())
		})
	}

	v, err := doc.Lookup("SERVER")
	require.NoError(t, err)
	require.Equal(t, TypeDictionary, v.Type)
	assert.Equal(t, []string{"SERVER"}, v.Dict.Names())
}

func TestLookup_NotFound(t *testing.T) {
	doc := mustParse(t, server+nested).Document

	tests := []struct {
		path    string
		suggest string
	}{
		{"SERVR.PORT", "SERVER"},
		{"SERVER.PROT", "PORT"},
		{"OUTER.N.INER.X", "INNER"},
		{"SERVER.PORT.X", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			_, err := doc.Lookup(tt.path)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrPathNotFound)

			if tt.suggest != "" {
				assert.Contains(t, err.Error(), "did you mean "+tt.suggest)
			}
		})
	}
}

func TestSuggest(t *testing.T) {
	names := []string{"SERVER", "SERVICE", "CLIENT", "SCHEMA", "SESSION"}

	assert.Equal(t, []string{"SERVER"}, Suggest("SERVR", names))
	assert.Len(t, Suggest("S", names), 3)
	assert.Equal(t, []string{"CLIENT"}, Suggest("cx", []string{"CLIENT", "SERVER"}))
	assert.Empty(t, Suggest("Q", names))
	assert.Empty(t, Suggest("", nil))
}
