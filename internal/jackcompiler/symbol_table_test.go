package jackcompiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSymbolTableIndexes(t *testing.T) {
	table := NewSymbolTable()
	insert := func(name string, kind SymbolKind) *SymbolDesc {
		desc, err := table.Insert(name, "int", kind)
		require.Nil(t, err)
		return desc
	}
	x := insert("x", FieldKind)
	count := insert("count", StaticKind)
	y := insert("y", FieldKind)
	z := insert("z", FieldKind)
	assert.Equal(t, 0, x.Index)
	assert.Equal(t, 1, y.Index)
	assert.Equal(t, 2, z.Index)
	assert.Equal(t, 0, count.Index)
	assert.Equal(t, 3, table.Count(FieldKind))
	assert.Equal(t, 1, table.Count(StaticKind))
	assert.Equal(t, 0, table.Count(LocalKind))
	assert.Equal(t, "this", y.Segment())
	assert.Equal(t, "static", count.Segment())
}

func TestSymbolTableLookUp(t *testing.T) {
	table := NewSymbolTable()
	_, err := table.Insert("a", "Array", LocalKind)
	require.Nil(t, err)
	_, err = table.Insert("a", "int", ArgumentKind)
	assert.NotNil(t, err)

	desc, ok := table.LookUp("a")
	require.True(t, ok)
	assert.Equal(t, "Array", desc.Type)
	assert.Equal(t, LocalKind, desc.Kind)
	assert.Equal(t, "local", desc.Segment())
	_, ok = table.LookUp("b")
	assert.False(t, ok)
}

func TestSymbolKindSegments(t *testing.T) {
	assert.Equal(t, "static", StaticKind.Segment())
	assert.Equal(t, "this", FieldKind.Segment())
	assert.Equal(t, "argument", ArgumentKind.Segment())
	assert.Equal(t, "local", LocalKind.Segment())
	assert.Equal(t, "field", FieldKind.String())
}
