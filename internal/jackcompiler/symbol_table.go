package jackcompiler

import "fmt"

type SymbolKind int

const (
	StaticKind SymbolKind = iota
	FieldKind
	ArgumentKind
	LocalKind
)

var symbolKindSegments = map[SymbolKind]string{
	StaticKind:   "static",
	FieldKind:    "this",
	ArgumentKind: "argument",
	LocalKind:    "local",
}

var symbolKindNames = map[SymbolKind]string{
	StaticKind:   "static",
	FieldKind:    "field",
	ArgumentKind: "argument",
	LocalKind:    "local",
}

func (kind SymbolKind) String() string {
	return symbolKindNames[kind]
}

// Segment is the vm segment variables of this kind live in.
func (kind SymbolKind) Segment() string {
	return symbolKindSegments[kind]
}

// SymbolDesc describes a declared variable. Index is dense per kind and
// follows declaration order.
type SymbolDesc struct {
	Name  string
	Type  string
	Kind  SymbolKind
	Index int
}

// Segment is the vm segment the variable lives in.
func (desc *SymbolDesc) Segment() string {
	return desc.Kind.Segment()
}

// SymbolTable is one scope: a class (statics and fields) or a subroutine
// (arguments and locals).
type SymbolTable struct {
	symbols map[string]*SymbolDesc
	counts  map[SymbolKind]int
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{symbols: map[string]*SymbolDesc{}, counts: map[SymbolKind]int{}}
}

// Insert declares name, failing when the scope already has it.
func (table *SymbolTable) Insert(name, varType string, kind SymbolKind) (*SymbolDesc, error) {
	if _, exist := table.symbols[name]; exist {
		return nil, fmt.Errorf("duplicate variable %s", name)
	}
	desc := &SymbolDesc{Name: name, Type: varType, Kind: kind, Index: table.counts[kind]}
	table.counts[kind]++
	table.symbols[name] = desc
	return desc, nil
}

func (table *SymbolTable) LookUp(name string) (*SymbolDesc, bool) {
	desc, exist := table.symbols[name]
	return desc, exist
}

// Count returns how many variables of kind are declared.
func (table *SymbolTable) Count(kind SymbolKind) int {
	return table.counts[kind]
}
