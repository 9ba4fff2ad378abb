// Package functable implements FunctionTable: registered function
// signatures keyed by insertion order, which is also the function index
// used by CALL and the .functions listing.
package functable

import "cc0/internal/types"

// Entry is one registered function.
type Entry struct {
	Name         string
	ReturnType   types.Type
	ParamTypes   []types.Type
	NameConstIdx int // index of Name in the ConstantPool
	ParamSlots   int // sum of param type widths
	Level        int // lexical level the function was declared at (always 0)
}

// Table is an append-only, name-unique registry.
type Table struct {
	entries []*Entry
	byName  map[string]int
}

func New() *Table {
	return &Table{byName: make(map[string]int)}
}

// IsDeclared reports whether name is already registered.
func (t *Table) IsDeclared(name string) bool {
	_, ok := t.byName[name]
	return ok
}

// Declare registers a new function. Callers must check IsDeclared first;
// the translator turns a would-be duplicate into a CompilationError
// before ever calling Declare. Returns the function's index and its
// parameter slot count.
func (t *Table) Declare(name string, nameConstIdx int, ret types.Type, params []types.Type, level int) (index int, paramSlots int) {
	paramSlots = types.WidthOf(params)
	e := &Entry{
		Name:         name,
		ReturnType:   ret,
		ParamTypes:   params,
		NameConstIdx: nameConstIdx,
		ParamSlots:   paramSlots,
		Level:        level,
	}
	index = len(t.entries)
	t.entries = append(t.entries, e)
	t.byName[name] = index
	return index, paramSlots
}

// Lookup resolves a function name to its index.
func (t *Table) Lookup(name string) (index int, ok bool) {
	i, ok := t.byName[name]
	return i, ok
}

// Signature returns the return type and parameter types of function idx.
func (t *Table) Signature(idx int) (types.Type, []types.Type) {
	e := t.entries[idx]
	return e.ReturnType, e.ParamTypes
}

// Entry returns the full registered entry for function idx, used by the
// asm and objfile emitters to print the .functions section.
func (t *Table) Entry(idx int) *Entry {
	return t.entries[idx]
}

func (t *Table) Len() int { return len(t.entries) }
