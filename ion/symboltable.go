/*
 * Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License").
 * You may not use this file except in compliance with the License.
 * A copy of the License is located at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * or in the "license" file accompanying this file. This file is distributed
 * on an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either
 * express or implied. See the License for the specific language governing
 * permissions and limitations under the License.
 */

package ion

import (
	"strings"
)

// A SymbolTable maps binary-representation symbol IDs to
// text-representation strings and vice versa.
type SymbolTable interface {
	// Imports returns the shared symbol tables this table imports.
	Imports() []SharedSymbolTable
	// Symbols returns the symbols this symbol table defines locally.
	Symbols() []string
	// MaxID returns the maximum ID this symbol table defines.
	MaxID() uint64
	// Find finds the SymbolToken by its name.
	Find(symbol string) *SymbolToken
	// FindByName finds the lowest ID of a symbol by its name.
	FindByName(symbol string) (uint64, bool)
	// FindByID finds the name of a symbol given its ID.
	FindByID(id uint64) (string, bool)
	// SourceByID returns the import location that would define the given ID
	// when its text is unknown, or nil when the text is known or the ID is
	// out of range.
	SourceByID(id uint64) *ImportLocation
	// WriteTo serializes the symbol table to an ion.Writer.
	WriteTo(w Writer) error
	// String returns an ion text representation of the symbol table.
	String() string
}

// A SharedSymbolTable is distributed out-of-band and referenced from
// a local SymbolTable to save space. Once built it is frozen.
type SharedSymbolTable interface {
	SymbolTable

	// Name returns the name of this shared symbol table.
	Name() string
	// Version returns the version of this shared symbol table.
	Version() int
	// Adjust returns a new shared symbol table limited or extended to the
	// given max ID.
	Adjust(maxID uint64) SharedSymbolTable
}

// The system symbols of Ion 1.0, SIDs one through nine.
const (
	symbolTextIon         = "$ion"
	symbolTextIon10       = "$ion_1_0"
	symbolTextTable       = "$ion_symbol_table"
	symbolTextName        = "name"
	symbolTextVersion     = "version"
	symbolTextImports     = "imports"
	symbolTextSymbols     = "symbols"
	symbolTextMaxID       = "max_id"
	symbolTextSharedTable = "$ion_shared_symbol_table"

	symbolIDIon10       = 2
	symbolIDTable       = 3
	symbolIDSharedTable = 9
)

// Addressable copies for use in SymbolToken literals.
var (
	textTable       = symbolTextTable
	textSharedTable = symbolTextSharedTable
)

// V1SystemSymbolTable is the (implied) system symbol table for Ion v1.0.
var V1SystemSymbolTable = NewSharedSymbolTable(symbolTextIon, 1, []string{
	symbolTextIon,
	symbolTextIon10,
	symbolTextTable,
	symbolTextName,
	symbolTextVersion,
	symbolTextImports,
	symbolTextSymbols,
	symbolTextMaxID,
	symbolTextSharedTable,
})

// indexSymbols builds the name-to-SID index for a run of symbols whose
// first element has ID first. The lowest ID for a name wins; empty text is
// not indexed.
func indexSymbols(symbols []string, first uint64) map[string]uint64 {
	index := make(map[string]uint64, len(symbols))
	for i, sym := range symbols {
		if sym == "" {
			continue
		}
		if _, taken := index[sym]; !taken {
			index[sym] = first + uint64(i)
		}
	}
	return index
}

// An sst is an ordinary shared symbol table: a frozen, named, versioned
// run of symbols with IDs starting at one. Its maxID may exceed the
// symbols it actually defines (an Adjust-grown table), in which case the
// tail IDs have unknown text attributed to this table.
type sst struct {
	name    string
	version int
	symbols []string
	index   map[string]uint64
	maxID   uint64
}

// NewSharedSymbolTable creates a new shared symbol table.
func NewSharedSymbolTable(name string, version int, symbols []string) SharedSymbolTable {
	syms := append([]string{}, symbols...)
	return &sst{
		name:    name,
		version: version,
		symbols: syms,
		index:   indexSymbols(syms, 1),
		maxID:   uint64(len(syms)),
	}
}

func (s *sst) Name() string    { return s.name }
func (s *sst) Version() int    { return s.version }
func (s *sst) MaxID() uint64   { return s.maxID }
func (s *sst) Imports() []SharedSymbolTable { return nil }

func (s *sst) Symbols() []string {
	syms := make([]string, s.maxID)
	copy(syms, s.symbols)
	return syms
}

func (s *sst) Adjust(maxID uint64) SharedSymbolTable {
	switch {
	case maxID == s.maxID:
		return s

	case maxID > uint64(len(s.symbols)):
		// Only the ID space changes; the index still holds.
		clone := *s
		clone.maxID = maxID
		return &clone

	default:
		// Drop the tail symbols and rebuild the index without them.
		syms := s.symbols[:maxID]
		return &sst{
			name:    s.name,
			version: s.version,
			symbols: syms,
			index:   indexSymbols(syms, 1),
			maxID:   maxID,
		}
	}
}

func (s *sst) Find(sym string) *SymbolToken {
	if _, ok := s.index[sym]; !ok {
		return nil
	}
	tok := NewSymbolTokenFromString(sym)
	return &tok
}

func (s *sst) FindByName(sym string) (uint64, bool) {
	id, ok := s.index[sym]
	return id, ok
}

func (s *sst) FindByID(id uint64) (string, bool) {
	if id < 1 || id > uint64(len(s.symbols)) {
		return "", false
	}
	return s.symbols[id-1], true
}

func (s *sst) SourceByID(id uint64) *ImportLocation {
	if id < 1 || id > s.maxID || id <= uint64(len(s.symbols)) {
		// Out of range, or the text is known.
		return nil
	}
	return &ImportLocation{ImportName: &s.name, SID: int64(id)}
}

func (s *sst) WriteTo(w Writer) error {
	e := tableEncoder{w: w}
	e.annotate(textSharedTable, symbolIDSharedTable)
	e.step(w.BeginStruct)
	e.strField(symbolTextName, s.name)
	e.intField(symbolTextVersion, int64(s.version))
	e.field(symbolTextSymbols)
	e.strList(s.symbols)
	e.step(w.EndStruct)
	return e.err
}

func (s *sst) String() string {
	return tableString(s)
}

// A placeholder stands in for a shared table that a local table imports
// but the catalog cannot supply. It holds the import's slice of the ID
// space so later imports and local symbols land on the right IDs; every
// ID in it has unknown text attributed to the missing table.
type placeholder struct {
	name    string
	version int
	maxID   uint64
}

var _ SharedSymbolTable = &placeholder{}

func (p *placeholder) Name() string    { return p.name }
func (p *placeholder) Version() int    { return p.version }
func (p *placeholder) MaxID() uint64   { return p.maxID }
func (p *placeholder) Imports() []SharedSymbolTable { return nil }
func (p *placeholder) Symbols() []string            { return nil }

func (p *placeholder) Adjust(maxID uint64) SharedSymbolTable {
	return &placeholder{p.name, p.version, maxID}
}

func (p *placeholder) Find(sym string) *SymbolToken      { return nil }
func (p *placeholder) FindByName(string) (uint64, bool)  { return 0, false }
func (p *placeholder) FindByID(uint64) (string, bool)    { return "", false }

func (p *placeholder) SourceByID(id uint64) *ImportLocation {
	if id < 1 || id > p.maxID {
		return nil
	}
	return &ImportLocation{ImportName: &p.name, SID: int64(id)}
}

func (p *placeholder) WriteTo(w Writer) error {
	return &UsageError{"SharedSymbolTable.WriteTo", "placeholder symbol table should never be written"}
}

func (p *placeholder) String() string {
	buf := strings.Builder{}
	w := NewTextWriter(&buf)
	e := tableEncoder{w: w}
	e.annotate(textSharedTable, symbolIDSharedTable)
	e.step(w.BeginStruct)
	e.strField(symbolTextName, p.name)
	e.intField(symbolTextVersion, int64(p.version))
	e.uintField(symbolTextMaxID, p.maxID)
	e.step(w.EndStruct)
	return buf.String()
}

// An importSpan is one import's slice of a local table's ID space: the
// table, and the ID just before the slice begins.
type importSpan struct {
	table SharedSymbolTable
	base  uint64
}

// buildSpans lays the imports out left to right, prepending the system
// table if it isn't already first, and returns the spans along with the
// highest imported ID.
func buildSpans(imports []SharedSymbolTable) ([]importSpan, uint64) {
	withSystem := imports
	if len(imports) == 0 || imports[0].Name() != symbolTextIon {
		withSystem = append([]SharedSymbolTable{V1SystemSymbolTable}, imports...)
	}

	spans := make([]importSpan, 0, len(withSystem))
	next := uint64(0)
	for _, imp := range withSystem {
		spans = append(spans, importSpan{imp, next})
		next += imp.MaxID()
	}

	return spans, next
}

// An lst is a local symbol table: the table in scope while reading or
// writing one stream. The imported spans own IDs one through importMax;
// locally defined symbols follow.
type lst struct {
	spans     []importSpan
	importMax uint64
	symbols   []string
	index     map[string]uint64
}

// NewLocalSymbolTable creates a new local symbol table.
func NewLocalSymbolTable(imports []SharedSymbolTable, symbols []string) SymbolTable {
	spans, importMax := buildSpans(imports)
	syms := append([]string{}, symbols...)

	return &lst{
		spans:     spans,
		importMax: importMax,
		symbols:   syms,
		index:     indexSymbols(syms, importMax+1),
	}
}

func (t *lst) Imports() []SharedSymbolTable {
	imps := make([]SharedSymbolTable, len(t.spans))
	for i, sp := range t.spans {
		imps[i] = sp.table
	}
	return imps
}

func (t *lst) Symbols() []string {
	return append([]string{}, t.symbols...)
}

func (t *lst) MaxID() uint64 {
	return t.importMax + uint64(len(t.symbols))
}

// spanFor locates the import span that owns the given ID.
func (t *lst) spanFor(id uint64) importSpan {
	for _, sp := range t.spans {
		if id <= sp.base+sp.table.MaxID() {
			return sp
		}
	}
	panic("id beyond the imported ranges")
}

func (t *lst) Find(sym string) *SymbolToken {
	if _, ok := t.FindByName(sym); !ok {
		return nil
	}
	tok := NewSymbolTokenFromString(sym)
	return &tok
}

func (t *lst) FindByName(sym string) (uint64, bool) {
	for _, sp := range t.spans {
		if id, ok := sp.table.FindByName(sym); ok {
			return sp.base + id, true
		}
	}

	id, ok := t.index[sym]
	return id, ok
}

func (t *lst) FindByID(id uint64) (string, bool) {
	switch {
	case id < 1:
		return "", false

	case id <= t.importMax:
		sp := t.spanFor(id)
		return sp.table.FindByID(id - sp.base)

	case id <= t.MaxID():
		return t.symbols[id-t.importMax-1], true

	default:
		return "", false
	}
}

func (t *lst) SourceByID(id uint64) *ImportLocation {
	if id < 1 || id > t.importMax {
		return nil
	}
	sp := t.spanFor(id)
	return sp.table.SourceByID(id - sp.base)
}

func (t *lst) WriteTo(w Writer) error {
	shared := t.spans[1:]
	if len(shared) == 0 && len(t.symbols) == 0 {
		// A table that says nothing is omitted entirely.
		return nil
	}

	e := tableEncoder{w: w}
	e.annotate(textTable, symbolIDTable)
	e.step(w.BeginStruct)

	if len(shared) > 0 {
		e.field(symbolTextImports)
		e.step(w.BeginList)
		for _, sp := range shared {
			e.step(w.BeginStruct)
			e.strField(symbolTextName, sp.table.Name())
			e.intField(symbolTextVersion, int64(sp.table.Version()))
			e.uintField(symbolTextMaxID, sp.table.MaxID())
			e.step(w.EndStruct)
		}
		e.step(w.EndList)
	}

	if len(t.symbols) > 0 {
		e.field(symbolTextSymbols)
		e.strList(t.symbols)
	}

	e.step(w.EndStruct)
	return e.err
}

func (t *lst) String() string {
	return tableString(t)
}

func tableString(t SymbolTable) string {
	buf := strings.Builder{}
	_ = t.WriteTo(NewTextWriter(&buf))
	return buf.String()
}

// A tableEncoder drives a Writer through the shape of a symbol-table
// struct, latching the first error so call sites stay flat.
type tableEncoder struct {
	w   Writer
	err error
}

func (e *tableEncoder) step(f func() error) {
	if e.err == nil {
		e.err = f()
	}
}

func (e *tableEncoder) annotate(text string, sid int64) {
	e.step(func() error {
		return e.w.Annotation(SymbolToken{Text: &text, LocalSID: sid})
	})
}

func (e *tableEncoder) field(name string) {
	e.step(func() error {
		return e.w.FieldName(NewSymbolTokenFromString(name))
	})
}

func (e *tableEncoder) strField(name, val string) {
	e.field(name)
	e.step(func() error { return e.w.WriteString(val) })
}

func (e *tableEncoder) intField(name string, val int64) {
	e.field(name)
	e.step(func() error { return e.w.WriteInt(val) })
}

func (e *tableEncoder) uintField(name string, val uint64) {
	e.field(name)
	e.step(func() error { return e.w.WriteUint(val) })
}

func (e *tableEncoder) strList(vals []string) {
	e.step(e.w.BeginList)
	for _, val := range vals {
		e.step(func() error { return e.w.WriteString(val) })
	}
	e.step(e.w.EndList)
}

// A SymbolTableBuilder helps you iteratively build a local symbol table.
type SymbolTableBuilder interface {
	SymbolTable

	// Add interns a symbol into this symbol table, returning its ID and
	// whether it was not already present.
	Add(symbol string) (uint64, bool)
	// Build creates an immutable local symbol table from the current state.
	Build() SymbolTable
}

type symbolTableBuilder struct {
	lst
}

// NewSymbolTableBuilder creates a new symbol table builder with the given imports.
func NewSymbolTableBuilder(imports ...SharedSymbolTable) SymbolTableBuilder {
	spans, importMax := buildSpans(imports)
	return &symbolTableBuilder{lst{
		spans:     spans,
		importMax: importMax,
		index:     map[string]uint64{},
	}}
}

func (b *symbolTableBuilder) Add(symbol string) (uint64, bool) {
	if id, ok := b.FindByName(symbol); ok {
		return id, false
	}

	b.symbols = append(b.symbols, symbol)
	id := b.importMax + uint64(len(b.symbols))
	b.index[symbol] = id
	return id, true
}

func (b *symbolTableBuilder) Build() SymbolTable {
	return NewLocalSymbolTable(b.Imports(), b.symbols)
}
