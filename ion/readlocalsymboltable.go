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

import "fmt"

// readLocalSymbolTable loads a local-symbol-table control value. The reader
// is positioned on a top-level struct annotated $ion_symbol_table; on
// return its contents have been consumed.
func readLocalSymbolTable(r Reader, cat Catalog) (SymbolTable, error) {
	if err := r.StepIn(); err != nil {
		return nil, err
	}

	imports := []SharedSymbolTable{}
	var locals []string
	seen := map[string]bool{}

	for r.Next() {
		name, err := r.FieldName()
		if err != nil {
			return nil, err
		}
		if name == nil || name.Text == nil {
			return nil, fmt.Errorf("ion: symbol table field name with unknown text")
		}

		field := *name.Text
		if field != symbolTextImports && field != symbolTextSymbols {
			continue
		}
		if seen[field] {
			return nil, fmt.Errorf("ion: multiple %v fields in a local symbol table", field)
		}
		seen[field] = true

		if field == symbolTextImports {
			imports, err = readTableImports(r, cat)
		} else {
			locals, err = readTableSymbols(r)
		}
		if err != nil {
			return nil, err
		}
	}

	if err := r.StepOut(); err != nil {
		return nil, err
	}

	return NewLocalSymbolTable(imports, locals), nil
}

// readTableImports reads an imports field. The symbol $ion_symbol_table in
// place of a list means the new table appends to the one in scope.
func readTableImports(r Reader, cat Catalog) ([]SharedSymbolTable, error) {
	switch r.Type() {
	case SymbolType:
		tok, err := r.SymbolValue()
		if err != nil {
			return nil, err
		}
		if tok == nil {
			return nil, nil
		}
		if tok.LocalSID == symbolIDTable || (tok.Text != nil && *tok.Text == symbolTextTable) {
			return appendableImports(r.SymbolTable()), nil
		}
		return nil, nil

	case ListType:
		if r.IsNull() {
			return nil, nil
		}

	default:
		return nil, nil
	}

	if err := r.StepIn(); err != nil {
		return nil, err
	}

	var imports []SharedSymbolTable
	for r.Next() {
		desc, ok, err := readImportDesc(r)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		imp, err := desc.resolve(cat)
		if err != nil {
			return nil, err
		}
		if imp != nil {
			imports = append(imports, imp)
		}
	}

	err := r.StepOut()
	return imports, err
}

// appendableImports renders the table currently in scope as an import
// list, exposing its local symbols through an anonymous shared table so
// their IDs carry over unchanged.
func appendableImports(cur SymbolTable) []SharedSymbolTable {
	if cur == nil || cur == V1SystemSymbolTable {
		return nil
	}
	locals := NewSharedSymbolTable("", 0, cur.Symbols())
	return append(cur.Imports(), locals)
}

// An importDesc is one parsed import descriptor: {name, version, max_id}.
type importDesc struct {
	name    string
	version int
	maxID   int64
}

// readImportDesc parses one entry of an imports list; entries that aren't
// structs are ignored.
func readImportDesc(r Reader) (importDesc, bool, error) {
	desc := importDesc{version: -1, maxID: -1}

	if r.Type() != StructType || r.IsNull() {
		return desc, false, nil
	}
	if err := r.StepIn(); err != nil {
		return desc, false, err
	}

	for r.Next() {
		name, err := r.FieldName()
		if err != nil {
			return desc, false, err
		}
		if name == nil || name.Text == nil {
			return desc, false, fmt.Errorf("ion: import field name with unknown text")
		}

		switch *name.Text {
		case symbolTextName:
			if r.Type() == StringType {
				if val, err := r.StringValue(); err != nil {
					return desc, false, err
				} else if val != nil {
					desc.name = *val
				}
			}

		case symbolTextVersion:
			if r.Type() == IntType && !r.IsNull() {
				val, err := r.Int64Value()
				if err != nil {
					return desc, false, err
				}
				desc.version = int(*val)
			}

		case symbolTextMaxID:
			if r.Type() == IntType {
				if r.IsNull() {
					return desc, false, fmt.Errorf("ion: import max_id is null")
				}
				val, err := r.Int64Value()
				if err != nil {
					return desc, false, err
				}
				desc.maxID = *val
			}
		}
	}

	return desc, true, r.StepOut()
}

// resolve turns a descriptor into an importable table: the catalog's
// match, cut or grown to the descriptor's max_id, or a placeholder
// reserving the ID space when the catalog has nothing.
func (desc importDesc) resolve(cat Catalog) (SharedSymbolTable, error) {
	if desc.name == "" || desc.name == symbolTextIon {
		return nil, nil
	}
	if desc.version < 1 {
		desc.version = 1
	}

	imp := findImport(cat, desc.name, desc.version)

	if desc.maxID < 0 {
		if imp == nil || imp.Version() != desc.version {
			return nil, fmt.Errorf("ion: import of shared table %v/%v lacks a valid max_id, "+
				"and no exact match was found in the catalog", desc.name, desc.version)
		}
		desc.maxID = int64(imp.MaxID())
	}

	if imp == nil {
		return &placeholder{desc.name, desc.version, uint64(desc.maxID)}, nil
	}
	return imp.Adjust(uint64(desc.maxID)), nil
}

// readTableSymbols reads a symbols field: a list of strings, where
// anything that isn't a string defines a SID with unknown text.
func readTableSymbols(r Reader) ([]string, error) {
	if r.Type() != ListType {
		return nil, nil
	}
	if err := r.StepIn(); err != nil {
		return nil, err
	}

	var syms []string
	for r.Next() {
		text := ""
		if r.Type() == StringType {
			val, err := r.StringValue()
			if err != nil {
				return nil, err
			}
			if val != nil {
				text = *val
			}
		}
		syms = append(syms, text)
	}

	return syms, r.StepOut()
}
