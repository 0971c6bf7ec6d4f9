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

import "strconv"

// SymbolIDUnknown is the SID of a symbol token whose ID has not been
// determined (for example, a token built directly from text).
const SymbolIDUnknown = -1

// A SymbolToken is the representation of an Ion symbol: its text, if known,
// the local symbol ID it maps to, and, when the text is unknown because it
// lives in a shared table missing from the catalog, the import location that
// would define it. SID zero is the canonical unknown-text symbol.
type SymbolToken struct {
	Text     *string
	LocalSID int64
	Source   *ImportLocation
}

// NewSymbolTokenFromString builds a symbol token from text alone.
func NewSymbolTokenFromString(text string) SymbolToken {
	return SymbolToken{Text: &text, LocalSID: SymbolIDUnknown}
}

// Equal reports whether two symbol tokens represent the same symbol. Tokens
// with known text compare by text; tokens without compare by SID and source.
func (st *SymbolToken) Equal(o *SymbolToken) bool {
	if st.Text == nil && o.Text == nil {
		if st.Source == nil || o.Source == nil {
			return st.LocalSID == o.LocalSID && st.Source == o.Source
		}
		return st.LocalSID == o.LocalSID && st.Source.Equal(o.Source)
	}
	if st.Text == nil || o.Text == nil {
		return false
	}
	return *st.Text == *o.Text
}

// String implements fmt.Stringer for SymbolToken.
func (st SymbolToken) String() string {
	if st.Text != nil {
		return *st.Text
	}
	if st.LocalSID != SymbolIDUnknown {
		return "$" + strconv.FormatInt(st.LocalSID, 10)
	}
	return "<nil>"
}

// symbolIdentifier reports whether sym is of the form $N for a run of decimal
// digits N, returning the N. Such text refers to a symbol ID rather than being
// symbol content itself; quoting suppresses the interpretation.
func symbolIdentifier(sym string) (int64, bool) {
	if len(sym) < 2 || sym[0] != '$' {
		return 0, false
	}

	id := int64(0)
	for i := 1; i < len(sym); i++ {
		c := sym[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		id = id*10 + int64(c-'0')
	}

	return id, true
}

// NewSymbolTokenBySID resolves a symbol ID against the given symbol table,
// producing a token with the table's text for that ID, or an unknown-text
// token qualified by an import location when the table cannot supply one.
func NewSymbolTokenBySID(st SymbolTable, sid int64) (SymbolToken, error) {
	if sid < 0 {
		return SymbolToken{}, &InvalidSymbolError{sid}
	}
	if sid == 0 {
		return SymbolToken{Text: nil, LocalSID: 0}, nil
	}

	if st != nil {
		if text, ok := st.FindByID(uint64(sid)); ok {
			return SymbolToken{Text: &text, LocalSID: sid}, nil
		}
		if sid <= int64(st.MaxID()) {
			return SymbolToken{Text: nil, LocalSID: sid, Source: st.SourceByID(uint64(sid))}, nil
		}
	}

	return SymbolToken{}, &InvalidSymbolError{sid}
}

// newSymbolToken builds a token from raw symbol text, interpreting $N symbol
// identifiers by resolving them through the given table.
func newSymbolToken(st SymbolTable, text string) (SymbolToken, error) {
	if sid, ok := symbolIdentifier(text); ok {
		return NewSymbolTokenBySID(st, sid)
	}

	if st != nil {
		if sid, ok := st.FindByName(text); ok {
			return SymbolToken{Text: &text, LocalSID: int64(sid)}, nil
		}
	}

	return SymbolToken{Text: &text, LocalSID: SymbolIDUnknown}, nil
}
