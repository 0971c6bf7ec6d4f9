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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSymbolIdentifier(t *testing.T) {
	test := func(sym string, eid int64, eok bool) {
		id, ok := symbolIdentifier(sym)
		assert.Equal(t, eok, ok, "symbol %v", sym)
		if ok {
			assert.Equal(t, eid, id)
		}
	}

	test("$1", 1, true)
	test("$1234", 1234, true)
	test("$0", 0, true)
	test("$", 0, false)
	test("$ion", 0, false)
	test("$1x", 0, false)
	test("foo", 0, false)
}

func TestNewSymbolTokenBySID(t *testing.T) {
	st, err := NewSymbolTokenBySID(V1SystemSymbolTable, 4)
	require.NoError(t, err)
	assert.Equal(t, "name", *st.Text)
	assert.Equal(t, int64(4), st.LocalSID)

	st, err = NewSymbolTokenBySID(V1SystemSymbolTable, 0)
	require.NoError(t, err)
	assert.Nil(t, st.Text)
	assert.Equal(t, int64(0), st.LocalSID)

	_, err = NewSymbolTokenBySID(V1SystemSymbolTable, -2)
	assert.Error(t, err)

	_, err = NewSymbolTokenBySID(V1SystemSymbolTable, 100)
	assert.Error(t, err)
}

func TestSymbolTokenBySIDWithImportLocation(t *testing.T) {
	// An import the catalog couldn't resolve reserves SIDs with unknown
	// text; tokens in that range carry the import location.
	bogus := &placeholder{name: "shared", version: 1, maxID: 5}
	lst := NewLocalSymbolTable([]SharedSymbolTable{bogus}, []string{"local"})

	st, err := NewSymbolTokenBySID(lst, 12)
	require.NoError(t, err)
	assert.Nil(t, st.Text)
	assert.Equal(t, int64(12), st.LocalSID)
	require.NotNil(t, st.Source)
	assert.Equal(t, "shared", *st.Source.ImportName)
	assert.Equal(t, int64(3), st.Source.SID)

	st, err = NewSymbolTokenBySID(lst, 15)
	require.NoError(t, err)
	assert.Equal(t, "local", *st.Text)
}

func TestSymbolTokenEqual(t *testing.T) {
	a := NewSymbolTokenFromString("foo")
	b := NewSymbolTokenFromString("foo")
	c := NewSymbolTokenFromString("bar")

	assert.True(t, a.Equal(&b))
	assert.False(t, a.Equal(&c))

	unknown := SymbolToken{Text: nil, LocalSID: 0}
	unknown2 := SymbolToken{Text: nil, LocalSID: 0}
	assert.True(t, unknown.Equal(&unknown2))
	assert.False(t, unknown.Equal(&a))
}
