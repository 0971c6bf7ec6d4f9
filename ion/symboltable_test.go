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

func testFindByName(t *testing.T, st SymbolTable, sym string, eid uint64) {
	id, ok := st.FindByName(sym)
	if eid == 0 {
		assert.False(t, ok, "unexpectedly found %v", sym)
		return
	}
	require.True(t, ok, "did not find %v", sym)
	assert.Equal(t, eid, id)
}

func testFindByID(t *testing.T, st SymbolTable, id uint64, etext string) {
	text, ok := st.FindByID(id)
	if etext == "" {
		assert.False(t, ok, "unexpectedly resolved $%v", id)
		return
	}
	require.True(t, ok, "did not resolve $%v", id)
	assert.Equal(t, etext, text)
}

func TestSharedSymbolTable(t *testing.T) {
	st := NewSharedSymbolTable("test", 2, []string{
		"abc",
		"def",
		"foo'bar",
		"null",
		"def",
		"ghi",
	})

	assert.Equal(t, "test", st.Name())
	assert.Equal(t, 2, st.Version())
	assert.Equal(t, 6, int(st.MaxID()))

	testFindByName(t, st, "def", 2)
	testFindByName(t, st, "null", 4)
	testFindByName(t, st, "bogus", 0)

	testFindByID(t, st, 0, "")
	testFindByID(t, st, 2, "def")
	testFindByID(t, st, 4, "null")
	testFindByID(t, st, 7, "")

	assert.Equal(t,
		`$ion_shared_symbol_table::{name:"test",version:2,symbols:["abc","def","foo'bar","null","def","ghi"]}`,
		st.String())
}

func TestSharedSymbolTableAdjust(t *testing.T) {
	st := NewSharedSymbolTable("test", 1, []string{"a", "b", "c"})

	grown := st.Adjust(5)
	assert.Equal(t, uint64(5), grown.MaxID())
	testFindByID(t, grown, 3, "c")
	testFindByID(t, grown, 5, "")
	require.NotNil(t, grown.SourceByID(5))
	assert.Equal(t, int64(5), grown.SourceByID(5).SID)

	shrunk := st.Adjust(2)
	assert.Equal(t, uint64(2), shrunk.MaxID())
	testFindByID(t, shrunk, 2, "b")
	testFindByID(t, shrunk, 3, "")
	testFindByName(t, shrunk, "c", 0)
}

func TestLocalSymbolTable(t *testing.T) {
	st := NewLocalSymbolTable(nil, []string{"foo", "bar"})

	assert.Equal(t, 11, int(st.MaxID()))

	testFindByName(t, st, "$ion", 1)
	testFindByName(t, st, "foo", 10)
	testFindByName(t, st, "bar", 11)
	testFindByName(t, st, "bogus", 0)

	testFindByID(t, st, 0, "")
	testFindByID(t, st, 1, "$ion")
	testFindByID(t, st, 10, "foo")
	testFindByID(t, st, 11, "bar")
	testFindByID(t, st, 12, "")

	assert.Equal(t, `$ion_symbol_table::{symbols:["foo","bar"]}`, st.String())
}

func TestLocalSymbolTableWithImports(t *testing.T) {
	shared := NewSharedSymbolTable("shared", 1, []string{"foo", "bar"})
	st := NewLocalSymbolTable([]SharedSymbolTable{shared}, []string{"foo2", "bar2"})

	assert.Equal(t, 13, int(st.MaxID()))

	testFindByName(t, st, "$ion_symbol_table", 3)
	testFindByName(t, st, "foo", 10)
	testFindByName(t, st, "bar", 11)
	testFindByName(t, st, "foo2", 12)
	testFindByName(t, st, "bar2", 13)

	testFindByID(t, st, 9, "$ion_shared_symbol_table")
	testFindByID(t, st, 10, "foo")
	testFindByID(t, st, 11, "bar")
	testFindByID(t, st, 12, "foo2")
	testFindByID(t, st, 13, "bar2")

	assert.Equal(t,
		`$ion_symbol_table::{imports:[{name:"shared",version:1,max_id:2}],symbols:["foo2","bar2"]}`,
		st.String())
}

func TestSymbolTableSoundness(t *testing.T) {
	// Every defined text maps back to an SID that resolves to it, and every
	// SID up to maxID either resolves or carries an import location.
	bogus := &placeholder{name: "missing", version: 1, maxID: 3}
	shared := NewSharedSymbolTable("shared", 1, []string{"a", "b"})
	st := NewLocalSymbolTable([]SharedSymbolTable{bogus, shared}, []string{"x", "y"})

	for id := uint64(1); id <= st.MaxID(); id++ {
		text, ok := st.FindByID(id)
		if !ok {
			require.NotNil(t, st.SourceByID(id), "sid %v has neither text nor source", id)
			continue
		}

		sid, ok := st.FindByName(text)
		require.True(t, ok, "text %v does not map back", text)

		rt, ok := st.FindByID(sid)
		require.True(t, ok)
		assert.Equal(t, text, rt)
	}
}

func TestSymbolTableBuilder(t *testing.T) {
	b := NewSymbolTableBuilder()

	id, added := b.Add("foo")
	assert.True(t, added)
	assert.Equal(t, uint64(10), id)

	id, added = b.Add("foo")
	assert.False(t, added)
	assert.Equal(t, uint64(10), id)

	id, added = b.Add("name")
	assert.False(t, added)
	assert.Equal(t, uint64(4), id)

	st := b.Build()
	assert.Equal(t, uint64(10), st.MaxID())
	testFindByID(t, st, 10, "foo")
}
