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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog(t *testing.T) {
	v1 := NewSharedSymbolTable("test", 1, []string{"a"})
	v3 := NewSharedSymbolTable("test", 3, []string{"a", "b", "c"})
	other := NewSharedSymbolTable("other", 1, []string{"x"})

	cat := NewCatalog(v1, v3, other)

	assert.Equal(t, v1, cat.FindExact("test", 1))
	assert.Equal(t, v3, cat.FindExact("test", 3))
	assert.Nil(t, cat.FindExact("test", 2))
	assert.Nil(t, cat.FindExact("bogus", 1))

	assert.Equal(t, v3, cat.FindLatest("test"))
	assert.Equal(t, other, cat.FindLatest("other"))
	assert.Nil(t, cat.FindLatest("bogus"))

	v5 := NewSharedSymbolTable("test", 5, []string{"a", "b", "c", "d", "e"})
	cat.Add(v5)
	assert.Equal(t, v5, cat.FindLatest("test"))
}

func TestFindImport(t *testing.T) {
	v1 := NewSharedSymbolTable("test", 1, []string{"a"})
	v3 := NewSharedSymbolTable("test", 3, []string{"a", "b", "c"})
	cat := NewCatalog(v1, v3)

	// An exact match wins; otherwise the best available version; a version
	// of zero always takes the best.
	assert.Equal(t, v1, findImport(cat, "test", 1))
	assert.Equal(t, v3, findImport(cat, "test", 2))
	assert.Equal(t, v3, findImport(cat, "test", 0))
	assert.Nil(t, findImport(cat, "bogus", 1))
	assert.Nil(t, findImport(nil, "test", 1))
}

func TestReadLocalSymbolTable(t *testing.T) {
	shared := NewSharedSymbolTable("shared", 2, []string{"s1", "s2"})
	cat := NewCatalog(shared)

	r := NewReaderCat(strings.NewReader(`$ion_symbol_table::{
		imports: [{name: "shared", version: 2, max_id: 2}],
		symbols: ["foo", "bar"]
	} foo s1`), cat)

	require.True(t, r.Next())

	sym, err := r.SymbolValue()
	require.NoError(t, err)
	assert.Equal(t, "foo", *sym.Text)
	assert.Equal(t, int64(12), sym.LocalSID)

	require.True(t, r.Next())
	sym, err = r.SymbolValue()
	require.NoError(t, err)
	assert.Equal(t, "s1", *sym.Text)
	assert.Equal(t, int64(10), sym.LocalSID)
}

func TestReadLocalSymbolTableUnresolvedImport(t *testing.T) {
	r := NewReaderStr(`$ion_symbol_table::{
		imports: [{name: "missing", version: 1, max_id: 2}],
		symbols: ["foo"]
	} $10 $12`)

	require.True(t, r.Next())
	sym, err := r.SymbolValue()
	require.NoError(t, err)
	assert.Nil(t, sym.Text)
	require.NotNil(t, sym.Source)
	assert.Equal(t, "missing", *sym.Source.ImportName)
	assert.Equal(t, int64(1), sym.Source.SID)

	require.True(t, r.Next())
	sym, err = r.SymbolValue()
	require.NoError(t, err)
	assert.Equal(t, "foo", *sym.Text)
	assert.Equal(t, int64(12), sym.LocalSID)
}

func TestReadLocalSymbolTableAppend(t *testing.T) {
	r := NewReaderStr(`$ion_symbol_table::{symbols: ["a"]}
		$ion_symbol_table::{imports: $ion_symbol_table, symbols: ["b"]}
		$10 $11`)

	require.True(t, r.Next())
	sym, err := r.SymbolValue()
	require.NoError(t, err)
	assert.Equal(t, "a", *sym.Text)

	require.True(t, r.Next())
	sym, err = r.SymbolValue()
	require.NoError(t, err)
	assert.Equal(t, "b", *sym.Text)
	assert.Equal(t, int64(11), sym.LocalSID)
}
