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
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadTextScalars(t *testing.T) {
	r := NewReaderStr(`null null.int true 42 4.2e1 4.2d-1 2020-01-01T00:00:00Z sym "str" {{aGVsbG8=}}`)

	next := func(et Type) {
		require.True(t, r.Next(), "next failed; err=%v", r.Err())
		assert.Equal(t, et, r.Type())
	}

	next(NullType)
	assert.True(t, r.IsNull())

	next(IntType)
	assert.True(t, r.IsNull())

	next(BoolType)
	b, err := r.BoolValue()
	require.NoError(t, err)
	assert.True(t, *b)

	next(IntType)
	i, err := r.Int64Value()
	require.NoError(t, err)
	assert.Equal(t, int64(42), *i)

	next(FloatType)
	f, err := r.FloatValue()
	require.NoError(t, err)
	assert.Equal(t, 42.0, *f)

	next(DecimalType)
	d, err := r.DecimalValue()
	require.NoError(t, err)
	assert.True(t, d.Equal(MustParseDecimal("0.42")))

	next(TimestampType)
	ts, err := r.TimestampValue()
	require.NoError(t, err)
	assert.True(t, ts.Equal(MustParseTimestamp("2020-01-01T00:00:00Z")))

	next(SymbolType)
	sym, err := r.SymbolValue()
	require.NoError(t, err)
	assert.Equal(t, "sym", *sym.Text)

	next(StringType)
	s, err := r.StringValue()
	require.NoError(t, err)
	assert.Equal(t, "str", *s)

	next(BlobType)
	bs, err := r.ByteValue()
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), bs)

	assert.False(t, r.Next())
	require.NoError(t, r.Err())

	// Next keeps returning false at the end of the stream.
	assert.False(t, r.Next())
}

func TestReadTextFloats(t *testing.T) {
	r := NewReaderStr(`+inf -inf nan 1e0`)

	read := func() float64 {
		require.True(t, r.Next())
		f, err := r.FloatValue()
		require.NoError(t, err)
		return *f
	}

	assert.True(t, math.IsInf(read(), 1))
	assert.True(t, math.IsInf(read(), -1))
	assert.True(t, math.IsNaN(read()))
	assert.Equal(t, 1.0, read())
}

func TestReadTextBigInts(t *testing.T) {
	r := NewReaderStr(`123456789012345678901234567890 0x2_0000_0000_0000_0000`)

	require.True(t, r.Next())
	size, err := r.IntSize()
	require.NoError(t, err)
	assert.Equal(t, BigInt, size)

	i, err := r.BigIntValue()
	require.NoError(t, err)
	assert.Equal(t, "123456789012345678901234567890", i.String())

	require.True(t, r.Next())
	i, err = r.BigIntValue()
	require.NoError(t, err)
	assert.Equal(t, 66, i.BitLen())
}

func TestReadTextContainers(t *testing.T) {
	r := NewReaderStr(`[1, [2, 3], {a: 4, b: (5 + 6)}] 7`)

	require.True(t, r.Next())
	require.Equal(t, ListType, r.Type())
	require.NoError(t, r.StepIn())
	assert.Equal(t, 1, r.Depth())

	require.True(t, r.Next())
	i, _ := r.Int64Value()
	assert.Equal(t, int64(1), *i)

	require.True(t, r.Next())
	require.Equal(t, ListType, r.Type())
	require.NoError(t, r.StepIn())
	require.True(t, r.Next())
	// Step out without reading the rest of the inner list.
	require.NoError(t, r.StepOut())

	require.True(t, r.Next())
	require.Equal(t, StructType, r.Type())
	require.NoError(t, r.StepIn())

	require.True(t, r.Next())
	fn, err := r.FieldName()
	require.NoError(t, err)
	assert.Equal(t, "a", *fn.Text)

	require.True(t, r.Next())
	fn, err = r.FieldName()
	require.NoError(t, err)
	assert.Equal(t, "b", *fn.Text)
	require.Equal(t, SexpType, r.Type())

	require.NoError(t, r.StepIn())
	require.True(t, r.Next())
	i, _ = r.Int64Value()
	assert.Equal(t, int64(5), *i)

	require.True(t, r.Next())
	require.Equal(t, SymbolType, r.Type())
	op, err := r.SymbolValue()
	require.NoError(t, err)
	assert.Equal(t, "+", *op.Text)

	require.NoError(t, r.StepOut())
	require.NoError(t, r.StepOut())
	require.NoError(t, r.StepOut())

	require.True(t, r.Next())
	i, _ = r.Int64Value()
	assert.Equal(t, int64(7), *i)
}

func TestReadTextAnnotations(t *testing.T) {
	r := NewReaderStr(`a::b::42 'c d'::foo`)

	require.True(t, r.Next())
	as, err := r.Annotations()
	require.NoError(t, err)
	require.Len(t, as, 2)
	assert.Equal(t, "a", *as[0].Text)
	assert.Equal(t, "b", *as[1].Text)

	ok, err := r.HasAnnotation("a")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = r.HasAnnotation("z")
	require.NoError(t, err)
	assert.False(t, ok)

	require.True(t, r.Next())
	as, err = r.Annotations()
	require.NoError(t, err)
	require.Len(t, as, 1)
	assert.Equal(t, "c d", *as[0].Text)
}

func TestReadTextIVM(t *testing.T) {
	// A bare $ion_1_0 at the top level is a no-op version marker; quoting
	// makes it an ordinary symbol.
	r := NewReaderStr(`$ion_1_0 42 '$ion_1_0'`)

	require.True(t, r.Next())
	require.Equal(t, IntType, r.Type())

	require.True(t, r.Next())
	require.Equal(t, SymbolType, r.Type())
	sym, err := r.SymbolValue()
	require.NoError(t, err)
	assert.Equal(t, "$ion_1_0", *sym.Text)

	assert.False(t, r.Next())
	require.NoError(t, r.Err())
}

func TestReadTextSymbolTable(t *testing.T) {
	// Scenario: the first local symbol lands at SID 10.
	r := NewReaderStr(`'$ion_symbol_table'::{symbols:["foo"]} foo`)

	require.True(t, r.Next())
	sym, err := r.SymbolValue()
	require.NoError(t, err)
	assert.Equal(t, "foo", *sym.Text)
	assert.Equal(t, int64(10), sym.LocalSID)

	text, ok := r.SymbolTable().FindByID(10)
	require.True(t, ok)
	assert.Equal(t, "foo", text)
}

func TestReadTextSystemValuesAreInvisible(t *testing.T) {
	r := NewReaderStr(`$ion_symbol_table::{symbols:["a","b"]} 42`)

	require.True(t, r.Next())
	require.Equal(t, IntType, r.Type())
	i, err := r.Int64Value()
	require.NoError(t, err)
	assert.Equal(t, int64(42), *i)
}

func TestReadTextReturnSystemValues(t *testing.T) {
	r := NewReaderOpts(strings.NewReader(`$ion_symbol_table::{symbols:["a"]} 42`),
		ReaderOptions{ReturnSystemValues: true})

	require.True(t, r.Next())
	require.Equal(t, StructType, r.Type())
	ok, err := r.HasAnnotation("$ion_symbol_table")
	require.NoError(t, err)
	assert.True(t, ok)

	require.True(t, r.Next())
	require.Equal(t, IntType, r.Type())
}

func TestReadTextFieldNamesBySID(t *testing.T) {
	r := NewReaderStr(`{$4: x, '$4': y}`)

	require.True(t, r.Next())
	require.NoError(t, r.StepIn())

	require.True(t, r.Next())
	fn, err := r.FieldName()
	require.NoError(t, err)
	assert.Equal(t, "name", *fn.Text)
	assert.Equal(t, int64(4), fn.LocalSID)

	require.True(t, r.Next())
	fn, err = r.FieldName()
	require.NoError(t, err)
	assert.Equal(t, "$4", *fn.Text)
}

func TestReadTextDepthLimit(t *testing.T) {
	r := NewReaderOpts(strings.NewReader(`[[[1]]]`), ReaderOptions{MaxContainerDepth: 2})

	require.True(t, r.Next())
	require.NoError(t, r.StepIn())
	require.True(t, r.Next())
	require.NoError(t, r.StepIn())
	require.True(t, r.Next())
	assert.Error(t, r.StepIn())
}

func TestReadTextAnnotationLimit(t *testing.T) {
	r := NewReaderOpts(strings.NewReader(`a::b::c::42`), ReaderOptions{MaxAnnotationCount: 2})

	assert.False(t, r.Next())
	assert.Error(t, r.Err())
}

func TestReadTextErrors(t *testing.T) {
	bad := []string{
		`[1`,
		`{a:1`,
		`{1:2}`,
		`"unterminated`,
		`null.bogus`,
		`+ 1`, // operator outside sexp
	}

	for _, in := range bad {
		t.Run(in, func(t *testing.T) {
			r := NewReaderStr(in)
			for r.Next() {
				if IsContainer(r.Type()) && !r.IsNull() {
					require.NoError(t, r.StepIn())
				}
			}
			assert.Error(t, r.Err())
		})
	}
}
