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
	"bufio"
	"bytes"
	"io"
	"math"
	"strings"

	"github.com/cockroachdb/apd/v3"
)

const (
	defaultMaxContainerDepth  = 10
	defaultMaxAnnotationCount = 10
)

// ReaderOptions configures a Reader. The zero value is a sensible default.
type ReaderOptions struct {
	// Catalog supplies shared symbol tables for resolving imports in local
	// symbol tables found in the stream.
	Catalog Catalog

	// ReturnSystemValues makes the reader surface version markers and
	// symbol-table structs to the caller rather than consuming them
	// transparently.
	ReturnSystemValues bool

	// MaxContainerDepth bounds how deeply nested containers may be before
	// StepIn fails; zero means the default of ten.
	MaxContainerDepth int

	// MaxAnnotationCount bounds how many annotations a single value may
	// carry; zero means the default of ten.
	MaxAnnotationCount int

	// SkipCharacterValidation disables UTF-8 validation of string payloads.
	SkipCharacterValidation bool

	// DecimalContext is the context used for decimal computation, such as
	// rounding fractional seconds; nil means a default context.
	DecimalContext *apd.Context

	// ContextChangeNotifier, if set, is called with the new import list
	// whenever the symbol-table context changes: a version marker resets it
	// or the stream installs a local symbol table.
	ContextChangeNotifier func(imports []SharedSymbolTable)
}

func (o ReaderOptions) withDefaults() ReaderOptions {
	if o.MaxContainerDepth == 0 {
		o.MaxContainerDepth = defaultMaxContainerDepth
	}
	if o.MaxAnnotationCount == 0 {
		o.MaxAnnotationCount = defaultMaxAnnotationCount
	}
	if o.DecimalContext == nil {
		o.DecimalContext = defaultDecimalContext
	}
	return o
}

// A Reader reads a stream of Ion values.
//
// The Reader has a logical position within the stream of values, influencing
// the values returned from its methods. Initially, the Reader is positioned
// before the first value in the stream. A call to Next advances the Reader to
// the first value in the stream. Subsequent calls to Next advance to
// subsequent values in the stream.
//
// When the Reader is positioned over a container value, a call to StepIn moves
// the Reader so that it is positioned before the first value of the container.
// A call to StepOut will move the Reader so that it is positioned after the
// container, before the next value in the stream.
//
// When Next returns false, it's either because the end of the stream (or the
// current container) has been reached, or an error has occurred; Err
// distinguishes the two:
//
//	r := ion.NewReaderStr("[foo, bar] 42")
//	for r.Next() {
//		// ...
//	}
//	if r.Err() != nil {
//		// the stream was malformed
//	}
type Reader interface {
	// SymbolTable returns the symbol table currently in use by this Reader.
	// It is owned by the Reader and may be invalidated by further calls to
	// Next.
	SymbolTable() SymbolTable

	// Next advances the Reader to the next position in the current value
	// stream. It returns true if this is the position of an Ion value, and
	// false if it is not. On error, it returns false and sets Err.
	Next() bool

	// Err returns an error if a previous call to Next failed.
	Err() error

	// Type returns the type of the Ion value the Reader is currently
	// positioned on. It returns NoType if the Reader is positioned before or
	// after a value.
	Type() Type

	// IsNull returns true if the current value is an explicit null. This may
	// be true even if the Type is not NullType (for example, null.struct has
	// type StructType).
	IsNull() bool

	// FieldName returns the field name associated with the current value as a
	// symbol token. It returns nil if there is no current value or the value
	// has no field name.
	FieldName() (*SymbolToken, error)

	// Annotations returns the annotations associated with the current value.
	Annotations() ([]SymbolToken, error)

	// HasAnnotation reports whether the current value is annotated with the
	// given text.
	HasAnnotation(annotation string) (bool, error)

	// StepIn steps in to the current value if it is a container. It returns
	// an error if there is no current value or the value is not a container.
	// On success, the Reader is positioned before the first value in the
	// container.
	StepIn() error

	// StepOut steps out of the current container value being read. It
	// returns an error if this Reader is not currently stepped in to a
	// container. On success, the Reader is positioned after the end of the
	// container, but before any subsequent values in the stream.
	StepOut() error

	// Depth returns the number of containers the Reader is currently
	// stepped in to.
	Depth() int

	// BoolValue returns the current value as a boolean; the pointer is nil
	// if the value is null.bool. It returns an error if the current value is
	// not an Ion bool.
	BoolValue() (*bool, error)

	// IntSize returns the smallest size of integer that can losslessly hold
	// the current value.
	IntSize() (IntSize, error)

	// Int64Value returns the current value as an int64; the pointer is nil
	// if the value is null.int. It returns an error if the current value is
	// not an Ion int, or does not fit.
	Int64Value() (*int64, error)

	// BigIntValue returns the current value as an arbitrary-size Int; nil
	// if the value is null.int.
	BigIntValue() (*Int, error)

	// FloatValue returns the current value as a float64; nil if the value
	// is null.float.
	FloatValue() (*float64, error)

	// DecimalValue returns the current value as a Decimal; nil if the value
	// is null.decimal.
	DecimalValue() (*Decimal, error)

	// TimestampValue returns the current value as a Timestamp; nil if the
	// value is null.timestamp.
	TimestampValue() (*Timestamp, error)

	// StringValue returns the current value as a string; nil if the value
	// is null.string.
	StringValue() (*string, error)

	// SymbolValue returns the current value as a symbol token; nil if the
	// value is null.symbol.
	SymbolValue() (*SymbolToken, error)

	// ByteValue returns the current value as a byte slice; nil if the value
	// is a null blob or clob.
	ByteValue() ([]byte, error)
}

// NewReader creates a new Ion reader of the appropriate type by peeking at
// the first several bytes of input for a binary version marker.
func NewReader(in io.Reader) Reader {
	return NewReaderCat(in, nil)
}

// NewReaderStr creates a new reader from a string.
func NewReaderStr(str string) Reader {
	return NewReader(strings.NewReader(str))
}

// NewReaderBytes creates a new reader for the given bytes.
func NewReaderBytes(in []byte) Reader {
	return NewReader(bytes.NewReader(in))
}

// NewReaderCat creates a new reader with the given catalog.
func NewReaderCat(in io.Reader, cat Catalog) Reader {
	return NewReaderOpts(in, ReaderOptions{Catalog: cat})
}

// NewReaderOpts creates a new reader with the given options.
func NewReaderOpts(in io.Reader, opts ReaderOptions) Reader {
	br := bufio.NewReader(in)
	opts = opts.withDefaults()

	bs, err := br.Peek(4)
	if err == nil && bs[0] == 0xE0 && bs[1] == 0x01 && bs[2] == 0x00 && bs[3] == 0xEA {
		return newBinaryReaderBuf(br, opts)
	}

	return newTextReaderBuf(br, opts)
}

// A reader holds the state shared by both encodings' readers.
type reader struct {
	eof bool
	err error

	opts ReaderOptions
	lst  SymbolTable

	fieldName   *SymbolToken
	annotations []SymbolToken
	valueType   Type
	value       interface{}
}

// Err returns the current error.
func (r *reader) Err() error {
	return r.err
}

// Type returns the current value's type.
func (r *reader) Type() Type {
	return r.valueType
}

// IsNull returns true if the current value is an explicit null.
func (r *reader) IsNull() bool {
	return r.valueType != NoType && r.value == nil
}

// FieldName returns the current value's field name.
func (r *reader) FieldName() (*SymbolToken, error) {
	return r.fieldName, nil
}

// Annotations returns the current value's annotations.
func (r *reader) Annotations() ([]SymbolToken, error) {
	return r.annotations, nil
}

// HasAnnotation reports whether the current value carries the given
// annotation text.
func (r *reader) HasAnnotation(annotation string) (bool, error) {
	for _, a := range r.annotations {
		if a.Text != nil && *a.Text == annotation {
			return true, nil
		}
	}
	return false, nil
}

// SymbolTable returns the symbol table currently in scope.
func (r *reader) SymbolTable() SymbolTable {
	return r.lst
}

// setSymbolTable installs a new symbol-table context, telling the notifier
// if one is registered.
func (r *reader) setSymbolTable(st SymbolTable) {
	r.lst = st
	if r.opts.ContextChangeNotifier != nil {
		r.opts.ContextChangeNotifier(st.Imports())
	}
}

// BoolValue returns the current value as a bool.
func (r *reader) BoolValue() (*bool, error) {
	if r.valueType != BoolType {
		return nil, &UsageError{"Reader.BoolValue", "value is not a bool"}
	}
	if r.value == nil {
		return nil, nil
	}
	val := r.value.(bool)
	return &val, nil
}

// IntSize returns the size of the current int value.
func (r *reader) IntSize() (IntSize, error) {
	if r.valueType != IntType {
		return NullInt, &UsageError{"Reader.IntSize", "value is not an int"}
	}
	if r.value == nil {
		return NullInt, nil
	}

	if i, ok := r.value.(int64); ok {
		if i > math.MaxInt32 || i < math.MinInt32 {
			return Int64, nil
		}
		return Int32, nil
	}

	return BigInt, nil
}

// Int64Value returns the current value as an int64.
func (r *reader) Int64Value() (*int64, error) {
	if r.valueType != IntType {
		return nil, &UsageError{"Reader.Int64Value", "value is not an int"}
	}
	if r.value == nil {
		return nil, nil
	}

	if i, ok := r.value.(int64); ok {
		return &i, nil
	}

	i, err := r.value.(*Int).Int64()
	if err != nil {
		return nil, err
	}
	return &i, nil
}

// BigIntValue returns the current value as an arbitrary-size Int.
func (r *reader) BigIntValue() (*Int, error) {
	if r.valueType != IntType {
		return nil, &UsageError{"Reader.BigIntValue", "value is not an int"}
	}
	if r.value == nil {
		return nil, nil
	}
	if i, ok := r.value.(int64); ok {
		return NewInt(i), nil
	}
	return r.value.(*Int), nil
}

// FloatValue returns the current value as a float64.
func (r *reader) FloatValue() (*float64, error) {
	if r.valueType != FloatType {
		return nil, &UsageError{"Reader.FloatValue", "value is not a float"}
	}
	if r.value == nil {
		return nil, nil
	}
	val := r.value.(float64)
	return &val, nil
}

// DecimalValue returns the current value as a Decimal.
func (r *reader) DecimalValue() (*Decimal, error) {
	if r.valueType != DecimalType {
		return nil, &UsageError{"Reader.DecimalValue", "value is not a decimal"}
	}
	if r.value == nil {
		return nil, nil
	}
	return r.value.(*Decimal), nil
}

// TimestampValue returns the current value as a Timestamp.
func (r *reader) TimestampValue() (*Timestamp, error) {
	if r.valueType != TimestampType {
		return nil, &UsageError{"Reader.TimestampValue", "value is not a timestamp"}
	}
	if r.value == nil {
		return nil, nil
	}
	val := r.value.(Timestamp)
	return &val, nil
}

// StringValue returns the current value as a string.
func (r *reader) StringValue() (*string, error) {
	if r.valueType != StringType {
		return nil, &UsageError{"Reader.StringValue", "value is not a string"}
	}
	if r.value == nil {
		return nil, nil
	}
	val := r.value.(string)
	return &val, nil
}

// SymbolValue returns the current value as a symbol token.
func (r *reader) SymbolValue() (*SymbolToken, error) {
	if r.valueType != SymbolType {
		return nil, &UsageError{"Reader.SymbolValue", "value is not a symbol"}
	}
	if r.value == nil {
		return nil, nil
	}
	return r.value.(*SymbolToken), nil
}

// ByteValue returns the current value as a byte slice.
func (r *reader) ByteValue() ([]byte, error) {
	if r.valueType != BlobType && r.valueType != ClobType {
		return nil, &UsageError{"Reader.ByteValue", "value is not a lob"}
	}
	if r.value == nil {
		return nil, nil
	}
	return r.value.([]byte), nil
}

// clear resets the current-value state.
func (r *reader) clear() {
	r.fieldName = nil
	r.annotations = nil
	r.valueType = NoType
	r.value = nil
}
