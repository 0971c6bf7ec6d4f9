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

// A Type represents the type of an Ion value.
type Type uint8

const (
	// NoType is returned by a Reader that is not currently pointing at a value.
	NoType Type = iota

	// NullType is the type of the (unqualified) Ion null value.
	NullType

	// BoolType is the type of an Ion boolean, true or false.
	BoolType

	// IntType is the type of a signed Ion integer of arbitrary size.
	IntType

	// FloatType is the type of an Ion float, an IEEE-754 binary64.
	FloatType

	// DecimalType is the type of an arbitrary-precision Ion decimal value.
	DecimalType

	// TimestampType is the type of an Ion timestamp: a calendar instant
	// with a precision and an optional UTC offset.
	TimestampType

	// SymbolType is the type of an Ion symbol: a string that is interned
	// into a SymbolTable so the binary form can carry an integer ID.
	SymbolType

	// StringType is the type of a non-symbol Unicode string.
	StringType

	// ClobType is the type of a character large object: an arbitrary byte
	// sequence rendered in text form as an escaped-ASCII string.
	ClobType

	// BlobType is the type of a binary large object, rendered in text form
	// as a base64 string.
	BlobType

	// ListType is the type of an ordered sequence of Ion values.
	ListType

	// SexpType is the type of an s-expression. It contains an ordered
	// sequence of values like a list, but uses a lisp-like text syntax
	// and admits bare operator symbols.
	SexpType

	// StructType is the type of a mapping from symbols to Ion values.
	// Field names are not required to be unique.
	StructType
)

var typeNames = [...]string{
	NoType:        "<no type>",
	NullType:      "null",
	BoolType:      "bool",
	IntType:       "int",
	FloatType:     "float",
	DecimalType:   "decimal",
	TimestampType: "timestamp",
	SymbolType:    "symbol",
	StringType:    "string",
	ClobType:      "clob",
	BlobType:      "blob",
	ListType:      "list",
	SexpType:      "sexp",
	StructType:    "struct",
}

// String implements fmt.Stringer for Type.
func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("<unknown type %v>", uint8(t))
}

// IsScalar determines if the type is a scalar type.
func IsScalar(t Type) bool {
	return NullType <= t && t <= BlobType
}

// IsContainer determines if the type is a container type.
func IsContainer(t Type) bool {
	return ListType <= t && t <= StructType
}

// IntSize represents the smallest fixed-width representation that can
// losslessly carry an Ion integer value.
type IntSize uint8

const (
	// NullInt is the size of null.int and other things that aren't actually ints.
	NullInt IntSize = iota
	// Int32 is the size of an Ion integer that fits losslessly in an int32.
	Int32
	// Int64 is the size of an Ion integer that fits losslessly in an int64.
	Int64
	// BigInt is the size of an Ion integer that requires an arbitrary-size Int.
	BigInt
)

var intSizeNames = [...]string{
	NullInt: "null.int",
	Int32:   "int32",
	Int64:   "int64",
	BigInt:  "bigint",
}

// String implements fmt.Stringer for IntSize.
func (i IntSize) String() string {
	if int(i) < len(intSizeNames) {
		return intSizeNames[i]
	}
	return fmt.Sprintf("<unknown size %v>", uint8(i))
}
