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
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/cockroachdb/apd/v3"
)

// The type codes of the binary encoding: the high nibble of every type
// descriptor byte.
const (
	tidNull       = 0x0 // also NOP padding
	tidBool       = 0x1
	tidPosInt     = 0x2
	tidNegInt     = 0x3
	tidFloat      = 0x4
	tidDecimal    = 0x5
	tidTimestamp  = 0x6
	tidSymbol     = 0x7
	tidString     = 0x8
	tidClob       = 0x9
	tidBlob       = 0xA
	tidList       = 0xB
	tidSexp       = 0xC
	tidStruct     = 0xD
	tidAnnotation = 0xE
	tidReserved   = 0xF
)

// tidTypes maps type codes to the abstract Ion types.
var tidTypes = [16]Type{
	NullType, BoolType, IntType, IntType,
	FloatType, DecimalType, TimestampType, SymbolType,
	StringType, ClobType, BlobType, ListType,
	SexpType, StructType, NoType, NoType,
}

// nullLength marks a typed null in a descriptor's low nibble, and
// varLength defers the length to a following varUint.
const (
	varLength  = 0x0E
	nullLength = 0x0F
)

// A binParent records an open container: its type and the absolute stream
// offset at which it ends, so the cursor can stop exactly at the boundary.
type binParent struct {
	typ Type
	end uint64
}

// A binaryReader reads binary Ion. The cursor advances through exactly one
// of two states: positioned before a type descriptor, or positioned before
// the unconsumed payload of the value just described. Scalar payloads are
// decoded as soon as the descriptor is understood; container payloads wait
// for StepIn, or are skipped wholesale.
type binaryReader struct {
	reader

	in      *bufio.Reader
	pos     uint64
	parents []binParent

	// valLen is the unconsumed payload of the current value; nonzero only
	// for containers the caller hasn't stepped in to.
	valLen uint64

	// annotWrapEnd, while nonzero, is the absolute offset at which the
	// value wrapped by the current annotation wrapper must end.
	annotWrapEnd uint64

	resetPos     uint64
	validateUTF8 bool
}

func newBinaryReaderBuf(in *bufio.Reader, opts ReaderOptions) Reader {
	r := &binaryReader{
		in:           in,
		validateUTF8: !opts.SkipCharacterValidation,
	}
	r.opts = opts
	r.lst = V1SystemSymbolTable
	return r
}

const invalidReset uint64 = 1<<64 - 1

// Reset rewinds the reader to just past the point where the stream's local
// symbol table was established, so the same bytes can be read again without
// re-parsing the preamble. It only works when the input carried at most one
// local symbol table, and only with the same bytes the reader was created
// with.
func (r *binaryReader) Reset(in []byte) error {
	if r.resetPos == invalidReset {
		return &UsageError{"Reader.Reset", "cannot reset when multiple local symbol tables found"}
	}

	r.clear()
	r.err = nil
	r.eof = false
	r.parents = nil
	r.valLen = 0
	r.annotWrapEnd = 0
	r.pos = 0
	r.in = bufio.NewReader(bytes.NewReader(in[r.resetPos:]))
	return nil
}

// Depth returns the number of containers stepped in to.
func (r *binaryReader) Depth() int {
	return len(r.parents)
}

// parent returns the innermost open container.
func (r *binaryReader) parent() binParent {
	return r.parents[len(r.parents)-1]
}

// remaining returns the bytes left before the innermost container's end.
func (r *binaryReader) remaining() uint64 {
	if len(r.parents) == 0 {
		return math.MaxUint64
	}
	return r.parent().end - r.pos
}

// Next moves the reader to the next value.
func (r *binaryReader) Next() bool {
	if r.eof || r.err != nil {
		return false
	}

	r.clear()

	for {
		done, err := r.next()
		if err != nil {
			r.err = err
			return false
		}
		if done {
			return !r.eof
		}
	}
}

// next parses one slot of the stream: a value, a system value, padding, or
// the end of the enclosing container. It returns true when it has produced
// something for the caller.
func (r *binaryReader) next() (bool, error) {
	// Step over a container the caller never entered.
	if r.valLen > 0 {
		if err := r.skipN(r.valLen); err != nil {
			return false, err
		}
		r.valLen = 0
	}

	if len(r.parents) > 0 && r.pos == r.parent().end {
		r.eof = true
		return true, nil
	}

	// Inside a struct every value is preceded by its field's symbol ID.
	if r.container() == StructType && r.fieldName == nil {
		sid, _, err := r.readVarUint()
		if err != nil {
			return false, err
		}
		name, err := NewSymbolTokenBySID(r.lst, int64(sid))
		if err != nil {
			return false, err
		}
		r.fieldName = &name
	}

	var c int
	if len(r.parents) == 0 {
		var err error
		if c, err = r.readByteOrEOF(); err != nil {
			return false, err
		}
		if c == -1 {
			r.eof = true
			return true, nil
		}
	} else {
		b, err := r.readByte()
		if err != nil {
			return false, err
		}
		c = int(b)
	}

	tid := byte(c) >> 4
	low := byte(c) & 0x0F

	switch {
	case tid == tidReserved:
		return false, &InvalidTagByteError{byte(c), r.pos - 1}

	case tid == tidAnnotation && low == 0:
		// The version marker E0 01 00 EA.
		if len(r.parents) > 0 {
			return false, &SyntaxError{"version marker inside a container", r.pos - 1}
		}
		return r.readIVM()

	case tid == tidAnnotation:
		return false, r.beginAnnotations(low)

	case tid == tidNull && low != nullLength:
		// NOP padding carries no value.
		if r.annotWrapEnd != 0 {
			return false, &SyntaxError{"an annotation cannot wrap a NOP pad", r.pos - 1}
		}
		length, err := r.lengthOf(low)
		if err != nil {
			return false, err
		}
		if length > r.remaining() {
			return false, &UnexpectedEOFError{r.pos}
		}
		// A padded slot in a struct annuls its field name.
		r.fieldName = nil
		return false, r.skipN(length)
	}

	return r.readValue(tid, low)
}

// container returns the type of the innermost open container.
func (r *binaryReader) container() Type {
	if len(r.parents) == 0 {
		return NoType
	}
	return r.parent().typ
}

// readIVM consumes the three bytes after an 0xE0 and applies the version
// marker.
func (r *binaryReader) readIVM() (bool, error) {
	var rest [3]byte
	if err := r.readInto(rest[:]); err != nil {
		return false, err
	}

	if rest[2] != 0xEA {
		msg := fmt.Sprintf("invalid version marker: 0xE0 0x%02X 0x%02X 0x%02X", rest[0], rest[1], rest[2])
		return false, &SyntaxError{msg, r.pos - 4}
	}
	if rest[0] != 0x01 || rest[1] != 0x00 {
		return false, &UnsupportedVersionError{int(rest[0]), int(rest[1]), r.pos - 4}
	}

	r.setSymbolTable(V1SystemSymbolTable)

	if r.opts.ReturnSystemValues {
		st, err := NewSymbolTokenBySID(r.lst, symbolIDIon10)
		if err != nil {
			return false, err
		}
		r.valueType = SymbolType
		r.value = &st
		return true, nil
	}
	return false, nil
}

// beginAnnotations consumes an annotation wrapper's header: its length,
// the annotation SIDs, and the bookkeeping that lets the enclosed value be
// validated against the wrapper's claim.
func (r *binaryReader) beginAnnotations(low byte) error {
	if r.annotWrapEnd != 0 {
		return &SyntaxError{"an annotation cannot wrap another annotation", r.pos - 1}
	}
	if low == nullLength {
		return &InvalidTagByteError{0xE0 | low, r.pos - 1}
	}

	length, err := r.lengthOf(low)
	if err != nil {
		return err
	}
	end := r.pos + length
	if length > r.remaining() {
		return &UnexpectedEOFError{r.pos}
	}

	// The SIDs, prefixed by their total encoded size.
	sidLen, _, err := r.readVarUint()
	if err != nil {
		return err
	}
	if sidLen == 0 {
		return &SyntaxError{"annotation wrapper with an empty annotation list", r.pos}
	}

	var as []SymbolToken
	stop := r.pos + sidLen
	for r.pos < stop {
		sid, _, err := r.readVarUint()
		if err != nil {
			return err
		}
		if len(as) >= r.opts.MaxAnnotationCount {
			msg := fmt.Sprintf("value has more than %v annotations", r.opts.MaxAnnotationCount)
			return &SyntaxError{msg, r.pos}
		}
		tok, err := NewSymbolTokenBySID(r.lst, int64(sid))
		if err != nil {
			return err
		}
		as = append(as, tok)
	}

	if r.pos >= end {
		// No room left for the value the wrapper claims to hold.
		return &SyntaxError{"annotation wrapper without an enclosed value", r.pos}
	}

	r.annotations = as
	r.annotWrapEnd = end
	return nil
}

// readValue decodes the value introduced by the given descriptor. The
// prospective extent of every value is checked against the enclosing
// container and, when present, against the annotation wrapper's claim.
func (r *binaryReader) readValue(tid, low byte) (bool, error) {
	typ := tidTypes[tid]

	if low == nullLength {
		if err := r.endWrapper(0); err != nil {
			return false, err
		}
		r.valueType = typ
		r.value = nil
		return true, nil
	}

	// Booleans store their value, not a length, in the low nibble.
	if tid == tidBool {
		if low > 1 {
			return false, &InvalidTagByteError{tid<<4 | low, r.pos - 1}
		}
		if err := r.endWrapper(0); err != nil {
			return false, err
		}
		r.valueType = BoolType
		r.value = low == 1
		return true, nil
	}

	length, err := r.lengthOf(low)
	if err != nil {
		return false, err
	}

	if tid == tidStruct && low == 1 {
		// The sorted-struct form: the length is always a varUint, and the
		// struct may not be empty.
		length, _, err = r.readVarUint()
		if err != nil {
			return false, err
		}
		if length == 0 {
			return false, &SyntaxError{"sorted structs cannot be empty", r.pos - 1}
		}
	}

	if length > r.remaining() {
		return false, &UnexpectedEOFError{r.pos}
	}
	if err := r.endWrapper(length); err != nil {
		return false, err
	}

	switch tid {
	case tidPosInt, tidNegInt:
		return true, r.decodeInt(tid == tidNegInt, length)

	case tidFloat:
		return true, r.decodeFloat(length)

	case tidDecimal:
		val, err := r.decodeDecimal(length)
		if err != nil {
			return false, err
		}
		r.valueType = DecimalType
		r.value = val
		return true, nil

	case tidTimestamp:
		val, err := r.decodeTimestamp(length)
		if err != nil {
			return false, err
		}
		r.valueType = TimestampType
		r.value = val
		return true, nil

	case tidSymbol:
		return r.decodeSymbol(length)

	case tidString:
		return true, r.decodeString(length)

	case tidClob, tidBlob:
		bs, err := r.readN(length)
		if err != nil {
			return false, err
		}
		r.valueType = tidTypes[tid]
		r.value = bs
		return true, nil

	case tidList, tidSexp, tidStruct:
		r.valueType = typ
		r.value = typ
		r.valLen = length

		// A top-level struct annotated $ion_symbol_table is a symbol
		// table for the values that follow.
		if len(r.parents) == 0 && isIonSymbolTable(r.annotations) && !r.opts.ReturnSystemValues {
			st, err := readLocalSymbolTable(r, r.opts.Catalog)
			if err != nil {
				return false, err
			}
			r.setSymbolTable(st)
			if r.resetPos == 0 {
				r.resetPos = r.pos
			} else {
				r.resetPos = invalidReset
			}
			r.clear()
			return false, nil
		}

		return true, nil
	}

	panic(fmt.Sprintf("unhandled type code %v", tid))
}

// endWrapper checks the value now being produced against the annotation
// wrapper enclosing it, if any: the value must land exactly on the
// wrapper's declared end.
func (r *binaryReader) endWrapper(valueLen uint64) error {
	if r.annotWrapEnd == 0 {
		return nil
	}
	if r.pos+valueLen != r.annotWrapEnd {
		msg := fmt.Sprintf("annotation wrapper leaves %d bytes for a value of length %d",
			r.annotWrapEnd-r.pos, valueLen)
		return &SyntaxError{msg, r.pos}
	}
	r.annotWrapEnd = 0
	return nil
}

func isIonSymbolTable(as []SymbolToken) bool {
	return len(as) > 0 && as[0].Text != nil && *as[0].Text == symbolTextTable
}

// decodeInt reads an integer payload: a big-endian magnitude whose sign
// comes from the type code.
func (r *binaryReader) decodeInt(neg bool, length uint64) error {
	bs, err := r.readN(length)
	if err != nil {
		return err
	}

	r.valueType = IntType

	if length <= 8 && (length < 8 || bs[0]&0x80 == 0) {
		mag := uint64(0)
		for _, b := range bs {
			mag = mag<<8 | uint64(b)
		}
		if mag == 0 && neg {
			return &SyntaxError{"integer zero cannot be negative", r.pos - length}
		}
		val := int64(mag)
		if neg {
			val = -val
		}
		r.value = val
		return nil
	}

	val := (&Int{}).SetBytes(bs, neg)
	if val.IsZero() && neg {
		return &SyntaxError{"integer zero cannot be negative", r.pos - length}
	}
	r.value = val
	return nil
}

// decodeFloat reads a float payload: nothing for zero, or an IEEE-754
// binary32 or binary64.
func (r *binaryReader) decodeFloat(length uint64) error {
	bs, err := r.readN(length)
	if err != nil {
		return err
	}

	r.valueType = FloatType

	switch length {
	case 0:
		r.value = 0.0
	case 4:
		r.value = float64(math.Float32frombits(binary.BigEndian.Uint32(bs)))
	case 8:
		r.value = math.Float64frombits(binary.BigEndian.Uint64(bs))
	default:
		return &SyntaxError{"invalid float size", r.pos - length}
	}
	return nil
}

// decodeDecimal reads a decimal payload: a varInt exponent followed by a
// signed-magnitude coefficient in the remaining bytes.
func (r *binaryReader) decodeDecimal(length uint64) (*Decimal, error) {
	end := r.pos + length

	exp := int64(0)
	if r.pos < end {
		var err error
		if exp, _, _, err = r.readVarInt(); err != nil {
			return nil, err
		}
		if exp > math.MaxInt32 || exp < math.MinInt32 {
			return nil, &SyntaxError{fmt.Sprintf("decimal exponent out of range: %v", exp), r.pos}
		}
	}

	coef := &Int{}
	coef.setZero()
	negZero := false

	if r.pos < end {
		bs, err := r.readN(end - r.pos)
		if err != nil {
			return nil, err
		}
		coef.SetSignedBytes(bs)
		negZero = coef.IsZero() && bs[0]&0x80 != 0
	}

	return NewDecimal(coef, int32(exp), negZero), nil
}

// decodeTimestamp reads a timestamp payload: an offset, then the calendar
// components up to the precision the length admits, then an optional
// fractional-second decimal.
func (r *binaryReader) decodeTimestamp(length uint64) (Timestamp, error) {
	end := r.pos + length

	offset, osign, _, err := r.readVarInt()
	if err != nil {
		return Timestamp{}, err
	}
	offKnown := !(offset == 0 && osign < 0)

	precision := TimestampNoPrecision
	year, month, day := 1, 1, 1
	hour, minute, sec := 0, 0, 0

	read := func(dst *int, p TimestampPrecision) (bool, error) {
		if r.pos >= end {
			return false, nil
		}
		v, _, err := r.readVarUint()
		if err != nil {
			return false, err
		}
		*dst = int(v)
		if p != TimestampNoPrecision {
			precision = p
		}
		return true, nil
	}

	if _, err = read(&year, TimestampPrecisionYear); err != nil {
		return Timestamp{}, err
	}
	if _, err = read(&month, TimestampPrecisionMonth); err != nil {
		return Timestamp{}, err
	}
	if _, err = read(&day, TimestampPrecisionDay); err != nil {
		return Timestamp{}, err
	}

	gotHour, err := read(&hour, TimestampNoPrecision)
	if err != nil {
		return Timestamp{}, err
	}
	if gotHour {
		// An hour is meaningless without a minute; there is no
		// hour-only precision level.
		gotMinute, err := read(&minute, TimestampPrecisionMinute)
		if err != nil {
			return Timestamp{}, err
		}
		if !gotMinute {
			return Timestamp{}, &SyntaxError{"timestamp with an hour but no minute", r.pos}
		}
	}
	if _, err = read(&sec, TimestampPrecisionSecond); err != nil {
		return Timestamp{}, err
	}

	nsec := 0
	overflow := false
	fracDigits := uint8(0)

	if r.pos < end {
		frac, err := r.decodeDecimal(end - r.pos)
		if err != nil {
			return Timestamp{}, err
		}
		nsec, overflow, fracDigits, err = fracSeconds(frac, r.opts.DecimalContext)
		if err != nil {
			return Timestamp{}, &SyntaxError{err.Error(), r.pos}
		}
		if fracDigits > 0 {
			precision = TimestampPrecisionNanosecond
		}
	}

	return newTimestampFromParts(year, month, day, hour, minute, sec, nsec, overflow,
		int(offset), offKnown, precision, fracDigits)
}

// fracSeconds converts a fractional-second decimal to nanoseconds,
// reporting overflow into the next whole second and the count of decimal
// digits the fraction carried.
func fracSeconds(frac *Decimal, ctx *apd.Context) (int, bool, uint8, error) {
	shifted := frac.ShiftL(9)

	nsec, err := shifted.trunc(ctx)
	if err != nil || nsec < 0 || nsec > 999999999 {
		return 0, false, 0, fmt.Errorf("invalid timestamp fraction: %v", frac)
	}

	nsec, err = shifted.round(ctx)
	if err != nil {
		return 0, false, 0, fmt.Errorf("invalid timestamp fraction: %v", frac)
	}

	_, exp := frac.CoEx()

	digits := uint8(0)
	if exp < 0 {
		digits = maxFractionalPrecision
		if -exp < maxFractionalPrecision {
			digits = uint8(-exp)
		}
	}

	if nsec == 1000000000 {
		return 0, true, digits, nil
	}
	return int(nsec), false, digits, nil
}

// decodeSymbol reads a symbol payload: the symbol's ID as a big-endian
// magnitude, resolved against the table in scope.
func (r *binaryReader) decodeSymbol(length uint64) (bool, error) {
	if length > 8 {
		return false, &SyntaxError{"symbol id too large", r.pos}
	}

	bs, err := r.readN(length)
	if err != nil {
		return false, err
	}

	sid := uint64(0)
	for _, b := range bs {
		sid = sid<<8 | uint64(b)
	}

	// A lone symbol $2 at the top level restates the version and carries
	// no value.
	if sid == symbolIDIon10 && len(r.parents) == 0 &&
		len(r.annotations) == 0 && !r.opts.ReturnSystemValues {
		r.clear()
		return false, nil
	}

	tok, err := NewSymbolTokenBySID(r.lst, int64(sid))
	if err != nil {
		return false, err
	}
	r.valueType = SymbolType
	r.value = &tok
	return true, nil
}

// decodeString reads a string payload, validating it as UTF-8 unless the
// reader was configured not to.
func (r *binaryReader) decodeString(length uint64) error {
	bs, err := r.readN(length)
	if err != nil {
		return err
	}

	if r.validateUTF8 && !validUTF8(bs) {
		return &SyntaxError{"string value contains invalid UTF-8", r.pos}
	}

	r.valueType = StringType
	r.value = string(bs)
	return nil
}

// StepIn steps in to a container-type value.
func (r *binaryReader) StepIn() error {
	if r.err != nil {
		return r.err
	}
	if r.valueType != ListType && r.valueType != SexpType && r.valueType != StructType {
		return &UsageError{"Reader.StepIn", fmt.Sprintf("cannot step in to a %v", r.valueType)}
	}
	if r.value == nil {
		return &UsageError{"Reader.StepIn", "cannot step in to a null container"}
	}
	if len(r.parents) >= r.opts.MaxContainerDepth {
		msg := fmt.Sprintf("container depth exceeds the maximum of %v", r.opts.MaxContainerDepth)
		return &UsageError{"Reader.StepIn", msg}
	}

	r.parents = append(r.parents, binParent{r.valueType, r.pos + r.valLen})
	r.valLen = 0
	r.clear()

	return nil
}

// StepOut steps out of a container-type value, skipping whatever of its
// payload was never read.
func (r *binaryReader) StepOut() error {
	if r.err != nil {
		return r.err
	}
	if len(r.parents) == 0 {
		return &UsageError{"Reader.StepOut", "cannot step out of top-level datagram"}
	}

	end := r.parent().end
	r.parents = r.parents[:len(r.parents)-1]

	// Skip the container's unread remainder, plus any half-read value.
	r.valLen = 0
	if end > r.pos {
		if err := r.skipN(end - r.pos); err != nil {
			r.err = err
			return err
		}
	}

	r.clear()
	r.eof = false

	return nil
}

// readByteOrEOF reads one byte; -1 means a clean end of input at the top
// level.
func (r *binaryReader) readByteOrEOF() (int, error) {
	c, err := r.in.ReadByte()
	if err == io.EOF {
		if len(r.parents) > 0 {
			return 0, &UnexpectedEOFError{r.pos}
		}
		return -1, nil
	}
	if err != nil {
		return 0, &IOError{err}
	}

	r.pos++
	return int(c), nil
}

// readByte reads one byte that must exist, and must not cross the
// innermost container's end.
func (r *binaryReader) readByte() (byte, error) {
	if r.remaining() < 1 {
		return 0, &UnexpectedEOFError{r.pos}
	}

	c, err := r.in.ReadByte()
	if err == io.EOF {
		return 0, &UnexpectedEOFError{r.pos}
	}
	if err != nil {
		return 0, &IOError{err}
	}

	r.pos++
	return c, nil
}

// readInto fills bs from the stream.
func (r *binaryReader) readInto(bs []byte) error {
	if uint64(len(bs)) > r.remaining() {
		return &UnexpectedEOFError{r.pos}
	}

	n, err := io.ReadFull(r.in, bs)
	r.pos += uint64(n)

	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return &UnexpectedEOFError{r.pos}
	}
	if err != nil {
		return &IOError{err}
	}
	return nil
}

// readN reads the next n bytes.
func (r *binaryReader) readN(n uint64) ([]byte, error) {
	if n == 0 {
		return []byte{}, nil
	}

	bs := make([]byte, n)
	if err := r.readInto(bs); err != nil {
		return nil, err
	}
	return bs, nil
}

// skipN discards the next n bytes.
func (r *binaryReader) skipN(n uint64) error {
	actual, err := r.in.Discard(int(n))
	r.pos += uint64(actual)

	if err == io.EOF {
		return nil
	}
	if err != nil {
		return &IOError{err}
	}
	return nil
}

// readVarUint reads a base-128 unsigned integer whose final byte has the
// high bit set.
func (r *binaryReader) readVarUint() (uint64, uint64, error) {
	val := uint64(0)

	for size := uint64(1); ; size++ {
		if size > 10 {
			return 0, 0, &SyntaxError{"varUint too large", r.pos}
		}

		b, err := r.readByte()
		if err != nil {
			return 0, 0, err
		}

		val = val<<7 | uint64(b&0x7F)
		if b&0x80 != 0 {
			return val, size, nil
		}
	}
}

// readVarInt reads a base-128 signed integer: like a varUint, but the
// second-highest bit of the first byte is the sign. The sign is returned
// separately so a negative zero survives.
func (r *binaryReader) readVarInt() (int64, int64, uint64, error) {
	b, err := r.readByte()
	if err != nil {
		return 0, 0, 0, err
	}

	sign := int64(1)
	if b&0x40 != 0 {
		sign = -1
	}
	val := int64(b & 0x3F)

	size := uint64(1)
	for b&0x80 == 0 {
		if size++; size > 10 {
			return 0, 0, 0, &SyntaxError{"varInt too large", r.pos}
		}
		if b, err = r.readByte(); err != nil {
			return 0, 0, 0, err
		}
		val = val<<7 | int64(b&0x7F)
	}

	return val * sign, sign, size, nil
}

// lengthOf resolves a descriptor's low nibble into a payload length,
// consuming the follow-on varUint when the nibble says so.
func (r *binaryReader) lengthOf(low byte) (uint64, error) {
	if low < varLength {
		return uint64(low), nil
	}
	length, _, err := r.readVarUint()
	return length, err
}
