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
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"time"
)

// Binary Ion prefixes every value with its length, which for containers
// isn't known until the container closes. The writer therefore accumulates
// the datagram in one flat buffer and remembers where each open value's
// body starts; closing the value inserts the type descriptor and length in
// front of the body, shifting it in place. Symbol tables gathered along the
// way are emitted ahead of the buffered data when the caller flushes.

// A binOpen is an open length-prefixed value: the descriptor code it will
// get, and the offset in the buffer where its body starts.
type binOpen struct {
	code  byte
	start int
}

// A binaryWriter writes binary Ion.
type binaryWriter struct {
	writer

	out   io.Writer
	buf   []byte
	opens []binOpen

	lst     SymbolTable
	lstb    SymbolTableBuilder
	imports []SharedSymbolTable

	wroteLST       bool
	flushing       bool
	flushedLST     bool
	flushedSymbols int
}

// NewBinaryWriter creates a new binary writer that will construct a
// local symbol table as it is written to.
func NewBinaryWriter(out io.Writer, sts ...SharedSymbolTable) Writer {
	opts := WriterOptions{OutputAsBinary: true, SharedImports: sts}
	return newBinaryWriterOpts(out, opts.withDefaults())
}

func newBinaryWriterOpts(out io.Writer, opts WriterOptions) Writer {
	w := &binaryWriter{
		out:     out,
		lstb:    NewSymbolTableBuilder(opts.SharedImports...),
		imports: opts.SharedImports,
	}
	w.opts = opts
	return w
}

// NewBinaryWriterLST creates a new binary writer with a pre-built, fixed
// local symbol table.
func NewBinaryWriterLST(out io.Writer, lst SymbolTable) Writer {
	w := &binaryWriter{
		out: out,
		lst: lst,
	}
	w.opts = WriterOptions{OutputAsBinary: true}.withDefaults()
	return w
}

// putVarUint appends v in the base-128 form whose final byte has the high
// bit set.
func putVarUint(dst []byte, v uint64) []byte {
	size := 1
	for x := v >> 7; x > 0; x >>= 7 {
		size++
	}

	for i := size - 1; i >= 0; i-- {
		dst = append(dst, byte(v>>(7*i))&0x7F)
	}
	dst[len(dst)-1] |= 0x80
	return dst
}

// putVarInt appends v in the base-128 form carrying its sign in the
// second-highest bit of the first byte.
func putVarInt(dst []byte, v int64) []byte {
	var sign byte
	mag := uint64(v)
	if v < 0 {
		sign = 0x40
		mag = uint64(-v)
	}

	// The first byte holds six bits of magnitude; the rest hold seven.
	size := 1
	for x := mag >> 6; x > 0; x >>= 7 {
		size++
	}

	dst = append(dst, sign|byte(mag>>(7*(size-1)))&0x3F)
	for i := size - 2; i >= 0; i-- {
		dst = append(dst, byte(mag>>(7*i))&0x7F)
	}
	dst[len(dst)-1] |= 0x80
	return dst
}

// putUint appends v as a minimal big-endian magnitude; at least one byte.
func putUint(dst []byte, v uint64) []byte {
	size := 1
	for x := v >> 8; x > 0; x >>= 8 {
		size++
	}

	for i := size - 1; i >= 0; i-- {
		dst = append(dst, byte(v>>(8*i)))
	}
	return dst
}

// putSignedMag appends v as a big-endian sign-and-magnitude integer: the
// first byte's high bit is the sign, with a leading pad byte when the
// magnitude needs it. Zero occupies no bytes.
func putSignedMag(dst []byte, v int64) []byte {
	if v == 0 {
		return dst
	}

	var sign byte
	mag := uint64(v)
	if v < 0 {
		sign = 0x80
		mag = uint64(-v)
	}

	at := len(dst)
	dst = putUint(dst, mag)
	if dst[at]&0x80 != 0 {
		dst = insertBytes(dst, at, 0x00)
	}
	dst[at] |= sign
	return dst
}

// insertBytes inserts ins into buf at the given offset, shifting the rest
// of the buffer right.
func insertBytes(buf []byte, at int, ins ...byte) []byte {
	buf = append(buf, ins...)
	copy(buf[at+len(ins):], buf[at:])
	copy(buf[at:], ins)
	return buf
}

// open marks the start of a length-prefixed value whose body follows.
func (w *binaryWriter) open(code byte) {
	w.opens = append(w.opens, binOpen{code, len(w.buf)})
}

// closeValue measures the body written since the matching open and inserts
// the descriptor ahead of it.
func (w *binaryWriter) closeValue() {
	o := w.opens[len(w.opens)-1]
	w.opens = w.opens[:len(w.opens)-1]

	body := uint64(len(w.buf) - o.start)
	if body < varLength {
		// A one-byte struct body cannot occur (a field needs a name and
		// a value), so the sorted-struct form is never produced by
		// accident.
		w.buf = insertBytes(w.buf, o.start, o.code|byte(body))
		return
	}

	w.buf = insertBytes(w.buf, o.start, putVarUint([]byte{o.code | varLength}, body)...)
}

// nullDescriptor returns the typed-null descriptor byte for t.
func nullDescriptor(t Type) byte {
	switch t {
	case NoType, NullType:
		return 0x0F
	case BoolType:
		return 0x1F
	case IntType:
		return 0x2F
	case FloatType:
		return 0x4F
	case DecimalType:
		return 0x5F
	case TimestampType:
		return 0x6F
	case SymbolType:
		return 0x7F
	case StringType:
		return 0x8F
	case ClobType:
		return 0x9F
	case BlobType:
		return 0xAF
	case ListType:
		return 0xBF
	case SexpType:
		return 0xCF
	case StructType:
		return 0xDF
	default:
		panic(fmt.Sprintf("%v has no null encoding", t))
	}
}

// WriteNull writes an untyped null.
func (w *binaryWriter) WriteNull() error {
	return w.WriteNullType(NoType)
}

// WriteNullType writes a typed null.
func (w *binaryWriter) WriteNullType(t Type) error {
	return w.value("Writer.WriteNullType", func() error {
		w.buf = append(w.buf, nullDescriptor(t))
		return nil
	})
}

// WriteBool writes a boolean value; the value rides in the descriptor's
// low nibble.
func (w *binaryWriter) WriteBool(val bool) error {
	return w.value("Writer.WriteBool", func() error {
		desc := byte(0x10)
		if val {
			desc = 0x11
		}
		w.buf = append(w.buf, desc)
		return nil
	})
}

// WriteInt writes an integer.
func (w *binaryWriter) WriteInt(val int64) error {
	return w.value("Writer.WriteInt", func() error {
		if val == 0 {
			w.buf = append(w.buf, 0x20)
			return nil
		}

		code := byte(0x20)
		mag := uint64(val)
		if val < 0 {
			code = 0x30
			mag = uint64(-val)
		}

		w.open(code)
		w.buf = putUint(w.buf, mag)
		w.closeValue()
		return nil
	})
}

// WriteUint writes an unsigned integer.
func (w *binaryWriter) WriteUint(val uint64) error {
	return w.value("Writer.WriteUint", func() error {
		if val == 0 {
			w.buf = append(w.buf, 0x20)
			return nil
		}

		w.open(0x20)
		w.buf = putUint(w.buf, val)
		w.closeValue()
		return nil
	})
}

// WriteBigInt writes an arbitrary-size integer.
func (w *binaryWriter) WriteBigInt(val *Int) error {
	return w.value("Writer.WriteBigInt", func() error {
		if val.IsZero() {
			w.buf = append(w.buf, 0x20)
			return nil
		}

		code := byte(0x20)
		if val.Sign() < 0 {
			code = 0x30
		}

		w.open(code)
		w.buf = append(w.buf, val.Bytes()...)
		w.closeValue()
		return nil
	})
}

// WriteFloat writes a floating-point value. Positive zero is a bare type
// byte; a four-byte form is used only when CompactFloats is set and the
// value survives the round trip through a float32.
func (w *binaryWriter) WriteFloat(val float64) error {
	return w.value("Writer.WriteFloat", func() error {
		if val == 0 && !math.Signbit(val) {
			w.buf = append(w.buf, 0x40)
			return nil
		}

		if w.opts.CompactFloats && (math.IsNaN(val) || val == float64(float32(val))) {
			bits := uint32(0x7FC00000)
			if !math.IsNaN(val) {
				bits = math.Float32bits(float32(val))
			}
			var enc [4]byte
			binary.BigEndian.PutUint32(enc[:], bits)
			w.buf = append(append(w.buf, 0x44), enc[:]...)
			return nil
		}

		var enc [8]byte
		binary.BigEndian.PutUint64(enc[:], math.Float64bits(val))
		w.buf = append(append(w.buf, 0x48), enc[:]...)
		return nil
	})
}

// WriteDecimal writes a decimal value: a varInt exponent followed by a
// sign-and-magnitude coefficient.
func (w *binaryWriter) WriteDecimal(val *Decimal) error {
	return w.value("Writer.WriteDecimal", func() error {
		coef, exp := val.CoEx()
		negZero := val.IsNegZero()

		// Positive 0d0 is the bare descriptor.
		if coef.IsZero() && exp == 0 && !negZero {
			w.buf = append(w.buf, 0x50)
			return nil
		}

		w.open(0x50)
		w.buf = putVarInt(w.buf, int64(exp))
		if negZero {
			// A negative-zero coefficient is a lone sign bit.
			w.buf = append(w.buf, 0x80)
		} else {
			w.buf = append(w.buf, coef.SignedBytes()...)
		}
		w.closeValue()
		return nil
	})
}

// WriteTimestamp writes a timestamp value: the offset, then the calendar
// components down to the timestamp's precision, then the fraction.
func (w *binaryWriter) WriteTimestamp(val Timestamp) error {
	return w.value("Writer.WriteTimestamp", func() error {
		_, offset := val.dateTime.Zone()
		offset /= 60
		utc := val.dateTime.In(time.UTC)

		w.open(0x60)

		if val.kind == TimezoneUnspecified {
			// The unknown offset encodes as negative zero.
			w.buf = append(w.buf, 0xC0)
		} else {
			w.buf = putVarInt(w.buf, int64(offset))
		}

		w.buf = putVarUint(w.buf, uint64(utc.Year()))
		if val.precision >= TimestampPrecisionMonth {
			w.buf = putVarUint(w.buf, uint64(utc.Month()))
		}
		if val.precision >= TimestampPrecisionDay {
			w.buf = putVarUint(w.buf, uint64(utc.Day()))
		}
		if val.precision >= TimestampPrecisionMinute {
			w.buf = putVarUint(w.buf, uint64(utc.Hour()))
			w.buf = putVarUint(w.buf, uint64(utc.Minute()))
		}
		if val.precision >= TimestampPrecisionSecond {
			w.buf = putVarUint(w.buf, uint64(utc.Second()))
		}

		if val.precision >= TimestampPrecisionNanosecond && val.numFractionalSeconds > 0 {
			// The fraction is a decimal: its exponent is the negated
			// digit count, its coefficient the truncated nanoseconds.
			w.buf = append(w.buf, 0xC0|val.numFractionalSeconds)
			w.buf = putSignedMag(w.buf, int64(val.TruncatedNanoseconds()))
		}

		w.closeValue()
		return nil
	})
}

// WriteSymbol writes a symbol value given a SymbolToken. Known text
// re-interns into this writer's table; a bare SID is passed through for
// callers that manage the table themselves.
func (w *binaryWriter) WriteSymbol(val SymbolToken) error {
	return w.value("Writer.WriteSymbol", func() error {
		var sid uint64
		var err error

		switch {
		case val.Text != nil:
			if sid, err = w.resolve("Writer.WriteSymbol", *val.Text); err != nil {
				return err
			}
		case val.LocalSID != SymbolIDUnknown:
			sid = uint64(val.LocalSID)
		default:
			return &UsageError{"Writer.WriteSymbol", "symbol token has neither text nor a symbol id"}
		}

		w.open(0x70)
		w.buf = putUint(w.buf, sid)
		w.closeValue()
		return nil
	})
}

// WriteSymbolFromString writes a symbol value given its text, interning it
// into the local symbol table if needed.
func (w *binaryWriter) WriteSymbolFromString(val string) error {
	return w.value("Writer.WriteSymbolFromString", func() error {
		sid, err := w.resolve("Writer.WriteSymbolFromString", val)
		if err != nil {
			return err
		}

		w.open(0x70)
		w.buf = putUint(w.buf, sid)
		w.closeValue()
		return nil
	})
}

// WriteString writes a string.
func (w *binaryWriter) WriteString(val string) error {
	return w.value("Writer.WriteString", func() error {
		w.open(0x80)
		w.buf = append(w.buf, val...)
		w.closeValue()
		return nil
	})
}

// WriteClob writes a clob.
func (w *binaryWriter) WriteClob(val []byte) error {
	return w.value("Writer.WriteClob", func() error {
		w.open(0x90)
		w.buf = append(w.buf, val...)
		w.closeValue()
		return nil
	})
}

// WriteBlob writes a blob.
func (w *binaryWriter) WriteBlob(val []byte) error {
	return w.value("Writer.WriteBlob", func() error {
		w.open(0xA0)
		w.buf = append(w.buf, val...)
		w.closeValue()
		return nil
	})
}

// BeginList begins writing a list.
func (w *binaryWriter) BeginList() error {
	return w.begin("Writer.BeginList", ListType, 0xB0)
}

// EndList finishes writing a list.
func (w *binaryWriter) EndList() error {
	return w.end("Writer.EndList", ListType)
}

// BeginSexp begins writing an s-expression.
func (w *binaryWriter) BeginSexp() error {
	return w.begin("Writer.BeginSexp", SexpType, 0xC0)
}

// EndSexp finishes writing an s-expression.
func (w *binaryWriter) EndSexp() error {
	return w.end("Writer.EndSexp", SexpType)
}

// BeginStruct begins writing a struct.
func (w *binaryWriter) BeginStruct() error {
	return w.begin("Writer.BeginStruct", StructType, 0xD0)
}

// EndStruct finishes writing a struct.
func (w *binaryWriter) EndStruct() error {
	return w.end("Writer.EndStruct", StructType)
}

// value writes one scalar: the field name and annotations first, then the
// encoded payload, then any annotation wrapper's descriptor.
func (w *binaryWriter) value(api string, encode func() error) error {
	if w.err != nil {
		return w.err
	}
	if w.err = w.beginValue(api); w.err != nil {
		return w.err
	}
	if w.err = encode(); w.err != nil {
		return w.err
	}
	if w.err = w.endValue(); w.err != nil {
		return w.err
	}
	w.err = w.maybeFlush()
	return w.err
}

// begin opens a container.
func (w *binaryWriter) begin(api string, t Type, code byte) error {
	if w.err != nil {
		return w.err
	}
	if w.err = w.checkDepth(api); w.err != nil {
		return w.err
	}
	if w.err = w.beginValue(api); w.err != nil {
		return w.err
	}

	w.push(t)
	w.open(code)
	return nil
}

// end closes a container, fixing up its length prefix.
func (w *binaryWriter) end(api string, t Type) error {
	if w.err != nil {
		return w.err
	}
	if w.top() != t {
		w.err = &UsageError{api, "not in that kind of container"}
		return w.err
	}

	w.closeValue()
	w.pop()
	w.clear()

	if w.err = w.endValue(); w.err != nil {
		return w.err
	}
	w.err = w.maybeFlush()
	return w.err
}

// beginValue writes out the pending field name and annotations. An
// annotation list opens a wrapper that endValue closes around the value.
func (w *binaryWriter) beginValue(api string) error {
	name := w.fieldName
	as := w.annotations
	w.clear()

	// A fixed local symbol table is emitted before the first value.
	if w.lst != nil && !w.wroteLST {
		w.wroteLST = true
		if err := w.emitTable(w.lst); err != nil {
			return err
		}
	}

	if w.IsInStruct() {
		if name == nil {
			return &UsageError{api, "field name not set"}
		}

		var sid uint64
		var err error
		switch {
		case name.Text != nil:
			if sid, err = w.resolve(api, *name.Text); err != nil {
				return err
			}
		case name.LocalSID != SymbolIDUnknown:
			sid = uint64(name.LocalSID)
		default:
			return &UsageError{api, "field name symbol token has neither text nor a symbol id"}
		}

		w.buf = putVarUint(w.buf, sid)
	}

	if len(as) > 0 {
		var sids []byte
		for _, a := range as {
			var sid uint64
			var err error
			switch {
			case a.Text != nil:
				if sid, err = w.resolve(api, *a.Text); err != nil {
					return err
				}
			case a.LocalSID != SymbolIDUnknown:
				sid = uint64(a.LocalSID)
			default:
				return &UsageError{api, "annotation symbol token has neither text nor a symbol id"}
			}
			sids = putVarUint(sids, sid)
		}

		w.open(0xE0)
		w.buf = putVarUint(w.buf, uint64(len(sids)))
		w.buf = append(w.buf, sids...)
	}

	return nil
}

// endValue closes the annotation wrapper opened for this value, if any.
func (w *binaryWriter) endValue() error {
	if len(w.opens) > 0 && w.opens[len(w.opens)-1].code == 0xE0 {
		w.closeValue()
	}
	return nil
}

// maybeFlush flushes after a completed top-level value when the writer is
// configured to.
func (w *binaryWriter) maybeFlush() error {
	if !w.opts.FlushEveryValue || w.flushing || w.depth() != 0 || len(w.opens) > 0 {
		return nil
	}
	return w.Flush()
}

// resolve resolves a symbol's text to its ID, treating $N identifiers as
// literal IDs.
func (w *binaryWriter) resolve(api, sym string) (uint64, error) {
	if sid, ok := symbolIdentifier(sym); ok {
		return uint64(sid), nil
	}

	if w.lst != nil {
		sid, ok := w.lst.FindByName(sym)
		if !ok {
			return 0, &UsageError{api, fmt.Sprintf("symbol '%v' not defined", sym)}
		}
		return sid, nil
	}

	sid, _ := w.lstb.Add(sym)
	return sid, nil
}

// emitTable serializes a symbol table into the buffer, preceded by a
// version marker.
func (w *binaryWriter) emitTable(lst SymbolTable) error {
	w.buf = append(w.buf, 0xE0, 0x01, 0x00, 0xEA)
	return lst.WriteTo(w)
}

// emitTableAppend serializes a symbol table that appends the given symbols
// to the table already in scope.
func (w *binaryWriter) emitTableAppend(symbols []string) error {
	if err := w.Annotation(SymbolToken{Text: &textTable, LocalSID: symbolIDTable}); err != nil {
		return err
	}
	if err := w.BeginStruct(); err != nil {
		return err
	}
	if err := w.FieldName(NewSymbolTokenFromString(symbolTextImports)); err != nil {
		return err
	}
	if err := w.WriteSymbol(SymbolToken{Text: &textTable, LocalSID: symbolIDTable}); err != nil {
		return err
	}
	if err := w.FieldName(NewSymbolTokenFromString(symbolTextSymbols)); err != nil {
		return err
	}
	if err := w.BeginList(); err != nil {
		return err
	}
	for _, sym := range symbols {
		if err := w.WriteString(sym); err != nil {
			return err
		}
	}
	if err := w.EndList(); err != nil {
		return err
	}
	return w.EndStruct()
}

// Flush emits the values buffered so far without finalizing the stream.
// Symbols interned after a flush are emitted ahead of the next flush as an
// appending symbol table.
func (w *binaryWriter) Flush() error {
	if w.err != nil {
		return w.err
	}
	if w.depth() != 0 {
		w.err = &UsageError{"Writer.Flush", "not at top level"}
		return w.err
	}

	w.err = w.flush()
	return w.err
}

// flush emits the appropriate symbol table, then the buffered data.
func (w *binaryWriter) flush() error {
	w.flushing = true
	defer func() { w.flushing = false }()

	data := w.buf
	w.buf = nil

	if w.lst == nil {
		if err := w.flushSymbolTable(); err != nil {
			return err
		}
	} else if !w.wroteLST && len(data) == 0 {
		// Nothing was ever written; the table still needs its marker.
		w.wroteLST = true
		if err := w.emitTable(w.lst); err != nil {
			return err
		}
	}

	table := w.buf
	w.buf = nil

	if len(table) > 0 {
		if _, err := w.out.Write(table); err != nil {
			return &IOError{err}
		}
	}
	if len(data) > 0 {
		if _, err := w.out.Write(data); err != nil {
			return &IOError{err}
		}
	}
	return nil
}

// flushSymbolTable emits the symbols interned since the last flush: the
// full local table the first time, an append afterwards.
func (w *binaryWriter) flushSymbolTable() error {
	symbols := w.lstb.Symbols()
	fresh := symbols[w.flushedSymbols:]

	if !w.flushedLST {
		w.flushedLST = true
		if err := w.emitTable(w.lstb.Build()); err != nil {
			return err
		}
	} else if len(fresh) > 0 {
		if err := w.emitTableAppend(fresh); err != nil {
			return err
		}
	}

	w.flushedSymbols = len(symbols)
	return nil
}

// Finish finishes writing a datagram. The local symbol table is cleared;
// continuing to write starts a fresh datagram with its own version marker.
func (w *binaryWriter) Finish() error {
	if w.err != nil {
		return w.err
	}
	if w.depth() != 0 {
		w.err = &UsageError{"Writer.Finish", "not at top level"}
		return w.err
	}

	w.clear()

	if w.err = w.flush(); w.err != nil {
		return w.err
	}

	w.lstb = NewSymbolTableBuilder(w.imports...)
	w.wroteLST = false
	w.flushedLST = false
	w.flushedSymbols = 0

	return nil
}
