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
	"encoding/base64"
	"fmt"
	"io"
	"math"
	"strings"
	"unicode/utf16"
)

// textWriter is a writer that writes human-readable text Ion, or JSON when
// down-conversion is selected.
type textWriter struct {
	writer

	out            io.Writer
	needsSeparator bool
	emptyContainer bool
	emptyStream    bool

	lstb     SymbolTableBuilder
	wroteLST bool
}

// NewTextWriter returns a new text writer.
func NewTextWriter(out io.Writer, sts ...SharedSymbolTable) Writer {
	opts := WriterOptions{SharedImports: sts}
	return newTextWriterOpts(out, opts.withDefaults())
}

func newTextWriterOpts(out io.Writer, opts WriterOptions) Writer {
	w := &textWriter{
		out:         out,
		emptyStream: true,
		lstb:        NewSymbolTableBuilder(opts.SharedImports...),
	}
	w.opts = opts
	return w
}

func (w *textWriter) json() bool {
	return w.opts.JSONDownconvert
}

func (w *textWriter) pretty() bool {
	return w.opts.PrettyPrint
}

// nullLiteral returns the text spelling of a typed null.
func nullLiteral(t Type) string {
	switch t {
	case NoType:
		return "null"
	case NullType:
		return "null.null"
	case BoolType:
		return "null.bool"
	case IntType:
		return "null.int"
	case FloatType:
		return "null.float"
	case DecimalType:
		return "null.decimal"
	case TimestampType:
		return "null.timestamp"
	case SymbolType:
		return "null.symbol"
	case StringType:
		return "null.string"
	case ClobType:
		return "null.clob"
	case BlobType:
		return "null.blob"
	case ListType:
		return "null.list"
	case SexpType:
		return "null.sexp"
	case StructType:
		return "null.struct"
	default:
		panic(fmt.Sprintf("%v has no null spelling", t))
	}
}

// WriteNull writes an untyped null.
func (w *textWriter) WriteNull() error {
	return w.WriteNullType(NoType)
}

// WriteNullType writes a typed null; JSON has just the one kind.
func (w *textWriter) WriteNullType(t Type) error {
	if w.json() {
		return w.value("Writer.WriteNullType", "null")
	}
	return w.value("Writer.WriteNullType", nullLiteral(t))
}

// WriteBool writes a boolean value.
func (w *textWriter) WriteBool(val bool) error {
	if val {
		return w.value("Writer.WriteBool", "true")
	}
	return w.value("Writer.WriteBool", "false")
}

// WriteInt writes an integer value.
func (w *textWriter) WriteInt(val int64) error {
	return w.value("Writer.WriteInt", fmt.Sprintf("%d", val))
}

// WriteUint writes an unsigned integer value.
func (w *textWriter) WriteUint(val uint64) error {
	return w.value("Writer.WriteUint", fmt.Sprintf("%d", val))
}

// WriteBigInt writes an arbitrary-size integer value.
func (w *textWriter) WriteBigInt(val *Int) error {
	return w.value("Writer.WriteBigInt", val.String())
}

// WriteFloat writes a floating-point value. JSON numbers have no nan or
// infinities; they down-convert to null.
func (w *textWriter) WriteFloat(val float64) error {
	if w.json() && (math.IsNaN(val) || math.IsInf(val, 0)) {
		return w.value("Writer.WriteFloat", "null")
	}
	return w.value("Writer.WriteFloat", formatFloat(val))
}

// WriteDecimal writes an arbitrary-precision decimal value.
func (w *textWriter) WriteDecimal(val *Decimal) error {
	if w.json() {
		return w.value("Writer.WriteDecimal", jsonDecimal(val))
	}
	return w.value("Writer.WriteDecimal", val.String())
}

// jsonDecimal renders a decimal as a plain JSON number.
func jsonDecimal(val *Decimal) string {
	coef, exp := val.CoEx()
	str := coef.String()
	if val.IsNegZero() {
		str = "-" + str
	}
	if exp != 0 {
		str = fmt.Sprintf("%ve%v", str, exp)
	}
	return str
}

// WriteTimestamp writes a timestamp.
func (w *textWriter) WriteTimestamp(val Timestamp) error {
	if w.json() {
		return w.value("Writer.WriteTimestamp", `"`+val.String()+`"`)
	}
	return w.value("Writer.WriteTimestamp", val.String())
}

// WriteSymbol writes a symbol given a SymbolToken.
func (w *textWriter) WriteSymbol(val SymbolToken) error {
	if w.json() {
		return w.value("Writer.WriteSymbol", w.jsonQuote(val.String()))
	}
	return w.emit("Writer.WriteSymbol", func() error {
		return writeSymbol(val, w.out)
	})
}

// WriteSymbolFromString writes a symbol given a string.
func (w *textWriter) WriteSymbolFromString(val string) error {
	if w.json() {
		return w.value("Writer.WriteSymbolFromString", w.jsonQuote(val))
	}
	return w.emit("Writer.WriteSymbolFromString", func() error {
		return writeSymbolFromString(val, w.out)
	})
}

// WriteString writes a string.
func (w *textWriter) WriteString(val string) error {
	if w.json() {
		return w.value("Writer.WriteString", w.jsonQuote(val))
	}
	return w.emit("Writer.WriteString", func() error {
		if err := writeRawChar('"', w.out); err != nil {
			return err
		}
		if err := w.writeEscapedText(val, '"'); err != nil {
			return err
		}
		return writeRawChar('"', w.out)
	})
}

// writeEscapedText writes string or symbol content, escaping control
// characters, backslashes, the delimiter, and, if the option is set, all
// non-ASCII bytes.
func (w *textWriter) writeEscapedText(str string, quote byte) error {
	for i := 0; i < len(str); i++ {
		c := str[i]
		if c < 32 || c == '\\' || c == quote || (w.opts.EscapeAllNonASCII && c > 0x7E) {
			if err := writeEscapedChar(c, w.out); err != nil {
				return err
			}
		} else {
			if err := writeRawChar(c, w.out); err != nil {
				return err
			}
		}
	}
	return nil
}

// jsonQuote builds a double-quoted JSON string with \u-style escapes.
func (w *textWriter) jsonQuote(str string) string {
	b := strings.Builder{}
	b.WriteByte('"')

	for _, r := range str {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			switch {
			case r < 0x20:
				fmt.Fprintf(&b, `\u%04x`, r)
			case r > 0x7E && w.opts.EscapeAllNonASCII:
				if r > 0xFFFF {
					r1, r2 := utf16.EncodeRune(r)
					fmt.Fprintf(&b, `\u%04x\u%04x`, r1, r2)
				} else {
					fmt.Fprintf(&b, `\u%04x`, r)
				}
			default:
				b.WriteRune(r)
			}
		}
	}

	b.WriteByte('"')
	return b.String()
}

// WriteClob writes a clob: an escaped-ASCII string between double braces.
func (w *textWriter) WriteClob(val []byte) error {
	if w.json() {
		return w.value("Writer.WriteClob", w.jsonQuote(string(val)))
	}
	return w.emit("Writer.WriteClob", func() error {
		if err := writeRawString("{{\"", w.out); err != nil {
			return err
		}
		for _, c := range val {
			if c < 32 || c == '\\' || c == '"' || c > 0x7F {
				if err := writeEscapedChar(c, w.out); err != nil {
					return err
				}
			} else {
				if err := writeRawChar(c, w.out); err != nil {
					return err
				}
			}
		}
		return writeRawString("\"}}", w.out)
	})
}

// WriteBlob writes a blob: base64 between double braces.
func (w *textWriter) WriteBlob(val []byte) error {
	b64 := base64.StdEncoding.EncodeToString(val)
	if w.json() {
		return w.value("Writer.WriteBlob", `"`+b64+`"`)
	}
	return w.value("Writer.WriteBlob", "{{"+b64+"}}")
}

// BeginList begins writing a list.
func (w *textWriter) BeginList() error {
	return w.begin("Writer.BeginList", ListType, '[')
}

// EndList finishes writing a list.
func (w *textWriter) EndList() error {
	return w.end("Writer.EndList", ListType, ']')
}

// BeginSexp begins writing an s-expression; JSON renders it as a list.
func (w *textWriter) BeginSexp() error {
	if w.json() {
		return w.begin("Writer.BeginSexp", SexpType, '[')
	}
	return w.begin("Writer.BeginSexp", SexpType, '(')
}

// EndSexp finishes writing an s-expression.
func (w *textWriter) EndSexp() error {
	if w.json() {
		return w.end("Writer.EndSexp", SexpType, ']')
	}
	return w.end("Writer.EndSexp", SexpType, ')')
}

// BeginStruct begins writing a struct.
func (w *textWriter) BeginStruct() error {
	return w.begin("Writer.BeginStruct", StructType, '{')
}

// EndStruct finishes writing a struct.
func (w *textWriter) EndStruct() error {
	return w.end("Writer.EndStruct", StructType, '}')
}

// Flush is a no-op for the text writer, which does not buffer values.
func (w *textWriter) Flush() error {
	if w.err != nil {
		return w.err
	}
	if w.depth() != 0 {
		return &UsageError{"Writer.Flush", "not at top level"}
	}
	return nil
}

// Finish finishes writing the current datagram.
func (w *textWriter) Finish() error {
	if w.err != nil {
		return w.err
	}
	if w.depth() != 0 {
		return &UsageError{"Writer.Finish", "not at top level"}
	}

	if !w.emptyStream && !w.opts.QuietFinish {
		if w.err = writeRawChar('\n', w.out); w.err != nil {
			return w.err
		}
		w.needsSeparator = false
		w.emptyStream = true
	}

	w.clear()
	w.wroteLST = false
	return nil
}

// value writes one fully-rendered scalar.
func (w *textWriter) value(api, text string) error {
	return w.emit(api, func() error {
		return writeRawString(text, w.out)
	})
}

// emit frames one value: the separator, indent, field name, and
// annotations, then whatever render produces.
func (w *textWriter) emit(api string, render func() error) error {
	if w.err != nil {
		return w.err
	}
	if w.err = w.beginValue(api); w.err != nil {
		return w.err
	}
	if w.err = render(); w.err != nil {
		return w.err
	}

	w.needsSeparator = true
	w.emptyContainer = false
	w.emptyStream = false
	return nil
}

// beginValue writes everything that precedes a value.
func (w *textWriter) beginValue(api string) error {
	// Capture and clear the pending state before emitting the symbol
	// table, which uses the same machinery.
	name := w.fieldName
	as := w.annotations
	w.clear()

	// The local symbol table, if it has anything worth saying, precedes
	// the data. JSON carries no symbol tables.
	if !w.wroteLST && !w.json() {
		w.wroteLST = true
		if err := w.lstb.Build().WriteTo(w); err != nil {
			return err
		}
	}

	if w.needsSeparator {
		if err := writeRawString(w.separator(), w.out); err != nil {
			return err
		}
	}

	if w.pretty() {
		if w.emptyContainer {
			if err := writeRawChar('\n', w.out); err != nil {
				return err
			}
		}
		if err := w.writeIndent(); err != nil {
			return err
		}
	}

	if w.IsInStruct() {
		if name == nil {
			return &UsageError{api, "field name not set"}
		}
		if err := w.writeFieldName(*name); err != nil {
			return err
		}
	}

	if !w.json() {
		for _, a := range as {
			if err := writeSymbol(a, w.out); err != nil {
				return err
			}
			if err := writeRawString("::", w.out); err != nil {
				return err
			}
		}
	}

	return nil
}

// separator returns the token that goes between this value and the one
// before it.
func (w *textWriter) separator() string {
	var sep string

	switch w.top() {
	case StructType, ListType:
		sep = ","
	case SexpType:
		if w.json() {
			// The sexp was rendered as a list.
			sep = ","
		} else {
			sep = " "
		}
	default:
		// Top-level values separate with newlines, pretty or not.
		return "\n"
	}

	if w.pretty() {
		if sep == " " {
			sep = ""
		}
		sep += "\n"
	}
	return sep
}

// writeFieldName writes a field name and its colon.
func (w *textWriter) writeFieldName(name SymbolToken) error {
	var err error
	if w.json() {
		err = writeRawString(w.jsonQuote(name.String()), w.out)
	} else {
		err = writeSymbol(name, w.out)
	}
	if err != nil {
		return err
	}

	if w.pretty() {
		return writeRawString(": ", w.out)
	}
	return writeRawString(":", w.out)
}

// begin starts writing a container of the given type.
func (w *textWriter) begin(api string, t Type, c byte) error {
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
	w.needsSeparator = false
	w.emptyContainer = true

	w.err = writeRawChar(c, w.out)
	return w.err
}

// end finishes writing a container of the given type.
func (w *textWriter) end(api string, t Type, c byte) error {
	if w.err != nil {
		return w.err
	}
	if w.top() != t {
		w.err = &UsageError{api, "not in that kind of container"}
		return w.err
	}

	w.pop()

	if !w.emptyContainer && w.pretty() {
		if err := writeRawChar('\n', w.out); err != nil {
			w.err = err
			return w.err
		}
		if err := w.writeIndent(); err != nil {
			w.err = err
			return w.err
		}
	}

	if w.err = writeRawChar(c, w.out); w.err != nil {
		return w.err
	}

	w.clear()
	w.needsSeparator = true
	w.emptyContainer = false
	w.emptyStream = false

	return nil
}

// writeIndent writes the indent for a pretty-printed value.
func (w *textWriter) writeIndent() error {
	unit := "\t"
	if !w.opts.IndentWithTabs {
		unit = strings.Repeat(" ", w.opts.IndentSize)
	}

	return writeRawString(strings.Repeat(unit, w.depth()), w.out)
}
