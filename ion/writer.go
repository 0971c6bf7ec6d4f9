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
	"fmt"
	"io"

	"github.com/cockroachdb/apd/v3"
)

// WriterOptions configures a Writer. The zero value writes compact text.
type WriterOptions struct {
	// OutputAsBinary selects the binary encoding instead of text.
	OutputAsBinary bool

	// PrettyPrint enables indented multi-line text output.
	PrettyPrint bool

	// IndentWithTabs indents pretty-printed output with tabs instead of
	// spaces.
	IndentWithTabs bool

	// IndentSize is the number of spaces per indent level when pretty
	// printing with spaces; zero means two.
	IndentSize int

	// EscapeAllNonASCII makes the text writer escape every byte outside
	// 0x20..0x7E rather than passing UTF-8 through.
	EscapeAllNonASCII bool

	// JSONDownconvert makes the text writer emit JSON: annotations are
	// dropped, typed nulls become null, sexps become lists, and symbols,
	// timestamps, and lobs become strings.
	JSONDownconvert bool

	// CompactFloats lets the binary writer emit a four-byte float when the
	// value round-trips through a float32.
	CompactFloats bool

	// QuietFinish suppresses the newline the text writer emits in Finish.
	QuietFinish bool

	// FlushEveryValue makes the binary writer flush after every top-level
	// value instead of buffering the whole datagram. The text writer does
	// not buffer and is unaffected.
	FlushEveryValue bool

	// SharedImports seeds the writer's local symbol table with imports.
	SharedImports []SharedSymbolTable

	// MaxContainerDepth bounds container nesting; zero means the default
	// of ten.
	MaxContainerDepth int

	// MaxAnnotationCount bounds the annotations on a single value; zero
	// means the default of ten.
	MaxAnnotationCount int

	// DecimalContext is the context used for any decimal computation; nil
	// means a default context.
	DecimalContext *apd.Context
}

func (o WriterOptions) withDefaults() WriterOptions {
	if o.IndentSize == 0 {
		o.IndentSize = 2
	}
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

// A Writer writes a stream of Ion values.
//
// The various Write methods write atomic values to the current output stream.
// The Begin methods begin writing a list, sexp, or struct respectively.
// Subsequent calls to Write will write values inside of the container until a
// matching End method is called:
//
//	var w Writer
//	w.BeginSexp()
//	{
//		w.WriteInt(1)
//		w.WriteSymbolFromString("+")
//		w.WriteInt(1)
//	}
//	w.EndSexp()
//
// When writing values inside a struct, the FieldName method must be called
// before each value to set the value's field name. The Annotation method may
// likewise be called before writing any value to annotate it.
//
// When you're done writing values, call Finish to flush in-memory buffers and
// finalize the stream. Implementations remember the first error they hit and
// no-op subsequent calls, so it's enough to check the error from Finish:
//
//	var w Writer
//	writeSomeStuff(w)
//	if err := w.Finish(); err != nil {
//		return err
//	}
type Writer interface {
	// FieldName sets the field name for the next value written.
	FieldName(val SymbolToken) error

	// Annotation adds a single annotation to the next value written.
	Annotation(val SymbolToken) error

	// Annotations adds multiple annotations to the next value written.
	Annotations(values ...SymbolToken) error

	// WriteNull writes an untyped null value.
	WriteNull() error

	// WriteNullType writes a null value with a type qualifier, e.g. null.bool.
	WriteNullType(t Type) error

	// WriteBool writes a boolean value.
	WriteBool(val bool) error

	// WriteInt writes an integer value.
	WriteInt(val int64) error

	// WriteUint writes an unsigned integer value.
	WriteUint(val uint64) error

	// WriteBigInt writes an arbitrary-size integer value.
	WriteBigInt(val *Int) error

	// WriteFloat writes a floating-point value.
	WriteFloat(val float64) error

	// WriteDecimal writes an arbitrary-precision decimal value.
	WriteDecimal(val *Decimal) error

	// WriteTimestamp writes a timestamp value.
	WriteTimestamp(val Timestamp) error

	// WriteSymbol writes a symbol value given a SymbolToken.
	WriteSymbol(val SymbolToken) error

	// WriteSymbolFromString writes a symbol value given a string.
	WriteSymbolFromString(val string) error

	// WriteString writes a string value.
	WriteString(val string) error

	// WriteClob writes a clob value.
	WriteClob(val []byte) error

	// WriteBlob writes a blob value.
	WriteBlob(val []byte) error

	// BeginList begins writing a list value.
	BeginList() error

	// EndList finishes writing a list value.
	EndList() error

	// BeginSexp begins writing an s-expression value.
	BeginSexp() error

	// EndSexp finishes writing an s-expression value.
	EndSexp() error

	// BeginStruct begins writing a struct value.
	BeginStruct() error

	// EndStruct finishes writing a struct value.
	EndStruct() error

	// Flush writes out any values buffered so far without finalizing the
	// stream. Only valid at the top level.
	Flush() error

	// Finish finishes writing the current datagram and flushes any buffered
	// data. The writer may be reused afterwards; doing so starts a new
	// datagram.
	Finish() error

	// IsInStruct indicates if we are currently writing a struct or not.
	IsInStruct() bool
}

// NewWriter creates a writer for the encoding selected by the options.
func NewWriter(out io.Writer, opts WriterOptions) Writer {
	opts = opts.withDefaults()
	if opts.OutputAsBinary {
		return newBinaryWriterOpts(out, opts)
	}
	return newTextWriterOpts(out, opts)
}

// A writer holds the state shared by both encodings' writers: the options,
// the latched error, the stack of open containers, and the field name and
// annotations pending for the next value.
type writer struct {
	opts WriterOptions
	err  error

	containers []Type

	fieldName   *SymbolToken
	annotations []SymbolToken
}

// push records a newly opened container.
func (w *writer) push(t Type) {
	w.containers = append(w.containers, t)
}

// pop closes the innermost container.
func (w *writer) pop() {
	if len(w.containers) == 0 {
		panic("pop called at top level")
	}
	w.containers = w.containers[:len(w.containers)-1]
}

// top returns the innermost open container, or NoType at the top level.
func (w *writer) top() Type {
	if len(w.containers) == 0 {
		return NoType
	}
	return w.containers[len(w.containers)-1]
}

// depth returns the number of open containers.
func (w *writer) depth() int {
	return len(w.containers)
}

// FieldName sets the field name symbol for the next value written.
// It may only be called while writing a struct.
func (w *writer) FieldName(val SymbolToken) error {
	if w.err != nil {
		return w.err
	}
	if !w.IsInStruct() {
		w.err = &UsageError{"Writer.FieldName", "called when not writing a struct"}
		return w.err
	}

	w.fieldName = &val
	return nil
}

// Annotation adds an annotation to the next value written.
func (w *writer) Annotation(val SymbolToken) error {
	return w.Annotations(val)
}

// Annotations adds one or more annotations to the next value written.
func (w *writer) Annotations(values ...SymbolToken) error {
	if w.err != nil {
		return w.err
	}

	if len(w.annotations)+len(values) > w.opts.MaxAnnotationCount {
		msg := fmt.Sprintf("value would have more than %v annotations", w.opts.MaxAnnotationCount)
		w.err = &UsageError{"Writer.Annotations", msg}
		return w.err
	}

	w.annotations = append(w.annotations, values...)
	return nil
}

// IsInStruct returns true if we're currently writing a struct.
func (w *writer) IsInStruct() bool {
	return w.top() == StructType
}

// checkDepth guards a Begin call against the configured nesting bound.
func (w *writer) checkDepth(api string) error {
	if w.depth() >= w.opts.MaxContainerDepth {
		msg := fmt.Sprintf("container depth exceeds the maximum of %v", w.opts.MaxContainerDepth)
		return &UsageError{api, msg}
	}
	return nil
}

// clear clears the field name and annotations after writing a value.
func (w *writer) clear() {
	w.fieldName = nil
	w.annotations = nil
}
