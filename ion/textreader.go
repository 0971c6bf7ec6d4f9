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
	"fmt"
	"math"
)

// textState tracks where the text reader is relative to the value grammar.
type textState uint8

const (
	tsDone textState = iota
	tsBeforeFieldName
	tsBeforeAnnotations
	tsBeforeContainer // positioned on a container the caller hasn't entered
	tsAfterValue
)

func (s textState) String() string {
	switch s {
	case tsDone:
		return "<done>"
	case tsBeforeFieldName:
		return "<beforeFieldName>"
	case tsBeforeAnnotations:
		return "<beforeAnnotations>"
	case tsBeforeContainer:
		return "<beforeContainer>"
	case tsAfterValue:
		return "<afterValue>"
	default:
		return fmt.Sprintf("<state %d>", uint8(s))
	}
}

// A textReader is a Reader that reads text Ion.
type textReader struct {
	reader

	sc    *scanner
	state textState
	stack []Type // the enclosing containers, outermost first
}

func newTextReaderBuf(in *bufio.Reader, opts ReaderOptions) Reader {
	tr := textReader{
		sc:    newScanner(in),
		state: tsBeforeAnnotations,
	}
	tr.opts = opts
	tr.lst = V1SystemSymbolTable

	return &tr
}

// container returns the type of the innermost open container, or NoType at
// the top level.
func (t *textReader) container() Type {
	if len(t.stack) == 0 {
		return NoType
	}
	return t.stack[len(t.stack)-1]
}

// Depth returns the number of containers stepped in to.
func (t *textReader) Depth() int {
	return len(t.stack)
}

// Next moves the reader to the next value.
func (t *textReader) Next() bool {
	if t.state == tsDone || t.eof {
		return false
	}

	if t.state == tsBeforeContainer {
		// The caller never entered the container; the scanner still owns
		// its contents and Scan below will step over them.
		t.state = t.afterValueState()
	}

	t.clear()

	for {
		tok, err := t.sc.Scan()
		if err != nil {
			t.explode(err)
			return false
		}

		var done bool
		switch t.state {
		case tsAfterValue:
			done, err = t.afterValue(tok)
		case tsBeforeFieldName:
			done, err = t.beforeFieldName(tok)
		case tsBeforeAnnotations:
			done, err = t.beforeValue(tok)
		default:
			panic(fmt.Sprintf("unexpected state %v", t.state))
		}

		if err != nil {
			t.explode(err)
			return false
		}
		if done {
			return !t.eof
		}
	}
}

// afterValue consumes the separator or terminator that must follow a value
// inside a list or struct.
func (t *textReader) afterValue(tok token) (bool, error) {
	switch tok.sub {
	case subComma:
		if t.container() == StructType {
			t.state = tsBeforeFieldName
		} else {
			t.state = tsBeforeAnnotations
		}
		return false, nil

	case subStructClose:
		if t.container() == StructType {
			t.eof = true
			return true, nil
		}

	case subListClose:
		if t.container() == ListType {
			t.eof = true
			return true, nil
		}
	}

	return false, t.errToken(tok)
}

// beforeFieldName reads a struct field's name and the colon after it.
func (t *textReader) beforeFieldName(tok token) (bool, error) {
	switch tok.sub {
	case subStructClose:
		t.eof = true
		return true, nil

	case subNull, subTrue, subFalse, subNan:
		return false, t.errKeyword(tok, "field name")

	case subSymbol:
		// A bare $n identifier resolves through the symbol table.
		st, err := newSymbolToken(t.SymbolTable(), tok.text)
		if err != nil {
			return false, err
		}
		t.fieldName = &st

	case subSymbolQuoted:
		text, err := t.sc.ReadQuotedSymbol()
		if err != nil {
			return false, err
		}
		st := NewSymbolTokenFromString(text)
		t.fieldName = &st

	case subString:
		text, err := t.sc.ReadString()
		if err != nil {
			return false, err
		}
		st := NewSymbolTokenFromString(text)
		t.fieldName = &st

	case subStringLong:
		text, err := t.sc.ReadLongString()
		if err != nil {
			return false, err
		}
		st := NewSymbolTokenFromString(text)
		t.fieldName = &st

	default:
		return false, t.errToken(tok)
	}

	next, err := t.sc.Scan()
	if err != nil {
		return false, err
	}
	if next.sub != subColon {
		return false, t.errToken(next)
	}

	t.state = tsBeforeAnnotations
	return false, nil
}

// beforeValue reads a value's annotations, if any, and then the value's
// opening token.
func (t *textReader) beforeValue(tok token) (bool, error) {
	switch tok.sub {
	case subEOF:
		if t.container() == NoType {
			t.eof = true
			return true, nil
		}
		return false, &UnexpectedEOFError{t.sc.Pos() - 1}

	case subOperator:
		if t.container() != SexpType {
			return false, t.errToken(tok)
		}
		dc, err := t.sc.PeekDoubleColon()
		if err != nil {
			return false, err
		}
		if dc {
			return false, &SyntaxError{
				"annotations that include a '" + tok.text + "' must be enclosed in quotes", t.sc.Pos() - 1}
		}
		t.setValue(SymbolType, symbolValue(NewSymbolTokenFromString(tok.text)))
		return true, nil

	case subSymbol:
		dc, err := t.sc.PeekDoubleColon()
		if err != nil {
			return false, err
		}
		if dc {
			st, err := newSymbolToken(t.SymbolTable(), tok.text)
			if err != nil {
				return false, err
			}
			return false, t.addAnnotation(st)
		}

		// A bare $ion_1_0 (or its SID) at the top level is a no-op
		// version marker.
		if t.container() == NoType && len(t.annotations) == 0 &&
			!t.opts.ReturnSystemValues && isTextIVM(tok.text) {
			t.clear()
			t.setSymbolTable(V1SystemSymbolTable)
			return false, nil
		}

		st, err := newSymbolToken(t.SymbolTable(), tok.text)
		if err != nil {
			return false, err
		}
		t.setValue(SymbolType, symbolValue(st))
		return true, nil

	case subSymbolQuoted:
		text, err := t.sc.ReadQuotedSymbol()
		if err != nil {
			return false, err
		}
		dc, err := t.sc.PeekDoubleColon()
		if err != nil {
			return false, err
		}
		if dc {
			return false, t.addAnnotation(NewSymbolTokenFromString(text))
		}
		t.setValue(SymbolType, symbolValue(NewSymbolTokenFromString(text)))
		return true, nil

	case subNull:
		t.valueType = tok.typ
		t.value = nil
		t.state = t.afterValueState()
		return true, nil

	case subTrue:
		t.setValue(BoolType, true)
		return true, nil

	case subFalse:
		t.setValue(BoolType, false)
		return true, nil

	case subNan:
		t.setValue(FloatType, math.NaN())
		return true, nil

	case subPosInf:
		t.setValue(FloatType, math.Inf(1))
		return true, nil

	case subNegInf:
		t.setValue(FloatType, math.Inf(-1))
		return true, nil

	case subIntDec, subIntHex, subIntBin:
		radix := 10
		switch tok.sub {
		case subIntHex:
			radix = 16
		case subIntBin:
			radix = 2
		}
		val, err := parseIntValue(tok.text, radix)
		if err != nil {
			return false, err
		}
		t.setValue(IntType, val)
		return true, nil

	case subFloat:
		val, err := parseFloat(tok.text)
		if err != nil {
			return false, err
		}
		t.setValue(FloatType, val)
		return true, nil

	case subDecimal:
		val, err := ParseDecimal(tok.text)
		if err != nil {
			return false, err
		}
		t.setValue(DecimalType, val)
		return true, nil

	case subTimestamp:
		val, err := ParseTimestamp(tok.text)
		if err != nil {
			return false, err
		}
		t.setValue(TimestampType, val)
		return true, nil

	case subString:
		val, err := t.sc.ReadString()
		if err != nil {
			return false, err
		}
		t.setValue(StringType, val)
		return true, nil

	case subStringLong:
		val, err := t.sc.ReadLongString()
		if err != nil {
			return false, err
		}
		t.setValue(StringType, val)
		return true, nil

	case subLobOpen:
		val, typ, err := t.sc.ReadLob()
		if err != nil {
			return false, err
		}
		t.setValue(typ, val)
		return true, nil

	case subStructOpen:
		t.valueType = StructType
		t.value = StructType
		t.state = tsBeforeContainer

		if t.container() == NoType && isIonSymbolTable(t.annotations) && !t.opts.ReturnSystemValues {
			// A local symbol table; install it and keep going.
			st, err := readLocalSymbolTable(t, t.opts.Catalog)
			if err != nil {
				return false, err
			}
			t.setSymbolTable(st)
			return false, nil
		}
		return true, nil

	case subListOpen:
		t.valueType = ListType
		t.value = ListType
		t.state = tsBeforeContainer
		return true, nil

	case subSexpOpen:
		t.valueType = SexpType
		t.value = SexpType
		t.state = tsBeforeContainer
		return true, nil

	case subListClose:
		if t.container() == ListType {
			t.eof = true
			return true, nil
		}

	case subSexpClose:
		if t.container() == SexpType {
			t.eof = true
			return true, nil
		}
	}

	return false, t.errToken(tok)
}

// symbolValue boxes a symbol token as a current-value payload.
func symbolValue(st SymbolToken) interface{} {
	return &st
}

// addAnnotation records one annotation, enforcing the configured bound.
func (t *textReader) addAnnotation(st SymbolToken) error {
	if len(t.annotations) >= t.opts.MaxAnnotationCount {
		msg := fmt.Sprintf("value has more than %v annotations", t.opts.MaxAnnotationCount)
		return &SyntaxError{msg, t.sc.Pos() - 1}
	}
	t.annotations = append(t.annotations, st)
	return nil
}

// setValue records a scalar value and moves past it.
func (t *textReader) setValue(typ Type, val interface{}) {
	t.valueType = typ
	t.value = val
	t.state = t.afterValueState()
}

func (t *textReader) afterValueState() textState {
	switch t.container() {
	case ListType, StructType:
		return tsAfterValue
	default:
		return tsBeforeAnnotations
	}
}

func (t *textReader) errToken(tok token) error {
	return &UnexpectedTokenError{tok.sub.String(), t.sc.Pos() - 1}
}

func (t *textReader) errKeyword(tok token, where string) error {
	msg := fmt.Sprintf("unquoted keyword '%v' as %v", tok.sub, where)
	return &SyntaxError{msg, t.sc.Pos() - 1}
}

// isTextIVM reports whether the given bare symbol text is the Ion 1.0
// version marker, directly or via its symbol ID.
func isTextIVM(val string) bool {
	if val == symbolTextIon10 {
		return true
	}
	sid, ok := symbolIdentifier(val)
	return ok && sid == symbolIDIon10
}

// StepIn steps in to a container.
func (t *textReader) StepIn() error {
	if t.err != nil {
		return t.err
	}
	if t.state != tsBeforeContainer {
		return &UsageError{"Reader.StepIn", fmt.Sprintf("cannot step in to a %v", t.valueType)}
	}
	if len(t.stack) >= t.opts.MaxContainerDepth {
		msg := fmt.Sprintf("container depth exceeds the maximum of %v", t.opts.MaxContainerDepth)
		return &UsageError{"Reader.StepIn", msg}
	}

	t.stack = append(t.stack, t.valueType)
	if t.valueType == StructType {
		t.state = tsBeforeFieldName
	} else {
		t.state = tsBeforeAnnotations
	}
	t.clear()

	// The scanner no longer owes us the container's payload.
	t.sc.ClaimPending()
	return nil
}

// StepOut steps out of a container, skipping any of its values that have
// not been read.
func (t *textReader) StepOut() error {
	if t.err != nil {
		return t.err
	}
	if len(t.stack) == 0 {
		return &UsageError{"Reader.StepOut", "cannot step out of top-level datagram"}
	}

	cur := t.container()

	// Finish whatever partial value the scanner is sitting on, then skip
	// to the container's closing delimiter.
	if err := t.sc.FinishPending(); err != nil {
		t.explode(err)
		return err
	}
	if !t.eof {
		if err := t.sc.SkipContainerContents(cur); err != nil {
			t.explode(err)
			return err
		}
	}

	t.stack = t.stack[:len(t.stack)-1]
	t.state = t.afterValueState()
	t.clear()
	t.eof = false

	return nil
}

// explode poisons the reader; further calls to Next are a bad idea.
func (t *textReader) explode(err error) {
	t.state = tsDone
	t.err = err
}
