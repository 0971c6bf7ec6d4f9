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
	"strconv"
	"strings"
)

// The text keywords that can never appear as bare symbols.
var symbolKeywords = map[string]bool{
	"null": true, "true": true, "false": true, "nan": true,
}

// symbolNeedsQuoting reports whether sym must be single-quoted in text
// form: empty text, keywords, $n identifier lookalikes, and anything that
// isn't a bare identifier.
func symbolNeedsQuoting(sym string) bool {
	if sym == "" || symbolKeywords[sym] {
		return true
	}
	if _, identifier := symbolIdentifier(sym); identifier {
		return true
	}

	if !isIdentifierStart(int(sym[0])) {
		return true
	}
	for i := 1; i < len(sym); i++ {
		if !isIdentifierPart(int(sym[i])) {
			return true
		}
	}
	return false
}

// writeSymbol writes a symbol token out, quoting if necessary. A token
// with no text renders as its $n identifier.
func writeSymbol(tok SymbolToken, out io.Writer) error {
	if tok.Text != nil {
		return writeSymbolFromString(*tok.Text, out)
	}
	if tok.LocalSID != SymbolIDUnknown {
		return writeRawString(fmt.Sprintf("$%v", tok.LocalSID), out)
	}
	return fmt.Errorf("ion: symbol token has neither text nor a symbol id")
}

// writeSymbolFromString writes symbol text out, quoting and escaping if
// necessary.
func writeSymbolFromString(sym string, out io.Writer) error {
	if !symbolNeedsQuoting(sym) {
		return writeRawString(sym, out)
	}

	if err := writeRawChar('\'', out); err != nil {
		return err
	}
	if err := writeEscapedText(sym, '\'', out); err != nil {
		return err
	}
	return writeRawChar('\'', out)
}

// writeEscapedText writes text content, escaping control characters,
// backslashes, and the delimiter.
func writeEscapedText(str string, quote byte, out io.Writer) error {
	for i := 0; i < len(str); i++ {
		c := str[i]
		if c < 0x20 || c == '\\' || c == quote {
			if err := writeEscapedChar(c, out); err != nil {
				return err
			}
			continue
		}
		if err := writeRawChar(c, out); err != nil {
			return err
		}
	}
	return nil
}

// namedEscapes holds the escapes with their own letter; everything else
// byte-escapes as \xHH.
var namedEscapes = map[byte]string{
	0:    `\0`,
	'\a': `\a`,
	'\b': `\b`,
	'\t': `\t`,
	'\n': `\n`,
	'\f': `\f`,
	'\r': `\r`,
	'\v': `\v`,
	'\'': `\'`,
	'"':  `\"`,
	'\\': `\\`,
}

var hexChars = []byte("0123456789ABCDEF")

// writeEscapedChar writes one character in escaped form.
func writeEscapedChar(c byte, out io.Writer) error {
	if esc, ok := namedEscapes[c]; ok {
		return writeRawString(esc, out)
	}

	_, err := out.Write([]byte{'\\', 'x', hexChars[c>>4], hexChars[c&0xF]})
	return err
}

// writeRawString writes out the given raw string.
func writeRawString(s string, out io.Writer) error {
	_, err := out.Write([]byte(s))
	return err
}

// writeRawChar writes out the given raw character.
func writeRawChar(c byte, out io.Writer) error {
	_, err := out.Write([]byte{c})
	return err
}

// formatFloat renders a float in Ion text style: always with an exponent
// (a bare number would read back as an int or decimal), special values in
// lower case, and no zero-padded exponents.
func formatFloat(val float64) string {
	str := strconv.FormatFloat(val, 'e', -1, 64)

	switch str {
	case "NaN":
		return "nan"
	case "+Inf":
		return "+inf"
	case "-Inf":
		return "-inf"
	}

	mantissa, exp, _ := strings.Cut(str, "e")
	if exp == "" {
		return mantissa + "e0"
	}

	// FormatFloat zero-pads small exponents: e+01 and the like.
	if len(exp) > 2 && exp[1] == '0' {
		exp = exp[:1] + exp[2:]
	}
	return mantissa + "e" + exp
}

// parseFloat parses the text form of a float; out-of-range values round
// quietly to the infinities.
func parseFloat(str string) (float64, error) {
	val, err := strconv.ParseFloat(str, 64)
	if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
		return val, nil
	}
	return val, err
}

// parseIntValue parses a text integer of the given radix, returning an
// int64 when the value fits and an *Int otherwise.
func parseIntValue(str string, radix int) (interface{}, error) {
	digits := str

	if radix != 10 {
		// Peel the 0x / 0b prefix off; strconv won't take it.
		neg := strings.HasPrefix(digits, "-")
		digits = strings.TrimPrefix(digits, "-")[2:]
		if neg {
			digits = "-" + digits
		}
	}

	if val, err := strconv.ParseInt(digits, radix, 64); err == nil {
		return val, nil
	} else if err.(*strconv.NumError).Err != strconv.ErrRange {
		return nil, err
	}

	big := &Int{}
	var err error
	switch radix {
	case 10:
		err = big.SetString(str)
	case 16:
		err = big.SetHexString(str)
	case 2:
		err = big.SetBinaryString(str)
	default:
		panic("unsupported radix")
	}

	if err != nil {
		return nil, err
	}
	return big, nil
}
