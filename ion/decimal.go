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
	"strings"

	"github.com/cockroachdb/apd/v3"
)

// A ParseError is returned when a string cannot be parsed as a Decimal or
// an Int.
type ParseError struct {
	Num string
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("ion: cannot parse %v: %v", e.Num, e.Msg)
}

// defaultDecimalContext is used for decimal computation when the caller does
// not supply a context of their own. Thirty-eight digits covers two full
// 64-bit coefficients.
var defaultDecimalContext = apd.BaseContext.WithPrecision(38)

// A Decimal is an arbitrary-precision decimal value: a signed integer
// coefficient scaled by a power of ten. Arithmetic is delegated to the
// backing apd library; this type adds the Ion text format and negative
// zero round-tripping.
type Decimal struct {
	val apd.Decimal
}

// NewDecimal creates a decimal whose value is coef * 10^exp. Pass negZero to
// create a negative zero.
func NewDecimal(coef *Int, exp int32, negZero bool) *Decimal {
	d := &Decimal{}
	d.val.Exponent = exp

	str := coef.String()
	neg := coef.Sign() < 0
	if neg {
		str = str[1:]
	}
	d.val.Coeff.SetString(str, 10)
	d.val.Negative = neg || negZero

	return d
}

// NewDecimalInt creates a decimal whose value is n.
func NewDecimalInt(n int64) *Decimal {
	d := &Decimal{}
	d.val.SetInt64(n)
	return d
}

// MustParseDecimal parses the given string into a Decimal, panicking on error.
func MustParseDecimal(in string) *Decimal {
	d, err := ParseDecimal(in)
	if err != nil {
		panic(err)
	}
	return d
}

// ParseDecimal parses a decimal in Ion text form: an optionally-signed
// coefficient with an optional fractional part, and an optional exponent
// introduced by 'd' or 'D'.
func ParseDecimal(in string) (*Decimal, error) {
	if len(in) == 0 {
		return nil, &ParseError{in, "empty string"}
	}

	str := in
	exp := ""

	if i := strings.IndexAny(str, "dD"); i != -1 {
		exp = str[i+1:]
		if len(exp) == 0 {
			return nil, &ParseError{in, "unexpected end of input after d"}
		}
		str = str[:i]
	}

	// Ion allows a bare trailing point (e.g. "123.").
	str = strings.TrimSuffix(str, ".")
	if len(str) == 0 || strings.IndexAny(str, "eE") != -1 {
		return nil, &ParseError{in, "not a decimal"}
	}

	if exp != "" {
		str = str + "E" + exp
	}

	val, _, err := apd.NewFromString(str)
	if err != nil {
		return nil, &ParseError{in, err.Error()}
	}

	return &Decimal{val: *val}, nil
}

// CoEx returns this decimal's coefficient and exponent.
func (d *Decimal) CoEx() (*Int, int32) {
	coef := &Int{}
	if err := coef.SetString(d.val.Coeff.String()); err != nil {
		panic(err)
	}
	if d.val.Negative && !coef.IsZero() {
		coef.sign = -1
	}
	return coef, d.val.Exponent
}

// IsNegZero reports whether this decimal is a negative zero.
func (d *Decimal) IsNegZero() bool {
	return d.val.Negative && d.val.Coeff.Sign() == 0
}

// Sign returns -1, 0, or +1 according to this decimal's sign. Negative zero
// has sign zero.
func (d *Decimal) Sign() int {
	return d.val.Sign()
}

// Cmp compares two decimals numerically, ignoring precision.
func (d *Decimal) Cmp(o *Decimal) int {
	return d.val.Cmp(&o.val)
}

// Equal reports whether two decimals are numerically equal.
func (d *Decimal) Equal(o *Decimal) bool {
	return d.Cmp(o) == 0
}

// SameRepresentation reports whether two decimals have equal coefficient,
// exponent, and sign; 1.0 and 1.00 are equal but not the same representation.
func (d *Decimal) SameRepresentation(o *Decimal) bool {
	return d.val.Exponent == o.val.Exponent &&
		d.val.Negative == o.val.Negative &&
		d.val.Coeff.Cmp(&o.val.Coeff) == 0
}

// ShiftL returns a new decimal shifted the given number of decimal places to
// the left; a cheap d * 10^shift.
func (d *Decimal) ShiftL(shift int) *Decimal {
	out := &Decimal{}
	out.val.Set(&d.val)
	out.val.Exponent += int32(shift)
	return out
}

// trunc converts this decimal to an int64, dropping any fractional part.
func (d *Decimal) trunc(ctx *apd.Context) (int64, error) {
	return d.toInt64(ctx, apd.RoundDown)
}

// round converts this decimal to an int64, rounding any fractional part.
func (d *Decimal) round(ctx *apd.Context) (int64, error) {
	return d.toInt64(ctx, apd.RoundHalfEven)
}

func (d *Decimal) toInt64(ctx *apd.Context, rounder apd.Rounder) (int64, error) {
	if ctx == nil {
		ctx = defaultDecimalContext
	}

	rctx := *ctx
	rctx.Rounding = rounder

	var r apd.Decimal
	if _, err := rctx.RoundToIntegralValue(&r, &d.val); err != nil {
		return 0, err
	}
	return r.Int64()
}

// String formats the decimal in Ion text form.
func (d *Decimal) String() string {
	coef := d.val.Coeff.String()
	if d.val.Negative {
		coef = "-" + coef
	}
	exp := d.val.Exponent

	switch {
	case exp == 0:
		// An unscaled integer; the trailing point marks it as a decimal.
		return coef + "."

	case exp > 0:
		return coef + "d" + fmt.Sprintf("%d", exp)

	default:
		// Negative exponent; put the point in the middle if it lands
		// inside the coefficient, else fall back to d-notation.
		prefix := 1
		if coef[0] == '-' {
			prefix++
		}

		point := len(coef) + int(exp)
		if point >= prefix {
			return coef[:point] + "." + coef[point:]
		}

		b := strings.Builder{}
		b.WriteString(coef[:prefix])
		if len(coef) > prefix {
			b.WriteString(".")
			b.WriteString(coef[prefix:])
		}
		b.WriteString("d")
		b.WriteString(fmt.Sprintf("%d", point-prefix))
		return b.String()
	}
}
