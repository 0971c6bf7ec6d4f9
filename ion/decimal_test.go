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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDecimal(t *testing.T) {
	test := func(in string, ecoef string, eexp int32) {
		t.Run(in, func(t *testing.T) {
			d, err := ParseDecimal(in)
			require.NoError(t, err)

			coef, exp := d.CoEx()
			assert.Equal(t, ecoef, coef.String())
			assert.Equal(t, eexp, exp)
		})
	}

	test("0", "0", 0)
	test("42", "42", 0)
	test("-1", "-1", 0)
	test("123.456", "123456", -3)
	test("123.456d-2", "123456", -5)
	test("123.456D2", "123456", -1)
	test("123.", "123", 0)
	test("5d7", "5", 7)
	test("-5.0", "-50", -1)
	test("123456789012345678901234567890.12345", "12345678901234567890123456789012345", -5)

	_, err := ParseDecimal("")
	assert.Error(t, err)
	_, err = ParseDecimal("123d")
	assert.Error(t, err)
	_, err = ParseDecimal("1.2e3")
	assert.Error(t, err)
}

func TestDecimalNegativeZero(t *testing.T) {
	d, err := ParseDecimal("-0.00")
	require.NoError(t, err)

	assert.True(t, d.IsNegZero())
	assert.Equal(t, 0, d.Sign())

	coef, exp := d.CoEx()
	assert.True(t, coef.IsZero())
	assert.Equal(t, int32(-2), exp)

	assert.False(t, MustParseDecimal("0.00").IsNegZero())
}

func TestDecimalString(t *testing.T) {
	test := func(in, expected string) {
		t.Run(in, func(t *testing.T) {
			d := MustParseDecimal(in)
			assert.Equal(t, expected, d.String())
		})
	}

	test("42", "42.")
	test("-1", "-1.")
	test("1.23456", "1.23456")
	test("123.456d-2", "1.23456")
	test("5d7", "5d7")
	test("5d-7", "5d-7")
	test("0.5", "5d-1")
	test("-0.005", "-5d-3")
	test("-0", "-0.")
}

func TestDecimalCmp(t *testing.T) {
	assert.True(t, MustParseDecimal("1.0").Equal(MustParseDecimal("1.00")))
	assert.False(t, MustParseDecimal("1.0").SameRepresentation(MustParseDecimal("1.00")))
	assert.True(t, MustParseDecimal("1.0").SameRepresentation(MustParseDecimal("1.0")))

	assert.Equal(t, -1, MustParseDecimal("1.1").Cmp(MustParseDecimal("1.2")))
	assert.Equal(t, 1, MustParseDecimal("10d2").Cmp(MustParseDecimal("999")))
	assert.Equal(t, 0, MustParseDecimal("10d2").Cmp(MustParseDecimal("1000.")))
}

func TestDecimalToInt64(t *testing.T) {
	d := MustParseDecimal("1.5")

	v, err := d.trunc(nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)

	v, err = d.round(nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), v)

	// The shift makes fractional seconds integral.
	v, err = MustParseDecimal("0.123").ShiftL(9).trunc(nil)
	require.NoError(t, err)
	assert.Equal(t, int64(123000000), v)
}

func TestNewDecimal(t *testing.T) {
	coef := &Int{}
	require.NoError(t, coef.SetString("123456"))

	d := NewDecimal(coef, -5, false)
	assert.Equal(t, "1.23456", d.String())

	neg := NewDecimal(NewInt(0), 0, true)
	assert.True(t, neg.IsNegZero())

	assert.Equal(t, "42.", NewDecimalInt(42).String())
}
