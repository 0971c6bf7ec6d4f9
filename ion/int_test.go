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
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntFromDecimalString(t *testing.T) {
	test := func(str, expected string) {
		t.Run(str, func(t *testing.T) {
			i := &Int{}
			require.NoError(t, i.SetString(str))
			assert.Equal(t, expected, i.String())
		})
	}

	test("0", "0")
	test("+0", "0")
	test("-0", "0")
	test("5", "5")
	test("-5", "-5")
	test("1000000000", "1000000000")
	test("123456789012345678901234567890", "123456789012345678901234567890")
	test("-340282366920938463463374607431768211455", "-340282366920938463463374607431768211455")

	i := &Int{}
	assert.Error(t, i.SetString(""))
	assert.Error(t, i.SetString("-"))
	assert.Error(t, i.SetString("12x"))
}

func TestIntFromRadixStrings(t *testing.T) {
	i := &Int{}
	require.NoError(t, i.SetHexString("0x1f"))
	assert.Equal(t, "31", i.String())
	assert.Equal(t, "0x1f", i.HexString())

	require.NoError(t, i.SetHexString("-0xFF"))
	assert.Equal(t, "-255", i.String())

	require.NoError(t, i.SetBinaryString("0b101"))
	assert.Equal(t, "5", i.String())
	assert.Equal(t, "0b101", i.BinaryString())

	require.NoError(t, i.SetBinaryString("-0b11"))
	assert.Equal(t, "-3", i.String())

	require.NoError(t, i.SetHexString("0xdeadbeefdeadbeefdeadbeef"))
	assert.Equal(t, "0xdeadbeefdeadbeefdeadbeef", i.HexString())

	assert.Error(t, i.SetHexString("1f"))
	assert.Error(t, i.SetHexString("0x"))
	assert.Error(t, i.SetBinaryString("0b2"))
}

func TestIntStringIdentity(t *testing.T) {
	strs := []string{
		"0",
		"7",
		"-7",
		"999999999",
		"1000000001",
		"18446744073709551616",
		"-123456789012345678901234567890123456789012345678",
	}

	for _, str := range strs {
		i := &Int{}
		require.NoError(t, i.SetString(str))
		assert.Equal(t, str, i.String())

		j := &Int{}
		require.NoError(t, j.SetHexString(i.HexString()))
		assert.Equal(t, 0, i.Cmp(j))

		k := &Int{}
		require.NoError(t, k.SetBinaryString(i.BinaryString()))
		assert.Equal(t, 0, i.Cmp(k))
	}
}

func TestIntBytes(t *testing.T) {
	i := NewInt(0x0102)
	assert.Equal(t, []byte{0x01, 0x02}, i.Bytes())
	assert.Equal(t, 2, i.ByteLen())

	j := (&Int{}).SetBytes([]byte{0x01, 0x02}, true)
	assert.Equal(t, "-258", j.String())

	assert.Equal(t, []byte{}, NewInt(0).Bytes())
}

func TestIntSignedBytes(t *testing.T) {
	test := func(v int64, expected []byte) {
		i := NewInt(v)
		assert.Equal(t, expected, i.SignedBytes())

		rt := (&Int{}).SetSignedBytes(expected)
		assert.Equal(t, 0, i.Cmp(rt))
	}

	test(0, []byte{})
	test(5, []byte{0x05})
	test(-5, []byte{0x85})
	test(127, []byte{0x7F})
	test(128, []byte{0x00, 0x80})
	test(-128, []byte{0x80, 0x80})
}

func TestIntTwosComplementBytes(t *testing.T) {
	vals := []int64{0, 1, -1, 127, 128, -128, -129, 255, 256, -256, math.MaxInt64, math.MinInt64}

	for _, v := range vals {
		i := NewInt(v)
		bs := i.TwosComplementBytes()

		rt := (&Int{}).SetTwosComplementBytes(bs)
		assert.Equal(t, 0, i.Cmp(rt), "value %v (bytes %v)", v, bs)

		iv, err := rt.Int64()
		require.NoError(t, err)
		assert.Equal(t, v, iv)
	}

	// A large value survives the round trip too.
	big := &Int{}
	require.NoError(t, big.SetString("-123456789012345678901234567890"))
	rt := (&Int{}).SetTwosComplementBytes(big.TwosComplementBytes())
	assert.Equal(t, 0, big.Cmp(rt))
}

func TestIntCmp(t *testing.T) {
	assert.Equal(t, 0, NewInt(0).Cmp(NewInt(0)))
	assert.Equal(t, -1, NewInt(-1).Cmp(NewInt(0)))
	assert.Equal(t, 1, NewInt(1).Cmp(NewInt(0)))
	assert.Equal(t, -1, NewInt(5).Cmp(NewInt(6)))
	assert.Equal(t, 1, NewInt(-5).Cmp(NewInt(-6)))

	big := &Int{}
	require.NoError(t, big.SetString("123456789012345678901234567890"))
	assert.Equal(t, 1, big.Cmp(NewInt(math.MaxInt64)))
	assert.Equal(t, -1, NewInt(math.MaxInt64).Cmp(big))
}

func TestIntBitLen(t *testing.T) {
	assert.Equal(t, 0, NewInt(0).BitLen())
	assert.Equal(t, 1, NewInt(1).BitLen())
	assert.Equal(t, 8, NewInt(255).BitLen())
	assert.Equal(t, 9, NewInt(256).BitLen())
	assert.Equal(t, 63, NewInt(math.MaxInt64).BitLen())
	assert.Equal(t, 64, NewInt(math.MinInt64).BitLen())

	i := &Int{}
	require.NoError(t, i.SetHexString("0x10000000000000000"))
	assert.Equal(t, 65, i.BitLen())
}

func TestIntInt64(t *testing.T) {
	for _, v := range []int64{0, 1, -1, math.MaxInt64, math.MinInt64} {
		got, err := NewInt(v).Int64()
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}

	big := &Int{}
	require.NoError(t, big.SetString("9223372036854775808"))
	_, err := big.Int64()
	assert.Error(t, err)

	require.NoError(t, big.SetString("-9223372036854775809"))
	_, err = big.Int64()
	assert.Error(t, err)
}
