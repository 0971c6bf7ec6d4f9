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
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

var utf8Sequences = [][]byte{
	[]byte("hello"),
	[]byte("héllo"),
	[]byte("日本語"),
	[]byte("\U0001F600 emoji"),
	{0x80},                   // bare continuation
	{0xC0, 0xAF},             // overlong
	{0xC2},                   // truncated two-byte
	{0xE0, 0x9F, 0x80},       // overlong three-byte
	{0xED, 0xA0, 0x80},       // surrogate
	{0xF4, 0x90, 0x80, 0x80}, // past U+10FFFF
	{0xF0, 0x9F, 0x98},       // truncated four-byte
	{0x41, 0xC3, 0xA9, 0x42}, // mixed
	{0xFF},
}

func TestValidUTF8AgreesWithStdlib(t *testing.T) {
	for _, bs := range utf8Sequences {
		assert.Equal(t, utf8.Valid(bs), validUTF8(bs), "bytes %v", bs)
	}
}

func TestUTF8ValidatorSplit(t *testing.T) {
	// Splitting a sequence anywhere and validating the halves with shared
	// state gives the same verdict as validating it whole.
	for _, bs := range utf8Sequences {
		whole := validUTF8(bs)

		for i := 0; i <= len(bs); i++ {
			v := utf8Validator{}
			got := v.Validate(bs[:i]) && v.Validate(bs[i:]) && v.Complete()
			assert.Equal(t, whole, got, "bytes %v split at %v", bs, i)
		}
	}
}
