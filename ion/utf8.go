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

// A utf8Validator checks that a byte stream is well-formed UTF-8. Unlike
// unicode/utf8 it carries the decode state of a partially-seen code point
// across calls, so a value split across buffer refills validates the same
// as one seen whole. Overlong encodings, surrogates, and code points past
// U+10FFFF are rejected via per-sequence bounds on the first continuation
// byte.
type utf8Validator struct {
	remaining int
	lower     byte
	upper     byte
}

// Reset discards any partial sequence state.
func (v *utf8Validator) Reset() {
	v.remaining = 0
}

// Validate consumes the given bytes, returning false on the first
// malformed byte. State is retained so the next call continues where this
// one left off.
func (v *utf8Validator) Validate(bs []byte) bool {
	for _, c := range bs {
		if v.remaining > 0 {
			if c < v.lower || c > v.upper {
				return false
			}
			v.lower, v.upper = 0x80, 0xBF
			v.remaining--
			continue
		}

		switch {
		case c < 0x80:
			// Single byte.
		case c >= 0xC2 && c <= 0xDF:
			v.start(1, 0x80, 0xBF)
		case c == 0xE0:
			v.start(2, 0xA0, 0xBF)
		case c >= 0xE1 && c <= 0xEC:
			v.start(2, 0x80, 0xBF)
		case c == 0xED:
			v.start(2, 0x80, 0x9F)
		case c >= 0xEE && c <= 0xEF:
			v.start(2, 0x80, 0xBF)
		case c == 0xF0:
			v.start(3, 0x90, 0xBF)
		case c >= 0xF1 && c <= 0xF3:
			v.start(3, 0x80, 0xBF)
		case c == 0xF4:
			v.start(3, 0x80, 0x8F)
		default:
			// 0x80..0xC1 and 0xF5..0xFF can never begin a sequence.
			return false
		}
	}

	return true
}

func (v *utf8Validator) start(remaining int, lower, upper byte) {
	v.remaining = remaining
	v.lower = lower
	v.upper = upper
}

// Complete reports whether the stream ended on a code point boundary.
func (v *utf8Validator) Complete() bool {
	return v.remaining == 0
}

// validUTF8 validates a whole byte slice in one shot.
func validUTF8(bs []byte) bool {
	v := utf8Validator{}
	return v.Validate(bs) && v.Complete()
}
