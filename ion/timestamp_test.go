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

func TestParseTimestamp(t *testing.T) {
	test := func(in string, eprec TimestampPrecision, ekind TimezoneKind) {
		t.Run(in, func(t *testing.T) {
			ts, err := ParseTimestamp(in)
			require.NoError(t, err)
			assert.Equal(t, eprec, ts.GetPrecision())
			assert.Equal(t, ekind, ts.GetTimezoneKind())
		})
	}

	test("2010T", TimestampPrecisionYear, TimezoneUnspecified)
	test("2010-06T", TimestampPrecisionMonth, TimezoneUnspecified)
	test("2010-06-15", TimestampPrecisionDay, TimezoneUnspecified)
	test("2010-06-15T09:30Z", TimestampPrecisionMinute, TimezoneUTC)
	test("2010-06-15T09:30+08:30", TimestampPrecisionMinute, TimezoneLocal)
	test("2010-06-15T09:30-00:00", TimestampPrecisionMinute, TimezoneUnspecified)
	test("2010-06-15T09:30:45Z", TimestampPrecisionSecond, TimezoneUTC)
	test("2010-06-15T09:30:45.123Z", TimestampPrecisionNanosecond, TimezoneUTC)

	_, err := ParseTimestamp("2010-13-01")
	assert.Error(t, err)
	_, err = ParseTimestamp("2010-02-30")
	assert.Error(t, err)
	_, err = ParseTimestamp("2010-06-15T09:30+24:00")
	assert.Error(t, err)
}

func TestTimestampString(t *testing.T) {
	test := func(in string) {
		t.Run(in, func(t *testing.T) {
			ts := MustParseTimestamp(in)
			assert.Equal(t, in, ts.String())
		})
	}

	test("2010T")
	test("2010-06T")
	test("2010-06-15")
	test("2010-06-15T09:30Z")
	test("2010-06-15T09:30:45-00:00")
	test("2010-06-15T09:30:45.000Z")
	test("2010-06-15T09:30:45.123456789Z")
	test("2010-06-15T09:30+08:30")
}

func TestTimestampEquals(t *testing.T) {
	utc := MustParseTimestamp("2020-01-01T00:00:00Z")
	unknown := MustParseTimestamp("2020-01-01T00:00:00-00:00")

	assert.False(t, utc.Equal(unknown))
	assert.True(t, utc.InstantEquals(unknown))

	assert.True(t, utc.Equal(MustParseTimestamp("2020-01-01T00:00:00Z")))

	// Fractional-second digit counts matter to Equal but not to
	// InstantEquals.
	frac := MustParseTimestamp("2020-01-01T00:00:00.000Z")
	assert.False(t, utc.Equal(frac))
	assert.True(t, utc.InstantEquals(frac))

	// The same instant at different offsets.
	plus := MustParseTimestamp("2020-01-01T08:00:00+08:00")
	assert.False(t, utc.Equal(plus))
	assert.True(t, utc.InstantEquals(plus))
}

func TestTimestampFractionRounding(t *testing.T) {
	ts, err := ParseTimestamp("2010-06-15T09:30:45.1234567891Z")
	require.NoError(t, err)
	assert.Equal(t, 123456789, ts.GetDateTime().Nanosecond())
}

func TestTruncatedNanoseconds(t *testing.T) {
	ts := MustParseTimestamp("2010-06-15T09:30:45.123Z")
	assert.Equal(t, uint8(3), ts.GetNumberOfFractionalSeconds())
	assert.Equal(t, 123, ts.TruncatedNanoseconds())
}
