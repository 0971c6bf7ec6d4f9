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
	"time"
)

// TimestampPrecision tracks the precision of a timestamp. Precision is
// cumulative: each level implies all the lower-precision fields are
// populated.
type TimestampPrecision uint8

// Possible TimestampPrecision values.
const (
	TimestampNoPrecision TimestampPrecision = iota
	TimestampPrecisionYear
	TimestampPrecisionMonth
	TimestampPrecisionDay
	TimestampPrecisionMinute
	TimestampPrecisionSecond
	TimestampPrecisionNanosecond
)

const maxFractionalPrecision = 9

func (tp TimestampPrecision) String() string {
	switch tp {
	case TimestampNoPrecision:
		return "<no precision>"
	case TimestampPrecisionYear:
		return "Year"
	case TimestampPrecisionMonth:
		return "Month"
	case TimestampPrecisionDay:
		return "Day"
	case TimestampPrecisionMinute:
		return "Minute"
	case TimestampPrecisionSecond:
		return "Second"
	case TimestampPrecisionNanosecond:
		return "Nanosecond"
	default:
		return fmt.Sprintf("<unknown precision %v>", uint8(tp))
	}
}

// TimezoneKind tracks the kind of timezone attached to a timestamp.
type TimezoneKind uint8

const (
	// TimezoneUnspecified is for timestamps without a timezone: dates with no
	// time component, and timestamps with the unknown offset -00:00.
	TimezoneUnspecified TimezoneKind = iota

	// TimezoneUTC is for UTC timestamps, denoted with a trailing 'Z' or a
	// positive zero offset.
	TimezoneUTC

	// TimezoneLocal is for timestamps with a non-zero offset from UTC.
	TimezoneLocal
)

// A Timestamp is an Ion timestamp: a calendar instant together with a
// precision and a timezone kind.
type Timestamp struct {
	dateTime             time.Time
	precision            TimestampPrecision
	kind                 TimezoneKind
	numFractionalSeconds uint8
}

// NewDateTimestamp creates a timestamp that has a date portion only.
func NewDateTimestamp(dateTime time.Time, precision TimestampPrecision) Timestamp {
	frac := uint8(0)
	if precision >= TimestampPrecisionNanosecond {
		frac = maxFractionalPrecision
	}
	return Timestamp{dateTime, precision, TimezoneUnspecified, frac}
}

// NewTimestamp creates a timestamp with the given precision and timezone kind.
func NewTimestamp(dateTime time.Time, precision TimestampPrecision, kind TimezoneKind) Timestamp {
	frac := uint8(0)

	if precision <= TimestampPrecisionDay {
		// Date-only precision implies no timezone.
		kind = TimezoneUnspecified
	} else if precision >= TimestampPrecisionNanosecond {
		frac = maxFractionalPrecision
	}
	return Timestamp{dateTime, precision, kind, frac}
}

// NewTimestampWithFractionalSeconds creates a timestamp with the given number
// of digits of fractional seconds.
func NewTimestampWithFractionalSeconds(dateTime time.Time, precision TimestampPrecision, kind TimezoneKind, fractionPrecision uint8) Timestamp {
	if fractionPrecision > maxFractionalPrecision {
		fractionPrecision = maxFractionalPrecision
	}
	if precision < TimestampPrecisionNanosecond {
		fractionPrecision = 0
	}
	return Timestamp{dateTime, precision, kind, fractionPrecision}
}

// MustParseTimestamp parses the given string into a Timestamp, panicking on
// error.
func MustParseTimestamp(str string) Timestamp {
	ts, err := ParseTimestamp(str)
	if err != nil {
		panic(err)
	}
	return ts
}

func invalidTimestamp(str string) (Timestamp, error) {
	return Timestamp{}, fmt.Errorf("ion: invalid timestamp: %v", str)
}

// atoiFixed reads exactly n decimal digits of str starting at offset at.
func atoiFixed(str string, at, n int) (int, bool) {
	if at+n > len(str) {
		return 0, false
	}

	val := 0
	for i := at; i < at+n; i++ {
		c := str[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		val = val*10 + int(c-'0')
	}
	return val, true
}

// ParseTimestamp parses an Ion text timestamp: a date to some precision,
// optionally followed by a time of day and a mandatory offset.
func ParseTimestamp(str string) (Timestamp, error) {
	year, ok := atoiFixed(str, 0, 4)
	if !ok || year < 1 {
		return invalidTimestamp(str)
	}

	if len(str) == 5 && (str[4] == 'T' || str[4] == 't') {
		// yyyyT
		return makeDate(str, year, 1, 1, TimestampPrecisionYear)
	}
	if len(str) < 8 || str[4] != '-' {
		return invalidTimestamp(str)
	}

	month, ok := atoiFixed(str, 5, 2)
	if !ok {
		return invalidTimestamp(str)
	}
	if len(str) == 8 && (str[7] == 'T' || str[7] == 't') {
		// yyyy-mmT
		return makeDate(str, year, month, 1, TimestampPrecisionMonth)
	}
	if len(str) < 10 || str[7] != '-' {
		return invalidTimestamp(str)
	}

	day, ok := atoiFixed(str, 8, 2)
	if !ok {
		return invalidTimestamp(str)
	}
	if len(str) == 10 {
		// yyyy-mm-dd
		return makeDate(str, year, month, day, TimestampPrecisionDay)
	}
	if str[10] != 'T' && str[10] != 't' {
		return invalidTimestamp(str)
	}
	if len(str) == 11 {
		// yyyy-mm-ddT
		return makeDate(str, year, month, day, TimestampPrecisionDay)
	}

	// From here on: hh:mm, optional :ss and fraction, then an offset.
	hour, ok1 := atoiFixed(str, 11, 2)
	minute, ok2 := atoiFixed(str, 14, 2)
	if !ok1 || !ok2 || len(str) < 17 || str[13] != ':' {
		return invalidTimestamp(str)
	}

	precision := TimestampPrecisionMinute
	sec := 0
	i := 16

	if str[i] == ':' {
		if sec, ok = atoiFixed(str, 17, 2); !ok {
			return invalidTimestamp(str)
		}
		precision = TimestampPrecisionSecond
		i = 19
	}

	nsec := 0
	carry := 0
	fracDigits := 0
	if i < len(str) && str[i] == '.' && precision == TimestampPrecisionSecond {
		i++
		start := i
		for i < len(str) && str[i] >= '0' && str[i] <= '9' {
			i++
		}
		fracDigits = i - start
		if fracDigits == 0 {
			return invalidTimestamp(str)
		}
		nsec, carry = fracNanos(str[start:i])
		precision = TimestampPrecisionNanosecond
	}

	if i >= len(str) {
		return invalidTimestamp(str)
	}
	offMin, kind, err := parseOffset(str, i)
	if err != nil {
		return Timestamp{}, err
	}

	if hour > 23 || minute > 59 || sec > 59 {
		return invalidTimestamp(str)
	}

	ts, err := makeDate(str, year, month, day, precision)
	if err != nil {
		return Timestamp{}, err
	}

	loc := time.UTC
	if kind == TimezoneLocal {
		loc = time.FixedZone("", offMin*60)
	}

	dt := time.Date(year, time.Month(month), day, hour, minute, sec, nsec, loc)
	if carry > 0 {
		dt = dt.Add(time.Second)
	}

	ts.dateTime = dt
	ts.kind = kind
	if fracDigits > maxFractionalPrecision {
		fracDigits = maxFractionalPrecision
	}
	ts.numFractionalSeconds = uint8(fracDigits)

	return ts, nil
}

// makeDate builds a date-only timestamp, rejecting components that
// time.Date would silently normalize (2000-01-32 becoming 2000-02-01).
func makeDate(str string, year, month, day int, precision TimestampPrecision) (Timestamp, error) {
	dt := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if dt.Year() != year || dt.Month() != time.Month(month) || dt.Day() != day {
		return invalidTimestamp(str)
	}

	return NewDateTimestamp(dt, precision), nil
}

// fracNanos converts a run of fractional-second digits to nanoseconds,
// rounding at the tenth digit; a carry of one means the rounding
// overflowed into the next second.
func fracNanos(digits string) (nsec, carry int) {
	for i := 0; i < maxFractionalPrecision; i++ {
		nsec *= 10
		if i < len(digits) {
			nsec += int(digits[i] - '0')
		}
	}

	if len(digits) > maxFractionalPrecision && digits[maxFractionalPrecision] >= '5' {
		nsec++
		if nsec == 1000000000 {
			return 0, 1
		}
	}
	return nsec, 0
}

// parseOffset parses the timezone suffix beginning at str[i]: Z, or a
// signed hh:mm pair. A negative zero offset means the local offset is
// unknown.
func parseOffset(str string, i int) (int, TimezoneKind, error) {
	switch str[i] {
	case 'z', 'Z':
		if i+1 != len(str) {
			break
		}
		return 0, TimezoneUTC, nil

	case '+', '-':
		if i+6 != len(str) || str[i+3] != ':' {
			break
		}
		hh, ok1 := atoiFixed(str, i+1, 2)
		mm, ok2 := atoiFixed(str, i+4, 2)
		if !ok1 || !ok2 || hh > 23 || mm > 59 {
			break
		}

		off := hh*60 + mm
		if off == 0 {
			if str[i] == '-' {
				// -00:00 is the unknown offset.
				return 0, TimezoneUnspecified, nil
			}
			return 0, TimezoneUTC, nil
		}
		if str[i] == '-' {
			off = -off
		}
		return off, TimezoneLocal, nil
	}

	return 0, TimezoneUnspecified, fmt.Errorf("ion: invalid timestamp offset in %v", str)
}

// newTimestampFromParts assembles a timestamp from the components the
// binary decoder produces.
func newTimestampFromParts(year, month, day, hour, minute, sec, nsec int, overflow bool,
	offMin int, offKnown bool, precision TimestampPrecision, fracDigits uint8) (Timestamp, error) {

	dt := time.Date(year, time.Month(month), day, hour, minute, sec, nsec, time.UTC)
	if dt.Year() != year || dt.Month() != time.Month(month) || dt.Day() != day {
		return Timestamp{}, fmt.Errorf("ion: invalid timestamp")
	}

	if precision <= TimestampPrecisionDay {
		return NewDateTimestamp(dt, precision), nil
	}

	if overflow {
		dt = dt.Add(time.Second)
	}

	kind := TimezoneUnspecified
	switch {
	case offMin != 0:
		kind = TimezoneLocal
		dt = dt.In(time.FixedZone("", offMin*60))
	case offKnown:
		kind = TimezoneUTC
	}

	return NewTimestampWithFractionalSeconds(dt, precision, kind, fracDigits), nil
}

// GetDateTime returns the timestamp's date and time.
func (ts Timestamp) GetDateTime() time.Time {
	return ts.dateTime
}

// GetPrecision returns the timestamp's precision.
func (ts Timestamp) GetPrecision() TimestampPrecision {
	return ts.precision
}

// GetTimezoneKind returns the timestamp's kind of timezone.
func (ts Timestamp) GetTimezoneKind() TimezoneKind {
	return ts.kind
}

// GetNumberOfFractionalSeconds returns the number of digits of fractional
// seconds this timestamp carries.
func (ts Timestamp) GetNumberOfFractionalSeconds() uint8 {
	return ts.numFractionalSeconds
}

// String formats the timestamp in Ion text form. The component fields are
// rendered directly so that the digit count of the fraction and the
// unknown-offset form survive a round trip.
func (ts Timestamp) String() string {
	b := strings.Builder{}

	fmt.Fprintf(&b, "%04d", ts.dateTime.Year())
	if ts.precision == TimestampPrecisionYear {
		b.WriteByte('T')
		return b.String()
	}

	fmt.Fprintf(&b, "-%02d", int(ts.dateTime.Month()))
	if ts.precision == TimestampPrecisionMonth {
		b.WriteByte('T')
		return b.String()
	}

	fmt.Fprintf(&b, "-%02d", ts.dateTime.Day())
	if ts.precision == TimestampPrecisionDay {
		return b.String()
	}

	fmt.Fprintf(&b, "T%02d:%02d", ts.dateTime.Hour(), ts.dateTime.Minute())
	if ts.precision >= TimestampPrecisionSecond {
		fmt.Fprintf(&b, ":%02d", ts.dateTime.Second())
	}
	if ts.precision >= TimestampPrecisionNanosecond && ts.numFractionalSeconds > 0 {
		fmt.Fprintf(&b, ".%0*d", int(ts.numFractionalSeconds), ts.TruncatedNanoseconds())
	}

	switch ts.kind {
	case TimezoneUTC:
		b.WriteByte('Z')
	case TimezoneUnspecified:
		b.WriteString("-00:00")
	default:
		_, off := ts.dateTime.Zone()
		off /= 60
		sign := byte('+')
		if off < 0 {
			sign = '-'
			off = -off
		}
		fmt.Fprintf(&b, "%c%02d:%02d", sign, off/60, off%60)
	}

	return b.String()
}

// Equal reports whether two timestamps are equal component by component:
// the instant, the offset, the precision, and the fractional-second digit
// count must all match.
func (ts Timestamp) Equal(o Timestamp) bool {
	_, off1 := ts.dateTime.Zone()
	_, off2 := o.dateTime.Zone()

	return ts.dateTime.Equal(o.dateTime) &&
		off1 == off2 &&
		ts.precision == o.precision &&
		ts.kind == o.kind &&
		ts.numFractionalSeconds == o.numFractionalSeconds
}

// InstantEquals reports whether two timestamps represent the same point on
// the UTC timeline, regardless of offset and of how many fractional-second
// digits they carry.
func (ts Timestamp) InstantEquals(o Timestamp) bool {
	return ts.dateTime.Equal(o.dateTime)
}

// TruncatedNanoseconds returns the nanoseconds field truncated to this
// timestamp's count of fractional-second digits; 123456000 at three digits
// is 123.
func (ts Timestamp) TruncatedNanoseconds() int {
	nsecs := ts.dateTime.Nanosecond()

	for i := uint8(0); i < (maxFractionalPrecision-ts.numFractionalSeconds) && nsecs > 0; i++ {
		nsecs /= 10
	}
	return nsecs
}
