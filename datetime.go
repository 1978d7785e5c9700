package toml

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateTimeKind identifies which of the four TOML date/time variants a
// DateTime holds.
type DateTimeKind int

const (
	// OffsetDateTime is a date and time with a UTC offset, e.g.
	// 2025-07-22T15:00:00Z.
	OffsetDateTime DateTimeKind = iota + 1
	// LocalDateTime is a date and time without an offset.
	LocalDateTime
	// LocalDate is a date only.
	LocalDate
	// LocalTime is a time only.
	LocalTime
)

// DateTime is one of the four TOML v1.0.0 date/time variants.
//
// The calendar fields are packed into a single 64-bit word: year in
// bits 48-63 (signed), month in 44-47, day in 39-43, hour in 34-38,
// minute in 28-33, second in 22-27, and the timezone offset in
// minutes in bits 10-21 (signed). Fractional seconds live in a second
// word as nanoseconds, with -1 meaning absent.
type DateTime struct {
	kind  DateTimeKind
	core  int64
	nanos int64
}

// Kind returns the variant of the date/time.
func (d DateTime) Kind() DateTimeKind { return d.kind }

// IsOffsetDateTime reports whether d is an offset date-time.
func (d DateTime) IsOffsetDateTime() bool { return d.kind == OffsetDateTime }

// IsLocalDateTime reports whether d is a local date-time.
func (d DateTime) IsLocalDateTime() bool { return d.kind == LocalDateTime }

// IsLocalDate reports whether d is a local date.
func (d DateTime) IsLocalDate() bool { return d.kind == LocalDate }

// IsLocalTime reports whether d is a local time.
func (d DateTime) IsLocalTime() bool { return d.kind == LocalTime }

func (d DateTime) hasDate() bool {
	return d.kind == OffsetDateTime || d.kind == LocalDateTime || d.kind == LocalDate
}

func (d DateTime) hasTime() bool {
	return d.kind == OffsetDateTime || d.kind == LocalDateTime || d.kind == LocalTime
}

// Year returns the year and whether the variant carries a date.
func (d DateTime) Year() (int, bool) {
	if !d.hasDate() {
		return 0, false
	}
	return int(getSignedBits(d.core, 48, 16)), true
}

// Month returns the month (1-12) and whether the variant carries a date.
func (d DateTime) Month() (int, bool) {
	if !d.hasDate() {
		return 0, false
	}
	return int(getBits(d.core, 44, 4)), true
}

// Day returns the day of month and whether the variant carries a date.
func (d DateTime) Day() (int, bool) {
	if !d.hasDate() {
		return 0, false
	}
	return int(getBits(d.core, 39, 5)), true
}

// Hour returns the hour (0-23) and whether the variant carries a time.
func (d DateTime) Hour() (int, bool) {
	if !d.hasTime() {
		return 0, false
	}
	return int(getBits(d.core, 34, 5)), true
}

// Minute returns the minute and whether the variant carries a time.
func (d DateTime) Minute() (int, bool) {
	if !d.hasTime() {
		return 0, false
	}
	return int(getBits(d.core, 28, 6)), true
}

// Second returns the second and whether the variant carries a time.
func (d DateTime) Second() (int, bool) {
	if !d.hasTime() {
		return 0, false
	}
	return int(getBits(d.core, 22, 6)), true
}

// Nanosecond returns the fractional second in nanoseconds. The second
// result is false when the variant carries no time or the source had
// no fractional part.
func (d DateTime) Nanosecond() (int, bool) {
	if !d.hasTime() || d.nanos < 0 {
		return 0, false
	}
	return int(d.nanos), true
}

// TzOffset returns the UTC offset in minutes; the second result is
// false for all variants except OffsetDateTime.
func (d DateTime) TzOffset() (int, bool) {
	if d.kind != OffsetDateTime {
		return 0, false
	}
	return int(getSignedBits(d.core, 10, 12)), true
}

// Equal reports whether two date/times have the same variant and the
// same fields.
func (d DateTime) Equal(other DateTime) bool {
	return d.kind == other.kind && d.core == other.core && d.nanos == other.nanos
}

// Time converts an offset date-time to a time.Time in UTC. All other
// variants fail, since they do not name an instant.
func (d DateTime) Time() (time.Time, error) {
	if d.kind != OffsetDateTime {
		return time.Time{}, &TypeError{Op: "Time", Want: "offset date-time"}
	}
	year, _ := d.Year()
	month, _ := d.Month()
	day, _ := d.Day()
	hour, _ := d.Hour()
	minute, _ := d.Minute()
	second, _ := d.Second()
	nanos, _ := d.Nanosecond()
	offset, _ := d.TzOffset()
	loc := time.UTC
	if offset != 0 {
		loc = time.FixedZone("", offset*60)
	}
	return time.Date(year, time.Month(month), day, hour, minute, second, nanos, loc).UTC(), nil
}

// String renders the canonical textual form: zero-padded fields, 'T'
// separator, fractional seconds trimmed of trailing zeros and omitted
// when zero, and offset "Z" when exactly zero.
func (d DateTime) String() string {
	var b strings.Builder
	if year, ok := d.Year(); ok {
		month, _ := d.Month()
		day, _ := d.Day()
		fmt.Fprintf(&b, "%04d-%02d-%02d", year, month, day)
		if d.hasTime() {
			b.WriteByte('T')
		}
	}
	if hour, ok := d.Hour(); ok {
		minute, _ := d.Minute()
		second, _ := d.Second()
		fmt.Fprintf(&b, "%02d:%02d:%02d", hour, minute, second)
	}
	if nanos, ok := d.Nanosecond(); ok && nanos > 0 {
		frac := fmt.Sprintf("%09d", nanos)
		frac = strings.TrimRight(frac, "0")
		b.WriteByte('.')
		b.WriteString(frac)
	}
	if offset, ok := d.TzOffset(); ok {
		if offset == 0 {
			b.WriteByte('Z')
		} else {
			sign := byte('+')
			if offset < 0 {
				sign = '-'
				offset = -offset
			}
			b.WriteByte(sign)
			fmt.Fprintf(&b, "%02d:%02d", offset/60, offset%60)
		}
	}
	return b.String()
}

// FromTime converts a time.Time to an offset date-time, carrying the
// time's zone offset and nanoseconds.
func FromTime(t time.Time) DateTime {
	var d DateTime
	d.kind = OffsetDateTime
	d.setYear(t.Year())
	d.setMonth(int(t.Month()))
	d.setDay(t.Day())
	d.setHour(t.Hour())
	d.setMinute(t.Minute())
	d.setSecond(t.Second())
	_, offset := t.Zone()
	d.setTzOffset(offset / 60)
	d.nanos = -1
	if t.Nanosecond() != 0 {
		d.nanos = int64(t.Nanosecond())
	}
	return d
}

func setBits(target *int64, value int64, startBit, bitCount int) {
	mask := int64(1)<<bitCount - 1
	value &= mask
	*target &^= mask << startBit
	*target |= value << startBit
}

func getBits(source int64, startBit, bitCount int) int64 {
	mask := int64(1)<<bitCount - 1
	return (source >> startBit) & mask
}

func getSignedBits(source int64, startBit, bitCount int) int64 {
	raw := getBits(source, startBit, bitCount)
	signBit := int64(1) << (bitCount - 1)
	if raw&signBit != 0 {
		return raw - int64(1)<<bitCount
	}
	return raw
}

func (d *DateTime) setYear(year int)     { setBits(&d.core, int64(year), 48, 16) }
func (d *DateTime) setMonth(month int)   { setBits(&d.core, int64(month), 44, 4) }
func (d *DateTime) setDay(day int)       { setBits(&d.core, int64(day), 39, 5) }
func (d *DateTime) setHour(hour int)     { setBits(&d.core, int64(hour), 34, 5) }
func (d *DateTime) setMinute(minute int) { setBits(&d.core, int64(minute), 28, 6) }
func (d *DateTime) setSecond(second int) { setBits(&d.core, int64(second), 22, 6) }
func (d *DateTime) setTzOffset(min int)  { setBits(&d.core, int64(min), 10, 12) }

var daysInMonth = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// ParseDateTime parses the RFC 3339 subset TOML defines: an offset
// date-time, local date-time, local date, or local time. The date/time
// separator may be 'T', 't', or a single space; the offset 'Z', 'z',
// or ±HH:MM. Fractional digits beyond nanosecond precision are
// dropped.
func ParseDateTime(s string) (DateTime, error) {
	if s == "" {
		return DateTime{}, fmt.Errorf("toml: cannot parse an empty string as a date/time")
	}
	if d, ok, err := parseDateFirst(s); err != nil {
		return DateTime{}, err
	} else if ok {
		return d, nil
	}
	if d, ok := parseTimeOnly(s); ok {
		return d, nil
	}
	return DateTime{}, fmt.Errorf("toml: %q does not match any TOML date/time format", s)
}

// parseDateFirst handles the three variants that begin with a date.
// The bool result distinguishes "not a date at all" (fall through to
// the time-only form) from a hard error.
func parseDateFirst(s string) (DateTime, bool, error) {
	var d DateTime
	pos := 0
	year, ok := parseDigits(s, &pos, 4)
	if !ok || pos >= len(s) || s[pos] != '-' {
		return d, false, nil
	}
	pos++
	month, ok := parseDigits(s, &pos, 2)
	if !ok || month < 1 || month > 12 || pos >= len(s) || s[pos] != '-' {
		return d, false, nil
	}
	pos++
	day, ok := parseDigits(s, &pos, 2)
	if !ok || day < 1 {
		return d, false, nil
	}
	maxDays := daysInMonth[month-1]
	if month == 2 && isLeapYear(year) {
		maxDays = 29
	}
	if day > maxDays {
		return d, false, fmt.Errorf("toml: day %d is out of range for %04d-%02d", day, year, month)
	}

	d.setYear(year)
	d.setMonth(month)
	d.setDay(day)
	d.kind = LocalDate
	d.nanos = -1
	if pos == len(s) {
		return d, true, nil
	}

	if s[pos] != 'T' && s[pos] != 't' && s[pos] != ' ' {
		return d, false, fmt.Errorf("toml: invalid separator after date in %q", s)
	}
	pos++
	if err := d.parseTimePart(s, &pos); err != nil {
		return d, false, err
	}
	d.kind = LocalDateTime
	if err := d.parseSubSecond(s, &pos); err != nil {
		return d, false, err
	}
	if err := d.parseTimezoneOffset(s, &pos); err != nil {
		return d, false, err
	}
	if pos != len(s) {
		return d, false, fmt.Errorf("toml: trailing content after date/time in %q", s)
	}
	return d, true, nil
}

func parseTimeOnly(s string) (DateTime, bool) {
	var d DateTime
	pos := 0
	if err := d.parseTimePart(s, &pos); err != nil {
		return d, false
	}
	d.kind = LocalTime
	d.nanos = -1
	if err := d.parseSubSecond(s, &pos); err != nil {
		return d, false
	}
	return d, pos == len(s)
}

// parseTimePart consumes hh:mm:ss and stores the fields; the caller
// sets the kind.
func (d *DateTime) parseTimePart(s string, pos *int) error {
	hour, ok := parseDigits(s, pos, 2)
	if !ok || hour > 23 || *pos >= len(s) || s[*pos] != ':' {
		return fmt.Errorf("toml: invalid hour in %q", s)
	}
	*pos++
	minute, ok := parseDigits(s, pos, 2)
	if !ok || minute > 59 || *pos >= len(s) || s[*pos] != ':' {
		return fmt.Errorf("toml: invalid minute in %q", s)
	}
	*pos++
	second, ok := parseDigits(s, pos, 2)
	if !ok || second > 59 {
		return fmt.Errorf("toml: invalid second in %q", s)
	}
	d.setHour(hour)
	d.setMinute(minute)
	d.setSecond(second)
	return nil
}

// parseSubSecond consumes an optional fractional part. Digits beyond
// the ninth are accepted and discarded.
func (d *DateTime) parseSubSecond(s string, pos *int) error {
	if *pos >= len(s) || s[*pos] != '.' {
		return nil
	}
	*pos++
	start := *pos
	for *pos < len(s) && isDigit(s[*pos]) {
		*pos++
	}
	if *pos == start {
		return fmt.Errorf("toml: '.' must be followed by digits in %q", s)
	}
	frac := s[start:*pos]
	if len(frac) > 9 {
		frac = frac[:9]
	}
	for len(frac) < 9 {
		frac += "0"
	}
	nanos, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return fmt.Errorf("toml: invalid fractional second in %q", s)
	}
	// An all-zero fraction normalizes to absent, like FromTime, so
	// 07:32:00.000 and 07:32:00 are the same instant on round trip.
	if nanos == 0 {
		d.nanos = -1
		return nil
	}
	d.nanos = nanos
	return nil
}

// parseTimezoneOffset consumes an optional offset. With no offset
// present the variant stays local.
func (d *DateTime) parseTimezoneOffset(s string, pos *int) error {
	if *pos >= len(s) {
		return nil
	}
	switch c := s[*pos]; c {
	case 'Z', 'z':
		*pos++
		d.setTzOffset(0)
		d.kind = OffsetDateTime
		return nil
	case '+', '-':
		*pos++
		hour, ok := parseDigits(s, pos, 2)
		if !ok || hour > 23 || *pos >= len(s) || s[*pos] != ':' {
			return fmt.Errorf("toml: invalid timezone offset hour in %q", s)
		}
		*pos++
		minute, ok := parseDigits(s, pos, 2)
		if !ok || minute > 59 {
			return fmt.Errorf("toml: invalid timezone offset minute in %q", s)
		}
		offset := hour*60 + minute
		if c == '-' {
			offset = -offset
		}
		d.setTzOffset(offset)
		d.kind = OffsetDateTime
		return nil
	}
	return nil
}

func parseDigits(s string, pos *int, count int) (int, bool) {
	if *pos+count > len(s) {
		return 0, false
	}
	value := 0
	for i := 0; i < count; i++ {
		c := s[*pos+i]
		if !isDigit(c) {
			return 0, false
		}
		value = value*10 + int(c-'0')
	}
	*pos += count
	return value, true
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }
