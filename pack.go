package tempora

import "encoding/binary"

// Compact little-endian packing of each value type, for hosts that need
// to persist and revive values (pickling and the like). Layouts are
// fixed: year u16, month u8, day u8, hour u8, minute u8, second u8,
// subsec i32, offset i32, epoch/delta seconds i64. Unpack functions
// re-validate every field, so a packing produced by a different version
// (or a corrupted one) fails cleanly instead of reviving an invalid
// value.

const (
	packedDateLen           = 4
	packedTimeLen           = 7
	packedYearMonthLen      = 3
	packedMonthDayLen       = 2
	packedDateDeltaLen      = 8
	packedTimeDeltaLen      = 12
	packedDateTimeDeltaLen  = 20
	packedInstantLen        = 12
	packedPlainDateTimeLen  = packedDateLen + packedTimeLen
	packedOffsetDateTimeLen = packedPlainDateTimeLen + 4
)

// Pack returns d as 4 bytes: year u16, month u8, day u8.
func (d Date) Pack() []byte {
	b := make([]byte, packedDateLen)
	binary.LittleEndian.PutUint16(b, uint16(d.year))
	b[2] = byte(d.month)
	b[3] = byte(d.day)
	return b
}

// UnpackDate revives a Date packed by Date.Pack.
func UnpackDate(b []byte) (Date, error) {
	if len(b) != packedDateLen {
		return Date{}, newErrorf(KindInvalidFormat, "packed Date must be %d bytes, got %d", packedDateLen, len(b))
	}
	d, ok := NewDate(int(binary.LittleEndian.Uint16(b)), Month(b[2]), int(b[3]))
	if !ok {
		return Date{}, newError(KindInvalidFormat, "packed Date fields out of range")
	}
	return d, nil
}

// Pack returns t as 7 bytes: hour u8, minute u8, second u8, subsec i32.
func (t Time) Pack() []byte {
	b := make([]byte, packedTimeLen)
	b[0] = byte(t.hour)
	b[1] = byte(t.minute)
	b[2] = byte(t.second)
	binary.LittleEndian.PutUint32(b[3:], uint32(t.subsec))
	return b
}

// UnpackTime revives a Time packed by Time.Pack.
func UnpackTime(b []byte) (Time, error) {
	if len(b) != packedTimeLen {
		return Time{}, newErrorf(KindInvalidFormat, "packed Time must be %d bytes, got %d", packedTimeLen, len(b))
	}
	t, ok := NewTime(int(b[0]), int(b[1]), int(b[2]), SubSecNanos(int32(binary.LittleEndian.Uint32(b[3:]))))
	if !ok {
		return Time{}, newError(KindInvalidFormat, "packed Time fields out of range")
	}
	return t, nil
}

// Pack returns ym as 3 bytes: year u16, month u8.
func (ym YearMonth) Pack() []byte {
	b := make([]byte, packedYearMonthLen)
	binary.LittleEndian.PutUint16(b, uint16(ym.year))
	b[2] = byte(ym.month)
	return b
}

// UnpackYearMonth revives a YearMonth packed by YearMonth.Pack.
func UnpackYearMonth(b []byte) (YearMonth, error) {
	if len(b) != packedYearMonthLen {
		return YearMonth{}, newErrorf(KindInvalidFormat, "packed YearMonth must be %d bytes, got %d", packedYearMonthLen, len(b))
	}
	ym, ok := NewYearMonth(int(binary.LittleEndian.Uint16(b)), Month(b[2]))
	if !ok {
		return YearMonth{}, newError(KindInvalidFormat, "packed YearMonth fields out of range")
	}
	return ym, nil
}

// Pack returns md as 2 bytes: month u8, day u8.
func (md MonthDay) Pack() []byte {
	return []byte{byte(md.month), byte(md.day)}
}

// UnpackMonthDay revives a MonthDay packed by MonthDay.Pack.
func UnpackMonthDay(b []byte) (MonthDay, error) {
	if len(b) != packedMonthDayLen {
		return MonthDay{}, newErrorf(KindInvalidFormat, "packed MonthDay must be %d bytes, got %d", packedMonthDayLen, len(b))
	}
	md, ok := NewMonthDay(Month(b[0]), int(b[1]))
	if !ok {
		return MonthDay{}, newError(KindInvalidFormat, "packed MonthDay fields out of range")
	}
	return md, nil
}

// Pack returns d as 8 bytes: months i32, days i32.
func (d DateDelta) Pack() []byte {
	b := make([]byte, packedDateDeltaLen)
	binary.LittleEndian.PutUint32(b, uint32(d.months))
	binary.LittleEndian.PutUint32(b[4:], uint32(d.days))
	return b
}

// UnpackDateDelta revives a DateDelta packed by DateDelta.Pack.
func UnpackDateDelta(b []byte) (DateDelta, error) {
	if len(b) != packedDateDeltaLen {
		return DateDelta{}, newErrorf(KindInvalidFormat, "packed DateDelta must be %d bytes, got %d", packedDateDeltaLen, len(b))
	}
	months, ok := NewDeltaMonths(int(int32(binary.LittleEndian.Uint32(b))))
	if !ok {
		return DateDelta{}, newError(KindInvalidFormat, "packed DateDelta months out of range")
	}
	days, ok := NewDeltaDays(int(int32(binary.LittleEndian.Uint32(b[4:]))))
	if !ok {
		return DateDelta{}, newError(KindInvalidFormat, "packed DateDelta days out of range")
	}
	return NewDateDelta(months, days)
}

// Pack returns d as 12 bytes: seconds i64, subsec i32.
func (d TimeDelta) Pack() []byte {
	b := make([]byte, packedTimeDeltaLen)
	binary.LittleEndian.PutUint64(b, uint64(d.secs))
	binary.LittleEndian.PutUint32(b[8:], uint32(d.subsec))
	return b
}

// UnpackTimeDelta revives a TimeDelta packed by TimeDelta.Pack.
func UnpackTimeDelta(b []byte) (TimeDelta, error) {
	if len(b) != packedTimeDeltaLen {
		return TimeDelta{}, newErrorf(KindInvalidFormat, "packed TimeDelta must be %d bytes, got %d", packedTimeDeltaLen, len(b))
	}
	secs := int64(binary.LittleEndian.Uint64(b))
	subsec := int64(int32(binary.LittleEndian.Uint32(b[8:])))
	if subsec < 0 || subsec >= nanosPerSec {
		return TimeDelta{}, newError(KindInvalidFormat, "packed TimeDelta subsec out of range")
	}
	return NewTimeDelta(secs, subsec)
}

// Pack returns d as 20 bytes: the DateDelta packing followed by the
// TimeDelta packing.
func (d DateTimeDelta) Pack() []byte {
	return append(d.ddelta.Pack(), d.tdelta.Pack()...)
}

// UnpackDateTimeDelta revives a DateTimeDelta packed by
// DateTimeDelta.Pack.
func UnpackDateTimeDelta(b []byte) (DateTimeDelta, error) {
	if len(b) != packedDateTimeDeltaLen {
		return DateTimeDelta{}, newErrorf(KindInvalidFormat, "packed DateTimeDelta must be %d bytes, got %d", packedDateTimeDeltaLen, len(b))
	}
	dd, err := UnpackDateDelta(b[:packedDateDeltaLen])
	if err != nil {
		return DateTimeDelta{}, err
	}
	td, err := UnpackTimeDelta(b[packedDateDeltaLen:])
	if err != nil {
		return DateTimeDelta{}, err
	}
	return NewDateTimeDelta(dd, td)
}

// Pack returns i as 12 bytes: epoch seconds i64, subsec i32.
func (i Instant) Pack() []byte {
	b := make([]byte, packedInstantLen)
	binary.LittleEndian.PutUint64(b, uint64(i.secs))
	binary.LittleEndian.PutUint32(b[8:], uint32(i.subsec))
	return b
}

// UnpackInstant revives an Instant packed by Instant.Pack.
func UnpackInstant(b []byte) (Instant, error) {
	if len(b) != packedInstantLen {
		return Instant{}, newErrorf(KindInvalidFormat, "packed Instant must be %d bytes, got %d", packedInstantLen, len(b))
	}
	secs, ok := NewEpochSecs(int64(binary.LittleEndian.Uint64(b)))
	if !ok {
		return Instant{}, newError(KindInvalidFormat, "packed Instant epoch out of range")
	}
	subsec, ok := NewSubSecNanos(int(int32(binary.LittleEndian.Uint32(b[8:]))))
	if !ok {
		return Instant{}, newError(KindInvalidFormat, "packed Instant subsec out of range")
	}
	return Instant{secs: secs, subsec: subsec}, nil
}

// Pack returns p as 11 bytes: the Date packing followed by the Time
// packing.
func (p PlainDateTime) Pack() []byte {
	return append(p.date.Pack(), p.time.Pack()...)
}

// UnpackPlainDateTime revives a PlainDateTime packed by
// PlainDateTime.Pack.
func UnpackPlainDateTime(b []byte) (PlainDateTime, error) {
	if len(b) != packedPlainDateTimeLen {
		return PlainDateTime{}, newErrorf(KindInvalidFormat, "packed PlainDateTime must be %d bytes, got %d", packedPlainDateTimeLen, len(b))
	}
	d, err := UnpackDate(b[:packedDateLen])
	if err != nil {
		return PlainDateTime{}, err
	}
	t, err := UnpackTime(b[packedDateLen:])
	if err != nil {
		return PlainDateTime{}, err
	}
	return PlainDateTime{date: d, time: t}, nil
}

// Pack returns o as 15 bytes: the PlainDateTime packing followed by the
// offset as i32 seconds.
func (o OffsetDateTime) Pack() []byte {
	b := append(o.date.Pack(), o.time.Pack()...)
	out := make([]byte, packedOffsetDateTimeLen)
	copy(out, b)
	binary.LittleEndian.PutUint32(out[packedPlainDateTimeLen:], uint32(int32(o.offset)))
	return out
}

// UnpackOffsetDateTime revives an OffsetDateTime packed by
// OffsetDateTime.Pack.
func UnpackOffsetDateTime(b []byte) (OffsetDateTime, error) {
	if len(b) != packedOffsetDateTimeLen {
		return OffsetDateTime{}, newErrorf(KindInvalidFormat, "packed OffsetDateTime must be %d bytes, got %d", packedOffsetDateTimeLen, len(b))
	}
	p, err := UnpackPlainDateTime(b[:packedPlainDateTimeLen])
	if err != nil {
		return OffsetDateTime{}, err
	}
	offset, ok := NewOffset(int(int32(binary.LittleEndian.Uint32(b[packedPlainDateTimeLen:]))))
	if !ok {
		return OffsetDateTime{}, newError(KindInvalidFormat, "packed OffsetDateTime offset out of range")
	}
	o := OffsetDateTime{date: p.date, time: p.time, offset: offset}
	if _, err := o.Instant(); err != nil {
		return OffsetDateTime{}, err
	}
	return o, nil
}
