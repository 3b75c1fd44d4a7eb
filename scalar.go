package tempora

import (
	"fmt"
	"math"
)

// addInt64 attempts to add v1 to v2 and reports whether the operation
// would overflow or underflow int64.
func addInt64(v1, v2 int64) (sum int64, underflows, overflows bool) {
	if v2 > 0 {
		if v1 > math.MaxInt64-v2 {
			return 0, false, true
		}
	} else if v2 < 0 {
		v := math.MinInt64 + v1
		if v < 0 {
			v = -v
		}
		if -v > v2 {
			return 0, true, false
		}
	}
	return v1 + v2, false, false
}

func debugAssert(cond bool, msg string) {
	if !cond {
		panic("tempora: invariant violated: " + msg)
	}
}

// Year is a proleptic-Gregorian calendar year, 1..=9999.
type Year int16

const (
	minYear = Year(1)
	maxYear = Year(9999)
)

// NewYear returns the Year represented by v, or false if v is outside
// 1..=9999.
func NewYear(v int) (Year, bool) {
	if v < int(minYear) || v > int(maxYear) {
		return 0, false
	}
	return Year(v), true
}

// newYearUnchecked trusts the caller to have validated v already; used
// by hot paths such as the Neri-Schneider date decomposition.
func newYearUnchecked(v int) Year {
	debugAssert(v >= int(minYear) && v <= int(maxYear), "year out of range")
	return Year(v)
}

// Get returns the underlying year number.
func (y Year) Get() int { return int(y) }

// IsLeap reports whether y is a leap year: divisible by 4, except
// century years not divisible by 400.
func (y Year) IsLeap() bool {
	v := int(y)
	return v%4 == 0 && (v%100 != 0 || v%400 == 0)
}

var daysInMonthCommon = [13]int{0, 31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}
var daysInMonthLeap = [13]int{0, 31, 29, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

var daysBeforeMonthCommon = [13]int{0, 0, 31, 59, 90, 120, 151, 181, 212, 243, 273, 304, 334}
var daysBeforeMonthLeap = [13]int{0, 0, 31, 60, 91, 121, 152, 182, 213, 244, 274, 305, 335}

// DaysInMonth returns the number of days in month m of year y.
func (y Year) DaysInMonth(m Month) int {
	if y.IsLeap() {
		return daysInMonthLeap[m]
	}
	return daysInMonthCommon[m]
}

// DaysBeforeMonth returns the number of days in year y preceding the
// first of month m.
func (y Year) DaysBeforeMonth(m Month) int {
	if y.IsLeap() {
		return daysBeforeMonthLeap[m]
	}
	return daysBeforeMonthCommon[m]
}

// Month identifies a calendar month, 1..=12.
type Month int8

const (
	January Month = iota + 1
	February
	March
	April
	May
	June
	July
	August
	September
	October
	November
	December
)

// NewMonth returns the Month represented by v, or false if v is
// outside 1..=12.
func NewMonth(v int) (Month, bool) {
	if v < 1 || v > 12 {
		return 0, false
	}
	return Month(v), true
}

func (m Month) Get() int { return int(m) }

var monthNames = [13]string{
	"", "January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

func (m Month) String() string {
	if m < January || m > December {
		return fmt.Sprintf("%%!Month(%d)", int(m))
	}
	return monthNames[m]
}

// Weekday is an ISO weekday, 1 (Monday) through 7 (Sunday).
type Weekday int8

const (
	Monday Weekday = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayNames = [8]string{
	"", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

func (d Weekday) String() string {
	if d < Monday || d > Sunday {
		return fmt.Sprintf("%%!Weekday(%d)", int(d))
	}
	return weekdayNames[d]
}

// Offset is a fixed UTC offset in seconds, |x| < 86_400.
type Offset int32

const maxOffsetSecs = 86_400

// NewOffset returns the Offset of v seconds, or false if |v| >= 86_400.
func NewOffset(v int) (Offset, bool) {
	if v <= -maxOffsetSecs || v >= maxOffsetSecs {
		return 0, false
	}
	return Offset(v), true
}

// OffsetFromHours returns the Offset of h whole hours. h must satisfy
// |h| <= 23.
func OffsetFromHours(h int) (Offset, bool) {
	if h < -23 || h > 23 {
		return 0, false
	}
	return Offset(h * 3600), true
}

func (o Offset) Get() int { return int(o) }

// String renders o as "±HH:MM", or "±HH:MM:SS" when the offset has a
// non-zero seconds component.
func (o Offset) String() string {
	return formatOffset(int(o), true)
}

func formatOffset(secs int, colon bool) string {
	sign := "+"
	v := secs
	if v < 0 {
		sign = "-"
		v = -v
	}
	hh := v / 3600
	mm := (v % 3600) / 60
	ss := v % 60
	sep := ""
	if colon {
		sep = ":"
	}
	if ss != 0 {
		return fmt.Sprintf("%s%02d%s%02d%s%02d", sign, hh, sep, mm, sep, ss)
	}
	return fmt.Sprintf("%s%02d%s%02d", sign, hh, sep, mm)
}

// OffsetDelta is a signed difference between two Offsets, |x| <= 172_800.
type OffsetDelta int32

const maxOffsetDeltaSecs = 172_800

func NewOffsetDelta(v int) (OffsetDelta, bool) {
	if v < -maxOffsetDeltaSecs || v > maxOffsetDeltaSecs {
		return 0, false
	}
	return OffsetDelta(v), true
}

func (d OffsetDelta) Get() int { return int(d) }

// EpochSecs is a count of seconds since 1970-01-01T00:00:00Z, ranging
// over 0001-01-01T00:00:00 .. 9999-12-31T23:59:59.
type EpochSecs int64

const (
	minEpochSecs = EpochSecs(-62_135_596_800)
	maxEpochSecs = EpochSecs(253_402_300_799)
)

func NewEpochSecs(v int64) (EpochSecs, bool) {
	if EpochSecs(v) < minEpochSecs || EpochSecs(v) > maxEpochSecs {
		return 0, false
	}
	return EpochSecs(v), true
}

func (e EpochSecs) Get() int64 { return int64(e) }

func (e EpochSecs) Add(d DeltaSeconds) (EpochSecs, bool) {
	sum, under, over := addInt64(int64(e), int64(d))
	if under || over {
		return 0, false
	}
	return NewEpochSecs(sum)
}

func (e EpochSecs) Diff(o EpochSecs) DeltaSeconds {
	return DeltaSeconds(int64(e) - int64(o))
}

// UnixDays is a signed day count relative to the Unix epoch,
// -719_162..=2_932_896 (years 0001..=9999).
type UnixDays int32

const (
	minUnixDays = UnixDays(-719_162)
	maxUnixDays = UnixDays(2_932_896)
)

func NewUnixDays(v int64) (UnixDays, bool) {
	if UnixDays(v) < minUnixDays || UnixDays(v) > maxUnixDays {
		return 0, false
	}
	return UnixDays(v), true
}

func (u UnixDays) Get() int32 { return int32(u) }

func (u UnixDays) Add(d DeltaDays) (UnixDays, bool) {
	return NewUnixDays(int64(u) + int64(d))
}

// Weekday returns the ISO weekday of u, per Date.DayOfWeek: Jan 1 1970
// (UnixDays 0) was a Thursday.
func (u UnixDays) Weekday() Weekday {
	// ((unix_days + 3) mod 7) + 1, with a floor-mod to handle negatives.
	m := (int64(u) + 3) % 7
	if m < 0 {
		m += 7
	}
	return Weekday(m + 1)
}

// DeltaMonths is a signed count of months, large enough to span the
// full supported year range.
type DeltaMonths int32

func NewDeltaMonths(v int) (DeltaMonths, bool) {
	const lim = int(maxYear) * 12
	if v < -lim || v > lim {
		return 0, false
	}
	return DeltaMonths(v), true
}

func (d DeltaMonths) Get() int32 { return int32(d) }

// DeltaDays is a signed count of days, large enough to span the full
// supported year range.
type DeltaDays int32

func NewDeltaDays(v int) (DeltaDays, bool) {
	lim := int(maxUnixDays) - int(minUnixDays)
	if v < -lim || v > lim {
		return 0, false
	}
	return DeltaDays(v), true
}

func (d DeltaDays) Get() int32 { return int32(d) }

// DeltaSeconds is a signed count of seconds, large enough to span
// ±(MAX_YEAR × 366 days).
type DeltaSeconds int64

const maxDeltaSeconds = DeltaSeconds(int64(maxYear) * 366 * 86400)

func NewDeltaSeconds(v int64) (DeltaSeconds, bool) {
	if DeltaSeconds(v) < -maxDeltaSeconds || DeltaSeconds(v) > maxDeltaSeconds {
		return 0, false
	}
	return DeltaSeconds(v), true
}

func (d DeltaSeconds) Get() int64 { return int64(d) }

// DeltaNanos is a signed count of nanoseconds.
type DeltaNanos int64

func NewDeltaNanos(v int64) DeltaNanos { return DeltaNanos(v) }

func (d DeltaNanos) Get() int64 { return int64(d) }

// SubSecNanos is the nanosecond remainder within a second, 0..=999_999_999.
type SubSecNanos int32

const nanosPerSec = 1_000_000_000

func NewSubSecNanos(v int) (SubSecNanos, bool) {
	if v < 0 || v >= nanosPerSec {
		return 0, false
	}
	return SubSecNanos(v), true
}

func (s SubSecNanos) Get() int32 { return int32(s) }

// Add returns s+other as a (carry, remainder) pair; carry is 0 or 1.
func (s SubSecNanos) Add(other SubSecNanos) (carry DeltaSeconds, rem SubSecNanos) {
	total := int64(s) + int64(other)
	if total >= nanosPerSec {
		return 1, SubSecNanos(total - nanosPerSec)
	}
	return 0, SubSecNanos(total)
}

// Diff returns s-other as a (carry, remainder) pair; carry is -1 or 0.
func (s SubSecNanos) Diff(other SubSecNanos) (carry DeltaSeconds, rem SubSecNanos) {
	total := int64(s) - int64(other)
	if total < 0 {
		return -1, SubSecNanos(total + nanosPerSec)
	}
	return 0, SubSecNanos(total)
}

// SubSecNanosFromFract returns floor((f - floor(f)) * 1e9) mod 1e9.
func SubSecNanosFromFract(f float64) SubSecNanos {
	frac := f - math.Floor(f)
	n := int64(math.Floor(frac * nanosPerSec))
	n %= nanosPerSec
	if n < 0 {
		n += nanosPerSec
	}
	return SubSecNanos(n)
}

// String renders s as an empty string when zero, or ".DDDDDDDDD" with
// trailing zeros trimmed.
func (s SubSecNanos) String() string {
	if s == 0 {
		return ""
	}
	digits := fmt.Sprintf("%09d", int32(s))
	i := len(digits)
	for i > 0 && digits[i-1] == '0' {
		i--
	}
	return "." + digits[:i]
}
