package tempora_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tempora-go/tempora"
)

func TestDate_UnixDaysRoundTrip(t *testing.T) {
	for _, tt := range []struct {
		year  int
		month tempora.Month
		day   int
	}{
		{1970, tempora.January, 1},
		{1969, tempora.December, 31},
		{2000, tempora.February, 29}, // leap day
		{1900, tempora.February, 28}, // not a leap year
		{9999, tempora.December, 31},
		{1, tempora.January, 1},
	} {
		d, ok := tempora.NewDate(tt.year, tt.month, tt.day)
		if !ok {
			t.Fatalf("NewDate(%d, %v, %d) failed", tt.year, tt.month, tt.day)
		}
		round := tempora.DateFromUnixDays(d.UnixDays())
		if round.Compare(d) != 0 {
			t.Errorf("round-trip via UnixDays = %v, want %v", round, d)
		}
	}
}

func TestDate_RejectsInvalidDay(t *testing.T) {
	if _, ok := tempora.NewDate(2023, tempora.February, 29); ok {
		t.Errorf("NewDate(2023, Feb, 29) succeeded, want false (not a leap year)")
	}
	if _, ok := tempora.NewDate(2024, tempora.February, 29); !ok {
		t.Errorf("NewDate(2024, Feb, 29) failed, want success (leap year)")
	}
}

func TestDate_TomorrowYesterdayRoundTrip(t *testing.T) {
	d, _ := tempora.NewDate(2024, tempora.February, 28)
	tomorrow, ok := d.Tomorrow()
	if !ok {
		t.Fatalf("Tomorrow() failed")
	}
	if tomorrow.Day() != 29 || tomorrow.Month() != tempora.February {
		t.Errorf("Tomorrow() = %v, want 2024-02-29", tomorrow)
	}
	back, ok := tomorrow.Yesterday()
	if !ok || back.Compare(d) != 0 {
		t.Errorf("Yesterday() = %v, want %v", back, d)
	}
}

func TestDate_ShiftMonthsClampsDay(t *testing.T) {
	d, _ := tempora.NewDate(2024, tempora.January, 31)
	shifted, ok := d.Shift(1, 0)
	if !ok {
		t.Fatalf("Shift(1 month) failed")
	}
	// January 31 + 1 month clamps to February 29 (2024 is a leap year).
	if shifted.Month() != tempora.February || shifted.Day() != 29 {
		t.Errorf("Shift(1 month) = %v, want 2024-02-29", shifted)
	}
}

func TestDate_StringParseRoundTrip(t *testing.T) {
	for _, s := range []string{"2024-03-10", "0001-01-01", "9999-12-31"} {
		d, err := tempora.ParseDate(s)
		assert.NoError(t, err, "ParseDate(%q)", s)
		assert.Equal(t, s, d.String(), "round-trip String()")
	}
}

func TestDate_ParseRejectsMalformed(t *testing.T) {
	for _, s := range []string{"", "2024-13-01", "2024-02-30", "not-a-date"} {
		_, err := tempora.ParseDate(s)
		assert.Error(t, err, "ParseDate(%q) should fail", s)
	}
}
