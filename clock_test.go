package tempora_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tempora-go/tempora"
)

func TestParseTime_ExtendedAndBasic(t *testing.T) {
	tests := []struct {
		in                   string
		hour, minute, second int
		subsec               int32
	}{
		{"02:09:09.123456789", 2, 9, 9, 123_456_789},
		{"02:09:09", 2, 9, 9, 0},
		{"02:09", 2, 9, 0, 0},
		{"02", 2, 0, 0, 0},
		{"020909.5", 2, 9, 9, 500_000_000},
		{"0209", 2, 9, 0, 0},
		{"23:59:59.999999999", 23, 59, 59, 999_999_999},
	}
	for _, tt := range tests {
		got, err := tempora.ParseTime(tt.in)
		assert.NoError(t, err, "ParseTime(%q)", tt.in)
		assert.Equal(t, tt.hour, got.Hour(), "ParseTime(%q) hour", tt.in)
		assert.Equal(t, tt.minute, got.Minute(), "ParseTime(%q) minute", tt.in)
		assert.Equal(t, tt.second, got.Second(), "ParseTime(%q) second", tt.in)
		assert.Equal(t, tt.subsec, got.Subsec().Get(), "ParseTime(%q) subsec", tt.in)
	}

	for _, s := range []string{"", "24:00", "02:60", "02:09:09.", "02:09:09.1234567891", "02:09x"} {
		_, err := tempora.ParseTime(s)
		assert.Error(t, err, "ParseTime(%q) should fail", s)
	}
}

func TestTime_RoundCarriesPastMidnight(t *testing.T) {
	tm, _ := tempora.NewTime(23, 59, 30, 0)
	got, carry, err := tm.Round(tempora.UnitMinute, 1, tempora.RoundHalfCeil)
	if err != nil {
		t.Fatalf("Round() error = %v", err)
	}
	if !carry {
		t.Errorf("Round(23:59:30 to minute) carry = false, want true")
	}
	if got.Hour() != 0 || got.Minute() != 0 || got.Second() != 0 {
		t.Errorf("Round(23:59:30 to minute) = %v, want 00:00:00", got)
	}
}

func TestTime_RoundWithinDay(t *testing.T) {
	tm, _ := tempora.NewTime(2, 9, 9, 123_456_789)
	got, carry, err := tm.Round(tempora.UnitSecond, 1, tempora.RoundHalfEven)
	if err != nil {
		t.Fatalf("Round() error = %v", err)
	}
	if carry {
		t.Errorf("Round(02:09:09.12… to second) carry = true, want false")
	}
	if got.Second() != 9 || got.Subsec() != 0 {
		t.Errorf("Round(02:09:09.12… to second) = %v, want 02:09:09", got)
	}
}

func TestTime_RoundRejectsDayUnitAndUnevenIncrement(t *testing.T) {
	tm, _ := tempora.NewTime(12, 0, 0, 0)
	if _, _, err := tm.Round(tempora.UnitDay, 1, tempora.RoundFloor); err == nil {
		t.Errorf("Round(day unit) succeeded, want error")
	}
	if _, _, err := tm.Round(tempora.UnitHour, 7, tempora.RoundFloor); err == nil {
		t.Errorf("Round(7 hours) succeeded, want error: 7h does not divide a day")
	}
	if _, _, err := tm.Round(tempora.UnitMillisecond, 7, tempora.RoundFloor); err == nil {
		t.Errorf("Round(7ms) succeeded, want error: 7ms does not divide a second")
	}
}
