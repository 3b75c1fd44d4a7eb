package tempora_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tempora-go/tempora"
)

func TestFormatRFC2822(t *testing.T) {
	date, _ := tempora.NewDate(2024, tempora.March, 10)
	time, _ := tempora.NewTime(9, 5, 3, 0)
	offset, _ := tempora.NewOffset(-5 * 3600)
	d := tempora.NewOffsetDateTime(date, time, offset)
	assert.Equal(t, "Sun, 10 Mar 2024 09:05:03 -0500", tempora.FormatRFC2822(d))
}

func TestFormatRFC2822GMT(t *testing.T) {
	i, _ := tempora.InstantFromTimestamp(1_700_000_000)
	got := tempora.FormatRFC2822GMT(i)
	if len(got) != 29 {
		t.Fatalf("FormatRFC2822GMT() length = %d, want 29", len(got))
	}
	if got[len(got)-3:] != "GMT" {
		t.Errorf("FormatRFC2822GMT() = %q, want GMT suffix", got)
	}
}

func TestParseRFC2822_NumericOffset(t *testing.T) {
	date, time, offset, err := tempora.ParseRFC2822("Sun, 10 Mar 2024 09:05:03 -0500")
	assert.NoError(t, err)
	wantDate, _ := tempora.NewDate(2024, tempora.March, 10)
	assert.Equal(t, 0, date.Compare(wantDate))
	assert.Equal(t, 9, time.Hour())
	assert.Equal(t, 5, time.Minute())
	assert.Equal(t, 3, time.Second())
	assert.Equal(t, -5*3600, offset.Get())
}

func TestParseRFC2822_NamedZone(t *testing.T) {
	_, _, offset, err := tempora.ParseRFC2822("10 Mar 2024 09:05:03 PST")
	assert.NoError(t, err)
	assert.Equal(t, -8*3600, offset.Get())
}

func TestParseRFC2822_UnknownZoneFallsBackToUTC(t *testing.T) {
	_, _, offset, err := tempora.ParseRFC2822("10 Mar 2024 09:05:03 ZZZ")
	assert.NoError(t, err)
	assert.Equal(t, 0, offset.Get())
}

func TestParseRFC2822_WeekdayMismatchRejected(t *testing.T) {
	// 2024-03-10 is a Sunday, not a Monday.
	if _, _, _, err := tempora.ParseRFC2822("Mon, 10 Mar 2024 09:05:03 +0000"); err == nil {
		t.Errorf("ParseRFC2822() with wrong weekday succeeded, want error")
	}
}

func TestParseRFC2822_TwoDigitYearRules(t *testing.T) {
	date, time, _, err := tempora.ParseRFC2822("10 Mar 24 09:05:03 +0000")
	if err != nil {
		t.Fatalf("ParseRFC2822() error = %v", err)
	}
	if date.Year().Get() != 2024 {
		t.Errorf("year = %d, want 2024 (two-digit year below 50 maps to 20xx)", date.Year().Get())
	}
	if time.Hour() != 9 {
		t.Errorf("time = %v, want hour 9", time)
	}
}

func TestParseRFC2822_NoSeconds(t *testing.T) {
	_, time, _, err := tempora.ParseRFC2822("10 Mar 2024 09:05 +0000")
	if err != nil {
		t.Fatalf("ParseRFC2822() error = %v", err)
	}
	if time.Second() != 0 {
		t.Errorf("second = %d, want 0", time.Second())
	}
}

func TestParseRFC2822_TrailingGarbageRejected(t *testing.T) {
	if _, _, _, err := tempora.ParseRFC2822("Sun, 10 Mar 2024 09:05:03 +0100-whatever"); err == nil {
		t.Errorf("ParseRFC2822() with trailing garbage succeeded, want error")
	}
	// Trailing whitespace alone stays permitted.
	if _, _, _, err := tempora.ParseRFC2822("Sun, 10 Mar 2024 09:05:03 +0100  "); err != nil {
		t.Errorf("ParseRFC2822() with trailing whitespace error = %v", err)
	}
}

func TestParseRFC2822_RequiresWhitespaceBeforeZone(t *testing.T) {
	for _, s := range []string{
		"10 Mar 2024 09:05+0100",    // no seconds, zone glued to minutes
		"10 Mar 2024 09:05:03+0100", // zone glued to seconds
	} {
		if _, _, _, err := tempora.ParseRFC2822(s); err == nil {
			t.Errorf("ParseRFC2822(%q) succeeded, want missing-whitespace error", s)
		}
	}
}
