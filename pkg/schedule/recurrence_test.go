package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) Date {
	parsed, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return parsed
}

func dp(s string) *Date {
	v := d(s)
	return &v
}

func TestOccursOnSingleDay(t *testing.T) {
	anchor := dp("2024-03-10")

	assert.True(t, OccursOn(anchor, nil, Rule{}, d("2024-03-10")))
	assert.False(t, OccursOn(anchor, nil, Rule{}, d("2024-03-09")))
	assert.False(t, OccursOn(anchor, nil, Rule{}, d("2024-03-11")))
	assert.False(t, OccursOn(nil, nil, Rule{Kind: Daily}, d("2024-03-10")))
}

func TestOccursOnIgnoresTimeZoneOfTarget(t *testing.T) {
	anchor := dp("2024-03-10")

	// 23:30 in UTC-8 is already March 11 in UTC; the local day must win.
	pst := time.FixedZone("PST", -8*60*60)
	late := time.Date(2024, 3, 10, 23, 30, 0, 0, pst)
	assert.True(t, OccursOn(anchor, nil, Rule{}, DateOf(late)))

	// 00:15 in UTC+13 is still March 9 in UTC.
	nzdt := time.FixedZone("NZDT", 13*60*60)
	early := time.Date(2024, 3, 10, 0, 15, 0, 0, nzdt)
	assert.True(t, OccursOn(anchor, nil, Rule{}, DateOf(early)))
}

func TestOccursOnSpan(t *testing.T) {
	start, end := dp("2024-01-30"), dp("2024-02-02")

	for day := *start; !day.After(*end); day = day.AddDays(1) {
		assert.True(t, OccursOn(start, end, Rule{}, day), day.String())
	}
	assert.False(t, OccursOn(start, end, Rule{}, start.AddDays(-1)))
	assert.False(t, OccursOn(start, end, Rule{}, end.AddDays(1)))
}

func TestOccursOnRecurring(t *testing.T) {
	monday := dp("2024-01-01")

	tests := []struct {
		name   string
		anchor *Date
		end    *Date
		rule   Rule
		target string
		want   bool
	}{
		{"daily before anchor", monday, nil, Rule{Kind: Daily}, "2023-12-31", false},
		{"daily on anchor", monday, nil, Rule{Kind: Daily}, "2024-01-01", true},
		{"daily later", monday, nil, Rule{Kind: Daily}, "2024-06-17", true},
		{"daily after end", monday, dp("2024-01-05"), Rule{Kind: Daily}, "2024-01-06", false},
		{"daily on end", monday, dp("2024-01-05"), Rule{Kind: Daily}, "2024-01-05", true},
		{"weekly same weekday", monday, nil, Rule{Kind: Weekly}, "2024-01-22", true},
		{"weekly other weekday", monday, nil, Rule{Kind: Weekly}, "2024-01-23", false},
		{"monthly same day", dp("2024-01-15"), nil, Rule{Kind: Monthly}, "2024-04-15", true},
		{"monthly other day", dp("2024-01-15"), nil, Rule{Kind: Monthly}, "2024-04-16", false},
		{"monthly 31st skips april", dp("2024-01-31"), nil, Rule{Kind: Monthly}, "2024-04-30", false},
		{"monthly 31st hits march", dp("2024-01-31"), nil, Rule{Kind: Monthly}, "2024-03-31", true},
		{"custom member", monday, nil, Rule{Kind: Custom, Days: []time.Weekday{time.Monday, time.Wednesday}}, "2024-01-03", true},
		{"custom non-member", monday, nil, Rule{Kind: Custom, Days: []time.Weekday{time.Monday, time.Wednesday}}, "2024-01-04", false},
		{"custom empty days", monday, nil, Rule{Kind: Custom}, "2024-01-08", false},
		{"custom before anchor", monday, nil, Rule{Kind: Custom, Days: []time.Weekday{time.Sunday}}, "2023-12-31", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OccursOn(tt.anchor, tt.end, tt.rule, d(tt.target)))
		})
	}
}

func TestOccursOnWeeklyProperty(t *testing.T) {
	anchor := dp("2024-02-14")
	rule := Rule{Kind: Weekly}
	for i := -10; i < 60; i++ {
		target := anchor.AddDays(i)
		want := i >= 0 && target.Weekday() == anchor.Weekday()
		assert.Equal(t, want, OccursOn(anchor, nil, rule, target), target.String())
	}
}

func TestNext(t *testing.T) {
	monWed := []time.Weekday{time.Wednesday, time.Monday}

	tests := []struct {
		name   string
		anchor string
		rule   Rule
		want   string
		ok     bool
	}{
		{"daily", "2024-02-28", Rule{Kind: Daily}, "2024-02-29", true},
		{"weekly", "2024-01-01", Rule{Kind: Weekly}, "2024-01-08", true},
		{"monthly", "2024-01-15", Rule{Kind: Monthly}, "2024-02-15", true},
		{"monthly rolls over", "2024-01-31", Rule{Kind: Monthly}, "2024-03-02", true},
		{"custom same week", "2024-01-01", Rule{Kind: Custom, Days: monWed}, "2024-01-03", true},
		{"custom wraps", "2024-01-03", Rule{Kind: Custom, Days: monWed}, "2024-01-08", true},
		{"custom single day wraps a full week", "2024-01-01", Rule{Kind: Custom, Days: []time.Weekday{time.Monday}}, "2024-01-08", true},
		{"custom off-set anchor", "2024-01-06", Rule{Kind: Custom, Days: monWed}, "2024-01-08", true},
		{"custom empty", "2024-01-01", Rule{Kind: Custom}, "", false},
		{"none", "2024-01-01", Rule{Kind: None}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Next(d(tt.anchor), tt.rule)
			require.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.want, got.String())
			}
		})
	}
}

func TestNextIsAnOccurrence(t *testing.T) {
	rules := []Rule{
		{Kind: Daily},
		{Kind: Weekly},
		{Kind: Monthly},
		{Kind: Custom, Days: []time.Weekday{time.Tuesday, time.Friday}},
		{Kind: Custom, Days: []time.Weekday{time.Sunday}},
	}
	// Anchors avoid days 29-31 where monthly rollover leaves the anchor day.
	for _, anchor := range []string{"2024-01-01", "2024-02-10", "2024-06-28", "2024-12-25"} {
		for _, rule := range rules {
			a := d(anchor)
			next, ok := Next(a, rule)
			require.True(t, ok)
			assert.True(t, OccursOn(&a, nil, rule, next), "%s %v", anchor, rule)
		}
	}
}

func TestParseDays(t *testing.T) {
	days, err := ParseDays("wed, 1,Monday")
	require.NoError(t, err)
	assert.Equal(t, []time.Weekday{time.Monday, time.Wednesday}, days)

	_, err = ParseDays("7")
	assert.Error(t, err)
	_, err = ParseDays("funday")
	assert.Error(t, err)
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("")
	require.NoError(t, err)
	assert.Equal(t, None, k)

	k, err = ParseKind("Weekly")
	require.NoError(t, err)
	assert.Equal(t, Weekly, k)

	_, err = ParseKind("yearly")
	assert.Error(t, err)
}
