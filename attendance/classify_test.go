package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyClock(t *testing.T) {
	tests := []struct {
		name    string
		hour    int
		minute  int
		kind    Kind
		arrival string
		leave   bool
		hours   string
		code    string
		summary string
	}{
		{"exactly nine", 9, 0, KindOnTime, ArrivalOnTime, false, FullDayHours, CodeOnTime, "OnTime"},
		{"one minute early", 8, 59, KindOutside, ArrivalNotApplicable, true, NoHours, CodeOutside, "EL"},
		{"midnight", 0, 0, KindOutside, ArrivalNotApplicable, true, NoHours, CodeOutside, "EL"},
		{"one minute late", 9, 1, KindLate, ArrivalLate, false, FullDayHours, CodeLate, "LateBy 1 min"},
		{"quarter past", 9, 15, KindLate, ArrivalLate, false, FullDayHours, CodeLate, "LateBy 15 min"},
		{"end of grace", 9, 30, KindLate, ArrivalLate, false, FullDayHours, CodeLate, "LateBy 30 min"},
		{"after grace", 9, 31, KindFallback, ArrivalNotApplicable, false, NoHours, CodeWithin, "WH"},
		{"ten", 10, 0, KindFallback, ArrivalNotApplicable, false, NoHours, CodeWithin, "WH"},
		{"last minute of workday", 17, 59, KindFallback, ArrivalNotApplicable, false, NoHours, CodeWithin, "WH"},
		{"end of workday", 18, 0, KindOutside, ArrivalNotApplicable, true, NoHours, CodeOutside, "EL"},
		{"late evening", 23, 59, KindOutside, ArrivalNotApplicable, true, NoHours, CodeOutside, "EL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := ClassifyClock(tt.hour, tt.minute)
			assert.Equal(t, tt.kind, o.Kind)
			assert.Equal(t, tt.arrival, o.ArrivalStatus())
			assert.Equal(t, tt.leave, o.Leave())
			assert.Equal(t, tt.hours, o.NominalHours())
			assert.Equal(t, tt.code, o.LogStatusCode())
			assert.Equal(t, tt.summary, o.Summary())
		})
	}
}

func TestClassifyClock_AllMinutes(t *testing.T) {
	counts := map[Kind]int{}
	for h := 0; h < 24; h++ {
		for m := 0; m < 60; m++ {
			o := ClassifyClock(h, m)
			counts[o.Kind]++

			if o.Leave() {
				assert.Equal(t, NoHours, o.NominalHours(), "%02d:%02d", h, m)
			}
			if o.Kind == KindLate {
				assert.Equal(t, (h-9)*60+m, o.MinutesLate, "%02d:%02d", h, m)
				assert.True(t, o.MinutesLate >= 1 && o.MinutesLate <= GraceMinutes, "%02d:%02d", h, m)
			} else {
				assert.Zero(t, o.MinutesLate, "%02d:%02d", h, m)
			}
			assert.Equal(t, o.Kind == KindOnTime || o.Kind == KindLate, o.NominalHours() == FullDayHours, "%02d:%02d", h, m)
		}
	}

	assert.Equal(t, 1, counts[KindOnTime])
	assert.Equal(t, 30, counts[KindLate])
	// 09:31 to 17:59
	assert.Equal(t, 29+8*60, counts[KindFallback])
	assert.Equal(t, 24*60-1-30-(29+8*60), counts[KindOutside])
}

func TestClassify_UsesWallClock(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+30*60)
	now := time.Date(2024, 3, 4, 9, 15, 42, 0, loc)

	o := Classify(now)
	require.Equal(t, KindLate, o.Kind)

	// same instant seen from UTC is 03:45
	assert.Equal(t, KindOutside, Classify(now.UTC()).Kind)
}

func TestOutcomeRecord(t *testing.T) {
	now := time.Date(2024, 3, 4, 9, 15, 42, 0, time.UTC)
	rec := Classify(now).Record("asha@example.com", now)

	assert.Equal(t, "asha@example.com", rec.EmployeeEmail)
	assert.Equal(t, "2024-03-04", rec.LogDate)
	assert.Equal(t, "09:15:42", rec.LogTime)
	assert.Equal(t, now, rec.LoggedAt)
	assert.Equal(t, ArrivalLate, rec.ArrivalStatus)
	assert.Equal(t, 15, rec.MinutesLate)
	assert.False(t, rec.Leave)
	assert.Equal(t, FullDayHours, rec.EffectiveHours)
	assert.Equal(t, FullDayHours, rec.GrossHours)
	assert.Equal(t, CodeLate, rec.LogStatusCode)

	aest := time.FixedZone("AEST", 10*60*60)
	local := time.Date(2024, 3, 4, 9, 15, 0, 0, aest)
	rec = Classify(local).Record("asha@example.com", local)
	assert.Equal(t, "09:15:00", rec.LogTime)
	assert.Equal(t, time.UTC, rec.LoggedAt.Location())
	assert.True(t, local.Equal(rec.LoggedAt))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "late", KindLate.String())
	assert.Equal(t, "kind(0)", Kind(0).String())
}
