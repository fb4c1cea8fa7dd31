package attendance

import (
	"fmt"
	"time"
)

const (
	WorkdayStartHour = 9
	GraceMinutes     = 30
	WorkdayEndHour   = 18
)

// Nominal credited hours. These are fixed values, never measured elapsed time.
const (
	FullDayHours = "9:00"
	NoHours      = "0:00"
)

// Log status codes.
const (
	CodeOnTime  = "Yes"
	CodeLate    = "No" // late but counted; pending acknowledgment
	CodeOutside = "EL"
	CodeWithin  = "WH"
)

// Persisted arrival status values.
const (
	ArrivalOnTime        = "OnTime"
	ArrivalLate          = "Late"
	ArrivalNotApplicable = "-"
)

type Kind int

const (
	KindOnTime Kind = iota + 1
	KindOutside
	KindLate
	KindFallback
)

func (k Kind) String() string {
	switch k {
	case KindOnTime:
		return "on-time"
	case KindOutside:
		return "outside"
	case KindLate:
		return "late"
	case KindFallback:
		return "fallback"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Outcome is the result of classifying a login instant. MinutesLate is only
// meaningful when Kind is KindLate.
type Outcome struct {
	Kind        Kind
	MinutesLate int
}

// Classify classifies the wall clock of now in its own location.
func Classify(now time.Time) Outcome {
	return ClassifyClock(now.Hour(), now.Minute())
}

// ClassifyClock evaluates the four windows in priority order; the first match wins.
// 18:00 falls in the outside branch.
func ClassifyClock(hour, minute int) Outcome {
	if hour == WorkdayStartHour && minute == 0 {
		return Outcome{Kind: KindOnTime}
	}

	if hour < WorkdayStartHour || (hour == WorkdayEndHour && minute >= 0) || hour > WorkdayEndHour {
		return Outcome{Kind: KindOutside}
	}

	afterStart := hour > WorkdayStartHour || (hour == WorkdayStartHour && minute > 0)
	withinGrace := hour < WorkdayStartHour || (hour == WorkdayStartHour && minute <= GraceMinutes)
	if afterStart && withinGrace {
		return Outcome{Kind: KindLate, MinutesLate: (hour-WorkdayStartHour)*60 + minute}
	}

	return Outcome{Kind: KindFallback}
}

func (o Outcome) ArrivalStatus() string {
	switch o.Kind {
	case KindOnTime:
		return ArrivalOnTime
	case KindLate:
		return ArrivalLate
	}
	return ArrivalNotApplicable
}

// Leave reports whether the instant falls entirely outside the workday.
func (o Outcome) Leave() bool {
	return o.Kind == KindOutside
}

func (o Outcome) NominalHours() string {
	if o.Kind == KindOnTime || o.Kind == KindLate {
		return FullDayHours
	}
	return NoHours
}

func (o Outcome) LogStatusCode() string {
	switch o.Kind {
	case KindOnTime:
		return CodeOnTime
	case KindOutside:
		return CodeOutside
	case KindLate:
		return CodeLate
	}
	return CodeWithin
}

// Summary is the status string returned to the client next to the session token.
func (o Outcome) Summary() string {
	switch o.Kind {
	case KindOnTime:
		return ArrivalOnTime
	case KindOutside:
		return CodeOutside
	case KindLate:
		return fmt.Sprintf("LateBy %d min", o.MinutesLate)
	}
	return CodeWithin
}

// Record builds the audit row for email at now. Date and time are taken from
// now's location; LoggedAt is stored in UTC so it sorts by instant.
func (o Outcome) Record(email string, now time.Time) Record {
	hours := o.NominalHours()
	return Record{
		EmployeeEmail:  email,
		LogDate:        now.Format(DateLayout),
		LogTime:        now.Format(TimeLayout),
		LoggedAt:       now.UTC(),
		ArrivalStatus:  o.ArrivalStatus(),
		MinutesLate:    o.MinutesLate,
		Leave:          o.Leave(),
		EffectiveHours: hours,
		GrossHours:     hours,
		LogStatusCode:  o.LogStatusCode(),
	}
}
