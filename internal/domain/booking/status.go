package booking

import "time"

type DayStatus string

const (
	StatusUnavailable DayStatus = "unavailable"
	StatusFull        DayStatus = "full"
	StatusSurcharge   DayStatus = "surcharge"
	StatusAvailable   DayStatus = "available"
)

// Selectable reports whether an installation can be booked on a day with the given status.
func Selectable(status DayStatus) bool {
	return status == StatusAvailable || status == StatusSurcharge
}

// Schedule classifies calendar days. Implementations must be pure: the same
// date always yields the same status for the lifetime of a calendar.
type Schedule interface {
	Status(date time.Time) DayStatus
}

type ScheduleFunc func(date time.Time) DayStatus

func (f ScheduleFunc) Status(date time.Time) DayStatus { return f(date) }

// StaticSchedule derives the status from the day of the month alone.
type StaticSchedule struct{}

func (StaticSchedule) Status(date time.Time) DayStatus {
	switch day := date.Day(); {
	case day <= 4:
		return StatusUnavailable
	case day == 5, day == 6, day == 25, day == 26:
		return StatusFull
	case day == 13, day == 20, day == 27:
		return StatusSurcharge
	default:
		return StatusAvailable
	}
}

var _ Schedule = StaticSchedule{}
