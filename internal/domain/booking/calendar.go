package booking

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const DateLayout = "2006-01-02"

var (
	ErrDateNotSelectable = errors.New("booking: date is not selectable")
	ErrInvalidDate       = errors.New("booking: invalid date")
)

var DefaultSurcharge = decimal.NewFromInt(85)

type Day struct {
	Date       time.Time
	Status     DayStatus
	Selectable bool
	Surcharge  decimal.Decimal
}

func (d Day) ISO() string { return d.Date.Format(DateLayout) }

// Selection is a customer's chosen install day. Only Calendar.Select builds
// one, so its surcharge always matches the day's status.
type Selection struct {
	date      time.Time
	status    DayStatus
	surcharge decimal.Decimal
}

func (s Selection) Date() time.Time            { return s.date }
func (s Selection) Status() DayStatus          { return s.status }
func (s Selection) Surcharge() decimal.Decimal { return s.surcharge }
func (s Selection) ISO() string                { return s.date.Format(DateLayout) }

type Calendar struct {
	Schedule  Schedule
	Surcharge decimal.Decimal
}

func NewCalendar(schedule Schedule, surcharge decimal.Decimal) Calendar {
	if schedule == nil {
		schedule = StaticSchedule{}
	}
	return Calendar{Schedule: schedule, Surcharge: surcharge}
}

func DefaultCalendar() Calendar {
	return NewCalendar(StaticSchedule{}, DefaultSurcharge)
}

// ParseDate reads an ISO YYYY-MM-DD date as a UTC calendar day.
func ParseDate(raw string) (time.Time, error) {
	t, err := time.Parse(DateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
	}
	return t, nil
}

func (c Calendar) schedule() Schedule {
	if c.Schedule == nil {
		return StaticSchedule{}
	}
	return c.Schedule
}

func (c Calendar) StatusOn(date time.Time) DayStatus {
	return c.schedule().Status(normalize(date))
}

func (c Calendar) SurchargeFor(date time.Time) decimal.Decimal {
	if c.StatusOn(date) == StatusSurcharge {
		return c.Surcharge
	}
	return decimal.Zero
}

// Days lists the bookable week days of the month, Monday to Saturday.
func (c Calendar) Days(m Month) []Day {
	first := m.First()
	total := m.DaysIn()
	out := make([]Day, 0, total)
	for i := 0; i < total; i++ {
		date := first.AddDate(0, 0, i)
		if date.Weekday() == time.Sunday {
			continue
		}
		status := c.schedule().Status(date)
		day := Day{Date: date, Status: status, Selectable: Selectable(status), Surcharge: decimal.Zero}
		if status == StatusSurcharge {
			day.Surcharge = c.Surcharge
		}
		out = append(out, day)
	}
	return out
}

// LeadingBlanks is the number of empty cells before day one in a Monday-first
// six-column grid. A month starting on Sunday begins at Monday without blanks.
func LeadingBlanks(m Month) int {
	wd := m.First().Weekday()
	if wd == time.Sunday {
		return 0
	}
	return int(wd) - 1
}

func (c Calendar) Select(date time.Time) (Selection, error) {
	date = normalize(date)
	if date.Weekday() == time.Sunday {
		return Selection{}, fmt.Errorf("%w: %s is a Sunday", ErrDateNotSelectable, date.Format(DateLayout))
	}
	status := c.schedule().Status(date)
	if !Selectable(status) {
		return Selection{}, fmt.Errorf("%w: %s is %s", ErrDateNotSelectable, date.Format(DateLayout), status)
	}
	sel := Selection{date: date, status: status, surcharge: decimal.Zero}
	if status == StatusSurcharge {
		sel.surcharge = c.Surcharge
	}
	return sel, nil
}

// TotalPrice adds the selection's surcharge to the base price.
func TotalPrice(base decimal.Decimal, sel *Selection) decimal.Decimal {
	if sel == nil {
		return base
	}
	return base.Add(sel.surcharge)
}

func normalize(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
