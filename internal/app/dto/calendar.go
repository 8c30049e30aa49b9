package dto

import (
	"boilerfunnel/internal/domain/booking"
)

type CalendarDay struct {
	Date       string  `json:"date"`
	Day        int     `json:"day"`
	Weekday    string  `json:"weekday"`
	Status     string  `json:"status"`
	Selectable bool    `json:"selectable"`
	Surcharge  float64 `json:"surcharge"`
}

type Calendar struct {
	Month         string        `json:"month"`
	Title         string        `json:"title"`
	Previous      string        `json:"previous"`
	Next          string        `json:"next"`
	LeadingBlanks int           `json:"leadingBlanks"`
	Weekdays      []string      `json:"weekdays"`
	Days          []CalendarDay `json:"days"`
}

var gridWeekdays = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

func MapCalendar(m booking.Month, days []booking.Day) Calendar {
	out := Calendar{
		Month:         m.String(),
		Title:         m.Title(),
		Previous:      m.Prev().String(),
		Next:          m.Next().String(),
		LeadingBlanks: booking.LeadingBlanks(m),
		Weekdays:      append([]string(nil), gridWeekdays...),
		Days:          make([]CalendarDay, 0, len(days)),
	}
	for _, d := range days {
		out.Days = append(out.Days, CalendarDay{
			Date:       d.ISO(),
			Day:        d.Date.Day(),
			Weekday:    d.Date.Weekday().String()[:3],
			Status:     string(d.Status),
			Selectable: d.Selectable,
			Surcharge:  Amount(d.Surcharge),
		})
	}
	return out
}

type BookingTotal struct {
	Date         *string `json:"date"`
	Status       string  `json:"status,omitempty"`
	BasePrice    float64 `json:"basePrice"`
	Surcharge    float64 `json:"surcharge"`
	TotalPrice   float64 `json:"totalPrice"`
	DisplayTotal string  `json:"displayTotal"`
}
