package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"boilerfunnel/internal/domain/booking"
	"boilerfunnel/internal/domain/shared/money"
	"boilerfunnel/internal/infra/config"
)

const weekColumns = 6

func calendarCmd() *cobra.Command {
	var month string
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Print the install calendar for a month (YYYY-MM)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m := booking.MonthOf(time.Now())
			if month != "" {
				parsed, err := booking.ParseMonth(month)
				if err != nil {
					return err
				}
				m = parsed
			}
			cfg, err := config.Load()
			if err != nil {
				cfg = config.Defaults()
			}
			surcharge := cfg.BookingSurcharge
			if !surcharge.IsPositive() {
				surcharge = booking.DefaultSurcharge
			}
			cal := booking.NewCalendar(booking.StaticSchedule{}, surcharge)
			return renderCalendar(cmd.OutOrStdout(), m, cal)
		},
	}
	cmd.Flags().StringVarP(&month, "month", "m", "", "Month to show, defaults to the current one")
	return cmd
}

// renderCalendar draws the Monday-first six-column grid. Markers: "*" carries
// the surcharge, "x" is fully booked, "-" is unavailable.
func renderCalendar(w io.Writer, m booking.Month, cal booking.Calendar) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", m.Title())
	b.WriteString(" Mon  Tue  Wed  Thu  Fri  Sat\n")
	col := 0
	for ; col < booking.LeadingBlanks(m); col++ {
		b.WriteString("     ")
	}
	for _, day := range cal.Days(m) {
		fmt.Fprintf(&b, " %2d%s ", day.Date.Day(), marker(day.Status))
		col++
		if col == weekColumns {
			b.WriteString("\n")
			col = 0
		}
	}
	if col != 0 {
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "* +%s surcharge  x fully booked  - unavailable\n", money.FormatGBP(cal.Surcharge))
	_, err := io.WriteString(w, b.String())
	return err
}

func marker(status booking.DayStatus) string {
	switch status {
	case booking.StatusSurcharge:
		return "*"
	case booking.StatusFull:
		return "x"
	case booking.StatusUnavailable:
		return "-"
	default:
		return " "
	}
}
