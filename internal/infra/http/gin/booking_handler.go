package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"boilerfunnel/internal/app/dto"
	bookingapp "boilerfunnel/internal/app/handlers/booking"
	"boilerfunnel/internal/app/queries"
)

type BookingHandler struct {
	Queries queries.Bus
	Logger  *slog.Logger
}

func (h BookingHandler) errors() errorResponder {
	return errorResponder{Logger: h.Logger, Scope: "booking"}
}

// Calendar renders ?month=YYYY-MM, defaulting to the current month.
func (h BookingHandler) Calendar(c *gin.Context) {
	query := bookingapp.CalendarQuery{Month: c.Query("month")}
	result, err := queries.Ask[bookingapp.CalendarQuery, dto.Calendar](c.Request.Context(), h.Queries, query)
	if err != nil {
		h.errors().handleError(c, err, "Failed to load calendar")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": result})
}

func (h BookingHandler) Total(c *gin.Context) {
	query := bookingapp.TotalQuery{
		Date:         c.Query("date"),
		ProductID:    c.Query("productId"),
		SubmissionID: c.Query("submissionId"),
	}
	result, err := queries.Ask[bookingapp.TotalQuery, dto.BookingTotal](c.Request.Context(), h.Queries, query)
	if err != nil {
		h.errors().handleError(c, err, "Failed to price installation")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": result})
}

var _ BookingHTTP = BookingHandler{}
