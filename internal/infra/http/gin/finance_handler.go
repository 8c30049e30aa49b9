package ginserver

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	gin "github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"boilerfunnel/internal/app/dto"
	financeapp "boilerfunnel/internal/app/handlers/finance"
	"boilerfunnel/internal/app/queries"
	"boilerfunnel/internal/infra/obs"
)

// FinanceHandler exposes the payment option catalog and the calculator.
type FinanceHandler struct {
	Queries queries.Bus
	Metrics FunnelRecorder
	Logger  *slog.Logger
}

func (h FinanceHandler) errors() errorResponder {
	return errorResponder{Logger: h.Logger, Scope: "finance"}
}

func (h FinanceHandler) Options(c *gin.Context) {
	result, err := queries.Ask[financeapp.ListOptionsQuery, []dto.FinanceOption](c.Request.Context(), h.Queries, financeapp.ListOptionsQuery{})
	if err != nil {
		h.errors().handleError(c, err, "Failed to list finance options")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": result})
}

// Quote prices ?productId= or ?price= with ?deposit=, ?months= and ?apr=.
func (h FinanceHandler) Quote(c *gin.Context) {
	query := financeapp.QuoteQuery{
		ProductID: c.Query("productId"),
		Price:     c.Query("price"),
	}
	var err error
	if query.DepositPercent, err = intParam(c.Query("deposit")); err != nil {
		h.errors().respondWithError(c, http.StatusBadRequest, "deposit must be a whole number")
		return
	}
	if query.Months, err = intParam(c.Query("months")); err != nil {
		h.errors().respondWithError(c, http.StatusBadRequest, "months must be a whole number")
		return
	}
	if raw := strings.TrimSpace(c.Query("apr")); raw != "" {
		if query.APR, err = decimal.NewFromString(raw); err != nil {
			h.errors().respondWithError(c, http.StatusBadRequest, "apr must be a number")
			return
		}
	}
	result, err := queries.Ask[financeapp.QuoteQuery, dto.Quote](c.Request.Context(), h.Queries, query)
	if err != nil {
		h.errors().handleError(c, err, "Failed to compute finance quote")
		return
	}
	recordStep(h.Metrics, obs.StepQuoted)
	c.JSON(http.StatusOK, gin.H{"success": true, "data": result})
}

func intParam(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

var _ FinanceHTTP = FinanceHandler{}
