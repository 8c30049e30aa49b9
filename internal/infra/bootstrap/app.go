// Package bootstrap assembles the command and query buses, their middleware
// pipelines and the HTTP handlers from infrastructure adapters.
package bootstrap

import (
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"boilerfunnel/internal/app/commands"
	bookingapp "boilerfunnel/internal/app/handlers/booking"
	catalogapp "boilerfunnel/internal/app/handlers/catalog"
	financeapp "boilerfunnel/internal/app/handlers/finance"
	paymentsapp "boilerfunnel/internal/app/handlers/payments"
	submissionsapp "boilerfunnel/internal/app/handlers/submissions"
	"boilerfunnel/internal/app/middleware"
	"boilerfunnel/internal/app/outbox"
	"boilerfunnel/internal/app/policies"
	"boilerfunnel/internal/app/queries"
	"boilerfunnel/internal/app/uow"
	"boilerfunnel/internal/domain/booking"
	"boilerfunnel/internal/infra/config"
	ginserver "boilerfunnel/internal/infra/http/gin"
	"boilerfunnel/internal/infra/obs"
)

var ErrMissingDependency = errors.New("bootstrap: unit of work factory and outbox are required")

type Deps struct {
	Config   config.Config
	Logger   *slog.Logger
	UoW      uow.UoWFactory
	Outbox   outbox.Outbox
	Payments policies.PaymentsPort
	Uploader policies.Uploader
	Renderer policies.DocumentRenderer
	Metrics  *obs.Metrics
	Now      func() time.Time
}

type Application struct {
	Commands commands.Bus
	Queries  queries.Bus
	Calendar booking.Calendar
	Handlers ginserver.Handlers
}

func Build(d Deps) (Application, error) {
	if d.UoW == nil || d.Outbox == nil {
		return Application{}, ErrMissingDependency
	}
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := d.Now
	if now == nil {
		now = time.Now
	}
	surcharge := d.Config.BookingSurcharge
	if !surcharge.IsPositive() {
		surcharge = booking.DefaultSurcharge
	}
	calendar := booking.NewCalendar(booking.StaticSchedule{}, surcharge)
	encoder := outbox.JSONEventEncoder{
		IDGenerator: uuid.NewString,
		Headers:     map[string]string{"service": "boilerfunnel"},
	}

	commandBus := commands.NewInMemoryBus()
	commands.RegisterHandler(commandBus, catalogapp.CreateProductKey, &catalogapp.CreateProductHandler{
		Uploader: d.Uploader, Outbox: d.Outbox, Encoder: encoder, Logger: logger, Now: now,
	})
	commands.RegisterHandler(commandBus, catalogapp.UpdateProductKey, &catalogapp.UpdateProductHandler{
		Outbox: d.Outbox, Encoder: encoder, Logger: logger,
	})
	commands.RegisterHandler(commandBus, catalogapp.DeleteProductKey, &catalogapp.DeleteProductHandler{
		Outbox: d.Outbox, Encoder: encoder, Logger: logger,
	})
	commands.RegisterHandler(commandBus, submissionsapp.SubmitFormKey, &submissionsapp.SubmitFormHandler{
		Outbox: d.Outbox, Encoder: encoder, Logger: logger, Now: now,
	})
	commands.RegisterHandler(commandBus, submissionsapp.UpdateSubmissionKey, &submissionsapp.UpdateSubmissionHandler{
		Outbox: d.Outbox, Encoder: encoder, Logger: logger,
	})
	commands.RegisterHandler(commandBus, submissionsapp.DeleteSubmissionKey, &submissionsapp.DeleteSubmissionHandler{
		Logger: logger,
	})
	commands.RegisterHandler(commandBus, submissionsapp.SelectProductKey, &submissionsapp.SelectProductHandler{
		Outbox: d.Outbox, Encoder: encoder, Logger: logger,
	})
	commands.RegisterHandler(commandBus, submissionsapp.ConfirmInstallDateKey, &submissionsapp.ConfirmInstallDateHandler{
		Calendar: calendar, Outbox: d.Outbox, Encoder: encoder, Logger: logger,
	})
	commands.RegisterHandler(commandBus, paymentsapp.CreateIntentKey, &paymentsapp.CreateIntentHandler{
		Payments:         d.Payments,
		DefaultCurrency:  d.Config.PaymentCurrency,
		DefaultBasePrice: d.Config.DefaultBasePrice,
		Logger:           logger,
	})
	commands.RegisterHandler(commandBus, paymentsapp.ConfirmPaymentKey, &paymentsapp.ConfirmPaymentHandler{
		Payments: d.Payments, Outbox: d.Outbox, Encoder: encoder, Logger: logger,
	})

	queryBus := queries.NewInMemoryBus()
	queries.RegisterHandler(queryBus, catalogapp.ListProductsKey, &catalogapp.ListProductsHandler{UoWFactory: d.UoW, Logger: logger})
	queries.RegisterHandler(queryBus, catalogapp.GetProductKey, &catalogapp.GetProductHandler{UoWFactory: d.UoW})
	queries.RegisterHandler(queryBus, submissionsapp.ListSubmissionsKey, &submissionsapp.ListSubmissionsHandler{UoWFactory: d.UoW})
	queries.RegisterHandler(queryBus, submissionsapp.GetSubmissionKey, &submissionsapp.GetSubmissionHandler{UoWFactory: d.UoW})
	queries.RegisterHandler(queryBus, submissionsapp.ExportSubmissionsKey, &submissionsapp.ExportSubmissionsHandler{
		UoWFactory: d.UoW, Renderer: d.Renderer, Now: now,
	})
	queries.RegisterHandler(queryBus, submissionsapp.QuoteDocumentKey, &submissionsapp.QuoteDocumentHandler{
		UoWFactory: d.UoW, Renderer: d.Renderer, Now: now,
	})
	queries.RegisterHandler(queryBus, financeapp.ListOptionsKey, financeapp.ListOptionsHandler{})
	queries.RegisterHandler(queryBus, financeapp.QuoteKey, &financeapp.QuoteHandler{UoWFactory: d.UoW})
	queries.RegisterHandler(queryBus, bookingapp.CalendarKey, &bookingapp.CalendarHandler{Calendar: calendar, Now: now})
	queries.RegisterHandler(queryBus, bookingapp.TotalKey, &bookingapp.TotalHandler{
		Calendar: calendar, DefaultBasePrice: d.Config.DefaultBasePrice, UoWFactory: d.UoW,
	})

	commandMW := []middleware.CommandMiddleware{
		middleware.Logging(logger),
		middleware.Validation(),
		middleware.Transaction(d.UoW, nil),
		middleware.OutboxFlush(d.Outbox),
	}
	queryMW := []middleware.QueryMiddleware{middleware.QueryValidation()}
	var funnel ginserver.FunnelRecorder
	if d.Metrics != nil {
		commandMW = append([]middleware.CommandMiddleware{middleware.InstrumentCommands(d.Metrics)}, commandMW...)
		queryMW = append([]middleware.QueryMiddleware{middleware.InstrumentQueries(d.Metrics)}, queryMW...)
		funnel = d.Metrics
	}
	cmdBus := middleware.ChainCommands(commandBus, commandMW...)
	qryBus := middleware.ChainQueries(queryBus, queryMW...)

	return Application{
		Commands: cmdBus,
		Queries:  qryBus,
		Calendar: calendar,
		Handlers: ginserver.Handlers{
			Forms:    ginserver.FormHandler{Commands: cmdBus, Queries: qryBus, Metrics: funnel, Logger: logger},
			Products: ginserver.ProductHandler{Commands: cmdBus, Queries: qryBus, Logger: logger},
			Payments: ginserver.PaymentHandler{Commands: cmdBus, Metrics: funnel, Logger: logger},
			Finance:  ginserver.FinanceHandler{Queries: qryBus, Metrics: funnel, Logger: logger},
			Booking:  ginserver.BookingHandler{Queries: qryBus, Logger: logger},
			Metrics:  d.Metrics,
		},
	}, nil
}
