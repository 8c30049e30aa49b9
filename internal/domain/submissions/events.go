package submissions

import (
	"time"

	"github.com/shopspring/decimal"
)

type SubmissionCreated struct {
	SubmissionID SubmissionID
	Email        string
	Postcode     string
	At           time.Time
}

func (e SubmissionCreated) EventName() string     { return "submission.created" }
func (e SubmissionCreated) AggregateID() string   { return string(e.SubmissionID) }
func (e SubmissionCreated) OccurredAt() time.Time { return e.At }

type SubmissionUpdated struct {
	SubmissionID SubmissionID
	At           time.Time
}

func (e SubmissionUpdated) EventName() string     { return "submission.updated" }
func (e SubmissionUpdated) AggregateID() string   { return string(e.SubmissionID) }
func (e SubmissionUpdated) OccurredAt() time.Time { return e.At }

type ProductSelected struct {
	SubmissionID SubmissionID
	ProductID    string
	Financed     bool
	At           time.Time
}

func (e ProductSelected) EventName() string     { return "submission.product_selected" }
func (e ProductSelected) AggregateID() string   { return string(e.SubmissionID) }
func (e ProductSelected) OccurredAt() time.Time { return e.At }

type InstallBooked struct {
	SubmissionID SubmissionID
	Date         string
	Surcharge    decimal.Decimal
	At           time.Time
}

func (e InstallBooked) EventName() string     { return "submission.install_booked" }
func (e InstallBooked) AggregateID() string   { return string(e.SubmissionID) }
func (e InstallBooked) OccurredAt() time.Time { return e.At }

type PaymentReceived struct {
	SubmissionID SubmissionID
	IntentID     string
	Amount       decimal.Decimal
	At           time.Time
}

func (e PaymentReceived) EventName() string     { return "submission.payment_completed" }
func (e PaymentReceived) AggregateID() string   { return string(e.SubmissionID) }
func (e PaymentReceived) OccurredAt() time.Time { return e.At }
