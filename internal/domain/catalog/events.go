package catalog

import "time"

type ProductCreated struct {
	ProductID ProductID
	Name      string
	Price     string
	At        time.Time
}

func (e ProductCreated) EventName() string     { return "product.created" }
func (e ProductCreated) AggregateID() string   { return string(e.ProductID) }
func (e ProductCreated) OccurredAt() time.Time { return e.At }

type ProductUpdated struct {
	ProductID ProductID
	At        time.Time
}

func (e ProductUpdated) EventName() string     { return "product.updated" }
func (e ProductUpdated) AggregateID() string   { return string(e.ProductID) }
func (e ProductUpdated) OccurredAt() time.Time { return e.At }

type ProductDeleted struct {
	ProductID ProductID
	At        time.Time
}

func (e ProductDeleted) EventName() string     { return "product.deleted" }
func (e ProductDeleted) AggregateID() string   { return string(e.ProductID) }
func (e ProductDeleted) OccurredAt() time.Time { return e.At }
