package mongo

import (
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func toDecimal128(d decimal.Decimal) primitive.Decimal128 {
	v, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.NewDecimal128(0, 0)
	}
	return v
}

func fromDecimal128(v primitive.Decimal128) decimal.Decimal {
	d, err := decimal.NewFromString(v.String())
	if err != nil {
		return decimal.Zero
	}
	return d
}

func optionalDecimal128(d decimal.Decimal) *primitive.Decimal128 {
	if d.IsZero() {
		return nil
	}
	v := toDecimal128(d)
	return &v
}

func fromOptionalDecimal128(v *primitive.Decimal128) decimal.Decimal {
	if v == nil {
		return decimal.Zero
	}
	return fromDecimal128(*v)
}
