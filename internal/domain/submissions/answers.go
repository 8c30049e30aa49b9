package submissions

import (
	"fmt"
	"strings"

	"boilerfunnel/internal/domain/catalog"
)

type FuelType string

const (
	FuelMainsGas FuelType = "mains-gas"
	FuelLPG      FuelType = "lpg"
	FuelUnknown  FuelType = "unknown-fuel"
)

type PropertyType string

const (
	PropertyDetached PropertyType = "detached"
	PropertyBungalow PropertyType = "bungalow"
	PropertyFlat     PropertyType = "flat-apartment"
)

type BedroomCount string

const (
	Bedrooms1     BedroomCount = "1"
	Bedrooms2     BedroomCount = "2"
	Bedrooms3     BedroomCount = "3"
	Bedrooms4     BedroomCount = "4"
	Bedrooms5Plus BedroomCount = "5+"
)

type BathtubCount string

const (
	BathtubsNone    BathtubCount = "none"
	Bathtubs1       BathtubCount = "1"
	Bathtubs2       BathtubCount = "2"
	Bathtubs3orMore BathtubCount = "3+"
)

type ShowerCubicleCount string

const (
	ShowersNone    ShowerCubicleCount = "none"
	Showers1       ShowerCubicleCount = "1"
	Showers2orMore ShowerCubicleCount = "2+"
)

type FlueExitType string

const (
	FlueExternalWall FlueExitType = "external-wall"
	FlueRoof         FlueExitType = "roof"
)

type ReplacementTiming string

const (
	TimingASAP     ReplacementTiming = "asap"
	TimingThisWeek ReplacementTiming = "this-week"
	TimingNextWeek ReplacementTiming = "next-week"
)

// Qualification holds the answers collected by the quote wizard. Every
// answer is optional; a blank value means the step was skipped.
type Qualification struct {
	FuelType           FuelType
	BoilerType         catalog.BoilerType
	PropertyType       PropertyType
	BedroomCount       BedroomCount
	BathtubCount       BathtubCount
	ShowerCubicleCount ShowerCubicleCount
	FlueExitType       FlueExitType
	ReplacementTiming  ReplacementTiming
	Postcode           string
	Address            string
}

func (q Qualification) Validate() error {
	checks := []struct {
		field string
		ok    bool
	}{
		{"fuelType", optionalOneOf(q.FuelType, FuelMainsGas, FuelLPG, FuelUnknown)},
		{"boilerType", q.BoilerType == "" || q.BoilerType.Valid()},
		{"propertyType", optionalOneOf(q.PropertyType, PropertyDetached, PropertyBungalow, PropertyFlat)},
		{"bedroomCount", optionalOneOf(q.BedroomCount, Bedrooms1, Bedrooms2, Bedrooms3, Bedrooms4, Bedrooms5Plus)},
		{"bathtubCount", optionalOneOf(q.BathtubCount, BathtubsNone, Bathtubs1, Bathtubs2, Bathtubs3orMore)},
		{"showerCubicleCount", optionalOneOf(q.ShowerCubicleCount, ShowersNone, Showers1, Showers2orMore)},
		{"flueExitType", optionalOneOf(q.FlueExitType, FlueExternalWall, FlueRoof)},
		{"replacementTiming", optionalOneOf(q.ReplacementTiming, TimingASAP, TimingThisWeek, TimingNextWeek)},
	}
	for _, c := range checks {
		if !c.ok {
			return fmt.Errorf("%w: %s", ErrInvalidAnswer, c.field)
		}
	}
	return nil
}

func (q Qualification) normalized() Qualification {
	q.Postcode = strings.ToUpper(strings.TrimSpace(q.Postcode))
	q.Address = strings.TrimSpace(q.Address)
	return q
}

type Contact struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
}

func (c Contact) Validate() error {
	if strings.TrimSpace(c.FirstName) == "" || strings.TrimSpace(c.LastName) == "" ||
		strings.TrimSpace(c.Email) == "" || strings.TrimSpace(c.Phone) == "" {
		return ErrMissingContact
	}
	return nil
}

func (c Contact) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

func (c Contact) normalized() Contact {
	return Contact{
		FirstName: strings.TrimSpace(c.FirstName),
		LastName:  strings.TrimSpace(c.LastName),
		Email:     strings.ToLower(strings.TrimSpace(c.Email)),
		Phone:     strings.TrimSpace(c.Phone),
	}
}

func optionalOneOf[T ~string](value T, allowed ...T) bool {
	if value == "" {
		return true
	}
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	return false
}
