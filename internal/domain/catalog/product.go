package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"boilerfunnel/internal/domain/shared/events"
	"boilerfunnel/internal/domain/shared/money"
)

var (
	ErrNotFound        = errors.New("catalog: product not found")
	ErrMissingFields   = errors.New("catalog: missing required fields")
	ErrInvalidCategory = errors.New("catalog: invalid category. Must be one of: good, better, best")
	ErrInvalidRating   = errors.New("catalog: rating must be between 0 and 5")
	ErrInvalidPrice    = errors.New("catalog: price must be a positive amount such as £2,340")
	ErrInvalidBoiler   = errors.New("catalog: invalid boiler type")
)

type ProductID string

type Category string

const (
	CategoryGood   Category = "good"
	CategoryBetter Category = "better"
	CategoryBest   Category = "best"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryGood, CategoryBetter, CategoryBest:
		return true
	}
	return false
}

type BoilerType string

const (
	BoilerCombi      BoilerType = "combi"
	BoilerRegular    BoilerType = "regular"
	BoilerSystem     BoilerType = "system"
	BoilerBackBoiler BoilerType = "back-boiler"
)

func (b BoilerType) Valid() bool {
	switch b {
	case BoilerCombi, BoilerRegular, BoilerSystem, BoilerBackBoiler:
		return true
	}
	return false
}

const (
	MinRating = 0
	MaxRating = 5
)

type Product struct {
	ID               ProductID
	Name             string
	Brand            string
	Description      string
	Price            string
	OriginalPrice    string
	Rating           float64
	Category         Category
	Warranty         string
	Features         []string
	ExpertOpinion    string
	MonthlyPayment   string
	ZeroAPR          string
	SuitableBedrooms []string
	BoilerType       BoilerType
	ImageURL         string
	CreatedAt        time.Time
	UpdatedAt        time.Time
	events.EventRecorder
}

type Repository interface {
	ByID(ctx context.Context, id ProductID) (*Product, error)
	List(ctx context.Context) ([]*Product, error)
	Save(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id ProductID) error
}

type CreateParams struct {
	ID               ProductID
	Name             string
	Brand            string
	Description      string
	Price            string
	OriginalPrice    string
	Rating           float64
	Category         Category
	Warranty         string
	Features         []string
	ExpertOpinion    string
	MonthlyPayment   string
	ZeroAPR          string
	SuitableBedrooms []string
	BoilerType       BoilerType
	ImageURL         string
	Now              time.Time
}

func NewProduct(params CreateParams) (*Product, error) {
	if strings.TrimSpace(string(params.ID)) == "" {
		return nil, errors.New("catalog: id is required")
	}
	now := params.Now.UTC()
	p := &Product{
		ID:               params.ID,
		Name:             strings.TrimSpace(params.Name),
		Brand:            strings.TrimSpace(params.Brand),
		Description:      strings.TrimSpace(params.Description),
		Price:            strings.TrimSpace(params.Price),
		OriginalPrice:    strings.TrimSpace(params.OriginalPrice),
		Rating:           params.Rating,
		Category:         Category(strings.TrimSpace(string(params.Category))),
		Warranty:         strings.TrimSpace(params.Warranty),
		Features:         CleanStrings(params.Features),
		ExpertOpinion:    strings.TrimSpace(params.ExpertOpinion),
		MonthlyPayment:   strings.TrimSpace(params.MonthlyPayment),
		ZeroAPR:          strings.TrimSpace(params.ZeroAPR),
		SuitableBedrooms: CleanStrings(params.SuitableBedrooms),
		BoilerType:       BoilerType(strings.TrimSpace(string(params.BoilerType))),
		ImageURL:         strings.TrimSpace(params.ImageURL),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	p.Record(ProductCreated{ProductID: p.ID, Name: p.Name, Price: p.Price, At: now})
	return p, nil
}

// Validate checks the invariants shared by create and update.
func (p *Product) Validate() error {
	if missing := p.MissingFields(); len(missing) > 0 {
		return fmt.Errorf("%w: %s are required", ErrMissingFields, strings.Join(missing, ", "))
	}
	if !p.Category.Valid() {
		return ErrInvalidCategory
	}
	if p.Rating < MinRating || p.Rating > MaxRating {
		return ErrInvalidRating
	}
	price, err := money.ParsePrice(p.Price)
	if err != nil || !price.IsPositive() {
		return ErrInvalidPrice
	}
	if p.OriginalPrice != "" {
		if _, err := money.ParsePrice(p.OriginalPrice); err != nil {
			return fmt.Errorf("%w: original price %q", ErrInvalidPrice, p.OriginalPrice)
		}
	}
	if p.BoilerType != "" && !p.BoilerType.Valid() {
		return ErrInvalidBoiler
	}
	return nil
}

// MissingFields lists required text fields left blank, in API field order.
func (p *Product) MissingFields() []string {
	var out []string
	check := func(name, value string) {
		if strings.TrimSpace(value) == "" {
			out = append(out, name)
		}
	}
	check("name", p.Name)
	check("brand", p.Brand)
	check("description", p.Description)
	check("price", p.Price)
	check("category", string(p.Category))
	check("warranty", p.Warranty)
	check("expertOpinion", p.ExpertOpinion)
	return out
}

// CashPrice is the parsed display price in pounds.
func (p *Product) CashPrice() (decimal.Decimal, error) {
	return money.ParsePrice(p.Price)
}

// Patch carries a partial update. Nil fields are left untouched.
type Patch struct {
	Name             *string
	Brand            *string
	Description      *string
	Price            *string
	OriginalPrice    *string
	Rating           *float64
	Category         *Category
	Warranty         *string
	Features         *[]string
	ExpertOpinion    *string
	MonthlyPayment   *string
	ZeroAPR          *string
	SuitableBedrooms *[]string
	BoilerType       *BoilerType
	ImageURL         *string
}

func (p *Product) Apply(patch Patch, now time.Time) error {
	next := *p
	next.EventRecorder = events.EventRecorder{}
	setString(&next.Name, patch.Name)
	setString(&next.Brand, patch.Brand)
	setString(&next.Description, patch.Description)
	setString(&next.Price, patch.Price)
	setString(&next.OriginalPrice, patch.OriginalPrice)
	setString(&next.Warranty, patch.Warranty)
	setString(&next.ExpertOpinion, patch.ExpertOpinion)
	setString(&next.MonthlyPayment, patch.MonthlyPayment)
	setString(&next.ZeroAPR, patch.ZeroAPR)
	setString(&next.ImageURL, patch.ImageURL)
	if patch.Rating != nil {
		next.Rating = *patch.Rating
	}
	if patch.Category != nil {
		next.Category = Category(strings.TrimSpace(string(*patch.Category)))
	}
	if patch.BoilerType != nil {
		next.BoilerType = BoilerType(strings.TrimSpace(string(*patch.BoilerType)))
	}
	if patch.Features != nil {
		next.Features = CleanStrings(*patch.Features)
	}
	if patch.SuitableBedrooms != nil {
		next.SuitableBedrooms = CleanStrings(*patch.SuitableBedrooms)
	}
	if err := next.Validate(); err != nil {
		return err
	}

	recorder := p.EventRecorder
	*p = next
	p.EventRecorder = recorder
	p.UpdatedAt = now.UTC()
	p.Record(ProductUpdated{ProductID: p.ID, At: p.UpdatedAt})
	return nil
}

func (p *Product) MarkDeleted(now time.Time) {
	p.Record(ProductDeleted{ProductID: p.ID, At: now.UTC()})
}

// SortNewestFirst orders products by creation time, newest first.
func SortNewestFirst(items []*Product) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}

func CleanStrings(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}
