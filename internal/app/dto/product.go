package dto

import (
	"time"

	"boilerfunnel/internal/domain/catalog"
)

type Product struct {
	ID               string    `json:"_id"`
	Name             string    `json:"name"`
	Brand            string    `json:"brand"`
	Description      string    `json:"description"`
	Price            string    `json:"price"`
	OriginalPrice    *string   `json:"originalPrice"`
	Rating           float64   `json:"rating"`
	Category         string    `json:"category"`
	Warranty         string    `json:"warranty"`
	Features         []string  `json:"features"`
	ExpertOpinion    string    `json:"expertOpinion"`
	MonthlyPayment   *string   `json:"monthlyPayment"`
	ZeroAPR          *string   `json:"zeroApr"`
	SuitableBedrooms []string  `json:"suitableBedrooms"`
	BoilerType       *string   `json:"boilerType"`
	ImageURL         *string   `json:"imageUrl"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

func MapProduct(p *catalog.Product) Product {
	if p == nil {
		return Product{}
	}
	return Product{
		ID:               string(p.ID),
		Name:             p.Name,
		Brand:            p.Brand,
		Description:      p.Description,
		Price:            p.Price,
		OriginalPrice:    nullable(p.OriginalPrice),
		Rating:           p.Rating,
		Category:         string(p.Category),
		Warranty:         p.Warranty,
		Features:         nonNil(p.Features),
		ExpertOpinion:    p.ExpertOpinion,
		MonthlyPayment:   nullable(p.MonthlyPayment),
		ZeroAPR:          nullable(p.ZeroAPR),
		SuitableBedrooms: nonNil(p.SuitableBedrooms),
		BoilerType:       nullable(string(p.BoilerType)),
		ImageURL:         nullable(p.ImageURL),
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

func MapProducts(items []*catalog.Product) []Product {
	out := make([]Product, 0, len(items))
	for _, p := range items {
		out = append(out, MapProduct(p))
	}
	return out
}
