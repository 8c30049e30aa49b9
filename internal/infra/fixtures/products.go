package fixtures

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"boilerfunnel/internal/domain/catalog"
)

type productFile struct {
	Products []productFixture `yaml:"products"`
}

type productFixture struct {
	ID               string   `yaml:"id"`
	Name             string   `yaml:"name"`
	Brand            string   `yaml:"brand"`
	Description      string   `yaml:"description"`
	Price            string   `yaml:"price"`
	OriginalPrice    string   `yaml:"originalPrice"`
	Rating           float64  `yaml:"rating"`
	Category         string   `yaml:"category"`
	Warranty         string   `yaml:"warranty"`
	Features         []string `yaml:"features"`
	ExpertOpinion    string   `yaml:"expertOpinion"`
	MonthlyPayment   string   `yaml:"monthlyPayment"`
	ZeroAPR          string   `yaml:"zeroAPR"`
	SuitableBedrooms []string `yaml:"suitableBedrooms"`
	BoilerType       string   `yaml:"boilerType"`
	ImageURL         string   `yaml:"imageUrl"`
}

// LoadProductsFile reads a product catalog fixture from path.
func LoadProductsFile(path string) ([]catalog.CreateParams, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadProducts(f)
}

// LoadProducts decodes fixtures; entries without an id get a fresh uuid.
func LoadProducts(r io.Reader) ([]catalog.CreateParams, error) {
	var file productFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("fixtures: decode products: %w", err)
	}
	out := make([]catalog.CreateParams, 0, len(file.Products))
	for _, p := range file.Products {
		id := p.ID
		if id == "" {
			id = uuid.NewString()
		}
		out = append(out, catalog.CreateParams{
			ID:               catalog.ProductID(id),
			Name:             p.Name,
			Brand:            p.Brand,
			Description:      p.Description,
			Price:            p.Price,
			OriginalPrice:    p.OriginalPrice,
			Rating:           p.Rating,
			Category:         catalog.Category(p.Category),
			Warranty:         p.Warranty,
			Features:         p.Features,
			ExpertOpinion:    p.ExpertOpinion,
			MonthlyPayment:   p.MonthlyPayment,
			ZeroAPR:          p.ZeroAPR,
			SuitableBedrooms: p.SuitableBedrooms,
			BoilerType:       catalog.BoilerType(p.BoilerType),
			ImageURL:         p.ImageURL,
		})
	}
	return out, nil
}

// SeedProducts validates and saves each fixture. Creation times are spaced a
// second apart so newest-first listing keeps the file order reversed.
func SeedProducts(ctx context.Context, repo catalog.Repository, items []catalog.CreateParams, now time.Time) (int, error) {
	for i, params := range items {
		params.Now = now.Add(time.Duration(i) * time.Second)
		product, err := catalog.NewProduct(params)
		if err != nil {
			return i, fmt.Errorf("fixtures: product %q: %w", params.ID, err)
		}
		product.ClearEvents()
		if err := repo.Save(ctx, product); err != nil {
			return i, fmt.Errorf("fixtures: save %q: %w", params.ID, err)
		}
	}
	return len(items), nil
}
