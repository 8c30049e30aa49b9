package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"boilerfunnel/internal/domain/catalog"
)

const ProductsCollection = "products"

type ProductRepository struct {
	col *mongo.Collection
}

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{col: db.Collection(ProductsCollection)}
}

func (r *ProductRepository) ByID(ctx context.Context, id catalog.ProductID) (*catalog.Product, error) {
	var doc productDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, catalog.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *ProductRepository) List(ctx context.Context) ([]*catalog.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*catalog.Product
	for cur.Next(ctx) {
		var doc productDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cur.Err()
}

func (r *ProductRepository) Save(ctx context.Context, p *catalog.Product) error {
	doc := newProductDocument(p)
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	return err
}

func (r *ProductRepository) Delete(ctx context.Context, id catalog.ProductID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": string(id)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

type productDocument struct {
	ID               string    `bson:"_id"`
	Name             string    `bson:"name"`
	Brand            string    `bson:"brand"`
	Description      string    `bson:"description"`
	Price            string    `bson:"price"`
	OriginalPrice    string    `bson:"originalPrice,omitempty"`
	Rating           float64   `bson:"rating"`
	Category         string    `bson:"category"`
	Warranty         string    `bson:"warranty"`
	Features         []string  `bson:"features"`
	ExpertOpinion    string    `bson:"expertOpinion"`
	MonthlyPayment   string    `bson:"monthlyPayment,omitempty"`
	ZeroAPR          string    `bson:"zeroAPR,omitempty"`
	SuitableBedrooms []string  `bson:"suitableBedrooms"`
	BoilerType       string    `bson:"boilerType,omitempty"`
	ImageURL         string    `bson:"imageUrl,omitempty"`
	CreatedAt        time.Time `bson:"createdAt"`
	UpdatedAt        time.Time `bson:"updatedAt"`
}

func newProductDocument(p *catalog.Product) productDocument {
	return productDocument{
		ID:               string(p.ID),
		Name:             p.Name,
		Brand:            p.Brand,
		Description:      p.Description,
		Price:            p.Price,
		OriginalPrice:    p.OriginalPrice,
		Rating:           p.Rating,
		Category:         string(p.Category),
		Warranty:         p.Warranty,
		Features:         nonNilStrings(p.Features),
		ExpertOpinion:    p.ExpertOpinion,
		MonthlyPayment:   p.MonthlyPayment,
		ZeroAPR:          p.ZeroAPR,
		SuitableBedrooms: nonNilStrings(p.SuitableBedrooms),
		BoilerType:       string(p.BoilerType),
		ImageURL:         p.ImageURL,
		CreatedAt:        p.CreatedAt.UTC(),
		UpdatedAt:        p.UpdatedAt.UTC(),
	}
}

func (d productDocument) toAggregate() *catalog.Product {
	return &catalog.Product{
		ID:               catalog.ProductID(d.ID),
		Name:             d.Name,
		Brand:            d.Brand,
		Description:      d.Description,
		Price:            d.Price,
		OriginalPrice:    d.OriginalPrice,
		Rating:           d.Rating,
		Category:         catalog.Category(d.Category),
		Warranty:         d.Warranty,
		Features:         d.Features,
		ExpertOpinion:    d.ExpertOpinion,
		MonthlyPayment:   d.MonthlyPayment,
		ZeroAPR:          d.ZeroAPR,
		SuitableBedrooms: d.SuitableBedrooms,
		BoilerType:       catalog.BoilerType(d.BoilerType),
		ImageURL:         d.ImageURL,
		CreatedAt:        d.CreatedAt.UTC(),
		UpdatedAt:        d.UpdatedAt.UTC(),
	}
}

func nonNilStrings(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

var _ catalog.Repository = (*ProductRepository)(nil)
