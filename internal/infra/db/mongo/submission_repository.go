package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"boilerfunnel/internal/domain/catalog"
	"boilerfunnel/internal/domain/submissions"
)

const SubmissionsCollection = "formsubmissions"

type SubmissionRepository struct {
	col *mongo.Collection
}

func NewSubmissionRepository(db *mongo.Database) *SubmissionRepository {
	return &SubmissionRepository{col: db.Collection(SubmissionsCollection)}
}

func (r *SubmissionRepository) ByID(ctx context.Context, id submissions.SubmissionID) (*submissions.Submission, error) {
	var doc submissionDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, submissions.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *SubmissionRepository) List(ctx context.Context) ([]*submissions.Submission, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*submissions.Submission
	for cur.Next(ctx) {
		var doc submissionDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cur.Err()
}

func (r *SubmissionRepository) Save(ctx context.Context, s *submissions.Submission) error {
	doc := newSubmissionDocument(s)
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	return err
}

func (r *SubmissionRepository) Delete(ctx context.Context, id submissions.SubmissionID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": string(id)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return submissions.ErrNotFound
	}
	return nil
}

type submissionDocument struct {
	ID                 string                `bson:"_id"`
	FuelType           string                `bson:"fuelType,omitempty"`
	BoilerType         string                `bson:"boilerType,omitempty"`
	PropertyType       string                `bson:"propertyType,omitempty"`
	BedroomCount       string                `bson:"bedroomCount,omitempty"`
	BathtubCount       string                `bson:"bathtubCount,omitempty"`
	ShowerCubicleCount string                `bson:"showerCubicleCount,omitempty"`
	FlueExitType       string                `bson:"flueExitType,omitempty"`
	ReplacementTiming  string                `bson:"replacementTiming,omitempty"`
	Postcode           string                `bson:"postcode,omitempty"`
	Address            string                `bson:"address,omitempty"`
	FirstName          string                `bson:"firstName"`
	LastName           string                `bson:"lastName"`
	Email              string                `bson:"email"`
	Phone              string                `bson:"phone"`
	SelectedProduct    *selectedProductDoc   `bson:"selectedProduct,omitempty"`
	FinanceDetails     *financeDetailsDoc    `bson:"financeDetails,omitempty"`
	InstallDate        string                `bson:"installDate,omitempty"`
	DateSurcharge      *primitive.Decimal128 `bson:"dateSurcharge,omitempty"`
	PaymentStatus      string                `bson:"paymentStatus,omitempty"`
	PaymentIntentID    string                `bson:"paymentIntentId,omitempty"`
	PaymentAmount      *primitive.Decimal128 `bson:"paymentAmount,omitempty"`
	PaymentDate        *time.Time            `bson:"paymentDate,omitempty"`
	SubmittedAt        time.Time             `bson:"submittedAt"`
	CreatedAt          time.Time             `bson:"createdAt"`
	UpdatedAt          time.Time             `bson:"updatedAt"`
}

type selectedProductDoc struct {
	ID    string `bson:"id"`
	Name  string `bson:"name"`
	Brand string `bson:"brand"`
	Price string `bson:"price"`
}

type financeDetailsDoc struct {
	DepositPercentage primitive.Decimal128 `bson:"depositPercentage"`
	DepositAmount     primitive.Decimal128 `bson:"depositAmount"`
	Months            int                  `bson:"months"`
	APR               primitive.Decimal128 `bson:"apr"`
	MonthlyPayment    primitive.Decimal128 `bson:"monthlyPayment"`
	TotalPayable      primitive.Decimal128 `bson:"totalPayable"`
}

func newSubmissionDocument(s *submissions.Submission) submissionDocument {
	q, c := s.Qualification, s.Contact
	doc := submissionDocument{
		ID:                 string(s.ID),
		FuelType:           string(q.FuelType),
		BoilerType:         string(q.BoilerType),
		PropertyType:       string(q.PropertyType),
		BedroomCount:       string(q.BedroomCount),
		BathtubCount:       string(q.BathtubCount),
		ShowerCubicleCount: string(q.ShowerCubicleCount),
		FlueExitType:       string(q.FlueExitType),
		ReplacementTiming:  string(q.ReplacementTiming),
		Postcode:           q.Postcode,
		Address:            q.Address,
		FirstName:          c.FirstName,
		LastName:           c.LastName,
		Email:              c.Email,
		Phone:              c.Phone,
		PaymentStatus:      string(s.Payment.Status),
		PaymentIntentID:    s.Payment.IntentID,
		PaymentAmount:      optionalDecimal128(s.Payment.Amount),
		SubmittedAt:        s.SubmittedAt.UTC(),
		CreatedAt:          s.CreatedAt.UTC(),
		UpdatedAt:          s.UpdatedAt.UTC(),
	}
	if s.Payment.PaidAt != nil {
		paid := s.Payment.PaidAt.UTC()
		doc.PaymentDate = &paid
	}
	if p := s.Product; p != nil {
		doc.SelectedProduct = &selectedProductDoc{ID: p.ID, Name: p.Name, Brand: p.Brand, Price: p.Price}
	}
	if f := s.Finance; f != nil {
		doc.FinanceDetails = &financeDetailsDoc{
			DepositPercentage: toDecimal128(f.DepositPercentage),
			DepositAmount:     toDecimal128(f.DepositAmount),
			Months:            f.Months,
			APR:               toDecimal128(f.APR),
			MonthlyPayment:    toDecimal128(f.MonthlyPayment),
			TotalPayable:      toDecimal128(f.TotalPayable),
		}
	}
	if in := s.Install; in != nil {
		doc.InstallDate = in.Date
		surcharge := toDecimal128(in.Surcharge)
		doc.DateSurcharge = &surcharge
	}
	return doc
}

func (d submissionDocument) toAggregate() *submissions.Submission {
	s := &submissions.Submission{
		ID: submissions.SubmissionID(d.ID),
		Qualification: submissions.Qualification{
			FuelType:           submissions.FuelType(d.FuelType),
			BoilerType:         catalog.BoilerType(d.BoilerType),
			PropertyType:       submissions.PropertyType(d.PropertyType),
			BedroomCount:       submissions.BedroomCount(d.BedroomCount),
			BathtubCount:       submissions.BathtubCount(d.BathtubCount),
			ShowerCubicleCount: submissions.ShowerCubicleCount(d.ShowerCubicleCount),
			FlueExitType:       submissions.FlueExitType(d.FlueExitType),
			ReplacementTiming:  submissions.ReplacementTiming(d.ReplacementTiming),
			Postcode:           d.Postcode,
			Address:            d.Address,
		},
		Contact: submissions.Contact{
			FirstName: d.FirstName,
			LastName:  d.LastName,
			Email:     d.Email,
			Phone:     d.Phone,
		},
		Payment: submissions.Payment{
			Status:   submissions.PaymentStatus(d.PaymentStatus),
			IntentID: d.PaymentIntentID,
			Amount:   fromOptionalDecimal128(d.PaymentAmount),
		},
		SubmittedAt: d.SubmittedAt.UTC(),
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
	if d.PaymentDate != nil {
		paid := d.PaymentDate.UTC()
		s.Payment.PaidAt = &paid
	}
	if p := d.SelectedProduct; p != nil {
		s.Product = &submissions.SelectedProduct{ID: p.ID, Name: p.Name, Brand: p.Brand, Price: p.Price}
	}
	if f := d.FinanceDetails; f != nil {
		s.Finance = &submissions.FinanceDetails{
			DepositPercentage: fromDecimal128(f.DepositPercentage),
			DepositAmount:     fromDecimal128(f.DepositAmount),
			Months:            f.Months,
			APR:               fromDecimal128(f.APR),
			MonthlyPayment:    fromDecimal128(f.MonthlyPayment),
			TotalPayable:      fromDecimal128(f.TotalPayable),
		}
	}
	if d.InstallDate != "" {
		s.Install = &submissions.InstallBooking{Date: d.InstallDate, Surcharge: fromOptionalDecimal128(d.DateSurcharge)}
	}
	return s
}

var _ submissions.Repository = (*SubmissionRepository)(nil)
