package dto

import (
	"time"

	"boilerfunnel/internal/domain/submissions"
)

type SelectedProduct struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Brand string `json:"brand"`
	Price string `json:"price"`
}

type PaymentOption struct {
	Months int     `json:"months"`
	APR    float64 `json:"apr"`
}

type FinanceDetails struct {
	DepositPercentage float64       `json:"depositPercentage"`
	DepositAmount     float64       `json:"depositAmount"`
	PaymentOption     PaymentOption `json:"paymentOption"`
	MonthlyPayment    float64       `json:"monthlyPayment"`
	TotalPayable      float64       `json:"totalPayable"`
}

type Submission struct {
	ID                 string           `json:"_id"`
	FuelType           *string          `json:"fuelType"`
	BoilerType         *string          `json:"boilerType"`
	PropertyType       *string          `json:"propertyType"`
	BedroomCount       *string          `json:"bedroomCount"`
	BathtubCount       *string          `json:"bathtubCount"`
	ShowerCubicleCount *string          `json:"showerCubicleCount"`
	FlueExitType       *string          `json:"flueExitType"`
	ReplacementTiming  *string          `json:"replacementTiming"`
	Postcode           string           `json:"postcode"`
	Address            string           `json:"address"`
	FirstName          string           `json:"firstName"`
	LastName           string           `json:"lastName"`
	Email              string           `json:"email"`
	Phone              string           `json:"phone"`
	SelectedProduct    *SelectedProduct `json:"selectedProduct,omitempty"`
	FinanceDetails     *FinanceDetails  `json:"financeDetails,omitempty"`
	InstallDate        *string          `json:"installDate"`
	DateSurcharge      float64          `json:"dateSurcharge"`
	PaymentStatus      *string          `json:"paymentStatus"`
	PaymentIntentID    *string          `json:"paymentIntentId"`
	PaymentAmount      *float64         `json:"paymentAmount"`
	PaymentDate        *time.Time       `json:"paymentDate"`
	SubmittedAt        time.Time        `json:"submittedAt"`
	CreatedAt          time.Time        `json:"createdAt"`
	UpdatedAt          time.Time        `json:"updatedAt"`
}

func MapSubmission(s *submissions.Submission) Submission {
	if s == nil {
		return Submission{}
	}
	q := s.Qualification
	out := Submission{
		ID:                 string(s.ID),
		FuelType:           nullable(string(q.FuelType)),
		BoilerType:         nullable(string(q.BoilerType)),
		PropertyType:       nullable(string(q.PropertyType)),
		BedroomCount:       nullable(string(q.BedroomCount)),
		BathtubCount:       nullable(string(q.BathtubCount)),
		ShowerCubicleCount: nullable(string(q.ShowerCubicleCount)),
		FlueExitType:       nullable(string(q.FlueExitType)),
		ReplacementTiming:  nullable(string(q.ReplacementTiming)),
		Postcode:           q.Postcode,
		Address:            q.Address,
		FirstName:          s.Contact.FirstName,
		LastName:           s.Contact.LastName,
		Email:              s.Contact.Email,
		Phone:              s.Contact.Phone,
		PaymentStatus:      nullable(string(s.Payment.Status)),
		PaymentIntentID:    nullable(s.Payment.IntentID),
		PaymentDate:        s.Payment.PaidAt,
		SubmittedAt:        s.SubmittedAt,
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
	}
	if s.Product != nil {
		out.SelectedProduct = &SelectedProduct{ID: s.Product.ID, Name: s.Product.Name, Brand: s.Product.Brand, Price: s.Product.Price}
	}
	if f := s.Finance; f != nil {
		out.FinanceDetails = &FinanceDetails{
			DepositPercentage: f.DepositPercentage.InexactFloat64(),
			DepositAmount:     Amount(f.DepositAmount),
			PaymentOption:     PaymentOption{Months: f.Months, APR: f.APR.InexactFloat64()},
			MonthlyPayment:    Amount(f.MonthlyPayment),
			TotalPayable:      Amount(f.TotalPayable),
		}
	}
	if s.Install != nil {
		out.InstallDate = nullable(s.Install.Date)
		out.DateSurcharge = Amount(s.Install.Surcharge)
	}
	if s.Payment.Status == submissions.PaymentCompleted {
		amount := Amount(s.Payment.Amount)
		out.PaymentAmount = &amount
	}
	return out
}

func MapSubmissions(items []*submissions.Submission) []Submission {
	out := make([]Submission, 0, len(items))
	for _, s := range items {
		out = append(out, MapSubmission(s))
	}
	return out
}
