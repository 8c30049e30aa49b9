package ginserver

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	gin "github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"boilerfunnel/internal/app/commands"
	"boilerfunnel/internal/app/dto"
	submissionsapp "boilerfunnel/internal/app/handlers/submissions"
	"boilerfunnel/internal/app/queries"
	"boilerfunnel/internal/domain/catalog"
	"boilerfunnel/internal/domain/finance"
	"boilerfunnel/internal/domain/submissions"
	"boilerfunnel/internal/infra/obs"
)

var errDepositNotWhole = errors.New("deposit percentage must be a whole number")

// FormHandler serves the quote wizard submissions and the funnel steps that
// hang off a submission.
type FormHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Metrics  FunnelRecorder
	Logger   *slog.Logger
}

type answersRequest struct {
	FuelType           string `json:"fuelType"`
	BoilerType         string `json:"boilerType"`
	PropertyType       string `json:"propertyType"`
	BedroomCount       string `json:"bedroomCount"`
	BathtubCount       string `json:"bathtubCount"`
	ShowerCubicleCount string `json:"showerCubicleCount"`
	FlueExitType       string `json:"flueExitType"`
	ReplacementTiming  string `json:"replacementTiming"`
	Postcode           string `json:"postcode"`
	Address            string `json:"address"`
	FirstName          string `json:"firstName"`
	LastName           string `json:"lastName"`
	Email              string `json:"email"`
	Phone              string `json:"phone"`
}

type paymentOptionRequest struct {
	Months int             `json:"months"`
	APR    decimal.Decimal `json:"apr"`
}

type financeDetailsRequest struct {
	DepositPercentage *float64              `json:"depositPercentage"`
	PaymentOption     *paymentOptionRequest `json:"paymentOption"`
}

type selectedProductRequest struct {
	ID string `json:"id"`
}

type updateFormRequest struct {
	FuelType           *string                 `json:"fuelType"`
	BoilerType         *string                 `json:"boilerType"`
	PropertyType       *string                 `json:"propertyType"`
	BedroomCount       *string                 `json:"bedroomCount"`
	BathtubCount       *string                 `json:"bathtubCount"`
	ShowerCubicleCount *string                 `json:"showerCubicleCount"`
	FlueExitType       *string                 `json:"flueExitType"`
	ReplacementTiming  *string                 `json:"replacementTiming"`
	Postcode           *string                 `json:"postcode"`
	Address            *string                 `json:"address"`
	FirstName          *string                 `json:"firstName"`
	LastName           *string                 `json:"lastName"`
	Email              *string                 `json:"email"`
	Phone              *string                 `json:"phone"`
	PaymentStatus      *string                 `json:"paymentStatus"`
	SelectedProduct    *selectedProductRequest `json:"selectedProduct"`
	FinanceDetails     *financeDetailsRequest  `json:"financeDetails"`
	InstallDate        *string                 `json:"installDate"`
}

type selectProductRequest struct {
	ProductID         string           `json:"productId"`
	DepositPercentage *float64         `json:"depositPercentage"`
	Months            int              `json:"months"`
	APR               *decimal.Decimal `json:"apr"`
}

type installDateRequest struct {
	Date string `json:"date"`
}

func (h FormHandler) errors() errorResponder {
	return errorResponder{Logger: h.Logger, Scope: "form"}
}

func (h FormHandler) Submit(c *gin.Context) {
	var req answersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errors().respondWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	cmd := submissionsapp.SubmitFormCommand{Qualification: req.qualification(), Contact: req.contact()}
	result, err := commands.Dispatch[submissionsapp.SubmitFormCommand, *submissionsapp.SubmitFormResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.errors().handleError(c, err, "Failed to save form submission")
		return
	}
	recordStep(h.Metrics, obs.StepSubmitted)
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Form submission saved successfully", "id": result.ID})
}

func (h FormHandler) List(c *gin.Context) {
	result, err := queries.Ask[submissionsapp.ListSubmissionsQuery, []dto.Submission](c.Request.Context(), h.Queries, submissionsapp.ListSubmissionsQuery{})
	if err != nil {
		h.errors().handleError(c, err, "Failed to fetch form submissions")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": result})
}

func (h FormHandler) Get(c *gin.Context) {
	query := submissionsapp.GetSubmissionQuery{ID: c.Param("id")}
	result, err := queries.Ask[submissionsapp.GetSubmissionQuery, dto.Submission](c.Request.Context(), h.Queries, query)
	if err != nil {
		h.errors().handleError(c, err, "Failed to fetch form submission")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": result})
}

// Update applies a partial update. A selectedProduct or installDate in the
// body is routed through the funnel commands so that prices are recomputed
// server-side instead of trusting client figures.
func (h FormHandler) Update(c *gin.Context) {
	var req updateFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errors().respondWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	id := c.Param("id")
	ctx := c.Request.Context()

	var choice *submissionsapp.FinanceChoice
	if req.SelectedProduct != nil {
		var err error
		if choice, err = req.FinanceDetails.choice(); err != nil {
			h.errors().respondWithError(c, http.StatusBadRequest, publicMessage(err))
			return
		}
	}

	var (
		result *dto.Submission
		err    error
	)
	if patch, ok := req.patch(); ok || (req.SelectedProduct == nil && req.InstallDate == nil) {
		cmd := submissionsapp.UpdateSubmissionCommand{ID: id, Patch: patch}
		if result, err = commands.Dispatch[submissionsapp.UpdateSubmissionCommand, *dto.Submission](ctx, h.Commands, cmd); err != nil {
			h.errors().handleError(c, err, "Failed to update form submission")
			return
		}
	}
	if req.SelectedProduct != nil {
		cmd := submissionsapp.SelectProductCommand{SubmissionID: id, ProductID: req.SelectedProduct.ID, Finance: choice}
		if result, err = commands.Dispatch[submissionsapp.SelectProductCommand, *dto.Submission](ctx, h.Commands, cmd); err != nil {
			h.errors().handleError(c, err, "Failed to update form submission")
			return
		}
		recordStep(h.Metrics, obs.StepProductSelected)
	}
	if req.InstallDate != nil {
		cmd := submissionsapp.ConfirmInstallDateCommand{SubmissionID: id, Date: *req.InstallDate}
		if result, err = commands.Dispatch[submissionsapp.ConfirmInstallDateCommand, *dto.Submission](ctx, h.Commands, cmd); err != nil {
			h.errors().handleError(c, err, "Failed to update form submission")
			return
		}
		recordStep(h.Metrics, obs.StepInstallBooked)
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Form submission updated successfully", "data": result})
}

func (h FormHandler) Delete(c *gin.Context) {
	cmd := submissionsapp.DeleteSubmissionCommand{ID: c.Param("id")}
	if _, err := commands.Dispatch[submissionsapp.DeleteSubmissionCommand, struct{}](c.Request.Context(), h.Commands, cmd); err != nil {
		h.errors().handleError(c, err, "Failed to delete form submission")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Form submission deleted successfully"})
}

// SelectProduct stores the chosen boiler and, when a payment option is
// given, the finance quote computed from the catalog price.
func (h FormHandler) SelectProduct(c *gin.Context) {
	var req selectProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errors().respondWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	var choice *submissionsapp.FinanceChoice
	if req.Months != 0 || req.DepositPercentage != nil {
		pct, err := wholePercent(req.DepositPercentage)
		if err != nil {
			h.errors().respondWithError(c, http.StatusBadRequest, publicMessage(err))
			return
		}
		option := finance.DefaultOption()
		if req.Months != 0 {
			option.Months = req.Months
			option.APR = decimal.Zero
			if req.APR != nil {
				option.APR = *req.APR
			}
		}
		choice = &submissionsapp.FinanceChoice{DepositPercent: pct, Months: option.Months, APR: option.APR}
	}
	cmd := submissionsapp.SelectProductCommand{SubmissionID: c.Param("id"), ProductID: req.ProductID, Finance: choice}
	result, err := commands.Dispatch[submissionsapp.SelectProductCommand, *dto.Submission](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.errors().handleError(c, err, "Failed to select product")
		return
	}
	recordStep(h.Metrics, obs.StepProductSelected)
	c.JSON(http.StatusOK, gin.H{"success": true, "data": result})
}

func (h FormHandler) ConfirmInstallDate(c *gin.Context) {
	var req installDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errors().respondWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	cmd := submissionsapp.ConfirmInstallDateCommand{SubmissionID: c.Param("id"), Date: req.Date}
	result, err := commands.Dispatch[submissionsapp.ConfirmInstallDateCommand, *dto.Submission](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.errors().handleError(c, err, "Failed to book install date")
		return
	}
	recordStep(h.Metrics, obs.StepInstallBooked)
	c.JSON(http.StatusOK, gin.H{"success": true, "data": result})
}

func (h FormHandler) Export(c *gin.Context) {
	doc, err := queries.Ask[submissionsapp.ExportSubmissionsQuery, submissionsapp.Document](c.Request.Context(), h.Queries, submissionsapp.ExportSubmissionsQuery{})
	if err != nil {
		h.errors().handleError(c, err, "Failed to export form submissions")
		return
	}
	sendDocument(c, doc)
}

func (h FormHandler) QuoteDocument(c *gin.Context) {
	query := submissionsapp.QuoteDocumentQuery{SubmissionID: c.Param("id")}
	doc, err := queries.Ask[submissionsapp.QuoteDocumentQuery, submissionsapp.Document](c.Request.Context(), h.Queries, query)
	if err != nil {
		h.errors().handleError(c, err, "Failed to render finance quote")
		return
	}
	sendDocument(c, doc)
}

func sendDocument(c *gin.Context, doc submissionsapp.Document) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	c.Data(http.StatusOK, doc.ContentType, doc.Body)
}

func (r answersRequest) qualification() submissions.Qualification {
	return submissions.Qualification{
		FuelType:           submissions.FuelType(strings.TrimSpace(r.FuelType)),
		BoilerType:         catalog.BoilerType(strings.TrimSpace(r.BoilerType)),
		PropertyType:       submissions.PropertyType(strings.TrimSpace(r.PropertyType)),
		BedroomCount:       submissions.BedroomCount(strings.TrimSpace(r.BedroomCount)),
		BathtubCount:       submissions.BathtubCount(strings.TrimSpace(r.BathtubCount)),
		ShowerCubicleCount: submissions.ShowerCubicleCount(strings.TrimSpace(r.ShowerCubicleCount)),
		FlueExitType:       submissions.FlueExitType(strings.TrimSpace(r.FlueExitType)),
		ReplacementTiming:  submissions.ReplacementTiming(strings.TrimSpace(r.ReplacementTiming)),
		Postcode:           r.Postcode,
		Address:            r.Address,
	}
}

func (r answersRequest) contact() submissions.Contact {
	return submissions.Contact{FirstName: r.FirstName, LastName: r.LastName, Email: r.Email, Phone: r.Phone}
}

// patch reports whether any plain field was supplied.
func (r updateFormRequest) patch() (submissions.Patch, bool) {
	p := submissions.Patch{
		FuelType:           enumPtr[submissions.FuelType](r.FuelType),
		BoilerType:         enumPtr[catalog.BoilerType](r.BoilerType),
		PropertyType:       enumPtr[submissions.PropertyType](r.PropertyType),
		BedroomCount:       enumPtr[submissions.BedroomCount](r.BedroomCount),
		BathtubCount:       enumPtr[submissions.BathtubCount](r.BathtubCount),
		ShowerCubicleCount: enumPtr[submissions.ShowerCubicleCount](r.ShowerCubicleCount),
		FlueExitType:       enumPtr[submissions.FlueExitType](r.FlueExitType),
		ReplacementTiming:  enumPtr[submissions.ReplacementTiming](r.ReplacementTiming),
		PaymentStatus:      enumPtr[submissions.PaymentStatus](r.PaymentStatus),
		Postcode:           r.Postcode,
		Address:            r.Address,
		FirstName:          r.FirstName,
		LastName:           r.LastName,
		Email:              r.Email,
		Phone:              r.Phone,
	}
	supplied := []bool{
		r.FuelType != nil, r.BoilerType != nil, r.PropertyType != nil, r.BedroomCount != nil,
		r.BathtubCount != nil, r.ShowerCubicleCount != nil, r.FlueExitType != nil,
		r.ReplacementTiming != nil, r.PaymentStatus != nil, r.Postcode != nil, r.Address != nil,
		r.FirstName != nil, r.LastName != nil, r.Email != nil, r.Phone != nil,
	}
	for _, ok := range supplied {
		if ok {
			return p, true
		}
	}
	return p, false
}

// choice keeps only the customer's inputs; the computed figures in the
// request are ignored.
func (f *financeDetailsRequest) choice() (*submissionsapp.FinanceChoice, error) {
	if f == nil {
		return nil, nil
	}
	pct, err := wholePercent(f.DepositPercentage)
	if err != nil {
		return nil, err
	}
	option := finance.DefaultOption()
	if f.PaymentOption != nil {
		option.Months = f.PaymentOption.Months
		option.APR = f.PaymentOption.APR
	}
	return &submissionsapp.FinanceChoice{DepositPercent: pct, Months: option.Months, APR: option.APR}, nil
}

func wholePercent(v *float64) (int, error) {
	if v == nil {
		return 0, nil
	}
	pct := int(*v)
	if float64(pct) != *v {
		return 0, errDepositNotWhole
	}
	return pct, nil
}

func enumPtr[T ~string](v *string) *T {
	if v == nil {
		return nil
	}
	out := T(strings.TrimSpace(*v))
	return &out
}

var _ FormHTTP = FormHandler{}
