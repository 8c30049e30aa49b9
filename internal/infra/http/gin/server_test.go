package ginserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	gin "github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boilerfunnel/internal/app/policies"
	"boilerfunnel/internal/domain/catalog"
	"boilerfunnel/internal/infra/bootstrap"
	"boilerfunnel/internal/infra/config"
	"boilerfunnel/internal/infra/export"
	ginserver "boilerfunnel/internal/infra/http/gin"
	"boilerfunnel/internal/infra/obs"
	"boilerfunnel/internal/infra/payments/stripe"
	"boilerfunnel/internal/infra/storage/memory"
	"boilerfunnel/internal/infra/storage/s3"
)

const greenstarID = "worcester-greenstar-4000"

type fakeGateway struct {
	mu       sync.Mutex
	created  []policies.CreateIntentRequest
	statuses map[string]string
	amounts  map[string]decimal.Decimal
	err      error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{statuses: map[string]string{}, amounts: map[string]decimal.Decimal{}}
}

func (g *fakeGateway) CreateIntent(_ context.Context, req policies.CreateIntentRequest) (policies.PaymentIntent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return policies.PaymentIntent{}, g.err
	}
	g.created = append(g.created, req)
	id := "pi_test_1"
	g.statuses[id] = "requires_payment_method"
	g.amounts[id] = req.Amount
	return policies.PaymentIntent{
		ID:           id,
		ClientSecret: id + "_secret",
		Status:       g.statuses[id],
		Amount:       req.Amount,
		Currency:     req.Currency,
		Metadata:     req.Metadata,
	}, nil
}

func (g *fakeGateway) RetrieveIntent(_ context.Context, id string) (policies.PaymentIntent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return policies.PaymentIntent{}, g.err
	}
	return policies.PaymentIntent{ID: id, Status: g.statuses[id], Amount: g.amounts[id], Currency: "gbp"}, nil
}

type testServer struct {
	router   *gin.Engine
	gateway  *fakeGateway
	products *memory.ProductRepository
}

func newTestServer(t *testing.T, payments policies.PaymentsPort) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	products := memory.NewProductRepository()
	submissionsRepo := memory.NewSubmissionRepository()
	box := memory.NewOutbox()
	gateway := newFakeGateway()
	if payments == nil {
		payments = gateway
	}
	cfg := config.Defaults()
	cfg.Env = "test"
	app, err := bootstrap.Build(bootstrap.Deps{
		Config:   cfg,
		UoW:      memory.Factory{ProductsRepo: products, SubmissionsRepo: submissionsRepo, Outbox: box},
		Outbox:   box,
		Payments: payments,
		Uploader: s3.NoopUploader{},
		Renderer: export.Renderer{},
		Metrics:  obs.NewMetrics(),
	})
	require.NoError(t, err)

	product, err := catalog.NewProduct(catalog.CreateParams{
		ID:            greenstarID,
		Name:          "Greenstar 4000",
		Brand:         "Worcester Bosch",
		Description:   "Quiet, compact combi boiler",
		Price:         "£2,340",
		Rating:        4.8,
		Category:      catalog.CategoryBetter,
		Warranty:      "10 years",
		ExpertOpinion: "Best all-rounder",
		BoilerType:    catalog.BoilerCombi,
		Now:           time.Date(2020, 1, 1, 9, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.NoError(t, products.Save(context.Background(), product))

	router := ginserver.NewRouter(cfg, obs.Middleware{}, obs.HealthHandlers{}, app.Handlers)
	return &testServer{router: router, gateway: gateway, products: products}
}

func (s *testServer) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec, decodeBody(t, rec)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	out := map[string]any{}
	if rec.Body.Len() > 0 && bytes.HasPrefix(bytes.TrimSpace(rec.Body.Bytes()), []byte("{")) {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return out
}

func (s *testServer) submit(t *testing.T) string {
	t.Helper()
	rec, body := s.do(t, http.MethodPost, "/api/forms/submit", map[string]any{
		"fuelType":     "mains-gas",
		"boilerType":   "combi",
		"propertyType": "detached",
		"bedroomCount": "3",
		"postcode":     "sw1a 1aa",
		"firstName":    "Sam",
		"lastName":     "Taylor",
		"email":        "Sam@Example.com",
		"phone":        "07700900123",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	id, _ := body["id"].(string)
	require.NotEmpty(t, id)
	return id
}

func data(t *testing.T, body map[string]any) map[string]any {
	t.Helper()
	out, ok := body["data"].(map[string]any)
	require.True(t, ok, "missing data in %v", body)
	return out
}

func TestAPIDocs(t *testing.T) {
	s := newTestServer(t, nil)

	rec, body := s.do(t, http.MethodGet, "/api/docs/openapi.json", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	info, ok := body["info"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Boiler funnel API", info["title"])

	rec, _ = s.do(t, http.MethodGet, "/api/docs", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), `url: "/api/docs/openapi.json"`)
}

func TestHealthRootAndNotFound(t *testing.T) {
	s := newTestServer(t, nil)

	rec, body := s.do(t, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", body["status"])
	assert.Equal(t, "Server is running", body["message"])

	rec, body = s.do(t, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "API is running", body["message"])

	rec, body = s.do(t, http.MethodGet, "/api/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Route not found", body["error"])
	assert.Equal(t, "/api/nope", body["path"])
	assert.Equal(t, http.MethodGet, body["method"])

	rec, _ = s.do(t, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "boilerfunnel_http_requests_total")
}

func TestSubmitFormRequiresContact(t *testing.T) {
	s := newTestServer(t, nil)

	rec, body := s.do(t, http.MethodPost, "/api/forms/submit", map[string]any{"firstName": "Sam"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Missing required fields: firstName, lastName, email, and phone are required", body["error"])
}

func TestSubmitFormRejectsUnknownAnswer(t *testing.T) {
	s := newTestServer(t, nil)

	rec, body := s.do(t, http.MethodPost, "/api/forms/submit", map[string]any{
		"fuelType":  "coal",
		"firstName": "Sam", "lastName": "Taylor", "email": "sam@example.com", "phone": "1",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, body["error"], "fuelType")
}

func TestSubmitListGetDelete(t *testing.T) {
	s := newTestServer(t, nil)
	id := s.submit(t)

	rec, body := s.do(t, http.MethodGet, "/api/forms/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := data(t, body)
	assert.Equal(t, id, got["_id"])
	assert.Equal(t, "SW1A 1AA", got["postcode"])
	assert.Equal(t, "sam@example.com", got["email"])

	rec, body = s.do(t, http.MethodGet, "/api/forms/all", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["data"], 1)

	rec, body = s.do(t, http.MethodDelete, "/api/forms/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Form submission deleted successfully", body["message"])

	rec, body = s.do(t, http.MethodGet, "/api/forms/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Form submission not found", body["error"])
}

func TestUpdateFormRecomputesFinanceServerSide(t *testing.T) {
	s := newTestServer(t, nil)
	id := s.submit(t)

	rec, body := s.do(t, http.MethodPut, "/api/forms/"+id, map[string]any{
		"address":         "10 Downing Street",
		"selectedProduct": map[string]any{"id": greenstarID, "name": "ignored", "brand": "ignored", "price": "£1"},
		"financeDetails": map[string]any{
			"depositPercentage": 10,
			"depositAmount":     1,
			"paymentOption":     map[string]any{"months": 60, "apr": 11.9},
			"monthlyPayment":    1,
			"totalPayable":      1,
		},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Form submission updated successfully", body["message"])
	got := data(t, body)
	assert.Equal(t, "10 Downing Street", got["address"])

	product := got["selectedProduct"].(map[string]any)
	assert.Equal(t, "Greenstar 4000", product["name"])
	assert.Equal(t, "£2,340", product["price"])

	financeDetails := got["financeDetails"].(map[string]any)
	assert.Equal(t, 234.0, financeDetails["depositAmount"])
	assert.Equal(t, 46.74, financeDetails["monthlyPayment"])
	assert.Equal(t, 10.0, financeDetails["depositPercentage"])
}

func TestUpdateFormRejectsFractionalDeposit(t *testing.T) {
	s := newTestServer(t, nil)
	id := s.submit(t)

	rec, body := s.do(t, http.MethodPut, "/api/forms/"+id, map[string]any{
		"selectedProduct": map[string]any{"id": greenstarID},
		"financeDetails":  map[string]any{"depositPercentage": 12.5},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Deposit percentage must be a whole number", body["error"])
}

func TestSelectProductRejectsOptionOutsideCatalog(t *testing.T) {
	s := newTestServer(t, nil)
	id := s.submit(t)

	rec, _ := s.do(t, http.MethodPost, "/api/forms/"+id+"/select-product", map[string]any{
		"productId":         greenstarID,
		"depositPercentage": 0,
		"months":            60,
		"apr":               9.9,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = s.do(t, http.MethodPost, "/api/forms/"+id+"/select-product", map[string]any{
		"productId":         greenstarID,
		"depositPercentage": 60,
		"months":            60,
		"apr":               11.9,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInstallDateSurchargeAndBookingTotal(t *testing.T) {
	s := newTestServer(t, nil)
	id := s.submit(t)

	rec, _ := s.do(t, http.MethodPost, "/api/forms/"+id+"/select-product", map[string]any{"productId": greenstarID})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, body := s.do(t, http.MethodPost, "/api/forms/"+id+"/install-date", map[string]any{"date": "2026-11-13"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := data(t, body)
	assert.Equal(t, "2026-11-13", got["installDate"])
	assert.Equal(t, 85.0, got["dateSurcharge"])

	rec, body = s.do(t, http.MethodGet, "/api/booking/total?date=2026-11-13&submissionId="+id, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	total := data(t, body)
	assert.Equal(t, 2340.0, total["basePrice"])
	assert.Equal(t, 2425.0, total["totalPrice"])
	assert.Equal(t, "£2,425", total["displayTotal"])

	rec, body = s.do(t, http.MethodPost, "/api/forms/"+id+"/install-date", map[string]any{"date": "2026-11-05"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotEmpty(t, body["error"])
}

func TestBookingCalendar(t *testing.T) {
	s := newTestServer(t, nil)

	rec, body := s.do(t, http.MethodGet, "/api/booking/calendar?month=2026-11", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	cal := data(t, body)
	assert.Equal(t, "2026-11", cal["month"])
	assert.Equal(t, "2026-10", cal["previous"])
	assert.Equal(t, "2026-12", cal["next"])
	// November 2026 has 30 days, five of them Sundays.
	assert.Len(t, cal["days"], 25)

	rec, _ = s.do(t, http.MethodGet, "/api/booking/calendar?month=2026-13", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFinanceOptionsAndQuote(t *testing.T) {
	s := newTestServer(t, nil)

	rec, body := s.do(t, http.MethodGet, "/api/finance/options", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["data"], 7)

	rec, body = s.do(t, http.MethodGet, "/api/finance/quote?price=%C2%A32%2C340&deposit=0&months=60&apr=11.9", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	quote := data(t, body)
	assert.Equal(t, 51.93, quote["monthlyPayment"])

	rec, body = s.do(t, http.MethodGet, "/api/finance/quote?productId="+greenstarID+"&deposit=10&months=60&apr=11.9", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 46.74, data(t, body)["monthlyPayment"])

	rec, _ = s.do(t, http.MethodGet, "/api/finance/quote?price=abc&months=60&apr=11.9", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = s.do(t, http.MethodGet, "/api/finance/quote?price=2340&deposit=ten", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProductCreateReportsMissingFields(t *testing.T) {
	s := newTestServer(t, nil)

	rec, body := s.do(t, http.MethodPost, "/api/products/create", map[string]any{"name": "Vitodens", "brand": "Viessmann"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Missing required fields: description, price, rating, category, warranty, expertOpinion are required", body["error"])
	assert.ElementsMatch(t, []any{"description", "price", "rating", "category", "warranty", "expertOpinion"}, body["missingFields"])
	assert.ElementsMatch(t, []any{"name", "brand"}, body["receivedFields"])
}

func TestProductCRUD(t *testing.T) {
	s := newTestServer(t, nil)

	rec, body := s.do(t, http.MethodPost, "/api/products/create", map[string]any{
		"name":             "Vitodens 200",
		"brand":            "Viessmann",
		"description":      "System boiler",
		"price":            "£2,600",
		"rating":           4.6,
		"category":         "best",
		"warranty":         "12 years",
		"expertOpinion":    "Premium choice",
		"features":         []string{"Wi-Fi"},
		"suitableBedrooms": []string{"4", "5+"},
		"boilerType":       "system",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "Product created successfully", body["message"])
	created := data(t, body)
	id := created["_id"].(string)
	require.NotEmpty(t, id)

	rec, body = s.do(t, http.MethodPut, "/api/products/"+id, map[string]any{"price": "£2,500"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "£2,500", data(t, body)["price"])

	rec, body = s.do(t, http.MethodPut, "/api/products/"+id, map[string]any{"category": "premium"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid category. Must be one of: good, better, best", body["error"])

	rec, body = s.do(t, http.MethodGet, "/api/products/all", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	items := body["data"].([]any)
	require.Len(t, items, 2)
	assert.Equal(t, id, items[0].(map[string]any)["_id"])

	rec, body = s.do(t, http.MethodDelete, "/api/products/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Product deleted successfully", body["message"])

	rec, body = s.do(t, http.MethodGet, "/api/products/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Product not found", body["error"])
}

func multipartProduct(t *testing.T, fields map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())
	req := httptest.NewRequest(http.MethodPost, "/api/products/create", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func baseMultipartFields() map[string]string {
	return map[string]string{
		"name":          "Logic Max",
		"brand":         "Ideal",
		"description":   "Budget combi",
		"price":         "£1,950",
		"rating":        "4.2",
		"category":      "good",
		"warranty":      "7 years",
		"expertOpinion": "Great value",
	}
}

func TestProductCreateMultipart(t *testing.T) {
	s := newTestServer(t, nil)

	fields := baseMultipartFields()
	fields["features"] = `["Compact","Quiet"]`
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, multipartProduct(t, fields))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := data(t, decodeBody(t, rec))
	assert.Equal(t, []any{"Compact", "Quiet"}, created["features"])

	fields["features"] = "Compact, Quiet"
	rec = httptest.NewRecorder()
	s.router.ServeHTTP(rec, multipartProduct(t, fields))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "features must be a JSON array of strings", decodeBody(t, rec)["error"])
}

func TestPaymentIntentAndConfirm(t *testing.T) {
	s := newTestServer(t, nil)
	id := s.submit(t)
	rec, _ := s.do(t, http.MethodPost, "/api/forms/"+id+"/select-product", map[string]any{"productId": greenstarID})
	require.Equal(t, http.StatusOK, rec.Code)
	rec, _ = s.do(t, http.MethodPost, "/api/forms/"+id+"/install-date", map[string]any{"date": "2026-11-13"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, body := s.do(t, http.MethodPost, "/api/payments/create-intent", map[string]any{"submissionId": id})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "pi_test_1_secret", body["clientSecret"])
	assert.Equal(t, "pi_test_1", body["paymentIntentId"])
	require.Len(t, s.gateway.created, 1)
	assert.True(t, decimal.NewFromInt(2425).Equal(s.gateway.created[0].Amount))
	assert.Equal(t, "gbp", s.gateway.created[0].Currency)
	assert.Equal(t, id, s.gateway.created[0].Metadata["submissionId"])

	rec, body = s.do(t, http.MethodPost, "/api/payments/confirm", map[string]any{"paymentIntentId": "pi_test_1", "submissionId": id})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Payment not completed", body["error"])
	assert.Equal(t, "requires_payment_method", body["status"])

	s.gateway.statuses["pi_test_1"] = "succeeded"
	rec, body = s.do(t, http.MethodPost, "/api/payments/confirm", map[string]any{"paymentIntentId": "pi_test_1", "submissionId": id})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Payment confirmed successfully", body["message"])
	intent := body["paymentIntent"].(map[string]any)
	assert.Equal(t, "succeeded", intent["status"])
	assert.Equal(t, 2425.0, intent["amount"])

	rec, body = s.do(t, http.MethodGet, "/api/forms/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := data(t, body)
	assert.Equal(t, "completed", got["paymentStatus"])
	assert.Equal(t, 2425.0, got["paymentAmount"])
}

func TestPaymentValidation(t *testing.T) {
	s := newTestServer(t, nil)

	rec, body := s.do(t, http.MethodPost, "/api/payments/create-intent", map[string]any{"amount": -5})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid amount", body["error"])

	rec, body = s.do(t, http.MethodPost, "/api/payments/confirm", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Payment intent ID is required", body["error"])
}

func TestPaymentsWithoutStripeKey(t *testing.T) {
	s := newTestServer(t, stripe.Disabled{})

	rec, body := s.do(t, http.MethodPost, "/api/payments/create-intent", map[string]any{"amount": 100})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Stripe is not configured. Please set STRIPE_SECRET_KEY in your .env file.", body["error"])
}

func TestPaymentGatewayAuthenticationFailure(t *testing.T) {
	gateway := newFakeGateway()
	gateway.err = &policies.GatewayError{Kind: policies.GatewayAuthentication, Message: "Invalid API Key provided"}
	s := newTestServer(t, gateway)

	rec, body := s.do(t, http.MethodPost, "/api/payments/create-intent", map[string]any{"amount": 100})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "Invalid Stripe API key. Please check your STRIPE_SECRET_KEY in the .env file.", body["error"])
	assert.Equal(t, policies.GatewayAuthentication, body["details"])
}

func TestExportAndQuoteDocuments(t *testing.T) {
	s := newTestServer(t, nil)
	id := s.submit(t)

	rec, _ := s.do(t, http.MethodGet, "/api/forms/"+id+"/quote.pdf", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = s.do(t, http.MethodPost, "/api/forms/"+id+"/select-product", map[string]any{
		"productId": greenstarID, "depositPercentage": 10, "months": 60, "apr": 11.9,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = s.do(t, http.MethodGet, "/api/forms/"+id+"/quote.pdf", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))

	rec, _ = s.do(t, http.MethodGet, "/api/forms/export", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".xlsx")
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")))
}
