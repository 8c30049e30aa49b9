package ginserver

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	gin "github.com/gin-gonic/gin"

	"boilerfunnel/internal/app/commands"
	"boilerfunnel/internal/app/dto"
	catalogapp "boilerfunnel/internal/app/handlers/catalog"
	"boilerfunnel/internal/app/queries"
	"boilerfunnel/internal/domain/catalog"
)

const maxProductImageBytes int64 = 5 * 1024 * 1024

var requiredProductFields = []string{"name", "brand", "description", "price", "rating", "category", "warranty", "expertOpinion"}

type ProductHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

type productRequest struct {
	Name             *string   `json:"name"`
	Brand            *string   `json:"brand"`
	Description      *string   `json:"description"`
	Price            *string   `json:"price"`
	OriginalPrice    *string   `json:"originalPrice"`
	Rating           *float64  `json:"rating"`
	Category         *string   `json:"category"`
	Warranty         *string   `json:"warranty"`
	Features         *[]string `json:"features"`
	ExpertOpinion    *string   `json:"expertOpinion"`
	MonthlyPayment   *string   `json:"monthlyPayment"`
	ZeroAPR          *string   `json:"zeroApr"`
	SuitableBedrooms *[]string `json:"suitableBedrooms"`
	BoilerType       *string   `json:"boilerType"`
	ImageURL         *string   `json:"imageUrl"`
}

func (h ProductHandler) errors() errorResponder {
	return errorResponder{Logger: h.Logger, Scope: "product"}
}

func (h ProductHandler) List(c *gin.Context) {
	result, err := queries.Ask[catalogapp.ListProductsQuery, []dto.Product](c.Request.Context(), h.Queries, catalogapp.ListProductsQuery{})
	if err != nil {
		h.errors().handleError(c, err, "Failed to fetch products")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": result})
}

func (h ProductHandler) Get(c *gin.Context) {
	query := catalogapp.GetProductQuery{ID: c.Param("id")}
	result, err := queries.Ask[catalogapp.GetProductQuery, dto.Product](c.Request.Context(), h.Queries, query)
	if err != nil {
		h.errors().handleError(c, err, "Failed to fetch product")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": result})
}

// Create accepts JSON or multipart form data with an optional "image" file.
func (h ProductHandler) Create(c *gin.Context) {
	var (
		req   productRequest
		image *catalogapp.ImageUpload
		err   error
	)
	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		req, image, err = h.readMultipart(c)
	} else {
		err = c.ShouldBindJSON(&req)
	}
	if err != nil {
		h.errors().respondWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	if missing := req.missingFields(); len(missing) > 0 {
		_ = c.Error(fmt.Errorf("missing product fields %v", missing))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":          fmt.Sprintf("Missing required fields: %s are required", strings.Join(missing, ", ")),
			"receivedFields": req.receivedFields(),
			"missingFields":  missing,
		})
		return
	}

	cmd := catalogapp.CreateProductCommand{Product: req.createParams(), Image: image}
	result, err := commands.Dispatch[catalogapp.CreateProductCommand, *dto.Product](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.errors().handleError(c, err, "Failed to create product")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Product created successfully", "data": result})
}

func (h ProductHandler) Update(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errors().respondWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	cmd := catalogapp.UpdateProductCommand{ID: c.Param("id"), Patch: req.patch()}
	result, err := commands.Dispatch[catalogapp.UpdateProductCommand, *dto.Product](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.errors().handleError(c, err, "Failed to update product")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Product updated successfully", "data": result})
}

func (h ProductHandler) Delete(c *gin.Context) {
	cmd := catalogapp.DeleteProductCommand{ID: c.Param("id")}
	if _, err := commands.Dispatch[catalogapp.DeleteProductCommand, struct{}](c.Request.Context(), h.Commands, cmd); err != nil {
		h.errors().handleError(c, err, "Failed to delete product")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Product deleted successfully"})
}

func (h ProductHandler) readMultipart(c *gin.Context) (productRequest, *catalogapp.ImageUpload, error) {
	var req productRequest
	text := func(name string) *string {
		if v, ok := c.GetPostForm(name); ok {
			return &v
		}
		return nil
	}
	req.Name = text("name")
	req.Brand = text("brand")
	req.Description = text("description")
	req.Price = text("price")
	req.OriginalPrice = text("originalPrice")
	req.Category = text("category")
	req.Warranty = text("warranty")
	req.ExpertOpinion = text("expertOpinion")
	req.MonthlyPayment = text("monthlyPayment")
	req.ZeroAPR = text("zeroApr")
	req.BoilerType = text("boilerType")

	if raw := text("rating"); raw != nil && strings.TrimSpace(*raw) != "" {
		rating, err := strconv.ParseFloat(strings.TrimSpace(*raw), 64)
		if err != nil {
			return req, nil, errors.New(msgInvalidRating)
		}
		req.Rating = &rating
	}
	var err error
	if req.Features, err = jsonArrayField(text("features"), "features"); err != nil {
		return req, nil, err
	}
	if req.SuitableBedrooms, err = jsonArrayField(text("suitableBedrooms"), "suitableBedrooms"); err != nil {
		return req, nil, err
	}

	image, err := readImage(c)
	if err != nil {
		return req, nil, err
	}
	return req, image, nil
}

// jsonArrayField decodes a multipart field carrying a JSON array of strings.
func jsonArrayField(raw *string, name string) (*[]string, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	var values []string
	if err := json.Unmarshal([]byte(*raw), &values); err != nil {
		return nil, fmt.Errorf("%s must be a JSON array of strings", name)
	}
	return &values, nil
}

func readImage(c *gin.Context) (*catalogapp.ImageUpload, error) {
	header, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("image: %w", err)
	}
	if header.Size > maxProductImageBytes {
		return nil, fmt.Errorf("image too large (max %d MB)", maxProductImageBytes/1024/1024)
	}
	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("image: %w", err)
	}
	defer file.Close()
	data, err := io.ReadAll(io.LimitReader(file, maxProductImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("image: %w", err)
	}
	if len(data) == 0 {
		return nil, errors.New("image is empty")
	}
	if int64(len(data)) > maxProductImageBytes {
		return nil, fmt.Errorf("image too large (max %d MB)", maxProductImageBytes/1024/1024)
	}
	contentType := http.DetectContentType(data)
	switch contentType {
	case "image/jpeg", "image/png", "image/gif", "image/webp":
	default:
		return nil, fmt.Errorf("unsupported image type: %s", contentType)
	}
	return &catalogapp.ImageUpload{
		Filename:    header.Filename,
		ContentType: contentType,
		Size:        int64(len(data)),
		Body:        bytes.NewReader(data),
	}, nil
}

func (r productRequest) missingFields() []string {
	present := map[string]bool{
		"name":          nonBlank(r.Name),
		"brand":         nonBlank(r.Brand),
		"description":   nonBlank(r.Description),
		"price":         nonBlank(r.Price),
		"rating":        r.Rating != nil,
		"category":      nonBlank(r.Category),
		"warranty":      nonBlank(r.Warranty),
		"expertOpinion": nonBlank(r.ExpertOpinion),
	}
	var missing []string
	for _, field := range requiredProductFields {
		if !present[field] {
			missing = append(missing, field)
		}
	}
	return missing
}

func (r productRequest) receivedFields() []string {
	var out []string
	add := func(name string, ok bool) {
		if ok {
			out = append(out, name)
		}
	}
	add("name", r.Name != nil)
	add("brand", r.Brand != nil)
	add("description", r.Description != nil)
	add("price", r.Price != nil)
	add("originalPrice", r.OriginalPrice != nil)
	add("rating", r.Rating != nil)
	add("category", r.Category != nil)
	add("warranty", r.Warranty != nil)
	add("features", r.Features != nil)
	add("expertOpinion", r.ExpertOpinion != nil)
	add("monthlyPayment", r.MonthlyPayment != nil)
	add("zeroApr", r.ZeroAPR != nil)
	add("suitableBedrooms", r.SuitableBedrooms != nil)
	add("boilerType", r.BoilerType != nil)
	add("imageUrl", r.ImageURL != nil)
	return out
}

func (r productRequest) createParams() catalog.CreateParams {
	params := catalog.CreateParams{
		Name:           deref(r.Name),
		Brand:          deref(r.Brand),
		Description:    deref(r.Description),
		Price:          deref(r.Price),
		OriginalPrice:  deref(r.OriginalPrice),
		Category:       catalog.Category(deref(r.Category)),
		Warranty:       deref(r.Warranty),
		ExpertOpinion:  deref(r.ExpertOpinion),
		MonthlyPayment: deref(r.MonthlyPayment),
		ZeroAPR:        deref(r.ZeroAPR),
		BoilerType:     catalog.BoilerType(deref(r.BoilerType)),
		ImageURL:       deref(r.ImageURL),
	}
	if r.Rating != nil {
		params.Rating = *r.Rating
	}
	if r.Features != nil {
		params.Features = *r.Features
	}
	if r.SuitableBedrooms != nil {
		params.SuitableBedrooms = *r.SuitableBedrooms
	}
	return params
}

func (r productRequest) patch() catalog.Patch {
	p := catalog.Patch{
		Name:             r.Name,
		Brand:            r.Brand,
		Description:      r.Description,
		Price:            r.Price,
		OriginalPrice:    r.OriginalPrice,
		Rating:           r.Rating,
		Warranty:         r.Warranty,
		Features:         r.Features,
		ExpertOpinion:    r.ExpertOpinion,
		MonthlyPayment:   r.MonthlyPayment,
		ZeroAPR:          r.ZeroAPR,
		SuitableBedrooms: r.SuitableBedrooms,
		ImageURL:         r.ImageURL,
	}
	if r.Category != nil {
		category := catalog.Category(strings.TrimSpace(*r.Category))
		p.Category = &category
	}
	if r.BoilerType != nil {
		boiler := catalog.BoilerType(strings.TrimSpace(*r.BoilerType))
		p.BoilerType = &boiler
	}
	return p
}

func nonBlank(v *string) bool {
	return v != nil && strings.TrimSpace(*v) != ""
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
