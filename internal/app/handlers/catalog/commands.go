package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"boilerfunnel/internal/app/commands"
	"boilerfunnel/internal/app/dto"
	handlersupport "boilerfunnel/internal/app/handlers/support"
	"boilerfunnel/internal/app/outbox"
	"boilerfunnel/internal/app/policies"
	domaincatalog "boilerfunnel/internal/domain/catalog"
)

const (
	CreateProductKey = "catalog.products.create"
	UpdateProductKey = "catalog.products.update"
	DeleteProductKey = "catalog.products.delete"
)

// ImageUpload is an optional product image received with a create request.
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type CreateProductCommand struct {
	Product domaincatalog.CreateParams
	Image   *ImageUpload
}

func (CreateProductCommand) Key() string { return CreateProductKey }

type CreateProductHandler struct {
	Uploader policies.Uploader
	Outbox   outbox.Outbox
	Encoder  outbox.EventEncoder
	Logger   *slog.Logger
	Now      func() time.Time
}

func (h *CreateProductHandler) Handle(ctx context.Context, cmd CreateProductCommand) (*dto.Product, error) {
	unit, err := handlersupport.UnitFrom(ctx)
	if err != nil {
		return nil, err
	}
	params := cmd.Product
	params.ID = domaincatalog.ProductID(uuid.NewString())
	params.Now = h.now()

	if cmd.Image != nil && cmd.Image.Body != nil {
		if h.Uploader == nil {
			return nil, ErrUploaderUnavailable
		}
		key := ProductImageKey(string(params.ID), cmd.Image.Filename, params.Now)
		url, err := h.Uploader.Upload(ctx, key, cmd.Image.Body, cmd.Image.Size, cmd.Image.ContentType)
		if err != nil {
			return nil, fmt.Errorf("upload product image: %w", err)
		}
		params.ImageURL = url
	}

	product, err := domaincatalog.NewProduct(params)
	if err != nil {
		return nil, err
	}
	if err := unit.Products().Save(ctx, product); err != nil {
		return nil, err
	}
	if err := outbox.Publish(ctx, h.Outbox, h.Encoder, product); err != nil {
		return nil, err
	}
	if h.Logger != nil {
		h.Logger.Info("product created", "product_id", product.ID, "name", product.Name)
	}
	out := dto.MapProduct(product)
	return &out, nil
}

func (h *CreateProductHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

type UpdateProductCommand struct {
	ID    string
	Patch domaincatalog.Patch
}

func (UpdateProductCommand) Key() string { return UpdateProductKey }

func (c UpdateProductCommand) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return ErrProductIDRequired
	}
	return nil
}

type UpdateProductHandler struct {
	Outbox  outbox.Outbox
	Encoder outbox.EventEncoder
	Logger  *slog.Logger
}

func (h *UpdateProductHandler) Handle(ctx context.Context, cmd UpdateProductCommand) (*dto.Product, error) {
	unit, err := handlersupport.UnitFrom(ctx)
	if err != nil {
		return nil, err
	}
	product, err := unit.Products().ByID(ctx, domaincatalog.ProductID(cmd.ID))
	if err != nil {
		return nil, err
	}
	if err := product.Apply(cmd.Patch, time.Now()); err != nil {
		return nil, err
	}
	if err := unit.Products().Save(ctx, product); err != nil {
		return nil, err
	}
	if err := outbox.Publish(ctx, h.Outbox, h.Encoder, product); err != nil {
		return nil, err
	}
	if h.Logger != nil {
		h.Logger.Info("product updated", "product_id", product.ID)
	}
	out := dto.MapProduct(product)
	return &out, nil
}

type DeleteProductCommand struct {
	ID string
}

func (DeleteProductCommand) Key() string { return DeleteProductKey }

func (c DeleteProductCommand) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return ErrProductIDRequired
	}
	return nil
}

type DeleteProductHandler struct {
	Outbox  outbox.Outbox
	Encoder outbox.EventEncoder
	Logger  *slog.Logger
}

func (h *DeleteProductHandler) Handle(ctx context.Context, cmd DeleteProductCommand) (struct{}, error) {
	unit, err := handlersupport.UnitFrom(ctx)
	if err != nil {
		return struct{}{}, err
	}
	product, err := unit.Products().ByID(ctx, domaincatalog.ProductID(cmd.ID))
	if err != nil {
		return struct{}{}, err
	}
	if err := unit.Products().Delete(ctx, product.ID); err != nil {
		return struct{}{}, err
	}
	product.MarkDeleted(time.Now())
	if err := outbox.Publish(ctx, h.Outbox, h.Encoder, product); err != nil {
		return struct{}{}, err
	}
	if h.Logger != nil {
		h.Logger.Info("product deleted", "product_id", product.ID)
	}
	return struct{}{}, nil
}

var ErrUploaderUnavailable = errors.New("catalog: image uploader unavailable")

// ProductImageKey builds a unique object key under products/<id>/.
func ProductImageKey(productID, filename string, now time.Time) string {
	ext := strings.ToLower(path.Ext(filename))
	if ext == "" || len(ext) > 5 {
		ext = ".jpg"
	}
	return fmt.Sprintf("products/%s/%d-%s%s", sanitizeToken(productID), now.UnixNano(), uuid.NewString()[:8], ext)
}

func sanitizeToken(value string) string {
	value = strings.TrimSpace(value)
	var b strings.Builder
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "product"
	}
	return b.String()
}

var (
	_ commands.Handler[CreateProductCommand, *dto.Product] = (*CreateProductHandler)(nil)
	_ commands.Handler[UpdateProductCommand, *dto.Product] = (*UpdateProductHandler)(nil)
	_ commands.Handler[DeleteProductCommand, struct{}]     = (*DeleteProductHandler)(nil)
)
