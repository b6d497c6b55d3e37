package products

import (
	"context"
	"errors"

	"github.com/conecteai/sales_layer/internal/app/domain/patch"
	"github.com/conecteai/sales_layer/internal/app/domain/product"
	"github.com/conecteai/sales_layer/internal/app/metrics"
	"github.com/conecteai/sales_layer/internal/app/storage"
	"github.com/conecteai/sales_layer/internal/app/validation"
	apperrors "github.com/conecteai/sales_layer/internal/errors"
	"github.com/conecteai/sales_layer/pkg/logger"
)

const resource = "product"

// Service validates and persists products.
type Service struct {
	store storage.ProductStore
	log   *logger.Logger
}

// New constructs a product service.
func New(store storage.ProductStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("products")
	}
	return &Service{store: store, log: log}
}

// Create validates in and stores the product.
func (s *Service) Create(ctx context.Context, in validation.Input) (p product.Product, err error) {
	defer func() { s.record(ctx, "create", p.ID, err) }()

	if err := check(ctx, Rules(validation.Create), in); err != nil {
		return product.Product{}, err
	}
	created, err := s.store.CreateProduct(ctx, patchFrom(in))
	if err != nil {
		return product.Product{}, storeError("create product", err)
	}
	return created, nil
}

// Update merges the present fields of in onto the product identified by rawID.
func (s *Service) Update(ctx context.Context, rawID string, in validation.Input) (p product.Product, err error) {
	defer func() { s.record(ctx, "update", p.ID, err) }()

	id, err := validation.ParseID(rawID)
	if err != nil {
		return product.Product{}, apperrors.Validation(err)
	}
	if err := check(ctx, Rules(validation.Update), in); err != nil {
		return product.Product{}, err
	}
	updated, err := s.store.UpdateProduct(ctx, id, patchFrom(in))
	if err != nil {
		return product.Product{}, storeError("update product", err)
	}
	return updated, nil
}

// Delete removes the product identified by rawID unless orders reference it.
func (s *Service) Delete(ctx context.Context, rawID string) (err error) {
	var id int64
	defer func() { s.record(ctx, "delete", id, err) }()

	id, err = validation.ParseID(rawID)
	if err != nil {
		return apperrors.Validation(err)
	}
	if _, err := s.store.GetProduct(ctx, id); err != nil {
		return storeError("find product", err)
	}
	if err := s.store.DeleteProduct(ctx, id); err != nil {
		return storeError("delete product", err)
	}
	return nil
}

// List returns every product ordered by id.
func (s *Service) List(ctx context.Context) (items []product.Product, err error) {
	defer func() { s.record(ctx, "list", 0, err) }()

	items, err = s.store.ListProducts(ctx)
	if err != nil {
		return nil, apperrors.Storage("list products", err)
	}
	return items, nil
}

// Get returns one product. Malformed ids are reported as not found.
func (s *Service) Get(ctx context.Context, rawID string) (p product.Product, err error) {
	defer func() { s.record(ctx, "show", p.ID, err) }()

	id, err := validation.ParseID(rawID)
	if err != nil {
		return product.Product{}, apperrors.NotFound(resource)
	}
	p, err = s.store.GetProduct(ctx, id)
	if err != nil {
		return product.Product{}, storeError("find product", err)
	}
	return p, nil
}

func (s *Service) record(ctx context.Context, op string, id int64, err error) {
	outcome := metrics.OutcomeFor(err)
	metrics.RecordOperation(resource, op, outcome)

	entry := s.log.ForContext(ctx).WithField("operation", op).WithField("outcome", outcome)
	if id > 0 {
		entry = entry.WithField("product_id", id)
	}
	if outcome == metrics.OutcomeStoreError {
		entry.WithError(err).Error("product operation failed")
		return
	}
	entry.Info("product operation handled")
}

func check(ctx context.Context, rules validation.RuleSet, in validation.Input) error {
	err := rules.Check(ctx, in)
	var verr *validation.Error
	switch {
	case err == nil:
		return nil
	case errors.As(err, &verr):
		return apperrors.Validation(verr)
	default:
		return apperrors.Storage("validate product", err)
	}
}

func storeError(op string, err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return apperrors.NotFound(resource)
	case errors.Is(err, storage.ErrReferenced):
		return apperrors.Conflict(resource, err)
	default:
		return apperrors.Storage(op, err)
	}
}

func patchFrom(in validation.Input) product.Patch {
	var p product.Patch
	if v, ok := in.String("description"); ok {
		p.Description = patch.Set(v)
	}
	if v, ok := in.String("color"); ok {
		p.Color = patch.Set(v)
	}
	if v, ok := in.String("dimensions"); ok {
		p.Dimensions = patch.Set(v)
	}
	if v, ok := in.Float("price"); ok {
		p.Price = patch.Set(v)
	}
	return p
}
