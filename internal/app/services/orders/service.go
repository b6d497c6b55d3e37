package orders

import (
	"context"
	"errors"

	"github.com/conecteai/sales_layer/internal/app/domain/order"
	"github.com/conecteai/sales_layer/internal/app/domain/patch"
	"github.com/conecteai/sales_layer/internal/app/metrics"
	"github.com/conecteai/sales_layer/internal/app/storage"
	"github.com/conecteai/sales_layer/internal/app/validation"
	apperrors "github.com/conecteai/sales_layer/internal/errors"
	"github.com/conecteai/sales_layer/pkg/logger"
)

const resource = "order"

// Service validates orders, resolves the customer and product they point at,
// and persists them.
type Service struct {
	customers storage.CustomerStore
	products  storage.ProductStore
	store     storage.OrderStore
	log       *logger.Logger
}

// New constructs an order service.
func New(customers storage.CustomerStore, products storage.ProductStore, store storage.OrderStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("orders")
	}
	return &Service{customers: customers, products: products, store: store, log: log}
}

// Create validates in, checks that the referenced customer and product exist
// and stores the order with its date normalized.
func (s *Service) Create(ctx context.Context, in validation.Input) (o order.Order, err error) {
	defer func() { s.record(ctx, "create", o.ID, err) }()

	if err := check(ctx, Rules(validation.Create), in); err != nil {
		return order.Order{}, err
	}
	if err := s.resolveReferences(ctx, in); err != nil {
		return order.Order{}, err
	}

	p, err := patchFrom(in)
	if err != nil {
		return order.Order{}, err
	}
	created, err := s.store.CreateOrder(ctx, p)
	if err != nil {
		return order.Order{}, storeError("create order", err)
	}
	return created, nil
}

// Update merges the present fields of in onto the order identified by rawID.
// Referenced ids are resolved only when submitted.
func (s *Service) Update(ctx context.Context, rawID string, in validation.Input) (o order.Order, err error) {
	defer func() { s.record(ctx, "update", o.ID, err) }()

	id, err := validation.ParseID(rawID)
	if err != nil {
		return order.Order{}, apperrors.Validation(err)
	}
	if err := check(ctx, Rules(validation.Update), in); err != nil {
		return order.Order{}, err
	}
	if err := s.resolveReferences(ctx, in); err != nil {
		return order.Order{}, err
	}

	p, err := patchFrom(in)
	if err != nil {
		return order.Order{}, err
	}
	updated, err := s.store.UpdateOrder(ctx, id, p)
	if err != nil {
		return order.Order{}, storeError("update order", err)
	}
	return updated, nil
}

// Delete removes the order identified by rawID.
func (s *Service) Delete(ctx context.Context, rawID string) (err error) {
	var id int64
	defer func() { s.record(ctx, "delete", id, err) }()

	id, err = validation.ParseID(rawID)
	if err != nil {
		return apperrors.Validation(err)
	}
	if _, err := s.store.GetOrder(ctx, id); err != nil {
		return storeError("find order", err)
	}
	if err := s.store.DeleteOrder(ctx, id); err != nil {
		return storeError("delete order", err)
	}
	return nil
}

// List returns every order ordered by id.
func (s *Service) List(ctx context.Context) (items []order.Order, err error) {
	defer func() { s.record(ctx, "list", 0, err) }()

	items, err = s.store.ListOrders(ctx)
	if err != nil {
		return nil, apperrors.Storage("list orders", err)
	}
	return items, nil
}

// Get returns one order. Malformed ids are reported as not found.
func (s *Service) Get(ctx context.Context, rawID string) (o order.Order, err error) {
	defer func() { s.record(ctx, "show", o.ID, err) }()

	id, err := validation.ParseID(rawID)
	if err != nil {
		return order.Order{}, apperrors.NotFound(resource)
	}
	o, err = s.store.GetOrder(ctx, id)
	if err != nil {
		return order.Order{}, storeError("find order", err)
	}
	return o, nil
}

// resolveReferences checks the submitted customer_id and product_id, customer
// first. A missing record is reported as not found under its own kind.
func (s *Service) resolveReferences(ctx context.Context, in validation.Input) error {
	if id, ok := in.Int("customer_id"); ok {
		if _, err := s.customers.GetCustomer(ctx, id); err != nil {
			return referenceError("customer", err)
		}
	}
	if id, ok := in.Int("product_id"); ok {
		if _, err := s.products.GetProduct(ctx, id); err != nil {
			return referenceError("product", err)
		}
	}
	return nil
}

func referenceError(kind string, err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return apperrors.NotFound(kind)
	}
	return apperrors.Storage("find "+kind, err)
}

func (s *Service) record(ctx context.Context, op string, id int64, err error) {
	outcome := metrics.OutcomeFor(err)
	metrics.RecordOperation(resource, op, outcome)

	entry := s.log.ForContext(ctx).WithField("operation", op).WithField("outcome", outcome)
	if id > 0 {
		entry = entry.WithField("order_id", id)
	}
	if svcErr := apperrors.GetServiceError(err); svcErr != nil && svcErr.Code == apperrors.CodeNotFound {
		entry = entry.WithField("missing", svcErr.Resource())
	}
	if outcome == metrics.OutcomeStoreError {
		entry.WithError(err).Error("order operation failed")
		return
	}
	entry.Info("order operation handled")
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
		return apperrors.Storage("validate order", err)
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

// patchFrom converts validated input, turning the DD/MM/YYYY date into its
// calendar value.
func patchFrom(in validation.Input) (order.Patch, error) {
	var p order.Patch
	if v, ok := in.String("salesman"); ok {
		p.Salesman = patch.Set(v)
	}
	if v, ok := in.Int("customer_id"); ok {
		p.CustomerID = patch.Set(v)
	}
	if v, ok := in.String("date"); ok {
		d, err := order.ParseInput(v)
		if err != nil {
			return order.Patch{}, apperrors.BadRequest("invalid order date", err)
		}
		p.Date = patch.Set(d)
	}
	if v, ok := in.String("status"); ok {
		p.Status = patch.Set(v)
	}
	if v, ok := in.Int("product_id"); ok {
		p.ProductID = patch.Set(v)
	}
	if v, ok := in.Float("total_price"); ok {
		p.TotalPrice = patch.Set(v)
	}
	if v, ok := in.Float("commission"); ok {
		p.Commission = patch.Set(v)
	}
	return p, nil
}
