package customers

import (
	"context"
	"errors"

	"github.com/conecteai/sales_layer/internal/app/domain/customer"
	"github.com/conecteai/sales_layer/internal/app/domain/patch"
	"github.com/conecteai/sales_layer/internal/app/metrics"
	"github.com/conecteai/sales_layer/internal/app/storage"
	"github.com/conecteai/sales_layer/internal/app/validation"
	apperrors "github.com/conecteai/sales_layer/internal/errors"
	"github.com/conecteai/sales_layer/pkg/logger"
)

const resource = "customer"

// Service validates and persists customers.
type Service struct {
	store      storage.CustomerStore
	identities storage.IdentityStore
	log        *logger.Logger
}

// New constructs a customer service. identities answers email uniqueness
// across users and customers.
func New(store storage.CustomerStore, identities storage.IdentityStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("customers")
	}
	return &Service{store: store, identities: identities, log: log}
}

// Create validates in against the create rules and stores the customer.
func (s *Service) Create(ctx context.Context, in validation.Input) (c customer.Customer, err error) {
	defer func() { s.record(ctx, "create", c.ID, err) }()

	rules := Rules(validation.Create, s.emailTaken(0))
	if err := check(ctx, rules, in); err != nil {
		return customer.Customer{}, err
	}

	created, err := s.store.CreateCustomer(ctx, patchFrom(in))
	if err != nil {
		return customer.Customer{}, storeError("create customer", rules.Name, err)
	}
	return created, nil
}

// Update merges the present fields of in onto the customer identified by
// rawID.
func (s *Service) Update(ctx context.Context, rawID string, in validation.Input) (c customer.Customer, err error) {
	defer func() { s.record(ctx, "update", c.ID, err) }()

	id, err := validation.ParseID(rawID)
	if err != nil {
		return customer.Customer{}, apperrors.Validation(err)
	}

	rules := Rules(validation.Update, s.emailTaken(id))
	if err := check(ctx, rules, in); err != nil {
		return customer.Customer{}, err
	}

	updated, err := s.store.UpdateCustomer(ctx, id, patchFrom(in))
	if err != nil {
		return customer.Customer{}, storeError("update customer", rules.Name, err)
	}
	return updated, nil
}

// Delete removes the customer identified by rawID. Customers with orders
// cannot be deleted.
func (s *Service) Delete(ctx context.Context, rawID string) (err error) {
	var id int64
	defer func() { s.record(ctx, "delete", id, err) }()

	id, err = validation.ParseID(rawID)
	if err != nil {
		return apperrors.Validation(err)
	}
	if _, err := s.store.GetCustomer(ctx, id); err != nil {
		return storeError("find customer", "", err)
	}
	if err := s.store.DeleteCustomer(ctx, id); err != nil {
		return storeError("delete customer", "", err)
	}
	return nil
}

// List returns every customer ordered by id.
func (s *Service) List(ctx context.Context) (items []customer.Customer, err error) {
	defer func() { s.record(ctx, "list", 0, err) }()

	items, err = s.store.ListCustomers(ctx)
	if err != nil {
		return nil, apperrors.Storage("list customers", err)
	}
	return items, nil
}

// Get returns one customer. Malformed ids are reported as not found.
func (s *Service) Get(ctx context.Context, rawID string) (c customer.Customer, err error) {
	defer func() { s.record(ctx, "show", c.ID, err) }()

	id, err := validation.ParseID(rawID)
	if err != nil {
		return customer.Customer{}, apperrors.NotFound(resource)
	}
	c, err = s.store.GetCustomer(ctx, id)
	if err != nil {
		return customer.Customer{}, storeError("find customer", "", err)
	}
	return c, nil
}

func (s *Service) emailTaken(exceptID int64) validation.TakenFunc {
	return func(ctx context.Context, email string) (bool, error) {
		return s.identities.EmailInUse(ctx, email, exceptID)
	}
}

func (s *Service) record(ctx context.Context, op string, id int64, err error) {
	outcome := metrics.OutcomeFor(err)
	metrics.RecordOperation(resource, op, outcome)

	entry := s.log.ForContext(ctx).
		WithField("operation", op).
		WithField("outcome", outcome)
	if id > 0 {
		entry = entry.WithField("customer_id", id)
	}
	if outcome == metrics.OutcomeStoreError {
		entry.WithError(err).Error("customer operation failed")
		return
	}
	entry.Info("customer operation handled")
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
		return apperrors.Storage("validate customer", err)
	}
}

// storeError maps storage sentinels onto service errors. A unique index
// violation on email is reported the way the uniqueness rule reports it.
func storeError(op, ruleSet string, err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return apperrors.NotFound(resource)
	case errors.Is(err, storage.ErrReferenced):
		return apperrors.Conflict(resource, err)
	case errors.Is(err, storage.ErrConflict) && ruleSet != "":
		var v validation.Violations
		v.Add("email", "The email has already been taken.")
		return apperrors.Validation(&validation.Error{RuleSet: ruleSet, Violations: v})
	default:
		return apperrors.Storage(op, err)
	}
}

func patchFrom(in validation.Input) customer.Patch {
	var p customer.Patch
	if v, ok := in.String("name"); ok {
		p.Name = patch.Set(v)
	}
	if v, ok := in.String("cnpj"); ok {
		p.CNPJ = patch.Set(v)
	}
	if v, ok := in.String("email"); ok {
		p.Email = patch.Set(v)
	}
	if v, ok := in.String("telephone"); ok {
		p.Telephone = patch.Set(v)
	}
	return p
}
