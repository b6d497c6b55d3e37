package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/conecteai/sales_layer/internal/app/auth"
	"github.com/conecteai/sales_layer/internal/app/services/customers"
	"github.com/conecteai/sales_layer/internal/app/services/orders"
	"github.com/conecteai/sales_layer/internal/app/services/products"
	"github.com/conecteai/sales_layer/internal/app/storage"
	"github.com/conecteai/sales_layer/internal/app/storage/memory"
	"github.com/conecteai/sales_layer/internal/app/system"
	"github.com/conecteai/sales_layer/pkg/logger"
)

// Stores encapsulates persistence dependencies. Nil stores default to the
// in-memory implementation.
type Stores struct {
	Customers  storage.CustomerStore
	Products   storage.ProductStore
	Orders     storage.OrderStore
	Identities storage.IdentityStore
}

// TokenSettings configures bearer token issuance. An empty secret is replaced
// by a random one, so tokens do not survive a restart.
type TokenSettings struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

// Application ties domain services together and manages their lifecycle.
type Application struct {
	manager     *system.Manager
	housekeeper *system.Housekeeper
	log         *logger.Logger

	Customers *customers.Service
	Products  *products.Service
	Orders    *orders.Service
	Auth      *auth.Manager
}

// New builds a fully initialised application with the provided stores.
func New(stores Stores, tokens TokenSettings, log *logger.Logger) (*Application, error) {
	if log == nil {
		log = logger.NewDefault("app")
	}

	mem := memory.New()
	if stores.Customers == nil {
		stores.Customers = mem
	}
	if stores.Products == nil {
		stores.Products = mem
	}
	if stores.Orders == nil {
		stores.Orders = mem
	}
	if stores.Identities == nil {
		stores.Identities = mem
	}

	if tokens.Secret == "" {
		log.Warn("no token secret configured; using an ephemeral one")
		tokens.Secret = uuid.NewString()
	}
	if tokens.Issuer == "" {
		tokens.Issuer = "sales_layer"
	}

	manager := system.NewManager()
	housekeeper := system.NewHousekeeper(log.Named("housekeeping"))
	if err := manager.Register(housekeeper); err != nil {
		return nil, fmt.Errorf("register %s: %w", housekeeper.Name(), err)
	}

	return &Application{
		manager:     manager,
		housekeeper: housekeeper,
		log:         log,
		Customers:   customers.New(stores.Customers, stores.Identities, log.Named("customers")),
		Products:    products.New(stores.Products, log.Named("products")),
		Orders:      orders.New(stores.Customers, stores.Products, stores.Orders, log.Named("orders")),
		Auth:        auth.NewManager(stores.Identities, tokens.Secret, tokens.Issuer, tokens.TTL, log.Named("auth")),
	}, nil
}

// Schedule registers a periodic maintenance job. Call before Start.
func (a *Application) Schedule(name, spec string, job system.Job) error {
	return a.housekeeper.Schedule(name, spec, job)
}

// Attach registers an additional lifecycle-managed service. Call before Start.
func (a *Application) Attach(service system.Service) error {
	return a.manager.Register(service)
}

// Start begins all registered services.
func (a *Application) Start(ctx context.Context) error {
	return a.manager.Start(ctx)
}

// Stop stops all services.
func (a *Application) Stop(ctx context.Context) error {
	return a.manager.Stop(ctx)
}
