package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conecteai/sales_layer/internal/app/system"
	"github.com/conecteai/sales_layer/internal/app/validation"
	"github.com/conecteai/sales_layer/pkg/logger"
	"github.com/conecteai/sales_layer/pkg/testutil"
)

func quietLogger() *logger.Logger {
	return logger.New(logger.LoggingConfig{Level: "error"})
}

func TestNewDefaultsToSharedMemoryStore(t *testing.T) {
	application, err := New(Stores{}, TokenSettings{}, quietLogger())
	require.NoError(t, err)

	ctx := context.Background()
	c, err := application.Customers.Create(ctx, testutil.ValidCustomerInput())
	require.NoError(t, err)
	p, err := application.Products.Create(ctx, testutil.ValidProductInput())
	require.NoError(t, err)

	// Orders resolve references through the same default store.
	o, err := application.Orders.Create(ctx, testutil.ValidOrderInput(c.ID, p.ID))
	require.NoError(t, err)
	assert.Equal(t, c.ID, o.CustomerID)
}

func TestNewIssuesTokensWithEphemeralSecret(t *testing.T) {
	application, err := New(Stores{}, TokenSettings{TTL: time.Minute}, quietLogger())
	require.NoError(t, err)

	ctx := context.Background()
	_, err = application.Auth.Register(ctx, validation.Input{"name": "Operador", "email": "ops@example.com", "password": "segredo1"})
	require.NoError(t, err)
	tok, err := application.Auth.Login(ctx, validation.Input{"email": "ops@example.com", "password": "segredo1"})
	require.NoError(t, err)

	claims, err := application.Auth.Validate(tok.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "sales_layer", claims.Issuer)
}

func TestLifecycle(t *testing.T) {
	application, err := New(Stores{}, TokenSettings{Secret: "s"}, quietLogger())
	require.NoError(t, err)

	require.NoError(t, application.Schedule("noop", "@every 1h", func(context.Context) error { return nil }))
	require.NoError(t, application.Attach(system.NoopService{ServiceName: "extra"}))
	require.Error(t, application.Schedule("bad", "whenever", func(context.Context) error { return nil }))

	ctx := context.Background()
	require.NoError(t, application.Start(ctx))
	require.NoError(t, application.Stop(ctx))
}
