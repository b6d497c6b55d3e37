package httpapi

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	app "github.com/conecteai/sales_layer/internal/app"
	"github.com/conecteai/sales_layer/internal/app/domain/customer"
	"github.com/conecteai/sales_layer/internal/app/domain/order"
	"github.com/conecteai/sales_layer/internal/app/domain/product"
	"github.com/conecteai/sales_layer/internal/app/metrics"
	"github.com/conecteai/sales_layer/internal/httputil"
	"github.com/conecteai/sales_layer/internal/middleware"
	"github.com/conecteai/sales_layer/pkg/logger"
)

// Options configures the HTTP surface around the application services.
type Options struct {
	Log          *logger.Logger
	CORSOrigins  []string
	Limiter      *middleware.RateLimiter
	Audit        *AuditLog
	AuthDisabled bool
	// Ready reports whether backing resources are reachable.
	Ready func(ctx context.Context) error
}

// publicPaths are reachable without a bearer token.
var publicPaths = []string{"/healthz", "/metrics", "/api/register", "/api/login"}

// NewHandler returns the router exposing the sales API wrapped in the
// middleware chain.
func NewHandler(application *app.Application, opts Options) http.Handler {
	log := opts.Log
	if log == nil {
		log = logger.NewDefault("httpapi")
	}

	router := mux.NewRouter()
	router.Use(middleware.MetricsMiddleware())

	(&resource[customer.Customer]{svc: application.Customers, msg: customerMessages, log: log}).mount(router, "/api/customers", true)
	(&resource[product.Product]{svc: application.Products, msg: productMessages, log: log}).mount(router, "/api/products", true)
	(&resource[order.Order]{svc: application.Orders, msg: orderMessages, log: log}).mount(router, "/api/orders", false)

	ident := &identity{auth: application.Auth, log: log}
	router.HandleFunc("/api/register", ident.register).Methods(http.MethodPost)
	router.HandleFunc("/api/login", ident.login).Methods(http.MethodPost)
	router.Handle("/api/me", middleware.RequireUserID(http.HandlerFunc(ident.me))).Methods(http.MethodGet)

	if opts.Audit != nil {
		router.HandleFunc("/api/audit", auditHandler(opts.Audit)).Methods(http.MethodGet)
	}

	router.HandleFunc("/healthz", healthHandler(opts.Ready)).Methods(http.MethodGet)
	router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	var handler http.Handler = router
	if opts.Audit != nil {
		handler = opts.Audit.Middleware(log)(handler)
	}
	if !opts.AuthDisabled {
		handler = middleware.NewAuthMiddleware(application.Auth, log, publicPaths).Handler(handler)
	}
	if opts.Limiter != nil {
		handler = opts.Limiter.Handler(handler)
	}
	if len(opts.CORSOrigins) > 0 {
		handler = middleware.NewCORSMiddleware(opts.CORSOrigins).Handler(handler)
	}
	return middleware.NewTracingMiddleware(log).Handler(handler)
}

func healthHandler(ready func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ready != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := ready(ctx); err != nil {
				httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
				return
			}
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func auditHandler(audit *AuditLog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		httputil.Data(w, http.StatusOK, audit.List(limit), "")
	}
}
