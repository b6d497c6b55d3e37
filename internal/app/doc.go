// Package app provides the application composition layer of the sales API.
//
// # Architecture Role
//
// The app package composes stores, services, authentication and background
// housekeeping into one Application. Business rules live in the services
// packages; this package only wires them.
//
// # Package Structure
//
//	internal/app/
//	├── application.go      # Application struct, wiring, and lifecycle
//	├── domain/             # Entity models and the patch type
//	│   ├── customer/
//	│   ├── product/
//	│   ├── order/          # Order and its calendar Date
//	│   ├── identity/       # API users
//	│   └── patch/          # Set/unset fields for partial updates
//	├── validation/         # Rule sets and violation mappings
//	├── storage/            # Store interfaces and sentinels
//	│   ├── memory/         # In-memory implementation for tests and local runs
//	│   └── postgres/       # PostgreSQL implementation (sqlx)
//	├── services/           # customers, products, orders
//	├── auth/               # Users, bcrypt and HS256 tokens
//	├── httpapi/            # Router, envelopes and audit trail
//	├── metrics/            # Prometheus collectors
//	├── system/             # Lifecycle manager and cron housekeeping
//	└── runtime/            # Config driven process assembly
//
// # Dependency Direction
//
//	cmd/appserver/
//	      │
//	      ▼
//	internal/app/runtime ──► internal/app/httpapi ──► internal/app (composition)
//	                                                        │
//	                                                        ├──► services ──► validation, storage
//	                                                        ├──► auth
//	                                                        └──► system
package app
