package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/conecteai/sales_layer/internal/app/domain/customer"
	"github.com/conecteai/sales_layer/internal/app/domain/identity"
	"github.com/conecteai/sales_layer/internal/app/domain/order"
	"github.com/conecteai/sales_layer/internal/app/domain/product"
	"github.com/conecteai/sales_layer/internal/app/storage"
)

// Store implements the storage interfaces backed by PostgreSQL.
type Store struct {
	db  *sqlx.DB
	now func() time.Time
}

var _ storage.CustomerStore = (*Store)(nil)
var _ storage.ProductStore = (*Store)(nil)
var _ storage.OrderStore = (*Store)(nil)
var _ storage.IdentityStore = (*Store)(nil)

// New creates a Store using the provided database handle.
func New(db *sqlx.DB) *Store {
	return &Store{db: db, now: func() time.Time { return time.Now().UTC() }}
}

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// translate maps driver errors onto the storage sentinels. onForeignKey is the
// sentinel a foreign key violation means for the statement at hand.
func translate(op string, err error, onForeignKey error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pqUniqueViolation:
			return fmt.Errorf("%s: %s: %w", op, pqErr.Constraint, storage.ErrConflict)
		case pqForeignKeyViolation:
			return fmt.Errorf("%s: %s: %w", op, pqErr.Constraint, onForeignKey)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

func affected(op string, res sql.Result) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rows == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	return nil
}

// --- CustomerStore ----------------------------------------------------------

const customerColumns = `id, name, cnpj, email, telephone, created_at, updated_at`

func (s *Store) CreateCustomer(ctx context.Context, p customer.Patch) (customer.Customer, error) {
	var c customer.Customer
	p.Apply(&c)
	c.CreatedAt = s.now()
	c.UpdatedAt = c.CreatedAt

	err := s.db.QueryRowxContext(ctx, `
		INSERT INTO customers (name, cnpj, email, telephone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, c.Name, c.CNPJ, c.Email, c.Telephone, c.CreatedAt, c.UpdatedAt).Scan(&c.ID)
	if err != nil {
		return customer.Customer{}, translate("create customer", err, storage.ErrConflict)
	}
	return c, nil
}

func (s *Store) GetCustomer(ctx context.Context, id int64) (customer.Customer, error) {
	var c customer.Customer
	err := s.db.GetContext(ctx, &c, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id)
	if err != nil {
		return customer.Customer{}, translate(fmt.Sprintf("get customer %d", id), err, storage.ErrConflict)
	}
	return c, nil
}

func (s *Store) ListCustomers(ctx context.Context) ([]customer.Customer, error) {
	result := []customer.Customer{}
	if err := s.db.SelectContext(ctx, &result, `SELECT `+customerColumns+` FROM customers ORDER BY id`); err != nil {
		return nil, translate("list customers", err, storage.ErrConflict)
	}
	return result, nil
}

func (s *Store) UpdateCustomer(ctx context.Context, id int64, p customer.Patch) (customer.Customer, error) {
	c, err := s.GetCustomer(ctx, id)
	if err != nil {
		return customer.Customer{}, err
	}
	p.Apply(&c)
	c.UpdatedAt = s.now()

	op := fmt.Sprintf("update customer %d", id)
	res, err := s.db.ExecContext(ctx, `
		UPDATE customers
		SET name = $2, cnpj = $3, email = $4, telephone = $5, updated_at = $6
		WHERE id = $1
	`, id, c.Name, c.CNPJ, c.Email, c.Telephone, c.UpdatedAt)
	if err != nil {
		return customer.Customer{}, translate(op, err, storage.ErrConflict)
	}
	if err := affected(op, res); err != nil {
		return customer.Customer{}, err
	}
	return c, nil
}

func (s *Store) DeleteCustomer(ctx context.Context, id int64) error {
	op := fmt.Sprintf("delete customer %d", id)
	res, err := s.db.ExecContext(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return translate(op, err, storage.ErrReferenced)
	}
	return affected(op, res)
}

// --- ProductStore -----------------------------------------------------------

const productColumns = `id, description, color, dimensions, price, created_at, updated_at`

func (s *Store) CreateProduct(ctx context.Context, p product.Patch) (product.Product, error) {
	var prod product.Product
	p.Apply(&prod)
	prod.CreatedAt = s.now()
	prod.UpdatedAt = prod.CreatedAt

	err := s.db.QueryRowxContext(ctx, `
		INSERT INTO products (description, color, dimensions, price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, prod.Description, prod.Color, prod.Dimensions, prod.Price, prod.CreatedAt, prod.UpdatedAt).Scan(&prod.ID)
	if err != nil {
		return product.Product{}, translate("create product", err, storage.ErrConflict)
	}
	return prod, nil
}

func (s *Store) GetProduct(ctx context.Context, id int64) (product.Product, error) {
	var prod product.Product
	err := s.db.GetContext(ctx, &prod, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	if err != nil {
		return product.Product{}, translate(fmt.Sprintf("get product %d", id), err, storage.ErrConflict)
	}
	return prod, nil
}

func (s *Store) ListProducts(ctx context.Context) ([]product.Product, error) {
	result := []product.Product{}
	if err := s.db.SelectContext(ctx, &result, `SELECT `+productColumns+` FROM products ORDER BY id`); err != nil {
		return nil, translate("list products", err, storage.ErrConflict)
	}
	return result, nil
}

func (s *Store) UpdateProduct(ctx context.Context, id int64, p product.Patch) (product.Product, error) {
	prod, err := s.GetProduct(ctx, id)
	if err != nil {
		return product.Product{}, err
	}
	p.Apply(&prod)
	prod.UpdatedAt = s.now()

	op := fmt.Sprintf("update product %d", id)
	res, err := s.db.ExecContext(ctx, `
		UPDATE products
		SET description = $2, color = $3, dimensions = $4, price = $5, updated_at = $6
		WHERE id = $1
	`, id, prod.Description, prod.Color, prod.Dimensions, prod.Price, prod.UpdatedAt)
	if err != nil {
		return product.Product{}, translate(op, err, storage.ErrConflict)
	}
	if err := affected(op, res); err != nil {
		return product.Product{}, err
	}
	return prod, nil
}

func (s *Store) DeleteProduct(ctx context.Context, id int64) error {
	op := fmt.Sprintf("delete product %d", id)
	res, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return translate(op, err, storage.ErrReferenced)
	}
	return affected(op, res)
}

// --- OrderStore -------------------------------------------------------------

const orderColumns = `id, salesman, customer_id, date, status, product_id, total_price, commission, created_at, updated_at`

func (s *Store) CreateOrder(ctx context.Context, p order.Patch) (order.Order, error) {
	var o order.Order
	p.Apply(&o)
	o.CreatedAt = s.now()
	o.UpdatedAt = o.CreatedAt

	err := s.db.QueryRowxContext(ctx, `
		INSERT INTO orders (salesman, customer_id, date, status, product_id, total_price, commission, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`, o.Salesman, o.CustomerID, o.Date, o.Status, o.ProductID, o.TotalPrice, o.Commission, o.CreatedAt, o.UpdatedAt).Scan(&o.ID)
	if err != nil {
		return order.Order{}, translate("create order", err, storage.ErrConflict)
	}
	return o, nil
}

func (s *Store) GetOrder(ctx context.Context, id int64) (order.Order, error) {
	var o order.Order
	err := s.db.GetContext(ctx, &o, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	if err != nil {
		return order.Order{}, translate(fmt.Sprintf("get order %d", id), err, storage.ErrConflict)
	}
	return o, nil
}

func (s *Store) ListOrders(ctx context.Context) ([]order.Order, error) {
	result := []order.Order{}
	if err := s.db.SelectContext(ctx, &result, `SELECT `+orderColumns+` FROM orders ORDER BY id`); err != nil {
		return nil, translate("list orders", err, storage.ErrConflict)
	}
	return result, nil
}

func (s *Store) UpdateOrder(ctx context.Context, id int64, p order.Patch) (order.Order, error) {
	o, err := s.GetOrder(ctx, id)
	if err != nil {
		return order.Order{}, err
	}
	p.Apply(&o)
	o.UpdatedAt = s.now()

	op := fmt.Sprintf("update order %d", id)
	res, err := s.db.ExecContext(ctx, `
		UPDATE orders
		SET salesman = $2, customer_id = $3, date = $4, status = $5, product_id = $6,
		    total_price = $7, commission = $8, updated_at = $9
		WHERE id = $1
	`, id, o.Salesman, o.CustomerID, o.Date, o.Status, o.ProductID, o.TotalPrice, o.Commission, o.UpdatedAt)
	if err != nil {
		return order.Order{}, translate(op, err, storage.ErrConflict)
	}
	if err := affected(op, res); err != nil {
		return order.Order{}, err
	}
	return o, nil
}

func (s *Store) DeleteOrder(ctx context.Context, id int64) error {
	op := fmt.Sprintf("delete order %d", id)
	res, err := s.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return translate(op, err, storage.ErrReferenced)
	}
	return affected(op, res)
}

// --- IdentityStore ----------------------------------------------------------

const userColumns = `id, name, email, password_hash, created_at, updated_at`

func (s *Store) CreateUser(ctx context.Context, u identity.User) (identity.User, error) {
	u.CreatedAt = s.now()
	u.UpdatedAt = u.CreatedAt

	err := s.db.QueryRowxContext(ctx, `
		INSERT INTO users (name, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, u.Name, u.Email, u.PasswordHash, u.CreatedAt, u.UpdatedAt).Scan(&u.ID)
	if err != nil {
		return identity.User{}, translate("create user", err, storage.ErrConflict)
	}
	return u, nil
}

func (s *Store) GetUser(ctx context.Context, id int64) (identity.User, error) {
	var u identity.User
	err := s.db.GetContext(ctx, &u, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	if err != nil {
		return identity.User{}, translate(fmt.Sprintf("get user %d", id), err, storage.ErrConflict)
	}
	return u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (identity.User, error) {
	var u identity.User
	err := s.db.GetContext(ctx, &u, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email)
	if err != nil {
		return identity.User{}, translate("get user by email", err, storage.ErrConflict)
	}
	return u, nil
}

func (s *Store) EmailInUse(ctx context.Context, email string, exceptCustomerID int64) (bool, error) {
	var used bool
	err := s.db.GetContext(ctx, &used, `
		SELECT EXISTS (SELECT 1 FROM users WHERE lower(email) = lower($1))
		    OR EXISTS (SELECT 1 FROM customers WHERE lower(email) = lower($1) AND id <> $2)
	`, email, exceptCustomerID)
	if err != nil {
		return false, translate("email in use", err, storage.ErrConflict)
	}
	return used, nil
}
