// Package auth registers API users and issues the HS256 bearer tokens that
// guard the entity routes.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/conecteai/sales_layer/internal/app/domain/identity"
	"github.com/conecteai/sales_layer/internal/app/storage"
	"github.com/conecteai/sales_layer/internal/app/validation"
	apperrors "github.com/conecteai/sales_layer/internal/errors"
	"github.com/conecteai/sales_layer/pkg/logger"
)

// Claims are the JWT claims carried by access tokens.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Token is the login response body.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// Manager owns user registration, credential checks and token handling.
type Manager struct {
	users  storage.IdentityStore
	secret []byte
	issuer string
	ttl    time.Duration
	cost   int
	now    func() time.Time
	log    *logger.Logger
}

// Option customises a Manager.
type Option func(*Manager)

// WithClock overrides the time source used for token timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithHashCost sets the bcrypt cost.
func WithHashCost(cost int) Option {
	return func(m *Manager) { m.cost = cost }
}

// NewManager constructs a Manager signing tokens with secret.
func NewManager(users storage.IdentityStore, secret, issuer string, ttl time.Duration, log *logger.Logger, opts ...Option) *Manager {
	if log == nil {
		log = logger.NewDefault("auth")
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	m := &Manager{
		users:  users,
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		cost:   bcrypt.DefaultCost,
		now:    func() time.Time { return time.Now().UTC() },
		log:    log,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// RegisterRules validates registration payloads.
func RegisterRules(taken validation.TakenFunc) validation.RuleSet {
	return validation.NewRuleSet("user", validation.Create,
		validation.Field("name", validation.String(), validation.MaxLength(100)),
		validation.Field("email", validation.Email(), validation.Unique(taken)),
		validation.Field("password", validation.String(), validation.MinLength(6)),
	)
}

// LoginRules validates login payloads.
var LoginRules = validation.NewRuleSet("login", validation.Create,
	validation.Field("email", validation.Email()),
	validation.Field("password", validation.String()),
)

// Register validates in and stores a new user with a bcrypt password hash.
func (m *Manager) Register(ctx context.Context, in validation.Input) (identity.User, error) {
	taken := func(ctx context.Context, email string) (bool, error) {
		return m.users.EmailInUse(ctx, email, 0)
	}
	rules := RegisterRules(taken)
	if err := checkRules(ctx, rules, in); err != nil {
		return identity.User{}, err
	}

	name, _ := in.String("name")
	email, _ := in.String("email")
	password, _ := in["password"].(string)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), m.cost)
	if err != nil {
		return identity.User{}, apperrors.Internal("hash password", err)
	}

	user, err := m.users.CreateUser(ctx, identity.User{Name: name, Email: email, PasswordHash: string(hash)})
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			var v validation.Violations
			v.Add("email", "The email has already been taken.")
			return identity.User{}, apperrors.Validation(&validation.Error{RuleSet: rules.Name, Violations: v})
		}
		return identity.User{}, apperrors.Storage("create user", err)
	}

	m.log.ForContext(ctx).WithField("user_id", user.ID).Info("user registered")
	return user, nil
}

// Login checks the credentials in in and issues a token.
func (m *Manager) Login(ctx context.Context, in validation.Input) (Token, error) {
	if err := checkRules(ctx, LoginRules, in); err != nil {
		return Token{}, err
	}
	email, _ := in.String("email")
	password, _ := in["password"].(string)

	user, err := m.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			m.log.ForContext(ctx).WithField("email", email).Warn("login for unknown email")
			return Token{}, apperrors.Unauthorized("invalid credentials")
		}
		return Token{}, apperrors.Storage("find user", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		m.log.ForContext(ctx).WithField("user_id", user.ID).Warn("login with wrong password")
		return Token{}, apperrors.Unauthorized("invalid credentials")
	}

	return m.Issue(user)
}

// Issue signs an access token for u.
func (m *Manager) Issue(u identity.User) (Token, error) {
	now := m.now()
	claims := Claims{
		UserID: strconv.FormatInt(u.ID, 10),
		Email:  u.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   strconv.FormatInt(u.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return Token{}, apperrors.Internal("sign token", err)
	}
	return Token{AccessToken: signed, TokenType: "bearer", ExpiresIn: int64(m.ttl.Seconds())}, nil
}

// Validate parses and verifies a bearer token.
func (m *Manager) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(strings.TrimSpace(tokenString), &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now), jwt.WithIssuer(m.issuer))
	if err != nil {
		return nil, apperrors.InvalidToken(err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, apperrors.InvalidToken(nil).WithDetails("reason", "invalid claims")
	}
	return claims, nil
}

// Me returns the user named by a validated token subject.
func (m *Manager) Me(ctx context.Context, userID string) (identity.User, error) {
	id, err := strconv.ParseInt(userID, 10, 64)
	if err != nil {
		return identity.User{}, apperrors.Unauthorized("invalid token subject")
	}
	user, err := m.users.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return identity.User{}, apperrors.Unauthorized("user no longer exists")
		}
		return identity.User{}, apperrors.Storage("find user", err)
	}
	return user, nil
}

func checkRules(ctx context.Context, rules validation.RuleSet, in validation.Input) error {
	err := rules.Check(ctx, in)
	var verr *validation.Error
	switch {
	case err == nil:
		return nil
	case errors.As(err, &verr):
		return apperrors.Validation(verr)
	default:
		return apperrors.Storage("validate "+rules.Name, err)
	}
}
