package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"foodorder/internal/model"
)

const uniqueViolation = "23505"

type claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Local is a self-hosted provider: bcrypt password hashes in the accounts
// table and HS256 tokens carrying the account id as subject.
type Local struct {
	db     *sql.DB
	secret []byte
	ttl    time.Duration
	cost   int
	now    func() time.Time
}

func NewLocal(db *sql.DB, secret string, ttl time.Duration) *Local {
	return &Local{
		db:     db,
		secret: []byte(secret),
		ttl:    ttl,
		cost:   bcrypt.DefaultCost,
		now:    time.Now,
	}
}

func (p *Local) SignUp(ctx context.Context, email, password, _ string) (*Session, error) {
	email = normalizeEmail(email)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	var id string
	err = p.db.QueryRowContext(ctx,
		`INSERT INTO accounts (email, password_hash) VALUES ($1, $2) RETURNING id`,
		email, hash,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, &RejectionError{Reason: "User already registered"}
		}
		return nil, fmt.Errorf("insert account: %w", err)
	}

	return p.issue(model.Identity{ID: id, Email: email})
}

func (p *Local) SignIn(ctx context.Context, email, password string) (*Session, error) {
	email = normalizeEmail(email)

	var (
		ident model.Identity
		hash  []byte
	)
	err := p.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash FROM accounts WHERE email = $1`,
		email,
	).Scan(&ident.ID, &ident.Email, &hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get account: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return p.issue(ident)
}

func (p *Local) Validate(_ context.Context, tokenString string) (*model.Identity, error) {
	var c claims
	token, err := jwt.ParseWithClaims(tokenString, &c, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return p.secret, nil
	}, jwt.WithTimeFunc(p.now))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	if c.Subject == "" {
		return nil, ErrInvalidToken
	}

	return &model.Identity{ID: c.Subject, Email: c.Email}, nil
}

func (p *Local) issue(ident model.Identity) (*Session, error) {
	now := p.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Email: ident.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   ident.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(p.ttl)),
		},
	})

	signed, err := token.SignedString(p.secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &Session{Token: signed, Identity: ident}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
