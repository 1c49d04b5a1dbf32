package auth

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Principal represents the authenticated caller from a session token.
type Principal struct {
	Name       string // username
	Kind       string // lower-cased role name: "admin" | "manager" | "employee"
	EmployeeID int64
	TokenID    string // jti, used for revocation
	ExpiresAt  time.Time
}

type principalKey struct{}

// WithPrincipal stores the principal in context.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext retrieves the principal from context (if any).
func FromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*Principal)
	return p, ok
}

type claims struct {
	Name       string `json:"name"`
	Kind       string `json:"kind"`
	EmployeeID int64  `json:"eid"`
	jwt.RegisteredClaims
}

// IssueToken signs an HS256 session token for p valid for ttl. A fresh jti is
// always generated; p.TokenID and p.ExpiresAt are ignored.
func IssueToken(secret, issuer string, ttl time.Duration, p Principal) (string, error) {
	if secret == "" {
		return "", errors.New("jwt secret is empty")
	}
	if p.Name == "" || p.Kind == "" {
		return "", errors.New("principal needs a name and kind")
	}
	now := time.Now()
	c := claims{
		Name:       p.Name,
		Kind:       strings.ToLower(p.Kind),
		EmployeeID: p.EmployeeID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(p.EmployeeID, 10),
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(secret))
}

// ParseBearer extracts the token from an Authorization header value.
func ParseBearer(header string) (string, error) {
	if header == "" {
		return "", errors.New("missing authorization")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid authorization header")
	}
	tok := strings.TrimSpace(parts[1])
	if tok == "" {
		return "", errors.New("invalid authorization header")
	}
	return tok, nil
}

// ParseToken validates signature, algorithm, expiry and issuer (when issuer is
// non-empty) and returns the Principal carried by the token.
func ParseToken(secret, issuer, tokenStr string) (*Principal, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is empty")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	tok, err := jwt.ParseWithClaims(tokenStr, &claims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, opts...)
	if err != nil || !tok.Valid {
		if err == nil {
			err = errors.New("invalid token")
		}
		return nil, err
	}
	c, _ := tok.Claims.(*claims)
	if c == nil || c.Name == "" || c.Kind == "" || c.ID == "" || c.ExpiresAt == nil {
		return nil, errors.New("invalid claims")
	}
	return &Principal{
		Name:       c.Name,
		Kind:       strings.ToLower(c.Kind),
		EmployeeID: c.EmployeeID,
		TokenID:    c.ID,
		ExpiresAt:  c.ExpiresAt.Time,
	}, nil
}
