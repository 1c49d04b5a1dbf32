package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"employeeManagement/internal/db"
	"employeeManagement/models"
	"employeeManagement/repository"
)

// Issuer is the iss claim written by GenerateJWTHS256.
const Issuer = "employee-management-test"

// OpenInMemoryDB opens an in-memory SQLite database and applies migrations.
// Caller is responsible for closing the DB, typically via t.Cleanup.
func OpenInMemoryDB(t *testing.T, name string) *sql.DB {
	t.Helper()
	// We use a shared cache memory database so that multiple connections share the same DB if needed.
	d, err := db.Open("file:" + name + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d
}

// GenerateJWTHS256 returns a signed session token with the claims the app issues.
func GenerateJWTHS256(t *testing.T, secret, name, kind string, employeeID int64) string {
	t.Helper()
	return sign(t, secret, jwt.MapClaims{
		"name": name,
		"kind": kind,
		"eid":  employeeID,
		"iss":  Issuer,
		"jti":  uuid.NewString(),
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
}

// GenerateExpiredJWT returns an otherwise valid token that expired a minute ago.
func GenerateExpiredJWT(t *testing.T, secret, name, kind string) string {
	t.Helper()
	return sign(t, secret, jwt.MapClaims{
		"name": name,
		"kind": kind,
		"iss":  Issuer,
		"jti":  uuid.NewString(),
		"exp":  time.Now().Add(-time.Minute).Unix(),
	})
}

func sign(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

// SeedUser creates an employee plus a login with the given role name and returns
// the employee id. Hashing uses bcrypt.MinCost to keep tests fast.
func SeedUser(t *testing.T, d *sql.DB, username, password, role string) int64 {
	t.Helper()
	ctx := context.Background()
	r, err := repository.NewLookupRepository(d).RoleByName(ctx, role)
	if err != nil || r == nil {
		t.Fatalf("resolve role %q: %v", role, err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	eid, err := repository.NewEmployeeRepository(d).Create(ctx, &models.Employee{
		FirstName: username, LastName: "Test", Email: username + "@example.com", RoleID: &r.ID,
	})
	if err != nil {
		t.Fatalf("seed employee: %v", err)
	}
	if _, err := repository.NewUserRepository(d).Create(ctx, &models.User{
		EmployeeID: eid, Username: username, PasswordHash: string(hash), RoleID: r.ID,
	}); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return eid
}
