package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"employeeManagement/internal/apperr"
	"employeeManagement/internal/auth"
	"employeeManagement/internal/config"
	"employeeManagement/internal/testutil"
)

var testAuthCfg = config.AuthConfig{
	JWTSecret:  "service-secret",
	JWTIssuer:  "ems-test",
	TokenTTL:   time.Hour,
	BcryptCost: 4,
}

type memRevoker struct {
	revoked map[string]time.Duration
	err     error
}

func (m *memRevoker) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if m.err != nil {
		return m.err
	}
	m.revoked[jti] = ttl
	return nil
}

func (m *memRevoker) IsRevoked(_ context.Context, jti string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	_, ok := m.revoked[jti]
	return ok, nil
}

func newService(t *testing.T, name string) (*AuthService, *sql.DB, *memRevoker) {
	t.Helper()
	d := testutil.OpenInMemoryDB(t, name)
	rev := &memRevoker{revoked: map[string]time.Duration{}}
	return NewAuthService(d, testAuthCfg, rev, nil), d, rev
}

func count(t *testing.T, d *sql.DB, table string) int {
	t.Helper()
	var n int
	if err := d.QueryRow(`SELECT COUNT(*) FROM ` + table).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}

func TestSignup_CreatesLinkedEmployeeAndUser(t *testing.T) {
	svc, d, _ := newService(t, "svc_signup")
	ctx := context.Background()

	s, err := svc.Signup(ctx, SignupInput{Username: "t1", Password: "abcdef", FirstName: "A", LastName: "B", Email: "a@b.com"}, nil)
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	p := s.Profile
	if p.Username != "t1" || p.RoleName != "Employee" || p.FirstName != "A" || p.LastName != "B" || p.Email != "a@b.com" || p.EmployeeID == 0 {
		t.Fatalf("unexpected profile: %+v", p)
	}

	var userEmployee int64
	var hash string
	if err := d.QueryRow(`SELECT employee_id, password_hash FROM users WHERE username = 't1'`).Scan(&userEmployee, &hash); err != nil {
		t.Fatalf("load user: %v", err)
	}
	if userEmployee != p.EmployeeID || hash == "abcdef" || !auth.VerifyPassword(hash, "abcdef") {
		t.Fatalf("user row not linked or password stored in clear")
	}
	var hireDate string
	if err := d.QueryRow(`SELECT hire_date FROM employees WHERE employee_id = ?`, p.EmployeeID).Scan(&hireDate); err != nil || hireDate == "" {
		t.Fatalf("employee row missing hire_date: %q %v", hireDate, err)
	}
	if count(t, d, "employees") != 1 || count(t, d, "users") != 1 {
		t.Fatalf("expected exactly one employee and one user")
	}

	pr, err := auth.ParseToken(testAuthCfg.JWTSecret, testAuthCfg.JWTIssuer, s.Token)
	if err != nil || pr.Kind != "employee" || pr.EmployeeID != p.EmployeeID {
		t.Fatalf("session token: %v %+v", err, pr)
	}
}

func TestSignup_DuplicateUsernameConflicts(t *testing.T) {
	svc, d, _ := newService(t, "svc_dup")
	ctx := context.Background()
	in := SignupInput{Username: "t1", Password: "abcdef", FirstName: "A", LastName: "B", Email: "a@b.com"}
	if _, err := svc.Signup(ctx, in, nil); err != nil {
		t.Fatalf("first signup: %v", err)
	}
	_, err := svc.Signup(ctx, in, nil)
	if apperr.KindOf(err) != apperr.KindConflict || apperr.Message(err) != "Username already exists" {
		t.Fatalf("expected conflict, got %v", err)
	}
	if count(t, d, "employees") != 1 || count(t, d, "users") != 1 {
		t.Fatalf("duplicate signup left rows behind")
	}
}

func TestSignup_Validation(t *testing.T) {
	svc, d, _ := newService(t, "svc_validation")
	ctx := context.Background()
	cases := []struct {
		in   SignupInput
		want string
	}{
		{SignupInput{Username: "t1", Password: "abcdef", FirstName: "A", LastName: "B"}, "All fields are required"},
		{SignupInput{Username: "  ", Password: "abcdef", FirstName: "A", LastName: "B", Email: "a@b.com"}, "All fields are required"},
		{SignupInput{Username: "t1", Password: "abc", FirstName: "A", LastName: "B", Email: "a@b.com"}, "Password must be at least 6 characters"},
		{SignupInput{Username: "t1", Password: "abcdef", FirstName: "A", LastName: "B", Email: "not-an-email"}, "Invalid email address"},
	}
	for _, c := range cases {
		_, err := svc.Signup(ctx, c.in, nil)
		if apperr.KindOf(err) != apperr.KindValidation || apperr.Message(err) != c.want {
			t.Fatalf("signup %+v: got %v, want %q", c.in, err, c.want)
		}
	}
	if count(t, d, "users") != 0 {
		t.Fatalf("invalid signups created users")
	}
}

func TestSignup_RoleAssignment(t *testing.T) {
	svc, d, _ := newService(t, "svc_roles")
	ctx := context.Background()

	s, err := svc.Signup(ctx, SignupInput{Username: "u1", Password: "abcdef", FirstName: "A", LastName: "B", Email: "u1@b.com", RoleName: "Wizard"}, nil)
	if err != nil || s.Profile.RoleName != "Employee" {
		t.Fatalf("unknown role should fall back to Employee: %v %+v", err, s)
	}

	_, err = svc.Signup(ctx, SignupInput{Username: "u2", Password: "abcdef", FirstName: "A", LastName: "B", Email: "u2@b.com", RoleName: "Admin"}, nil)
	if apperr.KindOf(err) != apperr.KindForbidden {
		t.Fatalf("anonymous Admin signup must be forbidden, got %v", err)
	}
	_, err = svc.Signup(ctx, SignupInput{Username: "u2", Password: "abcdef", FirstName: "A", LastName: "B", Email: "u2@b.com", RoleName: "admin"}, nil)
	if apperr.KindOf(err) != apperr.KindForbidden {
		t.Fatalf("role names match regardless of case, got %v", err)
	}
	manager := &auth.Principal{Name: "boss", Kind: "manager"}
	_, err = svc.Signup(ctx, SignupInput{Username: "u3", Password: "abcdef", FirstName: "A", LastName: "B", Email: "u3@b.com", RoleName: "Manager"}, manager)
	if apperr.KindOf(err) != apperr.KindForbidden {
		t.Fatalf("manager must not hand out Manager, got %v", err)
	}
	if count(t, d, "users") != 1 {
		t.Fatalf("forbidden signups created users")
	}

	admin := &auth.Principal{Name: "root", Kind: "admin"}
	s, err = svc.Signup(ctx, SignupInput{Username: "u4", Password: "abcdef", FirstName: "A", LastName: "B", Email: "u4@b.com", RoleName: "Manager"}, admin)
	if err != nil || s.Profile.RoleName != "Manager" {
		t.Fatalf("admin-created manager: %v %+v", err, s)
	}
}

func TestSignup_RollsBackOnFailure(t *testing.T) {
	svc, d, _ := newService(t, "svc_rollback")
	if _, err := d.Exec(`CREATE TRIGGER fail_user_insert BEFORE INSERT ON users BEGIN SELECT RAISE(ABORT, 'boom'); END`); err != nil {
		t.Fatalf("create trigger: %v", err)
	}
	_, err := svc.Signup(context.Background(), SignupInput{Username: "t1", Password: "abcdef", FirstName: "A", LastName: "B", Email: "a@b.com"}, nil)
	if apperr.KindOf(err) != apperr.KindStore || apperr.Message(err) != "Server error during signup" {
		t.Fatalf("expected store error, got %v", err)
	}
	if count(t, d, "employees") != 0 {
		t.Fatalf("employee row left behind after failed signup")
	}
}

func TestLogin(t *testing.T) {
	svc, d, _ := newService(t, "svc_login")
	ctx := context.Background()
	eid := testutil.SeedUser(t, d, "alice", "s3cret!", "Manager")

	s, err := svc.Login(ctx, "alice", "s3cret!")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if s.Profile.EmployeeID != eid || s.Profile.RoleName != "Manager" || s.Token == "" {
		t.Fatalf("unexpected session: %+v", s)
	}
	var lastLogin sql.NullString
	if err := d.QueryRow(`SELECT last_login FROM users WHERE username = 'alice'`).Scan(&lastLogin); err != nil || !lastLogin.Valid {
		t.Fatalf("last_login not updated: %v %+v", err, lastLogin)
	}

	_, wrongPw := svc.Login(ctx, "alice", "wrong")
	_, unknown := svc.Login(ctx, "mallory", "wrong")
	for _, err := range []error{wrongPw, unknown} {
		if apperr.KindOf(err) != apperr.KindAuth || apperr.Message(err) != "Invalid username or password" {
			t.Fatalf("expected generic auth error, got %v", err)
		}
	}

	_, err = svc.Login(ctx, "", "x")
	if apperr.KindOf(err) != apperr.KindValidation || apperr.Message(err) != "Username and password are required" {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestLogin_UnknownUserStillComparesHash(t *testing.T) {
	svc, d, _ := newService(t, "svc_login_timing")
	testutil.SeedUser(t, d, "alice", "s3cret!", "Employee")

	var hashes []string
	orig := verifyPassword
	verifyPassword = func(hash, plain string) bool {
		hashes = append(hashes, hash)
		return orig(hash, plain)
	}
	t.Cleanup(func() { verifyPassword = orig })

	ctx := context.Background()
	if _, err := svc.Login(ctx, "mallory", "s3cret!"); apperr.KindOf(err) != apperr.KindAuth {
		t.Fatalf("unknown user: %v", err)
	}
	if _, err := svc.Login(ctx, "alice", "wrong"); apperr.KindOf(err) != apperr.KindAuth {
		t.Fatalf("wrong password: %v", err)
	}
	if len(hashes) != 2 || hashes[0] != svc.dummyHash || hashes[0] == hashes[1] {
		t.Fatalf("each failed login must run exactly one bcrypt compare, got %d", len(hashes))
	}
	if cost, err := bcrypt.Cost([]byte(svc.dummyHash)); err != nil || cost != testAuthCfg.BcryptCost {
		t.Fatalf("dummy hash cost = %d (%v), want %d", cost, err, testAuthCfg.BcryptCost)
	}
}

func TestAuthenticateAndLogout(t *testing.T) {
	svc, d, rev := newService(t, "svc_logout")
	ctx := context.Background()
	testutil.SeedUser(t, d, "bob", "abcdef", "Employee")

	s, err := svc.Login(ctx, "bob", "abcdef")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	p, err := svc.Authenticate(ctx, s.Token)
	if err != nil || p.Name != "bob" {
		t.Fatalf("authenticate: %v %+v", err, p)
	}
	me, err := svc.Me(ctx, p)
	if err != nil || me.Username != "bob" {
		t.Fatalf("me: %v %+v", err, me)
	}

	if err := svc.Logout(ctx, p); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if ttl := rev.revoked[p.TokenID]; ttl <= 0 || ttl > time.Hour {
		t.Fatalf("revocation ttl = %v", ttl)
	}
	if _, err := svc.Authenticate(ctx, s.Token); apperr.KindOf(err) != apperr.KindAuth {
		t.Fatalf("revoked token accepted: %v", err)
	}

	if _, err := svc.Authenticate(ctx, "garbage"); apperr.KindOf(err) != apperr.KindAuth {
		t.Fatalf("garbage token accepted: %v", err)
	}

	rev.err = errors.New("redis down")
	s2, _ := svc.Login(ctx, "bob", "abcdef")
	if _, err := svc.Authenticate(ctx, s2.Token); apperr.KindOf(err) != apperr.KindUnavailable {
		t.Fatalf("expected unavailable when revocation store fails, got %v", err)
	}
}

func TestEnsureAdmin(t *testing.T) {
	svc, d, _ := newService(t, "svc_admin")
	ctx := context.Background()

	if err := svc.EnsureAdmin(ctx, "", ""); err != nil {
		t.Fatalf("empty credentials should be a no-op: %v", err)
	}
	if err := svc.EnsureAdmin(ctx, "admin", "changeme"); err != nil {
		t.Fatalf("ensure admin: %v", err)
	}
	if err := svc.EnsureAdmin(ctx, "admin", "changeme"); err != nil {
		t.Fatalf("ensure admin is idempotent: %v", err)
	}
	if count(t, d, "users") != 1 {
		t.Fatalf("expected one admin user")
	}
	s, err := svc.Login(ctx, "admin", "changeme")
	if err != nil || s.Profile.RoleName != "Admin" {
		t.Fatalf("admin login: %v %+v", err, s)
	}
}
