// Package service holds the workflows that span more than one repository call.
package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"employeeManagement/internal/apperr"
	"employeeManagement/internal/auth"
	"employeeManagement/internal/config"
	"employeeManagement/internal/db"
	"employeeManagement/internal/session"
	"employeeManagement/models"
	"employeeManagement/repository"
)

const (
	minPasswordLen = 6
	maxPasswordLen = 72 // bcrypt ignores anything past 72 bytes
)

// verifyPassword is replaced in tests.
var verifyPassword = auth.VerifyPassword

// SignupInput is the payload accepted by Signup. RoleName is optional and
// defaults to Employee.
type SignupInput struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	RoleName  string `json:"role_name"`
}

// Session is what a successful signup or login hands back to the client.
type Session struct {
	Profile   models.Profile
	Token     string
	ExpiresAt time.Time
}

// AuthService implements signup, login, logout and token verification.
type AuthService struct {
	db      *sql.DB
	users   repository.UserRepositoryI
	lookup  repository.LookupRepositoryI
	revoker session.Revoker
	cfg     config.AuthConfig
	logger  *zap.Logger

	// dummyHash is compared against when the username is unknown, so both login
	// failures cost one bcrypt compare at the configured cost.
	dummyHash string
}

func NewAuthService(d *sql.DB, cfg config.AuthConfig, revoker session.Revoker, logger *zap.Logger) *AuthService {
	if revoker == nil {
		revoker = session.Nop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	dummy, err := auth.HashPassword(uuid.NewString(), cfg.BcryptCost)
	if err != nil {
		logger.Warn("build dummy password hash", zap.Error(err))
	}
	return &AuthService{
		db:      d,
		users:   repository.NewUserRepository(d),
		lookup:  repository.NewLookupRepository(d),
		revoker: revoker,
		cfg:     cfg,
		logger:  logger.Named("auth"),

		dummyHash: dummy,
	}
}

// Signup creates an Employee and its User in one transaction and returns a session
// for the new account. Unknown role names fall back to Employee; the Admin and
// Manager roles can only be handed out by an authenticated Admin caller.
func (s *AuthService) Signup(ctx context.Context, in SignupInput, caller *auth.Principal) (*Session, error) {
	return s.signup(ctx, in, caller != nil && caller.Kind == strings.ToLower(models.RoleAdmin))
}

func (s *AuthService) signup(ctx context.Context, in SignupInput, privileged bool) (*Session, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.TrimSpace(in.Email)
	in.RoleName = strings.TrimSpace(in.RoleName)

	if in.Username == "" || in.Password == "" || in.FirstName == "" || in.LastName == "" || in.Email == "" {
		return nil, apperr.Validation("All fields are required")
	}
	if len(in.Password) < minPasswordLen {
		return nil, apperr.Validation(fmt.Sprintf("Password must be at least %d characters", minPasswordLen))
	}
	if len(in.Password) > maxPasswordLen {
		return nil, apperr.Validation(fmt.Sprintf("Password must be at most %d bytes", maxPasswordLen))
	}
	if addr, err := mail.ParseAddress(in.Email); err != nil || addr.Address != in.Email {
		return nil, apperr.Validation("Invalid email address")
	}

	exists, err := s.users.Exists(ctx, in.Username)
	if err != nil {
		return nil, s.signupFailed(in.Username, err)
	}
	if exists {
		return nil, apperr.Conflict("Username already exists")
	}

	role, err := s.resolveRole(ctx, in.RoleName)
	if err != nil {
		return nil, s.signupFailed(in.Username, err)
	}
	if !privileged && (role.Name == models.RoleAdmin || role.Name == models.RoleManager) {
		return nil, apperr.Forbidden("Only an Admin can assign the " + role.Name + " role")
	}

	hash, err := auth.HashPassword(in.Password, s.cfg.BcryptCost)
	if err != nil {
		return nil, s.signupFailed(in.Username, err)
	}

	var employeeID int64
	err = repository.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		id, err := repository.NewEmployeeRepository(tx).Create(ctx, &models.Employee{
			FirstName: in.FirstName,
			LastName:  in.LastName,
			Email:     in.Email,
			RoleID:    &role.ID,
			HireDate:  repository.Today(),
		})
		if err != nil {
			return fmt.Errorf("insert employee: %w", err)
		}
		employeeID = id
		_, err = repository.NewUserRepository(tx).Create(ctx, &models.User{
			EmployeeID:   employeeID,
			Username:     in.Username,
			PasswordHash: hash,
			RoleID:       role.ID,
		})
		if err != nil {
			return fmt.Errorf("insert user: %w", err)
		}
		return nil
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			// Lost a race with a concurrent signup for the same username.
			return nil, apperr.Conflict("Username already exists")
		}
		return nil, s.signupFailed(in.Username, err)
	}

	u := &models.User{
		EmployeeID: employeeID,
		Username:   in.Username,
		RoleID:     role.ID,
		RoleName:   role.Name,
		FirstName:  in.FirstName,
		LastName:   in.LastName,
		Email:      in.Email,
	}
	s.logger.Info("user registered", zap.String("username", u.Username), zap.String("role", u.RoleName), zap.Int64("employee_id", employeeID))
	return s.newSession(u)
}

func (s *AuthService) signupFailed(username string, err error) error {
	s.logger.Error("signup failed", zap.String("username", username), zap.Error(err))
	return apperr.Store("Server error during signup", err)
}

// resolveRole maps a role name to its row, falling back to Employee when the name
// is empty or unknown.
func (s *AuthService) resolveRole(ctx context.Context, name string) (*models.Role, error) {
	if name != "" {
		r, err := s.lookup.RoleByName(ctx, name)
		if err != nil {
			return nil, err
		}
		if r != nil {
			return r, nil
		}
	}
	r, err := s.lookup.RoleByName(ctx, models.RoleEmployee)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, errors.New("default role Employee is not seeded")
	}
	return r, nil
}

// Login verifies credentials. Unknown users and wrong passwords produce the same error.
func (s *AuthService) Login(ctx context.Context, username, password string) (*Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, apperr.Validation("Username and password are required")
	}

	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		s.logger.Error("login lookup failed", zap.String("username", username), zap.Error(err))
		return nil, apperr.Store("Server error during login", err)
	}
	hash := s.dummyHash
	if u != nil {
		hash = u.PasswordHash
	}
	if !verifyPassword(hash, password) || u == nil {
		s.logger.Info("login rejected", zap.String("username", username))
		return nil, apperr.Auth("Invalid username or password")
	}

	if err := s.users.UpdateLastLogin(ctx, u.ID); err != nil {
		s.logger.Warn("update last_login failed", zap.Int64("user_id", u.ID), zap.Error(err))
	}
	return s.newSession(u)
}

func (s *AuthService) newSession(u *models.User) (*Session, error) {
	tok, err := auth.IssueToken(s.cfg.JWTSecret, s.cfg.JWTIssuer, s.cfg.TokenTTL, auth.Principal{
		Name:       u.Username,
		Kind:       u.RoleName,
		EmployeeID: u.EmployeeID,
	})
	if err != nil {
		s.logger.Error("issue token failed", zap.String("username", u.Username), zap.Error(err))
		return nil, apperr.Store("Server error", err)
	}
	return &Session{Profile: u.Profile(), Token: tok, ExpiresAt: time.Now().Add(s.cfg.TokenTTL)}, nil
}

// Authenticate verifies a bearer token and rejects revoked sessions. A failing
// revocation store rejects the request rather than letting a revoked token through.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*auth.Principal, error) {
	p, err := auth.ParseToken(s.cfg.JWTSecret, s.cfg.JWTIssuer, token)
	if err != nil {
		return nil, apperr.Auth("Invalid or expired token")
	}
	revoked, err := s.revoker.IsRevoked(ctx, p.TokenID)
	if err != nil {
		s.logger.Error("revocation check failed", zap.Error(err))
		return nil, &apperr.Error{Kind: apperr.KindUnavailable, Msg: "Session store unavailable", Err: err}
	}
	if revoked {
		return nil, apperr.Auth("Session has been logged out")
	}
	return p, nil
}

// Logout revokes the caller's token for the rest of its lifetime.
func (s *AuthService) Logout(ctx context.Context, p *auth.Principal) error {
	if err := s.revoker.Revoke(ctx, p.TokenID, time.Until(p.ExpiresAt)); err != nil {
		s.logger.Error("revoke token failed", zap.String("username", p.Name), zap.Error(err))
		return &apperr.Error{Kind: apperr.KindUnavailable, Msg: "Session store unavailable", Err: err}
	}
	return nil
}

// Me returns the current profile of the authenticated caller.
func (s *AuthService) Me(ctx context.Context, p *auth.Principal) (*models.Profile, error) {
	u, err := s.users.GetByUsername(ctx, p.Name)
	if err != nil {
		return nil, apperr.Store("Database error", err)
	}
	if u == nil {
		return nil, apperr.Auth("Authentication required")
	}
	prof := u.Profile()
	return &prof, nil
}

// EnsureAdmin creates the bootstrap Admin account if it does not exist yet. It is a
// no-op when either credential is empty.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return nil
	}
	exists, err := s.users.Exists(ctx, username)
	if err != nil {
		return fmt.Errorf("check admin %s: %w", username, err)
	}
	if exists {
		return nil
	}
	_, err = s.signup(ctx, SignupInput{
		Username:  username,
		Password:  password,
		FirstName: "System",
		LastName:  "Administrator",
		Email:     username + "@localhost",
		RoleName:  models.RoleAdmin,
	}, true)
	if err != nil && apperr.KindOf(err) != apperr.KindConflict {
		return fmt.Errorf("create admin %s: %w", username, err)
	}
	s.logger.Info("bootstrap admin ready", zap.String("username", username))
	return nil
}
