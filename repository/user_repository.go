package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"employeeManagement/models"
)

type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a login for an existing employee and returns the new user id.
// A duplicate username surfaces as the driver's unique-constraint error.
func (r *UserRepository) Create(ctx context.Context, u *models.User) (int64, error) {
	if u == nil {
		return 0, errors.New("user is nil")
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `INSERT INTO users (employee_id, username, password_hash, role_id, created_at) VALUES (?,?,?,?,?)`,
		u.EmployeeID, u.Username, u.PasswordHash, u.RoleID, now())
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetByUsername returns the user joined with its employee and role, or (nil, nil)
// when no such username exists.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var u models.User
	err := r.db.QueryRowContext(ctx, `
SELECT u.user_id, u.employee_id, u.username, u.password_hash, u.role_id, r.name,
       e.first_name, e.last_name, e.email, u.last_login, u.created_at
FROM users u
JOIN employees e ON e.employee_id = u.employee_id
JOIN roles r ON r.role_id = u.role_id
WHERE u.username = ?`, username).
		Scan(&u.ID, &u.EmployeeID, &u.Username, &u.PasswordHash, &u.RoleID, &u.RoleName,
			&u.FirstName, &u.LastName, &u.Email, &u.LastLogin, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Exists(ctx context.Context, username string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM users WHERE username = ?`, username).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// UpdateLastLogin stamps last_login with the current time.
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `UPDATE users SET last_login = ? WHERE user_id = ?`, now(), id)
	if err != nil {
		return err
	}
	return rowsAffectedOrNotFound(res)
}
