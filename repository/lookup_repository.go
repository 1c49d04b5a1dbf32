package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"employeeManagement/models"
)

// LookupRepository reads the seeded reference tables (roles, departments, leave types).
type LookupRepository struct {
	db DBTX
}

func NewLookupRepository(db DBTX) *LookupRepository {
	return &LookupRepository{db: db}
}

func (r *LookupRepository) Roles(ctx context.Context) ([]models.Role, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `SELECT role_id, name, description FROM roles ORDER BY role_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []models.Role{}
	for rows.Next() {
		var x models.Role
		if err := rows.Scan(&x.ID, &x.Name, &x.Description); err != nil {
			return nil, err
		}
		out = append(out, x)
	}
	return out, rows.Err()
}

// RoleByName resolves a role name to its row, ignoring case, or (nil, nil) if unknown.
func (r *LookupRepository) RoleByName(ctx context.Context, name string) (*models.Role, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var x models.Role
	err := r.db.QueryRowContext(ctx, `SELECT role_id, name, description FROM roles WHERE LOWER(name) = LOWER(?)`, strings.TrimSpace(name)).
		Scan(&x.ID, &x.Name, &x.Description)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &x, nil
}

func (r *LookupRepository) Departments(ctx context.Context) ([]models.Department, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `SELECT department_id, name, description FROM departments ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []models.Department{}
	for rows.Next() {
		var x models.Department
		if err := rows.Scan(&x.ID, &x.Name, &x.Description); err != nil {
			return nil, err
		}
		out = append(out, x)
	}
	return out, rows.Err()
}

func (r *LookupRepository) LeaveTypes(ctx context.Context) ([]models.LeaveType, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `SELECT leave_type_id, name, description, max_days FROM leave_types ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []models.LeaveType{}
	for rows.Next() {
		var x models.LeaveType
		if err := rows.Scan(&x.ID, &x.Name, &x.Description, &x.MaxDays); err != nil {
			return nil, err
		}
		out = append(out, x)
	}
	return out, rows.Err()
}
