package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"employeeManagement/models"
)

const employeeColumns = `e.employee_id, e.first_name, e.last_name, e.email, e.phone, e.date_of_birth, e.gender,
       e.marital_status, e.address, e.city, e.state, e.pincode, e.aadhaar_number, e.pan_number,
       e.emergency_contact_name, e.emergency_contact_phone, e.department_id, e.role_id, e.hire_date,
       e.termination_date, e.is_active, e.created_at, d.name, r.name`

const employeeFrom = `
FROM employees e
LEFT JOIN departments d ON d.department_id = e.department_id
LEFT JOIN roles r ON r.role_id = e.role_id`

// EmployeeRepository handles the employees table. Reads only ever see active rows.
type EmployeeRepository struct {
	db DBTX
}

// NewEmployeeRepository creates a new EmployeeRepository.
func NewEmployeeRepository(db DBTX) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

// ListEmployeesParams filters and paginates List. A zero PageSize returns every match.
type ListEmployeesParams struct {
	DepartmentID *int64
	PageSize     int
	AfterID      int64 // keyset cursor: last employee_id of the previous page
}

// Create inserts e and returns its id. HireDate defaults to today, IsActive is forced on.
func (r *EmployeeRepository) Create(ctx context.Context, e *models.Employee) (int64, error) {
	if e == nil {
		return 0, errors.New("employee is nil")
	}
	if e.HireDate == "" {
		e.HireDate = Today()
	}
	e.IsActive = true
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
INSERT INTO employees (first_name, last_name, email, phone, date_of_birth, gender, marital_status,
    address, city, state, pincode, aadhaar_number, pan_number, emergency_contact_name,
    emergency_contact_phone, department_id, role_id, hire_date, is_active, created_at)
VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		e.FirstName, e.LastName, e.Email, e.Phone, e.DateOfBirth, e.Gender, e.MaritalStatus,
		e.Address, e.City, e.State, e.Pincode, e.AadhaarNumber, e.PANNumber, e.EmergencyContactName,
		e.EmergencyContactPhone, e.DepartmentID, e.RoleID, e.HireDate, e.IsActive, now())
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetByID fetches an active employee, or (nil, nil) when it does not exist or was deleted.
func (r *EmployeeRepository) GetByID(ctx context.Context, id int64) (*models.Employee, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	row := r.db.QueryRowContext(ctx, `SELECT `+employeeColumns+employeeFrom+`
WHERE e.employee_id = ? AND e.is_active = 1`, id)
	e, err := scanEmployee(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return e, nil
}

// List returns active employees ordered by id.
func (r *EmployeeRepository) List(ctx context.Context, p ListEmployeesParams) ([]models.Employee, error) {
	if p.PageSize > 100 {
		p.PageSize = 100
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	where := []string{"e.is_active = 1"}
	var args []any
	if p.DepartmentID != nil {
		where = append(where, "e.department_id = ?")
		args = append(args, *p.DepartmentID)
	}
	if p.AfterID > 0 {
		where = append(where, "e.employee_id > ?")
		args = append(args, p.AfterID)
	}
	query := `SELECT ` + employeeColumns + employeeFrom + ` WHERE ` + strings.Join(where, " AND ") + ` ORDER BY e.employee_id`
	if p.PageSize > 0 {
		query += " LIMIT ?"
		args = append(args, p.PageSize)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Employee{}
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update overwrites every mutable column of e, including termination_date and
// is_active. An empty HireDate keeps the stored hire date. Returns sql.ErrNoRows if
// the employee does not exist.
func (r *EmployeeRepository) Update(ctx context.Context, e *models.Employee) error {
	if e == nil {
		return errors.New("employee is nil")
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
UPDATE employees SET first_name = ?, last_name = ?, email = ?, phone = ?, date_of_birth = ?,
    gender = ?, marital_status = ?, address = ?, city = ?, state = ?, pincode = ?,
    aadhaar_number = ?, pan_number = ?, emergency_contact_name = ?, emergency_contact_phone = ?,
    department_id = ?, role_id = ?, hire_date = COALESCE(NULLIF(?, ''), hire_date),
    termination_date = ?, is_active = ?
WHERE employee_id = ?`,
		e.FirstName, e.LastName, e.Email, e.Phone, e.DateOfBirth,
		e.Gender, e.MaritalStatus, e.Address, e.City, e.State, e.Pincode,
		e.AadhaarNumber, e.PANNumber, e.EmergencyContactName, e.EmergencyContactPhone,
		e.DepartmentID, e.RoleID, e.HireDate, e.TerminationDate, e.IsActive, e.ID)
	if err != nil {
		return err
	}
	return rowsAffectedOrNotFound(res)
}

// SoftDelete marks the employee inactive. Returns sql.ErrNoRows if it does not exist.
func (r *EmployeeRepository) SoftDelete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `UPDATE employees SET is_active = 0 WHERE employee_id = ?`, id)
	if err != nil {
		return err
	}
	return rowsAffectedOrNotFound(res)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEmployee(s rowScanner) (*models.Employee, error) {
	var e models.Employee
	err := s.Scan(&e.ID, &e.FirstName, &e.LastName, &e.Email, &e.Phone, &e.DateOfBirth, &e.Gender,
		&e.MaritalStatus, &e.Address, &e.City, &e.State, &e.Pincode, &e.AadhaarNumber, &e.PANNumber,
		&e.EmergencyContactName, &e.EmergencyContactPhone, &e.DepartmentID, &e.RoleID, &e.HireDate,
		&e.TerminationDate, &e.IsActive, &e.CreatedAt, &e.DepartmentName, &e.RoleName)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
