package repository

import (
	"context"
	"database/sql"

	"employeeManagement/models"
)

// DBTX is the subset of *sql.DB and *sql.Tx the repositories need, so the same
// repository can run inside or outside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// UserRepositoryI defines operations on User entities.
type UserRepositoryI interface {
	Create(ctx context.Context, u *models.User) (int64, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Exists(ctx context.Context, username string) (bool, error)
	UpdateLastLogin(ctx context.Context, id int64) error
}

// EmployeeRepositoryI defines operations on Employee entities.
type EmployeeRepositoryI interface {
	Create(ctx context.Context, e *models.Employee) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Employee, error)
	List(ctx context.Context, p ListEmployeesParams) ([]models.Employee, error)
	Update(ctx context.Context, e *models.Employee) error
	SoftDelete(ctx context.Context, id int64) error
}

// LookupRepositoryI exposes the seeded reference tables.
type LookupRepositoryI interface {
	Roles(ctx context.Context) ([]models.Role, error)
	RoleByName(ctx context.Context, name string) (*models.Role, error)
	Departments(ctx context.Context) ([]models.Department, error)
	LeaveTypes(ctx context.Context) ([]models.LeaveType, error)
}

// AttendanceRepositoryI defines operations on attendance records.
type AttendanceRepositoryI interface {
	Create(ctx context.Context, a *models.Attendance) (int64, error)
	List(ctx context.Context, p ListAttendanceParams) ([]models.Attendance, error)
}

// LeaveRepositoryI defines operations on leave requests.
type LeaveRepositoryI interface {
	Create(ctx context.Context, l *models.LeaveRequest) (int64, error)
	List(ctx context.Context, p ListLeavesParams) ([]models.LeaveRequest, error)
	UpdateStatus(ctx context.Context, id int64, status models.LeaveStatus, approvedBy *int64) error
}

// PayrollRepositoryI defines operations on payroll records.
type PayrollRepositoryI interface {
	Create(ctx context.Context, p *models.Payroll) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Payroll, error)
	List(ctx context.Context, employeeID *int64) ([]models.Payroll, error)
	SetPayslipURL(ctx context.Context, id int64, url string) error
}

var (
	_ UserRepositoryI       = (*UserRepository)(nil)
	_ EmployeeRepositoryI   = (*EmployeeRepository)(nil)
	_ LookupRepositoryI     = (*LookupRepository)(nil)
	_ AttendanceRepositoryI = (*AttendanceRepository)(nil)
	_ LeaveRepositoryI      = (*LeaveRepository)(nil)
	_ PayrollRepositoryI    = (*PayrollRepository)(nil)
)
