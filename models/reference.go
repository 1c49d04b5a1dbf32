package models

// Role names seeded by the reference-data migration.
const (
	RoleAdmin    = "Admin"
	RoleManager  = "Manager"
	RoleEmployee = "Employee"
)

// Role maps to the `roles` table.
type Role struct {
	ID          int64   `db:"role_id" json:"role_id"`
	Name        string  `db:"name" json:"name"`
	Description *string `db:"description" json:"description"`
}

// Department maps to the `departments` table.
type Department struct {
	ID          int64   `db:"department_id" json:"department_id"`
	Name        string  `db:"name" json:"name"`
	Description *string `db:"description" json:"description"`
}

// LeaveType maps to the `leave_types` table.
type LeaveType struct {
	ID          int64   `db:"leave_type_id" json:"leave_type_id"`
	Name        string  `db:"name" json:"name"`
	Description *string `db:"description" json:"description"`
	MaxDays     int     `db:"max_days" json:"max_days"`
}
