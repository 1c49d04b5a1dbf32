package models

// Employee maps to the `employees` table. Rows are soft-deleted through IsActive.
// Optional columns are pointers so NULL and "" stay distinct.
type Employee struct {
	ID                    int64   `db:"employee_id" json:"employee_id"`
	FirstName             string  `db:"first_name" json:"first_name"`
	LastName              string  `db:"last_name" json:"last_name"`
	Email                 string  `db:"email" json:"email"`
	Phone                 *string `db:"phone" json:"phone"`
	DateOfBirth           *string `db:"date_of_birth" json:"date_of_birth"`
	Gender                *string `db:"gender" json:"gender"`
	MaritalStatus         *string `db:"marital_status" json:"marital_status"`
	Address               *string `db:"address" json:"address"`
	City                  *string `db:"city" json:"city"`
	State                 *string `db:"state" json:"state"`
	Pincode               *string `db:"pincode" json:"pincode"`
	AadhaarNumber         *string `db:"aadhaar_number" json:"aadhaar_number"`
	PANNumber             *string `db:"pan_number" json:"pan_number"`
	EmergencyContactName  *string `db:"emergency_contact_name" json:"emergency_contact_name"`
	EmergencyContactPhone *string `db:"emergency_contact_phone" json:"emergency_contact_phone"`
	DepartmentID          *int64  `db:"department_id" json:"department_id"`
	RoleID                *int64  `db:"role_id" json:"role_id"`
	HireDate              string  `db:"hire_date" json:"hire_date"`
	TerminationDate       *string `db:"termination_date" json:"termination_date"`
	IsActive              bool    `db:"is_active" json:"is_active"`
	CreatedAt             string  `db:"created_at" json:"created_at"`

	// Joined, read-only.
	DepartmentName *string `db:"department_name" json:"department_name"`
	RoleName       *string `db:"role_name" json:"role_name"`
}
