package models

// LeaveStatus tracks a leave request through approval.
type LeaveStatus string

const (
	LeavePending  LeaveStatus = "Pending"
	LeaveApproved LeaveStatus = "Approved"
	LeaveRejected LeaveStatus = "Rejected"
)

// Valid reports whether s is one of the known statuses.
func (s LeaveStatus) Valid() bool {
	switch s {
	case LeavePending, LeaveApproved, LeaveRejected:
		return true
	}
	return false
}

// LeaveRequest maps to the `leave_requests` table. ApprovedBy/ApprovedAt are set once
// a Manager or Admin decides the request.
type LeaveRequest struct {
	ID          int64       `db:"leave_id" json:"leave_id"`
	EmployeeID  int64       `db:"employee_id" json:"employee_id"`
	LeaveTypeID int64       `db:"leave_type_id" json:"leave_type_id"`
	StartDate   string      `db:"start_date" json:"start_date"`
	EndDate     string      `db:"end_date" json:"end_date"`
	Reason      *string     `db:"reason" json:"reason"`
	Status      LeaveStatus `db:"status" json:"status"`
	ApprovedBy  *int64      `db:"approved_by" json:"approved_by"`
	ApprovedAt  *string     `db:"approved_at" json:"approved_at"`
	CreatedAt   string      `db:"created_at" json:"created_at"`

	FirstName     string `db:"first_name" json:"first_name"`
	LastName      string `db:"last_name" json:"last_name"`
	LeaveTypeName string `db:"leave_type_name" json:"leave_type_name"`
}
