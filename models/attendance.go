package models

// AttendanceStatus is the outcome recorded for an employee on a given day.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "Present"
	AttendanceAbsent  AttendanceStatus = "Absent"
	AttendanceLate    AttendanceStatus = "Late"
	AttendanceHalfDay AttendanceStatus = "Half Day"
)

// Valid reports whether s is one of the known statuses.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceLate, AttendanceHalfDay:
		return true
	}
	return false
}

// Attendance maps to the `attendance` table.
type Attendance struct {
	ID           int64            `db:"attendance_id" json:"attendance_id"`
	EmployeeID   int64            `db:"employee_id" json:"employee_id"`
	Date         string           `db:"date" json:"date"`
	CheckInTime  *string          `db:"check_in_time" json:"check_in_time"`
	CheckOutTime *string          `db:"check_out_time" json:"check_out_time"`
	Status       AttendanceStatus `db:"status" json:"status"`
	CreatedAt    string           `db:"created_at" json:"created_at"`

	FirstName string `db:"first_name" json:"first_name"`
	LastName  string `db:"last_name" json:"last_name"`
}
