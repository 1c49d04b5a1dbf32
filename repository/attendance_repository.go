package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"employeeManagement/models"
)

type AttendanceRepository struct {
	db DBTX
}

func NewAttendanceRepository(db DBTX) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// ListAttendanceParams filters List. From/To are inclusive dates.
type ListAttendanceParams struct {
	EmployeeID *int64
	From       *string
	To         *string
}

// Create records attendance; an empty status defaults to Present.
func (r *AttendanceRepository) Create(ctx context.Context, a *models.Attendance) (int64, error) {
	if a == nil {
		return 0, errors.New("attendance is nil")
	}
	if a.Status == "" {
		a.Status = models.AttendancePresent
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `INSERT INTO attendance (employee_id, date, check_in_time, check_out_time, status, created_at) VALUES (?,?,?,?,?,?)`,
		a.EmployeeID, a.Date, a.CheckInTime, a.CheckOutTime, string(a.Status), now())
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// List returns attendance joined with employee names, newest date first.
func (r *AttendanceRepository) List(ctx context.Context, p ListAttendanceParams) ([]models.Attendance, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var where []string
	var args []any
	if p.EmployeeID != nil {
		where = append(where, "a.employee_id = ?")
		args = append(args, *p.EmployeeID)
	}
	if p.From != nil {
		where = append(where, "a.date >= ?")
		args = append(args, *p.From)
	}
	if p.To != nil {
		where = append(where, "a.date <= ?")
		args = append(args, *p.To)
	}

	query := `
SELECT a.attendance_id, a.employee_id, a.date, a.check_in_time, a.check_out_time, a.status, a.created_at,
       e.first_name, e.last_name
FROM attendance a
JOIN employees e ON e.employee_id = a.employee_id`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY a.date DESC, a.attendance_id DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Attendance{}
	for rows.Next() {
		var a models.Attendance
		var status string
		if err := rows.Scan(&a.ID, &a.EmployeeID, &a.Date, &a.CheckInTime, &a.CheckOutTime, &status, &a.CreatedAt,
			&a.FirstName, &a.LastName); err != nil {
			return nil, err
		}
		a.Status = models.AttendanceStatus(status)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
