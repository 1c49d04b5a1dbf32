package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"employeeManagement/models"
)

type LeaveRepository struct {
	db DBTX
}

func NewLeaveRepository(db DBTX) *LeaveRepository {
	return &LeaveRepository{db: db}
}

// ListLeavesParams filters List.
type ListLeavesParams struct {
	Status     *models.LeaveStatus
	EmployeeID *int64
}

// Create inserts a new request. Status is always Pending regardless of l.Status.
func (r *LeaveRepository) Create(ctx context.Context, l *models.LeaveRequest) (int64, error) {
	if l == nil {
		return 0, errors.New("leave request is nil")
	}
	l.Status = models.LeavePending
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `INSERT INTO leave_requests (employee_id, leave_type_id, start_date, end_date, reason, status, created_at) VALUES (?,?,?,?,?,?,?)`,
		l.EmployeeID, l.LeaveTypeID, l.StartDate, l.EndDate, l.Reason, string(l.Status), now())
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// List returns leave requests joined with employee names and leave type, newest first.
func (r *LeaveRepository) List(ctx context.Context, p ListLeavesParams) ([]models.LeaveRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var where []string
	var args []any
	if p.Status != nil {
		where = append(where, "lr.status = ?")
		args = append(args, string(*p.Status))
	}
	if p.EmployeeID != nil {
		where = append(where, "lr.employee_id = ?")
		args = append(args, *p.EmployeeID)
	}

	query := `
SELECT lr.leave_id, lr.employee_id, lr.leave_type_id, lr.start_date, lr.end_date, lr.reason, lr.status,
       lr.approved_by, lr.approved_at, lr.created_at, e.first_name, e.last_name, lt.name
FROM leave_requests lr
JOIN employees e ON e.employee_id = lr.employee_id
JOIN leave_types lt ON lt.leave_type_id = lr.leave_type_id`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY lr.created_at DESC, lr.leave_id DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.LeaveRequest{}
	for rows.Next() {
		var l models.LeaveRequest
		var status string
		if err := rows.Scan(&l.ID, &l.EmployeeID, &l.LeaveTypeID, &l.StartDate, &l.EndDate, &l.Reason, &status,
			&l.ApprovedBy, &l.ApprovedAt, &l.CreatedAt, &l.FirstName, &l.LastName, &l.LeaveTypeName); err != nil {
			return nil, err
		}
		l.Status = models.LeaveStatus(status)
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateStatus records a decision. approved_by/approved_at are set for Approved and
// Rejected and cleared when a request is moved back to Pending.
// Returns sql.ErrNoRows if the request does not exist.
func (r *LeaveRepository) UpdateStatus(ctx context.Context, id int64, status models.LeaveStatus, approvedBy *int64) error {
	var approvedAt *string
	if status == models.LeavePending {
		approvedBy = nil
	} else {
		ts := now()
		approvedAt = &ts
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `UPDATE leave_requests SET status = ?, approved_by = ?, approved_at = ? WHERE leave_id = ?`,
		string(status), approvedBy, approvedAt, id)
	if err != nil {
		return err
	}
	return rowsAffectedOrNotFound(res)
}
