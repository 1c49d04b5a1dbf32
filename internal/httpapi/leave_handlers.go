package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"employeeManagement/internal/apperr"
	"employeeManagement/models"
	"employeeManagement/repository"
)

const leaveNotFound = "Leave request not found"

type leaveRequest struct {
	EmployeeID  int64   `json:"employee_id"`
	LeaveTypeID int64   `json:"leave_type_id"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	Reason      *string `json:"reason"`
}

type leaveDecision struct {
	Status string `json:"status"`
}

func (h *handler) listLeaves(c *gin.Context) {
	var p repository.ListLeavesParams
	var err error
	if p.EmployeeID, err = queryID(c, "employee_id"); err != nil {
		h.fail(c, err)
		return
	}
	if v := strings.TrimSpace(c.Query("status")); v != "" {
		st := models.LeaveStatus(v)
		if !st.Valid() {
			h.fail(c, apperr.Validation("Invalid status"))
			return
		}
		p.Status = &st
	}
	list, err := h.Leaves.List(c.Request.Context(), p)
	if err != nil {
		h.fail(c, storeErr(err, ""))
		return
	}
	c.JSON(http.StatusOK, list)
}

// createLeave files a request, always as Pending. The employee defaults to the
// caller, and callers with the Employee role can only file for themselves.
func (h *handler) createLeave(c *gin.Context) {
	var req leaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, errBadBody)
		return
	}
	p := principal(c)
	if req.EmployeeID == 0 {
		req.EmployeeID = p.EmployeeID
	}
	if req.EmployeeID <= 0 || req.LeaveTypeID <= 0 || req.StartDate == "" || req.EndDate == "" {
		h.fail(c, apperr.Validation("Employee, leave type, start date and end date are required"))
		return
	}
	if p.Kind == strings.ToLower(models.RoleEmployee) && req.EmployeeID != p.EmployeeID {
		h.fail(c, apperr.Forbidden("Employees can only request leave for themselves"))
		return
	}
	if !validDate(req.StartDate) || !validDate(req.EndDate) {
		h.fail(c, apperr.Validation("Invalid date, use YYYY-MM-DD"))
		return
	}
	// YYYY-MM-DD compares correctly as a string.
	if req.EndDate < req.StartDate {
		h.fail(c, apperr.Validation("End date must not be before start date"))
		return
	}

	id, err := h.Leaves.Create(c.Request.Context(), &models.LeaveRequest{
		EmployeeID:  req.EmployeeID,
		LeaveTypeID: req.LeaveTypeID,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Reason:      optional(req.Reason),
	})
	if err != nil {
		h.fail(c, storeErr(err, ""))
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Leave request created successfully", "leave_id": id})
}

// updateLeave records a decision; the approver is the caller's own employee record.
func (h *handler) updateLeave(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	var req leaveDecision
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, errBadBody)
		return
	}
	st := models.LeaveStatus(strings.TrimSpace(req.Status))
	if !st.Valid() {
		h.fail(c, apperr.Validation("Status must be one of Pending, Approved, Rejected"))
		return
	}
	var approver *int64
	if p := principal(c); p.EmployeeID > 0 {
		approver = &p.EmployeeID
	}
	if err := h.Leaves.UpdateStatus(c.Request.Context(), id, st, approver); err != nil {
		h.fail(c, storeErr(err, leaveNotFound))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Leave request updated successfully"})
}
