package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"employeeManagement/internal/apperr"
	"employeeManagement/models"
	"employeeManagement/repository"
)

type attendanceRequest struct {
	EmployeeID   int64   `json:"employee_id"`
	Date         string  `json:"date"`
	CheckInTime  *string `json:"check_in_time"`
	CheckOutTime *string `json:"check_out_time"`
	Status       string  `json:"status"`
}

func (h *handler) listAttendance(c *gin.Context) {
	var p repository.ListAttendanceParams
	var err error
	if p.EmployeeID, err = queryID(c, "employee_id"); err != nil {
		h.fail(c, err)
		return
	}
	if p.From, err = queryDate(c, "from"); err != nil {
		h.fail(c, err)
		return
	}
	if p.To, err = queryDate(c, "to"); err != nil {
		h.fail(c, err)
		return
	}
	list, err := h.Attendance.List(c.Request.Context(), p)
	if err != nil {
		h.fail(c, storeErr(err, ""))
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *handler) createAttendance(c *gin.Context) {
	var req attendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, errBadBody)
		return
	}
	if req.EmployeeID <= 0 || req.Date == "" {
		h.fail(c, apperr.Validation("Employee and date are required"))
		return
	}
	if !validDate(req.Date) {
		h.fail(c, apperr.Validation("Invalid date, use YYYY-MM-DD"))
		return
	}
	a := &models.Attendance{
		EmployeeID:   req.EmployeeID,
		Date:         req.Date,
		CheckInTime:  optional(req.CheckInTime),
		CheckOutTime: optional(req.CheckOutTime),
		Status:       models.AttendanceStatus(req.Status),
	}
	if a.Status == "" {
		a.Status = models.AttendancePresent
	}
	if !a.Status.Valid() {
		h.fail(c, apperr.Validation("Status must be one of Present, Absent, Late, Half Day"))
		return
	}
	for _, t := range []*string{a.CheckInTime, a.CheckOutTime} {
		if t != nil && !validClock(*t) {
			h.fail(c, apperr.Validation("Invalid time, use HH:MM or HH:MM:SS"))
			return
		}
	}

	id, err := h.Attendance.Create(c.Request.Context(), a)
	if err != nil {
		h.fail(c, storeErr(err, ""))
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Attendance record created successfully", "attendance_id": id})
}

func validClock(s string) bool {
	for _, layout := range []string{"15:04:05", "15:04"} {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}
