package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"employeeManagement/internal/apperr"
	"employeeManagement/models"
	"employeeManagement/repository"
)

const employeeNotFound = "Employee not found"

// employeeRequest is the body of create and update. Blank optional fields are
// stored as NULL.
type employeeRequest struct {
	FirstName             string  `json:"first_name"`
	LastName              string  `json:"last_name"`
	Email                 string  `json:"email"`
	Phone                 *string `json:"phone"`
	DateOfBirth           *string `json:"date_of_birth"`
	Gender                *string `json:"gender"`
	MaritalStatus         *string `json:"marital_status"`
	Address               *string `json:"address"`
	City                  *string `json:"city"`
	State                 *string `json:"state"`
	Pincode               *string `json:"pincode"`
	AadhaarNumber         *string `json:"aadhaar_number"`
	PANNumber             *string `json:"pan_number"`
	EmergencyContactName  *string `json:"emergency_contact_name"`
	EmergencyContactPhone *string `json:"emergency_contact_phone"`
	DepartmentID          *int64  `json:"department_id"`
	RoleID                *int64  `json:"role_id"`
	HireDate              *string `json:"hire_date"`
	TerminationDate       *string `json:"termination_date"`
	IsActive              *bool   `json:"is_active"`
}

func (r *employeeRequest) toModel() (*models.Employee, error) {
	e := &models.Employee{
		FirstName:             strings.TrimSpace(r.FirstName),
		LastName:              strings.TrimSpace(r.LastName),
		Email:                 strings.TrimSpace(r.Email),
		Phone:                 optional(r.Phone),
		Gender:                optional(r.Gender),
		MaritalStatus:         optional(r.MaritalStatus),
		Address:               optional(r.Address),
		City:                  optional(r.City),
		State:                 optional(r.State),
		Pincode:               optional(r.Pincode),
		AadhaarNumber:         optional(r.AadhaarNumber),
		PANNumber:             optional(r.PANNumber),
		EmergencyContactName:  optional(r.EmergencyContactName),
		EmergencyContactPhone: optional(r.EmergencyContactPhone),
		DepartmentID:          positive(r.DepartmentID),
		RoleID:                positive(r.RoleID),
		IsActive:              r.IsActive == nil || *r.IsActive,
	}
	if e.FirstName == "" || e.LastName == "" || e.Email == "" {
		return nil, apperr.Validation("First name, last name and email are required")
	}
	var err error
	if e.DateOfBirth, err = optionalDate(r.DateOfBirth, "date_of_birth"); err != nil {
		return nil, err
	}
	if e.TerminationDate, err = optionalDate(r.TerminationDate, "termination_date"); err != nil {
		return nil, err
	}
	hire, err := optionalDate(r.HireDate, "hire_date")
	if err != nil {
		return nil, err
	}
	if hire != nil {
		e.HireDate = *hire
	}
	return e, nil
}

// positive maps missing and non-positive ids (a blank <select>) to NULL.
func positive(id *int64) *int64 {
	if id == nil || *id <= 0 {
		return nil
	}
	return id
}

func (h *handler) listEmployees(c *gin.Context) {
	dept, err := queryID(c, "department_id")
	if err != nil {
		h.fail(c, err)
		return
	}
	p := repository.ListEmployeesParams{DepartmentID: dept}
	if v := c.Query("page_size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			h.fail(c, apperr.Validation("Invalid page_size"))
			return
		}
		if n > maxPageSize {
			n = maxPageSize
		}
		p.PageSize = n
	}
	if t := strings.TrimSpace(c.Query("page_token")); t != "" {
		after, err := decodeCursor(t)
		if err != nil {
			h.fail(c, apperr.Validation("Invalid page_token"))
			return
		}
		p.AfterID = after
	}

	list, err := h.Employees.List(c.Request.Context(), p)
	if err != nil {
		h.fail(c, storeErr(err, employeeNotFound))
		return
	}
	// Build next page token if we have a full page.
	if p.PageSize > 0 && len(list) == p.PageSize {
		c.Header(nextPageHeader, encodeCursor(list[len(list)-1].ID))
	}
	c.JSON(http.StatusOK, list)
}

func (h *handler) getEmployee(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	e, err := h.Employees.GetByID(c.Request.Context(), id)
	if err != nil {
		h.fail(c, storeErr(err, employeeNotFound))
		return
	}
	if e == nil {
		h.fail(c, apperr.NotFound(employeeNotFound))
		return
	}
	c.JSON(http.StatusOK, e)
}

func (h *handler) createEmployee(c *gin.Context) {
	var req employeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, errBadBody)
		return
	}
	e, err := req.toModel()
	if err != nil {
		h.fail(c, err)
		return
	}
	id, err := h.Employees.Create(c.Request.Context(), e)
	if err != nil {
		h.fail(c, storeErr(err, employeeNotFound))
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Employee created successfully", "employee_id": id})
}

func (h *handler) updateEmployee(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	var req employeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, errBadBody)
		return
	}
	e, err := req.toModel()
	if err != nil {
		h.fail(c, err)
		return
	}
	e.ID = id
	if err := h.Employees.Update(c.Request.Context(), e); err != nil {
		h.fail(c, storeErr(err, employeeNotFound))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Employee updated successfully"})
}

func (h *handler) deleteEmployee(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := h.Employees.SoftDelete(c.Request.Context(), id); err != nil {
		h.fail(c, storeErr(err, employeeNotFound))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Employee deleted successfully"})
}
