package httpapi

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"employeeManagement/internal/apperr"
	"employeeManagement/models"
)

const (
	payrollNotFound = "Payroll record not found"
	maxPayslipBytes = 10 << 20
)

type payrollRequest struct {
	EmployeeID          int64    `json:"employee_id"`
	BasicSalary         *float64 `json:"basic_salary"`
	HRA                 float64  `json:"hra"`
	DA                  float64  `json:"da"`
	MedicalAllowance    float64  `json:"medical_allowance"`
	ConveyanceAllowance float64  `json:"conveyance_allowance"`
	OtherAllowance      float64  `json:"other_allowance"`
	IncomeTax           float64  `json:"income_tax"`
	ProfessionalTax     float64  `json:"professional_tax"`
	ProvidentFund       float64  `json:"provident_fund"`
	OtherDeductions     float64  `json:"other_deductions"`
	NetSalary           *float64 `json:"net_salary"`
	PaymentDate         string   `json:"payment_date"`
}

func (h *handler) listPayroll(c *gin.Context) {
	eid, err := queryID(c, "employee_id")
	if err != nil {
		h.fail(c, err)
		return
	}
	list, err := h.Payroll.List(c.Request.Context(), eid)
	if err != nil {
		h.fail(c, storeErr(err, ""))
		return
	}
	c.JSON(http.StatusOK, list)
}

// createPayroll stores a payroll line. Omitted allowances and deductions are 0 and
// an omitted net_salary is derived from the components.
func (h *handler) createPayroll(c *gin.Context) {
	var req payrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, errBadBody)
		return
	}
	if req.EmployeeID <= 0 || req.BasicSalary == nil || req.PaymentDate == "" {
		h.fail(c, apperr.Validation("Employee, basic salary and payment date are required"))
		return
	}
	if !validDate(req.PaymentDate) {
		h.fail(c, apperr.Validation("Invalid payment_date, use YYYY-MM-DD"))
		return
	}
	p := &models.Payroll{
		EmployeeID:          req.EmployeeID,
		BasicSalary:         *req.BasicSalary,
		HRA:                 req.HRA,
		DA:                  req.DA,
		MedicalAllowance:    req.MedicalAllowance,
		ConveyanceAllowance: req.ConveyanceAllowance,
		OtherAllowance:      req.OtherAllowance,
		IncomeTax:           req.IncomeTax,
		ProfessionalTax:     req.ProfessionalTax,
		ProvidentFund:       req.ProvidentFund,
		OtherDeductions:     req.OtherDeductions,
		PaymentDate:         req.PaymentDate,
	}
	for _, v := range []float64{p.BasicSalary, p.HRA, p.DA, p.MedicalAllowance, p.ConveyanceAllowance,
		p.OtherAllowance, p.IncomeTax, p.ProfessionalTax, p.ProvidentFund, p.OtherDeductions} {
		if v < 0 {
			h.fail(c, apperr.Validation("Salary components must not be negative"))
			return
		}
	}
	if req.NetSalary != nil {
		p.NetSalary = *req.NetSalary
	} else {
		p.NetSalary = p.ComputeNet()
	}

	id, err := h.Payroll.Create(c.Request.Context(), p)
	if err != nil {
		h.fail(c, storeErr(err, ""))
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Payroll record created successfully", "payroll_id": id, "net_salary": p.NetSalary})
}

// uploadPayslip stores the multipart "file" in object storage and links it to the
// payroll line.
func (h *handler) uploadPayslip(c *gin.Context) {
	if h.Payslips == nil {
		h.fail(c, apperr.Unavailable("Payslip storage is not configured"))
		return
	}
	id, err := pathID(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	ctx := c.Request.Context()
	p, err := h.Payroll.GetByID(ctx, id)
	if err != nil {
		h.fail(c, storeErr(err, payrollNotFound))
		return
	}
	if p == nil {
		h.fail(c, apperr.NotFound(payrollNotFound))
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxPayslipBytes+1<<20)
	fh, err := c.FormFile("file")
	if err != nil {
		h.fail(c, apperr.Validation("A payslip file is required"))
		return
	}
	if fh.Size > maxPayslipBytes {
		h.fail(c, apperr.Validation("Payslip file is too large"))
		return
	}
	f, err := fh.Open()
	if err != nil {
		h.fail(c, apperr.Store("Server error", err))
		return
	}
	defer f.Close()

	name := fmt.Sprintf("payroll/%d/%s%s", id, uuid.NewString(), strings.ToLower(filepath.Ext(fh.Filename)))
	url, err := h.Payslips.Put(ctx, name, f, fh.Size, fh.Header.Get("Content-Type"))
	if err != nil {
		h.fail(c, apperr.Store("Payslip upload failed", err))
		return
	}
	if err := h.Payroll.SetPayslipURL(ctx, id, url); err != nil {
		h.fail(c, storeErr(err, payrollNotFound))
		return
	}
	h.logger.Info("payslip stored", zap.Int64("payroll_id", id), zap.String("object", name))
	c.JSON(http.StatusOK, gin.H{"message": "Payslip uploaded successfully", "payslip_url": url})
}
