package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"employeeManagement/models"
)

const payrollSelect = `
SELECT p.payroll_id, p.employee_id, p.basic_salary, p.hra, p.da, p.medical_allowance,
       p.conveyance_allowance, p.other_allowance, p.income_tax, p.professional_tax,
       p.provident_fund, p.other_deductions, p.net_salary, p.payment_date, p.payslip_url,
       p.created_at, e.first_name, e.last_name
FROM payroll p
JOIN employees e ON e.employee_id = p.employee_id`

type PayrollRepository struct {
	db DBTX
}

func NewPayrollRepository(db DBTX) *PayrollRepository {
	return &PayrollRepository{db: db}
}

// Create inserts a payroll line. The caller is responsible for NetSalary.
func (r *PayrollRepository) Create(ctx context.Context, p *models.Payroll) (int64, error) {
	if p == nil {
		return 0, errors.New("payroll is nil")
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
INSERT INTO payroll (employee_id, basic_salary, hra, da, medical_allowance, conveyance_allowance,
    other_allowance, income_tax, professional_tax, provident_fund, other_deductions, net_salary,
    payment_date, payslip_url, created_at)
VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		p.EmployeeID, p.BasicSalary, p.HRA, p.DA, p.MedicalAllowance, p.ConveyanceAllowance,
		p.OtherAllowance, p.IncomeTax, p.ProfessionalTax, p.ProvidentFund, p.OtherDeductions, p.NetSalary,
		p.PaymentDate, p.PayslipURL, now())
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetByID returns the payroll line or (nil, nil) if it does not exist.
func (r *PayrollRepository) GetByID(ctx context.Context, id int64) (*models.Payroll, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	p, err := scanPayroll(r.db.QueryRowContext(ctx, payrollSelect+` WHERE p.payroll_id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

// List returns payroll lines, most recent payment first, optionally for one employee.
func (r *PayrollRepository) List(ctx context.Context, employeeID *int64) ([]models.Payroll, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := payrollSelect
	var args []any
	if employeeID != nil {
		query += " WHERE p.employee_id = ?"
		args = append(args, *employeeID)
	}
	query += " ORDER BY p.payment_date DESC, p.payroll_id DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Payroll{}
	for rows.Next() {
		p, err := scanPayroll(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// SetPayslipURL records where the payslip document lives.
// Returns sql.ErrNoRows if the payroll line does not exist.
func (r *PayrollRepository) SetPayslipURL(ctx context.Context, id int64, url string) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `UPDATE payroll SET payslip_url = ? WHERE payroll_id = ?`, url, id)
	if err != nil {
		return err
	}
	return rowsAffectedOrNotFound(res)
}

func scanPayroll(s rowScanner) (*models.Payroll, error) {
	var p models.Payroll
	err := s.Scan(&p.ID, &p.EmployeeID, &p.BasicSalary, &p.HRA, &p.DA, &p.MedicalAllowance,
		&p.ConveyanceAllowance, &p.OtherAllowance, &p.IncomeTax, &p.ProfessionalTax,
		&p.ProvidentFund, &p.OtherDeductions, &p.NetSalary, &p.PaymentDate, &p.PayslipURL,
		&p.CreatedAt, &p.FirstName, &p.LastName)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
