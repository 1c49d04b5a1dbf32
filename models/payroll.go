package models

// Payroll is one salary payment line. It maps to the `payroll` table.
type Payroll struct {
	ID                  int64   `db:"payroll_id" json:"payroll_id"`
	EmployeeID          int64   `db:"employee_id" json:"employee_id"`
	BasicSalary         float64 `db:"basic_salary" json:"basic_salary"`
	HRA                 float64 `db:"hra" json:"hra"`
	DA                  float64 `db:"da" json:"da"`
	MedicalAllowance    float64 `db:"medical_allowance" json:"medical_allowance"`
	ConveyanceAllowance float64 `db:"conveyance_allowance" json:"conveyance_allowance"`
	OtherAllowance      float64 `db:"other_allowance" json:"other_allowance"`
	IncomeTax           float64 `db:"income_tax" json:"income_tax"`
	ProfessionalTax     float64 `db:"professional_tax" json:"professional_tax"`
	ProvidentFund       float64 `db:"provident_fund" json:"provident_fund"`
	OtherDeductions     float64 `db:"other_deductions" json:"other_deductions"`
	NetSalary           float64 `db:"net_salary" json:"net_salary"`
	PaymentDate         string  `db:"payment_date" json:"payment_date"`
	PayslipURL          *string `db:"payslip_url" json:"payslip_url"`
	CreatedAt           string  `db:"created_at" json:"created_at"`

	FirstName string `db:"first_name" json:"first_name"`
	LastName  string `db:"last_name" json:"last_name"`
}

// ComputeNet returns basic salary plus allowances minus deductions.
func (p *Payroll) ComputeNet() float64 {
	allowances := p.HRA + p.DA + p.MedicalAllowance + p.ConveyanceAllowance + p.OtherAllowance
	deductions := p.IncomeTax + p.ProfessionalTax + p.ProvidentFund + p.OtherDeductions
	return p.BasicSalary + allowances - deductions
}
