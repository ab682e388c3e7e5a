package payroll

import "time"

type Payroll struct {
	ID             string    `json:"id"`
	EmployeeNumber string    `json:"employeeNumber"`
	Year           int       `json:"year"`
	Month          int       `json:"month"`
	BaseSalary     int64     `json:"baseSalary"`
	Gross          int64     `json:"gross"`
	NonTaxable     int64     `json:"nonTaxable"`
	Deductions     int64     `json:"deductions"`
	Net            int64     `json:"net"`
	CreatedAt      time.Time `json:"createdAt"`
}

type Item struct {
	ID        string `json:"id"`
	PayrollID string `json:"payrollId"`
	Name      string `json:"name"`
	ItemType  string `json:"itemType"`
	Amount    int64  `json:"amount"`
	Taxable   bool   `json:"taxable"`
}

type IrregularAllowance struct {
	ID             string    `json:"id"`
	EmployeeNumber string    `json:"employeeNumber"`
	Name           string    `json:"name"`
	Amount         int64     `json:"amount"`
	PaidAt         time.Time `json:"paidAt"`
}

type SeveranceEstimate struct {
	EmployeeNumber string  `json:"employeeNumber"`
	AverageMonthly int64   `json:"averageMonthly"`
	ServiceYears   float64 `json:"serviceYears"`
	Amount         int64   `json:"amount"`
}
