package payroll

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"inflow/internal/platform/storage"
)

type Service struct {
	Store *Store
	Files storage.Store
}

func NewService(store *Store, files storage.Store) *Service {
	return &Service{Store: store, Files: files}
}

type Detail struct {
	Payroll Payroll `json:"payroll"`
	Items   []Item  `json:"items"`
}

func (s *Service) DetailsByMonth(ctx context.Context, employeeNumber string, year, month int) (Detail, error) {
	p, err := s.Store.GetByMonth(ctx, employeeNumber, year, month)
	if err != nil {
		return Detail{}, err
	}
	items, err := s.Store.Items(ctx, p.ID)
	if err != nil {
		return Detail{}, err
	}
	return Detail{Payroll: p, Items: items}, nil
}

func (s *Service) Severance(ctx context.Context, employeeNumber string) (SeveranceEstimate, error) {
	averageMonthly, joinDate, err := s.Store.SeveranceBasis(ctx, employeeNumber)
	if err != nil {
		return SeveranceEstimate{}, err
	}
	years, amount := EstimateSeverance(averageMonthly, joinDate, time.Now())
	return SeveranceEstimate{
		EmployeeNumber: employeeNumber,
		AverageMonthly: averageMonthly,
		ServiceYears:   years,
		Amount:         amount,
	}, nil
}

// GeneratePayslipPDF renders the month's payslip and stores it, returning the
// URL path it is served under.
func (s *Service) GeneratePayslipPDF(ctx context.Context, employeeNumber string, year, month int) (string, error) {
	detail, err := s.DetailsByMonth(ctx, employeeNumber, year, month)
	if err != nil {
		return "", err
	}
	name, err := s.Store.employeeName(ctx, employeeNumber)
	if err != nil {
		return "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Payslip")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s (%s)", name, employeeNumber))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %04d-%02d", year, month))
	pdf.Ln(10)
	for _, item := range detail.Items {
		pdf.Cell(0, 8, fmt.Sprintf("%s (%s): %d", item.Name, item.ItemType, item.Amount))
		pdf.Ln(7)
	}
	pdf.Ln(3)
	pdf.Cell(0, 8, fmt.Sprintf("Gross: %d", detail.Payroll.Gross))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Non-taxable: %d", detail.Payroll.NonTaxable))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Deductions: %d", detail.Payroll.Deductions))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Net: %d", detail.Payroll.Net))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return "", err
	}
	fileName := fmt.Sprintf("payslip_%s_%04d%02d.pdf", employeeNumber, year, month)
	return s.Files.Save(fileName, buf.Bytes())
}
