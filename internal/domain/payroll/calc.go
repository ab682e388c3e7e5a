package payroll

import "time"

const (
	ItemTypeEarning   = "earning"
	ItemTypeDeduction = "deduction"
)

type InputLine struct {
	Name    string
	Type    string
	Amount  int64
	Taxable bool
}

// Compute folds the pay lines for one month on top of the base salary.
// Non-taxable earnings count toward gross but are reported separately.
func Compute(baseSalary int64, lines []InputLine) (gross, nonTaxable, deductions, net int64) {
	gross = baseSalary
	for _, line := range lines {
		switch line.Type {
		case ItemTypeEarning:
			gross += line.Amount
			if !line.Taxable {
				nonTaxable += line.Amount
			}
		case ItemTypeDeduction:
			deductions += line.Amount
		}
	}
	net = gross - deductions
	return gross, nonTaxable, deductions, net
}

// EstimateSeverance approximates statutory severance: one month of average
// wage per full year of service, prorated by day for partial years.
func EstimateSeverance(averageMonthly int64, joinDate, asOf time.Time) (years float64, amount int64) {
	if asOf.Before(joinDate) {
		return 0, 0
	}
	days := asOf.Sub(joinDate).Hours() / 24
	years = days / 365
	amount = int64(float64(averageMonthly) * years)
	return years, amount
}
