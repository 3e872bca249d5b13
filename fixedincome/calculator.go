package fixedincome

import (
	"time"

	"github.com/shopspring/decimal"
)

// WithholdingTaxRate is the flat rate withheld from fixed-income yield.
var WithholdingTaxRate = decimal.NewFromFloat(0.22)

var hoursPerYear = decimal.NewFromInt(24 * 365)

type Return struct {
	Principal       decimal.Decimal `json:"principal"`
	YearsToMaturity decimal.Decimal `json:"years_to_maturity"`
	GrossReturn     decimal.Decimal `json:"gross_return"`
	Tax             decimal.Decimal `json:"tax"`
	TaxRate         decimal.Decimal `json:"tax_rate"`
	NetReturn       decimal.Decimal `json:"net_return"`
	TotalGross      decimal.Decimal `json:"total_gross"`
	TotalNet        decimal.Decimal `json:"total_net"`
}

// CalculateReturn projects the yield of a fixed-income investment held to
// maturity. Pure function of its arguments; a product already at or past
// maturity accrues nothing and returns the principal untouched.
func CalculateReturn(principal, annualRate decimal.Decimal, maturityDate, now time.Time) Return {
	if !maturityDate.After(now) {
		return Return{
			Principal:       principal,
			YearsToMaturity: decimal.Zero,
			GrossReturn:     decimal.Zero,
			Tax:             decimal.Zero,
			TaxRate:         decimal.Zero,
			NetReturn:       decimal.Zero,
			TotalGross:      principal,
			TotalNet:        principal,
		}
	}

	hours := decimal.NewFromFloat(maturityDate.Sub(now).Hours())
	years := hours.Div(hoursPerYear)

	gross := principal.Mul(annualRate).Mul(years)
	tax := gross.Mul(WithholdingTaxRate)
	net := gross.Sub(tax)

	return Return{
		Principal:       principal,
		YearsToMaturity: years,
		GrossReturn:     gross,
		Tax:             tax,
		TaxRate:         WithholdingTaxRate,
		NetReturn:       net,
		TotalGross:      principal.Add(gross),
		TotalNet:        principal.Add(net),
	}
}
