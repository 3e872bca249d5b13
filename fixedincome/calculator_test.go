package fixedincome

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type suiteCalculatorTester struct {
	suite.Suite
}

func (s *suiteCalculatorTester) assertDecimal(expected string, actual decimal.Decimal) {
	want, err := decimal.NewFromString(expected)
	s.NoError(err)

	tolerance := decimal.NewFromFloat(0.0001)
	s.True(actual.Sub(want).Abs().LessThanOrEqual(tolerance), "expected %s, got %s", want, actual)
}

func (s *suiteCalculatorTester) TestOneYearToMaturity() {
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	maturity := now.Add(365 * 24 * time.Hour)

	result := CalculateReturn(decimal.NewFromInt(10000), decimal.NewFromFloat(0.12), maturity, now)

	s.assertDecimal("1", result.YearsToMaturity)
	s.assertDecimal("1200", result.GrossReturn)
	s.assertDecimal("264", result.Tax)
	s.assertDecimal("936", result.NetReturn)
	s.assertDecimal("11200", result.TotalGross)
	s.assertDecimal("10936", result.TotalNet)
	s.assertDecimal("0.22", result.TaxRate)
}

func (s *suiteCalculatorTester) TestHalfYearToMaturity() {
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	maturity := now.Add(365 * 12 * time.Hour)

	result := CalculateReturn(decimal.NewFromInt(20000), decimal.NewFromFloat(0.10), maturity, now)

	s.assertDecimal("0.5", result.YearsToMaturity)
	s.assertDecimal("1000", result.GrossReturn)
	s.assertDecimal("220", result.Tax)
	s.assertDecimal("780", result.NetReturn)
}

func (s *suiteCalculatorTester) TestAlreadyMatured() {
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	maturity := now.AddDate(-1, 0, 0)

	result := CalculateReturn(decimal.NewFromInt(10000), decimal.NewFromFloat(0.12), maturity, now)

	s.True(result.GrossReturn.IsZero())
	s.True(result.Tax.IsZero())
	s.True(result.NetReturn.IsZero())
	s.True(result.TaxRate.IsZero())
	s.assertDecimal("10000", result.TotalGross)
	s.assertDecimal("10000", result.TotalNet)
}

func (s *suiteCalculatorTester) TestMaturityEqualsNow() {
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

	result := CalculateReturn(decimal.NewFromInt(5000), decimal.NewFromFloat(0.08), now, now)

	s.True(result.GrossReturn.IsZero())
	s.assertDecimal("5000", result.TotalNet)
}

func TestCalculatorSuite(t *testing.T) {
	suite.Run(t, new(suiteCalculatorTester))
}
