package service

import (
	"testing"

	"github.com/dafibh/fortuna/fortuna-ledger/internal/calc"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flatTable(year int, rate string) *calc.TaxTable {
	return &calc.TaxTable{
		Year: year,
		Contribution: []calc.ContributionBracket{
			{UpperBound: decimal.NewFromInt(1000), Rate: decimal.RequireFromString("0.05")},
			{UpperBound: decimal.NewFromInt(3000), Rate: decimal.RequireFromString("0.09")},
		},
		IncomeTax: []calc.IncomeTaxBracket{
			{UpperBound: nil, Rate: decimal.RequireFromString(rate), Deduction: decimal.Zero},
		},
	}
}

func newTestTaxService(t *testing.T) *TaxService {
	t.Helper()
	tables, err := calc.NewTaxTables(flatTable(2023, "0"), flatTable(2024, "0.10"))
	require.NoError(t, err)
	return NewTaxService(tables)
}

func TestComputeTaxes_LatestByDefault(t *testing.T) {
	taxService := newTestTaxService(t)

	result, err := taxService.ComputeTaxes(0, decimal.NewFromInt(2000))
	require.NoError(t, err)
	assert.Equal(t, 2024, result.Year)
	assert.True(t, result.Contribution.Equal(decimal.NewFromInt(140)), "contribution %s", result.Contribution)
	// 10% of 1860
	assert.True(t, result.IncomeTax.Equal(decimal.NewFromInt(186)), "income tax %s", result.IncomeTax)
}

func TestComputeTaxes_SpecificYear(t *testing.T) {
	result, err := newTestTaxService(t).ComputeTaxes(2023, decimal.NewFromInt(2000))
	require.NoError(t, err)
	assert.Equal(t, 2023, result.Year)
	assert.True(t, result.IncomeTax.IsZero())
	assert.True(t, result.Net.Equal(decimal.NewFromInt(1860)))
}

func TestComputeTaxes_Errors(t *testing.T) {
	taxService := newTestTaxService(t)

	_, err := taxService.ComputeTaxes(1999, decimal.NewFromInt(1))
	assert.ErrorIs(t, err, domain.ErrTaxTableNotFound)

	_, err = taxService.ComputeTaxes(0, decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, domain.ErrInvalidGrossIncome)
}

func TestGetYears(t *testing.T) {
	assert.Equal(t, []int{2023, 2024}, newTestTaxService(t).GetYears())
}
