package service

import (
	"github.com/dafibh/fortuna/fortuna-ledger/internal/calc"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/domain"
	"github.com/shopspring/decimal"
)

// TaxService computes taxes against the configured fiscal-year tables
type TaxService struct {
	tables *calc.TaxTables
}

// NewTaxService creates a new TaxService
func NewTaxService(tables *calc.TaxTables) *TaxService {
	return &TaxService{tables: tables}
}

// TaxComputation is a tax result tagged with the fiscal year it used
type TaxComputation struct {
	Year int `json:"year"`
	calc.TaxResult
}

// ComputeTaxes computes the taxes due on gross. A zero year selects the latest table.
func (s *TaxService) ComputeTaxes(year int, gross decimal.Decimal) (*TaxComputation, error) {
	if gross.IsNegative() {
		return nil, domain.ErrInvalidGrossIncome
	}

	table := s.tables.Latest()
	if year != 0 {
		var err error
		table, err = s.tables.Get(year)
		if err != nil {
			return nil, err
		}
	}

	return &TaxComputation{
		Year:      table.Year,
		TaxResult: calc.ComputeTaxes(table, gross),
	}, nil
}

// GetYears lists the configured fiscal years in ascending order
func (s *TaxService) GetYears() []int {
	return s.tables.Years()
}
