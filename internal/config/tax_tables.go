package config

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/dafibh/fortuna/fortuna-ledger/internal/calc"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed tax_tables.yaml
var defaultTaxTables []byte

type taxTablesFile struct {
	Tables []taxTableEntry `yaml:"tables"`
}

type taxTableEntry struct {
	Year                int              `yaml:"year"`
	ContributionCeiling string           `yaml:"contribution_ceiling"`
	Contribution        []bracketEntry   `yaml:"contribution"`
	IncomeTax           []incomeTaxEntry `yaml:"income_tax"`
}

type bracketEntry struct {
	UpperBound string `yaml:"upper_bound"`
	Rate       string `yaml:"rate"`
}

type incomeTaxEntry struct {
	UpperBound string `yaml:"upper_bound"`
	Rate       string `yaml:"rate"`
	Deduction  string `yaml:"deduction"`
}

// LoadTaxTables reads the tax tables from path, or the embedded defaults when path is empty
func LoadTaxTables(path string) (*calc.TaxTables, error) {
	data := defaultTaxTables
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read tax tables: %w", err)
		}
	}
	return ParseTaxTables(data)
}

// ParseTaxTables decodes a YAML tax table document
func ParseTaxTables(data []byte) (*calc.TaxTables, error) {
	var file taxTablesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse tax tables: %w", err)
	}

	tables := make([]*calc.TaxTable, 0, len(file.Tables))
	for _, entry := range file.Tables {
		table, err := entry.toTable()
		if err != nil {
			return nil, fmt.Errorf("tax table %d: %w", entry.Year, err)
		}
		tables = append(tables, table)
	}
	return calc.NewTaxTables(tables...)
}

func (e taxTableEntry) toTable() (*calc.TaxTable, error) {
	table := &calc.TaxTable{Year: e.Year}

	if e.ContributionCeiling != "" {
		ceiling, err := decimal.NewFromString(e.ContributionCeiling)
		if err != nil {
			return nil, fmt.Errorf("contribution_ceiling: %w", err)
		}
		table.ContributionCeiling = &ceiling
	}

	for i, b := range e.Contribution {
		bound, err := decimal.NewFromString(b.UpperBound)
		if err != nil {
			return nil, fmt.Errorf("contribution[%d].upper_bound: %w", i, err)
		}
		rate, err := decimal.NewFromString(b.Rate)
		if err != nil {
			return nil, fmt.Errorf("contribution[%d].rate: %w", i, err)
		}
		table.Contribution = append(table.Contribution, calc.ContributionBracket{UpperBound: bound, Rate: rate})
	}

	for i, b := range e.IncomeTax {
		bracket := calc.IncomeTaxBracket{Deduction: decimal.Zero}
		if b.UpperBound != "" {
			bound, err := decimal.NewFromString(b.UpperBound)
			if err != nil {
				return nil, fmt.Errorf("income_tax[%d].upper_bound: %w", i, err)
			}
			bracket.UpperBound = &bound
		}
		rate, err := decimal.NewFromString(b.Rate)
		if err != nil {
			return nil, fmt.Errorf("income_tax[%d].rate: %w", i, err)
		}
		bracket.Rate = rate
		if b.Deduction != "" {
			if bracket.Deduction, err = decimal.NewFromString(b.Deduction); err != nil {
				return nil, fmt.Errorf("income_tax[%d].deduction: %w", i, err)
			}
		}
		table.IncomeTax = append(table.IncomeTax, bracket)
	}

	return table, nil
}
