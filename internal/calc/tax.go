package calc

import (
	"fmt"
	"sort"

	"github.com/dafibh/fortuna/fortuna-ledger/internal/domain"
	"github.com/shopspring/decimal"
)

// ContributionBracket applies Rate to the slice of income between the previous bracket's
// upper bound and UpperBound.
type ContributionBracket struct {
	UpperBound decimal.Decimal `json:"upperBound"`
	Rate       decimal.Decimal `json:"rate"`
}

// IncomeTaxBracket taxes a base up to UpperBound as base × Rate − Deduction. A nil
// UpperBound marks the open-ended top bracket.
type IncomeTaxBracket struct {
	UpperBound *decimal.Decimal `json:"upperBound,omitempty"`
	Rate       decimal.Decimal  `json:"rate"`
	Deduction  decimal.Decimal  `json:"deduction"`
}

// TaxTable holds the brackets of one fiscal year
type TaxTable struct {
	Year         int                   `json:"year"`
	Contribution []ContributionBracket `json:"contribution"`
	// ContributionCeiling caps the contribution at every income. When nil the cap is the
	// marginal contribution accumulated at the top bracket's upper bound.
	ContributionCeiling *decimal.Decimal   `json:"contributionCeiling,omitempty"`
	IncomeTax           []IncomeTaxBracket `json:"incomeTax"`
}

// Validate checks that both bracket sets are non-empty and ascending, and that rates lie in [0, 1]
func (t *TaxTable) Validate() error {
	if len(t.Contribution) == 0 {
		return fmt.Errorf("tax table %d: no contribution brackets", t.Year)
	}
	if len(t.IncomeTax) == 0 {
		return fmt.Errorf("tax table %d: no income tax brackets", t.Year)
	}

	prev := decimal.Zero
	for i, b := range t.Contribution {
		if !b.UpperBound.GreaterThan(prev) {
			return fmt.Errorf("tax table %d: contribution bracket %d is not ascending", t.Year, i)
		}
		if !validRate(b.Rate) {
			return fmt.Errorf("tax table %d: contribution bracket %d rate out of range", t.Year, i)
		}
		prev = b.UpperBound
	}
	if t.ContributionCeiling != nil && t.ContributionCeiling.IsNegative() {
		return fmt.Errorf("tax table %d: negative contribution ceiling", t.Year)
	}

	prev = decimal.Zero
	for i, b := range t.IncomeTax {
		if !validRate(b.Rate) {
			return fmt.Errorf("tax table %d: income tax bracket %d rate out of range", t.Year, i)
		}
		if b.UpperBound == nil {
			if i != len(t.IncomeTax)-1 {
				return fmt.Errorf("tax table %d: only the last income tax bracket may be unbounded", t.Year)
			}
			continue
		}
		if !b.UpperBound.GreaterThan(prev) {
			return fmt.Errorf("tax table %d: income tax bracket %d is not ascending", t.Year, i)
		}
		prev = *b.UpperBound
	}
	return nil
}

func validRate(r decimal.Decimal) bool {
	return !r.IsNegative() && r.LessThanOrEqual(decimal.NewFromInt(1))
}

// TaxResult is the breakdown of a gross income
type TaxResult struct {
	Gross         decimal.Decimal `json:"gross"`
	Contribution  decimal.Decimal `json:"contribution"`
	TaxableBase   decimal.Decimal `json:"taxableBase"`
	IncomeTax     decimal.Decimal `json:"incomeTax"`
	Net           decimal.Decimal `json:"net"`
	EffectiveRate decimal.Decimal `json:"effectiveRate"`
}

// ComputeTaxes applies the contribution brackets to gross and the income tax brackets to
// gross minus contribution. All amounts are rounded to cents.
func ComputeTaxes(table *TaxTable, gross decimal.Decimal) TaxResult {
	contribution := roundCents(Contribution(table, gross))
	base := gross.Sub(contribution)
	incomeTax := roundCents(IncomeTax(table, base))
	net := gross.Sub(contribution).Sub(incomeTax)

	effective := decimal.Zero
	if gross.IsPositive() {
		effective = Percent(contribution.Add(incomeTax), gross).Round(2)
	}

	return TaxResult{
		Gross:         gross,
		Contribution:  contribution,
		TaxableBase:   base,
		IncomeTax:     incomeTax,
		Net:           net,
		EffectiveRate: effective,
	}
}

// Contribution computes the marginal contribution on gross: the accumulated contribution of
// every lower bracket plus the bracket rate on the portion above the previous bound. The
// result never exceeds the ceiling, and above the top bracket it is the ceiling.
func Contribution(table *TaxTable, gross decimal.Decimal) decimal.Decimal {
	if !gross.IsPositive() {
		return decimal.Zero
	}

	ceiling := ContributionCeiling(table)
	accumulated := decimal.Zero
	lower := decimal.Zero
	for _, b := range table.Contribution {
		if gross.LessThanOrEqual(b.UpperBound) {
			return decimal.Min(accumulated.Add(gross.Sub(lower).Mul(b.Rate)), ceiling)
		}
		accumulated = accumulated.Add(b.UpperBound.Sub(lower).Mul(b.Rate))
		lower = b.UpperBound
	}
	return ceiling
}

// ContributionCeiling is the maximum contribution. Without a configured value it is the
// contribution reached at the top bracket's upper bound, so the cap never jumps.
func ContributionCeiling(table *TaxTable) decimal.Decimal {
	if table.ContributionCeiling != nil {
		return *table.ContributionCeiling
	}
	ceiling := decimal.Zero
	lower := decimal.Zero
	for _, b := range table.Contribution {
		ceiling = ceiling.Add(b.UpperBound.Sub(lower).Mul(b.Rate))
		lower = b.UpperBound
	}
	return ceiling
}

// IncomeTax computes base × rate − deduction for the bracket containing base, never below zero
func IncomeTax(table *TaxTable, base decimal.Decimal) decimal.Decimal {
	if !base.IsPositive() {
		return decimal.Zero
	}

	bracket := table.IncomeTax[len(table.IncomeTax)-1]
	for _, b := range table.IncomeTax {
		if b.UpperBound == nil || base.LessThanOrEqual(*b.UpperBound) {
			bracket = b
			break
		}
	}

	tax := base.Mul(bracket.Rate).Sub(bracket.Deduction)
	if tax.IsNegative() {
		return decimal.Zero
	}
	return tax
}

// TaxTables is the set of configured tables keyed by fiscal year
type TaxTables struct {
	byYear map[int]*TaxTable
}

// NewTaxTables validates every table and indexes it by year
func NewTaxTables(tables ...*TaxTable) (*TaxTables, error) {
	byYear := make(map[int]*TaxTable, len(tables))
	for _, t := range tables {
		if err := t.Validate(); err != nil {
			return nil, err
		}
		if _, dup := byYear[t.Year]; dup {
			return nil, fmt.Errorf("duplicate tax table for year %d", t.Year)
		}
		byYear[t.Year] = t
	}
	if len(byYear) == 0 {
		return nil, fmt.Errorf("no tax tables configured")
	}
	return &TaxTables{byYear: byYear}, nil
}

// Get returns the table for year
func (t *TaxTables) Get(year int) (*TaxTable, error) {
	table, ok := t.byYear[year]
	if !ok {
		return nil, domain.ErrTaxTableNotFound
	}
	return table, nil
}

// Latest returns the table of the most recent fiscal year
func (t *TaxTables) Latest() *TaxTable {
	years := t.Years()
	return t.byYear[years[len(years)-1]]
}

// Years lists the configured fiscal years in ascending order
func (t *TaxTables) Years() []int {
	years := make([]int, 0, len(t.byYear))
	for y := range t.byYear {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}
