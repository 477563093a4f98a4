package calc

import (
	"strings"

	"github.com/dafibh/fortuna/fortuna-ledger/internal/domain"
	"github.com/shopspring/decimal"
)

// CategorySpend sums expense transactions in category over the whole ledger. Categories
// match exactly after trimming surrounding spaces.
func CategorySpend(txs []*domain.Transaction, category string) decimal.Decimal {
	want := normalizeCategory(category)
	inCategory := func(tx *domain.Transaction) bool {
		return normalizeCategory(tx.Category) == want
	}
	return SumByPredicate(txs, And(IsExpense, inCategory))
}

func normalizeCategory(c string) string {
	return strings.TrimSpace(c)
}

// BudgetConsumption returns category spend as a percentage of the budget limit. It is not
// clamped, so values above 100 signal an overspent budget. The spend is not scoped to the
// budget period: every expense in the category counts.
func BudgetConsumption(budget *domain.Budget, txs []*domain.Transaction) decimal.Decimal {
	return Percent(CategorySpend(txs, budget.Category), budget.LimitAmount)
}

// GoalProgress returns current over target as an unclamped percentage
func GoalProgress(goal *domain.Goal) decimal.Decimal {
	return Percent(goal.CurrentAmount, goal.TargetAmount)
}

// DisplayProgress clamps a percentage to [0, 100] for progress bars
func DisplayProgress(pct decimal.Decimal) decimal.Decimal {
	if pct.GreaterThan(hundred) {
		return hundred
	}
	if pct.IsNegative() {
		return decimal.Zero
	}
	return pct
}

// BudgetStatus is a budget with its evaluated consumption
type BudgetStatus struct {
	Budget      *domain.Budget  `json:"budget"`
	Spent       decimal.Decimal `json:"spent"`
	Remaining   decimal.Decimal `json:"remaining"`
	Consumption decimal.Decimal `json:"consumption"`
	OverBudget  bool            `json:"overBudget"`
}

// BudgetStatuses evaluates every budget against the same transaction snapshot
func BudgetStatuses(budgets []*domain.Budget, txs []*domain.Transaction) []BudgetStatus {
	statuses := make([]BudgetStatus, 0, len(budgets))
	for _, b := range budgets {
		spent := CategorySpend(txs, b.Category)
		statuses = append(statuses, BudgetStatus{
			Budget:      b,
			Spent:       spent,
			Remaining:   b.LimitAmount.Sub(spent),
			Consumption: Percent(spent, b.LimitAmount),
			OverBudget:  spent.GreaterThan(b.LimitAmount),
		})
	}
	return statuses
}

// GoalStatus is a goal with its evaluated progress
type GoalStatus struct {
	Goal            *domain.Goal    `json:"goal"`
	Progress        decimal.Decimal `json:"progress"`
	DisplayProgress decimal.Decimal `json:"displayProgress"`
	Remaining       decimal.Decimal `json:"remaining"`
	Reached         bool            `json:"reached"`
}

// GoalStatuses evaluates the progress of every goal
func GoalStatuses(goals []*domain.Goal) []GoalStatus {
	statuses := make([]GoalStatus, 0, len(goals))
	for _, g := range goals {
		progress := GoalProgress(g)
		remaining := g.TargetAmount.Sub(g.CurrentAmount)
		if remaining.IsNegative() {
			remaining = decimal.Zero
		}
		statuses = append(statuses, GoalStatus{
			Goal:            g,
			Progress:        progress,
			DisplayProgress: DisplayProgress(progress),
			Remaining:       remaining,
			Reached:         !g.CurrentAmount.LessThan(g.TargetAmount),
		})
	}
	return statuses
}
