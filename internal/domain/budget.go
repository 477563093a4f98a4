package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type BudgetPeriod string

const (
	BudgetPeriodMonthly BudgetPeriod = "monthly"
)

// Budget caps spending for a category. Category is the unique key.
type Budget struct {
	ID          int32           `json:"id"`
	Category    string          `json:"category"`
	LimitAmount decimal.Decimal `json:"limitAmount"`
	Period      BudgetPeriod    `json:"period"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

type BudgetRepository interface {
	// Upsert inserts a budget or replaces the limit of the existing budget for the same category
	Upsert(ctx context.Context, budget *Budget) (*Budget, error)
	List(ctx context.Context) ([]*Budget, error)
	// Delete reports whether a budget was removed
	Delete(ctx context.Context, id int32) (bool, error)
}
