package postgres

import (
	"context"

	"github.com/dafibh/fortuna/fortuna-ledger/internal/domain"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BudgetRepository implements domain.BudgetRepository using PostgreSQL
type BudgetRepository struct {
	pool *pgxpool.Pool
}

// NewBudgetRepository creates a new BudgetRepository
func NewBudgetRepository(pool *pgxpool.Pool) *BudgetRepository {
	return &BudgetRepository{pool: pool}
}

const upsertBudget = `
INSERT INTO budgets (category, limit_amount, period)
VALUES ($1, $2, $3)
ON CONFLICT (category) DO UPDATE
SET limit_amount = EXCLUDED.limit_amount,
    period = EXCLUDED.period,
    updated_at = NOW()
RETURNING id, created_at, updated_at`

// Upsert creates the budget or replaces the limit of the category's existing budget
func (r *BudgetRepository) Upsert(ctx context.Context, budget *domain.Budget) (*domain.Budget, error) {
	limit, err := decimalToPgNumeric(budget.LimitAmount)
	if err != nil {
		return nil, err
	}

	saved := *budget
	err = r.pool.QueryRow(ctx, upsertBudget, budget.Category, limit, string(budget.Period)).
		Scan(&saved.ID, &saved.CreatedAt, &saved.UpdatedAt)
	if err != nil {
		return nil, domain.NewStorageError("upsert budget", err)
	}
	return &saved, nil
}

// List returns every budget ordered by category
func (r *BudgetRepository) List(ctx context.Context) ([]*domain.Budget, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, category, limit_amount, period, created_at, updated_at
		FROM budgets
		ORDER BY category ASC`)
	if err != nil {
		return nil, domain.NewStorageError("list budgets", err)
	}
	defer rows.Close()

	budgets := make([]*domain.Budget, 0)
	for rows.Next() {
		var (
			b      domain.Budget
			limit  pgtype.Numeric
			period string
		)
		if err := rows.Scan(&b.ID, &b.Category, &limit, &period, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, domain.NewStorageError("scan budget", err)
		}
		b.LimitAmount = pgNumericToDecimal(limit)
		b.Period = domain.BudgetPeriod(period)
		budgets = append(budgets, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStorageError("list budgets", err)
	}
	return budgets, nil
}

// Delete removes a budget; an unknown id is not an error
func (r *BudgetRepository) Delete(ctx context.Context, id int32) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM budgets WHERE id = $1`, id)
	if err != nil {
		return false, domain.NewStorageError("delete budget", err)
	}
	return tag.RowsAffected() > 0, nil
}
