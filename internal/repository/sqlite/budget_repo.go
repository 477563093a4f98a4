package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/dafibh/fortuna/fortuna-ledger/internal/domain"
)

// BudgetRepository implements domain.BudgetRepository on SQLite
type BudgetRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewBudgetRepository(db *sql.DB) *BudgetRepository {
	return &BudgetRepository{db: db, now: time.Now}
}

// Upsert keeps the original created_at when the category already has a budget
func (r *BudgetRepository) Upsert(ctx context.Context, budget *domain.Budget) (*domain.Budget, error) {
	now := formatTimestamp(r.now())

	var (
		id                   int64
		createdAt, updatedAt string
	)
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO budgets (category, limit_amount, period, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (category) DO UPDATE
		SET limit_amount = excluded.limit_amount,
		    period = excluded.period,
		    updated_at = excluded.updated_at
		RETURNING id, created_at, updated_at`,
		budget.Category,
		budget.LimitAmount.String(),
		string(budget.Period),
		now,
		now,
	).Scan(&id, &createdAt, &updatedAt)
	if err != nil {
		return nil, domain.NewStorageError("upsert budget", err)
	}

	saved := *budget
	saved.ID = int32(id)
	var s scanned
	saved.CreatedAt = s.timestamp(createdAt)
	saved.UpdatedAt = s.timestamp(updatedAt)
	if s.err != nil {
		return nil, domain.NewStorageError("decode budget", s.err)
	}
	return &saved, nil
}

func (r *BudgetRepository) List(ctx context.Context) ([]*domain.Budget, error) {
	rows, err := r.db.QueryContext(ctx, `
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
			b                                   domain.Budget
			limit, period, createdAt, updatedAt string
		)
		if err := rows.Scan(&b.ID, &b.Category, &limit, &period, &createdAt, &updatedAt); err != nil {
			return nil, domain.NewStorageError("scan budget", err)
		}
		var s scanned
		b.LimitAmount = s.decimal(limit)
		b.Period = domain.BudgetPeriod(period)
		b.CreatedAt = s.timestamp(createdAt)
		b.UpdatedAt = s.timestamp(updatedAt)
		if s.err != nil {
			return nil, domain.NewStorageError("decode budget", s.err)
		}
		budgets = append(budgets, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStorageError("list budgets", err)
	}
	return budgets, nil
}

func (r *BudgetRepository) Delete(ctx context.Context, id int32) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = ?`, id)
	if err != nil {
		return false, domain.NewStorageError("delete budget", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, domain.NewStorageError("delete budget", err)
	}
	return n > 0, nil
}
