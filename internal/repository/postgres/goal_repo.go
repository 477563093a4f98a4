package postgres

import (
	"context"

	"github.com/dafibh/fortuna/fortuna-ledger/internal/domain"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// GoalRepository implements domain.GoalRepository using PostgreSQL
type GoalRepository struct {
	pool *pgxpool.Pool
}

// NewGoalRepository creates a new GoalRepository
func NewGoalRepository(pool *pgxpool.Pool) *GoalRepository {
	return &GoalRepository{pool: pool}
}

// Create inserts a goal and returns it with its assigned id
func (r *GoalRepository) Create(ctx context.Context, goal *domain.Goal) (*domain.Goal, error) {
	nums, err := numerics(goal.TargetAmount, goal.CurrentAmount)
	if err != nil {
		return nil, err
	}

	created := *goal
	err = r.pool.QueryRow(ctx, `
		INSERT INTO goals (name, target_amount, current_amount, deadline, category)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		goal.Name, nums[0], nums[1], goal.Deadline, goal.Category,
	).Scan(&created.ID, &created.CreatedAt)
	if err != nil {
		return nil, domain.NewStorageError("create goal", err)
	}
	return &created, nil
}

// List returns every goal ordered by deadline
func (r *GoalRepository) List(ctx context.Context) ([]*domain.Goal, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, target_amount, current_amount, deadline, category, created_at
		FROM goals
		ORDER BY deadline ASC, id ASC`)
	if err != nil {
		return nil, domain.NewStorageError("list goals", err)
	}
	defer rows.Close()

	goals := make([]*domain.Goal, 0)
	for rows.Next() {
		var (
			g               domain.Goal
			target, current pgtype.Numeric
		)
		if err := rows.Scan(&g.ID, &g.Name, &target, &current, &g.Deadline, &g.Category, &g.CreatedAt); err != nil {
			return nil, domain.NewStorageError("scan goal", err)
		}
		g.TargetAmount = pgNumericToDecimal(target)
		g.CurrentAmount = pgNumericToDecimal(current)
		goals = append(goals, &g)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStorageError("list goals", err)
	}
	return goals, nil
}

// Delete removes a goal; an unknown id is not an error
func (r *GoalRepository) Delete(ctx context.Context, id int32) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM goals WHERE id = $1`, id)
	if err != nil {
		return false, domain.NewStorageError("delete goal", err)
	}
	return tag.RowsAffected() > 0, nil
}
