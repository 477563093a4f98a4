package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/dafibh/fortuna/fortuna-ledger/internal/domain"
)

// GoalRepository implements domain.GoalRepository on SQLite
type GoalRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewGoalRepository(db *sql.DB) *GoalRepository {
	return &GoalRepository{db: db, now: time.Now}
}

func (r *GoalRepository) Create(ctx context.Context, goal *domain.Goal) (*domain.Goal, error) {
	created := *goal
	created.CreatedAt = r.now().UTC()

	var id int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO goals (name, target_amount, current_amount, deadline, category, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id`,
		goal.Name,
		goal.TargetAmount.String(),
		goal.CurrentAmount.String(),
		formatDate(goal.Deadline),
		goal.Category,
		formatTimestamp(created.CreatedAt),
	).Scan(&id)
	if err != nil {
		return nil, domain.NewStorageError("create goal", err)
	}
	created.ID = int32(id)
	return &created, nil
}

func (r *GoalRepository) List(ctx context.Context) ([]*domain.Goal, error) {
	rows, err := r.db.QueryContext(ctx, `
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
			g                                    domain.Goal
			target, current, deadline, createdAt string
		)
		if err := rows.Scan(&g.ID, &g.Name, &target, &current, &deadline, &g.Category, &createdAt); err != nil {
			return nil, domain.NewStorageError("scan goal", err)
		}
		var s scanned
		g.TargetAmount = s.decimal(target)
		g.CurrentAmount = s.decimal(current)
		g.Deadline = s.date(deadline)
		g.CreatedAt = s.timestamp(createdAt)
		if s.err != nil {
			return nil, domain.NewStorageError("decode goal", s.err)
		}
		goals = append(goals, &g)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStorageError("list goals", err)
	}
	return goals, nil
}

func (r *GoalRepository) Delete(ctx context.Context, id int32) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM goals WHERE id = ?`, id)
	if err != nil {
		return false, domain.NewStorageError("delete goal", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, domain.NewStorageError("delete goal", err)
	}
	return n > 0, nil
}
