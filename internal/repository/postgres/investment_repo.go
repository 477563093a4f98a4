package postgres

import (
	"context"

	"github.com/dafibh/fortuna/fortuna-ledger/internal/domain"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// InvestmentRepository implements domain.InvestmentRepository using PostgreSQL
type InvestmentRepository struct {
	pool *pgxpool.Pool
}

// NewInvestmentRepository creates a new InvestmentRepository
func NewInvestmentRepository(pool *pgxpool.Pool) *InvestmentRepository {
	return &InvestmentRepository{pool: pool}
}

// Create inserts an investment and returns it with its assigned id
func (r *InvestmentRepository) Create(ctx context.Context, investment *domain.Investment) (*domain.Investment, error) {
	nums, err := numerics(investment.Amount, investment.ExpectedReturn)
	if err != nil {
		return nil, err
	}

	created := *investment
	err = r.pool.QueryRow(ctx, `
		INSERT INTO investments (name, amount, type, expected_return, date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		investment.Name, nums[0], investment.Type, nums[1], investment.Date,
	).Scan(&created.ID, &created.CreatedAt)
	if err != nil {
		return nil, domain.NewStorageError("create investment", err)
	}
	return &created, nil
}

// List returns every investment, newest date first
func (r *InvestmentRepository) List(ctx context.Context) ([]*domain.Investment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, amount, type, expected_return, date, created_at
		FROM investments
		ORDER BY date DESC, id DESC`)
	if err != nil {
		return nil, domain.NewStorageError("list investments", err)
	}
	defer rows.Close()

	investments := make([]*domain.Investment, 0)
	for rows.Next() {
		var (
			inv         domain.Investment
			amount, ret pgtype.Numeric
		)
		if err := rows.Scan(&inv.ID, &inv.Name, &amount, &inv.Type, &ret, &inv.Date, &inv.CreatedAt); err != nil {
			return nil, domain.NewStorageError("scan investment", err)
		}
		inv.Amount = pgNumericToDecimal(amount)
		inv.ExpectedReturn = pgNumericToDecimal(ret)
		investments = append(investments, &inv)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStorageError("list investments", err)
	}
	return investments, nil
}
