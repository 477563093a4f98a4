package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/dafibh/fortuna/fortuna-ledger/internal/domain"
)

// InvestmentRepository implements domain.InvestmentRepository on SQLite
type InvestmentRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewInvestmentRepository(db *sql.DB) *InvestmentRepository {
	return &InvestmentRepository{db: db, now: time.Now}
}

func (r *InvestmentRepository) Create(ctx context.Context, investment *domain.Investment) (*domain.Investment, error) {
	created := *investment
	created.CreatedAt = r.now().UTC()

	var id int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO investments (name, amount, type, expected_return, date, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id`,
		investment.Name,
		investment.Amount.String(),
		investment.Type,
		investment.ExpectedReturn.String(),
		formatDate(investment.Date),
		formatTimestamp(created.CreatedAt),
	).Scan(&id)
	if err != nil {
		return nil, domain.NewStorageError("create investment", err)
	}
	created.ID = int32(id)
	return &created, nil
}

func (r *InvestmentRepository) List(ctx context.Context) ([]*domain.Investment, error) {
	rows, err := r.db.QueryContext(ctx, `
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
			inv                          domain.Investment
			amount, ret, date, createdAt string
		)
		if err := rows.Scan(&inv.ID, &inv.Name, &amount, &inv.Type, &ret, &date, &createdAt); err != nil {
			return nil, domain.NewStorageError("scan investment", err)
		}
		var s scanned
		inv.Amount = s.decimal(amount)
		inv.ExpectedReturn = s.decimal(ret)
		inv.Date = s.date(date)
		inv.CreatedAt = s.timestamp(createdAt)
		if s.err != nil {
			return nil, domain.NewStorageError("decode investment", s.err)
		}
		investments = append(investments, &inv)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStorageError("list investments", err)
	}
	return investments, nil
}
