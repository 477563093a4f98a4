package postgres

import (
	"context"

	"github.com/dafibh/fortuna/fortuna-ledger/internal/domain"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TransactionRepository implements domain.TransactionRepository using PostgreSQL
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

const createTransaction = `
INSERT INTO transactions (description, amount, type, category, date, is_recurring, installments, start_date)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id, created_at`

const listTransactions = `
SELECT id, description, amount, type, category, date, is_recurring, installments, start_date, created_at
FROM transactions
ORDER BY date DESC, id DESC`

// Create inserts a transaction and returns it with its assigned id
func (r *TransactionRepository) Create(ctx context.Context, transaction *domain.Transaction) (*domain.Transaction, error) {
	amount, err := decimalToPgNumeric(transaction.Amount)
	if err != nil {
		return nil, err
	}

	created := *transaction
	err = r.pool.QueryRow(ctx, createTransaction,
		transaction.Description,
		amount,
		string(transaction.Type),
		transaction.Category,
		transaction.Date,
		transaction.IsRecurring,
		transaction.Installments,
		transaction.StartDate,
	).Scan(&created.ID, &created.CreatedAt)
	if err != nil {
		return nil, domain.NewStorageError("create transaction", err)
	}
	return &created, nil
}

// List returns every transaction, newest date first
func (r *TransactionRepository) List(ctx context.Context) ([]*domain.Transaction, error) {
	rows, err := r.pool.Query(ctx, listTransactions)
	if err != nil {
		return nil, domain.NewStorageError("list transactions", err)
	}
	defer rows.Close()

	transactions := make([]*domain.Transaction, 0)
	for rows.Next() {
		var (
			t      domain.Transaction
			amount pgtype.Numeric
			typ    string
		)
		if err := rows.Scan(&t.ID, &t.Description, &amount, &typ, &t.Category, &t.Date,
			&t.IsRecurring, &t.Installments, &t.StartDate, &t.CreatedAt); err != nil {
			return nil, domain.NewStorageError("scan transaction", err)
		}
		t.Amount = pgNumericToDecimal(amount)
		t.Type = domain.TransactionType(typ)
		transactions = append(transactions, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStorageError("list transactions", err)
	}
	return transactions, nil
}

// Delete removes a transaction; an unknown id affects no rows and is not an error
func (r *TransactionRepository) Delete(ctx context.Context, id int32) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return false, domain.NewStorageError("delete transaction", err)
	}
	return tag.RowsAffected() > 0, nil
}
