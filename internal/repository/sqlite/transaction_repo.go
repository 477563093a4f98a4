package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/dafibh/fortuna/fortuna-ledger/internal/domain"
)

// TransactionRepository implements domain.TransactionRepository on SQLite
type TransactionRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db, now: time.Now}
}

func (r *TransactionRepository) Create(ctx context.Context, transaction *domain.Transaction) (*domain.Transaction, error) {
	created := *transaction
	created.CreatedAt = r.now().UTC()

	var id int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO transactions (description, amount, type, category, date, is_recurring, installments, start_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		transaction.Description,
		transaction.Amount.String(),
		string(transaction.Type),
		transaction.Category,
		formatDate(transaction.Date),
		transaction.IsRecurring,
		transaction.Installments,
		formatDate(transaction.StartDate),
		formatTimestamp(created.CreatedAt),
	).Scan(&id)
	if err != nil {
		return nil, domain.NewStorageError("create transaction", err)
	}
	created.ID = int32(id)
	return &created, nil
}

func (r *TransactionRepository) List(ctx context.Context) ([]*domain.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, description, amount, type, category, date, is_recurring, installments, start_date, created_at
		FROM transactions
		ORDER BY date DESC, id DESC`)
	if err != nil {
		return nil, domain.NewStorageError("list transactions", err)
	}
	defer rows.Close()

	transactions := make([]*domain.Transaction, 0)
	for rows.Next() {
		var (
			t                                   domain.Transaction
			amount, typ, date, start, createdAt string
		)
		if err := rows.Scan(&t.ID, &t.Description, &amount, &typ, &t.Category, &date,
			&t.IsRecurring, &t.Installments, &start, &createdAt); err != nil {
			return nil, domain.NewStorageError("scan transaction", err)
		}
		var s scanned
		t.Amount = s.decimal(amount)
		t.Type = domain.TransactionType(typ)
		t.Date = s.date(date)
		t.StartDate = s.date(start)
		t.CreatedAt = s.timestamp(createdAt)
		if s.err != nil {
			return nil, domain.NewStorageError("decode transaction", s.err)
		}
		transactions = append(transactions, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStorageError("list transactions", err)
	}
	return transactions, nil
}

func (r *TransactionRepository) Delete(ctx context.Context, id int32) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return false, domain.NewStorageError("delete transaction", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, domain.NewStorageError("delete transaction", err)
	}
	return n > 0, nil
}
