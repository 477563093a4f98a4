package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dafibh/fortuna/fortuna-ledger/internal/domain"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/event"
)

// MockTransactionRepository is a mock implementation of domain.TransactionRepository
type MockTransactionRepository struct {
	mu           sync.Mutex
	Transactions map[int32]*domain.Transaction
	nextID       int32
	// Err, when set, is returned by every method
	Err error
	// CreateErr is returned by Create once FailAfter creates have succeeded
	CreateErr error
	FailAfter int
	creates   int
}

// NewMockTransactionRepository creates a new MockTransactionRepository
func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		Transactions: make(map[int32]*domain.Transaction),
		nextID:       1,
	}
}

// AddTransaction adds a transaction to the mock repository (test helper)
func (m *MockTransactionRepository) AddTransaction(tx *domain.Transaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if tx.ID == 0 {
		tx.ID = m.nextID
	}
	if tx.ID >= m.nextID {
		m.nextID = tx.ID + 1
	}
	m.Transactions[tx.ID] = tx
}

// Create stores a copy of the transaction with a new ID
func (m *MockTransactionRepository) Create(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	if m.CreateErr != nil && m.creates >= m.FailAfter {
		return nil, m.CreateErr
	}
	m.creates++

	created := *tx
	created.ID = m.nextID
	created.CreatedAt = time.Now().UTC()
	m.nextID++
	m.Transactions[created.ID] = &created
	return &created, nil
}

// List returns every transaction ordered by date descending, then ID descending
func (m *MockTransactionRepository) List(ctx context.Context) ([]*domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	result := make([]*domain.Transaction, 0, len(m.Transactions))
	for _, tx := range m.Transactions {
		result = append(result, tx)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.After(result[j].Date)
		}
		return result[i].ID > result[j].ID
	})
	return result, nil
}

// Delete removes a transaction; unknown IDs are ignored
func (m *MockTransactionRepository) Delete(ctx context.Context, id int32) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return false, m.Err
	}
	_, ok := m.Transactions[id]
	delete(m.Transactions, id)
	return ok, nil
}

// MockInvestmentRepository is a mock implementation of domain.InvestmentRepository
type MockInvestmentRepository struct {
	mu          sync.Mutex
	Investments map[int32]*domain.Investment
	nextID      int32
	Err         error
}

// NewMockInvestmentRepository creates a new MockInvestmentRepository
func NewMockInvestmentRepository() *MockInvestmentRepository {
	return &MockInvestmentRepository{
		Investments: make(map[int32]*domain.Investment),
		nextID:      1,
	}
}

// AddInvestment adds an investment to the mock repository (test helper)
func (m *MockInvestmentRepository) AddInvestment(inv *domain.Investment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if inv.ID == 0 {
		inv.ID = m.nextID
	}
	m.nextID = inv.ID + 1
	m.Investments[inv.ID] = inv
}

// Create stores a copy of the investment with a new ID
func (m *MockInvestmentRepository) Create(ctx context.Context, inv *domain.Investment) (*domain.Investment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	created := *inv
	created.ID = m.nextID
	created.CreatedAt = time.Now().UTC()
	m.nextID++
	m.Investments[created.ID] = &created
	return &created, nil
}

// List returns every investment ordered by date descending
func (m *MockInvestmentRepository) List(ctx context.Context) ([]*domain.Investment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	result := make([]*domain.Investment, 0, len(m.Investments))
	for _, inv := range m.Investments {
		result = append(result, inv)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.After(result[j].Date)
		}
		return result[i].ID > result[j].ID
	})
	return result, nil
}

// MockGoalRepository is a mock implementation of domain.GoalRepository
type MockGoalRepository struct {
	mu     sync.Mutex
	Goals  map[int32]*domain.Goal
	nextID int32
	Err    error
}

// NewMockGoalRepository creates a new MockGoalRepository
func NewMockGoalRepository() *MockGoalRepository {
	return &MockGoalRepository{
		Goals:  make(map[int32]*domain.Goal),
		nextID: 1,
	}
}

// AddGoal adds a goal to the mock repository (test helper)
func (m *MockGoalRepository) AddGoal(goal *domain.Goal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if goal.ID == 0 {
		goal.ID = m.nextID
	}
	m.nextID = goal.ID + 1
	m.Goals[goal.ID] = goal
}

// Create stores a copy of the goal with a new ID
func (m *MockGoalRepository) Create(ctx context.Context, goal *domain.Goal) (*domain.Goal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	created := *goal
	created.ID = m.nextID
	created.CreatedAt = time.Now().UTC()
	m.nextID++
	m.Goals[created.ID] = &created
	return &created, nil
}

// List returns every goal ordered by deadline
func (m *MockGoalRepository) List(ctx context.Context) ([]*domain.Goal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	result := make([]*domain.Goal, 0, len(m.Goals))
	for _, g := range m.Goals {
		result = append(result, g)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Deadline.Equal(result[j].Deadline) {
			return result[i].Deadline.Before(result[j].Deadline)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// Delete removes a goal; unknown IDs are ignored
func (m *MockGoalRepository) Delete(ctx context.Context, id int32) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return false, m.Err
	}
	_, ok := m.Goals[id]
	delete(m.Goals, id)
	return ok, nil
}

// MockBudgetRepository is a mock implementation of domain.BudgetRepository keyed by category
type MockBudgetRepository struct {
	mu      sync.Mutex
	Budgets map[string]*domain.Budget
	nextID  int32
	Err     error
}

// NewMockBudgetRepository creates a new MockBudgetRepository
func NewMockBudgetRepository() *MockBudgetRepository {
	return &MockBudgetRepository{
		Budgets: make(map[string]*domain.Budget),
		nextID:  1,
	}
}

// Upsert inserts the budget or replaces the limit of the category's budget
func (m *MockBudgetRepository) Upsert(ctx context.Context, budget *domain.Budget) (*domain.Budget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	now := time.Now().UTC()
	if existing, ok := m.Budgets[budget.Category]; ok {
		existing.LimitAmount = budget.LimitAmount
		existing.Period = budget.Period
		existing.UpdatedAt = now
		saved := *existing
		return &saved, nil
	}

	created := *budget
	created.ID = m.nextID
	created.CreatedAt = now
	created.UpdatedAt = now
	m.nextID++
	m.Budgets[created.Category] = &created
	saved := created
	return &saved, nil
}

// List returns every budget ordered by category
func (m *MockBudgetRepository) List(ctx context.Context) ([]*domain.Budget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	result := make([]*domain.Budget, 0, len(m.Budgets))
	for _, b := range m.Budgets {
		result = append(result, b)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Category < result[j].Category })
	return result, nil
}

// Delete removes the budget with id; unknown IDs are ignored
func (m *MockBudgetRepository) Delete(ctx context.Context, id int32) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return false, m.Err
	}
	deleted := false
	for category, b := range m.Budgets {
		if b.ID == id {
			delete(m.Budgets, category)
			deleted = true
		}
	}
	return deleted, nil
}

// MockEventPublisher records published events
type MockEventPublisher struct {
	mu     sync.Mutex
	Events []event.Event
}

// NewMockEventPublisher creates a new MockEventPublisher
func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{}
}

// Publish records the event
func (m *MockEventPublisher) Publish(ctx context.Context, e event.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, e)
}

// Types returns the types of the recorded events in order
func (m *MockEventPublisher) Types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]string, len(m.Events))
	for i, e := range m.Events {
		types[i] = e.Type
	}
	return types
}

// MockReportArchive is an in-memory storage.ReportArchive
type MockReportArchive struct {
	mu      sync.Mutex
	Objects map[string][]byte
	Err     error
}

// NewMockReportArchive creates a new MockReportArchive
func NewMockReportArchive() *MockReportArchive {
	return &MockReportArchive{Objects: make(map[string][]byte)}
}

// Store keeps a copy of data under key
func (m *MockReportArchive) Store(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return "", m.Err
	}
	m.Objects[key] = append([]byte(nil), data...)
	return key, nil
}

// DownloadURL returns a fake link to key
func (m *MockReportArchive) DownloadURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	return "https://archive.test/" + key, nil
}

// NewMockRepositories creates one empty mock of each ledger repository
func NewMockRepositories() (*MockTransactionRepository, *MockInvestmentRepository, *MockGoalRepository, *MockBudgetRepository) {
	return NewMockTransactionRepository(), NewMockInvestmentRepository(), NewMockGoalRepository(), NewMockBudgetRepository()
}
