package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dafibh/fortuna/fortuna-ledger/internal/calc"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/domain"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/event"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/util"
	"github.com/shopspring/decimal"
)

// GoalService handles savings goal business logic
type GoalService struct {
	eventSource
	goalRepo domain.GoalRepository
}

// NewGoalService creates a new GoalService
func NewGoalService(goalRepo domain.GoalRepository) *GoalService {
	return &GoalService{goalRepo: goalRepo}
}

// CreateGoalInput contains input for creating a goal
type CreateGoalInput struct {
	Name          string
	TargetAmount  decimal.Decimal
	CurrentAmount decimal.Decimal
	Deadline      time.Time
	Category      string
}

// CreateGoal validates and stores a new goal. The target must be positive.
func (s *GoalService) CreateGoal(ctx context.Context, input CreateGoalInput) (*domain.Goal, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if utf8.RuneCountInString(name) > domain.MaxNameLength {
		return nil, domain.ErrNameTooLong
	}
	if !input.TargetAmount.IsPositive() {
		return nil, domain.ErrInvalidTargetAmount
	}
	if input.CurrentAmount.IsNegative() {
		return nil, domain.ErrInvalidCurrentAmount
	}
	if input.Deadline.IsZero() {
		return nil, domain.ErrDateRequired
	}
	category := strings.TrimSpace(input.Category)
	if utf8.RuneCountInString(category) > domain.MaxCategoryLength {
		return nil, domain.ErrCategoryTooLong
	}

	created, err := s.goalRepo.Create(ctx, &domain.Goal{
		Name:          name,
		TargetAmount:  input.TargetAmount,
		CurrentAmount: input.CurrentAmount,
		Deadline:      util.DateOnly(input.Deadline),
		Category:      category,
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, event.GoalCreated(created))
	return created, nil
}

// GetGoals returns every goal ordered by deadline
func (s *GoalService) GetGoals(ctx context.Context) ([]*domain.Goal, error) {
	return s.goalRepo.List(ctx)
}

// DeleteGoal removes a goal. Deleting an unknown id succeeds silently.
func (s *GoalService) DeleteGoal(ctx context.Context, id int32) error {
	deleted, err := s.goalRepo.Delete(ctx, id)
	if err != nil || !deleted {
		return err
	}
	s.publishEvent(ctx, event.GoalDeleted(id))
	return nil
}

// GetGoalProgress evaluates the progress of every goal
func (s *GoalService) GetGoalProgress(ctx context.Context) ([]calc.GoalStatus, error) {
	goals, err := s.goalRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	return calc.GoalStatuses(goals), nil
}
