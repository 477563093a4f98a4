package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Goal struct {
	ID            int32           `json:"id"`
	Name          string          `json:"name"`
	TargetAmount  decimal.Decimal `json:"targetAmount"`
	CurrentAmount decimal.Decimal `json:"currentAmount"`
	Deadline      time.Time       `json:"deadline"`
	Category      string          `json:"category"`
	CreatedAt     time.Time       `json:"createdAt"`
}

type GoalRepository interface {
	Create(ctx context.Context, goal *Goal) (*Goal, error)
	List(ctx context.Context) ([]*Goal, error)
	// Delete reports whether a goal was removed
	Delete(ctx context.Context, id int32) (bool, error)
}
