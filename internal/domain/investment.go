package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Investment is an allocation of funds. It only contributes to the invested total and is
// excluded from the available balance.
type Investment struct {
	ID             int32           `json:"id"`
	Name           string          `json:"name"`
	Amount         decimal.Decimal `json:"amount"`
	Type           string          `json:"type"`
	ExpectedReturn decimal.Decimal `json:"expectedReturn"`
	Date           time.Time       `json:"date"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// Validation constants shared by named records
const (
	MaxNameLength           = 255
	MaxInvestmentTypeLength = 100
)

type InvestmentRepository interface {
	Create(ctx context.Context, investment *Investment) (*Investment, error)
	List(ctx context.Context) ([]*Investment, error)
}
