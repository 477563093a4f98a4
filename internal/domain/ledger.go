package domain

// Ledger is a read-only snapshot of every collection, loaded once per request
type Ledger struct {
	Transactions []*Transaction `json:"transactions"`
	Investments  []*Investment  `json:"investments"`
	Goals        []*Goal        `json:"goals"`
	Budgets      []*Budget      `json:"budgets"`
}
