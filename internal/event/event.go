package event

import (
	"encoding/json"
	"fmt"
	"time"
)

// Action represents what happened to an entity
type Action string

const (
	ActionCreated  Action = "created"
	ActionUpdated  Action = "updated"
	ActionDeleted  Action = "deleted"
	ActionImported Action = "imported"
)

// Entity represents the kind of ledger record an event is about
type Entity string

const (
	EntityTransaction Entity = "transaction"
	EntityInvestment  Entity = "investment"
	EntityGoal        Entity = "goal"
	EntityBudget      Entity = "budget"
)

// Event is a ledger change notification
// Format: { type, entity, payload, timestamp }
type Event struct {
	Type      string      `json:"type"`      // Combined type e.g. "transaction.created"
	Entity    Entity      `json:"entity"`    // Entity type e.g. "transaction"
	Payload   interface{} `json:"payload"`   // Full entity data, or {"id": n} for deletes
	Timestamp time.Time   `json:"timestamp"`
}

// New creates an event for the given action, entity, and payload
func New(action Action, entity Entity, payload interface{}) Event {
	return Event{
		Type:      fmt.Sprintf("%s.%s", entity, action),
		Entity:    entity,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON serializes the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// DeletedPayload is the payload of every *.deleted event
type DeletedPayload struct {
	ID int32 `json:"id"`
}

// ImportedPayload is the payload of transaction.imported
type ImportedPayload struct {
	BatchID  string `json:"batchId"`
	Imported int    `json:"imported"`
}

func TransactionCreated(payload interface{}) Event {
	return New(ActionCreated, EntityTransaction, payload)
}

func TransactionDeleted(id int32) Event {
	return New(ActionDeleted, EntityTransaction, DeletedPayload{ID: id})
}

func TransactionsImported(batchID string, imported int) Event {
	return New(ActionImported, EntityTransaction, ImportedPayload{BatchID: batchID, Imported: imported})
}

func InvestmentCreated(payload interface{}) Event {
	return New(ActionCreated, EntityInvestment, payload)
}

func GoalCreated(payload interface{}) Event {
	return New(ActionCreated, EntityGoal, payload)
}

func GoalDeleted(id int32) Event {
	return New(ActionDeleted, EntityGoal, DeletedPayload{ID: id})
}

// BudgetUpdated is emitted for both inserts and limit replacements
func BudgetUpdated(payload interface{}) Event {
	return New(ActionUpdated, EntityBudget, payload)
}

func BudgetDeleted(id int32) Event {
	return New(ActionDeleted, EntityBudget, DeletedPayload{ID: id})
}
