package websocket

import (
	"sort"
	"strings"

	"github.com/dafibh/fortuna/fortuna-ledger/internal/event"
)

var knownEntities = map[event.Entity]bool{
	event.EntityTransaction: true,
	event.EntityInvestment:  true,
	event.EntityGoal:        true,
	event.EntityBudget:      true,
}

// Subscription is the set of entities a client listens to. Empty means all of them.
type Subscription map[event.Entity]bool

// Control actions accepted from clients
const (
	ActionSubscribe   = "subscribe"
	ActionUnsubscribe = "unsubscribe"
)

// ControlMessage is the JSON frame a client sends to change its subscription,
// e.g. {"action":"subscribe","entities":["goal"]}
type ControlMessage struct {
	Action   string   `json:"action"`
	Entities []string `json:"entities"`
}

func parseEntity(name string) (event.Entity, bool) {
	entity := event.Entity(strings.ToLower(strings.TrimSpace(name)))
	return entity, knownEntities[entity]
}

// ParseSubscription reads a comma separated entity list such as "transaction,budget".
// Unknown names are ignored.
func ParseSubscription(raw string) Subscription {
	return Subscription{}.With(strings.Split(raw, ",")...)
}

// Accepts reports whether events about entity pass the subscription
func (s Subscription) Accepts(entity event.Entity) bool {
	return len(s) == 0 || s[entity]
}

// With returns a copy extended by names
func (s Subscription) With(names ...string) Subscription {
	out := s.clone()
	for _, name := range names {
		if entity, ok := parseEntity(name); ok {
			out[entity] = true
		}
	}
	return out
}

// Without returns a copy minus names. Removing the last entity falls back to everything.
func (s Subscription) Without(names ...string) Subscription {
	out := s.clone()
	for _, name := range names {
		if entity, ok := parseEntity(name); ok {
			delete(out, entity)
		}
	}
	return out
}

// Names lists the subscribed entities in sorted order
func (s Subscription) Names() []string {
	names := make([]string, 0, len(s))
	for entity := range s {
		names = append(names, string(entity))
	}
	sort.Strings(names)
	return names
}

func (s Subscription) clone() Subscription {
	out := make(Subscription, len(s))
	for entity := range s {
		out[entity] = true
	}
	return out
}
