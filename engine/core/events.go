package core

import (
	"github.com/google/uuid"
)

// Event represents a game event
type Event struct {
	Type    EventType
	Payload interface{}
}

type EventType string

const (
	EvtEntityAdded   EventType = "entityAdded"
	EvtEntityRemoved EventType = "entityRemoved"
	EvtEntityDeath   EventType = "entityDeath"
	EvtEntityDamaged EventType = "entityDamaged"
	EvtCollision     EventType = "collision"
	EvtAttackStarted EventType = "attackStarted"
)

type EntityEvent struct {
	Entity EntityID
}

type DeathEvent struct {
	Entity EntityID
	Killer EntityID
}

type DamageEvent struct {
	Attacker  EntityID
	Target    EntityID
	Amount    int
	Remaining int
}

type AttackEvent struct {
	Attacker EntityID
	Target   EntityID
}

// CollisionEvent always carries A < B
type CollisionEvent struct {
	A, B EntityID
}

type EventHandler func(e Event)

// Subscription identifies one registered handler
type Subscription struct {
	ID   string
	Type EventType
}

type listener struct {
	id string
	h  EventHandler
}

// EventBus delivers events synchronously, in registration order, on the
// emitting goroutine
type EventBus struct {
	listeners map[EventType][]listener
}

func NewEventBus() *EventBus {
	return &EventBus{
		listeners: make(map[EventType][]listener),
	}
}

// On registers a handler for an event type
func (eb *EventBus) On(t EventType, h EventHandler) Subscription {
	id := uuid.NewString()
	eb.listeners[t] = append(eb.listeners[t], listener{id: id, h: h})
	return Subscription{ID: id, Type: t}
}

// Off removes a single handler. Unknown subscriptions are ignored.
func (eb *EventBus) Off(s Subscription) {
	ls := eb.listeners[s.Type]
	for i, l := range ls {
		if l.id == s.ID {
			next := make([]listener, 0, len(ls)-1)
			next = append(next, ls[:i]...)
			eb.listeners[s.Type] = append(next, ls[i+1:]...)
			return
		}
	}
}

// Emit dispatches immediately. Handlers added or removed during dispatch
// take effect from the next Emit.
func (eb *EventBus) Emit(t EventType, payload interface{}) {
	ls := eb.listeners[t]
	e := Event{Type: t, Payload: payload}
	for _, l := range ls {
		l.h(e)
	}
}

// HandlerCount returns how many handlers are registered for t
func (eb *EventBus) HandlerCount(t EventType) int {
	return len(eb.listeners[t])
}
