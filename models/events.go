package models

import "sync"

// EditorEvent names a document event
type EditorEvent string

const (
	EventLoad              EditorEvent = "load"
	EventChange            EditorEvent = "change"
	EventSelect            EditorEvent = "select"
	EventNodeCreated       EditorEvent = "nodecreated"
	EventNodeRemoved       EditorEvent = "noderemoved"
	EventConnectionCreated EditorEvent = "connectioncreated"
	EventConnectionRemoved EditorEvent = "connectionremoved"
	EventGroupCreated      EditorEvent = "groupcreated"
	EventGroupRemoved      EditorEvent = "groupremoved"
)

// EventHandler receives a document event and its payload
type EventHandler func(event EditorEvent, payload any)

// EventListener fans document events out to registered handlers in
// registration order.
type EventListener struct {
	mu       sync.RWMutex
	handlers map[EditorEvent][]EventHandler
}

// NewEventListener creates an empty listener
func NewEventListener() *EventListener {
	return &EventListener{handlers: make(map[EditorEvent][]EventHandler)}
}

// On registers a handler for one or more events
func (l *EventListener) On(handler EventHandler, events ...EditorEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range events {
		l.handlers[e] = append(l.handlers[e], handler)
	}
}

// Trigger calls every handler registered for the event
func (l *EventListener) Trigger(event EditorEvent, payload any) {
	l.mu.RLock()
	handlers := append([]EventHandler(nil), l.handlers[event]...)
	l.mu.RUnlock()

	for _, h := range handlers {
		h(event, payload)
	}
}
