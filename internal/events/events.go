// Package events carries domain notifications to the websocket hub and,
// when configured, to a message broker.
package events

import (
	"context"
	"errors"
	"time"
)

const (
	TypeSaleUpdate  = "sale_update"
	TypeStockUpdate = "stock_update"

	ActionSaleCreated      = "sale_created"
	ActionSaleDemoted      = "sale_demoted"
	ActionInventoryUpdated = "inventory_updated"
)

// Event is the JSON payload every sink receives. Key is used for
// partitioning and routing only.
type Event struct {
	Type       string      `json:"type"`
	Action     string      `json:"action"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data"`
	OccurredAt time.Time   `json:"occurredAt"`
	Key        string      `json:"-"`
}

func New(eventType, action, key, message string, data interface{}) Event {
	return Event{
		Type:       eventType,
		Action:     action,
		Message:    message,
		Data:       data,
		OccurredAt: time.Now().UTC(),
		Key:        key,
	}
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// Fanout delivers each event to every publisher and joins their errors
type Fanout []Publisher

func (f Fanout) Publish(ctx context.Context, event Event) error {
	var err error
	for _, p := range f {
		err = errors.Join(err, p.Publish(ctx, event))
	}
	return err
}

func (f Fanout) Close() error {
	var err error
	for _, p := range f {
		err = errors.Join(err, p.Close())
	}
	return err
}

type nop struct{}

func (nop) Publish(context.Context, Event) error { return nil }
func (nop) Close() error                         { return nil }

// Nop discards everything
var Nop Publisher = nop{}
