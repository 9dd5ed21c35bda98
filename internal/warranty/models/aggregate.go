// Package models defines the domain aggregates of the warranty platform:
// customers, assets, inspections, policies, warranties and claims.
// Aggregates are plain Go values built from persisted rows; they may carry
// an event publisher used to commit the domain events they record.
package models

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	e "github.com/gartstein/warranty/internal/warranty/errors"
	"github.com/google/uuid"
)

// Publisher delivers committed domain events.
type Publisher interface {
	Publish(ctx context.Context, events ...Event) error
}

// EventType names a domain event.
type EventType string

const (
	ClaimStatusChanged EventType = "claim_status_changed"
)

// Event is a domain event recorded by an aggregate.
type Event struct {
	ID            string          `json:"id"`
	Type          EventType       `json:"type"`
	AggregateID   string          `json:"aggregateId"`
	AggregateType string          `json:"aggregateType"`
	TenantID      string          `json:"tenantId"`
	OccurredAt    time.Time       `json:"occurredAt"`
	Payload       json.RawMessage `json:"payload,omitempty"`
}

// NewEvent builds an event with a fresh id and a JSON-encoded payload.
func NewEvent(eventType EventType, aggregateType, aggregateID, tenantID string, payload any) (Event, error) {
	var raw json.RawMessage
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return Event{}, fmt.Errorf("failed to encode %s payload: %w", eventType, err)
		}
		raw = data
	}
	return Event{
		ID:            uuid.NewString(),
		Type:          eventType,
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		TenantID:      tenantID,
		OccurredAt:    time.Now().UTC(),
		Payload:       raw,
	}, nil
}

// Decode unmarshals the event payload into v.
func (ev Event) Decode(v any) error {
	if len(ev.Payload) == 0 {
		return fmt.Errorf("%w: empty payload for %s", e.ErrInvalidInput, ev.Type)
	}
	return json.Unmarshal(ev.Payload, v)
}

// AggregateRoot tracks uncommitted events and the publisher they are
// committed through. The zero value has no publisher.
type AggregateRoot struct {
	publisher Publisher
	pending   []Event
}

// MergeContext attaches a publisher. A nil publisher leaves the current one.
func (a *AggregateRoot) MergeContext(publisher Publisher) {
	if publisher != nil {
		a.publisher = publisher
	}
}

// Publisher returns the attached publisher, if any.
func (a *AggregateRoot) Publisher() Publisher {
	return a.publisher
}

// Apply records an event for a later Commit.
func (a *AggregateRoot) Apply(event Event) {
	a.pending = append(a.pending, event)
}

// Uncommitted returns a copy of the recorded events.
func (a *AggregateRoot) Uncommitted() []Event {
	out := make([]Event, len(a.pending))
	copy(out, a.pending)
	return out
}

// Commit publishes the recorded events and clears them. Events are kept
// when there is no publisher or publishing fails.
func (a *AggregateRoot) Commit(ctx context.Context) error {
	if len(a.pending) == 0 {
		return nil
	}
	if a.publisher == nil {
		return e.ErrNoPublisher
	}
	if err := a.publisher.Publish(ctx, a.pending...); err != nil {
		return fmt.Errorf("failed to publish events: %w", err)
	}
	a.pending = nil
	return nil
}
