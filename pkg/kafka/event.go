package kafka

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EventVersion is the envelope schema version written by this package.
const EventVersion = 1

// Event is the envelope for every storefront activity message. ProfileID is
// the message key, so all events of one shopper land on one partition in order.
type Event struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	ProfileID     string          `json:"profile_id"`
	Version       int             `json:"version"`
	Timestamp     time.Time       `json:"timestamp"`
	Source        string          `json:"source"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Data          json.RawMessage `json:"data"`
}

// NewEvent builds an event for profileID with a fresh id and a UTC timestamp.
func NewEvent(eventType, profileID, source string, data any) (*Event, error) {
	if profileID == "" {
		return nil, fmt.Errorf("event %s: profile id is required", eventType)
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", eventType, err)
	}

	return &Event{
		EventID:   uuid.NewString(),
		EventType: eventType,
		ProfileID: profileID,
		Version:   EventVersion,
		Timestamp: time.Now().UTC(),
		Source:    source,
		Data:      payload,
	}, nil
}

// WithCorrelationID sets the correlation ID on the event.
func (e *Event) WithCorrelationID(id string) *Event {
	e.CorrelationID = id
	return e
}

// UnmarshalData decodes the payload into target.
func (e *Event) UnmarshalData(target any) error {
	return json.Unmarshal(e.Data, target)
}
