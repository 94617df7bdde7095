package nats

import (
	"encoding/json"
	"time"

	"notekeeper-be/pkg/events"
)

// envelope is the wire form of an event on the EVENTS stream.
type envelope struct {
	ID         string                 `json:"id,omitempty"`
	Type       string                 `json:"type"`
	OccurredAt time.Time              `json:"occurred_at"`
	Data       map[string]interface{} `json:"data"`
}

func encode(event events.Event) ([]byte, error) {
	return json.Marshal(envelope{
		ID:         eventID(event),
		Type:       event.EventType(),
		OccurredAt: event.Timestamp().UTC(),
		Data:       event.Payload(),
	})
}

func decode(subject string, raw []byte) (events.BaseEvent, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return events.BaseEvent{}, err
	}
	if env.Type == "" {
		env.Type = subject
	}
	if env.OccurredAt.IsZero() {
		env.OccurredAt = time.Now().UTC()
	}
	return events.BaseEvent{ID: env.ID, Type: env.Type, Data: env.Data, OccurredAt: env.OccurredAt}, nil
}

func subjectFor(eventType string) string {
	return streamSubjectPrefix + eventType
}

func eventID(event events.Event) string {
	if identified, ok := event.(events.Identified); ok {
		return identified.EventID()
	}
	return ""
}
