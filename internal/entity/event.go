package entity

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Event is the envelope for every message crossing the broker, both incoming
// requests and outgoing notifications.
type Event struct {
	ID        string    `json:"id"`
	Payload   []byte    `json:"payload"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
}

// Submission carries a completed audit's answers across the submission
// boundary. The answer values are opaque to this service.
type Submission struct {
	TemplateID string         `json:"template_id"`
	Answers    map[string]any `json:"answers"`
}

func NewEvent(Type string, payload []byte) *Event {
	return &Event{
		ID:        uuid.New().String(),
		Payload:   payload,
		Type:      Type,
		Timestamp: time.Now(),
	}
}

func (e *Event) Validate() error {
	if e.ID == "" {
		return errors.New("event_id is nil")
	}

	if e.Payload == nil {
		return errors.New("payload is nil")
	}

	if e.Type == "" {
		return errors.New("type is nil")
	}

	return nil
}

func (s *Submission) Validate() error {
	if s.TemplateID == "" {
		return errors.New("template_id is empty")
	}

	if len(s.Answers) == 0 {
		return errors.New("answers are empty")
	}

	return nil
}
