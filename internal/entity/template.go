// Package entity defines the core data structures used throughout the application
package entity

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/Koyo-os/template-service/internal/document"
	"github.com/google/uuid"
)

type (
	// Template represents a stored audit template. The section/question/rule
	// graph and the scoring rules are embedded as the two JSON-encoded
	// payloads produced by the document codec.
	Template struct {
		ID           uuid.UUID `gorm:"type:uuid;primaryKey"` // Unique identifier
		Name         string    // Template name
		Description  string    // Template description or purpose
		Category     string    // Audit category
		Author       string    // Creator of the template
		Closed       bool      // Whether the template is closed for new audits
		Questions    string    `gorm:"type:text"` // JSON-encoded section structure and conditional logic
		ScoringRules string    `gorm:"type:text"` // JSON-encoded scoring rules
		CreatedAt    time.Time // Creation timestamp
	}

	// OutputTemplate is a DTO for template data in API responses
	OutputTemplate struct {
		ID           string `json:"id"`
		Name         string `json:"name"`
		Description  string `json:"description"`
		Category     string `json:"category"`
		Author       string `json:"author"`
		Closed       bool   `json:"closed"`
		Questions    string `json:"questions"`
		ScoringRules string `json:"scoring_rules"`
		CreatedAt    string `json:"created_at"`
	}
)

func (t *Template) Validate() error {
	if t.ID == uuid.Nil {
		return errors.New("template ID can not be nil")
	}
	if t.Author == "" {
		return errors.New("author can not be empty")
	}
	if t.Name == "" {
		return errors.New("template name can not be empty")
	}

	return nil
}

// ToOutput converts a Template entity to its DTO representation
func (t *Template) ToOutput() OutputTemplate {
	return OutputTemplate{
		ID:           t.ID.String(),
		Name:         t.Name,
		Description:  t.Description,
		Category:     t.Category,
		Author:       t.Author,
		Closed:       t.Closed,
		Questions:    t.Questions,
		ScoringRules: t.ScoringRules,
		CreatedAt:    t.CreatedAt.String(),
	}
}

// ToJson converts a Template entity to its JSON representation
func (t *Template) ToJson() ([]byte, error) {
	out := t.ToOutput()
	return json.Marshal(&out)
}

// Document decodes the embedded JSON payloads into the in-memory document
// graph. A decode failure surfaces as *document.MalformedTemplateError so
// callers can fall back to an empty document.
func (t *Template) Document() (*document.Document, error) {
	doc, err := document.Decode(t.Questions, t.ScoringRules)
	if err != nil {
		return nil, err
	}
	doc.Name = t.Name
	doc.Description = t.Description
	doc.Category = t.Category
	return doc, nil
}

// SetDocument encodes the document graph into the embedded JSON payloads,
// replacing name, description and category from the graph as well.
func (t *Template) SetDocument(doc *document.Document) error {
	structure, scoring, err := document.Encode(doc)
	if err != nil {
		return err
	}
	t.Name = doc.Name
	t.Description = doc.Description
	t.Category = doc.Category
	t.Questions = structure
	t.ScoringRules = scoring
	return nil
}
