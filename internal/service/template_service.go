// Package service orchestrates template persistence, caching and event
// publishing behind small backend interfaces.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Koyo-os/template-service/internal/document"
	"github.com/Koyo-os/template-service/internal/entity"
	"github.com/Koyo-os/template-service/pkg/logger"
	"github.com/Koyo-os/template-service/pkg/retrier"
	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Routing keys for outgoing events.
const (
	EventTemplateCreated   = "template.created"
	EventTemplateUpdated   = "template.updated"
	EventTemplateDeleted   = "template.deleted"
	EventTemplateSubmitted = "template.submitted"
)

type Service struct {
	casher    Casher
	repo      Repository
	publisher Publisher
	logger    *logger.Logger
	timeout   time.Duration
}

func Init(casher Casher, repo Repository, publisher Publisher, timeout time.Duration) *Service {
	return &Service{
		casher:    casher,
		repo:      repo,
		publisher: publisher,
		logger:    logger.Get(),
		timeout:   timeout,
	}
}

func (s *Service) opContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.timeout)
}

// CreateTemplate persists a new template, caches it and announces it.
// Caching runs concurrently with publishing; either failure fails the call.
func (s *Service) CreateTemplate(tmpl *entity.Template) error {
	if tmpl == nil {
		return errors.New("template cannot be nil")
	}
	if err := tmpl.Validate(); err != nil {
		return fmt.Errorf("invalid template: %w", err)
	}

	if err := s.repo.Create(tmpl); err != nil {
		return fmt.Errorf("failed to create template in repository: %w", err)
	}

	ctx, cancel := s.opContext()
	defer cancel()

	cherr := make(chan error, 1)

	go func() {
		cherr <- retrier.Do(3, 5, func() error {
			return s.casher.AddToCash(ctx, tmpl.ID.String(), tmpl)
		})
	}()

	if err := s.publisher.Publish(tmpl, EventTemplateCreated); err != nil {
		return fmt.Errorf("failed to publish create event: %w", err)
	}

	if err := <-cherr; err != nil {
		return fmt.Errorf("failed to cash template: %w", err)
	}

	return nil
}

// GetTemplate loads a template cache-first, falling back to the repository
// and re-warming the cache on a miss.
func (s *Service) GetTemplate(id string) (*entity.Template, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid template id: %w", err)
	}

	ctx, cancel := s.opContext()
	defer cancel()

	if data, err := s.casher.GetCashFor(ctx, id); err == nil {
		var tmpl entity.Template
		if err := sonic.Unmarshal(data, &tmpl); err == nil {
			return &tmpl, nil
		}
		s.logger.Warn("corrupt cache entry, falling back to repository",
			zap.String("template_id", id))
	}

	tmpl, err := s.repo.Get(uid)
	if err != nil {
		return nil, fmt.Errorf("failed to get template: %w", err)
	}

	if err := s.casher.AddToCash(ctx, id, tmpl); err != nil {
		s.logger.Warn("failed to re-warm cache",
			zap.String("template_id", id),
			zap.Error(err))
	}

	return tmpl, nil
}

// LoadDocument decodes the stored template into its document graph. When
// either JSON payload is malformed, it returns an empty document alongside
// the *document.MalformedTemplateError so the caller can keep working and
// surface the failure.
func (s *Service) LoadDocument(id string) (*document.Document, error) {
	tmpl, err := s.GetTemplate(id)
	if err != nil {
		return nil, err
	}

	doc, err := tmpl.Document()
	if err != nil {
		var malformed *document.MalformedTemplateError
		if errors.As(err, &malformed) {
			s.logger.Error("stored template is malformed",
				zap.String("template_id", id),
				zap.String("field", malformed.Field),
				zap.Error(err))
			return document.New(tmpl.Name, tmpl.Description, tmpl.Category), err
		}
		return nil, err
	}

	return doc, nil
}

// SaveDocument encodes the document graph and writes both JSON payloads to
// the stored template in one update, then refreshes cache and publishes.
func (s *Service) SaveDocument(id string, doc *document.Document) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid template id: %w", err)
	}
	if doc == nil {
		return errors.New("document cannot be nil")
	}
	if err := doc.Validate(); err != nil {
		return fmt.Errorf("invalid document: %w", err)
	}

	structure, scoring, err := document.Encode(doc)
	if err != nil {
		return err
	}

	if err := s.repo.UpdateMany(uid, &entity.Template{
		Name:         doc.Name,
		Description:  doc.Description,
		Category:     doc.Category,
		Questions:    structure,
		ScoringRules: scoring,
	}); err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}

	ctx, cancel := s.opContext()
	defer cancel()

	tmpl, err := s.repo.Get(uid)
	if err != nil {
		s.logger.Warn("saved document but could not reload template",
			zap.String("template_id", id),
			zap.Error(err))
		return s.publisher.Publish(map[string]string{"template_id": id}, EventTemplateUpdated)
	}

	if err := retrier.Do(3, 5, func() error {
		return s.casher.AddToCash(ctx, id, tmpl)
	}); err != nil {
		s.logger.Warn("failed to refresh cache after save",
			zap.String("template_id", id),
			zap.Error(err))
	}

	return s.publisher.Publish(tmpl, EventTemplateUpdated)
}

// UpdateStatus opens or closes a template for new audits.
func (s *Service) UpdateStatus(id string, closed bool) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid template id: %w", err)
	}

	if err := s.repo.Update(uid, "Closed", closed); err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	ctx, cancel := s.opContext()
	defer cancel()

	if err := s.casher.RemoveFromCash(ctx, id); err != nil {
		s.logger.Warn("failed to evict cache entry",
			zap.String("template_id", id),
			zap.Error(err))
	}

	return s.publisher.Publish(map[string]any{
		"template_id": id,
		"closed":      closed,
	}, EventTemplateUpdated)
}

// DeleteTemplate removes the template from storage and cache.
func (s *Service) DeleteTemplate(id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid template id: %w", err)
	}

	if err := s.repo.Delete(uid); err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}

	ctx, cancel := s.opContext()
	defer cancel()

	if err := s.casher.RemoveFromCash(ctx, id); err != nil {
		s.logger.Warn("failed to evict cache entry",
			zap.String("template_id", id),
			zap.Error(err))
	}

	return s.publisher.Publish(map[string]string{"template_id": id}, EventTemplateDeleted)
}

// SubmitAnswers forwards a completed audit across the submission boundary.
// The answers are opaque here; the template only has to exist and be open.
func (s *Service) SubmitAnswers(sub *entity.Submission) error {
	if sub == nil {
		return errors.New("submission cannot be nil")
	}
	if err := sub.Validate(); err != nil {
		return fmt.Errorf("invalid submission: %w", err)
	}

	tmpl, err := s.GetTemplate(sub.TemplateID)
	if err != nil {
		return err
	}
	if tmpl.Closed {
		return fmt.Errorf("template %s is closed for submissions", sub.TemplateID)
	}

	return s.publisher.Publish(sub, EventTemplateSubmitted)
}
