package listener

import (
	"context"
	"encoding/json"

	"github.com/Koyo-os/template-service/internal/entity"
	"github.com/Koyo-os/template-service/internal/service"
	"github.com/Koyo-os/template-service/pkg/config"
	"github.com/Koyo-os/template-service/pkg/logger"
	"go.uber.org/zap"
)

// Listener dispatches incoming broker events to the service by request type.
type Listener struct {
	inputChan chan entity.Event
	logger    *logger.Logger
	service   *service.Service
	cfg       *config.Config
}

func Init(
	inputChan chan entity.Event,
	logger *logger.Logger,
	cfg *config.Config,
	service *service.Service,
) *Listener {
	return &Listener{
		inputChan: inputChan,
		service:   service,
		logger:    logger,
		cfg:       cfg,
	}
}

func (list *Listener) Listen(ctx context.Context) {
	for {
		select {
		case event := <-list.inputChan:
			switch event.Type {
			case list.cfg.Reqs.CreateRequestType:
				tmpl := new(entity.Template)

				if err := json.Unmarshal(event.Payload, tmpl); err != nil {
					list.logger.Error("error unmarshal event payload to template",
						zap.String("event_type", event.Type),
						zap.String("event_id", event.ID),
						zap.Error(err))
					continue
				}

				if err := list.service.CreateTemplate(tmpl); err != nil {
					list.logger.Error("error create template", zap.Error(err))
					continue
				}

			case list.cfg.Reqs.UpdateStatusRequestType:
				var req struct {
					TemplateID string `json:"template_id"`
					Closed     bool   `json:"closed"`
				}

				if err := json.Unmarshal(event.Payload, &req); err != nil {
					list.logger.Error("error unmarshal status payload",
						zap.String("event_id", event.ID),
						zap.Error(err))
					continue
				}

				if err := list.service.UpdateStatus(req.TemplateID, req.Closed); err != nil {
					list.logger.Error("error update status",
						zap.String("template_id", req.TemplateID),
						zap.Error(err))
					continue
				}

			case list.cfg.Reqs.DeleteRequestType:
				var req struct {
					TemplateID string `json:"template_id"`
				}

				if err := json.Unmarshal(event.Payload, &req); err != nil {
					list.logger.Error("error unmarshal delete payload",
						zap.String("event_id", event.ID),
						zap.Error(err))
					continue
				}

				if err := list.service.DeleteTemplate(req.TemplateID); err != nil {
					list.logger.Error("error delete template",
						zap.String("template_id", req.TemplateID),
						zap.Error(err))
					continue
				}

			case list.cfg.Reqs.SubmitRequestType:
				sub := new(entity.Submission)

				if err := json.Unmarshal(event.Payload, sub); err != nil {
					list.logger.Error("error unmarshal submission payload",
						zap.String("event_id", event.ID),
						zap.Error(err))
					continue
				}

				if err := list.service.SubmitAnswers(sub); err != nil {
					list.logger.Error("error submit answers",
						zap.String("template_id", sub.TemplateID),
						zap.Error(err))
					continue
				}

			default:
				list.logger.Warn("unknown event type",
					zap.String("event_type", event.Type),
					zap.String("event_id", event.ID))
			}

		case <-ctx.Done():
			list.logger.Info("stopping listeners...")
			return
		}
	}
}
