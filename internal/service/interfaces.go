package service

import (
	"context"

	"github.com/Koyo-os/template-service/internal/entity"
	"github.com/google/uuid"
)

type (
	Repository interface {
		Create(*entity.Template) error
		Get(uuid.UUID) (*entity.Template, error)
		Update(uuid.UUID, string, any) error
		UpdateMany(uuid.UUID, any) error
		Delete(uuid.UUID) error
	}

	Publisher interface {
		Publish(any, string) error
	}

	Casher interface {
		AddToCash(ctx context.Context, key string, payload any) error
		GetCashFor(ctx context.Context, key string) ([]byte, error)
		RemoveFromCash(ctx context.Context, key string) error
	}
)
