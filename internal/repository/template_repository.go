// Package repository provides data persistence functionality using GORM
package repository

import (
	"github.com/Koyo-os/template-service/internal/entity"
	"github.com/Koyo-os/template-service/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Repository handles template persistence through GORM.
type Repository struct {
	db     *gorm.DB
	logger *logger.Logger
}

// Init creates and returns a new Repository instance
func Init(db *gorm.DB, logger *logger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Create persists a new template row.
func (repo *Repository) Create(tmpl *entity.Template) error {
	res := repo.db.Create(tmpl)

	if err := res.Error; err != nil {
		repo.logger.Error("error create template", zap.Error(err))
		return err
	}

	return nil
}

// Get retrieves a template by its ID.
func (repo *Repository) Get(ID uuid.UUID) (*entity.Template, error) {
	var tmpl entity.Template

	res := repo.db.Where("ID = ?", ID).First(&tmpl)
	if err := res.Error; err != nil {
		repo.logger.Error("error get template",
			zap.String("template_id", ID.String()),
			zap.Error(err),
		)
		return nil, err
	}

	return &tmpl, nil
}

// List returns every template, optionally filtered by category.
func (repo *Repository) List(category string) ([]entity.Template, error) {
	var templates []entity.Template

	query := repo.db
	if category != "" {
		query = query.Where("Category = ?", category)
	}

	res := query.Find(&templates)
	if err := res.Error; err != nil {
		repo.logger.Error("error list templates",
			zap.String("category", category),
			zap.Error(err),
		)
		return nil, err
	}

	return templates, nil
}

// Update modifies a single column of a template.
func (repo *Repository) Update(ID uuid.UUID, key string, value any) error {
	res := repo.db.Model(&entity.Template{}).Where("ID = ?", ID).Update(key, value)

	if err := res.Error; err != nil {
		repo.logger.Error("error update template",
			zap.String("template_id", ID.String()),
			zap.String("column", key),
			zap.Error(err),
		)
		return err
	}

	return nil
}

// UpdateMany updates multiple columns of a template simultaneously.
func (repo *Repository) UpdateMany(ID uuid.UUID, value any) error {
	res := repo.db.Model(&entity.Template{}).Where("ID = ?", ID).Updates(value)

	if err := res.Error; err != nil {
		repo.logger.Error("error update many",
			zap.String("template_id", ID.String()),
			zap.Error(err))
		return err
	}

	return nil
}

// Delete removes a template row.
func (repo *Repository) Delete(ID uuid.UUID) error {
	res := repo.db.Where("ID = ?", ID).Delete(&entity.Template{})

	if err := res.Error; err != nil {
		repo.logger.Error("error delete template",
			zap.String("template_id", ID.String()),
			zap.Error(err),
		)
		return err
	}

	return nil
}

// IsHealthy reports whether the underlying database connection responds.
func (repo *Repository) IsHealthy() bool {
	sqlDB, err := repo.db.DB()
	if err != nil {
		return false
	}
	return sqlDB.Ping() == nil
}
