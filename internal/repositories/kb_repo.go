package repositories

import (
	"context"

	"tesla-crm/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ===========================================================================
// Knowledge Base Repository Implementation
// Small table of canned articles used by the chat responder
// (interface defined in interfaces.go)
// ===========================================================================

// kbRepo implementation
type kbRepo struct {
	db *gorm.DB
}

// NewKBRepository creates a new knowledge base repository
func NewKBRepository(db *gorm.DB) KBRepository {
	return &kbRepo{db: db}
}

// FindAll returns all articles
func (r *kbRepo) FindAll(ctx context.Context) ([]models.KBArticle, error) {
	var articles []models.KBArticle
	if err := r.db.WithContext(ctx).
		Order("slug ASC").
		Find(&articles).Error; err != nil {
		return nil, err
	}
	return articles, nil
}

// FindBySlug finds an article by slug
func (r *kbRepo) FindBySlug(ctx context.Context, slug string) (*models.KBArticle, error) {
	var article models.KBArticle
	if err := r.db.WithContext(ctx).
		First(&article, "slug = ?", slug).Error; err != nil {
		return nil, err
	}
	return &article, nil
}

// Upsert creates or updates an article by slug
func (r *kbRepo) Upsert(ctx context.Context, article *models.KBArticle) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slug"}},
			DoUpdates: clause.AssignmentColumns([]string{"title", "body", "tags", "updated_at"}),
		}).
		Create(article).Error
}
