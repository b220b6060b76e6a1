package repository

import (
	"context"

	"gorm.io/gorm"
)

// SlugRepository is the shared data access for the two named-slug catalog
// entities. Category and Genre get one generic implementation each instead of
// two hand-copied ones.
type SlugRepository[T any] interface {
	Create(ctx context.Context, entity *T) error
	FindBySlug(ctx context.Context, slug string) (*T, error)
	List(ctx context.Context, search string, page, pageSize int) ([]T, int64, error)
	DeleteBySlug(ctx context.Context, slug string) error
}

type slugRepository[T any] struct {
	db *gorm.DB
}

func NewSlugRepository[T any](db *gorm.DB) SlugRepository[T] {
	return &slugRepository[T]{db: db}
}

func (r *slugRepository[T]) Create(ctx context.Context, entity *T) error {
	return r.db.WithContext(ctx).Create(entity).Error
}

func (r *slugRepository[T]) FindBySlug(ctx context.Context, slug string) (*T, error) {
	var entity T
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&entity).Error; err != nil {
		return nil, err
	}
	return &entity, nil
}

// List returns a page of entities, optionally filtered by a name substring.
func (r *slugRepository[T]) List(ctx context.Context, search string, page, pageSize int) ([]T, int64, error) {
	var entities []T
	var total int64
	var model T

	query := r.db.WithContext(ctx).Model(&model)
	if search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Order("name").Limit(pageSize).Offset(offset).Find(&entities).Error
	if err != nil {
		return nil, 0, err
	}

	return entities, total, nil
}

// DeleteBySlug removes the entity. Titles referencing a deleted category keep
// their row; the database clears the reference (ON DELETE SET NULL).
func (r *slugRepository[T]) DeleteBySlug(ctx context.Context, slug string) error {
	var model T
	result := r.db.WithContext(ctx).Where("slug = ?", slug).Delete(&model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
