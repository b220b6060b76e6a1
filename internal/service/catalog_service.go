package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"ratehub/internal/apperr"
	"ratehub/internal/authz"
	"ratehub/internal/dto"
	"ratehub/internal/models"
	"ratehub/internal/repository"
)

// SlugService is the shared behavior of the category and genre endpoints:
// open listing, admin-only create and delete.
type SlugService interface {
	List(ctx context.Context, search string, page, pageSize int) (*dto.Paginated[dto.SlugResponse], error)
	Create(ctx context.Context, actor authz.Actor, req dto.CreateSlugRequest) (*dto.SlugResponse, error)
	Delete(ctx context.Context, actor authz.Actor, slug string) error
}

type slugService[T any] struct {
	repo     repository.SlugRepository[T]
	resource authz.Resource
	name     string
	wrap     func(models.Slugged) T
	unwrap   func(T) models.Slugged
}

func NewCategoryService(repo repository.SlugRepository[models.Category]) SlugService {
	return &slugService[models.Category]{
		repo:     repo,
		resource: authz.ResourceCategory,
		name:     "category",
		wrap:     func(s models.Slugged) models.Category { return models.Category{Slugged: s} },
		unwrap:   func(c models.Category) models.Slugged { return c.Slugged },
	}
}

func NewGenreService(repo repository.SlugRepository[models.Genre]) SlugService {
	return &slugService[models.Genre]{
		repo:     repo,
		resource: authz.ResourceGenre,
		name:     "genre",
		wrap:     func(s models.Slugged) models.Genre { return models.Genre{Slugged: s} },
		unwrap:   func(g models.Genre) models.Slugged { return g.Slugged },
	}
}

func (s *slugService[T]) List(ctx context.Context, search string, page, pageSize int) (*dto.Paginated[dto.SlugResponse], error) {
	entities, total, err := s.repo.List(ctx, search, page, pageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.SlugResponse, 0, len(entities))
	for _, entity := range entities {
		responses = append(responses, dto.FromSlugged(s.unwrap(entity)))
	}
	return dto.NewPaginated(responses, int(total), page, pageSize), nil
}

func (s *slugService[T]) Create(ctx context.Context, actor authz.Actor, req dto.CreateSlugRequest) (*dto.SlugResponse, error) {
	if err := check(authz.Authorize(actor, authz.Write, s.resource, "")); err != nil {
		return nil, err
	}

	entity := s.wrap(models.Slugged{Name: req.Name, Slug: req.Slug})
	if err := s.repo.Create(ctx, &entity); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict(s.name + " with this name or slug already exists")
		}
		return nil, err
	}

	resp := dto.FromSlugged(s.unwrap(entity))
	return &resp, nil
}

func (s *slugService[T]) Delete(ctx context.Context, actor authz.Actor, slug string) error {
	if err := check(authz.Authorize(actor, authz.Destroy, s.resource, "")); err != nil {
		return err
	}

	if err := s.repo.DeleteBySlug(ctx, slug); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound(s.name)
		}
		return err
	}
	return nil
}
