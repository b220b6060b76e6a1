package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"ratehub/internal/apperr"
	"ratehub/internal/authz"
	"ratehub/internal/dto"
	"ratehub/internal/models"
	"ratehub/internal/repository"
)

type TitleService interface {
	List(ctx context.Context, filter repository.TitleFilter, page, pageSize int) (*dto.Paginated[dto.TitleResponse], error)
	Get(ctx context.Context, id int64) (*dto.TitleResponse, error)
	Create(ctx context.Context, actor authz.Actor, req dto.CreateTitleRequest) (*dto.TitleResponse, error)
	Update(ctx context.Context, actor authz.Actor, id int64, req dto.UpdateTitleRequest) (*dto.TitleResponse, error)
	Delete(ctx context.Context, actor authz.Actor, id int64) error
}

type titleService struct {
	titleRepo    repository.TitleRepository
	reviewRepo   repository.ReviewRepository
	categoryRepo repository.SlugRepository[models.Category]
	genreRepo    repository.SlugRepository[models.Genre]
}

func NewTitleService(
	titleRepo repository.TitleRepository,
	reviewRepo repository.ReviewRepository,
	categoryRepo repository.SlugRepository[models.Category],
	genreRepo repository.SlugRepository[models.Genre],
) TitleService {
	return &titleService{
		titleRepo:    titleRepo,
		reviewRepo:   reviewRepo,
		categoryRepo: categoryRepo,
		genreRepo:    genreRepo,
	}
}

// List returns a page of titles, each with its rating derived from the
// current review set in one aggregate query.
func (s *titleService) List(ctx context.Context, filter repository.TitleFilter, page, pageSize int) (*dto.Paginated[dto.TitleResponse], error) {
	titles, total, err := s.titleRepo.List(ctx, filter, page, pageSize)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(titles))
	for i := range titles {
		ids = append(ids, titles[i].ID)
	}
	ratings, err := s.reviewRepo.RatingsByTitle(ctx, ids)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.TitleResponse, 0, len(titles))
	for i := range titles {
		responses = append(responses, *dto.FromModelToTitleResponse(&titles[i], ratingOrNil(ratings, titles[i].ID)))
	}
	return dto.NewPaginated(responses, int(total), page, pageSize), nil
}

func (s *titleService) Get(ctx context.Context, id int64) (*dto.TitleResponse, error) {
	title, err := s.titleRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("title")
		}
		return nil, err
	}

	ratings, err := s.reviewRepo.RatingsByTitle(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	return dto.FromModelToTitleResponse(title, ratingOrNil(ratings, id)), nil
}

func (s *titleService) Create(ctx context.Context, actor authz.Actor, req dto.CreateTitleRequest) (*dto.TitleResponse, error) {
	if err := check(authz.Authorize(actor, authz.Write, authz.ResourceTitle, "")); err != nil {
		return nil, err
	}
	if err := validateYear(req.Year); err != nil {
		return nil, err
	}

	genres, err := s.resolveGenres(ctx, req.Genre)
	if err != nil {
		return nil, err
	}

	title := &models.Title{
		Name:        req.Name,
		Year:        req.Year,
		Description: req.Description,
		Genres:      genres,
	}
	if req.Category != "" {
		category, err := s.resolveCategory(ctx, req.Category)
		if err != nil {
			return nil, err
		}
		title.CategoryID = &category.ID
		title.Category = category
	}

	if err := s.titleRepo.Create(ctx, title); err != nil {
		return nil, err
	}

	// a fresh title has no reviews, so no rating
	return dto.FromModelToTitleResponse(title, nil), nil
}

func (s *titleService) Update(ctx context.Context, actor authz.Actor, id int64, req dto.UpdateTitleRequest) (*dto.TitleResponse, error) {
	if err := check(authz.Authorize(actor, authz.Write, authz.ResourceTitle, "")); err != nil {
		return nil, err
	}

	title, err := s.titleRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("title")
		}
		return nil, err
	}

	if req.Name != nil {
		title.Name = *req.Name
	}
	if req.Year != nil {
		if err := validateYear(*req.Year); err != nil {
			return nil, err
		}
		title.Year = *req.Year
	}
	if req.Description != nil {
		title.Description = req.Description
	}
	if req.Category != nil {
		if *req.Category == "" {
			title.CategoryID = nil
			title.Category = nil
		} else {
			category, err := s.resolveCategory(ctx, *req.Category)
			if err != nil {
				return nil, err
			}
			title.CategoryID = &category.ID
			title.Category = category
		}
	}

	if err := s.titleRepo.Update(ctx, title); err != nil {
		return nil, err
	}

	if req.Genre != nil {
		genres, err := s.resolveGenres(ctx, *req.Genre)
		if err != nil {
			return nil, err
		}
		if err := s.titleRepo.ReplaceGenres(ctx, title, genres); err != nil {
			return nil, err
		}
		title.Genres = genres
	}

	return s.Get(ctx, id)
}

// Delete removes the title; its reviews and their comments go with it via
// the database cascades.
func (s *titleService) Delete(ctx context.Context, actor authz.Actor, id int64) error {
	if err := check(authz.Authorize(actor, authz.Destroy, authz.ResourceTitle, "")); err != nil {
		return err
	}

	if err := s.titleRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("title")
		}
		return err
	}
	return nil
}

func (s *titleService) resolveCategory(ctx context.Context, slug string) (*models.Category, error) {
	category, err := s.categoryRepo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ValidationField("category", fmt.Sprintf("unknown category %q", slug))
		}
		return nil, err
	}
	return category, nil
}

func (s *titleService) resolveGenres(ctx context.Context, slugs []string) ([]models.Genre, error) {
	if len(slugs) == 0 {
		return nil, apperr.ValidationField("genre", "a title needs at least one genre")
	}

	genres := make([]models.Genre, 0, len(slugs))
	for _, slug := range slugs {
		genre, err := s.genreRepo.FindBySlug(ctx, slug)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.ValidationField("genre", fmt.Sprintf("unknown genre %q", slug))
			}
			return nil, err
		}
		genres = append(genres, *genre)
	}
	return genres, nil
}

func validateYear(year int) error {
	currentYear := time.Now().Year()
	if year > currentYear {
		return apperr.ValidationField("year", fmt.Sprintf("year cannot exceed the current year %d", currentYear))
	}
	return nil
}

func ratingOrNil(ratings map[int64]float64, titleID int64) *float64 {
	if rating, ok := ratings[titleID]; ok {
		return &rating
	}
	return nil
}
