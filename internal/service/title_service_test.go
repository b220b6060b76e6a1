package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"ratehub/internal/apperr"
	"ratehub/internal/authz"
	"ratehub/internal/dto"
	"ratehub/internal/models"
	"ratehub/internal/repository"
)

func newTestTitleService(
	titleRepo *MockTitleRepository,
	reviewRepo *MockReviewRepository,
	categoryRepo *MockSlugRepository[models.Category],
	genreRepo *MockSlugRepository[models.Genre],
) TitleService {
	return NewTitleService(titleRepo, reviewRepo, categoryRepo, genreRepo)
}

func TestTitleGet_NoReviewsMeansNilRating(t *testing.T) {
	titleRepo := new(MockTitleRepository)
	reviewRepo := new(MockReviewRepository)
	svc := newTestTitleService(titleRepo, reviewRepo, new(MockSlugRepository[models.Category]), new(MockSlugRepository[models.Genre]))

	titleRepo.On("FindByID", mock.Anything, int64(1)).Return(&models.Title{ID: 1, Name: "Solaris", Year: 1972}, nil)
	reviewRepo.On("RatingsByTitle", mock.Anything, []int64{1}).Return(map[int64]float64{}, nil)

	resp, err := svc.Get(context.Background(), 1)

	assert.NoError(t, err)
	// undefined, never zero
	assert.Nil(t, resp.Rating)
}

func TestTitleGet_RatingIsMeanOfScores(t *testing.T) {
	titleRepo := new(MockTitleRepository)
	reviewRepo := new(MockReviewRepository)
	svc := newTestTitleService(titleRepo, reviewRepo, new(MockSlugRepository[models.Category]), new(MockSlugRepository[models.Genre]))

	titleRepo.On("FindByID", mock.Anything, int64(1)).Return(&models.Title{ID: 1, Name: "Solaris", Year: 1972}, nil)
	// 7 and 8 average to 7.5, no integer division
	reviewRepo.On("RatingsByTitle", mock.Anything, []int64{1}).Return(map[int64]float64{1: 7.5}, nil)

	resp, err := svc.Get(context.Background(), 1)

	assert.NoError(t, err)
	assert.NotNil(t, resp.Rating)
	assert.InDelta(t, 7.5, *resp.Rating, 0.0001)
}

func TestTitleList_RatingsFetchedPerPage(t *testing.T) {
	titleRepo := new(MockTitleRepository)
	reviewRepo := new(MockReviewRepository)
	svc := newTestTitleService(titleRepo, reviewRepo, new(MockSlugRepository[models.Category]), new(MockSlugRepository[models.Genre]))

	titles := []models.Title{{ID: 1, Name: "Solaris", Year: 1972}, {ID: 2, Name: "Stalker", Year: 1979}}
	titleRepo.On("List", mock.Anything, repository.TitleFilter{}, 1, 20).Return(titles, int64(2), nil)
	reviewRepo.On("RatingsByTitle", mock.Anything, []int64{1, 2}).Return(map[int64]float64{1: 9.0}, nil)

	resp, err := svc.List(context.Background(), repository.TitleFilter{}, 1, 20)

	assert.NoError(t, err)
	assert.Len(t, resp.Data, 2)
	assert.NotNil(t, resp.Data[0].Rating)
	assert.InDelta(t, 9.0, *resp.Data[0].Rating, 0.0001)
	assert.Nil(t, resp.Data[1].Rating)
}

func TestTitleCreate_NonAdminForbidden(t *testing.T) {
	titleRepo := new(MockTitleRepository)
	svc := newTestTitleService(titleRepo, new(MockReviewRepository), new(MockSlugRepository[models.Category]), new(MockSlugRepository[models.Genre]))

	actor := authz.Actor{ID: "u1", Role: models.RoleUser, Active: true}
	_, err := svc.Create(context.Background(), actor, dto.CreateTitleRequest{
		Name:  "Solaris",
		Year:  1972,
		Genre: []string{"sci-fi"},
	})

	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
	titleRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestTitleCreate_FutureYearRejected(t *testing.T) {
	titleRepo := new(MockTitleRepository)
	svc := newTestTitleService(titleRepo, new(MockReviewRepository), new(MockSlugRepository[models.Category]), new(MockSlugRepository[models.Genre]))

	actor := authz.Actor{ID: "admin-1", Role: models.RoleAdmin, Active: true}
	_, err := svc.Create(context.Background(), actor, dto.CreateTitleRequest{
		Name:  "From the Future",
		Year:  time.Now().Year() + 1,
		Genre: []string{"sci-fi"},
	})

	appErr, ok := apperr.As(err)
	assert.True(t, ok)
	assert.Equal(t, apperr.KindValidation, appErr.Kind)
	assert.Contains(t, appErr.Fields, "year")
}

func TestTitleCreate_ResolvesSlugs(t *testing.T) {
	titleRepo := new(MockTitleRepository)
	categoryRepo := new(MockSlugRepository[models.Category])
	genreRepo := new(MockSlugRepository[models.Genre])
	svc := newTestTitleService(titleRepo, new(MockReviewRepository), categoryRepo, genreRepo)

	category := &models.Category{Slugged: models.Slugged{ID: 3, Name: "Film", Slug: "film"}}
	genre := &models.Genre{Slugged: models.Slugged{ID: 5, Name: "Sci-Fi", Slug: "sci-fi"}}
	categoryRepo.On("FindBySlug", mock.Anything, "film").Return(category, nil)
	genreRepo.On("FindBySlug", mock.Anything, "sci-fi").Return(genre, nil)
	titleRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Title")).Return(nil)

	actor := authz.Actor{ID: "admin-1", Role: models.RoleAdmin, Active: true}
	resp, err := svc.Create(context.Background(), actor, dto.CreateTitleRequest{
		Name:     "Solaris",
		Year:     1972,
		Genre:    []string{"sci-fi"},
		Category: "film",
	})

	assert.NoError(t, err)
	assert.Equal(t, "film", resp.Category.Slug)
	assert.Len(t, resp.Genre, 1)
	assert.Nil(t, resp.Rating)
}

func TestTitleCreate_UnknownGenre(t *testing.T) {
	titleRepo := new(MockTitleRepository)
	genreRepo := new(MockSlugRepository[models.Genre])
	svc := newTestTitleService(titleRepo, new(MockReviewRepository), new(MockSlugRepository[models.Category]), genreRepo)

	genreRepo.On("FindBySlug", mock.Anything, "nope").Return(nil, gorm.ErrRecordNotFound)

	actor := authz.Actor{ID: "admin-1", Role: models.RoleAdmin, Active: true}
	_, err := svc.Create(context.Background(), actor, dto.CreateTitleRequest{
		Name:  "Solaris",
		Year:  1972,
		Genre: []string{"nope"},
	})

	appErr, ok := apperr.As(err)
	assert.True(t, ok)
	assert.Equal(t, apperr.KindValidation, appErr.Kind)
	assert.Contains(t, appErr.Fields, "genre")
	titleRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
