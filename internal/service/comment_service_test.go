package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"ratehub/internal/apperr"
	"ratehub/internal/authz"
	"ratehub/internal/dto"
	"ratehub/internal/models"
)

func commentFixture() *models.Comment {
	return &models.Comment{
		ID:       3,
		AuthorID: "u1",
		ReviewID: 7,
		Text:     "agreed",
		Author:   models.User{ID: "u1", Username: "alice"},
	}
}

func TestCommentCreate_Success(t *testing.T) {
	actor := authz.Actor{ID: "u1", Role: models.RoleUser, Active: true}

	commentRepo := new(MockCommentRepository)
	reviewRepo := new(MockReviewRepository)
	svc := NewCommentService(commentRepo, reviewRepo)

	reviewRepo.On("FindByID", mock.Anything, int64(7)).Return(reviewFixture(), nil)
	commentRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Comment")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*models.Comment).ID = 3
		}).Return(nil)
	commentRepo.On("FindByID", mock.Anything, int64(3)).Return(commentFixture(), nil)

	resp, err := svc.Create(context.Background(), actor, 42, 7, dto.CreateCommentRequest{Text: "agreed"})

	assert.NoError(t, err)
	assert.Equal(t, "alice", resp.Author)
	assert.Equal(t, "agreed", resp.Text)
}

func TestCommentCreate_MissingReviewIsNotFound(t *testing.T) {
	actor := authz.Actor{ID: "u1", Role: models.RoleUser, Active: true}

	commentRepo := new(MockCommentRepository)
	reviewRepo := new(MockReviewRepository)
	svc := NewCommentService(commentRepo, reviewRepo)

	reviewRepo.On("FindByID", mock.Anything, int64(999)).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Create(context.Background(), actor, 42, 999, dto.CreateCommentRequest{Text: "orphan"})

	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	commentRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCommentCreate_ReviewUnderOtherTitleIsNotFound(t *testing.T) {
	actor := authz.Actor{ID: "u1", Role: models.RoleUser, Active: true}

	commentRepo := new(MockCommentRepository)
	reviewRepo := new(MockReviewRepository)
	svc := NewCommentService(commentRepo, reviewRepo)

	// review 7 belongs to title 42, addressed through title 1
	reviewRepo.On("FindByID", mock.Anything, int64(7)).Return(reviewFixture(), nil)

	_, err := svc.Create(context.Background(), actor, 1, 7, dto.CreateCommentRequest{Text: "misaddressed"})

	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	commentRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCommentCreate_AnonymousUnauthenticated(t *testing.T) {
	commentRepo := new(MockCommentRepository)
	reviewRepo := new(MockReviewRepository)
	svc := NewCommentService(commentRepo, reviewRepo)

	_, err := svc.Create(context.Background(), authz.Actor{}, 42, 7, dto.CreateCommentRequest{Text: "hi"})

	assert.True(t, apperr.IsKind(err, apperr.KindAuthRequired))
}

func TestCommentUpdate_NonOwnerForbidden(t *testing.T) {
	actor := authz.Actor{ID: "u2", Role: models.RoleUser, Active: true}

	commentRepo := new(MockCommentRepository)
	reviewRepo := new(MockReviewRepository)
	svc := NewCommentService(commentRepo, reviewRepo)

	reviewRepo.On("FindByID", mock.Anything, int64(7)).Return(reviewFixture(), nil)
	commentRepo.On("FindByID", mock.Anything, int64(3)).Return(commentFixture(), nil)

	_, err := svc.Update(context.Background(), actor, 42, 7, 3, dto.UpdateCommentRequest{Text: strPtr("edited")})

	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
	commentRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestCommentUpdate_ModeratorAllowed(t *testing.T) {
	actor := authz.Actor{ID: "mod-1", Role: models.RoleModerator, Active: true}

	commentRepo := new(MockCommentRepository)
	reviewRepo := new(MockReviewRepository)
	svc := NewCommentService(commentRepo, reviewRepo)

	reviewRepo.On("FindByID", mock.Anything, int64(7)).Return(reviewFixture(), nil)
	commentRepo.On("FindByID", mock.Anything, int64(3)).Return(commentFixture(), nil)
	commentRepo.On("Update", mock.Anything, mock.AnythingOfType("*models.Comment")).Return(nil)

	resp, err := svc.Update(context.Background(), actor, 42, 7, 3, dto.UpdateCommentRequest{Text: strPtr("moderated")})

	assert.NoError(t, err)
	assert.Equal(t, "moderated", resp.Text)
}

func TestCommentDelete_AuthorAllowed(t *testing.T) {
	actor := authz.Actor{ID: "u1", Role: models.RoleUser, Active: true}

	commentRepo := new(MockCommentRepository)
	reviewRepo := new(MockReviewRepository)
	svc := NewCommentService(commentRepo, reviewRepo)

	reviewRepo.On("FindByID", mock.Anything, int64(7)).Return(reviewFixture(), nil)
	commentRepo.On("FindByID", mock.Anything, int64(3)).Return(commentFixture(), nil)
	commentRepo.On("Delete", mock.Anything, int64(3)).Return(nil)

	err := svc.Delete(context.Background(), actor, 42, 7, 3)

	assert.NoError(t, err)
	commentRepo.AssertExpectations(t)
}
