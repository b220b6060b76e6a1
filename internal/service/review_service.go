package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"ratehub/internal/apperr"
	"ratehub/internal/authz"
	"ratehub/internal/dto"
	"ratehub/internal/models"
	"ratehub/internal/repository"
)

type ReviewService interface {
	ListByTitle(ctx context.Context, titleID int64, page, pageSize int) (*dto.Paginated[dto.ReviewResponse], error)
	Get(ctx context.Context, titleID, reviewID int64) (*dto.ReviewResponse, error)
	// Create posts the actor's review of a title. A second review of the
	// same title by the same author is a conflict; the first one stays.
	Create(ctx context.Context, actor authz.Actor, titleID int64, req dto.CreateReviewRequest) (*dto.ReviewResponse, error)
	Update(ctx context.Context, actor authz.Actor, titleID, reviewID int64, req dto.UpdateReviewRequest) (*dto.ReviewResponse, error)
	Delete(ctx context.Context, actor authz.Actor, titleID, reviewID int64) error
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
	titleRepo  repository.TitleRepository
}

func NewReviewService(reviewRepo repository.ReviewRepository, titleRepo repository.TitleRepository) ReviewService {
	return &reviewService{reviewRepo: reviewRepo, titleRepo: titleRepo}
}

func (s *reviewService) ListByTitle(ctx context.Context, titleID int64, page, pageSize int) (*dto.Paginated[dto.ReviewResponse], error) {
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, err
	}

	reviews, total, err := s.reviewRepo.ListByTitle(ctx, titleID, page, pageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		responses = append(responses, *dto.FromModelToReviewResponse(&reviews[i]))
	}
	return dto.NewPaginated(responses, int(total), page, pageSize), nil
}

func (s *reviewService) Get(ctx context.Context, titleID, reviewID int64) (*dto.ReviewResponse, error) {
	review, err := s.findInTitle(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToReviewResponse(review), nil
}

func (s *reviewService) Create(ctx context.Context, actor authz.Actor, titleID int64, req dto.CreateReviewRequest) (*dto.ReviewResponse, error) {
	if err := check(authz.Authorize(actor, authz.Write, authz.ResourceReview, actor.ID)); err != nil {
		return nil, err
	}
	if err := validateScore(req.Score); err != nil {
		return nil, err
	}
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, err
	}

	review := &models.Review{
		AuthorID: actor.ID,
		TitleID:  titleID,
		Text:     req.Text,
		Score:    req.Score,
	}
	// The unique index arbitrates duplicates, including concurrent ones.
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("you have already reviewed this title")
		}
		return nil, err
	}

	created, err := s.reviewRepo.FindByID(ctx, review.ID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToReviewResponse(created), nil
}

func (s *reviewService) Update(ctx context.Context, actor authz.Actor, titleID, reviewID int64, req dto.UpdateReviewRequest) (*dto.ReviewResponse, error) {
	review, err := s.findInTitle(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	if err := check(authz.Authorize(actor, authz.Write, authz.ResourceReview, review.AuthorID)); err != nil {
		return nil, err
	}

	if req.Text != nil {
		review.Text = *req.Text
	}
	if req.Score != nil {
		if err := validateScore(*req.Score); err != nil {
			return nil, err
		}
		review.Score = *req.Score
	}

	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, err
	}
	return dto.FromModelToReviewResponse(review), nil
}

func (s *reviewService) Delete(ctx context.Context, actor authz.Actor, titleID, reviewID int64) error {
	review, err := s.findInTitle(ctx, titleID, reviewID)
	if err != nil {
		return err
	}
	if err := check(authz.Authorize(actor, authz.Destroy, authz.ResourceReview, review.AuthorID)); err != nil {
		return err
	}
	return s.reviewRepo.Delete(ctx, review.ID)
}

func (s *reviewService) requireTitle(ctx context.Context, titleID int64) error {
	if _, err := s.titleRepo.FindByID(ctx, titleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("title")
		}
		return err
	}
	return nil
}

// findInTitle looks up the review and rejects IDs that belong to another
// title's review tree.
func (s *reviewService) findInTitle(ctx context.Context, titleID, reviewID int64) (*models.Review, error) {
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, err
	}

	review, err := s.reviewRepo.FindByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("review")
		}
		return nil, err
	}
	if review.TitleID != titleID {
		return nil, apperr.NotFound("review")
	}
	return review, nil
}

func validateScore(score int) error {
	if score < models.ScoreMin {
		return apperr.ValidationField("score", fmt.Sprintf("score cannot be below %d", models.ScoreMin))
	}
	if score > models.ScoreMax {
		return apperr.ValidationField("score", fmt.Sprintf("score cannot be above %d", models.ScoreMax))
	}
	return nil
}
