package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/Alemu2502/mern-ecommerce-portfolio/internal/model"
	"github.com/Alemu2502/mern-ecommerce-portfolio/internal/repository"
)

var ErrReviewNotFound = errors.New("Review not found")

type ReviewService struct {
	Reviews  *repository.ReviewRepository
	Products *repository.ProductRepository
}

func NewReviewService(rr *repository.ReviewRepository, pr *repository.ProductRepository) *ReviewService {
	return &ReviewService{Reviews: rr, Products: pr}
}

func validateReview(rating int) error {
	if rating < 1 || rating > 5 {
		return errors.New("Rating must be between 1 and 5")
	}
	return nil
}

// AddOrUpdate upserts the caller's review on a product: one review per
// (product, user).
func (s *ReviewService) AddOrUpdate(ctx context.Context, productID, userID string, rating int, comment string) (*model.Review, bool, error) {
	if err := validateReview(rating); err != nil {
		return nil, false, err
	}
	if _, err := s.Products.GetByID(ctx, productID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, false, ErrProductNotFound
		}
		return nil, false, err
	}

	existing, err := s.Reviews.GetByProductAndUser(ctx, productID, userID)
	if err == nil {
		updated, err := s.Reviews.Update(ctx, existing.ID, rating, comment)
		return updated, false, err
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, false, err
	}

	rv := &model.Review{
		ID:        uuid.NewString(),
		ProductID: productID,
		UserID:    userID,
		Rating:    rating,
		Comment:   comment,
	}
	if err := s.Reviews.Create(ctx, rv); err != nil {
		return nil, false, err
	}
	created, err := s.Reviews.GetByID(ctx, rv.ID)
	return created, true, err
}

// Update modifies a review; only its author may do so.
func (s *ReviewService) Update(ctx context.Context, reviewID, callerID string, rating int, comment string) (*model.Review, error) {
	if err := validateReview(rating); err != nil {
		return nil, err
	}
	rv, err := s.Reviews.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	if rv.UserID != callerID {
		return nil, ErrForbidden
	}
	return s.Reviews.Update(ctx, reviewID, rating, comment)
}

// Delete removes a review; only its author may do so.
func (s *ReviewService) Delete(ctx context.Context, reviewID, callerID string) error {
	rv, err := s.Reviews.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrReviewNotFound
		}
		return err
	}
	if rv.UserID != callerID {
		return ErrForbidden
	}
	return s.Reviews.Delete(ctx, reviewID)
}

func (s *ReviewService) Get(ctx context.Context, productID, userID string) (*model.Review, error) {
	rv, err := s.Reviews.GetByProductAndUser(ctx, productID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return rv, nil
}

func (s *ReviewService) ListByProduct(ctx context.Context, productID string) ([]model.Review, error) {
	return s.Reviews.ListByProduct(ctx, productID)
}
