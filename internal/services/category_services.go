package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Alemu2502/mern-ecommerce-portfolio/internal/model"
	"github.com/Alemu2502/mern-ecommerce-portfolio/internal/repository"
)

type CategoryService struct {
	Categories *repository.CategoryRepository
}

func NewCategoryService(cr *repository.CategoryRepository) *CategoryService {
	return &CategoryService{Categories: cr}
}

func (s *CategoryService) Create(ctx context.Context, name string) (*model.Category, error) {
	if name == "" {
		return nil, errors.New("Name is required")
	}
	c := &model.Category{ID: uuid.NewString(), Name: name}
	if err := s.Categories.Create(ctx, c); err != nil {
		return nil, err
	}
	return s.Categories.GetByID(ctx, c.ID)
}

func (s *CategoryService) Get(ctx context.Context, id string) (*model.Category, error) {
	c, err := s.Categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errors.New("Category does not exist")
		}
		return nil, err
	}
	return c, nil
}

func (s *CategoryService) Update(ctx context.Context, id, name string) (*model.Category, error) {
	if name == "" {
		return nil, errors.New("Name is required")
	}
	if err := s.Categories.Update(ctx, id, name); err != nil {
		return nil, err
	}
	return s.Categories.GetByID(ctx, id)
}

// Delete removes a category unless products still reference it.
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	c, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	n, err := s.Categories.CountProducts(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("Sorry. You can't delete %s. It has %d associated products.", c.Name, n)
	}
	return s.Categories.Delete(ctx, id)
}

func (s *CategoryService) List(ctx context.Context) ([]model.Category, error) {
	return s.Categories.List(ctx)
}
