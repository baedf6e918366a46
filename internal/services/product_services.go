package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/Alemu2502/mern-ecommerce-portfolio/internal/model"
	"github.com/Alemu2502/mern-ecommerce-portfolio/internal/repository"
)

// MaxPhotoSize caps uploaded product images at 1 MB.
const MaxPhotoSize = 1 << 20

var (
	ErrProductNotFound = errors.New("Product not found")
	ErrPhotoTooLarge   = errors.New("Image should be less than 1mb in size")
)

// ProductInput carries the multipart form fields of a create or update.
type ProductInput struct {
	Name        string
	Description string
	Price       float64
	CategoryID  string
	Quantity    int
	Shipping    bool
	Photo       []byte
	PhotoType   string
}

func (in *ProductInput) validate() error {
	if in.Name == "" || in.Description == "" || in.Price <= 0 || in.CategoryID == "" || in.Quantity < 0 {
		return errors.New("All fields are required")
	}
	if len(in.Photo) > MaxPhotoSize {
		return ErrPhotoTooLarge
	}
	return nil
}

type ProductService struct {
	Products   *repository.ProductRepository
	Categories *repository.CategoryRepository
}

func NewProductService(pr *repository.ProductRepository, cr *repository.CategoryRepository) *ProductService {
	return &ProductService{Products: pr, Categories: cr}
}

func (s *ProductService) Create(ctx context.Context, in ProductInput) (*model.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if _, err := s.Categories.GetByID(ctx, in.CategoryID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errors.New("Category does not exist")
		}
		return nil, err
	}
	p := &model.Product{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		CategoryID:  in.CategoryID,
		Quantity:    in.Quantity,
		Shipping:    in.Shipping,
		Photo:       in.Photo,
		PhotoType:   in.PhotoType,
	}
	if err := s.Products.Create(ctx, p); err != nil {
		return nil, err
	}
	return s.Products.GetByID(ctx, p.ID)
}

func (s *ProductService) Get(ctx context.Context, id string) (*model.Product, error) {
	p, err := s.Products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *ProductService) Update(ctx context.Context, id string, in ProductInput) (*model.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	p := &model.Product{
		ID:          id,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		CategoryID:  in.CategoryID,
		Quantity:    in.Quantity,
		Shipping:    in.Shipping,
		Photo:       in.Photo,
		PhotoType:   in.PhotoType,
	}
	if err := s.Products.Update(ctx, p); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return s.Products.GetByID(ctx, id)
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	if err := s.Products.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProductNotFound
		}
		return err
	}
	return nil
}

// List returns products sorted and limited per the storefront query params.
func (s *ProductService) List(ctx context.Context, sortBy, order string, limit int) ([]model.Product, error) {
	if limit <= 0 {
		limit = 6
	}
	return s.Products.List(ctx, sortBy, order, limit)
}

// ListRelated returns other products in the same category.
func (s *ProductService) ListRelated(ctx context.Context, productID string, limit int) ([]model.Product, error) {
	if limit <= 0 {
		limit = 6
	}
	p, err := s.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	return s.Products.ListRelated(ctx, p.ID, p.CategoryID, limit)
}

func (s *ProductService) UsedCategories(ctx context.Context) ([]model.Category, error) {
	return s.Products.UsedCategories(ctx)
}

func (s *ProductService) Search(ctx context.Context, term, categoryID string) ([]model.Product, error) {
	if term == "" {
		return []model.Product{}, nil
	}
	return s.Products.Search(ctx, term, categoryID)
}

func (s *ProductService) ListBySearch(ctx context.Context, f repository.SearchFilter) ([]model.Product, error) {
	if f.Limit <= 0 {
		f.Limit = 100
	}
	if f.Skip < 0 {
		f.Skip = 0
	}
	return s.Products.ListBySearch(ctx, f)
}

func (s *ProductService) Photo(ctx context.Context, id string) ([]byte, string, error) {
	photo, contentType, err := s.Products.GetPhoto(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrProductNotFound
		}
		return nil, "", err
	}
	return photo, contentType, nil
}
