package services

import (
	"context"
	"errors"

	"github.com/Alemu2502/mern-ecommerce-portfolio/internal/auth"
	"github.com/Alemu2502/mern-ecommerce-portfolio/internal/model"
	"github.com/Alemu2502/mern-ecommerce-portfolio/internal/repository"
)

// MinUpdatePasswordLen is the profile-update minimum, looser than the
// sign-up minimum.
const MinUpdatePasswordLen = 6

type ProfileStore interface {
	UpdateProfile(ctx context.Context, userID, name, about, passwordHash, passwordSalt string) (*model.User, error)
}

type OrderHistoryStore interface {
	ListByUser(ctx context.Context, userID string) ([]model.Order, error)
}

type UserService struct {
	Users  ProfileStore
	Orders OrderHistoryStore
}

func NewUserService(users ProfileStore, orders OrderHistoryStore) *UserService {
	return &UserService{Users: users, Orders: orders}
}

// Update changes name, about and optionally the password. A new password
// regenerates both salt and hash.
func (s *UserService) Update(ctx context.Context, id, name, about, password string) (*model.User, error) {
	if name == "" {
		return nil, errors.New("Name is required")
	}
	hash, salt := "", ""
	if password != "" {
		if len(password) < MinUpdatePasswordLen {
			return nil, errors.New("Password should be at least 6 characters long")
		}
		salt = auth.NewSalt()
		hash = auth.HashPassword(password, salt)
	}
	u, err := s.Users.UpdateProfile(ctx, id, name, about, hash, salt)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

// PurchaseHistory returns the user's orders, newest first.
func (s *UserService) PurchaseHistory(ctx context.Context, userID string) ([]model.Order, error) {
	return s.Orders.ListByUser(ctx, userID)
}
