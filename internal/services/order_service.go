package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/Alemu2502/mern-ecommerce-portfolio/internal/model"
	"github.com/Alemu2502/mern-ecommerce-portfolio/internal/repository"
)

var ErrOrderNotFound = errors.New("Order not found")

type OrderService struct {
	Orders   *repository.OrderRepository
	Products *repository.ProductRepository
}

func NewOrderService(or *repository.OrderRepository, pr *repository.ProductRepository) *OrderService {
	return &OrderService{Orders: or, Products: pr}
}

// Create persists the order and then decrements stock for every item. The
// stock update follows the order write; a failure there surfaces to the
// caller but does not undo the order.
func (s *OrderService) Create(ctx context.Context, userID string, items []model.OrderItem, amount float64, address, transactionID string) (*model.Order, error) {
	if len(items) == 0 {
		return nil, errors.New("Order must contain at least one product")
	}
	if amount <= 0 {
		return nil, errors.New("Amount is required")
	}
	o := &model.Order{
		ID:            uuid.NewString(),
		UserID:        userID,
		Products:      items,
		TransactionID: transactionID,
		Amount:        amount,
		Address:       address,
		Status:        model.OrderStatusValues[0],
	}
	if err := s.Orders.Create(ctx, o); err != nil {
		return nil, err
	}
	if err := s.Products.DecreaseQuantity(ctx, items); err != nil {
		return nil, errors.New("Could not update product")
	}
	return s.Orders.GetByID(ctx, o.ID)
}

func (s *OrderService) Get(ctx context.Context, id string) (*model.Order, error) {
	o, err := s.Orders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return o, nil
}

// ListAll returns every order for the admin dashboard.
func (s *OrderService) ListAll(ctx context.Context) ([]model.Order, error) {
	return s.Orders.ListAll(ctx)
}

func (s *OrderService) StatusValues() []string {
	return model.OrderStatusValues
}

func (s *OrderService) UpdateStatus(ctx context.Context, orderID, status string) error {
	if !model.ValidOrderStatus(status) {
		return errors.New("Invalid status value")
	}
	if err := s.Orders.UpdateStatus(ctx, orderID, status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrOrderNotFound
		}
		return err
	}
	return nil
}
