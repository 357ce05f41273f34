package services

import (
	"context"

	"foodgo/internal/common"
	"foodgo/internal/models"
	"foodgo/internal/repositories"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// RestaurantService exposes the read-only catalog.
type RestaurantService interface {
	List(ctx context.Context) ([]*models.Restaurant, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Restaurant, error)
}

type restaurantService struct {
	repo repositories.RestaurantRepository
}

func NewRestaurantService(repo repositories.RestaurantRepository) RestaurantService {
	return &restaurantService{repo: repo}
}

func (s *restaurantService) List(ctx context.Context) ([]*models.Restaurant, error) {
	return s.repo.List(ctx)
}

// Get returns the restaurant with its full menu.
func (s *restaurantService) Get(ctx context.Context, id uuid.UUID) (*models.Restaurant, error) {
	restaurant, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, common.NewNotFoundError("restaurant")
	}
	if err != nil {
		return nil, err
	}
	menu, err := s.repo.ListMenu(ctx, id)
	if err != nil {
		return nil, err
	}
	restaurant.Menu = menu
	return restaurant, nil
}
