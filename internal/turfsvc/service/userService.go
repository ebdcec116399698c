package service

import (
	"context"

	"github.com/openturf/turf-services/internal/turfsvc/models"
)

type UserService struct {
	users UserStore
}

func NewUserService(users UserStore) *UserService {
	return &UserService{users: users}
}

func (s *UserService) GetByID(ctx context.Context, userID string) (*models.User, error) {
	return s.users.GetByID(ctx, userID)
}
