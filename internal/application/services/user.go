package services

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"filelink-api/internal/application/ports"
	"filelink-api/internal/domain"
	"filelink-api/internal/domain/user"
)

type UserService struct {
	userRepository user.Repository
	mCounter       *prometheus.CounterVec
}

func NewUserService(
	userRepository user.Repository,
	mCounter *prometheus.CounterVec,
) ports.UserService {
	return &UserService{
		userRepository: userRepository,
		mCounter:       mCounter,
	}
}

func (us *UserService) FindUserByID(ctx context.Context, id user.ID) (*user.User, error) {
	return us.userRepository.FetchUserByID(ctx, id)
}

func (us *UserService) UpsertUser(ctx context.Context, p user.Patch) (*user.User, error) {
	if p.ID <= 0 {
		return nil, fmt.Errorf("upsert user %d: %w", p.ID, domain.ErrInvalidInput)
	}

	u, err := us.userRepository.UpsertUser(ctx, p)
	if err != nil {
		return nil, err
	}

	us.mCounter.WithLabelValues("user_upserted_total").Inc()

	return u, nil
}
