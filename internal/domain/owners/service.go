package owners

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetOrCreate(ctx context.Context, ownerID string) (Owner, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return Owner{}, ErrInvalidInput
	}
	return s.repo.GetOrCreateByIdentity(ctx, ownerID)
}

func (s *Service) GetByIdentity(ctx context.Context, ownerID string) (Owner, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return Owner{}, ErrInvalidInput
	}
	return s.repo.GetByIdentity(ctx, ownerID)
}

func (s *Service) List(ctx context.Context) ([]Owner, error) {
	return s.repo.List(ctx)
}
