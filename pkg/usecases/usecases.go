package usecases

import (
	"context"

	"kidsclub/pkg/repo"
)

type UseCases struct {
	repo repo.Imply
}
type UseCaseImply interface {
	StoreHealthHandler(context.Context) error
	StoreName() string
}

func NewUseCases(repo repo.Imply) UseCaseImply {
	return &UseCases{
		repo: repo,
	}
}

func (usecase *UseCases) StoreHealthHandler(ctx context.Context) error {
	return usecase.repo.StoreHealthCheck(ctx)
}

func (usecase *UseCases) StoreName() string {
	return usecase.repo.StoreName()
}
