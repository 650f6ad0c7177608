package packages

import (
	"context"

	"github.com/bluevoyage/travelbooking/internal/domain"
	"github.com/bluevoyage/travelbooking/internal/repository"
)

type PackageUseCase interface {
	List(ctx context.Context) ([]domain.TourPackage, error)
	GetByID(ctx context.Context, id string) (*domain.TourPackage, error)
}

type Cache interface {
	GetPackages(ctx context.Context) ([]domain.TourPackage, error)
	SetPackages(ctx context.Context, packages []domain.TourPackage) error
}

type PackageService struct {
	repo  repository.TourPackageRepository
	cache Cache
}

func NewPackageService(repo repository.TourPackageRepository, cache Cache) *PackageService {
	return &PackageService{repo: repo, cache: cache}
}

func (s *PackageService) List(ctx context.Context) ([]domain.TourPackage, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetPackages(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	packages, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetPackages(ctx, packages)
	}
	return packages, nil
}

func (s *PackageService) GetByID(ctx context.Context, id string) (*domain.TourPackage, error) {
	return s.repo.GetByID(ctx, id)
}

var _ PackageUseCase = (*PackageService)(nil)
