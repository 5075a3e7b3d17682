package usecases

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"kidsclub/pkg/entities"
	"kidsclub/pkg/repo"
	"kidsclub/utilities"
)

type CatalogUsecases struct {
	repo repo.CatalogRepoImply
	now  func() time.Time
}

type CatalogUsecaseImply interface {
	ListActivePlans(ctx context.Context) ([]entities.SubscriptionPlan, error)
	ListAllPlans(ctx context.Context) ([]entities.SubscriptionPlan, error)
	CreatePlan(ctx context.Context, plan *entities.SubscriptionPlan, createdBy string) (*entities.SubscriptionPlan, error)
	UpdatePlan(ctx context.Context, id string, plan *entities.SubscriptionPlan) (*entities.SubscriptionPlan, error)
	DeletePlan(ctx context.Context, id string) error
	ListActiveBanners(ctx context.Context) ([]entities.Banner, error)
	ListAllBanners(ctx context.Context) ([]entities.Banner, error)
	CreateBanner(ctx context.Context, banner *entities.Banner) (*entities.Banner, error)
	UpdateBanner(ctx context.Context, id string, banner *entities.Banner) (*entities.Banner, error)
	DeleteBanner(ctx context.Context, id string) error
}

func NewCatalogUsecases(catalogRepo repo.CatalogRepoImply) *CatalogUsecases {
	return &CatalogUsecases{repo: catalogRepo, now: utilities.TimeNow}
}

func validatePlan(plan *entities.SubscriptionPlan) error {
	switch {
	case strings.TrimSpace(plan.Name) == "":
		return &entities.ValidationError{Field: "name"}
	case plan.Price <= 0:
		return &entities.ValidationError{Field: "price"}
	case plan.Duration <= 0:
		return &entities.ValidationError{Field: "duration"}
	case plan.Sessions < 0:
		return &entities.ValidationError{Field: "sessions"}
	case plan.OriginalPrice != nil && *plan.OriginalPrice < 0:
		return &entities.ValidationError{Field: "originalPrice"}
	}
	return nil
}

// discountPercent derives the badge value from the crossed out price
func discountPercent(plan *entities.SubscriptionPlan) int {
	if plan.DiscountPercent > 0 {
		return plan.DiscountPercent
	}
	if plan.OriginalPrice == nil || *plan.OriginalPrice <= plan.Price {
		return 0
	}

	return int(math.Round((*plan.OriginalPrice - plan.Price) / *plan.OriginalPrice * 100))
}

// sortPlans puts popular plans first, cheaper first within a group
func sortPlans(plans []entities.SubscriptionPlan) {
	sort.SliceStable(plans, func(i, j int) bool {
		if plans[i].IsPopular != plans[j].IsPopular {
			return plans[i].IsPopular
		}
		return plans[i].Price < plans[j].Price
	})
}

func (usecase *CatalogUsecases) ListActivePlans(ctx context.Context) ([]entities.SubscriptionPlan, error) {
	plans, err := usecase.repo.ListPlans(ctx)
	if err != nil {
		return nil, err
	}

	active := make([]entities.SubscriptionPlan, 0, len(plans))
	for _, plan := range plans {
		if plan.IsActive {
			active = append(active, plan)
		}
	}
	sortPlans(active)

	return active, nil
}

func (usecase *CatalogUsecases) ListAllPlans(ctx context.Context) ([]entities.SubscriptionPlan, error) {
	plans, err := usecase.repo.ListPlans(ctx)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(plans, func(i, j int) bool {
		return plans[i].CreatedAt.Before(plans[j].CreatedAt)
	})

	return plans, nil
}

func (usecase *CatalogUsecases) CreatePlan(
	ctx context.Context, plan *entities.SubscriptionPlan, createdBy string,
) (*entities.SubscriptionPlan, error) {
	if err := validatePlan(plan); err != nil {
		return nil, err
	}

	now := usecase.now()
	plan.ID = uuid.NewString()
	plan.CreatedAt = now
	plan.UpdatedAt = now
	plan.CreatedBy = createdBy
	plan.DiscountPercent = discountPercent(plan)
	if plan.Features == nil {
		plan.Features = []string{}
	}

	if err := usecase.repo.SavePlan(ctx, plan); err != nil {
		return nil, err
	}

	utilities.NewLogger("CreatePlan").Infof("plan %s %q created by %s", plan.ID, plan.Name, utilities.MaskPhone(createdBy))

	return plan, nil
}

func (usecase *CatalogUsecases) UpdatePlan(
	ctx context.Context, id string, plan *entities.SubscriptionPlan,
) (*entities.SubscriptionPlan, error) {
	existing, err := usecase.repo.GetPlan(ctx, id)
	if err != nil {
		return nil, err
	}

	if err = validatePlan(plan); err != nil {
		return nil, err
	}

	plan.ID = existing.ID
	plan.CreatedAt = existing.CreatedAt
	plan.CreatedBy = existing.CreatedBy
	plan.UpdatedAt = usecase.now()
	plan.DiscountPercent = discountPercent(plan)
	if plan.Features == nil {
		plan.Features = []string{}
	}

	if err = usecase.repo.SavePlan(ctx, plan); err != nil {
		return nil, err
	}

	return plan, nil
}

func (usecase *CatalogUsecases) DeletePlan(ctx context.Context, id string) error {
	if _, err := usecase.repo.GetPlan(ctx, id); err != nil {
		return err
	}
	return usecase.repo.DeletePlan(ctx, id)
}

func sortBanners(banners []entities.Banner) {
	sort.SliceStable(banners, func(i, j int) bool {
		return banners[i].Order < banners[j].Order
	})
}

func (usecase *CatalogUsecases) ListActiveBanners(ctx context.Context) ([]entities.Banner, error) {
	banners, err := usecase.repo.ListBanners(ctx)
	if err != nil {
		return nil, err
	}

	active := make([]entities.Banner, 0, len(banners))
	for _, banner := range banners {
		if banner.IsActive {
			active = append(active, banner)
		}
	}
	sortBanners(active)

	return active, nil
}

func (usecase *CatalogUsecases) ListAllBanners(ctx context.Context) ([]entities.Banner, error) {
	banners, err := usecase.repo.ListBanners(ctx)
	if err != nil {
		return nil, err
	}
	sortBanners(banners)

	return banners, nil
}

func (usecase *CatalogUsecases) CreateBanner(ctx context.Context, banner *entities.Banner) (*entities.Banner, error) {
	if strings.TrimSpace(banner.Title) == "" {
		return nil, &entities.ValidationError{Field: "title"}
	}

	banner.ID = uuid.NewString()
	if err := usecase.repo.SaveBanner(ctx, banner); err != nil {
		return nil, err
	}

	return banner, nil
}

func (usecase *CatalogUsecases) UpdateBanner(
	ctx context.Context, id string, banner *entities.Banner,
) (*entities.Banner, error) {
	if _, err := usecase.repo.GetBanner(ctx, id); err != nil {
		return nil, err
	}
	if strings.TrimSpace(banner.Title) == "" {
		return nil, &entities.ValidationError{Field: "title"}
	}

	banner.ID = id
	if err := usecase.repo.SaveBanner(ctx, banner); err != nil {
		return nil, err
	}

	return banner, nil
}

func (usecase *CatalogUsecases) DeleteBanner(ctx context.Context, id string) error {
	if _, err := usecase.repo.GetBanner(ctx, id); err != nil {
		return err
	}
	return usecase.repo.DeleteBanner(ctx, id)
}
