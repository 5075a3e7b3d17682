package repo

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"kidsclub/pkg/consts"
	"kidsclub/pkg/entities"
	"kidsclub/pkg/repo/driver/store"
	"kidsclub/utilities"
)

type CatalogRepo struct {
	store     store.Store
	indexLock sync.Mutex
}

type CatalogRepoImply interface {
	ListPlans(ctx context.Context) ([]entities.SubscriptionPlan, error)
	GetPlan(ctx context.Context, id string) (*entities.SubscriptionPlan, error)
	SavePlan(ctx context.Context, plan *entities.SubscriptionPlan) error
	DeletePlan(ctx context.Context, id string) error
	ListBanners(ctx context.Context) ([]entities.Banner, error)
	GetBanner(ctx context.Context, id string) (*entities.Banner, error)
	SaveBanner(ctx context.Context, banner *entities.Banner) error
	DeleteBanner(ctx context.Context, id string) error
}

func NewCatalogRepo(kv store.Store) CatalogRepoImply {
	return &CatalogRepo{store: kv}
}

func (repo *CatalogRepo) addToIndex(ctx context.Context, indexKey, id string) error {
	repo.indexLock.Lock()
	defer repo.indexLock.Unlock()

	ids, err := getStringSet(ctx, repo.store, indexKey)
	if err != nil {
		return err
	}
	if utilities.ContainsString(ids, id) {
		return nil
	}

	return setJSON(ctx, repo.store, indexKey, append(ids, id), 0)
}

func (repo *CatalogRepo) removeFromIndex(ctx context.Context, indexKey, id string) error {
	repo.indexLock.Lock()
	defer repo.indexLock.Unlock()

	ids, err := getStringSet(ctx, repo.store, indexKey)
	if err != nil {
		return err
	}

	kept := make([]string, 0, len(ids))
	for _, existing := range ids {
		if existing != id {
			kept = append(kept, existing)
		}
	}

	return setJSON(ctx, repo.store, indexKey, kept, 0)
}

func (repo *CatalogRepo) ListPlans(ctx context.Context) ([]entities.SubscriptionPlan, error) {
	log := utilities.NewLogger("ListPlans")

	ids, err := getStringSet(ctx, repo.store, consts.PlansIndexKey)
	if err != nil {
		return nil, err
	}

	plans := make([]entities.SubscriptionPlan, 0, len(ids))
	for _, id := range ids {
		plan, err := repo.GetPlan(ctx, id)
		if errors.Is(err, entities.ErrPlanNotFound) {
			log.Warnf("plan %s is indexed but missing", id)
			continue
		}
		if err != nil {
			return nil, err
		}
		plans = append(plans, *plan)
	}

	return plans, nil
}

func (repo *CatalogRepo) GetPlan(ctx context.Context, id string) (*entities.SubscriptionPlan, error) {
	plan := new(entities.SubscriptionPlan)
	err := getJSON(ctx, repo.store, consts.PlanKey+id, plan)
	if errors.Is(err, store.ErrNotFound) {
		return nil, entities.ErrPlanNotFound
	}
	if err != nil {
		return nil, err
	}

	return plan, nil
}

func (repo *CatalogRepo) SavePlan(ctx context.Context, plan *entities.SubscriptionPlan) error {
	if err := setJSON(ctx, repo.store, consts.PlanKey+plan.ID, plan, 0); err != nil {
		return err
	}

	if err := repo.addToIndex(ctx, consts.PlansIndexKey, plan.ID); err != nil {
		return fmt.Errorf("failed to index plan %s: %w", plan.ID, err)
	}

	return nil
}

func (repo *CatalogRepo) DeletePlan(ctx context.Context, id string) error {
	if err := repo.removeFromIndex(ctx, consts.PlansIndexKey, id); err != nil {
		return err
	}

	return repo.store.Delete(ctx, consts.PlanKey+id)
}

func (repo *CatalogRepo) ListBanners(ctx context.Context) ([]entities.Banner, error) {
	ids, err := getStringSet(ctx, repo.store, consts.BannersIndexKey)
	if err != nil {
		return nil, err
	}

	banners := make([]entities.Banner, 0, len(ids))
	for _, id := range ids {
		banner, err := repo.GetBanner(ctx, id)
		if errors.Is(err, entities.ErrBannerNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		banners = append(banners, *banner)
	}

	return banners, nil
}

func (repo *CatalogRepo) GetBanner(ctx context.Context, id string) (*entities.Banner, error) {
	banner := new(entities.Banner)
	err := getJSON(ctx, repo.store, consts.BannerKey+id, banner)
	if errors.Is(err, store.ErrNotFound) {
		return nil, entities.ErrBannerNotFound
	}
	if err != nil {
		return nil, err
	}

	return banner, nil
}

func (repo *CatalogRepo) SaveBanner(ctx context.Context, banner *entities.Banner) error {
	if err := setJSON(ctx, repo.store, consts.BannerKey+banner.ID, banner, 0); err != nil {
		return err
	}

	return repo.addToIndex(ctx, consts.BannersIndexKey, banner.ID)
}

func (repo *CatalogRepo) DeleteBanner(ctx context.Context, id string) error {
	if err := repo.removeFromIndex(ctx, consts.BannersIndexKey, id); err != nil {
		return err
	}

	return repo.store.Delete(ctx, consts.BannerKey+id)
}
