package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"kidsclub/pkg/entities"
	"kidsclub/pkg/repo"
	"kidsclub/pkg/repo/driver/store"
	"kidsclub/utilities"
)

type ProfileUsecases struct {
	profileRepo repo.ProfileRepoImply
	catalogRepo repo.CatalogRepoImply
	subscribe   func(ctx context.Context, phone string) error
	now         func() time.Time
}

type ProfileUsecaseImply interface {
	GetProfile(ctx context.Context, phone string) (*entities.ProfileRecord, error)
	UpdateProfile(ctx context.Context, phone string, record *entities.ProfileRecord) (*entities.ProfileRecord, error)
	ActivatePlan(ctx context.Context, phone, planID string) (*entities.ProfileRecord, error)
}

// NewProfileUsecases wires profile sync; subscribe registers a synced phone with the engine
func NewProfileUsecases(
	profileRepo repo.ProfileRepoImply, catalogRepo repo.CatalogRepoImply,
	subscribe func(ctx context.Context, phone string) error,
) *ProfileUsecases {
	return &ProfileUsecases{
		profileRepo: profileRepo,
		catalogRepo: catalogRepo,
		subscribe:   subscribe,
		now:         utilities.TimeNow,
	}
}

func (usecase *ProfileUsecases) GetProfile(ctx context.Context, phone string) (*entities.ProfileRecord, error) {
	record, err := usecase.profileRepo.GetProfile(ctx, phone)
	if errors.Is(err, store.ErrNotFound) {
		return nil, entities.ErrProfileMissing
	}

	return record, err
}

func (usecase *ProfileUsecases) UpdateProfile(
	ctx context.Context, phone string, record *entities.ProfileRecord,
) (*entities.ProfileRecord, error) {
	record.Phone = phone
	record.UpdatedAt = usecase.now()
	if record.Subscriptions == nil {
		record.Subscriptions = []entities.Subscription{}
	}
	if record.UpcomingClasses == nil {
		record.UpcomingClasses = []entities.UpcomingClass{}
	}
	if record.BonusPoints < 0 {
		return nil, &entities.ValidationError{Field: "bonusPoints"}
	}

	if err := usecase.profileRepo.SaveProfile(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}

	if err := usecase.subscribe(ctx, phone); err != nil {
		return nil, err
	}

	return record, nil
}

// ActivatePlan copies an active plan into the phone's profile as a new subscription
func (usecase *ProfileUsecases) ActivatePlan(
	ctx context.Context, phone, planID string,
) (*entities.ProfileRecord, error) {
	plan, err := usecase.catalogRepo.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	if !plan.IsActive {
		return nil, entities.ErrPlanInactive
	}

	record, err := usecase.profileRepo.GetProfile(ctx, phone)
	if errors.Is(err, store.ErrNotFound) {
		record = &entities.ProfileRecord{
			Phone:           phone,
			Subscriptions:   []entities.Subscription{},
			UpcomingClasses: []entities.UpcomingClass{},
		}
	} else if err != nil {
		return nil, err
	}

	now := usecase.now()
	record.Subscriptions = append(record.Subscriptions, entities.Subscription{
		ID:           uuid.NewString(),
		Name:         plan.Name,
		PlanID:       plan.ID,
		ValidUntil:   now.AddDate(0, 0, plan.Duration),
		SessionsLeft: plan.Sessions,
		IsActive:     true,
	})
	record.UpdatedAt = now

	if err = usecase.profileRepo.SaveProfile(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}

	if err = usecase.subscribe(ctx, phone); err != nil {
		return nil, err
	}

	utilities.NewLogger("ActivatePlan").Infof("plan %s activated for %s", plan.ID, utilities.MaskPhone(phone))

	return record, nil
}
