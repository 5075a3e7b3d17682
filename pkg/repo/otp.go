package repo

import (
	"context"
	"errors"
	"time"

	"kidsclub/pkg/consts"
	"kidsclub/pkg/entities"
	"kidsclub/pkg/repo/driver/store"
)

type OTPRepo struct {
	store store.Store
}

type OTPRepoImply interface {
	GetOTP(ctx context.Context, phone string) (*entities.OTPRecord, error)
	SaveOTP(ctx context.Context, record *entities.OTPRecord, ttl time.Duration) error
	DeleteOTP(ctx context.Context, phone string) error
}

func NewOTPRepo(kv store.Store) OTPRepoImply {
	return &OTPRepo{store: kv}
}

// GetOTP returns entities.ErrOTPNotFound when the phone has no pending code
func (repo *OTPRepo) GetOTP(ctx context.Context, phone string) (*entities.OTPRecord, error) {
	record := new(entities.OTPRecord)
	err := getJSON(ctx, repo.store, consts.OTPKey+phone, record)
	if errors.Is(err, store.ErrNotFound) {
		return nil, entities.ErrOTPNotFound
	}
	if err != nil {
		return nil, err
	}

	return record, nil
}

func (repo *OTPRepo) SaveOTP(ctx context.Context, record *entities.OTPRecord, ttl time.Duration) error {
	return setJSON(ctx, repo.store, consts.OTPKey+record.Phone, record, ttl)
}

func (repo *OTPRepo) DeleteOTP(ctx context.Context, phone string) error {
	return repo.store.Delete(ctx, consts.OTPKey+phone)
}
