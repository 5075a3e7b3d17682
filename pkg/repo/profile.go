package repo

import (
	"context"
	"errors"
	"sync"

	"kidsclub/pkg/consts"
	"kidsclub/pkg/entities"
	"kidsclub/pkg/repo/driver/store"
	"kidsclub/utilities"
)

type ProfileRepo struct {
	store store.Store
	// serializes read-modify-write of list values
	listLock sync.Mutex
}

type ProfileRepoImply interface {
	GetAuth(ctx context.Context, phone string) (*entities.AuthRecord, error)
	SaveAuth(ctx context.Context, record *entities.AuthRecord) error
	GetProfile(ctx context.Context, phone string) (*entities.ProfileRecord, error)
	SaveProfile(ctx context.Context, record *entities.ProfileRecord) error
	GetPreferences(ctx context.Context, phone string) (entities.Preferences, error)
	SavePreferences(ctx context.Context, phone string, prefs entities.Preferences) error
	GetTokens(ctx context.Context, phone string) ([]string, error)
	AddToken(ctx context.Context, phone, token string) error
	RemoveToken(ctx context.Context, phone, token string) error
	GetSubscribers(ctx context.Context) ([]string, error)
	AddSubscriber(ctx context.Context, phone string) error
}

func NewProfileRepo(kv store.Store) ProfileRepoImply {
	return &ProfileRepo{store: kv}
}

// GetAuth returns store.ErrNotFound when the phone never logged in
func (repo *ProfileRepo) GetAuth(ctx context.Context, phone string) (*entities.AuthRecord, error) {
	record := new(entities.AuthRecord)
	if err := getJSON(ctx, repo.store, consts.AuthKey+phone, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (repo *ProfileRepo) SaveAuth(ctx context.Context, record *entities.AuthRecord) error {
	return setJSON(ctx, repo.store, consts.AuthKey+record.Phone, record, 0)
}

// GetProfile returns store.ErrNotFound when the client never synced
func (repo *ProfileRepo) GetProfile(ctx context.Context, phone string) (*entities.ProfileRecord, error) {
	record := new(entities.ProfileRecord)
	if err := getJSON(ctx, repo.store, consts.ProfileKey+phone, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (repo *ProfileRepo) SaveProfile(ctx context.Context, record *entities.ProfileRecord) error {
	return setJSON(ctx, repo.store, consts.ProfileKey+record.Phone, record, 0)
}

func (repo *ProfileRepo) GetPreferences(ctx context.Context, phone string) (entities.Preferences, error) {
	prefs := entities.DefaultPreferences()
	err := getJSON(ctx, repo.store, consts.PreferencesKey+phone, &prefs)
	if errors.Is(err, store.ErrNotFound) {
		return entities.DefaultPreferences(), nil
	}
	if err != nil {
		return entities.DefaultPreferences(), err
	}

	return prefs, nil
}

func (repo *ProfileRepo) SavePreferences(ctx context.Context, phone string, prefs entities.Preferences) error {
	return setJSON(ctx, repo.store, consts.PreferencesKey+phone, prefs, 0)
}

func (repo *ProfileRepo) GetTokens(ctx context.Context, phone string) ([]string, error) {
	return getStringSet(ctx, repo.store, consts.FcmKey+phone)
}

func (repo *ProfileRepo) AddToken(ctx context.Context, phone, token string) error {
	repo.listLock.Lock()
	defer repo.listLock.Unlock()

	tokens, err := getStringSet(ctx, repo.store, consts.FcmKey+phone)
	if err != nil {
		return err
	}
	if utilities.ContainsString(tokens, token) {
		return nil
	}

	return setJSON(ctx, repo.store, consts.FcmKey+phone, append(tokens, token), 0)
}

func (repo *ProfileRepo) RemoveToken(ctx context.Context, phone, token string) error {
	repo.listLock.Lock()
	defer repo.listLock.Unlock()

	tokens, err := getStringSet(ctx, repo.store, consts.FcmKey+phone)
	if err != nil {
		return err
	}

	kept := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if t != token {
			kept = append(kept, t)
		}
	}

	return setJSON(ctx, repo.store, consts.FcmKey+phone, kept, 0)
}

func (repo *ProfileRepo) GetSubscribers(ctx context.Context) ([]string, error) {
	return getStringSet(ctx, repo.store, consts.SubscribersKey)
}

func (repo *ProfileRepo) AddSubscriber(ctx context.Context, phone string) error {
	repo.listLock.Lock()
	defer repo.listLock.Unlock()

	phones, err := getStringSet(ctx, repo.store, consts.SubscribersKey)
	if err != nil {
		return err
	}
	if utilities.ContainsString(phones, phone) {
		return nil
	}

	return setJSON(ctx, repo.store, consts.SubscribersKey, append(phones, phone), 0)
}
