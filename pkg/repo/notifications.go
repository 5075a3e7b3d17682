package repo

import (
	"context"
	"errors"
	"time"

	"kidsclub/pkg/consts"
	"kidsclub/pkg/entities"
	"kidsclub/pkg/repo/driver/store"
)

type NotificationRepo struct {
	store store.Store
}

// NotificationRepoImply persists the per-phone log of fired notification keys
type NotificationRepoImply interface {
	GetSentLog(ctx context.Context, phone string) (*entities.SentLog, error)
	SaveSentLog(ctx context.Context, phone string, sentLog *entities.SentLog) error
}

func NewNotificationRepo(kv store.Store) NotificationRepoImply {
	return &NotificationRepo{store: kv}
}

// GetSentLog returns an empty log for a phone that never got a notification
func (repo *NotificationRepo) GetSentLog(ctx context.Context, phone string) (*entities.SentLog, error) {
	sentLog := entities.NewSentLog()
	err := getJSON(ctx, repo.store, consts.SentLogKey+phone, sentLog)
	if errors.Is(err, store.ErrNotFound) {
		return entities.NewSentLog(), nil
	}
	if err != nil {
		return nil, err
	}
	if sentLog.Entries == nil {
		sentLog.Entries = make(map[string]time.Time)
	}

	return sentLog, nil
}

func (repo *NotificationRepo) SaveSentLog(ctx context.Context, phone string, sentLog *entities.SentLog) error {
	return setJSON(ctx, repo.store, consts.SentLogKey+phone, sentLog, 0)
}
