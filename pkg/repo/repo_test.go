package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kidsclub/pkg/entities"
	"kidsclub/pkg/repo/driver/store"
)

func TestOTPRepo(t *testing.T) {
	ctx := context.Background()
	otpRepo := NewOTPRepo(store.NewMemoryStore())

	_, err := otpRepo.GetOTP(ctx, "79991234567")
	assert.ErrorIs(t, err, entities.ErrOTPNotFound)

	record := &entities.OTPRecord{Phone: "79991234567", Code: "1234", Timestamp: time.Now().UTC()}
	require.NoError(t, otpRepo.SaveOTP(ctx, record, time.Minute))

	got, err := otpRepo.GetOTP(ctx, "79991234567")
	require.NoError(t, err)
	assert.Equal(t, "1234", got.Code)

	require.NoError(t, otpRepo.DeleteOTP(ctx, "79991234567"))
	_, err = otpRepo.GetOTP(ctx, "79991234567")
	assert.ErrorIs(t, err, entities.ErrOTPNotFound)
}

func TestProfileRepo_PreferencesDefault(t *testing.T) {
	ctx := context.Background()
	profileRepo := NewProfileRepo(store.NewMemoryStore())

	prefs, err := profileRepo.GetPreferences(ctx, "79991234567")
	require.NoError(t, err)
	assert.Equal(t, entities.DefaultPreferences(), prefs)

	prefs.Promotions = true
	prefs.Balance = false
	require.NoError(t, profileRepo.SavePreferences(ctx, "79991234567", prefs))

	got, err := profileRepo.GetPreferences(ctx, "79991234567")
	require.NoError(t, err)
	assert.Equal(t, prefs, got)
}

func TestProfileRepo_TokensAndSubscribers(t *testing.T) {
	ctx := context.Background()
	profileRepo := NewProfileRepo(store.NewMemoryStore())

	require.NoError(t, profileRepo.AddToken(ctx, "79991234567", "a"))
	require.NoError(t, profileRepo.AddToken(ctx, "79991234567", "b"))
	require.NoError(t, profileRepo.AddToken(ctx, "79991234567", "a"))

	tokens, err := profileRepo.GetTokens(ctx, "79991234567")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, tokens)

	require.NoError(t, profileRepo.RemoveToken(ctx, "79991234567", "a"))
	tokens, _ = profileRepo.GetTokens(ctx, "79991234567")
	assert.Equal(t, []string{"b"}, tokens)

	require.NoError(t, profileRepo.AddSubscriber(ctx, "79991234567"))
	require.NoError(t, profileRepo.AddSubscriber(ctx, "79991234567"))
	phones, err := profileRepo.GetSubscribers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"79991234567"}, phones)

	_, err = profileRepo.GetAuth(ctx, "79990000000")
	assert.True(t, errors.Is(err, store.ErrNotFound))
}

func TestNotificationRepo_SentLog(t *testing.T) {
	ctx := context.Background()
	notificationRepo := NewNotificationRepo(store.NewMemoryStore())

	sentLog, err := notificationRepo.GetSentLog(ctx, "79991234567")
	require.NoError(t, err)
	assert.Empty(t, sentLog.Entries)

	firedAt := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	sentLog.Add("low_balance", firedAt)
	require.NoError(t, notificationRepo.SaveSentLog(ctx, "79991234567", sentLog))

	got, err := notificationRepo.GetSentLog(ctx, "79991234567")
	require.NoError(t, err)
	assert.True(t, got.Has("low_balance"))
	assert.True(t, firedAt.Equal(got.Entries["low_balance"]))
}

func TestCatalogRepo(t *testing.T) {
	ctx := context.Background()
	catalogRepo := NewCatalogRepo(store.NewMemoryStore())

	require.NoError(t, catalogRepo.SavePlan(ctx, &entities.SubscriptionPlan{ID: "p1", Name: "Старт"}))
	require.NoError(t, catalogRepo.SavePlan(ctx, &entities.SubscriptionPlan{ID: "p2", Name: "Макси"}))
	require.NoError(t, catalogRepo.SavePlan(ctx, &entities.SubscriptionPlan{ID: "p1", Name: "Старт+"}))

	plans, err := catalogRepo.ListPlans(ctx)
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.Equal(t, "Старт+", plans[0].Name)

	require.NoError(t, catalogRepo.DeletePlan(ctx, "p1"))
	_, err = catalogRepo.GetPlan(ctx, "p1")
	assert.ErrorIs(t, err, entities.ErrPlanNotFound)

	plans, _ = catalogRepo.ListPlans(ctx)
	assert.Len(t, plans, 1)

	require.NoError(t, catalogRepo.SaveBanner(ctx, &entities.Banner{ID: "b1", Title: "Лето"}))
	banners, err := catalogRepo.ListBanners(ctx)
	require.NoError(t, err)
	assert.Len(t, banners, 1)
}

func TestRepo_StoreHealth(t *testing.T) {
	r := NewRepo(store.NewMemoryStore())

	require.NoError(t, r.StoreHealthCheck(context.Background()))
	assert.Equal(t, "memory", r.StoreName())
}
