package usecases

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime/debug"
	"time"

	"kidsclub/config"
	"kidsclub/pkg/cache"
	"kidsclub/pkg/consts"
	"kidsclub/pkg/entities"
	"kidsclub/pkg/metrics"
	"kidsclub/pkg/repo"
	"kidsclub/pkg/repo/driver/medium"
	"kidsclub/pkg/repo/driver/store"
	"kidsclub/utilities"
)

const classTimeLayout = "2006-01-02 15:04"

// EngineSettings are the thresholds of the eligibility checks
type EngineSettings struct {
	ReminderMinutes     int
	ExpiryDays          int
	LowBalanceThreshold int
	Retention           time.Duration
	Location            *time.Location
	Icon                string
}

func NewEngineSettings(conf *config.KidsClubConfModel) EngineSettings {
	return EngineSettings{
		ReminderMinutes:     conf.Notifications.ReminderMinutes,
		ExpiryDays:          conf.Notifications.ExpiryDays,
		LowBalanceThreshold: conf.Notifications.LowBalanceThreshold,
		Retention:           utilities.ToDuration(conf.Notifications.Retention, 7*24*time.Hour),
		Location:            utilities.LoadLocation(conf.Timezone),
		Icon:                conf.Firebase.Icon,
	}
}

type NotificationUsecases struct {
	profileRepo      repo.ProfileRepoImply
	notificationRepo repo.NotificationRepoImply
	bridge           medium.Bridge
	renderer         medium.Renderer
	subscribers      *cache.SubscriberCache
	metrics          *metrics.Metrics
	settings         EngineSettings
	now              func() time.Time
	// evaluation and pruning of one phone share its sent log
	locks phoneLocks
}

type NotificationUsecaseImply interface {
	GetPreferences(ctx context.Context, phone string) (entities.Preferences, error)
	UpdatePreferences(ctx context.Context, phone string, prefs entities.Preferences) error
	RegisterToken(ctx context.Context, phone, token string) (*entities.TokenResponse, error)
	UnregisterToken(ctx context.Context, phone, token string) error
	Subscribe(ctx context.Context, phone string) error
	Tick(ctx context.Context)
	PruneSentLogs(ctx context.Context)
}

func NewNotificationUsecases(
	profileRepo repo.ProfileRepoImply, notificationRepo repo.NotificationRepoImply,
	bridge medium.Bridge, renderer medium.Renderer, subscribers *cache.SubscriberCache,
	m *metrics.Metrics, settings EngineSettings,
) *NotificationUsecases {
	if settings.Location == nil {
		settings.Location = time.UTC
	}

	return &NotificationUsecases{
		profileRepo:      profileRepo,
		notificationRepo: notificationRepo,
		bridge:           bridge,
		renderer:         renderer,
		subscribers:      subscribers,
		metrics:          m,
		settings:         settings,
		now:              utilities.TimeNow,
	}
}

func (usecase *NotificationUsecases) GetPreferences(ctx context.Context, phone string) (entities.Preferences, error) {
	return usecase.profileRepo.GetPreferences(ctx, phone)
}

func (usecase *NotificationUsecases) UpdatePreferences(
	ctx context.Context, phone string, prefs entities.Preferences,
) error {
	return usecase.profileRepo.SavePreferences(ctx, phone, prefs)
}

// RegisterToken asks the provider for a delivery token and subscribes the phone
func (usecase *NotificationUsecases) RegisterToken(
	ctx context.Context, phone, candidate string,
) (*entities.TokenResponse, error) {
	log := utilities.NewLoggerWithFields("RegisterToken", map[string]interface{}{
		"phone":  utilities.MaskPhone(phone),
		"bridge": usecase.bridge.Name(),
	})

	permission := usecase.bridge.RequestPermission(ctx, candidate)
	if !permission {
		log.Info("push permission not granted")
		return &entities.TokenResponse{Success: false, Permission: false}, nil
	}

	token := usecase.bridge.GetToken(ctx, candidate)
	if token == "" {
		log.Info("push provider gave no token")
		return &entities.TokenResponse{Success: false, Permission: true}, nil
	}

	if err := usecase.profileRepo.AddToken(ctx, phone, token); err != nil {
		return nil, fmt.Errorf("failed to store token: %w", err)
	}

	if err := usecase.Subscribe(ctx, phone); err != nil {
		return nil, err
	}

	return &entities.TokenResponse{Success: true, Token: token, Permission: true}, nil
}

func (usecase *NotificationUsecases) UnregisterToken(ctx context.Context, phone, token string) error {
	return usecase.profileRepo.RemoveToken(ctx, phone, token)
}

// Subscribe makes the engine evaluate phone from the next tick on
func (usecase *NotificationUsecases) Subscribe(ctx context.Context, phone string) error {
	if err := usecase.subscribers.Add(ctx, phone); err != nil {
		return fmt.Errorf("failed to subscribe %s: %w", utilities.MaskPhone(phone), err)
	}
	return nil
}

// Tick evaluates every subscribed phone once
func (usecase *NotificationUsecases) Tick(ctx context.Context) {
	log := utilities.NewLogger("Tick")

	start := time.Now()
	defer func() {
		usecase.metrics.TickDuration.Observe(time.Since(start).Seconds())
	}()

	for _, phone := range usecase.subscribers.List() {
		if ctx.Err() != nil {
			log.Info("tick interrupted")
			return
		}

		if err := usecase.evaluateSafely(ctx, phone); err != nil {
			log.WithError(err).Errorf("evaluation failed for %s", utilities.MaskPhone(phone))
		}
	}
}

func (usecase *NotificationUsecases) evaluateSafely(ctx context.Context, phone string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v\n%s", r, debug.Stack())
		}
	}()

	_, err = usecase.Evaluate(ctx, phone)
	return err
}

// snapshot is nil when the phone has no auth or no profile record
func (usecase *NotificationUsecases) snapshot(
	ctx context.Context, phone string,
) (*entities.UserNotificationSnapshot, error) {
	auth, err := usecase.profileRepo.GetAuth(ctx, phone)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !auth.IsAuthenticated {
		return nil, nil
	}

	profile, err := usecase.profileRepo.GetProfile(ctx, phone)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	prefs, err := usecase.profileRepo.GetPreferences(ctx, phone)
	if err != nil {
		return nil, err
	}

	return &entities.UserNotificationSnapshot{
		Phone:           phone,
		Subscriptions:   profile.Subscriptions,
		BonusPoints:     profile.BonusPoints,
		UpcomingClasses: profile.UpcomingClasses,
		Preferences:     prefs,
	}, nil
}

// Evaluate runs every enabled check for phone and returns how many notifications fired
func (usecase *NotificationUsecases) Evaluate(ctx context.Context, phone string) (int, error) {
	log := utilities.NewLoggerWithFields("Evaluate", map[string]interface{}{
		"phone": utilities.MaskPhone(phone),
	})

	defer usecase.locks.lock(phone)()

	snap, err := usecase.snapshot(ctx, phone)
	if err != nil {
		return 0, fmt.Errorf("failed to build snapshot: %w", err)
	}
	if snap == nil {
		log.Debug("no snapshot, skipping")
		return 0, nil
	}

	sentLog, err := usecase.notificationRepo.GetSentLog(ctx, phone)
	if err != nil {
		return 0, fmt.Errorf("failed to load sent log: %w", err)
	}

	now := usecase.now()
	checks := []struct {
		enabled bool
		run     func(context.Context, *entities.UserNotificationSnapshot, *entities.SentLog, time.Time) (int, error)
		name    string
	}{
		{snap.Preferences.Reminders, usecase.checkReminders, consts.Reminder},
		{snap.Preferences.Expiry, usecase.checkExpiry, consts.Expiry},
		{snap.Preferences.Balance, usecase.checkBalance, consts.Balance},
		{snap.Preferences.Promotions, usecase.checkPromotions, consts.Promotion},
	}

	fired := 0
	var checkErrs []error
	for _, check := range checks {
		if !check.enabled {
			continue
		}
		n, err := check.run(ctx, snap, sentLog, now)
		fired += n
		if err != nil {
			checkErrs = append(checkErrs, fmt.Errorf("%s check: %w", check.name, err))
		}
	}

	return fired, errors.Join(checkErrs...)
}

func (usecase *NotificationUsecases) checkReminders(
	ctx context.Context, snap *entities.UserNotificationSnapshot, sentLog *entities.SentLog, now time.Time,
) (int, error) {
	log := utilities.NewLogger("checkReminders")

	window := time.Duration(usecase.settings.ReminderMinutes) * time.Minute
	fired := 0
	for _, class := range snap.UpcomingClasses {
		if class.Confirmed {
			continue
		}

		start, err := time.ParseInLocation(classTimeLayout, class.Date+" "+class.Time, usecase.settings.Location)
		if err != nil {
			log.WithError(err).Warnf("class %s has unparsable start", class.ID)
			continue
		}

		until := start.Sub(now)
		if until <= 0 || until > window {
			continue
		}

		key := fmt.Sprintf("%s_%s_%s", consts.Reminder, class.ID, class.Date)
		if sentLog.Has(key) {
			continue
		}

		minutes := int(math.Ceil(until.Minutes()))
		err = usecase.fire(ctx, snap.Phone, sentLog, key, now, &entities.Notification{
			Type:  consts.Reminder,
			Title: consts.ReminderTitle,
			Body:  fmt.Sprintf(consts.ReminderBody, class.Name, minutes),
			Data:  map[string]string{"classId": class.ID},
		})
		if err != nil {
			return fired, err
		}
		fired++
	}

	return fired, nil
}

func (usecase *NotificationUsecases) checkExpiry(
	ctx context.Context, snap *entities.UserNotificationSnapshot, sentLog *entities.SentLog, now time.Time,
) (int, error) {
	window := time.Duration(usecase.settings.ExpiryDays) * 24 * time.Hour
	fired := 0
	for _, sub := range snap.Subscriptions {
		if !sub.IsActive {
			continue
		}

		until := sub.ValidUntil.Sub(now)
		if until <= 0 || until > window {
			continue
		}

		daysUntil := int(math.Ceil(until.Hours() / 24))
		key := fmt.Sprintf("%s_%s_%d", consts.Expiry, sub.ID, daysUntil)
		if sentLog.Has(key) {
			continue
		}

		body := fmt.Sprintf(consts.ExpiryInDays, sub.Name, daysUntil)
		if daysUntil == 1 {
			body = fmt.Sprintf(consts.ExpiryTomorrow, sub.Name)
		}

		err := usecase.fire(ctx, snap.Phone, sentLog, key, now, &entities.Notification{
			Type:  consts.Expiry,
			Title: consts.ExpiryTitle,
			Body:  body,
			Data:  map[string]string{"subscriptionId": sub.ID},
		})
		if err != nil {
			return fired, err
		}
		fired++
	}

	return fired, nil
}

// checkBalance fires once per drop to or below the threshold, rising above it re-arms
func (usecase *NotificationUsecases) checkBalance(
	ctx context.Context, snap *entities.UserNotificationSnapshot, sentLog *entities.SentLog, now time.Time,
) (int, error) {
	if snap.BonusPoints > usecase.settings.LowBalanceThreshold {
		if sentLog.Remove(consts.LowBalanceKey) {
			return 0, usecase.notificationRepo.SaveSentLog(ctx, snap.Phone, sentLog)
		}
		return 0, nil
	}

	if sentLog.Has(consts.LowBalanceKey) {
		return 0, nil
	}

	err := usecase.fire(ctx, snap.Phone, sentLog, consts.LowBalanceKey, now, &entities.Notification{
		Type:  consts.Balance,
		Title: consts.LowBalanceTitle,
		Body:  fmt.Sprintf(consts.LowBalanceBody, snap.BonusPoints),
	})
	if err != nil {
		return 0, err
	}

	return 1, nil
}

// checkPromotions fires a window only while the local clock is inside its hour
func (usecase *NotificationUsecases) checkPromotions(
	ctx context.Context, snap *entities.UserNotificationSnapshot, sentLog *entities.SentLog, now time.Time,
) (int, error) {
	local := now.In(usecase.settings.Location)
	fired := 0
	for _, window := range consts.PromoWindows {
		if local.Weekday() != window.Weekday || local.Hour() != window.Hour {
			continue
		}

		key := fmt.Sprintf("promo_%s_%s", window.ID, utilities.ToDate(local))
		if sentLog.Has(key) {
			continue
		}

		err := usecase.fire(ctx, snap.Phone, sentLog, key, now, &entities.Notification{
			Type:  consts.Promotion,
			Title: window.Title,
			Body:  window.Body,
			Data:  map[string]string{"promoId": window.ID, "url": window.URL},
		})
		if err != nil {
			return fired, err
		}
		fired++
	}

	return fired, nil
}

// fire delivers n and records key right away so a failure later in the tick cannot re-fire it
func (usecase *NotificationUsecases) fire(
	ctx context.Context, phone string, sentLog *entities.SentLog, key string, now time.Time, n *entities.Notification,
) error {
	usecase.deliver(ctx, phone, n)

	sentLog.Add(key, now)
	usecase.metrics.NotificationsFired.WithLabelValues(n.Type).Inc()

	if err := usecase.notificationRepo.SaveSentLog(ctx, phone, sentLog); err != nil {
		return fmt.Errorf("failed to persist %s: %w", key, err)
	}

	return nil
}

// deliver pushes to the phone's tokens and renders on its open windows
func (usecase *NotificationUsecases) deliver(ctx context.Context, phone string, n *entities.Notification) {
	log := utilities.NewLoggerWithFields("deliver", map[string]interface{}{
		"phone": utilities.MaskPhone(phone),
		"type":  n.Type,
	})

	payload := medium.BuildPushPayload(n, usecase.settings.Icon)

	tokens, err := usecase.profileRepo.GetTokens(ctx, phone)
	if err != nil {
		log.WithError(err).Error("failed to load delivery tokens")
	} else if len(tokens) > 0 {
		if err = usecase.bridge.Push(ctx, tokens, payload); err != nil {
			log.WithError(err).Error("push failed")
		}
	}

	if err = usecase.renderer.Render(phone, payload); err != nil {
		absent := &medium.ErrWSConnAbsent{}
		if !errors.As(err, &absent) {
			log.WithError(err).Error("render failed")
		}
	}

	log.Infof("fired %q", n.Title)
}

// PruneSentLogs drops dedup keys older than the retention period
func (usecase *NotificationUsecases) PruneSentLogs(ctx context.Context) {
	log := utilities.NewLogger("PruneSentLogs")

	cutoff := usecase.now().Add(-usecase.settings.Retention)
	total := 0
	for _, phone := range usecase.subscribers.List() {
		if ctx.Err() != nil {
			return
		}

		pruned, err := usecase.pruneSentLog(ctx, phone, cutoff)
		if err != nil {
			log.WithError(err).Errorf("failed to prune sent log of %s", utilities.MaskPhone(phone))
			continue
		}
		total += pruned
	}

	usecase.metrics.SentLogPruned.Add(float64(total))
	log.Infof("pruned %d sent notification keys", total)
}

// pruneSentLog keeps the low balance key, it is a state flag rather than a fired event
func (usecase *NotificationUsecases) pruneSentLog(ctx context.Context, phone string, cutoff time.Time) (int, error) {
	defer usecase.locks.lock(phone)()

	sentLog, err := usecase.notificationRepo.GetSentLog(ctx, phone)
	if err != nil {
		return 0, err
	}

	pruned := sentLog.Prune(cutoff, consts.LowBalanceKey)
	if pruned == 0 {
		return 0, nil
	}

	if err = usecase.notificationRepo.SaveSentLog(ctx, phone, sentLog); err != nil {
		return 0, err
	}

	return pruned, nil
}
