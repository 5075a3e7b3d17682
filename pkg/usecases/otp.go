package usecases

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"regexp"
	"time"

	"kidsclub/config"
	"kidsclub/pkg/consts"
	"kidsclub/pkg/entities"
	"kidsclub/pkg/metrics"
	"kidsclub/pkg/repo"
	"kidsclub/pkg/repo/driver/sms"
	"kidsclub/utilities"
	"kidsclub/utilities/jwt"
)

var (
	phonePattern = regexp.MustCompile(`^7\d{10}$`)
	codePattern  = regexp.MustCompile(`^\d{4}$`)
)

type OTPSettings struct {
	TTL         time.Duration
	ResendAfter time.Duration
	MaxAttempts int
}

// retention keeps an expired record around long enough for verify to report it as expired
func (s OTPSettings) retention() time.Duration {
	return 2 * s.TTL
}

func NewOTPSettings(conf *config.KidsClubConfModel) OTPSettings {
	maxAttempts := conf.OTP.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 3
	}

	return OTPSettings{
		TTL:         utilities.ToDuration(conf.OTP.TTL, 10*time.Minute),
		ResendAfter: utilities.ToDuration(conf.OTP.ResendAfter, time.Minute),
		MaxAttempts: maxAttempts,
	}
}

type OTPUsecases struct {
	repo        repo.OTPRepoImply
	profileRepo repo.ProfileRepoImply
	sender      sms.Sender
	signer      *jwt.Signer
	metrics     *metrics.Metrics
	settings    OTPSettings
	now         func() time.Time
	// send and verify of one phone never interleave
	phoneLocks phoneLocks
}

type OTPUsecaseImply interface {
	SendOTP(ctx context.Context, phone string) (*entities.SendOTPResponse, error)
	VerifyOTP(ctx context.Context, phone, code string) (*entities.VerifyOTPResponse, error)
	InspectOTP(ctx context.Context, phone string) (*entities.OTPInspection, error)
	IntrospectToken(token string) (*entities.TokenIntrospection, error)
}

func NewOTPUsecases(
	otpRepo repo.OTPRepoImply, profileRepo repo.ProfileRepoImply, sender sms.Sender,
	signer *jwt.Signer, m *metrics.Metrics, settings OTPSettings,
) *OTPUsecases {
	return &OTPUsecases{
		repo:        otpRepo,
		profileRepo: profileRepo,
		sender:      sender,
		signer:      signer,
		metrics:     m,
		settings:    settings,
		now:         utilities.TimeNow,
	}
}

// ValidPhone reports whether phone is an 11 digit number starting with 7
func ValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

func (usecase *OTPUsecases) SendOTP(ctx context.Context, phone string) (*entities.SendOTPResponse, error) {
	log := utilities.NewLoggerWithFields("SendOTP", map[string]interface{}{
		"phone": utilities.MaskPhone(phone),
	})

	if !ValidPhone(phone) {
		usecase.metrics.OTPSent.WithLabelValues("invalid").Inc()
		return nil, entities.ErrInvalidPhone
	}

	defer usecase.phoneLocks.lock(phone)()

	now := usecase.now()
	existing, err := usecase.repo.GetOTP(ctx, phone)
	switch {
	case err == nil:
		elapsed := now.Sub(existing.Timestamp)
		if elapsed < usecase.settings.ResendAfter {
			remainingMs := usecase.settings.ResendAfter.Milliseconds() - elapsed.Milliseconds()
			usecase.metrics.OTPSent.WithLabelValues("rate_limited").Inc()
			return nil, &entities.RateLimitedError{Remaining: int((remainingMs + 999) / 1000)}
		}
	case !errors.Is(err, entities.ErrOTPNotFound):
		return nil, fmt.Errorf("failed to read otp: %w", err)
	}

	code := consts.SimulatedOTPCode
	if !usecase.sender.Simulated() {
		if code, err = utilities.GenerateNumericCode(consts.OTPDigits); err != nil {
			return nil, fmt.Errorf("failed to generate code: %w", err)
		}
	}

	record := &entities.OTPRecord{
		Phone:     phone,
		Code:      code,
		Timestamp: now,
		Attempts:  0,
	}
	if err = usecase.repo.SaveOTP(ctx, record, usecase.settings.retention()); err != nil {
		return nil, fmt.Errorf("failed to save otp: %w", err)
	}

	msg := fmt.Sprintf("Ваш код для входа: %s", code)
	if err = usecase.sender.SendSMS(ctx, phone, msg); err != nil {
		log.WithError(err).Errorf("%s failed to deliver code", usecase.sender.Name())
		if delErr := usecase.repo.DeleteOTP(ctx, phone); delErr != nil {
			log.WithError(delErr).Error("failed to drop undelivered otp")
		}
		usecase.metrics.OTPSent.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("%w: %v", entities.ErrSMSDelivery, err)
	}

	usecase.metrics.OTPSent.WithLabelValues("sent").Inc()

	resp := &entities.SendOTPResponse{Success: true, Message: consts.MsgOTPSent}
	if usecase.sender.Simulated() {
		resp.Message = consts.MsgOTPSimulated
		resp.DebugCode = code
	}

	log.Info("otp issued")

	return resp, nil
}

func (usecase *OTPUsecases) VerifyOTP(ctx context.Context, phone, code string) (*entities.VerifyOTPResponse, error) {
	log := utilities.NewLoggerWithFields("VerifyOTP", map[string]interface{}{
		"phone": utilities.MaskPhone(phone),
	})

	if !ValidPhone(phone) {
		return nil, entities.ErrInvalidPhone
	}
	if !codePattern.MatchString(code) {
		return nil, entities.ErrInvalidCode
	}

	defer usecase.phoneLocks.lock(phone)()

	record, err := usecase.repo.GetOTP(ctx, phone)
	if err != nil {
		if errors.Is(err, entities.ErrOTPNotFound) {
			usecase.metrics.OTPVerified.WithLabelValues("not_found").Inc()
		}
		return nil, err
	}

	now := usecase.now()
	elapsed := now.Sub(record.Timestamp)
	if elapsed > usecase.settings.TTL {
		usecase.metrics.OTPVerified.WithLabelValues("expired").Inc()
		return nil, usecase.drop(ctx, phone, entities.ErrOTPExpired)
	}

	if record.Attempts >= usecase.settings.MaxAttempts {
		usecase.metrics.OTPVerified.WithLabelValues("exhausted").Inc()
		return nil, usecase.drop(ctx, phone, entities.ErrAttemptsExhausted)
	}

	if subtle.ConstantTimeCompare([]byte(record.Code), []byte(code)) != 1 {
		record.Attempts++
		remainingTTL := usecase.settings.retention() - elapsed
		if remainingTTL < time.Second {
			remainingTTL = time.Second
		}
		if err = usecase.repo.SaveOTP(ctx, record, remainingTTL); err != nil {
			return nil, fmt.Errorf("failed to record attempt: %w", err)
		}
		usecase.metrics.OTPVerified.WithLabelValues("mismatch").Inc()
		return nil, &entities.CodeMismatchError{RemainingAttempts: usecase.settings.MaxAttempts - record.Attempts}
	}

	if err = usecase.repo.DeleteOTP(ctx, phone); err != nil {
		return nil, fmt.Errorf("failed to consume otp: %w", err)
	}

	auth := &entities.AuthRecord{Phone: phone, IsAuthenticated: true, LoginTime: now}
	if err = usecase.profileRepo.SaveAuth(ctx, auth); err != nil {
		return nil, fmt.Errorf("failed to save auth record: %w", err)
	}

	token, err := usecase.signer.GenerateJWT(phone, now)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	usecase.metrics.OTPVerified.WithLabelValues("success").Inc()
	log.Info("phone verified")

	return &entities.VerifyOTPResponse{
		Success: true,
		Message: consts.MsgLoginSuccess,
		Token:   token,
		User: entities.AuthUser{
			Phone:           phone,
			IsAuthenticated: true,
			LoginTime:       now,
		},
	}, nil
}

func (usecase *OTPUsecases) drop(ctx context.Context, phone string, reason error) error {
	if err := usecase.repo.DeleteOTP(ctx, phone); err != nil {
		return fmt.Errorf("failed to delete otp: %w", err)
	}
	return reason
}

// InspectOTP exposes the pending code, development mode only
func (usecase *OTPUsecases) InspectOTP(ctx context.Context, phone string) (*entities.OTPInspection, error) {
	if !ValidPhone(phone) {
		return nil, entities.ErrInvalidPhone
	}

	record, err := usecase.repo.GetOTP(ctx, phone)
	if err != nil {
		return nil, err
	}

	expiresIn := usecase.settings.TTL - usecase.now().Sub(record.Timestamp)
	if expiresIn < 0 {
		expiresIn = 0
	}

	return &entities.OTPInspection{
		Success:   true,
		Phone:     record.Phone,
		Code:      record.Code,
		Attempts:  record.Attempts,
		Timestamp: record.Timestamp,
		ExpiresIn: int(expiresIn.Seconds()),
	}, nil
}

func (usecase *OTPUsecases) IntrospectToken(token string) (*entities.TokenIntrospection, error) {
	claims, err := usecase.signer.VerifyJWT(token)
	if err != nil {
		return nil, err
	}

	return &entities.TokenIntrospection{
		Success:   true,
		Phone:     claims.Phone,
		LoginTime: claims.LoginTime,
		IssuedAt:  claims.IssuedAt,
		ExpiresAt: claims.ExpiresAt,
	}, nil
}
