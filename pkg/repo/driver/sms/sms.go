package sms

import (
	"context"
	"fmt"

	"kidsclub/config"
	"kidsclub/pkg/consts"
	"kidsclub/utilities"
)

// Sender delivers a text message to a phone in 7XXXXXXXXXX form
type Sender interface {
	SendSMS(ctx context.Context, phone, msg string) error
	// Simulated senders never reach a phone, the code is handed back to the caller instead
	Simulated() bool
	Name() string
}

// NewSender resolves the provider once. Without SMSC credentials and with no
// explicit provider the simulated sender is used.
func NewSender(ctx context.Context, cfg config.SMS) (Sender, error) {
	log := utilities.NewLogger("sms.NewSender")

	provider := cfg.Provider
	if provider == "" {
		provider = consts.Simulated
		if cfg.Login != "" && cfg.Password != "" {
			provider = consts.SMSC
		}
	}

	log.Infof("sms provider: %s", provider)

	switch provider {
	case consts.SMSC:
		return NewSMSCSender(cfg)
	case consts.SNS:
		return NewSNSSender(ctx, cfg)
	case consts.Simulated:
		return NewSimulatedSender(), nil
	}

	return nil, fmt.Errorf("unknown sms provider %s", provider)
}
