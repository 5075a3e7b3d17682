package sms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"kidsclub/config"
	"kidsclub/pkg/consts"
	"kidsclub/utilities"
	"kidsclub/utilities/http_client"
)

type SMSCSender struct {
	login      string
	password   string
	sender     string
	apiURL     string
	httpClient *http.Client
}

type smscResponse struct {
	ID        int    `json:"id"`
	Count     int    `json:"cnt"`
	Error     string `json:"error"`
	ErrorCode int    `json:"error_code"`
}

func NewSMSCSender(cfg config.SMS) (*SMSCSender, error) {
	if cfg.Login == "" || cfg.Password == "" {
		return nil, errors.New("SMSC_LOGIN and SMSC_PASSWORD must be set")
	}

	return &SMSCSender{
		login:      cfg.Login,
		password:   cfg.Password,
		sender:     cfg.Sender,
		apiURL:     cfg.URL,
		httpClient: http_client.GetClient(),
	}, nil
}

func (s *SMSCSender) SendSMS(ctx context.Context, phone, msg string) error {
	log := utilities.NewLogger("SMSCSender.SendSMS")

	query := url.Values{}
	query.Set("login", s.login)
	query.Set("psw", s.password)
	query.Set("phones", phone)
	query.Set("mes", msg)
	query.Set("fmt", "3")
	query.Set("charset", "utf-8")
	if s.sender != "" {
		query.Set("sender", s.sender)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.apiURL+"?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("smsc request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read smsc response: %w", err)
	}

	if resp.StatusCode >= 300 {
		return fmt.Errorf("smsc error %s: %s", resp.Status, string(body))
	}

	result := new(smscResponse)
	if err = json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("failed to parse smsc response: %w", err)
	}

	if result.Error != "" {
		return fmt.Errorf("smsc rejected message, code %d: %s", result.ErrorCode, result.Error)
	}

	log.Debugf("sms %d sent to %s", result.ID, utilities.MaskPhone(phone))

	return nil
}

func (s *SMSCSender) Simulated() bool {
	return false
}

func (s *SMSCSender) Name() string {
	return consts.SMSC
}
