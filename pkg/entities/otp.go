package entities

import (
	"errors"
	"time"
)

// OTPRecord is the pending code for a phone
type OTPRecord struct {
	Phone     string    `json:"phone"`
	Code      string    `json:"code"`
	Timestamp time.Time `json:"timestamp"`
	Attempts  int       `json:"attempts"`
}

type SendOTPRequest struct {
	Phone string `json:"phone"`
}

type SendOTPResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	DebugCode string `json:"debugCode,omitempty"`
}

type VerifyOTPRequest struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}

type AuthUser struct {
	Phone           string    `json:"phone"`
	IsAuthenticated bool      `json:"isAuthenticated"`
	LoginTime       time.Time `json:"loginTime"`
}

type VerifyOTPResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	Token   string   `json:"token"`
	User    AuthUser `json:"user"`
}

// OTPInspection is returned by the development introspection route
type OTPInspection struct {
	Success   bool      `json:"success"`
	Phone     string    `json:"phone"`
	Code      string    `json:"code"`
	Attempts  int       `json:"attempts"`
	Timestamp time.Time `json:"timestamp"`
	ExpiresIn int       `json:"expiresIn"`
}

type TokenIntrospection struct {
	Success   bool      `json:"success"`
	Phone     string    `json:"phone"`
	LoginTime time.Time `json:"loginTime"`
	IssuedAt  int64     `json:"iat"`
	ExpiresAt int64     `json:"exp"`
}

var (
	ErrInvalidPhone      = errors.New("invalid phone")
	ErrInvalidCode       = errors.New("invalid code")
	ErrOTPNotFound       = errors.New("otp not found")
	ErrOTPExpired        = errors.New("otp expired")
	ErrAttemptsExhausted = errors.New("otp attempts exhausted")
	ErrSMSDelivery       = errors.New("sms delivery failed")
)

// RateLimitedError is returned when a code is requested again too early
type RateLimitedError struct {
	Remaining int
}

func (e *RateLimitedError) Error() string {
	return "otp requested too early"
}

// CodeMismatchError carries how many tries are left for the stored code
type CodeMismatchError struct {
	RemainingAttempts int
}

func (e *CodeMismatchError) Error() string {
	return "otp code mismatch"
}
