package entities

import "errors"

type Customer struct {
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	FullName string `json:"fullName,omitempty"`
}

type PaymentRequest struct {
	Amount         float64           `json:"amount"`
	Description    string            `json:"description"`
	SubscriptionID string            `json:"subscriptionId"`
	UserID         string            `json:"userId"`
	ReturnURL      string            `json:"returnUrl"`
	Metadata       map[string]string `json:"metadata,omitempty"`
	Customer       *Customer         `json:"customer,omitempty"`
	TaxSystemCode  *int              `json:"taxSystemCode,omitempty"`
	VatCode        *int              `json:"vatCode,omitempty"`
}

type Amount struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

type Confirmation struct {
	Type            string `json:"type"`
	ReturnURL       string `json:"return_url,omitempty"`
	ConfirmationURL string `json:"confirmation_url,omitempty"`
}

// Payment is the gateway's view of a payment
type Payment struct {
	ID           string            `json:"id"`
	Status       string            `json:"status"`
	Paid         bool              `json:"paid"`
	Amount       Amount            `json:"amount"`
	Confirmation *Confirmation     `json:"confirmation,omitempty"`
	CreatedAt    string            `json:"created_at"`
	Description  string            `json:"description,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	Test         bool              `json:"test"`
}

type PaymentResponse struct {
	Success bool     `json:"success"`
	Payment *Payment `json:"payment"`
	Demo    bool     `json:"demo"`
}

const (
	PaymentPending   = "pending"
	PaymentSucceeded = "succeeded"
)

var (
	ErrInvalidAmount   = errors.New("invalid payment amount")
	ErrMissingFields   = errors.New("missing required payment fields")
	ErrPaymentNotFound = errors.New("payment not found")
	ErrGateway         = errors.New("payment gateway error")
)
