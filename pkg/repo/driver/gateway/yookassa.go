package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"

	"kidsclub/config"
	"kidsclub/pkg/consts"
	"kidsclub/pkg/entities"
	"kidsclub/utilities"
	"kidsclub/utilities/http_client"
)

type YookassaGateway struct {
	cfg        config.Yukassa
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
}

type receiptCustomer struct {
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	FullName string `json:"full_name,omitempty"`
}

type receiptItem struct {
	Description    string          `json:"description"`
	Quantity       string          `json:"quantity"`
	Amount         entities.Amount `json:"amount"`
	VatCode        int             `json:"vat_code"`
	PaymentMode    string          `json:"payment_mode"`
	PaymentSubject string          `json:"payment_subject"`
}

type receipt struct {
	Customer      *receiptCustomer `json:"customer,omitempty"`
	Items         []receiptItem    `json:"items"`
	TaxSystemCode int              `json:"tax_system_code"`
}

type createPaymentBody struct {
	Amount       entities.Amount       `json:"amount"`
	Confirmation entities.Confirmation `json:"confirmation"`
	Capture      bool                  `json:"capture"`
	Description  string                `json:"description"`
	Metadata     map[string]string     `json:"metadata"`
	Receipt      receipt               `json:"receipt"`
}

// gatewayResult lets a 404 pass through the breaker without counting as a failure
type gatewayResult struct {
	payment  *entities.Payment
	notFound bool
}

func NewYookassaGateway(cfg config.Yukassa) *YookassaGateway {
	log := utilities.NewLogger("NewYookassaGateway")

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        consts.Yookassa,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warnf("circuit breaker %s moved from %s to %s", name, from, to)
		},
	})

	return &YookassaGateway{
		cfg:        cfg,
		httpClient: http_client.GetClient(),
		breaker:    breaker,
	}
}

func (y *YookassaGateway) buildBody(req *entities.PaymentRequest) createPaymentBody {
	amount := entities.Amount{Value: formatAmount(req.Amount), Currency: y.cfg.Currency}

	taxSystemCode := y.cfg.TaxSystemCode
	if req.TaxSystemCode != nil {
		taxSystemCode = *req.TaxSystemCode
	}
	vatCode := y.cfg.VatCode
	if req.VatCode != nil {
		vatCode = *req.VatCode
	}

	var customer *receiptCustomer
	if req.Customer != nil {
		customer = &receiptCustomer{
			Email:    req.Customer.Email,
			Phone:    req.Customer.Phone,
			FullName: req.Customer.FullName,
		}
	}

	return createPaymentBody{
		Amount: amount,
		Confirmation: entities.Confirmation{
			Type:      "redirect",
			ReturnURL: req.ReturnURL,
		},
		Capture:     true,
		Description: req.Description,
		Metadata:    paymentMetadata(req),
		Receipt: receipt{
			Customer: customer,
			Items: []receiptItem{
				{
					Description:    req.Description,
					Quantity:       "1.00",
					Amount:         amount,
					VatCode:        vatCode,
					PaymentMode:    "full_payment",
					PaymentSubject: "service",
				},
			},
			TaxSystemCode: taxSystemCode,
		},
	}
}

func (y *YookassaGateway) do(ctx context.Context, method, path string, body []byte) (*gatewayResult, error) {
	log := utilities.NewLoggerWithFields("YookassaGateway.do", map[string]interface{}{
		"method": method,
		"path":   path,
	})

	result, err := y.breaker.Execute(func() (interface{}, error) {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}

		req, err := http.NewRequestWithContext(ctx, method, y.cfg.URL+path, reader)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		req.SetBasicAuth(y.cfg.ShopID, y.cfg.SecretKey)
		req.Header.Set("Content-Type", consts.JSONContentType)
		if method == http.MethodPost {
			req.Header.Set("Idempotence-Key", uuid.NewString())
		}

		resp, err := y.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("yookassa request failed: %w", err)
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read yookassa response: %w", err)
		}

		if resp.StatusCode == http.StatusNotFound {
			return &gatewayResult{notFound: true}, nil
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			log.Errorf("yookassa returned %s: %s", resp.Status, string(respBody))
			return nil, fmt.Errorf("yookassa returned %s", resp.Status)
		}

		payment := new(entities.Payment)
		if err = json.Unmarshal(respBody, payment); err != nil {
			return nil, fmt.Errorf("failed to parse yookassa response: %w", err)
		}

		return &gatewayResult{payment: payment}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s", entities.ErrGateway, err.Error())
	}

	return result.(*gatewayResult), nil
}

func (y *YookassaGateway) CreatePayment(ctx context.Context, req *entities.PaymentRequest) (*entities.Payment, error) {
	body, err := json.Marshal(y.buildBody(req))
	if err != nil {
		return nil, err
	}

	result, err := y.do(ctx, http.MethodPost, "/payments", body)
	if err != nil {
		return nil, err
	}
	if result.notFound {
		return nil, fmt.Errorf("%w: payments endpoint not found", entities.ErrGateway)
	}

	return result.payment, nil
}

func (y *YookassaGateway) GetPayment(ctx context.Context, id string) (*entities.Payment, error) {
	result, err := y.do(ctx, http.MethodGet, "/payments/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	if result.notFound {
		return nil, entities.ErrPaymentNotFound
	}

	return result.payment, nil
}

func (y *YookassaGateway) Demo() bool {
	return false
}
