package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kidsclub/config"
	"kidsclub/pkg/entities"
)

func paymentRequest() *entities.PaymentRequest {
	return &entities.PaymentRequest{
		Amount:         1500,
		Description:    "Абонемент на 8 занятий",
		SubscriptionID: "plan-8",
		UserID:         "79991234567",
		ReturnURL:      "https://kids.example/payment/return",
		Customer:       &entities.Customer{Email: "parent@example.com"},
	}
}

func TestDemoGateway_CreatePayment(t *testing.T) {
	gw := NewDemoGateway("RUB")

	payment, err := gw.CreatePayment(context.Background(), paymentRequest())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(payment.ID, "demo_"))
	assert.Equal(t, entities.PaymentPending, payment.Status)
	assert.Equal(t, "1500.00", payment.Amount.Value)
	assert.True(t, payment.Test)
	assert.Equal(t, "plan-8", payment.Metadata["subscriptionId"])

	confirmation, err := url.Parse(payment.Confirmation.ConfirmationURL)
	require.NoError(t, err)
	assert.Equal(t, "/payment/return", confirmation.Path)
	assert.Equal(t, "true", confirmation.Query().Get("demo"))
	assert.Equal(t, "success", confirmation.Query().Get("status"))
	assert.Equal(t, payment.ID, confirmation.Query().Get("payment_id"))
}

func TestDemoGateway_ReturnURLWithQuery(t *testing.T) {
	req := paymentRequest()
	req.ReturnURL = "https://kids.example/return?from=shop"

	payment, err := NewDemoGateway("RUB").CreatePayment(context.Background(), req)
	require.NoError(t, err)

	confirmation, err := url.Parse(payment.Confirmation.ConfirmationURL)
	require.NoError(t, err)
	assert.Equal(t, "shop", confirmation.Query().Get("from"))
	assert.Equal(t, "true", confirmation.Query().Get("demo"))
}

func TestYookassaGateway_CreatePayment(t *testing.T) {
	var (
		body           map[string]interface{}
		idempotenceKey string
		user, pass     string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/payments", r.URL.Path)
		user, pass, _ = r.BasicAuth()
		idempotenceKey = r.Header.Get("Idempotence-Key")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)

		_, _ = w.Write([]byte(`{"id":"2c5d","status":"pending","paid":false,"amount":{"value":"1500.00","currency":"RUB"},"confirmation":{"type":"redirect","confirmation_url":"https://yoomoney.ru/checkout/2c5d"},"created_at":"2024-01-01T00:00:00.000Z","test":true}`))
	}))
	defer srv.Close()

	vat := 4
	req := paymentRequest()
	req.VatCode = &vat

	gw := NewYookassaGateway(config.Yukassa{
		ShopID: "shop", SecretKey: "secret", URL: srv.URL, Currency: "RUB", TaxSystemCode: 2, VatCode: 1,
	})
	payment, err := gw.CreatePayment(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "2c5d", payment.ID)
	assert.Equal(t, "https://yoomoney.ru/checkout/2c5d", payment.Confirmation.ConfirmationURL)
	assert.Equal(t, "shop", user)
	assert.Equal(t, "secret", pass)
	assert.NotEmpty(t, idempotenceKey)

	assert.Equal(t, true, body["capture"])
	receipt := body["receipt"].(map[string]interface{})
	assert.EqualValues(t, 2, receipt["tax_system_code"])
	item := receipt["items"].([]interface{})[0].(map[string]interface{})
	assert.EqualValues(t, 4, item["vat_code"])
	assert.Equal(t, "full_payment", item["payment_mode"])
	assert.Equal(t, "service", item["payment_subject"])
	assert.Equal(t, "parent@example.com", receipt["customer"].(map[string]interface{})["email"])
}

func TestYookassaGateway_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/missing") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"type":"error","code":"invalid_credentials"}`))
	}))
	defer srv.Close()

	gw := NewYookassaGateway(config.Yukassa{ShopID: "shop", SecretKey: "bad", URL: srv.URL, Currency: "RUB"})

	_, err := gw.CreatePayment(context.Background(), paymentRequest())
	assert.True(t, errors.Is(err, entities.ErrGateway))

	_, err = gw.GetPayment(context.Background(), "missing")
	assert.True(t, errors.Is(err, entities.ErrPaymentNotFound))

	_, err = gw.GetPayment(context.Background(), "other")
	assert.True(t, errors.Is(err, entities.ErrGateway))
}

func TestNewGateway(t *testing.T) {
	assert.True(t, NewGateway(config.Yukassa{}).Demo())
	assert.True(t, NewGateway(config.Yukassa{ShopID: "shop"}).Demo())
	assert.False(t, NewGateway(config.Yukassa{ShopID: "shop", SecretKey: "key"}).Demo())
}
