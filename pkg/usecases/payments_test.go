package usecases

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kidsclub/pkg/entities"
	"kidsclub/pkg/metrics"
	"kidsclub/pkg/repo/driver/gateway"
)

type countingGateway struct {
	creates int
	gets    []string
	err     error
}

func (g *countingGateway) CreatePayment(_ context.Context, req *entities.PaymentRequest) (*entities.Payment, error) {
	g.creates++
	if g.err != nil {
		return nil, g.err
	}
	return &entities.Payment{ID: "real-1", Status: entities.PaymentPending}, nil
}

func (g *countingGateway) GetPayment(_ context.Context, id string) (*entities.Payment, error) {
	g.gets = append(g.gets, id)
	if g.err != nil {
		return nil, g.err
	}
	return &entities.Payment{ID: id, Status: entities.PaymentSucceeded, Paid: true}, nil
}

func (g *countingGateway) Demo() bool { return false }

func validPayment() *entities.PaymentRequest {
	return &entities.PaymentRequest{
		Amount:         2400,
		Description:    "Абонемент",
		SubscriptionID: "plan-1",
		UserID:         testPhone,
		ReturnURL:      "https://kids.example/return",
	}
}

func TestCreatePayment_Validation(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*entities.PaymentRequest)
		want   error
	}{
		{name: "zero amount", modify: func(r *entities.PaymentRequest) { r.Amount = 0 }, want: entities.ErrInvalidAmount},
		{name: "negative amount", modify: func(r *entities.PaymentRequest) { r.Amount = -10 }, want: entities.ErrInvalidAmount},
		{name: "no description", modify: func(r *entities.PaymentRequest) { r.Description = " " }, want: entities.ErrMissingFields},
		{name: "no subscription", modify: func(r *entities.PaymentRequest) { r.SubscriptionID = "" }, want: entities.ErrMissingFields},
		{name: "no user", modify: func(r *entities.PaymentRequest) { r.UserID = "" }, want: entities.ErrMissingFields},
		{name: "no return url", modify: func(r *entities.PaymentRequest) { r.ReturnURL = "" }, want: entities.ErrMissingFields},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := &countingGateway{}
			usecase := NewPaymentUsecases(gw, gateway.NewDemoGateway("RUB"), metrics.NewMetrics("test"))

			req := validPayment()
			tt.modify(req)
			_, err := usecase.CreatePayment(context.Background(), req)

			assert.ErrorIs(t, err, tt.want)
			assert.Zero(t, gw.creates)
		})
	}
}

func TestCreatePayment_Demo(t *testing.T) {
	demo := gateway.NewDemoGateway("RUB")
	usecase := NewPaymentUsecases(demo, demo, metrics.NewMetrics("test"))

	resp, err := usecase.CreatePayment(context.Background(), validPayment())
	require.NoError(t, err)
	assert.True(t, resp.Demo)
	assert.Contains(t, resp.Payment.Confirmation.ConfirmationURL, "demo=true")
	assert.Contains(t, resp.Payment.Confirmation.ConfirmationURL, "status=success")
}

func TestCreatePayment_GatewayFailure(t *testing.T) {
	gw := &countingGateway{err: errors.New("connection reset")}
	usecase := NewPaymentUsecases(gw, gateway.NewDemoGateway("RUB"), metrics.NewMetrics("test"))

	_, err := usecase.CreatePayment(context.Background(), validPayment())
	assert.ErrorIs(t, err, entities.ErrGateway)
	assert.Equal(t, 1, gw.creates)
}

func TestGetPayment_Routing(t *testing.T) {
	gw := &countingGateway{}
	usecase := NewPaymentUsecases(gw, gateway.NewDemoGateway("RUB"), metrics.NewMetrics("test"))
	ctx := context.Background()

	_, err := usecase.GetPayment(ctx, "")
	assert.ErrorIs(t, err, entities.ErrMissingFields)

	resp, err := usecase.GetPayment(ctx, "demo_abc")
	require.NoError(t, err)
	assert.True(t, resp.Demo)
	assert.Equal(t, entities.PaymentSucceeded, resp.Payment.Status)
	assert.Empty(t, gw.gets)

	resp, err = usecase.GetPayment(ctx, "2c5d")
	require.NoError(t, err)
	assert.False(t, resp.Demo)
	assert.Equal(t, []string{"2c5d"}, gw.gets)

	gw.err = entities.ErrPaymentNotFound
	_, err = usecase.GetPayment(ctx, "missing")
	assert.ErrorIs(t, err, entities.ErrPaymentNotFound)
}

func TestGetPayment_DemoGatewayAnswersAnyID(t *testing.T) {
	demo := gateway.NewDemoGateway("RUB")
	usecase := NewPaymentUsecases(demo, demo, metrics.NewMetrics("test"))

	resp, err := usecase.GetPayment(context.Background(), "whatever")
	require.NoError(t, err)
	assert.True(t, resp.Demo)
	assert.True(t, strings.EqualFold(resp.Payment.Status, "succeeded"))
}
