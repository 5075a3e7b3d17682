package usecases

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"kidsclub/pkg/consts"
	"kidsclub/pkg/entities"
	"kidsclub/pkg/metrics"
	"kidsclub/pkg/repo/driver/gateway"
	"kidsclub/utilities"
)

type PaymentUsecases struct {
	gateway gateway.Gateway
	// demo answers status checks for demo_ ids even when a real gateway is configured
	demo    gateway.Gateway
	metrics *metrics.Metrics
}

type PaymentUsecaseImply interface {
	CreatePayment(ctx context.Context, req *entities.PaymentRequest) (*entities.PaymentResponse, error)
	GetPayment(ctx context.Context, id string) (*entities.PaymentResponse, error)
}

func NewPaymentUsecases(gw gateway.Gateway, demo gateway.Gateway, m *metrics.Metrics) *PaymentUsecases {
	return &PaymentUsecases{gateway: gw, demo: demo, metrics: m}
}

func validatePaymentRequest(req *entities.PaymentRequest) error {
	if req.Amount <= 0 {
		return entities.ErrInvalidAmount
	}

	for _, field := range []string{req.Description, req.SubscriptionID, req.UserID, req.ReturnURL} {
		if strings.TrimSpace(field) == "" {
			return entities.ErrMissingFields
		}
	}

	return nil
}

func (usecase *PaymentUsecases) CreatePayment(
	ctx context.Context, req *entities.PaymentRequest,
) (*entities.PaymentResponse, error) {
	log := utilities.NewLoggerWithFields("CreatePayment", map[string]interface{}{
		"subscription": req.SubscriptionID,
		"demo":         usecase.gateway.Demo(),
	})

	if err := validatePaymentRequest(req); err != nil {
		usecase.metrics.Payments.WithLabelValues("create", "invalid").Inc()
		return nil, err
	}

	payment, err := usecase.gateway.CreatePayment(ctx, req)
	if err != nil {
		log.WithError(err).Error("payment creation failed")
		usecase.metrics.Payments.WithLabelValues("create", "failed").Inc()
		if !errors.Is(err, entities.ErrGateway) {
			err = fmt.Errorf("%w: %v", entities.ErrGateway, err)
		}
		return nil, err
	}

	usecase.metrics.Payments.WithLabelValues("create", "created").Inc()
	log.Infof("payment %s created", payment.ID)

	return &entities.PaymentResponse{
		Success: true,
		Payment: payment,
		Demo:    usecase.gateway.Demo(),
	}, nil
}

func (usecase *PaymentUsecases) GetPayment(ctx context.Context, id string) (*entities.PaymentResponse, error) {
	if strings.TrimSpace(id) == "" {
		return nil, entities.ErrMissingFields
	}

	gw := usecase.gateway
	if strings.HasPrefix(id, consts.DemoPaymentID) || gw.Demo() {
		gw = usecase.demo
	}

	payment, err := gw.GetPayment(ctx, id)
	if err != nil {
		usecase.metrics.Payments.WithLabelValues("status", "failed").Inc()
		return nil, err
	}

	usecase.metrics.Payments.WithLabelValues("status", "ok").Inc()

	return &entities.PaymentResponse{
		Success: true,
		Payment: payment,
		Demo:    gw.Demo(),
	}, nil
}
