package gateway

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"kidsclub/pkg/consts"
	"kidsclub/pkg/entities"
)

type DemoGateway struct {
	currency string
	now      func() time.Time
}

func NewDemoGateway(currency string) *DemoGateway {
	return &DemoGateway{currency: currency, now: time.Now}
}

func (d *DemoGateway) CreatePayment(_ context.Context, req *entities.PaymentRequest) (*entities.Payment, error) {
	id := consts.DemoPaymentID + uuid.NewString()

	query := url.Values{}
	query.Set("payment_id", id)
	query.Set("status", "success")
	query.Set("demo", "true")

	separator := "?"
	if strings.Contains(req.ReturnURL, "?") {
		separator = "&"
	}

	return &entities.Payment{
		ID:     id,
		Status: entities.PaymentPending,
		Amount: entities.Amount{Value: formatAmount(req.Amount), Currency: d.currency},
		Confirmation: &entities.Confirmation{
			Type:            "redirect",
			ConfirmationURL: req.ReturnURL + separator + query.Encode(),
		},
		CreatedAt:   d.now().UTC().Format(time.RFC3339),
		Description: req.Description,
		Metadata:    paymentMetadata(req),
		Test:        true,
	}, nil
}

// GetPayment reports every demo payment as paid
func (d *DemoGateway) GetPayment(_ context.Context, id string) (*entities.Payment, error) {
	return &entities.Payment{
		ID:        id,
		Status:    entities.PaymentSucceeded,
		Paid:      true,
		Amount:    entities.Amount{Value: formatAmount(0), Currency: d.currency},
		CreatedAt: d.now().UTC().Format(time.RFC3339),
		Test:      true,
	}, nil
}

func (d *DemoGateway) Demo() bool {
	return true
}

func paymentMetadata(req *entities.PaymentRequest) map[string]string {
	metadata := make(map[string]string, len(req.Metadata)+2)
	for k, v := range req.Metadata {
		metadata[k] = v
	}
	metadata["subscriptionId"] = req.SubscriptionID
	metadata["userId"] = req.UserID

	return metadata
}
