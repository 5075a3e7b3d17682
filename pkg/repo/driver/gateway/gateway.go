package gateway

import (
	"context"

	"kidsclub/config"
	"kidsclub/pkg/entities"
	"kidsclub/utilities"
)

// Gateway creates payments and reads them back
type Gateway interface {
	CreatePayment(ctx context.Context, req *entities.PaymentRequest) (*entities.Payment, error)
	GetPayment(ctx context.Context, id string) (*entities.Payment, error)
	Demo() bool
}

// NewGateway returns the YooKassa gateway when shop credentials are present
// and the demo gateway otherwise.
func NewGateway(cfg config.Yukassa) Gateway {
	log := utilities.NewLogger("gateway.NewGateway")

	if cfg.ShopID == "" || cfg.SecretKey == "" {
		log.Info("payment gateway credentials absent, using demo gateway")
		return NewDemoGateway(cfg.Currency)
	}

	log.Infof("using yookassa gateway for shop %s", cfg.ShopID)
	return NewYookassaGateway(cfg)
}

func formatAmount(value float64) string {
	return utilities.FormatMoney(value)
}
