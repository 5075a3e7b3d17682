package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"kidsclub/pkg/consts"
	"kidsclub/pkg/entities"
	"kidsclub/pkg/middlewares"
	"kidsclub/pkg/usecases"
	"kidsclub/utilities"
)

type PaymentController struct {
	router      *gin.RouterGroup
	useCases    usecases.PaymentUsecaseImply
	middleWares *middlewares.Middlewares
}

func NewPaymentController(
	router *gin.RouterGroup, useCases usecases.PaymentUsecaseImply, middleWare *middlewares.Middlewares,
) *PaymentController {
	return &PaymentController{
		router:      router,
		useCases:    useCases,
		middleWares: middleWare,
	}
}

// InitRoutes initializes the payment proxy routes
func (p *PaymentController) InitRoutes() {
	p.router.POST("/payments/yukassa", p.CreatePayment)
	p.router.GET("/payments/yukassa", p.GetPayment)
}

func (p *PaymentController) CreatePayment(ctx *gin.Context) {
	var req entities.PaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utilities.NewLogger("CreatePayment").WithError(err).Debug("payment body binding failed")
		errorJSON(ctx, http.StatusBadRequest, consts.MsgBadRequest)
		return
	}

	resp, err := p.useCases.CreatePayment(ctx, &req)
	if err != nil {
		switch {
		case errors.Is(err, entities.ErrInvalidAmount):
			errorJSON(ctx, http.StatusBadRequest, consts.MsgInvalidAmount)
		case errors.Is(err, entities.ErrMissingFields):
			errorJSON(ctx, http.StatusBadRequest, consts.MsgMissingFields)
		default:
			utilities.NewLogger("CreatePayment").WithError(err).Error("payment creation failed")
			errorJSON(ctx, http.StatusInternalServerError, consts.MsgPaymentFailed)
		}
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

func (p *PaymentController) GetPayment(ctx *gin.Context) {
	resp, err := p.useCases.GetPayment(ctx, ctx.Query("payment_id"))
	if err != nil {
		switch {
		case errors.Is(err, entities.ErrMissingFields):
			errorJSON(ctx, http.StatusBadRequest, consts.MsgMissingPaymentID)
		case errors.Is(err, entities.ErrPaymentNotFound):
			errorJSON(ctx, http.StatusNotFound, consts.MsgPaymentNotFound)
		default:
			utilities.NewLogger("GetPayment").WithError(err).Error("payment status failed")
			errorJSON(ctx, http.StatusInternalServerError, consts.MsgPaymentStatus)
		}
		return
	}

	ctx.JSON(http.StatusOK, resp)
}
