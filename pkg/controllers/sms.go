package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"kidsclub/pkg/consts"
	"kidsclub/pkg/entities"
	"kidsclub/pkg/middlewares"
	"kidsclub/pkg/usecases"
)

type SMSController struct {
	router      *gin.RouterGroup
	useCases    usecases.OTPUsecaseImply
	middleWares *middlewares.Middlewares
}

func NewSMSController(
	router *gin.RouterGroup, useCases usecases.OTPUsecaseImply, middleWare *middlewares.Middlewares,
) *SMSController {
	return &SMSController{
		router:      router,
		useCases:    useCases,
		middleWares: middleWare,
	}
}

// InitRoutes initializes the OTP login routes
func (s *SMSController) InitRoutes() {
	sms := s.router.Group("/sms", s.middleWares.RateLimit)
	sms.POST("/send", s.SendOTP)
	sms.GET("/send", s.middleWares.DevelopmentOnly, s.InspectOTP)
	sms.POST("/verify", s.VerifyOTP)
	sms.GET("/verify", s.IntrospectToken)
}

func (s *SMSController) SendOTP(ctx *gin.Context) {
	var req entities.SendOTPRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorJSON(ctx, http.StatusBadRequest, consts.MsgInvalidPhone)
		return
	}

	resp, err := s.useCases.SendOTP(ctx, req.Phone)
	if err != nil {
		rateLimited := &entities.RateLimitedError{}
		switch {
		case errors.Is(err, entities.ErrInvalidPhone):
			errorJSON(ctx, http.StatusBadRequest, consts.MsgInvalidPhone)
		case errors.As(err, &rateLimited):
			ctx.JSON(http.StatusTooManyRequests, entities.ErrorResponse{
				Error:         fmt.Sprintf(consts.MsgOTPRateLimited, rateLimited.Remaining),
				RemainingTime: rateLimited.Remaining,
			})
		default:
			internalError(ctx, "SendOTP", err)
		}
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

func (s *SMSController) InspectOTP(ctx *gin.Context) {
	resp, err := s.useCases.InspectOTP(ctx, ctx.Query("phone"))
	if err != nil {
		switch {
		case errors.Is(err, entities.ErrInvalidPhone):
			errorJSON(ctx, http.StatusBadRequest, consts.MsgInvalidPhone)
		case errors.Is(err, entities.ErrOTPNotFound):
			errorJSON(ctx, http.StatusNotFound, consts.MsgOTPNotFound)
		default:
			internalError(ctx, "InspectOTP", err)
		}
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

func (s *SMSController) VerifyOTP(ctx *gin.Context) {
	var req entities.VerifyOTPRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorJSON(ctx, http.StatusBadRequest, consts.MsgInvalidCode)
		return
	}

	resp, err := s.useCases.VerifyOTP(ctx, req.Phone, req.Code)
	if err != nil {
		mismatch := &entities.CodeMismatchError{}
		switch {
		case errors.Is(err, entities.ErrInvalidPhone):
			errorJSON(ctx, http.StatusBadRequest, consts.MsgInvalidPhone)
		case errors.Is(err, entities.ErrInvalidCode):
			errorJSON(ctx, http.StatusBadRequest, consts.MsgInvalidCode)
		case errors.As(err, &mismatch):
			remaining := mismatch.RemainingAttempts
			ctx.JSON(http.StatusBadRequest, entities.ErrorResponse{
				Error:             fmt.Sprintf(consts.MsgCodeMismatch, remaining),
				RemainingAttempts: &remaining,
			})
		case errors.Is(err, entities.ErrOTPNotFound):
			errorJSON(ctx, http.StatusNotFound, consts.MsgOTPNotFound)
		case errors.Is(err, entities.ErrOTPExpired):
			errorJSON(ctx, http.StatusGone, consts.MsgOTPExpired)
		case errors.Is(err, entities.ErrAttemptsExhausted):
			errorJSON(ctx, http.StatusTooManyRequests, consts.MsgAttemptsExhausted)
		default:
			internalError(ctx, "VerifyOTP", err)
		}
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

func (s *SMSController) IntrospectToken(ctx *gin.Context) {
	token := middlewares.BearerToken(ctx)
	if token == "" {
		errorJSON(ctx, http.StatusUnauthorized, consts.MsgUnauthorized)
		return
	}

	resp, err := s.useCases.IntrospectToken(token)
	if err != nil {
		errorJSON(ctx, http.StatusUnauthorized, consts.MsgInvalidToken)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}
