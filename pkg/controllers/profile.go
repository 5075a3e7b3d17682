package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"kidsclub/pkg/consts"
	"kidsclub/pkg/entities"
	"kidsclub/pkg/middlewares"
	"kidsclub/pkg/usecases"
)

type ProfileController struct {
	router      *gin.RouterGroup
	useCases    usecases.ProfileUsecaseImply
	middleWares *middlewares.Middlewares
}

func NewProfileController(
	router *gin.RouterGroup, useCases usecases.ProfileUsecaseImply, middleWare *middlewares.Middlewares,
) *ProfileController {
	return &ProfileController{
		router:      router,
		useCases:    useCases,
		middleWares: middleWare,
	}
}

// InitRoutes
func (p *ProfileController) InitRoutes() {
	profile := p.router.Group("/profile", p.middleWares.ValidateToken)
	profile.GET("", p.GetProfile)
	profile.PUT("", p.UpdateProfile)
	profile.POST("/subscriptions", p.ActivatePlan)
}

func (p *ProfileController) GetProfile(ctx *gin.Context) {
	record, err := p.useCases.GetProfile(ctx, ctx.GetString(consts.UserPhone))
	if err != nil {
		if errors.Is(err, entities.ErrProfileMissing) {
			errorJSON(ctx, http.StatusNotFound, consts.MsgNotFound)
			return
		}
		internalError(ctx, "GetProfile", err)
		return
	}

	okJSON(ctx, "", record)
}

func (p *ProfileController) UpdateProfile(ctx *gin.Context) {
	var record entities.ProfileRecord
	if err := ctx.ShouldBindJSON(&record); err != nil {
		errorJSON(ctx, http.StatusBadRequest, consts.MsgBadRequest)
		return
	}

	saved, err := p.useCases.UpdateProfile(ctx, ctx.GetString(consts.UserPhone), &record)
	if err != nil {
		validation := &entities.ValidationError{}
		if errors.As(err, &validation) {
			errorJSON(ctx, http.StatusBadRequest, validation.Error())
			return
		}
		internalError(ctx, "UpdateProfile", err)
		return
	}

	okJSON(ctx, consts.MsgSaved, saved)
}

func (p *ProfileController) ActivatePlan(ctx *gin.Context) {
	var req entities.ActivatePlanRequest
	if err := ctx.ShouldBindJSON(&req); err != nil || req.PlanID == "" {
		errorJSON(ctx, http.StatusBadRequest, consts.MsgBadRequest)
		return
	}

	record, err := p.useCases.ActivatePlan(ctx, ctx.GetString(consts.UserPhone), req.PlanID)
	if err != nil {
		switch {
		case errors.Is(err, entities.ErrPlanNotFound):
			errorJSON(ctx, http.StatusNotFound, consts.MsgNotFound)
		case errors.Is(err, entities.ErrPlanInactive):
			errorJSON(ctx, http.StatusBadRequest, consts.MsgBadRequest)
		default:
			internalError(ctx, "ActivatePlan", err)
		}
		return
	}

	okJSON(ctx, consts.MsgSaved, record)
}
