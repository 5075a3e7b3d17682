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

type CatalogController struct {
	router      *gin.RouterGroup
	useCases    usecases.CatalogUsecaseImply
	middleWares *middlewares.Middlewares
}

func NewCatalogController(
	router *gin.RouterGroup, useCases usecases.CatalogUsecaseImply, middleWare *middlewares.Middlewares,
) *CatalogController {
	return &CatalogController{
		router:      router,
		useCases:    useCases,
		middleWares: middleWare,
	}
}

// InitRoutes initializes the public catalog and its admin CRUD
func (c *CatalogController) InitRoutes() {
	c.router.GET("/plans", c.ListActivePlans)
	c.router.GET("/banners", c.ListActiveBanners)

	admin := c.router.Group("", c.middleWares.ValidateToken, c.middleWares.IsAdminUser)
	admin.GET("/plans/all", c.ListAllPlans)
	admin.GET("/admin/banners", c.ListAllBanners)
	admin.POST("/admin/plans", c.CreatePlan)
	admin.PUT("/admin/plans/:id", c.UpdatePlan)
	admin.DELETE("/admin/plans/:id", c.DeletePlan)
	admin.POST("/admin/banners", c.CreateBanner)
	admin.PUT("/admin/banners/:id", c.UpdateBanner)
	admin.DELETE("/admin/banners/:id", c.DeleteBanner)
}

// catalogError maps usecase failures of the catalog routes
func catalogError(ctx *gin.Context, fn string, err error) {
	validation := &entities.ValidationError{}
	switch {
	case errors.As(err, &validation):
		errorJSON(ctx, http.StatusBadRequest, validation.Error())
	case errors.Is(err, entities.ErrPlanNotFound), errors.Is(err, entities.ErrBannerNotFound):
		errorJSON(ctx, http.StatusNotFound, consts.MsgNotFound)
	default:
		internalError(ctx, fn, err)
	}
}

func (c *CatalogController) ListActivePlans(ctx *gin.Context) {
	plans, err := c.useCases.ListActivePlans(ctx)
	if err != nil {
		catalogError(ctx, "ListActivePlans", err)
		return
	}

	okJSON(ctx, "", plans)
}

func (c *CatalogController) ListAllPlans(ctx *gin.Context) {
	plans, err := c.useCases.ListAllPlans(ctx)
	if err != nil {
		catalogError(ctx, "ListAllPlans", err)
		return
	}

	okJSON(ctx, "", plans)
}

func (c *CatalogController) CreatePlan(ctx *gin.Context) {
	var plan entities.SubscriptionPlan
	if err := ctx.ShouldBindJSON(&plan); err != nil {
		errorJSON(ctx, http.StatusBadRequest, consts.MsgBadRequest)
		return
	}

	created, err := c.useCases.CreatePlan(ctx, &plan, ctx.GetString(consts.UserPhone))
	if err != nil {
		catalogError(ctx, "CreatePlan", err)
		return
	}

	ctx.JSON(http.StatusCreated, entities.Response{
		StatusCode: http.StatusCreated,
		Message:    consts.MsgSaved,
		Data:       created,
	})
}

func (c *CatalogController) UpdatePlan(ctx *gin.Context) {
	var plan entities.SubscriptionPlan
	if err := ctx.ShouldBindJSON(&plan); err != nil {
		errorJSON(ctx, http.StatusBadRequest, consts.MsgBadRequest)
		return
	}

	updated, err := c.useCases.UpdatePlan(ctx, ctx.Param("id"), &plan)
	if err != nil {
		catalogError(ctx, "UpdatePlan", err)
		return
	}

	okJSON(ctx, consts.MsgSaved, updated)
}

func (c *CatalogController) DeletePlan(ctx *gin.Context) {
	if err := c.useCases.DeletePlan(ctx, ctx.Param("id")); err != nil {
		catalogError(ctx, "DeletePlan", err)
		return
	}

	okJSON(ctx, consts.MsgDeleted, nil)
}

func (c *CatalogController) ListActiveBanners(ctx *gin.Context) {
	banners, err := c.useCases.ListActiveBanners(ctx)
	if err != nil {
		catalogError(ctx, "ListActiveBanners", err)
		return
	}

	okJSON(ctx, "", banners)
}

func (c *CatalogController) ListAllBanners(ctx *gin.Context) {
	banners, err := c.useCases.ListAllBanners(ctx)
	if err != nil {
		catalogError(ctx, "ListAllBanners", err)
		return
	}

	okJSON(ctx, "", banners)
}

func (c *CatalogController) CreateBanner(ctx *gin.Context) {
	var banner entities.Banner
	if err := ctx.ShouldBindJSON(&banner); err != nil {
		errorJSON(ctx, http.StatusBadRequest, consts.MsgBadRequest)
		return
	}

	created, err := c.useCases.CreateBanner(ctx, &banner)
	if err != nil {
		catalogError(ctx, "CreateBanner", err)
		return
	}

	ctx.JSON(http.StatusCreated, entities.Response{
		StatusCode: http.StatusCreated,
		Message:    consts.MsgSaved,
		Data:       created,
	})
}

func (c *CatalogController) UpdateBanner(ctx *gin.Context) {
	var banner entities.Banner
	if err := ctx.ShouldBindJSON(&banner); err != nil {
		errorJSON(ctx, http.StatusBadRequest, consts.MsgBadRequest)
		return
	}

	updated, err := c.useCases.UpdateBanner(ctx, ctx.Param("id"), &banner)
	if err != nil {
		catalogError(ctx, "UpdateBanner", err)
		return
	}

	okJSON(ctx, consts.MsgSaved, updated)
}

func (c *CatalogController) DeleteBanner(ctx *gin.Context) {
	if err := c.useCases.DeleteBanner(ctx, ctx.Param("id")); err != nil {
		catalogError(ctx, "DeleteBanner", err)
		return
	}

	okJSON(ctx, consts.MsgDeleted, nil)
}
