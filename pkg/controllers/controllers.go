package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"kidsclub/config"
	"kidsclub/pkg/consts"
	"kidsclub/pkg/entities"
	"kidsclub/pkg/middlewares"
	"kidsclub/pkg/usecases"
	"kidsclub/utilities"
)

type Controller struct {
	router      *gin.RouterGroup
	useCases    usecases.UseCaseImply
	middleWares *middlewares.Middlewares
}

// NewController
func NewController(
	router *gin.RouterGroup, useCases usecases.UseCaseImply, middleWare *middlewares.Middlewares,
) *Controller {
	return &Controller{
		router:      router,
		useCases:    useCases,
		middleWares: middleWare,
	}
}

// InitRoutes
func (c *Controller) InitRoutes() {
	c.router.GET("/health", c.HealthHandler)
	c.router.GET("/health/store", c.StoreHealthHandler)
}

// HealthHandler
func (c *Controller) HealthHandler(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, entities.HealthResponse{
		Status: "ok",
		Mode:   config.GetConfig().Mode,
	})
}

func (c *Controller) StoreHealthHandler(ctx *gin.Context) {
	if err := c.useCases.StoreHealthHandler(ctx); err != nil {
		utilities.NewLogger("StoreHealthHandler").WithError(err).Error("store ping failed")
		ctx.JSON(http.StatusServiceUnavailable, entities.HealthResponse{
			Status: "unhealthy",
			Store:  c.useCases.StoreName(),
		})
		return
	}

	ctx.JSON(http.StatusOK, entities.HealthResponse{
		Status: "ok",
		Store:  c.useCases.StoreName(),
	})
}

// Recovery turns a handler panic into the generic 500 body
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(ctx *gin.Context, recovered interface{}) {
		utilities.NewLogger("Recovery").Errorf("panic on %s: %v", ctx.FullPath(), recovered)
		ctx.AbortWithStatusJSON(http.StatusInternalServerError, entities.ErrorResponse{
			Error: consts.MsgInternalError,
		})
	})
}

func errorJSON(ctx *gin.Context, status int, message string) {
	ctx.JSON(status, entities.ErrorResponse{Error: message})
}

// internalError logs the real cause and answers with the generic message
func internalError(ctx *gin.Context, fn string, err error) {
	utilities.NewLogger(fn).WithError(err).Error("request failed")
	errorJSON(ctx, http.StatusInternalServerError, consts.MsgInternalError)
}

func okJSON(ctx *gin.Context, message string, data interface{}) {
	ctx.JSON(http.StatusOK, entities.Response{
		StatusCode: http.StatusOK,
		Message:    message,
		Data:       data,
	})
}
