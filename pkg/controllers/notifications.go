package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"kidsclub/pkg/consts"
	"kidsclub/pkg/entities"
	"kidsclub/pkg/middlewares"
	"kidsclub/pkg/repo/driver/medium"
	"kidsclub/pkg/usecases"
	"kidsclub/utilities"
)

type NotificationController struct {
	router      *gin.RouterGroup
	useCases    usecases.NotificationUsecaseImply
	ws          *medium.Socket
	middleWares *middlewares.Middlewares
	origins     []string
	// ctx outlives the upgrade request and stops the ping loops on shutdown
	ctx context.Context
}

// NewNotificationController
func NewNotificationController(
	router *gin.RouterGroup, useCases usecases.NotificationUsecaseImply,
	ws *medium.Socket, middleWare *middlewares.Middlewares, allowedOrigins []string,
) *NotificationController {
	return &NotificationController{
		router:      router,
		useCases:    useCases,
		ws:          ws,
		middleWares: middleWare,
		origins:     allowedOrigins,
	}
}

// InitRoutes
func (n *NotificationController) InitRoutes(ctx context.Context) {
	n.ctx = ctx

	notifications := n.router.Group("/notifications")
	notifications.GET("/ws", n.WebsocketHandler)

	authorized := notifications.Group("", n.middleWares.ValidateToken)
	authorized.GET("/preferences", n.GetPreferences)
	authorized.PUT("/preferences", n.UpdatePreferences)
	authorized.POST("/token", n.RegisterToken)
	authorized.DELETE("/token", n.UnregisterToken)
}

func (n *NotificationController) GetPreferences(ctx *gin.Context) {
	prefs, err := n.useCases.GetPreferences(ctx, ctx.GetString(consts.UserPhone))
	if err != nil {
		internalError(ctx, "GetPreferences", err)
		return
	}

	okJSON(ctx, "", prefs)
}

func (n *NotificationController) UpdatePreferences(ctx *gin.Context) {
	var prefs entities.Preferences
	if err := ctx.ShouldBindJSON(&prefs); err != nil {
		errorJSON(ctx, http.StatusBadRequest, consts.MsgBadRequest)
		return
	}

	if err := n.useCases.UpdatePreferences(ctx, ctx.GetString(consts.UserPhone), prefs); err != nil {
		internalError(ctx, "UpdatePreferences", err)
		return
	}

	okJSON(ctx, consts.MsgSaved, prefs)
}

func (n *NotificationController) RegisterToken(ctx *gin.Context) {
	var req entities.TokenRequest
	// an empty body is fine, the simulated bridge mints its own token
	_ = ctx.ShouldBindJSON(&req)

	resp, err := n.useCases.RegisterToken(ctx, ctx.GetString(consts.UserPhone), req.Token)
	if err != nil {
		internalError(ctx, "RegisterToken", err)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

func (n *NotificationController) UnregisterToken(ctx *gin.Context) {
	var req entities.TokenRequest
	if err := ctx.ShouldBindJSON(&req); err != nil || req.Token == "" {
		errorJSON(ctx, http.StatusBadRequest, consts.MsgBadRequest)
		return
	}

	if err := n.useCases.UnregisterToken(ctx, ctx.GetString(consts.UserPhone), req.Token); err != nil {
		internalError(ctx, "UnregisterToken", err)
		return
	}

	okJSON(ctx, consts.MsgDeleted, nil)
}

// WebsocketHandler opens the in-app notification channel of a window
func (n *NotificationController) WebsocketHandler(ctx *gin.Context) {
	log := utilities.NewLogger("WebsocketHandler")

	if err := n.middleWares.VerifyWebsocketRequest(ctx, ctx.Query("token")); err != nil {
		log.WithError(err).Debug("ws request rejected")
		errorJSON(ctx, http.StatusUnauthorized, consts.MsgInvalidToken)
		return
	}
	phone := ctx.GetString(consts.UserPhone)

	upgrader := medium.Upgrade(n.origins)
	wsConn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		log.WithError(err).Error("failed to upgrade websocket connection")
		return
	}

	hubCtx := n.ctx
	if hubCtx == nil {
		hubCtx = context.Background()
	}
	n.ws.Add(hubCtx, phone, wsConn)

	if err = n.useCases.Subscribe(ctx, phone); err != nil {
		log.WithError(err).Error("failed to subscribe ws phone")
	}
}
