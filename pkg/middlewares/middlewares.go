package middlewares

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"kidsclub/config"
	"kidsclub/pkg/consts"
	"kidsclub/pkg/entities"
	"kidsclub/utilities"
	"kidsclub/utilities/jwt"
)

type Middlewares struct {
	// Cache holds the per-IP limiters of the sms routes
	Cache  *cache.Cache
	signer *jwt.Signer
	conf   *config.KidsClubConfModel
	limit  rate.Limit
	burst  int
}

// NewMiddlewares
func NewMiddlewares(signer *jwt.Signer, conf *config.KidsClubConfModel) *Middlewares {
	perMinute := conf.RateLimit.SMSPerMinute
	if perMinute <= 0 {
		perMinute = 20
	}
	burst := conf.RateLimit.Burst
	if burst <= 0 {
		burst = 1
	}

	return &Middlewares{
		Cache:  cache.New(10*time.Minute, 20*time.Minute),
		signer: signer,
		conf:   conf,
		limit:  rate.Every(time.Minute / time.Duration(perMinute)),
		burst:  burst,
	}
}

func abort(ctx *gin.Context, status int, message string) {
	ctx.AbortWithStatusJSON(status, entities.ErrorResponse{Error: message})
}

// BearerToken extracts the token of an "Authorization: Bearer <token>" header
func BearerToken(ctx *gin.Context) string {
	parts := strings.Fields(ctx.GetHeader("Authorization"))
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

func (m *Middlewares) ValidateToken(ctx *gin.Context) {
	log := utilities.NewLogger("ValidateToken")

	token := BearerToken(ctx)
	if token == "" {
		abort(ctx, http.StatusUnauthorized, consts.MsgUnauthorized)
		return
	}

	claims, err := m.signer.VerifyJWT(token)
	if err != nil {
		log.WithError(err).Debug("jwt verification failed")
		abort(ctx, http.StatusUnauthorized, consts.MsgInvalidToken)
		return
	}

	ctx.Set(consts.UserPhone, claims.Phone)
	ctx.Set(consts.UserToken, token)

	ctx.Next()
}

func (m *Middlewares) IsAdminUser(ctx *gin.Context) {
	log := utilities.NewLogger("IsAdminUser")

	phone := ctx.GetString(consts.UserPhone)
	if !config.IsAdminPhone(phone) {
		log.Errorf("user %s is not privileged", utilities.MaskPhone(phone))
		abort(ctx, http.StatusForbidden, consts.MsgForbidden)
		return
	}

	ctx.Set(consts.AdminUser, true)

	ctx.Next()
}

// DevelopmentOnly hides debug routes outside development mode
func (m *Middlewares) DevelopmentOnly(ctx *gin.Context) {
	if !m.conf.IsDevelopment() {
		abort(ctx, http.StatusForbidden, consts.MsgDevOnly)
		return
	}

	ctx.Next()
}

func (m *Middlewares) limiter(ip string) *rate.Limiter {
	if val, found := m.Cache.Get(ip); found {
		return val.(*rate.Limiter)
	}

	limiter := rate.NewLimiter(m.limit, m.burst)
	// a concurrent first request may have stored one already
	if err := m.Cache.Add(ip, limiter, cache.DefaultExpiration); err != nil {
		if val, found := m.Cache.Get(ip); found {
			return val.(*rate.Limiter)
		}
	}

	return limiter
}

// RateLimit throttles each client IP with a token bucket
func (m *Middlewares) RateLimit(ctx *gin.Context) {
	ip := ctx.ClientIP()
	if !m.limiter(ip).Allow() {
		utilities.NewLogger("RateLimit").Warnf("client %s throttled on %s", ip, ctx.FullPath())
		abort(ctx, http.StatusTooManyRequests, consts.MsgTooManyRequests)
		return
	}

	ctx.Next()
}

// VerifyWebsocketRequest authenticates a websocket upgrade, browsers cannot set headers there
func (m *Middlewares) VerifyWebsocketRequest(ctx *gin.Context, token string) error {
	claims, err := m.signer.VerifyJWT(token)
	if err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	ctx.Set(consts.UserPhone, claims.Phone)
	ctx.Set(consts.UserToken, token)

	return nil
}
