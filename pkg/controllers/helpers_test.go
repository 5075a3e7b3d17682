package controllers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"kidsclub/config"
	"kidsclub/pkg/metrics"
	"kidsclub/pkg/middlewares"
	"kidsclub/pkg/repo"
	"kidsclub/pkg/repo/driver/gateway"
	"kidsclub/pkg/repo/driver/sms"
	"kidsclub/pkg/repo/driver/store"
	"kidsclub/pkg/usecases"
	"kidsclub/utilities/jwt"
)

type testServer struct {
	router *gin.Engine
	signer *jwt.Signer
}

func newTestServer(t *testing.T, mode string) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	conf := &config.KidsClubConfModel{
		Mode:      mode,
		RateLimit: config.RateLimit{SMSPerMinute: 6000, Burst: 100},
	}
	kv := store.NewMemoryStore()
	m := metrics.NewMetrics("test")
	signer := jwt.NewSigner("test-secret", 7*24*time.Hour)

	otpRepo := repo.NewOTPRepo(kv)
	profileRepo := repo.NewProfileRepo(kv)
	catalogRepo := repo.NewCatalogRepo(kv)

	otpUsecases := usecases.NewOTPUsecases(
		otpRepo, profileRepo, sms.NewSimulatedSender(), signer, m, usecases.NewOTPSettings(conf),
	)
	demo := gateway.NewDemoGateway("RUB")
	paymentUsecases := usecases.NewPaymentUsecases(demo, demo, m)
	catalogUsecases := usecases.NewCatalogUsecases(catalogRepo)

	router := gin.New()
	router.Use(Recovery())
	api := router.Group("/api")
	mw := middlewares.NewMiddlewares(signer, conf)

	NewSMSController(api, otpUsecases, mw).InitRoutes()
	NewPaymentController(api, paymentUsecases, mw).InitRoutes()
	NewCatalogController(api, catalogUsecases, mw).InitRoutes()

	return &testServer{router: router, signer: signer}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	out := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

