package controllers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kidsclub/pkg/consts"
)

const phone = "79991234567"

func TestSMSRoutes_LoginFlow(t *testing.T) {
	s := newTestServer(t, "production")

	rec := s.do(t, http.MethodPost, "/api/sms/send", map[string]string{"phone": "8999"}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, consts.MsgInvalidPhone, decode(t, rec)["error"])

	rec = s.do(t, http.MethodPost, "/api/sms/send", map[string]string{"phone": phone}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, consts.SimulatedOTPCode, body["debugCode"])

	rec = s.do(t, http.MethodPost, "/api/sms/send", map[string]string{"phone": phone}, "")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	remaining := decode(t, rec)["remainingTime"].(float64)
	assert.True(t, remaining > 0 && remaining <= 60)

	rec = s.do(t, http.MethodPost, "/api/sms/verify", map[string]string{"phone": phone, "code": "0000"}, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, float64(2), decode(t, rec)["remainingAttempts"])

	rec = s.do(t, http.MethodPost, "/api/sms/verify", map[string]string{"phone": phone, "code": consts.SimulatedOTPCode}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	body = decode(t, rec)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	user := body["user"].(map[string]interface{})
	assert.Equal(t, phone, user["phone"])
	assert.Equal(t, true, user["isAuthenticated"])

	rec = s.do(t, http.MethodPost, "/api/sms/verify", map[string]string{"phone": phone, "code": consts.SimulatedOTPCode}, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/sms/verify", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, phone, decode(t, rec)["phone"])

	rec = s.do(t, http.MethodGet, "/api/sms/verify", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/sms/verify", nil, token+"x")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSMSRoutes_MalformedVerify(t *testing.T) {
	s := newTestServer(t, "production")

	rec := s.do(t, http.MethodPost, "/api/sms/verify", map[string]string{"phone": phone, "code": "12"}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/sms/verify", map[string]string{"phone": "123", "code": "1234"}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSMSRoutes_AttemptsExhausted(t *testing.T) {
	s := newTestServer(t, "production")

	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/sms/send", map[string]string{"phone": phone}, "").Code)
	for i := 0; i < 3; i++ {
		rec := s.do(t, http.MethodPost, "/api/sms/verify", map[string]string{"phone": phone, "code": "9999"}, "")
		require.Equal(t, http.StatusBadRequest, rec.Code)
	}

	rec := s.do(t, http.MethodPost, "/api/sms/verify", map[string]string{"phone": phone, "code": consts.SimulatedOTPCode}, "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/sms/verify", map[string]string{"phone": phone, "code": consts.SimulatedOTPCode}, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSMSRoutes_Inspection(t *testing.T) {
	prod := newTestServer(t, "production")
	assert.Equal(t, http.StatusForbidden, prod.do(t, http.MethodGet, "/api/sms/send?phone="+phone, nil, "").Code)

	dev := newTestServer(t, "development")
	assert.Equal(t, http.StatusNotFound, dev.do(t, http.MethodGet, "/api/sms/send?phone="+phone, nil, "").Code)

	require.Equal(t, http.StatusOK, dev.do(t, http.MethodPost, "/api/sms/send", map[string]string{"phone": phone}, "").Code)
	rec := dev.do(t, http.MethodGet, "/api/sms/send?phone="+phone, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, consts.SimulatedOTPCode, decode(t, rec)["code"])
}
