package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/qs3c/criptex_server/internal/model/dto"
	"github.com/qs3c/criptex_server/internal/pkg/response"
	"github.com/qs3c/criptex_server/internal/testutil"
)

func newReferralRouter(env *testEnv) *gin.Engine {
	handler := NewReferralHandler(env.referral)

	router := gin.New()
	router.Use(env.requireAuth())
	router.GET("/referral/stats", handler.Stats)
	router.POST("/referral/use/:code", handler.Use)
	return router
}

func TestReferralHandler_Use(t *testing.T) {
	env := setupEnv(t)
	router := newReferralRouter(env)

	referrer, referrerToken := env.login(t, testutil.WithReferralCode("ABCD1234"))
	referee, refereeToken := env.login(t)

	w := performRequest(router, "POST", "/referral/use/ABCD1234", nil, bearer(refereeToken)...)
	assert.Equal(t, http.StatusOK, w.Code)

	var data dto.ReferralUseResponse
	parseData(t, w, &data)
	assert.Equal(t, "Referral code applied successfully!", data.Message)
	assert.Equal(t, 1, data.BonusPredictions)

	assert.Equal(t, 6, testutil.ReloadUser(t, env.db, referee.ID).FreePredictions)
	assert.Equal(t, 6, testutil.ReloadUser(t, env.db, referrer.ID).FreePredictions)

	w = performRequest(router, "GET", "/referral/stats", nil, bearer(referrerToken)...)
	assert.Equal(t, http.StatusOK, w.Code)

	var stats dto.ReferralStats
	parseData(t, w, &stats)
	assert.Equal(t, "ABCD1234", stats.ReferralCode)
	assert.Equal(t, 1, stats.ReferralCount)
	assert.Equal(t, 1, stats.ReferralEarnings)

	// 第二次兑换
	w = performRequest(router, "POST", "/referral/use/ABCD1234", nil, bearer(refereeToken)...)
	resp := parseResponse(t, w)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Referral code already used", resp.Message)
}

func TestReferralHandler_Use_Errors(t *testing.T) {
	env := setupEnv(t)
	router := newReferralRouter(env)

	_, token := env.login(t, testutil.WithReferralCode("SELF0001"))

	tests := []struct {
		name    string
		code    string
		status  int
		appCode int
		message string
	}{
		{
			name:    "unknown code",
			code:    "NOPE0000",
			status:  http.StatusNotFound,
			appCode: response.CodeResourceNotFound,
			message: "Invalid referral code",
		},
		{
			name:    "own code",
			code:    "SELF0001",
			status:  http.StatusBadRequest,
			appCode: response.CodeParamError,
			message: "Cannot use your own referral code",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performRequest(router, "POST", "/referral/use/"+tt.code, nil, bearer(token)...)
			resp := parseResponse(t, w)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.appCode, resp.Code)
			assert.Equal(t, tt.message, resp.Message)
		})
	}
}

func TestReferralHandler_Unauthenticated(t *testing.T) {
	env := setupEnv(t)
	router := newReferralRouter(env)

	w := performRequest(router, "GET", "/referral/stats", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = performRequest(router, "POST", "/referral/use/ABCD1234", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
