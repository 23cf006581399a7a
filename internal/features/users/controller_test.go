package users

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func createSignInTestRouter(limiter *rate.Limiter) *gin.Engine {
	gin.SetMode(gin.TestMode)

	controller := &UserController{
		userService:   GetUserService(),
		signinLimiter: limiter,
	}

	router := gin.New()
	controller.RegisterRoutes(router.Group("/api/v1"))

	return router
}

func postSignIn(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/signin", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}

func Test_SignIn_WithExhaustedLimiter_ReturnsTooManyRequests(t *testing.T) {
	router := createSignInTestRouter(rate.NewLimiter(rate.Limit(0), 0))

	w := postSignIn(router, `{"email":"someone@example.com","password":"secret123"}`)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"error":"Rate limit exceeded. Please try again later."}`, w.Body.String())
}

func Test_SignIn_LimiterThrottlesAfterBurst(t *testing.T) {
	// Burst of 2 with no refill within the test window
	router := createSignInTestRouter(rate.NewLimiter(rate.Limit(0.001), 2))

	first := postSignIn(router, `{}`)
	second := postSignIn(router, `{}`)
	third := postSignIn(router, `{}`)

	assert.NotEqual(t, http.StatusTooManyRequests, first.Code)
	assert.NotEqual(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, http.StatusTooManyRequests, third.Code)
}

func Test_SignIn_LimiterChecksBeforeBodyValidation(t *testing.T) {
	router := createSignInTestRouter(rate.NewLimiter(rate.Limit(0), 0))

	w := postSignIn(router, `not json`)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}
