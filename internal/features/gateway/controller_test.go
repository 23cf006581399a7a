package gateway

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	api_keys "herbarium/internal/features/api_keys"
	herbs "herbarium/internal/features/herbs"
	plans "herbarium/internal/features/plans"
	usage "herbarium/internal/features/usage"
	"herbarium/internal/util/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "hb_0123456789abcdef0123456789abcdef"

type fakeValidator struct {
	plan  *plans.Plan
	keyID uuid.UUID
	err   error

	calls int
}

func (f *fakeValidator) ValidateApiKey(token string) (*api_keys.ValidateKeyResult, error) {
	f.calls++

	if f.err != nil {
		return nil, f.err
	}

	if strings.TrimSpace(token) == "" {
		return &api_keys.ValidateKeyResult{
			Valid:  false,
			Reason: api_keys.ReasonApiKeyRequired,
		}, nil
	}

	if token != testToken {
		return &api_keys.ValidateKeyResult{
			Valid:  false,
			Reason: api_keys.ReasonInvalidKeyOrRateLimited,
		}, nil
	}

	return &api_keys.ValidateKeyResult{
		Valid:    true,
		ApiKeyID: f.keyID,
		Plan:     f.plan,
	}, nil
}

type capturingUsageWriter struct {
	records []*usage.UsageRecord
}

func (w *capturingUsageWriter) WriteUsageRecord(record *usage.UsageRecord) {
	w.records = append(w.records, record)
}

type panickingHerbReader struct{}

func (panickingHerbReader) ListHerbs(category string, limit, offset int) ([]*herbs.Herb, error) {
	panic("catalog exploded")
}
func (panickingHerbReader) GetHerbByID(herbID uuid.UUID) (*herbs.Herb, error) {
	panic("catalog exploded")
}
func (panickingHerbReader) ListCategories() ([]string, error) { panic("catalog exploded") }
func (panickingHerbReader) SearchHerbs(query string, limit int) ([]*herbs.Herb, error) {
	panic("catalog exploded")
}

type gatewayTestEnv struct {
	router    *gin.Engine
	validator *fakeValidator
	usage     *capturingUsageWriter
	reader    *fakeHerbReader
}

func createGatewayTestEnv(plan *plans.Plan) *gatewayTestEnv {
	gin.SetMode(gin.TestMode)

	reader := &fakeHerbReader{
		listResult: []*herbs.Herb{createTestHerb("Chamomile")},
		categories: []string{"Calming"},
	}

	validator := &fakeValidator{plan: plan, keyID: uuid.New()}
	usageWriter := &capturingUsageWriter{}

	controller := &GatewayController{
		&GatewayService{reader, logger.GetLogger()},
		validator,
		usageWriter,
		logger.GetLogger(),
	}

	router := gin.New()
	v1 := router.Group("/api/v1")
	controller.RegisterRoutes(v1)

	return &gatewayTestEnv{router, validator, usageWriter, reader}
}

func (e *gatewayTestEnv) request(method, path, apiKey string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if apiKey != "" {
		req.Header.Set("x-api-key", apiKey)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	return w
}

func allFeaturesPlan() *plans.Plan {
	return createPlan(
		plans.FeatureBasicHerbInfo,
		plans.FeatureDetailedHerbInfo,
		plans.FeatureCategories,
		plans.FeatureSearch,
	)
}

func Test_HandleRequest_WithoutApiKey_ReturnsExactRequiredMessage(t *testing.T) {
	env := createGatewayTestEnv(allFeaturesPlan())

	w := env.request(http.MethodGet, "/api/v1/data/herbs", "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"API key is required"}`, w.Body.String())
	assert.Empty(t, env.usage.records, "failed validation must not be logged")
}

func Test_HandleRequest_WithUnknownKey_ReturnsCombinedMessage(t *testing.T) {
	env := createGatewayTestEnv(allFeaturesPlan())

	w := env.request(http.MethodGet, "/api/v1/data/herbs", "hb_wrong")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Invalid API key or rate limit exceeded"}`, w.Body.String())
	assert.Empty(t, env.usage.records)
}

func Test_HandleRequest_Preflight_AnswersWithoutValidation(t *testing.T) {
	env := createGatewayTestEnv(allFeaturesPlan())

	w := env.request(http.MethodOptions, "/api/v1/data/anything", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t,
		"authorization, x-client-info, apikey, content-type, x-api-key",
		w.Header().Get("Access-Control-Allow-Headers"))
	assert.Equal(t, "GET, POST, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, 0, env.validator.calls)
	assert.Empty(t, env.usage.records)
}

func Test_HandleRequest_ListHerbs_ReturnsDataAndLogsUsage(t *testing.T) {
	env := createGatewayTestEnv(allFeaturesPlan())

	w := env.request(http.MethodGet, "/api/v1/data/herbs", testToken)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Chamomile")
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	require.Len(t, env.usage.records, 1)
	record := env.usage.records[0]
	assert.Equal(t, "/api/v1/data/herbs", record.Endpoint)
	assert.Equal(t, http.MethodGet, record.Method)
	assert.Equal(t, http.StatusOK, record.StatusCode)
	assert.Equal(t, "unknown", record.ClientIP)
	assert.Equal(t, "unknown", record.UserAgent)
}

func Test_HandleRequest_ForwardedForHeader_IsRecordedInUsage(t *testing.T) {
	env := createGatewayTestEnv(allFeaturesPlan())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/data/herbs", nil)
	req.Header.Set("x-api-key", testToken)
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	req.Header.Set("User-Agent", "herb-client/1.0")

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Len(t, env.usage.records, 1)
	assert.Equal(t, "203.0.113.9", env.usage.records[0].ClientIP)
	assert.Equal(t, "herb-client/1.0", env.usage.records[0].UserAgent)
}

func Test_HandleRequest_UnknownPath_ReturnsEndpointNotFound(t *testing.T) {
	env := createGatewayTestEnv(allFeaturesPlan())

	w := env.request(http.MethodGet, "/api/v1/data/widgets", testToken)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Endpoint not found"}`, w.Body.String())

	require.Len(t, env.usage.records, 1)
	assert.Equal(t, http.StatusNotFound, env.usage.records[0].StatusCode)
}

func Test_HandleRequest_NonGetMethod_ReturnsEndpointNotFound(t *testing.T) {
	env := createGatewayTestEnv(allFeaturesPlan())

	w := env.request(http.MethodPost, "/api/v1/data/herbs", testToken)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Endpoint not found"}`, w.Body.String())
}

func Test_HandleRequest_LeadingApiSegment_IsDropped(t *testing.T) {
	env := createGatewayTestEnv(allFeaturesPlan())

	w := env.request(http.MethodGet, "/api/v1/data/api/categories", testToken)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Calming")
}

func Test_HandleRequest_SearchWithoutQuery_ReturnsBadRequest(t *testing.T) {
	env := createGatewayTestEnv(allFeaturesPlan())

	w := env.request(http.MethodGet, "/api/v1/data/search", testToken)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Query parameter is required"}`, w.Body.String())
	assert.Equal(t, 0, env.reader.searchCalls)
}

func Test_HandleRequest_PlanWithoutFeature_ReturnsSameForbiddenTextOnBothHerbEndpoints(t *testing.T) {
	env := createGatewayTestEnv(createPlan(plans.FeatureCategories))

	listResponse := env.request(http.MethodGet, "/api/v1/data/herbs", testToken)
	getResponse := env.request(http.MethodGet, "/api/v1/data/herbs/"+uuid.New().String(), testToken)
	categoriesResponse := env.request(http.MethodGet, "/api/v1/data/categories", testToken)

	assert.Equal(t, http.StatusForbidden, listResponse.Code)
	assert.Equal(t, http.StatusForbidden, getResponse.Code)
	assert.Equal(t, listResponse.Body.String(), getResponse.Body.String())
	assert.Equal(t, http.StatusOK, categoriesResponse.Code)
}

func Test_HandleRequest_ValidatorInternalError_ReturnsGenericInternalError(t *testing.T) {
	env := createGatewayTestEnv(allFeaturesPlan())
	env.validator.err = errors.New("error fetching plan details: broken store")

	w := env.request(http.MethodGet, "/api/v1/data/herbs", testToken)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, w.Body.String())
	assert.NotContains(t, w.Body.String(), "broken store")
	assert.Empty(t, env.usage.records)
}

func Test_HandleRequest_PanicInHandler_ReturnsInternalServerError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	validator := &fakeValidator{plan: allFeaturesPlan(), keyID: uuid.New()}
	controller := &GatewayController{
		&GatewayService{panickingHerbReader{}, logger.GetLogger()},
		validator,
		&capturingUsageWriter{},
		logger.GetLogger(),
	}

	router := gin.New()
	v1 := router.Group("/api/v1")
	controller.RegisterRoutes(v1)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/data/herbs", nil)
	req.Header.Set("x-api-key", testToken)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, w.Body.String())
}

func Test_SplitPathSegments_NormalizesPaths(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected []string
	}{
		{"Plain endpoint", "/herbs", []string{"herbs"}},
		{"Nested endpoint", "/herbs/123", []string{"herbs", "123"}},
		{"Leading api segment", "/api/herbs", []string{"herbs"}},
		{"Trailing slash", "/categories/", []string{"categories"}},
		{"Root", "/", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, splitPathSegments(tt.path))
		})
	}
}
