package gateway

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	api_keys "herbarium/internal/features/api_keys"
	plans "herbarium/internal/features/plans"
	usage "herbarium/internal/features/usage"

	"github.com/gin-gonic/gin"
)

type credentialValidator interface {
	ValidateApiKey(token string) (*api_keys.ValidateKeyResult, error)
}

type usageWriter interface {
	WriteUsageRecord(record *usage.UsageRecord)
}

type GatewayController struct {
	gatewayService *GatewayService
	apiKeyService  credentialValidator
	usageService   usageWriter
	logger         *slog.Logger
}

func (c *GatewayController) RegisterRoutes(router *gin.RouterGroup) {
	// One wildcard route: the gateway owns its own dispatch so unknown
	// paths under /data answer with the gateway's 404 body
	router.Any("/data/*path", c.HandleRequest)
}

// HandleRequest is the single entry point for API-key-authenticated
// catalog requests: CORS preflight, credential validation, dispatch,
// usage logging.
func (c *GatewayController) HandleRequest(ctx *gin.Context) {
	defer c.recoverPanic(ctx)

	start := time.Now()

	setCorsHeaders(ctx)

	if ctx.Request.Method == http.MethodOptions {
		ctx.Status(http.StatusOK)
		return
	}

	validation, err := c.apiKeyService.ValidateApiKey(ctx.GetHeader("x-api-key"))
	if err != nil {
		c.logger.Error("credential validation failed", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	// Requests that fail validation are not logged: there is no
	// confirmed key to attribute the record to
	if !validation.Valid {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": validation.Reason})
		return
	}

	status, body := c.dispatch(ctx, validation.Plan)

	ctx.JSON(status, body)

	c.usageService.WriteUsageRecord(&usage.UsageRecord{
		ApiKeyID:       validation.ApiKeyID,
		Endpoint:       ctx.Request.URL.Path,
		Method:         ctx.Request.Method,
		StatusCode:     status,
		ResponseTimeMs: time.Since(start).Milliseconds(),
		ClientIP:       extractClientIP(ctx),
		UserAgent:      extractUserAgent(ctx),
	})
}

func (c *GatewayController) dispatch(ctx *gin.Context, plan *plans.Plan) (int, any) {
	if ctx.Request.Method != http.MethodGet {
		notFound := endpointNotFoundError()
		return notFound.StatusCode(), gin.H{"error": notFound.Message}
	}

	segments := splitPathSegments(ctx.Param("path"))

	switch {
	case len(segments) == 1 && segments[0] == "herbs":
		response, err := c.gatewayService.ListHerbs(
			plan,
			ctx.Query("category"),
			parseIntQuery(ctx, "limit", DefaultListLimit),
			parseIntQuery(ctx, "offset", 0),
		)
		return c.respond(response, err)

	case len(segments) == 2 && segments[0] == "herbs":
		response, err := c.gatewayService.GetHerb(plan, segments[1])
		return c.respond(response, err)

	case len(segments) == 1 && segments[0] == "categories":
		response, err := c.gatewayService.ListCategories(plan)
		return c.respond(response, err)

	case len(segments) == 1 && segments[0] == "search":
		response, err := c.gatewayService.SearchHerbs(plan, ctx.Query("query"))
		return c.respond(response, err)

	default:
		notFound := endpointNotFoundError()
		return notFound.StatusCode(), gin.H{"error": notFound.Message}
	}
}

func (c *GatewayController) respond(response any, err error) (int, any) {
	if err == nil {
		return http.StatusOK, response
	}

	var apiErr *ApiError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode(), gin.H{"error": apiErr.Message}
	}

	return http.StatusInternalServerError, gin.H{"error": "Internal server error"}
}

func (c *GatewayController) recoverPanic(ctx *gin.Context) {
	if recovered := recover(); recovered != nil {
		c.logger.Error("panic while handling gateway request",
			"path", ctx.Request.URL.Path,
			"panic", recovered)

		if !ctx.Writer.Written() {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
	}
}

// splitPathSegments normalizes the wildcard path, dropping a leading
// literal "api" segment so both /data/herbs and /data/api/herbs work.
func splitPathSegments(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}

	segments := strings.Split(trimmed, "/")
	if segments[0] == "api" {
		segments = segments[1:]
	}

	return segments
}

func parseIntQuery(ctx *gin.Context, name string, fallback int) int {
	raw := ctx.Query(name)
	if raw == "" {
		return fallback
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}

	return value
}

func setCorsHeaders(ctx *gin.Context) {
	ctx.Header("Access-Control-Allow-Origin", "*")
	ctx.Header("Access-Control-Allow-Headers", "authorization, x-client-info, apikey, content-type, x-api-key")
	ctx.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
}

func extractClientIP(ctx *gin.Context) string {
	forwarded := ctx.GetHeader("X-Forwarded-For")
	if forwarded != "" {
		// Take the first IP if multiple are present
		if idx := strings.Index(forwarded, ","); idx != -1 {
			return strings.TrimSpace(forwarded[:idx])
		}
		return strings.TrimSpace(forwarded)
	}

	realIP := ctx.GetHeader("X-Real-IP")
	if realIP != "" {
		return strings.TrimSpace(realIP)
	}

	return "unknown"
}

func extractUserAgent(ctx *gin.Context) string {
	userAgent := ctx.Request.UserAgent()
	if userAgent == "" {
		return "unknown"
	}

	return userAgent
}
