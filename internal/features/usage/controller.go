package usage

import (
	"net/http"
	"time"

	users "herbarium/internal/features/users"
	time_parser "herbarium/internal/util/time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type UsageController struct {
	usageService *UsageService
}

func (c *UsageController) RegisterRoutes(router *gin.RouterGroup) {
	usageRoutes := router.Group("/usage")

	usageRoutes.GET("/keys/:apiKeyId", c.GetKeyUsageStats)
	usageRoutes.GET("/me", c.GetUserUsage)
}

func (c *UsageController) GetKeyUsageStats(ctx *gin.Context) {
	user, ok := users.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	apiKeyIDStr := ctx.Param("apiKeyId")
	apiKeyID, err := uuid.Parse(apiKeyIDStr)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid API key ID"})
		return
	}

	var since time.Time
	if raw := ctx.Query("since"); raw != "" {
		since, err = time_parser.ParseTimestamp(raw)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid since parameter"})
			return
		}
	}

	response, err := c.usageService.GetKeyUsageStats(apiKeyID, user.ID, since)
	if err != nil {
		if err.Error() == "API key does not belong to this user" {
			ctx.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, response)
}

func (c *UsageController) GetUserUsage(ctx *gin.Context) {
	user, ok := users.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	total, err := c.usageService.GetUserTotalRequests(user.ID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load usage"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"totalRequests": total})
}
