package plans

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type PlanController struct {
	planService *PlanService
}

func (c *PlanController) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/plans", c.GetPlans)
}

// GetPlans returns the active plan catalog for the pricing page.
func (c *PlanController) GetPlans(ctx *gin.Context) {
	activePlans, err := c.planService.GetActivePlans()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load plans"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"plans": activePlans})
}
