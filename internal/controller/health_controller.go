package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HealthController struct {
	DB      *gorm.DB
	startAt time.Time
}

func NewHealthController(db *gorm.DB) *HealthController {
	return &HealthController{DB: db, startAt: time.Now()}
}

// @Summary Liveness and readiness probe
// @Tags ops
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (c *HealthController) Check(ctx *gin.Context) {
	status := http.StatusOK
	overall := "ok"
	dbStatus := "up"

	sqlDB, err := c.DB.DB()
	if err != nil || sqlDB.Ping() != nil {
		status = http.StatusServiceUnavailable
		overall = "degraded"
		dbStatus = "down"
	}

	ctx.JSON(status, gin.H{
		"status":   overall,
		"uptime":   time.Since(c.startAt).String(),
		"database": dbStatus,
	})
}
