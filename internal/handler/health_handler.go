package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

const serviceName = "barangay-projects-api"

// HealthHandler serves liveness and readiness probes
type HealthHandler struct {
	db    *gorm.DB
	redis *redis.Client
}

// NewHealthHandler creates a HealthHandler. redis may be nil.
func NewHealthHandler(db *gorm.DB, redis *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, redis: redis}
}

// Health reports that the process is up
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": serviceName,
	})
}

// Ready checks the database and, when configured, redis
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	connections := make(map[string]string)
	ready := true

	if sqlDB, err := h.db.DB(); err != nil {
		connections["database"] = "error: " + err.Error()
		ready = false
	} else if err := sqlDB.PingContext(ctx); err != nil {
		connections["database"] = "error: " + err.Error()
		ready = false
	} else {
		connections["database"] = "connected"
	}

	if h.redis == nil {
		connections["redis"] = "not configured"
	} else if err := h.redis.Ping(ctx).Err(); err != nil {
		connections["redis"] = "error: " + err.Error()
		ready = false
	} else {
		connections["redis"] = "connected"
	}

	status, text := http.StatusOK, "ready"
	if !ready {
		status, text = http.StatusServiceUnavailable, "not ready"
	}
	c.JSON(status, gin.H{
		"status":      text,
		"connections": connections,
	})
}
