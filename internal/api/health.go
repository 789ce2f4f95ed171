package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/Amaytushin/Ratatouille-tusul/internal/database"
)

// HealthHandler reports whether the process can reach its backing stores.
type HealthHandler struct {
	db    *gorm.DB
	redis redis.Cmdable
}

// NewHealthHandler builds the handler. redisClient may be nil when the rate
// limiter runs without redis.
func NewHealthHandler(db *gorm.DB, redisClient redis.Cmdable) *HealthHandler {
	return &HealthHandler{db: db, redis: redisClient}
}

// HealthCheck replies 200 when the database answers a ping. Redis is
// reported but never fails the check.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	body := gin.H{"status": "ok", "database": "ok"}
	status := http.StatusOK

	if err := database.HealthCheck(ctx, h.db); err != nil {
		logrus.WithError(err).Warn("health check: database unreachable")
		body["status"] = "unavailable"
		body["database"] = "unreachable"
		status = http.StatusServiceUnavailable
	}

	switch {
	case h.redis == nil:
		body["redis"] = "disabled"
	case h.redis.Ping(ctx).Err() != nil:
		body["redis"] = "unreachable"
	default:
		body["redis"] = "ok"
	}

	c.JSON(status, body)
}
