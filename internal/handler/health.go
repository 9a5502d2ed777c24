package handler

import (
	"context"
	"net/http"
	"time"

	"comoencasa/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health returns a JSON health check response.
// Checks DB and Redis connectivity and reports the alert DLQ depth so a
// stuck mailer shows up in monitoring; never exposes credentials.
func Health(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbStatus := "connected"
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			dbStatus = "error"
		}

		redisStatus := "connected"
		if rdb.Ping(ctx).Err() != nil {
			redisStatus = "error"
		}

		status := http.StatusOK
		if dbStatus != "connected" || redisStatus != "connected" {
			status = http.StatusServiceUnavailable
		}

		// Depth only; a deep DLQ is an operational warning, not unhealthy.
		var dlqDepth int64
		if redisStatus == "connected" {
			dlqDepth, _ = worker.DLQLength(ctx, rdb, worker.QueueAlertasStock)
		}

		c.JSON(status, gin.H{
			"ok":          status == http.StatusOK,
			"db":          dbStatus,
			"redis":       redisStatus,
			"alertas_dlq": dlqDepth,
		})
	}
}
