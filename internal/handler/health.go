package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health reports whether the API can reach Postgres and Redis. The container
// healthcheck polls this, so one unreachable dependency flips the whole
// service to 503.
func Health(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		postgres := pingPostgres(ctx, db)
		cache := rdb.Ping(ctx).Err() == nil

		code := http.StatusOK
		if !postgres || !cache {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"healthy":  code == http.StatusOK,
			"postgres": estado(postgres),
			"redis":    estado(cache),
		})
	}
}

func pingPostgres(ctx context.Context, db *gorm.DB) bool {
	sqlDB, err := db.DB()
	return err == nil && sqlDB.PingContext(ctx) == nil
}

func estado(up bool) string {
	if up {
		return "up"
	}
	return "down"
}
