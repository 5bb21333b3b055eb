package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type healthResponse struct {
	Status      string `json:"status"`
	Database    string `json:"database"`
	Cache       string `json:"cache"`
	Environment string `json:"environment"`
}

func (h HandlerSet) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	dbStatus := "ok"
	if err := h.db.Ping(ctx); err != nil {
		dbStatus = "error"
		status = http.StatusServiceUnavailable
		h.log.Error().Err(err).Msg("database ping failed")
	}

	cacheStatus := "ok"
	if err := h.cache.Ping(ctx); err != nil {
		cacheStatus = "error"
		status = http.StatusServiceUnavailable
		h.log.Error().Err(err).Msg("redis ping failed")
	}

	overall := "ok"
	if status != http.StatusOK {
		overall = "degraded"
	}

	c.JSON(status, healthResponse{
		Status:      overall,
		Database:    dbStatus,
		Cache:       cacheStatus,
		Environment: h.cfg.Environment,
	})
}
