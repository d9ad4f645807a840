package main

import (
	"log/slog"

	"taskboard/internal/httpapi"
	"taskboard/internal/ratelimit"
	"taskboard/pkg/logger"

	"github.com/gin-gonic/gin"
)

// newRouter builds the gin engine. Keep this file free of business logic.
func newRouter(log *slog.Logger, h httpapi.Handlers, limiter *ratelimit.Limiter) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))

	httpapi.Register(r, h, limiter)
	return r
}
