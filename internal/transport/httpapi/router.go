package httpapi

import (
	"context"
	"net/http"
	"time"

	"unit-converter-skill/internal/common/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ReadinessCheck reports whether a dependency can serve traffic.
type ReadinessCheck func(ctx context.Context) error

type RouterConfig struct {
	ServiceName string
	Version     string
	SkillPath   string
	Skill       *SkillHandler
	Checks      map[string]ReadinessCheck
	Logger      logger.Logger
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), accessLog(cfg.Logger))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": cfg.ServiceName,
			"version": cfg.Version,
		})
	})

	router.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		checks := gin.H{}
		for name, check := range cfg.Checks {
			if err := check(ctx); err != nil {
				status = http.StatusServiceUnavailable
				checks[name] = err.Error()
				continue
			}
			checks[name] = "ok"
		}
		state := "ready"
		if status != http.StatusOK {
			state = "not_ready"
		}
		c.JSON(status, gin.H{"status": state, "checks": checks})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.POST(cfg.SkillPath, cfg.Skill.Handle)

	return router
}

func accessLog(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("http request", map[string]interface{}{
			"method":       c.Request.Method,
			"path":         c.FullPath(),
			"status":       c.Writer.Status(),
			"durationMs":   time.Since(start).Milliseconds(),
			"invocationId": c.Writer.Header().Get(InvocationIDHeader),
		})
	}
}
