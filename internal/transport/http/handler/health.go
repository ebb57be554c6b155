package handler

import (
	"github.com/gin-gonic/gin"

	"knowledge-assist/internal/transport/http/response"
)

type HealthHandler struct {
	appName string
	env     string
}

func NewHealthHandler(appName, env string) *HealthHandler {
	return &HealthHandler{appName: appName, env: env}
}

func (h *HealthHandler) Health(c *gin.Context) {
	response.OK(c, gin.H{
		"status":  "healthy",
		"service": h.appName,
		"env":     h.env,
	})
}
