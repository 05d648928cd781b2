package server

import (
	"github.com/gin-gonic/gin"
)

// NewRouter builds the gin engine with request id, access logging and panic
// recovery in front of the handler routes.
func NewRouter(h *Handler) *gin.Engine {
	router := gin.New()
	router.Use(RequestID(), Logging(), Recovery())
	h.RegisterRoutes(router)
	return router
}
