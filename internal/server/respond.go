package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"document-qa/internal/models"
)

const unexpectedErrorPrefix = "An unexpected error occurred: "

func respondBadRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": message})
}

// respondError maps file type and parsing errors to 400 and anything else
// to 500.
func respondError(c *gin.Context, err error) {
	switch kind := models.KindOf(err); kind {
	case models.KindFileType, models.KindParsing:
		log.Info().Err(err).Str("kind", kind.String()).Str("request_id", RequestIDFromContext(c)).Msg("Rejected request")
		respondBadRequest(c, err.Error())
	default:
		log.Error().Err(err).Str("request_id", RequestIDFromContext(c)).Msg("Request failed")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": unexpectedErrorPrefix + err.Error()})
	}
}
