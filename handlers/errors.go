package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/astego/cryptostego/models"
)

// statusFor maps a spec.md §7 ErrorKind to an HTTP status, falling back to
// 500 for anything that isn't a recoverable, user-caused condition.
func statusFor(kind models.ErrorKind) int {
	switch kind {
	case models.KindAuthFail:
		return http.StatusUnauthorized
	case models.KindCoverTooSmall, models.KindUnsupportedFormat, models.KindMalformedSidecar,
		models.KindMalformedCover, models.KindModeMismatch, models.KindOutputExists:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func sendError(c *gin.Context, err error) {
	kind := models.KindOf(err)
	status := statusFor(kind)
	log.Error().Str("kind", string(kind)).Int("status", status).Msg(err.Error())
	c.JSON(status, ErrorResponse{
		Success: false,
		Error:   ErrorDetail{Kind: string(kind), Message: err.Error()},
	})
}
