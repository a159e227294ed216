// Package controller holds shared helpers for the gin handlers.
package controller

import (
	"strconv"

	"expertmatch/internal/apperror"
	"expertmatch/internal/dto"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ParseIDParam reads a uint path parameter. A second return of false means
// the handler already answered with 400.
func ParseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		c.JSON(400, dto.ErrorResponse{Message: "Invalid " + name + " format"})
		return 0, false
	}
	return uint(id), true
}

// RespondError maps a service error to its HTTP status. Internal errors are
// logged with their cause but answered with a generic message.
func RespondError(c *gin.Context, err error) {
	status := apperror.HTTPStatus(err)
	if status >= 500 {
		log.Error().Err(err).Str("path", c.FullPath()).Msg("Request failed")
		c.JSON(status, dto.ErrorResponse{Message: "Internal server error"})
		return
	}
	c.JSON(status, dto.ErrorResponse{Message: err.Error()})
}
