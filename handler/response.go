package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"video-gallery/dto"
	"video-gallery/service"
)

func respondError(c *gin.Context, err error) {
	var svcErr *service.Error
	if !errors.As(err, &svcErr) {
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg("unclassified error")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Internal server error"})
		return
	}

	body := dto.ErrorResponse{
		Error: svcErr.Message,
		Code:  string(svcErr.Kind),
	}
	if svcErr.Err != nil && svcErr.Kind.HTTPStatus() >= http.StatusInternalServerError {
		body.Details = svcErr.Err.Error()
	}
	c.JSON(svcErr.Kind.HTTPStatus(), body)
}
