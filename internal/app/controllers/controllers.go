package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sapatil2212/edutechunite-sub005/internal/app/models"
	"github.com/sapatil2212/edutechunite-sub005/internal/app/models/dto"
	"github.com/sapatil2212/edutechunite-sub005/internal/middleware"
)

// pathID parses a numeric path parameter, writing the error response itself
// when the value is malformed
func pathID(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid "+name+" parameter")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}

// requireActor fetches the authenticated actor, writing the 401 response
// itself when it is missing
func requireActor(ctx *gin.Context) (models.Actor, bool) {
	actor, ok := middleware.GetActor(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return models.Actor{}, false
	}
	return actor, true
}

// optionalQueryID parses an optional numeric query parameter
func optionalQueryID(ctx *gin.Context, name string) *int64 {
	value := ctx.Query(name)
	if value == "" {
		return nil
	}
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return nil
	}
	return &id
}
