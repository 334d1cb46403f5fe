package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/devansh/fms/internal/app/models/dto"
)

// callerAccountID pulls the authenticated account id set by the JWT
// middleware
func callerAccountID(ctx *gin.Context) (int64, bool) {
	value, exists := ctx.Get("accountID")
	if !exists {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return 0, false
	}

	id, ok := value.(int64)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Invalid account ID format")
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(errorDetail))
		return 0, false
	}

	return id, true
}
