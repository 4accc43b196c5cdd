package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"rideshare-backend/internal/domain/listing"
	"rideshare-backend/internal/domain/rating"
	"rideshare-backend/internal/domain/reservation"
	"rideshare-backend/internal/domain/user"
	"rideshare-backend/internal/logger"
	"rideshare-backend/internal/middleware"
	appErrors "rideshare-backend/pkg/errors"
	"rideshare-backend/pkg/utils"
)

func respondWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var appErr *appErrors.AppError
	if errors.As(err, &appErr) && (appErr.Code == appErrors.CodeValidation || appErr.Code == appErrors.CodeWeakPass) {
		utils.ValidationErrorResponse(c, http.StatusBadRequest, appErr.Message, appErr.Details)
		return
	}

	switch {
	case errors.Is(err, user.ErrUserNotFound),
		errors.Is(err, listing.ErrListingNotFound),
		errors.Is(err, rating.ErrRatingNotFound):
		utils.ErrorResponse(c, http.StatusNotFound, err.Error())
	case errors.Is(err, reservation.ErrAlreadyReserved),
		errors.Is(err, reservation.ErrNotReserved):
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, listing.ErrNotOwner),
		errors.Is(err, reservation.ErrCancelForbidden),
		errors.Is(err, appErrors.ErrInsufficientPermissions),
		errors.Is(err, appErrors.ErrUserInactive):
		utils.ErrorResponse(c, http.StatusForbidden, err.Error())
	case errors.Is(err, appErrors.ErrInvalidCredentials),
		errors.Is(err, appErrors.ErrInvalidToken):
		utils.ErrorResponse(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, appErrors.ErrStorageUnavailable):
		utils.ErrorResponse(c, http.StatusServiceUnavailable, err.Error())
	default:
		logger.Error("Internal server error",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
			zap.Error(err),
		)
		utils.ErrorResponse(c, http.StatusInternalServerError, "Internal server error")
	}
}

// requireIdentity writes a 401 when the route was mounted without auth.
func requireIdentity(c *gin.Context) (*middleware.Identity, bool) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "User not authenticated")
	}
	return identity, ok
}

func parseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil || id == 0 {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid "+param)
		return 0, false
	}
	return uint(id), true
}

func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}
