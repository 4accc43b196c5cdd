package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"rideshare-backend/internal/domain/listing"
	"rideshare-backend/internal/domain/rating"
	"rideshare-backend/internal/domain/reservation"
	"rideshare-backend/internal/domain/user"
	appErrors "rideshare-backend/pkg/errors"
)

func TestRespondWithError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", appErrors.NewValidationError("Invalid input", map[string]string{"email": "taken"}, nil), http.StatusBadRequest},
		{"weak password", appErrors.NewAppError(appErrors.CodeWeakPass, "weak", appErrors.ErrWeakPassword), http.StatusBadRequest},
		{"user not found", user.ErrUserNotFound, http.StatusNotFound},
		{"listing not found", fmt.Errorf("lookup: %w", listing.ErrListingNotFound), http.StatusNotFound},
		{"rating not found", rating.ErrRatingNotFound, http.StatusNotFound},
		{"already reserved", reservation.ErrAlreadyReserved, http.StatusBadRequest},
		{"not reserved", reservation.ErrNotReserved, http.StatusBadRequest},
		{"not owner", listing.ErrNotOwner, http.StatusForbidden},
		{"cancel forbidden", reservation.ErrCancelForbidden, http.StatusForbidden},
		{"other account", appErrors.ErrInsufficientPermissions, http.StatusForbidden},
		{"inactive", appErrors.ErrUserInactive, http.StatusForbidden},
		{"bad credentials", appErrors.ErrInvalidCredentials, http.StatusUnauthorized},
		{"bad token", appErrors.ErrInvalidToken, http.StatusUnauthorized},
		{"no storage", appErrors.ErrStorageUnavailable, http.StatusServiceUnavailable},
		{"unexpected", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			respondWithError(c, tt.err)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestRespondWithError_ValidationDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	respondWithError(c, appErrors.NewValidationError("Invalid input", map[string]string{"title": "already taken"}, listing.ErrTitleTaken))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"title":"already taken"`)
}

func TestParseID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	for _, raw := range []string{"abc", "0", "-1"} {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Params = gin.Params{{Key: "id", Value: raw}}

		_, ok := parseID(c, "id")
		assert.False(t, ok, raw)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Params = gin.Params{{Key: "id", Value: "42"}}
	id, ok := parseID(c, "id")
	assert.True(t, ok)
	assert.Equal(t, uint(42), id)
}
