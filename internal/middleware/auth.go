package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"rideshare-backend/internal/config"
	"rideshare-backend/internal/domain/user"
	"rideshare-backend/internal/logger"
	"rideshare-backend/pkg/utils"
)

const identityKey = "identity"

// Identity is the authenticated caller of a request.
type Identity struct {
	UserID    uint
	Email     string
	Role      string
	TokenID   string
	ExpiresAt time.Time
}

// AuthMiddleware accepts Bearer access tokens whose jti has not been revoked.
func AuthMiddleware(cfg *config.Config, blacklist user.TokenBlacklist) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Authorization header required")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := utils.ValidateTokenOfType(parts[1], cfg.JWT.Secret, utils.TokenTypeAccess)
		if err != nil {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid or expired token")
			c.Abort()
			return
		}

		revoked, err := blacklist.IsRevoked(c.Request.Context(), claims.ID)
		if err != nil {
			logger.WithRequestID(GetRequestID(c)).Error("Token blacklist lookup failed",
				zap.Uint("user_id", claims.UserID),
				zap.Error(err),
			)
			utils.ErrorResponse(c, http.StatusServiceUnavailable, "Unable to verify token")
			c.Abort()
			return
		}
		if revoked {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Token has been revoked")
			c.Abort()
			return
		}

		identity := &Identity{
			UserID:  claims.UserID,
			Email:   claims.Email,
			Role:    claims.Role,
			TokenID: claims.ID,
		}
		if claims.ExpiresAt != nil {
			identity.ExpiresAt = claims.ExpiresAt.Time
		}
		SetIdentity(c, identity)

		c.Next()
	}
}

func SetIdentity(c *gin.Context, identity *Identity) {
	c.Set(identityKey, identity)
}

// CurrentIdentity returns the caller put in place by AuthMiddleware.
func CurrentIdentity(c *gin.Context) (*Identity, bool) {
	v, exists := c.Get(identityKey)
	if !exists {
		return nil, false
	}
	identity, ok := v.(*Identity)
	return identity, ok && identity != nil
}
