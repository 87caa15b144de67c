package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vcscsvcscs/skincare-journal/internal/audit"
	"github.com/vcscsvcscs/skincare-journal/internal/auth"
	"github.com/vcscsvcscs/skincare-journal/pkg/model"
	"go.uber.org/zap"
)

// AuthMiddleware rejects requests without a valid bearer token and stores the
// caller's id under ContextKeyUserID. The request context also carries the
// client address for audit entries. Requests to publicPaths pass through
// unauthenticated.
func AuthMiddleware(verifier auth.TokenVerifier, logger *zap.Logger, publicPaths ...string) gin.HandlerFunc {
	public := make(map[string]struct{}, len(publicPaths))
	for _, p := range publicPaths {
		public[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := public[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		token, ok := auth.BearerToken(c.GetHeader("Authorization"))
		if !ok {
			abortUnauthorized(c, "Missing authorization header")
			return
		}

		userID, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, model.ErrUnauthorized) {
				abortUnauthorized(c, "Invalid or expired token")
				return
			}
			logger.Error("Token verification failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{
				"code":    "AUTH_UNAVAILABLE",
				"message": "Could not verify credentials",
			})
			return
		}

		c.Set(ContextKeyUserID, userID)
		c.Request = c.Request.WithContext(audit.WithRequestMeta(c.Request.Context(), audit.RequestMeta{
			IPAddress: c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		}))

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"code":    "UNAUTHORIZED",
		"message": message,
	})
}
