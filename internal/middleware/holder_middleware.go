package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/wanderlite/booking-backend/pkg/jwt"
)

// HolderContextKey is the key used to store holder information in Gin context
const HolderContextKey = "holder"

// SessionTokenHeader identifies guest checkout sessions that have no account
const SessionTokenHeader = "X-Session-Token"

// HolderContext identifies who owns seat locks and bookings: an
// authenticated user or an anonymous checkout session
type HolderContext struct {
	HolderID      string `json:"holder_id"`
	Email         string `json:"email,omitempty"`
	Authenticated bool   `json:"authenticated"`
}

// HolderMiddleware resolves the lock/booking holder from either a JWT
// bearer token or a session token header. Requests with neither are
// rejected: every lock and booking needs an owner.
func HolderMiddleware(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
				c.JSON(http.StatusUnauthorized, gin.H{
					"error":   "unauthorized",
					"message": "Invalid authorization header format. Expected: Bearer <token>",
					"code":    "INVALID_AUTH_FORMAT",
				})
				c.Abort()
				return
			}

			claims, err := jwtService.ValidateToken(strings.TrimSpace(parts[1]))
			if err != nil {
				if jwtService.IsTokenExpired(strings.TrimSpace(parts[1])) {
					c.JSON(http.StatusUnauthorized, gin.H{
						"error":   "token_expired",
						"message": "Access token has expired",
						"code":    "TOKEN_EXPIRED",
					})
				} else {
					c.JSON(http.StatusUnauthorized, gin.H{
						"error":   "invalid_token",
						"message": "Invalid access token",
						"code":    "INVALID_TOKEN",
					})
				}
				c.Abort()
				return
			}

			c.Set(HolderContextKey, HolderContext{
				HolderID:      claims.UserID,
				Email:         claims.Email,
				Authenticated: true,
			})
			c.Next()
			return
		}

		sessionToken := strings.TrimSpace(c.GetHeader(SessionTokenHeader))
		if sessionToken == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "Authorization or " + SessionTokenHeader + " header is required",
				"code":    "MISSING_AUTH_HEADER",
			})
			c.Abort()
			return
		}

		c.Set(HolderContextKey, HolderContext{
			HolderID:      "session:" + sessionToken,
			Authenticated: false,
		})
		c.Next()
	}
}

// GetHolderContext retrieves the holder context set by HolderMiddleware
func GetHolderContext(c *gin.Context) (HolderContext, bool) {
	value, exists := c.Get(HolderContextKey)
	if !exists {
		return HolderContext{}, false
	}

	holder, ok := value.(HolderContext)
	return holder, ok
}
