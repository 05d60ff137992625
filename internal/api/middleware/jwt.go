package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/wiwebitazubi1/BerichtheftApp/internal/model"
	"github.com/wiwebitazubi1/BerichtheftApp/internal/report"
)

// AuthCookieName is the HttpOnly cookie carrying the signed token.
const AuthCookieName = "authToken"

const identityKey = "identity"

// Claims is the signed claim set: subject carries the user id, Role the
// user's role. Validity is determined solely by signature and expiry.
type Claims struct {
	jwt.RegisteredClaims
	Role model.Role `json:"role"`
}

// AuthMiddleware verifies the token cookie and stores the caller identity in
// the request context. Absent, invalid or expired tokens abort with 401.
func AuthMiddleware(authSecret string) gin.HandlerFunc {
	secret := []byte(authSecret)
	return func(c *gin.Context) {
		tokenStr, err := c.Cookie(AuthCookieName)
		if err != nil || tokenStr == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Nicht authentifiziert"})
			c.Abort()
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			return secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Ungültiger Token"})
			c.Abort()
			return
		}

		uid, err := strconv.ParseUint(strings.TrimSpace(claims.Subject), 10, 64)
		if err != nil || uid == 0 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Ungültiger Token"})
			c.Abort()
			return
		}
		if !claims.Role.Valid() {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Ungültiger Token"})
			c.Abort()
			return
		}

		c.Set(identityKey, report.Identity{UserID: uint(uid), Role: claims.Role})
		c.Next()
	}
}

// Identity returns the authenticated caller stored by AuthMiddleware.
func Identity(c *gin.Context) (report.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return report.Identity{}, false
	}
	id, ok := v.(report.Identity)
	return id, ok
}

// SetIdentity injects a caller identity; test helper for handler tests that
// bypass the middleware.
func SetIdentity(c *gin.Context, id report.Identity) {
	c.Set(identityKey, id)
}
