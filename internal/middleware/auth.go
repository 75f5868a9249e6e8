package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const ownerKey = "owner_uid"

// OwnerResolver resolves the owner for each request. A valid bearer token's
// subject claim wins; without a token the configured default owner is used,
// matching the single-user deployments this server ships for. A token that is
// present but invalid is rejected.
func OwnerResolver(secret, defaultOwner string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Set(ownerKey, defaultOwner)
			c.Next()
			return
		}

		raw := strings.TrimPrefix(header, "Bearer ")
		token, err := jwt.Parse(raw, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    http.StatusUnauthorized,
				"message": "Invalid token",
			})
			c.Abort()
			return
		}

		sub, err := token.Claims.GetSubject()
		if err != nil || sub == "" {
			sub = defaultOwner
		}
		c.Set(ownerKey, sub)
		c.Next()
	}
}

// Owner returns the owner uid resolved for this request.
func Owner(c *gin.Context) string {
	return c.GetString(ownerKey)
}
