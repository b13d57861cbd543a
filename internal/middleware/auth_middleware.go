package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Myphz/wwwallet-be/internal/services"
	"github.com/Myphz/wwwallet-be/pkg/utils"
)

// AuthMiddleware authenticates the request from either a Bearer header or
// the jwt cookie (the web frontend is cookie based). The resolved user id is
// the ownership boundary for everything downstream.
func AuthMiddleware(tokenService services.TokenService, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c, cookieName)
		if tokenString == "" {
			utils.SendUnauthorizedError(c, "Authentication required")
			c.Abort()
			return
		}

		claims, err := tokenService.ValidateToken(tokenString)
		if err != nil {
			utils.SendUnauthorizedError(c, "Invalid or expired token")
			c.Abort()
			return
		}

		userID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			utils.SendUnauthorizedError(c, "Invalid token claims")
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Set("email", claims.Email)

		c.Next()
	}
}

func extractToken(c *gin.Context, cookieName string) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) == 2 && tokenParts[0] == "Bearer" {
			return tokenParts[1]
		}
		return ""
	}

	cookie, err := c.Cookie(cookieName)
	if err != nil {
		return ""
	}
	return cookie
}

// MustGetUserID returns the authenticated user's id; it is only safe behind
// AuthMiddleware.
func MustGetUserID(c *gin.Context) primitive.ObjectID {
	return c.MustGet("user_id").(primitive.ObjectID)
}
