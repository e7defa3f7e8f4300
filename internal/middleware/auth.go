package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"anoa.com/socialhub/pkg/apperror"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AuthMiddleware verifies HMAC-signed JWTs issued by the account service.
// The token subject is the user id.
type AuthMiddleware struct {
	secret string
}

func NewAuthMiddleware(secret string) *AuthMiddleware {
	return &AuthMiddleware{secret: secret}
}

// ExtractUserID validates tokenString and returns its subject as a user id.
// Every failure wraps apperror.ErrAuthRejected.
func (m *AuthMiddleware) ExtractUserID(tokenString string) (uuid.UUID, error) {
	if tokenString == "" {
		return uuid.Nil, fmt.Errorf("%w: token missing", apperror.ErrAuthRejected)
	}

	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(m.secret), nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, fmt.Errorf("%w: invalid or expired token", apperror.ErrAuthRejected)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return uuid.Nil, fmt.Errorf("%w: invalid token claims", apperror.ErrAuthRejected)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil || userID == uuid.Nil {
		return uuid.Nil, fmt.Errorf("%w: subject is not a user id", apperror.ErrAuthRejected)
	}

	return userID, nil
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		authHeader := c.GetHeader("Authorization")

		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}

		// Fallback to query parameter "token" (browsers cannot set headers on WebSockets)
		if tokenString == "" {
			tokenString = c.Query("token")
		}

		userID, err := m.ExtractUserID(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			c.Abort()
			return
		}

		c.Set("user_id", userID.String())
		c.Next()
	}
}
