package middleware

import (
	"net/http"
	"strings"
	"time"

	"garment_tracker/internal/models"
	"garment_tracker/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carried in the session token. The area and approval flag travel in
// the token so the services can check permissions without a user lookup.
type Claims struct {
	UserID               uint        `json:"uid"`
	Name                 string      `json:"name"`
	Area                 models.Area `json:"area"`
	CanApproveCompletion bool        `json:"can_approve_completion"`
	jwt.RegisteredClaims
}

// GenerateToken issues a signed session token for the user.
func GenerateToken(user *models.User, secret string, ttl time.Duration) (string, error) {
	claims := Claims{
		UserID:               user.ID,
		Name:                 user.Name,
		Area:                 user.Area,
		CanApproveCompletion: user.CanApproveCompletion,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// JWTAuth validates the session token and stores the resulting actor in the
// gin context. The token is read from the Authorization header, with a query
// param fallback for the websocket upgrade.
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenString string

		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}
		if tokenString == "" {
			tokenString = c.Query("token")
		}
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "se requiere autorización"})
			c.Abort()
			return
		}

		token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		})
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "token inválido o expirado"})
			c.Abort()
			return
		}

		claims, ok := token.Claims.(*Claims)
		if !ok || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "token inválido"})
			c.Abort()
			return
		}

		c.Set("actor", services.Actor{
			ID:                   claims.UserID,
			Name:                 claims.Name,
			Area:                 claims.Area,
			CanApproveCompletion: claims.CanApproveCompletion,
		})
		c.Next()
	}
}

// GetActor returns the actor set by JWTAuth.
func GetActor(c *gin.Context) services.Actor {
	if v, exists := c.Get("actor"); exists {
		if actor, ok := v.(services.Actor); ok {
			return actor
		}
	}
	return services.Actor{}
}

// CORS allows the frontend origin during development.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Accept, Origin")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
