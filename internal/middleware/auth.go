package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/room911/access-api/internal/models"
	"github.com/room911/access-api/internal/repository"
	"gorm.io/gorm"
)

// Claims is the payload of issued bearer tokens. TokenID references the
// server-side access-token row backing the token; deleting that row revokes
// the token regardless of its signature expiry.
type Claims struct {
	UserID  uint   `json:"user_id"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	TokenID uint   `json:"token_id"`
	jwt.RegisteredClaims
}

const (
	ctxUserKey    = "currentUser"
	ctxTokenIDKey = "tokenID"
)

// Auth validates the bearer token and checks its server-side record: a
// missing row means the token was revoked, an expired row is deleted and
// rejected before any handler runs.
func Auth(db *gorm.DB, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Authorization header is required",
			})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid authorization header format",
			})
			return
		}

		claims, err := validateToken(parts[1], jwtSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": err.Error(),
			})
			return
		}

		ctx := c.Request.Context()
		repos := repository.NewRepositories(db)

		token, found, err := repos.AccessToken.FindByID(ctx, claims.TokenID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": "No se pudo verificar el token",
			})
			return
		}
		if !found {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid token",
			})
			return
		}
		if token.IsExpired() {
			_ = repos.AccessToken.Delete(ctx, token.ID)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "token expired",
			})
			return
		}

		user, err := repos.User.FindAndGet(ctx, claims.UserID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid token",
			})
			return
		}
		if !user.Active {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "cuenta inactiva",
			})
			return
		}

		c.Set(ctxUserKey, user)
		c.Set(ctxTokenIDKey, token.ID)

		c.Next()
	}
}

// validateToken parses and validates a bearer token string
func validateToken(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(secret), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.New("token expired")
		}
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}

// CurrentUser extracts the authenticated user from the Gin context.
func CurrentUser(c *gin.Context) *models.User {
	user, exists := c.Get(ctxUserKey)
	if !exists {
		return nil
	}
	return user.(*models.User)
}

// CurrentTokenID extracts the access-token row ID backing the request.
func CurrentTokenID(c *gin.Context) uint {
	id, exists := c.Get(ctxTokenIDKey)
	if !exists {
		return 0
	}
	return id.(uint)
}

// RequireAdmin returns a middleware that requires the administrator role
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || !user.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "No tienes acceso a esta sección",
			})
			return
		}
		c.Next()
	}
}
