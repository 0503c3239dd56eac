package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/jcabrera/civil-registry/internal/domain/entity"
)

const actorContextKey = "actor"

// ErrNoActor is returned when a handler runs without an authenticated actor
var ErrNoActor = errors.New("no authenticated actor in context")

// actorClaims are the JWT claims issued by the municipal single sign-on
type actorClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// AuthMiddleware validates the bearer token and puts the acting principal
// into the request context. The workflow consumes only the user id and role.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, Response{
				Success: false,
				Error:   "missing bearer token",
			})
			return
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")
		claims := &actorClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, Response{
				Success: false,
				Error:   "invalid bearer token",
			})
			return
		}

		actor := entity.Actor{
			UserID: claims.Subject,
			Role:   entity.Role(claims.Role),
		}
		if actor.UserID == "" || !actor.Role.IsValid() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, Response{
				Success: false,
				Error:   "token carries no usable identity",
			})
			return
		}

		c.Set(actorContextKey, actor)
		c.Next()
	}
}

// actorFrom retrieves the authenticated actor set by AuthMiddleware
func actorFrom(c *gin.Context) (entity.Actor, error) {
	v, ok := c.Get(actorContextKey)
	if !ok {
		return entity.Actor{}, ErrNoActor
	}
	actor, ok := v.(entity.Actor)
	if !ok {
		return entity.Actor{}, ErrNoActor
	}
	return actor, nil
}
