package middleware

import (
	"errors"
	"net/http"
	"slices"
	"strings"

	"clean_cloak/internal/domain/entities"
	"clean_cloak/pkg"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const ContextActor = "actor"

// Claims carries the caller identity issued by the user service.
type Claims struct {
	ID   string `json:"id"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Auth validates an HS256 bearer token and stores the caller as an entities.Actor.
func Auth(secret string) gin.HandlerFunc {
	key := []byte(secret)
	return func(c *gin.Context) {
		tokenStr, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			abort(c, pkg.NewDomainErrorSimple("UNAUTHORIZED", "Authorization header missing or invalid", http.StatusUnauthorized))
			return
		}

		claims, err := parseClaims(tokenStr, key)
		if err != nil {
			abort(c, pkg.NewDomainError("UNAUTHORIZED", "Invalid or expired token", err, http.StatusUnauthorized))
			return
		}

		c.Set(ContextActor, entities.Actor{ID: claims.subject(), Role: entities.Role(claims.Role)})
		c.Next()
	}
}

// RequireRoles lets the request through only for the listed roles. It must run after Auth.
func RequireRoles(roles ...entities.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := ActorFrom(c)
		if !ok {
			abort(c, pkg.NewDomainErrorSimple("UNAUTHORIZED", "Not authenticated", http.StatusUnauthorized))
			return
		}
		if !slices.Contains(roles, actor.Role) {
			abort(c, pkg.NewDomainErrorSimple("FORBIDDEN", "Role not allowed for this resource", http.StatusForbidden))
			return
		}
		c.Next()
	}
}

func ActorFrom(c *gin.Context) (entities.Actor, bool) {
	v, ok := c.Get(ContextActor)
	if !ok {
		return entities.Actor{}, false
	}
	actor, ok := v.(entities.Actor)
	return actor, ok
}

func parseClaims(tokenStr string, key []byte) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.subject() == "" || claims.Role == "" {
		return nil, errors.New("token missing id or role")
	}
	return claims, nil
}

func (c *Claims) subject() string {
	if c.ID != "" {
		return c.ID
	}
	return c.Subject
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

func abort(c *gin.Context, appErr *pkg.AppError) {
	c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToHTTPError())
}
