package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"

	"github.com/stillerfuchssss/Tennis-Tournament-sub000/models"
)

type contextKey string

const adminContextKey contextKey = "admin"

const (
	jwtClaimAdminID = "admin_id"
	jwtClaimRole    = "role"
)

// Authenticator verifies bearer tokens and stores the claims in the
// request context for the handlers behind it.
type Authenticator struct {
	secret []byte
}

func NewAuthenticator(jwtSecret string) *Authenticator {
	return &Authenticator{secret: []byte(jwtSecret)}
}

func (a *Authenticator) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		tokenString, found := strings.CutPrefix(header, "Bearer ")
		if !found || tokenString == "" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return a.secret, nil
		})
		if err != nil || !token.Valid {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), adminContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Authorize restricts a route to the given admin roles. It must sit behind
// Authenticate.
func Authorize(roles ...models.AdminRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, err := GetAdminRoleFromContext(r.Context())
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			for _, allowed := range roles {
				if allowed == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			http.Error(w, "Forbidden", http.StatusForbidden)
		})
	}
}

func GetAdminIDFromContext(ctx context.Context) (string, error) {
	claims, ok := ctx.Value(adminContextKey).(jwt.MapClaims)
	if !ok {
		return "", errors.New("admin claims not found in context")
	}
	idClaim, ok := claims[jwtClaimAdminID]
	if !ok {
		return "", fmt.Errorf("missing %q claim in token", jwtClaimAdminID)
	}
	id, ok := idClaim.(string)
	if !ok || id == "" {
		return "", fmt.Errorf("invalid %q claim: %v", jwtClaimAdminID, idClaim)
	}
	return id, nil
}

func GetAdminRoleFromContext(ctx context.Context) (models.AdminRole, error) {
	claims, ok := ctx.Value(adminContextKey).(jwt.MapClaims)
	if !ok {
		return "", errors.New("admin claims not found in context")
	}
	roleClaim, ok := claims[jwtClaimRole]
	if !ok {
		return "", fmt.Errorf("missing %q claim in token", jwtClaimRole)
	}
	roleStr, ok := roleClaim.(string)
	if !ok {
		return "", fmt.Errorf("invalid %q claim: %v", jwtClaimRole, roleClaim)
	}

	role := models.AdminRole(roleStr)
	switch role {
	case models.RoleOperator, models.RoleSuperuser:
		return role, nil
	default:
		return "", fmt.Errorf("invalid role value in claim: %q", roleStr)
	}
}
