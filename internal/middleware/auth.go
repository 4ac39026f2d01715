package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/skilldesk/marketplace/configs"
	"github.com/skilldesk/marketplace/internal/httputil"
	"github.com/skilldesk/marketplace/internal/logger"
	"github.com/skilldesk/marketplace/internal/models"
)

const ProfileContextKey = "profile"

// ProfileResolver turns the id carried by a verified token into a Profile.
type ProfileResolver interface {
	ProfileByID(ctx context.Context, id uint) (*models.Profile, error)
}

// Authenticated verifies the bearer token and loads the caller's profile into
// the request context. Everything downstream works from the resolved profile,
// never from the raw credential.
func Authenticated(profiles ProfileResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				httputil.WriteError(w, http.StatusUnauthorized, "missing authorization header")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				httputil.WriteError(w, http.StatusUnauthorized, "invalid authorization header")
				return
			}

			token, err := jwt.Parse(parts[1], func(token *jwt.Token) (any, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(configs.AppConfig.JWT.SECRET), nil
			})
			if err != nil || !token.Valid {
				httputil.WriteError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				httputil.WriteError(w, http.StatusUnauthorized, "invalid token claims")
				return
			}

			sub, ok := claims["sub"].(float64)
			if !ok {
				logger.Log.Error("jwt subject missing or wrong type")
				httputil.WriteError(w, http.StatusUnauthorized, "invalid token payload")
				return
			}

			profile, err := profiles.ProfileByID(r.Context(), uint(sub))
			if err != nil {
				httputil.WriteError(w, http.StatusUnauthorized, "unknown profile")
				return
			}

			ctx := context.WithValue(r.Context(), ProfileContextKey, profile)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ProfileFromContext returns the resolved caller, or nil outside Authenticated.
func ProfileFromContext(ctx context.Context) *models.Profile {
	p, _ := ctx.Value(ProfileContextKey).(*models.Profile)
	return p
}
