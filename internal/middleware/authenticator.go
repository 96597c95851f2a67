package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/youtweet/backend/internal/auth"
)

// TokenValidator resolves a bearer access token to the user it was issued for.
type TokenValidator interface {
	Validate(ctx context.Context, accessToken string) (string, error)
}

// Authenticator resolves the Authorization header to a requester identity and
// stores it on the request context. Requests without a valid token pass
// through anonymously; handlers that require a requester reject those
// themselves.
func Authenticator(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token != "" && validator != nil {
				if userID, err := validator.Validate(r.Context(), token); err == nil {
					r = r.WithContext(auth.WithUserID(r.Context(), userID))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
