package middleware

import (
	"net/http"
	"strings"

	"github.com/doodlesbykumbi/cms-in-go/pkg/audit"
	"github.com/doodlesbykumbi/cms-in-go/pkg/identity"
)

// JWTAuthenticator is middleware that validates HS256 bearer tokens
type JWTAuthenticator struct {
	Secret []byte
	Proxy  identity.ProxyTrust
}

// NewJWTAuthenticator creates a new JWT authenticator middleware
func NewJWTAuthenticator(secret []byte, proxy identity.ProxyTrust) *JWTAuthenticator {
	return &JWTAuthenticator{Secret: secret, Proxy: proxy}
}

// BearerToken extracts the token from an "Authorization: Bearer ..." header
func BearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// Middleware returns an HTTP middleware that validates bearer tokens
func (j *JWTAuthenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientIP := identity.ClientIP(r, j.Proxy)

		reject := func(message string) {
			audit.Log(audit.AuthenticateEvent{
				ClientIP:     clientIP,
				Success:      false,
				ErrorMessage: message,
			})
			w.Header().Set("WWW-Authenticate", `Bearer realm="cms"`)
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(message))
		}

		authHeader := r.Header.Get("Authorization")
		if len(authHeader) == 0 {
			reject("Authorization missing")
			return
		}

		raw, ok := BearerToken(authHeader)
		if !ok {
			reject("Malformed authorization header")
			return
		}

		claims, err := identity.ParseToken(j.Secret, raw)
		if err != nil {
			reject("Invalid token: " + err.Error())
			return
		}

		id := identity.FromClaims(claims).WithRemoteIP(clientIP)
		r = r.WithContext(identity.Set(r.Context(), id))

		next.ServeHTTP(w, r)
	})
}
