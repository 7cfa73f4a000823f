package identity

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

const (
	// Key is the context key for Identity.
	Key ContextKey = "identity"
)

// Identity represents the authenticated identity for a request.
type Identity struct {
	// Token claims
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time

	// Request context
	RemoteIP string

	Claims *Claims
}

// FromClaims creates an Identity from verified token claims.
func FromClaims(claims *Claims) *Identity {
	id := &Identity{
		Subject: claims.Subject,
		Claims:  claims,
	}
	if claims.IssuedAt != nil {
		id.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		id.ExpiresAt = claims.ExpiresAt.Time
	}
	return id
}

// WithRemoteIP sets the remote IP address.
func (i *Identity) WithRemoteIP(ip string) *Identity {
	i.RemoteIP = ip
	return i
}

// Get retrieves Identity from context.
func Get(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(Key).(*Identity)
	return id, ok
}

// Set stores Identity in context.
func Set(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, Key, id)
}

// Subject returns the subject of the request identity, or "anonymous".
func Subject(ctx context.Context) string {
	if id, ok := Get(ctx); ok && id.Subject != "" {
		return id.Subject
	}
	return "anonymous"
}

// ProxyTrust reports whether a peer address is a trusted proxy.
type ProxyTrust interface {
	IsTrustedProxy(ip string) bool
}

// ClientIP returns the address of the client. X-Forwarded-For is only
// honoured when the direct peer is a trusted proxy.
func ClientIP(r *http.Request, trust ProxyTrust) string {
	peer := r.RemoteAddr
	if host, _, err := net.SplitHostPort(peer); err == nil {
		peer = host
	}

	forwarded := r.Header.Get("X-Forwarded-For")
	if forwarded == "" || trust == nil || !trust.IsTrustedProxy(peer) {
		return peer
	}

	// Rightmost address not belonging to a trusted proxy
	hops := strings.Split(forwarded, ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if hop != "" && !trust.IsTrustedProxy(hop) {
			return hop
		}
	}
	return strings.TrimSpace(hops[0])
}
