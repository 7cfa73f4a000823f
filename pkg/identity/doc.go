// Package identity provides authenticated identity management for CMS
// admin requests.
//
// Admin endpoints are protected by HS256 bearer tokens issued with
// IssueToken (see `cmsctl token issue`). An Identity combines the verified
// token claims with request-specific context such as the client IP.
//
// # Basic Usage
//
//	claims, err := identity.ParseToken(secret, raw)
//	if err != nil {
//	    // reject
//	}
//	id := identity.FromClaims(claims).WithRemoteIP(identity.ClientIP(r, cfg))
//	ctx = identity.Set(ctx, id)
//
//	// later
//	id, ok := identity.Get(ctx)
package identity
