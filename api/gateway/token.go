/* token.go
 * Client-side inspection of the bearer token's expiry claim. The signature
 * is never verified here, the server owns authentication; this only avoids
 * sending requests that are guaranteed to fail.
 */

package gateway

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// TokenExpired reports whether the bearer token carries an exp claim that
// has passed. Tokens that are not JWTs, or carry no exp claim, are treated
// as live and left for the server to judge.
func TokenExpired(token string, now time.Time) bool {
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	var claims jwt.RegisteredClaims
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return now.After(claims.ExpiresAt.Time)
}
