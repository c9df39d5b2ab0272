// Package identity derives the owner identity from a bearer ID token.
//
// The token is issued and verified by the authentication backend; this
// subsystem only needs the stable owner id out of its claims to scope cache
// keys and quota state. Signature verification therefore stays with the
// remote store, which rejects requests carrying a bad token.
package identity

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/franciskouaho/love-dice-sub000/internal/common"
)

// Session is an authenticated owner snapshot.
type Session struct {
	OwnerID string
	Token   string
	Expiry  time.Time
}

// FromIDToken parses a bearer ID token and extracts the owner id from its
// claims ("user_id" first, "sub" as fallback). An empty or unparsable token
// yields common.ErrInvalidToken; quota and owner-scoped reads fail closed
// without a session.
func FromIDToken(token string) (*Session, error) {
	if token == "" {
		return nil, common.ErrInvalidToken
	}

	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidToken, err)
	}

	ownerID := stringClaim(claims, "user_id")
	if ownerID == "" {
		ownerID = stringClaim(claims, "sub")
	}
	if ownerID == "" {
		return nil, fmt.Errorf("%w: no owner claim", common.ErrInvalidToken)
	}

	s := &Session{OwnerID: ownerID, Token: token}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		s.Expiry = exp.Time
	}
	return s, nil
}

func stringClaim(claims jwt.MapClaims, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}
