package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMissingToken indicates a mutating call arrived without an
	// approval token while one is required.
	ErrMissingToken = errors.New("auth: approval token required for mutating operations")

	// ErrInvalidToken indicates the token failed signature or expiry
	// checks.
	ErrInvalidToken = errors.New("auth: invalid approval token")

	// ErrWrongOperation indicates a valid token approving a different
	// operation than the one being called.
	ErrWrongOperation = errors.New("auth: token approves a different operation")
)

const audience = "talosops"

// Approver verifies approval tokens against a shared secret.
//
// Contract:
//   - Concurrency: safe for concurrent use; the Approver is immutable
//     after construction.
//   - Errors: Verify returns nil only for a token that is well signed,
//     unexpired, and scoped to the named operation.
type Approver struct {
	secret []byte
}

// NewApprover creates an Approver with the given shared secret.
func NewApprover(secret string) *Approver {
	return &Approver{secret: []byte(secret)}
}

// Verify checks that tokenString approves operation. Only HS256 is
// accepted; an exp claim is mandatory.
func (a *Approver) Verify(tokenString, operation string) error {
	if tokenString == "" {
		return ErrMissingToken
	}

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	op, _ := claims["op"].(string)
	if op != operation {
		return fmt.Errorf("%w: token approves %q, call is %q", ErrWrongOperation, op, operation)
	}

	return nil
}

// Mint signs a token approving operation for the given duration. It
// exists for operator tooling and tests; the server only verifies.
func (a *Approver) Mint(operation string, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"aud": audience,
		"op":  operation,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	})
	return token.SignedString(a.secret)
}
