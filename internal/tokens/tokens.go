package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/postboard/postboard/internal/identity"
)

// DefaultTTL is the credential lifetime used at registration and login.
const DefaultTTL = 360000 * time.Second

var (
	ErrInvalidSignature = errors.New("token signature is invalid")
	ErrExpired          = errors.New("token is expired")
	ErrMalformed        = errors.New("token is malformed")
)

type userClaim struct {
	ID string `json:"id"`
}

// Claims is the credential payload: {"user":{"id":...},"iat":...,"exp":...}.
type Claims struct {
	User userClaim `json:"user"`
	jwt.RegisteredClaims
}

// Codec signs and verifies HS256 credentials with a fixed secret.
// The secret is set once at construction and never changes.
type Codec struct {
	secret []byte
	now    func() time.Time
}

func NewCodec(secret string) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("tokens: signing secret is empty")
	}
	return &Codec{secret: []byte(secret), now: time.Now}, nil
}

// Sign creates a credential for subjectID expiring ttl from now.
// A non-positive ttl falls back to DefaultTTL.
func (c *Codec) Sign(subjectID string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := c.now()
	claims := Claims{
		User: userClaim{ID: subjectID},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	jt := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := jt.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return s, nil
}

// Verify checks signature and expiry and returns the embedded identity.
func (c *Codec) Verify(raw string) (identity.Identity, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return identity.Identity{}, ErrExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
			return identity.Identity{}, ErrInvalidSignature
		default:
			return identity.Identity{}, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
	}
	id := claims.User.ID
	if id == "" {
		id = claims.Subject
	}
	if id == "" {
		return identity.Identity{}, fmt.Errorf("%w: no subject", ErrMalformed)
	}
	return identity.Identity{UserID: id}, nil
}
