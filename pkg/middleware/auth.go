package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/postboard/postboard/internal/identity"
	"github.com/postboard/postboard/internal/tokens"
	"github.com/postboard/postboard/pkg/logger"
	"github.com/postboard/postboard/pkg/metrics"
)

// TokenHeader is the request header carrying the credential.
const TokenHeader = "x-auth-token"

var (
	ErrNoToken      = errors.New("no token, authorization denied")
	ErrInvalidToken = errors.New("token is not valid")
)

// Verifier is the minimal interface the gate depends on. *tokens.Codec satisfies it.
type Verifier interface {
	Verify(raw string) (identity.Identity, error)
}

// Authenticate resolves a raw credential into an identity. It never returns
// a zero identity with a nil error.
func Authenticate(ctx context.Context, ver Verifier, raw string) (identity.Identity, error) {
	if raw == "" {
		metrics.AuthRejected.WithLabelValues("missing").Inc()
		return identity.Identity{}, ErrNoToken
	}
	id, err := ver.Verify(raw)
	if err != nil {
		metrics.AuthRejected.WithLabelValues(rejectReason(err)).Inc()
		logger.Debugf("auth: credential rejected: %v", err)
		return identity.Identity{}, ErrInvalidToken
	}
	if id.IsZero() {
		metrics.AuthRejected.WithLabelValues("malformed").Inc()
		return identity.Identity{}, ErrInvalidToken
	}
	return id, nil
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, tokens.ErrExpired):
		return "expired"
	case errors.Is(err, tokens.ErrInvalidSignature):
		return "signature"
	default:
		return "malformed"
	}
}

// AuthMiddleware returns a Gin middleware that rejects requests without a
// valid credential and attaches the resolved identity to the request context.
func AuthMiddleware(ver Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := Authenticate(c.Request.Context(), ver, c.GetHeader(TokenHeader))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"kind": "unauthenticated", "msg": err.Error()})
			return
		}
		c.Request = c.Request.WithContext(identity.WithContext(c.Request.Context(), id))
		c.Set("identity", id)
		c.Next()
	}
}
