package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/postboard/postboard/internal/apperr"
	"github.com/postboard/postboard/pkg/logger"
	"github.com/postboard/postboard/pkg/validation"
)

// statusFor maps an error kind to its HTTP status. Ownership and
// like-state failures keep the 401/400 statuses clients already expect.
func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindUnauthenticated, apperr.KindUnauthorized:
		return http.StatusUnauthorized
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err as {"kind","msg"}, or as an errors list for
// validation failures. Store failures are logged and never leak their cause.
func writeError(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.KindStoreFailure {
		logger.Errorf("%s %s: %v", c.Request.Method, c.FullPath(), err)
	}
	if kind == apperr.KindValidation {
		c.AbortWithStatusJSON(statusFor(kind), gin.H{"kind": kind, "errors": []validation.FieldError{{Msg: apperr.Message(err)}}})
		return
	}
	c.AbortWithStatusJSON(statusFor(kind), gin.H{"kind": kind, "msg": apperr.Message(err)})
}

func writeValidation(c *gin.Context, err error, messages map[string]string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"kind": apperr.KindValidation, "errors": validation.Errors(err, messages)})
}
