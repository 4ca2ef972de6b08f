package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/projectflow-api/internal/errors"
	"github.com/yukikurage/projectflow-api/internal/services"
)

// respondError maps a service error to an API error response. Anything that
// is not a known kind is attached to the context for the request logger and
// answered with a generic 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		apierrors.BadRequest(c, message(err, services.ErrValidation))
	case errors.Is(err, services.ErrInvalidAssignee):
		apierrors.InvalidAssignee(c, message(err, services.ErrInvalidAssignee))
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.InvalidCredentials(c, "")
	case errors.Is(err, services.ErrUnauthenticated):
		apierrors.Unauthorized(c, message(err, services.ErrUnauthenticated))
	case errors.Is(err, services.ErrNotAuthorized):
		apierrors.Forbidden(c, message(err, services.ErrNotAuthorized))
	case errors.Is(err, services.ErrNotFound):
		apierrors.NotFound(c, message(err, services.ErrNotFound))
	case errors.Is(err, services.ErrUsernameTaken), errors.Is(err, services.ErrAlreadyMember), errors.Is(err, services.ErrTaskTypeExists):
		apierrors.AlreadyExists(c, message(err, services.ErrConflict))
	case errors.Is(err, services.ErrConflict):
		apierrors.Conflict(c, message(err, services.ErrConflict))
	case errors.Is(err, services.ErrAINotConfigured):
		apierrors.ServiceUnavailable(c, "AI service is not configured. Please set OPENAI_API_KEY.")
	case errors.Is(err, services.ErrAIUnavailable):
		_ = c.Error(err)
		apierrors.BadGateway(c, message(err, services.ErrAIUnavailable))
	default:
		_ = c.Error(err)
		apierrors.InternalError(c, "")
	}
}

// message strips the kind prefix from a wrapped sentinel so clients see
// "task not found" rather than "not found: task not found".
func message(err, kind error) string {
	msg := err.Error()
	if trimmed, ok := strings.CutPrefix(msg, kind.Error()+": "); ok {
		return trimmed
	}
	return msg
}

// bindJSON decodes the request body into req, answering 400 with the
// binding error as details when it does not fit.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		apierrors.BadRequestWithDetails(c, "Invalid request body", err.Error())
		return false
	}
	return true
}

// pathID parses a numeric path parameter, answering 400 when it is malformed.
func pathID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		apierrors.BadRequest(c, "Invalid "+name)
		return 0, false
	}
	return id, true
}

// queryID parses an optional numeric query parameter.
func queryID(c *gin.Context, name string) (*uint64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		apierrors.BadRequest(c, "Invalid "+name)
		return nil, false
	}
	return &id, true
}

// queryBool parses an optional boolean query parameter; absent means false.
func queryBool(c *gin.Context, name string) (bool, bool) {
	raw := c.Query(name)
	if raw == "" {
		return false, true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		apierrors.BadRequest(c, "Invalid "+name)
		return false, false
	}
	return v, true
}
