package services

import (
	"errors"
	"fmt"

	"github.com/yukikurage/projectflow-api/internal/constants"
)

// Error kinds. Handlers map these to HTTP statuses with errors.Is.
var (
	ErrValidation      = errors.New("invalid input")
	ErrInvalidAssignee = errors.New("invalid assignee")
	ErrNotAuthorized   = errors.New("not authorized")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrAINotConfigured = errors.New("AI service is not configured")
	ErrAIUnavailable   = errors.New("AI service failed")
)

// Identity
var (
	ErrInvalidCredentials = fmt.Errorf("%w: invalid username or password", ErrUnauthenticated)
	ErrInvalidSession     = fmt.Errorf("%w: session is invalid or expired", ErrUnauthenticated)
	ErrUsernameTaken      = fmt.Errorf("%w: username already exists", ErrConflict)
	ErrUsernameLength     = fmt.Errorf("%w: username must be between %d and %d characters", ErrValidation, constants.MinUsernameLength, constants.MaxUsernameLength)
	ErrPasswordTooShort   = fmt.Errorf("%w: password must be at least %d characters", ErrValidation, constants.MinPasswordLength)
	ErrIncorrectPassword  = fmt.Errorf("%w: current password is incorrect", ErrValidation)
	ErrUserNotFound       = fmt.Errorf("%w: user not found", ErrNotFound)
)

// Teams
var (
	ErrTeamNotFound          = fmt.Errorf("%w: team not found", ErrNotFound)
	ErrTeamNameRequired      = fmt.Errorf("%w: team name cannot be empty", ErrValidation)
	ErrMemberNotFound        = fmt.Errorf("%w: team member not found", ErrNotFound)
	ErrAlreadyMember         = fmt.Errorf("%w: user is already a member of this team", ErrConflict)
	ErrInvalidInviteCode     = fmt.Errorf("%w: invalid invite code", ErrNotFound)
	ErrCannotRemoveYourself  = fmt.Errorf("%w: cannot remove yourself from the team", ErrValidation)
	ErrCannotRemoveOwner     = fmt.Errorf("%w: the team owner cannot be removed", ErrValidation)
	ErrCannotChangeOwnerRole = fmt.Errorf("%w: the owner's role cannot be changed", ErrValidation)
	ErrOwnerCannotLeave      = fmt.Errorf("%w: the owner cannot leave the team", ErrValidation)
	ErrInvalidRole           = fmt.Errorf("%w: role must be admin or member", ErrValidation)
	ErrNotTeamMember         = fmt.Errorf("%w: user is not a member of the team", ErrNotAuthorized)
)

// Projects
var (
	ErrProjectNotFound     = fmt.Errorf("%w: project not found", ErrNotFound)
	ErrProjectNameRequired = fmt.Errorf("%w: project name cannot be empty", ErrValidation)
	ErrInvalidProjectState = fmt.Errorf("%w: status must be active, completed or archived", ErrValidation)
	ErrProjectArchived     = fmt.Errorf("%w: archived projects do not accept new tasks", ErrValidation)
)

// Task types
var (
	ErrTaskTypeNotFound     = fmt.Errorf("%w: task type not found", ErrNotFound)
	ErrTaskTypeNameRequired = fmt.Errorf("%w: task type name cannot be empty", ErrValidation)
	ErrTaskTypeExists       = fmt.Errorf("%w: task type already exists", ErrConflict)
)

// Tasks and comments
var (
	ErrTaskNotFound       = fmt.Errorf("%w: task not found", ErrNotFound)
	ErrTitleRequired      = fmt.Errorf("%w: title cannot be empty", ErrValidation)
	ErrDeadlineRequired   = fmt.Errorf("%w: deadline is required", ErrValidation)
	ErrInvalidStatus      = fmt.Errorf("%w: status must be todo, in_progress or done", ErrValidation)
	ErrInvalidPriority    = fmt.Errorf("%w: priority must be low, medium or high", ErrValidation)
	ErrAssigneeNotMember  = fmt.Errorf("%w: assignee is not a member of the project's team", ErrInvalidAssignee)
	ErrAssigneeInactive   = fmt.Errorf("%w: assignee account is deactivated", ErrInvalidAssignee)
	ErrCommentNotFound    = fmt.Errorf("%w: comment not found", ErrNotFound)
	ErrCommentBodyBlank   = fmt.Errorf("%w: comment cannot be empty", ErrValidation)
	ErrAINoTasksGenerated = fmt.Errorf("%w: AI did not suggest any usable tasks", ErrAIUnavailable)
	ErrAISourceRequired   = fmt.Errorf("%w: text to analyse is required", ErrValidation)
)
