package constants

import "time"

// Session and context keys
const (
	SessionCookieName = "projectflow_session"
	SessionKeyToken   = "session_token"

	ContextKeyUserID    = "user_id"
	ContextKeySessionID = "session_id"
	ContextKeyRequestID = "request_id"

	HeaderRequestID = "X-Request-ID"
)

// Authentication
const (
	MinPasswordLength = 8
	MinUsernameLength = 3
	MaxUsernameLength = 50
	DefaultSessionTTL = 7 * 24 * time.Hour
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Dashboard
const (
	DashboardProjectLimit = 50
	DashboardTaskLimit    = 50
	DashboardCommentLimit = 10
)

// AI
const (
	MaxAIGeneratedTasks = 20
)
