package repository

import (
	"context"
	"time"

	"github.com/yukikurage/projectflow-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(ctx context.Context, username string) (*models.User, error)

	// Update saves all user fields
	Update(ctx context.Context, user *models.User) error

	// UpdatePassword stores a new hash and revokes every other session of the user
	UpdatePassword(ctx context.Context, userID uint64, hash string, keepSessionID uint64, now time.Time) error

	// Deactivate marks the user inactive and revokes all of their sessions
	Deactivate(ctx context.Context, userID uint64, now time.Time) error
}

// SessionRepository defines the interface for login session data access
type SessionRepository interface {
	// Create stores a new session
	Create(ctx context.Context, session *models.Session) error

	// FindByTokenHash finds a session and its user by token hash
	FindByTokenHash(ctx context.Context, hash string) (*models.Session, error)

	// Touch records that the session was used at now
	Touch(ctx context.Context, id uint64, now time.Time) error

	// Revoke marks a single session revoked
	Revoke(ctx context.Context, id uint64, now time.Time) error

	// DeleteExpired removes sessions that expired or were revoked before cutoff
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

// TeamRepository defines the interface for team data access
type TeamRepository interface {
	// CreateWithOwner creates a team and its owner membership atomically
	CreateWithOwner(ctx context.Context, team *models.Team, owner *models.TeamMember) error

	// FindByID finds a team by ID
	FindByID(ctx context.Context, id uint64) (*models.Team, error)

	// FindByInviteCode finds a team by invite code
	FindByInviteCode(ctx context.Context, code string) (*models.Team, error)

	// Update updates a team
	Update(ctx context.Context, team *models.Team) error

	// Delete removes a team together with its projects, tasks, comments and memberships
	Delete(ctx context.Context, id uint64) error

	// AddMember adds a member to a team
	AddMember(ctx context.Context, member *models.TeamMember) error

	// UpdateMemberRole changes the role of an existing member
	UpdateMemberRole(ctx context.Context, teamID, userID uint64, role models.TeamRole) error

	// RemoveMember removes a member and clears their assignments on the team's tasks
	RemoveMember(ctx context.Context, teamID, userID uint64) error

	// FindMember finds a specific team member
	FindMember(ctx context.Context, teamID, userID uint64) (*models.TeamMember, error)

	// ListMembershipsByUserID lists all memberships of a user with their teams
	ListMembershipsByUserID(ctx context.Context, userID uint64) ([]models.TeamMember, error)

	// ListMembers lists all members of a team with their users
	ListMembers(ctx context.Context, teamID uint64) ([]models.TeamMember, error)
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// Create creates a new project
	Create(ctx context.Context, project *models.Project) error

	// FindByID finds a project by ID with optional preloading
	FindByID(ctx context.Context, id uint64, preload ...string) (*models.Project, error)

	// List retrieves projects with filtering and pagination
	List(ctx context.Context, filter ProjectFilter) ([]models.Project, int64, error)

	// Update updates a project
	Update(ctx context.Context, project *models.Project) error

	// Delete removes a project together with its tasks and their comments
	Delete(ctx context.Context, id uint64) error

	// CountByStatus counts projects of the given teams grouped by status
	CountByStatus(ctx context.Context, teamIDs []uint64) (map[models.ProjectStatus]int64, error)
}

// ProjectFilter holds filtering options for listing projects
type ProjectFilter struct {
	TeamIDs  []uint64
	Status   *models.ProjectStatus
	Page     int
	PageSize int
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(ctx context.Context, task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(ctx context.Context, id uint64, preload ...string) (*models.Task, error)

	// List retrieves tasks with filtering and pagination
	List(ctx context.Context, filter TaskFilter) ([]models.Task, int64, error)

	// Update updates a task
	Update(ctx context.Context, task *models.Task) error

	// Delete removes a task and its comments
	Delete(ctx context.Context, id uint64) error

	// CountComments returns the number of comments per task ID
	CountComments(ctx context.Context, taskIDs []uint64) (map[uint64]int64, error)

	// CountForAssignee counts the assignee's tasks in the given teams grouped by status
	CountForAssignee(ctx context.Context, assigneeID uint64, teamIDs []uint64) (map[models.TaskStatus]int64, error)

	// CountOverdueForAssignee counts the assignee's open tasks due before now
	CountOverdueForAssignee(ctx context.Context, assigneeID uint64, teamIDs []uint64, now time.Time) (int64, error)
}

// TaskSort selects the ordering of task lists
type TaskSort string

const (
	TaskSortDeadline TaskSort = "deadline"
	TaskSortCreated  TaskSort = "created"
	// TaskSortOpenFirst puts unfinished tasks first, then orders by deadline
	TaskSortOpenFirst TaskSort = "open_first"
)

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	ProjectIDs []uint64
	TeamIDs    []uint64
	Status     *models.TaskStatus
	Priority   *models.TaskPriority
	AssigneeID *uint64
	Unassigned bool
	TaskTypeID *uint64
	Sort       TaskSort
	Page       int
	PageSize   int
}

// TaskTypeRepository defines the interface for task type data access
type TaskTypeRepository interface {
	// Create adds a task type; duplicate names fail with gorm.ErrDuplicatedKey
	Create(ctx context.Context, taskType *models.TaskType) error

	// FindByID finds a task type by ID
	FindByID(ctx context.Context, id uint64) (*models.TaskType, error)

	// List returns every task type ordered by name
	List(ctx context.Context) ([]models.TaskType, error)
}

// CommentRepository defines the interface for comment data access
type CommentRepository interface {
	// Create appends a comment
	Create(ctx context.Context, comment *models.Comment) error

	// FindByID finds a comment by ID
	FindByID(ctx context.Context, id uint64) (*models.Comment, error)

	// ListByTask lists the comments of a task in creation order
	ListByTask(ctx context.Context, taskID uint64) ([]models.Comment, error)

	// ListRecentForTeams lists the newest comments on tasks of the given teams
	ListRecentForTeams(ctx context.Context, teamIDs []uint64, limit int) ([]models.Comment, error)

	// Delete soft deletes a comment
	Delete(ctx context.Context, id uint64) error
}
