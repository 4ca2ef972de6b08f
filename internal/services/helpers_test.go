package services

import (
	"context"
	"time"

	"github.com/yukikurage/projectflow-api/internal/models"
	"github.com/yukikurage/projectflow-api/internal/repository"
	"gorm.io/gorm"
)

type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type repos struct {
	users     repository.UserRepository
	sessions  repository.SessionRepository
	teams     repository.TeamRepository
	projects  repository.ProjectRepository
	tasks     repository.TaskRepository
	taskTypes repository.TaskTypeRepository
	comments  repository.CommentRepository
}

func newRepos(db *gorm.DB) repos {
	return repos{
		users:     repository.NewUserRepository(db),
		sessions:  repository.NewSessionRepository(db),
		teams:     repository.NewTeamRepository(db),
		projects:  repository.NewProjectRepository(db),
		tasks:     repository.NewTaskRepository(db),
		taskTypes: repository.NewTaskTypeRepository(db),
		comments:  repository.NewCommentRepository(db),
	}
}

func ptr[T any](v T) *T { return &v }

// staleUsers never finds a user by name, as if a concurrent insert had not
// been visible yet.
type staleUsers struct {
	repository.UserRepository
}

func (staleUsers) FindByUsername(context.Context, string) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
}

// staleMembers hides the membership of one user.
type staleMembers struct {
	repository.TeamRepository
	hidden uint64
}

func (r staleMembers) FindMember(ctx context.Context, teamID, userID uint64) (*models.TeamMember, error) {
	if userID == r.hidden {
		return nil, gorm.ErrRecordNotFound
	}
	return r.TeamRepository.FindMember(ctx, teamID, userID)
}
