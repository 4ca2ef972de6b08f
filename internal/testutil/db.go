// Package testutil holds helpers shared by package tests.
package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/projectflow-api/internal/database"
	"github.com/yukikurage/projectflow-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a migrated in-memory sqlite database. The pool is pinned to one
// connection so every query sees the same memory database.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, database.Migrate(db))
	return db
}

// CreateUser inserts an active user with a placeholder password hash.
func CreateUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hashed",
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateTeam inserts a team owned by owner, plus the owner membership.
func CreateTeam(t *testing.T, db *gorm.DB, name string, owner *models.User) *models.Team {
	t.Helper()

	team := &models.Team{
		Name:       name,
		OwnerID:    owner.ID,
		InviteCode: name + "-CODE",
	}
	require.NoError(t, db.Create(team).Error)
	AddMember(t, db, team, owner, models.RoleOwner)
	return team
}

// AddMember inserts a membership row.
func AddMember(t *testing.T, db *gorm.DB, team *models.Team, user *models.User, role models.TeamRole) {
	t.Helper()

	require.NoError(t, db.Create(&models.TeamMember{
		TeamID:   team.ID,
		UserID:   user.ID,
		Role:     role,
		JoinedAt: time.Now(),
	}).Error)
}

// CreateProject inserts an active project under team.
func CreateProject(t *testing.T, db *gorm.DB, name string, team *models.Team, creator *models.User) *models.Project {
	t.Helper()

	project := &models.Project{
		Name:      name,
		Status:    models.ProjectStatusActive,
		TeamID:    team.ID,
		CreatorID: creator.ID,
	}
	require.NoError(t, db.Create(project).Error)
	return project
}

// CreateTask inserts a todo task due in a week.
func CreateTask(t *testing.T, db *gorm.DB, title string, project *models.Project, creator *models.User, assignee *models.User) *models.Task {
	t.Helper()

	task := &models.Task{
		Title:     title,
		Priority:  models.TaskPriorityMedium,
		Status:    models.TaskStatusTodo,
		Deadline:  time.Now().Add(7 * 24 * time.Hour),
		ProjectID: project.ID,
		CreatorID: creator.ID,
	}
	if assignee != nil {
		task.AssigneeID = &assignee.ID
	}
	require.NoError(t, db.Create(task).Error)
	return task
}

// CreateComment inserts a comment with an explicit creation time.
func CreateComment(t *testing.T, db *gorm.DB, task *models.Task, author *models.User, body string, at time.Time) *models.Comment {
	t.Helper()

	comment := &models.Comment{
		Body:      body,
		AuthorID:  author.ID,
		TaskID:    task.ID,
		CreatedAt: at,
	}
	require.NoError(t, db.Create(comment).Error)
	return comment
}
