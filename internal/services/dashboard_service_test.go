package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/projectflow-api/internal/constants"
	"github.com/yukikurage/projectflow-api/internal/models"
	"github.com/yukikurage/projectflow-api/internal/testutil"
)

func TestDashboardScenario(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	clock := newFakeClock()
	r := newRepos(db)

	teams := NewTeamService(r.teams, r.users, WithClock(clock.Now))
	projects := NewProjectService(r.projects, r.teams)
	tasks := NewTaskService(r.tasks, r.projects, r.teams, r.taskTypes, nil, WithClock(clock.Now))
	comments := NewCommentService(r.comments, r.tasks, r.teams, WithClock(clock.Now))
	dashboards := NewDashboardService(r.users, r.teams, r.projects, r.tasks, r.comments, WithClock(clock.Now))

	a := testutil.CreateUser(t, db, "alice")
	b := testutil.CreateUser(t, db, "bob")

	eng, err := teams.CreateTeam(ctx, CreateTeamInput{Name: "Eng", OwnerID: a.ID})
	require.NoError(t, err)
	_, err = teams.AddMember(ctx, eng.ID, a.ID, AddMemberInput{UserID: b.ID})
	require.NoError(t, err)

	launch, err := projects.CreateProject(ctx, CreateProjectInput{TeamID: eng.ID, CreatorID: a.ID, Name: "Launch"})
	require.NoError(t, err)

	task, err := tasks.CreateTask(ctx, CreateTaskInput{
		ProjectID:  launch.ID,
		CreatorID:  b.ID,
		Title:      "Write spec",
		Priority:   models.TaskPriorityHigh,
		Deadline:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		AssigneeID: &b.ID,
	})
	require.NoError(t, err)

	_, err = comments.AddComment(ctx, task.Task.ID, b.ID, "done")
	require.NoError(t, err)

	dashboard, err := dashboards.GetDashboard(ctx, b.ID)
	require.NoError(t, err)

	assert.Equal(t, "bob", dashboard.User.Username)
	require.Len(t, dashboard.Teams, 1)
	assert.Equal(t, models.RoleMember, dashboard.Teams[0].Role)
	require.Len(t, dashboard.Projects, 1)
	assert.Equal(t, "Launch", dashboard.Projects[0].Name)

	require.Len(t, dashboard.Tasks, 1)
	view := dashboard.Tasks[0]
	assert.Equal(t, "Write spec", view.Task.Title)
	assert.Equal(t, int64(1), view.CommentCount)
	assert.True(t, view.AssignedToMe)
	assert.True(t, view.Overdue)

	require.Len(t, dashboard.RecentComments, 1)
	assert.Equal(t, "done", dashboard.RecentComments[0].Body)

	assert.Equal(t, DashboardStats{
		ActiveTasks:    1,
		OverdueTasks:   1,
		ActiveProjects: 1,
	}, dashboard.Stats)

	aliceView, err := dashboards.GetDashboard(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, aliceView.Tasks, 1)
	assert.False(t, aliceView.Tasks[0].AssignedToMe)

	require.NoError(t, teams.DeleteTeam(ctx, eng.ID, a.ID))

	_, err = projects.GetProject(ctx, launch.ID, a.ID)
	assert.ErrorIs(t, err, ErrProjectNotFound)
	_, err = tasks.GetTask(ctx, task.Task.ID, b.ID)
	assert.ErrorIs(t, err, ErrTaskNotFound)

	after, err := dashboards.GetDashboard(ctx, b.ID)
	require.NoError(t, err)
	assert.Empty(t, after.Teams)
	assert.Empty(t, after.Tasks)
	assert.Empty(t, after.RecentComments)
}

func TestDashboardOrderingAndLimits(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	clock := newFakeClock()
	r := newRepos(db)
	dashboards := NewDashboardService(r.users, r.teams, r.projects, r.tasks, r.comments, WithClock(clock.Now))

	alice := testutil.CreateUser(t, db, "alice")
	team := testutil.CreateTeam(t, db, "Eng", alice)
	project := testutil.CreateProject(t, db, "Launch", team, alice)

	done := testutil.CreateTask(t, db, "finished", project, alice, alice)
	done.Status = models.TaskStatusDone
	done.Deadline = clock.Now().Add(-time.Hour)
	require.NoError(t, r.tasks.Update(ctx, done))

	for i := 0; i < constants.DashboardTaskLimit; i++ {
		task := testutil.CreateTask(t, db, fmt.Sprintf("open %02d", i), project, alice, nil)
		testutil.CreateComment(t, db, task, alice, fmt.Sprintf("c%02d", i), clock.Now().Add(time.Duration(i)*time.Minute))
	}

	dashboard, err := dashboards.GetDashboard(ctx, alice.ID)
	require.NoError(t, err)

	require.Len(t, dashboard.Tasks, constants.DashboardTaskLimit)
	for _, view := range dashboard.Tasks {
		assert.NotEqual(t, models.TaskStatusDone, view.Task.Status)
		assert.Equal(t, int64(1), view.CommentCount)
	}

	require.Len(t, dashboard.RecentComments, constants.DashboardCommentLimit)
	assert.Equal(t, fmt.Sprintf("c%02d", constants.DashboardTaskLimit-1), dashboard.RecentComments[0].Body)

	assert.Equal(t, int64(1), dashboard.Stats.CompletedTasks)
	assert.Zero(t, dashboard.Stats.OverdueTasks)
}

func TestDashboardWithoutTeams(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	r := newRepos(db)
	dashboards := NewDashboardService(r.users, r.teams, r.projects, r.tasks, r.comments)

	loner := testutil.CreateUser(t, db, "loner")

	dashboard, err := dashboards.GetDashboard(ctx, loner.ID)
	require.NoError(t, err)
	assert.Empty(t, dashboard.Teams)
	assert.NotNil(t, dashboard.Tasks)
	assert.Equal(t, DashboardStats{}, dashboard.Stats)
}

func TestDashboardCapsProjects(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	r := newRepos(db)
	dashboards := NewDashboardService(r.users, r.teams, r.projects, r.tasks, r.comments)

	alice := testutil.CreateUser(t, db, "alice")
	team := testutil.CreateTeam(t, db, "Eng", alice)
	for i := 0; i <= constants.DashboardProjectLimit; i++ {
		testutil.CreateProject(t, db, fmt.Sprintf("project %02d", i), team, alice)
	}

	dashboard, err := dashboards.GetDashboard(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, dashboard.Projects, constants.DashboardProjectLimit)
	assert.Equal(t, int64(constants.DashboardProjectLimit+1), dashboard.Stats.ActiveProjects)
}
