package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/projectflow-api/internal/constants"
	"github.com/yukikurage/projectflow-api/internal/models"
	"github.com/yukikurage/projectflow-api/internal/repository"
	"gorm.io/gorm"
)

const maxTaskTitleLength = 255

var taskPreloads = []string{"Project", "Creator", "Assignee", "TaskType"}

// TaskService handles task business logic
type TaskService struct {
	taskRepo     repository.TaskRepository
	projectRepo  repository.ProjectRepository
	taskTypeRepo repository.TaskTypeRepository
	access       accessChecker
	suggester    TaskSuggester
	now          func() time.Time
}

// NewTaskService creates a new TaskService. suggester may be nil when AI is not configured.
func NewTaskService(taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository, teamRepo repository.TeamRepository, taskTypeRepo repository.TaskTypeRepository, suggester TaskSuggester, opts ...Option) *TaskService {
	o := applyOptions(opts)
	return &TaskService{
		taskRepo:     taskRepo,
		projectRepo:  projectRepo,
		taskTypeRepo: taskTypeRepo,
		access:       accessChecker{teams: teamRepo},
		suggester:    suggester,
		now:          o.now,
	}
}

// TaskView is a task with the fields derived when it is read.
type TaskView struct {
	Task         models.Task
	Overdue      bool
	CommentCount int64
	AssignedToMe bool
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	UserID       uint64
	ProjectID    *uint64
	TeamID       *uint64
	Status       *models.TaskStatus
	Priority     *models.TaskPriority
	AssigneeID   *uint64
	AssignedToMe bool
	Unassigned   bool
	TaskTypeID   *uint64
	Sort         repository.TaskSort
	Page         int
	PageSize     int
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	ProjectID   uint64
	CreatorID   uint64
	Title       string
	Description string
	Priority    models.TaskPriority
	Deadline    time.Time
	AssigneeID  *uint64
	TaskTypeID  *uint64
}

// UpdateTaskInput represents input for updating a task. ClearTaskType wins over TaskTypeID.
type UpdateTaskInput struct {
	Title         *string
	Description   *string
	Deadline      *time.Time
	Priority      *models.TaskPriority
	Status        *models.TaskStatus
	TaskTypeID    *uint64
	ClearTaskType bool
}

// ListTasks returns tasks of one project, or of the user's teams, based on the provided filters
func (s *TaskService) ListTasks(ctx context.Context, input ListTasksInput) ([]TaskView, int64, error) {
	if input.Status != nil && !input.Status.IsValid() {
		return nil, 0, ErrInvalidStatus
	}
	if input.Priority != nil && !input.Priority.IsValid() {
		return nil, 0, ErrInvalidPriority
	}
	switch input.Sort {
	case "", repository.TaskSortDeadline, repository.TaskSortCreated, repository.TaskSortOpenFirst:
	default:
		return nil, 0, fmt.Errorf("%w: sort must be deadline, created or open_first", ErrValidation)
	}

	filter := repository.TaskFilter{
		Status:     input.Status,
		Priority:   input.Priority,
		AssigneeID: input.AssigneeID,
		Unassigned: input.Unassigned,
		TaskTypeID: input.TaskTypeID,
		Sort:       input.Sort,
		Page:       input.Page,
		PageSize:   input.PageSize,
	}
	if input.AssignedToMe {
		filter.AssigneeID = &input.UserID
	}

	if input.ProjectID != nil {
		project, err := s.findProject(ctx, *input.ProjectID)
		if err != nil {
			return nil, 0, err
		}
		if _, err := s.access.require(ctx, project.TeamID, input.UserID, CapViewTeam); err != nil {
			return nil, 0, err
		}
		filter.ProjectIDs = []uint64{project.ID}
	} else {
		teamIDs, err := s.access.teamIDs(ctx, input.UserID, input.TeamID)
		if err != nil {
			return nil, 0, err
		}
		if len(teamIDs) == 0 {
			return []TaskView{}, 0, nil
		}
		filter.TeamIDs = teamIDs
	}

	tasks, total, err := s.taskRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	views, err := s.views(ctx, tasks, input.UserID)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

// GetTask returns a task with related data
func (s *TaskService) GetTask(ctx context.Context, taskID, userID uint64) (*TaskView, error) {
	task, err := s.loadTask(ctx, taskID, userID, CapViewTeam)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, task, userID)
}

// CreateTask creates a new task in a project of the creator's team
func (s *TaskService) CreateTask(ctx context.Context, input CreateTaskInput) (*TaskView, error) {
	title, err := validateTaskTitle(input.Title)
	if err != nil {
		return nil, err
	}
	if input.Deadline.IsZero() {
		return nil, ErrDeadlineRequired
	}
	if input.Priority == "" {
		input.Priority = models.TaskPriorityMedium
	}
	if !input.Priority.IsValid() {
		return nil, ErrInvalidPriority
	}

	project, err := s.findProject(ctx, input.ProjectID)
	if err != nil {
		return nil, err
	}
	if _, err := s.access.require(ctx, project.TeamID, input.CreatorID, CapWriteTasks); err != nil {
		return nil, err
	}
	if project.Status == models.ProjectStatusArchived {
		return nil, ErrProjectArchived
	}
	if input.AssigneeID != nil {
		if err := s.checkAssignee(ctx, project.TeamID, *input.AssigneeID); err != nil {
			return nil, err
		}
	}
	if input.TaskTypeID != nil {
		if err := s.checkTaskType(ctx, *input.TaskTypeID); err != nil {
			return nil, err
		}
	}

	task := &models.Task{
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Priority:    input.Priority,
		Status:      models.TaskStatusTodo,
		Deadline:    input.Deadline,
		ProjectID:   project.ID,
		CreatorID:   input.CreatorID,
		AssigneeID:  input.AssigneeID,
		TaskTypeID:  input.TaskTypeID,
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return s.reload(ctx, task.ID, input.CreatorID)
}

// UpdateTask updates an existing task
func (s *TaskService) UpdateTask(ctx context.Context, taskID, userID uint64, input UpdateTaskInput) (*TaskView, error) {
	task, err := s.loadTask(ctx, taskID, userID, CapWriteTasks)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title, err := validateTaskTitle(*input.Title)
		if err != nil {
			return nil, err
		}
		task.Title = title
	}
	if input.Description != nil {
		task.Description = strings.TrimSpace(*input.Description)
	}
	if input.Deadline != nil {
		if input.Deadline.IsZero() {
			return nil, ErrDeadlineRequired
		}
		task.Deadline = *input.Deadline
	}
	if input.Priority != nil {
		if !input.Priority.IsValid() {
			return nil, ErrInvalidPriority
		}
		task.Priority = *input.Priority
	}
	if input.Status != nil {
		if err := s.applyStatus(task, *input.Status); err != nil {
			return nil, err
		}
	}
	switch {
	case input.ClearTaskType:
		task.TaskTypeID = nil
	case input.TaskTypeID != nil:
		if err := s.checkTaskType(ctx, *input.TaskTypeID); err != nil {
			return nil, err
		}
		task.TaskTypeID = input.TaskTypeID
	}

	return s.save(ctx, task, userID)
}

// UpdateStatus moves a task to a new status, maintaining completed_at
func (s *TaskService) UpdateStatus(ctx context.Context, taskID, userID uint64, status models.TaskStatus) (*TaskView, error) {
	return s.UpdateTask(ctx, taskID, userID, UpdateTaskInput{Status: &status})
}

// UpdatePriority changes the priority of a task
func (s *TaskService) UpdatePriority(ctx context.Context, taskID, userID uint64, priority models.TaskPriority) (*TaskView, error) {
	return s.UpdateTask(ctx, taskID, userID, UpdateTaskInput{Priority: &priority})
}

// Reassign sets or clears the assignee of a task
func (s *TaskService) Reassign(ctx context.Context, taskID, userID uint64, assigneeID *uint64) (*TaskView, error) {
	task, err := s.loadTask(ctx, taskID, userID, CapWriteTasks)
	if err != nil {
		return nil, err
	}

	if assigneeID != nil {
		if err := s.checkAssignee(ctx, task.Project.TeamID, *assigneeID); err != nil {
			return nil, err
		}
	}
	task.AssigneeID = assigneeID

	return s.save(ctx, task, userID)
}

// DeleteTask deletes a task and its comments
func (s *TaskService) DeleteTask(ctx context.Context, taskID, userID uint64) error {
	if _, err := s.loadTask(ctx, taskID, userID, CapWriteTasks); err != nil {
		return err
	}

	if err := s.taskRepo.Delete(ctx, taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

// SuggestTasks uses AI to propose tasks for a project from free text
func (s *TaskService) SuggestTasks(ctx context.Context, projectID, userID uint64, text string) ([]TaskSuggestion, error) {
	if s.suggester == nil {
		return nil, ErrAINotConfigured
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrAISourceRequired
	}

	project, err := s.findProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if _, err := s.access.require(ctx, project.TeamID, userID, CapWriteTasks); err != nil {
		return nil, err
	}

	suggestions, err := s.suggester.SuggestTasks(ctx, SuggestionRequest{
		ProjectName:        project.Name,
		ProjectDescription: project.Description,
		Text:               text,
		Now:                s.now(),
	})
	if err != nil {
		return nil, err
	}

	valid := make([]TaskSuggestion, 0, len(suggestions))
	for _, suggestion := range suggestions {
		suggestion.Title = strings.TrimSpace(suggestion.Title)
		if suggestion.Title == "" || len(suggestion.Title) > maxTaskTitleLength {
			continue
		}
		if !models.TaskPriority(suggestion.Priority).IsValid() {
			suggestion.Priority = string(models.TaskPriorityMedium)
		}

		valid = append(valid, suggestion)
		if len(valid) == constants.MaxAIGeneratedTasks {
			break
		}
	}

	if len(valid) == 0 {
		return nil, ErrAINoTasksGenerated
	}

	return valid, nil
}

// applyStatus sets completed_at when a task becomes done and clears it when it is reopened
func (s *TaskService) applyStatus(task *models.Task, status models.TaskStatus) error {
	if !status.IsValid() {
		return ErrInvalidStatus
	}
	if status == task.Status {
		return nil
	}

	if status == models.TaskStatusDone {
		now := s.now()
		task.CompletedAt = &now
	} else {
		task.CompletedAt = nil
	}
	task.Status = status
	return nil
}

func (s *TaskService) save(ctx context.Context, task *models.Task, userID uint64) (*TaskView, error) {
	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return s.reload(ctx, task.ID, userID)
}

func (s *TaskService) reload(ctx context.Context, taskID, userID uint64) (*TaskView, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID, taskPreloads...)
	if err != nil {
		return nil, fmt.Errorf("failed to reload task: %w", err)
	}
	return s.view(ctx, task, userID)
}

// loadTask finds a task with its project and checks the caller's capability on the project's team
func (s *TaskService) loadTask(ctx context.Context, taskID, userID uint64, capability Capability) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID, taskPreloads...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if _, err := s.access.require(ctx, task.Project.TeamID, userID, capability); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) findProject(ctx context.Context, projectID uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

// checkAssignee verifies that the assignee is an active member of the team
func (s *TaskService) checkAssignee(ctx context.Context, teamID, assigneeID uint64) error {
	member, err := s.access.teams.FindMember(ctx, teamID, assigneeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssigneeNotMember
		}
		return fmt.Errorf("failed to verify assignee: %w", err)
	}
	if !member.User.IsActive {
		return ErrAssigneeInactive
	}
	return nil
}

func (s *TaskService) checkTaskType(ctx context.Context, taskTypeID uint64) error {
	if _, err := s.taskTypeRepo.FindByID(ctx, taskTypeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskTypeNotFound
		}
		return fmt.Errorf("failed to find task type: %w", err)
	}
	return nil
}

func (s *TaskService) view(ctx context.Context, task *models.Task, userID uint64) (*TaskView, error) {
	views, err := s.views(ctx, []models.Task{*task}, userID)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *TaskService) views(ctx context.Context, tasks []models.Task, userID uint64) ([]TaskView, error) {
	ids := make([]uint64, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}

	counts, err := s.taskRepo.CountComments(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to count comments: %w", err)
	}

	return buildTaskViews(tasks, counts, userID, s.now()), nil
}

func buildTaskViews(tasks []models.Task, counts map[uint64]int64, userID uint64, now time.Time) []TaskView {
	views := make([]TaskView, len(tasks))
	for i, t := range tasks {
		views[i] = TaskView{
			Task:         t,
			Overdue:      t.IsOverdue(now),
			CommentCount: counts[t.ID],
			AssignedToMe: t.AssigneeID != nil && *t.AssigneeID == userID,
		}
	}
	return views
}

func validateTaskTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", ErrTitleRequired
	}
	if len(title) > maxTaskTitleLength {
		return "", fmt.Errorf("%w: title must be at most %d characters", ErrValidation, maxTaskTitleLength)
	}
	return title, nil
}
