package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/projectflow-api/internal/dto"
	apierrors "github.com/yukikurage/projectflow-api/internal/errors"
	"github.com/yukikurage/projectflow-api/internal/middleware"
	"github.com/yukikurage/projectflow-api/internal/models"
	"github.com/yukikurage/projectflow-api/internal/repository"
	"github.com/yukikurage/projectflow-api/internal/services"
	"github.com/yukikurage/projectflow-api/internal/utils"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns tasks across the user's teams.
// Can filter by team_id, project_id, status, priority, assignee_id,
// task_type_id, assigned_to_me and unassigned.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	projectID, ok := queryID(c, "project_id")
	if !ok {
		return
	}
	h.listTasks(c, projectID)
}

// ListProjectTasks returns the tasks of one project
func (h *TaskHandler) ListProjectTasks(c *gin.Context) {
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}
	h.listTasks(c, &projectID)
}

func (h *TaskHandler) listTasks(c *gin.Context, projectID *uint64) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	input := services.ListTasksInput{
		UserID:    userID,
		ProjectID: projectID,
		Sort:      repository.TaskSort(c.Query("sort")),
	}

	var ok bool
	if input.TeamID, ok = queryID(c, "team_id"); !ok {
		return
	}
	if input.AssigneeID, ok = queryID(c, "assignee_id"); !ok {
		return
	}
	if input.TaskTypeID, ok = queryID(c, "task_type_id"); !ok {
		return
	}
	if input.AssignedToMe, ok = queryBool(c, "assigned_to_me"); !ok {
		return
	}
	if input.Unassigned, ok = queryBool(c, "unassigned"); !ok {
		return
	}
	if status := c.Query("status"); status != "" {
		s := models.TaskStatus(status)
		input.Status = &s
	}
	if priority := c.Query("priority"); priority != "" {
		p := models.TaskPriority(priority)
		input.Priority = &p
	}

	params := utils.GetPaginationParams(c)
	input.Page = params.Page
	input.PageSize = params.Limit

	views, total, err := h.taskService.ListTasks(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.TaskListResponse{
		Tasks:      dto.ToTaskDTOs(views),
		Pagination: utils.NewPaginationResponse(params, total),
	})
}

// GetTask returns a specific task by ID
func (h *TaskHandler) GetTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}

	view, err := h.taskService.GetTask(c.Request.Context(), taskID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*view))
}

// CreateTask creates a new task in the project from the path
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}

	type CreateTaskRequest struct {
		Title       string              `json:"title" binding:"required"`
		Description string              `json:"description"`
		Priority    models.TaskPriority `json:"priority"`
		Deadline    *time.Time          `json:"deadline"`
		AssigneeID  *uint64             `json:"assignee_id"`
		TaskTypeID  *uint64             `json:"task_type_id"`
	}

	var req CreateTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	input := services.CreateTaskInput{
		ProjectID:   projectID,
		CreatorID:   userID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		AssigneeID:  req.AssigneeID,
		TaskTypeID:  req.TaskTypeID,
	}
	if req.Deadline != nil {
		input.Deadline = *req.Deadline
	}

	view, err := h.taskService.CreateTask(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*view))
}

// UpdateTask updates an existing task
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}

	type UpdateTaskRequest struct {
		Title         *string              `json:"title"`
		Description   *string              `json:"description"`
		Deadline      *time.Time           `json:"deadline"`
		Priority      *models.TaskPriority `json:"priority"`
		Status        *models.TaskStatus   `json:"status"`
		TaskTypeID    *uint64              `json:"task_type_id"`
		ClearTaskType bool                 `json:"clear_task_type"`
	}

	var req UpdateTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	view, err := h.taskService.UpdateTask(c.Request.Context(), taskID, userID, services.UpdateTaskInput{
		Title:         req.Title,
		Description:   req.Description,
		Deadline:      req.Deadline,
		Priority:      req.Priority,
		Status:        req.Status,
		TaskTypeID:    req.TaskTypeID,
		ClearTaskType: req.ClearTaskType,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*view))
}

// UpdateStatus changes the status of a task
func (h *TaskHandler) UpdateStatus(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}

	type UpdateStatusRequest struct {
		Status models.TaskStatus `json:"status" binding:"required"`
	}

	var req UpdateStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	view, err := h.taskService.UpdateStatus(c.Request.Context(), taskID, userID, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*view))
}

// UpdatePriority changes the priority of a task
func (h *TaskHandler) UpdatePriority(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}

	type UpdatePriorityRequest struct {
		Priority models.TaskPriority `json:"priority" binding:"required"`
	}

	var req UpdatePriorityRequest
	if !bindJSON(c, &req) {
		return
	}

	view, err := h.taskService.UpdatePriority(c.Request.Context(), taskID, userID, req.Priority)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*view))
}

// Reassign sets the assignee of a task. A null assignee_id unassigns it.
func (h *TaskHandler) Reassign(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}

	type ReassignRequest struct {
		AssigneeID *uint64 `json:"assignee_id"`
	}

	var req ReassignRequest
	if !bindJSON(c, &req) {
		return
	}

	view, err := h.taskService.Reassign(c.Request.Context(), taskID, userID, req.AssigneeID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*view))
}

// DeleteTask deletes a task with its comments
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(c.Request.Context(), taskID, userID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GenerateTasks suggests tasks for a project from free text using AI.
// Suggestions are returned for review, not saved.
func (h *TaskHandler) GenerateTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}

	type GenerateTasksRequest struct {
		Text string `json:"text" binding:"required"`
	}

	var req GenerateTasksRequest
	if !bindJSON(c, &req) {
		return
	}

	suggestions, err := h.taskService.SuggestTasks(c.Request.Context(), projectID, userID, req.Text)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.TaskSuggestionListResponse{Tasks: suggestions})
}
