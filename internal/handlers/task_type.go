package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/projectflow-api/internal/dto"
	"github.com/yukikurage/projectflow-api/internal/services"
)

type TaskTypeHandler struct {
	taskTypeService *services.TaskTypeService
}

func NewTaskTypeHandler(taskTypeService *services.TaskTypeService) *TaskTypeHandler {
	return &TaskTypeHandler{
		taskTypeService: taskTypeService,
	}
}

// ListTaskTypes returns every task type
func (h *TaskTypeHandler) ListTaskTypes(c *gin.Context) {
	taskTypes, err := h.taskTypeService.ListTaskTypes(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"task_types": dto.ToTaskTypeDTOs(taskTypes),
	})
}

// CreateTaskType adds a task type any authenticated user can then use
func (h *TaskTypeHandler) CreateTaskType(c *gin.Context) {
	type CreateTaskTypeRequest struct {
		Name string `json:"name"`
	}

	var req CreateTaskTypeRequest
	if !bindJSON(c, &req) {
		return
	}

	taskType, err := h.taskTypeService.CreateTaskType(c.Request.Context(), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskTypeDTO(taskType))
}
