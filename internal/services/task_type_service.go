package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/projectflow-api/internal/models"
	"github.com/yukikurage/projectflow-api/internal/repository"
	"gorm.io/gorm"
)

const maxTaskTypeNameLength = 255

// TaskTypeService manages the catalog of task types shared by every team.
type TaskTypeService struct {
	taskTypeRepo repository.TaskTypeRepository
}

// NewTaskTypeService creates a new TaskTypeService.
func NewTaskTypeService(taskTypeRepo repository.TaskTypeRepository) *TaskTypeService {
	return &TaskTypeService{taskTypeRepo: taskTypeRepo}
}

// CreateTaskType adds a task type. Names are unique.
func (s *TaskTypeService) CreateTaskType(ctx context.Context, name string) (*models.TaskType, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrTaskTypeNameRequired
	}
	if len(name) > maxTaskTypeNameLength {
		return nil, fmt.Errorf("%w: task type name must be at most %d characters", ErrValidation, maxTaskTypeNameLength)
	}

	taskType := &models.TaskType{Name: name}
	if err := s.taskTypeRepo.Create(ctx, taskType); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrTaskTypeExists
		}
		return nil, fmt.Errorf("failed to create task type: %w", err)
	}
	return taskType, nil
}

// ListTaskTypes returns all task types ordered by name.
func (s *TaskTypeService) ListTaskTypes(ctx context.Context) ([]models.TaskType, error) {
	taskTypes, err := s.taskTypeRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list task types: %w", err)
	}
	return taskTypes, nil
}
