package repository

import (
	"context"

	"github.com/yukikurage/projectflow-api/internal/models"
	"gorm.io/gorm"
)

// GormTaskTypeRepository is a GORM implementation of TaskTypeRepository
type GormTaskTypeRepository struct {
	db *gorm.DB
}

// NewTaskTypeRepository creates a new TaskTypeRepository
func NewTaskTypeRepository(db *gorm.DB) TaskTypeRepository {
	return &GormTaskTypeRepository{db: db}
}

func (r *GormTaskTypeRepository) Create(ctx context.Context, taskType *models.TaskType) error {
	return r.db.WithContext(ctx).Create(taskType).Error
}

func (r *GormTaskTypeRepository) FindByID(ctx context.Context, id uint64) (*models.TaskType, error) {
	var taskType models.TaskType
	if err := r.db.WithContext(ctx).First(&taskType, id).Error; err != nil {
		return nil, err
	}
	return &taskType, nil
}

func (r *GormTaskTypeRepository) List(ctx context.Context) ([]models.TaskType, error) {
	var taskTypes []models.TaskType
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&taskTypes).Error; err != nil {
		return nil, err
	}
	return taskTypes, nil
}
