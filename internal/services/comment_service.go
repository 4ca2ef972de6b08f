package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/projectflow-api/internal/models"
	"github.com/yukikurage/projectflow-api/internal/repository"
	"gorm.io/gorm"
)

// CommentService manages the append-only discussion on tasks.
type CommentService struct {
	commentRepo repository.CommentRepository
	taskRepo    repository.TaskRepository
	access      accessChecker
	now         func() time.Time
}

// NewCommentService creates a new CommentService.
func NewCommentService(commentRepo repository.CommentRepository, taskRepo repository.TaskRepository, teamRepo repository.TeamRepository, opts ...Option) *CommentService {
	o := applyOptions(opts)
	return &CommentService{
		commentRepo: commentRepo,
		taskRepo:    taskRepo,
		access:      accessChecker{teams: teamRepo},
		now:         o.now,
	}
}

// AddComment appends a comment by a member of the task's team.
func (s *CommentService) AddComment(ctx context.Context, taskID, authorID uint64, body string) (*models.Comment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, ErrCommentBodyBlank
	}

	if _, err := s.taskTeam(ctx, taskID, authorID, CapComment); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Body:      body,
		AuthorID:  authorID,
		TaskID:    taskID,
		CreatedAt: s.now(),
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	created, err := s.commentRepo.FindByID(ctx, comment.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload comment: %w", err)
	}
	return created, nil
}

// ListComments returns a task's comments oldest first.
func (s *CommentService) ListComments(ctx context.Context, taskID, userID uint64) ([]models.Comment, error) {
	if _, err := s.taskTeam(ctx, taskID, userID, CapViewTeam); err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.ListByTask(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

// DeleteComment removes a comment. Authors may delete their own; owners and admins any.
func (s *CommentService) DeleteComment(ctx context.Context, commentID, userID uint64) error {
	comment, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return fmt.Errorf("failed to find comment: %w", err)
	}

	capability := CapModerateComments
	if comment.AuthorID == userID {
		capability = CapViewTeam
	}
	if _, err := s.taskTeam(ctx, comment.TaskID, userID, capability); err != nil {
		return err
	}

	if err := s.commentRepo.Delete(ctx, commentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return nil
}

// taskTeam resolves the team owning a task and checks the caller's capability on it.
func (s *CommentService) taskTeam(ctx context.Context, taskID, userID uint64, capability Capability) (uint64, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID, "Project")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrTaskNotFound
		}
		return 0, fmt.Errorf("failed to find task: %w", err)
	}

	if _, err := s.access.require(ctx, task.Project.TeamID, userID, capability); err != nil {
		return 0, err
	}
	return task.Project.TeamID, nil
}
