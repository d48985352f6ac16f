package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/taskmaster/taskhub/internal/domain/entities"
	"github.com/taskmaster/taskhub/internal/infrastructure/logger"
	"github.com/taskmaster/taskhub/internal/ports"
)

// CommentService handles comment operations for users
type CommentService struct {
	taskRepo    ports.TaskRepository
	commentRepo ports.CommentRepository
	userRepo    ports.UserRepository
	graph       *taskGraph
	logger      *logger.Logger
}

func NewCommentService(taskRepo ports.TaskRepository, commentRepo ports.CommentRepository, userRepo ports.UserRepository, logger *logger.Logger) *CommentService {
	return &CommentService{
		taskRepo:    taskRepo,
		commentRepo: commentRepo,
		userRepo:    userRepo,
		graph:       newTaskGraph(taskRepo, commentRepo, userRepo),
		logger:      logger.WithComponent("comments"),
	}
}

func (s *CommentService) Create(ctx context.Context, actorID, taskID uuid.UUID, content string) (*entities.Comment, error) {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	author, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	comment := &entities.Comment{
		ID:       uuid.New(),
		Content:  content,
		AuthorID: author.ID,
		TaskID:   task.ID,
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	comment.Author = author

	s.logger.Infow("Comment created successfully", "comment_id", comment.ID, "task_id", task.ID, "user_id", actorID)

	return comment, nil
}

// Update replaces the content of the actor's own comment.
func (s *CommentService) Update(ctx context.Context, actorID, commentID uuid.UUID, content string) (*entities.Comment, error) {
	comment, author, err := s.loadOwned(ctx, actorID, commentID)
	if err != nil {
		return nil, err
	}

	comment.Content = content
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}
	comment.Author = author

	s.logger.Infow("Comment updated successfully", "comment_id", comment.ID, "user_id", actorID)

	return comment, nil
}

// Delete removes the actor's own comment.
func (s *CommentService) Delete(ctx context.Context, actorID, commentID uuid.UUID) error {
	comment, _, err := s.loadOwned(ctx, actorID, commentID)
	if err != nil {
		return err
	}

	if err := s.graph.detachComment(ctx, comment); err != nil {
		return err
	}

	s.logger.Infow("Comment deleted successfully", "comment_id", comment.ID, "task_id", comment.TaskID, "user_id", actorID)

	return nil
}

// ListForTask returns the task's comments, oldest first.
func (s *CommentService) ListForTask(ctx context.Context, taskID uuid.UUID) ([]*entities.Comment, error) {
	return s.graph.comments(ctx, taskID)
}

func (s *CommentService) loadOwned(ctx context.Context, actorID, commentID uuid.UUID) (*entities.Comment, *entities.User, error) {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, nil, err
	}

	actor, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return nil, nil, err
	}

	if comment.AuthorID != actor.ID {
		return nil, nil, entities.ErrNotCommentAuthor
	}

	return comment, actor, nil
}
