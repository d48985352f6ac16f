package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/taskmaster/taskhub/internal/domain/entities"
	"github.com/taskmaster/taskhub/internal/ports"
)

const commentColumns = `id, content, author_id, task_id, created_at, updated_at`

type CommentRepositoryImpl struct {
	db *sqlx.DB
}

func NewCommentRepository(db *sqlx.DB) ports.CommentRepository {
	return &CommentRepositoryImpl{db: db}
}

func (r *CommentRepositoryImpl) Create(ctx context.Context, comment *entities.Comment) error {
	query := `
		INSERT INTO comments (id, content, author_id, task_id)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`

	if comment.ID == uuid.Nil {
		comment.ID = uuid.New()
	}

	err := r.db.QueryRowContext(ctx, query,
		comment.ID, comment.Content, comment.AuthorID, comment.TaskID,
	).Scan(&comment.CreatedAt, &comment.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create comment: %w", err)
	}

	return nil
}

func (r *CommentRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*entities.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments WHERE id = $1`

	var comment entities.Comment
	if err := r.db.GetContext(ctx, &comment, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrCommentNotFound
		}
		return nil, fmt.Errorf("get comment by id: %w", err)
	}

	return &comment, nil
}

// Update saves new content. Author and task never change.
func (r *CommentRepositoryImpl) Update(ctx context.Context, comment *entities.Comment) error {
	query := `
		UPDATE comments
		SET content = $2, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING updated_at`

	if err := r.db.QueryRowContext(ctx, query, comment.ID, comment.Content).Scan(&comment.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entities.ErrCommentNotFound
		}
		return fmt.Errorf("update comment: %w", err)
	}

	return nil
}

func (r *CommentRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return entities.ErrCommentNotFound
	}

	return nil
}

// ListByTask returns a task's comments, oldest first.
func (r *CommentRepositoryImpl) ListByTask(ctx context.Context, taskID uuid.UUID) ([]*entities.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments WHERE task_id = $1 ORDER BY created_at ASC, id ASC`

	comments := []*entities.Comment{}
	if err := r.db.SelectContext(ctx, &comments, query, taskID); err != nil {
		return nil, fmt.Errorf("list comments by task: %w", err)
	}

	return comments, nil
}

// ListByTasks loads the comments of several tasks in one round trip.
func (r *CommentRepositoryImpl) ListByTasks(ctx context.Context, taskIDs []uuid.UUID) ([]*entities.Comment, error) {
	if len(taskIDs) == 0 {
		return []*entities.Comment{}, nil
	}

	query := `SELECT ` + commentColumns + ` FROM comments WHERE task_id = ANY($1::uuid[]) ORDER BY created_at ASC, id ASC`

	comments := []*entities.Comment{}
	if err := r.db.SelectContext(ctx, &comments, query, uuidArray(taskIDs)); err != nil {
		return nil, fmt.Errorf("list comments by tasks: %w", err)
	}

	return comments, nil
}
