package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/taskmaster/taskhub/internal/domain/entities"
	"github.com/taskmaster/taskhub/internal/infrastructure/logger"
	"github.com/taskmaster/taskhub/internal/ports"
)

// taskGraph loads the users and comments around tasks through their own
// stores. Tasks only ever hold ids; the hydrated fields are response data.
type taskGraph struct {
	taskRepo    ports.TaskRepository
	commentRepo ports.CommentRepository
	userRepo    ports.UserRepository
}

func newTaskGraph(taskRepo ports.TaskRepository, commentRepo ports.CommentRepository, userRepo ports.UserRepository) *taskGraph {
	return &taskGraph{taskRepo: taskRepo, commentRepo: commentRepo, userRepo: userRepo}
}

// attach fills Creator, AssignedTo and Comments (with authors) on every task
// using one query per store. Tasks without comments get an empty slice.
func (g *taskGraph) attach(ctx context.Context, tasks []*entities.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	comments, err := g.commentRepo.ListByTasks(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to load comments: %w", err)
	}
	byTask := map[uuid.UUID][]*entities.Comment{}
	for _, c := range comments {
		byTask[c.TaskID] = append(byTask[c.TaskID], c)
	}

	userIDs := newIDSet()
	for _, t := range tasks {
		userIDs.add(t.CreatorID)
		if t.AssigneeID != nil {
			userIDs.add(*t.AssigneeID)
		}
	}
	for _, c := range comments {
		userIDs.add(c.AuthorID)
	}

	users, err := g.usersByID(ctx, userIDs.list())
	if err != nil {
		return err
	}

	for _, t := range tasks {
		t.Creator = users[t.CreatorID]
		if t.AssigneeID != nil {
			t.AssignedTo = users[*t.AssigneeID]
		}
		t.Comments = byTask[t.ID]
		if t.Comments == nil {
			t.Comments = []*entities.Comment{}
		}
	}
	for _, c := range comments {
		c.Author = users[c.AuthorID]
	}

	return nil
}

// comments returns a task's comments with authors, oldest first.
func (g *taskGraph) comments(ctx context.Context, taskID uuid.UUID) ([]*entities.Comment, error) {
	if _, err := g.taskRepo.GetByID(ctx, taskID); err != nil {
		return nil, err
	}

	comments, err := g.commentRepo.ListByTask(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to load comments: %w", err)
	}

	ids := newIDSet()
	for _, c := range comments {
		ids.add(c.AuthorID)
	}
	users, err := g.usersByID(ctx, ids.list())
	if err != nil {
		return nil, err
	}
	for _, c := range comments {
		c.Author = users[c.AuthorID]
	}

	return comments, nil
}

// detachComment marks the task as changed, then deletes the comment row. The
// task's own fields are not written. The two writes are not atomic.
func (g *taskGraph) detachComment(ctx context.Context, comment *entities.Comment) error {
	if err := g.taskRepo.Touch(ctx, comment.TaskID); err != nil {
		if errors.Is(err, entities.ErrTaskNotFound) {
			return err
		}
		return fmt.Errorf("failed to save task: %w", err)
	}

	if err := g.commentRepo.Delete(ctx, comment.ID); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}

	return nil
}

func (g *taskGraph) usersByID(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*entities.User, error) {
	users, err := g.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}

	byID := make(map[uuid.UUID]*entities.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	return byID, nil
}

// idSet keeps first-seen order so store calls are deterministic.
type idSet struct {
	seen  map[uuid.UUID]struct{}
	order []uuid.UUID
}

func newIDSet() *idSet {
	return &idSet{seen: map[uuid.UUID]struct{}{}}
}

func (s *idSet) add(id uuid.UUID) {
	if _, ok := s.seen[id]; ok {
		return
	}
	s.seen[id] = struct{}{}
	s.order = append(s.order, id)
}

func (s *idSet) list() []uuid.UUID {
	return s.order
}

// notifyStatusChange sends the status message to the assignee and the
// creator. Failures are logged and swallowed.
func notifyStatusChange(ctx context.Context, notifier ports.Notifier, log *logger.Logger, task *entities.Task) {
	message := entities.StatusChangedMessage(task.Title, task.Status)
	for _, recipient := range task.StatusRecipients() {
		if _, err := notifier.Notify(ctx, recipient, message); err != nil {
			log.Warnw("Failed to send status notification",
				"task_id", task.ID,
				"user_id", recipient,
				"error", err,
			)
		}
	}
}
