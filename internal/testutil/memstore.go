// Package testutil provides in-memory implementations of the repository
// ports. They mirror the PostgreSQL stores closely enough for service and
// HTTP tests: unique emails, cascading comment deletes, ordering and paging.
package testutil

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/taskmaster/taskhub/internal/domain/entities"
	"github.com/taskmaster/taskhub/internal/ports"
)

// Store holds every table. The exported views implement the ports.
type Store struct {
	mu            sync.Mutex
	clock         time.Time
	users         map[uuid.UUID]entities.User
	admins        map[uuid.UUID]entities.Admin
	tasks         map[uuid.UUID]entities.Task
	comments      map[uuid.UUID]entities.Comment
	notifications []entities.Notification
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		clock:    time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
		users:    map[uuid.UUID]entities.User{},
		admins:   map[uuid.UUID]entities.Admin{},
		tasks:    map[uuid.UUID]entities.Task{},
		comments: map[uuid.UUID]entities.Comment{},
	}
}

// tick advances a private clock so timestamps are strictly increasing.
func (s *Store) tick() time.Time {
	s.clock = s.clock.Add(time.Millisecond)
	return s.clock
}

func (s *Store) Users() ports.UserRepository                 { return userStore{s} }
func (s *Store) Admins() ports.AdminRepository               { return adminStore{s} }
func (s *Store) Tasks() ports.TaskRepository                 { return taskStore{s} }
func (s *Store) Comments() ports.CommentRepository           { return commentStore{s} }
func (s *Store) Notifications() ports.NotificationRepository { return notificationStore{s} }

// NotificationsFor returns the stored notifications of one user in
// insertion order.
func (s *Store) NotificationsFor(userID uuid.UUID) []entities.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []entities.Notification
	for _, n := range s.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

// CommentCount is the number of stored comment rows.
func (s *Store) CommentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.comments)
}

type userStore struct{ s *Store }

func (r userStore) Create(_ context.Context, user *entities.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Email == user.Email {
			return entities.ErrEmailExists
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := r.s.tick()
	user.CreatedAt, user.UpdatedAt = now, now
	r.s.users[user.ID] = *user
	return nil
}

func (r userStore) GetByID(_ context.Context, id uuid.UUID) (*entities.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, entities.ErrUserNotFound
	}
	return &u, nil
}

func (r userStore) GetByEmail(_ context.Context, email string) (*entities.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, entities.ErrUserNotFound
}

func (r userStore) GetByIDs(_ context.Context, ids []uuid.UUID) ([]*entities.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	users := []*entities.User{}
	for _, id := range ids {
		if u, ok := r.s.users[id]; ok {
			u := u
			users = append(users, &u)
		}
	}
	return users, nil
}

type adminStore struct{ s *Store }

func (r adminStore) Create(_ context.Context, admin *entities.Admin) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, a := range r.s.admins {
		if a.Email == admin.Email {
			return entities.ErrEmailExists
		}
	}
	if admin.ID == uuid.Nil {
		admin.ID = uuid.New()
	}
	if admin.Role == "" {
		admin.Role = entities.AdminRoleAdmin
	}
	now := r.s.tick()
	admin.CreatedAt, admin.UpdatedAt = now, now
	r.s.admins[admin.ID] = *admin
	return nil
}

func (r adminStore) GetByID(_ context.Context, id uuid.UUID) (*entities.Admin, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.admins[id]
	if !ok {
		return nil, entities.ErrAdminNotFound
	}
	return &a, nil
}

func (r adminStore) GetByEmail(_ context.Context, email string) (*entities.Admin, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, a := range r.s.admins {
		if a.Email == email {
			a := a
			return &a, nil
		}
	}
	return nil, entities.ErrAdminNotFound
}

type taskStore struct{ s *Store }

// row strips the hydrated fields, which are never stored.
func taskRow(t *entities.Task) entities.Task {
	row := *t
	row.Tags = append([]string{}, t.Tags...)
	if t.AssigneeID != nil {
		id := *t.AssigneeID
		row.AssigneeID = &id
	}
	row.Creator, row.AssignedTo, row.Comments = nil, nil, nil
	return row
}

func loadTask(row entities.Task) *entities.Task {
	t := taskRow(&row)
	return &t
}

func (r taskStore) Create(_ context.Context, task *entities.Task) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}
	if task.Status == "" {
		task.Status = entities.TaskStatusTodo
	}
	if task.Tags == nil {
		task.Tags = []string{}
	}
	now := r.s.tick()
	task.CreatedAt, task.UpdatedAt = now, now
	r.s.tasks[task.ID] = taskRow(task)
	return nil
}

func (r taskStore) GetByID(_ context.Context, id uuid.UUID) (*entities.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	row, ok := r.s.tasks[id]
	if !ok {
		return nil, entities.ErrTaskNotFound
	}
	return loadTask(row), nil
}

// Patch copies only the named fields onto the stored row.
func (r taskStore) Patch(_ context.Context, task *entities.Task, fields []string) error {
	for _, name := range fields {
		if !patchable(name) {
			return fmt.Errorf("patch task: unknown field %q", name)
		}
	}

	return r.patch(task, func(row *entities.Task) {
		src := taskRow(task)
		for _, name := range fields {
			switch name {
			case ports.TaskFieldTitle:
				row.Title = src.Title
			case ports.TaskFieldDescription:
				row.Description = src.Description
			case ports.TaskFieldDueDate:
				row.DueDate = src.DueDate
			case ports.TaskFieldStatus:
				row.Status = src.Status
			case ports.TaskFieldTags:
				row.Tags = src.Tags
			case ports.TaskFieldAssignee:
				row.AssigneeID = src.AssigneeID
			}
		}
	})
}

func (r taskStore) UpdateStatus(ctx context.Context, task *entities.Task) error {
	return r.Patch(ctx, task, []string{ports.TaskFieldStatus})
}

func (r taskStore) SetAssignee(ctx context.Context, task *entities.Task) error {
	return r.Patch(ctx, task, []string{ports.TaskFieldAssignee})
}

func (r taskStore) SetTags(ctx context.Context, task *entities.Task) error {
	return r.Patch(ctx, task, []string{ports.TaskFieldTags})
}

func (r taskStore) Touch(_ context.Context, id uuid.UUID) error {
	return r.patch(&entities.Task{ID: id}, func(*entities.Task) {})
}

func patchable(name string) bool {
	switch name {
	case ports.TaskFieldTitle, ports.TaskFieldDescription, ports.TaskFieldDueDate,
		ports.TaskFieldStatus, ports.TaskFieldTags, ports.TaskFieldAssignee:
		return true
	default:
		return false
	}
}

// patch applies set to the stored row only, like a single-column UPDATE.
func (r taskStore) patch(task *entities.Task, set func(row *entities.Task)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	row, ok := r.s.tasks[task.ID]
	if !ok {
		return entities.ErrTaskNotFound
	}
	set(&row)
	row.UpdatedAt = r.s.tick()
	r.s.tasks[task.ID] = row
	task.UpdatedAt = row.UpdatedAt
	return nil
}

func (r taskStore) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.tasks[id]; !ok {
		return entities.ErrTaskNotFound
	}
	delete(r.s.tasks, id)
	for cid, c := range r.s.comments {
		if c.TaskID == id {
			delete(r.s.comments, cid)
		}
	}
	return nil
}

func (r taskStore) List(_ context.Context, filter ports.TaskFilter) ([]*entities.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var matched []entities.Task
	for _, t := range r.s.tasks {
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		if filter.Tag != "" && !hasTag(t.Tags, filter.Tag) {
			continue
		}
		matched = append(matched, t)
	}

	desc := strings.ToUpper(filter.SortOrder) == ports.SortDesc
	sort.Slice(matched, func(i, j int) bool {
		c := compareTasks(&matched[i], &matched[j], filter.SortBy)
		if c == 0 {
			return matched[i].ID.String() < matched[j].ID.String()
		}
		if desc {
			return c > 0
		}
		return c < 0
	})

	tasks := []*entities.Task{}
	offset := filter.Offset()
	for i := offset; i < len(matched) && (filter.Limit <= 0 || i < offset+filter.Limit); i++ {
		if i < 0 {
			continue
		}
		tasks = append(tasks, loadTask(matched[i]))
	}
	return tasks, nil
}

func (r taskStore) ListByAssignee(_ context.Context, userID uuid.UUID) ([]*entities.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var matched []entities.Task
	for _, t := range r.s.tasks {
		if t.AssigneeID != nil && *t.AssigneeID == userID {
			matched = append(matched, t)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if c := compareTimes(matched[i].DueDate, matched[j].DueDate); c != 0 {
			return c < 0
		}
		return matched[i].ID.String() < matched[j].ID.String()
	})

	tasks := make([]*entities.Task, 0, len(matched))
	for _, t := range matched {
		tasks = append(tasks, loadTask(t))
	}
	return tasks, nil
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

func compareTasks(a, b *entities.Task, field string) int {
	switch field {
	case ports.TaskSortTitle:
		return strings.Compare(a.Title, b.Title)
	case ports.TaskSortDescription:
		return strings.Compare(a.Description, b.Description)
	case ports.TaskSortStatus:
		return strings.Compare(string(a.Status), string(b.Status))
	case ports.TaskSortCreatedAt:
		return compareTimes(a.CreatedAt, b.CreatedAt)
	case ports.TaskSortUpdatedAt:
		return compareTimes(a.UpdatedAt, b.UpdatedAt)
	default:
		return compareTimes(a.DueDate, b.DueDate)
	}
}

func compareTimes(a, b time.Time) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	default:
		return 0
	}
}

type commentStore struct{ s *Store }

func (r commentStore) Create(_ context.Context, comment *entities.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.tasks[comment.TaskID]; !ok {
		return entities.ErrTaskNotFound
	}
	if comment.ID == uuid.Nil {
		comment.ID = uuid.New()
	}
	now := r.s.tick()
	comment.CreatedAt, comment.UpdatedAt = now, now
	row := *comment
	row.Author = nil
	r.s.comments[comment.ID] = row
	return nil
}

func (r commentStore) GetByID(_ context.Context, id uuid.UUID) (*entities.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.comments[id]
	if !ok {
		return nil, entities.ErrCommentNotFound
	}
	return &c, nil
}

func (r commentStore) Update(_ context.Context, comment *entities.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.comments[comment.ID]
	if !ok {
		return entities.ErrCommentNotFound
	}
	existing.Content = comment.Content
	existing.UpdatedAt = r.s.tick()
	r.s.comments[comment.ID] = existing
	comment.UpdatedAt = existing.UpdatedAt
	return nil
}

func (r commentStore) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.comments[id]; !ok {
		return entities.ErrCommentNotFound
	}
	delete(r.s.comments, id)
	return nil
}

func (r commentStore) ListByTask(ctx context.Context, taskID uuid.UUID) ([]*entities.Comment, error) {
	return r.ListByTasks(ctx, []uuid.UUID{taskID})
}

func (r commentStore) ListByTasks(_ context.Context, taskIDs []uuid.UUID) ([]*entities.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	wanted := make(map[uuid.UUID]bool, len(taskIDs))
	for _, id := range taskIDs {
		wanted[id] = true
	}

	comments := []*entities.Comment{}
	for _, c := range r.s.comments {
		if wanted[c.TaskID] {
			c := c
			comments = append(comments, &c)
		}
	}
	sort.Slice(comments, func(i, j int) bool {
		if !comments[i].CreatedAt.Equal(comments[j].CreatedAt) {
			return comments[i].CreatedAt.Before(comments[j].CreatedAt)
		}
		return comments[i].ID.String() < comments[j].ID.String()
	})
	return comments, nil
}

type notificationStore struct{ s *Store }

func (r notificationStore) Create(_ context.Context, notification *entities.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if notification.ID == uuid.Nil {
		notification.ID = uuid.New()
	}
	notification.CreatedAt = r.s.tick()
	r.s.notifications = append(r.s.notifications, *notification)
	return nil
}

func (r notificationStore) ListByUser(_ context.Context, userID uuid.UUID) ([]*entities.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := []*entities.Notification{}
	for i := len(r.s.notifications) - 1; i >= 0; i-- {
		n := r.s.notifications[i]
		if n.UserID == userID {
			out = append(out, &n)
		}
	}
	return out, nil
}
