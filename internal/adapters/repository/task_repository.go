package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/taskmaster/taskhub/internal/domain/entities"
	"github.com/taskmaster/taskhub/internal/ports"
)

const taskColumns = `id, title, description, due_date, status, tags, creator_id, assignee_id, created_at, updated_at`

// sortColumns maps API sort keys to columns. Anything else never reaches SQL.
var sortColumns = map[string]string{
	ports.TaskSortTitle:       "title",
	ports.TaskSortDescription: "description",
	ports.TaskSortDueDate:     "due_date",
	ports.TaskSortStatus:      "status",
	ports.TaskSortCreatedAt:   "created_at",
	ports.TaskSortUpdatedAt:   "updated_at",
}

// taskRow scans the tags array, which the entity keeps as a plain slice.
type taskRow struct {
	entities.Task
	Tags pq.StringArray `db:"tags"`
}

func (row *taskRow) toEntity() *entities.Task {
	task := row.Task
	task.Tags = []string(row.Tags)
	if task.Tags == nil {
		task.Tags = []string{}
	}
	return &task
}

func toTasks(rows []taskRow) []*entities.Task {
	tasks := make([]*entities.Task, len(rows))
	for i := range rows {
		tasks[i] = rows[i].toEntity()
	}
	return tasks
}

func tagsParam(tags []string) pq.StringArray {
	if tags == nil {
		return pq.StringArray{}
	}
	return pq.StringArray(tags)
}

// TaskRepositoryImpl implements the TaskRepository interface
type TaskRepositoryImpl struct {
	db *sqlx.DB
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *sqlx.DB) ports.TaskRepository {
	return &TaskRepositoryImpl{db: db}
}

func (r *TaskRepositoryImpl) Create(ctx context.Context, task *entities.Task) error {
	query := `
		INSERT INTO tasks (id, title, description, due_date, status, tags, creator_id, assignee_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`

	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}
	if task.Status == "" {
		task.Status = entities.TaskStatusTodo
	}
	if task.Tags == nil {
		task.Tags = []string{}
	}

	err := r.db.QueryRowContext(ctx, query,
		task.ID, task.Title, task.Description, task.DueDate, task.Status,
		tagsParam(task.Tags), task.CreatorID, task.AssigneeID,
	).Scan(&task.CreatedAt, &task.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}

	return nil
}

func (r *TaskRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*entities.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	var row taskRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrTaskNotFound
		}
		return nil, fmt.Errorf("get task by id: %w", err)
	}

	return row.toEntity(), nil
}

// taskFields maps patchable fields to their column and value.
var taskFields = map[string]struct {
	column string
	value  func(*entities.Task) interface{}
}{
	ports.TaskFieldTitle:       {"title", func(t *entities.Task) interface{} { return t.Title }},
	ports.TaskFieldDescription: {"description", func(t *entities.Task) interface{} { return t.Description }},
	ports.TaskFieldDueDate:     {"due_date", func(t *entities.Task) interface{} { return t.DueDate }},
	ports.TaskFieldStatus:      {"status", func(t *entities.Task) interface{} { return t.Status }},
	ports.TaskFieldTags:        {"tags", func(t *entities.Task) interface{} { return tagsParam(t.Tags) }},
	ports.TaskFieldAssignee:    {"assignee_id", func(t *entities.Task) interface{} { return t.AssigneeID }},
}

// Patch writes the named fields, in order, and refreshes updated_at.
func (r *TaskRepositoryImpl) Patch(ctx context.Context, task *entities.Task, fields []string) error {
	sets := make([]string, 0, len(fields)+1)
	args := []interface{}{task.ID}
	argIndex := 2

	for _, name := range fields {
		field, ok := taskFields[name]
		if !ok {
			return fmt.Errorf("patch task: unknown field %q", name)
		}
		sets = append(sets, fmt.Sprintf("%s = $%d", field.column, argIndex))
		args = append(args, field.value(task))
		argIndex++
	}
	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")

	query := fmt.Sprintf(`
		UPDATE tasks
		SET %s
		WHERE id = $1
		RETURNING updated_at`, strings.Join(sets, ", "))

	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&task.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entities.ErrTaskNotFound
		}
		return fmt.Errorf("patch task: %w", err)
	}

	return nil
}

func (r *TaskRepositoryImpl) UpdateStatus(ctx context.Context, task *entities.Task) error {
	return r.Patch(ctx, task, []string{ports.TaskFieldStatus})
}

func (r *TaskRepositoryImpl) SetAssignee(ctx context.Context, task *entities.Task) error {
	return r.Patch(ctx, task, []string{ports.TaskFieldAssignee})
}

func (r *TaskRepositoryImpl) SetTags(ctx context.Context, task *entities.Task) error {
	return r.Patch(ctx, task, []string{ports.TaskFieldTags})
}

// Touch bumps updated_at and leaves every other column alone.
func (r *TaskRepositoryImpl) Touch(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `UPDATE tasks SET updated_at = CURRENT_TIMESTAMP WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("touch task: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return entities.ErrTaskNotFound
	}

	return nil
}

// Delete removes the task; its comments go with it through the foreign key.
func (r *TaskRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return entities.ErrTaskNotFound
	}

	return nil
}

// List retrieves one page of tasks matching the filter
func (r *TaskRepositoryImpl) List(ctx context.Context, filter ports.TaskFilter) ([]*entities.Task, error) {
	var conditions []string
	var args []interface{}
	argIndex := 1

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIndex))
		args = append(args, *filter.Status)
		argIndex++
	}

	if filter.Tag != "" {
		conditions = append(conditions, fmt.Sprintf("tags @> ARRAY[$%d]::text[]", argIndex))
		args = append(args, filter.Tag)
		argIndex++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	orderBy, ok := sortColumns[filter.SortBy]
	if !ok {
		orderBy = "due_date"
	}

	sortOrder := ports.SortAsc
	if strings.ToUpper(filter.SortOrder) == ports.SortDesc {
		sortOrder = ports.SortDesc
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM tasks %s
		ORDER BY %s %s, id ASC
		LIMIT $%d OFFSET $%d`,
		taskColumns, whereClause, orderBy, sortOrder, argIndex, argIndex+1)

	args = append(args, filter.Limit, filter.Offset())

	rows := []taskRow{}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	return toTasks(rows), nil
}

func (r *TaskRepositoryImpl) ListByAssignee(ctx context.Context, userID uuid.UUID) ([]*entities.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE assignee_id = $1 ORDER BY due_date ASC, id ASC`

	rows := []taskRow{}
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("list tasks by assignee: %w", err)
	}

	return toTasks(rows), nil
}
