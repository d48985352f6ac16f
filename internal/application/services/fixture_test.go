package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskmaster/taskhub/internal/adapters/realtime"
	"github.com/taskmaster/taskhub/internal/domain/entities"
	"github.com/taskmaster/taskhub/internal/infrastructure/config"
	"github.com/taskmaster/taskhub/internal/infrastructure/logger"
	"github.com/taskmaster/taskhub/internal/ports"
	"github.com/taskmaster/taskhub/internal/testutil"
)

const testPassword = "Str0ng!Pass"

var testJWT = config.JWTConfig{
	Secret:    "test-secret",
	ExpiresIn: time.Hour,
	Issuer:    "taskhub-api",
}

type fixture struct {
	store    *testutil.Store
	auth     *AuthService
	tasks    *TaskService
	comments *CommentService
	admin    *AdminService
	users    *UserService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := testutil.NewStore()
	log := logger.NewNop()
	notifier := NewNotificationService(store.Notifications(), realtime.NoopPublisher{}, log)

	return &fixture{
		store:    store,
		auth:     NewAuthService(store.Users(), store.Admins(), testJWT, bcrypt.MinCost, log),
		tasks:    NewTaskService(store.Tasks(), store.Comments(), store.Users(), notifier, log),
		comments: NewCommentService(store.Tasks(), store.Comments(), store.Users(), log),
		admin:    NewAdminService(store.Tasks(), store.Comments(), store.Users(), notifier, log),
		users:    NewUserService(store.Tasks(), store.Comments(), store.Users(), store.Notifications(), log),
	}
}

func (f *fixture) register(t *testing.T, first, email string) *entities.User {
	t.Helper()

	user, err := f.auth.Register(context.Background(), ports.RegisterRequest{
		FirstName: first,
		LastName:  "Tester",
		Email:     email,
		Password:  testPassword,
	})
	require.NoError(t, err)
	return user
}

func (f *fixture) createTask(t *testing.T, creator *entities.User, title string, tags ...string) *entities.Task {
	t.Helper()

	task, err := f.tasks.Create(context.Background(), creator.ID, ports.CreateTaskRequest{
		Title:       title,
		Description: title + " description",
		DueDate:     "2030-06-01",
		Tags:        tags,
	})
	require.NoError(t, err)
	return task
}

func messages(notifications []entities.Notification) []string {
	out := make([]string, len(notifications))
	for i, n := range notifications {
		out[i] = n.Message
	}
	return out
}
