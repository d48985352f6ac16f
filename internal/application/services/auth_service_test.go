package services

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskmaster/taskhub/internal/domain/entities"
	"github.com/taskmaster/taskhub/internal/ports"
)

func TestAuthService_Register(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user := f.register(t, "Alice", "alice@example.com")
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.NotEqual(t, testPassword, user.PasswordHash)

	_, err := f.auth.Register(ctx, ports.RegisterRequest{
		FirstName: "Other",
		LastName:  "Alice",
		Email:     "alice@example.com",
		Password:  testPassword,
	})
	assert.ErrorIs(t, err, entities.ErrEmailExists)
	assert.ErrorIs(t, err, entities.ErrConflict)
}

func TestAuthService_Login(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.register(t, "Alice", "alice@example.com")

	t.Run("valid credentials issue a user token", func(t *testing.T) {
		resp, err := f.auth.Login(ctx, ports.LoginRequest{Email: "alice@example.com", Password: testPassword})
		require.NoError(t, err)
		require.NotEmpty(t, resp.AccessToken)

		principal, err := f.auth.ValidateToken(ctx, resp.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, user.ID, principal.ID)
		assert.Equal(t, "alice@example.com", principal.Email)
		assert.Equal(t, entities.PrincipalUser, principal.Type)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := f.auth.Login(ctx, ports.LoginRequest{Email: "alice@example.com", Password: "Wr0ng!Pass"})
		assert.ErrorIs(t, err, entities.ErrInvalidCredentials)
	})

	t.Run("unknown email fails the same way", func(t *testing.T) {
		_, err := f.auth.Login(ctx, ports.LoginRequest{Email: "nobody@example.com", Password: testPassword})
		assert.ErrorIs(t, err, entities.ErrInvalidCredentials)
	})

	t.Run("user credentials do not work on the admin login", func(t *testing.T) {
		_, err := f.auth.LoginAdmin(ctx, ports.LoginRequest{Email: "alice@example.com", Password: testPassword})
		assert.ErrorIs(t, err, entities.ErrInvalidCredentials)
	})
}

func TestAuthService_AdminLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	plain, err := f.auth.RegisterAdmin(ctx, ports.CreateAdminRequest{
		FullName: "Plain Admin",
		Email:    "admin@example.com",
		Password: testPassword,
	})
	require.NoError(t, err)
	assert.Equal(t, entities.AdminRoleAdmin, plain.Role)

	super := entities.AdminRoleSuperAdmin
	root, err := f.auth.RegisterAdmin(ctx, ports.CreateAdminRequest{
		FullName: "Root Admin",
		Email:    "root@example.com",
		Password: testPassword,
		Role:     &super,
	})
	require.NoError(t, err)
	assert.True(t, root.IsSuperAdmin())

	resp, err := f.auth.LoginAdmin(ctx, ports.LoginRequest{Email: "root@example.com", Password: testPassword})
	require.NoError(t, err)
	principal, err := f.auth.ValidateToken(ctx, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, entities.PrincipalAdmin, principal.Type)
	assert.Equal(t, root.ID, principal.ID)

	req := ports.CreateAdminRequest{FullName: "New Admin", Email: "new@example.com", Password: testPassword}

	_, err = f.auth.CreateAdmin(ctx, plain.ID, req)
	assert.ErrorIs(t, err, entities.ErrNotSuperAdmin)

	_, err = f.auth.CreateAdmin(ctx, uuid.New(), req)
	assert.ErrorIs(t, err, entities.ErrNotSuperAdmin)

	created, err := f.auth.CreateAdmin(ctx, root.ID, req)
	require.NoError(t, err)
	assert.Equal(t, entities.AdminRoleAdmin, created.Role)

	_, err = f.auth.CreateAdmin(ctx, root.ID, req)
	assert.ErrorIs(t, err, entities.ErrEmailExists)

	bogus := entities.AdminRole("Owner")
	_, err = f.auth.RegisterAdmin(ctx, ports.CreateAdminRequest{
		FullName: "Bogus", Email: "bogus@example.com", Password: testPassword, Role: &bogus,
	})
	assert.ErrorIs(t, err, entities.ErrValidation)
}

func TestAuthService_ValidateToken_Rejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "Alice", "alice@example.com")

	t.Run("expired token", func(t *testing.T) {
		f.auth.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		resp, err := f.auth.Login(ctx, ports.LoginRequest{Email: "alice@example.com", Password: testPassword})
		f.auth.now = time.Now
		require.NoError(t, err)

		_, err = f.auth.ValidateToken(ctx, resp.AccessToken)
		assert.ErrorIs(t, err, entities.ErrUnauthorized)
	})

	t.Run("foreign signature", func(t *testing.T) {
		claims := &Claims{
			Email:  "alice@example.com",
			UserID: uuid.NewString(),
			Type:   entities.PrincipalUser,
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
				Issuer:    testJWT.Issuer,
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("another-secret"))
		require.NoError(t, err)

		_, err = f.auth.ValidateToken(ctx, token)
		assert.ErrorIs(t, err, entities.ErrUnauthorized)
	})

	t.Run("unknown principal type", func(t *testing.T) {
		claims := &Claims{
			UserID: uuid.NewString(),
			Type:   "robot",
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
				Issuer:    testJWT.Issuer,
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWT.Secret))
		require.NoError(t, err)

		_, err = f.auth.ValidateToken(ctx, token)
		assert.ErrorIs(t, err, entities.ErrUnauthorized)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := f.auth.ValidateToken(ctx, "not-a-token")
		assert.ErrorIs(t, err, entities.ErrUnauthorized)
	})
}
