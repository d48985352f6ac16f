package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskmaster/taskhub/internal/domain/entities"
)

func TestAdminRequest(t *testing.T) {
	req, err := adminRequest("Root Admin", "root@example.com", "Str0ng!Pass", "Super-Admin")
	require.NoError(t, err)
	require.NotNil(t, req.Role)
	assert.Equal(t, entities.AdminRoleSuperAdmin, *req.Role)
	assert.Equal(t, "root@example.com", req.Email)
}

func TestAdminRequest_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		fullName string
		email    string
		password string
		role     string
		message  string
	}{
		{"weak password", "Root", "root@example.com", "password", "Super-Admin", "password must be at least 8 characters"},
		{"bad email", "Root", "not-an-email", "Str0ng!Pass", "Super-Admin", "email must be a valid email address"},
		{"missing name", "", "root@example.com", "Str0ng!Pass", "Admin", "fullName is required"},
		{"unknown role", "Root", "root@example.com", "Str0ng!Pass", "Owner", "role must be one of"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := adminRequest(tt.fullName, tt.email, tt.password, tt.role)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}
