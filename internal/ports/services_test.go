package ports

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskmaster/taskhub/internal/domain/entities"
)

func TestListTasksRequest_Filter_Defaults(t *testing.T) {
	filter, err := ListTasksRequest{}.Filter()
	require.NoError(t, err)

	assert.Equal(t, DefaultPage, filter.Page)
	assert.Equal(t, DefaultLimit, filter.Limit)
	assert.Equal(t, TaskSortDueDate, filter.SortBy)
	assert.Equal(t, SortAsc, filter.SortOrder)
	assert.Nil(t, filter.Status)
	assert.Equal(t, 0, filter.Offset())
}

func TestListTasksRequest_Filter(t *testing.T) {
	filter, err := ListTasksRequest{
		Tag:       "work",
		Status:    "Completed",
		Page:      3,
		Limit:     5,
		SortBy:    "title",
		SortOrder: "desc",
	}.Filter()
	require.NoError(t, err)

	require.NotNil(t, filter.Status)
	assert.Equal(t, entities.TaskStatusCompleted, *filter.Status)
	assert.Equal(t, "work", filter.Tag)
	assert.Equal(t, SortDesc, filter.SortOrder)
	assert.Equal(t, 10, filter.Offset())
}

func TestListTasksRequest_Filter_LastAddressablePage(t *testing.T) {
	filter, err := ListTasksRequest{Page: math.MaxInt32/10 + 1, Limit: 10}.Filter()
	require.NoError(t, err)
	assert.LessOrEqual(t, filter.Offset(), math.MaxInt32)
	assert.Positive(t, filter.Offset())
}

func TestListTasksRequest_Filter_Invalid(t *testing.T) {
	tests := []struct {
		name string
		req  ListTasksRequest
	}{
		{"negative page", ListTasksRequest{Page: -1}},
		{"limit too large", ListTasksRequest{Limit: MaxLimit + 1}},
		{"page offset overflows", ListTasksRequest{Page: math.MaxInt, Limit: 10}},
		{"page offset beyond int32", ListTasksRequest{Page: math.MaxInt32/10 + 2, Limit: 10}},
		{"unknown status", ListTasksRequest{Status: "Done"}},
		{"unknown sort field", ListTasksRequest{SortBy: "password"}},
		{"unknown sort order", ListTasksRequest{SortOrder: "sideways"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.req.Filter()
			assert.ErrorIs(t, err, entities.ErrValidation)
		})
	}
}

func TestParseDueDate(t *testing.T) {
	tests := []struct {
		input    string
		expected time.Time
	}{
		{"2030-01-01", time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"2030-01-01T10:30:00", time.Date(2030, 1, 1, 10, 30, 0, 0, time.UTC)},
		{"2030-01-01T10:30:00Z", time.Date(2030, 1, 1, 10, 30, 0, 0, time.UTC)},
		{"2030-01-01T12:30:00+02:00", time.Date(2030, 1, 1, 10, 30, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDueDate(tt.input)
			require.NoError(t, err)
			assert.True(t, tt.expected.Equal(got), "got %s", got)
		})
	}

	_, err := ParseDueDate("next tuesday")
	assert.ErrorIs(t, err, entities.ErrValidation)
}
