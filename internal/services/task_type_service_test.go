package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/projectflow-api/internal/testutil"
)

func TestTaskTypeService(t *testing.T) {
	ctx := context.Background()
	service := NewTaskTypeService(newRepos(testutil.NewDB(t)).taskTypes)

	bug, err := service.CreateTaskType(ctx, "  bug ")
	require.NoError(t, err)
	assert.Equal(t, "bug", bug.Name)
	assert.NotZero(t, bug.ID)

	_, err = service.CreateTaskType(ctx, "feature")
	require.NoError(t, err)

	_, err = service.CreateTaskType(ctx, "bug")
	assert.ErrorIs(t, err, ErrTaskTypeExists)
	assert.ErrorIs(t, err, ErrConflict)

	_, err = service.CreateTaskType(ctx, "   ")
	assert.ErrorIs(t, err, ErrTaskTypeNameRequired)

	taskTypes, err := service.ListTaskTypes(ctx)
	require.NoError(t, err)
	require.Len(t, taskTypes, 2)
	assert.Equal(t, "bug", taskTypes[0].Name)
	assert.Equal(t, "feature", taskTypes[1].Name)
}
