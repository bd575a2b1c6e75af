package categories_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"readify-backend/internal/library/categories"
	"readify-backend/internal/library/librarytest"
	"readify-backend/internal/platform/apierr"
)

func TestCreateListAndDisable(t *testing.T) {
	env := librarytest.New(nil)
	ctx := context.Background()

	novels, err := env.Categories.Create(ctx, categories.CreateRequest{Name: " 小説 ", Description: "fiction"})
	require.NoError(t, err)
	assert.Equal(t, "小説", novels.Name)
	_, err = env.Categories.Create(ctx, categories.CreateRequest{Name: "Art"})
	require.NoError(t, err)

	_, err = env.Categories.Create(ctx, categories.CreateRequest{Name: "art"})
	assert.Equal(t, apierr.CodeConflict, apierr.CodeOf(err))
	_, err = env.Categories.Create(ctx, categories.CreateRequest{Name: "  "})
	assert.Equal(t, apierr.CodeInvalidArgument, apierr.CodeOf(err))

	list, err := env.Categories.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Art", list[0].Name)

	require.NoError(t, env.Categories.Delete(ctx, novels.CategoryID))
	// 2回目も成功扱い
	require.NoError(t, env.Categories.Delete(ctx, novels.CategoryID))

	list, err = env.Categories.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	list, err = env.Categories.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	got, err := env.Categories.Get(ctx, novels.CategoryID)
	require.NoError(t, err)
	assert.True(t, got.IsDisabled)
}

func TestUpdateCategory(t *testing.T) {
	env := librarytest.New(nil)
	ctx := context.Background()

	a, err := env.Categories.Create(ctx, categories.CreateRequest{Name: "History"})
	require.NoError(t, err)
	b, err := env.Categories.Create(ctx, categories.CreateRequest{Name: "Science"})
	require.NoError(t, err)

	res, err := env.Categories.Update(ctx, a.CategoryID, categories.UpdateRequest{Name: "World History", Description: "d"})
	require.NoError(t, err)
	assert.Equal(t, "World History", res.Name)
	assert.Equal(t, a.CreatedAt, res.CreatedAt)

	_, err = env.Categories.Update(ctx, b.CategoryID, categories.UpdateRequest{Name: "world history"})
	assert.Equal(t, apierr.CodeConflict, apierr.CodeOf(err))

	_, err = env.Categories.Update(ctx, "01HZX0000000000000000000AA", categories.UpdateRequest{Name: "x"})
	assert.Equal(t, apierr.CodeNotFound, apierr.CodeOf(err))
	assert.Equal(t, apierr.CodeNotFound, apierr.CodeOf(env.Categories.Delete(ctx, "01HZX0000000000000000000AA")))
}
