package api

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/rpupo63/personal-site-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func blogBody(alias string, content *string, categories ...models.BlogCategoryDTO) map[string]any {
	refs := []map[string]any{}
	for _, c := range categories {
		refs = append(refs, map[string]any{"id": c.ID})
	}
	body := map[string]any{
		"alias":      alias,
		"title":      "Hello " + alias,
		"excerpt":    "An introduction",
		"tags":       []string{"intro"},
		"categories": refs,
	}
	if content != nil {
		body["content"] = *content
	}
	return body
}

func ptr[T any](v T) *T { return &v }

func TestBlogLifecycle(t *testing.T) {
	api := newTestAPI(t)
	_, token := api.register("ada")
	golang := create[models.BlogCategoryDTO](api, "/blog_categories", token, map[string]any{"name": "go"})
	rust := create[models.BlogCategoryDTO](api, "/blog_categories", token, map[string]any{"name": "rust"})

	rec := api.do(http.MethodPost, "/blog", token, blogBody("hello", nil, golang))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "Value required for key 'content'.", decodeBody[ErrorResponse](t, rec).Error)
	assert.NoFileExists(t, filepath.Join(api.resources, "blog", "hello.md"))

	blog := create[models.BlogDTO](api, "/blog", token, blogBody("hello", ptr("# Hello"), golang))
	require.NotNil(t, blog.Content)
	assert.Equal(t, "# Hello", *blog.Content)
	require.Len(t, blog.Categories, 1)
	assert.Equal(t, "go", blog.Categories[0].Name)

	stored, err := os.ReadFile(filepath.Join(api.resources, "blog", "hello.md"))
	require.NoError(t, err)
	assert.Equal(t, "# Hello", string(stored))

	rec = api.do(http.MethodGet, "/blog/hello", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	read := decodeBody[models.BlogDTO](t, rec)
	assert.Equal(t, blog.ID, read.ID)
	require.NotNil(t, read.Content)
	assert.Equal(t, "# Hello", *read.Content)

	rec = api.do(http.MethodPost, "/blog", token, blogBody("hello", ptr("again")))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	stored, err = os.ReadFile(filepath.Join(api.resources, "blog", "hello.md"))
	require.NoError(t, err)
	assert.Equal(t, "# Hello", string(stored), "a rejected duplicate must not overwrite the article")

	t.Run("listing omits content", func(t *testing.T) {
		rec := api.do(http.MethodGet, "/blog", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		list := decodeBody[[]models.BlogDTO](t, rec)
		require.Len(t, list, 1)
		assert.Nil(t, list[0].Content)
		assert.Len(t, list[0].Categories, 1)
	})

	t.Run("category filter", func(t *testing.T) {
		for query, want := range map[string]int{
			"go":                    1,
			"rust":                  0,
			"rust,go":               1,
			golang.ID.String():      1,
			"missing":               0,
			rust.ID.String() + ",x": 0,
		} {
			rec := api.do(http.MethodGet, "/blog?categories="+query, "", nil)
			require.Equal(t, http.StatusOK, rec.Code, query)
			assert.Len(t, decodeBody[[]models.BlogDTO](t, rec), want, query)
		}
	})

	rec = api.do(http.MethodPut, "/blog/"+blog.ID.String(), token, blogBody("hello-again", ptr("# Moved"), rust))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	moved := decodeBody[models.BlogDTO](t, rec)
	assert.Equal(t, "hello-again", moved.Alias)
	require.Len(t, moved.Categories, 1)
	assert.Equal(t, "rust", moved.Categories[0].Name)
	assert.NoFileExists(t, filepath.Join(api.resources, "blog", "hello.md"))
	assert.FileExists(t, filepath.Join(api.resources, "blog", "hello-again.md"))

	_, bobToken := api.register("bob")
	rec = api.do(http.MethodDelete, "/blog/"+blog.ID.String(), bobToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = api.do(http.MethodDelete, "/blog/"+blog.ID.String(), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NoFileExists(t, filepath.Join(api.resources, "blog", "hello-again.md"))

	rec = api.do(http.MethodGet, "/blog/hello-again", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBlogRejectsPathLikeAlias(t *testing.T) {
	api := newTestAPI(t)
	_, token := api.register("ada")

	rec := api.do(http.MethodPost, "/blog", token, blogBody("../escape", ptr("x")))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "alias", decodeBody[ErrorResponse](t, rec).Field)
}

func TestBlogCategoriesRedirect(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodGet, "/blog/categories?sort=name", "", nil)
	assert.Equal(t, http.StatusMovedPermanently, rec.Code)
	assert.Equal(t, "/blog_categories?sort=name", rec.Header().Get("Location"))

	rec = api.do(http.MethodGet, "/blog/categories/abc", "", nil)
	assert.Equal(t, http.StatusMovedPermanently, rec.Code)
	assert.Equal(t, "/blog_categories/abc", rec.Header().Get("Location"))

	rec = api.do(http.MethodGet, "/blog/categories", "", nil)
	assert.Equal(t, "/blog_categories", rec.Header().Get("Location"))
}
