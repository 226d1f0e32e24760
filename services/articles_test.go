package services_test

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/rpupo63/personal-site-backend/errs"
	"github.com/rpupo63/personal-site-backend/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArticleStoreWriteReadRemove(t *testing.T) {
	root := t.TempDir()
	store := services.NewArticleStore(root)

	rel, err := store.Write("hello-world", "# Hello")
	require.NoError(t, err)
	assert.Equal(t, "blog/hello-world.md", rel)
	assert.FileExists(t, filepath.Join(root, "blog", "hello-world.md"))

	content, err := store.Read(rel)
	require.NoError(t, err)
	assert.Equal(t, "# Hello", content)

	_, err = store.Write("hello-world", "# Hello again")
	require.NoError(t, err)
	content, err = store.Read(rel)
	require.NoError(t, err)
	assert.Equal(t, "# Hello again", content)

	require.NoError(t, store.Remove(rel))
	assert.NoFileExists(t, filepath.Join(root, "blog", "hello-world.md"))
	require.NoError(t, store.Remove(rel))

	_, err = store.Read(rel)
	assert.True(t, errs.IsNotFound(err))
}

func TestArticleStoreRejectsPathLikeAliases(t *testing.T) {
	store := services.NewArticleStore(t.TempDir())
	for _, alias := range []string{"", ".", "..", "../etc/passwd", `a\b`} {
		_, err := store.PathFor(alias)
		assert.Equal(t, http.StatusUnprocessableEntity, errs.StatusOf(err), alias)
	}
}

func TestArticleStoreReadEmptyPath(t *testing.T) {
	content, err := services.NewArticleStore(t.TempDir()).Read("")
	require.NoError(t, err)
	assert.Empty(t, content)
}

func TestArticleFilesAreWorldReadable(t *testing.T) {
	root := t.TempDir()
	rel, err := services.NewArticleStore(root).Write("perm", "x")
	require.NoError(t, err)
	info, err := os.Stat(filepath.Join(root, filepath.FromSlash(rel)))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}
