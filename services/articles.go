package services

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rpupo63/personal-site-backend/errs"
)

const articleDir = "blog"

// ArticleStore keeps blog bodies as markdown files named after the blog alias.
// Paths handed out are relative to the store root, e.g. blog/hello-world.md.
type ArticleStore struct {
	root string
}

func NewArticleStore(root string) *ArticleStore {
	return &ArticleStore{root: root}
}

// PathFor returns the relative path of the article for alias.
func (s *ArticleStore) PathFor(alias string) (string, error) {
	if alias == "" || alias == "." || alias == ".." || strings.ContainsAny(alias, `/\`) {
		return "", errs.NewInvalidFieldError("alias", "must be a plain file name")
	}
	return path.Join(articleDir, alias+".md"), nil
}

func (s *ArticleStore) abs(rel string) string {
	return filepath.Join(s.root, filepath.FromSlash(rel))
}

// Write stores content for alias and returns the relative path. When an alias
// changes the caller removes the old path once the new row is committed.
func (s *ArticleStore) Write(alias, content string) (string, error) {
	rel, err := s.PathFor(alias)
	if err != nil {
		return "", err
	}
	if err := writeFileAtomic(s.abs(rel), []byte(content)); err != nil {
		return "", errs.NewInternalErrorWithCause("write article", err)
	}
	return rel, nil
}

// Read returns the article stored at rel.
func (s *ArticleStore) Read(rel string) (string, error) {
	if rel == "" {
		return "", nil
	}
	data, err := os.ReadFile(s.abs(rel))
	if errors.Is(err, os.ErrNotExist) {
		return "", errs.NewNotFound("article")
	}
	if err != nil {
		return "", errs.NewInternalErrorWithCause(fmt.Sprintf("read article %s", rel), err)
	}
	return string(data), nil
}

// Remove deletes the article at rel. A missing file is not an error.
func (s *ArticleStore) Remove(rel string) error {
	if rel == "" {
		return nil
	}
	err := os.Remove(s.abs(rel))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return errs.NewInternalErrorWithCause(fmt.Sprintf("remove article %s", rel), err)
	}
	return nil
}
