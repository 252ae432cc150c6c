// Package filesource serves saved search responses from a directory, one file per keyword.
package filesource

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/user/serp-visibility/pkg/utils"
)

var ErrNotFound = errors.New("no saved payload for keyword")

// Source implements repository.PayloadSource for <dir>/<slug>.json files.
type Source struct {
	dir string
}

func New(dir string) *Source {
	return &Source{dir: dir}
}

// Path returns the file consulted for keyword.
func (s *Source) Path(keyword string) string {
	return filepath.Join(s.dir, utils.Slug(keyword)+".json")
}

func (s *Source) Fetch(ctx context.Context, keyword string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if utils.Slug(keyword) == "" {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, keyword)
	}
	body, err := os.ReadFile(s.Path(keyword))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, keyword)
	}
	if err != nil {
		return nil, fmt.Errorf("read payload for %q: %w", keyword, err)
	}
	return body, nil
}
