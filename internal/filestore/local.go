package filestore

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

type localConfig struct {
	Dir string `json:"dir"`
}

// localStore serves documents from a directory tree laid out like the
// bucket (course/cycle/module/section/file). Used for development and
// tests.
type localStore struct {
	dir string
}

func init() {
	Register("local", createLocalStore)
}

func createLocalStore(args interface{}) (Store, error) {
	cfg := &localConfig{}
	if err := decodeConfig(args, cfg); err != nil {
		return nil, err
	}
	if cfg.Dir == "" {
		return nil, fmt.Errorf("local store dir is required")
	}
	return &localStore{dir: cfg.Dir}, nil
}

func (s *localStore) Type() string {
	return "local"
}

func (s *localStore) List(ctx context.Context, prefix string) ([]string, error) {
	_ = ctx
	keys := make([]string, 0)
	err := filepath.WalkDir(s.dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(s.dir, p)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
		return nil
	})
	if os.IsNotExist(err) {
		return keys, nil
	}
	if err != nil {
		return nil, err
	}
	return keys, nil
}

func (s *localStore) FetchText(ctx context.Context, locator string) (string, error) {
	_ = ctx
	key := strings.TrimPrefix(strings.TrimSpace(locator), "/")
	if rest, ok := strings.CutPrefix(key, "s3://"); ok {
		if _, k, found := strings.Cut(rest, "/"); found {
			key = k
		}
	}
	if key == "" || strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid object key %q", locator)
	}
	data, err := os.ReadFile(filepath.Join(s.dir, filepath.FromSlash(key)))
	if err != nil {
		return "", err
	}
	return ExtractText(filepath.Base(key), data), nil
}
