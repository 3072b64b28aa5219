package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/openvelo/strava/oauth"
)

// FileStore keeps the token pair in a JSON file readable only by the owner.
type FileStore struct {
	path string
}

var _ Store = (*FileStore)(nil)

// NewFileStore returns a store backed by the file at path. The parent
// directory is created if it does not exist.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("store: file path must not be empty")
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("store: creating token directory %s: %w", dir, err)
	}
	return &FileStore{path: path}, nil
}

// Load reads and decodes the token file. It refuses files that are readable
// by other users.
func (s *FileStore) Load(ctx context.Context) (oauth.Token, error) {
	if err := ctx.Err(); err != nil {
		return oauth.Token{}, err
	}
	info, err := os.Stat(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return oauth.Token{}, fmt.Errorf("%w: %s", ErrNotFound, s.path)
	}
	if err != nil {
		return oauth.Token{}, fmt.Errorf("store: checking token file: %w", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		return oauth.Token{}, fmt.Errorf("store: token file %s has insecure permissions %04o, want 0600", s.path, perm)
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return oauth.Token{}, fmt.Errorf("store: reading token file: %w", err)
	}
	var tok oauth.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return oauth.Token{}, fmt.Errorf("store: decoding token file %s: %w", s.path, err)
	}
	if tok.AccessToken == "" && tok.RefreshToken == "" {
		return oauth.Token{}, fmt.Errorf("store: token file %s holds no token", s.path)
	}
	return tok, nil
}

// Save writes the token pair atomically. The file is staged in a temporary
// sibling, restricted to the owner, and renamed into place.
func (s *FileStore) Save(ctx context.Context, tok oauth.Token) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return fmt.Errorf("store: encoding token: %w", err)
	}
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".token-*")
	if err != nil {
		return fmt.Errorf("store: creating temp file: %w", err)
	}
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}()
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("store: writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("store: closing temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		return fmt.Errorf("store: setting token file permissions: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("store: replacing token file: %w", err)
	}
	return nil
}
