package repository

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/crowdlens/pkg/domain/interfaces"
	"github.com/secmon-lab/crowdlens/pkg/domain/model"
)

// File implements SessionRepository as one JSON document named after model.SessionKey
type File struct {
	mu   sync.Mutex
	path string
}

// NewFile creates a file repository storing the session in dir
func NewFile(dir string) (interfaces.SessionRepository, error) {
	if dir == "" {
		return nil, goerr.New("session directory is empty")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, goerr.Wrap(err, "failed to create session directory", goerr.V("dir", dir))
	}

	return &File{
		path: filepath.Join(dir, model.SessionKey+".json"),
	}, nil
}

// DefaultSessionDir returns the per-user config directory for crowdlens
func DefaultSessionDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", goerr.Wrap(err, "failed to resolve user config directory")
	}
	return filepath.Join(base, "crowdlens"), nil
}

// Path returns the session file path
func (f *File) Path() string {
	return f.path
}

// SaveSession writes the session atomically, replacing any previous one
func (f *File) SaveSession(ctx context.Context, session *model.Session) error {
	if session == nil {
		return goerr.New("session is nil")
	}

	data, err := json.Marshal(session)
	if err != nil {
		return goerr.Wrap(err, "failed to encode session")
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	tmp, err := os.CreateTemp(filepath.Dir(f.path), model.SessionKey+"-*.tmp")
	if err != nil {
		return goerr.Wrap(err, "failed to create temporary session file")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return goerr.Wrap(err, "failed to write session file")
	}
	if err := tmp.Close(); err != nil {
		return goerr.Wrap(err, "failed to close session file")
	}
	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		return goerr.Wrap(err, "failed to set session file permissions")
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return goerr.Wrap(err, "failed to replace session file", goerr.V("path", f.path))
	}
	return nil
}

// GetSession reads the persisted session
func (f *File) GetSession(ctx context.Context) (*model.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, goerr.Wrap(model.ErrSessionNotFound, "failed to get session")
		}
		return nil, goerr.Wrap(err, "failed to read session file", goerr.V("path", f.path))
	}

	var session model.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, goerr.Wrap(err, "failed to decode session", goerr.V("path", f.path))
	}
	return &session, nil
}

// DeleteSession removes the session file
func (f *File) DeleteSession(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return goerr.Wrap(err, "failed to delete session file", goerr.V("path", f.path))
	}
	return nil
}

// Close closes the repository (no-op for files)
func (f *File) Close() error {
	return nil
}
