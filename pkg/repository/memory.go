package repository

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/crowdlens/pkg/domain/interfaces"
	"github.com/secmon-lab/crowdlens/pkg/domain/model"
)

// Memory implements SessionRepository with in-memory storage
type Memory struct {
	mu      sync.RWMutex
	session *model.Session
}

// NewMemory creates a new memory repository
func NewMemory() interfaces.SessionRepository {
	return &Memory{}
}

// SaveSession saves the session to memory
func (m *Memory) SaveSession(ctx context.Context, session *model.Session) error {
	if session == nil {
		return goerr.New("session is nil")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Copy to prevent external modification
	sessionCopy := *session
	m.session = &sessionCopy
	return nil
}

// GetSession retrieves the session
func (m *Memory) GetSession(ctx context.Context) (*model.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.session == nil {
		return nil, goerr.Wrap(model.ErrSessionNotFound, "failed to get session")
	}

	sessionCopy := *m.session
	return &sessionCopy, nil
}

// DeleteSession deletes the session
func (m *Memory) DeleteSession(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.session = nil
	return nil
}

// Close closes the repository (no-op for memory)
func (m *Memory) Close() error {
	return nil
}
