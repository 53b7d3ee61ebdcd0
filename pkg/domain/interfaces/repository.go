package interfaces

//go:generate moq -out mocks/repository_mock.go -pkg mocks . SessionRepository

import (
	"context"

	"github.com/secmon-lab/crowdlens/pkg/domain/model"
)

// SessionRepository persists the single operator session under a fixed key
type SessionRepository interface {
	// SaveSession overwrites the persisted session
	SaveSession(ctx context.Context, session *model.Session) error
	// GetSession returns model.ErrSessionNotFound when nothing is persisted
	GetSession(ctx context.Context) (*model.Session, error)
	// DeleteSession removes the persisted session. Deleting a missing session is not an error.
	DeleteSession(ctx context.Context) error

	// Close closes the repository connection
	Close() error
}
