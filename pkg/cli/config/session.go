package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/crowdlens/pkg/domain/interfaces"
	"github.com/secmon-lab/crowdlens/pkg/repository"
	"github.com/urfave/cli/v3"
)

// Session store kinds
const (
	SessionStoreFile      = "file"
	SessionStoreMemory    = "memory"
	SessionStoreFirestore = "firestore"
)

// Session selects where the operator session is persisted
type Session struct {
	Store string
	Dir   string

	Firestore Firestore
}

// Flags returns CLI flags for Session configuration, Firestore flags included
func (s *Session) Flags() []cli.Flag {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "session-store",
			Usage:       "Session store (file, memory, firestore)",
			Category:    "Session",
			Value:       SessionStoreFile,
			Sources:     cli.EnvVars("CROWDLENS_SESSION_STORE"),
			Destination: &s.Store,
		},
		&cli.StringFlag{
			Name:        "session-dir",
			Usage:       "Directory of the file session store (default: user config dir)",
			Category:    "Session",
			Sources:     cli.EnvVars("CROWDLENS_SESSION_DIR"),
			Destination: &s.Dir,
		},
	}
	return append(flags, s.Firestore.Flags()...)
}

// Configure creates the session repository
func (s *Session) Configure(ctx context.Context) (interfaces.SessionRepository, error) {
	switch s.Store {
	case SessionStoreFile, "":
		dir := s.Dir
		if dir == "" {
			def, err := repository.DefaultSessionDir()
			if err != nil {
				return nil, err
			}
			dir = def
		}
		repo, err := repository.NewFile(dir)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to init file session store", goerr.V("dir", dir))
		}
		return repo, nil

	case SessionStoreMemory:
		ctxlog.From(ctx).Warn("Using memory session store. The session is lost on exit")
		return repository.NewMemory(), nil

	case SessionStoreFirestore:
		return s.Firestore.Configure(ctx)

	default:
		return nil, goerr.New("unknown session store", goerr.V("store", s.Store))
	}
}

// LogValue returns structured log value
func (s Session) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("store", s.Store),
		slog.String("dir", s.Dir),
	}
	if s.Store == SessionStoreFirestore {
		attrs = append(attrs, slog.Any("firestore", s.Firestore))
	}
	return slog.GroupValue(attrs...)
}
