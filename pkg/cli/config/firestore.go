package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/crowdlens/pkg/domain/interfaces"
	"github.com/secmon-lab/crowdlens/pkg/domain/model"
	"github.com/secmon-lab/crowdlens/pkg/repository"
	"github.com/urfave/cli/v3"
)

// Firestore holds Firestore configuration for the shared session store
type Firestore struct {
	ProjectID  string
	DatabaseID string
	DocumentID string
}

// Flags returns CLI flags for Firestore configuration
func (f *Firestore) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "firestore-project",
			Usage:       "GCP project ID for Firestore",
			Category:    "Firestore",
			Sources:     cli.EnvVars("CROWDLENS_FIRESTORE_PROJECT"),
			Destination: &f.ProjectID,
		},
		&cli.StringFlag{
			Name:        "firestore-database",
			Usage:       "Firestore database ID",
			Category:    "Firestore",
			Value:       "(default)",
			Sources:     cli.EnvVars("CROWDLENS_FIRESTORE_DATABASE"),
			Destination: &f.DatabaseID,
		},
		&cli.StringFlag{
			Name:        "firestore-document",
			Usage:       "Document ID the session is stored under",
			Category:    "Firestore",
			Value:       model.SessionKey,
			Sources:     cli.EnvVars("CROWDLENS_FIRESTORE_DOCUMENT"),
			Destination: &f.DocumentID,
		},
	}
}

// Configure creates a Firestore session repository
func (f *Firestore) Configure(ctx context.Context) (interfaces.SessionRepository, error) {
	if !f.IsConfigured() {
		return nil, goerr.New("firestore project is required for the firestore session store")
	}

	repo, err := repository.NewFirestore(ctx, f.ProjectID, f.DatabaseID, f.DocumentID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to init firestore",
			goerr.V("project", f.ProjectID),
			goerr.V("database", f.DatabaseID),
		)
	}
	return repo, nil
}

// IsConfigured checks if Firestore is properly configured
func (f *Firestore) IsConfigured() bool {
	return f.ProjectID != ""
}

// LogValue returns structured log value
func (f Firestore) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("project", f.ProjectID),
		slog.String("database", f.DatabaseID),
		slog.String("document", f.DocumentID),
	)
}
