package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/crowdlens/pkg/domain/interfaces"
	"github.com/secmon-lab/crowdlens/pkg/domain/model"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	// Collection names
	sessionsCollection = "sessions"
)

// Firestore implements SessionRepository with one Firestore document
type Firestore struct {
	client *firestore.Client
	docID  string
}

// NewFirestore creates a new Firestore repository. docID selects the session document;
// empty means model.SessionKey.
func NewFirestore(ctx context.Context, projectID, databaseID, docID string) (interfaces.SessionRepository, error) {
	logger := ctxlog.From(ctx)

	if docID == "" {
		docID = model.SessionKey
	}

	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client")
	}

	// Fail fast on bad project or credentials; a missing document is fine
	_, err = client.Collection(sessionsCollection).Doc(docID).Get(ctx)
	if err != nil && status.Code(err) != codes.NotFound {
		if status.Code(err) == codes.PermissionDenied || status.Code(err) == codes.Unauthenticated {
			_ = client.Close()
			return nil, goerr.Wrap(err, "failed to connect to firestore project",
				goerr.V("firestore error code", status.Code(err).String()),
			)
		}
		logger.Debug("Firestore connection test returned error",
			"error", err,
			"errorCode", status.Code(err).String(),
		)
	}

	logger.Info("Firestore session repository initialized",
		"projectID", projectID,
		"databaseID", databaseID,
		"docID", docID,
	)

	return &Firestore{
		client: client,
		docID:  docID,
	}, nil
}

func (f *Firestore) doc() *firestore.DocumentRef {
	return f.client.Collection(sessionsCollection).Doc(f.docID)
}

// SaveSession overwrites the session document
func (f *Firestore) SaveSession(ctx context.Context, session *model.Session) error {
	if session == nil {
		return goerr.New("session is nil")
	}

	if _, err := f.doc().Set(ctx, session); err != nil {
		return goerr.Wrap(err, "failed to save session to firestore")
	}
	return nil
}

// GetSession retrieves the session document
func (f *Firestore) GetSession(ctx context.Context) (*model.Session, error) {
	doc, err := f.doc().Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(model.ErrSessionNotFound, "failed to get session")
		}
		return nil, goerr.Wrap(err, "failed to get session from firestore")
	}

	var session model.Session
	if err := doc.DataTo(&session); err != nil {
		return nil, goerr.Wrap(err, "failed to decode session")
	}
	return &session, nil
}

// DeleteSession deletes the session document. Firestore treats deleting a missing document as success.
func (f *Firestore) DeleteSession(ctx context.Context) error {
	if _, err := f.doc().Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete session from firestore")
	}
	return nil
}

// Close closes the Firestore client
func (f *Firestore) Close() error {
	return f.client.Close()
}
