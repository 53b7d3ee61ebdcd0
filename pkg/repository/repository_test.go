package repository_test

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/crowdlens/pkg/domain/interfaces"
	"github.com/secmon-lab/crowdlens/pkg/domain/model"
	"github.com/secmon-lab/crowdlens/pkg/repository"
)

func testRepository(t *testing.T, newRepo func(t *testing.T) interfaces.SessionRepository) {
	t.Run("SaveAndGetSession", func(t *testing.T) {
		repo := newRepo(t)
		defer repo.Close()

		ctx := context.Background()
		session := model.NewSession("ops@example.com", fmt.Sprintf("token-%d", time.Now().UnixNano()))

		gt.NoError(t, repo.SaveSession(ctx, session)).Required()

		retrieved, err := repo.GetSession(ctx)
		gt.NoError(t, err).Required()
		gt.Equal(t, session.Identity, retrieved.Identity)
		gt.Equal(t, session.Token, retrieved.Token)
	})

	t.Run("SaveSession_Overwrites", func(t *testing.T) {
		repo := newRepo(t)
		defer repo.Close()

		ctx := context.Background()
		gt.NoError(t, repo.SaveSession(ctx, model.NewSession("first@example.com", "t1"))).Required()
		gt.NoError(t, repo.SaveSession(ctx, model.NewSession("second@example.com", "t2"))).Required()

		retrieved, err := repo.GetSession(ctx)
		gt.NoError(t, err).Required()
		gt.Equal(t, "second@example.com", retrieved.Identity)
		gt.Equal(t, "t2", retrieved.Token)
	})

	t.Run("SaveSession_Nil", func(t *testing.T) {
		repo := newRepo(t)
		defer repo.Close()

		gt.Error(t, repo.SaveSession(context.Background(), nil))
	})

	t.Run("GetSession_ReturnsCopy", func(t *testing.T) {
		repo := newRepo(t)
		defer repo.Close()

		ctx := context.Background()
		gt.NoError(t, repo.SaveSession(ctx, model.NewSession("ops@example.com", "tok"))).Required()

		first, err := repo.GetSession(ctx)
		gt.NoError(t, err).Required()
		first.Token = "mutated"

		second, err := repo.GetSession(ctx)
		gt.NoError(t, err).Required()
		gt.Equal(t, "tok", second.Token)
	})

	t.Run("DeleteSession", func(t *testing.T) {
		repo := newRepo(t)
		defer repo.Close()

		ctx := context.Background()
		gt.NoError(t, repo.SaveSession(ctx, model.NewSession("ops@example.com", "tok"))).Required()
		gt.NoError(t, repo.DeleteSession(ctx)).Required()

		_, err := repo.GetSession(ctx)
		gt.Error(t, err)
		gt.True(t, errors.Is(err, model.ErrSessionNotFound))

		// Deleting again is not an error
		gt.NoError(t, repo.DeleteSession(ctx))
	})
}

func TestMemoryRepository(t *testing.T) {
	testRepository(t, func(t *testing.T) interfaces.SessionRepository {
		return repository.NewMemory()
	})
}

func TestFileRepository(t *testing.T) {
	testRepository(t, func(t *testing.T) interfaces.SessionRepository {
		repo, err := repository.NewFile(t.TempDir())
		gt.NoError(t, err).Required()
		return repo
	})

	t.Run("persists across instances", func(t *testing.T) {
		ctx := context.Background()
		dir := t.TempDir()

		repo1, err := repository.NewFile(dir)
		gt.NoError(t, err).Required()
		gt.NoError(t, repo1.SaveSession(ctx, model.NewSession("ops@example.com", "tok"))).Required()

		repo2, err := repository.NewFile(dir)
		gt.NoError(t, err).Required()
		retrieved, err := repo2.GetSession(ctx)
		gt.NoError(t, err).Required()
		gt.Equal(t, "ops@example.com", retrieved.Identity)

		info, err := os.Stat(filepath.Join(dir, model.SessionKey+".json"))
		gt.NoError(t, err).Required()
		gt.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	})

	t.Run("corrupted file", func(t *testing.T) {
		dir := t.TempDir()
		gt.NoError(t, os.WriteFile(filepath.Join(dir, model.SessionKey+".json"), []byte("{not json"), 0o600)).Required()

		repo, err := repository.NewFile(dir)
		gt.NoError(t, err).Required()
		_, err = repo.GetSession(context.Background())
		gt.Error(t, err)
		gt.False(t, errors.Is(err, model.ErrSessionNotFound))
	})

	t.Run("empty directory", func(t *testing.T) {
		_, err := repository.NewFile("")
		gt.Error(t, err)
	})
}

func TestFirestoreRepository(t *testing.T) {
	// Skip test if Firestore test environment variables are not set
	projectID := os.Getenv("TEST_FIRESTORE_PROJECT")
	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE")

	if projectID == "" || databaseID == "" {
		t.Skip("Skipping Firestore test: TEST_FIRESTORE_PROJECT and TEST_FIRESTORE_DATABASE must be set")
	}

	testRepository(t, func(t *testing.T) interfaces.SessionRepository {
		ctx := context.Background()
		logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
		ctx = ctxlog.With(ctx, logger)

		docID := fmt.Sprintf("test-%d", time.Now().UnixNano())
		repo, err := repository.NewFirestore(ctx, projectID, databaseID, docID)
		gt.NoError(t, err).Required()
		t.Cleanup(func() {
			_ = repo.DeleteSession(context.Background())
		})
		return repo
	})
}
