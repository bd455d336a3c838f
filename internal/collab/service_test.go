package collab_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"acadcollab.org/internal/collab"
	"acadcollab.org/internal/store/file"
)

func newService(t *testing.T) *collab.Service {
	t.Helper()
	store, err := file.Open(filepath.Join(t.TempDir(), "collab.json"))
	require.NoError(t, err)
	svc, err := collab.NewService(store)
	require.NoError(t, err)
	return svc
}

func TestCreateProjectDefaults(t *testing.T) {
	svc := newService(t)
	ctx := t.Context()

	p, err := svc.CreateProject(ctx, "  Genome Atlas ", "", "long text", "")
	require.NoError(t, err)
	require.Equal(t, int64(1), p.ID)
	require.Equal(t, "Genome Atlas", p.Title)
	require.Equal(t, collab.StatusOngoing, p.Status)
	require.False(t, p.CreatedAt.IsZero())

	_, err = svc.CreateProject(ctx, "   ", "", "", "")
	require.ErrorIs(t, err, collab.ErrInvalidInput)
}

func TestProjectLifecycle(t *testing.T) {
	svc := newService(t)
	ctx := t.Context()

	p, err := svc.CreateProject(ctx, "Genome", "", "", "")
	require.NoError(t, err)

	got, err := svc.GetProject(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, p.Title, got.Title)

	require.NoError(t, svc.DeleteProject(ctx, p.ID))
	_, err = svc.GetProject(ctx, p.ID)
	require.ErrorIs(t, err, collab.ErrNotFound)

	// Deleting again is not an error.
	require.NoError(t, svc.DeleteProject(ctx, p.ID))
}

func TestDocumentsAndMessages(t *testing.T) {
	svc := newService(t)
	ctx := t.Context()

	p, err := svc.CreateProject(ctx, "Genome", "", "", "")
	require.NoError(t, err)

	doc, err := svc.AddDocument(ctx, p.ID, "results.csv", 1024, time.Time{})
	require.NoError(t, err)
	require.Equal(t, int64(1), doc.ID)
	require.False(t, doc.Date.IsZero())

	_, err = svc.AddDocument(ctx, 0, "x", 1, time.Time{})
	require.ErrorIs(t, err, collab.ErrInvalidInput)
	_, err = svc.AddDocument(ctx, p.ID, " ", 1, time.Time{})
	require.ErrorIs(t, err, collab.ErrInvalidInput)

	msg, err := svc.PostMessage(ctx, p.ID, "ada", "first result is in")
	require.NoError(t, err)
	require.Equal(t, int64(1), msg.ID)

	_, err = svc.PostMessage(ctx, p.ID, "ada", "  ")
	require.ErrorIs(t, err, collab.ErrInvalidInput)

	docs, err := svc.ListDocuments(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, docs, 1)

	msgs, err := svc.ListMessages(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	require.Equal(t, "first result is in", msgs[0].Text)
}

func TestNewServiceRequiresStore(t *testing.T) {
	_, err := collab.NewService(nil)
	require.Error(t, err)
}
