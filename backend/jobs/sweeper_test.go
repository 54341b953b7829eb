package jobs

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crowdfund/backend/models"
	"crowdfund/backend/storage"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func seed(t *testing.T, s storage.IdeaStore, name string, deadline time.Time) *models.Idea {
	t.Helper()
	idea, err := models.NewIdea(models.IdeaDraft{
		Name:            name,
		Description:     "d",
		TargetAmount:    100,
		FundingDeadline: deadline,
	}, "owner", now.Add(-48*time.Hour))
	require.NoError(t, err)
	require.NoError(t, s.Insert(context.Background(), idea))
	return idea
}

func newSweeper(t *testing.T, ideas storage.IdeaStore, logger *log.Logger) *ExpirationSweeper {
	t.Helper()
	s, err := NewExpirationSweeper(ideas, "", logger)
	require.NoError(t, err)
	s.now = func() time.Time { return now }
	return s
}

func TestNewExpirationSweeperSchedule(t *testing.T) {
	logger := log.New(io.Discard, "", 0)
	s, err := NewExpirationSweeper(storage.NewMemoryIdeaStore(), "", logger)
	require.NoError(t, err)
	assert.Equal(t, DefaultSweepSchedule, s.schedule)

	_, err = NewExpirationSweeper(storage.NewMemoryIdeaStore(), "every tuesday", logger)
	assert.Error(t, err)
}

func TestSweepClosesExpiredIdeas(t *testing.T) {
	ctx := context.Background()
	ideas := storage.NewMemoryIdeaStore()
	expired := seed(t, ideas, "Expired", now.Add(-time.Minute))
	atDeadline := seed(t, ideas, "AtDeadline", now)
	live := seed(t, ideas, "Live", now.Add(time.Hour))

	s := newSweeper(t, ideas, log.New(io.Discard, "", 0))

	closed, err := s.SweepOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, closed)

	for id, want := range map[string]models.Status{
		expired.ID:    models.StatusClosed,
		atDeadline.ID: models.StatusClosed,
		live.ID:       models.StatusOpen,
	} {
		got, err := ideas.FindByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, want, got.Status)
	}

	closed, err = s.SweepOnce(ctx)
	require.NoError(t, err)
	assert.Zero(t, closed)
}

type failingStore struct {
	storage.IdeaStore
	findErr   error
	statusErr error
}

func (f failingStore) FindExpired(ctx context.Context, now time.Time) ([]*models.Idea, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.IdeaStore.FindExpired(ctx, now)
}

func (f failingStore) SetStatus(ctx context.Context, id string, status models.Status) error {
	if f.statusErr != nil {
		return f.statusErr
	}
	return f.IdeaStore.SetStatus(ctx, id, status)
}

func TestSweepFailuresAreLogged(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemoryIdeaStore()
	seed(t, mem, "Expired", now.Add(-time.Minute))

	var buf bytes.Buffer
	s := newSweeper(t, failingStore{IdeaStore: mem, statusErr: errors.New("write conflict")}, log.New(&buf, "", 0))
	closed, err := s.SweepOnce(ctx)
	require.NoError(t, err)
	assert.Zero(t, closed)
	assert.Contains(t, buf.String(), "write conflict")

	buf.Reset()
	s = newSweeper(t, failingStore{IdeaStore: mem, findErr: errors.New("connection reset")}, log.New(&buf, "", 0))
	_, err = s.SweepOnce(ctx)
	assert.Error(t, err)

	s.tick(ctx)
	assert.Contains(t, buf.String(), "connection reset")
}

func TestRunStopsOnCancel(t *testing.T) {
	ideas := storage.NewMemoryIdeaStore()
	expired := seed(t, ideas, "Expired", time.Now().Add(-time.Minute))
	s, err := NewExpirationSweeper(ideas, "0 0 1 1 *", log.New(io.Discard, "", 0))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		got, err := ideas.FindByID(context.Background(), expired.ID)
		return err == nil && got.IsClosed()
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after cancel")
	}
}
