package poller

import (
	"context"
	"errors"
	"mdstore/internal/core/model"
	"mdstore/internal/core/repository"
	"mdstore/internal/kv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recorder struct {
	mu     sync.Mutex
	titles []string
	fail   bool
}

func (r *recorder) Alert(ctx context.Context, n model.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errors.New("display unavailable")
	}
	r.titles = append(r.titles, n.Title)
	return nil
}

func (r *recorder) seen() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.titles...)
}

type fixture struct {
	sessions      repository.SessionRepository
	notifications repository.NotificationRepository
	poller        *Poller
	alerts        *recorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := kv.NewMemoryStore()
	logger := zap.NewNop()
	f := &fixture{
		sessions:      repository.NewSessionRepository(store, logger),
		notifications: repository.NewNotificationRepository(store, logger),
		alerts:        &recorder{},
	}
	entities := repository.NewEntityRepository(store, model.AdminUser{}, logger)
	f.poller = New(entities, f.sessions, f.notifications, f.alerts, 10*time.Millisecond, logger)
	return f
}

func (f *fixture) append(t *testing.T, n model.Notification) {
	t.Helper()
	require.NoError(t, f.notifications.Append(context.Background(), n))
}

func TestTickDeliversOnlyUnseenEntries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := model.NewUser("Ana Cruz", "u@x.com", "Manila", "0917", "secret1")
	require.NoError(t, f.sessions.SetLoggedIn(ctx, true))
	require.NoError(t, f.sessions.SetCurrentUser(ctx, user))

	f.append(t, model.Notification{Title: "Sale", Timestamp: model.MillisStamp(1), ID: "a"})
	f.append(t, model.Notification{Title: "Order MD123 status updated", Timestamp: model.MillisStamp(2), ID: "b", TargetEmail: "u@x.com"})
	f.append(t, model.Notification{Title: "For someone else", Timestamp: model.MillisStamp(3), ID: "c", TargetEmail: "v@x.com"})
	f.append(t, model.Notification{Title: "Refund Request: Order MD1", Timestamp: model.MillisStamp(4), ID: "d", Audience: model.AudienceAdmin})

	assert.Nil(t, f.poller.Snapshot())

	snapshot, err := f.poller.Tick(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, snapshot.Unseen)
	assert.Equal(t, "u@x.com", snapshot.ViewerEmail())
	assert.Len(t, snapshot.Log, 4)
	assert.Equal(t, []string{"Sale", "Order MD123 status updated"}, f.alerts.seen())
	assert.Same(t, snapshot, f.poller.Snapshot())

	snapshot, err = f.poller.Tick(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, snapshot.Unseen)
	assert.Len(t, f.alerts.seen(), 2)

	seen, err := f.notifications.Seen(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.Stamp{model.TextStamp("a"), model.TextStamp("b")}, seen)
}

func TestTickSignedOutSeesBroadcastsOnly(t *testing.T) {
	f := newFixture(t)
	f.append(t, model.Notification{Title: "Sale", Timestamp: model.TextStamp("6/10/2024, 8:30:00 AM")})
	f.append(t, model.Notification{Title: "Private", Timestamp: model.MillisStamp(2), TargetEmail: "u@x.com"})

	snapshot, err := f.poller.Tick(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "", snapshot.ViewerEmail())
	assert.Equal(t, []string{"Sale"}, f.alerts.seen())
}

func TestTickKeepsUndeliveredUnseen(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.alerts.fail = true
	f.append(t, model.Notification{Title: "Sale", Timestamp: model.MillisStamp(1), ID: "a"})

	snapshot, err := f.poller.Tick(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, snapshot.Unseen)

	seen, err := f.notifications.Seen(ctx)
	require.NoError(t, err)
	assert.Empty(t, seen)

	f.alerts.fail = false
	_, err = f.poller.Tick(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Sale"}, f.alerts.seen())
}

func TestRunPicksUpLaterWritesAndStops(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- f.poller.Run(ctx) }()

	f.append(t, model.Notification{Title: "Later", Timestamp: model.MillisStamp(9), ID: "later"})
	require.Eventually(t, func() bool {
		return len(f.alerts.seen()) == 1
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("poller did not stop")
	}
}
