package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/dulceria-api/pkg/logger"
)

type fakeCleaner struct {
	mu    sync.Mutex
	calls int
	age   time.Duration
	err   error
}

func (f *fakeCleaner) CleanupTokens(_ context.Context, olderThan time.Duration) (int64, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.age = olderThan
	return 2, 1, f.err
}

type fakeObserver struct {
	mu            sync.Mutex
	expired, used int64
}

func (o *fakeObserver) TokensCleaned(expired, used int64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.expired += expired
	o.used += used
}

func TestAddTokenCleanup_InvalidSpec(t *testing.T) {
	s := New(logger.Nop())
	err := s.AddTokenCleanup("cada noche", time.Hour, &fakeCleaner{}, nil)
	assert.Error(t, err)
}

func TestAddTokenCleanup_EmptySpecDisables(t *testing.T) {
	s := New(logger.Nop())
	require.NoError(t, s.AddTokenCleanup("", time.Hour, &fakeCleaner{}, nil))
	assert.Empty(t, s.cron.Entries())
}

func TestAddTokenCleanup_RunsJob(t *testing.T) {
	s := New(logger.Nop())
	cleaner, obs := &fakeCleaner{}, &fakeObserver{}
	require.NoError(t, s.AddTokenCleanup("@every 1h", 7*24*time.Hour, cleaner, obs))
	require.Len(t, s.cron.Entries(), 1)

	s.cron.Entries()[0].Job.Run()

	assert.Equal(t, 1, cleaner.calls)
	assert.Equal(t, 7*24*time.Hour, cleaner.age)
	assert.Equal(t, int64(2), obs.expired)
	assert.Equal(t, int64(1), obs.used)
}

func TestAddTokenCleanup_ErrorSkipsObserver(t *testing.T) {
	s := New(logger.Nop())
	obs := &fakeObserver{}
	require.NoError(t, s.AddTokenCleanup("@daily", time.Hour, &fakeCleaner{err: errors.New("db caída")}, obs))

	s.cron.Entries()[0].Job.Run()
	assert.Zero(t, obs.expired)
}
