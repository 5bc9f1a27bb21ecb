package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/sportswatch/pkg/publisher"
)

type runnerFunc func(ctx context.Context) (publisher.Report, error)

func (f runnerFunc) Run(ctx context.Context) (publisher.Report, error) { return f(ctx) }

func TestNew_InvalidSchedule(t *testing.T) {
	_, err := New(runnerFunc(nil), "every minute")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "register schedule")

	_, err = New(runnerFunc(nil), "*/5 * * * *") // no seconds field
	require.Error(t, err)
}

func TestScheduler_RunNow(t *testing.T) {
	var calls int32
	s, err := New(runnerFunc(func(context.Context) (publisher.Report, error) {
		if atomic.AddInt32(&calls, 1) == 2 {
			return publisher.Report{}, errors.New("feed down")
		}
		return publisher.Report{Total: 3, Succeeded: 2, Failed: 1, Monetized: 2}, nil
	}), "0 0 * * * *")
	require.NoError(t, err)

	rep, err := s.RunNow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, rep.Total)
	st := s.Status()
	assert.Equal(t, 1, st.Runs)
	assert.Equal(t, 3, st.Processed)
	assert.Equal(t, 1, st.Failed)
	assert.Equal(t, 2, st.Monetized)
	assert.Empty(t, st.LastError)
	assert.False(t, st.LastRun.IsZero())
	assert.Equal(t, "0 0 * * * *", st.Schedule)

	_, err = s.RunNow(context.Background())
	require.Error(t, err)
	st = s.Status()
	assert.Equal(t, 2, st.Runs)
	assert.Equal(t, "feed down", st.LastError)
	assert.Equal(t, 3, st.Processed, "failed run adds nothing")
}

func TestScheduler_StartStop(t *testing.T) {
	var calls int32
	s, err := New(runnerFunc(func(context.Context) (publisher.Report, error) {
		atomic.AddInt32(&calls, 1)
		return publisher.Report{Total: 1, Succeeded: 1}, nil
	}), "* * * * * *")
	require.NoError(t, err)

	s.Start(context.Background())
	assert.False(t, s.Status().NextRun.IsZero())
	assert.Eventually(t, func() bool { return atomic.LoadInt32(&calls) >= 1 }, 3*time.Second, 50*time.Millisecond)
	s.Stop()

	after := atomic.LoadInt32(&calls)
	time.Sleep(1200 * time.Millisecond)
	assert.Equal(t, after, atomic.LoadInt32(&calls), "no runs after stop")
}

func TestScheduler_StopCancelsRun(t *testing.T) {
	started := make(chan struct{})
	var once sync.Once
	s, err := New(runnerFunc(func(ctx context.Context) (publisher.Report, error) {
		once.Do(func() { close(started) })
		<-ctx.Done()
		return publisher.Report{}, ctx.Err()
	}), "* * * * * *")
	require.NoError(t, err)

	s.Start(context.Background())
	select {
	case <-started:
	case <-time.After(3 * time.Second):
		t.Fatal("run not started")
	}

	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("stop did not finish")
	}
	assert.Equal(t, context.Canceled.Error(), s.Status().LastError)
}

func TestScheduler_OnDemandOnly(t *testing.T) {
	s, err := New(runnerFunc(func(context.Context) (publisher.Report, error) {
		return publisher.Report{Total: 1, Succeeded: 1}, nil
	}), "")
	require.NoError(t, err)

	s.Start(context.Background())
	defer s.Stop()
	assert.True(t, s.Status().NextRun.IsZero(), "no cron entry for empty schedule")

	_, err = s.RunNow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, s.Status().Runs)
}

func TestScheduler_SingleActiveRun(t *testing.T) {
	started, release := make(chan struct{}), make(chan struct{})
	var calls int32
	s, err := New(runnerFunc(func(context.Context) (publisher.Report, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			close(started)
			<-release
		}
		return publisher.Report{Total: 2, Succeeded: 2}, nil
	}), "")
	require.NoError(t, err)
	s.Start(context.Background())

	require.NoError(t, s.Trigger())
	select {
	case <-started:
	case <-time.After(3 * time.Second):
		t.Fatal("triggered run not started")
	}
	assert.True(t, s.Status().Running)

	assert.ErrorIs(t, s.Trigger(), ErrBusy)
	_, err = s.RunNow(context.Background())
	assert.ErrorIs(t, err, ErrBusy)

	s.tick() // cron tick is skipped while the run is active
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	close(release)
	s.Stop()

	st := s.Status()
	assert.False(t, st.Running)
	assert.Equal(t, 1, st.Runs)
	assert.Equal(t, 2, st.Processed)

	_, err = s.RunNow(context.Background())
	require.NoError(t, err, "guard released after run")
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestScheduler_StopWaitsTriggeredRun(t *testing.T) {
	started := make(chan struct{})
	s, err := New(runnerFunc(func(ctx context.Context) (publisher.Report, error) {
		close(started)
		<-ctx.Done()
		return publisher.Report{}, ctx.Err()
	}), "")
	require.NoError(t, err)
	s.Start(context.Background())

	require.NoError(t, s.Trigger())
	<-started
	s.Stop()
	st := s.Status()
	assert.False(t, st.Running)
	assert.Equal(t, context.Canceled.Error(), st.LastError)
}
