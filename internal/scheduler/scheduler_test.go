package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mocks "github.com/monui/notification-service/internal/mocks/scheduler"
)

func TestScheduler_RunsEngineOnTick(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockEngine := mocks.NewMockEngine(ctrl)

	var calls atomic.Int32
	mockEngine.EXPECT().ProcessDueNotifications(gomock.Any()).DoAndReturn(
		func(context.Context) error {
			calls.Add(1)
			return nil
		},
	).MinTimes(2)

	s := New(mockEngine, 10*time.Millisecond)
	s.Start(context.Background())

	require.Eventually(t, func() bool { return calls.Load() >= 2 }, time.Second, 5*time.Millisecond)

	s.Stop()
}

func TestScheduler_EngineErrorDoesNotStopTicking(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockEngine := mocks.NewMockEngine(ctrl)

	var calls atomic.Int32
	mockEngine.EXPECT().ProcessDueNotifications(gomock.Any()).DoAndReturn(
		func(context.Context) error {
			calls.Add(1)
			return errors.New("db down")
		},
	).MinTimes(2)

	s := New(mockEngine, 10*time.Millisecond)
	s.Start(context.Background())

	require.Eventually(t, func() bool { return calls.Load() >= 2 }, time.Second, 5*time.Millisecond)

	s.Stop()
}

func TestScheduler_SkipsTickWhileScanRunning(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockEngine := mocks.NewMockEngine(ctrl)

	block := make(chan struct{})
	started := make(chan struct{})

	mockEngine.EXPECT().ProcessDueNotifications(gomock.Any()).DoAndReturn(
		func(context.Context) error {
			close(started)
			<-block
			return nil
		},
	).Times(1)

	s := New(mockEngine, 50*time.Millisecond)
	s.Start(context.Background())

	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("scan never started")
	}

	// Several ticks fire while the scan is blocked; all must be skipped.
	time.Sleep(120 * time.Millisecond)

	close(block)
	s.Stop()
}

func TestScheduler_StopDrainsInFlightScan(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockEngine := mocks.NewMockEngine(ctrl)

	block := make(chan struct{})
	started := make(chan struct{})

	mockEngine.EXPECT().ProcessDueNotifications(gomock.Any()).DoAndReturn(
		func(context.Context) error {
			close(started)
			<-block
			return nil
		},
	).Times(1)

	s := New(mockEngine, 10*time.Millisecond)
	s.Start(context.Background())

	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("scan never started")
	}

	stopped := make(chan struct{})
	go func() {
		s.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatal("Stop returned while a scan was still in flight")
	case <-time.After(50 * time.Millisecond):
	}

	close(block)

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return after the scan drained")
	}
}

func TestScheduler_StartTwiceIsNoop(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockEngine := mocks.NewMockEngine(ctrl)
	mockEngine.EXPECT().ProcessDueNotifications(gomock.Any()).Return(nil).AnyTimes()

	s := New(mockEngine, 10*time.Millisecond)
	s.Start(context.Background())
	s.Start(context.Background())

	time.Sleep(30 * time.Millisecond)

	s.Stop()
	assert.NotPanics(t, s.Stop)
}
