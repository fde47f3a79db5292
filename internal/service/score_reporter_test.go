package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
)

type mockSink struct {
	mock.Mock
}

func (that *mockSink) RecordWin(ctx context.Context, record entity.WinRecord) error {
	args := that.Called(ctx, record)
	return args.Error(0)
}

func newTestReporter(sink scoreSink, queueSize int) *scoreReporter {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	return newScoreReporter(logger, sink, queueSize, time.Second)
}

func TestScoreReporter_Start(t *testing.T) {
	t.Run("Failures are swallowed and the worker keeps going", func(t *testing.T) {
		// Given: a sink that fails for the first record only
		first := entity.WinRecord{UserID: "u1", Name: "alice", RoomID: "r1"}
		second := entity.WinRecord{UserID: "u2", Name: "bob", RoomID: "r2"}
		done := make(chan struct{})

		sink := &mockSink{}
		sink.On("RecordWin", mock.Anything, first).Return(errors.New("store is down")).Once()
		sink.On("RecordWin", mock.Anything, second).Return(nil).Once().Run(func(mock.Arguments) {
			close(done)
		})

		reporter := newTestReporter(sink, 4)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		go reporter.Start(ctx)

		// When: two wins are reported
		reporter.Report(first)
		reporter.Report(second)

		// Then: both reach the sink in order
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("second record never reached the sink")
		}

		sink.AssertExpectations(t)
	})

	t.Run("Every call gets a deadline", func(t *testing.T) {
		record := entity.WinRecord{UserID: "u1", Name: "alice", RoomID: "r1"}
		deadlines := make(chan bool, 1)

		sink := &mockSink{}
		sink.On("RecordWin", mock.Anything, record).Return(nil).Run(func(args mock.Arguments) {
			_, ok := args.Get(0).(context.Context).Deadline()
			deadlines <- ok
		})

		reporter := newTestReporter(sink, 1)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		go reporter.Start(ctx)
		reporter.Report(record)

		select {
		case ok := <-deadlines:
			assert.True(t, ok)
		case <-time.After(5 * time.Second):
			t.Fatal("record never reached the sink")
		}
	})

	t.Run("Stops when the context is done", func(t *testing.T) {
		reporter := newTestReporter(&mockSink{}, 1)

		ctx, cancel := context.WithCancel(context.Background())
		stopped := make(chan struct{})

		go func() {
			reporter.Start(ctx)
			close(stopped)
		}()

		cancel()

		select {
		case <-stopped:
		case <-time.After(5 * time.Second):
			t.Fatal("reporter did not stop")
		}
	})
}

func TestScoreReporter_Report(t *testing.T) {
	// Given: a reporter whose worker is not running and a queue of one
	sink := &mockSink{}
	reporter := newTestReporter(sink, 1)

	// When: two wins are reported
	reporter.Report(entity.WinRecord{UserID: "u1"})
	reporter.Report(entity.WinRecord{UserID: "u2"})

	// Then: Report never blocks and the overflow is dropped
	require.Len(t, reporter.queue, 1)
	assert.Equal(t, "u1", (<-reporter.queue).UserID)
	sink.AssertNotCalled(t, "RecordWin", mock.Anything, mock.Anything)
}
