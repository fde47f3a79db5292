package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
)

// ScoreReporter hands finished wins to the external score store without holding up the game.
type ScoreReporter interface {
	// Report queues record and returns immediately. A full queue drops the record.
	Report(record entity.WinRecord)
	// Start drains the queue until ctx is done.
	Start(ctx context.Context)
}

type scoreSink interface {
	RecordWin(ctx context.Context, record entity.WinRecord) error
}

type scoreReporter struct {
	logger  *slog.Logger
	sink    scoreSink
	queue   chan entity.WinRecord
	timeout time.Duration
}

func NewScoreReporter(logger *slog.Logger, sink scoreSink, queueSize int, timeout time.Duration) ScoreReporter {
	return newScoreReporter(logger, sink, queueSize, timeout)
}

func newScoreReporter(logger *slog.Logger, sink scoreSink, queueSize int, timeout time.Duration) *scoreReporter {
	if queueSize < 1 {
		queueSize = 1
	}

	return &scoreReporter{
		logger:  logger,
		sink:    sink,
		queue:   make(chan entity.WinRecord, queueSize),
		timeout: timeout,
	}
}

func (that *scoreReporter) Report(record entity.WinRecord) {
	select {
	case that.queue <- record:
	default:
		that.logger.Warn("score queue is full, win dropped",
			"method", "Report", "userID", record.UserID, "roomID", record.RoomID)
	}
}

func (that *scoreReporter) Start(ctx context.Context) {
	log := that.logger.With("method", "Start")

	log.Info("score reporter started")

	for {
		select {
		case <-ctx.Done():
			log.Info("score reporter stopped", "pending", len(that.queue))
			return
		case record := <-that.queue:
			that.send(ctx, record)
		}
	}
}

func (that *scoreReporter) send(ctx context.Context, record entity.WinRecord) {
	log := that.logger.With("method", "send", "userID", record.UserID, "roomID", record.RoomID)

	ctx, cancel := context.WithTimeout(ctx, that.timeout)
	defer cancel()

	if err := that.sink.RecordWin(ctx, record); err != nil {
		log.Error("failed to report win", "error", err)
		return
	}

	log.Debug("win reported")
}
