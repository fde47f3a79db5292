package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/config"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/repository"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/service"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/transport/nats"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-rooms/transport/rest"
	"github.com/rocketscienceinc/tictactoe-rooms/transport/websocket"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

type scoreSink interface {
	RecordWin(ctx context.Context, record entity.WinRecord) error
}

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	sink, closeSink, err := newScoreSink(ctx, conf)
	if err != nil {
		return err
	}

	defer closeSink()

	reporter := service.NewScoreReporter(logger, sink, conf.Score.QueueSize, conf.Score.Timeout)
	go reporter.Start(ctx)

	rooms := repository.NewRoomRepository()
	manager := usecase.NewMatchManager(logger, rooms)
	wsServer := websocket.New(logger, manager, rooms, reporter, conf.Socket)

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := rest.Start(ctx, conf.HTTPPort, rest.NewHandlers(logger, wsServer)); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	// run Websocket server
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		if wsErr := wsServer.Start(ctx, conf.SocketPort); wsErr != nil {
			log.Error("WebSocket server error", "error", wsErr)
			wsErrCh <- wsErr
		}
	}()

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case err = <-wsErrCh:
		return fmt.Errorf("WebSocket server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}

// newScoreSink connects to the configured score store. The returned func releases it.
func newScoreSink(ctx context.Context, conf *config.Config) (scoreSink, func(), error) {
	if conf.Score.Sink == config.SinkNATS {
		conn, err := nats.Connect(conf.NATS.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("could not connect to nats: %w", err)
		}

		return nats.NewPublisher(conn, conf.NATS.Subject), conn.Close, nil
	}

	if conf.Redis.Host == "" {
		return nil, nil, ErrAddrNotFound
	}

	client := redis.NewClient(&redis.Options{Addr: conf.Redis.GetRedisAddr()})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
	}

	return repository.NewScoreRepository(client), func() { _ = client.Close() }, nil
}
