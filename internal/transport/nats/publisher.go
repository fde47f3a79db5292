package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
)

// Publisher is a score sink that hands win records to whoever listens on the subject.
type Publisher struct {
	conn    *nats.Conn
	subject string
}

func Connect(url string) (*nats.Conn, error) {
	conn, err := nats.Connect(
		url,
		nats.Name("tictactoe-rooms"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
		nats.PingInterval(20*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}

	return conn, nil
}

func NewPublisher(conn *nats.Conn, subject string) *Publisher {
	return &Publisher{
		conn:    conn,
		subject: subject,
	}
}

// RecordWin publishes the record and waits until the server has seen it.
func (that *Publisher) RecordWin(ctx context.Context, record entity.WinRecord) error {
	if record.UserID == "" {
		return apperror.ErrUserIDRequired
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal win record: %w", err)
	}

	if err = that.conn.Publish(that.subject, data); err != nil {
		return fmt.Errorf("failed to publish win record: %w", err)
	}

	if err = that.conn.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("failed to flush win record: %w", err)
	}

	return nil
}
