package nats_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/transport/nats"
	"github.com/rocketscienceinc/tictactoe-rooms/testing/suite"
)

const subject = "tictactoe.wins"

func TestPublisher_RecordWin(t *testing.T) {
	ctx, st := suite.NewBroker(t)

	publisher := nats.NewPublisher(st.Broker, subject)

	t.Run("Record reaches subscribers", func(t *testing.T) {
		// Given: a subscriber on the wins subject
		sub, err := st.Broker.SubscribeSync(subject)
		require.NoError(t, err)
		t.Cleanup(func() { _ = sub.Unsubscribe() })

		record := entity.WinRecord{UserID: "u1", Name: "alice", RoomID: "room-1"}

		// When: a win is recorded
		require.NoError(t, publisher.RecordWin(ctx, record))

		// Then: the subscriber receives it as JSON
		msg, err := sub.NextMsg(5 * time.Second)
		require.NoError(t, err)

		var got entity.WinRecord
		require.NoError(t, json.Unmarshal(msg.Data, &got))
		assert.Equal(t, record, got)
	})

	t.Run("Anonymous records are refused", func(t *testing.T) {
		err := publisher.RecordWin(ctx, entity.WinRecord{Name: "guest"})

		assert.ErrorIs(t, err, apperror.ErrUserIDRequired)
	})
}
