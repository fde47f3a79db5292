package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
)

const leaderboardKey = "leaderboard"

// ScoreRepository is the redis side of the external score store.
type ScoreRepository interface {
	RecordWin(ctx context.Context, record entity.WinRecord) error
	GetWins(ctx context.Context, userID string) (int, error)
	GetName(ctx context.Context, userID string) (string, error)
}

type dbScore struct {
	client *redis.Client
}

func NewScoreRepository(client *redis.Client) ScoreRepository {
	return &dbScore{
		client: client,
	}
}

// RecordWin bumps the user's leaderboard score and remembers the latest display name.
func (that *dbScore) RecordWin(ctx context.Context, record entity.WinRecord) error {
	if record.UserID == "" {
		return apperror.ErrUserIDRequired
	}

	pipe := that.client.TxPipeline()
	pipe.ZIncrBy(ctx, leaderboardKey, 1, record.UserID)
	pipe.HSet(ctx, playerKey(record.UserID), "name", record.Name)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record win: %w", err)
	}

	return nil
}

func (that *dbScore) GetWins(ctx context.Context, userID string) (int, error) {
	score, err := that.client.ZScore(ctx, leaderboardKey, userID).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}

	if err != nil {
		return 0, fmt.Errorf("failed to get wins: %w", err)
	}

	return int(score), nil
}

func (that *dbScore) GetName(ctx context.Context, userID string) (string, error) {
	name, err := that.client.HGet(ctx, playerKey(userID), "name").Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}

	if err != nil {
		return "", fmt.Errorf("failed to get player name: %w", err)
	}

	return name, nil
}

func playerKey(userID string) string {
	return "player:" + userID
}
